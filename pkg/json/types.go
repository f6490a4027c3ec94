package json

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// TypeRegistry maps canonical type names onto runtime types. Generated code registers
// every transfer object once during init, then hands the registry to NewCodec.
// The registry itself is not safe for concurrent mutation, the codec takes a snapshot.
type TypeRegistry struct {
	types map[string]reflect.Type
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]reflect.Type)}
}

// Register adds each value's type under its CanonicalName
//
//	r.Register(pets.Dog{}, []pets.Animal{}, map[string]*pets.Cat{})
func (r *TypeRegistry) Register(vs ...interface{}) *TypeRegistry {
	for _, v := range vs {
		t := reflect.TypeOf(v)
		r.types[CanonicalName(t)] = t
	}
	return r
}

// RegisterAs adds the type of v under an explicit name. Use this for names that do not
// follow CanonicalName, e.g. the ones emitted from an API document
func (r *TypeRegistry) RegisterAs(name string, v interface{}) *TypeRegistry {
	r.types[name] = reflect.TypeOf(v)
	return r
}

// RegisterType adds t under its CanonicalName. This is the only way to register an interface type
func (r *TypeRegistry) RegisterType(t reflect.Type) *TypeRegistry {
	r.types[CanonicalName(t)] = t
	return r
}

func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

func (r *TypeRegistry) Len() int {
	return len(r.types)
}

func (r *TypeRegistry) clone() map[string]reflect.Type {
	ret := make(map[string]reflect.Type, len(r.types))
	for k, v := range r.types {
		ret[k] = v
	}
	return ret
}

// CanonicalName returns the fully qualified name of t. Named types use their import path,
// composite types are spelled out recursively:
//
//	github.com/acme/pets.Dog
//	[]github.com/acme/pets.Animal
//	map[string]*github.com/acme/pets.Cat
func CanonicalName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Name() != "" {
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		return t.Name()
	}
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + CanonicalName(t.Elem())
	case reflect.Slice:
		return "[]" + CanonicalName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + CanonicalName(t.Elem())
	case reflect.Map:
		return "map[" + CanonicalName(t.Key()) + "]" + CanonicalName(t.Elem())
	}
	// anonymous structs, funcs and the like
	return t.String()
}

var builtinTypes = map[string]reflect.Type{
	"bool":    reflect.TypeOf(false),
	"string":  reflect.TypeOf(""),
	"int":     reflect.TypeOf(int(0)),
	"int8":    reflect.TypeOf(int8(0)),
	"int16":   reflect.TypeOf(int16(0)),
	"int32":   reflect.TypeOf(int32(0)),
	"int64":   reflect.TypeOf(int64(0)),
	"uint":    reflect.TypeOf(uint(0)),
	"uint8":   reflect.TypeOf(uint8(0)),
	"uint16":  reflect.TypeOf(uint16(0)),
	"uint32":  reflect.TypeOf(uint32(0)),
	"uint64":  reflect.TypeOf(uint64(0)),
	"float32": reflect.TypeOf(float32(0)),
	"float64": reflect.TypeOf(float64(0)),
}

var anyType = reflect.TypeOf((*interface{})(nil)).Elem()

// resolveType turns a canonical name back into a type. Registered names win, builtins
// and composites of resolvable names are derived on the fly
func resolveType(types map[string]reflect.Type, name string) (reflect.Type, error) {
	name = strings.TrimSpace(name)
	if t, ok := types[name]; ok {
		return t, nil
	}
	if t, ok := builtinTypes[name]; ok {
		return t, nil
	}

	switch {
	case name == "":
		return nil, fmt.Errorf("empty type name")
	case name == "any" || name == "interface {}":
		return anyType, nil
	case strings.HasPrefix(name, "*"):
		elem, err := resolveType(types, name[1:])
		if err != nil {
			return nil, err
		}
		return reflect.PtrTo(elem), nil
	case strings.HasPrefix(name, "[]"):
		elem, err := resolveType(types, name[2:])
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	case strings.HasPrefix(name, "map["):
		end := matchingBracket(name, len("map"))
		if end < 0 {
			return nil, fmt.Errorf("unbalanced brackets in %q", name)
		}
		key, err := resolveType(types, name[len("map["):end])
		if err != nil {
			return nil, err
		}
		if !key.Comparable() {
			return nil, fmt.Errorf("invalid map key type %s in %q", key, name)
		}
		elem, err := resolveType(types, name[end+1:])
		if err != nil {
			return nil, err
		}
		return reflect.MapOf(key, elem), nil
	case strings.HasPrefix(name, "["):
		end := matchingBracket(name, 0)
		if end < 0 {
			return nil, fmt.Errorf("unbalanced brackets in %q", name)
		}
		n, err := strconv.Atoi(name[1:end])
		if err != nil {
			return nil, fmt.Errorf("invalid array length in %q: %w", name, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative array length in %q", name)
		}
		elem, err := resolveType(types, name[end+1:])
		if err != nil {
			return nil, err
		}
		return reflect.ArrayOf(n, elem), nil
	}
	return nil, fmt.Errorf("unknown type %q. was it registered with the codec?", name)
}

// matchingBracket returns the index of the ] closing the [ at open
func matchingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
