package json

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"reflect"

	errors2 "github.com/assetnote/kitedsl/pkg/errors"
	"github.com/francoispqt/gojay"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Codec is the JSON bridge between generated transfer objects and request/response bodies.
// A Codec is built once with NewCodec and is read-only afterwards, so a single instance can be
// shared by every client and goroutine without synchronisation.
type Codec struct {
	types           map[string]reflect.Type
	disallowUnknown bool
	useNumber       bool
}

type CodecOption func(*Codec)

// WithTypes snapshots the registry into the codec. Later changes to the registry are not seen
func WithTypes(r *TypeRegistry) CodecOption {
	return func(c *Codec) {
		for k, v := range r.clone() {
			c.types[k] = v
		}
	}
}

// DisallowUnknownFields makes parsing fail on fields the target type does not declare.
// The default is to ignore them so older clients keep working against newer services
func DisallowUnknownFields() CodecOption {
	return func(c *Codec) {
		c.disallowUnknown = true
	}
}

// UseNumber decodes numbers held in interface{} values as json.Number instead of float64
func UseNumber() CodecOption {
	return func(c *Codec) {
		c.useNumber = true
	}
}

func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{types: make(map[string]reflect.Type)}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Resolve returns the type registered or derivable for the canonical name
func (c *Codec) Resolve(canonicalType string) (reflect.Type, error) {
	return resolveType(c.types, canonicalType)
}

// WriteBodyToString renders a request body.
//
// Primitive values, enums over primitive kinds and bodies without a canonical type are written
// with their plain string form (a Stringer wins over fmt). Everything else is converted to the
// canonical type before encoding, which makes the declared type's MarshalJSON apply even when the
// caller only holds the value as an interface or an unnamed composite.
func (c *Codec) WriteBodyToString(body interface{}, canonicalType string) (string, error) {
	if body == nil {
		return "", nil
	}
	if canonicalType == "" || IsPrimitive(body) {
		return PlainString(body), nil
	}

	v := reflect.ValueOf(body)
	if canonicalType != CanonicalName(v.Type()) {
		t, err := c.Resolve(canonicalType)
		if err != nil {
			return "", &errors2.SerializationError{Op: "write", CanonicalType: canonicalType, Err: err}
		}
		switch {
		case t.Kind() == reflect.Interface && v.Type().Implements(t):
			// interface targets keep the dynamic value
		case v.Type().ConvertibleTo(t):
			body = v.Convert(t).Interface()
		default:
			return "", &errors2.SerializationError{
				Op:            "write",
				CanonicalType: canonicalType,
				Err:           fmt.Errorf("body of type %s cannot be written as %s", v.Type(), t),
			}
		}
	}

	data, err := c.encode(body)
	if err != nil {
		return "", &errors2.SerializationError{Op: "write", CanonicalType: canonicalType, Err: err}
	}
	return string(data), nil
}

// ParseBodyToObject decodes body into a fresh value of the canonical type and returns it
func (c *Codec) ParseBodyToObject(body string, canonicalType string) (interface{}, error) {
	t, err := c.Resolve(canonicalType)
	if err != nil {
		return nil, &errors2.SerializationError{Op: "parse", CanonicalType: canonicalType, Err: err}
	}
	ptr := reflect.New(t)
	if err := c.decode([]byte(body), ptr.Interface()); err != nil {
		return nil, &errors2.SerializationError{Op: "parse", CanonicalType: canonicalType, RawJSON: []byte(body), Err: err}
	}
	return ptr.Elem().Interface(), nil
}

// ParseBody decodes body into an R. The canonical type is only resolved when it names something
// other than R itself, typically a concrete implementation of an interface R.
func ParseBody[R any](c *Codec, body string, canonicalType string) (R, error) {
	var out R
	rt := reflect.TypeOf(&out).Elem()

	if canonicalType == "" || canonicalType == CanonicalName(rt) {
		if err := c.decode([]byte(body), &out); err != nil {
			return out, &errors2.SerializationError{Op: "parse", CanonicalType: canonicalType, RawJSON: []byte(body), Err: err}
		}
		return out, nil
	}

	v, err := c.ParseBodyToObject(body, canonicalType)
	if err != nil {
		return out, err
	}
	if v == nil {
		return out, nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(rt):
		reflect.ValueOf(&out).Elem().Set(rv)
	case rv.Type().ConvertibleTo(rt):
		reflect.ValueOf(&out).Elem().Set(rv.Convert(rt))
	default:
		return out, &errors2.SerializationError{
			Op:            "parse",
			CanonicalType: canonicalType,
			Err:           fmt.Errorf("parsed %s is not assignable to %s", rv.Type(), rt),
		}
	}
	return out, nil
}

// ToFormURLEncoded flattens the top level fields of body into form values. Strings are taken
// without their quotes, nested objects and arrays keep their JSON text and nulls are dropped.
func (c *Codec) ToFormURLEncoded(body interface{}) (map[string]string, error) {
	data, err := c.encode(body)
	if err != nil {
		return nil, &errors2.SerializationError{Op: "form", Err: err}
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, &errors2.SerializationError{
			Op:      "form",
			RawJSON: data,
			Err:     fmt.Errorf("form encoding needs a JSON object, got %s", res.Type),
		}
	}

	ret := make(map[string]string)
	res.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Null {
			return true
		}
		ret[key.String()] = value.String()
		return true
	})
	return ret, nil
}

// ToQueryValues flattens the top level fields of a typed query string object. Arrays of
// scalars become repeated values, nested objects keep their JSON text and nulls are dropped.
func (c *Codec) ToQueryValues(body interface{}) (map[string][]string, error) {
	data, err := c.encode(body)
	if err != nil {
		return nil, &errors2.SerializationError{Op: "query", Err: err}
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, &errors2.SerializationError{
			Op:      "query",
			RawJSON: data,
			Err:     fmt.Errorf("query string needs a JSON object, got %s", res.Type),
		}
	}

	ret := make(map[string][]string)
	res.ForEach(func(key, value gjson.Result) bool {
		switch {
		case value.Type == gjson.Null:
		case value.IsArray():
			var vs []string
			for _, e := range value.Array() {
				if e.Type != gjson.Null {
					vs = append(vs, e.String())
				}
			}
			if len(vs) > 0 {
				ret[key.String()] = vs
			}
		default:
			ret[key.String()] = []string{value.String()}
		}
		return true
	})
	return ret, nil
}

// RenderParam writes v as a single parameter value. A plain JSON string has its quotes removed,
// anything more complex stays JSON
func (c *Codec) RenderParam(v interface{}, canonicalType string) (string, error) {
	s, err := c.WriteBodyToString(v, canonicalType)
	if err != nil {
		return "", err
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var unquoted string
		if err := stdjson.Unmarshal([]byte(s), &unquoted); err == nil {
			return unquoted, nil
		}
		return s[1 : len(s)-1], nil
	}
	return s, nil
}

func (c *Codec) encode(v interface{}) ([]byte, error) {
	if m, ok := v.(gojay.MarshalerJSONObject); ok {
		data, err := gojay.MarshalJSONObject(m)
		return data, errors.Wrap(err, "failed to marshal gojay object")
	}
	data, err := stdjson.Marshal(v)
	return data, errors.Wrap(err, "failed to marshal body")
}

func (c *Codec) decode(data []byte, ptr interface{}) error {
	if u, ok := ptr.(gojay.UnmarshalerJSONObject); ok {
		return errors.Wrap(gojay.UnmarshalJSONObject(data, u), "failed to unmarshal gojay object")
	}
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	if c.disallowUnknown {
		dec.DisallowUnknownFields()
	}
	if c.useNumber {
		dec.UseNumber()
	}
	return errors.Wrap(dec.Decode(ptr), "failed to unmarshal body")
}
