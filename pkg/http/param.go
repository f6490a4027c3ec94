package http

import (
	"net/url"
	"reflect"
	"sort"

	"github.com/assetnote/kitedsl/pkg/json"
)

// HTTPParam is a query, form or path value as it goes on the wire
type HTTPParam interface {
	Values() []string
	NonEmpty() bool
}

// SimpleParam holds one scalar rendered with its plain string form
type SimpleParam struct {
	value string
	set   bool
}

// NewSimpleParam renders v with its String method or fmt. A nil v yields an empty parameter
// that RemoveNullParams drops
func NewSimpleParam(v interface{}) SimpleParam {
	if v == nil {
		return SimpleParam{}
	}
	return SimpleParam{value: json.PlainString(v), set: true}
}

func (p SimpleParam) Values() []string {
	if !p.set {
		return nil
	}
	return []string{p.value}
}

func (p SimpleParam) NonEmpty() bool {
	return p.set
}

func (p SimpleParam) String() string {
	return p.value
}

// RepeatedParam is a list of scalars. The key is repeated once per value on the wire
type RepeatedParam []string

func NewRepeatedParam(vs ...interface{}) RepeatedParam {
	ret := make(RepeatedParam, 0, len(vs))
	for _, v := range vs {
		if v == nil {
			continue
		}
		ret = append(ret, json.PlainString(v))
	}
	return ret
}

func (p RepeatedParam) Values() []string {
	return append([]string(nil), p...)
}

func (p RepeatedParam) NonEmpty() bool {
	return len(p) > 0
}

// NewComplexParam renders v through the codec. A value serialising to a JSON string is sent
// without its quotes, objects and lists are sent as JSON text. An empty canonicalType encodes
// v as its own type
func NewComplexParam(codec *json.Codec, v interface{}, canonicalType string) (HTTPParam, error) {
	if v == nil {
		return SimpleParam{}, nil
	}
	if canonicalType == "" {
		canonicalType = json.CanonicalName(reflect.TypeOf(v))
	}
	s, err := codec.RenderParam(v, canonicalType)
	if err != nil {
		return nil, err
	}
	return SimpleParam{value: s, set: true}, nil
}

// RemoveNullParams returns a copy of params without nil or empty entries.
// A nil map yields an empty, non nil map
func RemoveNullParams(params map[string]HTTPParam) map[string]HTTPParam {
	ret := make(map[string]HTTPParam, len(params))
	for k, v := range params {
		if isNilParam(v) || !v.NonEmpty() {
			continue
		}
		ret[k] = v
	}
	return ret
}

// isNilParam also catches a nil pointer held in the interface, e.g. (*SimpleParam)(nil)
func isNilParam(p HTTPParam) bool {
	if p == nil {
		return true
	}
	rv := reflect.ValueOf(p)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// FromStrings is a convenience for callers holding plain string parameters
func FromStrings(in map[string]string) map[string]HTTPParam {
	ret := make(map[string]HTTPParam, len(in))
	for k, v := range in {
		ret[k] = SimpleParam{value: v, set: true}
	}
	return ret
}

// encodeParams writes params as url values, keys sorted so requests are reproducible
func encodeParams(params map[string]HTTPParam) url.Values {
	ret := make(url.Values, len(params))
	for _, k := range sortedKeys(params) {
		p := params[k]
		if isNilParam(p) {
			continue
		}
		for _, v := range p.Values() {
			ret.Add(k, v)
		}
	}
	return ret
}

func sortedKeys[V any](m map[string]V) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
