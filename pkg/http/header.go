package http

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
)

// Header encapsulates a header key value entry
type Header struct {
	Key   string
	Value string
}

type Headers []Header

func (rr Headers) MarshalZerologArray(a *zerolog.Array) {
	for _, u := range rr {
		a.Object(u)
	}
}

func (h Header) MarshalZerologObject(e *zerolog.Event) {
	e.Str("k", h.Key).
		Str("v", h.Value)
}

func (h *Header) AppendBytes(b []byte) []byte {
	b = append(b, h.Key...)
	b = append(b, ": "...)
	b = append(b, h.Value...)
	return b
}

func (h *Header) Write(buf io.Writer) (int, error) {
	return buf.Write(h.AppendBytes(nil))
}

func (h *Header) String() string {
	w := bytebufferpool.Get()
	ret := string(h.AppendBytes(w.B))
	bytebufferpool.Put(w)
	return ret
}

// HeaderMap is an ordered mapping of header name to its values. Names are matched case
// insensitively, the spelling used the first time a name is seen is the one written out.
// Values for a name keep their insertion order. The zero value is ready to use.
type HeaderMap struct {
	names  []string
	values map[string][]string
}

func NewHeaderMap() *HeaderMap {
	return &HeaderMap{}
}

// HeaderMapFrom builds a map from single valued headers, e.g. client default headers.
// Names are added in sorted order so the output is stable
func HeaderMapFrom(in map[string]string) *HeaderMap {
	m := NewHeaderMap()
	for _, k := range sortedKeys(in) {
		m.AddHeader(k, in[k])
	}
	return m
}

func canonicalKey(name string) string {
	return strings.ToLower(name)
}

func (m *HeaderMap) init() {
	if m.values == nil {
		m.values = make(map[string][]string)
	}
}

// AddHeader appends value to the values of name, keeping the existing ones
func (m *HeaderMap) AddHeader(name, value string) {
	m.init()
	k := canonicalKey(name)
	if _, ok := m.values[k]; !ok {
		m.names = append(m.names, name)
	}
	m.values[k] = append(m.values[k], value)
}

// SetHeader replaces the values of name. Setting no values removes the header
func (m *HeaderMap) SetHeader(name string, values ...string) {
	if len(values) == 0 {
		m.Del(name)
		return
	}
	m.init()
	k := canonicalKey(name)
	if _, ok := m.values[k]; !ok {
		m.names = append(m.names, name)
	}
	m.values[k] = append([]string(nil), values...)
}

func (m *HeaderMap) Del(name string) {
	k := canonicalKey(name)
	if _, ok := m.values[k]; !ok {
		return
	}
	delete(m.values, k)
	for i, v := range m.names {
		if canonicalKey(v) == k {
			m.names = append(m.names[:i:i], m.names[i+1:]...)
			break
		}
	}
}

func (m *HeaderMap) HasKey(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[canonicalKey(name)]
	return ok
}

// Values returns a copy of the values held for name, nil if there are none
func (m *HeaderMap) Values(name string) []string {
	if m == nil {
		return nil
	}
	v, ok := m.values[canonicalKey(name)]
	if !ok {
		return nil
	}
	return append([]string(nil), v...)
}

// First returns the first value of name or the empty string
func (m *HeaderMap) First(name string) string {
	if m == nil {
		return ""
	}
	if v := m.values[canonicalKey(name)]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Keys returns the header names in insertion order
func (m *HeaderMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.names...)
}

func (m *HeaderMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Each calls fn for every name in insertion order
func (m *HeaderMap) Each(fn func(name string, values []string)) {
	if m == nil {
		return
	}
	for _, n := range m.names {
		fn(n, m.values[canonicalKey(n)])
	}
}

func (m *HeaderMap) Clone() *HeaderMap {
	ret := NewHeaderMap()
	m.Each(func(name string, values []string) {
		ret.SetHeader(name, values...)
	})
	return ret
}

// Headers flattens the map into one entry per value
func (m *HeaderMap) Headers() Headers {
	ret := make(Headers, 0, m.Len())
	m.Each(func(name string, values []string) {
		for _, v := range values {
			ret = append(ret, Header{Key: name, Value: v})
		}
	})
	return ret
}

func (m *HeaderMap) MarshalZerologArray(a *zerolog.Array) {
	m.Headers().MarshalZerologArray(a)
}

type HeaderOpKind int

const (
	HeaderAdd HeaderOpKind = iota
	HeaderSet
)

func (k HeaderOpKind) String() string {
	switch k {
	case HeaderAdd:
		return "add"
	case HeaderSet:
		return "set"
	}
	return "unknown"
}

// HeaderOp is a deferred header mutation. Builders record these instead of touching a header
// map, and the ops are replayed in order when the builder chain is folded
type HeaderOp struct {
	Kind   HeaderOpKind
	Name   string
	Values []string
}

func AddOp(name, value string) HeaderOp {
	return HeaderOp{Kind: HeaderAdd, Name: name, Values: []string{value}}
}

func SetOp(name string, values ...string) HeaderOp {
	return HeaderOp{Kind: HeaderSet, Name: name, Values: append([]string(nil), values...)}
}

func (o HeaderOp) Apply(m *HeaderMap) {
	switch o.Kind {
	case HeaderAdd:
		for _, v := range o.Values {
			m.AddHeader(o.Name, v)
		}
	case HeaderSet:
		m.SetHeader(o.Name, o.Values...)
	}
}

func (o HeaderOp) MarshalZerologObject(e *zerolog.Event) {
	e.Str("op", o.Kind.String()).
		Str("name", o.Name).
		Strs("values", o.Values)
}

// ReplayHeaderOps applies ops in order on top of a copy of base. base is left untouched
func ReplayHeaderOps(base *HeaderMap, ops []HeaderOp) *HeaderMap {
	ret := base.Clone()
	for _, o := range ops {
		o.Apply(ret)
	}
	return ret
}
