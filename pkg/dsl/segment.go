package dsl

import (
	"net/url"

	"github.com/assetnote/kitedsl/pkg/http"
	"github.com/assetnote/kitedsl/pkg/json"
)

// Segment is one step of a generated call chain. Every step creates a new builder node below
// its parent, so segments are values that can be stored and extended freely.
//
//	type Pets struct{ dsl.Segment }
//
//	func (a *Api) Pets() Pets { return Pets{dsl.Plain(a.Segment, "pets")} }
//	func (p Pets) Pet(id int64) PetResource { return PetResource{dsl.Param(p.Segment, id)} }
type Segment struct {
	b *http.RequestBuilder
}

// NewRoot starts a chain bound to client
func NewRoot(client http.Client) Segment {
	return Segment{b: http.NewRequestBuilder(client)}
}

// Plain appends a literal path element
func Plain(parent Segment, element string) Segment {
	b := parent.child()
	b.AppendPathElement(element)
	return Segment{b: b}
}

// Param appends a path parameter. The value is rendered with its String method or fmt and
// escaped, so a value containing a slash stays one path element
func Param(parent Segment, value interface{}) Segment {
	b := parent.child()
	b.AppendPathElement(url.PathEscape(json.PlainString(value)))
	return Segment{b: b}
}

// WithHeader adds value to the header for every request made below this segment
func (s Segment) WithHeader(name, value string) Segment {
	b := s.child()
	b.AddHeader(name, value)
	return Segment{b: b}
}

// WithHeaderSet replaces the header for every request made below this segment
func (s Segment) WithHeaderSet(name string, values ...string) Segment {
	b := s.child()
	b.SetHeader(name, values...)
	return Segment{b: b}
}

// Builder is the node of this segment. Generated code should only read from it
func (s Segment) Builder() *http.RequestBuilder {
	if s.b == nil {
		return http.NewRequestBuilder(nil)
	}
	return s.b
}

func (s Segment) child() *http.RequestBuilder {
	return s.Builder().Child()
}

func (s Segment) String() string {
	return s.Builder().String()
}
