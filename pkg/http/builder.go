package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/assetnote/kitedsl/pkg/log"
	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
)

var (
	ErrNoClient = fmt.Errorf("request builder has no client in its chain")
)

// RequestBuilder accumulates one step of a fluent call chain. Each step only carries its delta
// relative to its parent: a path element, a header op, a parameter. Fold walks the parents and
// produces the single flattened builder that is handed to the client.
//
// A builder never writes to its parent. Every step of a chain creates its own node with Child,
// so a partially built chain can be shared and extended in different directions safely.
// A single node is not safe for concurrent mutation.
type RequestBuilder struct {
	client    Client
	path      []string
	method    Method
	query     map[string]HTTPParam
	form      map[string]HTTPParam
	multipart []BodyPart
	binary    BinaryRequest

	// headers is only populated on folded builders. Chain nodes record headerOps instead
	headers   *HeaderMap
	headerOps []HeaderOp

	parent *RequestBuilder
}

// NewRequestBuilder creates a root builder bound to client. client may be nil when the
// client is attached further down the chain
func NewRequestBuilder(client Client) *RequestBuilder {
	return &RequestBuilder{
		client:  client,
		query:   make(map[string]HTTPParam),
		form:    make(map[string]HTTPParam),
		headers: NewHeaderMap(),
	}
}

// Child returns a new empty builder whose parent is b
func (b *RequestBuilder) Child() *RequestBuilder {
	c := NewRequestBuilder(nil)
	c.parent = b
	return c
}

// Fold merges the parent chain and this builder into a new builder without a parent.
//
// The parent is folded first, then this builder is overlaid on top: its client and method
// when set, its path elements appended, its query and form parameters inserted (overwriting
// keys set closer to the root), its multipart parts appended, its binary request when set, and
// finally its header ops replayed. The chain is left untouched, folding twice gives equal results,
// and folding an already folded builder returns a copy of it.
func (b *RequestBuilder) Fold() *RequestBuilder {
	folded := b.fold()
	log.Trace().Object("builder", folded).Msg("folded request builder")
	return folded
}

func (b *RequestBuilder) fold() *RequestBuilder {
	var folded *RequestBuilder
	if b.parent != nil {
		folded = b.parent.fold()
	} else {
		folded = NewRequestBuilder(nil)
	}

	if b.client != nil {
		folded.client = b.client
	}
	folded.path = append(folded.path, b.path...)
	if b.method != "" {
		folded.method = b.method
	}
	for k, v := range b.query {
		folded.query[k] = v
	}
	for k, v := range b.form {
		folded.form[k] = v
	}
	folded.multipart = append(folded.multipart, b.multipart...)
	if b.binary != nil {
		folded.binary = b.binary
	}
	// only folded builders hold headers directly, this makes folding one again lossless
	b.headers.Each(func(name string, values []string) {
		folded.headers.SetHeader(name, values...)
	})
	folded.headers = ReplayHeaderOps(folded.headers, b.headerOps)
	return folded
}

func (b *RequestBuilder) Client() Client {
	return b.client
}

func (b *RequestBuilder) SetClient(c Client) *RequestBuilder {
	b.client = c
	return b
}

func (b *RequestBuilder) Parent() *RequestBuilder {
	return b.parent
}

// Path returns a copy of this builder's own path elements
func (b *RequestBuilder) Path() []string {
	return append([]string(nil), b.path...)
}

func (b *RequestBuilder) AppendPathElement(element string) *RequestBuilder {
	b.path = append(b.path, element)
	return b
}

// RelativePath joins the path elements with a slash, without escaping
func (b *RequestBuilder) RelativePath() string {
	return strings.Join(b.path, "/")
}

func (b *RequestBuilder) Method() Method {
	return b.method
}

func (b *RequestBuilder) SetMethod(m Method) *RequestBuilder {
	b.method = m
	return b
}

func (b *RequestBuilder) QueryParameters() map[string]HTTPParam {
	return b.query
}

func (b *RequestBuilder) AddQueryParameter(key string, value HTTPParam) *RequestBuilder {
	b.query[key] = value
	return b
}

// SetQueryParameters replaces the query parameters. nil resets to an empty map
func (b *RequestBuilder) SetQueryParameters(params map[string]HTTPParam) *RequestBuilder {
	if params == nil {
		params = make(map[string]HTTPParam)
	}
	b.query = params
	return b
}

func (b *RequestBuilder) FormParameters() map[string]HTTPParam {
	return b.form
}

func (b *RequestBuilder) AddFormParameter(key string, value HTTPParam) *RequestBuilder {
	b.form[key] = value
	return b
}

// SetFormParameters replaces the form parameters. nil resets to an empty map
func (b *RequestBuilder) SetFormParameters(params map[string]HTTPParam) *RequestBuilder {
	if params == nil {
		params = make(map[string]HTTPParam)
	}
	b.form = params
	return b
}

func (b *RequestBuilder) MultipartParams() []BodyPart {
	return b.multipart
}

func (b *RequestBuilder) AddMultipartParameter(p BodyPart) *RequestBuilder {
	b.multipart = append(b.multipart, p)
	return b
}

func (b *RequestBuilder) SetMultipartParams(parts []BodyPart) *RequestBuilder {
	b.multipart = append([]BodyPart(nil), parts...)
	return b
}

func (b *RequestBuilder) BinaryRequest() BinaryRequest {
	return b.binary
}

func (b *RequestBuilder) SetBinaryRequest(r BinaryRequest) *RequestBuilder {
	b.binary = r
	return b
}

// Headers is the header map of a folded builder. On chain nodes it is empty, use HeaderOps
func (b *RequestBuilder) Headers() *HeaderMap {
	return b.headers
}

func (b *RequestBuilder) HeaderOps() []HeaderOp {
	return append([]HeaderOp(nil), b.headerOps...)
}

// AddHeader records an op appending value to the header when the chain is folded
func (b *RequestBuilder) AddHeader(name, value string) *RequestBuilder {
	b.headerOps = append(b.headerOps, AddOp(name, value))
	return b
}

// SetHeader records an op replacing the header values when the chain is folded
func (b *RequestBuilder) SetHeader(name string, values ...string) *RequestBuilder {
	b.headerOps = append(b.headerOps, SetOp(name, values...))
	return b
}

// CallToStringResponse dispatches the builder through its client. body is nil when there is none
func (b *RequestBuilder) CallToStringResponse(ctx context.Context, body *string) (*Response[string], error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.CallToStringResponse(ctx, b, body)
}

func (b *RequestBuilder) CallToBinaryResponse(ctx context.Context, body *string) (*Response[BinaryData], error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.CallToBinaryResponse(ctx, b, body)
}

func (b *RequestBuilder) MarshalZerologObject(e *zerolog.Event) {
	e.Str("method", string(b.method)).
		Str("path", b.RelativePath()).
		Strs("query", sortedKeys(b.query)).
		Strs("form", sortedKeys(b.form)).
		Int("parts", len(b.multipart)).
		Bool("binary", b.binary != nil).
		Array("headers", b.headers)
	if len(b.headerOps) > 0 {
		e.Int("ops", len(b.headerOps))
	}
}

// AppendBytes writes a short human readable description of the builder
// e.g. POST pets/1/toys ?limit&offset {Accept: application/json}
func (b *RequestBuilder) AppendBytes(dst []byte) []byte {
	dst = append(dst, string(b.method.orDefault())...)
	dst = append(dst, " "...)
	dst = append(dst, b.RelativePath()...)
	if len(b.query) > 0 {
		dst = append(dst, " ?"...)
		dst = append(dst, strings.Join(sortedKeys(b.query), "&")...)
	}
	for _, h := range b.headers.Headers() {
		dst = append(dst, " {"...)
		dst = h.AppendBytes(dst)
		dst = append(dst, "}"...)
	}
	if b.parent != nil {
		dst = append(dst, " <- "...)
		dst = b.parent.AppendBytes(dst)
	}
	return dst
}

func (b *RequestBuilder) String() string {
	w := bytebufferpool.Get()
	ret := string(b.AppendBytes(w.B))
	bytebufferpool.Put(w)
	return ret
}
