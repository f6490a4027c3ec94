package dsl

import (
	"context"
	"reflect"
	"strings"

	"github.com/assetnote/kitedsl/pkg/http"
	"github.com/assetnote/kitedsl/pkg/json"
	"github.com/assetnote/kitedsl/pkg/log"
)

const (
	headerAccept      = "Accept"
	headerContentType = "Content-Type"

	formURLEncoded = "application/x-www-form-urlencoded"
)

// NoBody is the body type of methods that never send one
type NoBody struct{}

// MethodOptions describes everything a generated method passes besides its body.
// Nil maps and empty strings mean absent
type MethodOptions struct {
	Query map[string]http.HTTPParam
	// QueryString is a typed query string object, its top level fields are added to Query
	// unless Query already holds the key
	QueryString interface{}
	Form        map[string]http.HTTPParam
	Multipart   []http.BodyPart
	Binary      http.BinaryRequest

	// Accept and ContentType are set unless the chain already set the header
	Accept      string
	ContentType string

	// PrimitiveBody sends the body with its plain string form instead of JSON
	PrimitiveBody bool
	// CanonicalContentType is the type the body is encoded as, it defaults to the body's own type
	CanonicalContentType string
	// CanonicalResponseType is the type a 2xx response is decoded into, see json.ParseBody
	CanonicalResponseType string
}

// MethodSegment is the terminal step of a call chain. Creating one folds the chain, fills in
// method, parameters and default headers and renders the body. Any failure doing so is held
// and returned by the call, nothing is sent in that case.
type MethodSegment[B any] struct {
	builder *http.RequestBuilder
	body    *string
	opts    MethodOptions
	err     error
}

func newMethodSegment[B any](parent Segment, method http.Method, body B, opts MethodOptions) *MethodSegment[B] {
	m := &MethodSegment[B]{opts: opts}

	b := parent.Builder().Fold()
	b.SetMethod(method)
	m.builder = b

	query := http.RemoveNullParams(opts.Query)
	b.SetQueryParameters(query)
	b.SetFormParameters(http.RemoveNullParams(opts.Form))
	b.SetMultipartParams(opts.Multipart)
	b.SetBinaryRequest(opts.Binary)

	headers := b.Headers()
	if opts.Accept != "" && !headers.HasKey(headerAccept) {
		headers.AddHeader(headerAccept, opts.Accept)
	}
	if opts.ContentType != "" && !headers.HasKey(headerContentType) {
		headers.AddHeader(headerContentType, opts.ContentType)
	}

	client := b.Client()
	if client == nil {
		m.err = http.ErrNoClient
		return m
	}
	if cfg := client.Config(); cfg != nil {
		applyRequestCharset(headers, cfg.RequestCharset)
	}

	codec := client.Codec()
	if codec == nil {
		codec = json.NewCodec()
	}
	if opts.QueryString != nil {
		values, err := codec.ToQueryValues(opts.QueryString)
		if err != nil {
			m.err = err
			return m
		}
		for k, vs := range values {
			if _, ok := query[k]; !ok {
				query[k] = http.RepeatedParam(vs)
			}
		}
	}

	m.body, m.err = m.renderBody(codec, body)
	log.Trace().Object("builder", b).Bool("body", m.body != nil).Err(m.err).Msg("built method segment")
	return m
}

// renderBody applies the body policy: primitives use their plain string form, a form url
// encoded request without form parameters sends the body fields as the form, anything else is
// JSON of the canonical content type
func (m *MethodSegment[B]) renderBody(codec *json.Codec, body B) (*string, error) {
	v := interface{}(body)
	if isAbsent(v) {
		return nil, nil
	}
	if m.opts.PrimitiveBody {
		s := json.PlainString(v)
		return &s, nil
	}

	if len(m.builder.FormParameters()) == 0 && isFormURLEncoded(m.builder.Headers()) {
		form, err := codec.ToFormURLEncoded(v)
		if err != nil {
			return nil, err
		}
		params := make(map[string]http.HTTPParam, len(form))
		for k, fv := range form {
			params[k] = http.NewSimpleParam(fv)
		}
		m.builder.SetFormParameters(params)
		return nil, nil
	}

	canonical := m.opts.CanonicalContentType
	if canonical == "" {
		canonical = json.CanonicalName(reflect.TypeOf(v))
	}
	s, err := codec.WriteBodyToString(v, canonical)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Builder is the folded request. It is only meant to be inspected
func (m *MethodSegment[B]) Builder() *http.RequestBuilder {
	return m.builder
}

// Body is the rendered string body, nil when none is sent
func (m *MethodSegment[B]) Body() *string {
	return m.body
}

// Err is the failure preparing the request, if any
func (m *MethodSegment[B]) Err() error {
	return m.err
}

// applyRequestCharset appends the charset to the first Content-Type value. Nothing is done
// when a value already names a charset or is an octet stream
func applyRequestCharset(headers *http.HeaderMap, charset string) {
	values := headers.Values(headerContentType)
	if charset == "" || len(values) == 0 {
		return
	}
	for _, v := range values {
		lv := strings.ToLower(v)
		if strings.Contains(lv, "charset") || strings.Contains(lv, "octet-stream") {
			return
		}
	}
	values[0] = values[0] + "; charset=" + charset
	headers.SetHeader(headerContentType, values...)
}

func isFormURLEncoded(headers *http.HeaderMap) bool {
	for _, v := range headers.Values(headerContentType) {
		if strings.Contains(strings.ToLower(v), formURLEncoded) {
			return true
		}
	}
	return false
}

// isAbsent reports whether a body is missing: nil, a nil pointer, map or slice, or NoBody
func isAbsent(v interface{}) bool {
	if v == nil {
		return true
	}
	if _, ok := v.(NoBody); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// StringMethodSegment returns the response body as text
type StringMethodSegment[B any] struct {
	*MethodSegment[B]
}

func NewStringMethodSegment[B any](parent Segment, method http.Method, body B, opts MethodOptions) *StringMethodSegment[B] {
	return &StringMethodSegment[B]{newMethodSegment(parent, method, body, opts)}
}

func (s *StringMethodSegment[B]) Call(ctx context.Context) (*http.Response[string], error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.builder.CallToStringResponse(ctx, s.body)
}

// CallAsync sends the request on its own goroutine
func (s *StringMethodSegment[B]) CallAsync(ctx context.Context) *http.Future[*http.Response[string]] {
	return http.Go(ctx, s.Call)
}

// TypeMethodSegment decodes a 2xx response body into R
type TypeMethodSegment[B, R any] struct {
	*MethodSegment[B]
}

func NewTypeMethodSegment[B, R any](parent Segment, method http.Method, body B, opts MethodOptions) *TypeMethodSegment[B, R] {
	return &TypeMethodSegment[B, R]{newMethodSegment(parent, method, body, opts)}
}

func (s *TypeMethodSegment[B, R]) Call(ctx context.Context) (*http.Response[R], error) {
	if s.err != nil {
		return nil, s.err
	}
	return http.CallToTypeResponse[R](ctx, s.builder, s.body, s.opts.CanonicalResponseType)
}

func (s *TypeMethodSegment[B, R]) CallAsync(ctx context.Context) *http.Future[*http.Response[R]] {
	return http.Go(ctx, s.Call)
}

// BinaryMethodSegment returns the response body untouched
type BinaryMethodSegment[B any] struct {
	*MethodSegment[B]
}

func NewBinaryMethodSegment[B any](parent Segment, method http.Method, body B, opts MethodOptions) *BinaryMethodSegment[B] {
	return &BinaryMethodSegment[B]{newMethodSegment(parent, method, body, opts)}
}

func (s *BinaryMethodSegment[B]) Call(ctx context.Context) (*http.Response[http.BinaryData], error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.builder.CallToBinaryResponse(ctx, s.body)
}

func (s *BinaryMethodSegment[B]) CallAsync(ctx context.Context) *http.Future[*http.Response[http.BinaryData]] {
	return http.Go(ctx, s.Call)
}
