package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/assetnote/kitedsl/pkg/json"
	"github.com/rs/zerolog"
)

// Response is what a call returns. StringBody is the raw body as text when the call produced
// one, Body is the body in its requested form: the same string, the raw bytes, or a parsed value.
// Non 2xx responses are responses, not errors, and only 2xx bodies are ever parsed.
type Response[T any] struct {
	Status     int
	Headers    *HeaderMap
	StringBody *string
	Body       T

	// Took is the time from writing the request to reading the full body, redirects included
	Took time.Duration
}

func (r *Response[T]) IsOK() bool {
	return r.Status >= 200 && r.Status < 300
}

func (r *Response[T]) String() string {
	if r == nil {
		return ""
	}
	n := 0
	if r.StringBody != nil {
		n = len(*r.StringBody)
	}
	return fmt.Sprintf("(%d) %d", n, r.Status)
}

func (r *Response[T]) MarshalZerologObject(e *zerolog.Event) {
	e.Int("sc", r.Status).
		Dur("took", r.Took)
	if r.StringBody != nil {
		e.Int("len", len(*r.StringBody))
	}
}

// ParseResponse converts a string response into a typed one. The body is parsed only for 2xx
// responses with a non blank body, otherwise Body stays the zero value. On a parse failure the
// returned response still carries the status and raw body. A nil codec parses with a fresh
// codec without registered types
func ParseResponse[R any](codec *json.Codec, resp *Response[string], canonicalResponseType string) (*Response[R], error) {
	ret := &Response[R]{
		Status:     resp.Status,
		Headers:    resp.Headers,
		StringBody: resp.StringBody,
		Took:       resp.Took,
	}
	if !resp.IsOK() || resp.StringBody == nil || strings.TrimSpace(*resp.StringBody) == "" {
		return ret, nil
	}
	if codec == nil {
		codec = json.NewCodec()
	}
	v, err := json.ParseBody[R](codec, *resp.StringBody, canonicalResponseType)
	if err != nil {
		return ret, err
	}
	ret.Body = v
	return ret, nil
}

// MapResponse converts the body of resp with fn, keeping status and headers
func MapResponse[T, U any](resp *Response[T], fn func(T) U) *Response[U] {
	return &Response[U]{
		Status:     resp.Status,
		Headers:    resp.Headers,
		StringBody: resp.StringBody,
		Body:       fn(resp.Body),
		Took:       resp.Took,
	}
}
