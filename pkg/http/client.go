package http

import (
	"context"
	"fmt"
	"time"

	"github.com/assetnote/kitedsl/pkg/json"
	"github.com/assetnote/kitedsl/pkg/log"
	"github.com/segmentio/ksuid"
)

// Client executes folded builders against one target. Implementations are safe for
// concurrent use, the same client is normally shared by every chain of a generated api.
type Client interface {
	// CallToStringResponse sends the request and returns the body as text. body is nil when
	// the request has no string body
	CallToStringResponse(ctx context.Context, b *RequestBuilder, body *string) (*Response[string], error)
	// CallToBinaryResponse sends the request and returns the body bytes untouched
	CallToBinaryResponse(ctx context.Context, b *RequestBuilder, body *string) (*Response[BinaryData], error)

	Config() *Config
	Codec() *json.Codec
	// DefaultHeaders are sent with every request unless the request sets the same header
	DefaultHeaders() *HeaderMap
	Target() *Target

	Close() error
}

// CallToTypeResponse sends the request and parses a 2xx body into R. canonicalResponseType
// names the type to decode into when R is an interface, see json.ParseBody
func CallToTypeResponse[R any](ctx context.Context, b *RequestBuilder, body *string, canonicalResponseType string) (*Response[R], error) {
	c := b.Client()
	if c == nil {
		return nil, ErrNoClient
	}
	resp, err := c.CallToStringResponse(ctx, b, body)
	if err != nil {
		return nil, err
	}
	return ParseResponse[R](c.Codec(), resp, canonicalResponseType)
}

// rawResponse is what a transport read off the wire
type rawResponse struct {
	status  int
	headers *HeaderMap
	body    []byte
}

// roundTripper is the part of a client that differs per transport
type roundTripper interface {
	roundTrip(ctx context.Context, req *preparedRequest) (*rawResponse, error)
	close() error
}

// transportClient implements Client on top of any roundTripper
type transportClient struct {
	name           string
	target         *Target
	cfg            *Config
	defaultHeaders *HeaderMap
	rt             roundTripper
}

func (c *transportClient) Config() *Config {
	return c.cfg
}

func (c *transportClient) Codec() *json.Codec {
	return c.cfg.Codec
}

func (c *transportClient) DefaultHeaders() *HeaderMap {
	return c.defaultHeaders.Clone()
}

func (c *transportClient) Target() *Target {
	return c.target
}

func (c *transportClient) Close() error {
	return c.rt.close()
}

func (c *transportClient) String() string {
	return fmt.Sprintf("%s client %s", c.name, c.target)
}

// do prepares and sends the request, bounding it by the configured timeout
func (c *transportClient) do(ctx context.Context, b *RequestBuilder, body *string) (*rawResponse, time.Duration, error) {
	req, err := prepareRequest(c.target, c.defaultHeaders, b, body)
	if err != nil {
		return nil, 0, err
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	id := ksuid.New().String()
	log.Debug().Str("id", id).Str("transport", c.name).Str("method", string(req.method)).Str("uri", req.uri).Msg("sending request")

	start := time.Now()
	raw, err := c.rt.roundTrip(ctx, req)
	took := time.Since(start)
	if err != nil {
		log.Debug().Str("id", id).Err(err).Dur("took", took).Msg("request failed")
		return nil, took, err
	}
	log.Debug().Str("id", id).Int("sc", raw.status).Int("len", len(raw.body)).Dur("took", took).Msg("received response")
	return raw, took, nil
}

func (c *transportClient) CallToStringResponse(ctx context.Context, b *RequestBuilder, body *string) (*Response[string], error) {
	raw, took, err := c.do(ctx, b, body)
	if err != nil {
		return nil, err
	}
	s := string(raw.body)
	if ct := raw.headers.First(headerContentType); isTextual(ct) {
		s = string(decodeText(raw.body, ct, c.cfg.ResponseCharset))
	}
	return &Response[string]{
		Status:     raw.status,
		Headers:    raw.headers,
		StringBody: &s,
		Body:       s,
		Took:       took,
	}, nil
}

func (c *transportClient) CallToBinaryResponse(ctx context.Context, b *RequestBuilder, body *string) (*Response[BinaryData], error) {
	raw, took, err := c.do(ctx, b, body)
	if err != nil {
		return nil, err
	}
	ret := &Response[BinaryData]{
		Status:  raw.status,
		Headers: raw.headers,
		Body:    raw.body,
		Took:    took,
	}
	// a readable rendition is only kept for textual payloads, e.g. an error document
	if ct := raw.headers.First(headerContentType); isTextual(ct) {
		s := string(decodeText(raw.body, ct, c.cfg.ResponseCharset))
		ret.StringBody = &s
	}
	return ret, nil
}
