package http

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"
)

const (
	headerContentType = "Content-Type"
	formURLEncoded    = "application/x-www-form-urlencoded"
)

// preparedRequest is a folded builder resolved against a target, ready for any transport
type preparedRequest struct {
	method  Method
	uri     string
	host    string
	headers *HeaderMap
	body    []byte
}

// prepareRequest resolves b against the target. Default headers are applied first and
// every header the builder carries replaces the default of the same name.
//
// At most one body is sent, in this order of precedence: multipart parts, the binary
// request, the form parameters url encoded, then body.
func prepareRequest(t *Target, defaults *HeaderMap, b *RequestBuilder, body *string) (*preparedRequest, error) {
	b = b.Fold()

	req := &preparedRequest{
		method:  b.Method().orDefault(),
		uri:     t.URL(b.RelativePath(), encodeParams(b.QueryParameters()).Encode()),
		host:    t.Host(),
		headers: defaults.Clone(),
	}
	b.Headers().Each(func(name string, values []string) {
		req.headers.SetHeader(name, values...)
	})

	switch {
	case len(b.MultipartParams()) > 0:
		data, contentType, err := encodeMultipart(b.MultipartParams())
		if err != nil {
			return nil, err
		}
		req.body = data
		// the boundary must match the body, so whatever was asked for is replaced
		req.headers.SetHeader(headerContentType, contentType)
	case b.BinaryRequest() != nil:
		data, err := b.BinaryRequest().Bytes()
		if err != nil {
			return nil, err
		}
		req.body = data
	case len(b.FormParameters()) > 0:
		req.body = []byte(encodeParams(b.FormParameters()).Encode())
		if !req.headers.HasKey(headerContentType) {
			req.headers.SetHeader(headerContentType, formURLEncoded)
		}
	case body != nil:
		req.body = []byte(*body)
	}
	return req, nil
}

// writeFastRequest will populate dst with the prepared request. Header names are written as given
func (r *preparedRequest) writeFastRequest(dst *fasthttp.Request) {
	dst.Header.DisableNormalizing()
	dst.SetRequestURI(r.uri)
	dst.Header.SetMethod(string(r.method))
	dst.Header.SetHost(r.host)
	r.headers.Each(func(name string, values []string) {
		for i, v := range values {
			if i == 0 {
				dst.Header.Set(name, v)
				continue
			}
			dst.Header.Add(name, v)
		}
	})
	if len(r.body) > 0 {
		dst.SetBody(r.body)
	}
}

func (r *preparedRequest) String() string {
	return fmt.Sprintf("%s %s", r.method, r.uri)
}

// isTextual reports whether a response with this content type can be turned into a string body
func isTextual(contentType string) bool {
	ct := strings.ToLower(contentType)
	return ct == "" ||
		strings.HasPrefix(ct, "text/") ||
		strings.Contains(ct, "json") ||
		strings.Contains(ct, "xml") ||
		strings.Contains(ct, "charset=") ||
		strings.HasPrefix(ct, formURLEncoded)
}
