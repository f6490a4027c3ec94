package http

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// memoryServer echoes the request back in response headers, the body is echoed as is
func memoryServer(t testing.TB) *fasthttputil.InmemoryListener {
	ln := fasthttputil.NewInmemoryListener()
	s := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			switch string(ctx.Path()) {
			case "/v2/redirect":
				ctx.Response.Header.Set("Location", "/v2/pets")
				ctx.SetStatusCode(fasthttp.StatusFound)
				return
			case "/v2/seeother":
				ctx.Response.Header.Set("Location", "/v2/echo")
				ctx.SetStatusCode(fasthttp.StatusSeeOther)
				return
			case "/v2/missing":
				ctx.SetStatusCode(fasthttp.StatusNotFound)
				ctx.SetBodyString("nope")
				return
			case "/v2/pet":
				ctx.SetContentType("application/json")
				ctx.SetBodyString(`{"name":"rex"}`)
				return
			case "/v2/latin1":
				ctx.SetContentType("text/plain; charset=ISO-8859-1")
				ctx.SetBody([]byte{'c', 'a', 'f', 0xE9})
				return
			case "/v2/legacy":
				ctx.SetContentType("text/plain")
				ctx.SetBody([]byte{'c', 'a', 'f', 0xE9})
				return
			case "/v2/image":
				ctx.SetContentType("image/png")
				ctx.SetBody([]byte{0x89, 'P', 'N', 'G'})
				return
			}
			ctx.Response.Header.Set("X-Method", string(ctx.Method()))
			ctx.Response.Header.Set("X-Path", string(ctx.Path()))
			ctx.Response.Header.Set("X-Query", string(ctx.QueryArgs().QueryString()))
			ctx.Response.Header.Set("X-Content-Type", string(ctx.Request.Header.ContentType()))
			ctx.Response.Header.Set("X-Trace", string(ctx.Request.Header.Peek("X-Trace")))
			ctx.Response.Header.Set("X-Auth", string(ctx.Request.Header.Peek("Authorization")))
			ctx.Response.Header.Set("X-User-Agent", string(ctx.Request.Header.UserAgent()))
			ctx.SetBody(ctx.PostBody())
		},
	}
	go s.Serve(ln)
	return ln
}

func memoryClient(t testing.TB, ln *fasthttputil.InmemoryListener, cfg *Config) *transportClient {
	c, err := newFastClient("pets.example", 80, "http", "/v2", cfg, map[string]string{
		"Authorization": "Bearer default",
		"X-Trace":       "default",
	})
	require.NoError(t, err)
	c.rt.(*fastTripper).hc.Dial = func(addr string) (net.Conn, error) {
		return ln.Dial()
	}
	return c
}

func TestFastClient_CallToStringResponse(t *testing.T) {
	ln := memoryServer(t)
	defer ln.Close()
	c := memoryClient(t, ln, NewDefaultConfig(Timeout(time.Second)))

	b := NewRequestBuilder(c)
	b.AppendPathElement("echo").
		SetMethod(PUT).
		AddQueryParameter("limit", NewSimpleParam(10)).
		AddQueryParameter("tags", NewRepeatedParam("a", "b"))
	leaf := b.Child().SetHeader("X-Trace", "request").AddHeader("Content-Type", "text/plain")

	body := "hello"
	resp, err := leaf.Fold().CallToStringResponse(context.Background(), &body)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.Status)
	assert.True(t, resp.IsOK())
	assert.Equal(t, "hello", resp.Body)
	assert.Equal(t, "hello", *resp.StringBody)
	assert.Equal(t, "PUT", resp.Headers.First("X-Method"))
	assert.Equal(t, "/v2/echo", resp.Headers.First("X-Path"))
	assert.Equal(t, "limit=10&tags=a&tags=b", resp.Headers.First("X-Query"))
	assert.Equal(t, "text/plain", resp.Headers.First("X-Content-Type"))
	// request headers win over defaults, untouched defaults are still sent
	assert.Equal(t, "request", resp.Headers.First("X-Trace"))
	assert.Equal(t, "Bearer default", resp.Headers.First("X-Auth"))
	assert.Equal(t, "", resp.Headers.First("X-User-Agent"))
}

func TestFastClient_FormBody(t *testing.T) {
	ln := memoryServer(t)
	defer ln.Close()
	c := memoryClient(t, ln, nil)

	b := NewRequestBuilder(c).
		AppendPathElement("echo").
		SetMethod(POST).
		AddFormParameter("name", NewSimpleParam("rex the dog")).
		AddFormParameter("age", NewSimpleParam(3))

	// form parameters take precedence over a string body
	body := "ignored"
	resp, err := b.Fold().CallToStringResponse(context.Background(), &body)
	require.NoError(t, err)
	assert.Equal(t, "age=3&name=rex+the+dog", resp.Body)
	assert.Equal(t, formURLEncoded, resp.Headers.First("X-Content-Type"))
}

func TestFastClient_MultipartBody(t *testing.T) {
	ln := memoryServer(t)
	defer ln.Close()
	c := memoryClient(t, ln, nil)

	b := NewRequestBuilder(c).
		AppendPathElement("echo").
		SetMethod(POST).
		SetHeader("Content-Type", "multipart/form-data").
		AddMultipartParameter(StringPart{Name: "name", Value: "rex"})

	resp, err := b.Fold().CallToStringResponse(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Headers.First("X-Content-Type"), "multipart/form-data; boundary="))
	assert.Contains(t, resp.Body, `name="name"`)
	assert.Contains(t, resp.Body, "rex")
}

func TestFastClient_Redirects(t *testing.T) {
	ln := memoryServer(t)
	defer ln.Close()

	c := memoryClient(t, ln, nil)
	b := NewRequestBuilder(c).AppendPathElement("redirect")
	resp, err := b.Fold().CallToStringResponse(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "/v2/pets", resp.Headers.First("X-Path"))

	// 303 turns the request into a GET without a body
	body := "payload"
	b = NewRequestBuilder(c).AppendPathElement("seeother").SetMethod(POST)
	resp, err = b.Fold().CallToStringResponse(context.Background(), &body)
	require.NoError(t, err)
	assert.Equal(t, "GET", resp.Headers.First("X-Method"))
	assert.Equal(t, "/v2/echo", resp.Headers.First("X-Path"))
	assert.Equal(t, "", resp.Body)

	c = memoryClient(t, ln, NewDefaultConfig(MaxRedirects(0)))
	b = NewRequestBuilder(c).AppendPathElement("redirect")
	resp, err = b.Fold().CallToStringResponse(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 302, resp.Status)
	assert.Equal(t, "/v2/pets", resp.Headers.First("Location"))
}

func TestFastClient_NotFound(t *testing.T) {
	ln := memoryServer(t)
	defer ln.Close()
	c := memoryClient(t, ln, nil)

	b := NewRequestBuilder(c).AppendPathElement("missing")
	resp, err := CallToTypeResponse[pet](context.Background(), b, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 404, resp.Status)
	assert.False(t, resp.IsOK())
	assert.Equal(t, "nope", *resp.StringBody)
	assert.Equal(t, pet{}, resp.Body)
}

func TestFastClient_CallToTypeResponse(t *testing.T) {
	ln := memoryServer(t)
	defer ln.Close()
	c := memoryClient(t, ln, nil)

	b := NewRequestBuilder(c).AppendPathElement("pet")
	resp, err := CallToTypeResponse[pet](context.Background(), b, nil, "")
	require.NoError(t, err)
	assert.Equal(t, pet{Name: "rex"}, resp.Body)
}

func TestFastClient_CallToBinaryResponse(t *testing.T) {
	ln := memoryServer(t)
	defer ln.Close()
	c := memoryClient(t, ln, nil)

	resp, err := NewRequestBuilder(c).AppendPathElement("image").CallToBinaryResponse(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, BinaryData{0x89, 'P', 'N', 'G'}, resp.Body)
	assert.Nil(t, resp.StringBody)

	b := NewRequestBuilder(c).AppendPathElement("echo").SetMethod(POST).SetBinaryRequest(BytesBinaryRequest("raw"))
	resp, err = b.CallToBinaryResponse(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "raw", resp.Body.String())
}

func TestFastClient_CancelledContext(t *testing.T) {
	ln := memoryServer(t)
	defer ln.Close()
	c := memoryClient(t, ln, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRequestBuilder(c).AppendPathElement("echo").CallToStringResponse(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFastClient_ResponseCharset(t *testing.T) {
	ln := memoryServer(t)
	defer ln.Close()
	c := memoryClient(t, ln, nil)

	resp, err := NewRequestBuilder(c).AppendPathElement("latin1").CallToStringResponse(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "café", resp.Body)

	bresp, err := NewRequestBuilder(c).AppendPathElement("latin1").CallToBinaryResponse(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, BinaryData{'c', 'a', 'f', 0xE9}, bresp.Body)
	assert.Equal(t, "café", *bresp.StringBody)

	// no charset on the response, the configured one applies
	legacy := memoryClient(t, ln, NewDefaultConfig(ResponseCharset("windows-1252")))
	resp, err = NewRequestBuilder(legacy).AppendPathElement("legacy").CallToStringResponse(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "café", resp.Body)
}
