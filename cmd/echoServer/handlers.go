package main

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/assetnote/kitedsl/pkg/log"
	"github.com/fasthttp/router"
	"github.com/francoispqt/gojay"
	"github.com/valyala/fasthttp"
)

const (
	imageSize = 4096
)

var (
	requestCount count32
)

type count32 struct {
	val uint32
}

func (c *count32) increment() {
	atomic.AddUint32(&c.val, 1)
}

func (c *count32) get() uint32 {
	return atomic.LoadUint32(&c.val)
}

// echo is what EchoResponder sends back
type echo struct {
	Method  string
	Path    string
	Query   string
	Headers [][2]string
	Body    string
}

func (e *echo) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("method", e.Method)
	enc.StringKey("path", e.Path)
	enc.StringKeyOmitEmpty("query", e.Query)
	enc.ArrayKey("headers", headerPairs(e.Headers))
	enc.StringKeyOmitEmpty("body", e.Body)
}

func (e *echo) IsNil() bool { return e == nil }

type headerPairs [][2]string

func (h headerPairs) MarshalJSONArray(enc *gojay.Encoder) {
	for _, kv := range h {
		enc.String(kv[0] + ": " + kv[1])
	}
}

func (h headerPairs) IsNil() bool { return len(h) == 0 }

type pet struct {
	ID   int64
	Name string
}

func (p *pet) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Int64Key("id", p.ID)
	enc.StringKey("name", p.Name)
}

func (p *pet) IsNil() bool { return p == nil }

func writeJSON(ctx *fasthttp.RequestCtx, status int, v gojay.MarshalerJSONObject) {
	data, err := gojay.MarshalJSONObject(v)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

func Index(ctx *fasthttp.RequestCtx) {
	requestCount.increment()
	ctx.WriteString("Welcome!")
}

// EchoResponder writes the request back as json
func EchoResponder(ctx *fasthttp.RequestCtx) {
	requestCount.increment()

	e := &echo{
		Method: string(ctx.Method()),
		Path:   string(ctx.Path()),
		Query:  string(ctx.QueryArgs().QueryString()),
		Body:   string(ctx.PostBody()),
	}
	ctx.Request.Header.VisitAll(func(k, v []byte) {
		e.Headers = append(e.Headers, [2]string{string(k), string(v)})
	})
	log.Debug().Str("method", e.Method).Str("path", e.Path).Msg("echo")
	writeJSON(ctx, fasthttp.StatusOK, e)
}

func PetResponder(ctx *fasthttp.RequestCtx) {
	requestCount.increment()

	id, err := strconv.ParseInt(fmt.Sprint(ctx.UserValue("id")), 10, 64)
	if err != nil || id <= 0 {
		ctx.Error(`{"message":"pet not found"}`, fasthttp.StatusNotFound)
		ctx.SetContentType("application/json")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, &pet{ID: id, Name: "pet-" + strconv.FormatInt(id, 10)})
}

// CreatePetResponder answers 201 with the posted body
func CreatePetResponder(ctx *fasthttp.RequestCtx) {
	requestCount.increment()

	ctx.SetStatusCode(fasthttp.StatusCreated)
	ctx.SetContentTypeBytes(ctx.Request.Header.ContentType())
	ctx.SetBody(ctx.PostBody())
}

func ImageResponder(ctx *fasthttp.RequestCtx) {
	requestCount.increment()

	img := make([]byte, imageSize)
	for i := range img {
		img[i] = byte(i)
	}
	ctx.SetContentType("application/octet-stream")
	ctx.SetBody(img)
}

func RedirectResponder(ctx *fasthttp.RequestCtx) {
	requestCount.increment()

	fmt.Fprintf(ctx, "go to, %s!\n", ctx.UserValue("dest"))
	ctx.SetStatusCode(fasthttp.StatusFound)
	ctx.Response.Header.Add("location", "/"+fmt.Sprint(ctx.UserValue("dest")))
}

// StatusResponder answers with the status code named in the path
func StatusResponder(ctx *fasthttp.RequestCtx) {
	requestCount.increment()

	code, err := strconv.Atoi(fmt.Sprint(ctx.UserValue("code")))
	if err != nil || code < 100 || code > 599 {
		ctx.Error("invalid status code", fasthttp.StatusBadRequest)
		return
	}
	ctx.SetStatusCode(code)
	fmt.Fprintf(ctx, "%d %s\n", code, fasthttp.StatusMessage(code))
}

func newRouter() *router.Router {
	r := router.New()
	r.GET("/", Index)
	r.GET("/api/pets/{id}", PetResponder)
	r.POST("/api/pets", CreatePetResponder)
	r.GET("/api/pets/{id}/image", ImageResponder)
	r.GET("/redir/{dest:*}", RedirectResponder)
	r.GET("/status/{code}", StatusResponder)
	r.Handle("*", "/{req:*}", EchoResponder)
	return r
}
