package http

import (
	"context"
	"testing"

	"github.com/assetnote/kitedsl/pkg/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient records what it is asked to send
type stubClient struct {
	name string
	got  *RequestBuilder
	body *string
}

func (s *stubClient) CallToStringResponse(ctx context.Context, b *RequestBuilder, body *string) (*Response[string], error) {
	s.got, s.body = b, body
	out := `{"name":"` + s.name + `"}`
	return &Response[string]{Status: 200, Headers: NewHeaderMap(), StringBody: &out, Body: out}, nil
}

func (s *stubClient) CallToBinaryResponse(ctx context.Context, b *RequestBuilder, body *string) (*Response[BinaryData], error) {
	s.got, s.body = b, body
	return &Response[BinaryData]{Status: 200, Headers: NewHeaderMap(), Body: BinaryData(s.name)}, nil
}

func (s *stubClient) Config() *Config            { return NewDefaultConfig() }
func (s *stubClient) Codec() *json.Codec         { return json.NewCodec() }
func (s *stubClient) DefaultHeaders() *HeaderMap { return NewHeaderMap() }
func (s *stubClient) Target() *Target            { return &Target{Hostname: "stub", Port: 80} }
func (s *stubClient) Close() error               { return nil }

func chain(depth int) *RequestBuilder {
	b := NewRequestBuilder(nil)
	b.AppendPathElement("root")
	for i := 1; i < depth; i++ {
		b = b.Child()
		b.AppendPathElement(string(rune('a' + i - 1)))
	}
	return b
}

func TestRequestBuilder_FoldPath(t *testing.T) {
	for depth := 1; depth <= 5; depth++ {
		folded := chain(depth).Fold()
		want := []string{"root", "a", "b", "c", "d"}[:depth]
		assert.Equal(t, want, folded.Path())
		assert.Nil(t, folded.Parent())
	}
}

func TestRequestBuilder_FoldMultipleElements(t *testing.T) {
	root := NewRequestBuilder(nil)
	root.AppendPathElement("pets").AppendPathElement("1")
	leaf := root.Child().AppendPathElement("toys")
	assert.Equal(t, "pets/1/toys", leaf.Fold().RelativePath())
}

func TestRequestBuilder_FoldParams(t *testing.T) {
	root := NewRequestBuilder(nil)
	root.AddQueryParameter("a", NewSimpleParam("root")).
		AddQueryParameter("b", NewSimpleParam("root")).
		AddFormParameter("f", NewSimpleParam(1))
	mid := root.Child().AddQueryParameter("b", NewSimpleParam("mid"))
	leaf := mid.Child().
		AddQueryParameter("c", NewSimpleParam("leaf")).
		AddFormParameter("f", NewSimpleParam(2))

	folded := leaf.Fold()
	q := folded.QueryParameters()
	require.Len(t, q, 3)
	assert.Equal(t, []string{"root"}, q["a"].Values())
	assert.Equal(t, []string{"mid"}, q["b"].Values())
	assert.Equal(t, []string{"leaf"}, q["c"].Values())
	assert.Equal(t, []string{"2"}, folded.FormParameters()["f"].Values())
}

func TestRequestBuilder_FoldHeaders(t *testing.T) {
	root := NewRequestBuilder(nil)
	root.AddHeader("X", "a").AddHeader("Y", "1")
	leaf := root.Child().SetHeader("X", "b").AddHeader("Y", "2")

	folded := leaf.Fold()
	assert.Equal(t, []string{"b"}, folded.Headers().Values("X"))
	assert.Equal(t, []string{"1", "2"}, folded.Headers().Values("Y"))

	// chain nodes only carry ops
	assert.Equal(t, 0, leaf.Headers().Len())
	assert.Len(t, leaf.HeaderOps(), 2)
}

func TestRequestBuilder_FoldOverrides(t *testing.T) {
	first := &stubClient{name: "first"}
	second := &stubClient{name: "second"}

	root := NewRequestBuilder(first).SetMethod(GET).SetBinaryRequest(StringBinaryRequest("root"))
	root.AddMultipartParameter(StringPart{Name: "a", Value: "1"})
	mid := root.Child()
	leaf := mid.Child().SetMethod(POST).AddMultipartParameter(StringPart{Name: "b", Value: "2"})

	folded := leaf.Fold()
	assert.Equal(t, POST, folded.Method())
	assert.Equal(t, first, folded.Client())
	assert.Len(t, folded.MultipartParams(), 2)
	assert.Equal(t, StringBinaryRequest("root"), folded.BinaryRequest())

	// the leaf-most client wins
	leaf.SetClient(second)
	assert.Equal(t, second, leaf.Fold().Client())
	// a node without a method keeps the parent's
	assert.Equal(t, GET, mid.Fold().Method())
}

func TestRequestBuilder_FoldIsRepeatable(t *testing.T) {
	root := NewRequestBuilder(nil)
	root.AppendPathElement("pets").AddHeader("X", "a").AddQueryParameter("q", NewSimpleParam("v"))
	leaf := root.Child().AppendPathElement("1").AddHeader("X", "b")

	one := leaf.Fold()
	two := leaf.Fold()
	assert.Equal(t, one.Path(), two.Path())
	assert.Equal(t, one.Headers().Values("X"), two.Headers().Values("X"))
	assert.Equal(t, []string{"pets"}, root.Path())
	assert.Len(t, root.QueryParameters(), 1)

	// mutating a fold result leaves the chain alone
	one.AddQueryParameter("other", NewSimpleParam("x"))
	one.Headers().AddHeader("X", "c")
	assert.Len(t, root.QueryParameters(), 1)
	assert.Len(t, leaf.Fold().QueryParameters(), 1)
	assert.Equal(t, []string{"a", "b"}, leaf.Fold().Headers().Values("X"))

	// folding a folded builder keeps its headers
	again := two.Fold()
	assert.Equal(t, []string{"a", "b"}, again.Headers().Values("X"))
	assert.Equal(t, "pets/1", again.RelativePath())
}

func TestRequestBuilder_SharedChain(t *testing.T) {
	root := NewRequestBuilder(nil)
	root.AppendPathElement("pets")
	left := root.Child().AppendPathElement("1")
	right := root.Child().AppendPathElement("2")

	assert.Equal(t, "pets/1", left.Fold().RelativePath())
	assert.Equal(t, "pets/2", right.Fold().RelativePath())
}

func TestRequestBuilder_Call(t *testing.T) {
	ctx := context.Background()
	_, err := NewRequestBuilder(nil).CallToStringResponse(ctx, nil)
	assert.ErrorIs(t, err, ErrNoClient)

	c := &stubClient{name: "rex"}
	b := NewRequestBuilder(c).Child().AppendPathElement("pets").Fold()
	body := "hi"
	resp, err := b.CallToStringResponse(ctx, &body)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "hi", *c.body)
	assert.Equal(t, b, c.got)

	bin, err := b.CallToBinaryResponse(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "rex", bin.Body.String())
	assert.Nil(t, c.body)
}

type pet struct {
	Name string `json:"name"`
}

func TestCallToTypeResponse(t *testing.T) {
	c := &stubClient{name: "rex"}
	resp, err := CallToTypeResponse[pet](context.Background(), NewRequestBuilder(c), nil, "")
	require.NoError(t, err)
	assert.Equal(t, pet{Name: "rex"}, resp.Body)
	assert.Equal(t, `{"name":"rex"}`, *resp.StringBody)

	_, err = CallToTypeResponse[pet](context.Background(), NewRequestBuilder(nil), nil, "")
	assert.ErrorIs(t, err, ErrNoClient)
}

func TestRequestBuilder_String(t *testing.T) {
	root := NewRequestBuilder(nil)
	root.AppendPathElement("pets").AddQueryParameter("limit", NewSimpleParam(1))
	leaf := root.Child().AppendPathElement("1").AddHeader("Accept", "application/json")
	folded := leaf.Fold()
	assert.Equal(t, "GET pets/1 ?limit {Accept: application/json}", folded.String())
	assert.Equal(t, "GET 1 <- GET pets ?limit", leaf.String())
}
