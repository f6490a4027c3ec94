package cli

import (
	"bytes"
	"testing"

	"github.com/assetnote/kitedsl/pkg/dsl"
	"github.com/assetnote/kitedsl/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foldView(t *testing.T) FoldView {
	r := Request{
		Path:       "users/{id}",
		PathParams: []string{"id=7"},
		Headers:    []string{"X-Trace: 1"},
	}
	seg, err := r.Chain(dsl.NewRoot(nil))
	require.NoError(t, err)
	b := seg.Builder().Child().AddQueryParameter("limit", http.NewSimpleParam(10))
	return NewFoldView(b, nil, nil)
}

func TestWriteFold_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFold(&buf, foldView(t), FoldJSON))
	assert.JSONEq(t, `{
		"method": "GET",
		"path": "users/7",
		"headers": [{"key": "X-Trace", "value": "1"}],
		"query": {"limit": ["10"]}
	}`, buf.String())
}

func TestWriteFold_Formats(t *testing.T) {
	v := foldView(t)
	body := `{"name":"rex"}`
	v.Body = &body

	var buf bytes.Buffer
	require.NoError(t, WriteFold(&buf, v, FoldYAML))
	assert.Contains(t, buf.String(), "method: GET\n")
	assert.Contains(t, buf.String(), "path: users/7\n")
	assert.Contains(t, buf.String(), "key: X-Trace")

	buf.Reset()
	require.NoError(t, WriteFold(&buf, v, FoldTable))
	assert.Contains(t, buf.String(), "users/7")
	assert.Contains(t, buf.String(), "X-Trace")
	assert.Contains(t, buf.String(), body)

	buf.Reset()
	require.NoError(t, WriteFold(&buf, v, FoldRaw))
	assert.Contains(t, buf.String(), "FoldView")

	assert.Equal(t, ErrUnsupportedFoldFormat, WriteFold(&buf, v, "xml"))
}

func TestNewFoldView_Target(t *testing.T) {
	target, err := http.NewTarget("petstore.io", 0, "https", "v2")
	require.NoError(t, err)
	b := http.NewRequestBuilder(nil).AppendPathElement("pets")
	v := NewFoldView(b, target, nil)
	assert.Equal(t, "https://petstore.io/v2/pets", v.URL)
}
