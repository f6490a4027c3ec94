package http

import (
	"testing"

	"github.com/assetnote/kitedsl/pkg/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type status string

func (s status) String() string { return "status-" + string(s) }

func TestRemoveNullParams(t *testing.T) {
	in := map[string]HTTPParam{
		"a": nil,
		"b": NewSimpleParam("value"),
		"c": NewSimpleParam(nil),
		"d": NewRepeatedParam(),
		"e": NewRepeatedParam("x", nil, 2),
	}
	got := RemoveNullParams(in)
	assert.Len(t, got, 2)
	assert.Equal(t, []string{"value"}, got["b"].Values())
	assert.Equal(t, []string{"x", "2"}, got["e"].Values())
	// the input is not modified
	assert.Len(t, in, 5)

	assert.NotNil(t, RemoveNullParams(nil))

	typed := map[string]HTTPParam{
		"ptr":      (*SimpleParam)(nil),
		"repeated": RepeatedParam(nil),
		"ok":       &SimpleParam{value: "v", set: true},
	}
	got = RemoveNullParams(typed)
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"v"}, got["ok"].Values())
	assert.Equal(t, "ok=v", encodeParams(typed).Encode())
	assert.Len(t, RemoveNullParams(nil), 0)
}

func TestNewSimpleParam(t *testing.T) {
	assert.Equal(t, []string{"42"}, NewSimpleParam(42).Values())
	assert.Equal(t, []string{"true"}, NewSimpleParam(true).Values())
	assert.Equal(t, []string{"status-open"}, NewSimpleParam(status("open")).Values())
	assert.Equal(t, []string{""}, NewSimpleParam("").Values())
	assert.True(t, NewSimpleParam("").NonEmpty())
	assert.False(t, NewSimpleParam(nil).NonEmpty())
}

func TestNewComplexParam(t *testing.T) {
	codec := json.NewCodec()

	p, err := NewComplexParam(codec, map[string]int{"a": 1}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{`{"a":1}`}, p.Values())

	p, err = NewComplexParam(codec, struct {
		Name string `json:"name"`
	}{"rex"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{`{"name":"rex"}`}, p.Values())

	p, err = NewComplexParam(codec, nil, "")
	require.NoError(t, err)
	assert.False(t, p.NonEmpty())
}

func TestEncodeParams(t *testing.T) {
	got := encodeParams(map[string]HTTPParam{
		"b":    NewSimpleParam("two words"),
		"a":    NewRepeatedParam(1, 2),
		"skip": nil,
	})
	assert.Equal(t, "a=1&a=2&b=two+words", got.Encode())
}

func TestFromStrings(t *testing.T) {
	got := FromStrings(map[string]string{"a": "1", "b": ""})
	assert.Equal(t, []string{"1"}, got["a"].Values())
	assert.True(t, got["b"].NonEmpty())
}
