package json

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeOf(v interface{}) reflect.Type {
	return reflect.TypeOf(v)
}

const pkgPath = "github.com/assetnote/kitedsl/pkg/json"

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		name     string
		t        reflect.Type
		expected string
	}{
		{"nil", nil, ""},
		{"builtin", typeOf(""), "string"},
		{"named", typeOf(Pet{}), pkgPath + ".Pet"},
		{"pointer", typeOf(&Pet{}), "*" + pkgPath + ".Pet"},
		{"slice", typeOf([]Pet{}), "[]" + pkgPath + ".Pet"},
		{"named slice", typeOf(loudPets{}), pkgPath + ".loudPets"},
		{"array", typeOf([2]int{}), "[2]int"},
		{"map", typeOf(map[string]*Pet{}), "map[string]*" + pkgPath + ".Pet"},
		{"nested", typeOf(map[string][]map[int]bool{}), "map[string][]map[int]bool"},
		{"interface", reflect.TypeOf((*Animal)(nil)).Elem(), pkgPath + ".Animal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalName(tt.t))
		})
	}
}

func TestResolveType(t *testing.T) {
	types := NewTypeRegistry().Register(Pet{}).RegisterType(reflect.TypeOf((*Animal)(nil)).Elem()).clone()

	tests := []struct {
		name     string
		in       string
		expected reflect.Type
	}{
		{"registered", pkgPath + ".Pet", typeOf(Pet{})},
		{"registered interface", pkgPath + ".Animal", reflect.TypeOf((*Animal)(nil)).Elem()},
		{"builtin", "float64", typeOf(float64(0))},
		{"any", "any", reflect.TypeOf((*interface{})(nil)).Elem()},
		{"pointer", "*" + pkgPath + ".Pet", typeOf(&Pet{})},
		{"slice", "[]" + pkgPath + ".Pet", typeOf([]Pet{})},
		{"array", "[3]string", typeOf([3]string{})},
		{"map", "map[string][]" + pkgPath + ".Pet", typeOf(map[string][]Pet{})},
		{"map with composite key", "map[[2]int]bool", typeOf(map[[2]int]bool{})},
		{"whitespace", " int ", typeOf(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveType(types, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	for _, bad := range []string{"", "github.com/acme/nope.Missing", "[]nope", "map[string", "[x]int", "map[nope]int", "map[[]string]int", "map[map[string]int]bool", "[-1]int"} {
		_, err := resolveType(types, bad)
		assert.Error(t, err, bad)
	}
}

func TestCodec_SnapshotsRegistry(t *testing.T) {
	r := NewTypeRegistry()
	c := NewCodec(WithTypes(r))
	r.Register(Pet{})

	assert.Equal(t, 1, r.Len())
	_, err := c.Resolve(pkgPath + ".Pet")
	assert.Error(t, err)
}
