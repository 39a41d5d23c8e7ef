package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOrder_NestedProperties(t *testing.T) {
	raw := []byte(`{
		"type": "object",
		"properties": {
			"zeta": {"type": "string"},
			"rooms": {
				"type": "array",
				"items": {"type": "object", "properties": {"name": {}, "area": {}}}
			},
			"alpha": {"type": "integer"}
		}
	}`)
	order := KeyOrder(raw)
	assert.Equal(t, []string{"zeta", "rooms", "alpha"}, order["/properties"])
	assert.Equal(t, []string{"name", "area"}, order[Join("", "properties", "rooms", "items", "properties")])
}

func TestKeyOrder_DottedAndSlashedNames(t *testing.T) {
	raw := []byte(`{"properties": {
		"a.b": {"properties": {"y": {}, "x": {}}},
		"a": {"properties": {"b": {"properties": {"q": {}, "p": {}}}}},
		"c/d": {"properties": {"n": {}, "m": {}}}
	}}`)
	order := KeyOrder(raw)
	assert.Equal(t, []string{"y", "x"}, order[Join("", "properties", "a.b", "properties")])
	assert.Equal(t, []string{"q", "p"}, order[Join("", "properties", "a", "properties", "b", "properties")])
	assert.Equal(t, []string{"n", "m"}, order["/properties/c~1d/properties"])
}

func TestKeyOrder_InvalidJSONIsPartial(t *testing.T) {
	order := KeyOrder([]byte(`{"properties": {"a": 1, "b":`))
	assert.Empty(t, order["/properties"])
}

func TestOrderKeys(t *testing.T) {
	props := map[string]int{"c": 1, "a": 2, "b": 3, "d": 4}

	assert.Equal(t, []string{"d", "b", "a", "c"}, OrderKeys(props, []string{"d", "b"}, []string{"c"}))
	assert.Equal(t, []string{"c", "a", "b", "d"}, OrderKeys(props, nil, []string{"c", "missing"}))
	assert.Equal(t, []string{"a", "b", "c", "d"}, OrderKeys(props, nil, nil))
}

func TestToMap_Struct(t *testing.T) {
	type pt struct {
		X int    `json:"x"`
		Y string `json:"y"`
	}
	m, err := ToMap(pt{X: 1, Y: "a"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": float64(1), "y": "a"}, m)

	_, err = ToMap([]int{1})
	assert.Error(t, err)
}

func TestUnmarshalYAML_NormalizesMaps(t *testing.T) {
	m, err := UnmarshalYAML([]byte("name: House\nfields:\n  - name: rooms\n    schema:\n      name: Room\n"))
	require.NoError(t, err)
	fields := m["fields"].([]any)
	f0 := fields[0].(map[string]any)
	assert.Equal(t, "rooms", f0["name"])
	assert.IsType(t, map[string]any{}, f0["schema"])

	_, err = UnmarshalYAML([]byte("- 1\n- 2\n"))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestDuplicateKeys(t *testing.T) {
	raw := []byte(`{"a":1,"b":{"x":1,"x":2},"a":3,"list":[{"k":1},{"k":1,"k":2}],"s/l":{"t~":0,"t~":1}}`)
	assert.Equal(t, []string{"/b/x", "/a", "/list/1/k", "/s~1l/t~0"}, DuplicateKeys(raw))
	assert.Empty(t, DuplicateKeys([]byte(`{"a":{"a":1}}`)))
	assert.Empty(t, DuplicateKeys([]byte(`{"a":`)))
}
