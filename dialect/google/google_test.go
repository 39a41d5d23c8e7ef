package google_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/reoring/belso"
	"github.com/reoring/belso/dialect/google"
	"github.com/reoring/belso/internal/fixture"
)

func TestRoundTrip_House(t *testing.T) {
	enc := google.Encode(fixture.House())
	require.True(t, enc.Ok(), "warnings: %v", enc.Warnings)

	dec := google.Decode(enc.Value)
	require.True(t, dec.Ok(), "warnings: %v cause: %v", dec.Warnings, dec.Cause)
	assert.True(t, fixture.House().Equal(dec.Value))
}

func TestEncode_Shape(t *testing.T) {
	out := google.Encode(fixture.House()).Value
	assert.Equal(t, genai.TypeObject, out.Type)
	assert.Equal(t, "House", out.Title)
	assert.Equal(t, []string{"address", "rooms", "owner", "tags", "lights_on"}, out.PropertyOrdering)
	assert.Equal(t, []string{"address", "rooms", "lights_on"}, out.Required)

	rooms := out.Properties["rooms"]
	assert.Equal(t, genai.TypeArray, rooms.Type)
	assert.Equal(t, int64(1), *rooms.MinItems)
	assert.Equal(t, int64(20), *rooms.MaxItems)
	assert.Equal(t, "Room", rooms.Items.Title)

	light := rooms.Items.Properties["lights"].Items
	assert.Equal(t, []string{"warm", "neutral", "cool"}, light.Properties["temperature"].Enum)
}

func TestEnum_StringifiedAndRestored(t *testing.T) {
	s := belso.MustSchema("Dial",
		belso.Integer("level").WithEnum(1, 2, 3),
		belso.Float("gain").WithEnum(0.5, 1.5),
		belso.Boolean("on").WithEnum(true),
	)
	enc := google.Encode(s)
	require.True(t, enc.Ok())
	assert.Equal(t, []string{"1", "2", "3"}, enc.Value.Properties["level"].Enum)
	assert.Equal(t, []string{"0.5", "1.5"}, enc.Value.Properties["gain"].Enum)

	dec := google.Decode(enc.Value)
	require.True(t, dec.Ok())
	assert.True(t, s.Equal(dec.Value))
	level, _ := dec.Value.Field("level")
	assert.Equal(t, []any{1, 2, 3}, level.Constraints.Enum)
}

func TestEncode_DropsUnsupported(t *testing.T) {
	res := google.Encode(fixture.Rich())
	assert.Equal(t, belso.Degraded, res.Outcome)
	// exclusive_range and multiple_of on "count"
	assert.Len(t, res.Warnings, 2)
	count := res.Value.Properties["count"]
	assert.Equal(t, 1, count.Default)
	email := res.Value.Properties["email"]
	assert.Equal(t, int64(3), *email.MinLength)
	assert.Equal(t, "email", email.Format)
	assert.Equal(t, `^[^@]+@[^@]+$`, email.Pattern)
}

func TestDecode_RawJSON(t *testing.T) {
	enc := google.Encode(fixture.House())
	raw, err := json.Marshal(enc.Value)
	require.NoError(t, err)

	dec := google.Decode(raw)
	require.True(t, dec.Ok(), "cause: %v", dec.Cause)
	assert.True(t, fixture.House().Equal(dec.Value))
}

func TestDecode_NoOrderingUsesRequired(t *testing.T) {
	in := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"b": {Type: genai.TypeString},
			"a": {Type: genai.TypeInteger, Default: float64(4)},
			"c": {Type: genai.TypeArray},
		},
		Required: []string{"b"},
	}
	dec := google.Decode(in)
	require.True(t, dec.Ok(), "cause: %v", dec.Cause)
	assert.Equal(t, google.DefaultName, dec.Value.Name())
	fs := dec.Value.Fields()
	require.Len(t, fs, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{fs[0].Name, fs[1].Name, fs[2].Name})
	assert.Equal(t, 4, fs[1].Default)
	assert.Equal(t, belso.KindArray, fs[2].Kind)
	assert.Equal(t, belso.ShapeScalar, fs[2].Shape())
}

func TestDecode_LowercaseAndUntypedRoot(t *testing.T) {
	in := map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"owner": map[string]any{
				"properties": map[string]any{"age": map[string]any{"type": "integer"}},
			},
		},
	}
	res := google.Decode(in)
	require.True(t, res.Ok(), "warnings: %v cause: %v", res.Warnings, res.Cause)
	f, ok := res.Value.Field("name")
	require.True(t, ok)
	assert.Equal(t, belso.KindString, f.Kind)
	assert.True(t, f.Required)
	f, _ = res.Value.Field("tags")
	assert.Equal(t, belso.KindString, f.Items.Kind)
	f, _ = res.Value.Field("owner")
	assert.Equal(t, belso.ShapeNested, f.Shape())

	untyped := &genai.Schema{Properties: map[string]*genai.Schema{"id": {Type: genai.TypeInteger}}}
	res = google.Decode(untyped)
	require.True(t, res.Ok(), "cause: %v", res.Cause)
	assert.Equal(t, 1, res.Value.Len())
}

func TestFailuresFallBack(t *testing.T) {
	enc := google.Encode(nil)
	assert.True(t, enc.IsFallback())
	assert.Equal(t, belso.FallbackName, enc.Value.Title)

	for _, in := range []any{nil, 3.14, "{", &genai.Schema{Type: genai.TypeString}} {
		dec := google.Decode(in)
		assert.True(t, dec.IsFallback(), "%v", in)
		assert.True(t, dec.Value.IsFallback())
	}
}
