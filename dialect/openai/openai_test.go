package openai_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/belso"
	"github.com/reoring/belso/dialect/openai"
	"github.com/reoring/belso/internal/fixture"
)

func TestRoundTrip_House(t *testing.T) {
	enc := openai.Encode(fixture.House())
	require.True(t, enc.Ok(), "warnings: %v", enc.Warnings)

	dec := openai.Decode(enc.Value)
	require.True(t, dec.Ok(), "warnings: %v cause: %v", dec.Warnings, dec.Cause)
	// the strict required list carries the full field order
	assert.True(t, fixture.House().Equal(dec.Value))
}

func TestRoundTrip_RawJSON(t *testing.T) {
	enc := openai.Encode(fixture.House())
	raw, err := json.Marshal(enc.Value)
	require.NoError(t, err)

	dec := openai.Decode(raw)
	require.True(t, dec.Ok(), "cause: %v", dec.Cause)
	assert.True(t, fixture.House().Equal(dec.Value))

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	dec = openai.Decode(m)
	require.True(t, dec.Ok(), "cause: %v", dec.Cause)
	assert.True(t, fixture.House().Equal(dec.Value))
}

func TestEncode_StrictShape(t *testing.T) {
	rf := openai.Encode(fixture.House()).Value
	assert.Equal(t, openai.TypeJSONSchema, rf.Type)
	require.NotNil(t, rf.JSONSchema)
	assert.Equal(t, "House", rf.JSONSchema.Name)
	assert.True(t, rf.JSONSchema.Strict)

	body := rf.JSONSchema.Schema
	assert.Equal(t, []string{"address", "rooms", "owner", "tags", "lights_on"}, body.Required)
	assert.NotNil(t, body.AdditionalProperties)
	assert.Equal(t, []string{"object", "null"}, body.Properties["owner"].Types)
	assert.Equal(t, "string", body.Properties["address"].Type)
	assert.Equal(t, 1, *body.Properties["rooms"].MinItems)
}

func TestEncode_DropsUnsupported(t *testing.T) {
	res := openai.Encode(fixture.Rich())
	assert.Equal(t, belso.Degraded, res.Outcome)
	body := res.Value.JSONSchema.Schema
	assert.Nil(t, body.Properties["email"].MinLength)
	assert.Equal(t, "email", body.Properties["email"].Format)
	assert.Nil(t, body.Properties["meta"].MaxProperties)
	assert.Empty(t, body.Properties["count"].Default)
	require.NotNil(t, body.Properties["count"].ExclusiveMaximum)
	// length, properties, two defaults and the untyped optional field
	assert.Len(t, res.Warnings, 5)
}

func TestEncode_OptionalEnumAndDict(t *testing.T) {
	s := belso.MustSchema("Pick",
		belso.String("c").Optional().WithEnum("a", "b"),
		belso.Dict("meta"),
	)
	res := openai.Encode(s)
	require.True(t, res.Ok(), "warnings: %v", res.Warnings)

	raw, err := json.Marshal(res.Value)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	props := m["json_schema"].(map[string]any)["schema"].(map[string]any)["properties"].(map[string]any)

	c := props["c"].(map[string]any)
	assert.Equal(t, []any{"string", "null"}, c["type"])
	assert.Equal(t, []any{"a", "b", nil}, c["enum"])
	meta := props["meta"].(map[string]any)
	assert.Equal(t, "object", meta["type"])
	assert.Equal(t, false, meta["additionalProperties"])

	dec := openai.Decode(raw)
	require.True(t, dec.Ok(), "cause: %v", dec.Cause)
	assert.True(t, s.Equal(dec.Value))
}

func TestEncode_NilFallsBack(t *testing.T) {
	res := openai.Encode(nil)
	assert.True(t, res.IsFallback())
	assert.Equal(t, belso.FallbackName, res.Value.JSONSchema.Name)
}

type Profile struct {
	Name string   `json:"name"`
	Age  int      `json:"age,omitempty"`
	Tags []string `json:"tags"`
}

func TestDecode_Model(t *testing.T) {
	m := openai.ModelFor[Profile]()
	assert.Equal(t, "Profile", m.Name())

	res := openai.Decode(m)
	require.False(t, res.IsFallback(), "cause: %v", res.Cause)
	s := res.Value
	assert.Equal(t, "Profile", s.Name())

	name, ok := s.Field("name")
	require.True(t, ok)
	assert.Equal(t, belso.KindString, name.Kind)
	assert.True(t, name.Required)

	age, _ := s.Field("age")
	assert.Equal(t, belso.KindInteger, age.Kind)
	assert.False(t, age.Required)

	tags, _ := s.Field("tags")
	require.Equal(t, belso.ShapeArray, tags.Shape())
	assert.Equal(t, belso.KindString, tags.Items.Kind)
}

func TestDecode_Failures(t *testing.T) {
	for _, in := range []any{
		nil,
		openai.Model{},
		&openai.ResponseFormat{Type: openai.TypeJSONSchema},
		openai.ResponseFormat{Type: "text", JSONSchema: &openai.JSONSchema{}},
		`not json`,
	} {
		res := openai.Decode(in)
		assert.True(t, res.IsFallback(), "%#v", in)
		assert.True(t, res.Value.IsFallback())
	}
}
