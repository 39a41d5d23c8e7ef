package format_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/belso"
	"github.com/reoring/belso/format"
	"github.com/reoring/belso/internal/fixture"
)

func TestRoundTrip_AllCodecs(t *testing.T) {
	for _, s := range []*belso.Schema{fixture.House(), fixture.Rich(), fixture.LightsOn()} {
		doc := format.EncodeJSON(s)
		require.True(t, doc.Ok())
		dec := format.DecodeJSON(doc.Value)
		require.True(t, dec.Ok(), "json doc %s: %v", s.Name(), dec.Cause)
		assert.True(t, s.Equal(dec.Value), "json doc %s", s.Name())

		raw, err := format.MarshalJSON(s)
		require.NoError(t, err)
		dec = format.DecodeJSON(raw)
		require.True(t, dec.Ok(), "json text %s: %v", s.Name(), dec.Cause)
		assert.True(t, s.Equal(dec.Value), "json text %s", s.Name())

		y := format.EncodeYAML(s)
		require.True(t, y.Ok())
		dec = format.DecodeYAML(y.Value)
		require.True(t, dec.Ok(), "yaml %s: %v", s.Name(), dec.Cause)
		assert.True(t, s.Equal(dec.Value), "yaml %s", s.Name())

		x := format.EncodeXML(s)
		require.True(t, x.Ok())
		dec = format.DecodeXML(x.Value)
		require.True(t, dec.Ok(), "xml %s: %v", s.Name(), dec.Cause)
		assert.True(t, s.Equal(dec.Value), "xml %s:\n%s", s.Name(), x.Value)
	}
}

func TestRoundTrip_StringValuesAndIndentedText(t *testing.T) {
	s := belso.MustSchema("Loose",
		belso.Any("code").Optional().WithDefault("123").WithEnum("123", "true", 7),
		belso.String("note").Describe("  indented\n"),
	)
	y := format.EncodeYAML(s)
	require.True(t, y.Ok())
	dec := format.DecodeYAML(y.Value)
	require.True(t, dec.Ok(), "yaml: %v", dec.Cause)
	assert.True(t, s.Equal(dec.Value), "yaml:\n%s", y.Value)

	x := format.EncodeXML(s)
	require.True(t, x.Ok())
	assert.Contains(t, x.Value, `<value type="str">123</value>`)
	assert.Contains(t, x.Value, `<value>7</value>`)
	dec = format.DecodeXML(x.Value)
	require.True(t, dec.Ok(), "xml: %v", dec.Cause)
	assert.True(t, s.Equal(dec.Value), "xml:\n%s", x.Value)

	f, _ := dec.Value.Field("code")
	assert.Equal(t, "123", f.Default)
	f, _ = dec.Value.Field("note")
	assert.Equal(t, "  indented\n", f.Description)
}

func TestRequiredDefaultSurvives(t *testing.T) {
	s := belso.MustSchema("S", belso.String("mode").WithDefault("auto"))
	for name, enc := range map[string]func() belso.Result[*belso.Schema]{
		"json": func() belso.Result[*belso.Schema] { return format.DecodeJSON(format.EncodeJSON(s).Value) },
		"yaml": func() belso.Result[*belso.Schema] { return format.DecodeYAML(format.EncodeYAML(s).Value) },
		"xml":  func() belso.Result[*belso.Schema] { return format.DecodeXML(format.EncodeXML(s).Value) },
	} {
		res := enc()
		require.True(t, res.Ok(), name)
		f, _ := res.Value.Field("mode")
		assert.True(t, f.Required, name)
		assert.Equal(t, "auto", f.Default, name)
	}
}

func TestJSONShape(t *testing.T) {
	raw, err := format.MarshalJSON(fixture.House(), format.WithIndent(""))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "House", m["name"])
	fields := m["fields"].([]any)
	rooms := fields[1].(map[string]any)
	assert.Equal(t, "rooms", rooms["name"])
	assert.Equal(t, "list", rooms["type"])
	assert.Equal(t, "dict", rooms["items_type"])
	assert.Equal(t, map[string]any{"min": float64(1), "max": float64(20)}, rooms["items_range"])
	assert.Equal(t, "Room", rooms["items_schema"].(map[string]any)["name"])

	owner := fields[2].(map[string]any)
	assert.Equal(t, "dict", owner["type"])
	assert.Equal(t, false, owner["required"])
}

func TestRootPrefix_AppliedOnce(t *testing.T) {
	s := fixture.House()
	doc := format.EncodeJSON(s, format.WithRootPrefix("My")).Value
	assert.Equal(t, "MyHouse", doc.Name)
	// nested names untouched
	assert.Equal(t, "Room", doc.Fields[1].ItemsSchema.Name)

	again := format.EncodeJSON(s.WithName("MyHouse"), format.WithRootPrefix("My")).Value
	assert.Equal(t, "MyHouse", again.Name)

	dec := format.DecodeYAML(format.EncodeYAML(s).Value, format.WithRootPrefix("Loaded"))
	assert.Equal(t, "LoadedHouse", dec.Value.Name())
	rooms, _ := dec.Value.Field("rooms")
	assert.Equal(t, "Room", rooms.Items.Schema.Name())
}

func TestDecode_Defaults(t *testing.T) {
	res := format.DecodeJSON(`{"fields":[{"name":"x","type":"int"},{"name":"y","type":"complex","required":false}]}`)
	require.False(t, res.IsFallback())
	assert.Equal(t, belso.Degraded, res.Outcome)
	s := res.Value
	assert.Equal(t, format.LoadedName, s.Name())
	x, _ := s.Field("x")
	assert.True(t, x.Required)
	assert.Equal(t, belso.KindInteger, x.Kind)
	y, _ := s.Field("y")
	assert.False(t, y.Required)
	assert.Equal(t, belso.KindString, y.Kind)
}

func TestList_ScalarVersusArrayOf(t *testing.T) {
	s := belso.MustSchema("L", belso.List("any_list"), belso.ArrayOf("ints", belso.KindInteger))
	dec := format.DecodeYAML(format.EncodeYAML(s).Value)
	require.True(t, dec.Ok())
	a, _ := dec.Value.Field("any_list")
	assert.Equal(t, belso.ShapeScalar, a.Shape())
	assert.Equal(t, belso.KindArray, a.Kind)
	i, _ := dec.Value.Field("ints")
	assert.Equal(t, belso.ShapeArray, i.Shape())
	assert.Equal(t, belso.KindInteger, i.Items.Kind)
}

func TestXMLShape(t *testing.T) {
	out := format.EncodeXML(fixture.House()).Value
	assert.True(t, strings.HasPrefix(out, `<schema name="House">`), out)
	assert.Contains(t, out, `<field name="rooms" type="list" required="true" items_type="dict">`)
	assert.Contains(t, out, `<items_range min="1" max="20"></items_range>`)
	assert.Contains(t, out, `<value>warm</value>`)
	assert.Contains(t, out, `<items_schema name="Room">`)
}

func TestEncodeFailure_ErrorSchema(t *testing.T) {
	bad := belso.MustSchema("Bad", belso.Any("ch").Optional().WithDefault(make(chan int)))

	j := format.EncodeJSON(nil)
	assert.True(t, j.IsFallback())
	assert.Equal(t, format.ErrorName, j.Value.Name)
	assert.Empty(t, j.Value.Fields)

	y := format.EncodeYAML(nil)
	assert.True(t, y.IsFallback())
	assert.Equal(t, "name: ErrorSchema\nfields: []\n", y.Value)

	x := format.EncodeXML(bad)
	assert.True(t, x.IsFallback())
	assert.Contains(t, x.Value, "ErrorSchema")

	_, err := format.MarshalJSON(bad)
	assert.Error(t, err)
}

func TestDecodeFailure_Fallback(t *testing.T) {
	assert.True(t, format.DecodeJSON("{").IsFallback())
	assert.True(t, format.DecodeJSON(42).IsFallback())
	assert.True(t, format.DecodeYAML("- a\n- b\n").IsFallback())
	assert.True(t, format.DecodeXML("<schema").IsFallback())
	assert.True(t, format.DecodeJSON(`{"name":"S","fields":[{"type":"str"}]}`).IsFallback())
	assert.True(t, format.DecodeJSON(`{"name":"S","fields":[{"name":"a"},{"name":"a"}]}`).IsFallback())
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".json", ".yaml", ".yml", ".xml"} {
		p := filepath.Join(dir, "house"+ext)
		require.NoError(t, format.SaveFile(fixture.House(), p), ext)
		res, err := format.LoadFile(p)
		require.NoError(t, err, ext)
		require.True(t, res.Ok(), ext)
		assert.True(t, fixture.House().Equal(res.Value), ext)
	}

	err := format.SaveFile(fixture.House(), filepath.Join(dir, "house.txt"))
	assert.ErrorIs(t, err, format.ErrUnsupportedExtension)

	_, err = format.LoadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o600))
	res, err := format.LoadFile(broken)
	require.NoError(t, err)
	assert.True(t, res.IsFallback())
}

func TestDecodeJSON_DuplicateKeysWarn(t *testing.T) {
	res := format.DecodeJSON(`{"name":"S","name":"T","fields":[]}`)
	assert.Equal(t, belso.Degraded, res.Outcome)
	assert.Equal(t, "T", res.Value.Name())
}
