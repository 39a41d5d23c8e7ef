package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/belso/format"
	"github.com/reoring/belso/internal/fixture"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

// workspace returns an empty working directory holding house.yaml and
// house.json.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, format.SaveFile(fixture.House(), filepath.Join(dir, "house.yaml")))
	require.NoError(t, format.SaveFile(fixture.House(), filepath.Join(dir, "house.json")))
	return dir
}

func TestDialects(t *testing.T) {
	workspace(t)
	out, err := run(t, "dialects")
	require.NoError(t, err)
	lines := strings.Fields(out)
	assert.Len(t, lines, 11)
	assert.Equal(t, "belso", lines[0])
}

func TestDetect(t *testing.T) {
	workspace(t)
	out, err := run(t, "detect", "house.yaml")
	require.NoError(t, err)
	assert.Equal(t, "json\n", out)
}

func TestTranslate_ToOpenAI(t *testing.T) {
	workspace(t)
	out, err := run(t, "translate", "house.yaml", "--to", "openai")
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "json_schema", m["type"])
	js := m["json_schema"].(map[string]any)
	assert.Equal(t, "House", js["name"])
	assert.Equal(t, true, js["strict"])
}

func TestTranslate_RoundTripThroughFiles(t *testing.T) {
	dir := workspace(t)
	_, err := run(t, "translate", "house.json", "--to", "anthropic", "-o", "anthropic.json")
	require.NoError(t, err)
	_, err = run(t, "translate", "anthropic.json", "--to", "xml", "--root-prefix", "My", "-o", "house.xml")
	require.NoError(t, err)

	res, err := format.LoadFile(filepath.Join(dir, "house.xml"))
	require.NoError(t, err)
	assert.Equal(t, "MyHouse", res.Value.Name())
	assert.True(t, fixture.House().WithName("MyHouse").Equivalent(res.Value))
}

func TestTranslate_TargetFromConfig(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "belso.toml"), []byte("[translate]\nto = \"yaml\"\nroot_prefix = \"Cfg\"\n"), 0o600))
	out, err := run(t, "translate", "house.json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "name: CfgHouse\n"), out)
}

func TestTranslate_Errors(t *testing.T) {
	dir := workspace(t)
	_, err := run(t, "translate", "house.json")
	assert.ErrorContains(t, err, "no target dialect")

	_, err = run(t, "translate", "house.json", "--to", "cobol")
	assert.ErrorContains(t, err, "unsupported dialect")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"name":"X","fields":[{"type":"str"}]}`), 0o600))
	_, err = run(t, "translate", "broken.json", "--to", "google")
	assert.ErrorContains(t, err, "fell back")

	_, err = run(t, "translate", "missing.json", "--to", "google")
	assert.Error(t, err)
}

func TestStandardize(t *testing.T) {
	workspace(t)
	out, err := run(t, "standardize", "house.yaml")
	require.NoError(t, err)
	res := format.DecodeJSON(out)
	require.True(t, res.Ok())
	assert.True(t, fixture.House().Equal(res.Value))
}

func TestStandardize_RootPrefixOnDialectSource(t *testing.T) {
	workspace(t)
	_, err := run(t, "translate", "house.json", "--to", "google", "-o", "google.json")
	require.NoError(t, err)

	out, err := run(t, "standardize", "google.json", "--from", "google", "--root-prefix", "My")
	require.NoError(t, err)
	res := format.DecodeJSON(out)
	require.True(t, res.Ok())
	assert.Equal(t, "MyHouse", res.Value.Name())

	// text sources are prefixed once, while decoding
	out, err = run(t, "standardize", "house.yaml", "--root-prefix", "My")
	require.NoError(t, err)
	res = format.DecodeJSON(out)
	require.True(t, res.Ok())
	assert.Equal(t, "MyHouse", res.Value.Name())
}

func TestShow(t *testing.T) {
	workspace(t)
	out, err := run(t, "show", "house.yaml", "--color", "off")
	require.NoError(t, err)
	assert.Contains(t, out, "House.Room.Light")
	assert.NotContains(t, out, "\x1b[")
}

func TestValidate(t *testing.T) {
	dir := workspace(t)
	good := `{"address":"1 Main St","rooms":[{"name":"hall","lights":[{"id":1,"temperature":"warm"}]}],"lights_on":true}`
	bad := `{"address":"1 Main St","rooms":[{"name":"hall","lights":[{"id":"one","temperature":"warm"}]}],"lights_on":true}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(good), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(bad), 0o600))

	out, err := run(t, "validate", "house.yaml", "good.json")
	require.NoError(t, err)
	assert.Contains(t, out, "valid against House")

	out, err = run(t, "validate", "house.yaml", "bad.json")
	assert.Error(t, err)
	assert.Contains(t, out, "/rooms/0/lights/0/id\tinvalid_type")
}

func TestConvert(t *testing.T) {
	dir := workspace(t)
	outDir := filepath.Join(dir, "out")
	require.NoError(t, format.SaveFile(fixture.Rich(), filepath.Join(dir, "rich.yml")))
	out, err := run(t, "convert", "house.json", "rich.yml", "--to", "google", "--out-dir", outDir, "-j", "2")
	require.NoError(t, err)
	// output order follows the arguments
	assert.Equal(t, filepath.Join(outDir, "house.google.json")+"\n"+filepath.Join(outDir, "rich.google.json")+"\n", out)
	data, err := os.ReadFile(filepath.Join(outDir, "house.google.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "lights_on")

	out, err = run(t, "convert", "house.json", "--to", "yaml", "--out-dir", outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "house.yaml")+"\n", out)

	_, err = run(t, "convert", "house.json", "missing.json", "--to", "yaml", "--out-dir", outDir)
	assert.ErrorContains(t, err, "failed to convert 1 of 2")
}
