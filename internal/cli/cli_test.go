package cli

import (
	"bytes"
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schemaconv/report"
)

const schema = `{
  "title": "Release",
  "description": "A release.",
  "type": "object",
  "properties": {
    "method": {
      "title": "Method",
      "description": "The method.",
      "type": ["string", "null"],
      "codelist": "method.csv",
      "openCodelist": false,
      "enum": ["open", null]
    }
  }
}
`

func run(t *testing.T, files map[string]string, args ...string) (string, error) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for p, text := range files {
		require.NoError(t, afero.WriteFile(fs, p, []byte(text), 0o644))
	}
	var out, errOut bytes.Buffer
	app := &App{Fs: fs, Out: &out, Err: &errOut}
	err := Execute(context.Background(), app, append([]string{"--no-color"}, args...)...)
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "schemaconv version: dev")
	assert.Contains(t, out, "Go version: ")
}

func TestCheck_Clean(t *testing.T) {
	out, err := run(t, map[string]string{
		"/repo/release-schema.json":  schema,
		"/repo/codelists/method.csv": "Code\nopen\n",
	}, "check", "/repo")
	require.NoError(t, err)
	assert.Equal(t, "0 error(s), 0 warning(s)\n", out)
}

func TestCheck_FailsWithErrors(t *testing.T) {
	out, err := run(t, map[string]string{
		"/repo/release-schema.json":  schema,
		"/repo/codelists/method.csv": "Code\nopen\nlimited\n",
	}, "check", "/repo")
	require.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, out, "ERROR: release-schema.json: /properties/method/enum doesn't match codelists/method.csv; removed {limited}")
	assert.Contains(t, out, "1 error(s), 0 warning(s)")
}

func TestCheck_JSONFormat(t *testing.T) {
	out, err := run(t, map[string]string{
		"/repo/release-schema.json": schema,
	}, "check", "/repo", "--format", "json")
	require.ErrorIs(t, err, ErrFailed)
	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 2, doc.Errors)
	assert.NotEmpty(t, doc.RunID)
}

func TestCheck_KindFlag(t *testing.T) {
	out, err := run(t, map[string]string{
		"/ext/release-schema.json": `{"properties": {"award": {"type": "object", "properties": {"title": {"type": "string"}}}}}`,
	}, "check", "/ext", "--kind", "extension")
	require.NoError(t, err)
	assert.Contains(t, out, "WARNING: ")
	assert.Contains(t, out, "0 error(s), 1 warning(s)")

	_, err = run(t, nil, "check", "/ext", "--kind", "plugin")
	require.Error(t, err)
}

func TestCheck_NoNullFlag(t *testing.T) {
	_, err := run(t, map[string]string{
		"/repo/release-schema.json":  schema,
		"/repo/codelists/method.csv": "Code\nopen\n",
	}, "check", "/repo", "--no-null")
	require.ErrorIs(t, err, ErrFailed)
}

func TestCheck_BadFormat(t *testing.T) {
	_, err := run(t, nil, "check", "/repo", "--format", "xml")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFailed)
}

func TestCheck_ConfigFile(t *testing.T) {
	_, err := run(t, map[string]string{
		"/cfg.yaml":                 "kind: extension\n",
		"/repo/release-schema.json": `{"properties": {"award": {"type": "string"}}}`,
	}, "--config", "/cfg.yaml", "check", "/repo")
	require.NoError(t, err)
}

func TestFiles(t *testing.T) {
	out, err := run(t, map[string]string{
		"/repo/good.json":  "{\n  \"a\": 1\n}\n",
		"/repo/empty.json": "[]\n",
		"/repo/dup.json":   `{"a": 1, "a": 2}`,
	}, "files", "/repo")
	require.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, out, "ERROR: empty.json is empty")
	assert.Contains(t, out, "ERROR: dup.json is not valid JSON: key a set more than once")
	assert.Contains(t, out, "2 error(s), 0 warning(s)")
}
