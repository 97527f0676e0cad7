package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemaconv "github.com/reoring/schemaconv"
	"github.com/reoring/schemaconv/config"
)

const validSchema = `{
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
      "enum": ["open", "limited", null]
    }
  }
}
`

const validYAMLSchema = `title: Release
description: A release.
type: object
properties:
  method:
    title: Method
    description: The method.
    type: [string, "null"]
    codelist: method.csv
    openCodelist: false
    enum: [open, limited, null]
`

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for p, text := range files {
		require.NoError(t, afero.WriteFile(fs, p, []byte(text), 0o644))
	}
	return fs
}

func newChecker(t *testing.T, cfg *config.Config, fs afero.Fs) *Checker {
	t.Helper()
	c, err := New(cfg, fs, nil)
	require.NoError(t, err)
	return c
}

func TestTree_Clean(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/repo/schema/release-schema.json":  validSchema,
		"/repo/schema/codelists/method.csv": "Code,Title\nopen,Open\nlimited,Limited\n",
		"/repo/docs/notes.json":             `{"note": "not a schema"}`,
	})
	col := &schemaconv.Collector{}
	res, err := newChecker(t, config.Default(), fs).Tree(context.Background(), "/repo", col)
	require.NoError(t, err)
	assert.True(t, res.OK(), "%v", col.Diagnostics())
	assert.Equal(t, 0, res.Warnings)
}

func TestTree_UnusedCodelistAndInvalidJSON(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/repo/schema/release-schema.json":  validSchema,
		"/repo/schema/codelists/method.csv": "Code\nopen\nlimited\n",
		"/repo/schema/codelists/unused.csv": "Code\nx\n",
		"/repo/schema/broken.json":          `{"a": 1, "a": 2}`,
	})
	col := &schemaconv.Collector{}
	res, err := newChecker(t, config.Default(), fs).Tree(context.Background(), "/repo", col)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Errors)
	got := map[string]bool{}
	for _, d := range col.Diagnostics() {
		got[d.Code] = true
	}
	assert.True(t, got[schemaconv.CodeDuplicateKey])
	assert.True(t, got[schemaconv.CodeUnusedCodelists])
}

func TestTree_YAMLSchemasAndGoJSONDriver(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/repo/schema/release-schema.yaml":  validYAMLSchema,
		"/repo/schema/codelists/method.csv": "Code,Title\nopen,Open\nlimited,Limited\n",
		"/repo/schema/dup.yml":              "title: a\ntitle: b\n",
		"/repo/schema/trailing.json":        `{"a": 1,}`,
	})
	cfg := config.Default()
	cfg.Driver = "go-json"
	col := &schemaconv.Collector{}
	res, err := newChecker(t, cfg, fs).Tree(context.Background(), "/repo", col)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Errors, "%v", col.Diagnostics())
	got := map[string]string{}
	for _, d := range col.Diagnostics() {
		got[d.Path] = d.Code
	}
	assert.Equal(t, schemaconv.CodeDuplicateKey, got["/repo/schema/dup.yml"])
	assert.Equal(t, schemaconv.CodeParseError, got["/repo/schema/trailing.json"])
}

func TestTree_SkipMatch(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/repo/release-schema.json":  validSchema,
		"/repo/codelists/method.csv": "Code\nopen\nlimited\n",
		"/repo/codelists/unused.csv": "Code\nx\n",
	})
	cfg := config.Default()
	cfg.Skip = []config.SkipConfig{{Rule: MatchRule, Files: []string{"release-schema.json"}}}
	res, err := newChecker(t, cfg, fs).Tree(context.Background(), "/repo", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Errors)
}

func TestTree_ExtensionWarnsOnly(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/ext/release-schema.json": `{"properties": {"award": {"type": "object", "properties": {"title": {"type": "string"}}}}}`,
	})
	cfg := config.Default()
	cfg.Kind = "extension"
	col := &schemaconv.Collector{}
	res, err := newChecker(t, cfg, fs).Tree(context.Background(), "/ext", col)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Errors, "%v", col.Diagnostics())
	assert.Equal(t, 1, res.Warnings)
	assert.Equal(t, schemaconv.CodeDeepProperties, col.Diagnostics()[0].Code)
}

func TestTree_Metaschema(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/meta.json":                `{"properties": {"title": {"type": "string"}}}`,
		"/repo/release-schema.json": `{"title": 1, "description": "d", "type": "object", "properties": {}}`,
	})
	cfg := config.Default()
	cfg.Metaschema = "/meta.json"
	col := &schemaconv.Collector{}
	res, err := newChecker(t, cfg, fs).Tree(context.Background(), "/repo", col)
	require.NoError(t, err)
	codes := map[string]int{}
	for _, d := range col.Diagnostics() {
		codes[d.Code]++
	}
	assert.Equal(t, 1, codes[schemaconv.CodeInvalidSchema])
	assert.GreaterOrEqual(t, res.Errors, 1)
}

func TestNew_MissingMetaschema(t *testing.T) {
	cfg := config.Default()
	cfg.Metaschema = "/nope.json"
	_, err := New(cfg, afero.NewMemMapFs(), nil)
	require.Error(t, err)
}

const baseSchema = `{
  "title": "Release",
  "description": "A release.",
  "type": "object",
  "properties": {
    "id": {"title": "ID", "description": "Identifier.", "type": ["string", "null"]}
  }
}`

func patchServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/schema/release-schema.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(baseSchema))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPatch(t *testing.T) {
	srv := patchServer(t)
	cases := []struct {
		name  string
		patch string
		codes []string
	}{
		{"adds a field", `{"properties": {"newField": {"title": "New", "description": "New field.", "type": ["string", "null"]}}}`, nil},
		{"overwrites", `{"properties": {"id": {"title": "Other"}}}`, []string{schemaconv.CodeMergeOverwrite}},
		{"changes nothing", `{"properties": {}}`, []string{schemaconv.CodeEmptyPatch}},
		{"adds an invalid field", `{"properties": {"new": {"type": "string"}}}`, []string{
			schemaconv.CodeMissingMetadata, schemaconv.CodeMissingMetadata, schemaconv.CodeMissingNull,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := newFs(t, map[string]string{"/ext/release-schema.json": tc.patch})
			cfg := config.Default()
			cfg.Kind = "extension"
			cfg.BaseURL = srv.URL + "/schema"
			col := &schemaconv.Collector{}
			res, err := newChecker(t, cfg, fs).Tree(context.Background(), "/ext", col)
			require.NoError(t, err)
			var got []string
			for _, d := range col.Diagnostics() {
				got = append(got, d.Code)
			}
			assert.ElementsMatch(t, tc.codes, got)
			assert.Equal(t, len(tc.codes), res.Errors)
		})
	}
}

func TestPatch_BaseNotFound(t *testing.T) {
	srv := patchServer(t)
	fs := newFs(t, map[string]string{"/ext/record-package-schema.json": `{"properties": {}}`})
	cfg := config.Default()
	cfg.Kind = "extension"
	cfg.BaseURL = srv.URL + "/schema"
	_, err := newChecker(t, cfg, fs).Tree(context.Background(), "/ext", nil)
	require.Error(t, err)
}

func TestPatch_LocalBase(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/core/release-schema.json": baseSchema,
		"/ext/release-schema.json":  `{"properties": {"id": null}}`,
	})
	cfg := config.Default()
	cfg.Kind = "extension"
	cfg.BaseURL = "/core"
	cfg.Merge.AllowRemove = []string{"/properties/id"}
	col := &schemaconv.Collector{}
	res, err := newChecker(t, cfg, fs).Tree(context.Background(), "/ext", col)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Errors, "%v", col.Diagnostics())
}

func TestFiles(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/repo/a.json": "{}",
		"/repo/b.json": "{\"a\":1}",
	})
	col := &schemaconv.Collector{}
	res, err := newChecker(t, config.Default(), fs).Files("/repo", col)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Errors, "%v", col.Diagnostics())
}
