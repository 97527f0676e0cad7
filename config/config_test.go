package config

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemaconv "github.com/reoring/schemaconv"
	"github.com/reoring/schemaconv/codelist"
	"github.com/reoring/schemaconv/merge"
	"github.com/reoring/schemaconv/rules"
)

func names(s rules.Suite) []string {
	out := make([]string, 0, len(s.Validators))
	for _, v := range s.Validators {
		out = append(out, v.Name())
	}
	return out
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, "standard", cfg.Kind)
	assert.Equal(t, "encoding/json", cfg.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Full())
	assert.Nil(t, cfg.ParseOptions().Driver)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/etc/missing.yaml")
	require.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
kind: extension
no_null: true
driver: go-json
max_depth: 64
external_codelists: [partyRole.csv, method.csv]
rules:
  letter_case:
    property_exceptions: [former_value]
  codelist_enum:
    fallback:
      - pointer: /properties/tag
        types: [array]
    allow_enum: [/properties/*/enum]
  items_type:
    additional_valid_types: [object]
skip:
  - rule: null_type
    files: ["*-package-schema.json"]
merge:
  allow_overwrite: [/properties/tag/items/enum]
`
	require.NoError(t, afero.WriteFile(fs, "/repo/.schemaconv.yaml", []byte(content), 0o644))

	cfg, err := Load(fs, "/repo/.schemaconv.yaml")
	require.NoError(t, err)
	assert.Equal(t, codelist.Extension, cfg.RepositoryKind())
	assert.True(t, cfg.NoNull)
	assert.False(t, cfg.Full())
	assert.Equal(t, "go-json", cfg.ParseOptions().Driver.Name())
	assert.Equal(t, 64, cfg.ParseOptions().MaxDepth)
	assert.True(t, cfg.External().Has("method.csv"))
	assert.Equal(t, []string{"former_value"}, cfg.Rules.LetterCase.PropertyExceptions)
	require.Len(t, cfg.Rules.CodelistEnum.Fallback, 1)
	assert.Equal(t, "/properties/tag", cfg.Rules.CodelistEnum.Fallback[0].Pointer)
	assert.Equal(t, []string{"object"}, cfg.Rules.ItemsType.AdditionalValidTypes)

	assert.True(t, cfg.Skips("null_type", "/repo/release-package-schema.json"))
	assert.False(t, cfg.Skips("null_type", "/repo/release-schema.json"))
	assert.False(t, cfg.Skips("letter_case", "/repo/release-package-schema.json"))

	opts := cfg.MatchOptions()
	assert.Equal(t, codelist.Extension, opts.Kind)
	assert.True(t, opts.External.Has("partyRole.csv"))
}

func TestLoad_FullSchemaOverride(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.yaml", []byte("kind: extension\nfull_schema: true\n"), 0o644))
	cfg, err := Load(fs, "/c.yaml")
	require.NoError(t, err)
	assert.True(t, cfg.Full())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SCHEMACONV_KIND", "profile")
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, codelist.Profile, cfg.RepositoryKind())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"kind":     "kind: plugin\n",
		"driver":   "driver: simdjson\n",
		"lang":     "lang: fr\n",
		"depth":    "max_depth: -1\n",
		"fallback": "rules:\n  codelist_enum:\n    fallback:\n      - pointer: properties\n",
		"skip":     "skip:\n  - files: [a.json]\n",
	}
	for name, content := range cases {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/c.yaml", []byte(content), 0o644))
		_, err := Load(fs, "/c.yaml")
		assert.Error(t, err, name)
	}
}

func TestSuite_Composition(t *testing.T) {
	full := Default().Suite(nil, nil)
	assert.Equal(t, []string{
		"items_type", "codelist_enum", "letter_case", "merge_properties", "array_items",
		"ref", "metadata_presence", "object_id", "null_type",
	}, names(full))
	assert.Nil(t, full.Skip)

	ext := Default()
	ext.Kind = "extension"
	assert.Equal(t, []string{
		"items_type", "codelist_enum", "letter_case", "merge_properties", "array_items", "deep_properties",
	}, names(ext.Suite(nil, nil)))
}

func TestSuite_AppliesExceptions(t *testing.T) {
	cfg := Default()
	cfg.ExternalCodelists = []string{"partyRole.csv"}
	cfg.Rules.LetterCase.PropertyExceptions = []string{"former_value"}
	doc := schemaconv.MustParse(`{
		"title": "Schema", "description": "d", "type": "object",
		"properties": {
			"former_value": {"title": "t", "description": "d", "type": ["string", "null"]},
			"roles": {"title": "t", "description": "d", "type": ["array", "null"], "codelist": "partyRole.csv", "openCodelist": false, "items": {"type": "string", "enum": ["buyer"]}}
		}
	}`)
	col := &schemaconv.Collector{}
	res := cfg.Suite(nil, nil).Run(context.Background(), "schema.json", doc, col)
	assert.Equal(t, 0, res.Errors, "%v", col.Diagnostics())
}

func TestMergeOptions(t *testing.T) {
	cfg := Default()
	cfg.Merge.AllowOverwrite = []string{"/title"}
	base := schemaconv.MustParse(`{"title":"a","description":"b"}`)
	_, err := merge.Merge(base, cfg.MergeOptions(), schemaconv.MustParse(`{"title":"c"}`))
	require.NoError(t, err)
	_, err = merge.Merge(base, cfg.MergeOptions(), schemaconv.MustParse(`{"description":"c"}`))
	require.Error(t, err)
}
