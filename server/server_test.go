package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemaconv "github.com/reoring/schemaconv"
	"github.com/reoring/schemaconv/checker"
	"github.com/reoring/schemaconv/codelist"
	"github.com/reoring/schemaconv/config"
)

func newServer(t *testing.T, codelists []codelist.File) http.Handler {
	t.Helper()
	c, err := checker.New(config.Default(), afero.NewMemMapFs(), nil)
	require.NoError(t, err)
	return New(c, codelists).Router()
}

func post(t *testing.T, h http.Handler, target, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCheck_Valid(t *testing.T) {
	body := `{"title":"Release","description":"d","type":"object","properties":{"method":{"title":"Method","description":"d","type":["string","null"],"codelist":"method.csv","openCodelist":true}}}`
	rec, resp := post(t, newServer(t, nil), "/v1/check?name=release-schema.json", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.True(t, resp.OK, rec.Body.String())
	assert.Equal(t, 0, resp.Errors)
	assert.NotEmpty(t, resp.RunID)
}

func TestCheck_ReportsDiagnostics(t *testing.T) {
	rec, resp := post(t, newServer(t, nil), "/v1/check?name=release-schema.json", `{"properties":{"Bad":{"title":"t","description":"d","type":"string"}}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.OK)
	require.NotEmpty(t, resp.Diagnostics)
	codes := map[string]bool{}
	for _, d := range resp.Diagnostics {
		codes[d.Code] = true
		assert.Equal(t, "release-schema.json", d.Path)
	}
	assert.True(t, codes[schemaconv.CodeLetterCaseProperty])
	assert.True(t, codes[schemaconv.CodeMissingMetadata])
}

func TestCheck_WithCodelists(t *testing.T) {
	files := []codelist.File{{Path: "codelists/method.csv", Name: "method.csv", Columns: []string{"Code"}, Rows: []map[string]string{{"Code": "open"}}}}
	body := `{"title":"Release","description":"d","type":"object","properties":{"method":{"title":"Method","description":"d","type":["string","null"],"codelist":"method.csv","openCodelist":false,"enum":["open","closed",null]}}}`
	_, resp := post(t, newServer(t, files), "/v1/check", body)
	require.Len(t, resp.Diagnostics, 1, "%v", resp.Diagnostics)
	assert.Equal(t, schemaconv.CodeCodelistMismatch, resp.Diagnostics[0].Code)
	assert.Equal(t, "schema.json", resp.Diagnostics[0].Path)
}

func TestCheck_ParseFailures(t *testing.T) {
	cases := map[string]string{
		schemaconv.CodeDuplicateKey: `{"title":"a","title":"b"}`,
		schemaconv.CodeParseError:   `{"title":`,
	}
	for code, body := range cases {
		rec, resp := post(t, newServer(t, nil), "/v1/check", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, code)
		require.Len(t, resp.Diagnostics, 1, code)
		assert.Equal(t, code, resp.Diagnostics[0].Code)
		assert.Equal(t, 1, resp.Errors)
	}
}

func TestCheck_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/check", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCheck_YAMLDocument(t *testing.T) {
	body := `title: Release
description: d
type: object
properties:
  method:
    title: Method
    description: d
    type: [string, "null"]
    codelist: method.csv
    openCodelist: true
`
	rec, resp := post(t, newServer(t, nil), "/v1/check?name=release-schema.yaml", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.OK, rec.Body.String())

	rec, resp = post(t, newServer(t, nil), "/v1/check?name=release-schema.yml", "title: a\ntitle: b\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, schemaconv.CodeDuplicateKey, resp.Diagnostics[0].Code)
	assert.Equal(t, "release-schema.yml", resp.Diagnostics[0].Path)
}
