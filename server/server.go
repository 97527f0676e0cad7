// Package server exposes the checker over HTTP.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	schemaconv "github.com/reoring/schemaconv"
	"github.com/reoring/schemaconv/checker"
	"github.com/reoring/schemaconv/codelist"
	"github.com/reoring/schemaconv/config"
	"github.com/reoring/schemaconv/report"
)

// Response is the body of a successful check.
type Response struct {
	report.Document
	OK bool `json:"ok"`
}

// Server checks schema documents posted to it.
type Server struct {
	checker   *checker.Checker
	codelists []codelist.File
	logger    *zap.Logger
}

// New returns a Server. codelists are the CSV files the codelist rules
// compare against; without any, the cross-reference step is skipped.
func New(c *checker.Checker, codelists []codelist.File) *Server {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(codelists) == 0 {
		cfg := *c.Config
		cfg.Skip = append(append([]config.SkipConfig(nil), cfg.Skip...), config.SkipConfig{Rule: checker.MatchRule, Files: []string{"*"}})
		cc := *c
		cc.Config = &cfg
		c = &cc
	}
	return &Server{checker: c, codelists: codelists, logger: logger}
}

// Router returns the HTTP handler:
//
//	GET  /healthz
//	POST /v1/check?name=release-schema.json
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.With(ParseDocument(s.checker.Config.ParseOptions())).Post("/v1/check", s.check)
	return r
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	doc, ok := DocumentFromContext(r.Context())
	if !ok {
		http.Error(w, "missing document", http.StatusInternalServerError)
		return
	}
	name := documentName(r)
	col := &schemaconv.Collector{}
	res := s.checker.Document(r.Context(), name, doc, s.codelists, nil, col)
	s.logger.Debug("checked",
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.String("name", name),
		zap.Int("errors", res.Errors),
		zap.Int("warnings", res.Warnings))
	writeJSON(w, http.StatusOK, Response{Document: report.NewDocument(col.Diagnostics()), OK: res.OK()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
