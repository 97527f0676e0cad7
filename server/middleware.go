package server

import (
	"context"
	"io"
	"net/http"

	schemaconv "github.com/reoring/schemaconv"
	"github.com/reoring/schemaconv/report"
)

// ctxKeyDocument is a typed context key for the parsed request document.
type ctxKeyDocument struct{}

// ContextWithDocument attaches a parsed document to the context.
func ContextWithDocument(ctx context.Context, doc *schemaconv.Node) context.Context {
	return context.WithValue(ctx, ctxKeyDocument{}, doc)
}

// DocumentFromContext retrieves the document stored by ParseDocument.
func DocumentFromContext(ctx context.Context) (*schemaconv.Node, bool) {
	v, ok := ctx.Value(ctxKeyDocument{}).(*schemaconv.Node)
	return v, ok
}

// MaxBodyBytes bounds request documents.
const MaxBodyBytes = 16 << 20

// ParseDocument strictly parses the request body, stores the document in the
// request context and calls next. A document named *.yaml or *.yml is parsed
// as YAML. Malformed bodies and repeated keys are answered with 400 and a
// report carrying one diagnostic.
func ParseDocument(opt schemaconv.ParseOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := documentName(r)
			data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
			var doc *schemaconv.Node
			if err == nil {
				doc, err = schemaconv.ParsePath(name, data, opt)
			}
			if err != nil {
				d := schemaconv.ParseDiagnostic(name, err)
				writeJSON(w, http.StatusBadRequest, report.NewDocument(schemaconv.Diagnostics{d}))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithDocument(r.Context(), doc)))
		})
	}
}

func documentName(r *http.Request) string {
	if name := r.URL.Query().Get("name"); name != "" {
		return name
	}
	return "schema.json"
}
