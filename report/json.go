package report

import (
	"io"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	schemaconv "github.com/reoring/schemaconv"
)

// Entry is the JSON form of a Diagnostic.
type Entry struct {
	Severity string            `json:"severity"`
	Code     string            `json:"code"`
	Rule     string            `json:"rule,omitempty"`
	Path     string            `json:"path"`
	Pointer  string            `json:"pointer"`
	From     string            `json:"from,omitempty"`
	Message  string            `json:"message"`
	Params   map[string]string `json:"params,omitempty"`
}

// Document is the machine-readable outcome of a run.
type Document struct {
	RunID       string  `json:"run_id"`
	Errors      int     `json:"errors"`
	Warnings    int     `json:"warnings"`
	Diagnostics []Entry `json:"diagnostics"`
}

// NewDocument tallies ds into a Document with a fresh run id.
func NewDocument(ds schemaconv.Diagnostics) Document {
	doc := Document{
		RunID:       uuid.NewString(),
		Errors:      ds.Count(schemaconv.Error),
		Warnings:    ds.Count(schemaconv.Warn),
		Diagnostics: make([]Entry, 0, len(ds)),
	}
	for _, d := range ds {
		doc.Diagnostics = append(doc.Diagnostics, Entry{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Rule:     d.Rule,
			Path:     d.Path,
			Pointer:  string(d.Pointer),
			From:     string(d.From),
			Message:  d.Message,
			Params:   d.Params,
		})
	}
	return doc
}

// WriteJSON writes doc as indented JSON followed by a newline.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
