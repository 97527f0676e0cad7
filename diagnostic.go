package schemaconv

import (
	"fmt"
	"strings"
	"sync"

	"github.com/reoring/schemaconv/i18n"
)

// Diagnostic codes (exported consts for IDE completion and type safety by convention)
const (
	// Ingestion
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
	// Rule validators
	CodeLetterCaseProperty     = "letter_case_property"
	CodeLetterCaseDefinition   = "letter_case_definition"
	CodeMissingMetadata        = "missing_metadata"
	CodeMissingType            = "missing_type"
	CodeNullInType             = "null_in_type"
	CodeMissingNull            = "missing_null"
	CodeOpenCodelistEnum       = "open_codelist_enum"
	CodeClosedCodelistNoEnum   = "closed_codelist_no_enum"
	CodeCodelistMismatch       = "codelist_mismatch"
	CodeMissingCodelistFile    = "missing_codelist_file"
	CodeEnumWithoutCodelist    = "enum_without_codelist"
	CodeMissingItems           = "missing_items"
	CodeInvalidItemsType       = "invalid_items_type"
	CodeDeepProperties         = "deep_properties"
	CodeMergePropertyFalsy     = "merge_property_falsy"
	CodeWholeListMergeNotArray = "whole_list_merge_not_array"
	CodeMergePropertiesBoth    = "merge_properties_both"
	CodeMissingID              = "missing_id"
	CodeOptionalID             = "optional_id"
	CodeUnresolvedRef          = "unresolved_ref"
	// Codelist cross-reference
	CodeUnusedCodelists      = "unused_codelists"
	CodeMissingCodelists     = "missing_codelists"
	CodeUnknownCodelistPatch = "unknown_codelist_patch"
	// Collaborators
	CodeInvalidSchema   = "invalid_schema"
	CodeEmptyFile       = "empty_file"
	CodeMisindentedFile = "misindented_file"
	CodeMergeOverwrite  = "merge_overwrite"
	CodeEmptyPatch      = "empty_patch"
)

// Severity expresses the severity level for diagnostics.
type Severity int

const (
	// Warn marks advisory diagnostics; they never count as failures.
	Warn Severity = iota
	// Error marks violations of normative conventions.
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic represents a single finding produced by a rule.
type Diagnostic struct {
	Severity Severity
	Code     string  // One of the codes listed above.
	Rule     string  // Name of the rule that produced it, if any.
	Path     string  // Logical path of the document, for labeling only.
	Pointer  Pointer // Node under inspection.
	// From is the referencing pointer when Pointer names a definition reached
	// through $ref.
	From    Pointer
	Message string
	// Params carries the values the message was rendered from.
	Params map[string]string
}

func (d Diagnostic) String() string { return d.Message }

// Diagnostics is a collection of findings that implements error.
type Diagnostics []Diagnostic

// Error summarizes the first few diagnostics.
func (ds Diagnostics) Error() string {
	if len(ds) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(ds), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", ds[i].Code, pointerLabel(ds[i].Pointer))
	}
	if len(ds) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(ds))
	}
	return b.String()
}

// Count returns the number of diagnostics with the given severity.
func (ds Diagnostics) Count(s Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == s {
			n++
		}
	}
	return n
}

func pointerLabel(p Pointer) string {
	if p == "" {
		return "/"
	}
	return string(p)
}

// NewDiagnostic renders the message for code from params. The "path" and
// "pointer" params are filled from the arguments.
func NewDiagnostic(sev Severity, code, path string, p Pointer, params map[string]string) Diagnostic {
	data := make(map[string]string, len(params)+2)
	for k, v := range params {
		data[k] = v
	}
	data["path"] = path
	if _, ok := data["pointer"]; !ok {
		data["pointer"] = string(p)
	}
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Path:     path,
		Pointer:  p,
		Message:  i18n.T(code, data),
		Params:   data,
	}
}

// Reporter receives diagnostics as they are produced. Hosts redirect them to
// logs, test output or structured documents.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function into a Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Reporter = ReporterFunc(func(Diagnostic) {})

// Collector accumulates diagnostics in memory. It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags Diagnostics
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of everything collected so far.
func (c *Collector) Diagnostics() Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(Diagnostics(nil), c.diags...)
}

// Tee fans a diagnostic out to several reporters.
func Tee(rs ...Reporter) Reporter {
	return ReporterFunc(func(d Diagnostic) {
		for _, r := range rs {
			if r != nil {
				r.Report(d)
			}
		}
	})
}
