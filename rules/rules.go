// Package rules implements the schema authoring conventions. Each rule is a
// struct holding its exceptions plus a Validate method built on
// schemaconv.Traverse, so rules can be configured and tested in isolation.
package rules

import (
	"context"

	schemaconv "github.com/reoring/schemaconv"
)

// Validator is one convention check. Validate reports diagnostics to rep and
// returns how many it reported.
type Validator interface {
	Name() string
	Validate(ctx context.Context, path string, root *schemaconv.Node, rep schemaconv.Reporter) int
}

// Result summarizes a run. Advisory diagnostics count as warnings only.
type Result struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Add accumulates o into r.
func (r *Result) Add(o Result) {
	r.Errors += o.Errors
	r.Warnings += o.Warnings
}

// OK reports whether no errors were found.
func (r Result) OK() bool { return r.Errors == 0 }

// Suite runs a list of validators over a document.
type Suite struct {
	Validators []Validator
	// Skip, if set, excludes a rule for a document path.
	Skip func(rule, path string) bool
}

// Default returns a Suite of every rule with empty configuration.
func Default() Suite {
	return Suite{Validators: []Validator{
		ArrayItems{},
		ItemsType{},
		CodelistEnum{},
		LetterCase{},
		MergeProperties{},
		MetadataPresence{},
		NullType{},
		ObjectID{},
		DeepProperties{},
		Ref{},
	}}
}

// Run applies each validator in order and tallies diagnostics by severity.
func (s Suite) Run(ctx context.Context, path string, root *schemaconv.Node, rep schemaconv.Reporter) Result {
	if rep == nil {
		rep = schemaconv.Discard
	}
	var res Result
	counter := schemaconv.ReporterFunc(func(d schemaconv.Diagnostic) {
		if d.Severity == schemaconv.Error {
			res.Errors++
		} else {
			res.Warnings++
		}
		rep.Report(d)
	})
	for _, v := range s.Validators {
		if ctx.Err() != nil {
			break
		}
		if s.Skip != nil && s.Skip(v.Name(), path) {
			continue
		}
		v.Validate(ctx, path, root, counter)
	}
	return res
}

// emitter stamps diagnostics with their rule and document.
type emitter struct {
	rule string
	path string
	sev  schemaconv.Severity
	rep  schemaconv.Reporter
}

func newEmitter(rule, path string, rep schemaconv.Reporter) emitter {
	if rep == nil {
		rep = schemaconv.Discard
	}
	return emitter{rule: rule, path: path, sev: schemaconv.Error, rep: rep}
}

func (e emitter) report(code string, p schemaconv.Pointer, params map[string]string) int {
	d := schemaconv.NewDiagnostic(e.sev, code, e.path, p, params)
	d.Rule = e.rule
	e.rep.Report(d)
	return 1
}

func stringsOf(n *schemaconv.Node) []string {
	if !n.IsArray() {
		return nil
	}
	out := make([]string, 0, len(n.Items))
	for _, it := range n.Items {
		if s, ok := it.StringValue(); ok {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func never(schemaconv.Pointer) bool { return false }
