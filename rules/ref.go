package rules

import (
	"context"
	"errors"
	"strings"

	schemaconv "github.com/reoring/schemaconv"
	"github.com/reoring/schemaconv/resolve"
)

// Ref requires every $ref to resolve. Resolution stops at the first failure,
// which counts as one error however many references are broken.
type Ref struct {
	// Resolver loads the documents that references point to. Nil resolves
	// within the document only.
	Resolver *resolve.Resolver
	// Base is the URI relative references resolve against; it defaults to
	// the document path.
	Base string
}

func (Ref) Name() string { return "ref" }

func (r Ref) Validate(ctx context.Context, path string, root *schemaconv.Node, rep schemaconv.Reporter) int {
	e := newEmitter(r.Name(), path, rep)
	res := r.Resolver
	if res == nil {
		res = resolve.New(nil)
	}
	base := r.Base
	if base == "" {
		base = path
	}
	err := res.Check(ctx, base, root)
	if err == nil {
		return 0
	}
	var segments []string
	reason := err.Error()
	var re *resolve.Error
	if errors.As(err, &re) {
		segments, reason = re.Segments, re.Reason
	}
	var ptr schemaconv.Pointer
	if len(segments) > 0 {
		ptr = schemaconv.Pointer("/" + strings.Join(segments, "/"))
	}
	return e.report(schemaconv.CodeUnresolvedRef, ptr, map[string]string{
		"reason":   reason,
		"segments": strings.Join(segments, "/"),
	})
}
