// Package resolve follows $ref values across an arena of parsed documents
// keyed by URI.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	schemaconv "github.com/reoring/schemaconv"
)

var (
	// ErrCycle is returned when a chain of references leads back to a target
	// that is still being resolved.
	ErrCycle = errors.New("reference cycle")
	// ErrUnresolvable is returned when a pointer names no node in its document.
	ErrUnresolvable = errors.New("unresolvable JSON pointer")
	// ErrNotFound is returned when no loader can supply a document.
	ErrNotFound = errors.New("document not found")
)

// Error reports the first reference of a document that could not be resolved.
type Error struct {
	Ref      string   // the $ref value as written
	URI      string   // document holding the reference
	Segments []string // escaped pointer segments leading to the referencing node
	Reason   string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Reason, strings.Join(e.Segments, "/"))
}

func (e *Error) Unwrap() error { return e.Err }

// Target identifies a node: a document URI plus a pointer into it.
type Target struct {
	URI     string
	Pointer schemaconv.Pointer
}

func (t Target) String() string { return t.URI + "#" + string(t.Pointer) }

// Loader fetches and parses a document that is not yet in the arena.
type Loader interface {
	Load(ctx context.Context, uri string) (*schemaconv.Node, error)
}

// LoaderFunc adapts a function into a Loader.
type LoaderFunc func(ctx context.Context, uri string) (*schemaconv.Node, error)

func (f LoaderFunc) Load(ctx context.Context, uri string) (*schemaconv.Node, error) { return f(ctx, uri) }

// Resolver holds the arena. Documents are loaded at most once and shared by
// every resolution. It is safe for concurrent use.
type Resolver struct {
	loader Loader

	mu   sync.Mutex
	docs map[string]*schemaconv.Node
}

// New returns a Resolver that falls back to loader for unknown URIs. A nil
// loader restricts resolution to documents added with Add.
func New(loader Loader) *Resolver {
	return &Resolver{loader: loader, docs: map[string]*schemaconv.Node{}}
}

// Add registers a parsed document under uri, replacing any previous one.
func (r *Resolver) Add(uri string, doc *schemaconv.Node) {
	r.mu.Lock()
	r.docs[documentKey(uri)] = doc
	r.mu.Unlock()
}

// Document returns the document for uri, loading it on first use.
func (r *Resolver) Document(ctx context.Context, uri string) (*schemaconv.Node, error) {
	key := documentKey(uri)
	r.mu.Lock()
	doc, ok := r.docs[key]
	r.mu.Unlock()
	if ok {
		return doc, nil
	}
	if r.loader == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	doc, err := r.loader.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	r.mu.Lock()
	if prev, ok := r.docs[key]; ok {
		doc = prev
	} else {
		r.docs[key] = doc
	}
	r.mu.Unlock()
	return doc, nil
}

// Join resolves ref against the URI of the document that contains it.
// Relative file paths stay relative, so a tree can be checked from any
// working directory.
func Join(base, ref string) (Target, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return Target{}, fmt.Errorf("invalid $ref %q: %w", ref, err)
	}
	p, ok := schemaconv.ParsePointer(u.Fragment)
	if !ok {
		return Target{}, fmt.Errorf("invalid JSON pointer in $ref %q", ref)
	}
	u.Fragment = ""
	u.RawFragment = ""

	switch {
	case u.String() == "":
		return Target{URI: documentKey(base), Pointer: p}, nil
	case u.IsAbs():
		return Target{URI: u.String(), Pointer: p}, nil
	}
	b, err := url.Parse(documentKey(base))
	if err != nil {
		return Target{}, fmt.Errorf("invalid base %q: %w", base, err)
	}
	if b.IsAbs() {
		return Target{URI: b.ResolveReference(u).String(), Pointer: p}, nil
	}
	if strings.HasPrefix(u.Path, "/") {
		return Target{URI: path.Clean(u.Path), Pointer: p}, nil
	}
	return Target{URI: path.Join(path.Dir(b.Path), u.Path), Pointer: p}, nil
}

// Resolve returns the node that ref, found in the document at base, points
// to. A target that is itself a {"$ref": ...} node is followed until a
// concrete node is reached; revisiting a target on the way fails with
// ErrCycle.
func (r *Resolver) Resolve(ctx context.Context, base, ref string) (*schemaconv.Node, Target, error) {
	inProgress := map[Target]bool{}
	for {
		tgt, err := Join(base, ref)
		if err != nil {
			return nil, Target{}, err
		}
		if inProgress[tgt] {
			return nil, tgt, fmt.Errorf("%w through %s", ErrCycle, tgt)
		}
		inProgress[tgt] = true

		doc, err := r.Document(ctx, tgt.URI)
		if err != nil {
			return nil, tgt, err
		}
		n, ok := schemaconv.Lookup(doc, tgt.Pointer)
		if !ok {
			return nil, tgt, fmt.Errorf("%w: %q", ErrUnresolvable, string(tgt.Pointer))
		}
		next, ok := n.Child("$ref").StringValue()
		if !ok {
			return n, tgt, nil
		}
		base, ref = tgt.URI, next
	}
}

// Check resolves every $ref of doc and of every document reached from it.
// It stops at the first failure and returns it as *Error.
func (r *Resolver) Check(ctx context.Context, uri string, doc *schemaconv.Node) error {
	r.Add(uri, doc)
	type pending struct {
		uri string
		doc *schemaconv.Node
	}
	seen := map[string]bool{documentKey(uri): true}
	queue := []pending{{documentKey(uri), doc}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		var failed *Error
		schemaconv.Walk(cur.doc, func(n *schemaconv.Node, ptr schemaconv.Pointer) {
			if failed != nil {
				return
			}
			ref, ok := n.Child("$ref").StringValue()
			if !ok {
				return
			}
			_, tgt, err := r.Resolve(ctx, cur.uri, ref)
			if err != nil {
				failed = &Error{Ref: ref, URI: cur.uri, Segments: ptr.Segments(), Reason: err.Error(), Err: err}
				return
			}
			if !seen[tgt.URI] {
				seen[tgt.URI] = true
				next, err := r.Document(ctx, tgt.URI)
				if err == nil {
					queue = append(queue, pending{tgt.URI, next})
				}
			}
		})
		if failed != nil {
			return failed
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func documentKey(uri string) string {
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		return uri[:i]
	}
	return uri
}
