// Package checker runs every check over a document or a repository tree: the
// metaschema, the rule suite, codelist cross-referencing, file checks and
// merge-patch application.
package checker

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	schemaconv "github.com/reoring/schemaconv"
	"github.com/reoring/schemaconv/codelist"
	"github.com/reoring/schemaconv/config"
	"github.com/reoring/schemaconv/filesystem"
	"github.com/reoring/schemaconv/merge"
	"github.com/reoring/schemaconv/metaschema"
	"github.com/reoring/schemaconv/resolve"
	"github.com/reoring/schemaconv/rules"
)

// MatchRule names the codelist cross-reference step in skip lists.
const MatchRule = "codelist_match"

// Checker holds what a run needs. The zero value is not usable; see New.
type Checker struct {
	Config     *config.Config
	Fs         afero.Fs
	Logger     *zap.Logger
	Metaschema *metaschema.Validator
	// Loader fetches referenced documents and merge-patch bases that are not
	// part of the tree.
	Loader resolve.Loader
}

// New returns a Checker for cfg over fs. It compiles the configured
// metaschema, read from fs. A nil logger disables logging.
func New(cfg *config.Config, fs afero.Fs, logger *zap.Logger) (*Checker, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Checker{
		Config: cfg,
		Fs:     fs,
		Logger: logger,
		Loader: resolve.SchemeLoader{
			Local:  resolve.FileLoader{Fs: fs, Options: cfg.ParseOptions()},
			Remote: resolve.HTTPLoader{Options: cfg.ParseOptions()},
		},
	}
	if cfg.Metaschema != "" {
		data, err := afero.ReadFile(fs, cfg.Metaschema)
		if err != nil {
			return nil, fmt.Errorf("read metaschema: %w", err)
		}
		if c.Metaschema, err = metaschema.New(cfg.Metaschema, data); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Document checks one schema document. codelists feeds the codelist rules;
// res resolves references and may be nil.
func (c *Checker) Document(ctx context.Context, path string, doc *schemaconv.Node, codelists []codelist.File, res *resolve.Resolver, rep schemaconv.Reporter) rules.Result {
	return c.document(ctx, c.Config, path, doc, codelists, res, rep)
}

func (c *Checker) document(ctx context.Context, cfg *config.Config, path string, doc *schemaconv.Node, codelists []codelist.File, res *resolve.Resolver, rep schemaconv.Reporter) rules.Result {
	if rep == nil {
		rep = schemaconv.Discard
	}
	var total rules.Result
	if c.Metaschema != nil && !cfg.Skips("metaschema", path) {
		n := c.Metaschema.Validate(path, doc, rep)
		total.Errors += n
		c.Logger.Debug("metaschema validated", zap.String("path", path), zap.Int("errors", n))
	}
	suite := cfg.Suite(codelists, res)
	r := suite.Run(ctx, path, doc, rep)
	c.Logger.Debug("rules run", zap.String("path", path), zap.Int("rules", len(suite.Validators)),
		zap.Int("errors", r.Errors), zap.Int("warnings", r.Warnings))
	total.Add(r)
	if cfg.Full() && !cfg.Skips(MatchRule, path) {
		total.Errors += codelist.Match(path, doc, codelists, cfg.MatchOptions(), rep)
	}
	return total
}

// Tree checks every JSON Schema document under root, written in JSON or YAML.
// Files that fail strict parsing are reported and skipped. Merge patches are also applied to their
// base schema when a base URL is configured.
func (c *Checker) Tree(ctx context.Context, root string, rep schemaconv.Reporter) (rules.Result, error) {
	if rep == nil {
		rep = schemaconv.Discard
	}
	var total rules.Result
	w := c.walker()

	invalid, err := w.InvalidFiles(root)
	if err != nil {
		return total, err
	}
	for _, f := range invalid {
		rep.Report(schemaconv.ParseDiagnostic(f.Path, f.Err))
		total.Errors++
	}

	codelists, err := w.CSV(root)
	if err != nil {
		return total, err
	}
	files, err := w.Documents(root)
	if err != nil {
		return total, err
	}
	c.Logger.Debug("tree loaded", zap.String("root", root), zap.Int("documents", len(files)),
		zap.Int("csv", len(codelists)), zap.Int("invalid", len(invalid)))

	res := resolve.New(c.Loader)
	for _, f := range files {
		res.Add(f.Path, f.Node)
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		if !schemaconv.IsJSONSchema(f.Node) {
			continue
		}
		total.Add(c.Document(ctx, f.Path, f.Node, codelists, res, rep))
		if c.Config.BaseURL != "" && schemaconv.IsJSONMergePatch(f.Node) {
			r, err := c.Patch(ctx, f.Path, f.Node, codelists, rep)
			if err != nil {
				return total, err
			}
			total.Add(r)
		}
	}
	return total, nil
}

// Patch applies the merge patch at path to the schema of the same base name
// under the configured base URL, then checks the patched schema with the full
// rule set. A patch that overwrites the base, or changes nothing, is an
// error. Failing to load the base is returned as an error.
func (c *Checker) Patch(ctx context.Context, path string, patch *schemaconv.Node, codelists []codelist.File, rep schemaconv.Reporter) (rules.Result, error) {
	if rep == nil {
		rep = schemaconv.Discard
	}
	var total rules.Result
	uri := baseURI(c.Config.BaseURL, filepath.Base(path))
	base, err := c.Loader.Load(ctx, uri)
	if err != nil {
		return total, fmt.Errorf("load %s: %w", uri, err)
	}
	opt := c.Config.MergeOptions()
	opt.Overwritten = func(p schemaconv.Pointer) {
		c.Logger.Debug("permitted overwrite", zap.String("path", path), zap.String("pointer", string(p)))
	}
	patched, err := merge.Merge(base, opt, patch)
	var oe *merge.OverwriteError
	if errors.As(err, &oe) {
		rep.Report(schemaconv.NewDiagnostic(schemaconv.Error, schemaconv.CodeMergeOverwrite, path, oe.Pointer, nil))
		total.Errors++
		return total, nil
	}
	if err != nil {
		return total, err
	}
	c.Logger.Debug("patch applied", zap.String("path", path), zap.String("base", uri))

	full := *c.Config
	yes := true
	full.FullSchema = &yes
	total.Add(c.document(ctx, &full, path, patched, codelists, resolve.New(c.Loader), rep))

	if patched.Equal(base) {
		rep.Report(schemaconv.NewDiagnostic(schemaconv.Error, schemaconv.CodeEmptyPatch, path, "", nil))
		total.Errors++
	}
	return total, nil
}

// Files runs the empty, misindented and invalid file checks under root.
func (c *Checker) Files(root string, rep schemaconv.Reporter) (rules.Result, error) {
	if rep == nil {
		rep = schemaconv.Discard
	}
	n, err := c.walker().Check(root, nil, rep)
	return rules.Result{Errors: n}, err
}

func (c *Checker) walker() *filesystem.Walker {
	return &filesystem.Walker{Fs: c.Fs, Excluded: c.Config.Exclude, Options: c.Config.ParseOptions()}
}

func baseURI(base, name string) string {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return strings.TrimSuffix(base, "/") + "/" + name
	}
	return path.Join(filepath.ToSlash(base), name)
}
