// Package filesystem walks a repository tree on an afero filesystem, loads its
// JSON, YAML and CSV files, and checks files for emptiness, formatting and
// strict validity.
package filesystem

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	schemaconv "github.com/reoring/schemaconv"
	"github.com/reoring/schemaconv/codelist"
)

// DefaultExcluded names the directories Walk never descends into.
var DefaultExcluded = []string{".git", ".ve", ".venv", "_static", "build", "fixtures"}

// Untracked holds name patterns of paths that are usually not under version
// control. Files with any path segment matching one of them are not checked.
var Untracked = []string{"*.egg-info", ".tox", ".ve", ".venv", "htmlcov", "node_modules", "vendor"}

// Tracked reports whether no segment of path matches an Untracked pattern.
func Tracked(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		for _, pat := range Untracked {
			if ok, _ := filepath.Match(pat, part); ok {
				return false
			}
		}
	}
	return true
}

// Include selects files for a check by path and base name.
type Include func(path, name string) bool

func includeAll(string, string) bool { return true }

// Walker visits the files of a tree.
type Walker struct {
	Fs afero.Fs
	// Excluded overrides DefaultExcluded when non-nil.
	Excluded []string
	// Options is used to parse JSON files.
	Options schemaconv.ParseOptions
}

// New returns a Walker over fs with the default exclusions.
func New(fs afero.Fs) *Walker {
	return &Walker{Fs: fs}
}

func (w *Walker) fs() afero.Fs {
	if w.Fs == nil {
		return afero.NewOsFs()
	}
	return w.Fs
}

func (w *Walker) excluded(name string) bool {
	ex := w.Excluded
	if ex == nil {
		ex = DefaultExcluded
	}
	for _, e := range ex {
		if e == name {
			return true
		}
	}
	return false
}

// Walk calls fn for every regular file under root in lexical order, skipping
// excluded directories at any depth below root.
func (w *Walker) Walk(root string, fn func(path, name string) error) error {
	return afero.Walk(w.fs(), root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && w.excluded(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		return fn(path, info.Name())
	})
}

// JSONFile is a JSON or YAML document found by the walker.
type JSONFile struct {
	Path string
	Name string
	Text []byte
	Node *schemaconv.Node
}

func isJSON(path string) bool { return strings.HasSuffix(path, ".json") }

func isDocument(path string) bool { return isJSON(path) || schemaconv.IsYAMLPath(path) }

// JSON returns every non-empty .json file under root that parses. Files that
// fail to parse are skipped; see InvalidJSONFiles.
func (w *Walker) JSON(root string) ([]JSONFile, error) {
	return w.documents(root, isJSON)
}

// Documents returns every non-empty JSON or YAML file under root that parses.
func (w *Walker) Documents(root string) ([]JSONFile, error) {
	return w.documents(root, isDocument)
}

func (w *Walker) documents(root string, match func(string) bool) ([]JSONFile, error) {
	var out []JSONFile
	err := w.Walk(root, func(path, name string) error {
		if !match(path) {
			return nil
		}
		text, err := afero.ReadFile(w.fs(), path)
		if err != nil {
			return err
		}
		if len(text) == 0 {
			return nil
		}
		n, err := schemaconv.ParsePath(path, text, w.Options)
		if err != nil {
			return nil
		}
		out = append(out, JSONFile{Path: path, Name: name, Text: text, Node: n})
		return nil
	})
	return out, err
}

// CSV returns every .csv file under root that reads as CSV, with the first
// record as column names. Rows shorter than the header omit the missing
// columns.
func (w *Walker) CSV(root string) ([]codelist.File, error) {
	var out []codelist.File
	err := w.Walk(root, func(path, name string) error {
		if !strings.HasSuffix(path, ".csv") {
			return nil
		}
		text, err := afero.ReadFile(w.fs(), path)
		if err != nil {
			return err
		}
		f, err := ReadCSV(bytes.NewReader(text))
		if err != nil {
			return nil
		}
		f.Path, f.Name = path, name
		out = append(out, f)
		return nil
	})
	return out, err
}

// ReadCSV reads a header row followed by data rows.
func ReadCSV(r io.Reader) (codelist.File, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var f codelist.File
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return f, nil
	}
	if err != nil {
		return f, err
	}
	f.Columns = header
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return f, nil
		}
		if err != nil {
			return codelist.File{}, err
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		f.Rows = append(f.Rows, row)
	}
}

// EmptyFiles returns tracked files whose text is only whitespace, and JSON or
// YAML files whose value is null, an empty string, an empty array or an empty
// object. Files that are not UTF-8 text are never empty.
func (w *Walker) EmptyFiles(root string, include Include) ([]string, error) {
	if include == nil {
		include = includeAll
	}
	var out []string
	err := w.Walk(root, func(path, name string) error {
		if !Tracked(path) || !include(path, name) || name == "__init__.py" {
			return nil
		}
		text, err := afero.ReadFile(w.fs(), path)
		if err != nil {
			return err
		}
		if !utf8.Valid(text) {
			return nil
		}
		if len(bytes.TrimSpace(text)) == 0 {
			out = append(out, path)
			return nil
		}
		if isDocument(name) {
			n, err := schemaconv.ParsePath(name, text, w.Options)
			if err == nil && emptyValue(n) {
				out = append(out, path)
			}
		}
		return nil
	})
	return out, err
}

func emptyValue(n *schemaconv.Node) bool {
	switch n.Kind {
	case schemaconv.KindBool, schemaconv.KindNumber:
		return false
	}
	return !n.Truthy()
}

// MisindentedFiles returns tracked JSON files whose text differs from
// schemaconv.Indent of their value.
func (w *Walker) MisindentedFiles(root string, include Include) ([]string, error) {
	if include == nil {
		include = includeAll
	}
	files, err := w.JSON(root)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range files {
		if Tracked(f.Path) && include(f.Path, f.Name) && !bytes.Equal(f.Text, schemaconv.Indent(f.Node)) {
			out = append(out, f.Path)
		}
	}
	return out, nil
}

// Invalid pairs a file with the reason it failed to parse.
type Invalid struct {
	Path string
	Err  error
}

// InvalidJSONFiles returns the non-empty JSON files that fail strict parsing.
// A file that repeats keys yields one entry per repeated key.
func (w *Walker) InvalidJSONFiles(root string) ([]Invalid, error) {
	return w.invalid(root, isJSON, func(text []byte) []error {
		_, err := schemaconv.ParseWith(text, w.Options)
		var dup *schemaconv.DuplicateKeyError
		if !errors.As(err, &dup) {
			return []error{err}
		}
		dups, scanErr := schemaconv.DetectDuplicateKeys(text, w.Options)
		if len(dups) == 0 {
			return []error{err}
		}
		errs := make([]error, 0, len(dups)+1)
		for _, d := range dups {
			errs = append(errs, d)
		}
		if scanErr != nil {
			errs = append(errs, scanErr)
		}
		return errs
	})
}

// InvalidYAMLFiles returns the non-empty YAML files that fail strict parsing,
// including those that repeat a key within a mapping.
func (w *Walker) InvalidYAMLFiles(root string) ([]Invalid, error) {
	return w.invalid(root, schemaconv.IsYAMLPath, func(text []byte) []error {
		_, err := schemaconv.ParseYAML(text)
		return []error{err}
	})
}

func (w *Walker) invalid(root string, match func(string) bool, parse func(text []byte) []error) ([]Invalid, error) {
	var out []Invalid
	err := w.Walk(root, func(path, _ string) error {
		if !match(path) {
			return nil
		}
		text, err := afero.ReadFile(w.fs(), path)
		if err != nil {
			return err
		}
		if len(text) == 0 {
			return nil
		}
		for _, err := range parse(text) {
			if err != nil {
				out = append(out, Invalid{Path: path, Err: err})
			}
		}
		return nil
	})
	return out, err
}

// InvalidFiles runs InvalidJSONFiles and InvalidYAMLFiles.
func (w *Walker) InvalidFiles(root string) ([]Invalid, error) {
	out, err := w.InvalidJSONFiles(root)
	if err != nil {
		return nil, err
	}
	yml, err := w.InvalidYAMLFiles(root)
	if err != nil {
		return nil, err
	}
	return append(out, yml...), nil
}

// Check runs the three file checks under root and reports an error
// diagnostic per finding. It returns the number of diagnostics.
func (w *Walker) Check(root string, include Include, rep schemaconv.Reporter) (int, error) {
	count := 0
	empty, err := w.EmptyFiles(root, include)
	if err != nil {
		return count, err
	}
	for _, p := range empty {
		rep.Report(schemaconv.NewDiagnostic(schemaconv.Error, schemaconv.CodeEmptyFile, p, "", nil))
		count++
	}
	mis, err := w.MisindentedFiles(root, include)
	if err != nil {
		return count, err
	}
	for _, p := range mis {
		rep.Report(schemaconv.NewDiagnostic(schemaconv.Error, schemaconv.CodeMisindentedFile, p, "", nil))
		count++
	}
	invalid, err := w.InvalidFiles(root)
	if err != nil {
		return count, err
	}
	for _, f := range invalid {
		rep.Report(schemaconv.ParseDiagnostic(f.Path, f.Err))
		count++
	}
	return count, nil
}
