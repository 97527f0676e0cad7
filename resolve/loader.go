package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/afero"

	schemaconv "github.com/reoring/schemaconv"
)

// FileLoader reads documents from a filesystem. URIs are paths relative to
// the filesystem root, optionally prefixed with file://. Files ending in
// .yaml or .yml are parsed as YAML.
type FileLoader struct {
	Fs      afero.Fs
	Options schemaconv.ParseOptions
}

func (l FileLoader) Load(ctx context.Context, uri string) (*schemaconv.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs := l.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	name := strings.TrimPrefix(uri, "file://")
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, err
	}
	return schemaconv.ParsePath(name, data, l.Options)
}

// HTTPLoader fetches documents over HTTP(S).
type HTTPLoader struct {
	Client  *http.Client
	Options schemaconv.ParseOptions
}

func (l HTTPLoader) Load(ctx context.Context, uri string) (*schemaconv.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	c := l.Client
	if c == nil {
		c = http.DefaultClient
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("GET %s: %s", uri, resp.Status)
	}
	return schemaconv.ParseReader(resp.Body, l.Options)
}

// SchemeLoader dispatches http and https URIs to Remote and everything else
// to Local. A nil Remote disables network access.
type SchemeLoader struct {
	Local  Loader
	Remote Loader
}

func (l SchemeLoader) Load(ctx context.Context, uri string) (*schemaconv.Node, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		if l.Remote == nil {
			return nil, fmt.Errorf("%w: remote loading disabled for %s", ErrNotFound, uri)
		}
		return l.Remote.Load(ctx, uri)
	}
	if l.Local == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	return l.Local.Load(ctx, uri)
}
