package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	schemaconv "github.com/reoring/schemaconv"
)

// Console prints one line per diagnostic: "ERROR: " in red for errors and
// "WARNING: " in yellow for advisory ones. Occurrences of Dir are stripped so
// paths print relative to it.
type Console struct {
	W       io.Writer
	Dir     string
	NoColor bool

	mu sync.Mutex
}

// NewConsole returns a Console writing to w with paths relative to dir.
func NewConsole(w io.Writer, dir string) *Console {
	return &Console{W: w, Dir: dir}
}

func (c *Console) Report(d schemaconv.Diagnostic) {
	label, col := "ERROR: ", color.New(color.FgRed, color.Bold)
	if d.Severity != schemaconv.Error {
		label, col = "WARNING: ", color.New(color.FgYellow)
	}
	if c.NoColor {
		col.DisableColor()
	}
	msg := d.Message
	if c.Dir != "" && c.Dir != "." {
		msg = strings.ReplaceAll(msg, strings.TrimSuffix(c.Dir, "/")+"/", "")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	col.Fprint(c.W, label)
	fmt.Fprintln(c.W, msg)
}

// Summary prints the closing line of a run.
func (c *Console) Summary(errors, warnings int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	col := color.New(color.FgGreen)
	if errors > 0 {
		col = color.New(color.FgRed, color.Bold)
	}
	if c.NoColor {
		col.DisableColor()
	}
	col.Fprintf(c.W, "%d error(s), %d warning(s)\n", errors, warnings)
}
