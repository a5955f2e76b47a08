// Package report prints tour results in a stable, readable layout.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// Report writes sections and values to an underlying writer. Write errors
// are remembered and returned by Err so callers can print freely and check
// once.
type Report struct {
	w   io.Writer
	err error
}

func New(w io.Writer) *Report {
	return &Report{w: w}
}

// Section prints a "=== title ===" header preceded by a blank line.
func (r *Report) Section(title string) {
	r.Printf("\n=== %s ===\n", title)
}

// Printf writes a formatted line. A trailing newline is added when missing.
func (r *Report) Printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	s := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, r.err = io.WriteString(r.w, s)
}

// Value prints label followed by v rendered as indented JSON. Values that
// cannot be encoded fall back to %+v.
func (r *Report) Value(label string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		r.Printf("%s: %+v", label, v)
		return
	}
	r.Printf("%s: %s", label, b)
}

// Err returns the first write error.
func (r *Report) Err() error {
	return r.err
}
