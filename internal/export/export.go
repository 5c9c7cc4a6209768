// Package export renders compiled reports into downloadable files.
package export

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bitscopic/roi-calculator/internal/report"
)

// Format names an output rendition.
type Format string

// Output formats. PDF has no built-in writer and must be registered.
const (
	FormatXLSX     Format = "xlsx"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
	FormatPDF      Format = "pdf"
)

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", eris.Errorf("export: unknown format %q", s)
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Payload is what a writer renders: the compiled document and the
// numbers it was compiled from.
type Payload struct {
	Doc  *report.Document
	Data report.Input
}

// Writer renders a payload in one format.
type Writer interface {
	Format() Format
	ContentType() string
	Write(w io.Writer, p Payload) error
}

// Registry maps formats to writers.
type Registry struct {
	writers map[Format]Writer
}

// NewRegistry returns a registry holding ws.
func NewRegistry(ws ...Writer) *Registry {
	r := &Registry{writers: make(map[Format]Writer)}
	for _, w := range ws {
		r.Register(w)
	}
	return r
}

// DefaultRegistry holds the workbook, Markdown, HTML and CSV writers.
func DefaultRegistry() *Registry {
	return NewRegistry(WorkbookWriter{}, MarkdownWriter{}, HTMLWriter{}, CSVWriter{})
}

// Register adds or replaces the writer for its format.
func (r *Registry) Register(w Writer) {
	r.writers[w.Format()] = w
}

// For returns the writer for f.
func (r *Registry) For(f Format) (Writer, error) {
	w, ok := r.writers[f]
	if !ok {
		return nil, &Error{Format: f, Op: "lookup", Err: eris.Errorf("no writer registered for %q", f)}
	}
	return w, nil
}

// Formats lists registered formats sorted by name.
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.writers))
	for f := range r.writers {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Render writes p into memory. On failure nothing is returned.
func Render(w Writer, p Payload) ([]byte, error) {
	if p.Doc == nil {
		return nil, &Error{Format: w.Format(), Op: "render", Err: eris.New("no document")}
	}
	var buf bytes.Buffer
	if err := w.Write(&buf, p); err != nil {
		return nil, &Error{Format: w.Format(), Op: "render", Err: err}
	}
	return buf.Bytes(), nil
}

// ExportFile renders p and moves it into path. The destination is only
// touched after rendering succeeds.
func ExportFile(path string, w Writer, p Payload) error {
	data, err := Render(w, p)
	if err != nil {
		return err
	}
	return WriteFile(path, w.Format(), data)
}

// WriteFile writes already rendered data to path through a temp file in
// the same directory, so path never holds a partial export.
func WriteFile(path string, f Format, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".roi-export-*")
	if err != nil {
		return &Error{Format: f, Op: "create", Err: eris.Wrap(err, "create temp file")}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &Error{Format: f, Op: "write", Err: eris.Wrap(err, "write temp file")}
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return &Error{Format: f, Op: "write", Err: eris.Wrap(err, "chmod temp file")}
	}
	if err := tmp.Close(); err != nil {
		return &Error{Format: f, Op: "write", Err: eris.Wrap(err, "close temp file")}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &Error{Format: f, Op: "rename", Err: eris.Wrapf(err, "move into %s", path)}
	}

	zap.L().Info("export: wrote file",
		zap.String("path", path),
		zap.String("format", string(f)),
		zap.Int("bytes", len(data)),
	)
	return nil
}
