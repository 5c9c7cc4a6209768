package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bitscopic/roi-calculator/internal/report"
)

// MarkdownWriter renders the document as GitHub-flavored Markdown.
type MarkdownWriter struct{}

// Format implements Writer.
func (MarkdownWriter) Format() Format { return FormatMarkdown }

// ContentType implements Writer.
func (MarkdownWriter) ContentType() string { return "text/markdown; charset=utf-8" }

// Write implements Writer.
func (MarkdownWriter) Write(w io.Writer, p Payload) error {
	_, err := io.WriteString(w, Markdown(p.Doc))
	return eris.Wrap(err, "markdown: write")
}

// Markdown formats a document as Markdown text.
func Markdown(doc *report.Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", doc.Title)
	if doc.Subtitle != "" {
		fmt.Fprintf(&b, "_%s_\n", doc.Subtitle)
	}
	fmt.Fprintf(&b, "\nGenerated %s\n\n", doc.GeneratedAt.Format("2006-01-02 15:04 MST"))

	for _, s := range doc.Sections {
		if s.Kind == report.SectionCover {
			writeBlocks(&b, s.Blocks)
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		writeBlocks(&b, s.Blocks)
	}
	return b.String()
}

func writeBlocks(b *strings.Builder, blocks []report.Block) {
	for _, blk := range blocks {
		switch x := blk.(type) {
		case report.Paragraph:
			fmt.Fprintf(b, "%s\n\n", x.Text)
		case report.Bullets:
			for _, it := range x.Items {
				fmt.Fprintf(b, "- %s\n", it)
			}
			b.WriteString("\n")
		case report.Table:
			writeTable(b, x)
		case report.Chart:
			fmt.Fprintf(b, "![%s](%s)\n\n", x.Request.Title, x.Image.Ref)
		}
	}
}

func writeTable(b *strings.Builder, t report.Table) {
	if len(t.Columns) == 0 {
		return
	}
	if t.Caption != "" {
		fmt.Fprintf(b, "**%s**\n\n", t.Caption)
	}
	fmt.Fprintf(b, "| %s |\n", strings.Join(escapeCells(t.Columns), " | "))
	sep := make([]string, len(t.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintf(b, "| %s |\n", strings.Join(sep, " | "))
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		copy(cells, row)
		fmt.Fprintf(b, "| %s |\n", strings.Join(escapeCells(cells), " | "))
	}
	b.WriteString("\n")
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}
