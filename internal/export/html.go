package export

import (
	"bytes"
	"html"
	"io"

	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLWriter renders the Markdown form of the document to a standalone
// HTML page.
type HTMLWriter struct{}

// Format implements Writer.
func (HTMLWriter) Format() Format { return FormatHTML }

// ContentType implements Writer.
func (HTMLWriter) ContentType() string { return "text/html; charset=utf-8" }

var markdownHTML = goldmark.New(goldmark.WithExtensions(extension.Table))

const htmlStyle = `body{font-family:Helvetica,Arial,sans-serif;max-width:960px;margin:2em auto;color:#222}
h1,h2{color:#003F72}table{border-collapse:collapse;margin:1em 0}
th{background:#003F72;color:#fff}th,td{border:1px solid #999;padding:4px 8px;text-align:left}`

// Write implements Writer.
func (HTMLWriter) Write(w io.Writer, p Payload) error {
	var body bytes.Buffer
	if err := markdownHTML.Convert([]byte(Markdown(p.Doc)), &body); err != nil {
		return eris.Wrap(err, "html: convert markdown")
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>")
	out.WriteString(html.EscapeString(p.Doc.Title))
	out.WriteString("</title>\n<style>")
	out.WriteString(htmlStyle)
	out.WriteString("</style>\n</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")

	if _, err := w.Write(out.Bytes()); err != nil {
		return eris.Wrap(err, "html: write")
	}
	return nil
}
