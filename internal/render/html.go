package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"paperforge/internal/paper"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// HTML renders the Document into a standalone HTML file with a two-column
// Times layout approximating the IEEE conference style. The title and byline
// span the full width; everything below flows into the columns.
func HTML(doc *paper.Document) ([]byte, error) {
	body := Markdown(doc)

	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return nil, fmt.Errorf("markdown conversion failed: %w", err)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, htmlShell, html.EscapeString(doc.Title), buf.String())
	return out.Bytes(), nil
}

const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
  body {
    font-family: "Times New Roman", Times, serif;
    font-size: 10pt;
    max-width: 19cm;
    margin: 1.6cm auto;
    text-align: justify;
  }
  h1 { font-size: 24pt; font-weight: normal; text-align: center; }
  h1 + p, h1 + p + p { text-align: center; }
  h2 { font-size: 10pt; text-align: center; text-transform: uppercase; }
  article {
    column-count: 2;
    column-gap: 0.6cm;
  }
  table {
    border-collapse: collapse;
    font-size: 8pt;
    margin: 0 auto;
  }
  th { border-top: 1pt solid #000; border-bottom: 0.5pt solid #000; }
  tr:last-child td { border-bottom: 1pt solid #000; }
  th, td { padding: 3pt 8pt; text-align: center; }
  blockquote { margin: 0; text-align: center; font-style: italic; }
  hr { border: none; border-top: 0.5pt solid #000; }
</style>
</head>
<body>
<article>
%s
</article>
</body>
</html>
`
