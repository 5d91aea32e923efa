// internal/audit/render-report/fpdf.go
package renderreport

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// FPDFRenderer lays the report out with fpdf and needs no browser. The HTML
// is reduced to markdown first, so styling is not carried over.
type FPDFRenderer struct {
	converter *md.Converter
	markdown  goldmark.Markdown
}

func NewFPDFRenderer() *FPDFRenderer {
	conv := md.NewConverter("", true, nil)
	conv.Remove("title", "head")
	return &FPDFRenderer{
		converter: conv,
		markdown:  goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough)),
	}
}

func (r *FPDFRenderer) Name() string { return RendererFPDF }

func (r *FPDFRenderer) Close() error { return nil }

func (r *FPDFRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	markdown, err := r.converter.ConvertString(html)
	if err != nil {
		return nil, fmt.Errorf("convert html to markdown: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(ReportTitle, true)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 10)

	source := []byte(markdown)
	w := &pdfWriter{
		pdf:    pdf,
		source: source,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		size:   10,
	}
	if err := ast.Walk(r.markdown.Parser().Parse(text.NewReader(source)), w.walk); err != nil {
		return nil, fmt.Errorf("lay out report: %w", err)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("lay out report: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf       *fpdf.Fpdf
	source    []byte
	tr        func(string) string
	size      float64
	bold      bool
	italic    bool
	listLevel int
}

func (w *pdfWriter) resetFont() {
	style := ""
	if w.bold {
		style += "B"
	}
	if w.italic {
		style += "I"
	}
	w.pdf.SetFont("Arial", style, w.size)
}

func (w *pdfWriter) write(s string) {
	w.pdf.Write(5, w.tr(s))
}

func (w *pdfWriter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			w.pdf.Ln(4)
			w.pdf.SetFont("Arial", "B", headingSize(node.Level))
		} else {
			w.pdf.Ln(7)
			w.resetFont()
		}
	case *ast.Paragraph:
		if !entering {
			w.pdf.Ln(6)
		}
	case *ast.Text:
		if entering {
			w.write(string(node.Segment.Value(w.source)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				w.pdf.Ln(5)
			}
		}
	case *ast.String:
		if entering {
			w.write(string(node.Value))
		}
	case *ast.Emphasis:
		if node.Level == 2 {
			w.bold = entering
		} else {
			w.italic = entering
		}
		w.resetFont()
	case *ast.CodeSpan:
		if entering {
			w.pdf.SetFont("Courier", "", w.size)
			w.write(string(node.Text(w.source)))
			w.resetFont()
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			w.codeBlock(n.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.List:
		if entering {
			w.listLevel++
		} else {
			w.listLevel--
			if w.listLevel == 0 {
				w.pdf.Ln(2)
			}
		}
	case *ast.ListItem:
		if entering {
			w.pdf.Ln(5)
			w.pdf.SetX(15 + float64(w.listLevel-1)*5)
			w.write("- ")
		}
	case *ast.ThematicBreak:
		if entering {
			w.pdf.Ln(2)
			w.pdf.Line(10, w.pdf.GetY(), 200, w.pdf.GetY())
			w.pdf.Ln(2)
		}
	case *extast.Table:
		if entering {
			w.table(node)
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func headingSize(level int) float64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 13
	case 3:
		return 12
	default:
		return 11
	}
}

func (w *pdfWriter) codeBlock(lines *text.Segments) {
	w.pdf.Ln(2)
	w.pdf.SetFont("Courier", "", 9)
	w.pdf.SetFillColor(244, 247, 251)
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		w.pdf.MultiCell(0, 5, w.tr(strings.TrimRight(string(line.Value(w.source)), "\n")), "", "L", true)
	}
	w.pdf.SetFillColor(255, 255, 255)
	w.resetFont()
	w.pdf.Ln(2)
}

// table prints one line per row with cells separated by bars.
func (w *pdfWriter) table(n *extast.Table) {
	w.pdf.Ln(2)
	w.pdf.SetFont("Arial", "", 9)
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(string(cell.Text(w.source))))
		}
		_, header := row.(*extast.TableHeader)
		if header {
			w.pdf.SetFont("Arial", "B", 9)
		}
		w.pdf.MultiCell(0, 5, w.tr(strings.Join(cells, " | ")), "B", "L", false)
		if header {
			w.pdf.SetFont("Arial", "", 9)
		}
	}
	w.resetFont()
	w.pdf.Ln(2)
}
