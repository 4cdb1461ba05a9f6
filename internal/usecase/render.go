package usecase

import (
	"fmt"
	"html"
	"strings"

	"cv-generator/internal/model"
)

// RenderedCell is a cell after span rendering, ready for format emission.
type RenderedCell struct {
	Content    string
	WidthPct   float64
	Background string
}

// Format is the output backend. Both implementations must agree
// semantically on every primitive even though the emitted bytes differ.
type Format interface {
	Name() string
	Escape(s string) string
	Placeholder() string
	Bold(s string) string
	Sized(s string, pt int) string
	Link(text, href string) string
	// Color resolves a palette tag to a concrete color value. Unknown tags
	// pass through as literal values.
	Color(tag string) string
	Row(cells []RenderedCell) string
	Bullet(content string) string
	Paragraph(content string) string
	Spacer() string
	PageBreak() string
	DocumentStart(title string) string
	DocumentEnd() string
}

// renderCell renders one logical cell: per-span sanitize, bold, size and
// link wrapping in that fixed order, spans joined with ", ". A cell that is
// empty after sanitization becomes the backend placeholder so the table
// grid stays intact.
func renderCell(f Format, c model.Cell) string {
	parts := make([]string, 0, len(c.Spans))
	for _, sp := range c.Spans {
		// malformed spans degrade to empty rather than failing the row
		if sp.Text == "" {
			continue
		}
		t := f.Escape(sp.Text)
		if sp.Bold {
			t = f.Bold(t)
		}
		if sp.Size > 0 {
			t = f.Sized(t, sp.Size)
		}
		if sp.Link != "" {
			t = f.Link(t, sp.Link)
		}
		parts = append(parts, t)
	}
	s := strings.Join(parts, ", ")
	if strings.TrimSpace(s) == "" {
		return f.Placeholder()
	}
	return s
}

// RenderRow emits one logical row as a single-row table in the active
// format. With merge set, all cells (or all but the first, when
// includeFirstInMerge is false) collapse into one cell whose width is the
// sum of the merged columns; placeholder-only cells are dropped before
// concatenation and the merged background comes from the first merged cell.
func RenderRow(f Format, row model.Row, merge, includeFirstInMerge bool) string {
	widths := Proportions(row.Ratios)
	cells := make([]RenderedCell, 0, len(row.Cells))
	for i, c := range row.Cells {
		w := 0.0
		if i < len(widths) {
			w = widths[i]
		}
		cells = append(cells, RenderedCell{
			Content:    renderCell(f, c),
			WidthPct:   w,
			Background: c.Background,
		})
	}

	if merge && len(cells) > 0 {
		start := 0
		var out []RenderedCell
		if !includeFirstInMerge && len(cells) > 1 {
			out = append(out, cells[0])
			start = 1
		}
		merged := RenderedCell{Background: cells[start].Background}
		var parts []string
		for _, rc := range cells[start:] {
			merged.WidthPct += rc.WidthPct
			if rc.Content == f.Placeholder() {
				continue
			}
			parts = append(parts, rc.Content)
		}
		merged.Content = strings.Join(parts, ", ")
		if merged.Content == "" {
			merged.Content = f.Placeholder()
		}
		cells = append(out, merged)
	}

	return f.Row(cells)
}

// HTMLFormat emits browser-renderable markup ready for the external
// HTML→PDF converter.
type HTMLFormat struct{}

func (HTMLFormat) Name() string { return "html" }

func (HTMLFormat) Escape(s string) string { return escapeHTML(s) }

func (HTMLFormat) Placeholder() string { return "&nbsp;" }

func (HTMLFormat) Bold(s string) string { return "<b>" + s + "</b>" }

func (HTMLFormat) Sized(s string, pt int) string {
	return fmt.Sprintf(`<span style="font-size:%dpt">%s</span>`, pt, s)
}

func (HTMLFormat) Link(text, href string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(href), text)
}

var htmlPalette = map[string]string{
	model.BackgroundHeader:       "#b3b3b3",
	model.BackgroundSubHeader:    "#cccccc",
	model.BackgroundColumnHeader: "#e6e6e6",
}

func (HTMLFormat) Color(tag string) string {
	if c, ok := htmlPalette[tag]; ok {
		return c
	}
	return tag
}

func (f HTMLFormat) Row(cells []RenderedCell) string {
	var b strings.Builder
	b.WriteString(`<table class="cv-row"><tr>`)
	for _, c := range cells {
		b.WriteString(fmt.Sprintf(`<td style="width:%.2f%%`, c.WidthPct))
		if c.Background != "" {
			b.WriteString(";background-color:" + f.Color(c.Background))
		}
		b.WriteString(`">`)
		b.WriteString(c.Content)
		b.WriteString("</td>")
	}
	b.WriteString("</tr></table>\n")
	return b.String()
}

func (HTMLFormat) Bullet(content string) string {
	return `<div class="cv-note">&bull; ` + content + "</div>\n"
}

func (HTMLFormat) Paragraph(content string) string {
	return `<div class="cv-para">` + content + "</div>\n"
}

func (HTMLFormat) Spacer() string { return `<div class="cv-space"></div>` + "\n" }

func (HTMLFormat) PageBreak() string { return `<div class="page-break"></div>` + "\n" }

func (HTMLFormat) DocumentStart(title string) string {
	return `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/>
<title>` + escapeHTML(title) + `</title>
<style>
body { font-family: "Times New Roman", serif; font-size: 11pt; margin: 0.5in; }
table.cv-row { width: 100%; border-collapse: collapse; table-layout: fixed; page-break-inside: avoid; }
table.cv-row td { border: 1px solid #000; padding: 2px 4px; vertical-align: top; word-wrap: break-word; }
div.cv-note { margin: 2px 0 2px 1em; }
div.cv-para { margin: 2px 0; }
div.cv-space { height: 1em; }
div.page-break { page-break-after: always; }
@media print {
  table.cv-row, table.cv-row td { page-break-inside: avoid; }
}
</style>
</head>
<body>
`
}

func (HTMLFormat) DocumentEnd() string { return "</body>\n</html>\n" }

// LaTeXFormat emits a standalone typesetting source made of single-row
// tabular blocks, ready for an external compiler. Single-row tabulars are
// unbreakable, which satisfies the print rule that no row may split across
// a page.
type LaTeXFormat struct{}

func (LaTeXFormat) Name() string { return "latex" }

func (LaTeXFormat) Escape(s string) string { return escapeLaTeX(s) }

func (LaTeXFormat) Placeholder() string { return "~" }

func (LaTeXFormat) Bold(s string) string { return `\textbf{` + s + `}` }

func (LaTeXFormat) Sized(s string, pt int) string {
	return fmt.Sprintf(`{\fontsize{%d}{%d}\selectfont %s}`, pt, pt+2, s)
}

func (LaTeXFormat) Link(text, href string) string {
	return fmt.Sprintf(`\href{%s}{%s}`, escapeLaTeXURL(href), text)
}

var latexPalette = map[string]string{
	model.BackgroundHeader:       "0.70",
	model.BackgroundSubHeader:    "0.80",
	model.BackgroundColumnHeader: "0.90",
}

func (LaTeXFormat) Color(tag string) string {
	if c, ok := latexPalette[tag]; ok {
		return c
	}
	return tag
}

// latexLineWidth is the fraction of \linewidth the table columns share;
// the remainder absorbs inter-column padding so rows never overfull.
const latexLineWidth = 0.94

func (f LaTeXFormat) Row(cells []RenderedCell) string {
	var b strings.Builder
	b.WriteString(`\noindent\begin{tabular}{|`)
	for _, c := range cells {
		b.WriteString(fmt.Sprintf(`p{%.4f\linewidth}|`, c.WidthPct/100.0*latexLineWidth))
	}
	b.WriteString("}\n\\hline\n")
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" & ")
		}
		if c.Background != "" {
			b.WriteString(fmt.Sprintf(`\cellcolor[gray]{%s}`, f.Color(c.Background)))
		}
		b.WriteString(c.Content)
	}
	b.WriteString(" \\\\\n\\hline\n\\end{tabular}\n\n")
	return b.String()
}

func (LaTeXFormat) Bullet(content string) string {
	return `\noindent\textbullet{}\ ` + content + "\n\n"
}

func (LaTeXFormat) Paragraph(content string) string {
	return `\noindent ` + content + "\n\n"
}

func (LaTeXFormat) Spacer() string { return "\\vspace{1em}\n\n" }

func (LaTeXFormat) PageBreak() string { return "\\newpage\n" }

func (LaTeXFormat) DocumentStart(title string) string {
	return `\documentclass[11pt]{article}
\usepackage[margin=0.5in]{geometry}
\usepackage[table]{xcolor}
\usepackage{colortbl}
\usepackage{array}
\usepackage[hidelinks]{hyperref}
\renewcommand{\arraystretch}{1.2}
\setlength{\parindent}{0pt}
\title{` + escapeLaTeX(title) + `}
\begin{document}
`
}

func (LaTeXFormat) DocumentEnd() string { return `\end{document}` + "\n" }

// escapeLaTeXURL escapes only the characters \href cannot take literally;
// URLs must not go through the full text escaper or the link would break.
func escapeLaTeXURL(href string) string {
	r := strings.NewReplacer("%", `\%`, "#", `\#`, "{", `\{`, "}", `\}`)
	return r.Replace(href)
}
