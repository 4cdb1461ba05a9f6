package model

// Logical table model shared by the HTML and LaTeX backends. A Row is the
// renderer's unit of work: Cells and Ratios must be the same length before
// any merge step.

// TextSpan is one run of text inside a cell. Size is a point size; zero
// means the backend default. Link, when set, wraps the span in a hyperlink.
type TextSpan struct {
	Text string
	Bold bool
	Size int
	Link string
}

// Cell is a list of spans plus an optional background tag from the palette.
type Cell struct {
	Spans      []TextSpan
	Background string
}

// Row is a list of cells with one relative width ratio per cell.
type Row struct {
	Cells  []Cell
	Ratios []int
}

// Background tags understood by both backends. Unknown tags pass through
// as literal color values (author override escape hatch).
const (
	BackgroundHeader       = "header"
	BackgroundSubHeader    = "subheader"
	BackgroundColumnHeader = "columnheader"
)

// Text returns a cell holding a single plain span.
func Text(s string) Cell {
	return Cell{Spans: []TextSpan{{Text: s}}}
}

// BoldText returns a cell holding a single bold span.
func BoldText(s string) Cell {
	return Cell{Spans: []TextSpan{{Text: s, Bold: true}}}
}
