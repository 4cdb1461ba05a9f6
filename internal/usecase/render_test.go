package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-generator/internal/model"
)

func cellCount(rendered string) int {
	return strings.Count(rendered, "<td")
}

func TestRenderRowOneCellPerColumn(t *testing.T) {
	row := model.Row{
		Cells:  []model.Cell{model.Text("a"), model.Text("b"), model.Text("c")},
		Ratios: []int{1, 1, 2},
	}
	out := RenderRow(HTMLFormat{}, row, false, false)
	assert.Equal(t, 3, cellCount(out))
	assert.Contains(t, out, "width:25.00%")
	assert.Contains(t, out, "width:50.00%")
}

func TestRenderRowEmptyCellBecomesPlaceholder(t *testing.T) {
	row := model.Row{
		Cells:  []model.Cell{model.Text(""), model.Text("x")},
		Ratios: []int{1, 1},
	}
	out := RenderRow(HTMLFormat{}, row, false, false)
	assert.Contains(t, out, "&nbsp;")

	tex := RenderRow(LaTeXFormat{}, row, false, false)
	assert.Contains(t, tex, "~")
}

func TestRenderRowMergePreservingRowNumber(t *testing.T) {
	// merging with the first column excluded leaves exactly two cells:
	// the row number and the comma-joined remainder
	row := model.Row{
		Cells: []model.Cell{
			model.Text("1"),
			model.Text("alpha"),
			model.Text("beta"),
			model.Text("gamma"),
		},
		Ratios: []int{1, 2, 2, 2},
	}
	out := RenderRow(HTMLFormat{}, row, true, false)
	require.Equal(t, 2, cellCount(out))
	assert.Contains(t, out, ">1</td>")
	assert.Contains(t, out, "alpha, beta, gamma")
}

func TestRenderRowFullMerge(t *testing.T) {
	row := model.Row{
		Cells:  []model.Cell{model.Text("a"), model.Text("b")},
		Ratios: []int{1, 1},
	}
	out := RenderRow(HTMLFormat{}, row, true, true)
	require.Equal(t, 1, cellCount(out))
	assert.Contains(t, out, "a, b")
	assert.Contains(t, out, "width:100.00%")
}

func TestRenderRowMergeDropsPlaceholderCells(t *testing.T) {
	row := model.Row{
		Cells:  []model.Cell{model.Text("1"), model.Text("alpha"), model.Text(""), model.Text("gamma")},
		Ratios: []int{1, 1, 1, 1},
	}
	out := RenderRow(HTMLFormat{}, row, true, false)
	require.Equal(t, 2, cellCount(out))
	assert.Contains(t, out, "alpha, gamma")
	assert.NotContains(t, out, "alpha, , gamma")
}

func TestRenderRowMergedWidthIsSumOfColumns(t *testing.T) {
	row := model.Row{
		Cells:  []model.Cell{model.Text("1"), model.Text("a"), model.Text("b")},
		Ratios: []int{1, 1, 2},
	}
	out := RenderRow(HTMLFormat{}, row, true, false)
	assert.Contains(t, out, "width:25.00%")
	assert.Contains(t, out, "width:75.00%")
}

func TestRenderRowSpanPipeline(t *testing.T) {
	row := model.Row{
		Cells: []model.Cell{{Spans: []model.TextSpan{
			{Text: "Smith & Jones", Bold: true, Link: "https://doi.org/10.1/x"},
		}}},
		Ratios: []int{1},
	}
	out := RenderRow(HTMLFormat{}, row, false, false)
	// sanitize, then bold, then link wrapping
	assert.Contains(t, out, `<a href="https://doi.org/10.1/x"><b>Smith &amp; Jones</b></a>`)
}

func TestRenderRowBackgroundPalette(t *testing.T) {
	row := model.Row{
		Cells:  []model.Cell{{Spans: []model.TextSpan{{Text: "T"}}, Background: model.BackgroundHeader}},
		Ratios: []int{1},
	}
	out := RenderRow(HTMLFormat{}, row, false, false)
	assert.Contains(t, out, "background-color:#b3b3b3")

	tex := RenderRow(LaTeXFormat{}, row, false, false)
	assert.Contains(t, tex, `\cellcolor[gray]{0.70}`)
}

func TestRenderRowUnknownBackgroundPassesThrough(t *testing.T) {
	row := model.Row{
		Cells:  []model.Cell{{Spans: []model.TextSpan{{Text: "T"}}, Background: "#123456"}},
		Ratios: []int{1},
	}
	out := RenderRow(HTMLFormat{}, row, false, false)
	assert.Contains(t, out, "background-color:#123456")
}

func TestRenderRowMalformedSpanDegradesToEmpty(t *testing.T) {
	row := model.Row{
		Cells:  []model.Cell{{Spans: []model.TextSpan{{Text: "", Bold: true}}}},
		Ratios: []int{1},
	}
	out := RenderRow(HTMLFormat{}, row, false, false)
	assert.Contains(t, out, "&nbsp;")
	assert.NotContains(t, out, "<b>")
}

func TestLaTeXRowShape(t *testing.T) {
	row := model.Row{
		Cells:  []model.Cell{model.Text("a"), model.Text("b")},
		Ratios: []int{1, 1},
	}
	out := RenderRow(LaTeXFormat{}, row, false, false)
	assert.Contains(t, out, `\begin{tabular}{|`)
	assert.Contains(t, out, " & ")
	assert.Contains(t, out, `\end{tabular}`)
}

func TestDocumentEnvelopes(t *testing.T) {
	h := HTMLFormat{}
	assert.True(t, strings.HasPrefix(h.DocumentStart("My CV"), "<!DOCTYPE html>"))
	assert.Contains(t, h.DocumentStart("My CV"), "page-break-inside: avoid")
	assert.Contains(t, h.DocumentEnd(), "</html>")

	l := LaTeXFormat{}
	assert.Contains(t, l.DocumentStart("My CV"), `\documentclass`)
	assert.Contains(t, l.DocumentStart("My CV"), `\begin{document}`)
	assert.Contains(t, l.DocumentEnd(), `\end{document}`)
}
