// Package report renders evaluation output: grid-formatted metric
// tables on the console and the per-model accuracy range chart.
package report

import (
	"fmt"
	"strings"
)

// Metrics holds one pipeline's test-set evaluation.
type Metrics struct {
	Precision float64
	Recall    float64
	Accuracy  float64
	MSE       float64
}

// MetricsTable renders the four metrics as a two-column grid table,
// values rounded to three decimals.
func MetricsTable(m Metrics) string {
	rows := [][]string{
		{"Precision", fmt.Sprintf("%.3f", m.Precision)},
		{"Recall", fmt.Sprintf("%.3f", m.Recall)},
		{"Accuracy", fmt.Sprintf("%.3f", m.Accuracy)},
		{"Mean Squared Error", fmt.Sprintf("%.3f", m.MSE)},
	}
	return Grid([]string{"Metric", "Value"}, rows)
}

// Grid formats headers and rows as a bordered grid table. The first
// column is left-aligned, the rest right-aligned.
func Grid(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for j, h := range headers {
		widths[j] = len(h)
	}
	for _, row := range rows {
		for j, cell := range row {
			if j < len(widths) && len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRule(&b, widths, '-')
	writeRow(&b, headers, widths)
	writeRule(&b, widths, '=')
	for _, row := range rows {
		writeRow(&b, row, widths)
		writeRule(&b, widths, '-')
	}
	return b.String()
}

func writeRule(b *strings.Builder, widths []int, fill rune) {
	for _, w := range widths {
		b.WriteByte('+')
		b.WriteString(strings.Repeat(string(fill), w+2))
	}
	b.WriteString("+\n")
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	for j, w := range widths {
		cell := ""
		if j < len(cells) {
			cell = cells[j]
		}
		if j == 0 {
			fmt.Fprintf(b, "| %-*s ", w, cell)
		} else {
			fmt.Fprintf(b, "| %*s ", w, cell)
		}
	}
	b.WriteString("|\n")
}
