package report

import (
	"strings"
	"testing"
)

func TestMetricsTable(t *testing.T) {
	got := MetricsTable(Metrics{
		Precision: 0.875,
		Recall:    0.9,
		Accuracy:  0.85,
		MSE:       0.15,
	})

	want := "" +
		"+--------------------+-------+\n" +
		"| Metric             | Value |\n" +
		"+====================+=======+\n" +
		"| Precision          | 0.875 |\n" +
		"+--------------------+-------+\n" +
		"| Recall             | 0.900 |\n" +
		"+--------------------+-------+\n" +
		"| Accuracy           | 0.850 |\n" +
		"+--------------------+-------+\n" +
		"| Mean Squared Error | 0.150 |\n" +
		"+--------------------+-------+\n"
	if got != want {
		t.Errorf("MetricsTable() =\n%s\nwant\n%s", got, want)
	}
}

func TestGrid(t *testing.T) {
	got := Grid([]string{"Name", "Score"}, [][]string{
		{"a", "1"},
		{"longer", "22"},
	})

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("Grid() produced %d lines, want 7", len(lines))
	}

	// All lines share one width.
	for i, line := range lines {
		if len(line) != len(lines[0]) {
			t.Errorf("line %d width %d differs from %d", i, len(line), len(lines[0]))
		}
	}

	if !strings.HasPrefix(lines[2], "+=") {
		t.Errorf("header separator = %q, want double rule", lines[2])
	}
	if !strings.Contains(lines[3], "| a      |") {
		t.Errorf("first column not left-aligned: %q", lines[3])
	}
	if !strings.Contains(lines[3], "|     1 |") {
		t.Errorf("second column not right-aligned: %q", lines[3])
	}
}
