package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typefast/internal/model"
)

func TestChartDrawsRowsAndLegend(t *testing.T) {
	var buf bytes.Buffer
	err := Chart(&buf, []Series{
		{Name: "wpm", Values: []float64{10, 20, 40, 30}, Max: 40},
		{Name: "accuracy %", Values: []float64{100, 90, 95, 97}, Max: 100, Dotted: true},
	}, 30, 4, false)
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 4 rows and a legend, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "40 ┤") {
		t.Fatalf("unexpected top label: %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], " 0 ┤") {
		t.Fatalf("unexpected bottom label: %q", lines[3])
	}
	if !strings.Contains(lines[4], "wpm 0..40 (solid)") || !strings.Contains(lines[4], "accuracy % 0..100 (dotted)") {
		t.Fatalf("unexpected legend: %q", lines[4])
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no colour codes")
	}
}

func TestChartColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Chart(&buf, []Series{{Name: "wpm", Values: []float64{1, 2}, Max: 2}}, 20, 2, true); err != nil {
		t.Fatalf("chart: %v", err)
	}
	if !strings.Contains(buf.String(), seriesColors[0]) {
		t.Fatalf("expected colour codes in output")
	}
}

func TestChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Chart(&buf, []Series{{Name: "wpm"}}, 20, 4, false); err != nil {
		t.Fatalf("chart: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestCanvasLineEndpoints(t *testing.T) {
	c := newCanvas(2, 1)
	c.line(0, 0, 3, 3, func(int) bool { return true })
	if c.cells[0][0]&dotBits[0][0] == 0 {
		t.Fatalf("expected start dot set")
	}
	if c.cells[0][1]&dotBits[3][1] == 0 {
		t.Fatalf("expected end dot set")
	}
	c.dot(-1, 0)
	c.dot(10, 10)
}

func TestResample(t *testing.T) {
	if got := resample([]float64{1, 3}, 3); got[1] != 2 {
		t.Fatalf("expected interpolation, got %v", got)
	}
	if got := resample([]float64{1, 3, 5, 7}, 2); got[0] != 2 || got[1] != 6 {
		t.Fatalf("expected bucket means, got %v", got)
	}
	if got := resample([]float64{4}, 3); got[2] != 4 {
		t.Fatalf("expected repeated value, got %v", got)
	}
	if got := resample(nil, 3); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestSparklineAndMovingAverage(t *testing.T) {
	if got := Sparkline([]float64{0, 7, 14}); got != "▁▄█" && got != "▁▅█" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3}); got != "▅▅" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("moving average %v, want %v", got, want)
		}
	}
	if tail := Tail([]float64{1, 2, 3}, 2); len(tail) != 2 || tail[0] != 2 {
		t.Fatalf("unexpected tail %v", tail)
	}
}

func TestNiceMax(t *testing.T) {
	cases := map[float64]float64{0: 10, 7: 10, 10: 10, 11: 20, 87: 90}
	for in, want := range cases {
		if got := NiceMax(in); got != want {
			t.Fatalf("NiceMax(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestRenderResult(t *testing.T) {
	res := model.Result{
		SessionID: "0123456789abcdef",
		Mode:      model.ModeTime,
		Variant:   model.VariantMixed,
		WPM:       64,
		RawSpeed:  70,
		Accuracy:  91,
		Correct:   320,
		Incorrect: 30,
		Total:     350,
		Duration:  time.Minute,
	}
	samples := []model.Sample{
		{Elapsed: time.Second, WPM: 40, Accuracy: 100},
		{Elapsed: 2 * time.Second, WPM: 60, Accuracy: 95},
		{Elapsed: 3 * time.Second, WPM: 64, Accuracy: 91},
	}
	var buf bytes.Buffer
	if err := RenderResult(&buf, res, samples, 60, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Session 01234567", "WPM", "64", "91%", "1:00", "time / mixed", "wpm 0..60"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderResult(&buf, res, samples[:1], 60, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "┤") {
		t.Fatalf("expected no chart for a single sample")
	}
}
