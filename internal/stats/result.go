package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/typefast/internal/model"
)

// smoothWindow is the moving average window applied to charted WPM samples.
const smoothWindow = 3

// ResultRows lists the result figures as metric/value pairs.
func ResultRows(res model.Result) [][]string {
	return [][]string{
		{"WPM", fmt.Sprintf("%d", res.WPM)},
		{"Raw", fmt.Sprintf("%d", res.RawSpeed)},
		{"Accuracy", fmt.Sprintf("%d%%", res.Accuracy)},
		{"Correct", fmt.Sprintf("%d", res.Correct)},
		{"Incorrect", fmt.Sprintf("%d", res.Incorrect)},
		{"Duration", FormatDuration(res.Duration)},
		{"Mode", fmt.Sprintf("%s / %s", res.Mode, res.Variant)},
	}
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// ResultChart draws the in-session WPM and accuracy samples. Fewer than two samples draw
// nothing.
func ResultChart(w io.Writer, samples []model.Sample, width, height int, color bool) error {
	if len(samples) < 2 {
		return nil
	}
	wpm, accuracy := SampleSeries(samples)
	wpm = MovingAverage(wpm, smoothWindow)
	top := 0.0
	for _, v := range wpm {
		top = max(top, v)
	}
	return Chart(w, []Series{
		{Name: "wpm", Values: wpm, Max: NiceMax(top)},
		{Name: "accuracy %", Values: accuracy, Max: 100, Dotted: true},
	}, width, height, color)
}

// RenderResult writes the result table followed by the sample chart.
func RenderResult(w io.Writer, res model.Result, samples []model.Sample, width int, color bool) error {
	id := res.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	if _, err := fmt.Fprintf(w, "Session %s\n", id); err != nil {
		return err
	}
	for _, line := range FormatTable([]string{"Metric", "Value"}, ResultRows(res), map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(samples) < 2 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return ResultChart(w, samples, width, defaultChartHeight, color)
}
