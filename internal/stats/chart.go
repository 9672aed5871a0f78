package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	defaultChartHeight = 8
	minChartWidth      = 10
	axisGap            = " ┤"
	colorReset         = "\x1b[0m"
)

var seriesColors = []string{"\x1b[36m", "\x1b[33m", "\x1b[35m", "\x1b[32m"}

// Series is one line of a chart, scaled to [0, Max].
type Series struct {
	Name   string
	Values []float64
	Max    float64
	// Dotted draws every fourth dot so overlapping lines stay distinguishable.
	Dotted bool
}

// Chart draws series as braille lines over a shared time axis. The left axis is labelled
// with the first series' scale.
func Chart(w io.Writer, series []Series, width, height int, color bool) error {
	var drawn []Series
	for _, s := range series {
		if len(s.Values) > 0 {
			drawn = append(drawn, s)
		}
	}
	if len(drawn) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	labels := axisLabels(drawn[0].Max, height)
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, len(l))
	}
	width = max(minChartWidth, width-labelWidth-len([]rune(axisGap)))

	canvases := make([]*canvas, len(drawn))
	for i, s := range drawn {
		canvases[i] = plot(s, width, height)
	}

	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", labelWidth, labels[y], axisGap)
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for i, c := range canvases {
				if m := c.cells[y][x]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			ch := rune(0x2800 + int(mask))
			if color && owner >= 0 {
				row.WriteString(seriesColors[owner%len(seriesColors)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(row.String(), "⠀")); err != nil {
			return err
		}
	}

	legend := make([]string, len(drawn))
	for i, s := range drawn {
		style := "solid"
		if s.Dotted {
			style = "dotted"
		}
		label := fmt.Sprintf("%s 0..%s (%s)", s.Name, formatScale(s.Max), style)
		if color {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		legend[i] = label
	}
	_, err := fmt.Fprintf(w, "%*s  %s\n", labelWidth, "", strings.Join(legend, "   "))
	return err
}

func plot(s Series, width, height int) *canvas {
	c := newCanvas(width, height)
	points := resample(s.Values, width)
	top := s.Max
	if top <= 0 {
		top = 1
	}
	dotRows := height * 4
	prevX, prevY := -1, -1
	for i, v := range points {
		v = math.Min(math.Max(v, 0), top)
		x := i * 2
		y := int(math.Round((1 - v/top) * float64(dotRows-1)))
		if prevX < 0 {
			prevX, prevY = x, y
		}
		c.line(prevX, prevY, x, y, func(px int) bool { return !s.Dotted || px%4 == 0 })
		prevX, prevY = x, y
	}
	return c
}

func axisLabels(top float64, height int) []string {
	labels := make([]string, height)
	labels[0] = formatScale(top)
	if height > 2 {
		labels[height/2] = formatScale(top / 2)
	}
	if height > 1 {
		labels[height-1] = "0"
	}
	return labels
}

func formatScale(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

// NiceMax rounds v up to the next multiple of ten, with a floor of ten.
func NiceMax(v float64) float64 {
	if v <= 10 || math.IsNaN(v) {
		return 10
	}
	return math.Ceil(v/10) * 10
}

// canvas is a grid of braille cells, each holding a 2x4 dot mask.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

// braille dot bits indexed by [row][column] within a cell.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func (c *canvas) dot(x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(c.cells) || cx >= len(c.cells[cy]) {
		return
	}
	c.cells[cy][cx] |= dotBits[y%4][x%2]
}

// line plots a Bresenham line, keeping only dots whose x passes keep.
func (c *canvas) line(x0, y0, x1, y1 int, keep func(int) bool) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if keep(x0) {
			c.dot(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// resample stretches or squeezes values to n points: bucket means when shrinking, linear
// interpolation when growing.
func resample(values []float64, n int) []float64 {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	out := make([]float64, n)
	switch {
	case len(values) == n:
		copy(out, values)
	case len(values) > n:
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(len(values)-1) / float64(n-1)
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
