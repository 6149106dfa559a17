// Package chart renders engine results as PNG line charts.
package chart

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/etnz/worth"
)

// palette cycles through the series colors.
var palette = []drawing.Color{
	drawing.ColorFromHex("2563eb"), // blue
	drawing.ColorFromHex("16a34a"), // green
	drawing.ColorFromHex("dc2626"), // red
	drawing.ColorFromHex("9333ea"), // purple
	drawing.ColorFromHex("ea580c"), // orange
	drawing.ColorFromHex("0891b2"), // cyan
}

// RenderHistoryChart renders one line per asset series of the matrix window
// plus the combined total, returning raw PNG bytes.
func RenderHistoryChart(mr *worth.MatrixResult) ([]byte, error) {
	if len(mr.Snapshots) < 2 {
		return nil, fmt.Errorf("need at least 2 snapshots, got %d", len(mr.Snapshots))
	}

	xValues := make([]time.Time, len(mr.Snapshots))
	for i, s := range mr.Snapshots {
		xValues[i] = s.CapturedAt
	}

	var series []chart.Series
	for i, assetID := range mr.OrderedAssetIDs() {
		series = append(series, chart.TimeSeries{
			Name: assetID,
			Style: chart.Style{
				StrokeColor: palette[i%len(palette)],
				StrokeWidth: 1.5,
			},
			XValues: xValues,
			YValues: mr.AssetSeries(assetID),
		})
	}
	series = append(series, chart.TimeSeries{
		Name: "Total",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("111827"), // near-black
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: mr.TotalSeries(),
	})

	graph := newGraph("Value History", series)
	if lo, hi, ok := mr.AssetExtent(); ok {
		for _, v := range mr.TotalSeries() {
			if v > hi {
				hi = v
			}
		}
		if hi > lo {
			graph.YAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
		}
	}
	return renderPNG(graph)
}

// RenderForecastChart renders the observed series (solid) and the fitted
// projection beyond it (dashed), split at the forecast's main fraction.
func RenderForecastChart(fr *worth.ForecastResult) ([]byte, error) {
	if len(fr.Main) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(fr.Main))
	}

	series := []chart.Series{pointSeries("Observed", fr.Main, chart.Style{
		StrokeColor: drawing.ColorFromHex("2563eb"),
		StrokeWidth: 2.5,
	})}
	if len(fr.Extended) >= 2 {
		series = append(series, pointSeries("Projection", fr.Extended, chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		}))
	}

	graph := newGraph("Forecast", series)
	return renderPNG(graph)
}

func pointSeries(name string, points []worth.TimePoint, style chart.Style) chart.TimeSeries {
	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = p.At
		yValues[i] = p.Value
	}
	return chart.TimeSeries{Name: name, Style: style, XValues: xValues, YValues: yValues}
}

func newGraph(graphTitle string, series []chart.Series) chart.Chart {
	graph := chart.Chart{
		Title:  graphTitle,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}
	return graph
}

func renderPNG(graph chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
