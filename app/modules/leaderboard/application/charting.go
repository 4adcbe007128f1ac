package leaderboardservice

import (
	"bytes"
	"image/color"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colours used by the standings chart.
type ChartPalette struct {
	Background  color.RGBA
	PrimaryLine color.RGBA
	AccentLine  color.RGBA
	TextColor   color.RGBA
}

// DefaultChartPalette is a dark panel look with the highlight gold.
var DefaultChartPalette = ChartPalette{
	Background:  color.RGBA{R: 16, G: 24, B: 20, A: 255},
	PrimaryLine: color.RGBA{R: 46, G: 139, B: 87, A: 255},
	AccentLine:  color.RGBA{R: 255, G: 215, B: 0, A: 255},
	TextColor:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
}

// ScoreToPar converts a display score such as "-7", "+2" or "E".
func ScoreToPar(score string) (float64, bool) {
	s := strings.TrimSpace(score)
	switch {
	case s == "":
		return 0, false
	case strings.EqualFold(s, "E"):
		return 0, true
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(s, "+"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// GenerateStandingsChart produces a PNG chart of score to par by leaderboard row.
func GenerateStandingsChart(players []Player, palette ChartPalette) ([]byte, error) {
	var xValues, yValues []float64
	for i, p := range players {
		v, ok := ScoreToPar(p.Score)
		if !ok {
			continue
		}
		xValues = append(xValues, float64(i+1))
		yValues = append(yValues, v)
	}
	if len(xValues) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	minY, maxY := yValues[0], yValues[0]
	for _, v := range yValues {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	mainSeries := chart.ContinuousSeries{
		Name:    "Score to par",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: drawing.Color(palette.PrimaryLine),
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    drawing.Color(palette.AccentLine),
		},
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: drawing.Color(palette.Background),
		},
		Canvas: chart.Style{
			FillColor: drawing.Color(palette.Background),
		},
		XAxis: chart.XAxis{
			Name: "Row",
			Style: chart.Style{
				FontColor: drawing.Color(palette.TextColor),
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.Itoa(int(f))
				}
				return ""
			},
			// go-chart refuses a zero-width range.
			Range: &chart.ContinuousRange{Min: 0, Max: xValues[len(xValues)-1] + 1},
		},
		YAxis: chart.YAxis{
			Name: "To par",
			Style: chart.Style{
				FontColor: drawing.Color(palette.TextColor),
			},
			Range: &chart.ContinuousRange{
				Min:        minY - 1,
				Max:        maxY + 1,
				Descending: true, // leader on top
			},
		},
		Series: []chart.Series{mainSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No scores to chart"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: drawing.Color(palette.Background),
		},
		Canvas: chart.Style{
			FillColor: drawing.Color(palette.Background),
		},
		XAxis: chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis: chart.YAxis{Style: chart.Style{Hidden: true}},
		// Render needs at least one series.
		Series: []chart.Series{chart.ContinuousSeries{
			Style:   chart.Style{Hidden: true},
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
		}},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(drawing.Color(palette.TextColor))
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
