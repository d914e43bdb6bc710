package legend

import (
	"fmt"
	"html"
	"strings"

	"github.com/sells-group/attendance-map/internal/dataset"
)

// Fixed legend geometry in SVG user units.
const (
	Width    = 160
	Height   = 75
	CircleX  = 30
	TextX    = 65
	Baseline = 59
)

// TextY is the label baseline for each circle.
var TextY = map[Key]float64{
	KeyMax:  30,
	KeyMean: 45,
	KeyMin:  60,
}

// Circle paint options.
const (
	FillColor   = "#F47821"
	FillOpacity = 0.8
	StrokeColor = "#000000"
)

// Circle is one positioned legend circle and its label.
type Circle struct {
	Key    Key     `json:"key"`
	Value  float64 `json:"value"`
	Radius float64 `json:"r"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	TextX  float64 `json:"text_x"`
	TextY  float64 `json:"text_y"`
	Label  string  `json:"label"`
}

// Layout is the legend ready to draw.
type Layout struct {
	Title   string   `json:"title"`
	Circles []Circle `json:"circles"`
}

// NewLayout positions the three circles for s. Every circle's centre sits
// one radius above Baseline, so they share a bottom edge whatever their size.
// An empty snapshot has a title and no circles.
func NewLayout(attr dataset.YearAttribute, s Snapshot) Layout {
	l := Layout{Title: Title(attr)}
	if s.Empty() {
		return l
	}
	for _, k := range Keys {
		r := s.Radius(k)
		l.Circles = append(l.Circles, Circle{
			Key:    k,
			Value:  s.Value(k),
			Radius: r,
			CX:     CircleX,
			CY:     Baseline - r,
			TextX:  TextX,
			TextY:  TextY[k],
			Label:  Label(s.Value(k)),
		})
	}
	return l
}

// SVG renders the circle block as a standalone <svg> element.
func (l Layout) SVG() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg id="attribute-legend" xmlns="http://www.w3.org/2000/svg" width="%dpx" height="%dpx">`, Width, Height)
	for _, c := range l.Circles {
		fmt.Fprintf(&b, `<circle class="legend-circle" id="%s" fill="%s" fill-opacity="%g" stroke="%s" cx="%g" cy="%s" r="%s"/>`,
			c.Key, FillColor, FillOpacity, StrokeColor, c.CX, num(c.CY), num(c.Radius))
		fmt.Fprintf(&b, `<text id="%s-text" x="%g" y="%g">%s</text>`,
			c.Key, c.TextX, c.TextY, html.EscapeString(c.Label))
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func num(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
