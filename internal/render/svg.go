package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/attendance-map/internal/controls"
	"github.com/sells-group/attendance-map/internal/symbol"
)

const (
	controlMargin = 10
	lineHeight    = 18
	panelWidth    = 180
)

// WriteSVG draws the basemap frame, markers, open popups and controls.
func (c *Canvas) WriteSVG(w io.Writer, width, height int) error {
	if width <= 0 || height <= 0 {
		return eris.Errorf("render: invalid frame size %dx%d", width, height)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `<rect id="basemap" width="%d" height="%d" fill="#dde6ee" data-zoom="%d" data-tiles="%s"/>`+"\n",
		width, height, c.viewport.Zoom, html.EscapeString(c.viewport.TileURL))

	b.WriteString(`<g id="markers">` + "\n")
	for _, m := range c.markers {
		x, y := c.Project(m.Lat, m.Lng, width, height)
		writeMarker(&b, m, x, y)
	}
	b.WriteString("</g>\n")

	for _, m := range c.markers {
		if !m.Open {
			continue
		}
		x, y := c.Project(m.Lat, m.Lng, width, height)
		writePopup(&b, m, x+m.Popup.Offset.X, y+m.Popup.Offset.Y)
	}

	for _, ct := range c.controls {
		writeControl(&b, ct, width, height)
	}

	if c.viewport.Attribution != "" {
		fmt.Fprintf(&b, `<text class="attribution" x="%d" y="%d" text-anchor="end" font-size="10">%s</text>`+"\n",
			width-4, height-4, html.EscapeString(c.viewport.Attribution))
	}
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "render: write svg")
}

func writeMarker(b *strings.Builder, m *symbol.Marker, x, y float64) {
	s := m.Style
	fmt.Fprintf(b,
		`<circle id="%s" data-team="%s" cx="%.2f" cy="%.2f" r="%.4f" fill="%s" fill-opacity="%g" stroke="%s" stroke-width="%g" stroke-opacity="%g"/>`+"\n",
		m.ID, html.EscapeString(m.Feature.Name), x, y, m.Radius,
		s.FillColor, s.FillOpacity, s.Color, s.Weight, s.Opacity)
}

func writePopup(b *strings.Builder, m *symbol.Marker, x, y float64) {
	lines := strings.Split(m.Popup.Content, "\n")
	fmt.Fprintf(b, `<g class="popup" data-marker="%s" transform="translate(%.2f,%.2f)">`+"\n", m.ID, x, y)
	h := len(lines)*lineHeight + 8
	fmt.Fprintf(b, `<rect x="-140" y="%d" width="280" height="%d" rx="4" fill="#fff" stroke="#333"/>`+"\n", -h, h)
	for i, line := range lines {
		fmt.Fprintf(b, `<text x="-132" y="%d" font-size="12">%s</text>`+"\n",
			-h+(i+1)*lineHeight, html.EscapeString(line))
	}
	b.WriteString("</g>\n")
}

func writeControl(b *strings.Builder, ct *controls.Container, width, height int) {
	x, y := anchor(ct, width, height)
	fmt.Fprintf(b, `<g class="%s" transform="translate(%d,%d)">`+"\n", html.EscapeString(ct.Class), x, y)
	row := 0
	for _, e := range ct.Elements {
		switch e.Kind {
		case controls.KindSVG:
			fmt.Fprintf(b, `<g transform="translate(0,%d)">%s</g>`+"\n", row*lineHeight, e.Markup)
			row += 75/lineHeight + 1
			continue
		case controls.KindRange:
			fmt.Fprintf(b, `<text id="%s" y="%d" font-size="12">[%s..%s] = %s</text>`+"\n",
				e.ID, (row+1)*lineHeight, e.Attrs["min"], e.Attrs["max"], e.Attrs["value"])
		default:
			weight := "normal"
			if e.Active || e.Kind == controls.KindHeading || e.Kind == controls.KindPanel {
				weight = "bold"
			}
			fmt.Fprintf(b, `<text id="%s" y="%d" font-size="12" font-weight="%s">%s</text>`+"\n",
				e.ID, (row+1)*lineHeight, weight, html.EscapeString(e.Label))
		}
		row++
	}
	b.WriteString("</g>\n")
}

// anchor returns the top-left corner for a control at its map corner.
func anchor(ct *controls.Container, width, height int) (int, int) {
	h := controlHeight(ct)
	switch ct.Position {
	case controls.TopRight:
		return width - panelWidth - controlMargin, controlMargin
	case controls.BottomLeft:
		return controlMargin, height - h - controlMargin
	default:
		return width - panelWidth - controlMargin, height - h - controlMargin
	}
}

func controlHeight(ct *controls.Container) int {
	rows := 0
	for _, e := range ct.Elements {
		if e.Kind == controls.KindSVG {
			rows += 75/lineHeight + 1
			continue
		}
		rows++
	}
	return rows * lineHeight
}
