// Package render is a headless map surface. It records what a browser map
// would show and writes it out as SVG or GeoJSON.
package render

import (
	"math"

	"github.com/google/uuid"

	"github.com/sells-group/attendance-map/internal/controls"
	"github.com/sells-group/attendance-map/internal/mapview"
	"github.com/sells-group/attendance-map/internal/symbol"
)

// TileSize is the Web Mercator tile edge in pixels.
const TileSize = 256

// Canvas implements mapview.Surface in memory.
type Canvas struct {
	viewport mapview.Viewport
	markers  []*symbol.Marker
	index    map[uuid.UUID]int
	controls []*controls.Container
	updates  int
}

var _ mapview.Surface = (*Canvas)(nil)

// NewCanvas creates an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{index: make(map[uuid.UUID]int)}
}

// SetViewport implements mapview.Surface.
func (c *Canvas) SetViewport(vp mapview.Viewport) { c.viewport = vp }

// AddControl implements mapview.Surface.
func (c *Canvas) AddControl(ct *controls.Container) { c.controls = append(c.controls, ct) }

// AddMarker implements symbol.Surface.
func (c *Canvas) AddMarker(m *symbol.Marker) {
	if i, ok := c.index[m.ID]; ok {
		c.markers[i] = m
		return
	}
	c.index[m.ID] = len(c.markers)
	c.markers = append(c.markers, m)
}

// UpdateMarker implements symbol.Surface. Markers are held by pointer so
// the canvas only counts redraws.
func (c *Canvas) UpdateMarker(m *symbol.Marker) {
	if _, ok := c.index[m.ID]; ok {
		c.updates++
	}
}

// RemoveMarker implements symbol.Surface.
func (c *Canvas) RemoveMarker(id uuid.UUID) {
	i, ok := c.index[id]
	if !ok {
		return
	}
	c.markers = append(c.markers[:i], c.markers[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.markers); j++ {
		c.index[c.markers[j].ID] = j
	}
}

// Viewport returns the viewport set by the view.
func (c *Canvas) Viewport() mapview.Viewport { return c.viewport }

// Markers returns the markers on the canvas in insertion order.
func (c *Canvas) Markers() []*symbol.Marker { return c.markers }

// Controls returns the mounted control containers.
func (c *Canvas) Controls() []*controls.Container { return c.controls }

// Updates returns how many marker redraws were requested.
func (c *Canvas) Updates() int { return c.updates }

// Project converts lat/lng to pixel coordinates on a width x height frame
// centred on the viewport.
func (c *Canvas) Project(lat, lng float64, width, height int) (x, y float64) {
	scale := TileSize * math.Exp2(float64(c.viewport.Zoom))
	px, py := mercator(lat, lng, scale)
	cx, cy := mercator(c.viewport.CenterLat, c.viewport.CenterLon, scale)
	return px - cx + float64(width)/2, py - cy + float64(height)/2
}

// maxLat keeps the projection finite at the poles.
const maxLat = 85.0511287798

func mercator(lat, lng, scale float64) (x, y float64) {
	lat = math.Max(-maxLat, math.Min(maxLat, lat))
	sin := math.Sin(lat * math.Pi / 180)
	x = (lng + 180) / 360 * scale
	y = (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * scale
	return x, y
}
