package render

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// FeatureCollection converts the markers on the canvas to GeoJSON features
// carrying their current size and popup.
func (c *Canvas) FeatureCollection() *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(c.markers))}
	for _, m := range c.markers {
		pt := geom.NewPointFlat(geom.XY, []float64{m.Lng, m.Lat})
		props := map[string]any{
			"team":     m.Feature.Name,
			"division": m.Feature.Division,
			"radius":   m.Radius,
			"popup":    m.Popup.Content,
			"open":     m.Open,
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         m.ID.String(),
			Geometry:   pt,
			Properties: props,
		})
	}
	return fc
}

// WriteGeoJSON writes the rendered markers as a FeatureCollection. year and
// value are taken from the attribute each marker shows.
func (c *Canvas) WriteGeoJSON(w io.Writer) error {
	fc := c.FeatureCollection()
	for i, f := range fc.Features {
		m := c.markers[i]
		attr := m.Popup.Attribute
		f.Properties["year"] = attr.Year()
		if v, ok := m.Feature.Value(attr); ok {
			f.Properties["value"] = v
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return eris.Wrap(err, "render: encode geojson")
	}
	return nil
}
