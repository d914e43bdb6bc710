// Package dataset loads the team attendance GeoJSON and indexes it by year and division.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/attendance-map/internal/fetcher"
)

// DefaultAttributePattern marks attendance keys in feature properties.
const DefaultAttributePattern = "Avg"

// Options controls how a feature collection is interpreted.
type Options struct {
	// AttributePattern is the substring that identifies attendance keys.
	AttributePattern string
}

func (o Options) pattern() string {
	if o.AttributePattern == "" {
		return DefaultAttributePattern
	}
	return o.AttributePattern
}

// Dataset holds the parsed features for the lifetime of one view.
type Dataset struct {
	features   []*Feature
	years      []YearAttribute
	divisions  []string
	byDivision map[string][]int
}

// Load fetches source in a single round trip and parses it.
func Load(ctx context.Context, f fetcher.Fetcher, source string, opts Options) (*Dataset, error) {
	raw, err := fetcher.ReadAll(ctx, f, source)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: load %s", source)
	}

	ds, err := Parse(raw, opts)
	if err != nil {
		return nil, err
	}

	zap.L().Info("dataset: loaded",
		zap.String("source", source),
		zap.Int("features", len(ds.features)),
		zap.Int("years", len(ds.years)),
		zap.Strings("divisions", ds.divisions),
	)
	return ds, nil
}

// Parse decodes a GeoJSON FeatureCollection. Year attributes are the keys of
// the first feature's properties containing the attribute pattern, in the
// order they are declared.
func Parse(raw []byte, opts Options) (*Dataset, error) {
	if !gjson.ValidBytes(raw) {
		return nil, eris.New("dataset: invalid JSON")
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, eris.Wrap(err, "dataset: decode feature collection")
	}
	if len(fc.Features) == 0 {
		return nil, &DataShapeError{Reason: "feature collection is empty"}
	}

	// Decoded properties are Go maps, so declaration order comes from the raw document.
	pattern := opts.pattern()
	var years []YearAttribute
	gjson.GetBytes(raw, "features.0.properties").ForEach(func(key, _ gjson.Result) bool {
		if strings.Contains(key.String(), pattern) {
			years = append(years, YearAttribute(key.String()))
		}
		return true
	})
	if len(years) == 0 {
		return nil, &DataShapeError{Reason: fmt.Sprintf("no attendance attributes matching %q", pattern)}
	}

	ds := &Dataset{
		features:   make([]*Feature, 0, len(fc.Features)),
		years:      years,
		byDivision: make(map[string][]int),
	}

	for i, gf := range fc.Features {
		feat := newFeature(i, gf, years)
		ds.features = append(ds.features, feat)

		if feat.Division == "" {
			zap.L().Warn("dataset: feature has no division", zap.Int("index", i), zap.String("team", feat.Name))
			continue
		}
		if _, seen := ds.byDivision[feat.Division]; !seen {
			ds.divisions = append(ds.divisions, feat.Division)
		}
		ds.byDivision[feat.Division] = append(ds.byDivision[feat.Division], i)
	}

	return ds, nil
}

func newFeature(index int, gf *geojson.Feature, years []YearAttribute) *Feature {
	props := gf.Properties
	if props == nil {
		props = map[string]any{}
	}

	feat := &Feature{
		Index:      index,
		Name:       stringProperty(props, PropTeamName),
		Division:   stringProperty(props, PropDivision),
		Values:     make(map[YearAttribute]float64, len(years)),
		Properties: props,
	}
	if pt, ok := gf.Geometry.(*geom.Point); ok {
		feat.Location = pt
	}

	for _, year := range years {
		v, ok := numberProperty(props, string(year))
		if !ok {
			zap.L().Debug("dataset: feature missing attendance value",
				zap.Int("index", index),
				zap.String("team", feat.Name),
				zap.String("attribute", string(year)),
			)
			continue
		}
		feat.Values[year] = v
	}
	return feat
}

func stringProperty(props map[string]any, key string) string {
	switch v := props[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func numberProperty(props map[string]any, key string) (float64, bool) {
	switch v := props[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Features returns every feature in file order.
func (d *Dataset) Features() []*Feature {
	return d.features
}

// Years returns the year attributes in declaration order.
func (d *Dataset) Years() []YearAttribute {
	return d.years
}

// Divisions returns the division codes in order of first appearance.
func (d *Dataset) Divisions() []string {
	return d.divisions
}

// HasDivision reports whether any feature belongs to code.
func (d *Dataset) HasDivision(code string) bool {
	_, ok := d.byDivision[code]
	return ok
}

// ByDivision returns the features in division code, in file order.
func (d *Dataset) ByDivision(code string) []*Feature {
	idx := d.byDivision[code]
	out := make([]*Feature, 0, len(idx))
	for _, i := range idx {
		out = append(out, d.features[i])
	}
	return out
}

// Visible returns the features that pass selector. AllDivisions keeps every
// feature whose division is non-empty; features without one never show.
func (d *Dataset) Visible(selector string) []*Feature {
	if selector != AllDivisions {
		return d.ByDivision(selector)
	}
	out := make([]*Feature, 0, len(d.features))
	for _, f := range d.features {
		if f.Division != "" {
			out = append(out, f)
		}
	}
	return out
}
