package dataset

import (
	"strings"

	"github.com/twpayne/go-geom"
)

// Property keys read from each GeoJSON feature.
const (
	PropTeamName = "Team Name"
	PropDivision = "Division"
)

// AllDivisions is the filter selector that matches every feature with a division.
const AllDivisions = "all"

// MLB divisions as they appear in the Division property.
const (
	DivisionNLWest    = "NL West"
	DivisionNLEast    = "NL East"
	DivisionALEast    = "AL East"
	DivisionNLCentral = "NL Central"
	DivisionALCentral = "AL Central"
	DivisionALWest    = "AL West"
)

// KnownDivisions lists the six divisions in the order the filter menu shows them.
var KnownDivisions = []string{
	DivisionNLWest,
	DivisionNLEast,
	DivisionALEast,
	DivisionNLCentral,
	DivisionALCentral,
	DivisionALWest,
}

// YearAttribute is an attendance property key such as "2010 Avg".
type YearAttribute string

// Year returns the label's first space-separated token ("2010" for "2010 Avg").
func (a YearAttribute) Year() string {
	year, _, _ := strings.Cut(string(a), " ")
	return year
}

func (a YearAttribute) String() string {
	return string(a)
}

// Feature is one team. It is not modified after the dataset is parsed.
type Feature struct {
	Index      int
	Name       string
	Division   string
	Values     map[YearAttribute]float64
	Location   *geom.Point
	Properties map[string]any
}

// Value returns the attendance for attr and whether the feature has one.
func (f *Feature) Value(attr YearAttribute) (float64, bool) {
	v, ok := f.Values[attr]
	return v, ok
}

// LatLng returns the feature position as latitude, longitude.
// ok is false when the feature has no point geometry.
func (f *Feature) LatLng() (lat, lng float64, ok bool) {
	if f.Location == nil || len(f.Location.FlatCoords()) < 2 {
		return 0, 0, false
	}
	return f.Location.Y(), f.Location.X(), true
}
