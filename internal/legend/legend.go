// Package legend summarises the visible markers for one year as three
// calibrated circles sharing a common bottom edge.
package legend

import (
	"math"
	"strconv"

	"github.com/sells-group/attendance-map/internal/dataset"
	"github.com/sells-group/attendance-map/internal/symbol"
)

// Key names one of the three legend circles.
type Key string

const (
	KeyMax  Key = "max"
	KeyMean Key = "mean"
	KeyMin  Key = "min"
)

// Keys lists the circles in drawing order.
var Keys = []Key{KeyMax, KeyMean, KeyMin}

// Snapshot holds the legend values for the visible markers in one year.
type Snapshot struct {
	Attribute dataset.YearAttribute `json:"attribute"`
	Count     int                   `json:"count"`
	Max       float64               `json:"max"`
	Mean      float64               `json:"mean"`
	Min       float64               `json:"min"`
}

// Empty reports whether no visible feature had a value for the year.
func (s Snapshot) Empty() bool {
	return s.Count == 0
}

// Value returns the snapshot value for k.
func (s Snapshot) Value(k Key) float64 {
	switch k {
	case KeyMax:
		return s.Max
	case KeyMean:
		return s.Mean
	default:
		return s.Min
	}
}

// Radius returns the marker radius for the value at k.
func (s Snapshot) Radius(k Key) float64 {
	return symbol.Radius(s.Value(k))
}

// Compute scans features for attr. Features without a value are ignored.
// Mean is the rounded midpoint of max and min, not the average of all values.
func Compute(features []*dataset.Feature, attr dataset.YearAttribute) Snapshot {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	count := 0
	for _, f := range features {
		v, ok := f.Value(attr)
		if !ok || math.IsNaN(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		count++
	}

	snap := Snapshot{Attribute: attr, Count: count}
	if count == 0 {
		return snap
	}
	snap.Max = hi
	snap.Min = lo
	snap.Mean = Midpoint(hi, lo)
	return snap
}

// Midpoint returns (max+min)/2 rounded to a whole person, halves rounding up.
func Midpoint(hi, lo float64) float64 {
	return roundHalfUp((hi + lo) / 2)
}

// Label formats v rounded to two decimals followed by " people".
func Label(v float64) string {
	return strconv.FormatFloat(roundHalfUp(v*100)/100, 'f', -1, 64) + " people"
}

// Title is the temporal heading above the circles.
func Title(attr dataset.YearAttribute) string {
	return "Average Attendance in " + attr.Year()
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
