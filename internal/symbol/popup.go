package symbol

import (
	"fmt"
	"strconv"

	"github.com/sells-group/attendance-map/internal/dataset"
)

// Offset is a pixel displacement from a marker's centre.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Popup is the hover tooltip bound to a marker.
type Popup struct {
	Content   string                `json:"content"`
	Offset    Offset                `json:"offset"`
	Attribute dataset.YearAttribute `json:"attribute"`
}

// BuildPopup formats the tooltip for f in year attr. The offset lifts the
// popup to the top edge of a marker of the given radius.
func BuildPopup(f *dataset.Feature, attr dataset.YearAttribute, radius float64) (Popup, error) {
	v, ok := f.Value(attr)
	if !ok {
		return Popup{}, &RenderError{Feature: f.Name, Index: f.Index, Attribute: attr, Reason: "missing attendance value"}
	}
	return Popup{
		Content:   fmt.Sprintf("Team: %s\nAverage Attendance in %s: %s people", f.Name, attr.Year(), FormatValue(v)),
		Offset:    Offset{X: 0, Y: -radius},
		Attribute: attr,
	}, nil
}

// FormatValue prints v with the fewest digits that round-trip, so whole
// attendance counts print without a decimal point.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
