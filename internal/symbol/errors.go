package symbol

import (
	"fmt"

	"github.com/sells-group/attendance-map/internal/dataset"
)

// RenderError reports a feature that could not be drawn for an attribute.
// It never aborts the rest of the layer.
type RenderError struct {
	Feature   string
	Index     int
	Attribute dataset.YearAttribute
	Reason    string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("symbol: feature %d (%s) %s: %s", e.Index, e.Feature, e.Attribute, e.Reason)
}
