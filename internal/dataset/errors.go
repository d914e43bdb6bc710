package dataset

import "fmt"

// DataShapeError reports a feature collection that cannot drive the map:
// it has no features, or the first feature carries no attendance keys.
type DataShapeError struct {
	Reason string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("dataset: unexpected data shape: %s", e.Reason)
}
