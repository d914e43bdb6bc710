package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/attendance-map/internal/dataset"
	"github.com/sells-group/attendance-map/internal/legend"
)

func TestLegendControl(t *testing.T) {
	ctl := NewLegendControl()
	ct := &Container{}
	ctl.Mount(ct)

	assert.Equal(t, BottomRight, ct.Position)
	assert.Equal(t, "legend-control-container", ct.Class)

	fs := []*dataset.Feature{
		{Values: map[dataset.YearAttribute]float64{"2014 Avg": 100}},
		{Values: map[dataset.YearAttribute]float64{"2014 Avg": 400}},
	}
	layout := legend.NewLayout("2014 Avg", legend.Compute(fs, "2014 Avg"))
	ctl.Update(layout)

	title, ok := ct.Element(TemporalLegendID)
	require.True(t, ok)
	assert.Equal(t, "Average Attendance in 2014", title.Label)
	assert.Equal(t, "<b>Average Attendance in 2014</b>", title.Markup)

	svg, ok := ct.Element(AttributeLegendID)
	require.True(t, ok)
	assert.Contains(t, svg.Markup, "400 people")
	assert.Equal(t, layout, ctl.Layout())

	table := HandlerTable{}
	ctl.OnEvent(table)
	assert.Empty(t, table)
}
