package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/attendance-map/internal/controls"
	"github.com/sells-group/attendance-map/internal/dataset"
)

func TestParseScript(t *testing.T) {
	assert.Equal(t, []Step{"forward", "slide:3", "filter:NL West"}, ParseScript(" forward, slide:3 ,,filter:NL West"))
	assert.Empty(t, ParseScript(""))
}

func TestEvent(t *testing.T) {
	v, err := New(fixture(t), newFakeSurface(), DefaultViewport)
	require.NoError(t, err)

	ev, err := v.Event("forward")
	require.NoError(t, err)
	assert.Equal(t, controls.Event{Kind: controls.EventClick, Target: controls.ForwardID}, ev)

	ev, err = v.Event("Reverse")
	require.NoError(t, err)
	assert.Equal(t, controls.ReverseID, ev.Target)

	ev, err = v.Event("slide:4")
	require.NoError(t, err)
	assert.Equal(t, controls.Event{Kind: controls.EventInput, Target: controls.SliderID, Value: "4"}, ev)

	ev, err = v.Event("filter:AL Central")
	require.NoError(t, err)
	assert.Equal(t, controls.LinkID(dataset.DivisionALCentral), ev.Target)

	ev, err = v.Event("unhover:Chicago Cubs")
	require.NoError(t, err)
	assert.Equal(t, controls.EventHoverOut, ev.Kind)

	for _, bad := range []Step{"slide:x", "filter:", "hover:Nobody", "jump"} {
		_, err := v.Event(bad)
		assert.Error(t, err, string(bad))
	}
}

func TestReplay(t *testing.T) {
	v, err := New(fixture(t), newFakeSurface(), DefaultViewport)
	require.NoError(t, err)

	require.NoError(t, v.Replay(ParseScript("forward,forward,filter:NL Central,slide:5,hover:Chicago Cubs")))
	assert.Equal(t, dataset.DivisionNLCentral, v.Division())
	assert.Equal(t, 5, v.YearIndex())
	assert.Len(t, v.Layer().Markers(), 2)

	id, ok := v.MarkerFor("Chicago Cubs")
	require.True(t, ok)
	m, _ := v.Layer().Marker(id)
	assert.True(t, m.Open)
	assert.Contains(t, m.Popup.Content, "Average Attendance in 2015: 36039 people")

	err = v.Replay(ParseScript("forward,bogus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1")
	assert.Equal(t, 6, v.YearIndex(), "steps before the failure still apply")
}
