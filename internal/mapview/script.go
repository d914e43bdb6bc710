package mapview

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/attendance-map/internal/controls"
)

// Step is one scripted UI action, written as "verb" or "verb:arg":
//
//	forward, reverse, slide:N, filter:CODE, hover:TEAM, unhover:TEAM
type Step string

// ParseScript splits a comma-separated list of steps.
func ParseScript(s string) []Step {
	var steps []Step
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			steps = append(steps, Step(part))
		}
	}
	return steps
}

// Event translates the step into the UI event a user would produce.
func (v *View) Event(step Step) (controls.Event, error) {
	verb, arg, _ := strings.Cut(string(step), ":")
	verb = strings.ToLower(strings.TrimSpace(verb))
	arg = strings.TrimSpace(arg)

	switch verb {
	case "forward":
		return controls.Event{Kind: controls.EventClick, Target: controls.ForwardID}, nil
	case "reverse":
		return controls.Event{Kind: controls.EventClick, Target: controls.ReverseID}, nil
	case "slide":
		if _, err := strconv.Atoi(arg); err != nil {
			return controls.Event{}, eris.Wrapf(err, "mapview: slide step %q", step)
		}
		return controls.Event{Kind: controls.EventInput, Target: controls.SliderID, Value: arg}, nil
	case "filter":
		if arg == "" {
			return controls.Event{}, eris.Errorf("mapview: filter step %q needs a division", step)
		}
		return controls.Event{Kind: controls.EventClick, Target: controls.LinkID(arg)}, nil
	case "hover", "unhover":
		id, ok := v.MarkerFor(arg)
		if !ok {
			return controls.Event{}, eris.Errorf("mapview: no marker for team %q", arg)
		}
		kind := controls.EventHoverIn
		if verb == "unhover" {
			kind = controls.EventHoverOut
		}
		return controls.Event{Kind: kind, Target: id.String()}, nil
	default:
		return controls.Event{}, eris.Errorf("mapview: unknown step %q", step)
	}
}

// Replay dispatches each step in order and stops at the first failure.
func (v *View) Replay(steps []Step) error {
	for i, step := range steps {
		ev, err := v.Event(step)
		if err != nil {
			return eris.Wrapf(err, "mapview: step %d", i)
		}
		if err := v.Dispatch(ev); err != nil {
			return eris.Wrapf(err, "mapview: step %d (%s)", i, step)
		}
	}
	return nil
}
