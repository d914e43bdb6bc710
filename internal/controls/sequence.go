package controls

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// RangeError reports a year index outside [0, Max].
type RangeError struct {
	Index int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("controls: year index %d outside [0, %d]", e.Index, e.Max)
}

// Sequence is the selected year index. Forward and Reverse wrap around the
// ends; every change is reported to the change callback.
type Sequence struct {
	index    int
	count    int
	onChange func(index int) error
}

// NewSequence creates a sequence over count years starting at index 0.
func NewSequence(count int, onChange func(index int) error) (*Sequence, error) {
	if count <= 0 {
		return nil, eris.Errorf("controls: sequence needs at least one year, got %d", count)
	}
	if onChange == nil {
		onChange = func(int) error { return nil }
	}
	return &Sequence{count: count, onChange: onChange}, nil
}

// Index returns the selected year index.
func (s *Sequence) Index() int { return s.index }

// Count returns the number of years.
func (s *Sequence) Count() int { return s.count }

// Forward advances one year, wrapping from the last to the first.
func (s *Sequence) Forward() error {
	return s.set((s.index + 1) % s.count)
}

// Reverse steps back one year, wrapping from the first to the last.
func (s *Sequence) Reverse() error {
	return s.set((s.index - 1 + s.count) % s.count)
}

// SetIndex selects year i. It fails with a RangeError when i is out of range.
func (s *Sequence) SetIndex(i int) error {
	if i < 0 || i >= s.count {
		return &RangeError{Index: i, Max: s.count - 1}
	}
	return s.set(i)
}

// Slide selects year i from slider input, clamping to the valid range.
func (s *Sequence) Slide(i int) error {
	switch {
	case i < 0:
		i = 0
	case i >= s.count:
		i = s.count - 1
	}
	return s.set(i)
}

// Reset returns to index 0 without notifying. Callers rebuilding the layer
// for the first year already render that state.
func (s *Sequence) Reset() {
	s.index = 0
}

func (s *Sequence) set(i int) error {
	s.index = i
	return s.onChange(i)
}

// Element ids used by SequenceControl.
const (
	SliderID  = "range-slider"
	ForwardID = "forward"
	ReverseID = "reverse"
)

// SequenceControl is the slider with reverse and forward buttons.
type SequenceControl struct {
	seq    *Sequence
	slider *Element
}

// NewSequenceControl creates the UI for seq.
func NewSequenceControl(seq *Sequence) *SequenceControl {
	return &SequenceControl{seq: seq}
}

// Mount implements Control.
func (c *SequenceControl) Mount(ct *Container) {
	ct.Class = "sequence-control-container"
	ct.Position = BottomLeft
	c.slider = ct.Add(&Element{
		Kind:  KindRange,
		ID:    SliderID,
		Class: "range-slider",
		Attrs: map[string]string{
			"min":   "0",
			"max":   strconv.Itoa(c.seq.Count() - 1),
			"step":  "1",
			"value": strconv.Itoa(c.seq.Index()),
		},
	})
	ct.Add(&Element{Kind: KindButton, ID: ReverseID, Class: "skip", Label: "Reverse"})
	ct.Add(&Element{Kind: KindButton, ID: ForwardID, Class: "skip", Label: "Skip"})
}

// OnEvent implements Control.
func (c *SequenceControl) OnEvent(t HandlerTable) {
	t.On(EventClick, ForwardID, func(Event) error {
		defer c.Sync()
		return c.seq.Forward()
	})
	t.On(EventClick, ReverseID, func(Event) error {
		defer c.Sync()
		return c.seq.Reverse()
	})
	t.On(EventInput, SliderID, func(ev Event) error {
		defer c.Sync()
		i, err := strconv.Atoi(ev.Value)
		if err != nil {
			zap.L().Warn("controls: ignoring non-numeric slider value", zap.String("value", ev.Value))
			return nil
		}
		return c.seq.Slide(i)
	})
}

// Sync moves the slider thumb to the sequence index.
func (c *SequenceControl) Sync() {
	if c.slider == nil {
		return
	}
	c.slider.Attrs["value"] = strconv.Itoa(c.seq.Index())
}
