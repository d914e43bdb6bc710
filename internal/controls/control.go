// Package controls holds the map's UI controls and the state machines behind
// them: the year sequence, the division filter and the legend panel.
package controls

import (
	"github.com/rotisserie/eris"
)

// Position anchors a control container to a corner of the map.
type Position string

const (
	TopRight    Position = "topright"
	BottomLeft  Position = "bottomleft"
	BottomRight Position = "bottomright"
)

// ElementKind is the widget type of an Element.
type ElementKind string

const (
	KindHeading ElementKind = "heading"
	KindLink    ElementKind = "link"
	KindButton  ElementKind = "button"
	KindRange   ElementKind = "range"
	KindPanel   ElementKind = "panel"
	KindSVG     ElementKind = "svg"
)

// Element is one widget inside a container.
type Element struct {
	Kind   ElementKind       `json:"kind"`
	ID     string            `json:"id"`
	Class  string            `json:"class,omitempty"`
	Label  string            `json:"label,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
	Active bool              `json:"active,omitempty"`
	// Markup is pre-rendered content for panels and SVG blocks.
	Markup string `json:"markup,omitempty"`
}

// Container is the element tree a control mounts into.
type Container struct {
	Class    string     `json:"class"`
	Position Position   `json:"position"`
	Elements []*Element `json:"elements"`
}

// Add appends e and returns it.
func (c *Container) Add(e *Element) *Element {
	c.Elements = append(c.Elements, e)
	return e
}

// Element finds a widget by id.
func (c *Container) Element(id string) (*Element, bool) {
	for _, e := range c.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// EventKind is the type of a UI event.
type EventKind string

const (
	EventClick    EventKind = "click"
	EventInput    EventKind = "input"
	EventHoverIn  EventKind = "mouseover"
	EventHoverOut EventKind = "mouseout"
)

// Event is one discrete user input. Target is the element or marker id;
// Value carries the slider position for input events.
type Event struct {
	Kind   EventKind `json:"kind"`
	Target string    `json:"target"`
	Value  string    `json:"value,omitempty"`
}

// Handler reacts to an event. It must leave view state consistent on return.
type Handler func(Event) error

// HandlerKey addresses a handler. An empty Target matches any target of Kind.
type HandlerKey struct {
	Kind   EventKind
	Target string
}

// HandlerTable routes events to handlers.
type HandlerTable map[HandlerKey]Handler

// On registers h for kind events on target.
func (t HandlerTable) On(kind EventKind, target string, h Handler) {
	t[HandlerKey{Kind: kind, Target: target}] = h
}

// ErrUnhandled is returned for events no control listens to.
var ErrUnhandled = eris.New("controls: unhandled event")

// Dispatch runs the handler for ev, falling back to the kind-wide handler.
func (t HandlerTable) Dispatch(ev Event) error {
	if h, ok := t[HandlerKey{Kind: ev.Kind, Target: ev.Target}]; ok {
		return h(ev)
	}
	if h, ok := t[HandlerKey{Kind: ev.Kind}]; ok {
		return h(ev)
	}
	return eris.Wrapf(ErrUnhandled, "%s on %q", ev.Kind, ev.Target)
}

// Control is a UI widget group that can be placed on the map.
type Control interface {
	// Mount builds the control's elements into c.
	Mount(c *Container)
	// OnEvent registers the control's handlers in t.
	OnEvent(t HandlerTable)
}
