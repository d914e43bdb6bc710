package symbol

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/attendance-map/internal/dataset"
)

// State is the lifecycle of a Layer.
type State int

const (
	// StateUninitialized means no markers have been built yet.
	StateUninitialized State = iota
	// StateBuilt means the layer owns a marker per drawable visible feature.
	StateBuilt
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// Style holds the circle marker paint options.
type Style struct {
	FillColor   string  `json:"fill_color"`
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fill_opacity"`
}

// DefaultStyle is the orange proportional symbol.
var DefaultStyle = Style{
	FillColor:   "#ff7800",
	Color:       "#000",
	Weight:      1,
	Opacity:     1,
	FillOpacity: 0.8,
}

// Marker is one rendered proportional symbol. Position never changes after
// creation; radius and popup follow the selected year.
type Marker struct {
	ID      uuid.UUID
	Feature *dataset.Feature
	Lat     float64
	Lng     float64
	Radius  float64
	Popup   Popup
	Style   Style
	// Open is true while the pointer hovers the marker.
	Open bool
}

// Surface is the map renderer the layer draws into.
type Surface interface {
	AddMarker(m *Marker)
	UpdateMarker(m *Marker)
	RemoveMarker(id uuid.UUID)
}

// ErrAlreadyBuilt is returned by Initialize on a built layer.
var ErrAlreadyBuilt = eris.New("symbol: layer already built")

// ErrNotBuilt is returned by UpdateYear before Initialize.
var ErrNotBuilt = eris.New("symbol: layer not built")

// Layer owns the markers for the currently visible features.
type Layer struct {
	surface Surface
	style   Style
	state   State
	attr    dataset.YearAttribute
	markers []*Marker
	byID    map[uuid.UUID]*Marker
}

// NewLayer creates an uninitialized layer drawing into surface.
func NewLayer(surface Surface, style Style) *Layer {
	return &Layer{
		surface: surface,
		style:   style,
		byID:    make(map[uuid.UUID]*Marker),
	}
}

// State returns the layer lifecycle state.
func (l *Layer) State() State { return l.state }

// Attribute returns the year the markers currently show.
func (l *Layer) Attribute() dataset.YearAttribute { return l.attr }

// Markers returns the rendered markers in feature order.
func (l *Layer) Markers() []*Marker { return l.markers }

// Marker looks up a rendered marker by id.
func (l *Layer) Marker(id uuid.UUID) (*Marker, bool) {
	m, ok := l.byID[id]
	return m, ok
}

// Features returns the features that currently have a marker.
func (l *Layer) Features() []*dataset.Feature {
	out := make([]*dataset.Feature, 0, len(l.markers))
	for _, m := range l.markers {
		out = append(out, m.Feature)
	}
	return out
}

// Initialize builds one marker per feature for attr. Features without a
// location or a value for attr are skipped and reported.
func (l *Layer) Initialize(features []*dataset.Feature, attr dataset.YearAttribute) ([]*RenderError, error) {
	if l.state == StateBuilt {
		return nil, ErrAlreadyBuilt
	}
	return l.build(features, attr), nil
}

// Rebuild discards every marker and builds the layer again for attr.
func (l *Layer) Rebuild(features []*dataset.Feature, attr dataset.YearAttribute) []*RenderError {
	l.Clear()
	return l.build(features, attr)
}

// Clear removes every marker from the surface and resets the layer.
func (l *Layer) Clear() {
	for _, m := range l.markers {
		l.surface.RemoveMarker(m.ID)
	}
	l.markers = nil
	l.byID = make(map[uuid.UUID]*Marker)
	l.attr = ""
	l.state = StateUninitialized
}

func (l *Layer) build(features []*dataset.Feature, attr dataset.YearAttribute) []*RenderError {
	var errs []*RenderError
	l.markers = make([]*Marker, 0, len(features))
	for _, f := range features {
		m, rerr := l.newMarker(f, attr)
		if rerr != nil {
			errs = append(errs, rerr)
			continue
		}
		l.markers = append(l.markers, m)
		l.byID[m.ID] = m
		l.surface.AddMarker(m)
	}
	l.attr = attr
	l.state = StateBuilt
	logRenderErrors("symbol: skipped features while building layer", errs)
	return errs
}

func (l *Layer) newMarker(f *dataset.Feature, attr dataset.YearAttribute) (*Marker, *RenderError) {
	lat, lng, ok := f.LatLng()
	if !ok {
		return nil, &RenderError{Feature: f.Name, Index: f.Index, Attribute: attr, Reason: "no point geometry"}
	}
	v, ok := f.Value(attr)
	if !ok {
		return nil, &RenderError{Feature: f.Name, Index: f.Index, Attribute: attr, Reason: "missing attendance value"}
	}
	radius := Radius(v)
	popup, err := BuildPopup(f, attr, radius)
	if err != nil {
		return nil, asRenderError(err)
	}
	return &Marker{
		ID:      uuid.New(),
		Feature: f,
		Lat:     lat,
		Lng:     lng,
		Radius:  radius,
		Popup:   popup,
		Style:   l.style,
	}, nil
}

// UpdateYear resizes every marker and rewrites its popup for attr. A marker
// whose feature lacks attr keeps its previous radius and popup.
func (l *Layer) UpdateYear(attr dataset.YearAttribute) ([]*RenderError, error) {
	if l.state != StateBuilt {
		return nil, ErrNotBuilt
	}
	var errs []*RenderError
	for _, m := range l.markers {
		v, ok := m.Feature.Value(attr)
		if !ok {
			errs = append(errs, &RenderError{Feature: m.Feature.Name, Index: m.Feature.Index, Attribute: attr, Reason: "missing attendance value"})
			continue
		}
		radius := Radius(v)
		popup, err := BuildPopup(m.Feature, attr, radius)
		if err != nil {
			errs = append(errs, asRenderError(err))
			continue
		}
		m.Radius = radius
		m.Popup = popup
		l.surface.UpdateMarker(m)
	}
	l.attr = attr
	logRenderErrors("symbol: skipped features while updating year", errs)
	return errs, nil
}

// Hover opens the marker's popup when in is true and closes it otherwise.
func (l *Layer) Hover(id uuid.UUID, in bool) error {
	m, ok := l.byID[id]
	if !ok {
		return eris.Errorf("symbol: unknown marker %s", id)
	}
	if m.Open == in {
		return nil
	}
	m.Open = in
	l.surface.UpdateMarker(m)
	return nil
}

func asRenderError(err error) *RenderError {
	var rerr *RenderError
	if errors.As(err, &rerr) {
		return rerr
	}
	return &RenderError{Reason: err.Error()}
}

func logRenderErrors(msg string, errs []*RenderError) {
	if len(errs) == 0 {
		return
	}
	zap.L().Warn(msg,
		zap.Int("count", len(errs)),
		zap.String("first", errs[0].Error()),
	)
}
