// Package mapview wires the dataset, symbol layer, legend and controls into
// one interactive map view driven by discrete UI events.
package mapview

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/attendance-map/internal/controls"
	"github.com/sells-group/attendance-map/internal/dataset"
	"github.com/sells-group/attendance-map/internal/legend"
	"github.com/sells-group/attendance-map/internal/symbol"
)

// Viewport is the initial map camera and basemap.
type Viewport struct {
	CenterLat   float64 `json:"center_lat"`
	CenterLon   float64 `json:"center_lon"`
	Zoom        int     `json:"zoom"`
	MaxZoom     int     `json:"max_zoom"`
	TileURL     string  `json:"tile_url"`
	Attribution string  `json:"attribution"`
}

// DefaultViewport frames the continental United States.
var DefaultViewport = Viewport{
	CenterLat: 37.639018,
	CenterLon: -87.981940,
	Zoom:      4,
	MaxZoom:   18,
}

// Surface is the map renderer: markers plus positioned control containers.
type Surface interface {
	symbol.Surface
	SetViewport(vp Viewport)
	AddControl(c *controls.Container)
}

// View is one page view over a loaded dataset. Events are handled one at a
// time; a View must not be used from more than one goroutine.
type View struct {
	ds      *dataset.Dataset
	surface Surface
	layer   *symbol.Layer

	seq    *controls.Sequence
	filter *controls.Filter

	seqCtl    *controls.SequenceControl
	filterCtl *controls.FilterControl
	legendCtl *controls.LegendControl

	handlers  controls.HandlerTable
	snapshot  legend.Snapshot
	renderErr []*symbol.RenderError
	log       *zap.Logger
}

// New builds the view: markers for the first year, the three controls and
// the legend.
func New(ds *dataset.Dataset, surface Surface, vp Viewport) (*View, error) {
	years := ds.Years()
	if len(years) == 0 {
		return nil, eris.New("mapview: dataset has no years")
	}

	v := &View{
		ds:       ds,
		surface:  surface,
		layer:    symbol.NewLayer(surface, symbol.DefaultStyle),
		handlers: controls.HandlerTable{},
		log:      zap.L().With(zap.String("component", "mapview")),
	}
	surface.SetViewport(vp)

	errs, err := v.layer.Initialize(ds.Visible(dataset.AllDivisions), years[0])
	if err != nil {
		return nil, eris.Wrap(err, "mapview: initialize layer")
	}
	v.renderErr = errs

	v.seq, err = controls.NewSequence(len(years), v.showYear)
	if err != nil {
		return nil, err
	}
	v.filter = controls.NewFilter(ds.Divisions(), v.applyFilter)

	v.seqCtl = controls.NewSequenceControl(v.seq)
	v.filterCtl = controls.NewFilterControl(v.filter)
	v.legendCtl = controls.NewLegendControl()
	for _, ctl := range []controls.Control{v.seqCtl, v.filterCtl, v.legendCtl} {
		v.mount(ctl)
	}

	v.handlers.On(controls.EventHoverIn, "", v.hoverHandler(true))
	v.handlers.On(controls.EventHoverOut, "", v.hoverHandler(false))

	v.refreshLegend(years[0])

	v.log.Debug("mapview: built",
		zap.Int("markers", len(v.layer.Markers())),
		zap.Int("years", len(years)),
		zap.Int("divisions", len(ds.Divisions())),
	)
	return v, nil
}

func (v *View) mount(ctl controls.Control) {
	ct := &controls.Container{}
	ctl.Mount(ct)
	ctl.OnEvent(v.handlers)
	v.surface.AddControl(ct)
}

func (v *View) hoverHandler(in bool) controls.Handler {
	return func(ev controls.Event) error {
		id, err := uuid.Parse(ev.Target)
		if err != nil {
			return eris.Wrapf(err, "mapview: hover target %q", ev.Target)
		}
		return v.layer.Hover(id, in)
	}
}

// Dispatch handles one UI event.
func (v *View) Dispatch(ev controls.Event) error {
	if err := v.handlers.Dispatch(ev); err != nil {
		v.log.Debug("mapview: event failed",
			zap.String("kind", string(ev.Kind)),
			zap.String("target", ev.Target),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// showYear is the sequence change callback.
func (v *View) showYear(index int) error {
	attr := v.ds.Years()[index]
	errs, err := v.layer.UpdateYear(attr)
	if err != nil {
		return eris.Wrap(err, "mapview: update year")
	}
	v.renderErr = errs
	v.seqCtl.Sync()
	v.refreshLegend(attr)
	return nil
}

// applyFilter is the filter select callback. Filtering always returns the
// slider to the first year.
func (v *View) applyFilter(selector string) error {
	first := v.ds.Years()[0]
	v.renderErr = v.layer.Rebuild(v.ds.Visible(selector), first)
	v.seq.Reset()
	v.seqCtl.Sync()
	v.filterCtl.Sync()
	v.refreshLegend(first)

	v.log.Debug("mapview: filter applied",
		zap.String("division", selector),
		zap.Int("markers", len(v.layer.Markers())),
	)
	return nil
}

func (v *View) refreshLegend(attr dataset.YearAttribute) {
	v.snapshot = legend.Compute(v.layer.Features(), attr)
	v.legendCtl.Update(legend.NewLayout(attr, v.snapshot))
}

// Forward advances the slider one year.
func (v *View) Forward() error {
	return v.Dispatch(controls.Event{Kind: controls.EventClick, Target: controls.ForwardID})
}

// Reverse moves the slider back one year.
func (v *View) Reverse() error {
	return v.Dispatch(controls.Event{Kind: controls.EventClick, Target: controls.ReverseID})
}

// SetYearIndex selects a year directly; out-of-range indexes return a
// controls.RangeError and leave the view unchanged.
func (v *View) SetYearIndex(i int) error {
	return v.seq.SetIndex(i)
}

// SelectDivision applies a division filter as if its menu entry were clicked.
func (v *View) SelectDivision(code string) error {
	if err := v.filter.Select(code); err != nil {
		return err
	}
	v.filterCtl.Sync()
	return nil
}

// Layer returns the symbol layer.
func (v *View) Layer() *symbol.Layer { return v.layer }

// YearIndex returns the selected year index.
func (v *View) YearIndex() int { return v.seq.Index() }

// Attribute returns the selected year attribute.
func (v *View) Attribute() dataset.YearAttribute { return v.ds.Years()[v.seq.Index()] }

// Division returns the active filter selector.
func (v *View) Division() string { return v.filter.Selector() }

// Legend returns the legend values for the visible markers.
func (v *View) Legend() legend.Snapshot { return v.snapshot }

// LegendLayout returns the drawn legend.
func (v *View) LegendLayout() legend.Layout { return v.legendCtl.Layout() }

// RenderErrors returns the per-feature problems from the last render.
func (v *View) RenderErrors() []*symbol.RenderError { return v.renderErr }

// MarkerFor returns the marker id for a team name.
func (v *View) MarkerFor(team string) (uuid.UUID, bool) {
	for _, m := range v.layer.Markers() {
		if m.Feature.Name == team {
			return m.ID, true
		}
	}
	return uuid.Nil, false
}
