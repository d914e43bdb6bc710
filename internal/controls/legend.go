package controls

import (
	"html"

	"github.com/sells-group/attendance-map/internal/legend"
)

// Element ids used by LegendControl.
const (
	TemporalLegendID  = "temporal-legend"
	AttributeLegendID = "attribute-legend"
)

// LegendControl is the bottom-right legend panel. It has no events.
type LegendControl struct {
	title  *Element
	svg    *Element
	layout legend.Layout
}

// NewLegendControl creates an empty legend panel.
func NewLegendControl() *LegendControl {
	return &LegendControl{}
}

// Mount implements Control.
func (c *LegendControl) Mount(ct *Container) {
	ct.Class = "legend-control-container"
	ct.Position = BottomRight
	c.title = ct.Add(&Element{Kind: KindPanel, ID: TemporalLegendID})
	c.svg = ct.Add(&Element{Kind: KindSVG, ID: AttributeLegendID})
	c.render()
}

// OnEvent implements Control.
func (c *LegendControl) OnEvent(HandlerTable) {}

// Update replaces the title and circles.
func (c *LegendControl) Update(l legend.Layout) {
	c.layout = l
	c.render()
}

// Layout returns the last layout drawn.
func (c *LegendControl) Layout() legend.Layout {
	return c.layout
}

func (c *LegendControl) render() {
	if c.title == nil {
		return
	}
	c.title.Label = c.layout.Title
	c.title.Markup = "<b>" + html.EscapeString(c.layout.Title) + "</b>"
	c.svg.Markup = c.layout.SVG()
}
