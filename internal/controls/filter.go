package controls

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/attendance-map/internal/dataset"
)

// Filter is the selected division. Selecting always re-renders through the
// select callback, even when the selector is unchanged.
type Filter struct {
	selector  string
	divisions []string
	onSelect  func(selector string) error
}

// NewFilter creates a filter over divisions with AllDivisions selected.
func NewFilter(divisions []string, onSelect func(selector string) error) *Filter {
	if onSelect == nil {
		onSelect = func(string) error { return nil }
	}
	return &Filter{
		selector:  dataset.AllDivisions,
		divisions: divisions,
		onSelect:  onSelect,
	}
}

// Selector returns the active selector.
func (f *Filter) Selector() string { return f.selector }

// Divisions returns the selectable division codes in menu order.
func (f *Filter) Divisions() []string { return f.divisions }

// Select activates code. Unknown codes fall back to AllDivisions.
func (f *Filter) Select(code string) error {
	if code != dataset.AllDivisions && !slices.Contains(f.divisions, code) {
		zap.L().Warn("controls: unknown division, showing all", zap.String("division", code))
		code = dataset.AllDivisions
	}
	f.selector = code
	return f.onSelect(code)
}

// FilterControl is the division menu.
type FilterControl struct {
	filter *Filter
	links  []*Element
}

// NewFilterControl creates the UI for f.
func NewFilterControl(f *Filter) *FilterControl {
	return &FilterControl{filter: f}
}

// LinkID returns the menu element id for a selector.
func LinkID(selector string) string {
	return "filter-" + strings.ToLower(strings.ReplaceAll(selector, " ", "-"))
}

// Mount implements Control.
func (c *FilterControl) Mount(ct *Container) {
	ct.Class = "menu-ui"
	ct.Position = TopRight
	ct.Add(&Element{Kind: KindHeading, ID: "filter-heading", Label: "Filter by Division"})

	c.links = c.links[:0]
	c.links = append(c.links, ct.Add(&Element{
		Kind:  KindLink,
		ID:    LinkID(dataset.AllDivisions),
		Label: "Show all",
		Attrs: map[string]string{"data-filter": dataset.AllDivisions},
	}))
	for _, div := range c.filter.Divisions() {
		c.links = append(c.links, ct.Add(&Element{
			Kind:  KindLink,
			ID:    LinkID(div),
			Label: div,
			Attrs: map[string]string{"data-filter": div},
		}))
	}
	c.Sync()
}

// OnEvent implements Control.
func (c *FilterControl) OnEvent(t HandlerTable) {
	for _, link := range c.links {
		code := link.Attrs["data-filter"]
		t.On(EventClick, link.ID, func(Event) error {
			defer c.Sync()
			return c.filter.Select(code)
		})
	}
}

// Sync marks the selected entry active and every sibling inactive.
func (c *FilterControl) Sync() {
	for _, link := range c.links {
		link.Active = link.Attrs["data-filter"] == c.filter.Selector()
		if link.Active {
			link.Class = "active"
		} else {
			link.Class = ""
		}
	}
}
