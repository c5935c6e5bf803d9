package widgets

import "github.com/go-drift/compose/pkg/toolkit"

// Gap is a spacer entry in a Box.
type Gap struct {
	Stretch int
	Min     int
	// Max of zero means unbounded.
	Max int
}

// BoxItem is one entry of a Box: either a child or a gap.
type BoxItem struct {
	Child toolkit.Component
	Gap   *Gap
}

// Box lays children out along one axis.
type Box struct {
	dir   toolkit.Direction
	items []BoxItem
}

// NewVBox creates a vertical box.
func NewVBox() *Box { return &Box{dir: toolkit.Vertical} }

// NewHBox creates a horizontal box.
func NewHBox() *Box { return &Box{dir: toolkit.Horizontal} }

// Direction returns the layout axis.
func (b *Box) Direction() toolkit.Direction { return b.dir }

// AddChild implements toolkit.BoxLayout.
func (b *Box) AddChild(c toolkit.Component) {
	b.items = append(b.items, BoxItem{Child: c})
}

// AddSpacer implements toolkit.BoxLayout.
func (b *Box) AddSpacer(stretch, min, max int) {
	b.items = append(b.items, BoxItem{Gap: &Gap{Stretch: stretch, Min: min, Max: max}})
}

// Items returns children and gaps in order.
func (b *Box) Items() []BoxItem { return b.items }

// Children implements toolkit.Layout.
func (b *Box) Children() []toolkit.Component {
	var out []toolkit.Component
	for _, it := range b.items {
		if it.Child != nil {
			out = append(out, it.Child)
		}
	}
	return out
}
