package refine

import (
	"fmt"
	"strconv"
	"strings"

	"menu-digitizer/internal/model"
)

const itemIDPrefix = "item-"

// ItemID returns the per-render drag identifier of item (c, i).
// It is derived from the item's current position and is only meaningful
// against the state it was rendered from.
func ItemID(c, i int) string {
	return fmt.Sprintf("%s%d-%d", itemIDPrefix, c, i)
}

// ParseItemID converts a drag identifier back into a position.
func ParseItemID(id string) (model.ItemRef, error) {
	rest, ok := strings.CutPrefix(id, itemIDPrefix)
	if !ok {
		return model.ItemRef{}, model.ErrInvalidDragID
	}
	cs, is, ok := strings.Cut(rest, "-")
	if !ok {
		return model.ItemRef{}, model.ErrInvalidDragID
	}
	c, err := strconv.Atoi(cs)
	if err != nil || c < 0 {
		return model.ItemRef{}, model.ErrInvalidDragID
	}
	i, err := strconv.Atoi(is)
	if err != nil || i < 0 {
		return model.ItemRef{}, model.ErrInvalidDragID
	}
	return model.ItemRef{CategoryIndex: c, ItemIndex: i}, nil
}

// ItemIDs lists the drag identifiers of every item in category order.
func ItemIDs(data model.ExtractedMenuData) [][]string {
	out := make([][]string, len(data.Categories))
	for c, cat := range data.Categories {
		ids := make([]string, len(cat.Items))
		for i := range cat.Items {
			ids[i] = ItemID(c, i)
		}
		out[c] = ids
	}
	return out
}

// Drag is an in-progress drag gesture.
type Drag struct {
	Origin   model.ItemRef
	Item     model.MenuItem
	Revision uint64
}

// Overlay returns the detached copy of the dragged item used for display
// while the gesture is in progress.
func (d *Drag) Overlay() model.MenuItem {
	return d.Item.Clone()
}
