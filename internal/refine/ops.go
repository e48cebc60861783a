// Package refine holds the editable menu state of a digitisation session
// and the operations that change it.
//
// Every operation is copy-on-write: it takes the current menu by value and
// returns a new one without modifying anything reachable from its input.
// Indices are assumed to be valid for the input; callers that accept
// indices from outside check them first (see Store).
package refine

import "menu-digitizer/internal/model"

const (
	newCategoryName = "New Category"
	newItemName     = "New Item"
)

// Item fields that UpdateItem can change.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldImage       = "image"
)

// RenameCategory sets the name of category c.
func RenameCategory(data model.ExtractedMenuData, c int, name string) model.ExtractedMenuData {
	out := data.Clone()
	out.Categories[c].Category = name
	return out
}

// DeleteCategory removes category c; later categories shift down by one.
func DeleteCategory(data model.ExtractedMenuData, c int) model.ExtractedMenuData {
	out := data.Clone()
	out.Categories = append(out.Categories[:c], out.Categories[c+1:]...)
	return out
}

// AddCategory appends an empty placeholder category.
func AddCategory(data model.ExtractedMenuData) model.ExtractedMenuData {
	out := data.Clone()
	out.Categories = append(out.Categories, model.MenuCategory{
		Category: newCategoryName,
		Items:    []model.MenuItem{},
	})
	return out
}

// UpdateItem sets one field of item (c, i). value must already have the
// field's type: string for name, *string for description and image,
// *float64 for price.
func UpdateItem(data model.ExtractedMenuData, c, i int, field string, value any) (model.ExtractedMenuData, error) {
	out := data.Clone()
	item := &out.Categories[c].Items[i]

	switch field {
	case FieldName:
		v, ok := value.(string)
		if !ok {
			return data, model.ErrInvalidField
		}
		item.Name = v
	case FieldDescription:
		v, ok := value.(*string)
		if !ok {
			return data, model.ErrInvalidField
		}
		item.Description = v
	case FieldPrice:
		v, ok := value.(*float64)
		if !ok {
			return data, model.ErrInvalidField
		}
		item.Price = v
	case FieldImage:
		v, ok := value.(*string)
		if !ok {
			return data, model.ErrInvalidField
		}
		item.Image = v
	default:
		return data, model.ErrInvalidField
	}

	return out, nil
}

// DeleteItem removes item (c, i); later items in c shift down by one.
func DeleteItem(data model.ExtractedMenuData, c, i int) model.ExtractedMenuData {
	out := data.Clone()
	items := out.Categories[c].Items
	out.Categories[c].Items = append(items[:i], items[i+1:]...)
	return out
}

// AddItem appends a placeholder item priced at zero to category c.
func AddItem(data model.ExtractedMenuData, c int) model.ExtractedMenuData {
	out := data.Clone()
	out.Categories[c].Items = append(out.Categories[c].Items, model.MenuItem{
		Name:        newItemName,
		Description: nil,
		Price:       model.Float(0),
		Addons:      []model.MenuAddon{},
	})
	return out
}

// SetItemImage attaches an image data URI to item (c, i).
func SetItemImage(data model.ExtractedMenuData, c, i int, image string) model.ExtractedMenuData {
	out := data.Clone()
	out.Categories[c].Items[i].Image = model.String(image)
	return out
}

// MoveItem removes the item at from and inserts moved at to.
// Moving onto the same position is a no-op. No adjustment is made for
// moves further down the same category: the removal has already shifted
// the later indices when the insertion happens.
func MoveItem(data model.ExtractedMenuData, from, to model.ItemRef, moved model.MenuItem) model.ExtractedMenuData {
	out := data.Clone()
	if from == to {
		return out
	}

	src := out.Categories[from.CategoryIndex].Items
	out.Categories[from.CategoryIndex].Items = append(src[:from.ItemIndex], src[from.ItemIndex+1:]...)

	dst := out.Categories[to.CategoryIndex].Items
	at := min(to.ItemIndex, len(dst))
	dst = append(dst, model.MenuItem{})
	copy(dst[at+1:], dst[at:])
	dst[at] = moved.Clone()
	out.Categories[to.CategoryIndex].Items = dst

	return out
}
