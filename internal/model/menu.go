package model

import "encoding/json"

// DefaultCurrency is assumed when the currency cannot be read from the menu.
const DefaultCurrency = "USD"

// MenuAddon is an optional extra attached to a menu item.
type MenuAddon struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// MenuItem is a single dish or drink within a category.
// A nil Price means the price is unknown, which is distinct from zero.
type MenuItem struct {
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Price       *float64    `json:"price"`
	Addons      []MenuAddon `json:"addons"`
	Image       *string     `json:"image,omitempty"`
}

// MenuCategory is a named, ordered group of menu items.
type MenuCategory struct {
	Category string     `json:"category"`
	Items    []MenuItem `json:"items"`
}

// ExtractedMenuData is the root of a digitised menu.
type ExtractedMenuData struct {
	Categories []MenuCategory `json:"categories"`
	Currency   *string        `json:"currency"`
	RawText    string         `json:"rawText"`
}

// ExtractionMetadata describes the uploaded image an extraction ran on.
type ExtractionMetadata struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	MimeType string `json:"mimeType"`
}

// ExtractionResponse is the envelope returned by a successful extraction.
type ExtractionResponse struct {
	Success  bool               `json:"success"`
	Data     ExtractedMenuData  `json:"data"`
	Metadata ExtractionMetadata `json:"metadata"`
}

// ImageRequest is the payload for generating a menu item image.
type ImageRequest struct {
	ItemName         string  `json:"itemName"`
	AdditionalPrompt *string `json:"additionalPrompt,omitempty"`
}

// ImageResponse carries a generated image as a data URI.
type ImageResponse struct {
	Success bool   `json:"success"`
	Image   string `json:"image"`
	Prompt  string `json:"prompt"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to v.
func String(v string) *string {
	return &v
}

// Clone returns a deep copy of the item.
func (i MenuItem) Clone() MenuItem {
	out := MenuItem{
		Name:        i.Name,
		Description: clonePtr(i.Description),
		Price:       clonePtr(i.Price),
		Image:       clonePtr(i.Image),
		Addons:      make([]MenuAddon, len(i.Addons)),
	}
	for k, a := range i.Addons {
		out.Addons[k] = MenuAddon{Name: a.Name, Price: clonePtr(a.Price)}
	}
	return out
}

// Clone returns a deep copy of the category.
func (c MenuCategory) Clone() MenuCategory {
	out := MenuCategory{
		Category: c.Category,
		Items:    make([]MenuItem, len(c.Items)),
	}
	for k, item := range c.Items {
		out.Items[k] = item.Clone()
	}
	return out
}

// Clone returns a deep copy of the menu data.
func (d ExtractedMenuData) Clone() ExtractedMenuData {
	out := ExtractedMenuData{
		Currency:   clonePtr(d.Currency),
		RawText:    d.RawText,
		Categories: make([]MenuCategory, len(d.Categories)),
	}
	for k, c := range d.Categories {
		out.Categories[k] = c.Clone()
	}
	return out
}

// Normalize replaces nil item and addon slices with empty ones so the
// document always serialises arrays rather than null.
func (d *ExtractedMenuData) Normalize() {
	if d.Categories == nil {
		d.Categories = []MenuCategory{}
	}
	for ci := range d.Categories {
		if d.Categories[ci].Items == nil {
			d.Categories[ci].Items = []MenuItem{}
		}
		for ii := range d.Categories[ci].Items {
			if d.Categories[ci].Items[ii].Addons == nil {
				d.Categories[ci].Items[ii].Addons = []MenuAddon{}
			}
		}
	}
}

// ItemCount returns the number of items across all categories.
func (d ExtractedMenuData) ItemCount() int {
	n := 0
	for _, c := range d.Categories {
		n += len(c.Items)
	}
	return n
}

// MarshalIndent renders the menu as indented JSON for export.
func (d ExtractedMenuData) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
