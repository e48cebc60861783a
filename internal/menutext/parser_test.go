package menutext

import (
	"testing"

	"menu-digitizer/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(c model.MenuCategory) []string {
	out := make([]string, len(c.Items))
	for i, item := range c.Items {
		out[i] = item.Name
	}
	return out
}

func TestParse_PreservesOrder(t *testing.T) {
	raw := "Starters\n" +
		"Soup - $4.50\n" +
		"Salad - $6\n" +
		"Mains\n" +
		"Burger - $12.99\n" +
		"Pasta – 11.00\n" +
		"Steak - 24\n" +
		"Desserts\n" +
		"Pie - $5\n"

	got := Parse(raw)

	require.Len(t, got.Categories, 3)
	assert.Equal(t, "Starters", got.Categories[0].Category)
	assert.Equal(t, "Mains", got.Categories[1].Category)
	assert.Equal(t, "Desserts", got.Categories[2].Category)

	assert.Equal(t, []string{"Soup", "Salad"}, names(got.Categories[0]))
	assert.Equal(t, []string{"Burger", "Pasta", "Steak"}, names(got.Categories[1]))
	assert.Equal(t, []string{"Pie"}, names(got.Categories[2]))

	require.NotNil(t, got.Categories[1].Items[0].Price)
	assert.InDelta(t, 12.99, *got.Categories[1].Items[0].Price, 0.0001)
}

func TestParse_DefaultsAndRawText(t *testing.T) {
	raw := "Drinks\r\nCoffee - $3.00\r\n"

	got := Parse(raw)

	require.NotNil(t, got.Currency)
	assert.Equal(t, "USD", *got.Currency)
	assert.Equal(t, raw, got.RawText)

	require.Len(t, got.Categories, 1)
	item := got.Categories[0].Items[0]
	assert.Equal(t, "Coffee", item.Name)
	assert.Nil(t, item.Description)
	assert.Nil(t, item.Image)
	assert.NotNil(t, item.Addons)
	assert.Empty(t, item.Addons)
}

func TestParse_DropsEmptyCategories(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "heading followed by heading",
			raw:      "Specials\nMains\nBurger - $10\n",
			expected: []string{"Mains"},
		},
		{
			name:     "trailing heading without items",
			raw:      "Mains\nBurger - $10\nDesserts\n",
			expected: []string{"Mains"},
		},
		{
			name:     "only headings",
			raw:      "Breakfast\nLunch\nDinner",
			expected: []string{},
		},
		{
			name:     "empty input",
			raw:      "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)

			gotNames := make([]string, len(got.Categories))
			for i, c := range got.Categories {
				gotNames[i] = c.Category
			}
			assert.Equal(t, tt.expected, gotNames)
			assert.NotNil(t, got.Categories)
		})
	}
}

func TestParse_ItemLines(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantName  string
		wantPrice float64
		wantDrop  bool
	}{
		{name: "plain hyphen", line: "Burger - 9.50", wantName: "Burger", wantPrice: 9.5},
		{name: "en dash", line: "Burger – $9.50", wantName: "Burger", wantPrice: 9.5},
		{name: "bullet", line: "• Fries - $3", wantName: "Fries", wantPrice: 3},
		{name: "dash bullet", line: "- Fries - $3", wantName: "Fries", wantPrice: 3},
		{name: "emphasis", line: "**Club Sandwich** - $8.25", wantName: "Club Sandwich", wantPrice: 8.25},
		{name: "euro", line: "Crepe - €7", wantName: "Crepe", wantPrice: 7},
		{name: "zero price", line: "Water - $0", wantName: "Water", wantPrice: 0},
		{name: "extra decimals", line: "Tea - $2.499", wantName: "Tea", wantPrice: 2.49},
		{name: "non numeric price", line: "Burger - $abc", wantDrop: true},
		{name: "missing separator", line: "Burger $9.50", wantDrop: true},
		{name: "blank name", line: "** - $4", wantDrop: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse("Menu\n" + tt.line + "\n")

			if tt.wantDrop {
				assert.Empty(t, got.Categories)
				return
			}

			require.Len(t, got.Categories, 1)
			require.Len(t, got.Categories[0].Items, 1)
			item := got.Categories[0].Items[0]
			assert.Equal(t, tt.wantName, item.Name)
			require.NotNil(t, item.Price)
			assert.InDelta(t, tt.wantPrice, *item.Price, 0.0001)
		})
	}
}

func TestParse_Headings(t *testing.T) {
	tests := []struct {
		name     string
		heading  string
		expected string
		isHead   bool
	}{
		{name: "plain", heading: "Main Courses", expected: "Main Courses", isHead: true},
		{name: "ampersand", heading: "Soups & Salads", expected: "Soups & Salads", isHead: true},
		{name: "bold", heading: "**Desserts**", expected: "Desserts", isHead: true},
		{name: "italic", heading: "_Drinks_", isHead: false},
		{name: "accented", heading: "Crêpes", isHead: false},
		{name: "hyphen", heading: "Chef-Specials", isHead: false},
		{name: "currency", heading: "Drinks $", isHead: false},
		{name: "digits", heading: "Combo 1", isHead: false},
		{name: "colon", heading: "Drinks:", isHead: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.heading + "\nTea - $2\n")

			if !tt.isHead {
				assert.Empty(t, got.Categories)
				return
			}
			require.Len(t, got.Categories, 1)
			assert.Equal(t, tt.expected, got.Categories[0].Category)
		})
	}
}

func TestParse_IgnoresItemsWithoutCategory(t *testing.T) {
	raw := "Burger - $10\nWelcome to our restaurant!\nMains\nSteak - $20\n"

	got := Parse(raw)

	require.Len(t, got.Categories, 1)
	assert.Equal(t, []string{"Steak"}, names(got.Categories[0]))
}

func TestExtractJSONCandidate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{name: "bare object", input: `{"a":1}`, expected: `{"a":1}`, found: true},
		{name: "surrounding prose", input: "Here you go:\n{\"a\":{\"b\":2}}\nThanks!", expected: `{"a":{"b":2}}`, found: true},
		{name: "greedy to last brace", input: `x {1} y {2} z`, expected: `{1} y {2}`, found: true},
		{name: "no braces", input: "no json here", found: false},
		{name: "only opening", input: "{ incomplete", found: false},
		{name: "reversed", input: "} before {", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONCandidate(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
