// Package menutext recovers structured menu data from free-text model output.
package menutext

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"menu-digitizer/internal/model"
)

var (
	// headingPattern matches lines made only of ASCII letters, spaces and
	// ampersands, optionally wrapped in bold markers.
	headingPattern = regexp.MustCompile(`^\*{0,2}([A-Za-z\s&]+)\*{0,2}$`)

	// itemPattern matches "name - $12.99" style lines with an optional
	// leading bullet or emphasis marker.
	itemPattern = regexp.MustCompile(`^[-•*]*\s*\**(.+?)\**\s*[-–]\s*[$€£₹]?\s*(\d+(?:\.\d{1,2})?)`)

	jsonCandidate = regexp.MustCompile(`(?s)\{.*\}`)
)

const headingForbidden = "$€£₹-"

// Parse converts raw model text into menu data line by line.
// It never fails: unrecognised lines are dropped and categories
// without items are omitted.
func Parse(raw string) model.ExtractedMenuData {
	categories := []model.MenuCategory{}
	var current *model.MenuCategory

	flush := func() {
		if current != nil && len(current.Items) > 0 {
			categories = append(categories, *current)
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if name, ok := matchHeading(line); ok {
			flush()
			current = &model.MenuCategory{Category: name, Items: []model.MenuItem{}}
			continue
		}

		m := itemPattern.FindStringSubmatch(line)
		if m == nil || current == nil {
			continue
		}

		name := strings.TrimSpace(strings.ReplaceAll(m[1], "*", ""))
		price, err := strconv.ParseFloat(m[2], 64)
		if name == "" || err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			continue
		}

		current.Items = append(current.Items, model.MenuItem{
			Name:        name,
			Description: nil,
			Price:       model.Float(price),
			Addons:      []model.MenuAddon{},
		})
	}
	flush()

	return model.ExtractedMenuData{
		Categories: categories,
		Currency:   model.String(model.DefaultCurrency),
		RawText:    raw,
	}
}

func matchHeading(line string) (string, bool) {
	if strings.ContainsAny(line, headingForbidden) {
		return "", false
	}
	m := headingPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", false
	}
	return name, true
}

// ExtractJSONCandidate returns the text between the first '{' and the
// last '}' in s. The result is not guaranteed to be valid JSON.
func ExtractJSONCandidate(s string) (string, bool) {
	m := jsonCandidate.FindString(s)
	if m == "" {
		return "", false
	}
	return m, true
}
