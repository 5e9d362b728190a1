// internal/services/reporting/render-pdf/payload.go
package renderpdf

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const notAvailable = "N/A"

// reportDocument is the export payload reduced to what gets drawn.
type reportDocument struct {
	Catalyst        string
	OverallScore    string
	OverallTier     string
	HasDetails      bool
	Details         []string
	Recommendations []string
}

// parsePayload reads the loose export payload. Missing summary fields
// render as N/A; recommendations may be a markdown string or a list.
func parsePayload(payload []byte) reportDocument {
	root := gjson.ParseBytes(payload)
	doc := reportDocument{
		Catalyst:     scalarText(root.Get("catalyst")),
		OverallScore: scalarText(root.Get("overall_score")),
		OverallTier:  scalarText(root.Get("overall_tier")),
	}

	if details := root.Get("category_details"); details.IsObject() {
		doc.HasDetails = true
		doc.Details = detailLines(details, root.Get("priority_categories"))
	}

	recs := root.Get("recommendations")
	switch {
	case recs.IsArray():
		for i, item := range recs.Array() {
			if i > 0 {
				doc.Recommendations = append(doc.Recommendations, "")
			}
			doc.Recommendations = append(doc.Recommendations, recommendationItem(item)...)
		}
	case recs.Type == gjson.String:
		doc.Recommendations = splitLines(recs.String())
	}
	return doc
}

// scalarText prints numbers as sent and strings verbatim.
func scalarText(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return notAvailable
	case gjson.Number:
		return r.Raw
	case gjson.String, gjson.True, gjson.False:
		return r.String()
	default:
		return r.Raw
	}
}

// detailLines lists categories in priority order when given, then any
// remaining categories in payload order.
func detailLines(details, priority gjson.Result) []string {
	var order []string
	seen := map[string]bool{}
	for _, name := range priority.Array() {
		n := name.String()
		if details.Get(gjson.Escape(n)).Exists() && !seen[n] {
			order = append(order, n)
			seen[n] = true
		}
	}
	details.ForEach(func(key, _ gjson.Result) bool {
		if n := key.String(); !seen[n] {
			order = append(order, n)
			seen[n] = true
		}
		return true
	})

	lines := make([]string, 0, len(order))
	for _, name := range order {
		d := details.Get(gjson.Escape(name))
		line := fmt.Sprintf("**%s:** %s/100 (%s)", name, scalarText(d.Get("score")), scalarText(d.Get("tier")))
		if total := d.Get("total_questions"); total.Exists() {
			line += fmt.Sprintf(", %s of %s questions answered", scalarText(d.Get("questions_answered")), scalarText(total))
		}
		lines = append(lines, line)
	}
	return lines
}

func recommendationItem(item gjson.Result) []string {
	if !item.IsObject() {
		return splitLines(item.String())
	}
	var lines []string
	if category := item.Get("category"); category.Exists() {
		heading := "### " + category.String()
		if tier := item.Get("tier"); tier.Exists() {
			heading += " (" + tier.String() + ")"
		}
		lines = append(lines, heading)
	}
	return append(lines, splitLines(item.Get("text").String())...)
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}
