// Package insights groups journal text into reflective keyword clusters.
package insights

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is a keyword-triggered bucket with a coaching tip.
type Category struct {
	Name     string
	Triggers []string
	Tip      string
}

// Categories are tested in this order; the first match wins.
var Categories = []Category{
	{
		Name:     "Rumination",
		Triggers: []string{"stuck", "why"},
		Tip:      "Challenge: Is this thought a fact, or just a feeling?",
	},
	{
		Name:     "Progress",
		Triggers: []string{"win", "better"},
		Tip:      "Great! What helped create this shift?",
	},
	{
		Name:     "Overwhelm",
		Triggers: []string{"overwhelm", "scattered"},
		Tip:      "Break one overwhelming thing into a tiny step.",
	},
}

// Cluster is one non-empty category with the texts assigned to it.
type Cluster struct {
	Name  string   `json:"name" yaml:"name"`
	Tip   string   `json:"tip" yaml:"tip"`
	Texts []string `json:"texts" yaml:"texts"`
}

// Classify assigns each text to the first category whose trigger it contains.
// Unmatched texts are dropped and empty categories are omitted, so the result
// is in category order and may be empty.
func Classify(texts []string) []Cluster {
	lower := cases.Lower(language.Und)
	buckets := make([][]string, len(Categories))
	for _, t := range texts {
		low := lower.String(t)
		if i := match(low); i >= 0 {
			buckets[i] = append(buckets[i], t)
		}
	}

	var out []Cluster
	for i, c := range Categories {
		if len(buckets[i]) == 0 {
			continue
		}
		out = append(out, Cluster{Name: c.Name, Tip: c.Tip, Texts: buckets[i]})
	}
	return out
}

func match(low string) int {
	for i, c := range Categories {
		for _, trig := range c.Triggers {
			if strings.Contains(low, trig) {
				return i
			}
		}
	}
	return -1
}

// Tip returns the tip of the named category, or "" if there is none.
func Tip(name string) string {
	for _, c := range Categories {
		if c.Name == name {
			return c.Tip
		}
	}
	return ""
}

// Preview cuts text to at most n runes and marks the cut with an ellipsis.
func Preview(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	r := []rune(text)
	return string(r[:n]) + "…"
}
