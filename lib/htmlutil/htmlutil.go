package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// GetText concatenates every text node under node, ignoring markup.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// CollapseSpace trims a scraped string and folds inner whitespace runs into
// single spaces.
func CollapseSpace(s string) string {
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripAccents removes combining diacritical marks, so "Razón" and "Razon"
// compare equal.
func StripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeLabel lowers, de-accents and collapses a label or cell text for
// comparison.
func NormalizeLabel(s string) string {
	return strings.ToLower(StripAccents(CollapseSpace(s)))
}

// LabelMatches reports whether text is essentially the given label: the
// normalized text must contain the label (a few extra characters are allowed
// for colons, icons and padding), or sit within typo distance of it.
func LabelMatches(text, label string) bool {
	n := NormalizeLabel(text)
	l := NormalizeLabel(label)
	if n == "" || l == "" || len(n) > len(l)+8 {
		return false
	}
	if strings.Contains(n, l) {
		return true
	}
	return matchr.JaroWinkler(n, l, false) >= 0.93
}

func valueOk(v string) bool {
	return v != "" && len(v) <= 150
}

// LabeledValue finds the value cell adjacent to a label on a rendered page.
// Two strategies, in order: a table cell that is purely the label followed by
// the next cell in its row, then a leaf element (span, b, strong, ...) that
// is purely the label followed by its next sibling or its parent's next
// sibling. An empty string means the label was not found, which callers do
// not treat as an error.
func LabeledValue(doc *goquery.Document, labels ...string) string {
	matches := func(text string) bool {
		for _, l := range labels {
			if LabelMatches(text, l) {
				return true
			}
		}
		return false
	}

	value := ""
	doc.Find("td, th").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if !matches(cell.Text()) {
			return true
		}

		row := cell.Closest("tr")
		if row.Length() > 0 {
			found := false
			row.Find("td, th").EachWithBreak(func(_ int, c *goquery.Selection) bool {
				if found {
					if v := CollapseSpace(c.Text()); valueOk(v) {
						value = v
						return false
					}
					return true
				}
				if c.Nodes[0] == cell.Nodes[0] {
					found = true
				}
				return true
			})
			if value != "" {
				return false
			}
		}

		next := cell.Next()
		if goquery.NodeName(next) == "td" || goquery.NodeName(next) == "th" {
			if v := CollapseSpace(next.Text()); valueOk(v) {
				value = v
				return false
			}
		}
		return true
	})
	if value != "" {
		return value
	}

	doc.Find("span, b, strong, em, label, font").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if el.Children().Length() > 0 || !matches(el.Text()) {
			return true
		}

		if v := CollapseSpace(el.Next().Text()); valueOk(v) {
			value = v
			return false
		}
		if v := CollapseSpace(el.Parent().Next().Text()); valueOk(v) {
			value = v
			return false
		}
		return true
	})
	return value
}
