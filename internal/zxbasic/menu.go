package zxbasic

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseMenu extracts the keyword list of the identifier index page. Only
// bare <li> items whose first link carries nothing but an href count as
// menu entries, which leaves out site navigation. Duplicates keep their
// first position.
func ParseMenu(r io.Reader) ([]MenuEntry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	seen := make(map[string]bool)
	entries := make([]MenuEntry, 0)
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		if len(li.Nodes[0].Attr) != 0 {
			return
		}
		a := li.Find("a").First()
		if a.Length() == 0 || len(a.Nodes[0].Attr) != 1 {
			return
		}
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		keyword := strings.TrimSpace(a.Text())
		if keyword == "" || seen[keyword] {
			return
		}
		seen[keyword] = true
		entries = append(entries, MenuEntry{Keyword: keyword, Href: href})
	})
	return entries, nil
}

// Excluded operators are documented in a different page format
var (
	BitwiseOperators = []string{"bAND", "bNOT", "bOR", "bXOR"}
	LogicalOperators = []string{"AND", "NOT", "OR", "XOR"}
)

// FilterOperators drops the bitwise and logical operators
func FilterOperators(entries []MenuEntry) []MenuEntry {
	excluded := make(map[string]bool, len(BitwiseOperators)+len(LogicalOperators))
	for _, op := range BitwiseOperators {
		excluded[op] = true
	}
	for _, op := range LogicalOperators {
		excluded[op] = true
	}

	out := make([]MenuEntry, 0, len(entries))
	for _, e := range entries {
		if !excluded[e.Keyword] {
			out = append(out, e)
		}
	}
	return out
}
