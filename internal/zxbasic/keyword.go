package zxbasic

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Keyword is one reserved identifier of the ZX BASIC compiler
type Keyword struct {
	Keyword     string  `json:"keyword"`
	Description *string `json:"description"`
	Link        string  `json:"link"`
}

// MenuEntry is a keyword listed on the identifier index page
type MenuEntry struct {
	Keyword string
	Href    string
}

// Cache holds the keyword table of a previous run
type Cache struct {
	keywords []Keyword
	index    map[string]int
}

// LoadCache reads a keyword table written by an earlier run. A missing
// file yields an empty cache.
func LoadCache(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewCache(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword cache: %w", err)
	}

	var keywords []Keyword
	if err := json.Unmarshal(data, &keywords); err != nil {
		return nil, fmt.Errorf("failed to parse keyword cache %s: %w", path, err)
	}
	return NewCache(keywords), nil
}

// NewCache indexes keywords by name; the first occurrence wins
func NewCache(keywords []Keyword) *Cache {
	c := &Cache{index: make(map[string]int, len(keywords))}
	for _, k := range keywords {
		if _, ok := c.index[k.Keyword]; ok {
			continue
		}
		c.index[k.Keyword] = len(c.keywords)
		c.keywords = append(c.keywords, k)
	}
	return c
}

// Lookup returns the cached entry of a keyword
func (c *Cache) Lookup(keyword string) (Keyword, bool) {
	if c == nil {
		return Keyword{}, false
	}
	i, ok := c.index[keyword]
	if !ok {
		return Keyword{}, false
	}
	return c.keywords[i], true
}

// Len returns the number of cached keywords
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keywords)
}

// Keywords returns a copy of the cached table in its original order
func (c *Cache) Keywords() []Keyword {
	if c == nil {
		return nil
	}
	return append([]Keyword(nil), c.keywords...)
}
