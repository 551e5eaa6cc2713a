package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Stripper removes the running header and footer from page text
type Stripper struct {
	header *regexp.Regexp
	footer *regexp.Regexp
}

// NewStripper builds a stripper from a header prefix pattern, which is
// followed in the text by the logical page number and a line break, and a
// footer pattern removed wherever it occurs.
func NewStripper(headerPrefix string, footer *regexp.Regexp) (*Stripper, error) {
	header, err := regexp.Compile(headerPrefix + `(\d+)\n`)
	if err != nil {
		return nil, fmt.Errorf("invalid header prefix: %w", err)
	}
	if footer == nil {
		return nil, fmt.Errorf("footer pattern cannot be nil")
	}
	return &Stripper{header: header, footer: footer}, nil
}

// Strip removes one header carrying logicalPage and every footer.
// Pages without a header or footer are returned unchanged apart from
// line ending normalization.
func (s *Stripper) Strip(text string, logicalPage int) string {
	text = normalizeNewlines(text)
	text = s.removeHeader(text, logicalPage)
	return s.footer.ReplaceAllString(text, "")
}

func (s *Stripper) removeHeader(text string, logicalPage int) string {
	want := strconv.Itoa(logicalPage)
	for _, loc := range s.header.FindAllStringSubmatchIndex(text, -1) {
		if text[loc[2]:loc[3]] != want {
			continue
		}
		return text[:loc[0]] + text[loc[1]:]
	}
	return text
}

func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
