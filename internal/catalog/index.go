package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// indexSpace also accepts Unicode spaces such as U+00A0, which the text
// layer of the manual sometimes carries around the separator.
const indexSpace = `[\s\p{Zs}]`

// indexEntryPattern matches index lines such as
// "LD r, r' – see page 71". The en dash is the separator the manual uses.
var indexEntryPattern = regexp.MustCompile(
	`^(?:.[^–]*)` + indexSpace + `–` + indexSpace + `see` + indexSpace + `page` + indexSpace + `(\d+)$`)

// GroupIndex is the content of one group index page
type GroupIndex struct {
	Label    string
	Pointers []int
}

// ParseGroupIndex reads the group label and its forward page pointers from
// the stripped text of an index page. Pointers keep the order of the page;
// lines that are not index entries are ignored.
func ParseGroupIndex(stripped string) GroupIndex {
	lines := strings.Split(stripped, "\n")

	idx := GroupIndex{
		Label:    strings.TrimSpace(lines[0]),
		Pointers: []int{},
	}

	for _, line := range lines[1:] {
		m := indexEntryPattern.FindStringSubmatch(strings.TrimRight(line, " \t\r"))
		if m == nil {
			continue
		}
		page, err := strconv.Atoi(m[1])
		if err != nil {
			// digit run too long for int; not an entry of this manual
			continue
		}
		idx.Pointers = append(idx.Pointers, page)
	}

	return idx
}
