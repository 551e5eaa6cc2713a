package catalog

import (
	"strconv"
	"strings"
)

// Record is one documented instruction of the manual
type Record struct {
	GroupName             string  `json:"groupName"`
	Keyword               string  `json:"keyword"`
	Operation             string  `json:"operation"`
	Opcode                string  `json:"opcode"`
	Operands              string  `json:"operands"`
	Description           string  `json:"description"`
	ConditionBitsAffected string  `json:"conditionBitsAffected"`
	Example               *string `json:"example,omitempty"`
	Link                  string  `json:"link"`
}

// Group is the set of records introduced by one index page
type Group struct {
	Name       string     `json:"name"`
	AnchorPage int        `json:"anchorPage"`
	Spans      []PageSpan `json:"spans"`
	Records    []Record   `json:"records"`
}

// BuildRecord assembles a record and derives its deep link into the manual
func (m *Manual) BuildRecord(groupLabel string, span PageSpan, s Sections) Record {
	return Record{
		GroupName:             strings.TrimSpace(groupLabel),
		Keyword:               s.Keyword,
		Operation:             s.Operation,
		Opcode:                s.Opcode,
		Operands:              s.Operands,
		Description:           s.Description,
		ConditionBitsAffected: s.ConditionBitsAffected,
		Example:               s.Example,
		Link:                  m.Link(span.StartPage),
	}
}

// Link returns the URL opening the manual at a logical page
func (m *Manual) Link(logicalPage int) string {
	return m.BaseURL + "#page=" + strconv.Itoa(m.PhysicalPage(logicalPage))
}

// Flatten concatenates the records of all groups in order
func Flatten(groups []Group) []Record {
	n := 0
	for _, g := range groups {
		n += len(g.Records)
	}
	records := make([]Record, 0, n)
	for _, g := range groups {
		records = append(records, g.Records...)
	}
	return records
}
