package catalog

import (
	"regexp"
	"strings"
)

// Marker patterns as they appear on their own line in an entry. The opcode
// section is closed by "Operand" on some entries and "Operands" on others.
const (
	markerOperation   = `Operation`
	markerOpCode      = `Op\s+Code`
	markerOperands    = `Operands?`
	markerDescription = `Description`
	markerConditions  = `Condition\s+Bits\s+Affected`

	exampleMarker = "Example"
)

// Sections holds the named fields of one entry
type Sections struct {
	Keyword               string
	Operation             string
	Opcode                string
	Operands              string
	Description           string
	ConditionBitsAffected string
	// Example is nil when the entry has no example
	Example *string
}

type sectionBoundary struct {
	pattern *regexp.Regexp
	assign  func(s *Sections, value string)
}

// betweenMarkers captures the lines strictly between a start marker line
// and the nearest following line that holds only the end marker. The
// capture is empty when the end marker line follows directly.
func betweenMarkers(start, end string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + start + `[ \t]*\n(?:(.*?)\n)??[ \t]*` + end + `[ \t]*(?:\n|$)`)
}

// sectionBoundaries lists the closed sections in document order
var sectionBoundaries = []sectionBoundary{
	{betweenMarkers(markerOperation, markerOpCode), func(s *Sections, v string) { s.Operation = v }},
	{betweenMarkers(markerOpCode, markerOperands), func(s *Sections, v string) { s.Opcode = v }},
	{betweenMarkers(markerOperands, markerDescription), func(s *Sections, v string) { s.Operands = v }},
	{betweenMarkers(markerDescription, markerConditions), func(s *Sections, v string) { s.Description = v }},
}

var conditionsToEnd = regexp.MustCompile(`(?is)` + markerConditions + `[ \t]*\n(.*)$`)

// ExtractSections splits the concatenated text of one entry into its
// fields. A section whose markers are missing is left empty.
func ExtractSections(text string) Sections {
	s := Sections{Keyword: firstLine(text)}

	for _, b := range sectionBoundaries {
		b.assign(&s, capture(b.pattern, text))
	}

	if i := strings.Index(text, exampleMarker); i > 0 {
		example := strings.TrimSpace(text[i+len(exampleMarker):])
		s.Example = &example
		s.ConditionBitsAffected = capture(conditionsToEnd, text[:i])
	} else {
		s.ConditionBitsAffected = capture(conditionsToEnd, text)
	}

	return s
}

func capture(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
