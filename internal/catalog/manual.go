package catalog

import (
	"fmt"
	"regexp"
)

const (
	// DefaultPhysicalOffset bridges logical page numbers and physical PDF
	// pages: the front matter of UM008011-0816 occupies 14 pages.
	DefaultPhysicalOffset = 14

	// DefaultBaseURL is where the manual is published
	DefaultBaseURL = "https://www.zilog.com/docs/z80/um0080.pdf"

	// DefaultHeaderPrefix precedes the logical page number on every
	// content page.
	DefaultHeaderPrefix = `Z80\sCPU\nUser\sManual\n`

	// DefaultFooterPattern matches both footer variants (odd and even pages).
	DefaultFooterPattern = `(UM008011-0816 Z80 Instruction Description)|(Z80 Instruction Set UM008011-0816)`
)

// GroupAnchor locates one index page and the page count of the group's
// final entry, which has no following pointer to subtract from.
type GroupAnchor struct {
	AnchorPage     int `json:"anchorPage" mapstructure:"anchor_page"`
	TrailingExtent int `json:"trailingExtent" mapstructure:"trailing_extent"`
}

// DefaultAnchors is the surveyed table of instruction group index pages
// in UM008011-0816, in document order.
var DefaultAnchors = []GroupAnchor{
	{AnchorPage: 70, TrailingExtent: 2},  // 8-Bit Load Group
	{AnchorPage: 98, TrailingExtent: 2},  // 16-Bit Load Group
	{AnchorPage: 123, TrailingExtent: 2}, // Exchange, Block Transfer, and Search Group
	{AnchorPage: 144, TrailingExtent: 2}, // 8-Bit Arithmetic Group
	{AnchorPage: 172, TrailingExtent: 1}, // General-Purpose Arithmetic and CPU Control Groups
	{AnchorPage: 187, TrailingExtent: 2}, // 16-Bit Arithmetic Group
	{AnchorPage: 204, TrailingExtent: 2}, // Rotate and Shift Group
	{AnchorPage: 242, TrailingExtent: 2}, // Bit Set, Reset, and Test Group
	{AnchorPage: 261, TrailingExtent: 2}, // Jump Group
	{AnchorPage: 280, TrailingExtent: 2}, // Call and Return Group
	{AnchorPage: 294, TrailingExtent: 3}, // Input and Output Group
}

// Manual carries the pre-surveyed layout knowledge of one document.
// Build it with NewManual; a Manual is not modified afterwards.
type Manual struct {
	BaseURL        string
	PhysicalOffset int
	Anchors        []GroupAnchor
	Stripper       *Stripper
}

// DefaultManual returns the profile for the Z80 CPU User Manual
func DefaultManual() *Manual {
	m, err := NewManual(DefaultBaseURL, DefaultPhysicalOffset, DefaultAnchors)
	if err != nil {
		panic(err)
	}
	return m
}

// NewManual validates the anchor table and builds the default stripper
func NewManual(baseURL string, physicalOffset int, anchors []GroupAnchor) (*Manual, error) {
	if physicalOffset < 0 {
		return nil, fmt.Errorf("physical offset must not be negative, got %d", physicalOffset)
	}
	for i, a := range anchors {
		if a.AnchorPage < 1 {
			return nil, fmt.Errorf("anchor %d: page must be positive, got %d", i, a.AnchorPage)
		}
		if a.TrailingExtent < 1 {
			return nil, fmt.Errorf("anchor %d (page %d): trailing extent must be at least 1, got %d",
				i, a.AnchorPage, a.TrailingExtent)
		}
	}

	stripper, err := NewStripper(DefaultHeaderPrefix, regexp.MustCompile(DefaultFooterPattern))
	if err != nil {
		return nil, err
	}

	return &Manual{
		BaseURL:        baseURL,
		PhysicalOffset: physicalOffset,
		Anchors:        append([]GroupAnchor(nil), anchors...),
		Stripper:       stripper,
	}, nil
}

// PhysicalPage maps a logical page number to its 1-based position in the file
func (m *Manual) PhysicalPage(logical int) int {
	return logical + m.PhysicalOffset
}

// MaxPhysicalPage returns the highest physical page the anchor table can
// reach without reading any index page: the anchor pages themselves.
func (m *Manual) MaxPhysicalPage() int {
	highest := 0
	for _, a := range m.Anchors {
		if p := m.PhysicalPage(a.AnchorPage); p > highest {
			highest = p
		}
	}
	return highest
}
