package descriptions

import "sort"

// Tool names exposed by the MCP server
const (
	CatalogExtract = "catalog_extract"
	CatalogLookup  = "catalog_lookup"
	CatalogGroups  = "catalog_groups"
	CatalogInfo    = "catalog_info"
)

const (
	CatalogExtractDescription = `Extract the instruction catalog of the Z80 CPU User Manual as JSON.

**When to use:** Need the full set of documented instructions, or every instruction of one group, with their operation, op code, operands, description, condition bits and example.

**Why it's useful:** Each record carries a deep link into the published manual, so answers can cite the page an instruction is documented on.

**Examples:**
• Whole catalog: "List every Z80 instruction with its op code"
• One group: group="Rotate and Shift Group" to get only the rotate and shift instructions

**Common workflows:**
1. Reference lookup: catalog_groups → pick a group → catalog_extract with group
2. Code assistance: catalog_extract → index by keyword → complete or document assembly source

**Best practices:** The catalog is built once per server and reused, so repeated calls are cheap. Use catalog_lookup when only a few mnemonics are needed.`

	CatalogLookupDescription = `Find instruction records by keyword.

**When to use:** Need the documentation of a specific mnemonic or instruction form such as "LD A, (BC)" or "DJNZ".

**Why it's useful:** Matches are case-insensitive substrings of the keyword, so "djnz" or "ld a," both work.

**Examples:**
• Single mnemonic: keyword="DJNZ"
• Instruction family: keyword="RL" returns RL, RLA, RLC, RLCA and RLD forms

**Best practices:** Short keywords match many records. Add operands to narrow the result.`

	CatalogGroupsDescription = `List the instruction groups of the manual with the number of records in each.

**When to use:** Need an overview of how the instruction set is organized before extracting a group.

**Examples:**
• "Which instruction groups does the Z80 have?"

**Best practices:** Group names are taken verbatim from the manual index pages and can be passed to catalog_extract.`

	CatalogInfoDescription = `Report how the server reads the manual.

**When to use:** Debugging unexpected results, or citing the source of the catalog.

**Why it's useful:** Shows the manual path and URL, the page offset between printed and physical page numbers, and the anchor table of index pages with their trailing extents.

**Best practices:** Run this first when a group looks incomplete; the trailing extent of its anchor decides how many pages the last entry spans.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	CatalogExtract: CatalogExtractDescription,
	CatalogLookup:  CatalogLookupDescription,
	CatalogGroups:  CatalogGroupsDescription,
	CatalogInfo:    CatalogInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a sorted list of all available tool names
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
