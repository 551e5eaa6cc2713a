package descriptions

import (
	"strings"
	"testing"
)

func TestGetToolDescription(t *testing.T) {
	for _, name := range []string{CatalogExtract, CatalogLookup, CatalogGroups, CatalogInfo} {
		desc := GetToolDescription(name)
		if !strings.Contains(desc, "**When to use:**") {
			t.Errorf("description of %s lacks usage guidance", name)
		}
	}

	if got := GetToolDescription("pdf_read_file"); got != "Tool description not available" {
		t.Errorf("GetToolDescription(unknown) = %q", got)
	}
}

func TestGetAllToolNames(t *testing.T) {
	names := GetAllToolNames()
	want := []string{"catalog_extract", "catalog_groups", "catalog_info", "catalog_lookup"}

	if len(names) != len(want) {
		t.Fatalf("GetAllToolNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("GetAllToolNames()[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}
