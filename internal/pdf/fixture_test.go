package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// generateTextPDF builds a minimal PDF with one page per entry of pages,
// each line placed on its own row from the top of the page down.
func generateTextPDF(pages [][]string) string {
	streams := make([]string, len(pages))
	for i, lines := range pages {
		var content strings.Builder
		for j, line := range lines {
			fmt.Fprintf(&content, "BT\n/F1 12 Tf\n1 0 0 1 72 %d Tm\n(%s) Tj\nET\n", 700-20*j, escapePDFString(line))
		}
		streams[i] = content.String()
	}
	return generateContentPDF(streams)
}

// generateContentPDF builds a minimal PDF with one page per content
// stream. Every page has Helvetica available as /F1.
func generateContentPDF(streams []string) string {
	var offsets []int
	pdf := "%PDF-1.4\n"

	n := len(streams)
	kids := make([]string, n)
	for i := range streams {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	// Object 1 - Catalog
	offsets = append(offsets, len(pdf))
	pdf += "1 0 obj\n<<\n/Type /Catalog\n/Pages 2 0 R\n>>\nendobj\n"

	// Object 2 - Pages
	offsets = append(offsets, len(pdf))
	pdf += fmt.Sprintf("2 0 obj\n<<\n/Type /Pages\n/Kids [%s]\n/Count %d\n>>\nendobj\n",
		strings.Join(kids, " "), n)

	// Object 3 - Font
	offsets = append(offsets, len(pdf))
	pdf += "3 0 obj\n<<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n>>\nendobj\n"

	for i, content := range streams {
		pageObj := 4 + 2*i
		contentObj := pageObj + 1

		offsets = append(offsets, len(pdf))
		pdf += fmt.Sprintf("%d 0 obj\n<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 612 792]\n"+
			"/Contents %d 0 R\n/Resources <<\n/Font <<\n/F1 3 0 R\n>>\n>>\n>>\nendobj\n", pageObj, contentObj)

		offsets = append(offsets, len(pdf))
		pdf += fmt.Sprintf("%d 0 obj\n<<\n/Length %d\n>>\nstream\n%sendstream\nendobj\n",
			contentObj, len(content), content)
	}

	// Cross-reference table
	xrefStart := len(pdf)
	pdf += fmt.Sprintf("xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		pdf += fmt.Sprintf("%010d 00000 n \n", off)
	}

	// Trailer
	pdf += fmt.Sprintf("trailer\n<<\n/Size %d\n/Root 1 0 R\n>>\nstartxref\n", len(offsets)+1)
	pdf += fmt.Sprintf("%d\n", xrefStart)
	pdf += "%%EOF"

	return pdf
}

func escapePDFString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// writeTestPDF writes a generated PDF into a temp dir and returns its path
func writeTestPDF(t *testing.T, pages [][]string) string {
	t.Helper()
	return writePDF(t, generateTextPDF(pages))
}

// writeContentPDF writes a PDF built from raw content streams
func writeContentPDF(t *testing.T, streams ...string) string {
	t.Helper()
	return writePDF(t, generateContentPDF(streams))
}

func writePDF(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manual.pdf")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}
