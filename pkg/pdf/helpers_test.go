package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// buildPDF assembles a small offset-correct PDF with the given number of
// pages, entirely in memory so tests need no binary fixtures.
func buildPDF(t *testing.T, pages int) []byte {
	t.Helper()

	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	bodies := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [ %s] /Count %d >>", kids, pages),
	}
	for i := 0; i < pages; i++ {
		bodies = append(bodies, "<< /Type /Page /Parent 2 0 R /MediaBox [ 0 0 612 792 ] >>")
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(bodies))
	for i, body := range bodies {
		offsets = append(offsets, b.Len())
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	start := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(bodies)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(bodies)+1, start)
	return b.Bytes()
}

// writePDFFile drops a generated PDF into a temp file and returns its path.
func writePDFFile(t *testing.T, pages int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(path, buildPDF(t, pages), 0o644); err != nil {
		t.Fatalf("Failed to write test PDF: %v", err)
	}
	return path
}

// openPDF opens a generated document and registers cleanup.
func openPDF(t *testing.T, pages int, opts ...OpenOption) *PDF {
	t.Helper()
	doc, err := Open(buildPDF(t, pages), opts...)
	if err != nil {
		t.Fatalf("Failed to open generated PDF: %v", err)
	}
	t.Cleanup(func() { doc.Close() })
	return doc
}
