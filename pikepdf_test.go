package pikepdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ghaddarAbs/pikepdf/pkg/pdf"
)

func TestNewAndSaveRoundTrip(t *testing.T) {
	doc, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer doc.Close()

	dict, err := NewDictionary(map[string]interface{}{
		"/Type":    Name("/Example"),
		"/Answer":  42,
		"/Comment": "hello",
	})
	if err != nil {
		t.Fatalf("NewDictionary failed: %v", err)
	}
	handle, err := doc.MakeIndirect(dict)
	if err != nil {
		t.Fatalf("MakeIndirect failed: %v", err)
	}
	if !handle.IsIndirect() {
		t.Error("MakeIndirect should return an indirect handle")
	}

	got, err := doc.GetObjectByID(handle.ObjectNumber())
	if err != nil {
		t.Fatalf("GetObjectByID failed: %v", err)
	}
	resolved, err := got.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	m, ok := pdf.Decode(resolved).(map[string]interface{})
	if !ok {
		t.Fatalf("Expected a dictionary, got %T", pdf.Decode(resolved))
	}
	if m["/Answer"] != 42 {
		t.Errorf("Answer not retrievable through the graph: %v", m["/Answer"])
	}

	out := filepath.Join(t.TempDir(), "roundtrip.pdf")
	if err := doc.Save(out, WithStaticID(true)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened, err := Open(out)
	if err != nil {
		t.Fatalf("Open after save failed: %v", err)
	}
	defer reopened.Close()

	rootObj, err := reopened.Root().Resolve()
	if err != nil {
		t.Fatalf("Resolving the catalog failed: %v", err)
	}
	catalog, ok := pdf.Decode(rootObj).(map[string]interface{})
	if !ok {
		t.Fatalf("Expected the catalog to decode to a dictionary, got %T", pdf.Decode(rootObj))
	}
	if catalog["/Type"] != pdf.Name("/Catalog") {
		t.Errorf("Catalog type did not survive the round trip: %v", catalog["/Type"])
	}
}

func TestOpenFromBytes(t *testing.T) {
	doc, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	out := filepath.Join(t.TempDir(), "bytes.pdf")
	if err := doc.Save(out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	doc.Close()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	fromBytes, err := Open(data)
	if err != nil {
		t.Fatalf("Open from bytes failed: %v", err)
	}
	defer fromBytes.Close()
	if fromBytes.Filename() != "memory" {
		t.Errorf("In-memory sources report filename %q, want \"memory\"", fromBytes.Filename())
	}
}

func TestOpenBadSource(t *testing.T) {
	_, err := Open(3.14)
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("Expected *ArgumentError, got %T", err)
	}
}
