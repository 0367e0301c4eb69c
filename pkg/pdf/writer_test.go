package pdf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndReopen(t *testing.T) {
	doc := openPDF(t, 2)

	if _, err := doc.MakeIndirect(map[string]interface{}{"/Extra": true}); err != nil {
		t.Fatalf("MakeIndirect failed: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "out.pdf")
	if err := doc.Save(dest); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened, err := Open(dest)
	if err != nil {
		t.Fatalf("Failed to reopen saved document: %v", err)
	}
	defer reopened.Close()

	pages, err := reopened.Pages()
	if err != nil {
		t.Fatalf("Failed to list pages: %v", err)
	}
	if len(pages) != 2 {
		t.Errorf("Expected 2 pages after round trip, got %d", len(pages))
	}
}

func TestSaveTwiceStaysReadable(t *testing.T) {
	doc := openPDF(t, 2)

	dir := t.TempDir()
	first := filepath.Join(dir, "a.pdf")
	second := filepath.Join(dir, "b.pdf")

	if err := doc.Save(first); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := doc.Save(second); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	for _, dest := range []string{first, second} {
		reopened, err := Open(dest)
		if err != nil {
			t.Fatalf("Failed to reopen %s: %v", dest, err)
		}
		pages, err := reopened.Pages()
		if err != nil {
			t.Fatalf("Failed to list pages of %s: %v", dest, err)
		}
		if len(pages) != 2 {
			t.Errorf("Expected 2 pages in %s, got %d", dest, len(pages))
		}
		reopened.Close()
	}
}

func TestSaveStaticIDPinsVolatileBytes(t *testing.T) {
	doc := openPDF(t, 1)

	dest := filepath.Join(t.TempDir(), "out.pdf")
	if err := doc.Save(dest, WithStaticID(true)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	if n := bytes.Count(data, []byte(staticDocumentID)); n != 2 {
		t.Errorf("Both trailer ID elements should carry the static ID, found %d", n)
	}
	for _, m := range volatileDate.FindAll(data, -1) {
		if string(m) != staticDate {
			t.Errorf("Wall-clock date survived in static output: %s", m)
		}
	}
}

func TestSavePolicyScopedToCall(t *testing.T) {
	doc := openPDF(t, 1)

	dir := t.TempDir()
	pinned := filepath.Join(dir, "a.pdf")
	plain := filepath.Join(dir, "b.pdf")

	if err := doc.Save(pinned, WithStaticID(true)); err != nil {
		t.Fatalf("Static save failed: %v", err)
	}
	if err := doc.Save(plain); err != nil {
		t.Fatalf("Plain save failed: %v", err)
	}

	data, err := os.ReadFile(plain)
	if err != nil {
		t.Fatalf("Failed to read plain output: %v", err)
	}
	if bytes.Contains(data, []byte(staticDocumentID)) {
		t.Error("A plain save must not inherit an earlier call's static ID")
	}
	if doc.ctx.ID != nil {
		t.Error("Static save should not leave a pinned ID in the session")
	}
}

func TestSaveStaticIDByteStable(t *testing.T) {
	doc := openPDF(t, 1)

	dir := t.TempDir()
	first := filepath.Join(dir, "a.pdf")
	second := filepath.Join(dir, "b.pdf")

	if err := doc.Save(first, WithStaticID(true)); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := doc.Save(second, WithStaticID(true)); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("Failed to read first output: %v", err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("Failed to read second output: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Static-ID saves of an unmodified session should be byte-identical")
	}
}

func TestSaveEmptyDestination(t *testing.T) {
	doc := openPDF(t, 1)

	err := doc.Save("")
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("Expected *ArgumentError for empty destination, got %v", err)
	}
}

func TestSaveRunsRepairPass(t *testing.T) {
	doc := openPDF(t, 1)

	dest := filepath.Join(t.TempDir(), "out.pdf")
	var repaired string
	err := doc.Save(dest,
		WithPreservePDFA(true),
		WithRepairer(RepairerFunc(func(path string) error {
			repaired = path
			return nil
		})))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if repaired != dest {
		t.Errorf("Repair pass saw %q, want %q", repaired, dest)
	}
}

func TestSaveRepairFailurePropagates(t *testing.T) {
	doc := openPDF(t, 1)

	dest := filepath.Join(t.TempDir(), "out.pdf")
	want := errors.New("repair tool exploded")
	err := doc.Save(dest,
		WithPreservePDFA(true),
		WithRepairer(RepairerFunc(func(string) error { return want })))
	if !errors.Is(err, want) {
		t.Fatalf("Repair failure should propagate unchanged, got %v", err)
	}

	// the write itself succeeded before the repair pass ran
	if _, statErr := os.Stat(dest); statErr != nil {
		t.Errorf("Destination should exist despite repair failure: %v", statErr)
	}
}

func TestSaveSkipsRepairWithoutFlag(t *testing.T) {
	doc := openPDF(t, 1)

	dest := filepath.Join(t.TempDir(), "out.pdf")
	err := doc.Save(dest,
		WithRepairer(RepairerFunc(func(string) error {
			t.Fatal("repair pass must not run without PreservePDFA")
			return nil
		})))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}
