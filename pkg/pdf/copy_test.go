package pdf

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func TestImportForeignRemapsReferences(t *testing.T) {
	src := openPDF(t, 1)
	dst := openPDF(t, 1)

	leaf, err := src.MakeIndirect(map[string]interface{}{"/Leaf": true})
	if err != nil {
		t.Fatalf("MakeIndirect failed: %v", err)
	}
	parent, err := src.MakeIndirect(map[string]interface{}{"/Child": leaf})
	if err != nil {
		t.Fatalf("MakeIndirect failed: %v", err)
	}

	imported, err := dst.MakeIndirect(parent)
	if err != nil {
		t.Fatalf("Foreign MakeIndirect failed: %v", err)
	}

	resolved, err := imported.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	d, ok := resolved.(types.Dict)
	if !ok {
		t.Fatalf("Expected dictionary, got %T", resolved)
	}
	childRef, ok := d["Child"].(types.IndirectRef)
	if !ok {
		t.Fatalf("Expected nested reference, got %T", d["Child"])
	}
	child, err := dst.GetObjectByID(int(childRef.ObjectNumber))
	if err != nil {
		t.Fatalf("Imported child not in destination graph: %v", err)
	}
	childVal, err := child.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	cd, ok := childVal.(types.Dict)
	if !ok || cd["Leaf"] != types.Boolean(true) {
		t.Errorf("Imported child lost its value: %v", childVal)
	}
}

func TestImportForeignSurvivesSourceClose(t *testing.T) {
	src := openPDF(t, 1)
	dst := openPDF(t, 1)

	obj, err := src.MakeIndirect(map[string]interface{}{"/Keep": "me"})
	if err != nil {
		t.Fatalf("MakeIndirect failed: %v", err)
	}
	imported, err := dst.MakeIndirect(obj)
	if err != nil {
		t.Fatalf("Foreign MakeIndirect failed: %v", err)
	}

	src.Close()

	resolved, err := imported.Resolve()
	if err != nil {
		t.Fatalf("Imported object must not depend on source lifetime: %v", err)
	}
	d, ok := resolved.(types.Dict)
	if !ok || d["Keep"] != types.StringLiteral("me") {
		t.Errorf("Imported value damaged: %v", resolved)
	}
}

func TestImportForeignBreaksCycles(t *testing.T) {
	src := openPDF(t, 1)
	dst := openPDF(t, 1)

	a, err := src.MakeIndirect(map[string]interface{}{})
	if err != nil {
		t.Fatalf("MakeIndirect failed: %v", err)
	}
	b, err := src.MakeIndirect(map[string]interface{}{"/A": a})
	if err != nil {
		t.Fatalf("MakeIndirect failed: %v", err)
	}
	if err := src.ReplaceObject(a.ObjectNumber(), a.Generation(),
		map[string]interface{}{"/B": b}); err != nil {
		t.Fatalf("ReplaceObject failed: %v", err)
	}

	imported, err := dst.MakeIndirect(a)
	if err != nil {
		t.Fatalf("Cyclic import failed: %v", err)
	}

	resolved, err := imported.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	d := resolved.(types.Dict)
	bRef := d["B"].(types.IndirectRef)
	bVal, err := dst.GetObjectByID(int(bRef.ObjectNumber))
	if err != nil {
		t.Fatalf("Cycle partner missing: %v", err)
	}
	bResolved, err := bVal.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	aRef := bResolved.(types.Dict)["A"].(types.IndirectRef)
	if int(aRef.ObjectNumber) != imported.ObjectNumber() {
		t.Errorf("Cycle not closed on imported identities: %d vs %d",
			int(aRef.ObjectNumber), imported.ObjectNumber())
	}
}

func TestImportFromClosedSessionFails(t *testing.T) {
	src := openPDF(t, 1)
	dst := openPDF(t, 1)

	obj, err := src.MakeIndirect(1)
	if err != nil {
		t.Fatalf("MakeIndirect failed: %v", err)
	}
	src.Close()

	if _, err := dst.MakeIndirect(obj); err == nil {
		t.Fatal("Importing from a closed session should fail")
	}
}
