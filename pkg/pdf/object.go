package pdf

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Kind identifies the PDF primitive a handle refers to.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindReal
	KindString
	KindName
	KindArray
	KindDict
	KindStream
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindName:
		return "name"
	case KindArray:
		return "array"
	case KindDict:
		return "dictionary"
	case KindStream:
		return "stream"
	case KindReference:
		return "reference"
	}
	return "unknown"
}

// Object is a handle into one session's object graph. An indirect handle
// is a weak address: it stores the owning session and an identifier pair,
// never the node itself, so resolution always goes through the live graph
// and fails explicitly once the session is closed. Direct values carry
// their engine representation inline.
type Object struct {
	pdf *PDF
	val types.Object
}

// Kind classifies the underlying value without resolving references.
func (o *Object) Kind() Kind {
	return kindOf(o.val)
}

func kindOf(v types.Object) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case types.Boolean:
		return KindBool
	case types.Integer:
		return KindInteger
	case types.Float:
		return KindReal
	case types.StringLiteral, types.HexLiteral:
		return KindString
	case types.Name:
		return KindName
	case types.Array:
		return KindArray
	case types.Dict:
		return KindDict
	case types.StreamDict, *types.StreamDict:
		return KindStream
	case types.IndirectRef, *types.IndirectRef:
		return KindReference
	}
	return KindNull
}

// IsIndirect reports whether the handle addresses an indirect object.
func (o *Object) IsIndirect() bool {
	return o.Kind() == KindReference
}

// IsNull reports whether the handle is the explicit null object.
func (o *Object) IsNull() bool {
	return o.val == nil
}

// ObjectNumber returns the object number of an indirect handle, 0 for
// direct values.
func (o *Object) ObjectNumber() int {
	if ref, ok := o.ref(); ok {
		return int(ref.ObjectNumber)
	}
	return 0
}

// Generation returns the generation number of an indirect handle, 0 for
// direct values.
func (o *Object) Generation() int {
	if ref, ok := o.ref(); ok {
		return int(ref.GenerationNumber)
	}
	return 0
}

func (o *Object) ref() (types.IndirectRef, bool) {
	switch r := o.val.(type) {
	case types.IndirectRef:
		return r, true
	case *types.IndirectRef:
		return *r, true
	}
	return types.IndirectRef{}, false
}

// Value returns the underlying engine representation without resolving.
func (o *Object) Value() types.Object {
	return o.val
}

// Resolve returns the current engine value the handle addresses. Indirect
// handles are looked up in the owning session's live graph; a handle that
// outlived its session fails with *PDFError.
func (o *Object) Resolve() (types.Object, error) {
	ref, ok := o.ref()
	if !ok {
		return o.val, nil
	}
	if o.pdf == nil {
		return nil, &PDFError{Msg: "pikepdf: reference has no owning document"}
	}
	if err := o.pdf.check(); err != nil {
		return nil, err
	}
	entry, err := o.pdf.liveEntry(int(ref.ObjectNumber))
	if err != nil {
		return nil, err
	}
	return entry.Object, nil
}

// Equals compares the resolved values of two handles.
func (o *Object) Equals(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	a, err := o.Resolve()
	if err != nil {
		return false
	}
	b, err := other.Resolve()
	if err != nil {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// String renders the handle in PDF syntax; indirect handles render as
// "n g R".
func (o *Object) String() string {
	if o == nil {
		return "null"
	}
	return render(o.val)
}

// render writes an engine value in PDF syntax. Dictionary keys are sorted
// so output is stable.
func render(v types.Object) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case types.Boolean:
		return strconv.FormatBool(bool(x))
	case types.Integer:
		return strconv.Itoa(int(x))
	case types.Float:
		return strconv.FormatFloat(float64(x), 'f', -1, 64)
	case types.StringLiteral:
		return "(" + string(x) + ")"
	case types.HexLiteral:
		return "<" + string(x) + ">"
	case types.Name:
		return "/" + string(x)
	case types.Array:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, render(item))
		}
		return "[ " + strings.Join(parts, " ") + " ]"
	case types.Dict:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, "/"+k+" "+render(x[k]))
		}
		return "<< " + strings.Join(parts, " ") + " >>"
	case types.StreamDict:
		return render(x.Dict) + " stream"
	case *types.StreamDict:
		return render(x.Dict) + " stream"
	case types.IndirectRef:
		return fmt.Sprintf("%d %d R", int(x.ObjectNumber), int(x.GenerationNumber))
	case *types.IndirectRef:
		return fmt.Sprintf("%d %d R", int(x.ObjectNumber), int(x.GenerationNumber))
	}
	return fmt.Sprintf("%v", v)
}
