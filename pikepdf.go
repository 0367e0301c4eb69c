// Package pikepdf provides a managed session layer over the pdfcpu
// engine: open, create and save PDF documents, and bridge host Go values
// into their indirect-object graphs.
package pikepdf

import (
	"github.com/ghaddarAbs/pikepdf/pkg/pdf"
)

// Re-export types from the pdf package for the public API
type (
	PDF             = pdf.PDF
	Object          = pdf.Object
	Name            = pdf.Name
	Kind            = pdf.Kind
	OpenOption      = pdf.OpenOption
	SaveOption      = pdf.SaveOption
	SaveOptions     = pdf.SaveOptions
	CompressionMode = pdf.CompressionMode
	Repairer        = pdf.Repairer
	RepairerFunc    = pdf.RepairerFunc
	ArgumentError   = pdf.ArgumentError
	PasswordError   = pdf.PasswordError
	PDFError        = pdf.PDFError
	NotFoundError   = pdf.NotFoundError
)

// Re-export option functions and constants
var (
	WithPassword          = pdf.WithPassword
	WithIgnoreXRefStreams = pdf.WithIgnoreXRefStreams
	WithSuppressWarnings  = pdf.WithSuppressWarnings
	WithAttemptRecovery   = pdf.WithAttemptRecovery
	WithMemoryMap         = pdf.WithMemoryMap
	WithOption            = pdf.WithOption
	WithStaticID          = pdf.WithStaticID
	WithCompression       = pdf.WithCompression
	WithPreservePDFA      = pdf.WithPreservePDFA
	WithRepairer          = pdf.WithRepairer
)

const (
	CompressionPreserve = pdf.CompressionPreserve
	CompressionNone     = pdf.CompressionNone
	CompressionFull     = pdf.CompressionFull
)

// Open opens an existing document from a path, a byte slice, or a binary
// readable+seekable stream.
func Open(source interface{}, opts ...OpenOption) (*PDF, error) {
	return pdf.Open(source, opts...)
}

// New creates an empty document.
func New() (*PDF, error) {
	return pdf.New()
}

// Encode converts a host value into its engine representation.
func Encode(value interface{}) (interface{}, error) {
	obj, err := pdf.Encode(value)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// NewDictionary encodes a host map into a direct dictionary handle.
func NewDictionary(entries map[string]interface{}) (*Object, error) {
	return pdf.NewDictionary(entries)
}

// NewArray encodes host values into a direct array handle.
func NewArray(items ...interface{}) (*Object, error) {
	return pdf.NewArray(items...)
}

// NewString returns a direct byte-string handle.
func NewString(s string) *Object {
	return pdf.NewString(s)
}
