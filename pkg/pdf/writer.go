package pdf

import (
	"bytes"
	"os"
	"regexp"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// CompressionMode selects how stream data is laid out on save.
type CompressionMode int

const (
	// CompressionPreserve keeps the engine's default layout.
	CompressionPreserve CompressionMode = iota
	// CompressionNone disables object and xref streams for plain output.
	CompressionNone
	// CompressionFull forces object and xref streams on.
	CompressionFull
)

// SaveOptions is the writer policy for one save call. It is immutable
// once the call starts: later mutation of a SaveOptions value has no
// effect on a running save.
type SaveOptions struct {
	// StaticID forces a deterministic trailer ID and uncompressed layout
	// so repeated saves of an unmodified document are byte-identical.
	StaticID bool
	// Compression selects the stream layout; StaticID overrides it to
	// CompressionNone.
	Compression CompressionMode
	// PreservePDFA runs an archival repair pass on the destination after
	// a successful write.
	PreservePDFA bool
	// Repairer overrides the package default repair pass.
	Repairer Repairer
}

// SaveOption configures a single Save call.
type SaveOption func(*SaveOptions)

// WithStaticID enables deterministic, diff-friendly output.
func WithStaticID(v bool) SaveOption {
	return func(o *SaveOptions) { o.StaticID = v }
}

// WithCompression selects the stream layout for this save.
func WithCompression(m CompressionMode) SaveOption {
	return func(o *SaveOptions) { o.Compression = m }
}

// WithPreservePDFA runs the archival repair pass after the write.
func WithPreservePDFA(v bool) SaveOption {
	return func(o *SaveOptions) { o.PreservePDFA = v }
}

// WithRepairer installs the repair collaborator used when PreservePDFA is
// set.
func WithRepairer(r Repairer) SaveOption {
	return func(o *SaveOptions) { o.Repairer = r }
}

// staticDocumentID is the trailer ID written in static-ID mode.
const staticDocumentID = "31415926535897932384626433832795"

// staticDate replaces the engine's wall-clock date stamps in static-ID
// mode. Same length as a rendered date prefix, so offsets are unaffected.
const staticDate = "D:20000101000000"

// volatileDate matches the date prefix the engine stamps into the info
// dictionary on every write.
var volatileDate = regexp.MustCompile(`D:\d{14}`)

// Save writes the document to destination under the given writer policy.
// The policy applies to this call only: trailer ID and stream-layout
// state the policy touches is restored afterwards, and each call starts
// from fresh engine write bookkeeping so a session can be saved any
// number of times. The blocking write holds no session state. When the
// policy asks for the archival repair pass, it runs after a successful
// write with no further bridge state involved; its failure propagates
// unchanged.
func (p *PDF) Save(destination string, opts ...SaveOption) error {
	if err := p.check(); err != nil {
		return err
	}
	if destination == "" {
		return &ArgumentError{Msg: "destination must not be empty"}
	}

	cfg := SaveOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	// The engine records per-write offsets inside the context; a reused
	// record makes a second write skip every object the first one
	// emitted. Each save gets its own.
	p.ctx.Write = model.NewWriteContext(p.ctx.Configuration.Eol)

	var prevID types.Array
	if p.ctx.ID != nil {
		prevID = append(types.Array{}, p.ctx.ID...)
	}
	prevObjStream := p.ctx.WriteObjectStream
	prevXRefStream := p.ctx.WriteXRefStream
	defer func() {
		p.ctx.ID = prevID
		p.ctx.WriteObjectStream = prevObjStream
		p.ctx.WriteXRefStream = prevXRefStream
	}()

	compression := cfg.Compression
	if cfg.StaticID {
		p.ctx.ID = types.Array{
			types.HexLiteral(staticDocumentID),
			types.HexLiteral(staticDocumentID),
		}
		compression = CompressionNone
	}
	switch compression {
	case CompressionNone:
		p.ctx.WriteObjectStream = false
		p.ctx.WriteXRefStream = false
	case CompressionFull:
		p.ctx.WriteObjectStream = true
		p.ctx.WriteXRefStream = true
	}

	if cfg.StaticID {
		if err := p.saveStatic(destination); err != nil {
			return err
		}
	} else if err := api.WriteContextFile(p.ctx, destination); err != nil {
		return engineError(err)
	}

	if cfg.PreservePDFA {
		r := cfg.Repairer
		if r == nil {
			r = DefaultRepairer
		}
		return r.Repair(destination)
	}
	return nil
}

// saveStatic writes through a memory buffer and pins the volatile bytes
// the engine stamps into every output: the regenerated second trailer ID
// element and the info dictionary's date entries.
func (p *PDF) saveStatic(destination string) error {
	var buf bytes.Buffer
	if err := api.WriteContext(p.ctx, &buf); err != nil {
		return engineError(err)
	}
	out := volatileDate.ReplaceAll(buf.Bytes(), []byte(staticDate))
	out = pinSecondID(out)
	if err := os.WriteFile(destination, out, 0o644); err != nil {
		return &PDFError{Msg: err.Error(), Err: err}
	}
	return nil
}

// pinSecondID rewrites the hex literal following the pinned first ID
// element. The engine regenerates that element on every write; the
// replacement has the same length, so no offset shifts.
func pinSecondID(out []byte) []byte {
	first := []byte("<" + staticDocumentID + ">")
	i := bytes.Index(out, first)
	if i < 0 {
		return out
	}
	j := i + len(first)
	for j < len(out) && (out[j] == ' ' || out[j] == '\r' || out[j] == '\n') {
		j++
	}
	if j >= len(out) || out[j] != '<' {
		return out
	}
	k := bytes.IndexByte(out[j:], '>')
	if k != len(staticDocumentID)+1 {
		return out
	}
	copy(out[j+1:j+k], staticDocumentID)
	return out
}
