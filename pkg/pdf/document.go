// Package pdf implements a managed session layer over the pdfcpu engine:
// document lifecycle (new/open/save) and a bridge between host Go values
// and the document's indirect-object graph.
//
// A PDF session is confined to a single goroutine. No internal locking is
// performed; callers must not mutate one session's graph from two
// goroutines simultaneously. The two blocking operations, opening from a
// path and saving, touch only engine-owned memory and hold no session
// state while they run.
package pdf

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// warnLog receives non-fatal warnings when suppression is off.
var warnLog = log.New(os.Stderr, "pikepdf: ", 0)

// PDF is one open document session. It owns the entire object graph for
// its lifetime; handles obtained from it are invalidated by Close.
type PDF struct {
	ctx              *model.Context
	filename         string
	warnings         []string
	suppressWarnings bool
	closed           bool
}

// New creates an empty document by parsing a built-in minimal document:
// a catalog and a childless page tree.
func New() (*PDF, error) {
	src := rawSource{data: emptyPDF(), name: "empty PDF"}
	return openSource(src, defaultOpenConfig())
}

// Open opens an existing document from a path, a byte slice, or a binary
// readable+seekable stream. Options are validated before any engine work:
// a bad option or an unusable source fails with *ArgumentError. A wrong or
// missing password fails with *PasswordError; any other open failure with
// *PDFError.
func Open(source interface{}, opts ...OpenOption) (*PDF, error) {
	cfg := defaultOpenConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	src, err := resolveSource(source, cfg.useMmap)
	if err != nil {
		return nil, err
	}
	return openSource(src, cfg)
}

// openSource parses a resolved source with the engine and wraps the
// resulting context in a session.
func openSource(src rawSource, cfg openConfig) (*PDF, error) {
	conf := model.NewDefaultConfiguration()
	if cfg.password != "" {
		conf.UserPW = cfg.password
		conf.OwnerPW = cfg.password
	}
	// Relaxed mode lets the engine rebuild damaged xref data instead of
	// failing outright. Ignoring xref streams rides on the same fallback.
	conf.ValidationMode = model.ValidationStrict
	if cfg.attemptRecovery || cfg.ignoreXRefStreams {
		conf.ValidationMode = model.ValidationRelaxed
	}

	var (
		ctx *model.Context
		err error
	)
	if src.inMemory() {
		ctx, err = api.ReadContext(src.reader(), conf)
	} else {
		f, ferr := os.Open(src.path)
		if ferr != nil {
			return nil, &PDFError{Msg: ferr.Error(), Err: ferr}
		}
		defer f.Close()
		ctx, err = api.ReadContext(f, conf)
	}
	if err != nil {
		return nil, classifyOpenError(err)
	}

	p := &PDF{
		ctx:              ctx,
		filename:         src.name,
		suppressWarnings: cfg.suppressWarnings,
	}

	// Validate strictly first so recoverable defects surface as warnings;
	// fall back to the relaxed pass when recovery is enabled. The
	// validator reads the XRefTable copy of the mode; the Configuration
	// copy is kept in sync for later engine calls.
	setValidationMode(ctx, model.ValidationStrict)
	if verr := api.ValidateContext(ctx); verr != nil {
		if !cfg.attemptRecovery {
			return nil, classifyOpenError(verr)
		}
		setValidationMode(ctx, model.ValidationRelaxed)
		if verr2 := api.ValidateContext(ctx); verr2 != nil {
			return nil, classifyOpenError(verr2)
		}
		p.warn(verr.Error())
	}
	setValidationMode(ctx, conf.ValidationMode)

	return p, nil
}

// setValidationMode writes both homonymous mode fields the context
// carries. Context embeds Configuration and XRefTable, each with its own
// ValidationMode, so the bare selector does not resolve.
func setValidationMode(ctx *model.Context, mode int) {
	ctx.XRefTable.ValidationMode = mode
	ctx.Configuration.ValidationMode = mode
}

// warn accumulates a non-fatal warning, echoing it when suppression is
// off.
func (p *PDF) warn(msg string) {
	p.warnings = append(p.warnings, msg)
	if !p.suppressWarnings {
		warnLog.Println(msg)
	}
}

// GetWarnings drains the accumulated warning list. A second call without
// intervening operations returns an empty list.
func (p *PDF) GetWarnings() []string {
	out := p.warnings
	p.warnings = nil
	if out == nil {
		out = []string{}
	}
	return out
}

// Close invalidates the session and its object graph. Handles obtained
// from the session fail to resolve afterwards. Close is idempotent.
func (p *PDF) Close() error {
	p.ctx = nil
	p.warnings = nil
	p.closed = true
	return nil
}

// check guards every operation against use before Open or after Close.
func (p *PDF) check() error {
	if p.closed || p.ctx == nil {
		return &PDFError{Msg: "pikepdf: operation on closed document"}
	}
	return nil
}

// Filename returns the source filename of an existing document, "memory"
// for stream-backed sources, or "empty PDF" for a synthetic document.
func (p *PDF) Filename() string {
	return p.filename
}

// PDFVersion returns the document's PDF standard version, such as "1.7".
// The catalog version wins over the header version when both are present.
func (p *PDF) PDFVersion() string {
	if p.check() != nil {
		return ""
	}
	v := p.ctx.HeaderVersion
	if p.ctx.RootVersion != nil {
		v = p.ctx.RootVersion
	}
	if v == nil {
		return ""
	}
	return v.String()
}

// ExtensionLevel returns the Adobe extension level declared in the
// catalog, or 0 when none is declared.
func (p *PDF) ExtensionLevel() int {
	if p.check() != nil || p.ctx.Root == nil {
		return 0
	}
	rootDict, err := p.resolveDict(*p.ctx.Root)
	if err != nil || rootDict == nil {
		return 0
	}
	ext, err := p.resolveDict(rootDict["Extensions"])
	if err != nil || ext == nil {
		return 0
	}
	adbe, err := p.resolveDict(ext["ADBE"])
	if err != nil || adbe == nil {
		return 0
	}
	if lvl, ok := adbe["ExtensionLevel"].(types.Integer); ok {
		return int(lvl)
	}
	return 0
}

// IsEncrypted reports whether the document carries an encryption
// dictionary.
func (p *PDF) IsEncrypted() bool {
	if p.check() != nil {
		return false
	}
	return p.ctx.Encrypt != nil
}

// Root returns a handle to the document catalog, or nil if the document
// has none.
func (p *PDF) Root() *Object {
	if p.check() != nil || p.ctx.Root == nil {
		return nil
	}
	return &Object{pdf: p, val: *p.ctx.Root}
}

// Trailer returns a handle to the file-level trailer record. The handle
// holds a snapshot assembled from the session's current state; editing it
// does not write back into the document.
func (p *PDF) Trailer() *Object {
	if p.check() != nil {
		return nil
	}
	d := types.Dict{}
	if p.ctx.Size != nil {
		d["Size"] = types.Integer(*p.ctx.Size)
	}
	if p.ctx.Root != nil {
		d["Root"] = *p.ctx.Root
	}
	if p.ctx.Info != nil {
		d["Info"] = *p.ctx.Info
	}
	if p.ctx.Encrypt != nil {
		d["Encrypt"] = *p.ctx.Encrypt
	}
	if p.ctx.ID != nil {
		d["ID"] = p.ctx.ID
	}
	return &Object{pdf: p, val: d}
}

// ShowXRefTable renders a diagnostic dump of the cross-reference table,
// one "number/generation" line per entry.
func (p *PDF) ShowXRefTable() string {
	if p.check() != nil {
		return ""
	}
	nrs := make([]int, 0, len(p.ctx.Table))
	for nr := range p.ctx.Table {
		nrs = append(nrs, nr)
	}
	sort.Ints(nrs)

	var b strings.Builder
	for _, nr := range nrs {
		e := p.ctx.Table[nr]
		if e == nil {
			continue
		}
		gen := 0
		if e.Generation != nil {
			gen = *e.Generation
		}
		switch {
		case e.Free:
			fmt.Fprintf(&b, "%d/%d: free\n", nr, gen)
		case e.Offset != nil:
			fmt.Fprintf(&b, "%d/%d: uncompressed; offset = %d\n", nr, gen, *e.Offset)
		default:
			fmt.Fprintf(&b, "%d/%d: compressed\n", nr, gen)
		}
	}
	return b.String()
}

// resolveDict dereferences o and returns it as a dictionary, or nil when
// it is absent or not a dictionary.
func (p *PDF) resolveDict(o types.Object) (types.Dict, error) {
	if o == nil {
		return nil, nil
	}
	obj, err := p.ctx.Dereference(o)
	if err != nil {
		return nil, engineError(err)
	}
	d, _ := obj.(types.Dict)
	return d, nil
}

// resolveArray dereferences o and returns it as an array, or nil when it
// is absent or not an array.
func (p *PDF) resolveArray(o types.Object) (types.Array, error) {
	if o == nil {
		return nil, nil
	}
	obj, err := p.ctx.Dereference(o)
	if err != nil {
		return nil, engineError(err)
	}
	a, _ := obj.(types.Array)
	return a, nil
}

// emptyPDF renders the minimal document New parses: a catalog and a
// childless page tree with an offset-correct xref table.
func emptyPDF() []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.3\n")
	off1 := b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	off2 := b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n")
	start := b.Len()
	b.WriteString("xref\n0 3\n0000000000 65535 f \n")
	fmt.Fprintf(&b, "%010d 00000 n \n", off1)
	fmt.Fprintf(&b, "%010d 00000 n \n", off2)
	b.WriteString("trailer\n<< /Size 3 /Root 1 0 R >>\n")
	fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", start)
	return b.Bytes()
}
