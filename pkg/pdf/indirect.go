package pdf

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// MakeIndirect moves a value into the document graph and returns an
// indirect handle to it. The value may be an *Object handle (a handle
// already indirect in this session is returned as is; a foreign handle is
// deep-copied in) or any encodable host value. Allocation never reuses a
// live (number, generation) pair.
func (p *PDF) MakeIndirect(value interface{}) (*Object, error) {
	if err := p.check(); err != nil {
		return nil, err
	}

	var obj types.Object
	switch v := value.(type) {
	case *Object:
		if v == nil {
			obj = nil
			break
		}
		if v.pdf != nil && v.pdf != p {
			imported, err := p.importForeign(v)
			if err != nil {
				return nil, err
			}
			if ref, ok := imported.(types.IndirectRef); ok {
				return &Object{pdf: p, val: ref}, nil
			}
			obj = imported
			break
		}
		if ref, ok := v.ref(); ok {
			return &Object{pdf: p, val: ref}, nil
		}
		obj = v.val
	default:
		enc, err := Encode(value)
		if err != nil {
			return nil, err
		}
		obj = enc
	}

	ref, err := p.ctx.IndRefForNewObject(obj)
	if err != nil {
		return nil, engineError(err)
	}
	return &Object{pdf: p, val: *ref}, nil
}

// ReplaceObject overwrites the node at (objNr, genNr) in place. Every
// handle addressing that pair observes the new value afterwards; no other
// node is affected. The replacement value is encoded before the graph is
// touched, so a failed call changes nothing.
func (p *PDF) ReplaceObject(objNr, genNr int, value interface{}) error {
	if err := p.check(); err != nil {
		return err
	}

	var obj types.Object
	switch v := value.(type) {
	case *Object:
		if v == nil {
			obj = nil
			break
		}
		resolved, err := v.Resolve()
		if err != nil {
			return err
		}
		obj = resolved
	default:
		enc, err := Encode(value)
		if err != nil {
			return err
		}
		obj = enc
	}

	entry, err := p.liveEntry(objNr)
	if err != nil {
		return err
	}
	gen := 0
	if entry.Generation != nil {
		gen = *entry.Generation
	}
	if gen != genNr {
		return &NotFoundError{ObjectNumber: objNr, Generation: genNr}
	}

	entry.Object = obj
	return nil
}

// GetObjectByID resolves a bare object number to an indirect handle,
// failing with *NotFoundError if no live node exists at that number.
func (p *PDF) GetObjectByID(objNr int) (*Object, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	entry, err := p.liveEntry(objNr)
	if err != nil {
		return nil, err
	}
	gen := 0
	if entry.Generation != nil {
		gen = *entry.Generation
	}
	return &Object{pdf: p, val: *types.NewIndirectRef(objNr, gen)}, nil
}

// liveEntry returns the xref entry for objNr if it addresses a live node.
func (p *PDF) liveEntry(objNr int) (*model.XRefTableEntry, error) {
	entry, ok := p.ctx.Table[objNr]
	if !ok || entry == nil || entry.Free || entry.Object == nil {
		return nil, &NotFoundError{ObjectNumber: objNr}
	}
	return entry, nil
}
