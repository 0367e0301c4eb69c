package pdf

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// importForeign deep-copies an object owned by another session into p's
// graph, remapping every nested indirect reference to freshly allocated
// identifiers so the copy is self-consistent and independent of the
// source session's lifetime. On failure all allocations made so far are
// freed, leaving the graph semantically unchanged.
func (p *PDF) importForeign(src *Object) (types.Object, error) {
	if src.pdf == nil {
		return src.val, nil
	}
	if err := src.pdf.check(); err != nil {
		return nil, err
	}

	im := &importer{
		dst:  p,
		src:  src.pdf,
		seen: map[types.IndirectRef]types.IndirectRef{},
	}
	out, err := im.transfer(src.val)
	if err != nil {
		im.rollback()
		return nil, err
	}
	return out, nil
}

// importer walks a foreign object graph. The seen map, keyed by the
// source (number, generation) pair, both remaps references and breaks
// reference cycles.
type importer struct {
	dst, src  *PDF
	seen      map[types.IndirectRef]types.IndirectRef
	allocated []int
}

func (im *importer) transfer(obj types.Object) (types.Object, error) {
	switch x := obj.(type) {
	case types.Dict:
		out := types.Dict{}
		for k, v := range x {
			t, err := im.transfer(v)
			if err != nil {
				return nil, err
			}
			out[k] = t
		}
		return out, nil

	case types.Array:
		out := make(types.Array, 0, len(x))
		for _, v := range x {
			t, err := im.transfer(v)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil

	case types.StreamDict:
		return im.copyStream(x)

	case *types.StreamDict:
		out, err := im.copyStream(*x)
		if err != nil {
			return nil, err
		}
		sd := out.(types.StreamDict)
		return &sd, nil

	case types.IndirectRef:
		if mapped, ok := im.seen[x]; ok {
			return mapped, nil
		}
		entry, err := im.src.liveEntry(int(x.ObjectNumber))
		if err != nil {
			return nil, err
		}
		// Reserve the destination id before descending so cycles land on
		// the mapped reference instead of looping.
		ref, err := im.dst.ctx.IndRefForNewObject(types.Dict{})
		if err != nil {
			return nil, engineError(err)
		}
		im.allocated = append(im.allocated, int(ref.ObjectNumber))
		im.seen[x] = *ref

		t, err := im.transfer(entry.Object)
		if err != nil {
			return nil, err
		}
		dstEntry, ok := im.dst.ctx.Table[int(ref.ObjectNumber)]
		if !ok || dstEntry == nil {
			return nil, &PDFError{Msg: "pikepdf: lost imported object entry"}
		}
		dstEntry.Object = t
		return *ref, nil

	case *types.IndirectRef:
		return im.transfer(*x)

	default:
		// Scalars carry no references and copy by value.
		return obj, nil
	}
}

// copyStream clones a stream node: the dictionary is transferred like any
// other, the data buffers are duplicated so the copy owns its bytes.
func (im *importer) copyStream(sd types.StreamDict) (types.Object, error) {
	out := sd
	d, err := im.transfer(sd.Dict)
	if err != nil {
		return nil, err
	}
	out.Dict = d.(types.Dict)
	if sd.Raw != nil {
		out.Raw = append([]byte(nil), sd.Raw...)
	}
	if sd.Content != nil {
		out.Content = append([]byte(nil), sd.Content...)
	}
	return out, nil
}

// rollback frees every entry the importer allocated. The numbers are not
// reused afterwards, which keeps the no-reuse allocation invariant.
func (im *importer) rollback() {
	for _, nr := range im.allocated {
		if e, ok := im.dst.ctx.Table[nr]; ok && e != nil {
			e.Free = true
			e.Object = nil
		}
	}
}
