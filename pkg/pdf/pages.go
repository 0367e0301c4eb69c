package pdf

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxPageTreeDepth bounds page-tree walks against malformed self-
// referencing trees.
const maxPageTreeDepth = 64

// pagesRoot returns the root node of the page tree and its indirect
// reference (nil when the node is inlined in the catalog).
func (p *PDF) pagesRoot() (types.Dict, *types.IndirectRef, error) {
	if p.ctx.Root == nil {
		return nil, nil, &PDFError{Msg: "pikepdf: document has no catalog"}
	}
	rootDict, err := p.resolveDict(*p.ctx.Root)
	if err != nil {
		return nil, nil, err
	}
	if rootDict == nil {
		return nil, nil, &PDFError{Msg: "pikepdf: document catalog is not a dictionary"}
	}

	pagesObj, found := rootDict["Pages"]
	if !found {
		return nil, nil, &PDFError{Msg: "pikepdf: document has no page tree"}
	}

	var ref *types.IndirectRef
	switch r := pagesObj.(type) {
	case types.IndirectRef:
		ref = &r
	case *types.IndirectRef:
		ref = r
	}
	d, err := p.resolveDict(pagesObj)
	if err != nil {
		return nil, nil, err
	}
	if d == nil {
		return nil, nil, &PDFError{Msg: "pikepdf: page tree root is not a dictionary"}
	}
	return d, ref, nil
}

// Pages returns handles to the document's page objects in display order.
func (p *PDF) Pages() ([]*Object, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	root, _, err := p.pagesRoot()
	if err != nil {
		return nil, err
	}
	var out []*Object
	if err := p.collectPages(root, &out, 0); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *PDF) collectPages(node types.Dict, out *[]*Object, depth int) error {
	if depth > maxPageTreeDepth {
		return &PDFError{Msg: "pikepdf: page tree nests too deeply"}
	}
	kids, err := p.resolveArray(node["Kids"])
	if err != nil {
		return err
	}
	for _, kid := range kids {
		var ref types.IndirectRef
		switch k := kid.(type) {
		case types.IndirectRef:
			ref = k
		case *types.IndirectRef:
			ref = *k
		default:
			continue
		}
		kd, err := p.resolveDict(ref)
		if err != nil {
			return err
		}
		if kd == nil {
			continue
		}
		if typ, _ := kd["Type"].(types.Name); typ == "Pages" {
			if err := p.collectPages(kd, out, depth+1); err != nil {
				return err
			}
			continue
		}
		*out = append(*out, &Object{pdf: p, val: ref})
	}
	return nil
}

// AddPage attaches a page to the document, at the head of the page list
// when first is true, at the tail otherwise. A page owned by another
// session is deep-copied into this graph first, so the result does not
// depend on the source session's lifetime.
func (p *PDF) AddPage(page *Object, first bool) error {
	if err := p.check(); err != nil {
		return err
	}
	if page == nil {
		return &ArgumentError{Msg: "page must not be nil"}
	}

	root, rootRef, err := p.pagesRoot()
	if err != nil {
		return err
	}

	var ref types.IndirectRef
	if page.pdf != nil && page.pdf != p {
		imported, err := p.importForeign(page)
		if err != nil {
			return err
		}
		if r, ok := imported.(types.IndirectRef); ok {
			ref = r
		} else {
			r, err := p.ctx.IndRefForNewObject(imported)
			if err != nil {
				return engineError(err)
			}
			ref = *r
		}
	} else if r, ok := page.ref(); ok {
		ref = r
	} else {
		r, err := p.ctx.IndRefForNewObject(page.val)
		if err != nil {
			return engineError(err)
		}
		ref = *r
	}

	kids, err := p.resolveArray(root["Kids"])
	if err != nil {
		return err
	}
	if first {
		root["Kids"] = append(types.Array{ref}, kids...)
	} else {
		root["Kids"] = append(append(types.Array{}, kids...), ref)
	}

	if c, ok := root["Count"].(types.Integer); ok {
		root["Count"] = types.Integer(int(c) + 1)
	} else {
		root["Count"] = types.Integer(len(kids) + 1)
	}

	if pd, err := p.resolveDict(ref); err == nil && pd != nil && rootRef != nil {
		pd["Parent"] = *rootRef
	}

	p.ctx.PageCount++
	return nil
}

// RemovePage detaches a page from the page list. Objects the page made
// reachable are not collected here; compaction happens at write time.
func (p *PDF) RemovePage(page *Object) error {
	if err := p.check(); err != nil {
		return err
	}
	if page == nil {
		return &ArgumentError{Msg: "page must not be nil"}
	}
	ref, ok := page.ref()
	if !ok {
		return &ArgumentError{Msg: "page must be an indirect object"}
	}

	root, _, err := p.pagesRoot()
	if err != nil {
		return err
	}
	removed, err := p.removeFromTree(root, ref, 0)
	if err != nil {
		return err
	}
	if !removed {
		return &NotFoundError{ObjectNumber: int(ref.ObjectNumber), Generation: int(ref.GenerationNumber)}
	}
	p.ctx.PageCount--
	return nil
}

// removeFromTree removes ref from the subtree rooted at node, adjusting
// Count on every ancestor of the removed leaf.
func (p *PDF) removeFromTree(node types.Dict, ref types.IndirectRef, depth int) (bool, error) {
	if depth > maxPageTreeDepth {
		return false, &PDFError{Msg: "pikepdf: page tree nests too deeply"}
	}
	kids, err := p.resolveArray(node["Kids"])
	if err != nil {
		return false, err
	}
	for i, kid := range kids {
		var kref types.IndirectRef
		switch k := kid.(type) {
		case types.IndirectRef:
			kref = k
		case *types.IndirectRef:
			kref = *k
		default:
			continue
		}

		if kref.ObjectNumber == ref.ObjectNumber && kref.GenerationNumber == ref.GenerationNumber {
			out := make(types.Array, 0, len(kids)-1)
			out = append(out, kids[:i]...)
			out = append(out, kids[i+1:]...)
			node["Kids"] = out
			decrementCount(node)
			return true, nil
		}

		kd, err := p.resolveDict(kref)
		if err != nil {
			return false, err
		}
		if kd == nil {
			continue
		}
		if typ, _ := kd["Type"].(types.Name); typ == "Pages" {
			removed, err := p.removeFromTree(kd, ref, depth+1)
			if err != nil {
				return false, err
			}
			if removed {
				decrementCount(node)
				return true, nil
			}
		}
	}
	return false, nil
}

func decrementCount(node types.Dict) {
	if c, ok := node["Count"].(types.Integer); ok && int(c) > 0 {
		node["Count"] = types.Integer(int(c) - 1)
	}
}
