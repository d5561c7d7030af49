package grove

import (
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
)

// MultiGroupView binds a Multi node to a store location: a sequence-shaped
// view over a dynamically sized, homogeneous run of elements sharing one
// element shape and one record type.
//
// Construction eagerly scans the backing store and materializes one child
// view per persisted element, in lexicographic order of their stored
// names, assigning indices 0..n-1. Elements created through this view are
// stored under their stringified index.
type MultiGroupView struct {
	name   string
	node   *Node
	path   Path
	par    View
	fh     *fileHandle
	elems  []View
	byName map[string]View
}

func newMultiGroupView(fh *fileHandle, name string, node *Node, parent View) (*MultiGroupView, error) {
	m := &MultiGroupView{
		name:   name,
		node:   node,
		par:    parent,
		fh:     fh,
		byName: make(map[string]View),
	}
	if parent != nil {
		m.path = parent.Path().Child(name)
	}
	names, err := fh.store.Children(m.path)
	if err != nil {
		return nil, errStore(m.path, "", err)
	}
	sort.Strings(names)
	for _, stored := range names {
		v, err := m.newElem(stored)
		if err != nil {
			return nil, err
		}
		m.elems = append(m.elems, v)
		m.byName[stored] = v
	}
	if len(names) > 0 {
		fh.log.WithFields(logrus.Fields{"path": m.path.String(), "elements": len(names)}).
			Debug("grove: multi group scanned")
	}
	return m, nil
}

func (m *MultiGroupView) newElem(stored string) (View, error) {
	if m.node.elem.kind == KindGroup {
		return newGroupView(m.fh, stored, m.node.elem, m, m.node.elemName)
	}
	return newMultiGroupView(m.fh, stored, m.node.elem, m)
}

// Path returns the bound store location.
func (m *MultiGroupView) Path() Path { return m.path }

// Name returns the view's path segment.
func (m *MultiGroupView) Name() string { return m.name }

// Len returns the count of currently materialized elements.
func (m *MultiGroupView) Len() int { return len(m.elems) }

// Get returns the element view at index. Negative indices follow standard
// sequence convention; the valid range is [-Len(), Len()-1].
func (m *MultiGroupView) Get(index int) (View, error) {
	i := index
	if i < 0 {
		i += len(m.elems)
	}
	if i < 0 || i >= len(m.elems) {
		return nil, errLookup(m.path, strconv.Itoa(index), "index %d out of range for length %d", index, len(m.elems))
	}
	return m.elems[i], nil
}

// Set bulk-updates the element at index, identically to setting a
// group-shaped field with a record. index may also equal Len(), which
// creates the slot; this is what makes sequence-shaped bulk assignment
// onto an empty multi group well-defined. Slice writes are unsupported.
func (m *MultiGroupView) Set(index int, value any) error {
	i := index
	if i < 0 {
		i += len(m.elems)
	}
	if i < 0 || i > len(m.elems) {
		return errLookup(m.path, strconv.Itoa(index), "index %d out of range for length %d", index, len(m.elems))
	}
	v, err := m.ensureSlot(i)
	if err != nil {
		return err
	}
	return m.applyTo(v, value)
}

// Insert places value at index. An index at or past the current length
// appends a fresh element; otherwise elements in [index, Len()-1] shift up
// by one, processed highest-first so no element is overwritten before it
// is copied, and the freed slot receives value.
func (m *MultiGroupView) Insert(index int, value any) error {
	i := index
	if i < 0 {
		i += len(m.elems)
		if i < 0 {
			i = 0
		}
	}
	if i >= len(m.elems) {
		v, err := m.ensureSlot(len(m.elems))
		if err != nil {
			return err
		}
		return m.applyTo(v, value)
	}
	for p := len(m.elems) - 1; p >= i; p-- {
		dst, err := m.ensureSlot(p + 1)
		if err != nil {
			return err
		}
		if err := copyElement(dst, m.elems[p]); err != nil {
			return err
		}
	}
	return m.applyTo(m.elems[i], value)
}

// Delete is unsupported on every view.
func (m *MultiGroupView) Delete(index int) error {
	return errUnsupported(m.path, strconv.Itoa(index), "deletion is not supported")
}

// Records reads every element into its record. The element shape must be
// a plain group.
func (m *MultiGroupView) Records() ([]Record, error) {
	if m.node.elem.kind != KindGroup {
		return nil, errType(m.path, "", "elements of %q are not plain groups", m.name)
	}
	out := make([]Record, len(m.elems))
	for i, e := range m.elems {
		r, err := e.(*GroupView).AsRecord()
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// bulkValue reads the whole run into the shape applyBulk accepts:
// []Record for group elements, []any of nested bulk values for nested
// multi groups.
func (m *MultiGroupView) bulkValue() (any, error) {
	if m.node.elem.kind == KindGroup {
		return m.Records()
	}
	out := make([]any, len(m.elems))
	for i, e := range m.elems {
		v, err := e.(*MultiGroupView).bulkValue()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// applyBulk applies a keyed mapping as Set(key, val) per entry (ascending
// key order) or an ordered sequence as Set(i, val) per element. Any other
// shape is a type mismatch; slice-style range writes are unsupported by
// design.
func (m *MultiGroupView) applyBulk(value any) error {
	switch vv := value.(type) {
	case map[int]any:
		keys := make([]int, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		for _, k := range keys {
			if err := m.Set(k, vv[k]); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for i, e := range vv {
			if err := m.Set(i, e); err != nil {
				return err
			}
		}
		return nil
	case []Record:
		for i, e := range vv {
			if err := m.Set(i, e); err != nil {
				return err
			}
		}
		return nil
	default:
		return errType(m.path, "", "multi group %q takes a keyed mapping or ordered sequence, got %T", m.name, value)
	}
}

// ensureSlot returns the element view at position i, creating the store
// group and view when i is the append position.
func (m *MultiGroupView) ensureSlot(i int) (View, error) {
	if i < len(m.elems) {
		return m.elems[i], nil
	}
	if i > len(m.elems) {
		return nil, errLookup(m.path, strconv.Itoa(i), "cannot create slot %d past length %d", i, len(m.elems))
	}
	stored := strconv.Itoa(i)
	if err := m.fh.store.RequireGroup(m.path.Child(stored)); err != nil {
		return nil, errStore(m.path, stored, err)
	}
	v, err := m.newElem(stored)
	if err != nil {
		return nil, err
	}
	m.elems = append(m.elems, v)
	m.byName[stored] = v
	return v, nil
}

func (m *MultiGroupView) applyTo(v View, value any) error {
	switch ev := v.(type) {
	case *GroupView:
		rec, ok := value.(Record)
		if !ok {
			return errType(ev.path, "", "multi group %q element takes a %q record, got %T", m.name, m.node.elemName, value)
		}
		return ev.applyRecord(rec)
	default:
		return v.(*MultiGroupView).applyBulk(value)
	}
}

// copyElement copies the persisted content of src into dst. Both views
// share the same element shape by construction.
func copyElement(dst, src View) error {
	switch s := src.(type) {
	case *GroupView:
		rec, err := s.AsRecord()
		if err != nil {
			return err
		}
		return dst.(*GroupView).applyRecord(rec)
	default:
		sm := s.(*MultiGroupView)
		dm := dst.(*MultiGroupView)
		for i, e := range sm.elems {
			slot, err := dm.ensureSlot(i)
			if err != nil {
				return err
			}
			if err := copyElement(slot, e); err != nil {
				return err
			}
		}
		return nil
	}
}

func (m *MultiGroupView) parentView() View { return m.par }

func (m *MultiGroupView) descend(segment string) (View, error) {
	if v, ok := m.byName[segment]; ok {
		return v, nil
	}
	return nil, errResolution(m.path, segment, "no element %q under %s", segment, m.path)
}
