package grove

// View binds one schema node to one store location. GroupView and
// MultiGroupView are the two implementations; both cache their child views
// permanently and keep a non-owning reference to their parent for ancestor
// walks during link resolution.
type View interface {
	// Path returns the store location this view is bound to.
	Path() Path
	// Name returns the view's own path segment ("root" for the root view).
	Name() string

	parentView() View
	descend(segment string) (View, error)
}

// GroupView binds a Group node to a store location. Child views for
// group-shaped fields are created eagerly at construction and cached for
// the lifetime of the view; leaf fields are read from and written to the
// store on every access.
type GroupView struct {
	name     string
	node     *Node
	path     Path
	par      View
	fh       *fileHandle
	children map[string]View
	record   *RecordType
}

func newGroupView(fh *fileHandle, name string, node *Node, parent View, recordName string) (*GroupView, error) {
	g := &GroupView{
		name:     name,
		node:     node,
		par:      parent,
		fh:       fh,
		children: make(map[string]View),
	}
	if parent != nil {
		g.path = parent.Path().Child(name)
	}
	rt, ok := fh.registry.Type(recordName)
	if !ok {
		return nil, errConfig("no record type registered for group %q", recordName)
	}
	g.record = rt
	for _, f := range node.fields {
		switch f.Node.kind {
		case KindGroup:
			cv, err := newGroupView(fh, f.Name, f.Node, g, f.Name)
			if err != nil {
				return nil, err
			}
			g.children[f.Name] = cv
		case KindMulti:
			cv, err := newMultiGroupView(fh, f.Name, f.Node, g)
			if err != nil {
				return nil, err
			}
			g.children[f.Name] = cv
		}
	}
	return g, nil
}

// Path returns the bound store location.
func (g *GroupView) Path() Path { return g.path }

// Name returns the view's path segment.
func (g *GroupView) Name() string { return g.name }

// RecordType returns the record type generated for this group's shape.
func (g *GroupView) RecordType() *RecordType { return g.record }

// Fields returns the declared field names in declaration order, regardless
// of whether a field has been written yet.
func (g *GroupView) Fields() []string {
	out := make([]string, len(g.node.fields))
	for i, f := range g.node.fields {
		out[i] = f.Name
	}
	return out
}

// Len returns the number of declared fields.
func (g *GroupView) Len() int { return len(g.node.fields) }

// Get reads the named field, dispatching on its declared kind: group and
// multi-group fields return the cached child view, link fields resolve to
// the live view they alias, scalar fields read the attribute converted to
// the declared type, and array fields read the dataset.
func (g *GroupView) Get(field string) (any, error) {
	n := g.node.FieldNode(field)
	if n == nil {
		return nil, errLookup(g.path, field, "group %q declares no field %q", g.record.name, field)
	}
	switch n.kind {
	case KindGroup, KindMulti:
		return g.children[field], nil
	case KindLink:
		return resolveLink(g.fh, g, g.path, field)
	case KindScalar:
		v, err := g.fh.store.ReadAttr(g.path, field)
		if err != nil {
			return nil, errStore(g.path, field, err)
		}
		return scalarRead(n.scalar, g.path, field, v)
	default: // KindArray
		vs, err := g.fh.store.ReadDataset(g.path, field)
		if err != nil {
			return nil, errStore(g.path, field, err)
		}
		return vs, nil
	}
}

// Group returns the cached child view for a Group-shaped field.
func (g *GroupView) Group(field string) (*GroupView, error) {
	v, err := g.Get(field)
	if err != nil {
		return nil, err
	}
	gv, ok := v.(*GroupView)
	if !ok {
		return nil, errType(g.path, field, "field %q is not a group", field)
	}
	return gv, nil
}

// Multi returns the cached child view for a MultiGroup-shaped field.
func (g *GroupView) Multi(field string) (*MultiGroupView, error) {
	v, err := g.Get(field)
	if err != nil {
		return nil, err
	}
	mv, ok := v.(*MultiGroupView)
	if !ok {
		return nil, errType(g.path, field, "field %q is not a multi group", field)
	}
	return mv, nil
}

// Set writes the named field, dispatching symmetrically to Get. Group
// fields take a Record of the field's record type and apply it field by
// field in declaration order; multi-group fields take a keyed mapping or
// an ordered sequence; link fields take another view; leaf fields write
// the attribute or dataset, creating the containing group when absent.
// Bulk writes are not atomic: a failure partway through leaves the already
// applied fields in the store.
func (g *GroupView) Set(field string, value any) error {
	n := g.node.FieldNode(field)
	if n == nil {
		return errLookup(g.path, field, "group %q declares no field %q", g.record.name, field)
	}
	switch n.kind {
	case KindGroup:
		rec, ok := value.(Record)
		if !ok {
			return errType(g.path, field, "group field %q takes a %q record, got %T", field, field, value)
		}
		return g.children[field].(*GroupView).applyRecord(rec)
	case KindMulti:
		return g.children[field].(*MultiGroupView).applyBulk(value)
	case KindLink:
		target, ok := value.(View)
		if !ok {
			return errType(g.path, field, "link field %q takes a view, got %T", field, value)
		}
		if err := g.fh.store.RequireGroup(g.path); err != nil {
			return errStore(g.path, field, err)
		}
		if err := g.fh.store.WriteLink(g.path, field, target.Path()); err != nil {
			return errStore(g.path, field, err)
		}
		return nil
	case KindScalar:
		sv, err := scalarWrite(n.scalar, g.path, field, value)
		if err != nil {
			return err
		}
		if err := g.fh.store.RequireGroup(g.path); err != nil {
			return errStore(g.path, field, err)
		}
		if err := g.fh.store.WriteAttr(g.path, field, sv); err != nil {
			return errStore(g.path, field, err)
		}
		return nil
	default: // KindArray
		fs, ok := asFloats(value)
		if !ok {
			return errType(g.path, field, "array field %q takes numeric values, got %T", field, value)
		}
		if err := g.fh.store.RequireGroup(g.path); err != nil {
			return errStore(g.path, field, err)
		}
		if err := g.fh.store.WriteDataset(g.path, field, append([]float64{}, fs...)); err != nil {
			return errStore(g.path, field, err)
		}
		return nil
	}
}

// Delete is unsupported on every view.
func (g *GroupView) Delete(field string) error {
	return errUnsupported(g.path, field, "deletion is not supported")
}

// AsRecord reads the whole group into a Record of its record type: nested
// groups become nested Records, multi groups become their element records,
// and links resolve to the live views they alias.
func (g *GroupView) AsRecord() (Record, error) {
	values := make([]any, len(g.node.fields))
	for i, f := range g.node.fields {
		switch f.Node.kind {
		case KindGroup:
			r, err := g.children[f.Name].(*GroupView).AsRecord()
			if err != nil {
				return Record{}, err
			}
			values[i] = r
		case KindMulti:
			v, err := g.children[f.Name].(*MultiGroupView).bulkValue()
			if err != nil {
				return Record{}, err
			}
			values[i] = v
		default:
			v, err := g.Get(f.Name)
			if err != nil {
				return Record{}, err
			}
			values[i] = v
		}
	}
	return Record{typ: g.record, values: values}, nil
}

// applyRecord bulk-writes rec field by field in declaration order.
func (g *GroupView) applyRecord(rec Record) error {
	if rec.typ == nil || !g.record.sameShape(rec.typ) {
		got := "zero record"
		if rec.typ != nil {
			got = "record " + rec.typ.name
		}
		return errType(g.path, "", "group %q takes a %q record, got %s", g.name, g.record.name, got)
	}
	for i, f := range rec.typ.fields {
		if err := g.Set(f, rec.values[i]); err != nil {
			return err // already-applied fields stay in the store
		}
	}
	return nil
}

func (g *GroupView) parentView() View { return g.par }

func (g *GroupView) descend(segment string) (View, error) {
	if v, ok := g.children[segment]; ok {
		return v, nil
	}
	if g.node.FieldNode(segment) != nil {
		return nil, errResolution(g.path, segment, "segment %q is not group-shaped", segment)
	}
	return nil, errResolution(g.path, segment, "no segment %q under %s", segment, g.path)
}

func scalarRead(st ScalarType, p Path, field string, v any) (any, error) {
	switch st {
	case ScalarInt:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			if isIntegral(n) {
				return int64(n), nil
			}
		case float32:
			if isIntegral(float64(n)) {
				return int64(n), nil
			}
		}
		return nil, errType(p, field, "stored value %v is not an integer", v)
	case ScalarString:
		s, ok := v.(string)
		if !ok {
			return nil, errType(p, field, "stored value %v is not a string", v)
		}
		return s, nil
	default: // ScalarFloat
		f, ok := asNumber(v)
		if !ok {
			return nil, errType(p, field, "stored value %v is not a float", v)
		}
		return f, nil
	}
}

func scalarWrite(st ScalarType, p Path, field string, v any) (any, error) {
	switch st {
	case ScalarInt:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		}
		return nil, errType(p, field, "int field %q takes an integer, got %T", field, v)
	case ScalarString:
		s, ok := v.(string)
		if !ok {
			return nil, errType(p, field, "string field %q takes a string, got %T", field, v)
		}
		return s, nil
	default: // ScalarFloat
		f, ok := asNumber(v)
		if !ok {
			return nil, errType(p, field, "float field %q takes a number, got %T", field, v)
		}
		return f, nil
	}
}
