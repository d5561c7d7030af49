package grove

import (
	"math"
	"reflect"
)

// RecordType is a named structural tuple mirroring one group's declared
// fields. It is the unit of bulk read/write: values passed to Set on a
// group-shaped field and returned from AsRecord are Records of the type
// registered under that group's name.
type RecordType struct {
	name   string
	fields []string
	index  map[string]int
}

// Name returns the record-type name (the group name it was generated from).
func (t *RecordType) Name() string { return t.name }

// Fields returns the field names in declaration order.
func (t *RecordType) Fields() []string { return append([]string{}, t.fields...) }

// NumFields returns the field count.
func (t *RecordType) NumFields() int { return len(t.fields) }

// New builds a Record from positional values in declaration order.
func (t *RecordType) New(values ...any) (Record, error) {
	if len(values) != len(t.fields) {
		return Record{}, errType(Path{}, t.name, "record %q takes %d values, got %d", t.name, len(t.fields), len(values))
	}
	return Record{typ: t, values: append([]any{}, values...)}, nil
}

// MustNew is like New but panics on error.
func (t *RecordType) MustNew(values ...any) Record {
	r, err := t.New(values...)
	if err != nil {
		panic(err)
	}
	return r
}

// Make builds a Record from a field-name keyed map. Every declared field
// must be present and no extra keys are allowed.
func (t *RecordType) Make(values map[string]any) (Record, error) {
	if len(values) != len(t.fields) {
		return Record{}, errType(Path{}, t.name, "record %q takes fields %v", t.name, t.fields)
	}
	out := make([]any, len(t.fields))
	for i, f := range t.fields {
		v, ok := values[f]
		if !ok {
			return Record{}, errLookup(Path{}, f, "record %q has no value for field %q", t.name, f)
		}
		out[i] = v
	}
	return Record{typ: t, values: out}, nil
}

func (t *RecordType) sameShape(other *RecordType) bool {
	if t == other {
		return true
	}
	if other == nil || t.name != other.name || len(t.fields) != len(other.fields) {
		return false
	}
	for i := range t.fields {
		if t.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}

// Record is one value of a RecordType. The zero Record has no type.
type Record struct {
	typ    *RecordType
	values []any
}

// Type returns the record's type, nil for the zero Record.
func (r Record) Type() *RecordType { return r.typ }

// Len returns the field count.
func (r Record) Len() int { return len(r.values) }

// At returns the value at position i in declaration order.
func (r Record) At(i int) any { return r.values[i] }

// Field returns the value stored under the named field.
func (r Record) Field(name string) (any, error) {
	if r.typ == nil {
		return nil, errLookup(Path{}, name, "zero record has no fields")
	}
	i, ok := r.typ.index[name]
	if !ok {
		return nil, errLookup(Path{}, name, "record %q has no field %q", r.typ.name, name)
	}
	return r.values[i], nil
}

// Equal reports field-by-field equality: scalars compare exactly (with
// numeric widening across int and float widths), arrays element-wise,
// nested records recursively, and views by store path.
func (r Record) Equal(other Record) bool {
	if r.typ == nil || other.typ == nil {
		return r.typ == other.typ
	}
	if !r.typ.sameShape(other.typ) {
		return false
	}
	for i := range r.values {
		if !equalValue(r.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	switch av := a.(type) {
	case Record:
		bv, ok := b.(Record)
		return ok && av.Equal(bv)
	case []Record:
		bv, ok := b.([]Record)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !av[i].Equal(bv[i]) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	case View:
		bv, ok := b.(View)
		return ok && av.Path().Equal(bv.Path())
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case nil:
		return b == nil
	}
	if af, ok := asNumber(a); ok {
		bf, ok := asNumber(b)
		return ok && af == bf
	}
	if af, ok := asFloats(a); ok {
		bf, ok := asFloats(b)
		if !ok || len(af) != len(bf) {
			return false
		}
		for i := range af {
			if af[i] != bf[i] {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func asFloats(v any) ([]float64, bool) {
	switch s := v.(type) {
	case []float64:
		return s, true
	case []int:
		out := make([]float64, len(s))
		for i, n := range s {
			out[i] = float64(n)
		}
		return out, true
	case []int64:
		out := make([]float64, len(s))
		for i, n := range s {
			out[i] = float64(n)
		}
		return out, true
	case []float32:
		out := make([]float64, len(s))
		for i, n := range s {
			out[i] = float64(n)
		}
		return out, true
	case []any:
		out := make([]float64, len(s))
		for i, e := range s {
			f, ok := asNumber(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

// isIntegral reports whether f carries no fractional part.
func isIntegral(f float64) bool { return f == math.Trunc(f) }

// Registry holds the record types generated for one schema, keyed by
// group name, in first-registration order. Immutable after NewSchema.
type Registry struct {
	order []string
	types map[string]*RecordType
}

// Type returns the record type registered under name.
func (reg *Registry) Type(name string) (*RecordType, bool) {
	t, ok := reg.types[name]
	return t, ok
}

// MustType is like Type but panics when name is not registered.
func (reg *Registry) MustType(name string) *RecordType {
	t, ok := reg.types[name]
	if !ok {
		panic("grove: no record type " + name)
	}
	return t
}

// Names returns the registered names in first-registration order.
func (reg *Registry) Names() []string { return append([]string{}, reg.order...) }

// Len returns the number of distinct record types.
func (reg *Registry) Len() int { return len(reg.order) }

func (reg *Registry) add(name string, fields []string) error {
	if prev, ok := reg.types[name]; ok {
		cand := &RecordType{name: name, fields: fields}
		if prev.sameShape(cand) {
			return nil
		}
		return errConfig("group %q registered twice with differing fields: %v vs %v", name, prev.fields, fields)
	}
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f] = i
	}
	reg.order = append(reg.order, name)
	reg.types[name] = &RecordType{name: name, fields: append([]string{}, fields...), index: idx}
	return nil
}

// buildRegistry walks the schema tree post-order: children of a group are
// registered before the group's own record type, and a Multi's element
// shape is registered once regardless of how many instances exist.
func buildRegistry(root *Node) (*Registry, error) {
	reg := &Registry{types: map[string]*RecordType{}}
	if err := registerGroups(reg, RootName, root); err != nil {
		return nil, err
	}
	return reg, nil
}

func registerGroups(reg *Registry, name string, n *Node) error {
	switch n.kind {
	case KindGroup:
		for _, f := range n.fields {
			if f.Node.kind == KindGroup || f.Node.kind == KindMulti {
				if err := registerGroups(reg, f.Name, f.Node); err != nil {
					return err
				}
			}
		}
		fields := make([]string, len(n.fields))
		for i, f := range n.fields {
			fields[i] = f.Name
		}
		return reg.add(name, fields)
	case KindMulti:
		return registerGroups(reg, n.elemName, n.elem)
	}
	return nil
}
