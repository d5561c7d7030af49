package grove

// Kind tags the variant of a schema Node.
type Kind uint8

const (
	KindGroup Kind = iota
	KindMulti
	KindLink
	KindScalar
	KindArray
)

// ScalarType selects the value type of a scalar leaf.
type ScalarType uint8

const (
	ScalarInt ScalarType = iota
	ScalarString
	ScalarFloat
)

// Field pairs a declared name with its schema node. Declaration order is
// significant: iteration, record fields and bulk writes all follow it.
type Field struct {
	Name string
	Node *Node
}

// Node is one immutable schema tree node. Nodes are acyclic; a Link is a
// marker resolved against the store at access time, not a structural edge.
type Node struct {
	kind     Kind
	scalar   ScalarType // KindScalar only
	fields   []Field    // KindGroup, declaration order
	byName   map[string]*Node
	elemName string // KindMulti: record-type name of the element shape
	elem     *Node  // KindMulti: the single element shape
}

// Kind returns the variant tag.
func (n *Node) Kind() Kind { return n.kind }

// Scalar returns the scalar type of a KindScalar node.
func (n *Node) Scalar() ScalarType { return n.scalar }

// Fields returns the declared fields of a KindGroup node in declaration order.
func (n *Node) Fields() []Field { return n.fields }

// FieldNode returns the node declared under name, or nil.
func (n *Node) FieldNode(name string) *Node { return n.byName[name] }

// Elem returns the element shape of a KindMulti node.
func (n *Node) Elem() *Node { return n.elem }

// ElemName returns the record-type name of a KindMulti node's element shape.
func (n *Node) ElemName() string { return n.elemName }

// Int declares an integer scalar leaf.
func Int() *Node { return &Node{kind: KindScalar, scalar: ScalarInt} }

// String declares a string scalar leaf.
func String() *Node { return &Node{kind: KindScalar, scalar: ScalarString} }

// Float declares a float scalar leaf.
func Float() *Node { return &Node{kind: KindScalar, scalar: ScalarFloat} }

// Array declares an array dataset leaf.
func Array() *Node { return &Node{kind: KindArray} }

// Link declares a link leaf, resolved against the store at access time.
func Link() *Node { return &Node{kind: KindLink} }

// Multi declares a dynamically sized run of elements sharing one shape.
// name becomes the record-type name of the element shape; the element must
// be group-shaped, which NewSchema enforces.
func Multi(name string, elem *Node) *Node {
	return &Node{kind: KindMulti, elemName: name, elem: elem}
}

// GroupBuilder assembles a Group node field by field.
type GroupBuilder struct {
	fields []Field
	seen   map[string]struct{}
	dup    string
}

// Group creates a new group builder.
func Group() *GroupBuilder {
	return &GroupBuilder{seen: map[string]struct{}{}}
}

// Field declares a field. Declaration order is preserved.
func (b *GroupBuilder) Field(name string, n *Node) *GroupBuilder {
	if _, ok := b.seen[name]; ok && b.dup == "" {
		b.dup = name
	}
	b.seen[name] = struct{}{}
	b.fields = append(b.fields, Field{Name: name, Node: n})
	return b
}

// Build validates the builder and returns the immutable group node.
func (b *GroupBuilder) Build() (*Node, error) {
	if b.dup != "" {
		return nil, errConfig("duplicate field %q in group", b.dup)
	}
	byName := make(map[string]*Node, len(b.fields))
	for _, f := range b.fields {
		if f.Node == nil {
			return nil, errConfig("field %q has no schema node", f.Name)
		}
		byName[f.Name] = f.Node
	}
	return &Node{kind: KindGroup, fields: append([]Field{}, b.fields...), byName: byName}, nil
}

// MustBuild is like Build but panics on error.
func (b *GroupBuilder) MustBuild() *Node {
	n, err := b.Build()
	if err != nil {
		panic(err)
	}
	return n
}

// Schema is a validated schema tree plus its generated record registry.
// Both are immutable after NewSchema returns.
type Schema struct {
	root     *Node
	registry *Registry
}

// RootName is the record-type name assigned to the schema root.
const RootName = "root"

// NewSchema validates the tree rooted at root and generates its record
// registry. All configuration errors surface here, never at first access:
// the root must be a group, every Multi must wrap exactly one group-shaped
// element, and two groups sharing a name must share a field set.
func NewSchema(root *Node) (*Schema, error) {
	if root == nil || root.kind != KindGroup {
		return nil, errConfig("schema root must be a group named %q", RootName)
	}
	if err := validateNode(RootName, root); err != nil {
		return nil, err
	}
	reg, err := buildRegistry(root)
	if err != nil {
		return nil, err
	}
	return &Schema{root: root, registry: reg}, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(root *Node) *Schema {
	s, err := NewSchema(root)
	if err != nil {
		panic(err)
	}
	return s
}

// Root returns the root node.
func (s *Schema) Root() *Node { return s.root }

// Registry returns the generated record-type registry.
func (s *Schema) Registry() *Registry { return s.registry }

func validateNode(name string, n *Node) error {
	if n == nil {
		return errConfig("field %q has no schema node", name)
	}
	switch n.kind {
	case KindGroup:
		for _, f := range n.fields {
			if err := validateNode(f.Name, f.Node); err != nil {
				return err
			}
		}
	case KindMulti:
		if n.elemName == "" {
			return errConfig("multi group %q has no element name", name)
		}
		if n.elem == nil {
			return errConfig("multi group %q must declare exactly one element shape", name)
		}
		if n.elem.kind != KindGroup && n.elem.kind != KindMulti {
			return errConfig("multi group %q element must be group-shaped", name)
		}
		return validateNode(n.elemName, n.elem)
	case KindLink, KindScalar, KindArray:
	default:
		return errConfig("field %q has unknown kind %d", name, n.kind)
	}
	return nil
}
