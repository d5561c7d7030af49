// Package decl parses YAML schema declarations into grove schemas. A
// declaration is a nested ordered mapping: scalar tags declare leaves,
// nested mappings declare groups, and a single-element sequence declares a
// multi group whose element record is named after the enclosing field.
//
//	a:
//	  b: int
//	  c: string
//	s: array
//	runs:
//	  - x: float
//	ref: link
//
// Mapping order is preserved, so declaration order in the YAML document is
// the field order of the generated record types.
package decl

import (
	"fmt"

	"gopkg.in/yaml.v3"

	grove "github.com/grovedb/grove"
)

// Leaf type tags accepted as scalar values in a declaration.
const (
	TagInt    = "int"
	TagString = "string"
	TagFloat  = "float"
	TagArray  = "array"
	TagLink   = "link"
)

// Parse decodes one schema declaration document and compiles it into a
// validated grove.Schema.
func Parse(data []byte) (*grove.Schema, error) {
	root, err := ParseNode(data)
	if err != nil {
		return nil, err
	}
	return grove.NewSchema(root)
}

// ParseNode decodes one schema declaration document into its root node
// without compiling the record registry.
func ParseNode(data []byte) (*grove.Node, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	if doc.Kind != yaml.MappingNode {
		return nil, configErr("schema declaration must be a mapping")
	}
	return parseMapping(doc)
}

// ParseVersions decodes a version table document of the form
//
//	filetype: Soln
//	versions:
//	  "1.0": { ...schema declaration... }
//
// and returns the filetype plus a version→schema table suitable for
// grove.Open and grove.Create.
func ParseVersions(data []byte) (string, map[string]*grove.Schema, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return "", nil, err
	}
	if doc.Kind != yaml.MappingNode {
		return "", nil, configErr("version table must be a mapping")
	}
	filetype := ""
	versions := map[string]*grove.Schema{}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]
		switch key.Value {
		case "filetype":
			if val.Kind != yaml.ScalarNode {
				return "", nil, configErr("filetype must be a string")
			}
			filetype = val.Value
		case "versions":
			if val.Kind != yaml.MappingNode {
				return "", nil, configErr("versions must be a mapping of version to schema")
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				vkey, vval := val.Content[j], val.Content[j+1]
				if vval.Kind != yaml.MappingNode {
					return "", nil, configErr("schema for version %q must be a mapping", vkey.Value)
				}
				root, err := parseMapping(vval)
				if err != nil {
					return "", nil, err
				}
				sc, err := grove.NewSchema(root)
				if err != nil {
					return "", nil, err
				}
				versions[vkey.Value] = sc
			}
		default:
			return "", nil, configErr("unknown version table key %q", key.Value)
		}
	}
	if filetype == "" {
		return "", nil, configErr("version table declares no filetype")
	}
	if len(versions) == 0 {
		return "", nil, configErr("version table declares no versions")
	}
	return filetype, versions, nil
}

func decodeDocument(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, configErrCause(err, "invalid YAML")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, configErr("expected a single YAML document")
	}
	return doc.Content[0], nil
}

func parseMapping(n *yaml.Node) (*grove.Node, error) {
	b := grove.Group()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		child, err := parseValue(key.Value, val)
		if err != nil {
			return nil, err
		}
		b.Field(key.Value, child)
	}
	return b.Build()
}

func parseValue(field string, n *yaml.Node) (*grove.Node, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Value {
		case TagInt:
			return grove.Int(), nil
		case TagString:
			return grove.String(), nil
		case TagFloat:
			return grove.Float(), nil
		case TagArray:
			return grove.Array(), nil
		case TagLink:
			return grove.Link(), nil
		}
		return nil, configErr("field %q has unknown type tag %q", field, n.Value)
	case yaml.MappingNode:
		return parseMapping(n)
	case yaml.SequenceNode:
		if len(n.Content) != 1 {
			return nil, configErr("multi group %q must declare exactly one element shape, got %d", field, len(n.Content))
		}
		elem, err := parseValue(field, n.Content[0])
		if err != nil {
			return nil, err
		}
		return grove.Multi(field, elem), nil
	default:
		return nil, configErr("field %q has unsupported declaration shape", field)
	}
}

func configErr(format string, a ...any) error {
	return &grove.Error{Code: grove.CodeConfiguration, Message: fmt.Sprintf(format, a...)}
}

func configErrCause(cause error, format string, a ...any) error {
	return &grove.Error{Code: grove.CodeConfiguration, Message: fmt.Sprintf(format, a...), Cause: cause}
}
