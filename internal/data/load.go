package data

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrRootNotMapping is returned by Root when the document is not a mapping.
var ErrRootNotMapping = errors.New("document root must be a mapping")

// maxAliasDepth bounds alias chains so a self-referencing document cannot loop forever.
const maxAliasDepth = 64

// Load reads and parses the YAML document at path.
func Load(path string) (Value, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Null(), fmt.Errorf("reading %s: %w", path, err)
	}
	v, err := Parse(raw)
	if err != nil {
		return Null(), fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}

// Decode parses a YAML document from r.
func Decode(r io.Reader) (Value, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Null(), fmt.Errorf("reading document: %w", err)
	}
	return Parse(raw)
}

// Parse converts a YAML document into a Value, preserving mapping key order.
// An empty document yields an empty mapping.
func Parse(raw []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Null(), fmt.Errorf("invalid YAML: %w", err)
	}
	if doc.Kind == 0 {
		return Mapping(), nil
	}
	return fromNode(&doc, 0)
}

// Root returns v as the top-level template context. Null becomes an empty
// mapping; any other non-mapping value is rejected.
func Root(v Value) (Value, error) {
	switch v.Kind() {
	case KindMapping:
		return v, nil
	case KindNull:
		return Mapping(), nil
	default:
		return Null(), fmt.Errorf("%w, got %s", ErrRootNotMapping, v.Kind())
	}
}

func fromNode(n *yaml.Node, depth int) (Value, error) {
	if depth > maxAliasDepth {
		return Null(), errors.New("alias nesting too deep")
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Mapping(), nil
		}
		return fromNode(n.Content[0], depth)
	case yaml.AliasNode:
		return fromNode(n.Alias, depth+1)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := fromNode(child, depth)
			if err != nil {
				return Null(), err
			}
			items = append(items, item)
		}
		return Sequence(items...), nil
	case yaml.MappingNode:
		return mappingFromNode(n, depth)
	case yaml.ScalarNode:
		return scalarFromNode(n)
	}
	return Null(), fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func mappingFromNode(n *yaml.Node, depth int) (Value, error) {
	m := Mapping()
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		val, err := fromNode(valNode, depth)
		if err != nil {
			return Null(), err
		}

		// Merge keys pull the aliased mapping's fields in without overriding.
		if keyNode.Tag == "!!merge" {
			for _, key := range val.Keys() {
				if m.Get(key).IsAbsent() {
					m.Set(key, val.Get(key))
				}
			}
			continue
		}

		key, err := scalarFromNode(keyNode)
		if err != nil {
			return Null(), err
		}
		m.Set(key.Text(), val)
	}
	return m, nil
}

func scalarFromNode(n *yaml.Node) (Value, error) {
	var raw any
	if err := n.Decode(&raw); err != nil {
		return Null(), fmt.Errorf("line %d: %w", n.Line, err)
	}
	return FromAny(raw), nil
}
