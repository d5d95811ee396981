package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is a generic XML element: a name, its attributes and its element
// children. The Graph Builder treats a Node tree as the "AST event stream"
// spec §4.2 describes, visiting it the way the elaborator's own tree
// visitor would, without tying ingestion to any particular XML library's
// streaming API.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
}

// Attr returns the value of attribute name and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// MustAttr returns the value of attribute name, or an error naming both the
// attribute and the element if it is missing.
func (n *Node) MustAttr(name string) (string, error) {
	v, ok := n.Attrs[name]
	if !ok {
		return "", fmt.Errorf("missing mandatory attribute %q on <%s>", name, n.Name)
	}
	return v, nil
}

// FirstChild returns the first child of n with the given name, or nil.
func (n *Node) FirstChild(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ParseXML parses a full XML document into a single root Node.
func ParseXML(data []byte) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	var stack []*Node
	var root *Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				node.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			} else if root == nil {
				root = node
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("malformed XML: unbalanced end element </%s>", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if root == nil {
		return nil, fmt.Errorf("malformed XML: empty document")
	}
	return root, nil
}
