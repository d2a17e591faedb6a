package l5paths

import "strings"

// DefaultSeparator joins path segments.
const DefaultSeparator = "/"

// Node is one element of a target hierarchy. Paths are relative to the
// root, so the root's own name never appears in them.
type Node struct {
	Name     string  `json:"name" yaml:"name"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewNode builds a node with the given children.
func NewNode(name string, children ...*Node) *Node {
	return &Node{Name: name, Children: children}
}

// Resolve walks path from root one segment at a time. It succeeds only
// when every segment matches exactly one child.
func Resolve(root *Node, path, sep string) (*Node, bool) {
	if root == nil {
		return nil, false
	}
	if path == "" {
		return root, true
	}
	cur := root
	for _, seg := range strings.Split(path, sep) {
		var next *Node
		for _, child := range cur.Children {
			if child == nil || child.Name != seg {
				continue
			}
			if next != nil {
				return nil, false
			}
			next = child
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// leafIndex maps node names to the root-relative paths of every node
// carrying that name.
func leafIndex(root *Node, sep string) map[string][]string {
	index := make(map[string][]string)
	var walk func(n *Node, prefix string)
	walk = func(n *Node, prefix string) {
		for _, child := range n.Children {
			if child == nil {
				continue
			}
			p := child.Name
			if prefix != "" {
				p = prefix + sep + child.Name
			}
			index[child.Name] = append(index[child.Name], p)
			walk(child, p)
		}
	}
	walk(root, "")
	return index
}

// leafName returns the final segment of path.
func leafName(path, sep string) string {
	trimmed := strings.TrimRight(path, sep)
	if i := strings.LastIndex(trimmed, sep); i >= 0 {
		return trimmed[i+len(sep):]
	}
	return trimmed
}
