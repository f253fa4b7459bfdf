package changes

import (
	"sort"
	"strings"
)

// Node is one level of the directory hierarchy built from a group of
// entries. A node can carry a leaf Entry and children at the same time:
// when the binary reports both a path and something beneath it, neither
// side is dropped.
type Node struct {
	Name     string
	Path     string // segments from the hierarchy root joined by "/"
	Entry    *Entry
	children map[string]*Node
}

// Child returns the named child, or nil.
func (n *Node) Child(name string) *Node {
	return n.children[name]
}

// Children returns the child nodes sorted lexicographically by name.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	nodes := make([]*Node, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, n.children[name])
	}
	return nodes
}

// IsLeaf reports whether the node carries an entry of its own.
func (n *Node) IsLeaf() bool {
	return n.Entry != nil
}

// Leaves returns every entry-carrying node in the subtree, depth first
// with children visited in name order.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	if n.IsLeaf() {
		leaves = append(leaves, n)
	}
	for _, child := range n.Children() {
		leaves = append(leaves, child.Leaves()...)
	}
	return leaves
}

func (n *Node) insert(segments []string, entry Entry) {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	name := segments[0]
	child, ok := n.children[name]
	if !ok {
		path := name
		if n.Path != "" {
			path = n.Path + "/" + name
		}
		child = &Node{Name: name, Path: path}
		n.children[name] = child
	}
	if len(segments) == 1 {
		e := entry
		child.Entry = &e
		return
	}
	child.insert(segments[1:], entry)
}

// BuildHierarchy arranges entries into a directory tree rooted at cwd.
// A destination under cwd is shown relative to it; anything else keeps
// its absolute path, which is what multi-root workspaces rely on. The
// returned root node itself is unnamed and only holds the forest.
func BuildHierarchy(entries []Entry, cwd string) *Node {
	root := &Node{}
	prefix := strings.TrimSuffix(cwd, "/") + "/"
	for _, entry := range entries {
		rel := entry.Destination
		if cwd != "" && strings.HasPrefix(rel, prefix) {
			rel = strings.TrimPrefix(rel, prefix)
		}
		segments := strings.Split(rel, "/")
		// An absolute path splits to a leading empty segment; drop it so
		// "/etc/hosts" nests under "etc".
		if len(segments) > 0 && segments[0] == "" {
			segments = segments[1:]
		}
		if len(segments) == 0 {
			continue
		}
		root.insert(segments, entry)
	}
	return root
}
