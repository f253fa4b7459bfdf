package tui

import (
	"fmt"
	"path/filepath"

	"github.com/codefionn/sbxpanel/internal/changes"
	"github.com/codefionn/sbxpanel/internal/sbx"
)

type rowKind int

const (
	rowRoot rowKind = iota
	rowIndicator
	rowActions
	rowAction
	rowGroup
	rowDir
	rowFile
	rowError
	rowEmpty
)

// row is one visible line of the tree pane. The whole slice is rebuilt
// from scratch on every refresh and every expand/collapse; rows carry no
// identity across rebuilds beyond their id string.
type row struct {
	kind       rowKind
	id         string
	depth      int
	label      string
	root       string
	group      string
	action     actionID
	entry      *changes.Entry
	node       *changes.Node
	expandable bool
	expanded   bool
}

type actionID int

const (
	actionNone actionID = iota
	actionEnter
	actionDiffAll
	actionAcceptAll
	actionRejectAll
	actionSync
	actionStop
	actionDelete
	actionPivot
	actionRestore
)

type actionDef struct {
	id    actionID
	label string
}

// fullActions is the action list outside the overlay root.
var fullActions = []actionDef{
	{actionEnter, "Enter Sandbox"},
	{actionDiffAll, "Diff All Changes"},
	{actionAcceptAll, "Accept All Changes"},
	{actionRejectAll, "Reject All Changes"},
	{actionSync, "Sync Sandbox"},
	{actionStop, "Stop Sandbox"},
	{actionDelete, "Delete Sandbox"},
	{actionPivot, "Open Overlay as Workspace Folder"},
}

// rootState is everything the panel knows about one workspace folder. It
// is replaced wholesale by each status refresh.
type rootState struct {
	loaded     bool
	entries    []changes.Entry
	info       *sbx.Info
	hasMapping bool
	err        error
}

// overlayActive reports whether root itself is the sandbox overlay/upper
// directory, i.e. the user has pivoted into the staged view.
func (s *rootState) overlayActive(root string) bool {
	if s.info == nil || root == "" {
		return false
	}
	return root == s.info.OverlayCwd || root == s.info.UpperCwd
}

// actions returns the context-filtered action list for a root. Inside the
// overlay root only entering the sandbox and, when a mapping was
// recorded, restoring the original folder make sense.
func (s *rootState) actions(root string) []actionDef {
	if s.overlayActive(root) {
		acts := []actionDef{{actionEnter, "Enter Sandbox"}}
		if s.hasMapping {
			acts = append(acts, actionDef{actionRestore, "Restore Workspace Folder"})
		}
		return acts
	}
	return fullActions
}

// isExpanded looks up the user's explicit expand/collapse choice for a
// node id, falling back to the node kind's default.
func (m *Model) isExpanded(id string, def bool) bool {
	if v, ok := m.expanded[id]; ok {
		return v
	}
	return def
}

// buildRows rebuilds the visible row slice from the current per-root
// state. With multiple workspace folders each folder becomes a lazily
// populated section; a single folder is rendered inline.
func (m *Model) buildRows() {
	rows := make([]row, 0, 64)

	if len(m.roots) == 1 {
		rows = m.appendRootContent(rows, m.roots[0], 0)
	} else {
		for _, root := range m.roots {
			id := "root:" + root
			expanded := m.isExpanded(id, false)
			rows = append(rows, row{
				kind:       rowRoot,
				id:         id,
				label:      filepath.Base(root),
				root:       root,
				expandable: true,
				expanded:   expanded,
			})
			if expanded {
				rows = m.appendRootContent(rows, root, 1)
			}
		}
	}

	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) appendRootContent(rows []row, root string, depth int) []row {
	state := m.rootStates[root]
	if state == nil || !state.loaded {
		rows = append(rows, row{kind: rowEmpty, id: "loading:" + root, depth: depth, label: "loading…", root: root})
		return rows
	}

	if state.err != nil {
		// The tree never hard-fails on a status error; it renders a
		// single error leaf instead.
		rows = append(rows, row{
			kind:  rowError,
			id:    "err:" + root,
			depth: depth,
			label: sbx.Hint(state.err),
			root:  root,
		})
		return rows
	}

	if state.overlayActive(root) {
		rows = append(rows, row{
			kind:  rowIndicator,
			id:    "overlay:" + root,
			depth: depth,
			label: "⬢ sandbox overlay active",
			root:  root,
		})
	}

	actionsID := "actions:" + root
	actionsExpanded := m.isExpanded(actionsID, true)
	rows = append(rows, row{
		kind:       rowActions,
		id:         actionsID,
		depth:      depth,
		label:      "Actions",
		root:       root,
		expandable: true,
		expanded:   actionsExpanded,
	})
	if actionsExpanded {
		for _, act := range state.actions(root) {
			rows = append(rows, row{
				kind:   rowAction,
				id:     fmt.Sprintf("action:%s:%d", root, act.id),
				depth:  depth + 1,
				label:  act.label,
				root:   root,
				action: act.id,
			})
		}
	}

	groups := changes.GroupByOperation(state.entries)
	if groups.Len() == 0 {
		rows = append(rows, row{kind: rowEmpty, id: "empty:" + root, depth: depth, label: "no changes", root: root})
		return rows
	}

	for _, op := range groups.Ordered() {
		entries := groups.Entries(op)
		groupID := fmt.Sprintf("group:%s:%s", root, op)
		expanded := m.isExpanded(groupID, true)
		rows = append(rows, row{
			kind:       rowGroup,
			id:         groupID,
			depth:      depth,
			label:      fmt.Sprintf("%s (%d)", op, len(entries)),
			root:       root,
			group:      op,
			expandable: true,
			expanded:   expanded,
		})
		if !expanded {
			continue
		}
		tree := changes.BuildHierarchy(entries, root)
		rows = m.appendNodes(rows, tree, root, op, depth+1)
	}

	return rows
}

func (m *Model) appendNodes(rows []row, parent *changes.Node, root, op string, depth int) []row {
	for _, node := range parent.Children() {
		children := node.Children()
		if len(children) == 0 {
			rows = append(rows, row{
				kind:  rowFile,
				id:    fmt.Sprintf("node:%s:%s:%s", root, op, node.Path),
				depth: depth,
				label: leafLabel(node),
				root:  root,
				group: op,
				entry: node.Entry,
				node:  node,
			})
			continue
		}

		id := fmt.Sprintf("node:%s:%s:%s", root, op, node.Path)
		expanded := m.isExpanded(id, true)
		r := row{
			kind:       rowDir,
			id:         id,
			depth:      depth,
			label:      node.Name,
			root:       root,
			group:      op,
			node:       node,
			expandable: true,
			expanded:   expanded,
		}
		// A node can be a leaf and a directory at once when the binary
		// reports both a path and something beneath it.
		if node.IsLeaf() {
			r.entry = node.Entry
		}
		rows = append(rows, r)
		if expanded {
			rows = m.appendNodes(rows, node, root, op, depth+1)
		}
	}
	return rows
}

func leafLabel(node *changes.Node) string {
	entry := node.Entry
	if entry == nil {
		return node.Name
	}
	switch {
	case entry.Operation == changes.OpRename && entry.Source != "":
		return fmt.Sprintf("%s ← %s", node.Name, entry.Source)
	case entry.Operation == changes.OpError && entry.Error != "":
		return fmt.Sprintf("%s: %s", node.Name, entry.Error)
	default:
		return node.Name
	}
}

// selectionPatterns derives the diff/accept/reject patterns for the row
// under the cursor: a leaf contributes its destination, a directory every
// destination beneath it, a group every destination in the group.
func (m *Model) selectionPatterns(r row) []string {
	switch r.kind {
	case rowFile:
		if r.entry != nil {
			return []string{r.entry.Destination}
		}
	case rowDir:
		var patterns []string
		if r.entry != nil {
			patterns = append(patterns, r.entry.Destination)
		}
		for _, leaf := range r.node.Leaves() {
			if leaf.Entry != nil && (r.entry == nil || leaf.Entry.Destination != r.entry.Destination) {
				patterns = append(patterns, leaf.Entry.Destination)
			}
		}
		return patterns
	case rowGroup:
		state := m.rootStates[r.root]
		if state == nil {
			return nil
		}
		var patterns []string
		for _, entry := range changes.GroupByOperation(state.entries).Entries(r.group) {
			patterns = append(patterns, entry.Destination)
		}
		return patterns
	}
	return nil
}
