// Package changes models the change set reported by the sandbox binary and
// turns it into the grouped, hierarchical shape the panel renders.
package changes

// Operation names reported by the sandbox binary. The set is open ended:
// an operation we do not recognize still forms its own group.
const (
	OpCreate = "create"
	OpModify = "modify"
	OpRemove = "remove"
	OpRename = "rename"
	OpError  = "error"
)

// Entry is one filesystem change between the workspace and the sandbox
// overlay. Destination is always present and is the stable key used for
// grouping, pattern matching and diff resolution. Source is only
// meaningful for renames but may be absent even then.
type Entry struct {
	Destination string `json:"destination"`
	Operation   string `json:"operation"`
	Source      string `json:"source,omitempty"`
	Staged      string `json:"staged,omitempty"`
	TmpPath     string `json:"tmp_path,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Groups partitions entries by operation while remembering the order in
// which operations were first seen.
type Groups struct {
	byOp  map[string][]Entry
	seen  []string
}

// GroupByOperation partitions entries by their operation string. Entries
// keep the binary's report order within each group; no entry is dropped
// or duplicated.
func GroupByOperation(entries []Entry) *Groups {
	g := &Groups{byOp: make(map[string][]Entry)}
	for _, e := range entries {
		if _, ok := g.byOp[e.Operation]; !ok {
			g.seen = append(g.seen, e.Operation)
		}
		g.byOp[e.Operation] = append(g.byOp[e.Operation], e)
	}
	return g
}

// Entries returns the entries recorded for the given operation.
func (g *Groups) Entries(op string) []Entry {
	return g.byOp[op]
}

// Len returns the number of distinct operations.
func (g *Groups) Len() int {
	return len(g.seen)
}

// displayPriority fixes the presentation order of the well-known
// operations; everything else trails in first-seen order.
var displayPriority = []string{OpError, OpRemove, OpRename, OpModify, OpCreate}

// Ordered returns the operation names in display order: error, remove,
// rename, modify, create, then any remaining operations in the order they
// first appeared.
func (g *Groups) Ordered() []string {
	ordered := make([]string, 0, len(g.seen))
	known := make(map[string]bool, len(displayPriority))
	for _, op := range displayPriority {
		known[op] = true
		if _, ok := g.byOp[op]; ok {
			ordered = append(ordered, op)
		}
	}
	for _, op := range g.seen {
		if !known[op] {
			ordered = append(ordered, op)
		}
	}
	return ordered
}
