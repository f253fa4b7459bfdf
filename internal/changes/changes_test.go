package changes

import (
	"reflect"
	"testing"
)

func TestGroupByOperationPartitions(t *testing.T) {
	entries := []Entry{
		{Destination: "/w/a.txt", Operation: OpModify},
		{Destination: "/w/b.txt", Operation: OpCreate},
		{Destination: "/w/c.txt", Operation: OpModify},
		{Destination: "/w/d.txt", Operation: "weird-op"},
	}

	groups := GroupByOperation(entries)

	if groups.Len() != 3 {
		t.Fatalf("expected 3 groups, got %d", groups.Len())
	}

	// Every entry lands in the group matching its operation, none are
	// dropped or duplicated.
	total := 0
	for _, op := range groups.Ordered() {
		for _, entry := range groups.Entries(op) {
			if entry.Operation != op {
				t.Errorf("entry %s in group %q has operation %q", entry.Destination, op, entry.Operation)
			}
			total++
		}
	}
	if total != len(entries) {
		t.Errorf("expected %d entries across groups, got %d", len(entries), total)
	}

	// Report order is preserved within a group.
	modify := groups.Entries(OpModify)
	if len(modify) != 2 || modify[0].Destination != "/w/a.txt" || modify[1].Destination != "/w/c.txt" {
		t.Errorf("modify group out of order: %+v", modify)
	}
}

func TestGroupsOrderedPriority(t *testing.T) {
	entries := []Entry{
		{Destination: "/w/1", Operation: "zeta"},
		{Destination: "/w/2", Operation: OpCreate},
		{Destination: "/w/3", Operation: OpError},
		{Destination: "/w/4", Operation: "alpha"},
		{Destination: "/w/5", Operation: OpRemove},
	}

	got := GroupByOperation(entries).Ordered()
	// Known operations first by fixed priority, then unknown ones in
	// first-seen order (zeta before alpha).
	want := []string{OpError, OpRemove, OpCreate, "zeta", "alpha"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ordered() = %v, want %v", got, want)
	}
}

func TestGroupByOperationEmpty(t *testing.T) {
	groups := GroupByOperation(nil)
	if groups.Len() != 0 {
		t.Errorf("expected no groups, got %d", groups.Len())
	}
	if len(groups.Ordered()) != 0 {
		t.Errorf("expected no ordered keys, got %v", groups.Ordered())
	}
}
