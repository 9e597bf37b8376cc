package panetree

import (
	"testing"

	"github.com/google/uuid"
)

type fakeTerm struct{ exited bool }

func (f *fakeTerm) HasExited() bool { return f.exited }

// TestSplitThenRemoveCollapsesToSibling verifies: one pane P0 (id=u);
// split(u, Vertical, newleaf) produces a Split whose first child is u and
// second a fresh id v; first_leaf_id() is u; remove(u) collapses the tree
// to a bare Leaf with id v.
func TestSplitThenRemoveCollapsesToSibling(t *testing.T) {
	tree := NewTree(&fakeTerm{})
	u := tree.Root.ID

	v, ok := tree.Split(u, Vertical, &fakeTerm{})
	if !ok {
		t.Fatal("split on root leaf should succeed")
	}
	if tree.Root.IsLeaf {
		t.Fatal("root should now be a Split")
	}
	if tree.Root.First.ID != u {
		t.Fatalf("first child id = %v, want %v", tree.Root.First.ID, u)
	}
	if tree.Root.Second.ID != v {
		t.Fatalf("second child id = %v, want %v", tree.Root.Second.ID, v)
	}
	if first, _ := tree.FirstLeafID(); first != u {
		t.Fatalf("FirstLeafID = %v, want %v", first, u)
	}
	if tree.ActivePane != v {
		t.Fatalf("new leaf should become active pane")
	}

	if !tree.Remove(u) {
		t.Fatal("remove(u) should succeed")
	}
	if !tree.Root.IsLeaf || tree.Root.ID != v {
		t.Fatalf("tree should collapse to bare leaf v, got %+v", tree.Root)
	}
}

func TestRemoveRootLeafIsNoOp(t *testing.T) {
	tree := NewTree(&fakeTerm{})
	u := tree.Root.ID
	if tree.Remove(u) {
		t.Fatal("removing the lone root leaf should be a no-op at the tree level")
	}
	if tree.Root.ID != u {
		t.Fatal("root should be unchanged")
	}
}

func TestEveryLeafHasUniqueUUID(t *testing.T) {
	tree := NewTree(&fakeTerm{})
	u := tree.Root.ID
	v, _ := tree.Split(u, Horizontal, &fakeTerm{})
	w, _ := tree.Split(v, Vertical, &fakeTerm{})

	seen := map[uuid.UUID]bool{}
	for _, leaf := range tree.AllTerminals() {
		if seen[leaf.ID] {
			t.Fatalf("duplicate leaf id %v", leaf.ID)
		}
		seen[leaf.ID] = true
	}
	if len(seen) != 3 {
		t.Fatalf("got %d leaves, want 3", len(seen))
	}
	if !seen[u] || !seen[v] || !seen[w] {
		t.Fatal("expected leaves u, v, w all present")
	}
}

func TestRemoveDeepLeafPromotesSibling(t *testing.T) {
	tree := NewTree(&fakeTerm{})
	u := tree.Root.ID
	v, _ := tree.Split(u, Horizontal, &fakeTerm{})
	w, _ := tree.Split(v, Vertical, &fakeTerm{})

	// Tree: Split{First: u, Second: Split{First: v, Second: w}}
	if !tree.Remove(v) {
		t.Fatal("remove(v) should succeed")
	}
	// v's parent split collapses, promoting w up to be Root.Second.
	if tree.Root.IsLeaf {
		t.Fatal("root should still be a split (u survives alongside w)")
	}
	if tree.Root.Second.ID != w {
		t.Fatalf("w should be promoted into v's old slot, got %+v", tree.Root.Second)
	}
	if _, ok := tree.FindTerminal(v); ok {
		t.Fatal("v should no longer be findable")
	}
}

func TestCleanupExitedRemovesDeadLeavesAndReportsTabDeath(t *testing.T) {
	live := &fakeTerm{}
	dead := &fakeTerm{exited: true}
	tree := NewTree(live)
	u := tree.Root.ID
	deadID, _ := tree.Split(u, Horizontal, dead)

	if CleanupExited(tree) {
		t.Fatal("tab should survive: one pane is still live")
	}
	if _, ok := tree.FindTerminal(deadID); ok {
		t.Fatal("dead leaf should have been removed")
	}
	if !tree.Root.IsLeaf || tree.Root.ID != u {
		t.Fatalf("surviving leaf should be promoted to root, got %+v", tree.Root)
	}

	tree2 := NewTree(&fakeTerm{exited: true})
	if !CleanupExited(tree2) {
		t.Fatal("a tree whose only leaf exited should report the tab as dead")
	}
}
