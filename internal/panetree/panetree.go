// Package panetree implements the binary tree of terminal leaves a tab is
// built from: horizontal/vertical splits, leaf removal with sibling
// promotion, and focus tracking. It is deliberately UI-agnostic — the UI
// toolkit's flex-layout code walks the tree and assigns pixel rects; this
// package only owns the tree shape and the terminal identity at each leaf.
package panetree

import (
	"github.com/google/uuid"
)

// Direction is which axis a Split divides its two children along.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// Terminal is the payload a Leaf carries: the core only needs an opaque
// identity plus a liveness check, so panetree depends on an interface
// rather than internal/pty directly, keeping this package reusable for
// pane kinds beyond PTYs (SSH sessions, a file browser) later.
type Terminal interface {
	HasExited() bool
}

// Node is a tagged sum type: exactly one of Leaf or Split is populated,
// selected by IsLeaf.
type Node struct {
	IsLeaf bool

	// Leaf fields.
	ID       uuid.UUID
	Terminal Terminal

	// Split fields.
	Dir           Direction
	First, Second *Node
	Ratio         float64
}

// NewLeaf wraps a Terminal in a fresh, uniquely-identified Leaf node.
func NewLeaf(t Terminal) *Node {
	return &Node{IsLeaf: true, ID: uuid.New(), Terminal: t}
}

// Tree owns one tab's pane layout: a root node plus the UUID of whichever
// leaf currently has keyboard focus. ActivePane always names a Leaf still
// present in Root.
type Tree struct {
	Root       *Node
	ActivePane uuid.UUID
}

// NewTree starts a tab with a single pane.
func NewTree(t Terminal) *Tree {
	leaf := NewLeaf(t)
	return &Tree{Root: leaf, ActivePane: leaf.ID}
}

// Split finds the Leaf with targetID and replaces it with a Split whose
// first child is the old leaf and second is a fresh leaf wrapping newTerm.
// The new leaf becomes the active pane. Returns the new leaf's ID, or
// (uuid.Nil, false) if targetID wasn't found.
func (t *Tree) Split(targetID uuid.UUID, dir Direction, newTerm Terminal) (uuid.UUID, bool) {
	newLeaf := NewLeaf(newTerm)
	if !replaceLeaf(t.Root, targetID, func(old *Node) *Node {
		return &Node{
			IsLeaf: false,
			Dir:    dir,
			First:  old,
			Second: newLeaf,
			Ratio:  0.5,
		}
	}) {
		return uuid.Nil, false
	}
	t.ActivePane = newLeaf.ID
	return newLeaf.ID, true
}

// Remove finds the Leaf with targetID and promotes its sibling in its
// parent's place. Removing the root leaf is a no-op at the tree level (the
// caller is expected to close the tab instead). If the
// active pane was removed, ActivePane is retargeted to the tree's first
// remaining leaf.
func (t *Tree) Remove(targetID uuid.UUID) bool {
	if t.Root.IsLeaf && t.Root.ID == targetID {
		return false
	}
	removed := removeLeaf(&t.Root, targetID)
	if removed && t.ActivePane == targetID {
		if id, ok := t.FirstLeafID(); ok {
			t.ActivePane = id
		}
	}
	return removed
}

// replaceLeaf walks the tree looking for the leaf with id, replacing it
// in-place (via its parent's First/Second pointer, or root itself) with
// whatever build returns. Returns whether a leaf was found and replaced.
func replaceLeaf(n *Node, id uuid.UUID, build func(*Node) *Node) bool {
	if n == nil {
		return false
	}
	if n.IsLeaf {
		return false // caller handles matching the root case itself
	}
	if n.First.IsLeaf && n.First.ID == id {
		n.First = build(n.First)
		return true
	}
	if n.Second.IsLeaf && n.Second.ID == id {
		n.Second = build(n.Second)
		return true
	}
	return replaceLeaf(n.First, id, build) || replaceLeaf(n.Second, id, build)
}

// removeLeaf mirrors replaceLeaf but for deletion: *n is the slot to
// potentially rewrite (a pointer-to-pointer so a Split can be collapsed
// into its surviving child in its parent's slot).
func removeLeaf(n **Node, id uuid.UUID) bool {
	cur := *n
	if cur == nil || cur.IsLeaf {
		return false
	}
	if cur.First.IsLeaf && cur.First.ID == id {
		*n = cur.Second
		return true
	}
	if cur.Second.IsLeaf && cur.Second.ID == id {
		*n = cur.First
		return true
	}
	return removeLeaf(&cur.First, id) || removeLeaf(&cur.Second, id)
}

// FindTerminal returns the Terminal at the leaf with the given id.
func (t *Tree) FindTerminal(id uuid.UUID) (Terminal, bool) {
	var found Terminal
	var ok bool
	walk(t.Root, func(n *Node) {
		if n.IsLeaf && n.ID == id {
			found, ok = n.Terminal, true
		}
	})
	return found, ok
}

// AllTerminals returns every leaf's (id, Terminal) pair, in tree order.
func (t *Tree) AllTerminals() []struct {
	ID       uuid.UUID
	Terminal Terminal
} {
	var out []struct {
		ID       uuid.UUID
		Terminal Terminal
	}
	walk(t.Root, func(n *Node) {
		if n.IsLeaf {
			out = append(out, struct {
				ID       uuid.UUID
				Terminal Terminal
			}{n.ID, n.Terminal})
		}
	})
	return out
}

// FirstLeafID returns the id of the first leaf reachable from Root,
// left-first. Always succeeds on a non-empty tree.
func (t *Tree) FirstLeafID() (uuid.UUID, bool) {
	n := t.Root
	for n != nil {
		if n.IsLeaf {
			return n.ID, true
		}
		n = n.First
	}
	return uuid.Nil, false
}

func walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	if !n.IsLeaf {
		walk(n.First, fn)
		walk(n.Second, fn)
	}
}

// Workspace owns every tab; a Tab is just a Tree plus whatever chrome (name,
// title) the UI layer wants — the core only needs the tree and a cleanup
// hook, so Tab aliases Tree directly.
type Tab = Tree

// CleanupExited walks every leaf and removes any whose Terminal reports
// HasExited, promoting siblings as it goes. It returns true
// if the tab's entire tree has exited (root itself is a dead leaf), in
// which case the caller should remove the tab.
func CleanupExited(t *Tab) (tabDead bool) {
	for {
		var deadID uuid.UUID
		found := false
		walk(t.Root, func(n *Node) {
			if !found && n.IsLeaf && n.Terminal != nil && n.Terminal.HasExited() {
				deadID, found = n.ID, true
			}
		})
		if !found {
			return false
		}
		if t.Root.IsLeaf && t.Root.ID == deadID {
			return true
		}
		t.Remove(deadID)
	}
}
