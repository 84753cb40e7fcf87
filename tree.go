package router

import (
	"fmt"
	"sort"
	"strings"
)

// ChildrenSlot is the slot holding a layout's main content.
const ChildrenSlot = "children"

// RefreshMarker asks the renderer to refetch a segment's data.
type RefreshMarker string

const (
	NoRefresh RefreshMarker = ""
	Refetch   RefreshMarker = "refetch"
	Refresh   RefreshMarker = "refresh"
)

// RouteTree is one node of the active route hierarchy. A tree is immutable
// once it is reachable from a State: new versions share unmodified subtrees
// with old ones, so nodes must never be modified in place.
type RouteTree struct {
	Segment Segment
	// ParallelRoutes maps slot names to the active child in that slot. A node
	// without children is a leaf route.
	ParallelRoutes map[string]*RouteTree
	// URL is the URL the segment must be refreshed from, when Refresh is set.
	URL          string
	Refresh      RefreshMarker
	IsRootLayout bool
}

// NewRouteTree returns a node for segment with the given children, keyed by
// slot name in alternating string/*RouteTree order.
func NewRouteTree(segment Segment, slotsAndChildren ...interface{}) *RouteTree {
	if len(slotsAndChildren)%2 != 0 {
		panic("NewRouteTree needs slot/child pairs")
	}
	t := &RouteTree{Segment: segment, ParallelRoutes: make(map[string]*RouteTree, len(slotsAndChildren)/2)}
	for i := 0; i < len(slotsAndChildren); i += 2 {
		t.ParallelRoutes[slotsAndChildren[i].(string)] = slotsAndChildren[i+1].(*RouteTree)
	}
	return t
}

// Child returns the child in the named slot, or nil.
func (t *RouteTree) Child(slot string) *RouteTree {
	if t == nil {
		return nil
	}
	return t.ParallelRoutes[slot]
}

// IsLeaf reports whether the node has no parallel routes.
func (t *RouteTree) IsLeaf() bool {
	return len(t.ParallelRoutes) == 0
}

// Slots returns the node's slot names, "children" first and the rest sorted.
func (t *RouteTree) Slots() []string {
	return sortedSlots(t.ParallelRoutes)
}

func sortedSlots[V any](m map[string]V) []string {
	slots := make([]string, 0, len(m))
	for slot := range m {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i] == ChildrenSlot || slots[j] == ChildrenSlot {
			return slots[i] == ChildrenSlot && slots[j] != ChildrenSlot
		}
		return slots[i] < slots[j]
	})
	return slots
}

// xcopy returns a shallow copy whose slot map can be modified without
// affecting t. The children themselves are shared.
func (t *RouteTree) xcopy() *RouteTree {
	newTree := *t
	newTree.ParallelRoutes = make(map[string]*RouteTree, len(t.ParallelRoutes)+1)
	for slot, child := range t.ParallelRoutes {
		newTree.ParallelRoutes[slot] = child
	}
	return &newTree
}

// withSlot returns a copy of t with one slot replaced.
func (t *RouteTree) withSlot(slot string, child *RouteTree) *RouteTree {
	newTree := t.xcopy()
	newTree.ParallelRoutes[slot] = child
	return newTree
}

// Equal reports whether two trees describe the same routes and metadata.
func (t *RouteTree) Equal(other *RouteTree) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.Segment != other.Segment || t.URL != other.URL ||
		t.Refresh != other.Refresh || t.IsRootLayout != other.IsRootLayout ||
		len(t.ParallelRoutes) != len(other.ParallelRoutes) {
		return false
	}
	for slot, child := range t.ParallelRoutes {
		if !child.Equal(other.ParallelRoutes[slot]) {
			return false
		}
	}
	return true
}

func (t *RouteTree) String() string {
	var sb strings.Builder
	t.write(&sb, "")
	return sb.String()
}

func (t *RouteTree) write(sb *strings.Builder, indent string) {
	if t == nil {
		sb.WriteString(indent + "NIL\n")
		return
	}
	fmt.Fprintf(sb, "%s%v", indent, t.Segment)
	if t.Refresh != NoRefresh {
		fmt.Fprintf(sb, " %s=%s", t.Refresh, t.URL)
	}
	if t.IsRootLayout {
		sb.WriteString(" (root layout)")
	}
	if t.IsLeaf() {
		sb.WriteString("\n")
		return
	}
	sb.WriteString(" {\n")
	for _, slot := range t.Slots() {
		fmt.Fprintf(sb, "%s  @%s:\n", indent, slot)
		t.ParallelRoutes[slot].write(sb, indent+"    ")
	}
	sb.WriteString(indent + "}\n")
}
