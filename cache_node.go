package router

import (
	"fmt"
	"strings"
)

// CacheStatus is the loading status of a cache node.
type CacheStatus int

const (
	// StatusPending marks a freshly allocated node that is still being filled.
	StatusPending CacheStatus = iota
	// StatusLazy marks a node whose output must be fetched by the renderer.
	StatusLazy
	// StatusReady marks a node holding rendered output.
	StatusReady
)

func (s CacheStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLazy:
		return "lazy"
	case StatusReady:
		return "ready"
	}
	return fmt.Sprintf("CacheStatus(%d)", int(s))
}

// CacheNode holds the rendered output of one route segment and, per slot, the
// cache of its active child. Its shape mirrors the RouteTree it was rendered
// for. Once a node is published as part of a State it is shared and must not
// change; writers allocate new nodes instead.
type CacheNode struct {
	Status CacheStatus
	// Key is the cache key of the segment the output was rendered for.
	Key string
	// Rendered is the segment's rendered output, nil until Status is ready.
	Rendered interface{}
	// Loading is the segment's loading boundary output, if any.
	Loading interface{}
	// Head is the document head payload, set on leaf nodes.
	Head           interface{}
	ParallelRoutes map[string]*CacheNode
	shared         bool
}

// CreateEmptyCacheNode allocates a fresh, empty, pending node.
func CreateEmptyCacheNode() *CacheNode {
	return &CacheNode{
		Status:         StatusPending,
		ParallelRoutes: map[string]*CacheNode{},
	}
}

// Child returns the cache node in the named slot, or nil.
func (n *CacheNode) Child(slot string) *CacheNode {
	if n == nil {
		return nil
	}
	return n.ParallelRoutes[slot]
}

// IsShared reports whether the node has been published and is read-only.
func (n *CacheNode) IsShared() bool {
	return n.shared
}

func (n *CacheNode) mustBeMutable() {
	if n.shared {
		panic(fmt.Sprintf("cache node %p (key %q) is published and cannot be modified", n, n.Key))
	}
}

func (n *CacheNode) setChild(slot string, child *CacheNode) {
	n.mustBeMutable()
	if n.ParallelRoutes == nil {
		n.ParallelRoutes = map[string]*CacheNode{}
	}
	n.ParallelRoutes[slot] = child
}

// inherit copies the output of prev into n and links n to prev's children by
// reference. A nil prev leaves n lazy and empty.
func (n *CacheNode) inherit(prev *CacheNode) {
	n.mustBeMutable()
	if prev == nil {
		n.Status = StatusLazy
		n.ParallelRoutes = map[string]*CacheNode{}
		return
	}
	n.Status = prev.Status
	n.Key = prev.Key
	n.Rendered = prev.Rendered
	n.Loading = prev.Loading
	n.Head = prev.Head
	n.ParallelRoutes = make(map[string]*CacheNode, len(prev.ParallelRoutes)+1)
	for slot, child := range prev.ParallelRoutes {
		n.ParallelRoutes[slot] = child
	}
}

// ToShared marks n and every unpublished node reachable from it as
// published. Already-shared subtrees are not visited again, so the cost is
// proportional to the number of freshly written nodes.
func (n *CacheNode) ToShared() *CacheNode {
	if n == nil || n.shared {
		return n
	}
	n.shared = true
	for _, child := range n.ParallelRoutes {
		child.ToShared()
	}
	return n
}

func (n *CacheNode) String() string {
	var sb strings.Builder
	n.write(&sb, "")
	return sb.String()
}

func (n *CacheNode) write(sb *strings.Builder, indent string) {
	if n == nil {
		sb.WriteString(indent + "NIL\n")
		return
	}
	fmt.Fprintf(sb, "%s%q %s", indent, n.Key, n.Status)
	if n.Rendered != nil {
		fmt.Fprintf(sb, " rendered=%v", n.Rendered)
	}
	if n.Head != nil {
		fmt.Fprintf(sb, " head=%v", n.Head)
	}
	sb.WriteString("\n")
	for _, slot := range sortedSlots(n.ParallelRoutes) {
		fmt.Fprintf(sb, "%s  @%s:\n", indent, slot)
		n.ParallelRoutes[slot].write(sb, indent+"    ")
	}
}
