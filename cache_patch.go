package router

// ApplyCachePatch fills fresh, a newly allocated node that is not yet
// published, so that it becomes prev with the patch described by data
// applied. Only the nodes along the patch's path are allocated: every slot
// the path does not descend into is linked to prev's node by reference.
// prev is never modified.
//
// Slots the previous cache has no node for, or holds a node rendered for a
// different segment, are treated as lazy: the renderer fetches them on
// demand.
//
// Without the merged route tree a default patch can only be checked against
// the previous cache. Callers holding the tree use ApplyCachePatchForTree.
func ApplyCachePatch(prev, fresh *CacheNode, data FlightDataPath) {
	ApplyCachePatchForTree(prev, fresh, data, nil)
}

// ApplyCachePatchForTree is ApplyCachePatch for a patch already merged into
// tree, the result of MergeTree. Slots where tree kept an active segment
// against a default patch keep their previous cache node, or get a lazy node
// for the active segment when the previous cache never had one.
func ApplyCachePatchForTree(prev, fresh *CacheNode, data FlightDataPath, tree *RouteTree) {
	fresh.mustBeMutable()
	if data.IsRoot() {
		fillFromSeed(fresh, sameKey(prev, data.Tree.Segment.CacheKey()), data.Tree, data.Seed, data.Head, tree)
		return
	}
	fresh.inherit(prev)
	node, prevNode, merged := fresh, prev, tree
	for _, step := range data.Path.Steps {
		prevChild := sameKey(prevNode.Child(step.Slot), step.Segment.CacheKey())
		child := &CacheNode{}
		child.inherit(prevChild)
		if prevChild == nil {
			child.Key = step.Segment.CacheKey()
		}
		node.setChild(step.Slot, child)
		node, prevNode, merged = child, prevChild, merged.Child(step.Slot)
	}
	if data.Path.Slot == "" {
		if keepsActiveChild(data.Tree, prevNode, merged) {
			return
		}
		fillFromSeed(node, sameKey(prevNode, data.Tree.Segment.CacheKey()), data.Tree, data.Seed, data.Head, merged)
		return
	}
	prevTarget, mergedTarget := prevNode.Child(data.Path.Slot), merged.Child(data.Path.Slot)
	if keepsActiveChild(data.Tree, prevTarget, mergedTarget) {
		node.setChild(data.Path.Slot, keptChild(prevTarget, mergedTarget))
		return
	}
	target := &CacheNode{}
	fillFromSeed(target, sameKey(prevTarget, data.Tree.Segment.CacheKey()), data.Tree, data.Seed, data.Head, mergedTarget)
	node.setChild(data.Path.Slot, target)
}

// keepsActiveChild mirrors applyPatch: a default segment never displaces an
// active one. merged, the node the merged tree holds in place of patch,
// decides when known; otherwise the previous cache stands in for the tree.
func keepsActiveChild(patch *RouteTree, prev *CacheNode, merged *RouteTree) bool {
	if !patch.Segment.IsDefault() {
		return false
	}
	if merged != nil {
		return !merged.Segment.IsDefault()
	}
	return prev != nil && prev.Key != DefaultSegmentKey
}

// keptChild is the cache for a slot whose active segment survived a default
// patch.
func keptChild(prev *CacheNode, merged *RouteTree) *CacheNode {
	if merged == nil || (prev != nil && prev.Key == merged.Segment.CacheKey()) {
		return prev
	}
	return &CacheNode{
		Status:         StatusLazy,
		Key:            merged.Segment.CacheKey(),
		ParallelRoutes: map[string]*CacheNode{},
	}
}

func sameKey(n *CacheNode, key string) *CacheNode {
	if n == nil || n.Key != key {
		return nil
	}
	return n
}

// fillFromSeed makes n the cache for tree, taking rendered output from seed.
// Nodes the seed does not cover are lazy. Slots of prev that tree does not
// mention stay linked by reference. merged is tree's counterpart in the
// merged route tree, or nil when unknown.
func fillFromSeed(n, prev *CacheNode, tree *RouteTree, seed *SeedData, head interface{}, merged *RouteTree) {
	n.mustBeMutable()
	n.Key = tree.Segment.CacheKey()
	n.Head = nil
	if seed != nil && seed.Rendered != nil {
		n.Status, n.Rendered, n.Loading = StatusReady, seed.Rendered, seed.Loading
	} else {
		n.Status, n.Rendered, n.Loading = StatusLazy, nil, nil
	}
	n.ParallelRoutes = make(map[string]*CacheNode, len(tree.ParallelRoutes))
	if prev != nil {
		for slot, child := range prev.ParallelRoutes {
			n.ParallelRoutes[slot] = child
		}
	}
	if tree.IsLeaf() {
		n.Head = head
		return
	}
	for slot, childTree := range tree.ParallelRoutes {
		prevChild, mergedChild := prev.Child(slot), merged.Child(slot)
		if keepsActiveChild(childTree, prevChild, mergedChild) {
			if kept := keptChild(prevChild, mergedChild); kept != nil {
				n.ParallelRoutes[slot] = kept
			}
			continue
		}
		child := &CacheNode{}
		fillFromSeed(child, sameKey(prevChild, childTree.Segment.CacheKey()), childTree, seed.Child(slot), head, mergedChild)
		n.ParallelRoutes[slot] = child
	}
}
