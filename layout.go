package router

// IsIncompatibleRootChange reports whether newTree renders a different root
// layout than oldTree. Slot-level patches cannot swap the root layout, so the
// caller must fall back to a full navigation. Only the root segments are
// compared; deeper layout changes are ordinary nested patches.
func IsIncompatibleRootChange(oldTree, newTree *RouteTree) bool {
	if oldTree == nil || newTree == nil {
		return oldTree != newTree
	}
	return rootSegment(oldTree) != rootSegment(newTree)
}

func rootSegment(t *RouteTree) Segment {
	if t == nil {
		return Segment{}
	}
	return t.Segment
}
