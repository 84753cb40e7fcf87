package router

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSegmentMismatch is returned when a patch's path cannot be resolved
// against the current tree.
var ErrSegmentMismatch = errors.New("patch path does not match the route tree")

// PathStep descends through Slot into a child that must carry Segment.
type PathStep struct {
	Slot    string
	Segment Segment
}

// FlightSegmentPath locates where a patch applies. Steps are walked from the
// root and must match the tree exactly. When Slot is set the patch is grafted
// under that slot of the node the steps lead to; otherwise it applies to that
// node itself. The zero value addresses the root.
type FlightSegmentPath struct {
	Steps []PathStep
	Slot  string
}

// Depth is the number of slots the path descends through.
func (p FlightSegmentPath) Depth() int {
	if p.Slot != "" {
		return len(p.Steps) + 1
	}
	return len(p.Steps)
}

func (p FlightSegmentPath) String() string {
	var sb strings.Builder
	sb.WriteString("/")
	for _, step := range p.Steps {
		fmt.Fprintf(&sb, "@%s/%v/", step.Slot, step.Segment)
	}
	if p.Slot != "" {
		fmt.Fprintf(&sb, "@%s", p.Slot)
	}
	return sb.String()
}

// MergeTree returns a new tree with patch spliced in at path. Only the nodes
// from the root to the splice point are rebuilt; every other subtree is
// shared with tree, and tree itself is left untouched. Page segments adopted
// from the patch are marked for refresh from canonicalURL.
//
// If a step of the path names a slot whose child carries a different segment
// than the one the server saw, the merge fails with ErrSegmentMismatch.
func MergeTree(path FlightSegmentPath, tree, patch *RouteTree, canonicalURL string) (*RouteTree, error) {
	if patch == nil {
		return nil, fmt.Errorf("%w: empty patch at %v", ErrSegmentMismatch, path)
	}
	if tree == nil {
		if path.Depth() > 0 {
			return nil, fmt.Errorf("%w: no tree to resolve %v against", ErrSegmentMismatch, path)
		}
		return markActivePages(patch, canonicalURL), nil
	}
	return mergeAt(tree, path.Steps, path.Slot, patch, canonicalURL)
}

func mergeAt(node *RouteTree, steps []PathStep, slot string, patch *RouteTree, canonicalURL string) (*RouteTree, error) {
	if len(steps) == 0 {
		if slot == "" {
			return applyPatch(node, patch, canonicalURL), nil
		}
		child := node.Child(slot)
		merged := applyPatch(child, patch, canonicalURL)
		if merged == child {
			return node, nil
		}
		return node.withSlot(slot, merged), nil
	}
	step := steps[0]
	child := node.Child(step.Slot)
	if child == nil {
		return nil, fmt.Errorf("%w: %v has no slot %q", ErrSegmentMismatch, node.Segment, step.Slot)
	}
	if child.Segment != step.Segment {
		return nil, fmt.Errorf("%w: slot %q of %v holds %v, expected %v",
			ErrSegmentMismatch, step.Slot, node.Segment, child.Segment, step.Segment)
	}
	merged, err := mergeAt(child, steps[1:], slot, patch, canonicalURL)
	if err != nil {
		return nil, err
	}
	if merged == child {
		return node, nil
	}
	return node.withSlot(step.Slot, merged), nil
}

// applyPatch merges patch into existing. A patch for the same segment keeps
// the slots it does not mention and recursively merges the ones it does; a
// patch for another segment replaces existing wholesale. A default segment
// never displaces an active one. existing is returned as-is when the patch
// changes nothing.
func applyPatch(existing, patch *RouteTree, canonicalURL string) *RouteTree {
	if patch == nil {
		return existing
	}
	if existing == nil {
		return markActivePages(patch, canonicalURL)
	}
	if patch.Segment.IsDefault() && !existing.Segment.IsDefault() {
		return existing
	}
	if patch.Segment != existing.Segment {
		return markActivePages(patch, canonicalURL)
	}
	var out *RouteTree
	mut := func() *RouteTree {
		if out == nil {
			out = existing.xcopy()
		}
		return out
	}
	for slot, patchChild := range patch.ParallelRoutes {
		existingChild := existing.ParallelRoutes[slot]
		merged := applyPatch(existingChild, patchChild, canonicalURL)
		if merged != existingChild {
			mut().ParallelRoutes[slot] = merged
		}
	}
	if patch.URL != "" && patch.URL != existing.URL {
		mut().URL = patch.URL
	}
	if patch.Refresh != NoRefresh && patch.Refresh != existing.Refresh {
		mut().Refresh = patch.Refresh
	}
	if patch.IsRootLayout && !existing.IsRootLayout {
		mut().IsRootLayout = true
	}
	if out == nil {
		return existing
	}
	return out
}

// markActivePages returns t with every page leaf that is not yet marked for
// refresh pointed at url. Unchanged subtrees are shared.
func markActivePages(t *RouteTree, url string) *RouteTree {
	if t == nil || url == "" {
		return t
	}
	out := t
	if t.Segment.IsPage() && t.Refresh != Refresh {
		out = t.xcopy()
		out.URL = url
		out.Refresh = Refresh
	}
	for slot, child := range t.ParallelRoutes {
		marked := markActivePages(child, url)
		if marked == child {
			continue
		}
		if out == t {
			out = t.xcopy()
		}
		out.ParallelRoutes[slot] = marked
	}
	return out
}
