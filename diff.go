package router

import (
	"fmt"
	"strings"
)

// ChangeKind classifies a TreeChange.
type ChangeKind int

const (
	// Added is a slot that only the new tree fills.
	Added ChangeKind = iota
	// Removed is a slot that only the old tree fills.
	Removed
	// Replaced is a slot whose segment changed. The subtrees are not
	// compared further.
	Replaced
	// Updated is a node whose segment is unchanged but whose URL, refresh
	// marker or root-layout flag is.
	Updated
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Replaced:
		return "replaced"
	case Updated:
		return "updated"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// TreeChange is one difference between two route trees.
type TreeChange struct {
	Kind ChangeKind
	// Path addresses the changed node as slot/segment pairs from the root.
	Path FlightSegmentPath
	Old  *RouteTree
	New  *RouteTree
}

func (c TreeChange) String() string {
	return fmt.Sprintf("%s %s", c.Kind, c.Path)
}

type diffItem struct {
	steps    []PathStep
	slot     string
	old, new *RouteTree
}

type diffStack []diffItem

func (s *diffStack) push(item diffItem) {
	*s = append(*s, item)
}

func (s *diffStack) pop() (diffItem, bool) {
	if len(*s) == 0 {
		return diffItem{}, false
	}
	item := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return item, true
}

// DiffTrees calls cb for every difference between oldTree and newTree,
// parents before children. Subtrees the two trees share are skipped
// without being visited, so diffing a tree against the result of merging
// a patch into it only walks the patched path. Iteration stops early when
// cb returns false or an error.
func DiffTrees(oldTree, newTree *RouteTree, cb func(TreeChange) (bool, error)) error {
	var stack diffStack
	stack.push(diffItem{old: oldTree, new: newTree})
	for {
		item, ok := stack.pop()
		if !ok {
			return nil
		}
		if item.old == item.new {
			continue
		}
		change := TreeChange{
			Path: FlightSegmentPath{Steps: item.steps, Slot: item.slot},
			Old:  item.old,
			New:  item.new,
		}
		switch {
		case item.old == nil:
			change.Kind = Added
		case item.new == nil:
			change.Kind = Removed
		case item.old.Segment != item.new.Segment:
			change.Kind = Replaced
		default:
			if item.old.URL != item.new.URL ||
				item.old.Refresh != item.new.Refresh ||
				item.old.IsRootLayout != item.new.IsRootLayout {
				change.Kind = Updated
				keepGoing, err := cb(change)
				if err != nil {
					return fmt.Errorf("callback: %w", err)
				}
				if !keepGoing {
					return nil
				}
			}
			pushChildren(&stack, item)
			continue
		}
		keepGoing, err := cb(change)
		if err != nil {
			return fmt.Errorf("callback: %w", err)
		}
		if !keepGoing {
			return nil
		}
	}
}

// pushChildren pushes the slot pairs of two nodes with equal segments in
// reverse order, so they pop in Slots order.
func pushChildren(stack *diffStack, item diffItem) {
	slots := map[string]struct{}{}
	for slot := range item.old.ParallelRoutes {
		slots[slot] = struct{}{}
	}
	for slot := range item.new.ParallelRoutes {
		slots[slot] = struct{}{}
	}
	ordered := sortedSlots(slots)
	var steps []PathStep
	if item.slot != "" {
		steps = make([]PathStep, len(item.steps), len(item.steps)+1)
		copy(steps, item.steps)
		steps = append(steps, PathStep{Slot: item.slot, Segment: item.new.Segment})
	}
	for i := len(ordered) - 1; i >= 0; i-- {
		slot := ordered[i]
		stack.push(diffItem{
			steps: steps,
			slot:  slot,
			old:   item.old.ParallelRoutes[slot],
			new:   item.new.ParallelRoutes[slot],
		})
	}
}

// DescribeDiff renders the differences between two trees, one per line.
func DescribeDiff(oldTree, newTree *RouteTree) string {
	var sb strings.Builder
	err := DiffTrees(oldTree, newTree, func(c TreeChange) (bool, error) {
		sb.WriteString(c.String())
		sb.WriteByte('\n')
		return true, nil
	})
	if err != nil {
		panic(err)
	}
	return sb.String()
}
