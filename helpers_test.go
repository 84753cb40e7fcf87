package router

import (
	"context"
	"fmt"
)

var ctx = context.Background()

func page() *RouteTree {
	return NewRouteTree(StaticSegment(PageSegmentKey))
}

// testTree is
//
//	"" (root layout)
//	  @children: dashboard
//	    @children: settings
//	      @children: __PAGE__
//	    @analytics: views
//	      @children: __PAGE__
func testTree() *RouteTree {
	root := NewRouteTree(StaticSegment(""),
		ChildrenSlot, NewRouteTree(StaticSegment("dashboard"),
			ChildrenSlot, NewRouteTree(StaticSegment("settings"), ChildrenSlot, page()),
			"analytics", NewRouteTree(StaticSegment("views"), ChildrenSlot, page()),
		),
	)
	root.IsRootLayout = true
	return root
}

// seedFor returns seed data covering every node of t, each rendered as
// "<segment>".
func seedFor(t *RouteTree) *SeedData {
	s := &SeedData{
		Segment:  t.Segment,
		Rendered: fmt.Sprintf("<%v>", t.Segment),
	}
	if !t.IsLeaf() {
		s.Slots = map[string]*SeedData{}
		for slot, child := range t.ParallelRoutes {
			s.Slots[slot] = seedFor(child)
		}
	}
	return s
}

func testState() State {
	tree := testTree()
	return NewState("/dashboard/settings", tree, seedFor(tree), "<title>settings</title>")
}

var dashboardChildren = FlightSegmentPath{
	Steps: []PathStep{{Slot: ChildrenSlot, Segment: StaticSegment("dashboard")}},
	Slot:  ChildrenSlot,
}

var dashboardAnalytics = FlightSegmentPath{
	Steps: []PathStep{{Slot: ChildrenSlot, Segment: StaticSegment("dashboard")}},
	Slot:  "analytics",
}

func profilePatch() FlightDataPath {
	tree := NewRouteTree(StaticSegment("profile"), ChildrenSlot, page())
	return FlightDataPath{
		Path:    dashboardChildren,
		Segment: tree.Segment,
		Tree:    tree,
		Seed:    seedFor(tree),
		Head:    "<title>profile</title>",
	}
}
