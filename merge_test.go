package router

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSharesUntouchedSubtrees(t *testing.T) {
	t.Parallel()
	old := testTree()
	p := profilePatch()

	merged, err := MergeTree(p.Path, old, p.Tree, "/dashboard/profile")
	require.NoError(t, err)

	assert.NotSame(t, old, merged)
	assert.NotSame(t, old.Child(ChildrenSlot), merged.Child(ChildrenSlot))
	assert.Same(t, old.Child(ChildrenSlot).Child("analytics"), merged.Child(ChildrenSlot).Child("analytics"))
	assert.True(t, merged.IsRootLayout)

	profile := merged.Child(ChildrenSlot).Child(ChildrenSlot)
	require.Equal(t, StaticSegment("profile"), profile.Segment)
	leaf := profile.Child(ChildrenSlot)
	assert.Equal(t, Refresh, leaf.Refresh)
	assert.Equal(t, "/dashboard/profile", leaf.URL)

	// neither input was touched
	assert.True(t, old.Equal(testTree()), old.String())
	assert.Equal(t, NoRefresh, p.Tree.Child(ChildrenSlot).Refresh)
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()
	tree := testTree()

	merged, err := MergeTree(FlightSegmentPath{}, tree, tree, "/dashboard/settings")
	require.NoError(t, err)
	assert.Same(t, tree, merged)

	// an equal but separately built subtree changes nothing either
	settings := NewRouteTree(StaticSegment("settings"), ChildrenSlot, page())
	merged, err = MergeTree(dashboardChildren, tree, settings, "/dashboard/settings")
	require.NoError(t, err)
	assert.Same(t, tree, merged)
}

func TestMergeMismatch(t *testing.T) {
	t.Parallel()
	tree := testTree()
	for name, path := range map[string]FlightSegmentPath{
		"wrong segment": {
			Steps: []PathStep{{Slot: ChildrenSlot, Segment: StaticSegment("blog")}},
			Slot:  ChildrenSlot,
		},
		"missing slot": {
			Steps: []PathStep{{Slot: "modal", Segment: StaticSegment("dashboard")}},
			Slot:  ChildrenSlot,
		},
		"too deep": {
			Steps: []PathStep{
				{Slot: ChildrenSlot, Segment: StaticSegment("dashboard")},
				{Slot: ChildrenSlot, Segment: StaticSegment("settings")},
				{Slot: ChildrenSlot, Segment: StaticSegment(PageSegmentKey)},
				{Slot: ChildrenSlot, Segment: StaticSegment("nothing")},
			},
			Slot: ChildrenSlot,
		},
		"static against dynamic": {
			Steps: []PathStep{{Slot: ChildrenSlot, Segment: DynamicSegment("section", "dashboard", ParamDynamic)}},
			Slot:  ChildrenSlot,
		},
	} {
		_, err := MergeTree(path, tree, page(), "/x")
		assert.True(t, errors.Is(err, ErrSegmentMismatch), "%s: %v", name, err)
	}
	assert.True(t, tree.Equal(testTree()))
}

func TestMergeWithoutTree(t *testing.T) {
	t.Parallel()
	merged, err := MergeTree(FlightSegmentPath{}, nil, testTree(), "/dashboard/settings")
	require.NoError(t, err)
	assert.Equal(t, Refresh, merged.Child(ChildrenSlot).Child(ChildrenSlot).Child(ChildrenSlot).Refresh)

	_, err = MergeTree(dashboardChildren, nil, page(), "/")
	assert.True(t, errors.Is(err, ErrSegmentMismatch))

	_, err = MergeTree(FlightSegmentPath{}, testTree(), nil, "/")
	assert.True(t, errors.Is(err, ErrSegmentMismatch))
}

func TestMergeDefaultKeepsActiveSegment(t *testing.T) {
	t.Parallel()
	tree := testTree()
	merged, err := MergeTree(dashboardAnalytics, tree, NewRouteTree(StaticSegment(DefaultSegmentKey)), "/")
	require.NoError(t, err)
	assert.Same(t, tree, merged)

	// a default patch for a slot nothing occupies is adopted
	modal := FlightSegmentPath{Steps: dashboardChildren.Steps, Slot: "modal"}
	merged, err = MergeTree(modal, tree, NewRouteTree(StaticSegment(DefaultSegmentKey)), "/")
	require.NoError(t, err)
	assert.True(t, merged.Child(ChildrenSlot).Child("modal").Segment.IsDefault())
}

func TestMergeSameSegmentKeepsOmittedSlots(t *testing.T) {
	t.Parallel()
	tree := testTree()
	patch := NewRouteTree(StaticSegment("dashboard"),
		"modal", NewRouteTree(StaticSegment("(.)photo"), ChildrenSlot, page()))
	merged, err := MergeTree(FlightSegmentPath{Slot: ChildrenSlot}, tree, patch, "/photo")
	require.NoError(t, err)

	oldDash, newDash := tree.Child(ChildrenSlot), merged.Child(ChildrenSlot)
	assert.Same(t, oldDash.Child(ChildrenSlot), newDash.Child(ChildrenSlot))
	assert.Same(t, oldDash.Child("analytics"), newDash.Child("analytics"))
	require.NotNil(t, newDash.Child("modal"))
	assert.Equal(t, []string{ChildrenSlot, "analytics", "modal"}, newDash.Slots())
}

func TestMergeSequential(t *testing.T) {
	t.Parallel()
	first := profilePatch()
	second := NewRouteTree(StaticSegment("visitors"), ChildrenSlot, page())

	tree, err := MergeTree(first.Path, testTree(), first.Tree, "/dashboard/profile")
	require.NoError(t, err)
	tree, err = MergeTree(dashboardAnalytics, tree, second, "/dashboard/profile")
	require.NoError(t, err)

	marked := func() *RouteTree {
		p := page()
		p.URL, p.Refresh = "/dashboard/profile", Refresh
		return p
	}
	want := NewRouteTree(StaticSegment(""),
		ChildrenSlot, NewRouteTree(StaticSegment("dashboard"),
			ChildrenSlot, NewRouteTree(StaticSegment("profile"), ChildrenSlot, marked()),
			"analytics", NewRouteTree(StaticSegment("visitors"), ChildrenSlot, marked()),
		),
	)
	want.IsRootLayout = true
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("merged tree (-want +got):\n%s", diff)
	}
}

func TestMergeKeepsExistingRefreshMarker(t *testing.T) {
	t.Parallel()
	patch := NewRouteTree(StaticSegment("profile"), ChildrenSlot, page())
	patch.Child(ChildrenSlot).URL = "/from/server"
	patch.Child(ChildrenSlot).Refresh = Refresh
	merged, err := MergeTree(dashboardChildren, testTree(), patch, "/dashboard/profile")
	require.NoError(t, err)
	leaf := merged.Child(ChildrenSlot).Child(ChildrenSlot).Child(ChildrenSlot)
	assert.Same(t, patch.Child(ChildrenSlot), leaf)
	assert.Equal(t, "/from/server", leaf.URL)
}

func TestFlightSegmentPathString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/", FlightSegmentPath{}.String())
	assert.Equal(t, "/@children/dashboard/@children", dashboardChildren.String())
	assert.Equal(t, 2, dashboardChildren.Depth())
	assert.Equal(t, 0, FlightSegmentPath{}.Depth())
}
