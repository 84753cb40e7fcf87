package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitEmptyMutableOnlyResetsHistoryState(t *testing.T) {
	t.Parallel()
	state := testState()
	state.PushRef = PushRef{PendingPush: true, PreserveCustomHistoryState: true}
	state.FocusAndScrollRef = FocusAndScrollRef{Apply: true, HashFragment: "top"}

	next := Commit(state, &Mutable{})

	want := state
	want.PushRef.PreserveCustomHistoryState = false
	assert.Equal(t, want, next)
	assert.Same(t, state.Tree, next.Tree)
	assert.Same(t, state.Cache, next.Cache)
}

func TestCommitOverlaysSetFields(t *testing.T) {
	t.Parallel()
	state := testState()
	state.FocusAndScrollRef = FocusAndScrollRef{Apply: true, OnlyHashChange: true}

	m := &Mutable{}
	m.SetCanonicalURL("/elsewhere")
	m.SetMPANavigation(true)
	m.SetPreserveCustomHistoryState(true)
	m.SetShouldScroll(false)
	next := Commit(state, m)

	assert.Equal(t, "/elsewhere", next.CanonicalURL)
	assert.True(t, next.PushRef.MPANavigation)
	assert.False(t, next.PushRef.PendingPush)
	assert.True(t, next.PushRef.PreserveCustomHistoryState)
	assert.False(t, next.FocusAndScrollRef.Apply)
	assert.True(t, next.FocusAndScrollRef.OnlyHashChange)
	assert.Equal(t, "/dashboard/settings", state.CanonicalURL)
}

func TestCommitPatchedTree(t *testing.T) {
	t.Parallel()
	state := testState()
	p := profilePatch()
	tree, err := MergeTree(p.Path, state.Tree, p.Tree, "/dashboard/profile")
	assert.NoError(t, err)
	cache := CreateEmptyCacheNode()
	ApplyCachePatch(state.Cache, cache, p)

	next := Commit(state, &Mutable{PatchedTree: tree, Cache: cache})
	assert.Same(t, tree, next.Tree)
	assert.Equal(t, "/dashboard/profile", next.NextURL)
	assert.True(t, next.Cache.IsShared())
	assert.Equal(t, 0, countUnshared(next.Cache))

	// nothing changed: the next URL stays
	again := Commit(next, &Mutable{PatchedTree: next.Tree})
	assert.Equal(t, "/dashboard/profile", again.NextURL)
}

func TestNewState(t *testing.T) {
	t.Parallel()
	state := testState()
	assert.Equal(t, "/dashboard/settings", state.CanonicalURL)
	assert.Equal(t, "/dashboard/settings", state.NextURL)
	assert.Equal(t, StatusReady, state.Cache.Status)
	assert.Equal(t, "<settings>", state.Cache.Child(ChildrenSlot).Child(ChildrenSlot).Rendered)
}

func TestNewStateWithoutTree(t *testing.T) {
	t.Parallel()
	state := NewState("/", nil, nil, nil)
	assert.Nil(t, state.Tree)
	assert.Equal(t, "/", state.CanonicalURL)
	assert.Equal(t, StatusLazy, state.Cache.Status)
	assert.Empty(t, state.Cache.ParallelRoutes)
	assert.True(t, state.Cache.IsShared())
}
