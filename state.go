package router

// PushRef describes what the history layer should do with the state.
type PushRef struct {
	// PendingPush asks for a new history entry instead of replacing the
	// current one.
	PendingPush bool
	// MPANavigation asks for a full browser navigation to CanonicalURL.
	MPANavigation bool
	// PreserveCustomHistoryState keeps state the application stored on the
	// history entry.
	PreserveCustomHistoryState bool
}

// FocusAndScrollRef is bookkeeping owned by the scroll and focus handlers.
// This package only carries it forward.
type FocusAndScrollRef struct {
	Apply          bool
	OnlyHashChange bool
	HashFragment   string
	SegmentPaths   [][]Segment
}

// State is one immutable snapshot of the router. Reducers return new States;
// they never modify the one they were given, since in-flight work may still
// hold it.
type State struct {
	Tree              *RouteTree
	Cache             *CacheNode
	CanonicalURL      string
	NextURL           string
	PushRef           PushRef
	FocusAndScrollRef FocusAndScrollRef
}

// Mutable collects the changes proposed while handling one action. Nil
// fields are left as they are in the previous state.
type Mutable struct {
	PatchedTree                *RouteTree
	Cache                      *CacheNode
	CanonicalURL               *string
	PendingPush                *bool
	MPANavigation              *bool
	PreserveCustomHistoryState *bool
	ShouldScroll               *bool
}

// SetCanonicalURL proposes href as the new canonical URL.
func (m *Mutable) SetCanonicalURL(href string) { m.CanonicalURL = &href }

// SetPendingPush proposes whether the state needs a new history entry.
func (m *Mutable) SetPendingPush(v bool) { m.PendingPush = &v }

// SetMPANavigation proposes whether the state needs a full navigation.
func (m *Mutable) SetMPANavigation(v bool) { m.MPANavigation = &v }

// SetPreserveCustomHistoryState proposes keeping, or dropping, the state the
// application stored on the history entry.
func (m *Mutable) SetPreserveCustomHistoryState(v bool) { m.PreserveCustomHistoryState = &v }

// SetShouldScroll proposes whether the scroll handler runs. Only false has
// an effect: it clears FocusAndScrollRef.Apply.
func (m *Mutable) SetShouldScroll(v bool) { m.ShouldScroll = &v }

// Commit returns the state that results from overlaying the fields mutable
// sets onto state. Custom history state is only preserved when mutable asks
// for it explicitly. The cache installed by mutable is published: it and its
// fresh descendants become read-only.
func Commit(state State, mutable *Mutable) State {
	next := State{
		Tree:              state.Tree,
		Cache:             state.Cache,
		CanonicalURL:      state.CanonicalURL,
		NextURL:           state.NextURL,
		FocusAndScrollRef: state.FocusAndScrollRef,
		PushRef: PushRef{
			PendingPush:   state.PushRef.PendingPush,
			MPANavigation: state.PushRef.MPANavigation,
		},
	}
	if mutable.PatchedTree != nil {
		next.Tree = mutable.PatchedTree
		if changed, ok := ComputeChangedPath(state.Tree, mutable.PatchedTree); ok && changed != "" {
			next.NextURL = changed
		} else if next.NextURL == "" {
			next.NextURL = state.CanonicalURL
		}
	}
	if mutable.Cache != nil {
		next.Cache = mutable.Cache.ToShared()
	}
	if mutable.CanonicalURL != nil {
		next.CanonicalURL = *mutable.CanonicalURL
	}
	if mutable.PendingPush != nil {
		next.PushRef.PendingPush = *mutable.PendingPush
	}
	if mutable.MPANavigation != nil {
		next.PushRef.MPANavigation = *mutable.MPANavigation
	}
	if mutable.PreserveCustomHistoryState != nil {
		next.PushRef.PreserveCustomHistoryState = *mutable.PreserveCustomHistoryState
	}
	if mutable.ShouldScroll != nil && !*mutable.ShouldScroll {
		next.FocusAndScrollRef.Apply = false
	}
	return next
}

// NewState returns the state of a page whose tree and rendered output were
// delivered in full, as on the first load. A nil tree gives a state with no
// routes and a lazy, empty cache.
func NewState(canonicalURL string, tree *RouteTree, seed *SeedData, head interface{}) State {
	cache := CreateEmptyCacheNode()
	if tree != nil {
		ApplyCachePatchForTree(nil, cache, FlightDataPath{Tree: tree, Seed: seed, Head: head}, tree)
	} else {
		cache.Status = StatusLazy
	}
	mutable := &Mutable{PatchedTree: tree, Cache: cache}
	mutable.SetCanonicalURL(canonicalURL)
	state := Commit(State{}, mutable)
	state.NextURL = canonicalURL
	return state
}
