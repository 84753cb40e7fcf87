package router

import (
	"context"
	"fmt"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Action is a router action. The set of actions is closed; Reduce handles
// every kind.
type Action interface {
	kind() string
}

// ServerPatchAction applies a patch the server pushed for the current page.
type ServerPatchAction struct {
	ServerResponse ServerResponse
}

func (ServerPatchAction) kind() string { return "server-patch" }

// Config controls a Reducer. The zero value is usable.
type Config struct {
	// Logger receives fallback warnings and per-patch debug output.
	// Defaults to a no-op logger.
	Logger *zap.Logger

	// Registerer, when set, receives the reducer's metrics.
	Registerer prometheus.Registerer

	// FingerprintCache memoizes tree fingerprints and may be shared by any
	// number of reducers. Defaults to a private cache.
	FingerprintCache NodeCache

	// Reports, when set, stores a MismatchReport for every patch that could
	// not be located in the tree.
	Reports Persist

	// CreateHrefFromURL canonicalizes override URLs. Defaults to
	// CreateHrefFromURL.
	CreateHrefFromURL func(*url.URL) string

	// CreateEmptyCacheNode allocates the cache node each patch is written
	// into. Defaults to CreateEmptyCacheNode.
	CreateEmptyCacheNode func() *CacheNode
}

// DefaultFingerprintCacheSize is the size of a Reducer's private
// fingerprint cache.
const DefaultFingerprintCacheSize = 1024

// Reducer folds actions into router states. A Reducer holds no per-state
// data; the caller serializes the actions it hands in.
type Reducer struct {
	log          *zap.Logger
	metrics      *Metrics
	fingerprints *Fingerprinter
	reports      Persist
	createHref   func(*url.URL) string
	newCacheNode func() *CacheNode
}

// NewReducer returns a Reducer configured by cfg.
func NewReducer(cfg Config) (*Reducer, error) {
	r := &Reducer{
		log:          cfg.Logger,
		metrics:      NewMetrics(),
		reports:      cfg.Reports,
		createHref:   cfg.CreateHrefFromURL,
		newCacheNode: cfg.CreateEmptyCacheNode,
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.createHref == nil {
		r.createHref = CreateHrefFromURL
	}
	if r.newCacheNode == nil {
		r.newCacheNode = CreateEmptyCacheNode
	}
	cache := cfg.FingerprintCache
	if cache == nil {
		cache = NewNodeCache(DefaultFingerprintCacheSize)
	}
	r.fingerprints = NewFingerprinter(cache)
	if cfg.Registerer != nil {
		if err := r.metrics.Register(cfg.Registerer); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

// Reduce returns the state that results from applying action to state.
func (r *Reducer) Reduce(ctx context.Context, state State, action Action) State {
	switch a := action.(type) {
	case ServerPatchAction:
		return r.ServerPatch(ctx, state, a)
	case *ServerPatchAction:
		return r.ServerPatch(ctx, state, *a)
	default:
		panic(fmt.Sprintf("unhandled router action %T", action))
	}
}

// ServerPatch merges the patches of a server response into state. Patches
// apply in order, each against the tree and cache the previous one produced.
// A response that leaves the router, changes the root layout, or cannot be
// located in the tree yields a state asking for a full navigation instead.
func (r *Reducer) ServerPatch(ctx context.Context, state State, action ServerPatchAction) State {
	r.metrics.Responses.Inc()
	mutable := &Mutable{}
	mutable.SetPreserveCustomHistoryState(false)
	data := action.ServerResponse.FlightData
	if data.IsExternal() {
		return r.handleExternalURL(state, mutable, data.External, state.PushRef.PendingPush, reasonExternalURL)
	}

	currentTree, currentCache := state.Tree, state.Cache
	for i, p := range data.Paths {
		newTree, err := MergeTree(p.Path, currentTree, p.Tree, state.CanonicalURL)
		if err != nil {
			return r.handleSegmentMismatch(ctx, state, action, p, err)
		}
		if IsIncompatibleRootChange(currentTree, newTree) {
			r.log.Info("root layout changed, falling back to full navigation",
				zap.Stringer("from", rootSegment(currentTree)),
				zap.Stringer("to", rootSegment(newTree)),
				zap.String("url", state.CanonicalURL))
			return r.handleExternalURL(state, mutable, state.CanonicalURL, state.PushRef.PendingPush, reasonRootLayout)
		}
		if action.ServerResponse.CanonicalURL != nil {
			mutable.SetCanonicalURL(r.createHref(action.ServerResponse.CanonicalURL))
		}
		cache := r.newCacheNode()
		ApplyCachePatchForTree(currentCache, cache, p, newTree)

		mutable.PatchedTree = newTree
		mutable.Cache = cache
		currentTree, currentCache = newTree, cache

		r.metrics.Patches.Inc()
		r.metrics.PatchDepth.Observe(float64(p.Path.Depth()))
		if ce := r.log.Check(zap.DebugLevel, "applied server patch"); ce != nil {
			ce.Write(
				zap.Int("index", i),
				zap.Stringer("path", p.Path),
				zap.String("tree", r.fingerprints.Fingerprint(newTree)))
		}
	}
	return Commit(state, mutable)
}

// Fingerprint returns the content fingerprint of t using the reducer's
// cache.
func (r *Reducer) Fingerprint(t *RouteTree) string {
	return r.fingerprints.Fingerprint(t)
}
