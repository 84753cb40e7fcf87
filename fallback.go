package router

import (
	"context"

	"go.uber.org/zap"
)

const (
	reasonExternalURL = "external_url"
	reasonRootLayout  = "root_layout"
	reasonMismatch    = "segment_mismatch"
)

// handleExternalURL asks for a full browser navigation to url. Changes
// proposed by the response before the fallback was triggered are dropped.
func (r *Reducer) handleExternalURL(state State, mutable *Mutable, url string, pendingPush bool, reason string) State {
	r.metrics.Fallbacks.WithLabelValues(reason).Inc()
	mutable.PatchedTree = nil
	mutable.Cache = nil
	mutable.SetMPANavigation(true)
	mutable.SetCanonicalURL(url)
	mutable.SetPendingPush(pendingPush)
	return Commit(state, mutable)
}

// handleSegmentMismatch recovers from a patch that does not fit the tree,
// which happens when the client's tree drifted from the one the server
// patched, by reloading the current URL.
func (r *Reducer) handleSegmentMismatch(ctx context.Context, state State, action ServerPatchAction, patch FlightDataPath, cause error) State {
	fields := []zap.Field{
		zap.Error(cause),
		zap.Stringer("path", patch.Path),
		zap.Stringer("patch", patch.Tree),
		zap.String("tree", r.fingerprints.Fingerprint(state.Tree)),
		zap.String("url", state.CanonicalURL),
		zap.Int("patches", len(action.ServerResponse.FlightData.Paths)),
	}
	if action.ServerResponse.CanonicalURL != nil {
		fields = append(fields, zap.Stringer("responseUrl", action.ServerResponse.CanonicalURL))
	}
	if r.reports != nil {
		report := NewMismatchReport(r.fingerprints, state, patch, cause)
		name, err := StoreMismatchReport(ctx, r.reports, report)
		if err != nil {
			r.log.Error("failed to store mismatch report", zap.Error(err))
		} else {
			fields = append(fields, zap.String("report", name))
		}
	}
	r.log.Warn("performing full navigation: server patch does not match the route tree", fields...)
	return r.handleExternalURL(state, &Mutable{}, state.CanonicalURL, true, reasonMismatch)
}
