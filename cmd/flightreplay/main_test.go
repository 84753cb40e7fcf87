package main

import (
	"context"
	"path/filepath"
	"testing"

	router "github.com/conveyGhost/next.js"
	"github.com/conveyGhost/next.js/persist/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestReplayFixture(t *testing.T) {
	f, err := loadFixture(filepath.Join("testdata", "dashboard.yaml"))
	require.NoError(t, err)
	require.Len(t, f.Responses, 2)

	state, err := f.state()
	require.NoError(t, err)
	assert.Equal(t, "/dashboard/settings", state.CanonicalURL)
	assert.Equal(t, "<settings>", state.Cache.Child(router.ChildrenSlot).Child(router.ChildrenSlot).Rendered)

	reports, err := file.NewPersistForPath(t.TempDir())
	require.NoError(t, err)
	r, err := router.NewReducer(router.Config{Logger: zaptest.NewLogger(t), Reports: reports})
	require.NoError(t, err)
	ctx := context.Background()

	resp, err := f.Responses[0].serverResponse()
	require.NoError(t, err)
	prev := state
	state = r.Reduce(ctx, state, router.ServerPatchAction{ServerResponse: resp})
	assert.False(t, state.PushRef.MPANavigation)
	assert.Equal(t, "/dashboard/profile", state.CanonicalURL)
	assert.Equal(t, "<profile>", state.Cache.Child(router.ChildrenSlot).Child(router.ChildrenSlot).Rendered)

	s, err := newStep(0, r, prev, state)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard/profile", s.CanonicalURL)
	assert.Equal(t, r.Fingerprint(state.Tree), s.Fingerprint)
	assert.Contains(t, s.Changes, "replaced /@children/dashboard/@children")

	resp, err = f.Responses[1].serverResponse()
	require.NoError(t, err)
	next := r.Reduce(ctx, state, router.ServerPatchAction{ServerResponse: resp})
	assert.True(t, next.PushRef.MPANavigation)
	assert.Equal(t, "/dashboard/profile", next.CanonicalURL)

	names, err := reports.Names()
	require.NoError(t, err)
	require.Len(t, names, 1)
	report, err := router.LoadMismatchReport(ctx, reports, names[0])
	require.NoError(t, err)
	assert.Equal(t, "/@children/blog/@children", report.Path)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t,
		[]interface{}{float64(1), map[string]interface{}{"1": "x"}},
		normalize([]interface{}{1, map[interface{}]interface{}{1: "x"}}))
}

func TestBuildLogger(t *testing.T) {
	_, err := buildLogger("debug")
	assert.NoError(t, err)
	_, err = buildLogger("loud")
	assert.Error(t, err)
}
