package file

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	router "github.com/conveyGhost/next.js"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestFiles(t *testing.T) {
	dir := t.TempDir()

	p, err := NewPersistForPath(filepath.Join(dir, "reports"))
	require.NoError(t, err)

	err = p.Store(ctx, "foo", []byte("hello"))
	require.NoError(t, err)
	loaded, err := p.Load(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), loaded)

	// names are content-derived, so a second store is a no-op
	err = p.Store(ctx, "foo", []byte("other"))
	require.NoError(t, err)
	loaded, err = p.Load(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), loaded)

	names, err := p.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, names)
}

func TestMissing(t *testing.T) {
	p, err := NewPersistForPath(t.TempDir())
	require.NoError(t, err)
	_, err = p.Load(ctx, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, router.ErrReportNotFound))
}

func TestReportRoundTrip(t *testing.T) {
	p, err := NewPersistForPath(t.TempDir())
	require.NoError(t, err)
	report := router.MismatchReport{
		Fingerprint:  "abc",
		CanonicalURL: "/dashboard",
		Reason:       "boom",
		Path:         "/@children",
		Tree:         []interface{}{"", map[string]interface{}{}},
	}
	name, err := router.StoreMismatchReport(ctx, p, report)
	require.NoError(t, err)
	loaded, err := router.LoadMismatchReport(ctx, p, name)
	require.NoError(t, err)
	assert.Equal(t, report, loaded)
}
