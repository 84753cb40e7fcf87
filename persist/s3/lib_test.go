package s3_test

import (
	"context"
	"errors"
	"testing"

	router "github.com/conveyGhost/next.js"
	s3Persist "github.com/conveyGhost/next.js/persist/s3"
	"github.com/conveyGhost/next.js/persist/s3test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHappyCase(t *testing.T) {
	t.Parallel()
	c, bucketName, closer := s3test.Client()
	defer closer()

	p := s3Persist.NewPersist(c, bucketName, "reports/")
	err := p.Store(context.Background(), "foofoo", []byte("here is some stuff"))
	require.NoError(t, err)
	b, err := p.Load(context.Background(), "foofoo")
	require.NoError(t, err)
	assert.Equal(t, []byte("here is some stuff"), b)

	names, err := p.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"foofoo"}, names)
}

func TestNotFound(t *testing.T) {
	t.Parallel()
	c, bucketName, closer := s3test.Client()
	defer closer()

	p := s3Persist.NewPersist(c, bucketName, "")
	_, err := p.Load(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, router.ErrReportNotFound), "%v", err)
}

func TestMismatchReport(t *testing.T) {
	t.Parallel()
	c, bucketName, closer := s3test.Client()
	defer closer()

	ctx := context.Background()
	p := s3Persist.NewPersist(c, bucketName, "mismatch/")
	report := router.MismatchReport{
		Fingerprint:  "fp",
		CanonicalURL: "/a/b",
		Reason:       "patch path does not match the route tree",
		Path:         "/@children",
	}
	name, err := router.StoreMismatchReport(ctx, p, report)
	require.NoError(t, err)
	loaded, err := router.LoadMismatchReport(ctx, p, name)
	require.NoError(t, err)
	assert.Equal(t, report, loaded)
}
