package router

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncompatibleRootChange(t *testing.T) {
	t.Parallel()
	tree := testTree()
	assert.False(t, IsIncompatibleRootChange(tree, tree))
	assert.False(t, IsIncompatibleRootChange(tree, testTree()))

	// deeper changes are not the root layout's concern
	merged, err := MergeTree(profilePatch().Path, tree, profilePatch().Tree, "/")
	require.NoError(t, err)
	assert.False(t, IsIncompatibleRootChange(tree, merged))

	shop := NewRouteTree(StaticSegment("(shop)"), ChildrenSlot, page())
	assert.True(t, IsIncompatibleRootChange(tree, shop))
	assert.True(t, IsIncompatibleRootChange(nil, shop))
	assert.False(t, IsIncompatibleRootChange(nil, nil))
}

func TestCreateHrefFromURL(t *testing.T) {
	t.Parallel()
	for raw, want := range map[string]string{
		"https://example.com/a/b?c=d#e": "/a/b?c=d#e",
		"https://example.com":           "/",
		"/a%20b?x=1":                    "/a%20b?x=1",
		"/blog/":                        "/blog/",
	} {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, want, CreateHrefFromURL(u), raw)
	}
}
