/*
Package router keeps a client-side route tree and its render cache in step
with the patches a server streams back for the current page.

The route tree describes which segment is active in every slot of every
layout. The cache mirrors the tree and holds what was rendered for each
segment. Both are persistent structures: applying a patch never changes a
published tree or cache node. Instead, the nodes on the path from the root
to the patched subtree are rebuilt, and everything else is shared by
reference with the previous version. Old states stay valid, so a caller can
keep them for back/forward navigation or compare them against new ones.

Patches

A server response is either an external URL, which ends client-side
routing, or a list of flight data paths. Each path carries the address of a
subtree, the subtree itself (the tree patch), rendered output for it (the
seed data) and the document head. Patches are applied in order, each one
against the result of the previous:

	reducer, _ := router.NewReducer(router.Config{Logger: logger})
	next := reducer.Reduce(ctx, state, router.ServerPatchAction{ServerResponse: resp})

If a patch's address names segments the tree no longer has, or a patch
would swap the root layout, the reducer gives up on the response and
returns a state asking the caller for a full page navigation instead.

Cache

CacheNodes written while applying a response are private until the state
holding them is committed. Commit publishes them, after which any attempt
to modify them panics. Slots the server sent no rendered output for are
left lazy, to be fetched when they are rendered.

Diagnostics

Tree fingerprints identify a tree by content, and are memoized per node, so
a fingerprint of a patched tree only hashes the rebuilt path. When a
Persist is configured, every patch that fails to apply is stored as a
MismatchReport under a content-derived name. The persist/file and persist/s3
packages provide stores backed by a directory and an S3 bucket.

Wire format

DecodeFlightData and EncodeRouterState convert between the decoded JSON of
the flight protocol and these types. FlightDataProto carries the same values
as protobuf.
*/
package router
