package router

import "net/url"

// The trailing entries of every flight data path, in wire order, are the
// segment the patch is rooted at, the tree patch, its seed data and the head
// payload. Everything before the boundary segment addresses the patch.
const (
	// FlightDataTailLength is the number of trailing entries that carry the
	// patch itself: tree patch, seed data and head.
	FlightDataTailLength = 3
	// FlightDataBoundaryOffset is the distance from the end of the boundary
	// segment, the first entry excluded from the addressing path.
	FlightDataBoundaryOffset = 4
)

// SeedData is the rendered output the server sent along with a tree patch,
// shaped like the patch.
type SeedData struct {
	Segment  Segment
	Slots    map[string]*SeedData
	Rendered interface{}
	Loading  interface{}
}

// Child returns the seed data for the named slot, or nil.
func (s *SeedData) Child(slot string) *SeedData {
	if s == nil {
		return nil
	}
	return s.Slots[slot]
}

// FlightDataPath is one patch of a server response together with its
// address.
type FlightDataPath struct {
	Path FlightSegmentPath
	// Segment is the segment the patch is rooted at. It is the zero Segment
	// for a patch applying at the root.
	Segment Segment
	Tree    *RouteTree
	Seed    *SeedData
	Head    interface{}
}

// IsRoot reports whether the patch replaces the whole tree.
func (p FlightDataPath) IsRoot() bool {
	return p.Path.Depth() == 0
}

// FlightData is the body of a server response: either an external URL the
// browser must navigate to, or a list of patches applied in order.
type FlightData struct {
	External string
	Paths    []FlightDataPath
}

// IsExternal reports whether the response redirects outside the router.
func (d FlightData) IsExternal() bool {
	return d.External != ""
}

// ServerResponse is what the server sent for a patch request.
type ServerResponse struct {
	FlightData FlightData
	// CanonicalURL overrides the state's canonical URL when set.
	CanonicalURL *url.URL
}
