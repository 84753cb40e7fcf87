package router

import "strings"

const (
	// PageSegmentKey prefixes the segment of a page leaf. The server may append
	// the serialized search parameters after it.
	PageSegmentKey = "__PAGE__"
	// DefaultSegmentKey fills a parallel slot that has no active route.
	DefaultSegmentKey = "__DEFAULT__"
)

// ParamKind is the kind of a dynamic segment, as reported by the server.
type ParamKind string

const (
	ParamDynamic                     ParamKind = "d"
	ParamCatchAll                    ParamKind = "c"
	ParamOptionalCatchAll            ParamKind = "oc"
	ParamDynamicIntercepted          ParamKind = "di"
	ParamCatchAllIntercepted         ParamKind = "ci"
	ParamOptionalCatchAllIntercepted ParamKind = "oci"
)

// interceptionMarkers are the prefixes of intercepting route segments,
// longest first so "(..)(..)" is not mistaken for "(..)".
var interceptionMarkers = []string{"(..)(..)", "(...)", "(..)", "(.)"}

// A Segment names one level of the route hierarchy. A static segment only
// sets Name; a dynamic segment sets Param, Value and Kind. Segments are
// comparable and equal when all their fields are.
type Segment struct {
	Name  string
	Param string
	Value string
	Kind  ParamKind
}

// StaticSegment returns a segment for a literal path component.
func StaticSegment(name string) Segment {
	return Segment{Name: name}
}

// DynamicSegment returns a segment for a route parameter bound to value.
func DynamicSegment(param, value string, kind ParamKind) Segment {
	return Segment{Param: param, Value: value, Kind: kind}
}

// IsDynamic reports whether the segment is a parameter binding.
func (s Segment) IsDynamic() bool {
	return s.Param != ""
}

// IsPage reports whether the segment is a page leaf.
func (s Segment) IsPage() bool {
	return !s.IsDynamic() && strings.HasPrefix(s.Name, PageSegmentKey)
}

// IsDefault reports whether the segment is the default slot filler.
func (s Segment) IsDefault() bool {
	return !s.IsDynamic() && s.Name == DefaultSegmentKey
}

// IsGroup reports whether the segment is a route group, which never shows up
// in a pathname.
func (s Segment) IsGroup() bool {
	return !s.IsDynamic() && isGroupName(s.Name)
}

func isGroupName(name string) bool {
	return len(name) > 1 && name[0] == '(' && name[len(name)-1] == ')'
}

// Pathname is the segment as it appears in a URL path.
func (s Segment) Pathname() string {
	if s.IsDynamic() {
		return s.Value
	}
	return s.Name
}

// CacheKey is the key rendered output for this segment is cached under.
// Page segments keep their search string, so each search is cached
// separately.
func (s Segment) CacheKey() string {
	if s.IsDynamic() {
		return s.Param + "|" + s.Value + "|" + string(s.Kind)
	}
	return s.Name
}

func (s Segment) String() string {
	if s.IsDynamic() {
		return "[" + s.CacheKey() + "]"
	}
	if s.Name == "" {
		return `""`
	}
	return s.Name
}

func hasInterceptionMarker(pathname string) bool {
	for _, m := range interceptionMarkers {
		if strings.HasPrefix(pathname, m) {
			return true
		}
	}
	return false
}
