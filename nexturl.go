package router

import "strings"

// ExtractPath returns the pathname rendered by t, following the children
// slot first and falling back to the other slots. ok is false when t is a
// default segment or an intercepted route, which have no pathname of their
// own.
func ExtractPath(t *RouteTree) (path string, ok bool) {
	if t == nil {
		return "", false
	}
	name := t.Segment.Pathname()
	if t.Segment.IsDefault() || hasInterceptionMarker(name) {
		return "", false
	}
	if t.Segment.IsPage() {
		return "", true
	}
	segments := []string{name}
	if childPath, ok := ExtractPath(t.Child(ChildrenSlot)); ok {
		segments = append(segments, childPath)
	} else {
		for _, slot := range t.Slots() {
			if slot == ChildrenSlot {
				continue
			}
			if childPath, ok := ExtractPath(t.ParallelRoutes[slot]); ok {
				segments = append(segments, childPath)
			}
		}
	}
	return normalizeSegments(segments), true
}

// ComputeChangedPath returns the pathname of the part of b that differs from
// a. ok is false when the trees render the same segments.
func ComputeChangedPath(a, b *RouteTree) (path string, ok bool) {
	path, ok = changedPath(a, b)
	if !ok || path == "/" {
		return path, ok
	}
	return normalizeSegments(strings.Split(path, "/")), true
}

func changedPath(a, b *RouteTree) (string, bool) {
	if a == nil || b == nil {
		return "", false
	}
	pathA, pathB := a.Segment.Pathname(), b.Segment.Pathname()
	if hasInterceptionMarker(pathA) || hasInterceptionMarker(pathB) {
		return "", true
	}
	if a.Segment != b.Segment {
		path, _ := ExtractPath(b)
		return path, true
	}
	for _, slot := range a.Slots() {
		childB := b.Child(slot)
		if childB == nil {
			continue
		}
		if path, ok := changedPath(a.ParallelRoutes[slot], childB); ok {
			return pathB + "/" + path, true
		}
	}
	return "", false
}

// normalizeSegments joins path segments, dropping empty segments and route
// groups.
func normalizeSegments(segments []string) string {
	var sb strings.Builder
	for _, segment := range segments {
		segment = strings.Trim(segment, "/")
		if segment == "" || isGroupName(segment) {
			continue
		}
		sb.WriteString("/")
		sb.WriteString(segment)
	}
	if sb.Len() == 0 {
		return "/"
	}
	return sb.String()
}
