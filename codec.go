package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedFlightData is returned when decoded flight data does not have
// the shape this version of the wire contract expects.
var ErrMalformedFlightData = errors.New("malformed flight data")

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedFlightData, fmt.Sprintf(format, args...))
}

// DecodeFlightData converts a JSON-decoded response body into FlightData. A
// string is an external URL; an array holds flight data paths.
func DecodeFlightData(v interface{}) (FlightData, error) {
	switch d := v.(type) {
	case string:
		if d == "" {
			return FlightData{}, malformed("empty external URL")
		}
		return FlightData{External: d}, nil
	case []interface{}:
		paths := make([]FlightDataPath, 0, len(d))
		for i, e := range d {
			entry, ok := e.([]interface{})
			if !ok {
				return FlightData{}, malformed("path %d is %T, not an array", i, e)
			}
			p, err := DecodeFlightDataPath(entry)
			if err != nil {
				return FlightData{}, fmt.Errorf("path %d: %w", i, err)
			}
			paths = append(paths, p)
		}
		return FlightData{Paths: paths}, nil
	default:
		return FlightData{}, malformed("flight data is %T", v)
	}
}

// DecodeFlightDataPath splits one wire entry into its address and patch. The
// entry is either [treePatch, seed, head] for a root patch, or
// [slot, segment, ..., slot, boundarySegment, treePatch, seed, head].
func DecodeFlightDataPath(entry []interface{}) (FlightDataPath, error) {
	n := len(entry)
	if n < FlightDataTailLength || n%2 == 0 {
		return FlightDataPath{}, malformed("flight data path has %d entries", n)
	}
	tail := entry[n-FlightDataTailLength:]
	tree, err := DecodeRouterState(tail[0])
	if err != nil {
		return FlightDataPath{}, fmt.Errorf("tree patch: %w", err)
	}
	seed, err := DecodeSeedData(tail[1])
	if err != nil {
		return FlightDataPath{}, fmt.Errorf("seed data: %w", err)
	}
	p := FlightDataPath{Tree: tree, Seed: seed, Head: tail[2]}
	if n == FlightDataTailLength {
		return p, nil
	}
	p.Segment, err = DecodeSegment(entry[n-FlightDataBoundaryOffset])
	if err != nil {
		return FlightDataPath{}, fmt.Errorf("boundary segment: %w", err)
	}
	addr := entry[:n-FlightDataBoundaryOffset]
	for i := 0; i+1 < len(addr); i += 2 {
		slot, err := decodeSlot(addr[i])
		if err != nil {
			return FlightDataPath{}, fmt.Errorf("path entry %d: %w", i, err)
		}
		segment, err := DecodeSegment(addr[i+1])
		if err != nil {
			return FlightDataPath{}, fmt.Errorf("path entry %d: %w", i+1, err)
		}
		p.Path.Steps = append(p.Path.Steps, PathStep{Slot: slot, Segment: segment})
	}
	p.Path.Slot, err = decodeSlot(addr[len(addr)-1])
	if err != nil {
		return FlightDataPath{}, fmt.Errorf("path entry %d: %w", len(addr)-1, err)
	}
	return p, nil
}

func decodeSlot(v interface{}) (string, error) {
	slot, ok := v.(string)
	if !ok || slot == "" {
		return "", malformed("slot name %#v", v)
	}
	return slot, nil
}

// DecodeSegment decodes "name" or [param, value, kind].
func DecodeSegment(v interface{}) (Segment, error) {
	switch s := v.(type) {
	case string:
		return StaticSegment(s), nil
	case []interface{}:
		if len(s) != 3 {
			return Segment{}, malformed("dynamic segment has %d fields", len(s))
		}
		var fields [3]string
		for i, f := range s {
			str, ok := f.(string)
			if !ok {
				return Segment{}, malformed("dynamic segment field %d is %T", i, f)
			}
			fields[i] = str
		}
		if fields[0] == "" {
			return Segment{}, malformed("dynamic segment without a parameter name")
		}
		return DynamicSegment(fields[0], fields[1], ParamKind(fields[2])), nil
	default:
		return Segment{}, malformed("segment is %T", v)
	}
}

// EncodeSegment is the inverse of DecodeSegment.
func EncodeSegment(s Segment) interface{} {
	if s.IsDynamic() {
		return []interface{}{s.Param, s.Value, string(s.Kind)}
	}
	return s.Name
}

// DecodeRouterState decodes [segment, {slot: state}, url?, refresh?, isRootLayout?].
func DecodeRouterState(v interface{}) (*RouteTree, error) {
	a, ok := v.([]interface{})
	if !ok {
		return nil, malformed("router state is %T", v)
	}
	if len(a) < 2 || len(a) > 5 {
		return nil, malformed("router state has %d fields", len(a))
	}
	segment, err := DecodeSegment(a[0])
	if err != nil {
		return nil, err
	}
	t := &RouteTree{Segment: segment, ParallelRoutes: map[string]*RouteTree{}}
	if a[1] != nil {
		slots, ok := a[1].(map[string]interface{})
		if !ok {
			return nil, malformed("parallel routes of %v are %T", segment, a[1])
		}
		for slot, child := range slots {
			if slot == "" {
				return nil, malformed("empty slot name under %v", segment)
			}
			t.ParallelRoutes[slot], err = DecodeRouterState(child)
			if err != nil {
				return nil, fmt.Errorf("%v@%s: %w", segment, slot, err)
			}
		}
	}
	if len(a) > 2 && a[2] != nil {
		if t.URL, ok = a[2].(string); !ok {
			return nil, malformed("url of %v is %T", segment, a[2])
		}
	}
	if len(a) > 3 && a[3] != nil {
		marker, ok := a[3].(string)
		if !ok {
			return nil, malformed("refresh marker of %v is %T", segment, a[3])
		}
		t.Refresh = RefreshMarker(marker)
	}
	if len(a) > 4 && a[4] != nil {
		if t.IsRootLayout, ok = a[4].(bool); !ok {
			return nil, malformed("root layout flag of %v is %T", segment, a[4])
		}
	}
	return t, nil
}

// EncodeRouterState is the inverse of DecodeRouterState. A nil tree encodes
// as nil.
func EncodeRouterState(t *RouteTree) []interface{} {
	if t == nil {
		return nil
	}
	slots := make(map[string]interface{}, len(t.ParallelRoutes))
	for slot, child := range t.ParallelRoutes {
		slots[slot] = EncodeRouterState(child)
	}
	out := []interface{}{EncodeSegment(t.Segment), slots}
	if t.URL != "" || t.Refresh != NoRefresh || t.IsRootLayout {
		out = append(out, nullable(t.URL), nullable(string(t.Refresh)))
	}
	if t.IsRootLayout {
		out = append(out, true)
	}
	return out
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// PrepareRouterStateForRequest encodes the tree the way the server expects
// it in a request header: client-only data (refresh URLs, the client-side
// refresh marker, page search parameters) is stripped, and the JSON is
// escaped the way encodeURIComponent escapes it.
func PrepareRouterStateForRequest(t *RouteTree) (string, error) {
	b, err := json.Marshal(stripClientOnlyData(t))
	if err != nil {
		return "", fmt.Errorf("marshal router state: %w", err)
	}
	return encodeURIComponent(string(b)), nil
}

const upperhex = "0123456789ABCDEF"

// encodeURIComponent percent-encodes every byte of s except the unreserved
// marks A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if uriUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

func uriUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

func stripClientOnlyData(t *RouteTree) []interface{} {
	segment := t.Segment
	if segment.IsPage() {
		segment.Name = PageSegmentKey
	}
	slots := make(map[string]interface{}, len(t.ParallelRoutes))
	for slot, child := range t.ParallelRoutes {
		slots[slot] = stripClientOnlyData(child)
	}
	var marker interface{}
	if t.Refresh == Refetch {
		marker = string(Refetch)
	}
	out := []interface{}{EncodeSegment(segment), slots, nil, marker}
	if t.IsRootLayout {
		out = append(out, true)
	}
	return out
}

// DecodeSeedData decodes [segment, {slot: seed}, rendered, loading?]. A nil
// value means the server sent no rendered output.
func DecodeSeedData(v interface{}) (*SeedData, error) {
	if v == nil {
		return nil, nil
	}
	a, ok := v.([]interface{})
	if !ok {
		return nil, malformed("seed data is %T", v)
	}
	if len(a) < 3 || len(a) > 4 {
		return nil, malformed("seed data has %d fields", len(a))
	}
	segment, err := DecodeSegment(a[0])
	if err != nil {
		return nil, err
	}
	s := &SeedData{Segment: segment, Rendered: a[2]}
	if len(a) > 3 {
		s.Loading = a[3]
	}
	if a[1] != nil {
		slots, ok := a[1].(map[string]interface{})
		if !ok {
			return nil, malformed("seed slots of %v are %T", segment, a[1])
		}
		s.Slots = make(map[string]*SeedData, len(slots))
		for slot, child := range slots {
			s.Slots[slot], err = DecodeSeedData(child)
			if err != nil {
				return nil, fmt.Errorf("%v@%s: %w", segment, slot, err)
			}
		}
	}
	return s, nil
}

// EncodeSeedData is the inverse of DecodeSeedData.
func EncodeSeedData(s *SeedData) interface{} {
	if s == nil {
		return nil
	}
	slots := make(map[string]interface{}, len(s.Slots))
	for slot, child := range s.Slots {
		slots[slot] = EncodeSeedData(child)
	}
	out := []interface{}{EncodeSegment(s.Segment), slots, s.Rendered}
	if s.Loading != nil {
		out = append(out, s.Loading)
	}
	return out
}

// EncodeFlightDataPath is the inverse of DecodeFlightDataPath.
func EncodeFlightDataPath(p FlightDataPath) []interface{} {
	var out []interface{}
	if !p.IsRoot() {
		for _, step := range p.Path.Steps {
			out = append(out, step.Slot, EncodeSegment(step.Segment))
		}
		out = append(out, p.Path.Slot, EncodeSegment(p.Segment))
	}
	return append(out, EncodeRouterState(p.Tree), EncodeSeedData(p.Seed), p.Head)
}

// EncodeFlightData is the inverse of DecodeFlightData.
func EncodeFlightData(d FlightData) interface{} {
	if d.IsExternal() {
		return d.External
	}
	out := make([]interface{}, len(d.Paths))
	for i, p := range d.Paths {
		out[i] = EncodeFlightDataPath(p)
	}
	return out
}

// ParseFlightData decodes a JSON response body.
func ParseFlightData(body []byte) (FlightData, error) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return FlightData{}, fmt.Errorf("%w: %v", ErrMalformedFlightData, err)
	}
	return DecodeFlightData(v)
}
