package router

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/minio/blake2b-simd"
)

// MismatchReport describes a server patch that could not be located in the
// route tree. Tree and Patch hold the wire encodings, so a report can be
// decoded and replayed without the client that produced it.
type MismatchReport struct {
	// Fingerprint identifies the tree the patch was applied to.
	Fingerprint  string      `json:"fingerprint"`
	CanonicalURL string      `json:"canonicalUrl"`
	Reason       string      `json:"reason"`
	Path         string      `json:"path"`
	Tree         interface{} `json:"tree"`
	Patch        interface{} `json:"patch"`
}

// NewMismatchReport builds the report for patch failing against state.
func NewMismatchReport(fp *Fingerprinter, state State, patch FlightDataPath, cause error) MismatchReport {
	report := MismatchReport{
		Fingerprint:  fp.Fingerprint(state.Tree),
		CanonicalURL: state.CanonicalURL,
		Path:         patch.Path.String(),
		Patch:        EncodeFlightDataPath(patch),
	}
	if state.Tree != nil {
		report.Tree = EncodeRouterState(state.Tree)
	}
	if cause != nil {
		report.Reason = cause.Error()
	}
	return report
}

// RouteTree decodes the tree the patch failed against.
func (r MismatchReport) RouteTree() (*RouteTree, error) {
	if r.Tree == nil {
		return nil, nil
	}
	return DecodeRouterState(r.Tree)
}

// FlightDataPath decodes the failing patch.
func (r MismatchReport) FlightDataPath() (FlightDataPath, error) {
	entry, ok := r.Patch.([]interface{})
	if !ok {
		return FlightDataPath{}, malformed("report patch is %T, not an array", r.Patch)
	}
	return DecodeFlightDataPath(entry)
}

// StoreMismatchReport stores report in p under a name derived from its
// content, and returns the name.
func StoreMismatchReport(ctx context.Context, p Persist, report MismatchReport) (string, error) {
	b, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal mismatch report: %w", err)
	}
	sum := blake2b.Sum256(b)
	name := base64.RawURLEncoding.EncodeToString(sum[:])
	if err := p.Store(ctx, name, b); err != nil {
		return "", fmt.Errorf("persist store %s: %w", name, err)
	}
	return name, nil
}

// LoadMismatchReport loads the report stored under name.
func LoadMismatchReport(ctx context.Context, p Persist, name string) (MismatchReport, error) {
	var report MismatchReport
	b, err := p.Load(ctx, name)
	if err != nil {
		return report, fmt.Errorf("persist load %s: %w", name, err)
	}
	if err := json.Unmarshal(b, &report); err != nil {
		return report, fmt.Errorf("unmarshal mismatch report %s: %w", name, err)
	}
	return report, nil
}
