package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	router "github.com/conveyGhost/next.js"
)

// Persist implements the router.Persist interface for storing and loading
// mismatch reports as files.
type Persist struct {
	basepath string
}

// Load loads the bytes persisted in the named file.
func (p Persist) Load(ctx context.Context, name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(p.basepath, name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", name, router.ErrReportNotFound)
	}
	return b, err
}

// Store persists the given bytes in a file of the given name, if it
// doesn't exist already.
func (p Persist) Store(ctx context.Context, name string, bytes []byte) error {
	path := filepath.Join(p.basepath, name)
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.WriteFile(path, bytes, 0o644)
	}
	return err
}

// Names lists the stored reports.
func (p Persist) Names() ([]string, error) {
	entries, err := os.ReadDir(p.basepath)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// NewPersistForPath returns a Persist that loads and stores reports as
// files in the directory at the given path, creating it if needed.
//
//	p, err := NewPersistForPath("/var/lib/router/reports")
//	report, err := router.LoadMismatchReport(ctx, p, "mRxG2dRS2f1Yb0Q5n0Ql0Qp0G9y7eLx8kY3Rn6fM0pA")
func NewPersistForPath(path string) (Persist, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Persist{}, fmt.Errorf("report directory: %w", err)
	}
	return Persist{path}, nil
}
