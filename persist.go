package router

import (
	"context"
	"errors"
)

// ErrReportNotFound is returned, possibly wrapped, by a Persist that has
// nothing stored under the requested name.
var ErrReportNotFound = errors.New("report not found")

// Persist is the interface for loading and storing mismatch reports.
type Persist interface {
	// Store makes the given bytes accessible by the given name. The name is
	// derived from the content, which is never modified.
	Store(context.Context, string, []byte) error
	// Load retrieves the previously-stored bytes by the given name.
	Load(context.Context, string) ([]byte, error)
}
