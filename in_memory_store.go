package router

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type inMemoryStore struct {
	entries map[string][]byte
	l       sync.Mutex
}

// NewInMemoryStore provides a Persist that keeps reports in a map, usually
// for testing.
func NewInMemoryStore() Persist {
	return &inMemoryStore{}
}

func (ims *inMemoryStore) Store(ctx context.Context, key string, value []byte) error {
	ims.l.Lock()
	if ims.entries == nil {
		ims.entries = map[string][]byte{key: value}
	} else {
		ims.entries[key] = value
	}
	ims.l.Unlock()
	return nil
}

func (ims *inMemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	ims.l.Lock()
	value, ok := ims.entries[key]
	ims.l.Unlock()
	if !ok {
		return nil, fmt.Errorf("in-memory store %s: %w", key, ErrReportNotFound)
	}
	return value, nil
}

// Names lists the names stored so far, in order.
func (ims *inMemoryStore) Names() []string {
	ims.l.Lock()
	defer ims.l.Unlock()
	names := make([]string, 0, len(ims.entries))
	for name := range ims.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
