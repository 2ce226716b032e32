// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package storage persists completed investigations with a bounded
// retention window.
package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
)

// DefaultRetention is how many investigations a store keeps before evicting
// the oldest.
const DefaultRetention = 50

// ErrNotFound is returned when no investigation exists under the given id.
var ErrNotFound = errors.New("investigation not found")

// Store persists completed investigations. Save is called exactly once per
// investigation; implementations evict oldest-first beyond their retention
// limit.
type Store interface {
	Save(ctx context.Context, inv datatypes.Investigation) error
	Get(ctx context.Context, id string) (datatypes.Investigation, error)

	// List returns retained investigations newest-first.
	List(ctx context.Context) ([]datatypes.Investigation, error)
}

// MemoryStore is an in-process Store for tests and single-node runs.
// Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	order     []string // insertion order, oldest first
	byID      map[string]datatypes.Investigation
	retention int
}

// NewMemoryStore returns a MemoryStore retaining DefaultRetention records.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithRetention(DefaultRetention)
}

// NewMemoryStoreWithRetention returns a MemoryStore with a custom window.
func NewMemoryStoreWithRetention(retention int) *MemoryStore {
	if retention < 1 {
		retention = 1
	}
	return &MemoryStore{
		byID:      make(map[string]datatypes.Investigation),
		retention: retention,
	}
}

func (s *MemoryStore) Save(_ context.Context, inv datatypes.Investigation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[inv.ID]; !exists {
		s.order = append(s.order, inv.ID)
	}
	s.byID[inv.ID] = inv

	for len(s.order) > s.retention {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (datatypes.Investigation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.byID[id]
	if !ok {
		return datatypes.Investigation{}, ErrNotFound
	}
	return inv, nil
}

func (s *MemoryStore) List(_ context.Context) ([]datatypes.Investigation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]datatypes.Investigation, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.byID[s.order[i]])
	}
	return out, nil
}
