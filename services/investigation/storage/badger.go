// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
)

const (
	recordPrefix = "investigation/"
	indexKey     = "investigation-index"
)

// BadgerConfig configures the embedded investigation store.
type BadgerConfig struct {
	// Dir is the on-disk location. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in RAM; used by tests and ephemeral runs.
	InMemory bool

	// Retention caps how many investigations are kept. Zero means
	// DefaultRetention.
	Retention int
}

// BadgerStore is a Store backed by an embedded Badger database. All
// mutations run inside a single transaction so the index and the records
// never diverge.
type BadgerStore struct {
	db        *badger.DB
	retention int
}

// NewBadgerStore opens (or creates) the database described by cfg.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Dir).WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithInMemory(true).WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open investigation store: %w", err)
	}

	retention := cfg.Retention
	if retention < 1 {
		retention = DefaultRetention
	}
	return &BadgerStore{db: db, retention: retention}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) Save(_ context.Context, inv datatypes.Investigation) error {
	payload, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to encode investigation %s: %w", inv.ID, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		index, err := readIndex(txn)
		if err != nil {
			return err
		}

		if !contains(index, inv.ID) {
			index = append(index, inv.ID)
		}
		for len(index) > s.retention {
			oldest := index[0]
			index = index[1:]
			if err := txn.Delete([]byte(recordPrefix + oldest)); err != nil {
				return fmt.Errorf("failed to evict investigation %s: %w", oldest, err)
			}
		}

		if err := txn.Set([]byte(recordPrefix+inv.ID), payload); err != nil {
			return fmt.Errorf("failed to store investigation %s: %w", inv.ID, err)
		}
		return writeIndex(txn, index)
	})
}

func (s *BadgerStore) Get(_ context.Context, id string) (datatypes.Investigation, error) {
	var inv datatypes.Investigation
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(recordPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read investigation %s: %w", id, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &inv)
		})
	})
	return inv, err
}

func (s *BadgerStore) List(_ context.Context) ([]datatypes.Investigation, error) {
	var out []datatypes.Investigation
	err := s.db.View(func(txn *badger.Txn) error {
		index, err := readIndex(txn)
		if err != nil {
			return err
		}
		// Newest first.
		for i := len(index) - 1; i >= 0; i-- {
			item, err := txn.Get([]byte(recordPrefix + index[i]))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue // index/record drift should not fail the listing
			}
			if err != nil {
				return fmt.Errorf("failed to read investigation %s: %w", index[i], err)
			}
			var inv datatypes.Investigation
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &inv)
			}); err != nil {
				return err
			}
			out = append(out, inv)
		}
		return nil
	})
	return out, err
}

// readIndex loads the insertion-ordered id list, oldest first.
func readIndex(txn *badger.Txn) ([]string, error) {
	item, err := txn.Get([]byte(indexKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read investigation index: %w", err)
	}

	var index []string
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &index)
	}); err != nil {
		return nil, fmt.Errorf("failed to decode investigation index: %w", err)
	}
	return index, nil
}

func writeIndex(txn *badger.Txn, index []string) error {
	payload, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to encode investigation index: %w", err)
	}
	if err := txn.Set([]byte(indexKey), payload); err != nil {
		return fmt.Errorf("failed to store investigation index: %w", err)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
