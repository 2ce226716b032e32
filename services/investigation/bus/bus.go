// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package bus implements the investigation side channel: an append-only,
// bounded log of activity, communication, and finding records.
//
// The bus is an injected collaborator, never a process-wide singleton. Every
// checker may append; nothing reads or mutates another writer's entries.
// Records are fire-and-forget with no delivery guarantee: live subscribers
// that fall behind simply miss records.
package bus

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
)

// DefaultCapacity is how many records the bus retains before dropping the
// oldest.
const DefaultCapacity = 100

// subscriberBuffer is the per-subscriber channel depth. A slow consumer
// drops records rather than blocking a checker.
const subscriberBuffer = 64

// Bus is a bounded in-memory record log with optional live fan-out.
// Safe for concurrent use.
type Bus struct {
	mu      sync.Mutex
	records []datatypes.BusRecord
	cap     int

	nextSub int
	subs    map[int]chan datatypes.BusRecord
}

// New returns a Bus retaining the most recent DefaultCapacity records.
func New() *Bus {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity returns a Bus retaining at most capacity records.
func NewWithCapacity(capacity int) *Bus {
	if capacity < 1 {
		capacity = 1
	}
	return &Bus{
		cap:  capacity,
		subs: make(map[int]chan datatypes.BusRecord),
	}
}

// Activity appends an activity record (what an agent is doing right now).
func (b *Bus) Activity(agent, action, investigationID string, metadata map[string]any) {
	b.append(datatypes.BusRecord{
		Kind:            datatypes.RecordActivity,
		InvestigationID: investigationID,
		Agent:           agent,
		Action:          action,
		Metadata:        metadata,
	})
}

// Communication appends a cross-checker notice. The target never blocks on
// it; the record exists for observers and for the investigation transcript.
func (b *Bus) Communication(from, to, message, priority, investigationID string) {
	b.append(datatypes.BusRecord{
		Kind:            datatypes.RecordCommunication,
		InvestigationID: investigationID,
		From:            from,
		To:              to,
		Message:         message,
		Priority:        priority,
	})
}

// Finding appends a finding record with the given severity.
func (b *Bus) Finding(agent, finding, severity, investigationID string) {
	b.append(datatypes.BusRecord{
		Kind:            datatypes.RecordFinding,
		InvestigationID: investigationID,
		Agent:           agent,
		Finding:         finding,
		Severity:        severity,
	})
}

func (b *Bus) append(rec datatypes.BusRecord) {
	rec.ID = uuid.NewString()
	rec.Timestamp = time.Now()

	b.mu.Lock()
	b.records = append(b.records, rec)
	if len(b.records) > b.cap {
		b.records = b.records[len(b.records)-b.cap:]
	}
	for _, ch := range b.subs {
		select {
		case ch <- rec:
		default: // subscriber is behind, drop
		}
	}
	b.mu.Unlock()
}

// Records returns a copy of the retained records for one investigation id,
// oldest first. An empty id returns everything retained.
func (b *Bus) Records(investigationID string) []datatypes.BusRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]datatypes.BusRecord, 0, len(b.records))
	for _, rec := range b.records {
		if investigationID == "" || rec.InvestigationID == investigationID {
			out = append(out, rec)
		}
	}
	return out
}

// RecordsOfKind filters Records by record kind.
func (b *Bus) RecordsOfKind(investigationID string, kind datatypes.RecordKind) []datatypes.BusRecord {
	var out []datatypes.BusRecord
	for _, rec := range b.Records(investigationID) {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}

// Clear drops all retained records. Subscriptions survive.
func (b *Bus) Clear() {
	b.mu.Lock()
	b.records = nil
	b.mu.Unlock()
}

// Subscribe returns a channel receiving every record appended after the
// call, plus a cancel function that must be invoked to release the
// subscription. The channel is closed on cancel.
func (b *Bus) Subscribe() (<-chan datatypes.BusRecord, func()) {
	ch := make(chan datatypes.BusRecord, subscriberBuffer)

	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}
