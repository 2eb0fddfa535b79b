// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"trafficwatch/internal/model"
)

// In-memory store implementations used by tests and by handlers running
// without a database. They mirror the Mongo implementations' semantics,
// including returning nil for absent users.

// MemoryUserStore is an in-memory UserStore.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users []model.User
}

// NewMemoryUserStore creates an empty in-memory UserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (s *MemoryUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].ID.Hex() == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// Count returns the number of stored users.
func (s *MemoryUserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// MemoryTrafficStore is an in-memory TrafficStore.
type MemoryTrafficStore struct {
	mu      sync.RWMutex
	records []model.TrafficRecord

	// FailWith, when set, makes every operation return this error.
	FailWith error
}

// NewMemoryTrafficStore creates an empty in-memory TrafficStore.
func NewMemoryTrafficStore() *MemoryTrafficStore {
	return &MemoryTrafficStore{}
}

func (s *MemoryTrafficStore) InsertMany(_ context.Context, records []model.TrafficRecord) error {
	if s.FailWith != nil {
		return s.FailWith
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *MemoryTrafficStore) FindAll(_ context.Context) ([]model.TrafficRecord, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TrafficRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Count returns the number of stored records.
func (s *MemoryTrafficStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// MemoryUploadStore is an in-memory UploadStore.
type MemoryUploadStore struct {
	mu      sync.RWMutex
	uploads []model.Upload
}

// NewMemoryUploadStore creates an empty in-memory UploadStore.
func NewMemoryUploadStore() *MemoryUploadStore {
	return &MemoryUploadStore{}
}

func (s *MemoryUploadStore) Create(_ context.Context, upload *model.Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if upload.ID.IsZero() {
		upload.ID = primitive.NewObjectID()
	}
	s.uploads = append(s.uploads, *upload)
	return nil
}

func (s *MemoryUploadStore) ListRecent(_ context.Context, limit int64) ([]model.Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Upload
	for i := len(s.uploads) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, s.uploads[i])
	}
	return out, nil
}

// MemoryEventStore is an in-memory EventStore.
type MemoryEventStore struct {
	mu     sync.RWMutex
	events []model.Event
}

// NewMemoryEventStore creates an empty in-memory EventStore.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{}
}

func (s *MemoryEventStore) Create(_ context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	s.events = append(s.events, *event)
	return nil
}

func (s *MemoryEventStore) ListRecent(_ context.Context, limit int64) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Event
	for i := len(s.events) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
