// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trafficwatch/internal/model"
)

// EventStore persists audit log entries.
type EventStore interface {
	Create(ctx context.Context, event *model.Event) error
	// ListRecent returns the newest events first, at most limit entries.
	ListRecent(ctx context.Context, limit int64) ([]model.Event, error)
}

// MongoEventStore is the MongoDB-backed EventStore.
type MongoEventStore struct {
	collection *mongo.Collection
}

// NewMongoEventStore creates an EventStore over the events collection.
func NewMongoEventStore(db *mongo.Database) *MongoEventStore {
	return &MongoEventStore{collection: db.Collection(CollectionEvents)}
}

func (s *MongoEventStore) Create(ctx context.Context, event *model.Event) error {
	if _, err := s.collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

func (s *MongoEventStore) ListRecent(ctx context.Context, limit int64) ([]model.Event, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit)
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []model.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}
	return events, nil
}
