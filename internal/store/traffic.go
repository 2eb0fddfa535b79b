// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"trafficwatch/internal/model"
)

// TrafficStore provides access to the ingested traffic collection.
type TrafficStore interface {
	// InsertMany stores one upload's worth of parsed rows as a single bulk write.
	InsertMany(ctx context.Context, records []model.TrafficRecord) error
	// FindAll returns the entire collection. The dashboard aggregator scans
	// it on every call; there is no pagination.
	FindAll(ctx context.Context) ([]model.TrafficRecord, error)
}

// MongoTrafficStore is the MongoDB-backed TrafficStore.
type MongoTrafficStore struct {
	collection *mongo.Collection
}

// NewMongoTrafficStore creates a TrafficStore over the traffic collection.
func NewMongoTrafficStore(db *mongo.Database) *MongoTrafficStore {
	return &MongoTrafficStore{collection: db.Collection(CollectionTraffic)}
}

func (s *MongoTrafficStore) InsertMany(ctx context.Context, records []model.TrafficRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]any, len(records))
	for i, rec := range records {
		docs[i] = rec
	}

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("bulk inserting traffic records: %w", err)
	}
	return nil
}

func (s *MongoTrafficStore) FindAll(ctx context.Context) ([]model.TrafficRecord, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("querying traffic records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []model.TrafficRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decoding traffic records: %w", err)
	}
	return records, nil
}
