// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trafficwatch/internal/model"
)

// UploadStore records one summary document per successful ingest.
type UploadStore interface {
	Create(ctx context.Context, upload *model.Upload) error
	// ListRecent returns the newest uploads first, at most limit entries.
	ListRecent(ctx context.Context, limit int64) ([]model.Upload, error)
}

// MongoUploadStore is the MongoDB-backed UploadStore.
type MongoUploadStore struct {
	collection *mongo.Collection
}

// NewMongoUploadStore creates an UploadStore over the uploads collection.
func NewMongoUploadStore(db *mongo.Database) *MongoUploadStore {
	return &MongoUploadStore{collection: db.Collection(CollectionUploads)}
}

func (s *MongoUploadStore) Create(ctx context.Context, upload *model.Upload) error {
	res, err := s.collection.InsertOne(ctx, upload)
	if err != nil {
		return fmt.Errorf("inserting upload summary: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		upload.ID = id
	}
	return nil
}

func (s *MongoUploadStore) ListRecent(ctx context.Context, limit int64) ([]model.Upload, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit)
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying uploads: %w", err)
	}
	defer cursor.Close(ctx)

	var uploads []model.Upload
	if err := cursor.All(ctx, &uploads); err != nil {
		return nil, fmt.Errorf("decoding uploads: %w", err)
	}
	return uploads, nil
}
