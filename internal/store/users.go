// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"trafficwatch/internal/model"
)

// UserStore provides access to the user collection.
type UserStore interface {
	// Create inserts a new user and fills in its generated ID.
	Create(ctx context.Context, user *model.User) error
	// FindByEmail returns the user with the given email, or nil when absent.
	// The lookup is case-sensitive, matching how emails are stored.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByID returns the user with the given hex ID, or nil when absent.
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// MongoUserStore is the MongoDB-backed UserStore.
type MongoUserStore struct {
	collection *mongo.Collection
}

// NewMongoUserStore creates a UserStore over the users collection.
func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{collection: db.Collection(CollectionUsers)}
}

func (s *MongoUserStore) Create(ctx context.Context, user *model.User) error {
	res, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return &user, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var user model.User
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding user by id: %w", err)
	}
	return &user, nil
}
