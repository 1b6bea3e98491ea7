// Package repo implements the data persistence layer. This file provides
// repository methods for the User model (Registered_users collection).
//
// Functions:
//
//   - InsertUser(ctx, user) -> *domain.User, error
//     Inserts a new user document and fills in the generated id.
//
//   - FindUserByEmail(ctx, email) -> *domain.User, error
//     Returns ErrNotFound when no account exists for the email.
//
//   - FindUserByID(ctx, id) -> *domain.User, error
//     Lookup by document id; returns ErrNotFound when missing.
//
//   - MarkUserVerified(ctx, id) -> error
//     Sets is_verified; ErrNotFound when nothing matched.
//
//   - UpdateUserPassword(ctx, id, hash) -> error
//     Replaces the stored bcrypt hash; ErrNotFound when nothing matched.
package repo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/morseverse/backend/internal/domain"
)

// InsertUser inserts a new user document. The caller is responsible for
// uniqueness checks (FindUserByEmail) before calling.
func (s *Store) InsertUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if _, err := s.main.Collection(collUsers).InsertOne(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// FindUserByEmail fetches a user by email, or ErrNotFound.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.main.Collection(collUsers).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserByID fetches a user by document id, or ErrNotFound.
func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := s.main.Collection(collUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// MarkUserVerified flips is_verified for the given user id.
func (s *Store) MarkUserVerified(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.main.Collection(collUsers).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_verified": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserPassword replaces the stored password hash for the given user id.
func (s *Store) UpdateUserPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.main.Collection(collUsers).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"hashed_password": hash}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
