// Package repo implements the data persistence layer. This file provides
// repository methods for newsletter subscriptions and demo requests.
package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/morseverse/backend/internal/domain"
)

// InsertSubscription stores a newsletter signup and returns it with the
// generated id filled in. A unique index on email maps to ErrDuplicate.
func (s *Store) InsertSubscription(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	if sub.ID.IsZero() {
		sub.ID = primitive.NewObjectID()
	}
	if _, err := s.main.Collection(collSubscriptions).InsertOne(ctx, sub); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return sub, nil
}

// CountSubscriptions returns the total number of stored subscriptions.
func (s *Store) CountSubscriptions(ctx context.Context) (int64, error) {
	return s.main.Collection(collSubscriptions).CountDocuments(ctx, bson.M{})
}

// ListSubscriptionsPage returns a page of subscriptions ordered by signup
// date descending. Use CountSubscriptions for pagination metadata.
func (s *Store) ListSubscriptionsPage(ctx context.Context, offset, limit int) ([]domain.Subscription, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := s.main.Collection(collSubscriptions).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Subscription{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertDemoRequest stores a "book a demo" submission in the AI database.
func (s *Store) InsertDemoRequest(ctx context.Context, d *domain.DemoRequest) (*domain.DemoRequest, error) {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	if _, err := s.ai.Collection(collDemo).InsertOne(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// RemoveCompanyFileLink pulls a Drive file reference out of the owning
// company document's documentationLinks array after the file is deleted.
// Returns ErrNotFound when no company document referenced the file.
func (s *Store) RemoveCompanyFileLink(ctx context.Context, fileID string) error {
	res, err := s.ai.Collection(collCompanies).UpdateOne(ctx,
		bson.M{"documentationLinks.fileId": fileID},
		bson.M{"$pull": bson.M{"documentationLinks": bson.M{"fileId": fileID}}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}
