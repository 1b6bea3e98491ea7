// Package repo implements the data persistence layer. This file provides the
// transcript store adapter: conversation turns keyed by (companyId, userId)
// in the UserMessage collection.
//
// Turns are append-only. The orchestrator reads history in whatever order the
// store returns it; only the summary reporting path asks for an explicit sort
// (newest first). No update or delete operations exist.
//
// Error semantics: raw driver errors are propagated (connectivity, write
// rejection). An empty result set is not an error; ListTurns returns an
// empty slice.
package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/morseverse/backend/internal/domain"
)

// InsertTurn appends a conversation turn and returns it with the generated
// document id filled in.
func (s *Store) InsertTurn(ctx context.Context, t *domain.Turn) (*domain.Turn, error) {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if _, err := s.ai.Collection(collTurns).InsertOne(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// FindTurn returns a single turn by document id. Used by the idempotency
// replay path to serve a previously persisted answer.
func (s *Store) FindTurn(ctx context.Context, id primitive.ObjectID) (*domain.Turn, error) {
	var t domain.Turn
	if err := s.ai.Collection(collTurns).FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTurns returns every turn for (companyID, userID), unordered. Used by
// the orchestrator to prime the upstream AI with conversation history.
func (s *Store) ListTurns(ctx context.Context, companyID, userID primitive.ObjectID) ([]domain.Turn, error) {
	filter := bson.M{"companyId": companyID, "userId": userID}
	cur, err := s.ai.Collection(collTurns).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Turn{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCompanyTurns returns every turn for a company across all of its users,
// sorted by creation time descending (newest first). Used only by the
// transcript summary endpoint.
func (s *Store) ListCompanyTurns(ctx context.Context, companyID primitive.ObjectID) ([]domain.Turn, error) {
	filter := bson.M{"companyId": companyID}
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	cur, err := s.ai.Collection(collTurns).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Turn{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
