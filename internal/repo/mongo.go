// Package repo implements the data persistence layer. Product data (users,
// subscriptions, demo requests, conversation turns) lives in MongoDB; this
// file provides the explicit connect/close lifecycle around the shared
// client. The handle is constructed once at startup and injected into
// services; there is no package-level global.
package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/morseverse/backend/internal/config"
)

// Collection names used across the repositories.
const (
	collUsers         = "Registered_users"
	collSubscriptions = "Subscriptions"
	collDemo          = "demo"
	collTurns         = "UserMessage"
	collCompanies     = "Company"
)

// ErrNotFound is returned when a requested record does not exist. It aliases
// mongo.ErrNoDocuments so callers can use errors.Is against either value.
var ErrNotFound = mongo.ErrNoDocuments

// ErrDuplicate indicates a uniqueness violation (e.g. an idempotency record
// that already exists for a given key tuple).
var ErrDuplicate = errors.New("duplicate")

// Store wraps the MongoDB client and the two logical databases the product
// uses: the main database (users, subscriptions) and the AI database
// (conversation turns, demo requests, company documents).
//
// A Store is safe for concurrent use; every repository method issues an
// independent read or write against the shared client.
type Store struct {
	client *mongo.Client
	main   *mongo.Database
	ai     *mongo.Database
}

// Connect dials MongoDB, verifies the connection with a ping, and returns a
// ready Store. The caller owns the Store and must Close it on shutdown.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Store{
		client: client,
		main:   client.Database(cfg.DBName),
		ai:     client.Database(cfg.AIDB),
	}, nil
}

// Close releases the underlying MongoDB client.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
