// Package services – SubscriptionService
//
// Newsletter subscription capture and listing. Thin by design: timestamps
// are applied here, persistence and pagination mechanics live in the repo.
package services

import (
	"context"
	"time"

	"github.com/morseverse/backend/internal/domain"
)

// SubscriptionStore defines the persistence contract required by
// SubscriptionService.
type SubscriptionStore interface {
	InsertSubscription(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error)
	CountSubscriptions(ctx context.Context) (int64, error)
	ListSubscriptionsPage(ctx context.Context, offset, limit int) ([]domain.Subscription, error)
}

// SubscriptionService manages newsletter signups.
type SubscriptionService struct {
	Store SubscriptionStore
}

// Create stores a subscription, stamping the signup date when absent.
func (s *SubscriptionService) Create(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	if sub.Date.IsZero() {
		sub.Date = time.Now().UTC()
	}
	return s.Store.InsertSubscription(ctx, sub)
}

// ListPage returns a page of subscriptions (newest first) and the total
// count. Invalid page/pageSize values fall back to defaults.
func (s *SubscriptionService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Subscription, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Store.CountSubscriptions(ctx)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Subscription{}, 0, nil
	}

	items, err := s.Store.ListSubscriptionsPage(ctx, offset, pageSize)
	return items, total, err
}
