// Package services – DemoService
//
// "Book a demo" submissions: persist the form, then notify the sales list
// by email. The notification is sent from a background goroutine after the
// write succeeds; the submitter should not wait on, or fail because of,
// SMTP. Delivery failures are logged, not surfaced.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/morseverse/backend/internal/domain"
	"github.com/morseverse/backend/internal/mail"
)

// DemoStore defines the persistence contract required by DemoService.
type DemoStore interface {
	InsertDemoRequest(ctx context.Context, d *domain.DemoRequest) (*domain.DemoRequest, error)
}

// DemoService persists demo requests and notifies the configured recipients.
type DemoService struct {
	Store      DemoStore
	Mail       mail.Sender
	Recipients []string
}

// Submit stores the request and schedules the notification email. The
// returned request carries the generated id.
func (s *DemoService) Submit(ctx context.Context, d *domain.DemoRequest) (*domain.DemoRequest, error) {
	d.CreatedAt = time.Now().UTC()

	d, err := s.Store.InsertDemoRequest(ctx, d)
	if err != nil {
		return nil, err
	}

	if len(s.Recipients) > 0 {
		body, err := mail.DemoBody(d)
		if err != nil {
			log.Error().Err(err).Str("demo_id", d.ID.Hex()).Msg("render demo notification")
			return d, nil
		}
		go func() {
			if err := s.Mail.Send(s.Recipients, "Book a demo", body); err != nil {
				log.Error().Err(err).Str("demo_id", d.ID.Hex()).Msg("send demo notification")
			}
		}()
	}

	return d, nil
}
