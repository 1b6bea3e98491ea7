// Package domain defines the core persistence models for the application.
// The Idempotency type is the one relational model: it lives in a local
// SQLite database rather than MongoDB because records are process-scoped
// retry bookkeeping, not product data.
package domain

import "time"

// Idempotency records a previously processed unsafe request, keyed by
// (user_id, company_id, key). It lets clients retry POST operations (e.g. a
// resubmitted voice turn) without re-running side effects: the middleware
// flags the request as a replay and the handler can short-circuit.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_company_key,priority:1"`
	CompanyID string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_company_key,priority:2"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_company_key,priority:3"`
	TurnID    string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
