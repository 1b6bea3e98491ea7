// AI agent HTTP handlers.
//
// This file exposes the conversational endpoints of the public API:
//   - POST /ai/usermessage              (voice turn: base64 wav in, answer out)
//   - POST /ai/textusermessage          (text turn: typed question in, answer out)
//   - GET  /dashboard/ai_summary/{id}   (company transcript summary)
//
// Handlers are transport-thin:
//   - validate & normalize inputs (identifier shape, payload presence)
//   - delegate to application services (AgentService)
//   - implement idempotency semantics for the turn endpoints
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// turn exists for (user, company, key), the handler returns that recorded
// answer and sets `Idempotency-Replayed: true`.
//
// It also hosts the service interfaces and the Handlers dependency bundle
// shared by every handler file in this package.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"github.com/morseverse/backend/internal/domain"
	"github.com/morseverse/backend/internal/drive"
	"github.com/morseverse/backend/internal/http/middleware"
	"github.com/morseverse/backend/internal/repo"
	"github.com/morseverse/backend/internal/services"
	"github.com/morseverse/backend/internal/storage"
)

//
// Service contracts
//

// AgentService defines the conversational operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and must honor
// the provided context for cancellation and timeouts.
type AgentService interface {
	// VoiceTurn runs one voice interaction and returns the persisted turn.
	VoiceTurn(ctx context.Context, companyID, userID, lang, wavBase64 string) (*domain.Turn, error)
	// TextTurn runs one typed interaction and returns the persisted turn.
	TextTurn(ctx context.Context, companyID, userID, lang, question string) (*domain.Turn, error)
	// Summary aggregates a company's transcript.
	Summary(ctx context.Context, companyID string) (*domain.TranscriptSummary, error)
}

// AuthService defines the account lifecycle operations consumed by HTTP
// handlers.
type AuthService interface {
	Signup(ctx context.Context, in services.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// SubscriptionService defines newsletter signup operations.
type SubscriptionService interface {
	Create(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error)
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Subscription, int64, error)
}

// DemoService captures "book a demo" form submissions.
type DemoService interface {
	Submit(ctx context.Context, d *domain.DemoRequest) (*domain.DemoRequest, error)
}

// ContentService serves product content from object storage.
type ContentService interface {
	ProjectByName(ctx context.Context, name string) (*storage.Project, error)
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// DriveService manages customer documentation files.
type DriveService interface {
	Upload(ctx context.Context, name, mimeType string, content io.Reader) (*drive.Upload, error)
	List(ctx context.Context, pageSize int64) ([]drive.File, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileID string) error
}

// FileLinkStore removes dangling documentation links after a file delete.
type FileLinkStore interface {
	RemoveCompanyFileLink(ctx context.Context, fileID string) error
}

// TurnFinder loads a persisted turn by id; used by the idempotency replay
// path.
type TurnFinder interface {
	FindTurn(ctx context.Context, id primitive.ObjectID) (*domain.Turn, error)
}

//
// Handler wiring
//

// Deps bundles everything the HTTP handlers depend on. Optional collaborators
// (Content, Drive, DB) may be nil; the corresponding endpoints then respond
// 503 or skip the optional behavior.
type Deps struct {
	Agent   AgentService
	Auth    AuthService
	Subs    SubscriptionService
	Demo    DemoService
	Content ContentService
	Drive   DriveService
	Files   FileLinkStore
	Turns   TurnFinder

	// DB backs the idempotency store; nil disables replay detection.
	DB *gorm.DB
	// IdempotencyTTL bounds how long a recorded turn can be replayed.
	IdempotencyTTL time.Duration
}

// Handlers groups the HTTP endpoints of the public API. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	deps Deps
}

// New constructs a Handlers instance bound to the given dependencies.
func New(deps Deps) *Handlers {
	if deps.IdempotencyTTL <= 0 {
		deps.IdempotencyTTL = 24 * time.Hour
	}
	return &Handlers{deps: deps}
}

//
// DTOs
//

// VoiceTurnRequest is the JSON payload for a recorded voice interaction.
type VoiceTurnRequest struct {
	// CompanyID scopes the turn to a tenant (24-hex document id).
	CompanyID string `json:"companyId" binding:"required" example:"66b2a7f4c0ffee0001abcdef"`
	// UserID identifies the end user speaking (24-hex document id).
	UserID string `json:"userId" binding:"required" example:"66b2a7f4c0ffee0001fedcba"`
	// Lang is an optional language tag; defaults to EN-US.
	Lang string `json:"lang" example:"IT"`
	// WavData is the recorded utterance, base64-encoded WAV bytes.
	WavData string `json:"wavData" binding:"required"`
}

// TextTurnRequest is the JSON payload for a typed interaction.
type TextTurnRequest struct {
	CompanyID string `json:"companyId" binding:"required" example:"66b2a7f4c0ffee0001abcdef"`
	UserID    string `json:"userId" binding:"required" example:"66b2a7f4c0ffee0001fedcba"`
	Lang      string `json:"lang" example:"EN-US"`
	// Question is the typed user prompt. It must be non-empty.
	Question string `json:"question" binding:"required,min=1" example:"What does the starter plan include?"`
}

//
// Handlers
//

// PostVoiceMessage godoc
// @ID          postVoiceMessage
// @Summary     Submit a recorded voice message
// @Description Decodes the audio, obtains an AI answer with the user's history as context, persists the turn, and returns the processed answer.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Agent
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header string false "Idempotency key for safe retries (UUID recommended)"
// @Param       body body handlers.VoiceTurnRequest true "Voice turn payload"
// @Success     200 {object} domain.AIAnswer "Processed answer"
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /ai/usermessage [post]
func (h *Handlers) PostVoiceMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req VoiceTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "companyId, userId and wavData are required")
		return
	}

	if h.replayTurn(c, req.UserID, req.CompanyID) {
		return
	}

	turn, err := h.deps.Agent.VoiceTurn(ctx, req.CompanyID, req.UserID, req.Lang, req.WavData)
	if err != nil {
		failTurn(c, err)
		return
	}

	h.recordTurn(c, req.UserID, req.CompanyID, turn)
	ok(c, http.StatusOK, turn.Answer)
}

// PostTextMessage godoc
// @ID          postTextMessage
// @Summary     Submit a typed question
// @Description Obtains an AI answer with the user's history as context, persists the turn, and returns the processed answer.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Agent
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header string false "Idempotency key for safe retries (UUID recommended)"
// @Param       body body handlers.TextTurnRequest true "Text turn payload"
// @Success     200 {object} domain.AIAnswer "Processed answer"
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /ai/textusermessage [post]
func (h *Handlers) PostTextMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req TextTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "companyId, userId and question are required")
		return
	}

	if h.replayTurn(c, req.UserID, req.CompanyID) {
		return
	}

	turn, err := h.deps.Agent.TextTurn(ctx, req.CompanyID, req.UserID, req.Lang, req.Question)
	if err != nil {
		failTurn(c, err)
		return
	}

	h.recordTurn(c, req.UserID, req.CompanyID, turn)
	ok(c, http.StatusOK, turn.Answer)
}

// GetSummary godoc
// @ID          getSummary
// @Summary     Company transcript summary
// @Description Aggregates every turn recorded for the company: question count, cumulative processing time, per-turn details (newest first).
// @Tags        Agent
// @Produce     json
// @Param       company_id path string true "Company ID (24-hex)"
// @Success     200 {object} domain.TranscriptSummary
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /dashboard/ai_summary/{company_id} [get]
func (h *Handlers) GetSummary(c *gin.Context) {
	sum, err := h.deps.Agent.Summary(c.Request.Context(), c.Param("company_id"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidID) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "company id must be a 24-hex identifier")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSummaryFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, sum)
}

//
// Helpers
//

// failTurn maps agent service errors onto the standard error envelope.
func failTurn(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidID):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "companyId and userId must be 24-hex identifiers")
	case errors.Is(err, services.ErrBadAudio):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "wavData must be valid base64")
	case errors.Is(err, services.ErrEmptyQuestion):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question required")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeAnswerFailed, err.Error())
	}
}

// replayTurn serves a previously recorded answer when the request carries an
// Idempotency-Key that matches a stored (user, company, key) record. Returns
// true when the response has been written.
func (h *Handlers) replayTurn(c *gin.Context, userID, companyID string) bool {
	key, okKey := middleware.GetIdempotencyKey(c)
	if !okKey || h.deps.DB == nil || h.deps.Turns == nil {
		return false
	}
	ctx := c.Request.Context()

	rec, err := repo.GetIdempotency(ctx, h.deps.DB, userID, companyID, key, time.Now().UTC())
	if err != nil || rec == nil {
		return false
	}
	turnID, err := primitive.ObjectIDFromHex(rec.TurnID)
	if err != nil {
		return false
	}
	prev, err := h.deps.Turns.FindTurn(ctx, turnID)
	if err != nil {
		return false
	}

	c.Header("Idempotency-Replayed", "true")
	ok(c, http.StatusOK, prev.Answer)
	return true
}

// recordTurn stores the idempotency record for a completed turn, best effort.
func (h *Handlers) recordTurn(c *gin.Context, userID, companyID string, turn *domain.Turn) {
	key, okKey := middleware.GetIdempotencyKey(c)
	if !okKey || h.deps.DB == nil {
		return
	}
	_, _ = repo.CreateIdempotency(c.Request.Context(), h.deps.DB,
		userID, companyID, key, turn.ID.Hex(), http.StatusOK, h.deps.IdempotencyTTL)
}
