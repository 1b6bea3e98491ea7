// Package services – AgentService
//
// This file implements the orchestrator behind the AI agent endpoints. One
// run handles one turn, voice or text, strictly in sequence: validate
// identifiers, prepare the input (decode audio to a transient file for the
// voice path), load the user's conversation history, call the external AI
// gateway, post-process the raw answer, persist the turn, return the
// processed answer.
//
// Failure semantics: the first error at any stage aborts the run; nothing is
// retried. Persisting the turn is part of the unit of work; the caller
// never receives an answer that was not durably stored.
//
// Timing: process time is measured from request entry to gateway completion
// for both variants (one consistent measurement point).
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// company/user identifiers.
package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/morseverse/backend/internal/domain"
	"github.com/morseverse/backend/internal/gateway"
)

// TranscriptStore defines the persistence contract required by AgentService.
type TranscriptStore interface {
	// InsertTurn appends a turn; turns are immutable once written.
	InsertTurn(ctx context.Context, t *domain.Turn) (*domain.Turn, error)

	// ListTurns returns the full history for (companyID, userID), unordered.
	ListTurns(ctx context.Context, companyID, userID primitive.ObjectID) ([]domain.Turn, error)

	// ListCompanyTurns returns a company's full history, newest first.
	ListCompanyTurns(ctx context.Context, companyID primitive.ObjectID) ([]domain.Turn, error)
}

// AnswerGateway defines the upstream AI contract required by AgentService.
type AnswerGateway interface {
	// ProcessVoice submits recorded audio plus history for transcription
	// and answering.
	ProcessVoice(ctx context.Context, companyID, lang, wavPath string, history []domain.Turn) (*gateway.RawAnswer, error)

	// GetAnswer submits a typed question plus history.
	GetAnswer(ctx context.Context, lang, question string, history []domain.Turn) (*gateway.RawAnswer, error)
}

// AgentService orchestrates AI conversation turns and transcript summaries.
type AgentService struct {
	Store   TranscriptStore
	Gateway AnswerGateway

	// TmpDir receives transient audio files; empty means os.TempDir().
	TmpDir string
}

// NewAgentService constructs an AgentService bound to the given store and
// gateway client.
func NewAgentService(store TranscriptStore, gw AnswerGateway) *AgentService {
	return &AgentService{Store: store, Gateway: gw}
}

// VoiceTurn runs one voice interaction: wavBase64 is decoded, uploaded to
// the company-scoped voice endpoint together with the user's history, the
// answer is post-processed and persisted, and the persisted turn returned.
// The transient audio file is removed on every exit path.
func (s *AgentService) VoiceTurn(ctx context.Context, companyID, userID, lang, wavBase64 string) (*domain.Turn, error) {
	tr := otel.Tracer("services/AgentService")
	ctx, span := tr.Start(ctx, "VoiceTurn",
		trace.WithAttributes(
			attribute.String("company.id", companyID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	start := time.Now()

	company, user, err := parseIDs(companyID, userID)
	if err != nil {
		return nil, err
	}

	audio, err := base64.StdEncoding.DecodeString(wavBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAudio, err)
	}
	wavPath, err := s.writeTempAudio(audio)
	if err != nil {
		return nil, fmt.Errorf("store audio: %w", err)
	}
	defer os.Remove(wavPath)

	history, err := s.Store.ListTurns(ctx, company, user)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	raw, err := s.Gateway.ProcessVoice(ctx, companyID, langOrDefault(lang), wavPath, history)
	if err != nil {
		return nil, err
	}

	return s.finishTurn(ctx, company, user, lang, raw, time.Since(start))
}

// TextTurn runs one typed interaction against the generic answer endpoint.
// Same sequence as VoiceTurn minus the audio handling.
func (s *AgentService) TextTurn(ctx context.Context, companyID, userID, lang, question string) (*domain.Turn, error) {
	tr := otel.Tracer("services/AgentService")
	ctx, span := tr.Start(ctx, "TextTurn",
		trace.WithAttributes(
			attribute.String("company.id", companyID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	start := time.Now()

	company, user, err := parseIDs(companyID, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	history, err := s.Store.ListTurns(ctx, company, user)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	raw, err := s.Gateway.GetAnswer(ctx, langOrDefault(lang), question, history)
	if err != nil {
		return nil, err
	}

	return s.finishTurn(ctx, company, user, lang, raw, time.Since(start))
}

// Summary loads a company's transcript newest-first and aggregates it.
func (s *AgentService) Summary(ctx context.Context, companyID string) (*domain.TranscriptSummary, error) {
	tr := otel.Tracer("services/AgentService")
	ctx, span := tr.Start(ctx, "Summary",
		trace.WithAttributes(attribute.String("company.id", companyID)),
	)
	defer span.End()

	company, err := primitive.ObjectIDFromHex(companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, companyID)
	}

	turns, err := s.Store.ListCompanyTurns(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	sum := Summarize(turns)
	return &sum, nil
}

// finishTurn post-processes a raw gateway answer, persists the resulting
// turn, and returns it. elapsed covers request entry through gateway
// completion and becomes the recorded process time.
func (s *AgentService) finishTurn(ctx context.Context, company, user primitive.ObjectID, lang string, raw *gateway.RawAnswer, elapsed time.Duration) (*domain.Turn, error) {
	answer, links, voice := RefineAnswer(raw.Answer, langOrDefault(lang))
	seconds := elapsed.Seconds()

	processed := domain.AIAnswer{
		Question:    raw.Question,
		Answer:      answer,
		VoiceAnswer: &voice,
		Links:       links,
		ProcessTime: &seconds,
	}

	turn := &domain.Turn{
		CompanyID: company,
		UserID:    user,
		Answer:    processed,
		Lang:      langOrDefault(lang),
		Time:      time.Now().UTC(),
	}
	if _, err := s.Store.InsertTurn(ctx, turn); err != nil {
		return nil, fmt.Errorf("persist turn: %w", err)
	}

	return turn, nil
}

// writeTempAudio spills decoded audio bytes to a transient wav file and
// returns its path. The caller removes the file.
func (s *AgentService) writeTempAudio(audio []byte) (string, error) {
	f, err := os.CreateTemp(s.TmpDir, "voice-*.wav")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(audio); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// parseIDs validates the two request identifiers before any I/O happens.
func parseIDs(companyID, userID string) (primitive.ObjectID, primitive.ObjectID, error) {
	company, err := primitive.ObjectIDFromHex(companyID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("%w: company %q", ErrInvalidID, companyID)
	}
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("%w: user %q", ErrInvalidID, userID)
	}
	return company, user, nil
}

// langOrDefault applies the default language tag to blank input.
func langOrDefault(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return domain.DefaultLang
	}
	return lang
}
