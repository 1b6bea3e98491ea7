// Package gateway implements the HTTP client for the external AI service
// that performs speech recognition and answer generation. The client is a
// pure delegation boundary: it shapes payloads, enforces a bounded timeout,
// and surfaces every transport or decoding problem as a gateway error. It
// applies no post-processing and never retries.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/morseverse/backend/internal/config"
	"github.com/morseverse/backend/internal/domain"
)

// RawAnswer is the upstream response shape, before any post-processing.
// VoiceAnswer and Links may be absent; ProcessTime as reported upstream is
// ignored by the orchestrator, which measures its own wall-clock time.
type RawAnswer struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	VoiceAnswer *string  `json:"voice_answer"`
	Links       []string `json:"links"`
	ProcessTime *float64 `json:"process_time"`
}

// Client calls the external AI endpoints. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client for the configured base URL with the configured
// per-request timeout.
func New(cfg config.AgentConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// ProcessVoice uploads a recorded wav file together with the language tag
// and the serialized conversation history to the company-scoped voice
// endpoint, and returns the raw answer.
//
// Wire contract: POST {base}/process_voice/{companyId}, multipart form with
// a "file" part (audio/wav), a "lang" field, and a "user_messages" field
// holding the history as a JSON string.
func (c *Client) ProcessVoice(ctx context.Context, companyID, lang, wavPath string, history []domain.Turn) (*RawAnswer, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return nil, fmt.Errorf("gateway: open audio file: %w", err)
	}
	defer f.Close()

	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("gateway: encode history: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "output.wav")
	if err != nil {
		return nil, fmt.Errorf("gateway: build multipart: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("gateway: read audio file: %w", err)
	}
	if err := mw.WriteField("lang", lang); err != nil {
		return nil, fmt.Errorf("gateway: build multipart: %w", err)
	}
	if err := mw.WriteField("user_messages", string(historyJSON)); err != nil {
		return nil, fmt.Errorf("gateway: build multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("gateway: build multipart: %w", err)
	}

	url := fmt.Sprintf("%s/process_voice/%s", c.baseURL, companyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req)
}

// answerRequest is the JSON payload of the text endpoint.
type answerRequest struct {
	UserMessages []domain.Turn `json:"user_messages"`
	Lang         string        `json:"lang"`
	Question     string        `json:"question"`
}

// GetAnswer sends a typed question plus conversation history to the generic
// text endpoint (not company-scoped) and returns the raw answer.
func (c *Client) GetAnswer(ctx context.Context, lang, question string, history []domain.Turn) (*RawAnswer, error) {
	payload, err := json.Marshal(answerRequest{
		UserMessages: history,
		Lang:         lang,
		Question:     question,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway: encode payload: %w", err)
	}

	url := c.baseURL + "/get_answer/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// do executes a prepared request and decodes the shared response shape.
// A non-2xx status, an empty body, or a body that fails to decode are all
// gateway failures; the response body text is included for operability.
func (c *Client) do(req *http.Request) (*RawAnswer, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("gateway: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway: unexpected status %d: %s", resp.StatusCode, truncateBody(raw))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("gateway: empty response body")
	}

	var out RawAnswer
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("gateway: decode response: %w", err)
	}
	if out.Answer == "" && out.Question == "" {
		return nil, fmt.Errorf("gateway: response missing question and answer")
	}
	return &out, nil
}

// truncateBody caps upstream error text carried into our error messages.
func truncateBody(b []byte) string {
	const max = 512
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "…"
}
