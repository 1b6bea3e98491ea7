package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/morseverse/backend/internal/config"
	"github.com/morseverse/backend/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return New(config.AgentConfig{BaseURL: baseURL, Timeout: 5 * time.Second})
}

func writeWav(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "in.wav")
	if err := os.WriteFile(p, []byte("RIFFdata"), 0o600); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	return p
}

func TestClient_ProcessVoice_WireShape(t *testing.T) {
	companyID := primitive.NewObjectID().Hex()
	history := []domain.Turn{{Lang: "EN-US"}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if want := "/process_voice/" + companyID; r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("lang"); got != "EN-US" {
			t.Errorf("lang = %q", got)
		}
		var hist []domain.Turn
		if err := json.Unmarshal([]byte(r.FormValue("user_messages")), &hist); err != nil || len(hist) != 1 {
			t.Errorf("user_messages = %q (err %v)", r.FormValue("user_messages"), err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("file part: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "output.wav" {
			t.Errorf("filename = %q", hdr.Filename)
		}

		json.NewEncoder(w).Encode(RawAnswer{Question: "hi", Answer: "hello"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	out, err := c.ProcessVoice(context.Background(), companyID, "EN-US", writeWav(t), history)
	if err != nil {
		t.Fatalf("ProcessVoice: %v", err)
	}
	if out.Question != "hi" || out.Answer != "hello" {
		t.Fatalf("out = %+v", out)
	}
}

func TestClient_ProcessVoice_MissingFile(t *testing.T) {
	c := newTestClient("http://unused.invalid")
	_, err := c.ProcessVoice(context.Background(), "c", "EN-US", "/does/not/exist.wav", nil)
	if err == nil || !strings.Contains(err.Error(), "open audio file") {
		t.Fatalf("err = %v", err)
	}
}

func TestClient_GetAnswer_WireShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_answer/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var req struct {
			UserMessages []domain.Turn `json:"user_messages"`
			Lang         string        `json:"lang"`
			Question     string        `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Lang != "IT" || req.Question != "ciao?" || len(req.UserMessages) != 2 {
			t.Errorf("req = %+v", req)
		}
		json.NewEncoder(w).Encode(RawAnswer{Question: "ciao?", Answer: "ciao!"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	out, err := c.GetAnswer(context.Background(), "IT", "ciao?", make([]domain.Turn, 2))
	if err != nil {
		t.Fatalf("GetAnswer: %v", err)
	}
	if out.Answer != "ciao!" {
		t.Fatalf("answer = %q", out.Answer)
	}
}

func TestClient_Do_ErrorCases(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantSub string
	}{
		{"upstream 500", http.StatusInternalServerError, "boom", "unexpected status 500"},
		{"empty body", http.StatusOK, "", "empty response body"},
		{"bad json", http.StatusOK, "{not json", "decode response"},
		{"no content", http.StatusOK, `{"links":[]}`, "missing question and answer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := newTestClient(srv.URL)
			_, err := c.GetAnswer(context.Background(), "EN-US", "q", nil)
			if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("err = %v, want substring %q", err, tc.wantSub)
			}
		})
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can observe the client disconnect;
		// with unread body bytes the request context is never canceled and
		// srv.Close deadlocks waiting on this handler.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := newTestClient(srv.URL)
	if _, err := c.GetAnswer(ctx, "EN-US", "q", nil); err == nil {
		t.Fatal("expected context error")
	}
}

func TestTruncateBody(t *testing.T) {
	long := strings.Repeat("x", 600)
	got := truncateBody([]byte(long))
	if len([]rune(got)) != 513 || !strings.HasSuffix(got, "…") {
		t.Fatalf("truncated len = %d", len(got))
	}
	if truncateBody([]byte("short")) != "short" {
		t.Fatal("short body should pass through")
	}
}
