package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/morseverse/backend/internal/storage"
)

type stubContent struct {
	project func(ctx context.Context, name string) (*storage.Project, error)
	fetch   func(ctx context.Context, path string) ([]byte, error)
}

func (s *stubContent) ProjectByName(ctx context.Context, name string) (*storage.Project, error) {
	return s.project(ctx, name)
}
func (s *stubContent) Fetch(ctx context.Context, path string) ([]byte, error) {
	return s.fetch(ctx, path)
}

func contentRouter(cs ContentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(Deps{Content: cs})
	r := gin.New()
	r.GET("/cloud/get-coordinates/:project", h.GetCoordinates)
	r.GET("/cloud/get-image/*path", h.GetImage)
	return r
}

func TestGetCoordinates(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		r := contentRouter(nil)
		w := doJSON(t, r, http.MethodGet, "/cloud/get-coordinates/demo", "", nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", w.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		r := contentRouter(&stubContent{
			project: func(context.Context, string) (*storage.Project, error) {
				return nil, storage.ErrObjectNotFound
			},
		})
		w := doJSON(t, r, http.MethodGet, "/cloud/get-coordinates/ghost", "", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
		if e := decodeErr(t, w); e.Code != ErrCodeNotFound {
			t.Fatalf("code = %q", e.Code)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		r := contentRouter(&stubContent{
			project: func(context.Context, string) (*storage.Project, error) {
				return nil, errors.New("bucket unreachable")
			},
		})
		w := doJSON(t, r, http.MethodGet, "/cloud/get-coordinates/demo", "", nil)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r := contentRouter(&stubContent{
			project: func(_ context.Context, name string) (*storage.Project, error) {
				if name != "venice" {
					t.Fatalf("project = %q", name)
				}
				return &storage.Project{ProjectName: "Venice"}, nil
			},
		})
		w := doJSON(t, r, http.MethodGet, "/cloud/get-coordinates/venice", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
		}
		var p storage.Project
		if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if p.ProjectName != "Venice" {
			t.Fatalf("unexpected project: %+v", p)
		}
	})
}

func TestGetImage(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		r := contentRouter(&stubContent{
			fetch: func(context.Context, string) ([]byte, error) {
				return nil, storage.ErrObjectNotFound
			},
		})
		w := doJSON(t, r, http.MethodGet, "/cloud/get-image/missing.jpg", "", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})

	t.Run("success strips wildcard slash and encodes", func(t *testing.T) {
		raw := []byte{0xFF, 0xD8, 0xFF, 0xE0}
		r := contentRouter(&stubContent{
			fetch: func(_ context.Context, path string) ([]byte, error) {
				if path != "tours/venice/pano1.jpg" {
					t.Fatalf("path = %q", path)
				}
				return raw, nil
			},
		})
		w := doJSON(t, r, http.MethodGet, "/cloud/get-image/tours/venice/pano1.jpg", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
		}
		var resp ImageResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.ImageBase64 != base64.StdEncoding.EncodeToString(raw) {
			t.Fatalf("unexpected payload: %q", resp.ImageBase64)
		}
	})
}
