// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/morseverse/backend/internal/config"
	"github.com/morseverse/backend/internal/drive"
	"github.com/morseverse/backend/internal/gateway"
	"github.com/morseverse/backend/internal/http/handlers"
	"github.com/morseverse/backend/internal/http/middleware"
	"github.com/morseverse/backend/internal/mail"
	"github.com/morseverse/backend/internal/repo"
	"github.com/morseverse/backend/internal/security"
	"github.com/morseverse/backend/internal/services"
	"github.com/morseverse/backend/internal/storage"
)

// Deps bundles the infrastructure the router wires into services and
// handlers. Content and Drive are optional; their endpoints respond 503 when
// the corresponding client is not configured.
type Deps struct {
	Cfg     config.Config
	DB      *gorm.DB
	Store   *repo.Store
	Gateway *gateway.Client
	Mail    mail.Sender
	Content *storage.Client
	Drive   *drive.Client
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and
// rate limiting, CORS and security headers, health and metrics endpoints, and
// then mounts the versioned public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (generous: voice payloads arrive base64-encoded)
//  6. Response compression
//  7. Metrics
//  8. Optional auth (resolves identities for logging and rate limiting)
//  9. Idempotency validator (before rate limiter to allow bypass on replay)
//  10. Rate limiter (per user/IP, bypass on replay)
//  11. CORS and Security headers
func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Cfg
	r.HandleMethodNotAllowed = true

	tokens := security.NewTokenIssuer(cfg.Auth.SecretKey)

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			middleware.HeaderCompanyID,
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (16 MiB; base64 WAV payloads are large)
	r.Use(limitBody(16 << 20))

	// 6) Compress JSON responses (transcript summaries, base64 images)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Resolve bearer identities without rejecting anonymous traffic
	r.Use(middleware.OptionalAuth(tokens))

	// 9) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, companyID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, d.DB, userID, companyID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 10) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 11) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		middleware.HeaderIdempotencyKey, middleware.HeaderCompanyID,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps
		// tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in
		// addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← store/gateway/mail
	agentSvc := services.NewAgentService(d.Store, d.Gateway)
	authSvc := services.NewAuthService(d.Store, d.Mail, tokens, cfg.Auth)
	subSvc := &services.SubscriptionService{Store: d.Store}
	demoSvc := &services.DemoService{
		Store:      d.Store,
		Mail:       d.Mail,
		Recipients: cfg.SMTP.DemoRecipients,
	}

	hd := handlers.Deps{
		Agent:          agentSvc,
		Auth:           authSvc,
		Subs:           subSvc,
		Demo:           demoSvc,
		Files:          d.Store,
		Turns:          d.Store,
		DB:             d.DB,
		IdempotencyTTL: cfg.IdempotencyTTL,
	}
	// Assign optional clients only when present so the nil checks in the
	// handlers see a nil interface, not a typed nil pointer.
	if d.Content != nil {
		hd.Content = d.Content
	}
	if d.Drive != nil {
		hd.Drive = d.Drive
	}
	h := handlers.New(hd)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api/v2"
	{
		// AI agent
		api.POST("/ai/usermessage", h.PostVoiceMessage)
		api.POST("/ai/textusermessage", h.PostTextMessage)
		api.GET("/dashboard/ai_summary/:company_id", h.GetSummary)

		// Accounts
		api.POST("/auth/signup", h.Signup)
		api.POST("/auth/login", h.Login)
		api.GET("/auth/verify-email", h.VerifyEmail)
		api.POST("/auth/forgot-password", h.ForgotPassword)
		api.POST("/auth/reset-password", h.ResetPassword)

		// Marketing
		api.POST("/subscriptions/person", h.Subscribe)
		api.GET("/subscriptions/people", middleware.RequireAuth(tokens), h.ListSubscriptions)
		api.POST("/demo", h.SubmitDemo)

		// Product content
		api.GET("/cloud/get-coordinates/:project", h.GetCoordinates)
		api.GET("/cloud/get-image/*path", h.GetImage)

		// Documentation files (authenticated)
		files := api.Group("/files", middleware.RequireAuth(tokens))
		{
			files.POST("/fileUpload", h.UploadFile)
			files.GET("/listFiles", h.ListFiles)
			files.GET("/downloadFile/:id", h.DownloadFile)
			files.DELETE("/deleteFile/:id", h.DeleteFile)
		}
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
