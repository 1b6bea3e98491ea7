// Subscription and demo-request HTTP handlers.
//
// This file exposes the marketing endpoints:
//   - POST /subscriptions/person  (capture a newsletter signup)
//   - GET  /subscriptions/people  (list signups, paginated, newest first)
//   - POST /demo                  (capture a "book a demo" form submission)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/morseverse/backend/internal/domain"
	"github.com/morseverse/backend/internal/repo"
	"github.com/morseverse/backend/internal/utils"
)

//
// DTOs
//

// SubscribeRequest is the JSON payload for a newsletter signup.
type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email" example:"ada@example.com"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListSubscriptionsResponse wraps a page of signups and pagination metadata.
type ListSubscriptionsResponse struct {
	Subscriptions []domain.Subscription `json:"subscriptions"`
	Pagination    Pagination            `json:"pagination"`
}

// DemoFormRequest is the JSON payload of the "book a demo" form.
type DemoFormRequest struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName"`
	Email          string `json:"email" binding:"required,email"`
	Website        string `json:"website" binding:"required"`
	Country        string `json:"country"`
	CommunityScale string `json:"communityScale"`
	Message        string `json:"message"`
	Goals          string `json:"goals" binding:"required"`
}

//
// Helpers
//

// clampPagination parses page/page_size from query parameters, applies sane
// defaults and caps, and returns the validated (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// Subscribe godoc
// @ID          subscribe
// @Summary     Capture a newsletter signup
// @Tags        Subscriptions
// @Accept      json
// @Produce     json
// @Param       body body handlers.SubscribeRequest true "Signup payload"
// @Success     201 {object} domain.Subscription
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     409 {object} handlers.ErrorResponse "Already subscribed"
// @Router      /subscriptions/person [post]
func (h *Handlers) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "valid email required")
		return
	}

	sub, err := h.deps.Subs.Create(c.Request.Context(), &domain.Subscription{Email: req.Email})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			fail(c, http.StatusConflict, ErrCodeConflict, "already subscribed")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}

	ok(c, http.StatusCreated, sub)
}

// ListSubscriptions godoc
// @ID          listSubscriptions
// @Summary     List newsletter signups
// @Description Returns a paginated list of signups, newest first.
// @Tags        Subscriptions
// @Produce     json
// @Param       page      query int false "Page number"    minimum(1) default(1)
// @Param       page_size query int false "Items per page" minimum(1) maximum(100) default(20)
// @Success     200 {object} handlers.ListSubscriptionsResponse
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /subscriptions/people [get]
func (h *Handlers) ListSubscriptions(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.deps.Subs.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListSubscriptionsResponse{
		Subscriptions: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// SubmitDemo godoc
// @ID          submitDemo
// @Summary     Capture a demo request
// @Description Stores the form submission and notifies the sales inbox by email (asynchronously).
// @Tags        Demo
// @Accept      json
// @Produce     json
// @Param       body body handlers.DemoFormRequest true "Demo form payload"
// @Success     201 {object} domain.DemoRequest
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /demo [post]
func (h *Handlers) SubmitDemo(c *gin.Context) {
	var req DemoFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "firstName, email, website and goals are required")
		return
	}

	d, err := h.deps.Demo.Submit(c.Request.Context(), &domain.DemoRequest{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Website:        req.Website,
		Country:        req.Country,
		CommunityScale: req.CommunityScale,
		Message:        req.Message,
		Goals:          req.Goals,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}

	ok(c, http.StatusCreated, d)
}
