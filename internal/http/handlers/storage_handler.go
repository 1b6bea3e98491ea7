// Product content HTTP handlers.
//
// This file exposes the cloud content endpoints backing the 360° tour player:
//   - GET /cloud/get-coordinates/{project}  (hotspot layout for one project)
//   - GET /cloud/get-image/{path}           (image bytes, base64-encoded)
//
// Content lives in a GCS bucket; this layer only shapes responses and maps
// missing objects to 404.
package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/morseverse/backend/internal/storage"
)

// ImageResponse carries one bucket object as a base64 payload, ready for a
// data URI on the client.
type ImageResponse struct {
	ImageBase64 string `json:"image_base64"`
}

// GetCoordinates godoc
// @ID          getCoordinates
// @Summary     Hotspot coordinates for a project
// @Description Returns the named project's 360° images and hotspot coordinates. Matching is case-insensitive.
// @Tags        Content
// @Produce     json
// @Param       project path string true "Project name"
// @Success     200 {object} storage.Project
// @Failure     404 {object} handlers.ErrorResponse "Project not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /cloud/get-coordinates/{project} [get]
func (h *Handlers) GetCoordinates(c *gin.Context) {
	if h.deps.Content == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeContentFailed, "content storage not configured")
		return
	}

	p, err := h.deps.Content.ProjectByName(c.Request.Context(), c.Param("project"))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "project not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeContentFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// GetImage godoc
// @ID          getImage
// @Summary     Fetch a content image
// @Description Returns the object at the given bucket path, base64-encoded.
// @Tags        Content
// @Produce     json
// @Param       path path string true "Object path within the bucket"
// @Success     200 {object} handlers.ImageResponse
// @Failure     404 {object} handlers.ErrorResponse "Object not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /cloud/get-image/{path} [get]
func (h *Handlers) GetImage(c *gin.Context) {
	if h.deps.Content == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeContentFailed, "content storage not configured")
		return
	}

	// Wildcard params carry a leading slash.
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "object path required")
		return
	}

	raw, err := h.deps.Content.Fetch(c.Request.Context(), path)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "object not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeContentFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ImageResponse{ImageBase64: base64.StdEncoding.EncodeToString(raw)})
}
