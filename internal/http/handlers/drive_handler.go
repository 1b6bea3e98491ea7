// Documentation file HTTP handlers.
//
// This file exposes the Drive-backed file management endpoints:
//   - POST   /files/fileUpload        (multipart upload)
//   - GET    /files/listFiles         (list stored files)
//   - GET    /files/downloadFile/{id} (stream one file as an attachment)
//   - DELETE /files/deleteFile/{id}   (delete and unlink from company docs)
//
// Files live in a service-account Drive space; company documents keep
// references to them, which delete cleans up best effort.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/morseverse/backend/internal/drive"
	"github.com/morseverse/backend/internal/http/middleware"
	"github.com/morseverse/backend/internal/repo"
)

// ListFilesResponse wraps the stored file listing.
type ListFilesResponse struct {
	Files []drive.File `json:"files"`
}

// UploadFile godoc
// @ID          uploadFile
// @Summary     Upload a documentation file
// @Description Accepts a multipart form with a "file" part and stores it in the Drive space.
// @Tags        Files
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "File content"
// @Success     201 {object} drive.Upload
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /files/fileUpload [post]
func (h *Handlers) UploadFile(c *gin.Context) {
	if h.deps.Drive == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeUploadFailed, "file storage not configured")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "multipart \"file\" part required")
		return
	}

	src, err := fh.Open()
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, err.Error())
		return
	}
	defer src.Close()

	up, err := h.deps.Drive.Upload(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), src)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, err.Error())
		return
	}

	ok(c, http.StatusCreated, up)
}

// ListFiles godoc
// @ID          listFiles
// @Summary     List documentation files
// @Tags        Files
// @Produce     json
// @Param       page_size query int false "Maximum number of files" default(10)
// @Success     200 {object} handlers.ListFilesResponse
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /files/listFiles [get]
func (h *Handlers) ListFiles(c *gin.Context) {
	if h.deps.Drive == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeListFailed, "file storage not configured")
		return
	}

	_, pageSize := clampPagination(c)

	files, err := h.deps.Drive.List(c.Request.Context(), int64(pageSize))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if files == nil {
		files = []drive.File{}
	}
	ok(c, http.StatusOK, ListFilesResponse{Files: files})
}

// DownloadFile godoc
// @ID          downloadFile
// @Summary     Download a documentation file
// @Description Streams the file content as an attachment.
// @Tags        Files
// @Produce     application/octet-stream
// @Param       id path string true "Drive file ID"
// @Success     200 {file} binary
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /files/downloadFile/{id} [get]
func (h *Handlers) DownloadFile(c *gin.Context) {
	if h.deps.Drive == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeDownloadFailed, "file storage not configured")
		return
	}

	id := c.Param("id")
	body, err := h.deps.Drive.Download(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeDownloadFailed, err.Error())
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", `attachment; filename="`+id+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		// Headers are already written; log and bail.
		middleware.LoggerFrom(c).Error().Err(err).Str("file_id", id).Msg("stream file")
	}
}

// DeleteFile godoc
// @ID          deleteFile
// @Summary     Delete a documentation file
// @Description Deletes the file from the Drive space and removes any company documentation link pointing at it.
// @Tags        Files
// @Produce     json
// @Param       id path string true "Drive file ID"
// @Success     204 "Deleted"
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /files/deleteFile/{id} [delete]
func (h *Handlers) DeleteFile(c *gin.Context) {
	if h.deps.Drive == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeDeleteFailed, "file storage not configured")
		return
	}

	id := c.Param("id")
	if err := h.deps.Drive.Delete(c.Request.Context(), id); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}

	// Unlink from the owning company document, best effort: the file itself
	// is already gone.
	if h.deps.Files != nil {
		if err := h.deps.Files.RemoveCompanyFileLink(c.Request.Context(), id); err != nil && !errors.Is(err, repo.ErrNotFound) {
			middleware.LoggerFrom(c).Warn().Err(err).Str("file_id", id).Msg("unlink company file")
		}
	}

	noContent(c)
}
