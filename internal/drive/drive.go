// Package drive wraps the Google Drive v3 API for customer documentation
// files: upload, list, download, delete. Drive semantics stay behind the
// vendor SDK; this package fixes the scope, the field selections, and the
// public file URL format.
package drive

import (
	"context"
	"fmt"
	"io"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// File describes one stored Drive file.
type File struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Upload is the result of a successful upload.
type Upload struct {
	FileID  string `json:"fileId"`
	Name    string `json:"fileName"`
	FileURL string `json:"fileURL"`
}

// Client performs Drive operations with a service account.
type Client struct {
	svc *gdrive.Service
}

// New constructs a Client from a service-account credentials file, scoped to
// files the service account created.
func New(ctx context.Context, credentialsFile string) (*Client, error) {
	svc, err := gdrive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gdrive.DriveFileScope),
	)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc}, nil
}

// Upload streams content into a new Drive file and returns its id, name,
// and viewer URL.
func (c *Client) Upload(ctx context.Context, name, mimeType string, content io.Reader) (*Upload, error) {
	f, err := c.svc.Files.
		Create(&gdrive.File{Name: name}).
		Media(content, googleapi.ContentType(mimeType)).
		Fields("id", "name").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return &Upload{
		FileID:  f.Id,
		Name:    f.Name,
		FileURL: fmt.Sprintf("https://drive.google.com/file/d/%s/view", f.Id),
	}, nil
}

// List returns the first pageSize files visible to the service account.
func (c *Client) List(ctx context.Context, pageSize int64) ([]File, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	res, err := c.svc.Files.
		List().
		PageSize(pageSize).
		Fields("nextPageToken", "files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	out := make([]File, 0, len(res.Files))
	for _, f := range res.Files {
		out = append(out, File{ID: f.Id, Name: f.Name})
	}
	return out, nil
}

// Download returns a reader over the file's content. The caller closes it.
func (c *Client) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	res, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// Delete removes a file from Drive.
func (c *Client) Delete(ctx context.Context, fileID string) error {
	return c.svc.Files.Delete(fileID).Context(ctx).Do()
}
