// Package storage fetches static product content (360° tour coordinates and
// images) from a Google Cloud Storage bucket. The GCS API itself is a black
// box behind the vendor SDK; this package only knows the coordinates file
// layout and how to look a project up in it.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"

	"github.com/morseverse/backend/internal/config"
)

// ErrObjectNotFound is returned when the requested object does not exist in
// the bucket, or when no project matches the requested name.
var ErrObjectNotFound = errors.New("object not found")

// Coordinate is one hotspot inside a 360° image.
type Coordinate struct {
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Z           float64  `json:"z"`
	Image       []string `json:"image"`
	Description string   `json:"description,omitempty"`
}

// Image is one 360° view with its hotspots.
type Image struct {
	ID          int          `json:"id"`
	Image       string       `json:"image"`
	Coordinates []Coordinate `json:"coordinates"`
}

// Project is a named tour: a set of images with coordinates.
type Project struct {
	ProjectName string  `json:"projectName"`
	Images      []Image `json:"images"`
}

// projectList is the top-level layout of the coordinates JSON file.
type projectList struct {
	Projects []Project `json:"projects"`
}

// Client reads product content from the configured bucket.
type Client struct {
	gcs             *gcs.Client
	bucket          string
	coordinatesPath string
}

// New constructs a Client. Credentials are resolved by the SDK from the
// environment (GOOGLE_APPLICATION_CREDENTIALS).
func New(ctx context.Context, cfg config.GCSConfig) (*Client, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Client{gcs: c, bucket: cfg.Bucket, coordinatesPath: cfg.CoordinatesPath}, nil
}

// Close releases the underlying GCS client.
func (c *Client) Close() error { return c.gcs.Close() }

// Fetch downloads an object from the bucket and returns its full contents.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	r, err := c.gcs.Bucket(c.bucket).Object(path).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// ProjectByName fetches the coordinates file and returns the project whose
// name matches (case-insensitively), or ErrObjectNotFound.
func (c *Client) ProjectByName(ctx context.Context, name string) (*Project, error) {
	raw, err := c.Fetch(ctx, c.coordinatesPath)
	if err != nil {
		return nil, err
	}

	var list projectList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode coordinates file: %w", err)
	}

	for i := range list.Projects {
		if strings.EqualFold(list.Projects[i].ProjectName, name) {
			return &list.Projects[i], nil
		}
	}
	return nil, fmt.Errorf("%w: project %q", ErrObjectNotFound, name)
}
