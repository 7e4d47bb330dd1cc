package drive

import (
	"context"
	"fmt"
	"net/http"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	// ServiceName is the Google API the token is issued for.
	ServiceName = "drive"

	// Version is the Drive API version the client is built against.
	Version = "v3"
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
}

// NewClient builds a Drive client on top of an authorized HTTP client.
// No request is sent; building only checks that the client is usable
// for the Drive API.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("failed to create Drive service: no HTTP client")
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service: driveService,
	}, nil
}

// Service returns the underlying Drive service.
func (c *Client) Service() *drive.Service {
	return c.service
}

// BasePath returns the API endpoint the client talks to.
func (c *Client) BasePath() string {
	return c.service.BasePath
}
