// Package client is a small Go client for the labeling API, used by the
// seed tool when loading trays into a remote server.
package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps the labeling API endpoints.
type Client struct {
	http *resty.Client
}

// New creates a client for the API at baseURL.
// Parameters:
//   - baseURL: server root, e.g. "http://localhost:8000".
// Returns:
//   - *Client: initialized client.
func New(baseURL string) *Client {
	http := resty.New()
	http.SetBaseURL(baseURL)
	http.SetHeader("Content-Type", "application/json")
	http.SetTimeout(60 * time.Second)

	return &Client{http: http}
}

// UploadImageRequest carries one image upload.
type UploadImageRequest struct {
	Image    string  `json:"image"` // base64-encoded bytes
	Name     string  `json:"name"`
	TrayName string  `json:"trayname"`
	HoleID   int     `json:"hole_id"`
	LoadName string  `json:"loadname,omitempty"`
	Project  string  `json:"project,omitempty"`
	Sample   string  `json:"sample,omitempty"`
	Material string  `json:"material,omitempty"`
	Weight   float64 `json:"weight,omitempty"`
	Note     string  `json:"note,omitempty"`
	NXtals   int     `json:"nxtals,omitempty"`
}

// UploadImageResponse is the ingest result.
type UploadImageResponse struct {
	ID      uint   `json:"id"`
	Hash    string `json:"hashid"`
	Created bool   `json:"created"`
}

// UploadImage posts raw image bytes with metadata to POST /images.
// Duplicate bytes are reported with Created=false.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - name: display name for the image.
//   - data: raw image bytes.
// Returns:
//   - *UploadImageResponse: created or existing image identity.
//   - error: non-nil on transport failure or a non-2xx response.
func (c *Client) UploadImage(ctx context.Context, name string, data []byte) (*UploadImageResponse, error) {
	var result UploadImageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&UploadImageRequest{
			Image: base64.StdEncoding.EncodeToString(data),
			Name:  name,
		}).
		SetResult(&result).
		Post("/images")
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("upload rejected: %s: %s", resp.Status(), resp.String())
	}
	return &result, nil
}

// SubmitLabel records a label for an image via POST /labels/{image_id}.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - imageID: target image id.
//   - label: label name from the fixed vocabulary.
//   - user: submitting user; empty credits the default user.
// Returns:
//   - error: non-nil on transport failure or a non-2xx response.
func (c *Client) SubmitLabel(ctx context.Context, imageID uint, label, user string) error {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("label", label)
	if user != "" {
		req.SetQueryParam("user", user)
	}

	resp, err := req.Post("/labels/" + strconv.FormatUint(uint64(imageID), 10))
	if err != nil {
		return fmt.Errorf("failed to submit label: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("label rejected: %s: %s", resp.Status(), resp.String())
	}
	return nil
}
