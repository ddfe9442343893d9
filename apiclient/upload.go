// File: apiclient/upload.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"cmv-site/logger"
)

// ErrNoImageURL is returned when an upload succeeds without a hosted URL.
var ErrNoImageURL = errors.New("upload response carried no image URL")

// Uploader hosts an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// DataURI encodes data as a base64 data URI using the detected content type.
func DataURI(data []byte) string {
	return "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// UploadImage posts a base64 data URI to upload-image and returns the hosted
// URL. The API answers {"url": ...}; {"imageUrl": ...} is also accepted.
func (c *Client) UploadImage(ctx context.Context, dataURI string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, pathUploadImage, map[string]string{"image": dataURI})
	if err != nil {
		return "", err
	}
	var out struct {
		URL      string `json:"url"`
		ImageURL string `json:"imageUrl"`
	}
	if err := decode(resp, &out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.URL != "" {
		return out.URL, nil
	}
	if out.ImageURL != "" {
		return out.ImageURL, nil
	}
	return "", ErrNoImageURL
}

// Upload implements Uploader through the API's upload-image endpoint.
func (c *Client) Upload(ctx context.Context, _ string, data []byte) (string, error) {
	return c.UploadImage(ctx, DataURI(data))
}

// ------------------- Cloudinary -------------------

// CloudinaryEndpoint is the unsigned upload URL template.
const CloudinaryEndpoint = "https://api.cloudinary.com/v1_1/%s/image/upload"

// CloudinaryUploader sends images straight to Cloudinary with an unsigned
// upload preset.
type CloudinaryUploader struct {
	CloudName string
	Preset    string
	// Endpoint overrides CloudinaryEndpoint (already formatted).
	Endpoint string
	client   *Client
}

// NewCloudinaryUploader reuses c's transport, timeout and hooks.
func NewCloudinaryUploader(c *Client, cloudName, preset string) *CloudinaryUploader {
	return &CloudinaryUploader{
		CloudName: cloudName,
		Preset:    preset,
		Endpoint:  fmt.Sprintf(CloudinaryEndpoint, cloudName),
		client:    c,
	}
}

// Upload posts data as multipart/form-data and returns secure_url.
func (u *CloudinaryUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", path.Base(filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return "", err
	}
	if err := mw.WriteField("upload_preset", u.Preset); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.Endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.send(req, "cloudinary/upload")
	if err != nil {
		return "", err
	}
	var out struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := decode(resp, &out); err != nil {
		return "", fmt.Errorf("decode cloudinary response: %w", err)
	}
	logger.Info.Printf("[CloudinaryUploader.Upload] uploaded %s to cloud %s", filename, u.CloudName)
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.URL != "" {
		return out.URL, nil
	}
	return "", ErrNoImageURL
}

// ------------------- export -------------------

// ExportRegistrationsCSV streams the registrations CSV. The caller closes
// the returned reader.
func (c *Client) ExportRegistrationsCSV(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(pathExportCSV), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")
	resp, err := c.send(req, pathExportCSV)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
