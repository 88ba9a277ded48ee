package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// File is an image picked by the user for upload.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

var ErrEmptyUpload = errors.New("upload returned no reference")

// Upload stores an image (POST /api/upload, field "image") and returns the stored reference.
func (c *Client) Upload(ctx context.Context, token string, f File) (string, error) {
	if f.Body == nil || f.Name == "" {
		return "", fmt.Errorf("upload: %w: file is required", ErrInvalidPayload)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, f.Name))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create multipart part failed: %w", err)
	}
	if _, err := io.Copy(part, f.Body); err != nil {
		return "", fmt.Errorf("read upload failed: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return "", &TransportError{Op: "POST /api/upload", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var raw json.RawMessage
	if err := c.send(req, token, &raw); err != nil {
		return "", err
	}
	return parseReference(raw)
}

// parseReference accepts a bare JSON string or an object with a path/url/image field.
func parseReference(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return s, nil
		}
		return "", ErrEmptyUpload
	}
	var obj struct {
		Path  string `json:"path"`
		URL   string `json:"url"`
		Image string `json:"image"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("upload response: %w: %v", ErrInvalidPayload, err)
	}
	for _, v := range []string{obj.URL, obj.Path, obj.Image} {
		if v != "" {
			return v, nil
		}
	}
	return "", ErrEmptyUpload
}
