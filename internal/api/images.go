package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

type ImageResponse struct {
	SecureURL string `json:"secure_url"`
}

// UploadImage posts the file as the multipart field "image" and returns its hosted URL.
func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("create form file failed: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy image failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart failed: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, "/image", w.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	var env envelope[ImageResponse]
	if err := json.Unmarshal(resp.body, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return env.Data.SecureURL, nil
}
