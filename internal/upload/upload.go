// Package upload envia imagens de produto para o serviço de hospedagem externo
// e devolve a URL pública.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"souq/internal/apperr"
	"souq/internal/logging"
)

const MaxImageSize = 5 << 20

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

type Client struct {
	URL    string
	APIKey string
	HTTP   *http.Client
	Logger *zap.Logger
}

// Response aceita os formatos mais comuns desses serviços: {"url": ...} ou {"data": {"url": ...}}.
type Response struct {
	URL  string `json:"url"`
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success *bool `json:"success"`
}

func (r Response) hostedURL() string {
	if r.URL != "" {
		return r.URL
	}
	return r.Data.URL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if c.URL == "" {
		return "", apperr.New(apperr.CodeUploadFailed, apperr.ErrInvalid, "image upload is not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", apperr.New(apperr.CodeUploadFailed, apperr.ErrInvalid, fmt.Sprintf("unsupported image type %q", ext))
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", apperr.New(apperr.CodeUploadFailed, apperr.ErrInvalid, "image is larger than 5MB")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if c.APIKey != "" {
		if err := mw.WriteField("key", c.APIKey); err != nil {
			return "", fmt.Errorf("failed to write key: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	logging.OrNop(c.Logger).Debug("uploading image", zap.String("file", filename), zap.Int("bytes", len(data)))

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", apperr.New(apperr.CodeUploadFailed, fmt.Errorf("upload API returned status %d", resp.StatusCode),
			"image upload failed")
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if (out.Success != nil && !*out.Success) || out.hostedURL() == "" {
		return "", apperr.New(apperr.CodeUploadFailed, fmt.Errorf("upload API returned no url"), "image upload failed")
	}
	return out.hostedURL(), nil
}
