package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Models used by the studio.
const (
	ModelText  = "gemini-3-pro-preview"
	ModelImage = "gemini-3-pro-image-preview"
)

// CredentialSource yields the API key for each outgoing request, so a
// long-lived client always honors the most recently selected credential.
type CredentialSource interface {
	APIKey() string
}

type Options struct {
	Credentials CredentialSource
	BaseURL     string
	APIVersion  string
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

type Client struct {
	creds      CredentialSource
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		creds:      opts.Credentials,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}
}

// APIError is a non-2xx reply from the service. The body text stays
// attached so failure classification can inspect it.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API %s: %s", e.Status, e.Body)
}

func (c *Client) GenerateContent(ctx context.Context, model string, payload GenerateContentRequest) (GenerateContentResponse, error) {
	if c.httpClient == nil {
		return GenerateContentResponse{}, errors.New("http client is nil")
	}
	if c.creds == nil {
		return GenerateContentResponse{}, errors.New("credential source is nil")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return GenerateContentResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return GenerateContentResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.creds.APIKey())

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return GenerateContentResponse{}, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return GenerateContentResponse{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return GenerateContentResponse{}, &APIError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Body:       strings.TrimSpace(string(rawBody)),
		}
	}

	var decoded GenerateContentResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return GenerateContentResponse{}, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug("generateContent", "model", model, "candidates", len(decoded.Candidates))
	return decoded, nil
}

// Text concatenates the text parts of the first candidate.
func (r GenerateContentResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}

	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// GroundingChunks returns the first candidate's grounding chunks in
// response order, or nil when the reply carried none.
func (r GenerateContentResponse) GroundingChunks() []GroundingChunk {
	if len(r.Candidates) == 0 || r.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	return r.Candidates[0].GroundingMetadata.GroundingChunks
}

// FirstInlineImage returns the first part of the first candidate that
// carries inline media data.
func (r GenerateContentResponse) FirstInlineImage() (*Blob, bool) {
	if len(r.Candidates) == 0 {
		return nil, false
	}
	for _, p := range r.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			return p.InlineData, true
		}
	}
	return nil, false
}
