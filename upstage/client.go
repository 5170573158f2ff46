package upstage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/jonwraymond/docproc/observe"
	"github.com/jonwraymond/docproc/resilience"
)

// DefaultBaseURL is the production API base URL.
const DefaultBaseURL = "https://api.upstage.ai/v1"

const (
	digitizationPath = "/document-digitization"
	extractionPath   = "/information-extraction"

	parseModel   = "document-parse"
	extractModel = "information-extract"
)

// OutputFormat selects the rendering of a parsed document.
type OutputFormat string

// Supported output formats.
const (
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
	FormatText     OutputFormat = "text"
)

// Valid reports whether f is a supported output format.
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatMarkdown, FormatHTML, FormatText:
		return true
	}
	return false
}

// Config configures the client.
type Config struct {
	// APIKey is the bearer credential. Required.
	APIKey string

	// BaseURL overrides the API base URL. Default: DefaultBaseURL.
	BaseURL string

	// HTTPClient overrides the HTTP client. Default: 5 minute timeout,
	// matching the service's worst-case document processing time.
	HTTPClient *http.Client

	// Executor guards remote calls. Nil means direct calls.
	Executor *resilience.Executor

	// Logger receives request telemetry. Nil means no logging.
	Logger observe.Logger
}

// Client calls the Upstage document AI endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	exec       *resilience.Executor
	logger     observe.Logger
}

// NewClient creates a client from config.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 5 * time.Minute}
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		exec:       cfg.Executor,
		logger:     cfg.Logger,
	}, nil
}

// parseResponse is the document digitization response envelope.
type parseResponse struct {
	Content struct {
		Markdown string `json:"markdown"`
		HTML     string `json:"html"`
		Text     string `json:"text"`
	} `json:"content"`
}

// ParseDocument uploads the document and returns its content rendered
// in the requested format.
func (c *Client) ParseDocument(ctx context.Context, document []byte, filename string, format OutputFormat) (string, error) {
	if !format.Valid() {
		return "", fmt.Errorf("upstage: unsupported output format %q", format)
	}

	var parsed parseResponse
	err := c.execute(ctx, func(ctx context.Context) error {
		body, contentType, err := buildParseRequest(document, filename, format)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+digitizationPath, body)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", contentType)

		return c.doJSON(req, &parsed)
	})
	if err != nil {
		return "", err
	}

	var content string
	switch format {
	case FormatHTML:
		content = parsed.Content.HTML
	case FormatText:
		content = parsed.Content.Text
	default:
		content = parsed.Content.Markdown
	}
	if content == "" {
		return "", ErrNoContent
	}

	c.logger.Debug(ctx, "document parsed",
		observe.Field{Key: "filename", Value: filename},
		observe.Field{Key: "format", Value: string(format)},
		observe.Field{Key: "content_bytes", Value: len(content)},
	)
	return content, nil
}

// buildParseRequest assembles the multipart upload for digitization.
func buildParseRequest(document []byte, filename string, format OutputFormat) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("document", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(document); err != nil {
		return nil, "", err
	}

	// The API expects output_formats as a JSON array string.
	fields := map[string]string{
		"model":                  parseModel,
		"output_formats":         fmt.Sprintf(`["%s"]`, format),
		"ocr":                    "auto",
		"chart_recognition":      "true",
		"merge_multipage_tables": "false",
		"coordinates":            "true",
		"base64_encoding":        "[]",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// extractResponse is the OpenAI-compatible extraction response envelope.
type extractResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractInformation sends the document as a data URL and returns the
// extracted fields as raw JSON.
func (c *Client) ExtractInformation(ctx context.Context, document []byte, filename string, fields map[string]string) (json.RawMessage, error) {
	payload := map[string]any{
		"model": extractModel,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{
						"type": "image_url",
						"image_url": map[string]any{
							"url": dataURL(document, filename),
						},
					},
				},
			},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "extraction_schema",
				"schema": buildJSONSchema(fields),
			},
		},
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("upstage: failed to encode extraction payload: %w", err)
	}

	var envelope extractResponse
	err = c.execute(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+extractionPath, bytes.NewReader(encoded))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		return c.doJSON(req, &envelope)
	})
	if err != nil {
		return nil, err
	}

	if len(envelope.Choices) == 0 || envelope.Choices[0].Message.Content == "" {
		return nil, ErrNoContent
	}

	content := []byte(envelope.Choices[0].Message.Content)
	extracted := make(map[string]any)
	if err := json.Unmarshal(content, &extracted); err != nil {
		return nil, fmt.Errorf("upstage: extraction result is not valid JSON: %w", err)
	}
	if len(extracted) == 0 {
		return nil, ErrNoContent
	}

	c.logger.Debug(ctx, "information extracted",
		observe.Field{Key: "filename", Value: filename},
		observe.Field{Key: "field_count", Value: len(extracted)},
	)
	return json.RawMessage(content), nil
}

// ValidateCredentials probes the service with the configured key.
// A 401 or 403 maps to a credential error; server errors map to
// ErrServiceUnavailable. Other statuses mean the key was accepted.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+digitizationPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstage: failed to connect: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case resp.StatusCode == http.StatusForbidden:
		return ErrAccessDenied
	case resp.StatusCode >= 500:
		return ErrServiceUnavailable
	}
	return nil
}

func (c *Client) execute(ctx context.Context, op func(context.Context) error) error {
	if c.exec == nil {
		return op(ctx)
	}
	return c.exec.Execute(ctx, op)
}

// doJSON sends the request and decodes a 2xx JSON body into out.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstage: failed to connect: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("upstage: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("upstage: failed to decode response: %w", err)
	}
	return nil
}

// buildJSONSchema turns field definitions into the JSON Schema object
// the extraction endpoint expects. Every field is a described string.
func buildJSONSchema(fields map[string]string) map[string]any {
	properties := make(map[string]any, len(fields))
	for name, description := range fields {
		properties[name] = map[string]any{
			"type":        "string",
			"description": description,
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

// dataURL encodes the document as a base64 data URL with a MIME type
// guessed from the filename.
func dataURL(document []byte, filename string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeTypeFor(filename), base64.StdEncoding.EncodeToString(document))
}

// mimeTypeFor guesses the document MIME type from the filename.
// Unknown extensions default to PNG, matching the service's tolerance
// for image input.
func mimeTypeFor(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	default:
		return "image/png"
	}
}
