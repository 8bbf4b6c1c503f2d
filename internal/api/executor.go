package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"recruit_client/internal/common"
)

const defaultTimeout = 15 * time.Second

type Options struct {
	Timeout            time.Duration
	Token              string
	IncludeCredentials bool
	HTTPClient         *http.Client
	Logger             *slog.Logger
}

// Executor sends every resource call. It keeps no state between calls besides the cookie jar.
type Executor struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewExecutor(baseURL string, opts Options) *Executor {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if opts.IncludeCredentials && httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err == nil {
			clone := *httpClient
			clone.Jar = jar
			httpClient = &clone
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		baseURL:    trimmed,
		token:      strings.TrimSpace(opts.Token),
		httpClient: httpClient,
		logger:     logger,
	}
}

type Request struct {
	Method    string
	Resource  string
	Path      []string
	Query     url.Values
	Body      any
	Operation string
	ID        string
	Header    http.Header
}

type CallOption func(*Request)

func WithHeader(key, value string) CallOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}
		r.Header.Set(key, value)
	}
}

// WithIdempotencyKey lets the backend drop a repeated insert of the same draft.
func WithIdempotencyKey(key string) CallOption {
	if strings.TrimSpace(key) == "" {
		return func(*Request) {}
	}
	return WithHeader("Idempotency-Key", key)
}

type RawResponse struct {
	Body        []byte
	ContentType string
	Filename    string
}

type FilePart struct {
	Field   string
	Name    string
	Content []byte
}

// URL builds {baseURL}/{resource}[/{segment}...].
func (e *Executor) URL(resource string, segments ...string) string {
	var b strings.Builder
	b.WriteString(e.baseURL)
	b.WriteString("/")
	b.WriteString(strings.Trim(resource, "/"))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		b.WriteString("/")
		b.WriteString(url.PathEscape(segment))
	}
	return b.String()
}

func (e *Executor) DoJSON(ctx context.Context, req Request, out any) error {
	var body io.Reader
	contentType := ""
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", req.Operation, err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	_, payload, err := e.do(ctx, req, body, contentType, "application/json")
	if err != nil {
		return err
	}
	return decodeJSON(req.Operation, payload, out)
}

// DoRaw returns the body untouched. It is the only path that never decodes JSON.
func (e *Executor) DoRaw(ctx context.Context, req Request) (*RawResponse, error) {
	header, payload, err := e.do(ctx, req, nil, "", "*/*")
	if err != nil {
		return nil, err
	}
	raw := &RawResponse{Body: payload, ContentType: header.Get("Content-Type")}
	if disposition := header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			raw.Filename = params["filename"]
		}
	}
	return raw, nil
}

func (e *Executor) DoMultipart(ctx context.Context, req Request, files []FilePart, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return fmt.Errorf("create form file %s: %w", file.Name, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return fmt.Errorf("write form file %s: %w", file.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}
	_, payload, err := e.do(ctx, req, &buf, writer.FormDataContentType(), "application/json")
	if err != nil {
		return err
	}
	return decodeJSON(req.Operation, payload, out)
}

func (e *Executor) do(ctx context.Context, req Request, body io.Reader, contentType, accept string) (http.Header, []byte, error) {
	if common.IsTemporaryID(req.ID) {
		return nil, nil, &common.ValidationFailure{Field: "id", Message: "temporary id cannot be sent to the server"}
	}
	target := e.URL(req.Resource, req.Path...)
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s request: %w", req.Operation, err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", accept)
	if e.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.token)
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	started := time.Now()
	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		e.logger.Debug("api call failed", slog.String("operation", req.Operation), slog.String("url", target), slog.String("error", err.Error()))
		return nil, nil, &common.NetworkFailure{Operation: req.Operation, Err: err}
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &common.NetworkFailure{Operation: req.Operation, Err: fmt.Errorf("read response: %w", err)}
	}
	e.logger.Debug("api call",
		slog.String("operation", req.Operation),
		slog.String("method", req.Method),
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(started)),
	)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.Header, payload, &common.HTTPFailure{
			Status:    resp.StatusCode,
			Operation: req.Operation,
			ID:        req.ID,
			Message:   errorMessage(payload),
		}
	}
	return resp.Header, payload, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errorMessage(payload []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		message := strings.TrimSpace(string(payload))
		if len(message) > 200 {
			message = message[:200]
		}
		return message
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	return parsed.Error
}

func decodeJSON(operation string, payload []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &common.DecodeFailure{Operation: operation, Err: err}
	}
	return nil
}
