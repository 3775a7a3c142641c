package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/shhac/probe/internal/domain"
	apperrors "github.com/shhac/probe/internal/errors"
)

// samplesPath is where the API's static server exposes fixture files.
const samplesPath = "/static/samples/"

// Client talks to the API under test over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for the API rooted at baseURL. A zero timeout
// leaves the transport defaults in place.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health issues GET /health with no body.
func (c *Client) Health(ctx context.Context) (*domain.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+domain.HealthPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build health request: %w", err)
	}
	return c.do(req)
}

// Upload POSTs file to endpoint as a single-part multipart/form-data body.
func (c *Client) Upload(ctx context.Context, endpoint string, file *domain.File) (*domain.Response, error) {
	if file == nil {
		return nil, apperrors.ErrNoFileSelected
	}

	body, contentType, err := encodeMultipart(file)
	if err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

// FetchSample downloads a fixture from the sample server and returns it as a
// File carrying the requested name and the server-reported content type.
func (c *Client) FetchSample(ctx context.Context, name string) (*domain.File, error) {
	sampleURL := c.baseURL + samplesPath + url.PathEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sampleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSampleUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSampleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSampleUnavailable, apperrors.StatusError{
			URL:        sampleURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", apperrors.ErrSampleUnavailable, err)
	}

	c.logger.Debug("fetched sample",
		slog.String("name", name),
		slog.Int("bytes", len(data)),
	)

	return domain.NewFile(name, resp.Header.Get("Content-Type"), data), nil
}

// do sends req and reads the whole response. Any received response is
// returned without error, whatever its status code.
func (c *Client) do(req *http.Request) (*domain.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Any("error", err),
		)
		return nil, wrapTimeout(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", wrapTimeout(err))
	}

	c.logger.Debug("request completed",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	return &domain.Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		OK:         resp.StatusCode >= 200 && resp.StatusCode <= 299,
		Body:       data,
	}, nil
}

// wrapTimeout marks errors caused by the client timeout or a context
// deadline with ErrTimeout.
func wrapTimeout(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", apperrors.ErrTimeout, err)
	}
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart writes file as the only part of a multipart form, keeping
// its own content type rather than multipart's octet-stream default.
func encodeMultipart(file *domain.File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		domain.UploadField, quoteEscaper.Replace(file.Name)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = domain.DefaultContentType
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
