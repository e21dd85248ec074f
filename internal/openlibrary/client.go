package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"openshelf/internal/config"
)

// ErrMalformedResponse reports a 2xx body that does not decode into the
// expected docs/numFound shape.
var ErrMalformedResponse = errors.New("openlibrary: malformed search response")

// StatusError reports a non-2xx response from the catalog.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openlibrary: request failed with status %d", e.Code)
}

type Client struct {
	cfg     config.OpenLibraryConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

func New(cfg config.OpenLibraryConfig, logger *logrus.Logger) *Client {
	return &Client{
		cfg:     cfg,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		client:  newHTTPClient(cfg),
	}
}

func newHTTPClient(cfg config.OpenLibraryConfig) *http.Client {
	t := &http.Transport{
		MaxIdleConns:       100,
		IdleConnTimeout:    90 * time.Second,
		DisableCompression: false,
		ForceAttemptHTTP2:  true,
	}
	return &http.Client{Transport: t, Timeout: cfg.Timeout()}
}

// Search runs one search request. The query must be non-empty; callers are
// expected to short-circuit empty queries before reaching the wire.
func (c *Client) Search(ctx context.Context, query string, page, limit int) (*Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s?q=%s&page=%d&limit=%d",
		c.cfg.SearchURL, url.QueryEscape(query), page, limit)

	if c.logger.IsLevelEnabled(logrus.DebugLevel) {
		c.logger.WithFields(logrus.Fields{
			"query": query,
			"page":  page,
			"limit": limit,
		}).Debug("ol.request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream do: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, &StatusError{Code: res.StatusCode}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if c.logger.IsLevelEnabled(logrus.DebugLevel) {
		c.logger.WithFields(logrus.Fields{
			"status": res.StatusCode,
			"bytes":  len(data),
		}).Debug("ol.response")
	}

	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if p.Docs == nil {
		p.Docs = []Doc{}
	}
	return &p, nil
}

// FetchCover opens a stream for the document's cover image so the caller can
// copy it wherever it wants (typically behind a progress bar). The returned
// length is -1 when the server does not announce one.
func (c *Client) FetchCover(ctx context.Context, doc Doc, size string) (io.ReadCloser, int64, error) {
	u := CoverURL(c.cfg, doc, size)
	if u == "" {
		return nil, 0, fmt.Errorf("openlibrary: no cover source for %q", doc.IdentityKey())
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("upstream do: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		res.Body.Close()
		return nil, 0, &StatusError{Code: res.StatusCode}
	}
	return res.Body, res.ContentLength, nil
}
