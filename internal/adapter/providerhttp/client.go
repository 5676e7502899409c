// Package providerhttp is the outbound HTTP layer shared by the provider
// adapters. It issues a GET, classifies the response, and decodes JSON, so
// every adapter folds transport and status failures into a
// [domain.Outcome] the same way.
package providerhttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

// maxErrorBody caps how much of a non-2xx body is read for logging.
const maxErrorBody = 512

// Client performs GET requests on behalf of one named provider.
type Client struct {
	provider   string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for provider. timeout bounds each request even when
// the caller's context has no deadline.
func New(provider string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		provider:   provider,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("provider", provider),
	}
}

// GetJSON requests rawURL and decodes a 2xx body into out.
//
// 4xx responses are the provider's way of saying it has no record and map to
// OutcomeNoCoverage without a warning. 5xx responses, transport errors,
// timeouts, and undecodable bodies map to OutcomeFailed and are logged. An
// empty 2xx body is OutcomeNoCoverage.
func (c *Client) GetJSON(ctx context.Context, rawURL string, header http.Header, out any) domain.Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		c.logger.Warn("build provider request", "error", err)
		return domain.OutcomeFailed
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("provider request failed", "error", redact(err), "duration", time.Since(start))
		return domain.OutcomeFailed
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		c.logger.Debug("provider has no record", "status", resp.StatusCode)
		return domain.OutcomeNoCoverage
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("provider error response", "status", resp.StatusCode, "body", string(body))
		return domain.OutcomeFailed
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.OutcomeNoCoverage
		}
		c.logger.Warn("decode provider response", "error", err)
		return domain.OutcomeFailed
	}
	return domain.OutcomeFound
}

// redact strips the request URL, which may carry credentials in its query
// string, from a transport error.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
