// CLAUDE:SUMMARY HTTP transport against the KIPRIS registry: endpoint registry, accessKey injection, bounded immediate retry.
package kipris

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
)

// endpoints maps logical operation names to registry path suffixes. Callers
// never supply raw paths.
var endpoints = map[string]string{
	"applicant_search":   "/patUtiModInfoSearchSevice/applicantNameSearchInfo",
	"application_search": "/patUtiModInfoSearchSevice/applicationNumberSearchInfo",
	"citing_info":        "/CitingService/citingInfo",
	"patent_info":        "/patUtiModInfoSearchSevice/applicationNumberSearchInfo",

	// Declared extension points, not yet queried by any operation.
	"cpc_info":        "/patUtiModInfoSearchSevice/patentCpcInfo",
	"inventor_info":   "/patUtiModInfoSearchSevice/patentInventorInfo",
	"reject_decision": "/IntermediateDocumentOPService/rejectDecisionInfo",
}

const maxResponseBytes = 10 * 1024 * 1024

// Client issues read-only queries against the patent registry. It is
// immutable after construction and safe for concurrent use.
type Client struct {
	config *Config
	http   *http.Client
	logger *slog.Logger
}

// New creates a Client. The config must carry a non-empty API key. The
// caller's Config is copied before defaults are applied, so one value can be
// reused across New calls.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	own := *cfg
	own.defaults()
	return &Client{
		config: &own,
		http:   &http.Client{Timeout: own.Timeout},
		logger: own.Logger,
	}, nil
}

// execute resolves endpointKey, appends the access key, and performs the GET
// with the configured retry budget. Non-200 statuses and timeouts are
// retried immediately and sequentially; a body that fails XML decoding is
// returned as ErrMalformedResponse without further attempts.
func (c *Client) execute(ctx context.Context, endpointKey string, params url.Values) (*document, error) {
	path, ok := endpoints[endpointKey]
	if !ok {
		return nil, fmt.Errorf("kipris: unknown endpoint %q", endpointKey)
	}
	params.Set("accessKey", c.config.APIKey)
	reqURL := c.config.BaseURL + path + "?" + params.Encode()

	var lastStatus int
	var lastErr error
	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("kipris: new request: %w", err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if !isTimeout(err) {
				return nil, fmt.Errorf("kipris: http get: %w", err)
			}
			lastErr = err
			lastStatus = 0
			c.logger.WarnContext(ctx, "kipris: request timed out",
				"endpoint", endpointKey,
				"attempt", attempt,
				"max_retries", c.config.MaxRetries)
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("kipris: read body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			lastStatus = resp.StatusCode
			lastErr = nil
			c.logger.WarnContext(ctx, "kipris: upstream error status",
				"endpoint", endpointKey,
				"status", resp.StatusCode,
				"attempt", attempt,
				"max_retries", c.config.MaxRetries)
			continue
		}

		doc, err := parseDocument(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return doc, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w after %d attempts: %v", ErrTimeout, c.config.MaxRetries, lastErr)
	}
	return nil, &StatusError{StatusCode: lastStatus}
}

// isTimeout reports whether err is a transport-level timeout. Other
// transport failures (DNS, refused connections) are not retried.
func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
