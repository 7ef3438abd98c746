package espn

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/courtsight/draft-assistant/internal/platform/logging"
	"github.com/courtsight/draft-assistant/internal/platform/resilience"
	"github.com/courtsight/draft-assistant/internal/usecase"
)

const (
	defaultCoreBaseURL    = "https://sports.core.api.espn.com"
	defaultSiteBaseURL    = "https://site.web.api.espn.com"
	defaultFantasyBaseURL = "https://fantasy.espn.com"

	defaultTimeout        = 30 * time.Second
	defaultRefTimeout     = 10 * time.Second
	defaultPageLimit      = 40
	defaultResolveWorkers = 16
	maxResolveWorkers     = 25

	collectionPageSize = 1000
	maxResponseBytes   = 6 << 20

	// Public ESPN endpoints answer differently to non-browser agents.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var errESPNTransient = crerr.New("espn transient failure")

// ErrNoEndpoint reports that every known upstream endpoint failed to produce
// a player collection.
var ErrNoEndpoint = crerr.New("no upstream endpoint available")

type ClientConfig struct {
	HTTPClient     *http.Client
	CoreBaseURL    string
	SiteBaseURL    string
	FantasyBaseURL string
	Timeout        time.Duration
	RefTimeout     time.Duration
	MaxRetries     int
	PageLimit      int
	ResolveWorkers int
	MissingStats   MissingStatsPolicy
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	coreBaseURL    string
	siteBaseURL    string
	fantasyBaseURL string
	refTimeout     time.Duration
	maxRetries     int
	pageLimit      int
	resolveWorkers int
	missingStats   MissingStatsPolicy
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight

	teamRefMu   sync.RWMutex
	teamRefAbbr map[string]string
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	refTimeout := cfg.RefTimeout
	if refTimeout <= 0 {
		refTimeout = defaultRefTimeout
	}

	pageLimit := cfg.PageLimit
	if pageLimit < 1 {
		pageLimit = defaultPageLimit
	}

	resolveWorkers := cfg.ResolveWorkers
	if resolveWorkers < 1 {
		resolveWorkers = defaultResolveWorkers
	}
	if resolveWorkers > maxResolveWorkers {
		resolveWorkers = maxResolveWorkers
	}

	missingStats := cfg.MissingStats
	switch missingStats {
	case MissingStatsZero, MissingStatsLeagueAverage, MissingStatsDrop:
	default:
		missingStats = MissingStatsLeagueAverage
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		coreBaseURL:    baseURLOrDefault(cfg.CoreBaseURL, defaultCoreBaseURL),
		siteBaseURL:    baseURLOrDefault(cfg.SiteBaseURL, defaultSiteBaseURL),
		fantasyBaseURL: baseURLOrDefault(cfg.FantasyBaseURL, defaultFantasyBaseURL),
		refTimeout:     refTimeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		pageLimit:      pageLimit,
		resolveWorkers: resolveWorkers,
		missingStats:   missingStats,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		teamRefAbbr:    make(map[string]string),
	}
}

func baseURLOrDefault(raw, fallback string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

// doJSON fetches fullURL (plus query), decodes the body into target and
// returns the raw bytes. Identical in-flight URLs are collapsed into one
// request.
func (c *Client) doJSON(ctx context.Context, fullURL string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	if len(query) > 0 {
		values := url.Values{}
		for key, value := range query {
			values.Set(key, value)
		}
		separator := "?"
		if strings.Contains(fullURL, "?") {
			separator = "&"
		}
		fullURL += separator + values.Encode()
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isESPNCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", browserUserAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errESPNTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errESPNTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errESPNTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * 300 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isESPNCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errESPNTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
