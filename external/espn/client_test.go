package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/courtsight/draft-assistant/internal/platform/logging"
	"github.com/courtsight/draft-assistant/internal/platform/resilience"
	"github.com/courtsight/draft-assistant/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, mutate func(*ClientConfig)) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := ClientConfig{
		HTTPClient:     srv.Client(),
		CoreBaseURL:    srv.URL,
		SiteBaseURL:    srv.URL,
		FantasyBaseURL: srv.URL,
		Timeout:        2 * time.Second,
		RefTimeout:     time.Second,
		MaxRetries:     0,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg), srv
}

func TestExecuteRequestSendsBrowserHeaders(t *testing.T) {
	t.Parallel()

	var gotUA, gotAccept string
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{}`))
	}), nil)

	doc := map[string]any{}
	if _, err := client.doJSON(context.Background(), srv.URL+"/probe", nil, &doc); err != nil {
		t.Fatalf("doJSON error: %v", err)
	}

	if gotUA != browserUserAgent {
		t.Fatalf("User-Agent = %q, want browser agent", gotUA)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
}

func TestExecuteRequestRetriesRetryableStatus(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}), func(cfg *ClientConfig) {
		cfg.MaxRetries = 2
	})

	doc := map[string]any{}
	if _, err := client.doJSON(context.Background(), srv.URL+"/flaky", nil, &doc); err != nil {
		t.Fatalf("doJSON error: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("request count = %d, want 2", got)
	}
}

func TestExecuteRequestDoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}), func(cfg *ClientConfig) {
		cfg.MaxRetries = 3
	})

	doc := map[string]any{}
	if _, err := client.doJSON(context.Background(), srv.URL+"/missing", nil, &doc); err == nil {
		t.Fatal("doJSON = nil error, want failure")
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("request count = %d, want 1 (no retry on 404)", got)
	}
}

func TestCircuitBreakerRejectsAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})

	ctx := context.Background()
	doc := map[string]any{}
	for i := 0; i < 2; i++ {
		if _, err := client.doJSON(ctx, srv.URL+"/down/"+string(rune('a'+i)), nil, &doc); err == nil {
			t.Fatal("doJSON = nil error, want upstream failure")
		}
	}

	_, err := client.doJSON(ctx, srv.URL+"/down/z", nil, &doc)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("doJSON after trip = %v, want ErrDependencyUnavailable", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})

	if client.resolveWorkers != defaultResolveWorkers {
		t.Fatalf("resolveWorkers = %d, want %d", client.resolveWorkers, defaultResolveWorkers)
	}
	if client.pageLimit != defaultPageLimit {
		t.Fatalf("pageLimit = %d, want %d", client.pageLimit, defaultPageLimit)
	}
	if client.missingStats != MissingStatsLeagueAverage {
		t.Fatalf("missingStats = %s, want league_average", client.missingStats)
	}
	if client.coreBaseURL != defaultCoreBaseURL {
		t.Fatalf("coreBaseURL = %s, want %s", client.coreBaseURL, defaultCoreBaseURL)
	}
}

func TestNewClientClampsResolveWorkers(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{ResolveWorkers: 100, Logger: logging.NewNop()})
	if client.resolveWorkers != maxResolveWorkers {
		t.Fatalf("resolveWorkers = %d, want clamp to %d", client.resolveWorkers, maxResolveWorkers)
	}
}
