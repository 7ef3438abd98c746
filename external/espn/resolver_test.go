package espn

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func TestResolveItemsPreservesInputOrder(t *testing.T) {
	t.Parallel()

	// Later refs answer faster than earlier ones, so completion order is
	// the reverse of input order.
	mux := http.NewServeMux()
	for i := 0; i < 6; i++ {
		i := i
		mux.HandleFunc(fmt.Sprintf("/ref/%d", i), func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Duration(5-i) * 10 * time.Millisecond)
			writeDoc(t, w, map[string]any{"displayName": fmt.Sprintf("Player %d", i)})
		})
	}

	client, srv := newTestClient(t, mux, nil)

	items := make([]map[string]any, 0, 6)
	for i := 0; i < 6; i++ {
		items = append(items, map[string]any{"$ref": fmt.Sprintf("%s/ref/%d", srv.URL, i)})
	}

	resolved := client.resolveItems(context.Background(), items)
	if len(resolved) != 6 {
		t.Fatalf("resolved = %d items, want 6", len(resolved))
	}
	for i, doc := range resolved {
		if got, want := getString(doc, "displayName"), fmt.Sprintf("Player %d", i); got != want {
			t.Fatalf("resolved[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestResolveItemsDropsFailedReferences(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ref/good", func(w http.ResponseWriter, r *http.Request) {
		writeDoc(t, w, map[string]any{"displayName": "Kept"})
	})
	mux.HandleFunc("/ref/bad", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client, srv := newTestClient(t, mux, nil)

	items := []map[string]any{
		{"$ref": srv.URL + "/ref/good"},
		{"$ref": srv.URL + "/ref/bad"},
		{"displayName": "Inline"},
	}

	resolved := client.resolveItems(context.Background(), items)
	if len(resolved) != 2 {
		t.Fatalf("resolved = %d items, want 2 (failure dropped silently)", len(resolved))
	}
	if getString(resolved[0], "displayName") != "Kept" {
		t.Fatalf("resolved[0] = %+v, want resolved document", resolved[0])
	}
	if getString(resolved[1], "displayName") != "Inline" {
		t.Fatalf("resolved[1] = %+v, want passthrough item", resolved[1])
	}
}

func TestResolveItemsPassesThroughNonRefs(t *testing.T) {
	t.Parallel()

	client := newOfflineClient(t)

	items := []map[string]any{
		{"displayName": "A"},
		{"displayName": "B"},
	}

	resolved := client.resolveItems(context.Background(), items)
	if len(resolved) != 2 {
		t.Fatalf("resolved = %d items, want 2", len(resolved))
	}
}

func TestResolveItemsDeduplicatesRepeatedRefs(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/ref/shared", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(10 * time.Millisecond)
		writeDoc(t, w, map[string]any{"displayName": "Shared"})
	})

	client, srv := newTestClient(t, mux, nil)

	items := make([]map[string]any, 0, 8)
	for i := 0; i < 8; i++ {
		items = append(items, map[string]any{"$ref": srv.URL + "/ref/shared"})
	}

	resolved := client.resolveItems(context.Background(), items)
	if len(resolved) != 8 {
		t.Fatalf("resolved = %d items, want 8", len(resolved))
	}
	if got := hits.Load(); got > 3 {
		t.Fatalf("upstream hit %d times, want single-flight collapse (<= 3)", got)
	}
}
