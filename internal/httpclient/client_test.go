package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

type item struct {
	ID int `json:"id"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestGetJSONDecodesAndSendsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/items" {
			t.Errorf("path = %q, want /api/items", r.URL.Path)
		}
		if got := r.URL.Query().Get("start"); got != "4" {
			t.Errorf("start = %q, want 4", got)
		}
		w.Write([]byte(`[{"id":1},{"id":2}]`))
	})

	var items []item
	err := c.GetJSON(context.Background(), "/api/items", url.Values{"start": {"4"}}, &items)
	if err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if len(items) != 2 || items[1].ID != 2 {
		t.Errorf("items = %v, want [{1} {2}]", items)
	}
}

func TestGetJSONStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	var items []item
	err := c.GetJSON(context.Background(), "/x", nil, &items)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusBadGateway)
	}
}

func TestGetJSONDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	var items []item
	err := c.GetJSON(context.Background(), "/x", nil, &items)

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
}

func TestGetJSONTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := New(base, time.Second)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var items []item
	err = c.GetJSON(context.Background(), "/x", nil, &items)
	if err == nil {
		t.Fatal("expected transport error")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Fatalf("transport failure reported as status error: %v", err)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	if _, err := New("ftp://example.com", time.Second); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}
