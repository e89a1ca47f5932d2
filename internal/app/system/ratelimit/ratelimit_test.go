package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowWithinLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("client-a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("client-a") {
		t.Error("request over the limit should be denied")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	if !l.Allow("client-a") {
		t.Fatal("first request for client-a should be allowed")
	}
	if l.Allow("client-a") {
		t.Error("second request for client-a should be denied")
	}
	if !l.Allow("client-b") {
		t.Error("client-b has its own window and should be allowed")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := New(1, 20*time.Millisecond)

	if !l.Allow("client-a") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("client-a") {
		t.Fatal("second request in window should be denied")
	}

	time.Sleep(30 * time.Millisecond)

	if !l.Allow("client-a") {
		t.Error("request after window expiry should be allowed")
	}
}

func TestLimiter_Remaining(t *testing.T) {
	l := New(3, time.Minute)

	if got := l.Remaining("client-a"); got != 3 {
		t.Errorf("Remaining before any requests = %d, want 3", got)
	}

	l.Allow("client-a")
	l.Allow("client-a")
	if got := l.Remaining("client-a"); got != 1 {
		t.Errorf("Remaining after 2 requests = %d, want 1", got)
	}

	l.Allow("client-a")
	l.Allow("client-a") // denied, does not go negative
	if got := l.Remaining("client-a"); got != 0 {
		t.Errorf("Remaining at limit = %d, want 0", got)
	}
}

func TestLimiter_Middleware(t *testing.T) {
	l := New(1, time.Minute)
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/ideas", nil)
	req.RemoteAddr = "203.0.113.7:51234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: got status %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: got status %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{
			name:       "remote addr host only",
			remoteAddr: "203.0.113.7:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for single hop",
			remoteAddr: "10.0.0.1:80",
			xff:        "198.51.100.9",
			want:       "198.51.100.9",
		},
		{
			name:       "x-forwarded-for chain takes first hop",
			remoteAddr: "10.0.0.1:80",
			xff:        "198.51.100.9, 10.0.0.2, 10.0.0.3",
			want:       "198.51.100.9",
		},
		{
			name:       "malformed remote addr passed through",
			remoteAddr: "not-an-addr",
			want:       "not-an-addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			got := ClientKey(req)
			if got != tt.want {
				t.Errorf("ClientKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
