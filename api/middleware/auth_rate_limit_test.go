package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeCounterStore struct {
	counts map[string]int64
}

func (f *fakeCounterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[key]++
	return f.counts[key], nil
}

func postLogin(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/Auth/login", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthRateLimitAllowsUnderLimit(t *testing.T) {
	t.Parallel()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 5, 3)
	store := &fakeCounterStore{}
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		if rec := postLogin(handler, `{"email":"a@b.com"}`); rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, rec.Code)
		}
	}
}

func TestAuthRateLimitBlocksEmailAbuse(t *testing.T) {
	t.Parallel()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 100, 2)
	store := &fakeCounterStore{}
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	postLogin(handler, `{"email":"a@b.com"}`)
	postLogin(handler, `{"email":"a@b.com"}`)
	rec := postLogin(handler, `{"email":"a@b.com"}`)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestAuthRateLimitBlocksIPAbuse(t *testing.T) {
	t.Parallel()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	store := &fakeCounterStore{}
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	postLogin(handler, `{"email":"x@b.com"}`)
	postLogin(handler, `{"email":"y@b.com"}`)
	rec := postLogin(handler, `{"email":"z@b.com"}`)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	t.Parallel()
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	handler := AuthRateLimit(policy, &fakeCounterStore{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		if rec := postLogin(handler, `{"email":"a@b.com"}`); rec.Code != http.StatusOK {
			t.Fatalf("expected pass-through, got %d", rec.Code)
		}
	}
}
