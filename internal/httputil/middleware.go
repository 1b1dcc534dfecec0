package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"leadpilot-backend/internal/auth"
)

// JSONHandler wraps handlers that return error

type JSONHandler func(http.ResponseWriter, *http.Request) error

func (h JSONHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := h(w, r)
	if err == nil { return }
	var he *HTTPError
	if errors.As(err, &he) {
		w.WriteHeader(he.Status)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": he.Message})
		return
	}
	slog.Error("request failed", slog.String("path", r.URL.Path), slog.String("err", err.Error()))
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "internal server error"})
}

// Chain middlewares

type Middleware func(http.Handler) http.Handler

func Chain(mws ...Middleware) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- { h = mws[i](h) }
		return h
	}
}

// JWTAuth gates the protected dashboard routes

func JWTAuth(jwt *auth.JWT) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") { writeJSONError(w, http.StatusUnauthorized, "No token. Access denied."); return }
			tok := strings.TrimPrefix(h, "Bearer ")
			claims, err := jwt.Parse(tok)
			if err != nil { writeJSONError(w, http.StatusUnauthorized, "Invalid token."); return }
			r = r.WithContext(context.WithValue(r.Context(), "user", claims))
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// CORS

func CORS(allowed string) Middleware {
	allowAll := allowed == "*"
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowAll || strings.Contains(allowed, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
			}
			if r.Method == http.MethodOptions { w.WriteHeader(http.StatusNoContent); return }
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLog writes one access line per request with a generated id.

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) { sr.status = code; sr.ResponseWriter.WriteHeader(code) }

func RequestLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := uuid.NewString()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			slog.Info("request",
				slog.String("id", id),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("dur", time.Since(start)))
		})
	}
}

// Simple IP rate limit

type tokenBucket struct{ mu sync.Mutex; tokens int; last time.Time }

func RateLimit(n int, per time.Duration) Middleware {
	buckets := make(map[string]*tokenBucket)
	var mu sync.Mutex
	refill := func(b *tokenBucket) {
		elapsed := time.Since(b.last)
		add := int(elapsed / per)
		if add > 0 { b.tokens = min(n, b.tokens+add); b.last = b.last.Add(time.Duration(add) * per) }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, _ := net.SplitHostPort(r.RemoteAddr)
			mu.Lock()
			b := buckets[ip]
			if b == nil { b = &tokenBucket{tokens: n, last: time.Now()}; buckets[ip] = b }
			b.mu.Lock(); mu.Unlock()
			refill(b)
			if b.tokens <= 0 { b.mu.Unlock(); writeJSONError(w, http.StatusTooManyRequests, "too many requests"); return }
			b.tokens--; b.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}
