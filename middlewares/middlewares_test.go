package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestBasicAuthChallengesWithoutCredentials(t *testing.T) {
	gate := BasicAuth(BasicAuthConfig{Username: "sid", Password: "S3cret!pass"})(okHandler)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/anything", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got != `Basic realm="Application"` {
		t.Fatalf("unexpected challenge %q", got)
	}
}

func TestBasicAuthRejectsWrongPassword(t *testing.T) {
	gate := BasicAuth(BasicAuthConfig{Username: "sid", Password: "S3cret!pass", Realm: "Admin"})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.SetBasicAuth("sid", "allowme")
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got != `Basic realm="Admin"` {
		t.Fatalf("unexpected challenge %q", got)
	}
}

func TestBasicAuthAcceptsPlainPassword(t *testing.T) {
	gate := BasicAuth(BasicAuthConfig{Username: "sid", Password: "S3cret!pass"})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.SetBasicAuth("sid", "S3cret!pass")
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBasicAuthAcceptsBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("allowme"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	gate := BasicAuth(BasicAuthConfig{Username: "sid", PasswordHash: string(hash)})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.SetBasicAuth("sid", "allowme")
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req.SetBasicAuth("sid", "nope")
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoadBasicAuthConfig(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "sid")
	t.Setenv("ADMIN_PASSWORD", "allowme")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("ADMIN_REALM", "")
	if _, err := LoadBasicAuthConfig(); err == nil {
		t.Fatalf("weak password must be rejected")
	}

	t.Setenv("ADMIN_PASSWORD", "S3cret!pass")
	cfg, err := LoadBasicAuthConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Realm != "Application" {
		t.Fatalf("expected default realm, got %q", cfg.Realm)
	}
}

func TestRequestIDAndLogging(t *testing.T) {
	var seen string
	handler := RequestID(LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || seen == "-" {
		t.Fatalf("request id not propagated")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("response header %q does not match %q", rec.Header().Get("X-Request-ID"), seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "client-id" {
		t.Fatalf("client request id not reused, got %q", seen)
	}
}

func TestCorsPreflight(t *testing.T) {
	handler := CorsMiddleware(&CorsConfig{
		AllowedOrigins: []string{"http://localhost:8000"},
		AllowedMethods: []string{"GET"},
	})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:8000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:8000" {
		t.Fatalf("origin not allowed: %v", rec.Header())
	}
}

func TestLoadCorsConfig(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	cfg := LoadCorsConfig()
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestMemoryRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, time.Minute)
	defer rl.Stop()

	handler := Limit(rl, nil)(okHandler)
	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("other client should not share budget, got %d", rec.Code)
	}
}

func TestForwardedForIgnoredWithoutTrustedProxy(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, time.Minute)
	defer rl.Stop()

	handler := Limit(rl, nil)(okHandler)
	codes := []int{}
	for _, forwarded := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[1] != http.StatusTooManyRequests {
		t.Fatalf("spoofed X-Forwarded-For must not reset the budget, got %v", codes)
	}
}

func TestClientKeyBehindTrustedProxy(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.5")
	proxies, err := LoadTrustedProxies()
	if err != nil {
		t.Fatalf("load proxies: %v", err)
	}
	if len(proxies) != 2 {
		t.Fatalf("expected 2 proxies, got %d", len(proxies))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "9.9.9.9, 203.0.113.7, 192.168.1.5")
	if got := clientKey(req, proxies); got != "203.0.113.7" {
		t.Fatalf("expected the first untrusted hop, got %q", got)
	}

	req.RemoteAddr = "198.51.100.2:1234"
	if got := clientKey(req, proxies); got != "198.51.100.2" {
		t.Fatalf("untrusted peer must be keyed on its own address, got %q", got)
	}

	req.RemoteAddr = "pipe"
	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "socket"
	if clientKey(req, proxies) == clientKey(other, proxies) {
		t.Fatalf("unparseable peers must not share one key")
	}

	t.Setenv("TRUSTED_PROXIES", "not-an-ip")
	if _, err := LoadTrustedProxies(); err == nil {
		t.Fatalf("expected an error for an invalid proxy")
	}
}

func TestRedisRateLimiter(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	rl := NewRedisRateLimiter(client, 2, time.Minute)
	ctx := context.Background()
	for i, want := range []bool{true, true, false} {
		allowed, err := rl.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if allowed != want {
			t.Fatalf("request %d: allowed=%v want %v", i, allowed, want)
		}
	}

	server.FastForward(2 * time.Minute)
	allowed, err := rl.Allow(ctx, "10.0.0.1")
	if err != nil || !allowed {
		t.Fatalf("window should have reset: allowed=%v err=%v", allowed, err)
	}
}

func TestJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, "Post not found", http.StatusNotFound, nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"error":"Post not found"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}
