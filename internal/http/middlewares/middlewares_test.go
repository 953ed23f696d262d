package middlewares

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/roomhub/internal/domain/user"
	"github.com/geocoder89/roomhub/internal/observability"
	"github.com/gin-gonic/gin"
)

func TestRateLimiterByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	clock := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return clock }

	r := gin.New()
	r.POST("/api/auth", rl.RateLimiterMiddleware(KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := hit("10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}

	w := hit("10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}

	if w := hit("10.0.0.2"); w.Code != http.StatusOK {
		t.Fatalf("other ip should not be limited, got %d", w.Code)
	}

	clock = clock.Add(time.Minute + time.Second)
	if w := hit("10.0.0.1"); w.Code != http.StatusOK {
		t.Fatalf("new window should reset, got %d", w.Code)
	}
}

func TestRateLimiterByUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(1, time.Minute)

	r := gin.New()
	r.POST("/book", func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			SetCurrentUser(c, user.User{ID: int64(len(id)), Email: id + "@test.com"})
		}
		c.Next()
	}, rl.RateLimiterMiddleware(KeyByUserOrIP), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	hit := func(userHeader string) int {
		req := httptest.NewRequest(http.MethodPost, "/book", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		if userHeader != "" {
			req.Header.Set("X-Test-User", userHeader)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := hit("a"); code != http.StatusCreated {
		t.Fatalf("first booking by user a: %d", code)
	}
	if code := hit("a"); code != http.StatusTooManyRequests {
		t.Fatalf("second booking by user a: %d, want 429", code)
	}
	// same IP, different user
	if code := hit("bb"); code != http.StatusCreated {
		t.Fatalf("user bb should have its own bucket, got %d", code)
	}
	// anonymous falls back to the IP bucket
	if code := hit(""); code != http.StatusCreated {
		t.Fatalf("ip bucket: %d", code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:5173"}))
	r.GET("/rooms/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/rooms/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("allowed origin not echoed: %v", w.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/rooms/", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unknown origin must not be allowed")
	}

	req = httptest.NewRequest(http.MethodOptions, "/rooms/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "DELETE") {
		t.Fatalf("preflight methods = %q", w.Header().Get("Access-Control-Allow-Methods"))
	}

	req = httptest.NewRequest(http.MethodOptions, "/rooms/", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign preflight status = %d, want 403", w.Code)
	}
}

func TestCORSWildcard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware([]string{"*"}))
	r.GET("/rooms/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/rooms/", nil)
	req.Header.Set("Origin", "http://anything.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "http://anything.test" {
		t.Fatalf("wildcard should echo the origin: %v", w.Header())
	}
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Content-Type-Options") != "nosniff" || w.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("headers = %v", w.Header())
	}
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("no HSTS over plain http")
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("missing HSTS behind https proxy")
	}
}

func TestRequireJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/x", RequireJSON(), func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := map[string]int{
		"application/json":                http.StatusOK,
		"application/json; charset=utf-8": http.StatusOK,
		"application/problem+json":        http.StatusOK,
		"text/plain":                      http.StatusUnsupportedMediaType,
		"":                                http.StatusUnsupportedMediaType,
	}

	for ct, want := range tests {
		req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{}`))
		if ct != "" {
			req.Header.Set("Content-Type", ct)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != want {
			t.Fatalf("%q: status = %d, want %d", ct, w.Code, want)
		}
	}
}

func TestMaxBodyBytes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/x", MaxBodyBytes(8), func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(body string, chunked bool) int {
		req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(body))
		if chunked {
			req.ContentLength = -1
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := post(`{"a":"b"}`, false); code != http.StatusRequestEntityTooLarge {
		t.Fatalf("declared oversize: %d, want 413", code)
	}
	if code := post(`{"a":"b"}`, true); code != http.StatusBadRequest {
		t.Fatalf("undeclared oversize: %d, want 400", code)
	}
	if code := post(`{}`, false); code != http.StatusOK {
		t.Fatalf("small body: %d", code)
	}
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		id, _ := c.Get(CtxRequestID)
		if observability.RequestIDFromContext(c.Request.Context()) != id {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, "%v", id)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "abc" || w.Header().Get("X-Request-Id") != "abc" {
		t.Fatalf("request id not echoed: body=%s header=%s", w.Body.String(), w.Header().Get("X-Request-Id"))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if len(w.Header().Get("X-Request-Id")) != 36 {
		t.Fatalf("expected a generated uuid, got %q", w.Header().Get("X-Request-Id"))
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("a", 200))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || len(w.Header().Get("X-Request-Id")) != 36 {
		t.Fatalf("oversized id should be replaced, got %d %q", w.Code, w.Header().Get("X-Request-Id"))
	}
}
