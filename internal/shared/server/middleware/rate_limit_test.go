package middleware

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitKeysOnPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		Rule:    RateLimitRule{Rate: 1, Burst: 2},
		Limiter: limiter,
		KeyFor: func(c *gin.Context) string {
			return c.Query("userId")
		},
	}))
	r.POST("/api/upload", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/upload?userId=user-1", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d for user-1 expected 200, got %d", i+1, resp.Code)
		}
	}

	// Bucket exhausted for user-1, untouched for user-2.
	reqBlocked := httptest.NewRequest(http.MethodPost, "/api/upload?userId=user-1", nil)
	respBlocked := httptest.NewRecorder()
	r.ServeHTTP(respBlocked, reqBlocked)
	if respBlocked.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for user-1, got %d", respBlocked.Code)
	}

	reqOther := httptest.NewRequest(http.MethodPost, "/api/upload?userId=user-2", nil)
	respOther := httptest.NewRecorder()
	r.ServeHTTP(respOther, reqOther)
	if respOther.Code != http.StatusOK {
		t.Fatalf("expected 200 for user-2, got %d", respOther.Code)
	}
}

func TestRateLimitKeysOnMultipartFormUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		Rule:    RateLimitRule{Rate: 1, Burst: 2},
		Limiter: limiter,
		KeyFor:  UserIDKey,
	}))
	r.POST("/api/upload", func(c *gin.Context) {
		// The handler must still see the file part after the middleware
		// parsed the form for the key.
		if _, err := c.FormFile("medicalFile"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	uploadAs := func(userID string) *httptest.ResponseRecorder {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		if err := writer.WriteField("userId", userID); err != nil {
			t.Fatalf("write userId: %v", err)
		}
		fw, err := writer.CreateFormFile("medicalFile", "scan.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("data")); err != nil {
			t.Fatalf("write file: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("close writer: %v", err)
		}
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp
	}

	for i := 0; i < 2; i++ {
		if resp := uploadAs("user-1"); resp.Code != http.StatusOK {
			t.Fatalf("upload %d for user-1 expected 200, got %d: %s", i+1, resp.Code, resp.Body.String())
		}
	}
	if resp := uploadAs("user-1"); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for user-1, got %d", resp.Code)
	}
	// Same IP, different form user: separate bucket.
	if resp := uploadAs("user-2"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for user-2, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		Rule:    RateLimitRule{Rate: 1, Burst: 1},
		Limiter: limiter,
	}))
	r.GET("/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req1 := httptest.NewRequest(http.MethodGet, "/limited", nil)
	resp1 := httptest.NewRecorder()
	r.ServeHTTP(resp1, req1)
	if resp1.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/limited", nil)
	resp2 := httptest.NewRecorder()
	r.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp2.Code)
	}
	if resp2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != "rate_limited" {
		t.Fatalf("expected code rate_limited, got %q", payload.Error.Code)
	}
	if payload.Error.Details["retryAfterMs"] == nil {
		t.Fatalf("expected retryAfterMs in details")
	}
}
