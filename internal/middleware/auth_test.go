package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stride-backend/internal/logger"
)

func newAuthRouter(t *testing.T, token string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	auth := NewSchedulerAuth(log, token)
	r := gin.New()
	r.POST("/checkin/:athleteID", auth.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestSchedulerAuthAcceptsBearerToken(t *testing.T) {
	r := newAuthRouter(t, "s3cret")
	req := httptest.NewRequest(http.MethodPost, "/checkin/abc", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
}

func TestSchedulerAuthRejectsBadToken(t *testing.T) {
	r := newAuthRouter(t, "s3cret")
	for _, header := range []string{"", "Bearer wrong", "Basic s3cret"} {
		req := httptest.NewRequest(http.MethodPost, "/checkin/abc", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: want=401 got=%d", header, w.Code)
		}
	}
}

func TestSchedulerAuthAcceptsQueryToken(t *testing.T) {
	r := newAuthRouter(t, "s3cret")
	req := httptest.NewRequest(http.MethodPost, "/checkin/abc?token=s3cret", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
}

func TestSchedulerAuthOpenWhenUnconfigured(t *testing.T) {
	r := newAuthRouter(t, "")
	req := httptest.NewRequest(http.MethodPost, "/checkin/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
}
