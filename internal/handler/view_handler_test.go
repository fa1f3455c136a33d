package handler

import (
	"net/http"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/growthlog/internal/store"
)

func TestLockViewReportsSessionFailure(t *testing.T) {
	api, router := newTestAPI(t, store.NewMemoryStore())
	// 空签名密钥无法编码 cookie，Save 必然失败
	router.Use(sessions.Sessions("growthlog_session", cookie.NewStore([]byte{})))
	router.POST("/view/lock", api.LockView)

	recorder := doJSON(t, router, http.MethodPost, "/view/lock", nil)
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 when the session cannot be saved, got %d", recorder.Code)
	}
	var body map[string]any
	decode(t, recorder, &body)
	if _, ok := body["unlocked"]; ok {
		t.Fatalf("expected no unlocked flag on failure, got %v", body)
	}
}

func TestLockViewClearsSession(t *testing.T) {
	api, router := newTestAPI(t, store.NewMemoryStore())
	router.Use(sessions.Sessions("growthlog_session", cookie.NewStore([]byte("handler-test-secret"))))
	router.POST("/view/lock", api.LockView)

	recorder := doJSON(t, router, http.MethodPost, "/view/lock", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	var body map[string]bool
	decode(t, recorder, &body)
	if body["unlocked"] {
		t.Fatal("expected unlocked to be false after lock")
	}
}
