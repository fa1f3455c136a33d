package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/growthlog/internal/config"
	"github.com/growthlog/internal/handler"
	"github.com/growthlog/internal/store"
)

func setupTestRouter(t *testing.T, code string) *gin.Engine {
	t.Helper()
	return setupTestRouterWithSecret(t, code, "test-secret")
}

func setupTestRouterWithSecret(t *testing.T, code, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := handler.HashAccessCode(code)
	if err != nil {
		t.Fatalf("hash access code: %v", err)
	}
	api := handler.NewAPI(handler.Options{
		Store:          store.NewMemoryStore(),
		Worksheets:     config.Worksheets{Logs: "Logs", Schedule: "Schedule", Checklist: "Checklist"},
		Tracker:        config.DefaultTracker(),
		AccessCodeHash: hash,
		Location:       time.UTC,
	})
	return SetupRouter(api, Options{SessionSecret: secret, CORSOrigins: []string{"http://localhost:5173"}})
}

func serve(router *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestPingSetsRequestID(t *testing.T) {
	router := setupTestRouter(t, "")

	recorder := serve(router, http.MethodGet, "/ping", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	if recorder.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected X-Request-ID header")
	}

	request := httptest.NewRequest(http.MethodGet, "/ping", nil)
	request.Header.Set(requestIDHeader, "abc-123")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	if got := recorder.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
}

func TestViewRequiresUnlock(t *testing.T) {
	router := setupTestRouter(t, "4821")

	if code := serve(router, http.MethodGet, "/view/journal", "", nil).Code; code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 before unlock, got %d", code)
	}
	if code := serve(router, http.MethodPost, "/view/unlock", `{"code":"48a1"}`, nil).Code; code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed code, got %d", code)
	}
	if code := serve(router, http.MethodPost, "/view/unlock", `{"code":"1111"}`, nil).Code; code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for wrong code, got %d", code)
	}

	recorder := serve(router, http.MethodPost, "/view/unlock", `{"code":"4821"}`, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200 for correct code, got %d", recorder.Code)
	}
	cookies := recorder.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie")
	}

	if code := serve(router, http.MethodGet, "/view/journal", "", cookies).Code; code != http.StatusOK {
		t.Fatalf("expected status 200 after unlock, got %d", code)
	}
	if code := serve(router, http.MethodGet, "/view/dashboard", "", cookies).Code; code != http.StatusOK {
		t.Fatalf("expected status 200 after unlock, got %d", code)
	}
	// 只读视图不提供写接口
	if code := serve(router, http.MethodPut, "/view/logs/2025-01-06", `{}`, cookies).Code; code != http.StatusNotFound {
		t.Fatalf("expected status 404 for write under /view, got %d", code)
	}
}

func TestViewDisabledWithoutCode(t *testing.T) {
	router := setupTestRouter(t, "")

	if code := serve(router, http.MethodPost, "/view/unlock", `{"code":"0000"}`, nil).Code; code != http.StatusForbidden {
		t.Fatalf("expected status 403 when view is disabled, got %d", code)
	}
}

// forgeViewCookie 用任意密钥签出一个已解锁的会话 cookie
func forgeViewCookie(t *testing.T, secret string) []*http.Cookie {
	t.Helper()
	forger := gin.New()
	forger.Use(sessions.Sessions(sessionName, cookie.NewStore([]byte(secret))))
	forger.GET("/mint", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set("view_unlocked", true)
		if err := session.Save(); err != nil {
			t.Errorf("save forged session: %v", err)
		}
		c.Status(http.StatusNoContent)
	})
	cookies := serve(forger, http.MethodGet, "/mint", "", nil).Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected forged cookie")
	}
	return cookies
}

func TestViewRejectsCookieSignedWithOtherKey(t *testing.T) {
	forged := forgeViewCookie(t, "growthlog-dev-secret")

	for name, secret := range map[string]string{"configured": "a-private-session-secret", "random": ""} {
		router := setupTestRouterWithSecret(t, "4821", secret)
		if code := serve(router, http.MethodGet, "/view/dashboard", "", forged).Code; code != http.StatusUnauthorized {
			t.Fatalf("%s secret: expected status 401 for forged cookie, got %d", name, code)
		}
	}

	// 未配置密钥时仍可正常解锁
	router := setupTestRouterWithSecret(t, "4821", "")
	recorder := serve(router, http.MethodPost, "/view/unlock", `{"code":"4821"}`, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected unlock to succeed with random key, got %d", recorder.Code)
	}
	if code := serve(router, http.MethodGet, "/view/dashboard", "", recorder.Result().Cookies()).Code; code != http.StatusOK {
		t.Fatalf("expected status 200 after unlock, got %d", code)
	}
}
