package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/growthlog/internal/config"
	"github.com/growthlog/internal/handler"
	"github.com/growthlog/internal/store"
)

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(h http.Handler) *localClient {
	jar, _ := cookiejar.New(nil)
	return &localClient{handler: h, jar: jar}
}

func (c *localClient) Do(req *http.Request) *http.Response {
	for _, cookie := range c.jar.Cookies(req.URL) {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	c.jar.SetCookies(req.URL, resp.Cookies())
	return resp
}

func (c *localClient) JSON(t *testing.T, method, path string, body any, dst any) int {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req := httptest.NewRequest(method, "http://growthlog.test"+path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := c.Do(req)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if dst != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, dst); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode
}

func TestEndToEndWeekOnSQLStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	dsn := fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano())
	tables, closeStore, err := store.Open(ctx, config.AppConfig{StoreDriver: config.StoreSQLite, DatabasePath: dsn})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(closeStore)

	hash, err := handler.HashAccessCode("2468")
	if err != nil {
		t.Fatalf("hash access code: %v", err)
	}
	api := handler.NewAPI(handler.Options{
		Store:          tables,
		Worksheets:     config.Worksheets{Logs: "Logs", Schedule: "Schedule", Checklist: "Checklist"},
		Tracker:        config.DefaultTracker(),
		AccessCodeHash: hash,
		Location:       time.UTC,
	})
	client := newLocalClient(SetupRouter(api, Options{SessionSecret: "e2e-secret"}))

	// 2025-W02：五个每日习惯各打满一周，加上一次副业，共 36/36
	monday := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i).Format("2006-01-02")
		body := map[string]any{
			"habits": map[string]any{"Workout": 1, "Code": "TRUE", "Read": "yes", "NoJunk": true, "Connect": "1"},
			"details": map[string]string{
				"Workout": "run", "Code": "go", "Read": "book", "NoJunk": "salad", "Connect": "family",
			},
		}
		if i == 6 {
			body["habits"].(map[string]any)["SideHustle"] = "TRUE"
			body["details"].(map[string]string)["SideHustle"] = "edited video"
		}
		if code := client.JSON(t, http.MethodPut, "/api/logs/"+day, body, nil); code != http.StatusOK {
			t.Fatalf("PUT %s: expected 200, got %d", day, code)
		}
	}

	var week struct {
		Week struct {
			Percentage   int  `json:"percentage"`
			RewardPoints int  `json:"reward_points"`
			Unlocked     bool `json:"unlocked"`
		} `json:"week"`
	}
	if code := client.JSON(t, http.MethodGet, "/api/weeks/2025-W02", nil, &week); code != http.StatusOK {
		t.Fatalf("GET week: expected 200, got %d", code)
	}
	if week.Week.Percentage != 100 || !week.Week.Unlocked || week.Week.RewardPoints != 1000 {
		t.Fatalf("unexpected week score: %+v", week.Week)
	}

	var ledger struct {
		Lifetime struct {
			Occurrences int `json:"occurrences"`
			Score       int `json:"score"`
			Ledger      []struct {
				Status string `json:"status"`
			} `json:"ledger"`
		} `json:"lifetime"`
	}
	client.JSON(t, http.MethodGet, "/api/ledger", nil, &ledger)
	// 36 次 * 10 XP + 1000 奖池
	if ledger.Lifetime.Occurrences != 36 || ledger.Lifetime.Score != 1360 {
		t.Fatalf("unexpected lifetime: %+v", ledger.Lifetime)
	}
	if len(ledger.Lifetime.Ledger) != 1 || ledger.Lifetime.Ledger[0].Status != "won" {
		t.Fatalf("unexpected ledger: %+v", ledger.Lifetime.Ledger)
	}

	var heatmap struct {
		Cells []map[string]any `json:"cells"`
	}
	client.JSON(t, http.MethodGet, "/api/heatmap", nil, &heatmap)
	if len(heatmap.Cells) != 7 {
		t.Fatalf("expected one full heatmap week, got %d cells", len(heatmap.Cells))
	}

	// 只读视图：先解锁再访问
	if code := client.JSON(t, http.MethodGet, "/view/journal", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before unlock, got %d", code)
	}
	if code := client.JSON(t, http.MethodPost, "/view/unlock", map[string]string{"code": "2468"}, nil); code != http.StatusOK {
		t.Fatalf("expected unlock to succeed, got %d", code)
	}
	var journal struct {
		Journal []map[string]any `json:"journal"`
	}
	if code := client.JSON(t, http.MethodGet, "/view/journal?limit=3", nil, &journal); code != http.StatusOK {
		t.Fatalf("expected journal after unlock, got %d", code)
	}
	if len(journal.Journal) != 3 || journal.Journal[0]["date"] != "2025-01-12" {
		t.Fatalf("unexpected journal: %+v", journal.Journal)
	}

	// 锁定后视图再次不可用
	client.JSON(t, http.MethodPost, "/view/lock", nil, nil)
	if code := client.JSON(t, http.MethodGet, "/view/dashboard", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after lock, got %d", code)
	}
}
