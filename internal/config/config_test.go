package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/growthlog/internal/scoring"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LISTEN_ADDR", "STORE_DRIVER", "LOGS_WORKSHEET", "CORS_ORIGINS", "TIMEZONE", "VIEW_ACCESS_CODE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("unexpected listen addr: %s", cfg.ListenAddr)
	}
	if cfg.StoreDriver != StoreSQLite {
		t.Fatalf("unexpected store driver: %s", cfg.StoreDriver)
	}
	if cfg.Worksheets.Logs != "Logs" {
		t.Fatalf("unexpected logs worksheet: %s", cfg.Worksheets.Logs)
	}
	if cfg.Location != time.Local {
		t.Fatalf("expected local timezone by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("TIMEZONE", "Asia/Kolkata")
	t.Setenv("VIEW_ACCESS_CODE", "")

	cfg := Load()

	if cfg.ListenAddr != ":9000" {
		t.Fatalf("unexpected listen addr: %s", cfg.ListenAddr)
	}
	if cfg.StoreDriver != StoreRedis {
		t.Fatalf("unexpected store driver: %s", cfg.StoreDriver)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if cfg.Location.String() != "Asia/Kolkata" {
		t.Fatalf("unexpected location: %s", cfg.Location)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected redis config to validate: %v", err)
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	cfg := AppConfig{StoreDriver: StoreSheets}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected sheets without spreadsheet id to fail")
	}

	cfg = AppConfig{StoreDriver: StoreMemory, ViewAccessCode: "12a4"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected non-numeric access code to fail")
	}

	cfg = AppConfig{StoreDriver: "mongo"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown driver to fail")
	}
}

func TestValidateRequiresSessionSecretForView(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("VIEW_ACCESS_CODE", "4821")
	t.Setenv("SESSION_SECRET", "")

	cfg := Load()
	if cfg.SessionSecret != "" {
		t.Fatalf("expected no built-in session secret, got %q", cfg.SessionSecret)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing SESSION_SECRET to fail when the view is enabled")
	}

	for _, secret := range []string{"growthlog-dev-secret", "short"} {
		cfg.SessionSecret = secret
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected session secret %q to be rejected", secret)
		}
	}

	cfg.SessionSecret = "f3b1c9d27a6e48e0b5d4"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected private secret to validate: %v", err)
	}

	cfg = AppConfig{StoreDriver: StoreMemory}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected view-less config to validate without a secret: %v", err)
	}
}

func TestDefaultTracker(t *testing.T) {
	tracker := DefaultTracker()

	if len(tracker.Habits) != 6 {
		t.Fatalf("expected 6 habits, got %d", len(tracker.Habits))
	}
	if tracker.Scoring.WeeklyPointBudget != 36 {
		t.Fatalf("expected derived budget 36, got %d", tracker.Scoring.WeeklyPointBudget)
	}
	if !tracker.Scoring.IsWeekly(scoring.HabitSideHustle) {
		t.Fatal("expected SideHustle to be a weekly habit")
	}
	if tracker.Scoring.UnlockThreshold != 50 {
		t.Fatalf("unexpected threshold: %d", tracker.Scoring.UnlockThreshold)
	}
	if tracker.Focus(4) != "Apr: LangChain & RAG" {
		t.Fatalf("unexpected roadmap focus: %s", tracker.Focus(4))
	}
	if cols := tracker.Schema().Columns(); cols[8] != "Food_Detail" {
		t.Fatalf("unexpected schema columns: %v", cols)
	}
}

func TestLoadTrackerFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	content := `
habits:
  - key: Run
    label: Run
  - key: Journal
  - key: Call
    weekly: true
reward_multiplier: 3
unlock_threshold: 0
discipline_habits: [Run]
weekly_targets:
  Call: 1
roadmap:
  1: "Base building"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	tracker, err := LoadTracker(path)
	if err != nil {
		t.Fatalf("LoadTracker returned error: %v", err)
	}

	cfg := tracker.Scoring
	if cfg.WeeklyPointBudget != 15 {
		t.Fatalf("expected derived budget 15, got %d", cfg.WeeklyPointBudget)
	}
	if cfg.RewardMultiplier != 3 || cfg.XPPerOccurrence != 10 {
		t.Fatalf("unexpected multipliers: %+v", cfg)
	}
	if cfg.UnlockThreshold != 0 {
		t.Fatalf("expected explicit zero threshold to be kept, got %d", cfg.UnlockThreshold)
	}
	if tracker.Habits[1].DetailColumn != "Journal_Detail" {
		t.Fatalf("unexpected detail column: %s", tracker.Habits[1].DetailColumn)
	}
	if tracker.Focus(1) != "Base building" {
		t.Fatalf("unexpected roadmap: %v", tracker.Roadmap)
	}
}

func TestLoadTrackerRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	content := "habits:\n  - key: Run\ndiscipline_habits: [Swim]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadTracker(path); err == nil {
		t.Fatal("expected unknown discipline habit to fail")
	}
}
