package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// 存储后端
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreSheets   = "sheets"
	StoreMemory   = "memory"
)

const minSessionSecretLen = 16

// 曾作为默认值出现过的密钥，一律拒绝
var knownSessionSecrets = []string{"growthlog-dev-secret", "changeme", "secret"}

// Worksheets 为各数据表使用的工作表名
type Worksheets struct {
	Logs      string
	Schedule  string
	Checklist string
}

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr            string
	Port                  string
	GinMode               string
	LogMode               string
	SessionSecret         string
	ViewAccessCode        string
	StoreDriver           string
	DatabasePath          string
	DatabaseDSN           string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	RedisPrefix           string
	SheetsSpreadsheetID   string
	SheetsCredentialsFile string
	Worksheets            Worksheets
	TrackerConfigPath     string
	CORSOrigins           []string
	Location              *time.Location
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := env("PORT", "8080")

	return AppConfig{
		ListenAddr:            env("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Port:                  port,
		GinMode:               env("GIN_MODE", "release"),
		LogMode:               env("LOG_MODE", "production"),
		SessionSecret:         env("SESSION_SECRET", ""),
		ViewAccessCode:        env("VIEW_ACCESS_CODE", ""),
		StoreDriver:           strings.ToLower(env("STORE_DRIVER", StoreSQLite)),
		DatabasePath:          env("DATABASE_PATH", "growthlog.db"),
		DatabaseDSN:           env("DATABASE_DSN", ""),
		RedisAddr:             env("REDIS_ADDR", ""),
		RedisPassword:         env("REDIS_PASSWORD", ""),
		RedisDB:               envInt("REDIS_DB", 0),
		RedisPrefix:           env("REDIS_PREFIX", "growthlog"),
		SheetsSpreadsheetID:   env("SHEETS_SPREADSHEET_ID", ""),
		SheetsCredentialsFile: env("SHEETS_CREDENTIALS_FILE", ""),
		Worksheets: Worksheets{
			Logs:      env("LOGS_WORKSHEET", "Logs"),
			Schedule:  env("SCHEDULE_WORKSHEET", "Schedule"),
			Checklist: env("CHECKLIST_WORKSHEET", "Checklist"),
		},
		TrackerConfigPath: env("TRACKER_CONFIG", ""),
		CORSOrigins:       envList("CORS_ORIGINS"),
		Location:          envLocation("TIMEZONE"),
	}
}

// Validate 检查与所选存储后端相关的必填项
func (c AppConfig) Validate() error {
	switch c.StoreDriver {
	case StoreSQLite, StoreMemory:
	case StorePostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for postgres store")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for redis store")
		}
	case StoreSheets:
		if c.SheetsSpreadsheetID == "" {
			return fmt.Errorf("SHEETS_SPREADSHEET_ID is required for sheets store")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.ViewAccessCode != "" {
		if !IsAccessCode(c.ViewAccessCode) {
			return fmt.Errorf("VIEW_ACCESS_CODE must be exactly 4 digits")
		}
		// 解锁状态保存在签名 cookie 中，签名密钥必须由部署方提供
		if len(c.SessionSecret) < minSessionSecretLen || slices.Contains(knownSessionSecrets, c.SessionSecret) {
			return fmt.Errorf("SESSION_SECRET must be set to a private value of at least %d characters when VIEW_ACCESS_CODE is enabled", minSessionSecretLen)
		}
	}
	return nil
}

// IsAccessCode 只读视图的访问码为 4 位数字
func IsAccessCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func envLocation(key string) *time.Location {
	name := strings.TrimSpace(os.Getenv(key))
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
