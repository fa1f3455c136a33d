package store

import (
	"context"
	"fmt"

	"github.com/growthlog/internal/config"
	"github.com/growthlog/internal/db"
)

// Open 按 STORE_DRIVER 选择表格后端，返回的 close 函数用于释放连接
func Open(ctx context.Context, cfg config.AppConfig) (TableStore, func(), error) {
	noop := func() {}

	switch cfg.StoreDriver {
	case config.StoreMemory:
		return NewMemoryStore(), noop, nil
	case config.StoreSQLite, config.StorePostgres:
		dsn := cfg.DatabaseDSN
		if cfg.StoreDriver == config.StoreSQLite && dsn == "" {
			dsn = cfg.DatabasePath
		}
		if err := db.Init(cfg.StoreDriver, dsn); err != nil {
			return nil, noop, err
		}
		gdb := db.DB
		closeDB := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return NewSQLStore(gdb), closeDB, nil
	case config.StoreRedis:
		rs, err := NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, noop, err
		}
		return rs, func() { rs.Close() }, nil
	case config.StoreSheets:
		ss, err := NewSheetsStore(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsFile)
		if err != nil {
			return nil, noop, err
		}
		return ss, noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
