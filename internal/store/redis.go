package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/growthlog/internal/sheet"
)

// RedisStore 将每张工作表以 JSON 整体存放在一个键中
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
}

// RedisOptions 描述 Redis 连接参数
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisStore 建立连接并 ping 确认可用
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisStoreFromClient(rdb, opts.Prefix), nil
}

// NewRedisStoreFromClient 复用已有客户端
func NewRedisStoreFromClient(rdb *goredis.Client, prefix string) *RedisStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "growthlog"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// ReadAll 读取工作表，键不存在时返回空表
func (s *RedisStore) ReadAll(ctx context.Context, worksheet string) (sheet.Table, error) {
	if err := validWorksheet(worksheet); err != nil {
		return sheet.Table{}, err
	}

	raw, err := s.rdb.Get(ctx, s.key(worksheet)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return sheet.Table{Rows: make([]sheet.Row, 0)}, nil
		}
		return sheet.Table{}, unavailable("read", worksheet, err)
	}

	var table sheet.Table
	if err := json.Unmarshal(raw, &table); err != nil {
		return sheet.Table{}, unavailable("decode", worksheet, err)
	}
	return table, nil
}

// WriteAll 覆盖整张工作表
func (s *RedisStore) WriteAll(ctx context.Context, worksheet string, table sheet.Table) error {
	if err := validWorksheet(worksheet); err != nil {
		return err
	}

	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode worksheet %s: %w", worksheet, err)
	}
	if err := s.rdb.Set(ctx, s.key(worksheet), raw, 0).Err(); err != nil {
		return unavailable("write", worksheet, err)
	}
	return nil
}

// Close 关闭底层连接
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) key(worksheet string) string {
	return s.prefix + ":" + worksheet
}
