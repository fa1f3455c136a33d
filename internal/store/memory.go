package store

import (
	"context"
	"sync"

	"github.com/growthlog/internal/sheet"
)

// MemoryStore 为进程内实现，供测试与 STORE_DRIVER=memory 使用
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]sheet.Table
	// ReadErr/WriteErr 非空时模拟后端故障
	ReadErr  error
	WriteErr error
}

// NewMemoryStore 构造空的内存表格
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]sheet.Table)}
}

// ReadAll 返回工作表副本，不存在时为空表
func (s *MemoryStore) ReadAll(_ context.Context, worksheet string) (sheet.Table, error) {
	if err := validWorksheet(worksheet); err != nil {
		return sheet.Table{}, err
	}
	if s.ReadErr != nil {
		return sheet.Table{}, unavailable("read", worksheet, s.ReadErr)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTable(s.tables[worksheet]), nil
}

// WriteAll 整体替换工作表
func (s *MemoryStore) WriteAll(_ context.Context, worksheet string, table sheet.Table) error {
	if err := validWorksheet(worksheet); err != nil {
		return err
	}
	if s.WriteErr != nil {
		return unavailable("write", worksheet, s.WriteErr)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[worksheet] = copyTable(table)
	return nil
}

func copyTable(table sheet.Table) sheet.Table {
	out := sheet.Table{
		Columns: append([]string(nil), table.Columns...),
		Rows:    make([]sheet.Row, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		clone := make(sheet.Row, len(row))
		for k, v := range row {
			clone[k] = v
		}
		out.Rows = append(out.Rows, clone)
	}
	return out
}
