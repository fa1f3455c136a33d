package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/growthlog/internal/sheet"
)

// ErrUnavailable 表示底层表格无法读写，所有后端错误都会包装成它
var ErrUnavailable = errors.New("table store unavailable")

// TableStore 以工作表为单位整体读写，不提供部分行更新、事务或并发控制。
// 读改写之间没有隔离保证，最后一次写入生效。
type TableStore interface {
	ReadAll(ctx context.Context, worksheet string) (sheet.Table, error)
	WriteAll(ctx context.Context, worksheet string, table sheet.Table) error
}

func unavailable(op, worksheet string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, op, worksheet, err)
}

func validWorksheet(worksheet string) error {
	if strings.TrimSpace(worksheet) == "" {
		return errors.New("worksheet name is required")
	}
	return nil
}
