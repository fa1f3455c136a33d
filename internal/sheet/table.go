package sheet

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Row 为一行原始单元格，按列名索引；值可能是字符串、数字或布尔
type Row map[string]any

// Table 是按工作表整体读写的表格
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Empty 表格没有任何数据行
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Cell 按列名读取单元格，精确匹配失败时忽略大小写与首尾空格。
// 多个列名仅大小写不同时，按表头顺序取第一个。
func (t Table) Cell(row Row, column string) (any, bool) {
	if value, ok := row[column]; ok {
		return value, true
	}
	for _, name := range t.Columns {
		if !sameColumn(name, column) {
			continue
		}
		if value, ok := row[name]; ok {
			return value, true
		}
	}
	return row.Cell(column)
}

// Cell 在没有表头时按列名排序后匹配，保证结果稳定
func (r Row) Cell(column string) (any, bool) {
	if value, ok := r[column]; ok {
		return value, true
	}
	names := make([]string, 0, len(r))
	for name := range r {
		if sameColumn(name, column) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, false
	}
	slices.Sort(names)
	return r[names[0]], true
}

func sameColumn(name, column string) bool {
	return strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(column))
}

// Text 将单元格转换为去除首尾空白的文本，缺失或 NaN 视为空串
func Text(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// 表格序列日期以 1899-12-30 为第 0 天
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate 尽量宽容地解析日期单元格，返回截断到日期的结果
func ParseDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return normalize(v), true
	case float64:
		return fromSerial(v)
	case int:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	}

	text := Text(raw)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return normalize(t), true
		}
	}
	return time.Time{}, false
}

func fromSerial(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial < 1 || serial > 2958465 {
		return time.Time{}, false
	}
	return serialEpoch.AddDate(0, 0, int(serial)), true
}

func normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
