package scoring

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var truthyWords = map[string]struct{}{
	"TRUE": {},
	"T":    {},
	"YES":  {},
	"ON":   {},
}

// Coerce 将表格中读出的任意真值表示统一为 0/1。
// 数字优先：大于 0 记为 1；否则按大写字符串匹配 TRUE/T/YES/ON。
// 无法识别的值一律降级为 0，不向上抛错。
func Coerce(raw any) int {
	switch v := raw.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 1
		}
		return 0
	case int:
		return positive(float64(v))
	case int8:
		return positive(float64(v))
	case int16:
		return positive(float64(v))
	case int32:
		return positive(float64(v))
	case int64:
		return positive(float64(v))
	case uint:
		return positive(float64(v))
	case uint8:
		return positive(float64(v))
	case uint16:
		return positive(float64(v))
	case uint32:
		return positive(float64(v))
	case uint64:
		return positive(float64(v))
	case float32:
		return positive(float64(v))
	case float64:
		return positive(v)
	case string:
		return coerceString(v)
	case fmt.Stringer:
		return coerceString(v.String())
	default:
		return coerceString(fmt.Sprint(v))
	}
}

func coerceString(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	// 超出范围时 ParseFloat 仍返回 ±Inf，按正负号计
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil || errors.Is(err, strconv.ErrRange) {
		return positive(f)
	}
	if _, ok := truthyWords[strings.ToUpper(trimmed)]; ok {
		return 1
	}
	return 0
}

// NaN 比较恒为 false，因此同样落到 0
func positive(f float64) int {
	if f > 0 {
		return 1
	}
	return 0
}
