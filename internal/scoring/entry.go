package scoring

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrValidation 为所有写入校验错误的统一哨兵
	ErrValidation = errors.New("validation failed")
	// ErrUnknownHabit 在习惯键不在配置中时返回
	ErrUnknownHabit = errors.New("unknown habit")
)

// ValidationError 描述写入边界上的校验失败，例如勾选了习惯却未填写说明
type ValidationError struct {
	Habit  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Habit == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Habit, e.Reason)
}

// Is 使 errors.Is(err, ErrValidation) 成立
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RequireDetail 勾选的习惯必须附带非空说明
func RequireDetail(key string, done bool, detail string) error {
	if done && strings.TrimSpace(detail) == "" {
		return &ValidationError{Habit: key, Reason: "detail is required when the habit is done"}
	}
	return nil
}

// DayEntry 是一次完整的当日提交
type DayEntry struct {
	Date        time.Time
	Habits      map[string]bool
	Details     map[string]string
	NextGoal    string
	Reflection  string
	WeeklyRetro string
}

// Validate 按 habitKeys 顺序校验，返回第一个违规项
func (e DayEntry) Validate(habitKeys []string) error {
	if e.Date.IsZero() {
		return &ValidationError{Reason: "date is required"}
	}
	known := make(map[string]struct{}, len(habitKeys))
	for _, key := range habitKeys {
		known[key] = struct{}{}
	}
	for key := range e.Habits {
		if _, ok := known[key]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownHabit, key)
		}
	}
	for key := range e.Details {
		if _, ok := known[key]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownHabit, key)
		}
	}
	for _, key := range habitKeys {
		if err := RequireDetail(key, e.Habits[key], e.Details[key]); err != nil {
			return err
		}
	}
	return nil
}

// Record 将提交转换为记录，未出现的习惯记为 0
func (e DayEntry) Record(habitKeys []string) Record {
	record := NewRecord(e.Date)
	for _, key := range habitKeys {
		record.SetHabit(key, e.Habits[key], strings.TrimSpace(e.Details[key]))
	}
	record.NextGoal = strings.TrimSpace(e.NextGoal)
	record.Reflection = strings.TrimSpace(e.Reflection)
	record.WeeklyRetro = strings.TrimSpace(e.WeeklyRetro)
	return record
}
