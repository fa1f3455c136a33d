package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/growthlog/internal/logger"
	"github.com/growthlog/internal/scoring"
	"github.com/growthlog/internal/sheet"
	"github.com/growthlog/internal/store"
)

// ErrLogNotFound 在指定日期没有记录时返回
var ErrLogNotFound = errors.New("log not found")

// NotesInput 描述当日文字字段的局部更新，nil 表示保持不变
type NotesInput struct {
	NextGoal    *string
	Reflection  *string
	WeeklyRetro *string
}

// LogService 负责日志工作表的读写。
// 每次写入都是整表读取、按日期替换、整表写回；同一进程内的写入串行执行。
type LogService struct {
	store     store.TableStore
	worksheet string
	schema    sheet.Schema
	logger    *logger.Logger

	mu sync.Mutex
}

// NewLogService 构造 LogService
func NewLogService(st store.TableStore, worksheet string, schema sheet.Schema, log *logger.Logger) *LogService {
	if log == nil {
		log = logger.Nop()
	}
	return &LogService{
		store:     st,
		worksheet: worksheet,
		schema:    schema,
		logger:    log.With("worksheet", worksheet),
	}
}

// HabitKeys 返回工作表中的习惯顺序
func (s *LogService) HabitKeys() []string {
	return s.schema.HabitKeys()
}

// Records 读取并解析全部记录，按日期升序，日期唯一
func (s *LogService) Records(ctx context.Context) ([]scoring.Record, error) {
	records, _, err := s.load(ctx)
	return records, err
}

// load 额外返回日期无法解析的原始行，写回时需原样保留
func (s *LogService) load(ctx context.Context) ([]scoring.Record, []sheet.Row, error) {
	table, err := s.store.ReadAll(ctx, s.worksheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read logs: %w", err)
	}
	records, unparsed := s.schema.Decode(table)
	if len(unparsed) > 0 {
		s.logger.Warn("log rows with unparseable dates left untouched", "rows", len(unparsed))
	}
	return records, unparsed, nil
}

// SaveDay 校验并保存一整天的提交，同日已有记录会被整体替换
func (s *LogService) SaveDay(ctx context.Context, entry scoring.DayEntry) (scoring.Record, error) {
	keys := s.HabitKeys()
	if err := entry.Validate(keys); err != nil {
		return scoring.Record{}, err
	}
	record := entry.Record(keys)

	return s.mutate(ctx, record.Date, func(_ scoring.Record, _ bool) (scoring.Record, error) {
		return record, nil
	})
}

// UpdateHabit 只修改某日的单个习惯，其余字段保持原值
func (s *LogService) UpdateHabit(ctx context.Context, date time.Time, key string, done bool, detail string) (scoring.Record, error) {
	if date.IsZero() {
		return scoring.Record{}, &scoring.ValidationError{Reason: "date is required"}
	}
	if !slices.Contains(s.HabitKeys(), key) {
		return scoring.Record{}, fmt.Errorf("%w: %s", scoring.ErrUnknownHabit, key)
	}
	detail = strings.TrimSpace(detail)
	if err := scoring.RequireDetail(key, done, detail); err != nil {
		return scoring.Record{}, err
	}

	return s.mutate(ctx, date, func(existing scoring.Record, _ bool) (scoring.Record, error) {
		existing.SetHabit(key, done, detail)
		return existing, nil
	})
}

// UpdateNotes 合并当日文字字段
func (s *LogService) UpdateNotes(ctx context.Context, date time.Time, input NotesInput) (scoring.Record, error) {
	if date.IsZero() {
		return scoring.Record{}, &scoring.ValidationError{Reason: "date is required"}
	}
	if input.NextGoal == nil && input.Reflection == nil && input.WeeklyRetro == nil {
		return scoring.Record{}, &scoring.ValidationError{Reason: "no notes to update"}
	}

	return s.mutate(ctx, date, func(existing scoring.Record, _ bool) (scoring.Record, error) {
		if input.NextGoal != nil {
			existing.NextGoal = strings.TrimSpace(*input.NextGoal)
		}
		if input.Reflection != nil {
			existing.Reflection = strings.TrimSpace(*input.Reflection)
		}
		if input.WeeklyRetro != nil {
			existing.WeeklyRetro = strings.TrimSpace(*input.WeeklyRetro)
		}
		return existing, nil
	})
}

// Get 返回指定日期的记录
func (s *LogService) Get(ctx context.Context, date time.Time) (scoring.Record, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return scoring.Record{}, err
	}
	record, ok := scoring.Find(records, date)
	if !ok {
		return scoring.Record{}, ErrLogNotFound
	}
	return record, nil
}

// History 返回全部记录，最新的在前
func (s *LogService) History(ctx context.Context) ([]scoring.Record, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(records)
	return records, nil
}

func (s *LogService) mutate(ctx context.Context, date time.Time, apply func(existing scoring.Record, found bool) (scoring.Record, error)) (scoring.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, unparsed, err := s.load(ctx)
	if err != nil {
		return scoring.Record{}, err
	}

	existing, found := scoring.Find(records, date)
	if found {
		existing = existing.Clone()
	} else {
		existing = scoring.NewRecord(date)
	}

	updated, err := apply(existing, found)
	if err != nil {
		return scoring.Record{}, err
	}
	updated.Date = scoring.NormalizeDate(date)

	records = scoring.Upsert(records, updated)
	if err := s.store.WriteAll(ctx, s.worksheet, s.schema.Encode(records, unparsed...)); err != nil {
		return scoring.Record{}, fmt.Errorf("write logs: %w", err)
	}

	s.logger.Info("log saved", "date", updated.Key(), "replaced", found, "rows", len(records))
	return updated, nil
}
