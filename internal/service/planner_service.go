package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/growthlog/internal/logger"
	"github.com/growthlog/internal/scoring"
	"github.com/growthlog/internal/sheet"
	"github.com/growthlog/internal/store"
)

// ErrChecklistItemNotFound 在清单条目不存在时返回
var ErrChecklistItemNotFound = errors.New("checklist item not found")

// ScheduleService 维护日程工作表，只追加不删除
type ScheduleService struct {
	store     store.TableStore
	worksheet string
	logger    *logger.Logger

	mu sync.Mutex
}

// NewScheduleService 构造 ScheduleService
func NewScheduleService(st store.TableStore, worksheet string, log *logger.Logger) *ScheduleService {
	if log == nil {
		log = logger.Nop()
	}
	return &ScheduleService{store: st, worksheet: worksheet, logger: log.With("worksheet", worksheet)}
}

// Add 追加一条日程
func (s *ScheduleService) Add(ctx context.Context, date time.Time, task string) (sheet.ScheduleItem, error) {
	task = strings.TrimSpace(task)
	if date.IsZero() {
		return sheet.ScheduleItem{}, &scoring.ValidationError{Reason: "date is required"}
	}
	if task == "" {
		return sheet.ScheduleItem{}, &scoring.ValidationError{Reason: "task is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.list(ctx)
	if err != nil {
		return sheet.ScheduleItem{}, err
	}
	item := sheet.ScheduleItem{Date: scoring.NormalizeDate(date), Task: task}
	items = append(items, item)
	if err := s.store.WriteAll(ctx, s.worksheet, sheet.EncodeSchedule(items)); err != nil {
		return sheet.ScheduleItem{}, fmt.Errorf("write schedule: %w", err)
	}
	s.logger.Info("schedule item added", "date", scoring.DateKey(item.Date))
	return item, nil
}

// Upcoming 返回 from 当天及之后的日程，按日期升序
func (s *ScheduleService) Upcoming(ctx context.Context, from time.Time) ([]sheet.ScheduleItem, error) {
	items, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	start := scoring.NormalizeDate(from)
	upcoming := make([]sheet.ScheduleItem, 0, len(items))
	for _, item := range items {
		if !item.Date.Before(start) {
			upcoming = append(upcoming, item)
		}
	}
	return upcoming, nil
}

func (s *ScheduleService) list(ctx context.Context) ([]sheet.ScheduleItem, error) {
	table, err := s.store.ReadAll(ctx, s.worksheet)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	return sheet.DecodeSchedule(table), nil
}

// ChecklistService 维护待办清单，条目以 uuid 标识
type ChecklistService struct {
	store     store.TableStore
	worksheet string
	logger    *logger.Logger

	mu sync.Mutex
}

// NewChecklistService 构造 ChecklistService
func NewChecklistService(st store.TableStore, worksheet string, log *logger.Logger) *ChecklistService {
	if log == nil {
		log = logger.Nop()
	}
	return &ChecklistService{store: st, worksheet: worksheet, logger: log.With("worksheet", worksheet)}
}

// List 返回全部条目，未完成在前。旧数据缺少 ID 时会补发并写回。
func (s *ChecklistService) List(ctx context.Context) ([]sheet.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sheet.SortChecklist(items)
	return items, nil
}

// Add 新增未完成条目
func (s *ChecklistService) Add(ctx context.Context, task, tag string) (sheet.ChecklistItem, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return sheet.ChecklistItem{}, &scoring.ValidationError{Reason: "task is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return sheet.ChecklistItem{}, err
	}
	item := sheet.ChecklistItem{ID: uuid.NewString(), Task: task, Tag: strings.TrimSpace(tag)}
	if err := s.save(ctx, append(items, item)); err != nil {
		return sheet.ChecklistItem{}, err
	}
	s.logger.Info("checklist item added", "id", item.ID)
	return item, nil
}

// Toggle 切换条目的完成状态
func (s *ChecklistService) Toggle(ctx context.Context, id string) (sheet.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return sheet.ChecklistItem{}, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Done = !items[i].Done
		if err := s.save(ctx, items); err != nil {
			return sheet.ChecklistItem{}, err
		}
		return items[i], nil
	}
	return sheet.ChecklistItem{}, ErrChecklistItemNotFound
}

// Delete 删除条目
func (s *ChecklistService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]sheet.ChecklistItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return ErrChecklistItemNotFound
	}
	if err := s.save(ctx, kept); err != nil {
		return err
	}
	s.logger.Info("checklist item deleted", "id", id)
	return nil
}

func (s *ChecklistService) load(ctx context.Context) ([]sheet.ChecklistItem, error) {
	table, err := s.store.ReadAll(ctx, s.worksheet)
	if err != nil {
		return nil, fmt.Errorf("read checklist: %w", err)
	}
	items, assigned := sheet.DecodeChecklist(table)
	if assigned {
		// 补发的 ID 必须落盘，否则下次读取会得到不同的 ID
		if err := s.save(ctx, items); err != nil {
			s.logger.Warn("persist assigned checklist ids failed", "error", err)
		}
	}
	return items, nil
}

func (s *ChecklistService) save(ctx context.Context, items []sheet.ChecklistItem) error {
	if err := s.store.WriteAll(ctx, s.worksheet, sheet.EncodeChecklist(items)); err != nil {
		return fmt.Errorf("write checklist: %w", err)
	}
	return nil
}
