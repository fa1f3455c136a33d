package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/growthlog/internal/config"
	"github.com/growthlog/internal/scoring"
)

// Dashboard 汇总首页展示所需的全部指标
type Dashboard struct {
	Today         string                 `json:"today"`
	LoggedToday   bool                   `json:"logged_today"`
	Streak        int                    `json:"streak"`
	LongestStreak int                    `json:"longest_streak"`
	Week          scoring.WeeklyScore    `json:"week"`
	Lifetime      scoring.Lifetime       `json:"lifetime"`
	Discipline    int                    `json:"discipline"`
	MonthCounts   map[string]int         `json:"month_counts"`
	Targets       []scoring.TargetStatus `json:"targets"`
	Focus         string                 `json:"focus"`
	TotalDays     int                    `json:"total_days"`
}

// ChartData 为趋势图数据，Points 已去除 0 值
type ChartData struct {
	GroupBy scoring.GroupBy  `json:"group_by"`
	Points  []scoring.Point  `json:"points"`
	Totals  []scoring.Bucket `json:"totals"`
}

// DashboardService 负责只读统计。
// 读取失败时按空表计算并连同错误一起返回，调用方可以继续展示降级结果。
type DashboardService struct {
	logs    *LogService
	engine  *scoring.Engine
	tracker config.Tracker
}

// NewDashboardService 构造 DashboardService
func NewDashboardService(logs *LogService, tracker config.Tracker) *DashboardService {
	return &DashboardService{
		logs:    logs,
		engine:  scoring.NewEngine(tracker.Scoring),
		tracker: tracker,
	}
}

// Engine 返回评分引擎
func (s *DashboardService) Engine() *scoring.Engine {
	return s.engine
}

// Build 计算 today 视角下的首页指标
func (s *DashboardService) Build(ctx context.Context, today time.Time) (Dashboard, error) {
	records, err := s.records(ctx)
	return s.build(records, today), err
}

func (s *DashboardService) build(records []scoring.Record, today time.Time) Dashboard {
	cfg := s.engine.Config()
	day := scoring.NormalizeDate(today)
	week := scoring.WeekOf(day)
	month := scoring.InMonth(records, day.Year(), day.Month())

	_, logged := scoring.Find(records, day)

	targets := make([]scoring.TargetStatus, 0, len(cfg.WeeklyTargets))
	habits := make([]string, 0, len(cfg.WeeklyTargets))
	for habit := range cfg.WeeklyTargets {
		habits = append(habits, habit)
	}
	slices.Sort(habits)
	for _, habit := range habits {
		targets = append(targets, scoring.TargetProgress(records, week, habit, cfg.WeeklyTargets[habit]))
	}

	return Dashboard{
		Today:         scoring.DateKey(day),
		LoggedToday:   logged,
		Streak:        scoring.Streak(records, day),
		LongestStreak: scoring.LongestStreak(records),
		Week:          s.engine.WeeklyScore(records, week),
		Lifetime:      s.engine.Lifetime(records),
		Discipline:    scoring.Discipline(month, cfg.DisciplineKeys),
		MonthCounts:   scoring.HabitCounts(month, cfg.HabitKeys),
		Targets:       targets,
		Focus:         s.tracker.Focus(int(day.Month())),
		TotalDays:     len(records),
	}
}

// WeeklyScore 计算任意一周的得分
func (s *DashboardService) WeeklyScore(ctx context.Context, week scoring.ISOWeek) (scoring.WeeklyScore, error) {
	records, err := s.records(ctx)
	return s.engine.WeeklyScore(records, week), err
}

// Ledger 返回历史周账本，按周升序
func (s *DashboardService) Ledger(ctx context.Context) (scoring.Lifetime, error) {
	records, err := s.records(ctx)
	return s.engine.Lifetime(records), err
}

// Chart 按粒度聚合所选习惯；habits 为空时使用全部习惯
func (s *DashboardService) Chart(ctx context.Context, groupBy scoring.GroupBy, habits []string) (ChartData, error) {
	keys, err := s.selectHabits(habits)
	if err != nil {
		return ChartData{GroupBy: groupBy, Points: []scoring.Point{}, Totals: []scoring.Bucket{}}, err
	}
	records, err := s.records(ctx)
	return ChartData{
		GroupBy: groupBy,
		Points:  scoring.Aggregate(records, groupBy, keys),
		Totals:  scoring.Totals(records, groupBy, keys),
	}, err
}

// Heatmap 返回按 ISO 周 × 星期排列的完成数矩阵
func (s *DashboardService) Heatmap(ctx context.Context) ([]scoring.HeatmapCell, error) {
	records, err := s.records(ctx)
	return scoring.Heatmap(records, s.engine.Config().HabitKeys), err
}

// Distribution 返回各习惯完成次数占比的原始计数
func (s *DashboardService) Distribution(ctx context.Context) ([]scoring.Point, error) {
	records, err := s.records(ctx)
	return scoring.Distribution(records, s.engine.Config().HabitKeys), err
}

func (s *DashboardService) records(ctx context.Context) ([]scoring.Record, error) {
	records, err := s.logs.Records(ctx)
	if err != nil {
		return []scoring.Record{}, err
	}
	return records, nil
}

func (s *DashboardService) selectHabits(habits []string) ([]string, error) {
	all := s.engine.Config().HabitKeys
	if len(habits) == 0 {
		return all, nil
	}
	for _, habit := range habits {
		if !slices.Contains(all, habit) {
			return nil, fmt.Errorf("%w: %s", scoring.ErrUnknownHabit, habit)
		}
	}
	// 保持配置中的习惯顺序
	keys := make([]string, 0, len(habits))
	for _, key := range all {
		if slices.Contains(habits, key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
