package scoring

import (
	"errors"
	"fmt"
	"slices"
)

// 默认习惯集合，与原始表格列保持一致
const (
	HabitWorkout    = "Workout"
	HabitCode       = "Code"
	HabitRead       = "Read"
	HabitNoJunk     = "NoJunk"
	HabitConnect    = "Connect"
	HabitSideHustle = "SideHustle"
)

// DefaultUnlockThreshold 周完成率严格大于该值才解锁奖池
const DefaultUnlockThreshold = 50

// Config 汇总评分引擎使用的可调参数
type Config struct {
	HabitKeys         []string       `json:"habit_keys"`
	WeeklyHabitKeys   []string       `json:"weekly_habit_keys"`
	WeeklyPointBudget int            `json:"weekly_point_budget"`
	RewardMultiplier  int            `json:"reward_multiplier"`
	XPPerOccurrence   int            `json:"xp_per_occurrence"`
	UnlockThreshold   int            `json:"unlock_threshold"`
	DisciplineKeys    []string       `json:"discipline_keys"`
	WeeklyTargets     map[string]int `json:"weekly_targets"`
}

// DefaultConfig 返回默认配置：五个每日习惯 + 一个每周习惯，满分 5*7+1
func DefaultConfig() Config {
	return Config{
		HabitKeys:         []string{HabitWorkout, HabitCode, HabitRead, HabitNoJunk, HabitConnect, HabitSideHustle},
		WeeklyHabitKeys:   []string{HabitSideHustle},
		WeeklyPointBudget: 5*7 + 1,
		RewardMultiplier:  10,
		XPPerOccurrence:   10,
		UnlockThreshold:   DefaultUnlockThreshold,
		DisciplineKeys:    []string{HabitWorkout, HabitCode},
		WeeklyTargets:     map[string]int{HabitConnect: 2},
	}
}

// HasHabit 判断习惯是否在配置中
func (c Config) HasHabit(key string) bool {
	return slices.Contains(c.HabitKeys, key)
}

// IsWeekly 判断习惯是否按周封顶计分
func (c Config) IsWeekly(key string) bool {
	return slices.Contains(c.WeeklyHabitKeys, key)
}

// DailyHabitKeys 返回按天计分的习惯，保持 HabitKeys 顺序
func (c Config) DailyHabitKeys() []string {
	keys := make([]string, 0, len(c.HabitKeys))
	for _, key := range c.HabitKeys {
		if !c.IsWeekly(key) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Validate 检查配置一致性
func (c Config) Validate() error {
	if len(c.HabitKeys) == 0 {
		return errors.New("habit keys are required")
	}
	seen := make(map[string]struct{}, len(c.HabitKeys))
	for _, key := range c.HabitKeys {
		if key == "" {
			return errors.New("habit key must not be empty")
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate habit key %s", key)
		}
		seen[key] = struct{}{}
	}
	for _, key := range c.WeeklyHabitKeys {
		if !c.HasHabit(key) {
			return fmt.Errorf("weekly habit %s is not a habit key", key)
		}
	}
	for _, key := range c.DisciplineKeys {
		if !c.HasHabit(key) {
			return fmt.Errorf("discipline habit %s is not a habit key", key)
		}
	}
	for key, target := range c.WeeklyTargets {
		if !c.HasHabit(key) {
			return fmt.Errorf("weekly target habit %s is not a habit key", key)
		}
		if target <= 0 {
			return fmt.Errorf("weekly target for %s must be positive", key)
		}
	}
	if c.WeeklyPointBudget <= 0 {
		return errors.New("weekly point budget must be positive")
	}
	if c.RewardMultiplier < 0 || c.XPPerOccurrence < 0 {
		return errors.New("reward multiplier and xp per occurrence must not be negative")
	}
	return nil
}
