package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/growthlog/internal/scoring"
	"github.com/growthlog/internal/sheet"
)

// HabitDef 描述一个习惯的表格列与界面文案
type HabitDef struct {
	Key          string `yaml:"key" json:"key"`
	Label        string `yaml:"label" json:"label"`
	DetailColumn string `yaml:"detail_column" json:"detail_column"`
	Prompt       string `yaml:"prompt" json:"prompt"`
	Weekly       bool   `yaml:"weekly" json:"weekly"`
}

// TrackerFile 对应 TRACKER_CONFIG 指向的 YAML 文件，未填写的项使用默认值
type TrackerFile struct {
	Habits            []HabitDef     `yaml:"habits"`
	WeeklyPointBudget int            `yaml:"weekly_point_budget"`
	RewardMultiplier  *int           `yaml:"reward_multiplier"`
	XPPerOccurrence   *int           `yaml:"xp_per_occurrence"`
	UnlockThreshold   *int           `yaml:"unlock_threshold"`
	DisciplineHabits  []string       `yaml:"discipline_habits"`
	WeeklyTargets     map[string]int `yaml:"weekly_targets"`
	Roadmap           map[int]string `yaml:"roadmap"`
}

// Tracker 为解析并补齐默认值后的追踪配置
type Tracker struct {
	Habits  []HabitDef
	Scoring scoring.Config
	Roadmap map[int]string
}

var defaultHabits = []HabitDef{
	{Key: scoring.HabitWorkout, Label: "💪 Workout", DetailColumn: "Workout_Detail", Prompt: "Exercise done?"},
	{Key: scoring.HabitCode, Label: "💻 Code/AI", DetailColumn: "Code_Detail", Prompt: "Topic studied?"},
	{Key: scoring.HabitRead, Label: "📚 Read", DetailColumn: "Read_Detail", Prompt: "Book & Pages?"},
	{Key: scoring.HabitNoJunk, Label: "🥦 Clean Eat", DetailColumn: "Food_Detail", Prompt: "What did you eat?"},
	{Key: scoring.HabitConnect, Label: "❤️ Connect", DetailColumn: "Connect_Detail", Prompt: "Who?"},
	{Key: scoring.HabitSideHustle, Label: "🎥 YouTube", DetailColumn: "SideHustle_Detail", Prompt: "Progress?", Weekly: true},
}

var defaultRoadmap = map[int]string{
	1: "Jan: Python Basics & OOP", 2: "Feb: Automation Framework",
	3: "Mar: API Testing & Reporting", 4: "Apr: LangChain & RAG",
	5: "May: RAG Project", 6: "Jun: LLM Evaluation",
	7: "Jul: AI Testing Framework", 8: "Aug: Dataset Creation",
	9: "Sep: Fine-tuning Basics", 10: "Oct: AI Agents",
	11: "Nov: Optimization", 12: "Dec: Capstone Project",
}

// DefaultTracker 返回内置的六习惯配置
func DefaultTracker() Tracker {
	tracker, err := TrackerFile{}.Resolve()
	if err != nil {
		panic(err)
	}
	return tracker
}

// LoadTracker 读取 YAML 追踪配置；path 为空时返回默认配置
func LoadTracker(path string) (Tracker, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultTracker(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Tracker{}, fmt.Errorf("read tracker config: %w", err)
	}

	var file TrackerFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return Tracker{}, fmt.Errorf("parse tracker config: %w", err)
	}
	return file.Resolve()
}

// ApplyDefaults 为缺失项补齐默认值
func (f *TrackerFile) ApplyDefaults() {
	if len(f.Habits) == 0 {
		f.Habits = append([]HabitDef(nil), defaultHabits...)
	}
	for i := range f.Habits {
		habit := &f.Habits[i]
		habit.Key = strings.TrimSpace(habit.Key)
		if habit.Label == "" {
			habit.Label = habit.Key
		}
		if habit.DetailColumn == "" {
			habit.DetailColumn = habit.Key + "_Detail"
		}
	}
	if f.WeeklyPointBudget == 0 {
		f.WeeklyPointBudget = derivedBudget(f.Habits)
	}
	if f.RewardMultiplier == nil {
		f.RewardMultiplier = intPtr(10)
	}
	if f.XPPerOccurrence == nil {
		f.XPPerOccurrence = intPtr(10)
	}
	if f.UnlockThreshold == nil {
		f.UnlockThreshold = intPtr(scoring.DefaultUnlockThreshold)
	}
	if f.DisciplineHabits == nil {
		f.DisciplineHabits = defaultDiscipline(f.Habits)
	}
	if f.WeeklyTargets == nil {
		f.WeeklyTargets = defaultTargets(f.Habits)
	}
	if f.Roadmap == nil {
		f.Roadmap = make(map[int]string, len(defaultRoadmap))
		for month, focus := range defaultRoadmap {
			f.Roadmap[month] = focus
		}
	}
}

// Resolve 补齐默认值并转换为评分配置
func (f TrackerFile) Resolve() (Tracker, error) {
	f.ApplyDefaults()

	cfg := scoring.Config{
		WeeklyPointBudget: f.WeeklyPointBudget,
		RewardMultiplier:  *f.RewardMultiplier,
		XPPerOccurrence:   *f.XPPerOccurrence,
		UnlockThreshold:   *f.UnlockThreshold,
		DisciplineKeys:    f.DisciplineHabits,
		WeeklyTargets:     f.WeeklyTargets,
	}
	for _, habit := range f.Habits {
		cfg.HabitKeys = append(cfg.HabitKeys, habit.Key)
		if habit.Weekly {
			cfg.WeeklyHabitKeys = append(cfg.WeeklyHabitKeys, habit.Key)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Tracker{}, fmt.Errorf("invalid tracker config: %w", err)
	}

	return Tracker{Habits: f.Habits, Scoring: cfg, Roadmap: f.Roadmap}, nil
}

// Schema 返回日志工作表的列结构
func (t Tracker) Schema() sheet.Schema {
	cols := make([]sheet.HabitColumn, 0, len(t.Habits))
	for _, habit := range t.Habits {
		cols = append(cols, sheet.HabitColumn{Key: habit.Key, DetailColumn: habit.DetailColumn})
	}
	return sheet.NewSchema(cols)
}

// Focus 返回某月的路线图重点
func (t Tracker) Focus(month int) string {
	return t.Roadmap[month]
}

// 每日习惯每天一分，每周习惯每周一分
func derivedBudget(habits []HabitDef) int {
	budget := 0
	for _, habit := range habits {
		if habit.Weekly {
			budget++
		} else {
			budget += 7
		}
	}
	return budget
}

func defaultDiscipline(habits []HabitDef) []string {
	keys := make([]string, 0, 2)
	for _, habit := range habits {
		if habit.Key == scoring.HabitWorkout || habit.Key == scoring.HabitCode {
			keys = append(keys, habit.Key)
		}
	}
	return keys
}

func defaultTargets(habits []HabitDef) map[string]int {
	targets := make(map[string]int)
	for _, habit := range habits {
		if habit.Key == scoring.HabitConnect {
			targets[habit.Key] = 2
		}
	}
	return targets
}

func intPtr(v int) *int {
	return &v
}
