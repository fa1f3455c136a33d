package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeeklyHabitIsCappedAtOne(t *testing.T) {
	engine := NewEngine(testConfig())
	// 2025-01-06 ~ 2025-01-12 为 2025-W02
	records := []Record{
		rec("2025-01-06", "W"),
		rec("2025-01-07", "W"),
		rec("2025-01-08", "W"),
	}

	score := engine.WeeklyScore(records, ISOWeek{Year: 2025, Week: 2})

	assert.Equal(t, 1, score.Achieved)
	assert.Equal(t, 100, score.Possible)
	assert.Equal(t, 1, score.Percentage)
}

func TestWeeklyUnlockThresholdIsStrict(t *testing.T) {
	cfg := testConfig()
	cfg.HabitKeys = []string{"A", "B", "C", "W"}
	week := ISOWeek{Year: 2025, Week: 2}
	records := weekWithDailyPoints(18)

	// 18/36 = 50%
	cfg.WeeklyPointBudget = 36
	score := NewEngine(cfg).WeeklyScore(records, week)
	assert.Equal(t, 50, score.Percentage)
	assert.False(t, score.Unlocked)
	assert.Zero(t, score.RewardPoints)

	// 18/35 = 51.4% -> 51
	cfg.WeeklyPointBudget = 35
	score = NewEngine(cfg).WeeklyScore(records, week)
	assert.Equal(t, 51, score.Percentage)
	assert.True(t, score.Unlocked)
	assert.Equal(t, 51*cfg.RewardMultiplier, score.RewardPoints)
}

func TestWeeklyScoreUsesFixedBudget(t *testing.T) {
	cfg := DefaultConfig()
	engine := NewEngine(cfg)
	// 一整天全部完成：5 个每日习惯 + 每周习惯 1 分 = 6/36
	records := []Record{rec("2025-01-06", cfg.HabitKeys...)}

	score := engine.WeeklyScore(records, WeekOf(day("2025-01-06")))

	assert.Equal(t, 6, score.Achieved)
	assert.Equal(t, 36, score.Possible)
	assert.Equal(t, 16, score.Percentage)
	assert.False(t, score.Unlocked)
}

func TestWeeklyScoreIgnoresOtherWeeks(t *testing.T) {
	engine := NewEngine(testConfig())
	records := []Record{rec("2025-01-05", "A"), rec("2025-01-13", "A")}

	score := engine.WeeklyScore(records, ISOWeek{Year: 2025, Week: 2})

	assert.Zero(t, score.Achieved)
	assert.Zero(t, score.Percentage)
}

func TestWeeklyScoreZeroBudget(t *testing.T) {
	cfg := testConfig()
	cfg.WeeklyPointBudget = 0
	score := NewEngine(cfg).WeeklyScore([]Record{rec("2025-01-06", "A")}, ISOWeek{Year: 2025, Week: 2})
	assert.Zero(t, score.Percentage)
	assert.False(t, score.Unlocked)
}

// weekWithDailyPoints 在 2025-W02 内构造恰好 n 个每日习惯点数（n <= 21）
func weekWithDailyPoints(n int) []Record {
	dates := []string{"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10", "2025-01-11", "2025-01-12"}
	records := make([]Record, 0, len(dates))
	remaining := n
	for _, date := range dates {
		record := NewRecord(day(date))
		for _, key := range []string{"A", "B", "C"} {
			if remaining == 0 {
				break
			}
			record.SetHabit(key, true, "x")
			remaining--
		}
		records = append(records, record)
	}
	return records
}
