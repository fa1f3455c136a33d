package scoring

import "time"

func day(raw string) time.Time {
	t, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(date string, habits ...string) Record {
	record := NewRecord(day(date))
	for _, key := range habits {
		record.SetHabit(key, true, "done")
	}
	return record
}

func testConfig() Config {
	return Config{
		HabitKeys:         []string{"A", "B", "W"},
		WeeklyHabitKeys:   []string{"W"},
		WeeklyPointBudget: 100,
		RewardMultiplier:  10,
		XPPerOccurrence:   5,
		UnlockThreshold:   50,
	}
}
