package scoring

import "time"

// Streak 计算截至今天的连续活跃天数。
// 今天尚未打卡时从昨天开始回溯，避免进行中的连胜被清零。
func Streak(records []Record, today time.Time) int {
	active := activeDates(records)
	if len(active) == 0 {
		return 0
	}

	cursor := NormalizeDate(today)
	if _, ok := active[DateKey(cursor)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := active[DateKey(cursor)]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak 返回历史上最长的连续活跃天数
func LongestStreak(records []Record) int {
	active := make([]Record, 0, len(records))
	for _, record := range Dedupe(records) {
		if record.Active() {
			active = append(active, record)
		}
	}
	if len(active) == 0 {
		return 0
	}

	longest, current := 1, 1
	for i := 1; i < len(active); i++ {
		if DateKey(active[i-1].Date.AddDate(0, 0, 1)) == active[i].Key() {
			current++
			if current > longest {
				longest = current
			}
			continue
		}
		current = 1
	}
	return longest
}

func activeDates(records []Record) map[string]struct{} {
	active := make(map[string]struct{}, len(records))
	for _, record := range records {
		if record.Active() {
			active[record.Key()] = struct{}{}
		}
	}
	return active
}
