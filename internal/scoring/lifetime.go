package scoring

import "slices"

// LedgerStatus 标记某周奖池是否解锁
type LedgerStatus string

const (
	StatusWon    LedgerStatus = "won"
	StatusMissed LedgerStatus = "missed"
)

// LedgerEntry 为历史奖池台账中的一周
type LedgerEntry struct {
	Week       ISOWeek      `json:"week"`
	Percentage int          `json:"percentage"`
	Points     int          `json:"points"`
	Status     LedgerStatus `json:"status"`
}

// Lifetime 汇总终身经验值与历史奖池
type Lifetime struct {
	Occurrences   int           `json:"occurrences"`
	RawExperience int           `json:"raw_experience"`
	Jackpot       int           `json:"jackpot"`
	Score         int           `json:"score"`
	Ledger        []LedgerEntry `json:"ledger"`
}

// Lifetime 计算终身得分：全部打卡次数 * 单次经验 + 每个出现过的 ISO 周的奖池点数之和。
// 每周台账只依赖当周记录，新增其他周的记录不会改变已有条目。
func (e *Engine) Lifetime(records []Record) Lifetime {
	result := Lifetime{Ledger: make([]LedgerEntry, 0)}

	byWeek := make(map[ISOWeek][]Record)
	for _, record := range records {
		result.Occurrences += record.Sum()
		week := WeekOf(record.Date)
		byWeek[week] = append(byWeek[week], record)
	}
	result.RawExperience = result.Occurrences * e.cfg.XPPerOccurrence

	weeks := make([]ISOWeek, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	slices.SortFunc(weeks, ISOWeek.Compare)

	for _, week := range weeks {
		score := e.scoreWeek(byWeek[week], week)
		entry := LedgerEntry{
			Week:       week,
			Percentage: score.Percentage,
			Points:     score.RewardPoints,
			Status:     StatusMissed,
		}
		if score.Unlocked {
			entry.Status = StatusWon
		}
		result.Jackpot += entry.Points
		result.Ledger = append(result.Ledger, entry)
	}

	result.Score = result.RawExperience + result.Jackpot
	return result
}

// LifetimeScore 仅返回终身总分
func (e *Engine) LifetimeScore(records []Record) int {
	return e.Lifetime(records).Score
}
