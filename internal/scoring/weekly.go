package scoring

// WeeklyScore 为单个 ISO 周的计分结果
type WeeklyScore struct {
	Week         ISOWeek `json:"week"`
	Achieved     int     `json:"achieved"`
	Possible     int     `json:"possible"`
	Percentage   int     `json:"percentage"`
	RewardPoints int     `json:"reward_points"`
	Unlocked     bool    `json:"unlocked"`
}

// Engine 基于固定配置计算周得分与终身得分
type Engine struct {
	cfg Config
}

// NewEngine 构造评分引擎
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config 返回引擎使用的配置
func (e *Engine) Config() Config {
	return e.cfg
}

// WeeklyScore 计算任意 ISO 周的完成率与奖池点数。
// 每日习惯逐次计分；每周习惯当周出现过即计 1 分，不论次数。
// 满分取固定预算，不随当周实际天数变化，保证未满一周时口径稳定。
func (e *Engine) WeeklyScore(records []Record, week ISOWeek) WeeklyScore {
	return e.scoreWeek(InWeek(records, week), week)
}

func (e *Engine) scoreWeek(weekRecords []Record, week ISOWeek) WeeklyScore {
	score := WeeklyScore{Week: week, Possible: e.cfg.WeeklyPointBudget}

	daily := e.cfg.DailyHabitKeys()
	weeklySums := make(map[string]int, len(e.cfg.WeeklyHabitKeys))
	for _, record := range weekRecords {
		score.Achieved += record.Total(daily)
		for _, key := range e.cfg.WeeklyHabitKeys {
			weeklySums[key] += record.Value(key)
		}
	}
	for _, key := range e.cfg.WeeklyHabitKeys {
		if weeklySums[key] >= 1 {
			score.Achieved++
		}
	}

	if score.Possible > 0 {
		score.Percentage = 100 * score.Achieved / score.Possible
	}
	score.Unlocked = score.Percentage > e.cfg.UnlockThreshold
	if score.Unlocked {
		score.RewardPoints = score.Percentage * e.cfg.RewardMultiplier
	}
	return score
}
