package scoring

// Discipline 计算区间内所选每日习惯的完成百分比（向下取整）。
// 分母为已记录天数 * 习惯数，未记录的日子不计入。
func Discipline(records []Record, keys []string) int {
	if len(records) == 0 || len(keys) == 0 {
		return 0
	}
	done := 0
	for _, record := range records {
		done += record.Total(keys)
	}
	return 100 * done / (len(records) * len(keys))
}

// TargetStatus 描述某习惯在一周内相对目标次数的进度
type TargetStatus struct {
	Habit  string `json:"habit"`
	Count  int    `json:"count"`
	Target int    `json:"target"`
	Met    bool   `json:"met"`
}

// TargetProgress 统计习惯在指定 ISO 周内的次数是否达到目标
func TargetProgress(records []Record, week ISOWeek, habit string, target int) TargetStatus {
	status := TargetStatus{Habit: habit, Target: target}
	for _, record := range InWeek(records, week) {
		status.Count += record.Value(habit)
	}
	status.Met = target > 0 && status.Count >= target
	return status
}
