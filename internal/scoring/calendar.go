package scoring

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// GroupBy 指定图表的时间分桶粒度
type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

// WeekdayNames 热力图固定使用周一到周日的列顺序
var WeekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ParseGroupBy 解析分桶参数，空值默认按天
func ParseGroupBy(raw string) (GroupBy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "day", "daily":
		return GroupByDay, nil
	case "week", "weekly", "isoweek":
		return GroupByWeek, nil
	case "month", "monthly":
		return GroupByMonth, nil
	default:
		return "", fmt.Errorf("unsupported group by %q", raw)
	}
}

// BucketKey 返回日期在指定粒度下的分桶键，键按字典序即按时间排序
func BucketKey(t time.Time, groupBy GroupBy) string {
	switch groupBy {
	case GroupByWeek:
		return WeekOf(t).String()
	case GroupByMonth:
		return t.Format("2006-01")
	default:
		return DateKey(t)
	}
}

// Point 为图表中的单个数据点
type Point struct {
	Bucket string `json:"bucket"`
	Habit  string `json:"habit"`
	Count  int    `json:"count"`
}

// Bucket 为单个时间桶内所选习惯的合计
type Bucket struct {
	Key   string `json:"key"`
	Total int    `json:"total"`
}

// HeatmapCell 为热力图矩阵中的一格
type HeatmapCell struct {
	Week  string `json:"week"`
	Day   string `json:"day"`
	Total int    `json:"total"`
}

// Aggregate 按分桶与习惯统计次数，丢弃为 0 的点。
// 结果按分桶键升序，同一分桶内按 habitKeys 顺序。
func Aggregate(records []Record, groupBy GroupBy, habitKeys []string) []Point {
	counts := make(map[string]map[string]int)
	for _, record := range records {
		key := BucketKey(record.Date, groupBy)
		if counts[key] == nil {
			counts[key] = make(map[string]int, len(habitKeys))
		}
		for _, habit := range habitKeys {
			counts[key][habit] += record.Value(habit)
		}
	}

	points := make([]Point, 0)
	for _, bucket := range sortedKeys(counts) {
		for _, habit := range habitKeys {
			if count := counts[bucket][habit]; count > 0 {
				points = append(points, Point{Bucket: bucket, Habit: habit, Count: count})
			}
		}
	}
	return points
}

// Totals 按分桶汇总所选习惯的总分，丢弃总分为 0 的桶
func Totals(records []Record, groupBy GroupBy, habitKeys []string) []Bucket {
	totals := make(map[string]int)
	for _, record := range records {
		totals[BucketKey(record.Date, groupBy)] += record.Total(habitKeys)
	}

	buckets := make([]Bucket, 0, len(totals))
	for key, total := range totals {
		if total > 0 {
			buckets = append(buckets, Bucket{Key: key, Total: total})
		}
	}
	slices.SortFunc(buckets, func(a, b Bucket) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return buckets
}

// Heatmap 生成 (ISO 周, 星期) -> 总分 的矩阵。
// 出现过记录的每一周都会输出完整的 7 格，未打卡的日子为 0，保证布局稳定。
func Heatmap(records []Record, habitKeys []string) []HeatmapCell {
	grid := make(map[ISOWeek][7]int)
	for _, record := range records {
		week := WeekOf(record.Date)
		row := grid[week]
		row[weekdayIndex(record.Date)] += record.Total(habitKeys)
		grid[week] = row
	}

	weeks := make([]ISOWeek, 0, len(grid))
	for week := range grid {
		weeks = append(weeks, week)
	}
	slices.SortFunc(weeks, ISOWeek.Compare)

	cells := make([]HeatmapCell, 0, len(weeks)*7)
	for _, week := range weeks {
		row := grid[week]
		for i, day := range WeekdayNames {
			cells = append(cells, HeatmapCell{Week: week.String(), Day: day, Total: row[i]})
		}
	}
	return cells
}

// Distribution 统计每个习惯的累计次数，用于投入分布饼图
func Distribution(records []Record, habitKeys []string) []Point {
	points := make([]Point, 0, len(habitKeys))
	for _, habit := range habitKeys {
		count := 0
		for _, record := range records {
			count += record.Value(habit)
		}
		if count > 0 {
			points = append(points, Point{Habit: habit, Count: count})
		}
	}
	return points
}

// HabitCounts 返回每个习惯的累计次数（含 0）
func HabitCounts(records []Record, habitKeys []string) map[string]int {
	counts := make(map[string]int, len(habitKeys))
	for _, habit := range habitKeys {
		counts[habit] = 0
	}
	for _, record := range records {
		for _, habit := range habitKeys {
			counts[habit] += record.Value(habit)
		}
	}
	return counts
}

func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
