package scoring

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"time"
)

// DateLayout 为记录日期的统一格式，同时也是按天分桶的键
const DateLayout = "2006-01-02"

// Record 表示一天的习惯打卡记录，日期唯一。
// Habits 中的值在入库解析后恒为 0/1；Details 与习惯一一对应，可为空。
// NextGoal/Reflection/WeeklyRetro 与评分无关，缺失时为空串。
type Record struct {
	Date        time.Time
	Habits      map[string]int
	Details     map[string]string
	NextGoal    string
	Reflection  string
	WeeklyRetro string
}

// NewRecord 构造指定日期的空记录
func NewRecord(date time.Time) Record {
	return Record{
		Date:    NormalizeDate(date),
		Habits:  make(map[string]int),
		Details: make(map[string]string),
	}
}

// Value 返回习惯值，缺失视为 0
func (r Record) Value(key string) int {
	if r.Habits[key] > 0 {
		return 1
	}
	return 0
}

// Detail 返回习惯对应的文字说明
func (r Record) Detail(key string) string {
	return r.Details[key]
}

// SetHabit 写入单个习惯及其说明
func (r *Record) SetHabit(key string, done bool, detail string) {
	if r.Habits == nil {
		r.Habits = make(map[string]int)
	}
	if r.Details == nil {
		r.Details = make(map[string]string)
	}
	r.Habits[key] = boolToInt(done)
	r.Details[key] = detail
}

// Total 返回所选习惯的合计值
func (r Record) Total(keys []string) int {
	total := 0
	for _, key := range keys {
		total += r.Value(key)
	}
	return total
}

// Sum 返回该日全部习惯的合计值
func (r Record) Sum() int {
	total := 0
	for key := range r.Habits {
		total += r.Value(key)
	}
	return total
}

// Active 当天至少完成一个习惯
func (r Record) Active() bool {
	return r.Sum() > 0
}

// Key 返回记录的日期键
func (r Record) Key() string {
	return DateKey(r.Date)
}

// Clone 深拷贝记录，避免共享 map
func (r Record) Clone() Record {
	out := r
	out.Habits = make(map[string]int, len(r.Habits))
	for k, v := range r.Habits {
		out.Habits[k] = v
	}
	out.Details = make(map[string]string, len(r.Details))
	for k, v := range r.Details {
		out.Details[k] = v
	}
	return out
}

// Dedupe 保证每个日期只保留一条记录，后出现者覆盖先出现者，结果按日期升序。
func Dedupe(records []Record) []Record {
	byDate := make(map[string]Record, len(records))
	for _, record := range records {
		byDate[record.Key()] = record
	}

	out := make([]Record, 0, len(byDate))
	for _, record := range byDate {
		out = append(out, record)
	}
	SortByDate(out)
	return out
}

// SortByDate 按日期升序排序
func SortByDate(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		return a.Date.Compare(b.Date)
	})
}

// Find 返回指定日期的记录
func Find(records []Record, date time.Time) (Record, bool) {
	key := DateKey(date)
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Key() == key {
			return records[i], true
		}
	}
	return Record{}, false
}

// Upsert 以日期为键替换或追加记录，返回新切片
func Upsert(records []Record, record Record) []Record {
	key := record.Key()
	out := make([]Record, 0, len(records)+1)
	for _, existing := range records {
		if existing.Key() == key {
			continue
		}
		out = append(out, existing)
	}
	out = append(out, record)
	SortByDate(out)
	return out
}

// NormalizeDate 截断到日期，统一落在 UTC 零点，便于作为 map 键比较
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey 返回 2006-01-02 形式的日期键
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate 解析 2006-01-02 形式的日期
func ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

// ISOWeek 以 ISO-8601 规则标识一周（包含当年第一个周四的那周为第 1 周）
type ISOWeek struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// WeekOf 返回日期所在的 ISO 周
func WeekOf(t time.Time) ISOWeek {
	year, week := t.ISOWeek()
	return ISOWeek{Year: year, Week: week}
}

// String 返回形如 2025-W01 的周键
func (w ISOWeek) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

// Compare 按年、周比较
func (w ISOWeek) Compare(other ISOWeek) int {
	if diff := cmp.Compare(w.Year, other.Year); diff != 0 {
		return diff
	}
	return cmp.Compare(w.Week, other.Week)
}

// Monday 返回该周周一
func (w ISOWeek) Monday() time.Time {
	// 1 月 4 日必然落在第 1 周
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := int(jan4.Weekday())
	if offset == 0 {
		offset = 7
	}
	firstMonday := jan4.AddDate(0, 0, 1-offset)
	return firstMonday.AddDate(0, 0, (w.Week-1)*7)
}

var isoWeekPattern = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

// ParseISOWeek 解析 2025-W01 形式的周键
func ParseISOWeek(raw string) (ISOWeek, error) {
	m := isoWeekPattern.FindStringSubmatch(raw)
	if m == nil {
		return ISOWeek{}, fmt.Errorf("parse iso week %q: expected YYYY-Www", raw)
	}
	year, _ := strconv.Atoi(m[1])
	num, _ := strconv.Atoi(m[2])
	week := ISOWeek{Year: year, Week: num}
	if week.Week < 1 || week.Week > 53 {
		return ISOWeek{}, fmt.Errorf("parse iso week %q: week out of range", raw)
	}
	// 校验 W53 是否真实存在
	if WeekOf(week.Monday()) != week {
		return ISOWeek{}, fmt.Errorf("parse iso week %q: no such week", raw)
	}
	return week, nil
}

// InWeek 过滤出指定 ISO 周内的记录
func InWeek(records []Record, week ISOWeek) []Record {
	out := make([]Record, 0)
	for _, record := range records {
		if WeekOf(record.Date) == week {
			out = append(out, record)
		}
	}
	return out
}

// InMonth 过滤出指定年月内的记录
func InMonth(records []Record, year int, month time.Month) []Record {
	out := make([]Record, 0)
	for _, record := range records {
		if record.Date.Year() == year && record.Date.Month() == month {
			out = append(out, record)
		}
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
