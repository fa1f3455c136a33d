package sheet

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/growthlog/internal/scoring"
)

// 日程与清单工作表的列
const (
	ColumnTask = "Task"
	ColumnID   = "ID"
	ColumnTag  = "Tag"
	ColumnDone = "Done"
)

// ScheduleItem 为自由格式的日程条目
type ScheduleItem struct {
	Date time.Time
	Task string
}

// ChecklistItem 为待办清单条目
type ChecklistItem struct {
	ID   string
	Task string
	Tag  string
	Done bool
}

// DecodeSchedule 解析日程表，跳过日期或内容为空的行，结果按日期升序
func DecodeSchedule(table Table) []ScheduleItem {
	items := make([]ScheduleItem, 0, len(table.Rows))
	for _, row := range table.Rows {
		rawDate, _ := table.Cell(row, ColumnDate)
		date, ok := ParseDate(rawDate)
		if !ok {
			continue
		}
		task := text(table, row, ColumnTask)
		if task == "" {
			continue
		}
		items = append(items, ScheduleItem{Date: date, Task: task})
	}
	slices.SortStableFunc(items, func(a, b ScheduleItem) int {
		return a.Date.Compare(b.Date)
	})
	return items
}

// EncodeSchedule 写出日程表
func EncodeSchedule(items []ScheduleItem) Table {
	table := Table{Columns: []string{ColumnDate, ColumnTask}, Rows: make([]Row, 0, len(items))}
	for _, item := range items {
		table.Rows = append(table.Rows, Row{ColumnDate: scoring.DateKey(item.Date), ColumnTask: item.Task})
	}
	return table
}

// DecodeChecklist 解析清单表。缺少 ID 的旧行会补发 uuid，此时 assigned 为 true，调用方应写回。
func DecodeChecklist(table Table) (items []ChecklistItem, assigned bool) {
	items = make([]ChecklistItem, 0, len(table.Rows))
	for _, row := range table.Rows {
		task := text(table, row, ColumnTask)
		if task == "" {
			continue
		}
		done, _ := table.Cell(row, ColumnDone)
		item := ChecklistItem{
			ID:   text(table, row, ColumnID),
			Task: task,
			Tag:  text(table, row, ColumnTag),
			Done: scoring.Coerce(done) == 1,
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
			assigned = true
		}
		items = append(items, item)
	}
	return items, assigned
}

// EncodeChecklist 写出清单表，Done 以 0/1 表示
func EncodeChecklist(items []ChecklistItem) Table {
	table := Table{Columns: []string{ColumnID, ColumnTask, ColumnTag, ColumnDone}, Rows: make([]Row, 0, len(items))}
	for _, item := range items {
		done := 0
		if item.Done {
			done = 1
		}
		table.Rows = append(table.Rows, Row{ColumnID: item.ID, ColumnTask: item.Task, ColumnTag: item.Tag, ColumnDone: done})
	}
	return table
}

// SortChecklist 未完成在前，其次按标签、任务排序
func SortChecklist(items []ChecklistItem) {
	slices.SortStableFunc(items, func(a, b ChecklistItem) int {
		if a.Done != b.Done {
			if a.Done {
				return 1
			}
			return -1
		}
		if diff := cmp.Compare(a.Tag, b.Tag); diff != 0 {
			return diff
		}
		return cmp.Compare(a.Task, b.Task)
	})
}
