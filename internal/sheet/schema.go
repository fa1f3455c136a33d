package sheet

import (
	"maps"

	"github.com/growthlog/internal/scoring"
)

// 固定列名
const (
	ColumnDate        = "Date"
	ColumnNextGoal    = "Next_Goal"
	ColumnReflection  = "Reflection"
	ColumnWeeklyRetro = "Weekly_Retro"
)

// HabitColumn 描述一个习惯在表格中的取值列与说明列
type HabitColumn struct {
	Key          string
	DetailColumn string
}

// Schema 是日志工作表的显式列结构，替代按列数推断字段
type Schema struct {
	habits []HabitColumn
}

// NewSchema 按习惯顺序构造列结构，DetailColumn 为空时使用 <Key>_Detail
func NewSchema(habits []HabitColumn) Schema {
	cols := make([]HabitColumn, 0, len(habits))
	for _, habit := range habits {
		if habit.DetailColumn == "" {
			habit.DetailColumn = habit.Key + "_Detail"
		}
		cols = append(cols, habit)
	}
	return Schema{habits: cols}
}

// DefaultSchema 与原始 Logs 工作表一致
func DefaultSchema() Schema {
	return NewSchema([]HabitColumn{
		{Key: scoring.HabitWorkout, DetailColumn: "Workout_Detail"},
		{Key: scoring.HabitCode, DetailColumn: "Code_Detail"},
		{Key: scoring.HabitRead, DetailColumn: "Read_Detail"},
		{Key: scoring.HabitNoJunk, DetailColumn: "Food_Detail"},
		{Key: scoring.HabitConnect, DetailColumn: "Connect_Detail"},
		{Key: scoring.HabitSideHustle, DetailColumn: "SideHustle_Detail"},
	})
}

// HabitKeys 返回习惯键顺序
func (s Schema) HabitKeys() []string {
	keys := make([]string, 0, len(s.habits))
	for _, habit := range s.habits {
		keys = append(keys, habit.Key)
	}
	return keys
}

// Columns 返回写出时使用的完整列顺序
func (s Schema) Columns() []string {
	cols := make([]string, 0, 1+2*len(s.habits)+3)
	cols = append(cols, ColumnDate)
	for _, habit := range s.habits {
		cols = append(cols, habit.Key, habit.DetailColumn)
	}
	return append(cols, ColumnNextGoal, ColumnReflection, ColumnWeeklyRetro)
}

// Decode 将表格解析为记录。
// 缺失列按 0/空串补齐；习惯值统一经过 Coerce；同一日期出现多次时以后出现的行为准。
// 日期无法解析的行原样放入 unparsed，写回时交给 Encode 保留。
func (s Schema) Decode(table Table) (records []scoring.Record, unparsed []Row) {
	records = make([]scoring.Record, 0, len(table.Rows))

	for _, row := range table.Rows {
		rawDate, _ := table.Cell(row, ColumnDate)
		date, ok := ParseDate(rawDate)
		if !ok {
			unparsed = append(unparsed, s.project(table, row))
			continue
		}

		record := scoring.NewRecord(date)
		for _, habit := range s.habits {
			value, _ := table.Cell(row, habit.Key)
			detail, _ := table.Cell(row, habit.DetailColumn)
			record.SetHabit(habit.Key, scoring.Coerce(value) == 1, Text(detail))
		}
		record.NextGoal = text(table, row, ColumnNextGoal)
		record.Reflection = text(table, row, ColumnReflection)
		record.WeeklyRetro = text(table, row, ColumnWeeklyRetro)
		records = append(records, record)
	}

	return scoring.Dedupe(records), unparsed
}

// Encode 将记录写为表格：每个日期一行，按日期升序，包含全部已知列。
// unparsed 中的行不做修改，追加在末尾。
func (s Schema) Encode(records []scoring.Record, unparsed ...Row) Table {
	deduped := scoring.Dedupe(records)
	table := Table{Columns: s.Columns(), Rows: make([]Row, 0, len(deduped)+len(unparsed))}

	for _, record := range deduped {
		row := Row{ColumnDate: record.Key()}
		for _, habit := range s.habits {
			row[habit.Key] = record.Value(habit.Key)
			row[habit.DetailColumn] = record.Detail(habit.Key)
		}
		row[ColumnNextGoal] = record.NextGoal
		row[ColumnReflection] = record.Reflection
		row[ColumnWeeklyRetro] = record.WeeklyRetro
		table.Rows = append(table.Rows, row)
	}
	for _, row := range unparsed {
		table.Rows = append(table.Rows, maps.Clone(row))
	}
	return table
}

// project 将原始行按本结构的列名重新取值，列名大小写差异在这里抹平
func (s Schema) project(table Table, row Row) Row {
	out := make(Row, len(s.Columns()))
	for _, column := range s.Columns() {
		if value, ok := table.Cell(row, column); ok {
			out[column] = value
		}
	}
	return out
}

func text(table Table, row Row, column string) string {
	value, _ := table.Cell(row, column)
	return Text(value)
}
