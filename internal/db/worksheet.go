package db

import (
	"time"

	"gorm.io/datatypes"
)

// Worksheet 记录工作表的列顺序，表名唯一
type Worksheet struct {
	Name      string `gorm:"primaryKey"`
	Columns   datatypes.JSONSlice[string]
	UpdatedAt time.Time
}

// WorksheetRow 存储工作表中的一行原始单元格
// Worksheet + Position 采用唯一索引，整表写入时先删后插
type WorksheetRow struct {
	ID        uint   `gorm:"primaryKey"`
	Worksheet string `gorm:"index:idx_worksheet_position,unique"`
	Position  int    `gorm:"index:idx_worksheet_position,unique"`
	Cells     datatypes.JSONMap
	CreatedAt time.Time
}

// TableName 重写确保唯一索引作用到 worksheet + position
func (WorksheetRow) TableName() string {
	return "worksheet_rows"
}
