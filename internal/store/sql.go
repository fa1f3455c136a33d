package store

import (
	"context"
	"errors"

	"github.com/growthlog/internal/db"
	"github.com/growthlog/internal/sheet"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sqlInsertBatchSize = 200

// SQLStore 将工作表存入 sqlite/postgres，每行单元格以 JSON 保存
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore 构造 SQLStore，调用方需已完成迁移
func NewSQLStore(gdb *gorm.DB) *SQLStore {
	return &SQLStore{db: gdb}
}

// ReadAll 按 position 顺序读出整张工作表
func (s *SQLStore) ReadAll(ctx context.Context, worksheet string) (sheet.Table, error) {
	if err := validWorksheet(worksheet); err != nil {
		return sheet.Table{}, err
	}

	tx := s.db.WithContext(ctx)

	var meta db.Worksheet
	table := sheet.Table{Rows: make([]sheet.Row, 0)}
	if err := tx.Where("name = ?", worksheet).First(&meta).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return sheet.Table{}, unavailable("read", worksheet, err)
		}
	} else {
		table.Columns = append([]string(nil), meta.Columns...)
	}

	var rows []db.WorksheetRow
	if err := tx.Where("worksheet = ?", worksheet).Order("position ASC").Find(&rows).Error; err != nil {
		return sheet.Table{}, unavailable("read", worksheet, err)
	}

	for _, row := range rows {
		cells := sheet.Row(row.Cells)
		if cells == nil {
			cells = sheet.Row{}
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

// WriteAll 在事务内删除旧行并插入新行，列顺序同步更新
func (s *SQLStore) WriteAll(ctx context.Context, worksheet string, table sheet.Table) error {
	if err := validWorksheet(worksheet); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meta := db.Worksheet{Name: worksheet, Columns: datatypes.JSONSlice[string](table.Columns)}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"columns", "updated_at"}),
		}).Create(&meta).Error; err != nil {
			return err
		}

		if err := tx.Where("worksheet = ?", worksheet).Delete(&db.WorksheetRow{}).Error; err != nil {
			return err
		}

		if len(table.Rows) == 0 {
			return nil
		}

		rows := make([]db.WorksheetRow, 0, len(table.Rows))
		for i, row := range table.Rows {
			rows = append(rows, db.WorksheetRow{
				Worksheet: worksheet,
				Position:  i,
				Cells:     datatypes.JSONMap(row),
			})
		}
		return tx.CreateInBatches(&rows, sqlInsertBatchSize).Error
	})
	if err != nil {
		return unavailable("write", worksheet, err)
	}
	return nil
}
