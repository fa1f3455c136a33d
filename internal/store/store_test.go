package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/growthlog/internal/config"
	"github.com/growthlog/internal/db"
	"github.com/growthlog/internal/sheet"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLStore(t *testing.T) *SQLStore {
	t.Helper()

	dsn := fmt.Sprintf("file:store-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return NewSQLStore(gdb)
}

func sampleTable() sheet.Table {
	return sheet.Table{
		Columns: []string{"Date", "Workout", "Workout_Detail"},
		Rows: []sheet.Row{
			{"Date": "2025-01-06", "Workout": 1, "Workout_Detail": "Legs"},
			{"Date": "2025-01-07", "Workout": 0, "Workout_Detail": ""},
		},
	}
}

func exerciseStore(t *testing.T, s TableStore) {
	t.Helper()
	ctx := context.Background()

	empty, err := s.ReadAll(ctx, "Logs")
	if err != nil {
		t.Fatalf("ReadAll on missing worksheet returned error: %v", err)
	}
	if !empty.Empty() {
		t.Fatalf("expected empty table, got %d rows", len(empty.Rows))
	}

	if err := s.WriteAll(ctx, "Logs", sampleTable()); err != nil {
		t.Fatalf("WriteAll returned error: %v", err)
	}

	got, err := s.ReadAll(ctx, "Logs")
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got.Rows))
	}
	if len(got.Columns) != 3 || got.Columns[0] != "Date" {
		t.Fatalf("unexpected columns: %v", got.Columns)
	}
	if got.Rows[0]["Workout_Detail"] != "Legs" {
		t.Fatalf("unexpected first row: %v", got.Rows[0])
	}

	// 整表覆盖，而非追加
	replacement := sheet.Table{Columns: []string{"Date"}, Rows: []sheet.Row{{"Date": "2025-02-01"}}}
	if err := s.WriteAll(ctx, "Logs", replacement); err != nil {
		t.Fatalf("WriteAll replacement returned error: %v", err)
	}
	got, err = s.ReadAll(ctx, "Logs")
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if len(got.Rows) != 1 || got.Rows[0]["Date"] != "2025-02-01" {
		t.Fatalf("expected replaced table, got %v", got.Rows)
	}

	// 工作表之间互不影响
	other, err := s.ReadAll(ctx, "Schedule")
	if err != nil {
		t.Fatalf("ReadAll other worksheet returned error: %v", err)
	}
	if !other.Empty() {
		t.Fatalf("expected other worksheet empty, got %v", other.Rows)
	}

	if _, err := s.ReadAll(ctx, " "); err == nil {
		t.Fatal("expected error for blank worksheet name")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLStore(t *testing.T) {
	exerciseStore(t, setupSQLStore(t))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	table := sampleTable()
	if err := s.WriteAll(ctx, "Logs", table); err != nil {
		t.Fatalf("WriteAll returned error: %v", err)
	}

	table.Rows[0]["Workout_Detail"] = "mutated"
	got, _ := s.ReadAll(ctx, "Logs")
	if got.Rows[0]["Workout_Detail"] != "Legs" {
		t.Fatal("expected stored table to be isolated from caller mutations")
	}
}

func TestMemoryStoreFailuresWrapUnavailable(t *testing.T) {
	s := NewMemoryStore()
	s.ReadErr = errors.New("quota exceeded")
	s.WriteErr = errors.New("quota exceeded")

	if _, err := s.ReadAll(context.Background(), "Logs"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := s.WriteAll(context.Background(), "Logs", sheet.Table{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSheetsValueConversion(t *testing.T) {
	values := [][]interface{}{
		{"Date", "Workout", "Workout_Detail"},
		{"2025-01-06", true, "Legs"},
		{"2025-01-07", false},
		{"", ""},
	}

	table := valuesToTable(values)
	if len(table.Rows) != 2 {
		t.Fatalf("expected blank row to be dropped, got %d rows", len(table.Rows))
	}
	if _, ok := table.Rows[1]["Workout_Detail"]; ok {
		t.Fatal("expected short row to leave missing cells absent")
	}

	out := tableToValues(table)
	if len(out) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(out))
	}
	if out[2][2] != "" {
		t.Fatalf("expected missing cell to be written as empty string, got %v", out[2][2])
	}
	if tableToValues(sheet.Table{}) != nil {
		t.Fatal("expected no values for table without columns")
	}
	if quoteSheetName("Bob's Log") != "'Bob''s Log'" {
		t.Fatalf("unexpected quoting: %s", quoteSheetName("Bob's Log"))
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	mem, closeMem, err := Open(ctx, config.AppConfig{StoreDriver: config.StoreMemory})
	if err != nil {
		t.Fatalf("Open(memory) returned error: %v", err)
	}
	defer closeMem()
	if _, ok := mem.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", mem)
	}

	dsn := fmt.Sprintf("file:open-%d?mode=memory&cache=shared", time.Now().UnixNano())
	sqlStore, closeSQL, err := Open(ctx, config.AppConfig{StoreDriver: config.StoreSQLite, DatabasePath: dsn})
	if err != nil {
		t.Fatalf("Open(sqlite) returned error: %v", err)
	}
	defer closeSQL()
	exerciseStore(t, sqlStore)

	if _, _, err := Open(ctx, config.AppConfig{StoreDriver: "mongo"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}
