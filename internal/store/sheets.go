package store

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/growthlog/internal/sheet"
)

// SheetsStore 以 Google 表格为后端，第一行为表头
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsStore 使用服务账号凭据文件连接表格；文件为空时使用默认凭据
func NewSheetsStore(ctx context.Context, spreadsheetID, credentialsFile string) (*SheetsStore, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if path := strings.TrimSpace(credentialsFile); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	return newSheetsStore(ctx, spreadsheetID, opts...)
}

func newSheetsStore(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsStore, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, fmt.Errorf("missing spreadsheet id")
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// ReadAll 读取整张工作表，数值与布尔保持原始类型交给上层转换
func (s *SheetsStore) ReadAll(ctx context.Context, worksheet string) (sheet.Table, error) {
	if err := validWorksheet(worksheet); err != nil {
		return sheet.Table{}, err
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheetName(worksheet)).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return sheet.Table{}, unavailable("read", worksheet, err)
	}
	return valuesToTable(resp.Values), nil
}

// WriteAll 从 A1 覆盖写入表头与全部数据，成功后再清除新数据范围之外的旧单元格。
// 写入失败时原有内容保持不变。
func (s *SheetsStore) WriteAll(ctx context.Context, worksheet string, table sheet.Table) error {
	if err := validWorksheet(worksheet); err != nil {
		return err
	}

	name := quoteSheetName(worksheet)
	values := tableToValues(table)
	if len(values) > 0 {
		if _, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, name+"!A1", &sheets.ValueRange{Values: values}).
			ValueInputOption("RAW").
			Context(ctx).
			Do(); err != nil {
			return unavailable("write", worksheet, err)
		}
	}

	ranges := staleRanges(name, len(values), len(table.Columns))
	if _, err := s.svc.Spreadsheets.Values.BatchClear(s.spreadsheetID, &sheets.BatchClearValuesRequest{Ranges: ranges}).
		Context(ctx).
		Do(); err != nil {
		return unavailable("clear", worksheet, err)
	}
	return nil
}

// 表格最大列为 ZZZ
const lastColumn = "ZZZ"

// staleRanges 返回新数据之下与之右的区域，没有数据时即整张表
func staleRanges(name string, rows, columns int) []string {
	if rows == 0 || columns == 0 {
		return []string{name}
	}
	return []string{
		fmt.Sprintf("%s!A%d:%s", name, rows+1, lastColumn),
		fmt.Sprintf("%s!%s1:%s", name, columnLetter(columns+1), lastColumn),
	}
}

// columnLetter 将 1 起始的列号转换为 A、Z、AA 形式
func columnLetter(n int) string {
	var letters []byte
	for n > 0 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n /= 26
	}
	return string(letters)
}

func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func valuesToTable(values [][]interface{}) sheet.Table {
	table := sheet.Table{Rows: make([]sheet.Row, 0)}
	if len(values) == 0 {
		return table
	}

	for _, cell := range values[0] {
		table.Columns = append(table.Columns, strings.TrimSpace(fmt.Sprint(cell)))
	}

	for _, raw := range values[1:] {
		row := make(sheet.Row, len(table.Columns))
		blank := true
		for i, column := range table.Columns {
			if column == "" || i >= len(raw) {
				continue
			}
			row[column] = raw[i]
			if sheet.Text(raw[i]) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func tableToValues(table sheet.Table) [][]interface{} {
	if len(table.Columns) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(table.Rows)+1)
	header := make([]interface{}, 0, len(table.Columns))
	for _, column := range table.Columns {
		header = append(header, column)
	}
	values = append(values, header)

	for _, row := range table.Rows {
		line := make([]interface{}, 0, len(table.Columns))
		for _, column := range table.Columns {
			value, ok := row[column]
			if !ok || value == nil {
				value = ""
			}
			line = append(line, value)
		}
		values = append(values, line)
	}
	return values
}
