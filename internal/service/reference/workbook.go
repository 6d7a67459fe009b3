package reference

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"calibreport/internal/model"
)

// Source 参考表来源
type Source interface {
	Table(ctx context.Context) (*model.ReferenceTable, error)
}

// WorkbookSource 从 xlsx 工作簿的某个工作表读取参考表；每次调用重新加载，以便使用者在两次选择之间替换文件
type WorkbookSource struct {
	Path  string
	Sheet string // 为空时使用活动工作表
}

// NewWorkbookSource 创建工作簿来源
func NewWorkbookSource(path, sheet string) *WorkbookSource {
	return &WorkbookSource{Path: path, Sheet: sheet}
}

// Table 加载参考表
func (s *WorkbookSource) Table(ctx context.Context) (*model.ReferenceTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := openWorkbook(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	return readTable(f, sheet, false)
}

// LookupIn 从来源加载参考表后查找
func LookupIn(ctx context.Context, src Source, key string) (*model.AttributeRow, error) {
	table, err := src.Table(ctx)
	if err != nil {
		return nil, err
	}
	return Lookup(table, key)
}

// LoadWorkbook 加载工作簿中的全部工作表（按工作表名索引），跳过首列为空的行
func LoadWorkbook(path string) (map[string]*model.ReferenceTable, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tables := make(map[string]*model.ReferenceTable)
	for _, name := range f.GetSheetList() {
		table, err := readTable(f, name, true)
		if err != nil {
			return nil, err
		}
		tables[name] = table
	}
	return tables, nil
}

// SheetNames 工作表列表（用于界面展示可用分类）
func SheetNames(path string) ([]string, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func openWorkbook(path string) (*excelize.File, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: workbook path is empty", model.ErrTableUnavailable)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: 找不到文件 %s", model.ErrTableUnavailable, path)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrTableUnavailable, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: 无法打开 %s: %v", model.ErrTableUnavailable, path, err)
	}
	return f, nil
}

func readTable(f *excelize.File, sheet string, skipBlankKeys bool) (*model.ReferenceTable, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", model.ErrTableUnavailable, sheet, err)
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: 工作表 %q 不存在", model.ErrTableUnavailable, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", model.ErrTableUnavailable, sheet, err)
	}

	table := &model.ReferenceTable{Name: sheet}
	if len(rows) == 0 {
		return table, nil
	}
	table.Headers = rows[0]
	for _, row := range rows[1:] {
		if skipBlankKeys && (len(row) == 0 || row[0] == "") {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
