package reference

import (
	"fmt"

	"calibreport/internal/model"
)

// Lookup 在参考表中线性查找首列等于 key 的第一行，返回与列标题对齐的属性（不含键列）
func Lookup(table *model.ReferenceTable, key string) (*model.AttributeRow, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: table is nil", model.ErrTableUnavailable)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", model.ErrNotFound)
	}

	for _, row := range table.Rows {
		if len(row) == 0 || row[0] != key {
			continue
		}
		return buildAttributeRow(table.Headers, row), nil
	}
	return nil, fmt.Errorf("%w: %q in sheet %q", model.ErrNotFound, key, table.Name)
}

// buildAttributeRow 按列标题对齐：行比表头短时补空值，比表头长的列没有标题，一并保留空标题交给报告层跳过
func buildAttributeRow(headers, row []string) *model.AttributeRow {
	width := len(headers)
	if len(row) > width {
		width = len(row)
	}

	out := &model.AttributeRow{
		Key:        row[0],
		Attributes: make([]model.Attribute, 0, width),
	}
	for i := 1; i < width; i++ {
		attr := model.Attribute{}
		if i < len(headers) {
			attr.Header = headers[i]
		}
		if i < len(row) {
			attr.Value = row[i]
		}
		out.Attributes = append(out.Attributes, attr)
	}
	return out
}
