package excel

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"calibreport/internal/model"
)

// ReportSheet 报告工作表名
const ReportSheet = "报告"

// 报告工作表的列：A 为正文（富文本），B/C/D 为隐藏的块元数据
const (
	colText       = "A"
	colKind       = "B"
	colAlign      = "C"
	colSpaceAfter = "D"
)

// pointsPerLine 行高估算：每行文字按 15 磅计
const pointsPerLine = 15.0

// ReportWriter 把报告文档写入工作簿：每个内容块一行，保留粗体/字体/字号与对齐
type ReportWriter struct {
	wb     *excelize.File
	styles map[model.Alignment]int
}

// NewReportWriter 创建写入器（新建工作簿）
func NewReportWriter() (*ReportWriter, error) {
	wb := excelize.NewFile()
	if err := wb.SetSheetName("Sheet1", ReportSheet); err != nil {
		return nil, err
	}
	if err := wb.SetColWidth(ReportSheet, colText, colText, 80); err != nil {
		return nil, err
	}
	if err := wb.SetColVisible(ReportSheet, colKind+":"+colSpaceAfter, false); err != nil {
		return nil, err
	}
	return &ReportWriter{wb: wb, styles: make(map[model.Alignment]int)}, nil
}

// Workbook 返回工作簿（调用方负责 Close）
func (w *ReportWriter) Workbook() *excelize.File {
	return w.wb
}

// WriteBlock 在第 row 行写入一个内容块
func (w *ReportWriter) WriteBlock(row int, b model.Block) error {
	textCell := fmt.Sprintf("%s%d", colText, row)

	runs := make([]excelize.RichTextRun, 0, len(b.Runs))
	for _, r := range b.Runs {
		if r.Text == "" {
			continue
		}
		runs = append(runs, excelize.RichTextRun{Text: r.Text, Font: runFont(r)})
	}
	if len(runs) > 0 {
		if err := w.wb.SetCellRichText(ReportSheet, textCell, runs); err != nil {
			return fmt.Errorf("write block %d text: %w", row, err)
		}
	}

	if err := w.wb.SetCellValue(ReportSheet, fmt.Sprintf("%s%d", colKind, row), string(b.Kind)); err != nil {
		return err
	}
	if err := w.wb.SetCellValue(ReportSheet, fmt.Sprintf("%s%d", colAlign, row), string(b.Align)); err != nil {
		return err
	}
	if err := w.wb.SetCellValue(ReportSheet, fmt.Sprintf("%s%d", colSpaceAfter, row), b.SpaceAfter); err != nil {
		return err
	}

	style, err := w.alignStyle(b.Align)
	if err != nil {
		return err
	}
	if err := w.wb.SetCellStyle(ReportSheet, textCell, textCell, style); err != nil {
		return err
	}
	return w.wb.SetRowHeight(ReportSheet, row, rowHeight(b))
}

// alignStyle 按对齐方式缓存样式
func (w *ReportWriter) alignStyle(align model.Alignment) (int, error) {
	if id, ok := w.styles[align]; ok {
		return id, nil
	}
	horizontal := "left"
	if align == model.AlignCenter {
		horizontal = "center"
	}
	id, err := w.wb.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: horizontal, Vertical: "top", WrapText: true},
	})
	if err != nil {
		return 0, err
	}
	w.styles[align] = id
	return id, nil
}

// EncodeReport 把报告文档编码为 xlsx 字节
func EncodeReport(doc *model.Document) ([]byte, error) {
	w, err := NewReportWriter()
	if err != nil {
		return nil, err
	}
	defer w.wb.Close()

	for i, b := range doc.Blocks {
		if err := w.WriteBlock(i+1, b); err != nil {
			return nil, err
		}
	}

	buf, err := w.wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write report workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeReport 从 xlsx 字节解码报告文档
func DecodeReport(name string, data []byte) (*model.Document, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open report %q: %w", name, err)
	}
	defer wb.Close()
	return ReadReport(wb, name)
}

// ReadReport 从已打开的工作簿读取报告文档；缺少元数据列的行按普通文本段落处理
func ReadReport(wb *excelize.File, name string) (*model.Document, error) {
	sheet := ReportSheet
	if idx, err := wb.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = wb.GetSheetName(wb.GetActiveSheetIndex())
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %q: %w", name, err)
	}

	doc := &model.Document{Name: name, Blocks: make([]model.Block, 0, len(rows))}
	for i := range rows {
		row := i + 1
		b, err := readBlock(wb, sheet, row)
		if err != nil {
			return nil, err
		}
		doc.Blocks = append(doc.Blocks, b)
	}
	return doc, nil
}

func readBlock(wb *excelize.File, sheet string, row int) (model.Block, error) {
	textCell := fmt.Sprintf("%s%d", colText, row)

	kind, _ := wb.GetCellValue(sheet, fmt.Sprintf("%s%d", colKind, row))
	align, _ := wb.GetCellValue(sheet, fmt.Sprintf("%s%d", colAlign, row))
	spaceAfter, _ := wb.GetCellValue(sheet, fmt.Sprintf("%s%d", colSpaceAfter, row))

	b := model.Block{
		Kind:  model.BlockKind(kind),
		Align: model.Alignment(align),
	}
	if b.Kind == "" {
		b.Kind = model.BlockText
	}
	if b.Align == "" {
		b.Align = model.AlignLeft
	}
	if spaceAfter != "" {
		v, err := strconv.ParseFloat(spaceAfter, 64)
		if err != nil {
			return b, fmt.Errorf("row %d: invalid space-after %q: %w", row, spaceAfter, err)
		}
		b.SpaceAfter = v
	}

	runs, err := wb.GetCellRichText(sheet, textCell)
	if err != nil {
		return b, fmt.Errorf("row %d: read rich text: %w", row, err)
	}
	for _, r := range runs {
		run := model.Run{Text: r.Text}
		if r.Font != nil {
			run.Bold = r.Font.Bold
			run.Font = r.Font.Family
			run.Size = r.Font.Size
		}
		b.Runs = append(b.Runs, run)
	}
	if len(b.Runs) == 0 {
		if text, _ := wb.GetCellValue(sheet, textCell); text != "" {
			b.Runs = append(b.Runs, model.Run{Text: text})
		}
	}
	return b, nil
}

func runFont(r model.Run) *excelize.Font {
	if !r.Bold && r.Font == "" && r.Size == 0 {
		return nil
	}
	return &excelize.Font{Bold: r.Bold, Family: r.Font, Size: r.Size}
}

// rowHeight 按文本行数与段后间距估算行高
func rowHeight(b model.Block) float64 {
	lines := 1
	for _, r := range b.Runs {
		for _, ch := range r.Text {
			if ch == '\n' {
				lines++
			}
		}
	}
	h := float64(lines)*pointsPerLine + b.SpaceAfter
	if h > 409 {
		h = 409
	}
	return h
}
