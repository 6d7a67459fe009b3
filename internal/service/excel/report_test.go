package excel_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"calibreport/internal/model"
	"calibreport/internal/service/excel"
)

func sampleReport() *model.Document {
	return &model.Document{
		Name: "光电轴角编码器",
		Blocks: []model.Block{
			{Kind: model.BlockHeading, Align: model.AlignCenter, Runs: []model.Run{
				{Text: "光电轴角编码器", Bold: true, Font: "黑体"},
			}},
			{Kind: model.BlockAttribute, Align: model.AlignLeft, SpaceAfter: 12, Runs: []model.Run{
				{Text: "型号：", Bold: true},
				{Text: "GE-23"},
			}},
			{Kind: model.BlockText, Align: model.AlignLeft, SpaceAfter: 12, Runs: []model.Run{
				{Text: "计算结果：\n\n方法一：\n仪器A 成本：1030\n", Font: "宋体", Size: 12},
			}},
		},
	}
}

func TestReportRoundTrip(t *testing.T) {
	doc := sampleReport()

	data, err := excel.EncodeReport(doc)
	if err != nil {
		t.Fatalf("EncodeReport failed: %v", err)
	}
	got, err := excel.DecodeReport(doc.Name, data)
	if err != nil {
		t.Fatalf("DecodeReport failed: %v", err)
	}

	if diff := cmp.Diff(doc, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReportWriterLayout(t *testing.T) {
	w, err := excel.NewReportWriter()
	if err != nil {
		t.Fatalf("NewReportWriter failed: %v", err)
	}
	wb := w.Workbook()
	t.Cleanup(func() { _ = wb.Close() })

	for i, b := range sampleReport().Blocks {
		if err := w.WriteBlock(i+1, b); err != nil {
			t.Fatalf("WriteBlock failed: %v", err)
		}
	}

	if got := wb.GetSheetList(); len(got) != 1 || got[0] != excel.ReportSheet {
		t.Fatalf("sheets=%v, want [%s]", got, excel.ReportSheet)
	}
	visible, err := wb.GetColVisible(excel.ReportSheet, "B")
	if err != nil {
		t.Fatalf("GetColVisible failed: %v", err)
	}
	if visible {
		t.Fatalf("metadata column B should be hidden")
	}
	text, err := wb.GetCellValue(excel.ReportSheet, "A2")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if text != "型号：GE-23" {
		t.Fatalf("A2=%q, want %q", text, "型号：GE-23")
	}
}

func TestReadReportPlainWorkbook(t *testing.T) {
	wb := excelize.NewFile()
	t.Cleanup(func() { _ = wb.Close() })
	if err := wb.SetCellValue("Sheet1", "A1", "外部编辑的段落"); err != nil {
		t.Fatalf("SetCellValue failed: %v", err)
	}
	if err := wb.SetCellValue("Sheet1", "A2", "第二段"); err != nil {
		t.Fatalf("SetCellValue failed: %v", err)
	}

	doc, err := excel.ReadReport(wb, "外部")
	if err != nil {
		t.Fatalf("ReadReport failed: %v", err)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("blocks=%d, want 2", len(doc.Blocks))
	}
	b := doc.Blocks[0]
	if b.Kind != model.BlockText || b.Align != model.AlignLeft || b.Text() != "外部编辑的段落" {
		t.Fatalf("unexpected block: %+v", b)
	}
}

func TestDecodeReportRejectsGarbage(t *testing.T) {
	if _, err := excel.DecodeReport("坏", []byte("garbage")); err == nil {
		t.Fatalf("expected error for non-xlsx data")
	}
}
