package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"calibreport/internal/config"
	"calibreport/internal/model"
)

func writeWorkbook(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

// setupWorkspace 准备数据目录、参考工作簿与全局配置
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "仪器.xlsx"), [][]string{
		{"名称", "型号", "测量范围"},
		{"光电轴角编码器", "GE-23", "0~360°"},
	})
	writeWorkbook(t, filepath.Join(dir, "测量参数库.xlsx"), [][]string{
		{"参数", "测量方法"},
		{"分度误差", "比较法"},
	})

	cfg = config.DefaultConfig()
	cfg.Data.DataDir = dir
	logger = zap.NewNop()
	t.Cleanup(func() {
		cfg = nil
		logger = nil
	})
	return dir
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	return cmd, out
}

func TestRunPipelineCommand(t *testing.T) {
	dir := setupWorkspace(t)
	runInstrument, runParameter, runGrade, runPrepare, runOpen = "光电轴角编码器", "分度误差", "七级", true, false

	cmd, out := newTestCommand()
	if err := runPipeline(cmd, nil); err != nil {
		t.Fatalf("runPipeline: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "不确定度计算完成") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "reports", "光电轴角编码器.xlsx")); err != nil {
		t.Fatalf("report not written: %v", err)
	}

	dumpCmd, dumpOut := newTestCommand()
	if err := runDump(dumpCmd, []string{"光电轴角编码器"}); err != nil {
		t.Fatalf("runDump: %v", err)
	}
	var doc model.Document
	if err := yaml.Unmarshal(dumpOut.Bytes(), &doc); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, dumpOut.String())
	}
	// 标题 + 2 属性 + 参数属性 + 参数报告(2) + 计算结果
	if len(doc.Blocks) != 7 {
		t.Fatalf("blocks=%d, want 7", len(doc.Blocks))
	}
	if got := doc.Blocks[6].Text(); strings.Count(got, "扩展不确定度：") != 6 {
		t.Fatalf("unexpected result block:\n%s", got)
	}
}

func TestRunPipelineStopsAtFirstFailure(t *testing.T) {
	setupWorkspace(t)
	runInstrument, runParameter, runGrade, runPrepare, runOpen = "光电轴角编码器", "分度误差", "", false, false

	cmd, out := newTestCommand()
	err := runPipeline(cmd, nil)
	if err == nil || !strings.Contains(err.Error(), "请选择等级") {
		t.Fatalf("expected grade error, got %v", err)
	}
	if strings.Contains(out.String(), "不确定度计算完成") {
		t.Fatalf("pipeline continued after failure:\n%s", out.String())
	}
}

func TestParamCommandUnsupported(t *testing.T) {
	setupWorkspace(t)

	cmd, _ := newTestCommand()
	err := runParam(cmd, []string{"灵敏度"})
	if err == nil || err.Error() != "暂不支持此参数" {
		t.Fatalf("expected unsupported parameter, got %v", err)
	}
}

func TestDumpMissingReport(t *testing.T) {
	setupWorkspace(t)

	cmd, _ := newTestCommand()
	if err := runDump(cmd, []string{"角度仪"}); err == nil {
		t.Fatalf("expected error for missing report")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"", "debug", "warn"} {
		l, err := newLogger(level, false)
		if err != nil {
			t.Fatalf("newLogger(%q): %v", level, err)
		}
		_ = l.Sync()
	}
	if _, err := newLogger("loud", false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	l, err := newLogger("error", true)
	if err != nil {
		t.Fatalf("newLogger verbose: %v", err)
	}
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Fatal("verbose logger should enable debug")
	}
}

func TestTablesCommand(t *testing.T) {
	setupWorkspace(t)

	cmd, out := newTestCommand()
	if err := runTables(cmd, nil); err != nil {
		t.Fatalf("runTables: %v", err)
	}
	for _, want := range []string{"仪器.xlsx", "[Sheet1] 1 行", "光电轴角编码器", "分度误差"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}
