package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"calibreport/internal/service/pipeline"
	"calibreport/internal/util"
)

var (
	runInstrument string
	runParameter  string
	runGrade      string
	runPrepare    bool
	runOpen       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "按顺序执行：选择仪器 → 等级 → 参数 → 计算",
	Long: `在命令行中走完整个流程，结果写入 <报告目录>/<仪器>.xlsx。

Example:
  calibreport run --instrument 光电轴角编码器 --parameter 分度误差 --grade 七级`,
	RunE: runPipeline,
}

var paramCmd = &cobra.Command{
	Use:   "param [parameter]",
	Short: "生成参数报告（计算阶段会把它合并到仪器报告中）",
	Args:  cobra.ExactArgs(1),
	RunE:  runParam,
}

func init() {
	runCmd.Flags().StringVar(&runInstrument, "instrument", "", "仪器名称")
	runCmd.Flags().StringVar(&runParameter, "parameter", "分度误差", "测量参数")
	runCmd.Flags().StringVar(&runGrade, "grade", "", "准确度等级（一级..七级 或 1..7）")
	runCmd.Flags().BoolVar(&runPrepare, "prepare", true, "计算前先生成参数报告")
	runCmd.Flags().BoolVar(&runOpen, "open", false, "完成后打开报告")
}

func printNotice(cmd *cobra.Command, n pipeline.Notice) error {
	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", n.Title, n.Message)
	if !n.OK() {
		return errors.New(n.Message)
	}
	return nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	orch := a.Pipeline
	orch.Reset()

	steps := []func() pipeline.Notice{
		func() pipeline.Notice { return orch.SelectInstrument(ctx, runInstrument) },
		func() pipeline.Notice { return orch.SelectGrade(ctx, runGrade) },
		func() pipeline.Notice { return orch.SelectParameter(ctx, runParameter) },
		func() pipeline.Notice { return orch.Compute(ctx) },
	}
	if runPrepare {
		steps = append([]func() pipeline.Notice{
			func() pipeline.Notice { return orch.PrepareParameterReport(ctx, runParameter) },
		}, steps...)
	}
	for _, step := range steps {
		if err := printNotice(cmd, step()); err != nil {
			return err
		}
	}

	path := a.Documents.Path(runInstrument)
	fmt.Fprintf(cmd.OutOrStdout(), "报告: %s\n", path)
	if runOpen {
		if err := util.OpenWithFallback(path); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "无法自动打开报告，请手动打开: %s\n", path)
		}
	}
	return nil
}

func runParam(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := printNotice(cmd, a.Pipeline.PrepareParameterReport(commandContext(cmd), args[0])); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "报告: %s\n", a.Documents.Path(args[0]))
	return nil
}
