package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"calibreport/internal/app"
	"calibreport/internal/config"
)

var (
	// Global flags
	configPath string
	dataDir    string
	verbose    bool

	cfg     *config.AppConfig
	cfgInfo config.LoadConfigInfo
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "calibreport",
	Short: "检定规程报告工具：查询仪器/参数信息并计算不确定度",
	Long: `calibreport 从参考工作簿（仪器.xlsx、测量参数库.xlsx）查询仪器与测量参数信息，
按准确度等级计算两种方法下各档仪器的合成与扩展不确定度，
并把结果逐步写入以仪器命名的报告工作簿。

不带子命令运行时启动网页界面（等同于 serve）。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, cfgInfo, err = config.LoadConfigWithInfo(configPath)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		if dataDir != "" {
			cfg.Data.DataDir = dataDir
		}

		logger, err = newLogger(cfg.Log.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径（默认为可执行文件同目录下的 config.toml）")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "数据目录（覆盖配置文件）")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	rootCmd.AddCommand(serveCmd, runCmd, paramCmd, dumpCmd, tablesCmd)
}

func newLogger(level string, debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		config.Level = lvl
	}
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// newApp 按已加载的配置组装依赖
func newApp() (*app.App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return app.New(cfg, logger)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
