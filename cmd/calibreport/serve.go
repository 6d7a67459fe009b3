package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calibreport/internal/server"
	"calibreport/internal/util"
)

var (
	servePort int
	serveDev  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动网页界面",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "开发模式")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("==========================================")
	fmt.Println("  calibreport - 检定规程报告工具")
	fmt.Println("==========================================")

	// 命令行参数覆盖配置
	if servePort > 0 && !cfgInfo.PortSpecified {
		cfg.Server.Port = servePort
	}
	if serveDev {
		cfg.Server.DevMode = true
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	fmt.Printf("数据目录: %s\n", a.DataDir)
	fmt.Printf("报告目录: %s\n", a.ReportsDir)

	if s, ok := a.RestoreSession(commandContext(cmd)); ok {
		fmt.Printf("已恢复上次会话: %s (%s)\n", s.ID, s.State)
	}

	srv := server.NewServer(a.Handler(), cfg.Server.DevMode, logger.Named("http"))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		errCh <- srv.Run(addr)
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		fmt.Println("\n正在关闭服务...")
		return nil
	case err := <-errCh:
		logger.Error("server stopped", zap.Error(err))
		return fmt.Errorf("服务启动失败: %w", err)
	}
}
