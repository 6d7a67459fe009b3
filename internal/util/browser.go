package util

import (
	"os/exec"
	"runtime"
)

// Open 用系统默认程序打开网址或文件（报告工作簿）
// 支持 Windows 7/10/11, macOS, Linux
func Open(target string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// rundll32 调用 url.dll，比 cmd /c start 在 Windows 7 上更稳定
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	case "darwin":
		cmd = exec.Command("open", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}

	return cmd.Start()
}

// OpenWithFallback 主要方式失败时尝试备选程序
func OpenWithFallback(target string) error {
	err := Open(target)
	if err == nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", target).Start()
	case "linux":
		for _, bin := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			if err := exec.Command(bin, target).Start(); err == nil {
				return nil
			}
		}
	}

	return err
}
