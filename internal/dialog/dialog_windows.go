//go:build windows

package dialog

import (
	"fmt"
	"os/exec"
	"strings"
)

// Supported 是否可以弹出输入对话框
const Supported = true

// Input 显示输入对话框
// 使用 PowerShell InputBox，避免 Windows GUI 线程问题。用户取消或输入为空时返回 ok=false
func Input(title, message, initial string) (string, bool, error) {
	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", inputBoxScript(title, message, initial))
	output, err := cmd.Output()
	if err != nil {
		return "", false, fmt.Errorf("run input dialog: %w", err)
	}

	result := strings.TrimSpace(string(output))
	return result, result != "", nil
}
