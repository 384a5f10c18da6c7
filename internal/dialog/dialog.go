// Package dialog 单行文本输入对话框
package dialog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported 当前平台没有输入对话框
var ErrUnsupported = errors.New("input dialog not supported on this platform")

// inputBoxScript 生成 PowerShell InputBox 脚本，消息中的换行转为 [char]10
func inputBoxScript(title, message, initial string) string {
	lines := strings.Split(message, "\n")
	for i, l := range lines {
		lines[i] = quote(l)
	}
	return fmt.Sprintf(`
Add-Type -AssemblyName Microsoft.VisualBasic
$msg = %s
$result = [Microsoft.VisualBasic.Interaction]::InputBox($msg, %s, %s)
Write-Output $result
`, strings.Join(lines, " + [char]10 + "), quote(title), quote(initial))
}

// quote PowerShell 单引号字符串，内部单引号写两次
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
