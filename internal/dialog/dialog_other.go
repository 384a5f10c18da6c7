//go:build !windows

package dialog

// Supported 是否可以弹出输入对话框
const Supported = false

// Input 其他平台没有对话框，改用命令行参数
func Input(title, message, initial string) (string, bool, error) {
	return "", false, ErrUnsupported
}
