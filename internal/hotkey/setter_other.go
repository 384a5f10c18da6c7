//go:build !windows

package hotkey

// ShowHotkeySetter 仅 Windows 提供对话框，其他平台使用 -set-hotkey
func ShowHotkeySetter(current string) (Combo, bool, error) {
	return Combo{}, false, ErrUnsupported
}
