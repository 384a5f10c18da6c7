//go:build windows

package hotkey

import "dotsight/internal/dialog"

const setterMessage = "Enter a new hotkey\n\nFormat: modifier+key\nExamples: ctrl+shift+x, alt+f8\n\nModifiers: ctrl, alt, shift, win\nKeys: a-z, 0-9, f1-f12"

// ShowHotkeySetter 显示快捷键设置对话框，用户取消时返回 ok=false
func ShowHotkeySetter(current string) (Combo, bool, error) {
	result, ok, err := dialog.Input("DotSight hotkey", setterMessage, current)
	if err != nil || !ok {
		return Combo{}, false, err
	}

	c, err := ParseCombo(result)
	if err != nil {
		return Combo{}, false, err
	}
	return c, true, nil
}
