// Package hotkey 注册切换覆盖层的全局快捷键
package hotkey

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported 当前平台不支持全局快捷键
var ErrUnsupported = errors.New("global hotkeys are not supported on this platform")

// Combo 快捷键组合，修饰键已规范化为 ctrl/alt/shift/win
type Combo struct {
	Modifiers []string
	Key       string
}

func (c Combo) String() string {
	return strings.Join(append(append([]string{}, c.Modifiers...), c.Key), "+")
}

// normalizeModifier 统一修饰键别名
func normalizeModifier(mod string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(mod)) {
	case "ctrl", "control":
		return "ctrl", true
	case "alt", "option":
		return "alt", true
	case "shift":
		return "shift", true
	case "win", "cmd", "command", "super":
		return "win", true
	}
	return "", false
}

// validKey a-z、0-9、f1-f12 与少量命名键
func validKey(key string) bool {
	key = strings.ToLower(key)
	if len(key) == 1 && ((key[0] >= 'a' && key[0] <= 'z') || (key[0] >= '0' && key[0] <= '9')) {
		return true
	}
	for i := 1; i <= 12; i++ {
		if key == fmt.Sprintf("f%d", i) {
			return true
		}
	}
	switch key {
	case "space", "return", "enter", "escape", "esc", "tab", "delete", "del", "up", "down", "left", "right":
		return true
	}
	return false
}

// ParseCombo 解析 "ctrl+shift+x" 形式的字符串，至少需要一个修饰键
func ParseCombo(s string) (Combo, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(parts) < 2 {
		return Combo{}, fmt.Errorf("hotkey %q: need at least one modifier and a key", s)
	}

	var c Combo
	for _, part := range parts[:len(parts)-1] {
		mod, ok := normalizeModifier(part)
		if !ok {
			return Combo{}, fmt.Errorf("hotkey %q: unknown modifier %q", s, part)
		}
		c.Modifiers = append(c.Modifiers, mod)
	}

	c.Key = strings.TrimSpace(parts[len(parts)-1])
	if err := ValidateHotkey(c.Modifiers, c.Key); err != nil {
		return Combo{}, fmt.Errorf("hotkey %q: %w", s, err)
	}
	return c, nil
}

// ValidateHotkey 验证快捷键是否有效
func ValidateHotkey(mods []string, key string) error {
	if len(mods) == 0 {
		return errors.New("at least one modifier (ctrl/alt/shift/win) is required")
	}
	for _, m := range mods {
		if _, ok := normalizeModifier(m); !ok {
			return fmt.Errorf("unknown modifier %q", m)
		}
	}
	if !validKey(key) {
		return fmt.Errorf("unsupported key %q (a-z, 0-9, f1-f12)", key)
	}
	return nil
}

// GetSupportedModifiers 获取支持的修饰键列表
func GetSupportedModifiers() []string {
	return []string{"ctrl", "alt", "shift", "win"}
}
