//go:build windows || darwin

package hotkey

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"
)

var keyCodes = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD, "e": hotkey.KeyE,
	"f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH, "i": hotkey.KeyI, "j": hotkey.KeyJ,
	"k": hotkey.KeyK, "l": hotkey.KeyL, "m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO,
	"p": hotkey.KeyP, "q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX, "y": hotkey.KeyY,
	"z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3, "4": hotkey.Key4,
	"5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7, "8": hotkey.Key8, "9": hotkey.Key9,
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
	"space": hotkey.KeySpace, "return": hotkey.KeyReturn, "enter": hotkey.KeyReturn,
	"escape": hotkey.KeyEscape, "esc": hotkey.KeyEscape, "tab": hotkey.KeyTab,
	"delete": hotkey.KeyDelete, "del": hotkey.KeyDelete,
	"up": hotkey.KeyUp, "down": hotkey.KeyDown, "left": hotkey.KeyLeft, "right": hotkey.KeyRight,
}

// Manager 热键管理器
type Manager struct {
	hk       *hotkey.Hotkey
	callback func()
	log      zerolog.Logger
}

// NewManager 创建热键管理器
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{log: log}
}

// parseModifiers 解析修饰键
func parseModifiers(mods []string) []hotkey.Modifier {
	var result []hotkey.Modifier
	for _, mod := range mods {
		if m, ok := normalizeModifier(mod); ok {
			result = append(result, platformModifier(m))
		}
	}
	return result
}

// Register 注册热键，按下时调用 callback
func (m *Manager) Register(modifiers []string, key string, callback func()) error {
	if err := ValidateHotkey(modifiers, key); err != nil {
		return err
	}
	k := keyCodes[strings.ToLower(key)]
	mods := parseModifiers(modifiers)

	m.log.Debug().Strs("modifiers", modifiers).Str("key", key).Msg("register hotkey")

	m.hk = hotkey.New(mods, k)
	m.callback = callback
	if err := m.hk.Register(); err != nil {
		return fmt.Errorf("register hotkey %s: %w", Combo{Modifiers: modifiers, Key: key}, err)
	}
	return nil
}

// Unregister 注销热键
func (m *Manager) Unregister() error {
	if m.hk != nil {
		return m.hk.Unregister()
	}
	return nil
}

// Listen 开始监听热键（阻塞，直到注销）
func (m *Manager) Listen() {
	if m.hk == nil {
		return
	}
	for range m.hk.Keydown() {
		if m.callback != nil {
			m.callback()
		}
	}
}

// ListenAsync 异步监听热键
func (m *Manager) ListenAsync() {
	go m.Listen()
}

// Run 在主线程中运行（某些平台需要）
func Run(fn func()) {
	mainthread.Init(fn)
}
