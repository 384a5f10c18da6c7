//go:build !windows && !darwin

package hotkey

import "github.com/rs/zerolog"

// Manager 不支持全局快捷键的平台上的占位实现
type Manager struct {
	log zerolog.Logger
}

// NewManager 创建热键管理器
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{log: log}
}

// Register 总是返回 ErrUnsupported
func (m *Manager) Register(modifiers []string, key string, callback func()) error {
	if err := ValidateHotkey(modifiers, key); err != nil {
		return err
	}
	return ErrUnsupported
}

// Unregister 无操作
func (m *Manager) Unregister() error { return nil }

// ListenAsync 无操作
func (m *Manager) ListenAsync() {}

// Run 直接执行 fn
func Run(fn func()) { fn() }
