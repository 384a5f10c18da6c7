// Package clipboard 复制导出文件的路径
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable 系统剪贴板不可用（例如 Linux 上没有 xclip/xsel）
var ErrUnavailable = errors.New("clipboard unavailable")

// Clipboard 剪贴板接口
type Clipboard interface {
	SetText(text string) error
	GetText() (string, error)
}

// System 系统剪贴板
type System struct{}

// NewClipboard 创建剪贴板实例
func NewClipboard() Clipboard {
	return System{}
}

// SetText 设置剪贴板文本
func (System) SetText(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// GetText 获取剪贴板文本
func (System) GetText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnavailable
	}
	return clipboard.ReadAll()
}

// Memory 进程内剪贴板，用于测试和无剪贴板的环境
type Memory struct {
	text string
}

// SetText 保存文本
func (m *Memory) SetText(text string) error {
	m.text = text
	return nil
}

// GetText 返回上次保存的文本
func (m *Memory) GetText() (string, error) {
	return m.text, nil
}
