// Package target 定位覆盖层要居中的目标区域（游戏窗口或屏幕）
package target

import (
	"strings"

	"dotsight/internal/crosshair"
	"dotsight/internal/geometry"
)

// Selector 目标选择：居中于屏幕，或按标题片段匹配窗口
type Selector struct {
	CenterOnScreen bool
	Title          string
}

// ParseSelector 解析配置中的 selectedGameWindow
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	if s == "" || s == crosshair.CenterOnScreen {
		return Selector{CenterOnScreen: true}
	}
	return Selector{Title: s}
}

func (s Selector) String() string {
	if s.CenterOnScreen {
		return crosshair.CenterOnScreen
	}
	return s.Title
}

// Provider 查询目标矩形；ok 为 false 表示本次应隐藏覆盖层
type Provider interface {
	QueryTargetRect(sel Selector) (geometry.Rect, bool)
}

// ProviderFunc 函数适配器
type ProviderFunc func(sel Selector) (geometry.Rect, bool)

// QueryTargetRect 调用 f
func (f ProviderFunc) QueryTargetRect(sel Selector) (geometry.Rect, bool) {
	return f(sel)
}

// DefaultScreen 无法查询屏幕时使用的尺寸
var DefaultScreen = geometry.Rect{Width: 1920, Height: 1080}

// ScreenProvider 只响应居中于屏幕
type ScreenProvider struct {
	Screen geometry.Rect
}

// QueryTargetRect 返回屏幕矩形；窗口标题一律视为找不到
func (p ScreenProvider) QueryTargetRect(sel Selector) (geometry.Rect, bool) {
	if !sel.CenterOnScreen || p.Screen.Empty() {
		return geometry.Rect{}, false
	}
	return p.Screen, true
}

// matchTitle 不区分大小写的子串匹配
func matchTitle(title, fragment string) bool {
	if fragment == "" {
		return false
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(fragment))
}
