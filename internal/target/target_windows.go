//go:build windows

package target

import (
	"sync"
	"syscall"
	"unsafe"

	"dotsight/internal/geometry"
)

var (
	user32 = syscall.NewLazyDLL("user32.dll")

	enumWindows      = user32.NewProc("EnumWindows")
	getWindowTextW   = user32.NewProc("GetWindowTextW")
	isWindowVisible  = user32.NewProc("IsWindowVisible")
	isIconic         = user32.NewProc("IsIconic")
	getWindowRect    = user32.NewProc("GetWindowRect")
	getSystemMetrics = user32.NewProc("GetSystemMetrics")
)

const (
	smCXScreen = 0
	smCYScreen = 1
)

type rect struct {
	Left, Top, Right, Bottom int32
}

// WindowProvider 枚举顶层窗口，按标题匹配
type WindowProvider struct{}

// NewProvider 创建 Windows 目标查询器
func NewProvider() Provider {
	return WindowProvider{}
}

// 枚举回调只创建一次，状态由 enumMu 保护
var (
	enumMu    sync.Mutex
	enumFound uintptr
	enumFrag  string
	enumProc  = syscall.NewCallback(func(hwnd, _ uintptr) uintptr {
		if v, _, _ := isWindowVisible.Call(hwnd); v == 0 {
			return 1
		}
		buf := make([]uint16, 256)
		n, _, _ := getWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		if n == 0 {
			return 1
		}
		if matchTitle(syscall.UTF16ToString(buf[:n]), enumFrag) {
			enumFound = hwnd
			return 0 // 停止枚举
		}
		return 1
	})
)

// findWindow 返回第一个标题匹配的可见顶层窗口
func findWindow(fragment string) uintptr {
	enumMu.Lock()
	defer enumMu.Unlock()
	enumFound, enumFrag = 0, fragment
	enumWindows.Call(enumProc, 0)
	return enumFound
}

// QueryTargetRect 屏幕返回主显示器；窗口不存在或最小化时返回 false
func (WindowProvider) QueryTargetRect(sel Selector) (geometry.Rect, bool) {
	if sel.CenterOnScreen {
		w, _, _ := getSystemMetrics.Call(smCXScreen)
		h, _, _ := getSystemMetrics.Call(smCYScreen)
		screen := geometry.Rect{Width: float64(int32(w)), Height: float64(int32(h))}
		if screen.Empty() {
			return DefaultScreen, true
		}
		return screen, true
	}

	hwnd := findWindow(sel.Title)
	if hwnd == 0 {
		return geometry.Rect{}, false
	}
	if iconic, _, _ := isIconic.Call(hwnd); iconic != 0 {
		return geometry.Rect{}, false
	}

	var r rect
	if ret, _, _ := getWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r))); ret == 0 {
		return geometry.Rect{}, false
	}
	out := geometry.Rect{
		X:      float64(r.Left),
		Y:      float64(r.Top),
		Width:  float64(r.Right - r.Left),
		Height: float64(r.Bottom - r.Top),
	}
	return out, !out.Empty()
}
