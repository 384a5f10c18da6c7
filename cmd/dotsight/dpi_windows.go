//go:build windows

package main

import (
	"syscall"
	"unsafe"

	"github.com/rs/zerolog"
)

var (
	user32 = syscall.NewLazyDLL("user32.dll")
	shcore = syscall.NewLazyDLL("shcore.dll")

	// dpiMode 启动时实际生效的 DPI 感知方式，写入日志
	dpiMode = "unaware"
)

// 覆盖层按物理像素定位，DPI 感知必须在任何窗口创建之前设置
func init() {
	ctx := user32.NewProc("SetProcessDpiAwarenessContext")
	if ctx.Find() == nil {
		// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 = -4, PER_MONITOR_AWARE = -3
		if r, _, _ := ctx.Call(^uintptr(3)); r != 0 {
			dpiMode = "per-monitor-v2"
			return
		}
		if r, _, _ := ctx.Call(^uintptr(2)); r != 0 {
			dpiMode = "per-monitor"
			return
		}
	}

	awareness := shcore.NewProc("SetProcessDpiAwareness")
	if awareness.Find() == nil {
		if r, _, _ := awareness.Call(2); r == 0 { // PROCESS_PER_MONITOR_DPI_AWARE, S_OK
			dpiMode = "per-monitor (shcore)"
			return
		}
		awareness.Call(1)
		dpiMode = "system (shcore)"
		return
	}

	user32.NewProc("SetProcessDPIAware").Call()
	dpiMode = "system"
}

// logDisplayInfo 记录屏幕尺寸与 DPI，排查覆盖层偏移时使用
func logDisplayInfo(log zerolog.Logger) {
	if log.GetLevel() > zerolog.DebugLevel {
		return
	}
	gsm := user32.NewProc("GetSystemMetrics")
	metric := func(i uintptr) int {
		r, _, _ := gsm.Call(i)
		return int(int32(r)) // GetSystemMetrics 返回 int32，必须符号扩展
	}

	ev := log.Debug().
		Str("dpiMode", dpiMode).
		Int("screenW", metric(0)).  // SM_CXSCREEN
		Int("screenH", metric(1)).  // SM_CYSCREEN
		Int("virtualX", metric(76)). // SM_XVIRTUALSCREEN
		Int("virtualY", metric(77)).
		Int("virtualW", metric(78)).
		Int("virtualH", metric(79))

	if p := user32.NewProc("GetDpiForSystem"); p.Find() == nil {
		dpi, _, _ := p.Call()
		ev = ev.Uint64("dpi", uint64(dpi)).Uint64("scalePercent", uint64(dpi*100/96))
	}
	if p := shcore.NewProc("GetProcessDpiAwareness"); p.Find() == nil {
		var awareness uint32
		p.Call(0, uintptr(unsafe.Pointer(&awareness)))
		ev = ev.Uint32("processAwareness", awareness)
	}
	ev.Msg("display info")
}
