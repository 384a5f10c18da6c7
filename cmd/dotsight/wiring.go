package main

import (
	"github.com/rs/zerolog"

	"dotsight/internal/app"
	"dotsight/internal/crosshair"
	"dotsight/internal/target"
	"dotsight/internal/tray"
)

var _ menu = (*tray.Tray)(nil)

// menu 托盘菜单中由控制器驱动的部分
type menu interface {
	SetProfiles(names []string, current string)
	SetEnabled(on bool)
	SetStyle(c crosshair.ColorName, ct crosshair.CrosshairType, centred bool)

	SetOnToggle(fn func())
	SetOnLoadProfile(fn func(name string))
	SetOnSave(fn func())
	SetOnReload(fn func())
	SetOnExport(fn func())
	SetOnNewProfile(fn func())
	SetOnDeleteProfile(fn func())
	SetOnColor(fn func(c crosshair.ColorName))
	SetOnType(fn func(ct crosshair.CrosshairType))
	SetOnSize(fn func(delta float64))
	SetOnThickness(fn func(delta float64))
	SetOnCentre(fn func())
	SetOnPickWindow(fn func())
}

// promptFunc 单行输入对话框；ok=false 表示用户取消
type promptFunc func(title, message, initial string) (string, bool, error)

// wireMenu 把菜单回调投递到控制器 goroutine
// prompt 为空时不提供需要文本输入的菜单项。返回的 refresh 只能在控制器 goroutine 上调用
func wireMenu(m menu, a *app.App, prompt promptFunc, log zerolog.Logger) (toggle, refresh func()) {
	refresh = func() {
		s := a.Settings()
		m.SetProfiles(a.Profiles(), s.Name)
		m.SetEnabled(s.CrosshairEnabled)
		m.SetStyle(s.SelectedColor, s.CrosshairType, target.ParseSelector(s.SelectedGameWindow).CenterOnScreen)
	}
	// do 在控制器上执行 fn 后刷新菜单；错误已由控制器记录或通知
	do := func(fn func() error) {
		a.Do(func() {
			if err := fn(); err != nil {
				log.Debug().Err(err).Msg("menu action")
			}
			refresh()
		})
	}

	toggle = func() {
		do(func() error { a.Toggle(); return nil })
	}
	m.SetOnToggle(toggle)
	m.SetOnLoadProfile(func(name string) {
		do(func() error { return a.LoadProfile(name) })
	})
	m.SetOnSave(func() { do(a.SaveProfile) })
	m.SetOnReload(func() { do(a.ReloadProfile) })
	m.SetOnExport(func() {
		do(func() error { _, err := a.ExportImage(); return err })
	})
	m.SetOnDeleteProfile(func() {
		do(func() error { _, err := a.DeleteProfile(a.Settings().Name); return err })
	})
	m.SetOnColor(func(c crosshair.ColorName) {
		do(func() error { return a.SetColor(c) })
	})
	m.SetOnType(func(ct crosshair.CrosshairType) {
		do(func() error { return a.SetType(ct, nil) })
	})
	m.SetOnSize(func(d float64) {
		do(func() error { return a.StepSize(d) })
	})
	m.SetOnThickness(func(d float64) {
		do(func() error { return a.StepThickness(d) })
	})
	m.SetOnCentre(func() {
		do(func() error { a.SetTarget(crosshair.CenterOnScreen); return nil })
	})

	if prompt == nil {
		return toggle, refresh
	}
	// 对话框在托盘 goroutine 上阻塞，结果再投递给控制器
	ask := func(title, message string) (string, bool) {
		text, ok, err := prompt(title, message, "")
		if err != nil {
			log.Warn().Err(err).Str("dialog", title).Msg("input dialog")
			return "", false
		}
		return text, ok
	}
	m.SetOnNewProfile(func() {
		if name, ok := ask("New profile", "Name for the new profile:"); ok {
			do(func() error { return a.CreateProfile(name) })
		}
	})
	m.SetOnPickWindow(func() {
		if title, ok := ask("Target window", "Part of the window title to follow:"); ok {
			do(func() error { a.SetTarget(title); return nil })
		}
	})
	return toggle, refresh
}
