//go:build windows

package hotkey

import "golang.design/x/hotkey"

func platformModifier(m string) hotkey.Modifier {
	switch m {
	case "alt":
		return hotkey.ModAlt
	case "shift":
		return hotkey.ModShift
	case "win":
		return hotkey.ModWin
	}
	return hotkey.ModCtrl
}
