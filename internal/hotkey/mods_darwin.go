//go:build darwin

package hotkey

import "golang.design/x/hotkey"

func platformModifier(m string) hotkey.Modifier {
	switch m {
	case "alt":
		return hotkey.ModOption
	case "shift":
		return hotkey.ModShift
	case "win":
		return hotkey.ModCmd
	}
	return hotkey.ModCtrl
}
