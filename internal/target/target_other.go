//go:build !windows

package target

// NewProvider 非 Windows 平台无法枚举窗口，只支持居中于默认屏幕
func NewProvider() Provider {
	return ScreenProvider{Screen: DefaultScreen}
}
