// Package notify 向用户显示操作结果
package notify

import "github.com/rs/zerolog"

// AppID 通知来源名称
const AppID = "DotSight"

// Notifier 通知接口
type Notifier interface {
	Show(title, message string) error
}

// LogNotifier 只写日志的通知器，用于无桌面通知的平台或关闭通知时
type LogNotifier struct {
	Log zerolog.Logger
}

// Show 以 info 级别记录通知
func (n LogNotifier) Show(title, message string) error {
	n.Log.Info().Str("title", title).Msg(message)
	return nil
}

// New 按开关返回通知器；关闭时只写日志
func New(enabled bool, log zerolog.Logger) Notifier {
	if !enabled {
		return LogNotifier{Log: log}
	}
	return newPlatformNotifier(log)
}
