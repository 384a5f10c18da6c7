//go:build windows

package notify

import (
	"github.com/go-toast/toast"
	"github.com/rs/zerolog"
)

// WindowsNotifier Windows 通知实现
type WindowsNotifier struct {
	appID string
	log   zerolog.Logger
}

func newPlatformNotifier(log zerolog.Logger) Notifier {
	return &WindowsNotifier{appID: AppID, log: log}
}

// Show 显示通知（异步，不阻塞主流程）
func (n *WindowsNotifier) Show(title, message string) error {
	n.log.Debug().Str("title", title).Msg(message)
	go func() {
		notification := toast.Notification{
			AppID:   n.appID,
			Title:   title,
			Message: message,
		}
		if err := notification.Push(); err != nil {
			n.log.Warn().Err(err).Msg("push toast")
		}
	}()
	return nil
}
