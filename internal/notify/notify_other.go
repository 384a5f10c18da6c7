//go:build !windows

package notify

import "github.com/rs/zerolog"

func newPlatformNotifier(log zerolog.Logger) Notifier {
	return LogNotifier{Log: log}
}
