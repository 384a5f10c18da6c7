//go:build !windows

package overlay

import "github.com/rs/zerolog"

// NewSurface 非 Windows 平台没有覆盖层窗口，帧只记录到日志
func NewSurface(log zerolog.Logger) (Surface, error) {
	log.Info().Msg("overlay window not supported on this platform, frames are logged only")
	return NopSurface{Log: log}, nil
}
