package overlay

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/rs/zerolog"

	"dotsight/internal/geometry"
)

// Frame 一次完整的呈现单元：可见性、屏幕位置与图像同时生效
type Frame struct {
	Visible bool
	X, Y    int
	Image   *image.RGBA
}

// Hidden 隐藏帧
func Hidden() Frame {
	return Frame{}
}

// Position 返回把 w×h 覆盖层居中到目标矩形时的左上角
func Position(target geometry.Rect, w, h int) (x, y int) {
	p := geometry.CenterIn(target, float64(w), float64(h))
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

// FrameAt 生成居中于 target 的可见帧
func (r *Renderer) FrameAt(target geometry.Rect) Frame {
	x, y := Position(target, r.width, r.height)
	return Frame{Visible: true, X: x, Y: y, Image: r.Rasterize()}
}

// Surface 呈现帧的屏幕载体
type Surface interface {
	Present(f Frame) error
	Close() error
}

// NopSurface 不显示任何内容，只记录日志
type NopSurface struct {
	Log zerolog.Logger
}

// Present 记录帧信息
func (s NopSurface) Present(f Frame) error {
	s.Log.Debug().Bool("visible", f.Visible).Int("x", f.X).Int("y", f.Y).Msg("present frame")
	return nil
}

// Close 无操作
func (NopSurface) Close() error { return nil }

// EncodePNG 把栅格化结果写为 PNG
func (r *Renderer) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, r.Rasterize()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
