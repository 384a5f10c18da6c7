// Package app 串联配置档、渲染器、目标窗口与屏幕呈现
//
// 所有状态只在 Run 所在的 goroutine 上修改；托盘与热键通过 Do 投递闭包。
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"

	"dotsight/internal/clipboard"
	"dotsight/internal/crosshair"
	"dotsight/internal/notify"
	"dotsight/internal/overlay"
	"dotsight/internal/profile"
	"dotsight/internal/storage"
	"dotsight/internal/target"
)

// DefaultTickInterval 目标窗口的轮询间隔
const DefaultTickInterval = 100 * time.Millisecond

// Options 构造 App 所需的协作者
type Options struct {
	Store        profile.Store
	Renderer     *overlay.Renderer
	Provider     target.Provider
	Surface      overlay.Surface
	Notifier     notify.Notifier
	Exports      *storage.Storage    // 为空时不能导出图像
	Clipboard    clipboard.Clipboard // 导出后复制路径
	TickInterval time.Duration
	Log          zerolog.Logger
}

// App 应用控制器
type App struct {
	log      zerolog.Logger
	store    profile.Store
	renderer *overlay.Renderer
	provider target.Provider
	surface  overlay.Surface
	notifier notify.Notifier
	exports  *storage.Storage
	clip     clipboard.Clipboard
	tick     time.Duration

	settings crosshair.Settings
	custom   *crosshair.Profile // 最近一次使用的自定义数据，切回 Custom 时复用
	img      *image.RGBA        // 缓存的栅格结果，设置变化时置空

	actions chan func()
	done    chan struct{}
}

// New 创建控制器；未提供的协作者使用无副作用的默认实现
func New(opts Options) *App {
	a := &App{
		log:      opts.Log,
		store:    opts.Store,
		renderer: opts.Renderer,
		provider: opts.Provider,
		surface:  opts.Surface,
		notifier: opts.Notifier,
		exports:  opts.Exports,
		clip:     opts.Clipboard,
		tick:     opts.TickInterval,
		settings: crosshair.DefaultSettings(""),
		actions:  make(chan func(), 16),
		done:     make(chan struct{}),
	}
	if a.store == nil {
		a.store = profile.NewMemoryStore(opts.Log)
	}
	if a.renderer == nil {
		a.renderer = overlay.NewRenderer(overlay.DefaultWidth, overlay.DefaultHeight)
	}
	if a.provider == nil {
		a.provider = target.ScreenProvider{Screen: target.DefaultScreen}
	}
	if a.surface == nil {
		a.surface = overlay.NopSurface{Log: opts.Log}
	}
	if a.notifier == nil {
		a.notifier = notify.LogNotifier{Log: opts.Log}
	}
	if a.clip == nil {
		a.clip = &clipboard.Memory{}
	}
	if a.tick <= 0 {
		a.tick = DefaultTickInterval
	}
	return a
}

// Settings 当前设置的副本
func (a *App) Settings() crosshair.Settings {
	s := a.settings
	if s.CustomData != nil {
		c := s.CustomData.Clone()
		s.CustomData = &c
	}
	return s
}

// Renderer 当前渲染器
func (a *App) Renderer() *overlay.Renderer {
	return a.renderer
}

// Startup 加载上次使用的配置档，不存在时回退到 Default
func (a *App) Startup() error {
	name, err := a.store.LastUsed()
	if err != nil {
		a.log.Warn().Err(err).Msg("read last used profile")
		name = crosshair.DefaultProfileName
	}

	st, err := a.store.Load(name)
	if errors.Is(err, profile.ErrNotFound) && name != crosshair.DefaultProfileName {
		a.log.Info().Str("profile", name).Msg("last used profile missing, using Default")
		if err := a.store.SetLastUsed(crosshair.DefaultProfileName); err != nil {
			a.log.Warn().Err(err).Msg("reset last used profile")
		}
		st, err = profile.LoadOrDefault(a.store, crosshair.DefaultProfileName)
	} else if errors.Is(err, profile.ErrNotFound) {
		st, err = crosshair.DefaultSettings(name), nil
	}
	if err != nil {
		a.log.Error().Err(err).Str("profile", name).Msg("load profile")
		st = crosshair.DefaultSettings(name)
	}
	return a.ApplySettings(st)
}

// Do 把 fn 投递到控制器 goroutine；Run 退出后丢弃
func (a *App) Do(fn func()) {
	select {
	case a.actions <- fn:
	case <-a.done:
	}
}

// Run 事件循环，直到 ctx 取消；退出前隐藏并关闭呈现面
func (a *App) Run(ctx context.Context) error {
	defer close(a.done)

	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	a.Tick()
	for {
		select {
		case <-ctx.Done():
			if err := a.surface.Present(overlay.Hidden()); err != nil {
				a.log.Debug().Err(err).Msg("hide overlay")
			}
			if err := a.surface.Close(); err != nil {
				a.log.Warn().Err(err).Msg("close surface")
			}
			return nil
		case fn := <-a.actions:
			fn()
		case <-ticker.C:
			a.Tick()
		}
	}
}

// Tick 查询目标矩形并一次性呈现完整的帧
func (a *App) Tick() {
	f := a.Frame()
	if err := a.surface.Present(f); err != nil {
		a.log.Warn().Err(err).Msg("present frame")
	}
}

// Frame 根据当前设置与目标位置构造帧；禁用或目标缺失时为隐藏帧
func (a *App) Frame() overlay.Frame {
	if !a.settings.CrosshairEnabled {
		return overlay.Hidden()
	}
	rect, ok := a.provider.QueryTargetRect(target.ParseSelector(a.settings.SelectedGameWindow))
	if !ok || rect.Empty() {
		return overlay.Hidden()
	}

	w, h := a.renderer.Size()
	x, y := overlay.Position(rect, w, h)
	if a.img == nil {
		a.img = a.renderer.Rasterize()
	}
	return overlay.Frame{Visible: true, X: x, Y: y, Image: a.img}
}

// ApplySettings 校正设置并整体应用到渲染器
func (a *App) ApplySettings(s crosshair.Settings) error {
	if s.CustomData != nil {
		c := s.CustomData.Clone()
		s.CustomData = &c
	}
	s.Validate()
	if err := a.renderer.ApplySettings(s.SelectedColor, s.CrosshairThickness, s.CrosshairSize, s.CrosshairType, s.CustomData); err != nil {
		return fmt.Errorf("apply profile %s: %w", s.Name, err)
	}
	a.settings = s
	if s.CustomData != nil {
		a.custom = s.CustomData
	}
	a.img = nil
	a.log.Debug().
		Str("profile", s.Name).
		Stringer("type", s.CrosshairType).
		Float64("size", s.CrosshairSize).
		Float64("thickness", s.CrosshairThickness).
		Str("color", string(s.SelectedColor)).
		Msg("settings applied")
	return nil
}

func (a *App) rerender(err error) error {
	if err != nil {
		return err
	}
	a.img = nil
	return nil
}

// SetColor 修改内置准星颜色
func (a *App) SetColor(c crosshair.ColorName) error {
	if err := a.rerender(a.renderer.SetColor(c)); err != nil {
		return err
	}
	a.settings.SelectedColor = c
	return nil
}

// SetSize 修改尺寸
func (a *App) SetSize(size float64) error {
	if err := a.rerender(a.renderer.SetSize(size)); err != nil {
		return err
	}
	a.settings.CrosshairSize = size
	return nil
}

// SetThickness 修改线宽
func (a *App) SetThickness(t float64) error {
	if err := a.rerender(a.renderer.SetThickness(t)); err != nil {
		return err
	}
	a.settings.CrosshairThickness = t
	return nil
}

// SetType 切换准星类型
// Custom 且 custom 为空时沿用最近一次的自定义数据，没有则返回错误
func (a *App) SetType(t crosshair.CrosshairType, custom *crosshair.Profile) error {
	if t == crosshair.TypeCustom && custom == nil {
		custom = a.custom
	}
	if err := a.rerender(a.renderer.SetType(t, custom)); err != nil {
		return err
	}
	a.settings.CrosshairType = t
	a.settings.CustomData = a.renderer.State().Custom
	if a.settings.CustomData != nil {
		a.custom = a.settings.CustomData
	}
	return nil
}

// SetTarget 设置跟随的窗口标题片段，空串或 "Center on screen" 表示屏幕中心
func (a *App) SetTarget(sel string) {
	a.settings.SelectedGameWindow = target.ParseSelector(sel).String()
}

// SetEnabled 显示或隐藏准星
func (a *App) SetEnabled(on bool) {
	a.settings.CrosshairEnabled = on
}

// Toggle 切换显示状态，返回新状态
func (a *App) Toggle() bool {
	a.settings.CrosshairEnabled = !a.settings.CrosshairEnabled
	a.log.Info().Bool("enabled", a.settings.CrosshairEnabled).Msg("crosshair toggled")
	return a.settings.CrosshairEnabled
}
