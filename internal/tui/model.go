// Package tui 在终端中运行准星编辑器
package tui

import (
	"math"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"dotsight/internal/crosshair"
	"dotsight/internal/editor"
	"dotsight/internal/geometry"
	"dotsight/internal/profile"
)

// DefaultScale 每个微像素对应的画布单位
const DefaultScale = 5.0

// 画布在屏幕上的原点：标题一行，边框与内边距
const (
	canvasOriginX = 2
	canvasOriginY = 2
)

// Options 编辑器宿主的参数
type Options struct {
	Settings crosshair.Settings // 被编辑的配置档，保存时写为 Custom 类型
	Store    profile.Store      // 为空时 s 键不可用
	Scale    float64
	Log      zerolog.Logger
}

// Model bubbletea 模型
type Model struct {
	ed       *editor.Editor
	store    profile.Store
	settings crosshair.Settings
	log      zerolog.Logger

	scale      float64
	cols, rows int

	width, height int

	field  int // 属性字段下标
	input  textinput.Model
	grab   geometry.Point // 按下点相对单元格中心的偏移
	status string
	failed bool
	saved  bool
}

// New 创建模型，ed 中已有的元素保持不变
func New(ed *editor.Editor, opts Options) Model {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	w, h := ed.CanvasSize()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 16
	ti.Width = 12

	settings := opts.Settings
	if settings.Name == "" {
		settings = crosshair.DefaultSettings("")
	}

	return Model{
		ed:       ed,
		store:    opts.Store,
		settings: settings,
		log:      opts.Log,
		scale:    scale,
		cols:     int(math.Ceil(w / (2 * scale))),
		rows:     int(math.Ceil(h / (4 * scale))),
		input:    ti,
		status:   "ready",
	}
}

// Init 无初始命令
func (m Model) Init() tea.Cmd { return nil }

// Editor 被宿主的编辑器
func (m Model) Editor() *editor.Editor { return m.ed }

// Settings 最近一次保存后的配置档
func (m Model) Settings() crosshair.Settings { return m.settings }

// Saved 本次会话是否保存过
func (m Model) Saved() bool { return m.saved }

// Status 状态栏文本与是否为错误
func (m Model) Status() (string, bool) { return m.status, m.failed }

// cellCentre 单元格中心的视图坐标
func (m Model) cellCentre(cx, cy int) geometry.Point {
	return geometry.Pt(float64(cx*2+1)*m.scale, float64(cy*4+2)*m.scale)
}

// cellPoints 单元格内用于命中测试的候选点：先中心，再各微像素中心
func (m Model) cellPoints(cx, cy int) []geometry.Point {
	pts := []geometry.Point{m.cellCentre(cx, cy)}
	for ry := 0; ry < 4; ry++ {
		for rx := 0; rx < 2; rx++ {
			pts = append(pts, geometry.Pt(
				(float64(cx*2+rx)+0.5)*m.scale,
				(float64(cy*4+ry)+0.5)*m.scale,
			))
		}
	}
	return pts
}

// toMicro 视图坐标到微像素
func (m Model) toMicro(p geometry.Point) (int, int) {
	return int(math.Floor(p.X / m.scale)), int(math.Floor(p.Y / m.scale))
}

// fields 当前选中元素可编辑的字段
func (m Model) fields() []editor.Field {
	props, ok := m.ed.Properties()
	if !ok {
		return nil
	}
	return props.Fields()
}

func (m *Model) setStatus(msg string) {
	m.status, m.failed = msg, false
}

func (m *Model) setError(err error) {
	m.status, m.failed = err.Error(), true
}
