// Package overlay 把准星配置投影为可绘制的图元，并栅格化为透明帧
package overlay

import (
	"fmt"
	"image/color"
	"math"

	"dotsight/internal/crosshair"
	"dotsight/internal/geometry"
)

// 默认覆盖层画布尺寸
const (
	DefaultWidth  = 200
	DefaultHeight = 200
)

// PrimitiveKind 图元类型
type PrimitiveKind int

const (
	PrimLine    PrimitiveKind = iota // 线段
	PrimEllipse                      // 椭圆（外接矩形）
	PrimRect                         // 矩形
)

// Primitive 覆盖层画布坐标下的单个图元
type Primitive struct {
	Kind PrimitiveKind

	// 线段端点
	X1, Y1, X2, Y2 float64
	// 椭圆/矩形外接框
	X, Y, W, H float64

	Stroke  float64
	Color   color.RGBA
	Filled  bool
	Visible bool
}

// 内置图元槽位
const (
	LineTop = iota
	LineBottom
	LineLeft
	LineRight
	Circle
	builtinCount
)

// visibleSlots 各内置类型可见的槽位
var visibleSlots = map[crosshair.CrosshairType][builtinCount]bool{
	crosshair.TypeClassic: {true, true, true, true, true},
	crosshair.TypeDot:     {false, false, false, false, true},
	crosshair.TypeCross:   {true, true, true, true, false},
	crosshair.TypeTShape:  {true, false, true, true, false},
}

// RenderState 当前渲染参数；Custom 仅在 Type 为 Custom 时非空
type RenderState struct {
	Type      crosshair.CrosshairType
	Size      float64
	Thickness float64
	Color     crosshair.ColorName
	Custom    *crosshair.Profile
}

// Renderer 准星状态机
type Renderer struct {
	width, height int

	state    RenderState
	builtins [builtinCount]Primitive
	custom   []Primitive
}

// NewRenderer 创建 w×h 画布的渲染器，初始为默认配置的 Classic 准星
func NewRenderer(w, h int) *Renderer {
	if w <= 0 || h <= 0 {
		w, h = DefaultWidth, DefaultHeight
	}
	d := crosshair.DefaultSettings("")
	r := &Renderer{
		width:  w,
		height: h,
		state: RenderState{
			Type:      d.CrosshairType,
			Size:      d.CrosshairSize,
			Thickness: d.CrosshairThickness,
			Color:     d.SelectedColor,
		},
	}
	for i := range r.builtins {
		kind := PrimLine
		if i == Circle {
			kind = PrimEllipse
		}
		r.builtins[i].Kind = kind
	}
	r.applyVisibility()
	r.paintBuiltins()
	r.Layout()
	return r
}

// Size 画布宽高
func (r *Renderer) Size() (w, h int) {
	return r.width, r.height
}

func (r *Renderer) center() geometry.Point {
	return geometry.Pt(float64(r.width)/2, float64(r.height)/2)
}

// State 当前状态的副本
func (r *Renderer) State() RenderState {
	s := r.state
	if s.Custom != nil {
		c := s.Custom.Clone()
		s.Custom = &c
	}
	return s
}

// SetType 切换准星类型
// 内置类型之间只改变可见性；进入或离开 Custom 会整体替换图元集合
func (r *Renderer) SetType(t crosshair.CrosshairType, custom *crosshair.Profile) error {
	if err := checkType(t, custom); err != nil {
		return err
	}

	if t == crosshair.TypeCustom {
		c := custom.Clone()
		r.state.Type = t
		r.state.Custom = &c
		r.project()
		return nil
	}

	r.state.Type = t
	r.state.Custom = nil
	r.custom = nil
	r.applyVisibility()
	r.Layout()
	return nil
}

// SetColor 设置内置准星颜色
// 注意：自定义元素保留各自保存的颜色，不受此设置影响
func (r *Renderer) SetColor(c crosshair.ColorName) error {
	if err := checkColor(c); err != nil {
		return err
	}
	r.state.Color = c
	r.paintBuiltins()
	return nil
}

// SetThickness 设置线宽；内置圆的线宽为一半
func (r *Renderer) SetThickness(t float64) error {
	if err := checkThickness(t); err != nil {
		return err
	}
	r.state.Thickness = t
	r.paintBuiltins()
	r.project()
	return nil
}

// SetSize 设置尺寸并重新布局
func (r *Renderer) SetSize(s float64) error {
	if err := checkSize(s); err != nil {
		return err
	}
	r.state.Size = s
	r.Layout()
	r.project()
	return nil
}

// ApplySettings 依次应用颜色、线宽、尺寸与类型
// 先检查全部参数，任一参数无效时状态保持不变
func (r *Renderer) ApplySettings(c crosshair.ColorName, thickness, size float64, t crosshair.CrosshairType, custom *crosshair.Profile) error {
	for _, err := range []error{checkColor(c), checkThickness(thickness), checkSize(size), checkType(t, custom)} {
		if err != nil {
			return err
		}
	}

	if err := r.SetColor(c); err != nil {
		return err
	}
	if err := r.SetThickness(thickness); err != nil {
		return err
	}
	if err := r.SetSize(size); err != nil {
		return err
	}
	return r.SetType(t, custom)
}

func checkColor(c crosshair.ColorName) error {
	if !c.Valid() {
		return &crosshair.ValidationError{Field: "selectedColor", Value: string(c), Reason: "not in palette"}
	}
	return nil
}

func checkThickness(t float64) error {
	if math.IsNaN(t) || t < crosshair.MinThickness || t > crosshair.MaxThickness {
		return &crosshair.ValidationError{Field: "crosshairThickness", Value: fmt.Sprint(t), Reason: "out of range"}
	}
	return nil
}

func checkSize(s float64) error {
	if math.IsNaN(s) || s < crosshair.MinSize || s > crosshair.MaxSize {
		return &crosshair.ValidationError{Field: "crosshairSize", Value: fmt.Sprint(s), Reason: "out of range"}
	}
	return nil
}

// checkType Custom 类型需要有效的自定义数据
func checkType(t crosshair.CrosshairType, custom *crosshair.Profile) error {
	if !t.Valid() {
		return &crosshair.ValidationError{Field: "crosshairType", Value: t.String(), Reason: "unknown type"}
	}
	if t != crosshair.TypeCustom {
		return nil
	}
	if custom == nil {
		return &crosshair.ValidationError{Field: "customCrosshairData", Reason: "required for Custom"}
	}
	if err := custom.Validate(); err != nil {
		return fmt.Errorf("custom crosshair: %w", err)
	}
	return nil
}

// Layout 按尺寸重新计算可见内置图元的几何，隐藏的图元保持原样
func (r *Renderer) Layout() {
	c := r.center()
	s := r.state.Size

	set := func(i int, x1, y1, x2, y2 float64) {
		if !r.builtins[i].Visible {
			return
		}
		p := &r.builtins[i]
		p.X1, p.Y1, p.X2, p.Y2 = x1, y1, x2, y2
	}
	set(LineTop, c.X, c.Y-s, c.X, c.Y)
	set(LineBottom, c.X, c.Y, c.X, c.Y+s)
	set(LineLeft, c.X-s, c.Y, c.X, c.Y)
	set(LineRight, c.X, c.Y, c.X+s, c.Y)

	if p := &r.builtins[Circle]; p.Visible {
		p.X, p.Y = c.X-s/2, c.Y-s/2
		p.W, p.H = s, s
	}
}

func (r *Renderer) applyVisibility() {
	slots, ok := visibleSlots[r.state.Type]
	for i := range r.builtins {
		r.builtins[i].Visible = ok && slots[i]
	}
}

func (r *Renderer) paintBuiltins() {
	rgba := r.state.Color.RGBA()
	for i := range r.builtins {
		r.builtins[i].Color = rgba
		r.builtins[i].Stroke = r.state.Thickness
	}
	r.builtins[Circle].Stroke = r.state.Thickness / 2
}

// project 从保存的配置重新投影自定义元素
func (r *Renderer) project() {
	if r.state.Custom == nil {
		return
	}
	c := r.center()
	size := r.state.Size

	out := make([]Primitive, 0, len(r.state.Custom.Elements))
	for _, el := range r.state.Custom.Elements {
		p := Primitive{
			Stroke:  geometry.ScaleThickness(el.Thickness, r.state.Thickness),
			Color:   el.Color.RGBA(),
			Visible: true,
		}
		switch el.Kind {
		case crosshair.ShapeLine:
			p.Kind = PrimLine
			p.X1 = c.X + geometry.Scale(el.X1, size)
			p.Y1 = c.Y + geometry.Scale(el.Y1, size)
			p.X2 = c.X + geometry.Scale(el.X2, size)
			p.Y2 = c.Y + geometry.Scale(el.Y2, size)
		case crosshair.ShapeCircle, crosshair.ShapeRectangle:
			p.Kind = PrimRect
			if el.Kind == crosshair.ShapeCircle {
				p.Kind = PrimEllipse
			}
			p.X = c.X + geometry.Scale(el.X1, size)
			p.Y = c.Y + geometry.Scale(el.Y1, size)
			p.W = geometry.Scale(el.Width, size)
			p.H = geometry.Scale(el.Height, size)
			p.Filled = el.Filled
		default:
			continue
		}
		out = append(out, p)
	}
	r.custom = out
}

// Primitives 按绘制顺序返回可见图元
func (r *Renderer) Primitives() []Primitive {
	if r.state.Type == crosshair.TypeCustom {
		out := make([]Primitive, len(r.custom))
		copy(out, r.custom)
		return out
	}
	out := make([]Primitive, 0, builtinCount)
	for _, p := range r.builtins {
		if p.Visible {
			out = append(out, p)
		}
	}
	return out
}

// Builtin 返回指定槽位的内置图元（含隐藏的）
func (r *Renderer) Builtin(slot int) (Primitive, bool) {
	if slot < 0 || slot >= builtinCount {
		return Primitive{}, false
	}
	return r.builtins[slot], true
}
