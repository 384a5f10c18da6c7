// Package editor 实现准星形状编辑器：元素注册表、选中、命中测试、拖拽与属性同步
//
// 指针输入使用视图坐标（画布左上角为原点），存储的元素使用模型坐标
// （准星中心为原点）。两者相差画布中心，导出时元素原样输出。
package editor

import (
	"errors"

	"dotsight/internal/crosshair"
	"dotsight/internal/geometry"
)

// ElementID 元素句柄，从 1 开始递增且不复用，0 表示无
type ElementID uint64

// DefaultCanvasSize 默认画布边长
const DefaultCanvasSize = 400.0

var (
	// ErrNoSelection 没有选中元素
	ErrNoSelection = errors.New("no element selected")
	// ErrNotALine 操作仅适用于直线
	ErrNotALine = errors.New("selected element is not a line")
	// ErrNotAShape 操作仅适用于圆/矩形
	ErrNotAShape = errors.New("selected element has no size")
)

// entry 注册表中的一项
type entry struct {
	id    ElementID
	elem  crosshair.Element
	guide bool // 构造时放置的参考线，不参与命中、拖拽与导出
}

// Editor 编辑会话
type Editor struct {
	width  float64
	height float64

	entries []entry // 绘制顺序，后者在上
	nextID  ElementID

	selected     ElementID
	defaultColor crosshair.ColorName

	// 拖拽状态
	dragging bool
	dragLast geometry.Point
}

// Option 编辑器选项
type Option func(*Editor)

// WithCanvasSize 设置画布尺寸
func WithCanvasSize(w, h float64) Option {
	return func(e *Editor) {
		if w > 0 && h > 0 {
			e.width, e.height = w, h
		}
	}
}

// WithDefaultColor 设置新元素的默认颜色
func WithDefaultColor(c crosshair.ColorName) Option {
	return func(e *Editor) {
		if c.Valid() {
			e.defaultColor = c
		}
	}
}

// New 创建编辑器，并放置穿过中心的横竖两条参考线
func New(opts ...Option) *Editor {
	e := &Editor{
		width:        DefaultCanvasSize,
		height:       DefaultCanvasSize,
		entries:      make([]entry, 0, 8),
		nextID:       1,
		defaultColor: crosshair.Red,
	}
	for _, opt := range opts {
		opt(e)
	}

	hw, hh := e.width/2, e.height/2
	e.insertGuide(crosshair.Element{Kind: crosshair.ShapeLine, X1: -hw, Y1: 0, X2: hw, Y2: 0, Thickness: 1, Color: crosshair.White})
	e.insertGuide(crosshair.Element{Kind: crosshair.ShapeLine, X1: 0, Y1: -hh, X2: 0, Y2: hh, Thickness: 1, Color: crosshair.White})

	return e
}

// CanvasSize 画布宽高
func (e *Editor) CanvasSize() (w, h float64) {
	return e.width, e.height
}

// ToModel 视图坐标转模型坐标
func (e *Editor) ToModel(p geometry.Point) geometry.Point {
	return p.Sub(geometry.Pt(e.width/2, e.height/2))
}

// ToView 模型坐标转视图坐标
func (e *Editor) ToView(p geometry.Point) geometry.Point {
	return p.Add(geometry.Pt(e.width/2, e.height/2))
}

// insert 追加元素并返回新句柄
func (e *Editor) insert(el crosshair.Element) ElementID {
	id := e.nextID
	e.nextID++
	e.entries = append(e.entries, entry{id: id, elem: el})
	return id
}

// insertGuide 追加参考线
func (e *Editor) insertGuide(el crosshair.Element) {
	e.entries = append(e.entries, entry{id: e.nextID, elem: el, guide: true})
	e.nextID++
}

// indexOf 查找句柄所在下标
func (e *Editor) indexOf(id ElementID) int {
	if id == 0 {
		return -1
	}
	for i := range e.entries {
		if e.entries[i].id == id {
			return i
		}
	}
	return -1
}

// selectedElem 返回选中元素的指针；没有选中时返回 nil
func (e *Editor) selectedElem() *crosshair.Element {
	i := e.indexOf(e.selected)
	if i < 0 {
		return nil
	}
	return &e.entries[i].elem
}

// SetDefaultColor 设置新建元素使用的颜色
func (e *Editor) SetDefaultColor(c crosshair.ColorName) error {
	if !c.Valid() {
		return &crosshair.ValidationError{Field: "color", Value: string(c), Reason: "not in palette"}
	}
	e.defaultColor = c
	return nil
}

// DefaultColor 当前默认颜色
func (e *Editor) DefaultColor() crosshair.ColorName {
	return e.defaultColor
}

// AddShape 以默认几何新建一个元素并选中它
func (e *Editor) AddShape(kind crosshair.ShapeKind) ElementID {
	el := crosshair.Element{Kind: kind, Thickness: 2, Color: e.defaultColor}

	switch kind {
	case crosshair.ShapeLine:
		el.X1, el.Y1 = -20, 0
		el.X2, el.Y2 = 20, 0
	default:
		el.Kind = shapeOrRect(kind)
		el.X1, el.Y1 = -20, -20
		el.Width, el.Height = 40, 40
	}

	id := e.insert(el)
	e.selected = id
	return id
}

// shapeOrRect 未知形状按矩形处理，保证 AddShape 总能成功
func shapeOrRect(kind crosshair.ShapeKind) crosshair.ShapeKind {
	if kind == crosshair.ShapeCircle {
		return kind
	}
	return crosshair.ShapeRectangle
}

// DeleteSelected 删除选中元素，没有选中时什么也不做
func (e *Editor) DeleteSelected() {
	i := e.indexOf(e.selected)
	if i >= 0 {
		e.entries = append(e.entries[:i], e.entries[i+1:]...)
	}
	e.selected = 0
	e.dragging = false
}

// ClearAll 删除除参考线外的所有元素
func (e *Editor) ClearAll() {
	kept := e.entries[:0]
	for _, en := range e.entries {
		if en.guide {
			kept = append(kept, en)
		}
	}
	e.entries = kept
	e.selected = 0
	e.dragging = false
}

// Select 直接选中指定元素；0 或参考线表示取消选中
func (e *Editor) Select(id ElementID) bool {
	i := e.indexOf(id)
	if i < 0 || e.entries[i].guide {
		e.selected = 0
		return false
	}
	e.selected = id
	return true
}

// Selected 当前选中元素
func (e *Editor) Selected() (ElementID, bool) {
	return e.selected, e.selected != 0
}

// Element 按句柄取元素副本
func (e *Editor) Element(id ElementID) (crosshair.Element, bool) {
	i := e.indexOf(id)
	if i < 0 {
		return crosshair.Element{}, false
	}
	return e.entries[i].elem, true
}

// View 绘制用的元素视图
type View struct {
	ID       ElementID
	Element  crosshair.Element
	Guide    bool
	Selected bool
}

// Elements 按绘制顺序返回所有元素（含参考线）
func (e *Editor) Elements() []View {
	out := make([]View, 0, len(e.entries))
	for _, en := range e.entries {
		out = append(out, View{
			ID:       en.id,
			Element:  en.elem,
			Guide:    en.guide,
			Selected: en.id == e.selected,
		})
	}
	return out
}

// Len 非参考线元素数量
func (e *Editor) Len() int {
	n := 0
	for _, en := range e.entries {
		if !en.guide {
			n++
		}
	}
	return n
}
