package editor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"dotsight/internal/crosshair"
)

// SetPosition 设置起点（模型坐标）。直线的终点随之平移，保持方向与长度
func (e *Editor) SetPosition(x, y float64) error {
	el := e.selectedElem()
	if el == nil {
		return ErrNoSelection
	}
	if el.Kind == crosshair.ShapeLine {
		dx, dy := x-el.X1, y-el.Y1
		el.X2 += dx
		el.Y2 += dy
	}
	el.X1, el.Y1 = x, y
	return nil
}

// SetEndPosition 设置直线终点
func (e *Editor) SetEndPosition(x2, y2 float64) error {
	el := e.selectedElem()
	if el == nil {
		return ErrNoSelection
	}
	if el.Kind != crosshair.ShapeLine {
		return ErrNotALine
	}
	el.X2, el.Y2 = x2, y2
	return nil
}

// SetSize 设置圆/矩形的宽高
func (e *Editor) SetSize(w, h float64) error {
	el := e.selectedElem()
	if el == nil {
		return ErrNoSelection
	}
	if el.Kind == crosshair.ShapeLine {
		return ErrNotAShape
	}
	if w < 0 || h < 0 {
		return &crosshair.ValidationError{Field: "size", Value: fmt.Sprintf("%gx%g", w, h), Reason: "must be >= 0"}
	}
	el.Width, el.Height = w, h
	return nil
}

// SetThickness 设置线宽
func (e *Editor) SetThickness(t float64) error {
	el := e.selectedElem()
	if el == nil {
		return ErrNoSelection
	}
	if t < 0 || math.IsNaN(t) {
		return &crosshair.ValidationError{Field: "thickness", Value: fmt.Sprint(t), Reason: "must be >= 0"}
	}
	el.Thickness = t
	return nil
}

// SetColor 设置颜色
func (e *Editor) SetColor(c crosshair.ColorName) error {
	el := e.selectedElem()
	if el == nil {
		return ErrNoSelection
	}
	if !c.Valid() {
		return &crosshair.ValidationError{Field: "color", Value: string(c), Reason: "not in palette"}
	}
	el.Color = c
	return nil
}

// SetFilled 设置是否填充，对直线无效
func (e *Editor) SetFilled(filled bool) error {
	el := e.selectedElem()
	if el == nil {
		return ErrNoSelection
	}
	if el.Kind != crosshair.ShapeLine {
		el.Filled = filled
	}
	return nil
}

// Field 属性面板中的数值字段
type Field int

const (
	FieldX Field = iota
	FieldY
	FieldX2
	FieldY2
	FieldWidth
	FieldHeight
	FieldThickness
)

var fieldName = map[Field]string{
	FieldX:         "x",
	FieldY:         "y",
	FieldX2:        "x2",
	FieldY2:        "y2",
	FieldWidth:     "width",
	FieldHeight:    "height",
	FieldThickness: "thickness",
}

func (f Field) String() string {
	if s, ok := fieldName[f]; ok {
		return s
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Properties 选中元素的属性快照
type Properties struct {
	ID        ElementID
	Kind      crosshair.ShapeKind
	X, Y      float64
	X2, Y2    float64
	Width     float64
	Height    float64
	Thickness float64
	Color     crosshair.ColorName
	Filled    bool

	// 面板可见性
	ShowEnd  bool
	ShowSize bool
	ShowFill bool
}

// Fields 当前元素可编辑的字段，按面板顺序
func (p Properties) Fields() []Field {
	fs := []Field{FieldX, FieldY}
	if p.ShowEnd {
		fs = append(fs, FieldX2, FieldY2)
	}
	if p.ShowSize {
		fs = append(fs, FieldWidth, FieldHeight)
	}
	return append(fs, FieldThickness)
}

// Value 字段当前值
func (p Properties) Value(f Field) float64 {
	switch f {
	case FieldX:
		return p.X
	case FieldY:
		return p.Y
	case FieldX2:
		return p.X2
	case FieldY2:
		return p.Y2
	case FieldWidth:
		return p.Width
	case FieldHeight:
		return p.Height
	case FieldThickness:
		return p.Thickness
	}
	return 0
}

// Properties 返回选中元素的属性；没有选中时 ok 为 false
func (e *Editor) Properties() (Properties, bool) {
	el := e.selectedElem()
	if el == nil {
		return Properties{}, false
	}
	isLine := el.Kind == crosshair.ShapeLine
	return Properties{
		ID:        e.selected,
		Kind:      el.Kind,
		X:         el.X1,
		Y:         el.Y1,
		X2:        el.X2,
		Y2:        el.Y2,
		Width:     el.Width,
		Height:    el.Height,
		Thickness: el.Thickness,
		Color:     el.Color,
		Filled:    el.Filled,
		ShowEnd:   isLine,
		ShowSize:  !isLine,
		ShowFill:  !isLine,
	}, true
}

// ApplyText 解析文本并写入字段；解析失败时元素保持不变
func (e *Editor) ApplyText(f Field, text string) error {
	props, ok := e.Properties()
	if !ok {
		return ErrNoSelection
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return &crosshair.ValidationError{Field: f.String(), Value: text, Reason: "not a number"}
	}

	switch f {
	case FieldX:
		return e.SetPosition(v, props.Y)
	case FieldY:
		return e.SetPosition(props.X, v)
	case FieldX2:
		return e.SetEndPosition(v, props.Y2)
	case FieldY2:
		return e.SetEndPosition(props.X2, v)
	case FieldWidth:
		return e.SetSize(v, props.Height)
	case FieldHeight:
		return e.SetSize(props.Width, v)
	case FieldThickness:
		return e.SetThickness(v)
	}
	return &crosshair.ValidationError{Field: f.String(), Value: text, Reason: "unknown field"}
}
