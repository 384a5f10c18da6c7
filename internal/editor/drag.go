package editor

import (
	"dotsight/internal/crosshair"
	"dotsight/internal/geometry"
)

// BeginDrag 以视图坐标 p 开始拖拽选中元素
// 上一次拖拽未结束时先隐式结束
func (e *Editor) BeginDrag(p geometry.Point) error {
	if e.dragging {
		e.EndDrag()
	}
	if e.selectedElem() == nil {
		return ErrNoSelection
	}
	e.dragging = true
	e.dragLast = p
	return nil
}

// UpdateDrag 按与上一点的差值平移选中元素；未在拖拽时忽略
func (e *Editor) UpdateDrag(p geometry.Point) {
	if !e.dragging {
		return
	}
	el := e.selectedElem()
	if el == nil {
		e.dragging = false
		return
	}

	translate(el, p.Sub(e.dragLast))
	e.dragLast = p
}

// EndDrag 结束拖拽
func (e *Editor) EndDrag() {
	e.dragging = false
}

// Dragging 是否正在拖拽
func (e *Editor) Dragging() bool {
	return e.dragging
}

// translate 平移元素：直线两端一起移动，其余形状移动锚点
func translate(el *crosshair.Element, d geometry.Point) {
	el.X1 += d.X
	el.Y1 += d.Y
	if el.Kind == crosshair.ShapeLine {
		el.X2 += d.X
		el.Y2 += d.Y
	}
}

// PointerDown 鼠标按下：选中命中元素并开始拖拽，返回是否命中
func (e *Editor) PointerDown(p geometry.Point) bool {
	if _, ok := e.SelectAt(p); !ok {
		e.EndDrag()
		return false
	}
	return e.BeginDrag(p) == nil
}

// PointerMove 鼠标移动
func (e *Editor) PointerMove(p geometry.Point) {
	e.UpdateDrag(p)
}

// PointerUp 鼠标抬起
func (e *Editor) PointerUp(geometry.Point) {
	e.EndDrag()
}
