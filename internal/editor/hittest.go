package editor

import (
	"dotsight/internal/crosshair"
	"dotsight/internal/geometry"
)

// hitFunc 判断模型坐标点是否落在元素上
type hitFunc func(el crosshair.Element, p geometry.Point) bool

var hitTesters = map[crosshair.ShapeKind]hitFunc{
	crosshair.ShapeLine:      hitLine,
	crosshair.ShapeCircle:    hitBox,
	crosshair.ShapeRectangle: hitBox,
}

func hitLine(el crosshair.Element, p geometry.Point) bool {
	a := geometry.Pt(el.X1, el.Y1)
	b := geometry.Pt(el.X2, el.Y2)
	return geometry.DistancePointToSegment(p, a, b) <= geometry.PickTolerance
}

// hitBox 圆与矩形都按外接矩形判断
func hitBox(el crosshair.Element, p geometry.Point) bool {
	tl := geometry.Pt(el.X1, el.Y1)
	return geometry.RectContains(&tl, el.Width, el.Height, p)
}

// HitTest 返回视图坐标 p 处最上层的非参考线元素
func (e *Editor) HitTest(p geometry.Point) (ElementID, bool) {
	m := e.ToModel(p)
	for i := len(e.entries) - 1; i >= 0; i-- {
		en := e.entries[i]
		if en.guide {
			continue
		}
		hit, ok := hitTesters[en.elem.Kind]
		if ok && hit(en.elem, m) {
			return en.id, true
		}
	}
	return 0, false
}

// SelectAt 选中 p 处的元素，未命中则取消选中
func (e *Editor) SelectAt(p geometry.Point) (ElementID, bool) {
	id, ok := e.HitTest(p)
	e.selected = id
	return id, ok
}
