// Package geometry 提供编辑器与叠加层共用的几何工具
package geometry

import "math"

// PickTolerance 直线命中容差（画布单位）
const PickTolerance = 5.0

// BaseSize 自定义准星的基准尺寸，尺寸参数等于它时不缩放
const BaseSize = 20.0

// Point 二维浮点坐标
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt 创建 Point
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add 向量加
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub 向量减
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Distance 两点欧氏距离
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// DistancePointToSegment 点 p 到线段 a-b 的最短距离
// 投影参数 t 截断到 [0,1]；a == b 时退化为点距
func DistancePointToSegment(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	proj := Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return p.Distance(proj)
}

// RectContains 轴对齐包含测试（边界包含在内）
// topLeft 为 nil 表示元素尚未定位，总是返回 false
func RectContains(topLeft *Point, width, height float64, p Point) bool {
	if topLeft == nil {
		return false
	}
	return p.X >= topLeft.X && p.X <= topLeft.X+width &&
		p.Y >= topLeft.Y && p.Y <= topLeft.Y+height
}

// Scale 按尺寸参数线性缩放：value * currentSize / BaseSize
func Scale(value, currentSize float64) float64 {
	return value * currentSize / BaseSize
}

// ScaleThickness 线宽按粗细系数相乘缩放
func ScaleThickness(thickness, factor float64) float64 {
	return thickness * factor
}

// Rect 浮点矩形（左上角 + 宽高）
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center 矩形中心
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty 宽或高不为正
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// CenterIn 返回把 w×h 的盒子居中放到 target 上时的左上角
func CenterIn(target Rect, w, h float64) Point {
	c := target.Center()
	return Point{X: c.X - w/2, Y: c.Y - h/2}
}
