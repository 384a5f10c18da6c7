package tui

import "math"

// brailleBuf 盲文点阵画布，每个单元格 2x4 个微像素
type brailleBuf struct {
	w, h int       // 单元格
	m    [][]uint8 // 每格 8 位点阵
	ink  [][]string
	sel  [][]bool
}

func newBrailleBuf(w, h int) *brailleBuf {
	b := &brailleBuf{w: w, h: h}
	b.m = make([][]uint8, h)
	b.ink = make([][]string, h)
	b.sel = make([][]bool, h)
	for i := 0; i < h; i++ {
		b.m[i] = make([]uint8, w)
		b.ink[i] = make([]string, w)
		b.sel[i] = make([]bool, w)
	}
	return b
}

// dotBits [列][行] 对应的盲文位
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// pen 当前绘制的颜色键与是否为选中元素
type pen struct {
	ink string
	sel bool
}

// setPixel 点亮微像素 (mx, my)，越界忽略
func (b *brailleBuf) setPixel(mx, my int, p pen) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= b.w || cy >= b.h {
		return
	}
	b.m[cy][cx] |= dotBits[mx%2][my%4]
	b.ink[cy][cx] = p.ink
	b.sel[cy][cx] = b.sel[cy][cx] || p.sel
}

// drawLineMicro Bresenham 画线
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, p pen) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, p)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawRectMicro 矩形边框，filled 时填充内部
func (b *brailleBuf) drawRectMicro(x0, y0, x1, y1 int, filled bool, p pen) {
	if filled {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				b.setPixel(x, y, p)
			}
		}
		return
	}
	b.drawLineMicro(x0, y0, x1, y0, p)
	b.drawLineMicro(x1, y0, x1, y1, p)
	b.drawLineMicro(x1, y1, x0, y1, p)
	b.drawLineMicro(x0, y1, x0, y0, p)
}

// drawEllipseMicro 以 (cx, cy) 为中心、半轴 rx、ry（微像素）画椭圆
func (b *brailleBuf) drawEllipseMicro(cx, cy, rx, ry float64, filled bool, p pen) {
	if filled {
		for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
			for x := int(math.Floor(cx - rx)); x <= int(math.Ceil(cx+rx)); x++ {
				dx, dy := (float64(x)+0.5-cx)/rx, (float64(y)+0.5-cy)/ry
				if rx > 0 && ry > 0 && dx*dx+dy*dy <= 1 {
					b.setPixel(x, y, p)
				}
			}
		}
	}

	steps := int(math.Max(16, 2*math.Pi*math.Max(rx, ry)))
	px, py := int(math.Floor(cx+rx)), int(math.Floor(cy))
	for i := 1; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x, y := int(math.Floor(cx+rx*math.Cos(a))), int(math.Floor(cy+ry*math.Sin(a)))
		b.drawLineMicro(px, py, x, y, p)
		px, py = x, y
	}
}

func (b *brailleBuf) cell(x, y int) rune {
	if b.m[y][x] == 0 {
		return ' '
	}
	return rune(0x2800 + int(b.m[y][x]))
}

// toLines 无样式的文本行
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]rune, b.w)
		for x := 0; x < b.w; x++ {
			row[x] = b.cell(x, y)
		}
		out[y] = string(row)
	}
	return out
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
