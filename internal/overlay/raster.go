package overlay

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// kappa 四段三次贝塞尔逼近椭圆的控制点系数
const kappa = 0.5522847498

// Rasterize 把可见图元绘制到透明画布上
func (r *Renderer) Rasterize() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	for _, p := range r.Primitives() {
		DrawPrimitive(img, p)
	}
	return img
}

// DrawPrimitive 绘制单个图元，填充先于描边
func DrawPrimitive(img *image.RGBA, p Primitive) {
	if !p.Visible {
		return
	}
	switch p.Kind {
	case PrimLine:
		drawThickLine(img, p.X1, p.Y1, p.X2, p.Y2, p.Color, p.Stroke)
	case PrimRect:
		if p.Filled {
			fillPath(img, p.Color, rectPath(p.X, p.Y, p.W, p.H))
		}
		drawRectStroke(img, p.X, p.Y, p.W, p.H, p.Color, p.Stroke)
	case PrimEllipse:
		cx, cy := p.X+p.W/2, p.Y+p.H/2
		rx, ry := p.W/2, p.H/2
		if p.Filled {
			fillPath(img, p.Color, ellipsePath(cx, cy, rx, ry))
		}
		strokeEllipse(img, cx, cy, rx, ry, p.Color, p.Stroke)
	}
}

// ---------- 填充 ----------

type pathFunc func(z *vector.Rasterizer)

func rectPath(x, y, w, h float64) pathFunc {
	return func(z *vector.Rasterizer) {
		z.MoveTo(float32(x), float32(y))
		z.LineTo(float32(x+w), float32(y))
		z.LineTo(float32(x+w), float32(y+h))
		z.LineTo(float32(x), float32(y+h))
		z.ClosePath()
	}
}

func ellipsePath(cx, cy, rx, ry float64) pathFunc {
	ox, oy := rx*kappa, ry*kappa
	f := func(v float64) float32 { return float32(v) }
	return func(z *vector.Rasterizer) {
		z.MoveTo(f(cx+rx), f(cy))
		z.CubeTo(f(cx+rx), f(cy+oy), f(cx+ox), f(cy+ry), f(cx), f(cy+ry))
		z.CubeTo(f(cx-ox), f(cy+ry), f(cx-rx), f(cy+oy), f(cx-rx), f(cy))
		z.CubeTo(f(cx-rx), f(cy-oy), f(cx-ox), f(cy-ry), f(cx), f(cy-ry))
		z.CubeTo(f(cx+ox), f(cy-ry), f(cx+rx), f(cy-oy), f(cx+rx), f(cy))
		z.ClosePath()
	}
}

// fillPath 用覆盖率栅格化器填充路径，以 Over 方式叠加到画布
func fillPath(img *image.RGBA, c color.RGBA, path pathFunc) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	path(z)
	z.Draw(img, b, image.NewUniform(c), image.Point{})
}

// ---------- 描边 ----------

// drawRectStroke 四条边各画一条粗线
func drawRectStroke(img *image.RGBA, x, y, w, h float64, c color.RGBA, width float64) {
	drawThickLine(img, x, y, x+w, y, c, width)
	drawThickLine(img, x, y+h, x+w, y+h, c, width)
	drawThickLine(img, x, y, x, y+h, c, width)
	drawThickLine(img, x+w, y, x+w, y+h, c, width)
}

// drawThickLine 按像素中心到线段的距离绘制抗锯齿粗线，端点为圆头
func drawThickLine(img *image.RGBA, x1, y1, x2, y2 float64, c color.RGBA, width float64) {
	if width <= 0 {
		return
	}
	halfW := math.Max(width/2, 0.75)

	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length < 0.5 {
		drawFilledCircleAA(img, x1, y1, halfW, c)
		return
	}

	ux, uy := dx/length, dy/length
	nx, ny := -uy, ux

	margin := halfW + 2
	bx0 := int(math.Floor(math.Min(x1, x2) - margin))
	bx1 := int(math.Ceil(math.Max(x1, x2) + margin))
	by0 := int(math.Floor(math.Min(y1, y2) - margin))
	by1 := int(math.Ceil(math.Max(y1, y2) + margin))
	bx0, by0, bx1, by1 = clipBox(img, bx0, by0, bx1, by1)

	for py := by0; py <= by1; py++ {
		fy := float64(py) + 0.5
		for px := bx0; px <= bx1; px++ {
			fx := float64(px) + 0.5
			vx, vy := fx-x1, fy-y1
			along := vx*ux + vy*uy

			var dist float64
			switch {
			case along <= 0:
				dist = math.Hypot(vx, vy)
			case along >= length:
				dist = math.Hypot(fx-x2, fy-y2)
			default:
				dist = math.Abs(vx*nx + vy*ny)
			}
			renderAAPixel(img, px, py, c, dist, halfW)
		}
	}
}

// strokeEllipse 按到椭圆边的近似距离绘制环带
func strokeEllipse(img *image.RGBA, cx, cy, rx, ry float64, c color.RGBA, width float64) {
	if width <= 0 || rx <= 0 || ry <= 0 {
		return
	}
	halfW := math.Max(width/2, 0.75)

	outerRx, outerRy := rx+halfW+1.5, ry+halfW+1.5
	innerRx, innerRy := rx-halfW-1.5, ry-halfW-1.5

	bx0, by0, bx1, by1 := clipBox(img,
		int(math.Floor(cx-outerRx)), int(math.Floor(cy-outerRy)),
		int(math.Ceil(cx+outerRx)), int(math.Ceil(cy+outerRy)))

	for py := by0; py <= by1; py++ {
		fy := float64(py) + 0.5
		dyf := fy - cy
		for px := bx0; px <= bx1; px++ {
			fx := float64(px) + 0.5
			dxf := fx - cx

			if (dxf*dxf)/(outerRx*outerRx)+(dyf*dyf)/(outerRy*outerRy) > 1 {
				continue
			}
			if innerRx > 0 && innerRy > 0 &&
				(dxf*dxf)/(innerRx*innerRx)+(dyf*dyf)/(innerRy*innerRy) < 1 {
				continue
			}

			renderAAPixel(img, px, py, c, ellipsePointDist(fx, fy, cx, cy, rx, ry), halfW)
		}
	}
}

// ellipsePointDist 点到椭圆边的径向近似距离
func ellipsePointDist(px, py, cx, cy, rx, ry float64) float64 {
	dx := (px - cx) / rx
	dy := (py - cy) / ry
	r := math.Hypot(dx, dy)
	if r < 0.001 {
		return math.Min(rx, ry)
	}
	t := 1.0 / r
	ex := cx + rx*dx*t
	ey := cy + ry*dy*t
	return math.Hypot(px-ex, py-ey)
}

// drawFilledCircleAA 抗锯齿实心圆
func drawFilledCircleAA(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	bx0, by0, bx1, by1 := clipBox(img,
		int(math.Floor(cx-r-2)), int(math.Floor(cy-r-2)),
		int(math.Ceil(cx+r+2)), int(math.Ceil(cy+r+2)))
	for py := by0; py <= by1; py++ {
		for px := bx0; px <= bx1; px++ {
			dist := math.Hypot(float64(px)+0.5-cx, float64(py)+0.5-cy)
			renderAAPixel(img, px, py, c, dist, r)
		}
	}
}

// renderAAPixel 根据距离渲染抗锯齿像素
func renderAAPixel(img *image.RGBA, x, y int, c color.RGBA, dist, halfW float64) {
	if dist > halfW+0.5 {
		return
	}
	if dist <= halfW-0.5 {
		setPixelBlend(img, x, y, c)
		return
	}
	frac := halfW + 0.5 - dist
	setPixelBlend(img, x, y, color.RGBA{c.R, c.G, c.B, uint8(float64(c.A) * frac)})
}

// setPixelBlend 以预乘 alpha 的 Over 方式写入像素，越界忽略
func setPixelBlend(img *image.RGBA, x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) || c.A == 0 {
		return
	}
	off := img.PixOffset(x, y)
	if c.A == 255 {
		img.Pix[off+0] = c.R
		img.Pix[off+1] = c.G
		img.Pix[off+2] = c.B
		img.Pix[off+3] = 255
		return
	}

	a := uint32(c.A)
	inv := 255 - a
	img.Pix[off+0] = uint8((uint32(c.R)*a + uint32(img.Pix[off+0])*inv) / 255)
	img.Pix[off+1] = uint8((uint32(c.G)*a + uint32(img.Pix[off+1])*inv) / 255)
	img.Pix[off+2] = uint8((uint32(c.B)*a + uint32(img.Pix[off+2])*inv) / 255)
	img.Pix[off+3] = uint8(a + uint32(img.Pix[off+3])*inv/255)
}

// clipBox 把扫描范围裁剪到画布内（含两端）
func clipBox(img *image.RGBA, x0, y0, x1, y1 int) (int, int, int, int) {
	b := img.Bounds()
	return max(x0, b.Min.X), max(y0, b.Min.Y), min(x1, b.Max.X-1), min(y1, b.Max.Y-1)
}
