package tray

import (
	"bytes"
	"encoding/binary"
	"image"

	"dotsight/internal/crosshair"
	"dotsight/internal/overlay"
)

const iconSize = 16

// iconImage 用覆盖层渲染器画一个 16x16 的红色经典准星
func iconImage() *image.RGBA {
	r := overlay.NewRenderer(iconSize, iconSize)
	_ = r.ApplySettings(crosshair.Red, 2, 7, crosshair.TypeClassic, nil)
	return r.Rasterize()
}

// getIcon 托盘图标（ICO 格式）
func getIcon() []byte {
	return encodeICO(iconImage())
}

// encodeICO 把图像写成单帧 32 位 ICO
func encodeICO(img *image.RGBA) []byte {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	pixels := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			idx := ((height-1-y)*width + x) * 4 // ICO是从下往上的
			// RGBA 为预乘值，ICO 需要直通 alpha
			if c.A > 0 && c.A < 0xFF {
				c.R = uint8(uint32(c.R) * 0xFF / uint32(c.A))
				c.G = uint8(uint32(c.G) * 0xFF / uint32(c.A))
				c.B = uint8(uint32(c.B) * 0xFF / uint32(c.A))
			}
			pixels[idx+0] = c.B
			pixels[idx+1] = c.G
			pixels[idx+2] = c.R
			pixels[idx+3] = c.A
		}
	}

	// AND 掩码每行按 4 字节对齐；32 位图像用 alpha，掩码全 0
	maskStride := ((width + 31) / 32) * 4
	mask := make([]byte, maskStride*height)

	const headerSize, entrySize, bmpHeaderSize = 6, 16, 40
	imageSize := bmpHeaderSize + len(pixels) + len(mask)

	var buf bytes.Buffer
	le := binary.LittleEndian
	// ICONDIR
	_ = binary.Write(&buf, le, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.Write([]byte{byte(width), byte(height), 0, 0})
	_ = binary.Write(&buf, le, [2]uint16{1, 32})
	_ = binary.Write(&buf, le, [2]uint32{uint32(imageSize), headerSize + entrySize})
	// BITMAPINFOHEADER，高度为 XOR + AND 两部分
	_ = binary.Write(&buf, le, struct {
		Size          uint32
		Width, Height int32
		Planes, Bits  uint16
		Rest          [6]uint32
	}{Size: bmpHeaderSize, Width: int32(width), Height: int32(height * 2), Planes: 1, Bits: 32})
	buf.Write(pixels)
	buf.Write(mask)
	return buf.Bytes()
}
