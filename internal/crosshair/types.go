// Package crosshair 定义准星元素、配置档与持久化记录
package crosshair

import (
	"fmt"
	"image/color"
)

// ShapeKind 元素形状
type ShapeKind int

const (
	ShapeLine      ShapeKind = iota // 直线
	ShapeCircle                     // 圆/椭圆
	ShapeRectangle                  // 矩形
	ShapeCount                      // 形状总数（用于遍历）
)

// shapeTag 持久化时使用的类型标签（大小写敏感）
var shapeTag = map[ShapeKind]string{
	ShapeLine:      "Line",
	ShapeCircle:    "Circle",
	ShapeRectangle: "Rectangle",
}

func (k ShapeKind) String() string {
	if s, ok := shapeTag[k]; ok {
		return s
	}
	return fmt.Sprintf("ShapeKind(%d)", int(k))
}

// Valid 是否为已知形状
func (k ShapeKind) Valid() bool {
	_, ok := shapeTag[k]
	return ok
}

// ParseShapeKind 解析类型标签
func ParseShapeKind(s string) (ShapeKind, error) {
	for k, tag := range shapeTag {
		if tag == s {
			return k, nil
		}
	}
	return 0, &ValidationError{Field: "elementType", Value: s, Reason: "unknown shape"}
}

// MarshalText 以标签形式序列化
func (k ShapeKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid shape kind %d", int(k))
	}
	return []byte(shapeTag[k]), nil
}

// UnmarshalText 解析标签
func (k *ShapeKind) UnmarshalText(b []byte) error {
	v, err := ParseShapeKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ColorName 调色板颜色名
type ColorName string

const (
	Red     ColorName = "Red"
	Green   ColorName = "Green"
	Blue    ColorName = "Blue"
	Yellow  ColorName = "Yellow"
	White   ColorName = "White"
	Cyan    ColorName = "Cyan"
	Magenta ColorName = "Magenta"
)

// Palette 可选颜色，顺序即界面顺序
var Palette = []ColorName{Red, Green, Blue, Yellow, White, Cyan, Magenta}

var paletteRGBA = map[ColorName]color.RGBA{
	Red:     {255, 0, 0, 255},
	Green:   {0, 128, 0, 255},
	Blue:    {0, 0, 255, 255},
	Yellow:  {255, 255, 0, 255},
	White:   {255, 255, 255, 255},
	Cyan:    {0, 255, 255, 255},
	Magenta: {255, 0, 255, 255},
}

// Valid 是否在调色板内
func (c ColorName) Valid() bool {
	_, ok := paletteRGBA[c]
	return ok
}

// RGBA 颜色值；未知颜色按红色处理
func (c ColorName) RGBA() color.RGBA {
	if v, ok := paletteRGBA[c]; ok {
		return v
	}
	return paletteRGBA[Red]
}

// ParseColorName 严格解析颜色名
func ParseColorName(s string) (ColorName, error) {
	c := ColorName(s)
	if !c.Valid() {
		return "", &ValidationError{Field: "color", Value: s, Reason: "not in palette"}
	}
	return c, nil
}

// ColorNameOr 宽松解析，未知时返回 fallback
func ColorNameOr(s string, fallback ColorName) ColorName {
	if c, err := ParseColorName(s); err == nil {
		return c
	}
	return fallback
}

// Element 单个准星元素
// 坐标以准星中心为原点；圆/矩形的 (X1,Y1) 为左上角
type Element struct {
	Kind      ShapeKind `json:"elementType" yaml:"elementType"`
	X1        float64   `json:"x1" yaml:"x1"`
	Y1        float64   `json:"y1" yaml:"y1"`
	X2        float64   `json:"x2" yaml:"x2"`         // 仅直线
	Y2        float64   `json:"y2" yaml:"y2"`         // 仅直线
	Width     float64   `json:"width" yaml:"width"`   // 仅圆/矩形
	Height    float64   `json:"height" yaml:"height"` // 仅圆/矩形
	Thickness float64   `json:"thickness" yaml:"thickness"`
	Color     ColorName `json:"color" yaml:"color"`
	Filled    bool      `json:"isFilled" yaml:"isFilled"` // 直线忽略
}

// Normalize 清零当前形状不使用的字段
func (e *Element) Normalize() {
	switch e.Kind {
	case ShapeLine:
		e.Width, e.Height = 0, 0
		e.Filled = false
	case ShapeCircle, ShapeRectangle:
		e.X2, e.Y2 = 0, 0
	}
}

// Validate 检查形状、颜色与线宽
func (e Element) Validate() error {
	if !e.Kind.Valid() {
		return &ValidationError{Field: "elementType", Value: e.Kind.String(), Reason: "unknown shape"}
	}
	if !e.Color.Valid() {
		return &ValidationError{Field: "color", Value: string(e.Color), Reason: "not in palette"}
	}
	if e.Thickness < 0 {
		return &ValidationError{Field: "thickness", Value: fmt.Sprint(e.Thickness), Reason: "must be >= 0"}
	}
	return nil
}

// Profile 命名的自定义准星，元素顺序即绘制顺序（后者在上）
type Profile struct {
	Name     string    `json:"name" yaml:"name"`
	Elements []Element `json:"elements" yaml:"elements"`
}

// Clone 深拷贝
func (p Profile) Clone() Profile {
	c := Profile{Name: p.Name, Elements: make([]Element, len(p.Elements))}
	copy(c.Elements, p.Elements)
	return c
}

// Validate 检查名称与每个元素
func (p Profile) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	for i, e := range p.Elements {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}
