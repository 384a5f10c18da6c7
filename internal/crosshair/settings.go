package crosshair

import (
	"fmt"
	"math"
	"strings"
)

// CrosshairType 准星类型
type CrosshairType int

const (
	TypeClassic CrosshairType = iota // 四线 + 圆
	TypeDot                          // 仅圆点
	TypeCross                        // 十字
	TypeTShape                       // T 形
	TypeCustom                       // 自定义元素
)

// TypeName 类型名称（持久化用）
var TypeName = map[CrosshairType]string{
	TypeClassic: "Classic",
	TypeDot:     "Dot",
	TypeCross:   "Cross",
	TypeTShape:  "TShape",
	TypeCustom:  "Custom",
}

// Types 所有类型，按界面顺序
var Types = []CrosshairType{TypeClassic, TypeDot, TypeCross, TypeTShape, TypeCustom}

func (t CrosshairType) String() string {
	if s, ok := TypeName[t]; ok {
		return s
	}
	return fmt.Sprintf("CrosshairType(%d)", int(t))
}

// Valid 是否为已知类型
func (t CrosshairType) Valid() bool {
	_, ok := TypeName[t]
	return ok
}

// ParseCrosshairType 解析类型名（不区分大小写，便于命令行输入）
func ParseCrosshairType(s string) (CrosshairType, error) {
	for t, name := range TypeName {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return 0, &ValidationError{Field: "crosshairType", Value: s, Reason: "unknown type"}
}

// MarshalText 以名称序列化
func (t CrosshairType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid crosshair type %d", int(t))
	}
	return []byte(TypeName[t]), nil
}

// UnmarshalText 解析名称
func (t *CrosshairType) UnmarshalText(b []byte) error {
	v, err := ParseCrosshairType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// CenterOnScreen 目标窗口的特殊值：居中于屏幕
const CenterOnScreen = "Center on screen"

// DefaultProfileName 受保护的默认配置名
const DefaultProfileName = "Default"

// CustomProfileName 未命名自定义准星的名称
const CustomProfileName = "Custom"

// 尺寸与粗细的取值范围
const (
	MinSize      = 1.0
	MaxSize      = 200.0
	MinThickness = 0.0
	MaxThickness = 20.0
)

// Settings 持久化的配置档记录
type Settings struct {
	Name               string        `json:"name" yaml:"name"`
	CrosshairEnabled   bool          `json:"crosshairEnabled" yaml:"crosshairEnabled"`
	SelectedGameWindow string        `json:"selectedGameWindow" yaml:"selectedGameWindow"`
	SelectedColor      ColorName     `json:"selectedColor" yaml:"selectedColor"`
	CrosshairThickness float64       `json:"crosshairThickness" yaml:"crosshairThickness"`
	CrosshairSize      float64       `json:"crosshairSize" yaml:"crosshairSize"`
	CrosshairType      CrosshairType `json:"crosshairType" yaml:"crosshairType"`
	CustomData         *Profile      `json:"customCrosshairData,omitempty" yaml:"customCrosshairData,omitempty"`
}

// DefaultSettings 返回指定名称的默认配置
func DefaultSettings(name string) Settings {
	if name == "" {
		name = DefaultProfileName
	}
	return Settings{
		Name:               name,
		CrosshairEnabled:   true,
		SelectedGameWindow: CenterOnScreen,
		SelectedColor:      Red,
		CrosshairThickness: 2,
		CrosshairSize:      20,
		CrosshairType:      TypeClassic,
	}
}

// Validate 验证并修正配置值
func (s *Settings) Validate() {
	defaults := DefaultSettings(s.Name)

	if !s.SelectedColor.Valid() {
		s.SelectedColor = defaults.SelectedColor
	}

	if math.IsNaN(s.CrosshairSize) || s.CrosshairSize < MinSize || s.CrosshairSize > MaxSize {
		s.CrosshairSize = defaults.CrosshairSize
	}

	if math.IsNaN(s.CrosshairThickness) || s.CrosshairThickness < MinThickness || s.CrosshairThickness > MaxThickness {
		s.CrosshairThickness = defaults.CrosshairThickness
	}

	if strings.TrimSpace(s.SelectedGameWindow) == "" {
		s.SelectedGameWindow = defaults.SelectedGameWindow
	}

	if !s.CrosshairType.Valid() {
		s.CrosshairType = defaults.CrosshairType
	}

	// 自定义数据仅在 Custom 类型下保留
	if s.CrosshairType == TypeCustom {
		if s.CustomData == nil {
			s.CrosshairType = TypeClassic
		} else {
			if strings.TrimSpace(s.CustomData.Name) == "" {
				s.CustomData.Name = CustomProfileName
			}
			// 丢弃无法识别的形状
			kept := s.CustomData.Elements[:0]
			for _, e := range s.CustomData.Elements {
				if !e.Kind.Valid() {
					continue
				}
				e.Color = ColorNameOr(string(e.Color), Red)
				if math.IsNaN(e.Thickness) || e.Thickness < 0 {
					e.Thickness = 0
				}
				kept = append(kept, e)
			}
			s.CustomData.Elements = kept
		}
	} else {
		s.CustomData = nil
	}
}

// AppConfig 应用级配置
type AppConfig struct {
	LastUsedProfile string `json:"lastUsedProfile" yaml:"lastUsedProfile"`
}
