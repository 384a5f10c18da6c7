package editor

import (
	"fmt"
	"strings"

	"dotsight/internal/crosshair"
)

// ExportProfile 按绘制顺序导出非参考线元素
func (e *Editor) ExportProfile(name string) (crosshair.Profile, error) {
	if strings.TrimSpace(name) == "" {
		return crosshair.Profile{}, &crosshair.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	p := crosshair.Profile{Name: name, Elements: make([]crosshair.Element, 0, len(e.entries))}
	for _, en := range e.entries {
		if en.guide {
			continue
		}
		el := en.elem
		el.Normalize()
		p.Elements = append(p.Elements, el)
	}
	return p, nil
}

// ImportProfile 替换当前元素（保留参考线），每个元素获得新句柄
// 任一元素不合法时编辑器保持不变
func (e *Editor) ImportProfile(p crosshair.Profile) error {
	for i, el := range p.Elements {
		if err := el.Validate(); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}

	e.ClearAll()
	for _, el := range p.Elements {
		el.Normalize()
		e.insert(el)
	}
	return nil
}
