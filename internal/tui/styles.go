package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"dotsight/internal/crosshair"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	errorFg   = lipgloss.Color("#F87171")
	borderCol = lipgloss.Color("#243141")

	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	textStyle  = lipgloss.NewStyle().Foreground(baseFg)
	errorStyle = lipgloss.NewStyle().Foreground(errorFg).Bold(true)
	fieldStyle = lipgloss.NewStyle().Foreground(accentFg)
)

// guideInk 参考线的颜色键
const guideInk = "guide"

var inkStyles = map[string]lipgloss.Style{}

// inkStyle 颜色键到样式，选中元素加下划线
func inkStyle(ink string, selected bool) lipgloss.Style {
	key := fmt.Sprintf("%s/%t", ink, selected)
	if s, ok := inkStyles[key]; ok {
		return s
	}
	s := dimStyle
	if ink != guideInk {
		c := crosshair.ColorName(ink).RGBA()
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)))
	}
	if selected {
		s = s.Bold(true).Underline(true)
	}
	inkStyles[key] = s
	return s
}
