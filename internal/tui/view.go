package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dotsight/internal/crosshair"
	"dotsight/internal/geometry"
)

const helpText = "l/c/r add  d delete  x clear  1-7 colour  f fill  +/- thickness  tab field  enter apply  s save  q quit"

func (m Model) View() string {
	header := titleStyle.Render("DotSight editor") + dimStyle.Render("  profile: "+m.settings.Name)

	canvas := boxStyle.Render(m.renderCanvas())
	props := boxStyle.Render(m.renderProps())
	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, " ", props)

	status := textStyle.Render(m.status)
	if m.failed {
		status = errorStyle.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, dimStyle.Render(helpText))
}

// drawCanvas 把编辑器元素画到盲文画布
func (m Model) drawCanvas() *brailleBuf {
	b := newBrailleBuf(m.cols, m.rows)
	for _, v := range m.ed.Elements() {
		p := pen{ink: string(v.Element.Color), sel: v.Selected}
		if v.Guide {
			p = pen{ink: guideInk}
		}
		m.drawElement(b, v.Element, p)
	}
	return b
}

func (m Model) drawElement(b *brailleBuf, el crosshair.Element, p pen) {
	tl := m.ed.ToView(geometry.Pt(el.X1, el.Y1))
	switch el.Kind {
	case crosshair.ShapeLine:
		x0, y0 := m.toMicro(tl)
		x1, y1 := m.toMicro(m.ed.ToView(geometry.Pt(el.X2, el.Y2)))
		b.drawLineMicro(x0, y0, x1, y1, p)
	case crosshair.ShapeRectangle:
		x0, y0 := m.toMicro(tl)
		x1, y1 := m.toMicro(tl.Add(geometry.Pt(el.Width, el.Height)))
		b.drawRectMicro(x0, y0, x1, y1, el.Filled, p)
	case crosshair.ShapeCircle:
		rx, ry := el.Width/2/m.scale, el.Height/2/m.scale
		b.drawEllipseMicro(tl.X/m.scale+rx, tl.Y/m.scale+ry, rx, ry, el.Filled, p)
	}
}

// renderCanvas 按颜色分段输出每一行
func (m Model) renderCanvas() string {
	b := m.drawCanvas()
	lines := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		for x := 0; x < b.w; {
			ink, sel := b.ink[y][x], b.sel[y][x]
			var run []rune
			for ; x < b.w && b.ink[y][x] == ink && b.sel[y][x] == sel; x++ {
				run = append(run, b.cell(x, y))
			}
			if ink == "" {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(inkStyle(ink, sel).Render(string(run)))
			}
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// renderProps 属性面板
func (m Model) renderProps() string {
	rows := []string{titleStyle.Render("Properties")}

	props, ok := m.ed.Properties()
	if !ok {
		rows = append(rows, dimStyle.Render("no selection"))
		rows = append(rows, "", dimStyle.Render(fmt.Sprintf("elements: %d", m.ed.Len())))
		rows = append(rows, dimStyle.Render("colour: "+string(m.ed.DefaultColor())))
		return strings.Join(rows, "\n")
	}

	rows = append(rows, textStyle.Render(props.Kind.String()))
	fs := props.Fields()
	for i, f := range fs {
		label := fmt.Sprintf("%-9s %s", f, formatValue(props.Value(f)))
		if m.input.Focused() && i == m.field%len(fs) {
			rows = append(rows, fieldStyle.Render(fmt.Sprintf("%-9s ", f))+m.input.View())
			continue
		}
		rows = append(rows, textStyle.Render(label))
	}
	rows = append(rows, textStyle.Render(fmt.Sprintf("%-9s %s", "colour", props.Color)))
	if props.ShowFill {
		rows = append(rows, textStyle.Render(fmt.Sprintf("%-9s %t", "filled", props.Filled)))
	}
	return strings.Join(rows, "\n")
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

