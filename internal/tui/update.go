package tui

import (
	"errors"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"dotsight/internal/crosshair"
	"dotsight/internal/editor"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateKey(msg)
	case tea.MouseMsg:
		m.updateMouse(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.input.Blur()
		m.setStatus("edit cancelled")
		return m, nil
	case "tab":
		m.nextField()
		return m, nil
	case "enter":
		fs := m.fields()
		if len(fs) == 0 {
			m.input.Blur()
			return m, nil
		}
		f := fs[m.field%len(fs)]
		if err := m.ed.ApplyText(f, m.input.Value()); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("%s = %s", f, m.input.Value()))
		m.loadField()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k := msg.String(); k {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "l":
		m.add(crosshair.ShapeLine)
	case "c":
		m.add(crosshair.ShapeCircle)
	case "r":
		m.add(crosshair.ShapeRectangle)
	case "d":
		m.ed.DeleteSelected()
		m.setStatus("deleted")
	case "x":
		m.ed.ClearAll()
		m.setStatus("cleared")
	case "1", "2", "3", "4", "5", "6", "7":
		i, _ := strconv.Atoi(k)
		m.setColor(crosshair.Palette[i-1])
	case "f":
		props, ok := m.ed.Properties()
		if !ok || !props.ShowFill {
			m.setStatus("select a circle or rectangle to fill")
			break
		}
		if err := m.ed.SetFilled(!props.Filled); err != nil {
			m.setError(err)
			break
		}
		m.setStatus(fmt.Sprintf("filled: %t", !props.Filled))
	case "+", "=":
		m.bumpThickness(1)
	case "-", "_":
		m.bumpThickness(-1)
	case "tab":
		if _, ok := m.ed.Selected(); !ok {
			m.setError(editor.ErrNoSelection)
			break
		}
		m.field = 0
		m.loadField()
		return m, m.input.Focus()
	case "s":
		m.save()
	}
	return m, nil
}

func (m *Model) add(kind crosshair.ShapeKind) {
	m.ed.AddShape(kind)
	m.field = 0
	m.setStatus("added " + kind.String())
}

func (m *Model) setColor(c crosshair.ColorName) {
	if err := m.ed.SetDefaultColor(c); err != nil {
		m.setError(err)
		return
	}
	if _, ok := m.ed.Selected(); ok {
		if err := m.ed.SetColor(c); err != nil {
			m.setError(err)
			return
		}
	}
	m.setStatus("colour " + string(c))
}

func (m *Model) bumpThickness(d float64) {
	props, ok := m.ed.Properties()
	if !ok {
		m.setError(editor.ErrNoSelection)
		return
	}
	t := props.Thickness + d
	if t < 0 {
		t = 0
	}
	if err := m.ed.SetThickness(t); err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("thickness %g", t))
}

// nextField 切换到下一个字段并载入其当前值
func (m *Model) nextField() {
	fs := m.fields()
	if len(fs) == 0 {
		m.input.Blur()
		return
	}
	m.field = (m.field + 1) % len(fs)
	m.loadField()
}

func (m *Model) loadField() {
	props, ok := m.ed.Properties()
	if !ok {
		return
	}
	fs := props.Fields()
	f := fs[m.field%len(fs)]
	m.input.Placeholder = f.String()
	m.input.SetValue(strconv.FormatFloat(props.Value(f), 'g', -1, 64))
	m.input.CursorEnd()
}

// save 把编辑器内容写回配置档，类型改为 Custom
func (m *Model) save() {
	if m.store == nil {
		m.setError(errors.New("no profile store"))
		return
	}
	p, err := m.ed.ExportProfile(m.settings.Name)
	if err != nil {
		m.setError(err)
		return
	}
	st := m.settings
	st.CustomData = &p
	st.CrosshairType = crosshair.TypeCustom
	if err := m.store.Save(st); err != nil {
		m.log.Error().Err(err).Str("profile", st.Name).Msg("save profile")
		m.setError(err)
		return
	}
	m.settings = st
	m.saved = true
	m.setStatus(fmt.Sprintf("saved %d elements to %s", len(p.Elements), st.Name))
}

// updateMouse 把终端单元格上的鼠标事件转换为编辑器指针事件
func (m *Model) updateMouse(msg tea.MouseMsg) {
	cx, cy := msg.X-canvasOriginX, msg.Y-canvasOriginY
	inside := cx >= 0 && cy >= 0 && cx < m.cols && cy < m.rows

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return
		}
		m.input.Blur()
		centre := m.cellCentre(cx, cy)
		for _, p := range m.cellPoints(cx, cy) {
			if _, ok := m.ed.HitTest(p); ok {
				m.ed.PointerDown(p)
				m.grab = p.Sub(centre)
				m.field = 0
				if props, ok := m.ed.Properties(); ok {
					m.setStatus("selected " + props.Kind.String())
				}
				return
			}
		}
		m.ed.PointerDown(centre)
		m.setStatus("nothing selected")
	case tea.MouseActionMotion:
		if m.ed.Dragging() {
			m.ed.PointerMove(m.cellCentre(cx, cy).Add(m.grab))
		}
	case tea.MouseActionRelease:
		if m.ed.Dragging() {
			p := m.cellCentre(cx, cy).Add(m.grab)
			m.ed.PointerMove(p)
			m.ed.PointerUp(p)
		}
	}
}
