package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"dotsight/internal/editor"
)

// Run 运行终端编辑器直到退出，返回最终模型
func Run(ed *editor.Editor, opts Options) (Model, error) {
	p := tea.NewProgram(New(ed, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return Model{}, fmt.Errorf("run editor: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return Model{}, fmt.Errorf("unexpected model %T", final)
	}
	return m, nil
}
