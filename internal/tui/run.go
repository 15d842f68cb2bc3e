package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the review picker until every item is handled or the user quits.
func Run(ctx context.Context, items []Item, confirm ConfirmFunc, opts ...tea.ProgramOption) (Summary, error) {
	m := NewModel(ctx, items, confirm)

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return m.Summary(), fmt.Errorf("review picker failed: %w", err)
	}

	finalModel, ok := final.(Model)
	if !ok {
		return m.Summary(), fmt.Errorf("unexpected model type %T", final)
	}
	return finalModel.Summary(), nil
}
