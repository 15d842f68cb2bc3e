// Package tui implements the full-screen invoice review picker.
package tui

import (
	"context"

	"github.com/Veraticus/ledgerwise/internal/engine"
	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Item is one invoice waiting for review.
type Item struct {
	Name   string
	Record model.ExtractedRecord
	Result engine.Result
}

// ConfirmFunc persists the account chosen for a record.
type ConfirmFunc func(ctx context.Context, rec model.ExtractedRecord, chosen model.AccountSuggestion) error

// Summary counts what happened during a review session.
type Summary struct {
	Errors    []error
	Confirmed int
	Skipped   int
	Remaining int
}

// Model holds the review state.
type Model struct {
	ctx     context.Context
	confirm ConfirmFunc
	lastErr error
	help    help.Model
	keymap  KeyMap
	items   []Item
	summary Summary
	current int
	cursor  int
	width   int
	busy    bool
	done    bool
}

// NewModel creates a review model over items. confirm is called for every
// chosen account.
func NewModel(ctx context.Context, items []Item, confirm ConfirmFunc) Model {
	return Model{
		ctx:     ctx,
		confirm: confirm,
		items:   items,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		done:    len(items) == 0,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.done {
		return tea.Quit
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case confirmedMsg:
		m.busy = false
		if msg.err != nil {
			m.lastErr = msg.err
			m.summary.Errors = append(m.summary.Errors, msg.err)
		} else {
			m.lastErr = nil
			m.summary.Confirmed++
		}
		return m.advance()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.done = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.busy || m.done {
		return m, nil
	}

	suggestions := m.items[m.current].Result.Suggestions

	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(suggestions)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keymap.Skip):
		m.summary.Skipped++
		return m.advance()

	case key.Matches(msg, m.keymap.Select):
		if len(suggestions) == 0 {
			return m, nil
		}
		m.busy = true
		return m, m.confirmCmd(m.current, suggestions[m.cursor])
	}

	return m, nil
}

func (m Model) confirmCmd(index int, chosen model.AccountSuggestion) tea.Cmd {
	rec := m.items[index].Record
	return func() tea.Msg {
		var err error
		if m.confirm != nil {
			err = m.confirm(m.ctx, rec, chosen)
		}
		return confirmedMsg{index: index, chosen: chosen, err: err}
	}
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	m.current++
	m.cursor = 0
	if m.current >= len(m.items) {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// Summary returns the session counts.
func (m Model) Summary() Summary {
	s := m.summary
	s.Remaining = len(m.items) - s.Confirmed - s.Skipped - len(s.Errors)
	if s.Remaining < 0 {
		s.Remaining = 0
	}
	return s
}
