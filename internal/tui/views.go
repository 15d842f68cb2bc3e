package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/ledgerwise/internal/cli"
	"github.com/charmbracelet/lipgloss"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor)
	statusStyle = lipgloss.NewStyle().
			Foreground(cli.SubtleColor)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}

	item := m.items[m.current]
	var b strings.Builder

	title := fmt.Sprintf("%s (%d/%d)", item.Name, m.current+1, len(m.items))
	b.WriteString(cli.RenderBox(title, cli.FormatRecord(item.Record)))
	b.WriteString("\n\n")

	if len(item.Result.Suggestions) == 0 {
		b.WriteString(cli.FormatWarning("Aucun compte suggéré, appuyez sur s pour passer"))
		b.WriteString("\n")
	}

	for i, s := range item.Result.Suggestions {
		line := fmt.Sprintf("%-6s %-40s %s  %s",
			s.AccountCode,
			s.AccountLabel,
			cli.ConfidenceStyle(s.ConfidenceScore).Render(fmt.Sprintf("%3.0f%%", s.ConfidenceScore*100)),
			statusStyle.Render(s.Justification))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("› ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(statusStyle.Render("Enregistrement…"))
	case m.lastErr != nil:
		b.WriteString(cli.FormatError(m.lastErr.Error()))
	default:
		b.WriteString(statusStyle.Render(fmt.Sprintf("%d confirmée(s), %d passée(s)", m.summary.Confirmed, m.summary.Skipped)))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))

	return b.String()
}
