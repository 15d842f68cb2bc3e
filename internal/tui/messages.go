package tui

import "github.com/Veraticus/ledgerwise/internal/model"

// confirmedMsg reports the outcome of persisting a confirmation.
type confirmedMsg struct {
	err    error
	chosen model.AccountSuggestion
	index  int
}
