package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/ledgerwise/internal/ledger"
	"github.com/Veraticus/ledgerwise/internal/model"
)

// ErrInputTerminated is returned when the input ends before a choice is made.
var ErrInputTerminated = errors.New("input terminated")

// Prompter asks the user to confirm an account for a record on a plain
// terminal, without the full-screen picker.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter reading from r and writing to w. nil uses
// stdin and stdout.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &Prompter{writer: w, reader: NewNonBlockingReader(r)}
}

// ChooseAccount shows the record and its suggestions and returns the chosen
// account. A number picks a suggestion, C enters an account code and S
// skips the record, returning nil.
func (p *Prompter) ChooseAccount(ctx context.Context, rec model.ExtractedRecord, suggestions model.Suggestions) (*model.AccountSuggestion, error) {
	if _, err := fmt.Fprintln(p.writer, RenderBox("Facture", FormatRecord(rec))); err != nil {
		return nil, fmt.Errorf("failed to write record box: %w", err)
	}
	if err := WriteSuggestions(p.writer, suggestions); err != nil {
		return nil, fmt.Errorf("failed to write suggestions: %w", err)
	}
	if _, err := fmt.Fprintln(p.writer, SubtleStyle.Render("[1-9] choisir  [C] autre compte  [S] passer")); err != nil {
		return nil, fmt.Errorf("failed to write options: %w", err)
	}

	for {
		choice, err := p.prompt(ctx, "Choix")
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(choice) {
		case "s":
			return nil, nil
		case "c":
			return p.promptAccount(ctx)
		}

		n, err := strconv.Atoi(choice)
		if err == nil && n >= 1 && n <= len(suggestions) {
			chosen := suggestions[n-1]
			return &chosen, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Choix invalide, recommencez.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

func (p *Prompter) promptAccount(ctx context.Context) (*model.AccountSuggestion, error) {
	for {
		code, err := p.prompt(ctx, "Numéro de compte")
		if err != nil {
			return nil, err
		}
		if code != "" && ledger.ClassOf(code) != 0 {
			acct := ledger.Lookup(code)
			return &model.AccountSuggestion{
				AccountCode:     acct.Code,
				AccountLabel:    acct.Label,
				AccountClass:    acct.Class,
				ConfidenceScore: 1.0,
				Justification:   "Saisi par l'utilisateur",
				Source:          model.SourceManual,
			}, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatError("Un numéro de compte commence par un chiffre.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

func (p *Prompter) prompt(ctx context.Context, label string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.reader.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", ErrInputTerminated
	}
	return line, err
}
