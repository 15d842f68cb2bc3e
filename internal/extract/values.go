package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/06",
	"2/1/06",
	"02-01-06",
	"02.01.06",
	"2006-01-02",
}

// parseDate converts a matched date token; an unparseable token yields nil.
func parseDate(token string) *time.Time {
	if token == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return &t
		}
	}
	return nil
}

// amountTokenRe matches one number: groups of three digits split by a space,
// NBSP or dot, or a plain digit run, with optional cents. The trailing group
// keeps a token from ending inside a longer number.
var amountTokenRe = regexp.MustCompile(`(\d{1,3}(?:[ \x{00A0}.]\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?)(?:[.,]?(?:[^\d.,]|$))`)

// pickAmount returns the amount among the numbers of an amount line. Parts of
// dates and percentages are ignored; a number with cents wins over a bare
// integer such as a quantity or a year, otherwise the first number is kept.
func pickAmount(line string) string {
	var first string
	for _, loc := range amountTokenRe.FindAllStringSubmatchIndex(line, -1) {
		start, end := loc[2], loc[3]
		if start > 0 && strings.ContainsRune("0123456789.,/", rune(line[start-1])) {
			continue
		}
		rest := line[end:]
		if strings.HasPrefix(rest, "/") || strings.HasPrefix(strings.TrimLeft(rest, " \t\u00a0"), "%") {
			continue
		}

		token := line[start:end]
		if hasCents(token) {
			return token
		}
		if first == "" {
			first = token
		}
	}
	return first
}

func hasCents(token string) bool {
	i := strings.LastIndexAny(token, ".,")
	return i >= 0 && len(token)-i-1 <= 2
}

// parseAmount converts a matched numeric token. Spaces are thousands
// separators and a comma is the decimal separator. A token that still does
// not parse yields nil.
func parseAmount(token string) *decimal.Decimal {
	s := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, token)
	if s == "" {
		return nil
	}

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		last := strings.LastIndex(s, ".")
		if len(s)-last-1 <= 2 {
			s = strings.ReplaceAll(s[:last], ".", "") + s[last:]
		} else {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

var currencyAliases = map[string]string{
	"dzd":     "DZD",
	"da":      "DZD",
	"dinar":   "DZD",
	"dinars":  "DZD",
	"eur":     "EUR",
	"euro":    "EUR",
	"euros":   "EUR",
	"€":       "EUR",
	"usd":     "USD",
	"dollar":  "USD",
	"dollars": "USD",
	"$":       "USD",
}

// normalizeCurrency maps known aliases to ISO codes and keeps anything else as matched.
func normalizeCurrency(token string) string {
	token = strings.TrimSpace(token)
	if code, ok := currencyAliases[strings.ToLower(token)]; ok {
		return code
	}
	return token
}
