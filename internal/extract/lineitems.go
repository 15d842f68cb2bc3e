package extract

import (
	"regexp"
	"strings"

	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/shopspring/decimal"
)

var (
	itemSectionRe = regexp.MustCompile(`(?is)(?:d[ée]signation|articles?|items?|produits?|prestations?)[^\n]*\n(.*?)(?:sous[\s-]?total|total|montant\s+h\.?t)`)
	totalLineRe   = regexp.MustCompile(`(?i)\b(?:sous[\s-]?total|total|net\s+[àa]\s+payer)\b`)
	digitRe       = regexp.MustCompile(`\d`)
	numberTokenRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	unitWordRe    = regexp.MustCompile(`(?i)(?:^|\s)(?:qt[ée]s?|quantit[ée]s?|p\.?u\.?|prix(?:\s+unitaire)?|unit[ée]s?|u|kg|g|l|m|m2|m3|h|pcs?|pi[èe]ces?|da|dzd|eur|usd|ht|ttc|x|€|\$|%)(?:\s|$)`)
	spaceRunRe    = regexp.MustCompile(`\s+`)
)

const minDesignationLength = 3

// extractLineItems reads candidate item lines between an items header and a totals keyword.
func extractLineItems(text string) []model.LineItem {
	var items []model.LineItem

	for _, section := range itemSectionRe.FindAllStringSubmatch(text, -1) {
		for _, line := range strings.Split(section[1], "\n") {
			line = strings.TrimSpace(line)
			if line == "" || !digitRe.MatchString(line) || totalLineRe.MatchString(line) {
				continue
			}
			items = append(items, parseLineItem(line))
		}
	}

	return items
}

// parseLineItem reads quantity, unit price and total from the numbers on a
// line: the first number is the quantity, the last is the line total and the
// one before it the unit price.
func parseLineItem(line string) model.LineItem {
	item := model.LineItem{
		Raw:         line,
		Designation: designation(line),
	}

	numbers := numberTokenRe.FindAllString(line, -1)
	switch {
	case len(numbers) >= 3:
		item.Quantity = parseAmount(numbers[0])
		item.UnitPrice = parseAmount(numbers[len(numbers)-2])
		item.Total = parseAmount(numbers[len(numbers)-1])
	case len(numbers) == 2:
		item.Quantity = parseAmount(numbers[0])
		item.UnitPrice = parseAmount(numbers[1])
		if item.Quantity != nil && item.UnitPrice != nil {
			total := item.Quantity.Mul(*item.UnitPrice)
			item.Total = &total
		}
	case len(numbers) == 1:
		item.Total = parseAmount(numbers[0])
		one := decimal.NewFromInt(1)
		item.Quantity = &one
	}

	return item
}

// designation strips numbers and unit words from a line, falling back to the
// raw line when too little remains.
func designation(line string) string {
	d := numberTokenRe.ReplaceAllString(line, " ")
	// Unit words share separating spaces, so strip until stable.
	for {
		next := unitWordRe.ReplaceAllString(d, " ")
		if next == d {
			break
		}
		d = next
	}
	d = spaceRunRe.ReplaceAllString(d, " ")
	d = strings.Trim(d, " \t-:;,.|*")

	if len([]rune(d)) < minDesignationLength {
		return line
	}
	return d
}
