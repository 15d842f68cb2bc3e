// Package ledger describes the chart of accounts suggestions and journal entries post to.
package ledger

import (
	"fmt"
	"strings"
)

// Account classes used by the classifier and the journal builder.
const (
	ClassFixedAssets = 2
	ClassThirdParty  = 4
	ClassExpense     = 6
	ClassRevenue     = 7
)

// Fixed posting accounts.
const (
	CodeFixedAssets        = "218"
	CodeFixedAssetPayables = "404"
	CodePayables           = "401"
	CodeReceivables        = "411"
	CodeInputTax           = "4456"
	CodeOutputTax          = "4457"
)

// Account is a ledger account code with its label and class.
type Account struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Class int    `json:"class"`
}

var chart = map[string]string{
	CodeFixedAssets:        "Autres immobilisations corporelles",
	CodeFixedAssetPayables: "Fournisseurs d'immobilisations",
	CodePayables:           "Fournisseurs",
	CodeReceivables:        "Clients",
	CodeInputTax:           "TVA déductible",
	CodeOutputTax:          "TVA collectée",
	"6061":                 "Fournitures non stockables (eau, énergie)",
	"6064":                 "Fournitures administratives",
	"6068":                 "Autres matières et fournitures",
	"613":                  "Locations",
	"615":                  "Entretien et réparations",
	"616":                  "Primes d'assurance",
	"622":                  "Rémunérations d'intermédiaires et honoraires",
	"623":                  "Publicité, publications, relations publiques",
	"624":                  "Transports de biens",
	"625":                  "Déplacements, missions et réceptions",
	"626":                  "Frais postaux et de télécommunications",
	"627":                  "Services bancaires et assimilés",
	"700":                  "Ventes de marchandises",
	"706":                  "Prestations de services",
}

// ClassOf returns the account class encoded in the first digit of code, or 0.
func ClassOf(code string) int {
	code = strings.TrimSpace(code)
	if code == "" || code[0] < '0' || code[0] > '9' {
		return 0
	}
	return int(code[0] - '0')
}

// Lookup returns the account for code. Unknown codes get a generic label.
func Lookup(code string) Account {
	label, ok := chart[code]
	if !ok {
		label = fmt.Sprintf("Compte %s", code)
	}
	return Account{Code: code, Label: label, Class: ClassOf(code)}
}

// Known reports whether code is part of the built-in chart.
func Known(code string) bool {
	_, ok := chart[code]
	return ok
}

// MustAccount returns the account for a code that is known to be in the chart.
func MustAccount(code string) Account {
	if !Known(code) {
		panic(fmt.Sprintf("ledger: account %s is not in the chart", code))
	}
	return Lookup(code)
}
