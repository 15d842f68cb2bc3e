package rules

// DefaultRules returns the built-in classification rule table.
func DefaultRules() []Rule {
	rules := make([]Rule, 0, 80)

	for _, k := range defaultKeywords {
		rules = append(rules, NewKeywordRule(k.text, k.account, k.priority))
	}
	for _, s := range defaultSuppliers {
		rules = append(rules, NewSupplierRule(s.text, s.account, s.priority))
	}
	for _, f := range defaultReferenceFormats {
		r, err := NewReferenceFormatRule(f.expr, f.description, f.account)
		if err != nil {
			panic(err)
		}
		rules = append(rules, r)
	}

	return rules
}

type tieredRule struct {
	text     string
	account  string
	priority int
}

var defaultKeywords = []tieredRule{
	// Water and energy
	{"électricité", "6061", 1},
	{"eau potable", "6061", 2},
	{"gaz", "6061", 2},
	{"énergie", "6061", 2},
	{"consommation", "6061", 3},

	// Office supplies
	{"fournitures de bureau", "6064", 1},
	{"papeterie", "6064", 1},
	{"ramettes", "6064", 2},
	{"ramette", "6064", 2},
	{"papier", "6064", 2},
	{"cartouche", "6064", 2},
	{"toner", "6064", 2},
	{"stylos", "6064", 3},

	// Fuel and other supplies
	{"carburant", "6068", 1},
	{"gasoil", "6068", 1},
	{"essence", "6068", 2},
	{"lubrifiant", "6068", 2},

	{"loyer", "613", 1},
	{"location", "613", 2},
	{"bail", "613", 2},

	{"entretien", "615", 2},
	{"réparation", "615", 2},
	{"maintenance", "615", 2},

	{"assurance", "616", 1},
	{"prime d'assurance", "616", 1},

	{"honoraires", "622", 1},
	{"commissaire aux comptes", "622", 1},
	{"avocat", "622", 2},
	{"notaire", "622", 2},

	{"publicité", "623", 1},
	{"annonce", "623", 2},
	{"impression", "623", 3},

	{"transport de marchandises", "624", 1},
	{"fret", "624", 2},
	{"livraison", "624", 3},

	{"billet d'avion", "625", 1},
	{"hôtel", "625", 2},
	{"hébergement", "625", 2},
	{"mission", "625", 2},
	{"restaurant", "625", 3},

	{"téléphone", "626", 1},
	{"internet", "626", 1},
	{"adsl", "626", 1},
	{"affranchissement", "626", 2},
	{"timbres", "626", 2},

	{"frais bancaires", "627", 1},
	{"commission bancaire", "627", 1},
	{"agios", "627", 1},

	// Revenue
	{"vente de marchandises", "700", 1},
	{"ventes", "700", 3},
	{"prestation de services", "706", 1},
	{"prestation", "706", 2},
}

var defaultSuppliers = []tieredRule{
	{"Sonelgaz", "6061", 1},
	{"SEAAL", "6061", 1},
	{"Algérienne des eaux", "6061", 1},
	{"Naftal", "6068", 1},
	{"Algérie Télécom", "626", 1},
	{"Mobilis", "626", 2},
	{"Djezzy", "626", 2},
	{"Ooredoo", "626", 2},
	{"Algérie Poste", "626", 3},
	{"Air Algérie", "625", 2},
	{"CAAR", "616", 2},
	{"Société Nationale d'Assurance", "616", 2},
	{"Bureau Vallée", "6064", 2},
	{"Office Depot", "6064", 2},
	{"Yalidine", "624", 3},
}

var defaultReferenceFormats = []struct {
	expr        string
	description string
	account     string
}{
	{`^SNG[-/]?\d+`, "SNG suivi de chiffres", "6061"},
	{`^AT[-/]?\d+`, "AT suivi de chiffres", "626"},
	{`^LOY[-/]?\d+`, "LOY suivi de chiffres", "613"},
	{`^ASS[-/]?\d+`, "ASS suivi de chiffres", "616"},
	{`^FV[-/]?\d+`, "FV suivi de chiffres", "700"},
	{`^PS[-/]?\d+`, "PS suivi de chiffres", "706"},
}
