package rules

import (
	"testing"

	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(s model.Suggestions) []string {
	out := make([]string, 0, len(s))
	for _, sug := range s {
		out = append(out, sug.AccountCode)
	}
	return out
}

func TestClassifier_ClassifyBySupplier(t *testing.T) {
	c := NewDefaultClassifier()

	tests := []struct {
		name       string
		supplier   string
		wantCodes  []string
		wantScores []float64
	}{
		{name: "tier one supplier", supplier: "Sonelgaz", wantCodes: []string{"6061"}, wantScores: []float64{0.98}},
		{name: "case and extra words", supplier: "SONELGAZ Distribution Centre", wantCodes: []string{"6061"}, wantScores: []float64{0.98}},
		{name: "accent folding", supplier: "ALGERIE TELECOM SPA", wantCodes: []string{"626"}, wantScores: []float64{0.98}},
		{name: "tier two supplier", supplier: "Bureau Vallée Hydra", wantCodes: []string{"6064"}, wantScores: []float64{0.90}},
		{name: "tier three supplier", supplier: "Yalidine Express", wantCodes: []string{"624"}, wantScores: []float64{0.80}},
		{name: "unknown supplier", supplier: "Boulangerie du coin", wantCodes: []string{}},
		{name: "empty supplier", supplier: "  ", wantCodes: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ClassifyBySupplier(tt.supplier)
			assert.Equal(t, tt.wantCodes, codes(got))
			for i, s := range got {
				assert.InDelta(t, tt.wantScores[i], s.ConfidenceScore, 1e-9)
				assert.Equal(t, model.SourceSupplier, s.Source)
				assert.NotEmpty(t, s.Justification)
			}
		})
	}
}

func TestClassifier_ClassifyByLabel(t *testing.T) {
	c := NewDefaultClassifier()

	t.Run("duplicates collapse to best tier", func(t *testing.T) {
		got := c.ClassifyByLabel("Consommation électricité et gaz T1 2024")
		require.Len(t, got, 1)
		assert.Equal(t, "6061", got[0].AccountCode)
		assert.InDelta(t, 0.95, got[0].ConfidenceScore, 1e-9)
		assert.Equal(t, 6, got[0].AccountClass)
		assert.Equal(t, model.SourceKeyword, got[0].Source)
	})

	t.Run("capped at three and ranked", func(t *testing.T) {
		got := c.ClassifyByLabel("Loyer, papier, entretien et livraison")
		assert.Equal(t, []string{"613", "6064", "615"}, codes(got))
		assert.InDelta(t, 0.95, got[0].ConfidenceScore, 1e-9)
		assert.InDelta(t, 0.85, got[1].ConfidenceScore, 1e-9)
		assert.InDelta(t, 0.85, got[2].ConfidenceScore, 1e-9)
		require.NoError(t, got.Validate())
	})

	t.Run("whole words only", func(t *testing.T) {
		assert.Empty(t, c.ClassifyByLabel("Tonte du gazon"))
	})

	t.Run("accents are optional", func(t *testing.T) {
		got := c.ClassifyByLabel("FACTURE ELECTRICITE")
		require.Len(t, got, 1)
		assert.Equal(t, "6061", got[0].AccountCode)
	})

	t.Run("revenue class", func(t *testing.T) {
		got := c.ClassifyByLabel("Prestation de services informatiques")
		require.NotEmpty(t, got)
		assert.Equal(t, "706", got[0].AccountCode)
		assert.Equal(t, 7, got[0].AccountClass)
	})

	t.Run("empty label", func(t *testing.T) {
		assert.Empty(t, c.ClassifyByLabel(""))
	})
}

func TestClassifier_ClassifyByReference(t *testing.T) {
	c := NewDefaultClassifier()

	got := c.ClassifyByReference("SNG20240117")
	require.Len(t, got, 1)
	assert.Equal(t, "6061", got[0].AccountCode)
	assert.InDelta(t, 0.85, got[0].ConfidenceScore, 1e-9)
	assert.Equal(t, model.SourceReference, got[0].Source)

	got = c.ClassifyByReference("loy-2024")
	require.Len(t, got, 1)
	assert.Equal(t, "613", got[0].AccountCode)

	assert.Empty(t, c.ClassifyByReference("XYZ123"))
	assert.Empty(t, c.ClassifyByReference("NOTSNG123"))
}

func TestRule_ConfidenceTiers(t *testing.T) {
	keywordTiers := map[int]float64{1: 0.95, 2: 0.85, 3: 0.75, 0: 0.65, 9: 0.65}
	for tier, want := range keywordTiers {
		assert.InDelta(t, want, NewKeywordRule("loyer", "613", tier).Confidence(), 1e-9, "keyword tier %d", tier)
	}

	supplierTiers := map[int]float64{1: 0.98, 2: 0.90, 3: 0.80, 7: 0.80}
	for tier, want := range supplierTiers {
		assert.InDelta(t, want, NewSupplierRule("Naftal", "6068", tier).Confidence(), 1e-9, "supplier tier %d", tier)
	}

	ref, err := NewReferenceFormatRule(`^X\d+`, "X", "6061")
	require.NoError(t, err)
	assert.InDelta(t, 0.85, ref.Confidence(), 1e-9)
}

func TestNewReferenceFormatRule_InvalidExpression(t *testing.T) {
	_, err := NewReferenceFormatRule(`[unclosed`, "broken", "6061")
	assert.Error(t, err)
}

func TestDefaultRules(t *testing.T) {
	var rules []Rule
	require.NotPanics(t, func() { rules = DefaultRules() })

	kinds := make(map[Kind]int)
	for _, r := range rules {
		kinds[r.Kind()]++
		acct := r.Account()
		assert.NotEmpty(t, acct.Label, "rule %s", r.Pattern())
		assert.Contains(t, []int{6, 7}, acct.Class, "rule %s", r.Pattern())
	}
	assert.Positive(t, kinds[KindKeyword])
	assert.Positive(t, kinds[KindSupplier])
	assert.Positive(t, kinds[KindReferenceFormat])

	c := NewClassifier(rules)
	assert.Len(t, c.Rules(), len(rules))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "electricite", fold("Électricité"))
	assert.Equal(t, "algerie telecom", fold("Algérie Télécom"))
	assert.Equal(t, "hotel", fold("HÔTEL"))
}
