package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassOf(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"6061", 6},
		{"706", 7},
		{"218", 2},
		{" 401", 4},
		{"", 0},
		{"X12", 0},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassOf(tt.code))
		})
	}
}

func TestLookup(t *testing.T) {
	acct := Lookup("6064")
	assert.Equal(t, "Fournitures administratives", acct.Label)
	assert.Equal(t, ClassExpense, acct.Class)

	unknown := Lookup("6251")
	assert.Equal(t, "Compte 6251", unknown.Label)
	assert.Equal(t, ClassExpense, unknown.Class)
	assert.False(t, Known("6251"))
}

func TestMustAccount_PanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { MustAccount("9999") })
	assert.NotPanics(t, func() { MustAccount(CodePayables) })
}
