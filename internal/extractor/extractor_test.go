package extractor

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		amount   string
		category string
		found    bool
	}{
		{"fuel with cents", "Paguei R$ 85,50 de combustível no posto Shell", "85.50", "combustivel", true},
		{"thousands separator", "Hotel ficou R$ 1.234,56", "1234.56", "hospedagem", true},
		{"no currency sign", "almoço 45", "45", "alimentacao", true},
		{"glued to sign", "uber r$32,90", "32.90", "transporte", true},
		{"greeting", "Bom dia", "", "outros", false},
		{"first category wins", "gasolina e almoço", "", "combustivel", false},
		{"service", "Manutenção do ar 300,00", "300", "servico", true},
		{"material", "compra de ferramenta 1.500", "1500", "material", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Extract(tt.text)
			assert.Equal(t, tt.category, h.Category)
			assert.Equal(t, tt.found, h.Found)
			assert.Equal(t, tt.found, h.Amount.Valid)
			if tt.found {
				want, err := decimal.NewFromString(tt.amount)
				require.NoError(t, err)
				assert.True(t, want.Equal(h.Amount.Decimal), "got %s want %s", h.Amount.Decimal, want)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	got := Categories()
	assert.Equal(t, "combustivel", got[0])
	assert.Equal(t, CategoryOther, got[len(got)-1])
	assert.Len(t, got, 7)
}
