// Package extractor pulls an expense hint (amount and category) out of free
// message text. The rules are heuristics tuned for Brazilian Portuguese.
package extractor

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const CategoryOther = "outros"

// amountPattern matches R$-style amounts: dot thousands separators and an
// optional two digit comma fraction, e.g. "R$ 1.234,56", "R$85,50", "120".
var amountPattern = regexp.MustCompile(`R?\$?\s*(\d{1,3}(?:\.\d{3})+|\d+)(?:,(\d{2}))?`)

type category struct {
	name     string
	keywords []string
}

// categories are checked in order, the first keyword hit wins.
var categories = []category{
	{"combustivel", []string{"combustivel", "combustível", "gasolina", "alcool", "álcool", "diesel", "posto"}},
	{"alimentacao", []string{"almoço", "almoco", "jantar", "lanche", "restaurante", "comida", "alimentação"}},
	{"transporte", []string{"uber", "taxi", "onibus", "ônibus", "metro", "metrô", "transporte", "passagem"}},
	{"hospedagem", []string{"hotel", "pousada", "hospedagem", "diaria", "diária"}},
	{"material", []string{"material", "compra", "produto", "equipamento", "ferramenta"}},
	{"servico", []string{"serviço", "servico", "consultoria", "manutencao", "manutenção", "reparo"}},
}

type Hint struct {
	Amount   decimal.NullDecimal `json:"amount"`
	Category string              `json:"category"`
	// Found reports whether an amount was recognized.
	Found bool `json:"found"`
}

// Extract never fails; unrecognized text yields a hint with no amount and
// the "outros" category.
func Extract(text string) Hint {
	h := Hint{Category: Category(text)}
	if amount, ok := Amount(text); ok {
		h.Amount = decimal.NullDecimal{Decimal: amount, Valid: true}
		h.Found = true
	}
	return h
}

// Amount returns the first amount found in text.
func Amount(text string) (decimal.Decimal, bool) {
	m := amountPattern.FindStringSubmatch(strings.ToUpper(text))
	if m == nil {
		return decimal.Decimal{}, false
	}
	digits := strings.ReplaceAll(m[1], ".", "")
	if m[2] != "" {
		digits += "." + m[2]
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Category returns the first category with a keyword contained in text.
func Category(text string) string {
	lower := strings.ToLower(text)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return CategoryOther
}

// Categories lists the known category names in match order.
func Categories() []string {
	out := make([]string, 0, len(categories)+1)
	for _, c := range categories {
		out = append(out, c.name)
	}
	return append(out, CategoryOther)
}
