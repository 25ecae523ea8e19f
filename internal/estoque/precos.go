package estoque

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrPrecoExcessivo is returned when a derived price does not fit decimal(12,2).
var ErrPrecoExcessivo = errors.New("preço excede o limite permitido")

// Precos is the reconciled sale price pair. Caixa is invalid (NULL) when no
// trustworthy box price is on record, which only happens on legacy rows.
type Precos struct {
	Unidade decimal.Decimal
	Caixa   decimal.NullDecimal
}

// EntradaPrecos carries the raw price fields of a request.
type EntradaPrecos struct {
	Unidade Numero
	Caixa   Numero
}

// TocaPrecos reports whether a request sent any sale price field.
func (in EntradaPrecos) TocaPrecos() bool {
	return in.Unidade.Definido || in.Caixa.Definido
}

func dividir(v decimal.Decimal, upc int) decimal.Decimal {
	if upc < 1 {
		return decimal.Zero
	}
	return v.Div(decimal.NewFromInt(int64(upc))).Round(2)
}

func multiplicar(v decimal.Decimal, upc int) decimal.Decimal {
	return v.Mul(decimal.NewFromInt(int64(upc))).Round(2)
}

// Validar rejects a pair whose derived box price overflows the stored column.
func (p Precos) Validar() error {
	if p.Unidade.GreaterThan(MaxPreco) || (p.Caixa.Valid && p.Caixa.Decimal.GreaterThan(MaxPreco)) {
		return ErrPrecoExcessivo
	}
	return nil
}

// ReconciliarPrecosCriacao derives both sale prices for a new item.
// A positive unit price is used as given, otherwise it is box / upc.
// A non-negative box price is used as given, otherwise it is unit * upc when a
// positive unit price was sent, else 0.
func ReconciliarPrecosCriacao(in EntradaPrecos, upc int) Precos {
	caixa, caixaOk := precoNaoNegativo(in.Caixa)
	unidade, unidadeOk := precoNaoNegativo(in.Unidade)
	unidadeOk = unidadeOk && unidade.IsPositive()

	if !unidadeOk {
		unidade = dividir(caixa, upc)
	}
	if !caixaOk {
		if unidadeOk {
			caixa = multiplicar(unidade, upc)
		} else {
			caixa = decimal.Zero
		}
	}
	return Precos{Unidade: unidade, Caixa: decimal.NewNullDecimal(caixa)}
}

// ReconciliarPrecosAtualizacao applies a partial update to the stored prices
// using the already reconciled units per box.
//
//   - only the box price sent: unit = box / upc
//   - only the unit price sent: box = unit * upc when no box price is on record,
//     otherwise the stored box price is kept
//   - both sent: both taken as given, no cross-derivation
//   - neither sent: both kept
//
// Unusable sent values fall back to the stored value.
func ReconciliarPrecosAtualizacao(in EntradaPrecos, atual Precos, upc int) Precos {
	out := atual
	switch {
	case in.Caixa.Definido && !in.Unidade.Definido:
		if v, ok := precoNaoNegativo(in.Caixa); ok {
			out.Caixa = decimal.NewNullDecimal(v)
		}
		out.Unidade = dividir(out.Caixa.Decimal, upc)
		if !out.Caixa.Valid {
			out.Unidade = atual.Unidade
		}
	case in.Unidade.Definido && !in.Caixa.Definido:
		if v, ok := precoNaoNegativo(in.Unidade); ok {
			out.Unidade = v
		}
		if !atual.Caixa.Valid {
			out.Caixa = decimal.NewNullDecimal(multiplicar(out.Unidade, upc))
		}
	case in.Unidade.Definido && in.Caixa.Definido:
		if v, ok := precoNaoNegativo(in.Unidade); ok {
			out.Unidade = v
		}
		if v, ok := precoNaoNegativo(in.Caixa); ok {
			out.Caixa = decimal.NewNullDecimal(v)
		}
	}
	return out
}

// NormalizarPrecoCompra coerces the purchase price: usable non-negative value
// or the fallback.
func NormalizarPrecoCompra(n Numero, fallback decimal.Decimal) decimal.Decimal {
	if v, ok := precoNaoNegativo(n); ok {
		return v
	}
	return fallback
}
