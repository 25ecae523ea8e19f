package estoque

import "errors"

// ErrContagemExcessiva is returned when a derived count does not fit a column.
var ErrContagemExcessiva = errors.New("quantidade excede o limite permitido")

// Quantidades is the reconciled quantity triple of a stock item.
type Quantidades struct {
	UnidadesPorCaixa    int
	Caixas              int
	QuantidadeEmEstoque int
}

// EntradaQuantidades carries the raw quantity fields of a request.
type EntradaQuantidades struct {
	UnidadesPorCaixa    Numero
	Caixas              Numero
	QuantidadeEmEstoque Numero
}

// NormalizarUnidadesPorCaixa coerces a raw units-per-box value to an integer >= 1.
func NormalizarUnidadesPorCaixa(n Numero) int {
	v, ok := inteiroNaoNegativo(n)
	if !ok || v < 1 {
		return 1
	}
	return v
}

// ReconciliarQuantidadesCriacao derives the quantity triple for a new item.
// A valid quantidade_em_estoque is authoritative; caixas is derived from it
// only when caixas itself was not validly supplied. Otherwise a valid caixas
// yields quantidade_em_estoque = caixas * unidades_por_caixa.
func ReconciliarQuantidadesCriacao(in EntradaQuantidades) Quantidades {
	upc := NormalizarUnidadesPorCaixa(in.UnidadesPorCaixa)
	caixas, caixasOk := inteiroNaoNegativo(in.Caixas)
	total, totalOk := inteiroNaoNegativo(in.QuantidadeEmEstoque)

	switch {
	case totalOk:
		if !caixasOk {
			caixas = total / upc
		}
	case caixasOk:
		total = caixas * upc
	default:
		caixas, total = 0, 0
	}
	return Quantidades{UnidadesPorCaixa: upc, Caixas: caixas, QuantidadeEmEstoque: total}
}

// ReconciliarQuantidadesAtualizacao applies a partial update to the stored
// triple. The branch is chosen by which keys the caller sent:
//
//  1. caixas and/or unidades_por_caixa sent: quantidade_em_estoque is
//     recomputed as caixas * unidades_por_caixa, using the stored value for
//     whichever of the two was not sent. This also covers the case where only
//     unidades_por_caixa changes. Rule 1 takes priority: when caixas and
//     quantidade_em_estoque are both sent, the sent quantity is ignored.
//  2. quantidade_em_estoque sent without caixas: caixas is recomputed as
//     quantidade_em_estoque / unidades_por_caixa (floor).
//
// Negative or unparseable counts fall back to the stored value; an unusable
// unidades_por_caixa that was sent becomes 1.
func ReconciliarQuantidadesAtualizacao(in EntradaQuantidades, atual Quantidades) Quantidades {
	out := atual
	if out.UnidadesPorCaixa < 1 {
		out.UnidadesPorCaixa = 1
	}
	if in.UnidadesPorCaixa.Definido {
		out.UnidadesPorCaixa = NormalizarUnidadesPorCaixa(in.UnidadesPorCaixa)
	}

	switch {
	case in.Caixas.Definido || (in.UnidadesPorCaixa.Definido && !in.QuantidadeEmEstoque.Definido):
		if v, ok := inteiroNaoNegativo(in.Caixas); ok {
			out.Caixas = v
		}
		out.QuantidadeEmEstoque = out.Caixas * out.UnidadesPorCaixa
	case in.QuantidadeEmEstoque.Definido:
		if v, ok := inteiroNaoNegativo(in.QuantidadeEmEstoque); ok {
			out.QuantidadeEmEstoque = v
		}
		out.Caixas = out.QuantidadeEmEstoque / out.UnidadesPorCaixa
	}
	return out
}

// TocaQuantidades reports whether a request sent any quantity field.
func (in EntradaQuantidades) TocaQuantidades() bool {
	return in.UnidadesPorCaixa.Definido || in.Caixas.Definido || in.QuantidadeEmEstoque.Definido
}

// BaixarUnidades removes n units from a triple (a sale) and re-derives caixas.
// The caller checks availability first.
func BaixarUnidades(atual Quantidades, n int) Quantidades {
	out := atual
	if out.UnidadesPorCaixa < 1 {
		out.UnidadesPorCaixa = 1
	}
	out.QuantidadeEmEstoque -= n
	if out.QuantidadeEmEstoque < 0 {
		out.QuantidadeEmEstoque = 0
	}
	out.Caixas = out.QuantidadeEmEstoque / out.UnidadesPorCaixa
	return out
}

// Validar rejects a triple whose derived values overflow the stored columns.
// Single counts are bounded on input; caixas * unidades_por_caixa is not.
func (q Quantidades) Validar() error {
	if q.UnidadesPorCaixa > MaxContagem || q.Caixas > MaxContagem || q.QuantidadeEmEstoque > MaxContagem {
		return ErrContagemExcessiva
	}
	return nil
}
