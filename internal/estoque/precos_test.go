package estoque_test

import (
	"testing"

	"filialpos/internal/estoque"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func numero(s string) estoque.Numero { return estoque.Com(dec(s)) }

func TestPrecosCriacao_UnidadeDerivadaDaCaixa(t *testing.T) {
	p := estoque.ReconciliarPrecosCriacao(estoque.EntradaPrecos{Caixa: numero("120")}, 12)
	assert.Equal(t, "10", p.Unidade.String())
	assert.True(t, p.Caixa.Valid)
	assert.Equal(t, "120", p.Caixa.Decimal.String())
}

func TestPrecosCriacao_CaixaDerivadaDaUnidade(t *testing.T) {
	p := estoque.ReconciliarPrecosCriacao(estoque.EntradaPrecos{Unidade: numero("10")}, 12)
	assert.Equal(t, "10", p.Unidade.String())
	assert.Equal(t, "120", p.Caixa.Decimal.String())
}

func TestPrecosCriacao_AmbosInformados(t *testing.T) {
	p := estoque.ReconciliarPrecosCriacao(estoque.EntradaPrecos{
		Unidade: numero("10"),
		Caixa:   numero("100"),
	}, 12)
	assert.Equal(t, "10", p.Unidade.String())
	assert.Equal(t, "100", p.Caixa.Decimal.String())
}

func TestPrecosCriacao_UnidadeZeroUsaCaixa(t *testing.T) {
	p := estoque.ReconciliarPrecosCriacao(estoque.EntradaPrecos{
		Unidade: numero("0"),
		Caixa:   numero("35"),
	}, 3)
	assert.Equal(t, "11.67", p.Unidade.String())
}

func TestPrecosCriacao_Nenhum(t *testing.T) {
	p := estoque.ReconciliarPrecosCriacao(estoque.EntradaPrecos{}, 12)
	assert.True(t, p.Unidade.IsZero())
	assert.True(t, p.Caixa.Valid)
	assert.True(t, p.Caixa.Decimal.IsZero())
}

var precosAtuais = estoque.Precos{Unidade: dec("20"), Caixa: decimal.NewNullDecimal(dec("240"))}

func TestPrecosAtualizacao_SoCaixa(t *testing.T) {
	p := estoque.ReconciliarPrecosAtualizacao(estoque.EntradaPrecos{Caixa: numero("300")}, precosAtuais, 12)
	assert.Equal(t, "25", p.Unidade.String())
	assert.Equal(t, "300", p.Caixa.Decimal.String())
}

func TestPrecosAtualizacao_SoUnidadeMantemCaixaConfiavel(t *testing.T) {
	p := estoque.ReconciliarPrecosAtualizacao(estoque.EntradaPrecos{Unidade: numero("22")}, precosAtuais, 12)
	assert.Equal(t, "22", p.Unidade.String())
	assert.Equal(t, "240", p.Caixa.Decimal.String())
}

func TestPrecosAtualizacao_SoUnidadeSemCaixaRegistrada(t *testing.T) {
	atual := estoque.Precos{Unidade: dec("20")}
	p := estoque.ReconciliarPrecosAtualizacao(estoque.EntradaPrecos{Unidade: numero("22")}, atual, 12)
	assert.True(t, p.Caixa.Valid)
	assert.Equal(t, "264", p.Caixa.Decimal.String())
}

func TestPrecosAtualizacao_Ambos(t *testing.T) {
	p := estoque.ReconciliarPrecosAtualizacao(estoque.EntradaPrecos{
		Unidade: numero("1"),
		Caixa:   numero("2"),
	}, precosAtuais, 12)
	assert.Equal(t, "1", p.Unidade.String())
	assert.Equal(t, "2", p.Caixa.Decimal.String())
}

func TestPrecosAtualizacao_Nenhum(t *testing.T) {
	p := estoque.ReconciliarPrecosAtualizacao(estoque.EntradaPrecos{}, precosAtuais, 6)
	assert.Equal(t, precosAtuais, p)
}

func TestPrecoCompra(t *testing.T) {
	assert.Equal(t, "0", estoque.NormalizarPrecoCompra(estoque.Numero{}, decimal.Zero).String())
	assert.Equal(t, "0", estoque.NormalizarPrecoCompra(numero("-3"), decimal.Zero).String())
	assert.Equal(t, "4.5", estoque.NormalizarPrecoCompra(numero("4.5"), decimal.Zero).String())
}

func TestPrecos_AcimaDaColunaIgnorado(t *testing.T) {
	p := estoque.ReconciliarPrecosCriacao(estoque.EntradaPrecos{
		Unidade: numero("10000000000"),
		Caixa:   numero("120"),
	}, 12)
	assert.Equal(t, "10", p.Unidade.String())
	assert.NoError(t, p.Validar())

	atual := estoque.Precos{Unidade: dec("10"), Caixa: decimal.NewNullDecimal(dec("100"))}
	p = estoque.ReconciliarPrecosAtualizacao(estoque.EntradaPrecos{Caixa: numero("1e20")}, atual, 12)
	assert.Equal(t, "100", p.Caixa.Decimal.String())
	assert.NoError(t, p.Validar())
}

func TestPrecos_CaixaDerivadaExcedeLimite(t *testing.T) {
	p := estoque.ReconciliarPrecosCriacao(estoque.EntradaPrecos{Unidade: numero("9999999999.99")}, 12)
	assert.ErrorIs(t, p.Validar(), estoque.ErrPrecoExcessivo)

	p = estoque.ReconciliarPrecosCriacao(estoque.EntradaPrecos{Unidade: numero("9999999999.99")}, 1)
	assert.NoError(t, p.Validar())
}
