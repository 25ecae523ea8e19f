package dto

import (
	"filialpos/internal/estoque"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProdutoEstoqueRequest is the body of both POST /v1/estoque and
// PATCH /v1/estoque/:id. Every field remembers whether it was sent, so the
// same shape drives the create and the partial-update reconcilers.
type ProdutoEstoqueRequest struct {
	Nome                estoque.Texto             `json:"nome"`
	Codigo              estoque.Texto             `json:"codigo"`
	Marca               estoque.Texto             `json:"marca"`
	Tipo                estoque.Texto             `json:"tipo"`
	PrecoCompra         estoque.Numero            `json:"preco_compra"`
	PrecoVendaUnidade   estoque.Numero            `json:"preco_venda_unidade"`
	PrecoVendaCaixa     estoque.Numero            `json:"preco_venda_caixa"`
	UnidadesPorCaixa    estoque.Numero            `json:"unidades_por_caixa"`
	Caixas              estoque.Numero            `json:"caixas"`
	QuantidadeEmEstoque estoque.Numero            `json:"quantidade_em_estoque"`
	CategoriaID         estoque.Campo[uuid.UUID] `json:"categoria_id"`
	ArmazemID           estoque.Campo[uuid.UUID] `json:"armazem_id"`
}

// Quantidades extracts the quantity fields for the reconciler.
func (r ProdutoEstoqueRequest) Quantidades() estoque.EntradaQuantidades {
	return estoque.EntradaQuantidades{
		UnidadesPorCaixa:    r.UnidadesPorCaixa,
		Caixas:              r.Caixas,
		QuantidadeEmEstoque: r.QuantidadeEmEstoque,
	}
}

// Precos extracts the sale price fields for the reconciler.
func (r ProdutoEstoqueRequest) Precos() estoque.EntradaPrecos {
	return estoque.EntradaPrecos{
		Unidade: r.PrecoVendaUnidade,
		Caixa:   r.PrecoVendaCaixa,
	}
}

// SubstituirEstoqueRequest replaces every item of ArmazemID with Itens.
// Without ArmazemID the whole stock (of every filial) is replaced, and each
// item must carry its own armazem_id.
type SubstituirEstoqueRequest struct {
	ArmazemID *uuid.UUID              `json:"armazem_id"`
	Itens     []ProdutoEstoqueRequest `json:"itens" validate:"required"`
}

// ExcluirPorCategoriaFilter is bound from the query string of DELETE /v1/estoque.
type ExcluirPorCategoriaFilter struct {
	Marca     string `form:"marca"`
	Tipo      string `form:"tipo"`
	ArmazemID string `form:"armazem_id" validate:"omitempty,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type EstoqueFilter struct {
	ArmazemID   string `form:"armazem_id"   validate:"omitempty,uuid"`
	FilialID    string `form:"filial_id"    validate:"omitempty,uuid"`
	CategoriaID string `form:"categoria_id" validate:"omitempty,uuid"`
	Marca       string `form:"marca"`
	Tipo        string `form:"tipo"`
	Busca       string `form:"busca"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdutoEstoqueResponse struct {
	ID                  uuid.UUID        `json:"id"`
	Nome                string           `json:"nome"`
	Codigo              string           `json:"codigo"`
	Marca               string           `json:"marca"`
	Tipo                string           `json:"tipo"`
	PrecoCompra         decimal.Decimal  `json:"preco_compra"`
	PrecoVendaUnidade   decimal.Decimal  `json:"preco_venda_unidade"`
	PrecoVendaCaixa     *decimal.Decimal `json:"preco_venda_caixa"`
	UnidadesPorCaixa    int              `json:"unidades_por_caixa"`
	Caixas              int              `json:"caixas"`
	QuantidadeEmEstoque int              `json:"quantidade_em_estoque"`
	CategoriaID         uuid.UUID        `json:"categoria_id"`
	ArmazemID           uuid.UUID        `json:"armazem_id"`
	FilialID            uuid.UUID        `json:"filial_id"`
}

type EstoqueListResponse struct {
	Data       []ProdutoEstoqueResponse `json:"data"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"total_pages"`
}

type SubstituirEstoqueResponse struct {
	Excluidos int64                    `json:"excluidos"`
	Criados   []ProdutoEstoqueResponse `json:"criados"`
}

type ExcluirPorCategoriaResponse struct {
	Excluidos int64 `json:"excluidos"`
}

// ImportacaoResponse reports a spreadsheet import. Erros maps the 1-based
// spreadsheet row to the reason it was rejected; any error aborts the import.
type ImportacaoResponse struct {
	Linhas    int                      `json:"linhas"`
	Excluidos int64                    `json:"excluidos"`
	Criados   int                      `json:"criados"`
	Erros     map[int]string           `json:"erros,omitempty"`
	Itens     []ProdutoEstoqueResponse `json:"-"`
}

type MovimentoEstoqueResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Tipo               string     `json:"tipo"`
	Quantidade         int        `json:"quantidade"`
	QuantidadeAnterior int        `json:"quantidade_anterior"`
	QuantidadeNova     int        `json:"quantidade_nova"`
	ReferenciaID       *uuid.UUID `json:"referencia_id"`
	UsuarioID          *uuid.UUID `json:"usuario_id"`
	CreatedAt          string     `json:"created_at"`
}

// ConsultaPrecoResponse is returned by the public price check endpoint (no auth required).
type ConsultaPrecoResponse struct {
	Nome                string           `json:"nome"`
	Codigo              string           `json:"codigo"`
	PrecoVendaUnidade   decimal.Decimal  `json:"preco_venda_unidade"`
	PrecoVendaCaixa     *decimal.Decimal `json:"preco_venda_caixa"`
	UnidadesPorCaixa    int              `json:"unidades_por_caixa"`
	QuantidadeEmEstoque int              `json:"quantidade_em_estoque"`
}
