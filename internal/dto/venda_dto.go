package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

// VendaFilter is bound from query string of GET /v1/vendas.
type VendaFilter struct {
	Data  string `form:"data"` // YYYY-MM-DD; empty = every day
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VendaListResponse struct {
	Data  []VendaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProdutoID uuid.UUID `json:"produto_id" validate:"required"`
	// Quantidade is always in units; a box sale sends unidades_por_caixa units.
	Quantidade    int              `json:"quantidade"     validate:"required,min=1"`
	PrecoUnitario *decimal.Decimal `json:"preco_unitario"`
}

type RegistrarVendaRequest struct {
	ClienteID      *uuid.UUID         `json:"cliente_id"`
	FormaPagamento string             `json:"forma_pagamento" validate:"required,oneof=dinheiro debito credito pix"`
	Itens          []ItemVendaRequest `json:"itens"           validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	ProdutoID     uuid.UUID       `json:"produto_id"`
	Produto       string          `json:"produto"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type VendaResponse struct {
	ID             uuid.UUID           `json:"id"`
	FilialID       uuid.UUID           `json:"filial_id"`
	ClienteID      *uuid.UUID          `json:"cliente_id"`
	UsuarioID      uuid.UUID           `json:"usuario_id"`
	FormaPagamento string              `json:"forma_pagamento"`
	Itens          []ItemVendaResponse `json:"itens"`
	Total          decimal.Decimal     `json:"total"`
	CreatedAt      string              `json:"created_at"`
}
