package dto

import "github.com/google/uuid"

// ── Filiais ───────────────────────────────────────────────────────────────────

type FilialRequest struct {
	Nome     string  `json:"nome"     validate:"required,min=2,max=120"`
	Endereco *string `json:"endereco" validate:"omitempty,max=255"`
	Telefone *string `json:"telefone" validate:"omitempty,max=30"`
	Ativo    *bool   `json:"ativo"`
}

type FilialResponse struct {
	ID       uuid.UUID `json:"id"`
	Nome     string    `json:"nome"`
	Endereco *string   `json:"endereco"`
	Telefone *string   `json:"telefone"`
	Ativo    bool      `json:"ativo"`
}

// ── Armazéns ─────────────────────────────────────────────────────────────────

type ArmazemRequest struct {
	Nome     string     `json:"nome"      validate:"required,min=1,max=120"`
	FilialID *uuid.UUID `json:"filial_id"`
}

type ArmazemResponse struct {
	ID       uuid.UUID  `json:"id"`
	Nome     string     `json:"nome"`
	FilialID *uuid.UUID `json:"filial_id"`
}

// ── Categorias ────────────────────────────────────────────────────────────────

type CategoriaRequest struct {
	Marca    string     `json:"marca"     validate:"max=120"`
	Tipo     string     `json:"tipo"      validate:"max=120"`
	FilialID *uuid.UUID `json:"filial_id"`
}

type CategoriaResponse struct {
	ID       uuid.UUID `json:"id"`
	Marca    string    `json:"marca"`
	Tipo     string    `json:"tipo"`
	FilialID uuid.UUID `json:"filial_id"`
}

// ── Clientes ──────────────────────────────────────────────────────────────────

type ClienteRequest struct {
	Nome      string     `json:"nome"      validate:"required,min=2,max=120"`
	Email     *string    `json:"email"     validate:"omitempty,email"`
	Telefone  *string    `json:"telefone"  validate:"omitempty,max=30"`
	Documento *string    `json:"documento" validate:"omitempty,max=30"`
	FilialID  *uuid.UUID `json:"filial_id"`
}

type ClienteFilter struct {
	Busca string `form:"busca"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ClienteResponse struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Email     *string   `json:"email"`
	Telefone  *string   `json:"telefone"`
	Documento *string   `json:"documento"`
	FilialID  uuid.UUID `json:"filial_id"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
