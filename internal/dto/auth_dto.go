package dto

import "github.com/google/uuid"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CriarUsuarioRequest struct {
	Nome     string     `json:"nome"      validate:"required,min=2,max=100"`
	Email    string     `json:"email"     validate:"required,email"`
	Password string     `json:"password"  validate:"required,min=8"`
	Role     string     `json:"role"      validate:"required,oneof=admin afiliado vendedor"`
	FilialID *uuid.UUID `json:"filial_id"`
}

type AtualizarUsuarioRequest struct {
	Nome     string  `json:"nome"     validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Role     string  `json:"role"     validate:"omitempty,oneof=admin afiliado vendedor"`
	Password string  `json:"password" validate:"omitempty,min=8"`
	Ativo    *bool   `json:"ativo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID       uuid.UUID  `json:"id"`
	Nome     string     `json:"nome"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	FilialID *uuid.UUID `json:"filial_id"`
	Ativo    bool       `json:"ativo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}
