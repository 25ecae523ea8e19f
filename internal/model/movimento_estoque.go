package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimentoEstoque registra cada mudança de quantidade em um produto.
// Tipo: "venda" | "ajuste"
type MovimentoEstoque struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	Tipo               string     `gorm:"type:varchar(20);not null"`
	Quantidade         int        `gorm:"not null"` // positive = entrada, negative = saída
	QuantidadeAnterior int        `gorm:"not null"`
	QuantidadeNova     int        `gorm:"not null"`
	ReferenciaID       *uuid.UUID `gorm:"type:uuid"` // venda_id when Tipo = "venda"
	UsuarioID          *uuid.UUID `gorm:"type:uuid"`
	CreatedAt          time.Time
}

// TableName overrides GORM's default pluralization (movimento_estoques → movimentos_estoque).
func (MovimentoEstoque) TableName() string { return "movimentos_estoque" }
