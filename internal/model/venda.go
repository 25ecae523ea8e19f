package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venda is a completed sale. Items are immutable once written.
type Venda struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FilialID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ClienteID      *uuid.UUID      `gorm:"type:uuid;index"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null"`
	FormaPagamento string          `gorm:"type:varchar(20);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time

	Itens   []VendaItem `gorm:"foreignKey:VendaID"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
	Filial  *Filial     `gorm:"foreignKey:FilialID"`
}

// VendaItem is one line of a Venda. PrecoUnitario is frozen at sale time.
type VendaItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantidade    int             `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Produto *ProdutoEstoque `gorm:"foreignKey:ProdutoID"`
}

func (VendaItem) TableName() string { return "venda_itens" }
