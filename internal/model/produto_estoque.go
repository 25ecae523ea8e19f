package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProdutoEstoque is a sellable product variant held in one armazem.
// FilialID is denormalized from the armazem and rewritten whenever ArmazemID changes.
// Codigo is unique per armazem when set; items without a code may repeat.
// PrecoVendaCaixa is NULL only on legacy rows where no box price was ever trusted.
type ProdutoEstoque struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome                string              `gorm:"index;not null"`
	Codigo              string              `gorm:"uniqueIndex:idx_produto_armazem_codigo,where:codigo <> '';not null;default:''"`
	Marca               string              `gorm:"not null;default:''"`
	Tipo                string              `gorm:"not null;default:''"`
	PrecoCompra         decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	PrecoVendaUnidade   decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	PrecoVendaCaixa     decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	UnidadesPorCaixa    int                 `gorm:"not null;default:1;check:chk_unidades_por_caixa,unidades_por_caixa >= 1"`
	Caixas              int                 `gorm:"not null;default:0"`
	QuantidadeEmEstoque int                 `gorm:"not null;default:0"`
	CategoriaID         uuid.UUID           `gorm:"type:uuid;index;not null"`
	ArmazemID           uuid.UUID           `gorm:"type:uuid;uniqueIndex:idx_produto_armazem_codigo;not null"`
	FilialID            uuid.UUID           `gorm:"type:uuid;index;not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID;constraint:OnDelete:RESTRICT"`
	Armazem   *Armazem   `gorm:"foreignKey:ArmazemID;constraint:OnDelete:RESTRICT"`
	Filial    *Filial    `gorm:"foreignKey:FilialID;constraint:OnDelete:RESTRICT"`
}

func (ProdutoEstoque) TableName() string { return "produtos_estoque" }
