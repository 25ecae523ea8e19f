package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria classifies stock items by (marca, tipo) inside one filial.
// The composite key is unique; rows are created on demand by the resolver.
type Categoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Marca     string    `gorm:"uniqueIndex:idx_categoria_chave;not null"`
	Tipo      string    `gorm:"uniqueIndex:idx_categoria_chave;not null"`
	FilialID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_categoria_chave;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Filial *Filial `gorm:"foreignKey:FilialID;constraint:OnDelete:RESTRICT"`
}

// TableName overrides GORM's default singular → plural logic for Portuguese names.
func (Categoria) TableName() string { return "categorias" }
