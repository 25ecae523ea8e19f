package model

import (
	"time"

	"github.com/google/uuid"
)

// Filial is a physical business location; every warehouse, category, customer
// and sale belongs to exactly one.
type Filial struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"uniqueIndex;not null"`
	Endereco  *string
	Telefone  *string
	Ativo     bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization (filials → filiais).
func (Filial) TableName() string { return "filiais" }
