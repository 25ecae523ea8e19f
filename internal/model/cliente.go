package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a customer registered by a filial.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"index;not null"`
	Email     *string
	Telefone  *string
	Documento *string   `gorm:"index"`
	FilialID  uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
