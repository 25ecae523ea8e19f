package model

import (
	"time"

	"github.com/google/uuid"
)

// Armazem is a stock-holding location. FilialID is nullable only for legacy
// rows; an armazem without a filial cannot receive stock items.
type Armazem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string     `gorm:"not null"`
	FilialID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Filial *Filial `gorm:"foreignKey:FilialID"`
}

func (Armazem) TableName() string { return "armazens" }
