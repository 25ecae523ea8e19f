package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles
const (
	RoleAdmin    = "admin"
	RoleAfiliado = "afiliado"
	RoleVendedor = "vendedor"
)

// Usuario stores team members with role-based access.
// FilialID is nil only for admins, who see every filial.
type Usuario struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome         string     `gorm:"not null"`
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         string     `gorm:"type:varchar(20);not null"`
	FilialID     *uuid.UUID `gorm:"type:uuid;index"`
	Ativo        bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
