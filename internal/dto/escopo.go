package dto

import "github.com/google/uuid"

// Escopo identifies the caller of a service operation. FilialID is nil for
// admins, who are not restricted to a single filial.
type Escopo struct {
	UsuarioID uuid.UUID
	Role      string
	FilialID  *uuid.UUID
}

// Admin reports whether the caller is unrestricted.
func (e Escopo) Admin() bool { return e.Role == "admin" }

// Permite reports whether the caller may touch data owned by filialID.
func (e Escopo) Permite(filialID *uuid.UUID) bool {
	if e.Admin() {
		return true
	}
	if e.FilialID == nil || filialID == nil {
		return false
	}
	return *e.FilialID == *filialID
}

// Restringe returns the filial a query must be limited to, or nil for admins.
// A non-admin without filial is restricted to uuid.Nil, which matches nothing.
func (e Escopo) Restringe() *uuid.UUID {
	if e.Admin() {
		return nil
	}
	if e.FilialID == nil {
		nenhuma := uuid.Nil
		return &nenhuma
	}
	return e.FilialID
}
