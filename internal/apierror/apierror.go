// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Codigo string `json:"codigo,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}

// Error codes carried by Erro.
const (
	CodigoValidacao     = "VALIDACAO"
	CodigoNaoEncontrado = "NAO_ENCONTRADO"
	CodigoConflito      = "CONFLITO"
	CodigoNaoAutorizado = "NAO_AUTORIZADO"
	CodigoProibido      = "PROIBIDO"
	CodigoInterno       = "INTERNO"
)

// Erro is a domain error returned by services. Handlers translate it into an
// HTTP status and an APIError body; Causa is logged but never serialized.
type Erro struct {
	Codigo   string
	Mensagem string
	Status   int
	Causa    error
}

func (e *Erro) Error() string {
	if e.Causa != nil {
		return fmt.Sprintf("%s: %s: %v", e.Codigo, e.Mensagem, e.Causa)
	}
	return fmt.Sprintf("%s: %s", e.Codigo, e.Mensagem)
}

func (e *Erro) Unwrap() error { return e.Causa }

// Is matches by code so callers can write errors.Is(err, apierror.ErrNaoEncontrado).
func (e *Erro) Is(target error) bool {
	var t *Erro
	if errors.As(target, &t) {
		return t.Codigo == e.Codigo
	}
	return false
}

// Body returns the client-facing envelope.
func (e *Erro) Body() *APIError {
	return &APIError{Detail: e.Mensagem, Codigo: e.Codigo}
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidacao     = &Erro{Codigo: CodigoValidacao}
	ErrNaoEncontrado = &Erro{Codigo: CodigoNaoEncontrado}
	ErrConflito      = &Erro{Codigo: CodigoConflito}
	ErrNaoAutorizado = &Erro{Codigo: CodigoNaoAutorizado}
	ErrProibido      = &Erro{Codigo: CodigoProibido}
)

func Validacao(msg string) *Erro {
	return &Erro{Codigo: CodigoValidacao, Mensagem: msg, Status: http.StatusBadRequest}
}

func NaoEncontrado(recurso string) *Erro {
	return &Erro{Codigo: CodigoNaoEncontrado, Mensagem: recurso + " não encontrado", Status: http.StatusNotFound}
}

func Conflito(msg string) *Erro {
	return &Erro{Codigo: CodigoConflito, Mensagem: msg, Status: http.StatusConflict}
}

func NaoAutorizado(msg string) *Erro {
	return &Erro{Codigo: CodigoNaoAutorizado, Mensagem: msg, Status: http.StatusUnauthorized}
}

func Proibido(msg string) *Erro {
	return &Erro{Codigo: CodigoProibido, Mensagem: msg, Status: http.StatusForbidden}
}

// Interno wraps an unexpected failure. The message shown to clients is generic.
func Interno(causa error) *Erro {
	return &Erro{Codigo: CodigoInterno, Mensagem: "erro interno do servidor", Status: http.StatusInternalServerError, Causa: causa}
}

// ComCausa attaches the underlying error to e and returns it.
func (e *Erro) ComCausa(err error) *Erro {
	e.Causa = err
	return e
}

// Como extracts an *Erro from err's chain.
func Como(err error) (*Erro, bool) {
	var e *Erro
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Status returns the HTTP status for err; anything that is not an *Erro is 500.
func Status(err error) int {
	if e, ok := Como(err); ok && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}
