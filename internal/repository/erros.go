package repository

import (
	"errors"
	"strings"

	"filialpos/internal/apierror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes the API reports as client errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Traduzir maps a store error to the apierror taxonomy. recurso names the
// entity for not-found messages ("produto", "armazém"). Errors that are already
// an *apierror.Erro pass through; anything unknown becomes Interno.
func Traduzir(err error, recurso string) error {
	if err == nil {
		return nil
	}
	if _, ok := apierror.Como(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NaoEncontrado(recurso).ComCausa(err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.Conflito(recurso + " já existe").ComCausa(err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apierror.Conflito(mensagemUnica(pgErr.ConstraintName, recurso)).ComCausa(err)
		case pgForeignKeyViolation:
			// Inserts point at a missing parent; deletes still have children.
			if strings.HasPrefix(pgErr.Message, "insert or update") {
				return apierror.Conflito(recurso + " referencia um registro inexistente").ComCausa(err)
			}
			return apierror.Conflito(recurso + " possui registros relacionados").ComCausa(err)
		}
	}
	return apierror.Interno(err)
}

func mensagemUnica(constraint, recurso string) string {
	switch constraint {
	case "idx_produto_armazem_codigo":
		return "já existe um produto com esse código neste armazém"
	case "idx_categoria_chave":
		return "categoria já existe nesta filial"
	case "idx_usuarios_email":
		return "e-mail já cadastrado"
	}
	return recurso + " já existe"
}
