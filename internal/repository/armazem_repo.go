package repository

import (
	"context"

	"filialpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArmazemRepository defines data access for warehouses.
type ArmazemRepository interface {
	Criar(ctx context.Context, a *model.Armazem) error
	// Listar returns every warehouse, or only those of filialID when non-nil.
	Listar(ctx context.Context, filialID *uuid.UUID) ([]model.Armazem, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Armazem, error)
	Atualizar(ctx context.Context, a *model.Armazem) error
	Excluir(ctx context.Context, id uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) ArmazemRepository
}

type armazemRepo struct{ db *gorm.DB }

func NewArmazemRepository(db *gorm.DB) ArmazemRepository { return &armazemRepo{db: db} }

func (r *armazemRepo) WithTx(tx *gorm.DB) ArmazemRepository {
	if tx == nil {
		return r
	}
	return &armazemRepo{db: tx}
}

func (r *armazemRepo) Criar(ctx context.Context, a *model.Armazem) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *armazemRepo) Listar(ctx context.Context, filialID *uuid.UUID) ([]model.Armazem, error) {
	var list []model.Armazem
	q := r.db.WithContext(ctx).Order("nome ASC")
	if filialID != nil {
		q = q.Where("filial_id = ?", *filialID)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *armazemRepo) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Armazem, error) {
	var a model.Armazem
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *armazemRepo) Atualizar(ctx context.Context, a *model.Armazem) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *armazemRepo) Excluir(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Armazem{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
