package repository

import (
	"context"

	"filialpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FilialRepository interface {
	Criar(ctx context.Context, f *model.Filial) error
	Listar(ctx context.Context) ([]model.Filial, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Filial, error)
	Atualizar(ctx context.Context, f *model.Filial) error
	Excluir(ctx context.Context, id uuid.UUID) (int64, error)
}

type filialRepo struct{ db *gorm.DB }

func NewFilialRepository(db *gorm.DB) FilialRepository { return &filialRepo{db: db} }

func (r *filialRepo) Criar(ctx context.Context, f *model.Filial) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *filialRepo) Listar(ctx context.Context) ([]model.Filial, error) {
	var list []model.Filial
	err := r.db.WithContext(ctx).Order("nome ASC").Find(&list).Error
	return list, err
}

func (r *filialRepo) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Filial, error) {
	var f model.Filial
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *filialRepo) Atualizar(ctx context.Context, f *model.Filial) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *filialRepo) Excluir(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Filial{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
