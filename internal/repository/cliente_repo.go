package repository

import (
	"context"

	"filialpos/internal/dto"
	"filialpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Criar(ctx context.Context, c *model.Cliente) error
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	Listar(ctx context.Context, filter dto.ClienteFilter, filialID *uuid.UUID) ([]model.Cliente, int64, error)
	Atualizar(ctx context.Context, c *model.Cliente) error
	Excluir(ctx context.Context, id uuid.UUID) (int64, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Criar(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) Listar(ctx context.Context, filter dto.ClienteFilter, filialID *uuid.UUID) ([]model.Cliente, int64, error) {
	var list []model.Cliente
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cliente{})
	if filialID != nil {
		q = q.Where("filial_id = ?", *filialID)
	}
	if filter.Busca != "" {
		like := "%" + filter.Busca + "%"
		q = q.Where("(nome ILIKE ? OR documento ILIKE ? OR email ILIKE ?)", like, like, like)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nome ASC").Limit(filter.Limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *clienteRepo) Atualizar(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) Excluir(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Cliente{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
