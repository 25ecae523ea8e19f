package repository

import (
	"context"

	"filialpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimentoRepository interface {
	Criar(ctx context.Context, m *model.MovimentoEstoque) error
	ListarPorProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error)
	WithTx(tx *gorm.DB) MovimentoRepository
}

type movimentoRepo struct{ db *gorm.DB }

func NewMovimentoRepository(db *gorm.DB) MovimentoRepository { return &movimentoRepo{db: db} }

func (r *movimentoRepo) WithTx(tx *gorm.DB) MovimentoRepository {
	if tx == nil {
		return r
	}
	return &movimentoRepo{db: tx}
}

func (r *movimentoRepo) Criar(ctx context.Context, m *model.MovimentoEstoque) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimentoRepo) ListarPorProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error) {
	var movs []model.MovimentoEstoque
	err := r.db.WithContext(ctx).
		Where("produto_id = ?", produtoID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movs).Error
	return movs, err
}
