package repository

import (
	"context"

	"filialpos/internal/dto"
	"filialpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProdutoEstoqueRepository defines the data access contract for stock items.
// Services depend on this interface, not on the concrete GORM implementation,
// so unit tests can swap in an in-memory stub.
type ProdutoEstoqueRepository interface {
	Criar(ctx context.Context, p *model.ProdutoEstoque) error
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.ProdutoEstoque, error)
	// ObterParaAtualizar reads the row with SELECT ... FOR UPDATE; only
	// meaningful on a repository bound to a transaction.
	ObterParaAtualizar(ctx context.Context, id uuid.UUID) (*model.ProdutoEstoque, error)
	ObterPorCodigo(ctx context.Context, armazemID uuid.UUID, codigo string) (*model.ProdutoEstoque, error)
	// Listar applies filter; filialID, when non-nil, restricts to one filial
	// regardless of filter.FilialID.
	Listar(ctx context.Context, filter dto.EstoqueFilter, filialID *uuid.UUID) ([]model.ProdutoEstoque, int64, error)
	// ListarTodos is Listar without pagination, ordered for export.
	ListarTodos(ctx context.Context, filter dto.EstoqueFilter, filialID *uuid.UUID) ([]model.ProdutoEstoque, error)
	Atualizar(ctx context.Context, p *model.ProdutoEstoque) error
	Excluir(ctx context.Context, id uuid.UUID) (int64, error)
	// ExcluirPorArmazem deletes every item of armazemID, or every item at all when nil.
	ExcluirPorArmazem(ctx context.Context, armazemID *uuid.UUID) (int64, error)
	// ExcluirPorCategoria deletes items by (marca, tipo), optionally narrowed to
	// one warehouse and one filial.
	ExcluirPorCategoria(ctx context.Context, marca, tipo string, armazemID, filialID *uuid.UUID) (int64, error)
	ContarPorCategoria(ctx context.Context, categoriaID uuid.UUID) (int64, error)

	WithTx(tx *gorm.DB) ProdutoEstoqueRepository
	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type produtoEstoqueRepo struct{ db *gorm.DB }

func NewProdutoEstoqueRepository(db *gorm.DB) ProdutoEstoqueRepository {
	return &produtoEstoqueRepo{db: db}
}

func (r *produtoEstoqueRepo) DB() *gorm.DB { return r.db }

func (r *produtoEstoqueRepo) WithTx(tx *gorm.DB) ProdutoEstoqueRepository {
	if tx == nil {
		return r
	}
	return &produtoEstoqueRepo{db: tx}
}

func (r *produtoEstoqueRepo) Criar(ctx context.Context, p *model.ProdutoEstoque) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *produtoEstoqueRepo) ObterPorID(ctx context.Context, id uuid.UUID) (*model.ProdutoEstoque, error) {
	var p model.ProdutoEstoque
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoEstoqueRepo) ObterParaAtualizar(ctx context.Context, id uuid.UUID) (*model.ProdutoEstoque, error) {
	var p model.ProdutoEstoque
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoEstoqueRepo) ObterPorCodigo(ctx context.Context, armazemID uuid.UUID, codigo string) (*model.ProdutoEstoque, error) {
	var p model.ProdutoEstoque
	err := r.db.WithContext(ctx).
		Where("armazem_id = ? AND codigo = ?", armazemID, codigo).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoEstoqueRepo) filtrar(ctx context.Context, filter dto.EstoqueFilter, filialID *uuid.UUID) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.ProdutoEstoque{})
	if filialID != nil {
		q = q.Where("filial_id = ?", *filialID)
	} else if filter.FilialID != "" {
		q = q.Where("filial_id = ?", filter.FilialID)
	}
	if filter.ArmazemID != "" {
		q = q.Where("armazem_id = ?", filter.ArmazemID)
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}
	if filter.Marca != "" {
		q = q.Where("marca = ?", filter.Marca)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Busca != "" {
		like := "%" + filter.Busca + "%"
		q = q.Where("(nome ILIKE ? OR codigo ILIKE ?)", like, like)
	}
	return q
}

func (r *produtoEstoqueRepo) Listar(ctx context.Context, filter dto.EstoqueFilter, filialID *uuid.UUID) ([]model.ProdutoEstoque, int64, error) {
	var produtos []model.ProdutoEstoque
	var total int64

	q := r.filtrar(ctx, filter, filialID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nome ASC").Limit(filter.Limit).Offset(offset).Find(&produtos).Error
	return produtos, total, err
}

func (r *produtoEstoqueRepo) ListarTodos(ctx context.Context, filter dto.EstoqueFilter, filialID *uuid.UUID) ([]model.ProdutoEstoque, error) {
	var produtos []model.ProdutoEstoque
	err := r.filtrar(ctx, filter, filialID).
		Order("armazem_id ASC, marca ASC, tipo ASC, nome ASC").
		Find(&produtos).Error
	return produtos, err
}

func (r *produtoEstoqueRepo) Atualizar(ctx context.Context, p *model.ProdutoEstoque) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *produtoEstoqueRepo) Excluir(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.ProdutoEstoque{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *produtoEstoqueRepo) ExcluirPorArmazem(ctx context.Context, armazemID *uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx)
	if armazemID != nil {
		q = q.Where("armazem_id = ?", *armazemID)
	} else {
		q = q.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	res := q.Delete(&model.ProdutoEstoque{})
	return res.RowsAffected, res.Error
}

func (r *produtoEstoqueRepo) ExcluirPorCategoria(ctx context.Context, marca, tipo string, armazemID, filialID *uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx).Where("marca = ? AND tipo = ?", marca, tipo)
	if armazemID != nil {
		q = q.Where("armazem_id = ?", *armazemID)
	}
	if filialID != nil {
		q = q.Where("filial_id = ?", *filialID)
	}
	res := q.Delete(&model.ProdutoEstoque{})
	return res.RowsAffected, res.Error
}

func (r *produtoEstoqueRepo) ContarPorCategoria(ctx context.Context, categoriaID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ProdutoEstoque{}).
		Where("categoria_id = ?", categoriaID).
		Count(&n).Error
	return n, err
}
