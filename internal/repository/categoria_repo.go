package repository

import (
	"context"

	"filialpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoriaRepository defines data access for (marca, tipo, filial) categories.
type CategoriaRepository interface {
	// Resolver inserts the category or returns the existing row with the same
	// key in a single statement. Concurrent callers always get the same id.
	Resolver(ctx context.Context, marca, tipo string, filialID uuid.UUID) (*model.Categoria, error)
	Listar(ctx context.Context, filialID *uuid.UUID) ([]model.Categoria, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	Excluir(ctx context.Context, id uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) CategoriaRepository
}

type categoriaRepository struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepository{db: db}
}

func (r *categoriaRepository) WithTx(tx *gorm.DB) CategoriaRepository {
	if tx == nil {
		return r
	}
	return &categoriaRepository{db: tx}
}

// Resolver runs
//
//	INSERT ... ON CONFLICT (marca, tipo, filial_id) DO UPDATE SET marca = excluded.marca RETURNING *
//
// The no-op update makes Postgres return the existing row on conflict, which
// DO NOTHING would not.
func (r *categoriaRepository) Resolver(ctx context.Context, marca, tipo string, filialID uuid.UUID) (*model.Categoria, error) {
	c := model.Categoria{Marca: marca, Tipo: tipo, FilialID: filialID}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "marca"}, {Name: "tipo"}, {Name: "filial_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"marca"}),
			},
			clause.Returning{},
		).
		Create(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepository) Listar(ctx context.Context, filialID *uuid.UUID) ([]model.Categoria, error) {
	var list []model.Categoria
	q := r.db.WithContext(ctx).Order("marca ASC, tipo ASC")
	if filialID != nil {
		q = q.Where("filial_id = ?", *filialID)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *categoriaRepository) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepository) Excluir(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Categoria{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
