package service

import (
	"context"
	"strings"

	"filialpos/internal/apierror"
	"filialpos/internal/dto"
	"filialpos/internal/model"
	"filialpos/internal/repository"

	"github.com/google/uuid"
)

// CategoriaService defines business operations for (marca, tipo) categories.
type CategoriaService interface {
	Listar(ctx context.Context, esc dto.Escopo) ([]dto.CategoriaResponse, error)
	// Criar is idempotent: the same key always yields the same category.
	Criar(ctx context.Context, esc dto.Escopo, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	Excluir(ctx context.Context, esc dto.Escopo, id uuid.UUID) error
}

type categoriaService struct {
	repo     repository.CategoriaRepository
	produtos repository.ProdutoEstoqueRepository
}

func NewCategoriaService(repo repository.CategoriaRepository, produtos repository.ProdutoEstoqueRepository) CategoriaService {
	return &categoriaService{repo: repo, produtos: produtos}
}

// mapCategoria converts a model to a DTO response.
func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:       c.ID,
		Marca:    c.Marca,
		Tipo:     c.Tipo,
		FilialID: c.FilialID,
	}
}

// resolverCategoria finds or creates the category (marca, tipo, filial).
// marca and tipo are trimmed; an empty string is a valid key part.
func resolverCategoria(ctx context.Context, repo repository.CategoriaRepository, marca, tipo string, filialID *uuid.UUID) (*model.Categoria, error) {
	if filialID == nil || *filialID == uuid.Nil {
		return nil, apierror.Validacao("categoria exige uma filial")
	}
	c, err := repo.Resolver(ctx, strings.TrimSpace(marca), strings.TrimSpace(tipo), *filialID)
	if err != nil {
		return nil, repository.Traduzir(err, "categoria")
	}
	return c, nil
}

func (s *categoriaService) Listar(ctx context.Context, esc dto.Escopo) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx, esc.Restringe())
	if err != nil {
		return nil, repository.Traduzir(err, "categoria")
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Criar(ctx context.Context, esc dto.Escopo, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	filialID := req.FilialID
	if !esc.Admin() {
		filialID = esc.FilialID
	}
	c, err := resolverCategoria(ctx, s.repo, req.Marca, req.Tipo, filialID)
	if err != nil {
		return nil, err
	}
	resp := mapCategoria(*c)
	return &resp, nil
}

func (s *categoriaService) Excluir(ctx context.Context, esc dto.Escopo, id uuid.UUID) error {
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return repository.Traduzir(err, "categoria")
	}
	if !esc.Permite(&c.FilialID) {
		return apierror.NaoEncontrado("categoria")
	}
	n, err := s.produtos.ContarPorCategoria(ctx, id)
	if err != nil {
		return repository.Traduzir(err, "categoria")
	}
	if n > 0 {
		return apierror.Conflito("categoria possui produtos em estoque")
	}
	if _, err := s.repo.Excluir(ctx, id); err != nil {
		return repository.Traduzir(err, "categoria")
	}
	return nil
}
