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

// FilialService manages branches. Writes are admin-only at the router.
type FilialService interface {
	Listar(ctx context.Context, esc dto.Escopo) ([]dto.FilialResponse, error)
	ObterPorID(ctx context.Context, esc dto.Escopo, id uuid.UUID) (*dto.FilialResponse, error)
	Criar(ctx context.Context, req dto.FilialRequest) (*dto.FilialResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.FilialRequest) (*dto.FilialResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
}

type filialService struct {
	repo repository.FilialRepository
}

func NewFilialService(repo repository.FilialRepository) FilialService {
	return &filialService{repo: repo}
}

func mapFilial(f model.Filial) dto.FilialResponse {
	return dto.FilialResponse{
		ID:       f.ID,
		Nome:     f.Nome,
		Endereco: f.Endereco,
		Telefone: f.Telefone,
		Ativo:    f.Ativo,
	}
}

func (s *filialService) Listar(ctx context.Context, esc dto.Escopo) ([]dto.FilialResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, repository.Traduzir(err, "filial")
	}
	result := make([]dto.FilialResponse, 0, len(list))
	for _, f := range list {
		if !esc.Permite(&f.ID) {
			continue
		}
		result = append(result, mapFilial(f))
	}
	return result, nil
}

func (s *filialService) ObterPorID(ctx context.Context, esc dto.Escopo, id uuid.UUID) (*dto.FilialResponse, error) {
	if !esc.Permite(&id) {
		return nil, apierror.NaoEncontrado("filial")
	}
	f, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, repository.Traduzir(err, "filial")
	}
	resp := mapFilial(*f)
	return &resp, nil
}

func (s *filialService) Criar(ctx context.Context, req dto.FilialRequest) (*dto.FilialResponse, error) {
	f := &model.Filial{
		Nome:     strings.TrimSpace(req.Nome),
		Endereco: req.Endereco,
		Telefone: req.Telefone,
		Ativo:    true,
	}
	if req.Ativo != nil {
		f.Ativo = *req.Ativo
	}
	if err := s.repo.Criar(ctx, f); err != nil {
		return nil, repository.Traduzir(err, "filial")
	}
	resp := mapFilial(*f)
	return &resp, nil
}

func (s *filialService) Atualizar(ctx context.Context, id uuid.UUID, req dto.FilialRequest) (*dto.FilialResponse, error) {
	f, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, repository.Traduzir(err, "filial")
	}
	f.Nome = strings.TrimSpace(req.Nome)
	if req.Endereco != nil {
		f.Endereco = req.Endereco
	}
	if req.Telefone != nil {
		f.Telefone = req.Telefone
	}
	if req.Ativo != nil {
		f.Ativo = *req.Ativo
	}
	if err := s.repo.Atualizar(ctx, f); err != nil {
		return nil, repository.Traduzir(err, "filial")
	}
	resp := mapFilial(*f)
	return &resp, nil
}

// Excluir fails with Conflito while warehouses, categories or sales still
// reference the filial.
func (s *filialService) Excluir(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.Excluir(ctx, id)
	if err != nil {
		return repository.Traduzir(err, "filial")
	}
	if n == 0 {
		return apierror.NaoEncontrado("filial")
	}
	return nil
}
