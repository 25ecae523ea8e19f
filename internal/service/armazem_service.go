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

type ArmazemService interface {
	Listar(ctx context.Context, esc dto.Escopo) ([]dto.ArmazemResponse, error)
	Criar(ctx context.Context, esc dto.Escopo, req dto.ArmazemRequest) (*dto.ArmazemResponse, error)
	Atualizar(ctx context.Context, esc dto.Escopo, id uuid.UUID, req dto.ArmazemRequest) (*dto.ArmazemResponse, error)
	Excluir(ctx context.Context, esc dto.Escopo, id uuid.UUID) error
}

type armazemService struct {
	repo     repository.ArmazemRepository
	filiais  repository.FilialRepository
	produtos repository.ProdutoEstoqueRepository
}

func NewArmazemService(repo repository.ArmazemRepository, filiais repository.FilialRepository, produtos repository.ProdutoEstoqueRepository) ArmazemService {
	return &armazemService{repo: repo, filiais: filiais, produtos: produtos}
}

func mapArmazem(a model.Armazem) dto.ArmazemResponse {
	return dto.ArmazemResponse{ID: a.ID, Nome: a.Nome, FilialID: a.FilialID}
}

func (s *armazemService) Listar(ctx context.Context, esc dto.Escopo) ([]dto.ArmazemResponse, error) {
	list, err := s.repo.Listar(ctx, esc.Restringe())
	if err != nil {
		return nil, repository.Traduzir(err, "armazém")
	}
	result := make([]dto.ArmazemResponse, 0, len(list))
	for _, a := range list {
		result = append(result, mapArmazem(a))
	}
	return result, nil
}

// filialDoPedido picks the filial a warehouse write targets: the caller's own
// for non-admins, the requested one for admins. The filial must exist.
func (s *armazemService) filialDoPedido(ctx context.Context, esc dto.Escopo, req dto.ArmazemRequest) (*uuid.UUID, error) {
	filialID := req.FilialID
	if !esc.Admin() {
		filialID = esc.FilialID
	}
	if filialID == nil {
		return nil, apierror.Validacao("filial_id é obrigatório")
	}
	if _, err := s.filiais.ObterPorID(ctx, *filialID); err != nil {
		return nil, repository.Traduzir(err, "filial")
	}
	return filialID, nil
}

func (s *armazemService) Criar(ctx context.Context, esc dto.Escopo, req dto.ArmazemRequest) (*dto.ArmazemResponse, error) {
	filialID, err := s.filialDoPedido(ctx, esc, req)
	if err != nil {
		return nil, err
	}
	a := &model.Armazem{Nome: strings.TrimSpace(req.Nome), FilialID: filialID}
	if err := s.repo.Criar(ctx, a); err != nil {
		return nil, repository.Traduzir(err, "armazém")
	}
	resp := mapArmazem(*a)
	return &resp, nil
}

// Atualizar renames a warehouse or moves it to another filial. Stock items
// carry their filial, so a warehouse that still holds items cannot move.
func (s *armazemService) Atualizar(ctx context.Context, esc dto.Escopo, id uuid.UUID, req dto.ArmazemRequest) (*dto.ArmazemResponse, error) {
	a, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, repository.Traduzir(err, "armazém")
	}
	if !esc.Permite(a.FilialID) {
		return nil, apierror.NaoEncontrado("armazém")
	}
	a.Nome = strings.TrimSpace(req.Nome)

	if esc.Admin() && req.FilialID != nil && (a.FilialID == nil || *a.FilialID != *req.FilialID) {
		filialID, err := s.filialDoPedido(ctx, esc, req)
		if err != nil {
			return nil, err
		}
		_, n, err := s.produtos.Listar(ctx, dto.EstoqueFilter{ArmazemID: id.String(), Page: 1, Limit: 1}, nil)
		if err != nil {
			return nil, repository.Traduzir(err, "produto")
		}
		if n > 0 {
			return nil, apierror.Conflito("armazém possui produtos e não pode mudar de filial")
		}
		a.FilialID = filialID
	}

	if err := s.repo.Atualizar(ctx, a); err != nil {
		return nil, repository.Traduzir(err, "armazém")
	}
	resp := mapArmazem(*a)
	return &resp, nil
}

func (s *armazemService) Excluir(ctx context.Context, esc dto.Escopo, id uuid.UUID) error {
	a, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return repository.Traduzir(err, "armazém")
	}
	if !esc.Permite(a.FilialID) {
		return apierror.NaoEncontrado("armazém")
	}
	if _, err := s.repo.Excluir(ctx, id); err != nil {
		return repository.Traduzir(err, "armazém")
	}
	return nil
}
