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

type ClienteService interface {
	Criar(ctx context.Context, esc dto.Escopo, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, esc dto.Escopo, f dto.ClienteFilter) (*dto.ClienteListResponse, error)
	ObterPorID(ctx context.Context, esc dto.Escopo, id uuid.UUID) (*dto.ClienteResponse, error)
	Atualizar(ctx context.Context, esc dto.Escopo, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Excluir(ctx context.Context, esc dto.Escopo, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func mapCliente(c model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:        c.ID,
		Nome:      c.Nome,
		Email:     c.Email,
		Telefone:  c.Telefone,
		Documento: c.Documento,
		FilialID:  c.FilialID,
	}
}

func (s *clienteService) Criar(ctx context.Context, esc dto.Escopo, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	filialID := req.FilialID
	if !esc.Admin() {
		filialID = esc.FilialID
	}
	if filialID == nil {
		return nil, apierror.Validacao("filial_id é obrigatório")
	}
	c := &model.Cliente{
		Nome:      strings.TrimSpace(req.Nome),
		Email:     req.Email,
		Telefone:  req.Telefone,
		Documento: req.Documento,
		FilialID:  *filialID,
	}
	if err := s.repo.Criar(ctx, c); err != nil {
		return nil, repository.Traduzir(err, "cliente")
	}
	resp := mapCliente(*c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, esc dto.Escopo, f dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
	list, total, err := s.repo.Listar(ctx, f, esc.Restringe())
	if err != nil {
		return nil, repository.Traduzir(err, "cliente")
	}
	data := make([]dto.ClienteResponse, 0, len(list))
	for _, c := range list {
		data = append(data, mapCliente(c))
	}
	return &dto.ClienteListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *clienteService) obter(ctx context.Context, esc dto.Escopo, id uuid.UUID) (*model.Cliente, error) {
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, repository.Traduzir(err, "cliente")
	}
	if !esc.Permite(&c.FilialID) {
		return nil, apierror.NaoEncontrado("cliente")
	}
	return c, nil
}

func (s *clienteService) ObterPorID(ctx context.Context, esc dto.Escopo, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.obter(ctx, esc, id)
	if err != nil {
		return nil, err
	}
	resp := mapCliente(*c)
	return &resp, nil
}

// Atualizar replaces the contact fields. A customer never changes filial.
func (s *clienteService) Atualizar(ctx context.Context, esc dto.Escopo, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.obter(ctx, esc, id)
	if err != nil {
		return nil, err
	}
	c.Nome = strings.TrimSpace(req.Nome)
	c.Email = req.Email
	c.Telefone = req.Telefone
	c.Documento = req.Documento
	if err := s.repo.Atualizar(ctx, c); err != nil {
		return nil, repository.Traduzir(err, "cliente")
	}
	resp := mapCliente(*c)
	return &resp, nil
}

func (s *clienteService) Excluir(ctx context.Context, esc dto.Escopo, id uuid.UUID) error {
	if _, err := s.obter(ctx, esc, id); err != nil {
		return err
	}
	if _, err := s.repo.Excluir(ctx, id); err != nil {
		return repository.Traduzir(err, "cliente")
	}
	return nil
}
