package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"filialpos/internal/apierror"
	"filialpos/internal/dto"
	"filialpos/internal/estoque"
	"filialpos/internal/infra"
	"filialpos/internal/model"
	"filialpos/internal/repository"
	"filialpos/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendaService interface {
	Registrar(ctx context.Context, esc dto.Escopo, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error)
	ObterPorID(ctx context.Context, esc dto.Escopo, id uuid.UUID) (*dto.VendaResponse, error)
	Listar(ctx context.Context, esc dto.Escopo, f dto.VendaFilter) (*dto.VendaListResponse, error)
	// ReciboPDF renders the receipt of a sale.
	ReciboPDF(ctx context.Context, esc dto.Escopo, id uuid.UUID) ([]byte, error)
}

type vendaService struct {
	repo       repository.VendaRepository
	produtos   repository.ProdutoEstoqueRepository
	movimentos repository.MovimentoRepository
	clientes   repository.ClienteRepository
	dispatcher *worker.Dispatcher
	rdb        *redis.Client
	nomeLoja   string
}

func NewVendaService(
	repo repository.VendaRepository,
	produtos repository.ProdutoEstoqueRepository,
	movimentos repository.MovimentoRepository,
	clientes repository.ClienteRepository,
	dispatcher *worker.Dispatcher,
	rdb *redis.Client,
	nomeLoja string,
) VendaService {
	return &vendaService{
		repo:       repo,
		produtos:   produtos,
		movimentos: movimentos,
		clientes:   clientes,
		dispatcher: dispatcher,
		rdb:        rdb,
		nomeLoja:   nomeLoja,
	}
}

// ── Registrar ────────────────────────────────────────────────────────────────
// One transaction:
//  1. lock every product row (SELECT ... FOR UPDATE) and check availability
//  2. take the units off through estoque.BaixarUnidades so caixas stays derived
//  3. write the sale, its items and one "venda" movement per line
//
// After commit the price cache of the touched items is dropped and, when the
// customer has an e-mail, a receipt job is queued.

func (s *vendaService) Registrar(ctx context.Context, esc dto.Escopo, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error) {
	var cliente *model.Cliente
	if req.ClienteID != nil {
		c, err := s.clientes.ObterPorID(ctx, *req.ClienteID)
		if err != nil {
			return nil, repository.Traduzir(err, "cliente")
		}
		if !esc.Permite(&c.FilialID) {
			return nil, apierror.NaoEncontrado("cliente")
		}
		cliente = c
	}

	venda := model.Venda{
		ID:             uuid.New(),
		ClienteID:      req.ClienteID,
		UsuarioID:      esc.UsuarioID,
		FormaPagamento: req.FormaPagamento,
		Total:          decimal.Zero,
		CreatedAt:      time.Now(),
	}
	nomes := make([]string, 0, len(req.Itens))
	var chaves []string

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		produtos := s.produtos.WithTx(tx)
		movimentos := s.movimentos.WithTx(tx)
		var movs []model.MovimentoEstoque

		for i, item := range req.Itens {
			p, err := produtos.ObterParaAtualizar(ctx, item.ProdutoID)
			if err != nil {
				return rotularErro(fmt.Sprintf("item %d", i+1), repository.Traduzir(err, "produto"))
			}
			if !esc.Permite(&p.FilialID) {
				return apierror.NaoEncontrado("produto")
			}
			if i == 0 {
				venda.FilialID = p.FilialID
			} else if p.FilialID != venda.FilialID {
				return apierror.Validacao("todos os itens devem ser da mesma filial")
			}
			if cliente != nil && cliente.FilialID != p.FilialID {
				return apierror.Validacao("cliente pertence a outra filial")
			}
			if p.QuantidadeEmEstoque < item.Quantidade {
				return apierror.Validacao(fmt.Sprintf("estoque insuficiente para %s: disponível %d, solicitado %d",
					p.Nome, p.QuantidadeEmEstoque, item.Quantidade))
			}

			preco := p.PrecoVendaUnidade
			if item.PrecoUnitario != nil && !item.PrecoUnitario.IsNegative() {
				preco = item.PrecoUnitario.Round(2)
			}
			subtotal := preco.Mul(decimal.NewFromInt(int64(item.Quantidade))).Round(2)

			anterior := p.QuantidadeEmEstoque
			q := estoque.BaixarUnidades(estoque.Quantidades{
				UnidadesPorCaixa:    p.UnidadesPorCaixa,
				Caixas:              p.Caixas,
				QuantidadeEmEstoque: p.QuantidadeEmEstoque,
			}, item.Quantidade)
			p.Caixas = q.Caixas
			p.QuantidadeEmEstoque = q.QuantidadeEmEstoque
			if err := produtos.Atualizar(ctx, p); err != nil {
				return repository.Traduzir(err, "produto")
			}

			venda.Itens = append(venda.Itens, model.VendaItem{
				ProdutoID:     p.ID,
				Quantidade:    item.Quantidade,
				PrecoUnitario: preco,
				Subtotal:      subtotal,
			})
			venda.Total = venda.Total.Add(subtotal)
			nomes = append(nomes, p.Nome)
			chaves = append(chaves, ChavePreco(p.ArmazemID, p.Codigo))

			ref := venda.ID
			movs = append(movs, model.MovimentoEstoque{
				ProdutoID:          p.ID,
				Tipo:               "venda",
				Quantidade:         -item.Quantidade,
				QuantidadeAnterior: anterior,
				QuantidadeNova:     p.QuantidadeEmEstoque,
				ReferenciaID:       &ref,
				UsuarioID:          usuarioDoEscopo(esc),
			})
		}

		if err := s.repo.Create(ctx, tx, &venda); err != nil {
			return repository.Traduzir(err, "venda")
		}
		for i := range movs {
			if err := movimentos.Criar(ctx, &movs[i]); err != nil {
				return repository.Traduzir(err, "movimento")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidarPreco(ctx, s.rdb, chaves...)
	if cliente != nil && cliente.Email != nil && *cliente.Email != "" {
		payload := worker.ReciboEmailPayload{VendaID: venda.ID.String(), Email: *cliente.Email}
		if err := s.dispatcher.EnqueueReciboEmail(ctx, payload); err != nil {
			log.Warn().Err(err).Str("venda_id", venda.ID.String()).Msg("venda: receipt job not queued")
		}
	}

	log.Info().
		Str("venda_id", venda.ID.String()).
		Str("filial_id", venda.FilialID.String()).
		Str("total", venda.Total.StringFixed(2)).
		Msg("venda registrada")

	resp := mapVenda(&venda)
	for i, nome := range nomes {
		resp.Itens[i].Produto = nome
	}
	return resp, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *vendaService) obter(ctx context.Context, esc dto.Escopo, id uuid.UUID) (*model.Venda, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repository.Traduzir(err, "venda")
	}
	if !esc.Permite(&v.FilialID) {
		return nil, apierror.NaoEncontrado("venda")
	}
	return v, nil
}

func (s *vendaService) ObterPorID(ctx context.Context, esc dto.Escopo, id uuid.UUID) (*dto.VendaResponse, error) {
	v, err := s.obter(ctx, esc, id)
	if err != nil {
		return nil, err
	}
	return mapVenda(v), nil
}

func (s *vendaService) Listar(ctx context.Context, esc dto.Escopo, f dto.VendaFilter) (*dto.VendaListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
	if f.Data != "" {
		if _, err := time.Parse("2006-01-02", f.Data); err != nil {
			return nil, apierror.Validacao("data deve estar no formato AAAA-MM-DD")
		}
	}
	vendas, total, err := s.repo.List(ctx, f, esc.Restringe())
	if err != nil {
		return nil, repository.Traduzir(err, "venda")
	}
	data := make([]dto.VendaResponse, 0, len(vendas))
	for i := range vendas {
		data = append(data, *mapVenda(&vendas[i]))
	}
	return &dto.VendaListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *vendaService) ReciboPDF(ctx context.Context, esc dto.Escopo, id uuid.UUID) ([]byte, error) {
	v, err := s.obter(ctx, esc, id)
	if err != nil {
		return nil, err
	}
	pdf, err := infra.GerarReciboPDF(v, s.nomeLoja)
	if err != nil {
		return nil, apierror.Interno(err)
	}
	return pdf, nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func mapVenda(v *model.Venda) *dto.VendaResponse {
	resp := &dto.VendaResponse{
		ID:             v.ID,
		FilialID:       v.FilialID,
		ClienteID:      v.ClienteID,
		UsuarioID:      v.UsuarioID,
		FormaPagamento: v.FormaPagamento,
		Total:          v.Total,
		CreatedAt:      v.CreatedAt.Format(time.RFC3339),
		Itens:          make([]dto.ItemVendaResponse, 0, len(v.Itens)),
	}
	for _, it := range v.Itens {
		item := dto.ItemVendaResponse{
			ProdutoID:     it.ProdutoID,
			Quantidade:    it.Quantidade,
			PrecoUnitario: it.PrecoUnitario,
			Subtotal:      it.Subtotal,
		}
		if it.Produto != nil {
			item.Produto = it.Produto.Nome
		}
		resp.Itens = append(resp.Itens, item)
	}
	return resp
}

func totalPaginas(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
