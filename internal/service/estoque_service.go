package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"filialpos/internal/apierror"
	"filialpos/internal/dto"
	"filialpos/internal/estoque"
	"filialpos/internal/infra"
	"filialpos/internal/model"
	"filialpos/internal/repository"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EstoqueService owns the stock item lifecycle: create and partial update
// through the reconcilers, bulk replace per warehouse, deletes, listing and
// spreadsheet export/import.
type EstoqueService interface {
	Criar(ctx context.Context, esc dto.Escopo, req dto.ProdutoEstoqueRequest) (*dto.ProdutoEstoqueResponse, error)
	Atualizar(ctx context.Context, esc dto.Escopo, id uuid.UUID, req dto.ProdutoEstoqueRequest) (*dto.ProdutoEstoqueResponse, error)
	SubstituirPorArmazem(ctx context.Context, esc dto.Escopo, req dto.SubstituirEstoqueRequest) (*dto.SubstituirEstoqueResponse, error)
	Excluir(ctx context.Context, esc dto.Escopo, id uuid.UUID) error
	ExcluirPorCategoria(ctx context.Context, esc dto.Escopo, f dto.ExcluirPorCategoriaFilter) (*dto.ExcluirPorCategoriaResponse, error)
	Listar(ctx context.Context, esc dto.Escopo, f dto.EstoqueFilter) (*dto.EstoqueListResponse, error)
	ObterPorID(ctx context.Context, esc dto.Escopo, id uuid.UUID) (*dto.ProdutoEstoqueResponse, error)
	ListarMovimentos(ctx context.Context, esc dto.Escopo, id uuid.UUID) ([]dto.MovimentoEstoqueResponse, error)
	ExportarPlanilha(ctx context.Context, esc dto.Escopo, f dto.EstoqueFilter) ([]byte, error)
	// ImportarPlanilha replaces the stock of armazemID (or, for admins, the
	// whole stock when nil) with the rows of an .xlsx file. Rows that cannot
	// be read are reported in ImportacaoResponse.Erros and nothing is written.
	ImportarPlanilha(ctx context.Context, esc dto.Escopo, armazemID *uuid.UUID, r io.Reader) (*dto.ImportacaoResponse, error)
}

// repositoriosEstoque groups the repositories one stock write touches so they
// can be rebound to a transaction together.
type repositoriosEstoque struct {
	produtos   repository.ProdutoEstoqueRepository
	armazens   repository.ArmazemRepository
	categorias repository.CategoriaRepository
	movimentos repository.MovimentoRepository
}

func (r repositoriosEstoque) comTx(tx *gorm.DB) repositoriosEstoque {
	return repositoriosEstoque{
		produtos:   r.produtos.WithTx(tx),
		armazens:   r.armazens.WithTx(tx),
		categorias: r.categorias.WithTx(tx),
		movimentos: r.movimentos.WithTx(tx),
	}
}

type estoqueService struct {
	repos   repositoriosEstoque
	rdb     *redis.Client
	locker  *redislock.Client
	lockTTL time.Duration
}

// NewEstoqueService wires the stock orchestrator. rdb may be nil: price cache
// invalidation and the bulk replace lock are then skipped.
func NewEstoqueService(
	produtos repository.ProdutoEstoqueRepository,
	armazens repository.ArmazemRepository,
	categorias repository.CategoriaRepository,
	movimentos repository.MovimentoRepository,
	rdb *redis.Client,
	lockTTL time.Duration,
) EstoqueService {
	s := &estoqueService{
		repos: repositoriosEstoque{
			produtos:   produtos,
			armazens:   armazens,
			categorias: categorias,
			movimentos: movimentos,
		},
		rdb:     rdb,
		lockTTL: lockTTL,
	}
	if rdb != nil {
		s.locker = redislock.New(rdb)
	}
	return s
}

func mapProduto(p model.ProdutoEstoque) dto.ProdutoEstoqueResponse {
	resp := dto.ProdutoEstoqueResponse{
		ID:                  p.ID,
		Nome:                p.Nome,
		Codigo:              p.Codigo,
		Marca:               p.Marca,
		Tipo:                p.Tipo,
		PrecoCompra:         p.PrecoCompra,
		PrecoVendaUnidade:   p.PrecoVendaUnidade,
		UnidadesPorCaixa:    p.UnidadesPorCaixa,
		Caixas:              p.Caixas,
		QuantidadeEmEstoque: p.QuantidadeEmEstoque,
		CategoriaID:         p.CategoriaID,
		ArmazemID:           p.ArmazemID,
		FilialID:            p.FilialID,
	}
	if p.PrecoVendaCaixa.Valid {
		caixa := p.PrecoVendaCaixa.Decimal
		resp.PrecoVendaCaixa = &caixa
	}
	return resp
}

// ── Criar ────────────────────────────────────────────────────────────────────

func (s *estoqueService) Criar(ctx context.Context, esc dto.Escopo, req dto.ProdutoEstoqueRequest) (*dto.ProdutoEstoqueResponse, error) {
	var item *model.ProdutoEstoque
	err := runTx(ctx, s.repos.produtos.DB(), func(tx *gorm.DB) error {
		var err error
		item, err = s.criarItem(ctx, s.repos.comTx(tx), esc, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	invalidarPreco(ctx, s.rdb, ChavePreco(item.ArmazemID, item.Codigo))
	resp := mapProduto(*item)
	return &resp, nil
}

// criarItem is the create path shared by Criar, SubstituirPorArmazem and
// ImportarPlanilha:
//  1. nome and armazem_id are required
//  2. the warehouse must exist and belong to a filial
//  3. the category is resolved in that filial
//  4. quantities, then prices, are reconciled
//  5. the item is persisted with the warehouse's filial
func (s *estoqueService) criarItem(ctx context.Context, repos repositoriosEstoque, esc dto.Escopo, req dto.ProdutoEstoqueRequest) (*model.ProdutoEstoque, error) {
	nome := estoque.NormalizarTexto(req.Nome)
	if nome == "" {
		return nil, apierror.Validacao("nome é obrigatório")
	}
	if !req.ArmazemID.Definido || !req.ArmazemID.Valido {
		return nil, apierror.Validacao("armazem_id é obrigatório")
	}
	armazem, err := s.armazemComFilial(ctx, repos.armazens, esc, req.ArmazemID.Valor)
	if err != nil {
		return nil, err
	}
	categoria, err := s.resolverCategoriaDoItem(ctx, repos.categorias, req, *armazem.FilialID, nil)
	if err != nil {
		return nil, err
	}

	q := estoque.ReconciliarQuantidadesCriacao(req.Quantidades())
	p := estoque.ReconciliarPrecosCriacao(req.Precos(), q.UnidadesPorCaixa)
	if err := validarReconciliados(q, p); err != nil {
		return nil, err
	}

	item := &model.ProdutoEstoque{
		Nome:                nome,
		Codigo:              estoque.NormalizarTexto(req.Codigo),
		Marca:               categoria.Marca,
		Tipo:                categoria.Tipo,
		PrecoCompra:         estoque.NormalizarPrecoCompra(req.PrecoCompra, decimal.Zero),
		PrecoVendaUnidade:   p.Unidade,
		PrecoVendaCaixa:     p.Caixa,
		UnidadesPorCaixa:    q.UnidadesPorCaixa,
		Caixas:              q.Caixas,
		QuantidadeEmEstoque: q.QuantidadeEmEstoque,
		CategoriaID:         categoria.ID,
		ArmazemID:           armazem.ID,
		FilialID:            *armazem.FilialID,
	}
	if err := repos.produtos.Criar(ctx, item); err != nil {
		return nil, repository.Traduzir(err, "produto")
	}
	return item, nil
}

func validarReconciliados(q estoque.Quantidades, p estoque.Precos) error {
	if err := q.Validar(); err != nil {
		return apierror.Validacao(err.Error())
	}
	if err := p.Validar(); err != nil {
		return apierror.Validacao(err.Error())
	}
	return nil
}

// armazemComFilial loads a warehouse that can hold stock for the caller.
func (s *estoqueService) armazemComFilial(ctx context.Context, repo repository.ArmazemRepository, esc dto.Escopo, id uuid.UUID) (*model.Armazem, error) {
	armazem, err := repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, repository.Traduzir(err, "armazém")
	}
	if armazem.FilialID == nil {
		return nil, apierror.Validacao("armazém sem filial não pode receber produtos")
	}
	if !esc.Permite(armazem.FilialID) {
		return nil, apierror.Proibido("armazém pertence a outra filial")
	}
	return armazem, nil
}

// resolverCategoriaDoItem picks the category of a stock item in filialID.
// marca/tipo win over categoria_id. On update (atual != nil) an unsent
// marca or tipo keeps the stored one.
func (s *estoqueService) resolverCategoriaDoItem(ctx context.Context, repo repository.CategoriaRepository, req dto.ProdutoEstoqueRequest, filialID uuid.UUID, atual *model.ProdutoEstoque) (*model.Categoria, error) {
	porChave := req.Marca.Definido || req.Tipo.Definido

	if !porChave && req.CategoriaID.Definido {
		if !req.CategoriaID.Valido {
			return nil, apierror.Validacao("categoria_id inválido")
		}
		c, err := repo.ObterPorID(ctx, req.CategoriaID.Valor)
		if err != nil {
			return nil, repository.Traduzir(err, "categoria")
		}
		if c.FilialID != filialID {
			return nil, apierror.NaoEncontrado("categoria")
		}
		return c, nil
	}

	if atual == nil && !porChave {
		return nil, apierror.Validacao("informe marca e tipo ou categoria_id")
	}
	var marca, tipo string
	if atual != nil {
		marca, tipo = atual.Marca, atual.Tipo
	}
	if req.Marca.Definido {
		marca = estoque.NormalizarTexto(req.Marca)
	}
	if req.Tipo.Definido {
		tipo = estoque.NormalizarTexto(req.Tipo)
	}
	return resolverCategoria(ctx, repo, marca, tipo, &filialID)
}

// ── Atualizar ────────────────────────────────────────────────────────────────

func (s *estoqueService) Atualizar(ctx context.Context, esc dto.Escopo, id uuid.UUID, req dto.ProdutoEstoqueRequest) (*dto.ProdutoEstoqueResponse, error) {
	var item *model.ProdutoEstoque
	var chaveAntiga string
	err := runTx(ctx, s.repos.produtos.DB(), func(tx *gorm.DB) error {
		repos := s.repos.comTx(tx)
		atual, err := repos.produtos.ObterParaAtualizar(ctx, id)
		if err != nil {
			return repository.Traduzir(err, "produto")
		}
		if !esc.Permite(&atual.FilialID) {
			return apierror.NaoEncontrado("produto")
		}
		chaveAntiga = ChavePreco(atual.ArmazemID, atual.Codigo)
		quantidadeAnterior := atual.QuantidadeEmEstoque

		if err := s.aplicarAtualizacao(ctx, repos, esc, atual, req); err != nil {
			return err
		}
		if err := repos.produtos.Atualizar(ctx, atual); err != nil {
			return repository.Traduzir(err, "produto")
		}
		if atual.QuantidadeEmEstoque != quantidadeAnterior {
			mov := &model.MovimentoEstoque{
				ProdutoID:          atual.ID,
				Tipo:               "ajuste",
				Quantidade:         atual.QuantidadeEmEstoque - quantidadeAnterior,
				QuantidadeAnterior: quantidadeAnterior,
				QuantidadeNova:     atual.QuantidadeEmEstoque,
				UsuarioID:          usuarioDoEscopo(esc),
			}
			if err := repos.movimentos.Criar(ctx, mov); err != nil {
				return repository.Traduzir(err, "movimento")
			}
		}
		item = atual
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidarPreco(ctx, s.rdb, chaveAntiga, ChavePreco(item.ArmazemID, item.Codigo))
	resp := mapProduto(*item)
	return &resp, nil
}

// aplicarAtualizacao stages every sent field on atual. Unsent fields keep
// their stored value.
func (s *estoqueService) aplicarAtualizacao(ctx context.Context, repos repositoriosEstoque, esc dto.Escopo, atual *model.ProdutoEstoque, req dto.ProdutoEstoqueRequest) error {
	if req.Nome.Definido {
		nome := estoque.NormalizarTexto(req.Nome)
		if nome == "" {
			return apierror.Validacao("nome não pode ser vazio")
		}
		atual.Nome = nome
	}
	if req.Codigo.Definido {
		atual.Codigo = estoque.NormalizarTexto(req.Codigo)
	}
	if req.PrecoCompra.Definido {
		atual.PrecoCompra = estoque.NormalizarPrecoCompra(req.PrecoCompra, atual.PrecoCompra)
	}

	// The filial follows the warehouse in the same write.
	filialMudou := false
	if req.ArmazemID.Definido {
		if !req.ArmazemID.Valido {
			return apierror.Validacao("armazem_id inválido")
		}
		if req.ArmazemID.Valor != atual.ArmazemID {
			armazem, err := s.armazemComFilial(ctx, repos.armazens, esc, req.ArmazemID.Valor)
			if err != nil {
				return err
			}
			filialMudou = *armazem.FilialID != atual.FilialID
			atual.ArmazemID = armazem.ID
			atual.FilialID = *armazem.FilialID
		}
	}

	// Categories are per filial, so a filial change re-resolves the same key.
	if req.Marca.Definido || req.Tipo.Definido || req.CategoriaID.Definido || filialMudou {
		categoria, err := s.resolverCategoriaDoItem(ctx, repos.categorias, req, atual.FilialID, atual)
		if err != nil {
			return err
		}
		atual.CategoriaID = categoria.ID
		atual.Marca = categoria.Marca
		atual.Tipo = categoria.Tipo
	}

	q := estoque.ReconciliarQuantidadesAtualizacao(req.Quantidades(), estoque.Quantidades{
		UnidadesPorCaixa:    atual.UnidadesPorCaixa,
		Caixas:              atual.Caixas,
		QuantidadeEmEstoque: atual.QuantidadeEmEstoque,
	})
	p := estoque.ReconciliarPrecosAtualizacao(req.Precos(), estoque.Precos{
		Unidade: atual.PrecoVendaUnidade,
		Caixa:   atual.PrecoVendaCaixa,
	}, q.UnidadesPorCaixa)
	if err := validarReconciliados(q, p); err != nil {
		return err
	}

	atual.UnidadesPorCaixa = q.UnidadesPorCaixa
	atual.Caixas = q.Caixas
	atual.QuantidadeEmEstoque = q.QuantidadeEmEstoque
	atual.PrecoVendaUnidade = p.Unidade
	atual.PrecoVendaCaixa = p.Caixa
	return nil
}

// ── SubstituirPorArmazem ─────────────────────────────────────────────────────

func (s *estoqueService) SubstituirPorArmazem(ctx context.Context, esc dto.Escopo, req dto.SubstituirEstoqueRequest) (*dto.SubstituirEstoqueResponse, error) {
	excluidos, criados, err := s.substituir(ctx, esc, req.ArmazemID, req.Itens, func(i int) string {
		return fmt.Sprintf("item %d", i+1)
	})
	if err != nil {
		return nil, err
	}
	resp := &dto.SubstituirEstoqueResponse{
		Excluidos: excluidos,
		Criados:   make([]dto.ProdutoEstoqueResponse, 0, len(criados)),
	}
	for _, p := range criados {
		resp.Criados = append(resp.Criados, mapProduto(p))
	}
	return resp, nil
}

// substituir deletes the stock of armazemID (every warehouse when nil) and
// re-creates it from itens in one transaction. Any failing item rolls the
// whole batch back; rotulo names the item in the returned error.
func (s *estoqueService) substituir(ctx context.Context, esc dto.Escopo, armazemID *uuid.UUID, itens []dto.ProdutoEstoqueRequest, rotulo func(i int) string) (int64, []model.ProdutoEstoque, error) {
	if armazemID == nil && !esc.Admin() {
		return 0, nil, apierror.Proibido("substituição sem armazém é restrita a administradores")
	}
	if armazemID != nil {
		if _, err := s.armazemComFilial(ctx, s.repos.armazens, esc, *armazemID); err != nil {
			return 0, nil, err
		}
	}

	lock, err := s.travarSubstituicao(ctx, armazemID)
	if err != nil {
		return 0, nil, err
	}
	if lock != nil {
		defer func() {
			if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				log.Warn().Err(err).Str("key", lock.Key()).Msg("estoque: lock release failed")
			}
		}()
	}

	var excluidos int64
	criados := make([]model.ProdutoEstoque, 0, len(itens))
	err = runTx(ctx, s.repos.produtos.DB(), func(tx *gorm.DB) error {
		repos := s.repos.comTx(tx)
		n, err := repos.produtos.ExcluirPorArmazem(ctx, armazemID)
		if err != nil {
			return repository.Traduzir(err, "produto")
		}
		excluidos = n
		for i, req := range itens {
			if armazemID != nil {
				req.ArmazemID = estoque.Com(*armazemID)
			}
			item, err := s.criarItem(ctx, repos, esc, req)
			if err != nil {
				return rotularErro(rotulo(i), err)
			}
			criados = append(criados, *item)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	invalidarArmazem(ctx, s.rdb, armazemID)
	log.Info().
		Interface("armazem_id", armazemID).
		Int64("excluidos", excluidos).
		Int("criados", len(criados)).
		Msg("estoque: stock replaced")
	return excluidos, criados, nil
}

// travarSubstituicao serializes bulk replaces of the same warehouse across
// instances. Without Redis, or when Redis fails, the transaction alone guards
// the write.
func (s *estoqueService) travarSubstituicao(ctx context.Context, armazemID *uuid.UUID) (*redislock.Lock, error) {
	if s.locker == nil {
		return nil, nil
	}
	chave := "lock:estoque:substituir:todos"
	if armazemID != nil {
		chave = "lock:estoque:substituir:" + armazemID.String()
	}
	lock, err := s.locker.Obtain(ctx, chave, s.lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, apierror.Conflito("substituição de estoque já em andamento para este armazém")
	}
	if err != nil {
		log.Warn().Err(err).Str("key", chave).Msg("estoque: lock unavailable, continuing without it")
		return nil, nil
	}
	return lock, nil
}

// rotularErro prefixes a domain error message with the failing item.
func rotularErro(rotulo string, err error) error {
	e, ok := apierror.Como(err)
	if !ok {
		return apierror.Interno(err)
	}
	return &apierror.Erro{
		Codigo:   e.Codigo,
		Mensagem: rotulo + ": " + e.Mensagem,
		Status:   e.Status,
		Causa:    e.Causa,
	}
}

// ── Exclusões ────────────────────────────────────────────────────────────────

func (s *estoqueService) Excluir(ctx context.Context, esc dto.Escopo, id uuid.UUID) error {
	atual, err := s.repos.produtos.ObterPorID(ctx, id)
	if err != nil {
		return repository.Traduzir(err, "produto")
	}
	if !esc.Permite(&atual.FilialID) {
		return apierror.NaoEncontrado("produto")
	}
	n, err := s.repos.produtos.Excluir(ctx, id)
	if err != nil {
		return repository.Traduzir(err, "produto")
	}
	if n == 0 {
		return apierror.NaoEncontrado("produto")
	}
	invalidarPreco(ctx, s.rdb, ChavePreco(atual.ArmazemID, atual.Codigo))
	return nil
}

func (s *estoqueService) ExcluirPorCategoria(ctx context.Context, esc dto.Escopo, f dto.ExcluirPorCategoriaFilter) (*dto.ExcluirPorCategoriaResponse, error) {
	var armazemID *uuid.UUID
	if f.ArmazemID != "" {
		id, err := uuid.Parse(f.ArmazemID)
		if err != nil {
			return nil, apierror.Validacao("armazem_id inválido")
		}
		armazemID = &id
	}
	n, err := s.repos.produtos.ExcluirPorCategoria(ctx,
		estoque.NormalizarTexto(estoque.Com(f.Marca)),
		estoque.NormalizarTexto(estoque.Com(f.Tipo)),
		armazemID, esc.Restringe())
	if err != nil {
		return nil, repository.Traduzir(err, "produto")
	}
	if n > 0 {
		invalidarArmazem(ctx, s.rdb, armazemID)
	}
	return &dto.ExcluirPorCategoriaResponse{Excluidos: n}, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *estoqueService) Listar(ctx context.Context, esc dto.Escopo, f dto.EstoqueFilter) (*dto.EstoqueListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
	produtos, total, err := s.repos.produtos.Listar(ctx, f, esc.Restringe())
	if err != nil {
		return nil, repository.Traduzir(err, "produto")
	}
	data := make([]dto.ProdutoEstoqueResponse, 0, len(produtos))
	for _, p := range produtos {
		data = append(data, mapProduto(p))
	}
	return &dto.EstoqueListResponse{
		Data:       data,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: totalPaginas(total, f.Limit),
	}, nil
}

func (s *estoqueService) ObterPorID(ctx context.Context, esc dto.Escopo, id uuid.UUID) (*dto.ProdutoEstoqueResponse, error) {
	p, err := s.repos.produtos.ObterPorID(ctx, id)
	if err != nil {
		return nil, repository.Traduzir(err, "produto")
	}
	if !esc.Permite(&p.FilialID) {
		return nil, apierror.NaoEncontrado("produto")
	}
	resp := mapProduto(*p)
	return &resp, nil
}

func (s *estoqueService) ListarMovimentos(ctx context.Context, esc dto.Escopo, id uuid.UUID) ([]dto.MovimentoEstoqueResponse, error) {
	if _, err := s.ObterPorID(ctx, esc, id); err != nil {
		return nil, err
	}
	movs, err := s.repos.movimentos.ListarPorProduto(ctx, id, 200)
	if err != nil {
		return nil, repository.Traduzir(err, "movimento")
	}
	resp := make([]dto.MovimentoEstoqueResponse, 0, len(movs))
	for _, m := range movs {
		resp = append(resp, dto.MovimentoEstoqueResponse{
			ID:                 m.ID,
			Tipo:               m.Tipo,
			Quantidade:         m.Quantidade,
			QuantidadeAnterior: m.QuantidadeAnterior,
			QuantidadeNova:     m.QuantidadeNova,
			ReferenciaID:       m.ReferenciaID,
			UsuarioID:          m.UsuarioID,
			CreatedAt:          m.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// ── Planilhas ────────────────────────────────────────────────────────────────

func (s *estoqueService) ExportarPlanilha(ctx context.Context, esc dto.Escopo, f dto.EstoqueFilter) ([]byte, error) {
	produtos, err := s.repos.produtos.ListarTodos(ctx, f, esc.Restringe())
	if err != nil {
		return nil, repository.Traduzir(err, "produto")
	}
	data, err := infra.EscreverPlanilhaEstoque(produtos)
	if err != nil {
		return nil, apierror.Interno(err)
	}
	return data, nil
}

func (s *estoqueService) ImportarPlanilha(ctx context.Context, esc dto.Escopo, armazemID *uuid.UUID, r io.Reader) (*dto.ImportacaoResponse, error) {
	linhas, err := infra.LerPlanilhaEstoque(r)
	if err != nil {
		return nil, apierror.Validacao(err.Error())
	}

	resp := &dto.ImportacaoResponse{Linhas: len(linhas), Erros: map[int]string{}}
	itens := make([]dto.ProdutoEstoqueRequest, 0, len(linhas))
	for _, l := range linhas {
		req, err := linhaParaRequest(l)
		if err != nil {
			resp.Erros[l.Linha] = err.Error()
			continue
		}
		if armazemID == nil && !req.ArmazemID.Definido {
			resp.Erros[l.Linha] = "armazem_id é obrigatório"
			continue
		}
		itens = append(itens, req)
	}
	if len(resp.Erros) > 0 {
		return resp, nil
	}

	excluidos, criados, err := s.substituir(ctx, esc, armazemID, itens, func(i int) string {
		return fmt.Sprintf("linha %d", linhas[i].Linha)
	})
	if err != nil {
		return nil, err
	}
	resp.Excluidos = excluidos
	resp.Criados = len(criados)
	resp.Erros = nil
	for _, p := range criados {
		resp.Itens = append(resp.Itens, mapProduto(p))
	}
	return resp, nil
}

// linhaParaRequest turns a spreadsheet row into the same request shape the
// JSON API uses. Spreadsheets cannot tell a blank cell from a missing one, so
// marca and tipo are always sent (blank means "").
func linhaParaRequest(l infra.LinhaPlanilha) (dto.ProdutoEstoqueRequest, error) {
	texto := func(k string) estoque.Texto {
		if v, ok := l.Valores[k]; ok {
			return estoque.Com(v)
		}
		return estoque.Texto{}
	}
	numero := func(k string) estoque.Numero { return estoque.NumeroDeTexto(l.Valores[k]) }

	req := dto.ProdutoEstoqueRequest{
		Nome:                texto("nome"),
		Codigo:              texto("codigo"),
		Marca:               estoque.Com(l.Valores["marca"]),
		Tipo:                estoque.Com(l.Valores["tipo"]),
		PrecoCompra:         numero("preco_compra"),
		PrecoVendaUnidade:   numero("preco_venda_unidade"),
		PrecoVendaCaixa:     numero("preco_venda_caixa"),
		UnidadesPorCaixa:    numero("unidades_por_caixa"),
		Caixas:              numero("caixas"),
		QuantidadeEmEstoque: numero("quantidade_em_estoque"),
	}
	if v, ok := l.Valores["armazem_id"]; ok {
		id, err := uuid.Parse(v)
		if err != nil {
			return req, fmt.Errorf("armazem_id inválido: %q", v)
		}
		req.ArmazemID = estoque.Com(id)
	}
	return req, nil
}

func usuarioDoEscopo(esc dto.Escopo) *uuid.UUID {
	if esc.UsuarioID == uuid.Nil {
		return nil
	}
	id := esc.UsuarioID
	return &id
}
