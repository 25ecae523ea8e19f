package service_test

import (
	"context"
	"sort"
	"strings"

	"filialpos/internal/dto"
	"filialpos/internal/model"
	"filialpos/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ───────────────────────────────────────────────
// Every stub returns gorm.ErrRecordNotFound for missing rows so the services'
// error translation behaves as it does against Postgres. WithTx returns the
// stub itself and DB() is nil, which makes runTx call straight through.

type stubProdutoRepo struct {
	produtos map[uuid.UUID]*model.ProdutoEstoque
}

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{produtos: make(map[uuid.UUID]*model.ProdutoEstoque)}
}

func (r *stubProdutoRepo) Criar(_ context.Context, p *model.ProdutoEstoque) error {
	for _, o := range r.produtos {
		if o.ArmazemID == p.ArmazemID && o.Codigo == p.Codigo && p.Codigo != "" {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.produtos[p.ID] = &cp
	return nil
}

func (r *stubProdutoRepo) ObterPorID(_ context.Context, id uuid.UUID) (*model.ProdutoEstoque, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProdutoRepo) ObterParaAtualizar(ctx context.Context, id uuid.UUID) (*model.ProdutoEstoque, error) {
	return r.ObterPorID(ctx, id)
}

func (r *stubProdutoRepo) ObterPorCodigo(_ context.Context, armazemID uuid.UUID, codigo string) (*model.ProdutoEstoque, error) {
	for _, p := range r.produtos {
		if p.ArmazemID == armazemID && p.Codigo == codigo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProdutoRepo) filtrar(f dto.EstoqueFilter, filialID *uuid.UUID) []model.ProdutoEstoque {
	var out []model.ProdutoEstoque
	for _, p := range r.produtos {
		if filialID != nil && p.FilialID != *filialID {
			continue
		}
		if f.ArmazemID != "" && p.ArmazemID.String() != f.ArmazemID {
			continue
		}
		if f.Marca != "" && p.Marca != f.Marca {
			continue
		}
		if f.Tipo != "" && p.Tipo != f.Tipo {
			continue
		}
		if f.Busca != "" && !strings.Contains(strings.ToLower(p.Nome), strings.ToLower(f.Busca)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out
}

func (r *stubProdutoRepo) Listar(_ context.Context, f dto.EstoqueFilter, filialID *uuid.UUID) ([]model.ProdutoEstoque, int64, error) {
	all := r.filtrar(f, filialID)
	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubProdutoRepo) ListarTodos(_ context.Context, f dto.EstoqueFilter, filialID *uuid.UUID) ([]model.ProdutoEstoque, error) {
	return r.filtrar(f, filialID), nil
}

func (r *stubProdutoRepo) Atualizar(_ context.Context, p *model.ProdutoEstoque) error {
	for _, o := range r.produtos {
		if o.ID != p.ID && o.ArmazemID == p.ArmazemID && o.Codigo == p.Codigo && p.Codigo != "" {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *p
	r.produtos[p.ID] = &cp
	return nil
}

func (r *stubProdutoRepo) Excluir(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.produtos[id]; !ok {
		return 0, nil
	}
	delete(r.produtos, id)
	return 1, nil
}

func (r *stubProdutoRepo) ExcluirPorArmazem(_ context.Context, armazemID *uuid.UUID) (int64, error) {
	var n int64
	for id, p := range r.produtos {
		if armazemID == nil || p.ArmazemID == *armazemID {
			delete(r.produtos, id)
			n++
		}
	}
	return n, nil
}

func (r *stubProdutoRepo) ExcluirPorCategoria(_ context.Context, marca, tipo string, armazemID, filialID *uuid.UUID) (int64, error) {
	var n int64
	for id, p := range r.produtos {
		if p.Marca != marca || p.Tipo != tipo {
			continue
		}
		if armazemID != nil && p.ArmazemID != *armazemID {
			continue
		}
		if filialID != nil && p.FilialID != *filialID {
			continue
		}
		delete(r.produtos, id)
		n++
	}
	return n, nil
}

func (r *stubProdutoRepo) ContarPorCategoria(_ context.Context, categoriaID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.produtos {
		if p.CategoriaID == categoriaID {
			n++
		}
	}
	return n, nil
}

func (r *stubProdutoRepo) WithTx(_ *gorm.DB) repository.ProdutoEstoqueRepository { return r }
func (r *stubProdutoRepo) DB() *gorm.DB                                          { return nil }

var _ repository.ProdutoEstoqueRepository = (*stubProdutoRepo)(nil)

type stubArmazemRepo struct {
	armazens map[uuid.UUID]*model.Armazem
}

func newStubArmazemRepo() *stubArmazemRepo {
	return &stubArmazemRepo{armazens: make(map[uuid.UUID]*model.Armazem)}
}

func (r *stubArmazemRepo) Criar(_ context.Context, a *model.Armazem) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	r.armazens[a.ID] = &cp
	return nil
}

func (r *stubArmazemRepo) Listar(_ context.Context, filialID *uuid.UUID) ([]model.Armazem, error) {
	var out []model.Armazem
	for _, a := range r.armazens {
		if filialID != nil && (a.FilialID == nil || *a.FilialID != *filialID) {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r *stubArmazemRepo) ObterPorID(_ context.Context, id uuid.UUID) (*model.Armazem, error) {
	a, ok := r.armazens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubArmazemRepo) Atualizar(_ context.Context, a *model.Armazem) error {
	cp := *a
	r.armazens[a.ID] = &cp
	return nil
}

func (r *stubArmazemRepo) Excluir(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.armazens[id]; !ok {
		return 0, nil
	}
	delete(r.armazens, id)
	return 1, nil
}

func (r *stubArmazemRepo) WithTx(_ *gorm.DB) repository.ArmazemRepository { return r }

var _ repository.ArmazemRepository = (*stubArmazemRepo)(nil)

type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
	resolucoes int
	// filiais, when set, emulates the categorias.filial_id foreign key.
	filiais map[uuid.UUID]bool
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{categorias: make(map[uuid.UUID]*model.Categoria)}
}

func (r *stubCategoriaRepo) Resolver(_ context.Context, marca, tipo string, filialID uuid.UUID) (*model.Categoria, error) {
	r.resolucoes++
	if r.filiais != nil && !r.filiais[filialID] {
		return nil, &pgconn.PgError{Code: "23503", ConstraintName: "fk_categorias_filial"}
	}
	for _, c := range r.categorias {
		if c.Marca == marca && c.Tipo == tipo && c.FilialID == filialID {
			cp := *c
			return &cp, nil
		}
	}
	c := &model.Categoria{ID: uuid.New(), Marca: marca, Tipo: tipo, FilialID: filialID}
	r.categorias[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *stubCategoriaRepo) Listar(_ context.Context, filialID *uuid.UUID) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range r.categorias {
		if filialID != nil && c.FilialID != *filialID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Marca+out[i].Tipo < out[j].Marca+out[j].Tipo })
	return out, nil
}

func (r *stubCategoriaRepo) ObterPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoriaRepo) Excluir(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.categorias[id]; !ok {
		return 0, nil
	}
	delete(r.categorias, id)
	return 1, nil
}

func (r *stubCategoriaRepo) WithTx(_ *gorm.DB) repository.CategoriaRepository { return r }

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

type stubMovimentoRepo struct {
	movimentos []model.MovimentoEstoque
}

func (r *stubMovimentoRepo) Criar(_ context.Context, m *model.MovimentoEstoque) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimentos = append(r.movimentos, *m)
	return nil
}

func (r *stubMovimentoRepo) ListarPorProduto(_ context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error) {
	var out []model.MovimentoEstoque
	for i := len(r.movimentos) - 1; i >= 0 && len(out) < limit; i-- {
		if r.movimentos[i].ProdutoID == produtoID {
			out = append(out, r.movimentos[i])
		}
	}
	return out, nil
}

func (r *stubMovimentoRepo) WithTx(_ *gorm.DB) repository.MovimentoRepository { return r }

var _ repository.MovimentoRepository = (*stubMovimentoRepo)(nil)

type stubFilialRepo struct {
	filiais map[uuid.UUID]*model.Filial
}

func newStubFilialRepo() *stubFilialRepo {
	return &stubFilialRepo{filiais: make(map[uuid.UUID]*model.Filial)}
}

func (r *stubFilialRepo) Criar(_ context.Context, f *model.Filial) error {
	for _, o := range r.filiais {
		if o.Nome == f.Nome {
			return gorm.ErrDuplicatedKey
		}
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	cp := *f
	r.filiais[f.ID] = &cp
	return nil
}

func (r *stubFilialRepo) Listar(_ context.Context) ([]model.Filial, error) {
	out := make([]model.Filial, 0, len(r.filiais))
	for _, f := range r.filiais {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r *stubFilialRepo) ObterPorID(_ context.Context, id uuid.UUID) (*model.Filial, error) {
	f, ok := r.filiais[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *stubFilialRepo) Atualizar(_ context.Context, f *model.Filial) error {
	cp := *f
	r.filiais[f.ID] = &cp
	return nil
}

func (r *stubFilialRepo) Excluir(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.filiais[id]; !ok {
		return 0, nil
	}
	delete(r.filiais, id)
	return 1, nil
}

var _ repository.FilialRepository = (*stubFilialRepo)(nil)

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Criar(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) ObterPorID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) Listar(_ context.Context, f dto.ClienteFilter, filialID *uuid.UUID) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if filialID != nil && c.FilialID != *filialID {
			continue
		}
		if f.Busca != "" && !strings.Contains(strings.ToLower(c.Nome), strings.ToLower(f.Busca)) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Atualizar(_ context.Context, c *model.Cliente) error {
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) Excluir(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.clientes[id]; !ok {
		return 0, nil
	}
	delete(r.clientes, id)
	return 1, nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

type stubUsuarioRepo struct {
	users map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	for _, o := range r.users {
		if strings.EqualFold(o.Email, u.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) && u.Ativo {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) List(_ context.Context, filialID *uuid.UUID) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.users {
		if filialID != nil && (u.FilialID == nil || *u.FilialID != *filialID) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// stubVendaRepo resolves Itens.Produto from the product stub on read, like
// the GORM preload does.
type stubVendaRepo struct {
	vendas   map[uuid.UUID]*model.Venda
	produtos *stubProdutoRepo
}

func newStubVendaRepo(produtos *stubProdutoRepo) *stubVendaRepo {
	return &stubVendaRepo{vendas: make(map[uuid.UUID]*model.Venda), produtos: produtos}
}

func (r *stubVendaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venda) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	cp := *v
	cp.Itens = append([]model.VendaItem(nil), v.Itens...)
	r.vendas[v.ID] = &cp
	return nil
}

func (r *stubVendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	cp.Itens = make([]model.VendaItem, len(v.Itens))
	for i, it := range v.Itens {
		if p, ok := r.produtos.produtos[it.ProdutoID]; ok {
			pp := *p
			it.Produto = &pp
		}
		cp.Itens[i] = it
	}
	return &cp, nil
}

func (r *stubVendaRepo) List(_ context.Context, _ dto.VendaFilter, filialID *uuid.UUID) ([]model.Venda, int64, error) {
	var out []model.Venda
	for _, v := range r.vendas {
		if filialID != nil && v.FilialID != *filialID {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVendaRepo) DB() *gorm.DB { return nil }

var _ repository.VendaRepository = (*stubVendaRepo)(nil)
