//go:build integration

package router

// End-to-end tests against real Postgres and Redis started with testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"filialpos/internal/config"
	"filialpos/internal/infra"
	"filialpos/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

// must performs the request and decodes the body, failing unless status matches.
func (e *testEnv) must(t *testing.T, status int, method, path string, body any, token string, dest any) {
	t.Helper()
	resp := e.do(t, method, path, body, token)
	defer resp.Body.Close()
	if !assert.Equal(t, status, resp.StatusCode, "%s %s", method, path) {
		var raw map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&raw)
		t.Fatalf("body: %v", raw)
	}
	if dest != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	}
}

func (e *testEnv) login(t *testing.T, email, senha string) string {
	t.Helper()
	var out struct {
		AccessToken string `json:"access_token"`
	}
	e.must(t, http.StatusOK, "POST", "/v1/auth/login", map[string]string{"email": email, "password": senha}, "", &out)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

type idResp struct {
	ID string `json:"id"`
}

type itemResp struct {
	ID                  string  `json:"id"`
	Codigo              string  `json:"codigo"`
	Caixas              int     `json:"caixas"`
	QuantidadeEmEstoque int     `json:"quantidade_em_estoque"`
	UnidadesPorCaixa    int     `json:"unidades_por_caixa"`
	PrecoVendaUnidade   string  `json:"preco_venda_unidade"`
	PrecoVendaCaixa     *string `json:"preco_venda_caixa"`
	CategoriaID         string  `json:"categoria_id"`
	FilialID            string  `json:"filial_id"`
	ArmazemID           string  `json:"armazem_id"`
}

// ── Setup ────────────────────────────────────────────────────────────────────

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("filialpos_test"),
		tcPostgres.WithUsername("filialpos"),
		tcPostgres.WithPassword("filialpos"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                     "test",
		JWTSecret:               "e2e-secret",
		JWTExpirationHours:      1,
		JWTRefreshHours:         2,
		DatabaseURL:             pgURL,
		RedisURL:                rdURL,
		PrecoCacheTTLMinutes:    5,
		SubstituicaoLockSeconds: 30,
		NomeLoja:                "Loja E2E",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-e2e-123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Nome:         "Admin E2E",
		Email:        "admin@e2e.test",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Ativo:        true,
	}).Error)

	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(New(cfg, db, rdb))
	t.Cleanup(srv.Close)

	env := &testEnv{server: srv}
	env.token = env.login(t, "admin@e2e.test", "admin-e2e-123")
	return env
}

// filialComArmazem creates a branch and one warehouse in it.
func (e *testEnv) filialComArmazem(t *testing.T, nome string) (filialID, armazemID string) {
	t.Helper()
	var f, a idResp
	e.must(t, http.StatusCreated, "POST", "/v1/filiais", map[string]any{"nome": nome}, e.token, &f)
	e.must(t, http.StatusCreated, "POST", "/v1/armazens", map[string]any{"nome": "Depósito " + nome, "filial_id": f.ID}, e.token, &a)
	return f.ID, a.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloDoEstoque(t *testing.T) {
	env := setupTestEnv(t)
	filialID, armazemID := env.filialComArmazem(t, "Centro")

	// Create: boxes × units, unit price × units.
	var shampoo itemResp
	env.must(t, http.StatusCreated, "POST", "/v1/estoque", map[string]any{
		"nome":                "Shampoo",
		"codigo":              "SH1",
		"marca":               "Acme",
		"tipo":                "Hair",
		"preco_compra":        "10.00",
		"preco_venda_unidade": 20,
		"unidades_por_caixa":  12,
		"caixas":              10,
		"armazem_id":          armazemID,
	}, env.token, &shampoo)
	assert.Equal(t, 120, shampoo.QuantidadeEmEstoque)
	require.NotNil(t, shampoo.PrecoVendaCaixa)
	assert.Equal(t, "240", *shampoo.PrecoVendaCaixa)
	assert.Equal(t, filialID, shampoo.FilialID)

	// Same (marca, tipo) in the same filial resolves to the same category.
	var condicionador itemResp
	env.must(t, http.StatusCreated, "POST", "/v1/estoque", map[string]any{
		"nome":                  "Condicionador",
		"marca":                 "Acme",
		"tipo":                  "Hair",
		"preco_venda_unidade":   15,
		"quantidade_em_estoque": 30,
		"armazem_id":            armazemID,
	}, env.token, &condicionador)
	assert.Equal(t, shampoo.CategoriaID, condicionador.CategoriaID)
	assert.Equal(t, 30, condicionador.QuantidadeEmEstoque)
	assert.Equal(t, 1, condicionador.UnidadesPorCaixa)

	// Duplicate code in the same warehouse.
	resp := env.do(t, "POST", "/v1/estoque", map[string]any{
		"nome": "Outro", "codigo": "SH1", "marca": "Acme", "tipo": "Hair", "armazem_id": armazemID,
	}, env.token)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Public price lookup populates the cache...
	var preco struct {
		PrecoVendaUnidade string `json:"preco_venda_unidade"`
	}
	env.must(t, http.StatusOK, "GET", "/v1/preco/"+armazemID+"/SH1", nil, "", &preco)
	assert.Equal(t, "20", preco.PrecoVendaUnidade)
	resp = env.do(t, "GET", "/v1/preco/"+armazemID+"/SH1", nil, "")
	resp.Body.Close()
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))

	// ...and a price update invalidates it.
	var atualizado itemResp
	env.must(t, http.StatusOK, "PATCH", "/v1/estoque/"+shampoo.ID, map[string]any{"preco_venda_unidade": 25}, env.token, &atualizado)
	require.NotNil(t, atualizado.PrecoVendaCaixa)
	assert.Equal(t, "240", *atualizado.PrecoVendaCaixa, "a stored box price is kept")
	assert.Equal(t, 120, atualizado.QuantidadeEmEstoque, "untouched fields keep their values")

	env.must(t, http.StatusOK, "GET", "/v1/preco/"+armazemID+"/SH1", nil, "", &preco)
	assert.Equal(t, "25", preco.PrecoVendaUnidade)

	// Partial update of units per box only re-derives the total.
	env.must(t, http.StatusOK, "PATCH", "/v1/estoque/"+shampoo.ID, map[string]any{"unidades_por_caixa": 6}, env.token, &atualizado)
	assert.Equal(t, 10, atualizado.Caixas)
	assert.Equal(t, 60, atualizado.QuantidadeEmEstoque)

	// Sale takes units off and records a movement.
	var venda struct {
		Total string `json:"total"`
	}
	env.must(t, http.StatusCreated, "POST", "/v1/vendas", map[string]any{
		"forma_pagamento": "pix",
		"itens":           []map[string]any{{"produto_id": shampoo.ID, "quantidade": 14}},
	}, env.token, &venda)
	assert.Equal(t, "350", venda.Total)

	var depois itemResp
	env.must(t, http.StatusOK, "GET", "/v1/estoque/"+shampoo.ID, nil, env.token, &depois)
	assert.Equal(t, 46, depois.QuantidadeEmEstoque)
	assert.Equal(t, 7, depois.Caixas)

	var movimentos []struct {
		Tipo       string `json:"tipo"`
		Quantidade int    `json:"quantidade"`
	}
	env.must(t, http.StatusOK, "GET", "/v1/estoque/"+shampoo.ID+"/movimentos", nil, env.token, &movimentos)
	require.NotEmpty(t, movimentos)
	assert.Equal(t, "venda", movimentos[0].Tipo)
	assert.Equal(t, -14, movimentos[0].Quantidade)

	// Insufficient stock.
	resp = env.do(t, "POST", "/v1/vendas", map[string]any{
		"forma_pagamento": "dinheiro",
		"itens":           []map[string]any{{"produto_id": shampoo.ID, "quantidade": 1000}},
	}, env.token)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Delete by category always answers 200 with the count.
	var excl struct {
		Excluidos int64 `json:"excluidos"`
	}
	env.must(t, http.StatusOK, "DELETE", "/v1/estoque?marca=Nada&tipo=Nada", nil, env.token, &excl)
	assert.Zero(t, excl.Excluidos)
}

func TestE2E_SubstituicaoPorArmazem(t *testing.T) {
	env := setupTestEnv(t)
	_, armazemA := env.filialComArmazem(t, "Norte")
	_, armazemB := env.filialComArmazem(t, "Sul")

	for _, a := range []string{armazemA, armazemB} {
		env.must(t, http.StatusCreated, "POST", "/v1/estoque", map[string]any{
			"nome": "Sabonete", "marca": "Acme", "tipo": "Banho", "quantidade_em_estoque": 5, "armazem_id": a,
		}, env.token, nil)
	}

	var out struct {
		Excluidos int64      `json:"excluidos"`
		Criados   []itemResp `json:"criados"`
	}
	env.must(t, http.StatusOK, "PUT", "/v1/estoque/armazem", map[string]any{
		"armazem_id": armazemA,
		"itens": []map[string]any{
			{"nome": "Creme", "marca": "Acme", "tipo": "Pele", "caixas": 2, "unidades_por_caixa": 24},
			{"nome": "Loção", "marca": "Acme", "tipo": "Pele", "quantidade_em_estoque": 7},
		},
	}, env.token, &out)
	assert.EqualValues(t, 1, out.Excluidos)
	require.Len(t, out.Criados, 2)
	assert.Equal(t, 48, out.Criados[0].QuantidadeEmEstoque)
	assert.Equal(t, armazemA, out.Criados[1].ArmazemID)

	// One invalid item rolls the whole replace back.
	resp := env.do(t, "PUT", "/v1/estoque/armazem", map[string]any{
		"armazem_id": armazemA,
		"itens": []map[string]any{
			{"nome": "Ok", "marca": "Acme", "tipo": "Pele"},
			{"nome": "", "marca": "Acme", "tipo": "Pele"},
		},
	}, env.token)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var lista struct {
		Total int64 `json:"total"`
	}
	env.must(t, http.StatusOK, "GET", "/v1/estoque?armazem_id="+armazemA, nil, env.token, &lista)
	assert.EqualValues(t, 2, lista.Total)
	env.must(t, http.StatusOK, "GET", "/v1/estoque?armazem_id="+armazemB, nil, env.token, &lista)
	assert.EqualValues(t, 1, lista.Total, "other warehouses are untouched")
}

func TestE2E_ResolucaoConcorrenteDeCategoria(t *testing.T) {
	env := setupTestEnv(t)
	_, armazemID := env.filialComArmazem(t, "Leste")

	const n = 8
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := env.do(t, "POST", "/v1/estoque", map[string]any{
				"nome": fmt.Sprintf("Item %d", i), "marca": "Nova", "tipo": "Linha", "armazem_id": armazemID,
			}, env.token)
			defer resp.Body.Close()
			var it itemResp
			if resp.StatusCode == http.StatusCreated && json.NewDecoder(resp.Body).Decode(&it) == nil {
				ids[i] = it.CategoriaID
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		require.NotEmpty(t, ids[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var cats []struct {
		Marca string `json:"marca"`
	}
	env.must(t, http.StatusOK, "GET", "/v1/categorias", nil, env.token, &cats)
	count := 0
	for _, c := range cats {
		if c.Marca == "Nova" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	resp := env.do(t, "POST", "/v1/categorias", map[string]any{
		"marca": "Nova", "tipo": "Linha", "filial_id": uuid.NewString(),
	}, env.token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestE2E_EscopoDaFilial(t *testing.T) {
	env := setupTestEnv(t)
	_, armazemA := env.filialComArmazem(t, "A")
	filialB, _ := env.filialComArmazem(t, "B")

	var item itemResp
	env.must(t, http.StatusCreated, "POST", "/v1/estoque", map[string]any{
		"nome": "Perfume", "marca": "Acme", "tipo": "Fragrância", "armazem_id": armazemA,
	}, env.token, &item)

	env.must(t, http.StatusCreated, "POST", "/v1/usuarios", map[string]any{
		"nome": "Afiliado B", "email": "b@e2e.test", "password": "afiliado-b-123", "role": "afiliado", "filial_id": filialB,
	}, env.token, nil)
	tokenB := env.login(t, "b@e2e.test", "afiliado-b-123")

	resp := env.do(t, "GET", "/v1/estoque/"+item.ID, nil, tokenB)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, "PATCH", "/v1/estoque/"+item.ID, map[string]any{"nome": "X"}, tokenB)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, "POST", "/v1/filiais", map[string]any{"nome": "C"}, tokenB)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
