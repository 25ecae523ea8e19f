package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"filialpos/internal/dto"
	"filialpos/internal/repository"
	"filialpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ConsultaPrecosHandler serves the public price check endpoint.
// No authentication and no side effects besides the cache.
type ConsultaPrecosHandler struct {
	repo repository.ProdutoEstoqueRepository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewConsultaPrecosHandler(repo repository.ProdutoEstoqueRepository, rdb *redis.Client, ttl time.Duration) *ConsultaPrecosHandler {
	return &ConsultaPrecosHandler{repo: repo, rdb: rdb, ttl: ttl}
}

// PorCodigo godoc
// @Summary Consulta de preço por código (sem autenticação)
// @Tags preco
// @Produce json
// @Param armazem_id path string true "Armazém"
// @Param codigo path string true "Código do item"
// @Success 200 {object} dto.ConsultaPrecoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/preco/{armazem_id}/{codigo} [get]
func (h *ConsultaPrecosHandler) PorCodigo(c *gin.Context) {
	armazemID, ok := parseID(c, "armazem_id")
	if !ok {
		return
	}
	codigo := strings.TrimSpace(c.Param("codigo"))
	ctx := c.Request.Context()
	chave := service.ChavePreco(armazemID, codigo)

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, chave).Bytes(); err == nil {
			var resp dto.ConsultaPrecoResponse
			if json.Unmarshal(cached, &resp) == nil {
				c.Header("X-Cache", "HIT")
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	p, err := h.repo.ObterPorCodigo(ctx, armazemID, codigo)
	if err != nil {
		responderErro(c, repository.Traduzir(err, "produto"))
		return
	}

	resp := dto.ConsultaPrecoResponse{
		Nome:                p.Nome,
		Codigo:              p.Codigo,
		PrecoVendaUnidade:   p.PrecoVendaUnidade,
		UnidadesPorCaixa:    p.UnidadesPorCaixa,
		QuantidadeEmEstoque: p.QuantidadeEmEstoque,
	}
	if p.PrecoVendaCaixa.Valid {
		v := p.PrecoVendaCaixa.Decimal
		resp.PrecoVendaCaixa = &v
	}

	if h.rdb != nil {
		if b, err := json.Marshal(resp); err == nil {
			if err := h.rdb.Set(context.WithoutCancel(ctx), chave, b, h.ttl).Err(); err != nil {
				log.Debug().Err(err).Str("chave", chave).Msg("preco cache: set failed")
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}
