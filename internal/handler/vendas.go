package handler

import (
	"net/http"

	"filialpos/internal/dto"
	"filialpos/internal/service"

	"github.com/gin-gonic/gin"
)

type VendasHandler struct{ svc service.VendaService }

func NewVendasHandler(svc service.VendaService) *VendasHandler { return &VendasHandler{svc: svc} }

// Registrar godoc
// @Summary Registra uma venda
// @Description Baixa o estoque de cada item na mesma transação; estoque insuficiente responde 400.
// @Tags vendas
// @Accept json
// @Produce json
// @Param body body dto.RegistrarVendaRequest true "Venda"
// @Success 201 {object} dto.VendaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/vendas [post]
func (h *VendasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), escopo(c), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VendasHandler) Listar(c *gin.Context) {
	var filter dto.VendaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), escopo(c), filter)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendasHandler) ObterPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), escopo(c), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recibo GET /v1/vendas/:id/recibo
func (h *VendasHandler) Recibo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pdf, err := h.svc.ReciboPDF(c.Request.Context(), escopo(c), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="recibo-`+id.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
