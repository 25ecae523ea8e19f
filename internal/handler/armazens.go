package handler

import (
	"net/http"

	"filialpos/internal/dto"
	"filialpos/internal/service"

	"github.com/gin-gonic/gin"
)

// ArmazensHandler serves /v1/armazens. Afiliados only see and create
// warehouses of their own filial.
type ArmazensHandler struct{ svc service.ArmazemService }

func NewArmazensHandler(svc service.ArmazemService) *ArmazensHandler {
	return &ArmazensHandler{svc: svc}
}

func (h *ArmazensHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), escopo(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ArmazensHandler) Criar(c *gin.Context) {
	var req dto.ArmazemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), escopo(c), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ArmazensHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ArmazemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), escopo(c), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ArmazensHandler) Excluir(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), escopo(c), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
