package handler

import (
	"net/http"

	"filialpos/internal/dto"
	"filialpos/internal/service"

	"github.com/gin-gonic/gin"
)

type FiliaisHandler struct{ svc service.FilialService }

func NewFiliaisHandler(svc service.FilialService) *FiliaisHandler {
	return &FiliaisHandler{svc: svc}
}

func (h *FiliaisHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), escopo(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FiliaisHandler) ObterPorID(c *gin.Context) {
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

func (h *FiliaisHandler) Criar(c *gin.Context) {
	var req dto.FilialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FiliaisHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.FilialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FiliaisHandler) Excluir(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
