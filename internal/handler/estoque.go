package handler

import (
	"fmt"
	"net/http"
	"time"

	"filialpos/internal/apierror"
	"filialpos/internal/dto"
	"filialpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// tamanhoMaxPlanilha caps the multipart upload of POST /v1/estoque/importar.
const tamanhoMaxPlanilha = 10 << 20

type EstoqueHandler struct{ svc service.EstoqueService }

func NewEstoqueHandler(svc service.EstoqueService) *EstoqueHandler {
	return &EstoqueHandler{svc: svc}
}

// Criar godoc
// @Summary Cria um item de estoque
// @Description Quantidades e preços são reconciliados: caixas × unidades_por_caixa e preço unitário × unidades_por_caixa.
// @Tags estoque
// @Accept json
// @Produce json
// @Param body body dto.ProdutoEstoqueRequest true "Item"
// @Success 201 {object} dto.ProdutoEstoqueResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/estoque [post]
func (h *EstoqueHandler) Criar(c *gin.Context) {
	var req dto.ProdutoEstoqueRequest
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

// Atualizar godoc
// @Summary Atualiza parcialmente um item de estoque
// @Description Só os campos enviados são alterados; campos com valor inválido são ignorados.
// @Tags estoque
// @Accept json
// @Produce json
// @Param id path string true "ID do item"
// @Param body body dto.ProdutoEstoqueRequest true "Campos a alterar"
// @Success 200 {object} dto.ProdutoEstoqueResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/estoque/{id} [patch]
func (h *EstoqueHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ProdutoEstoqueRequest
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

func (h *EstoqueHandler) ObterPorID(c *gin.Context) {
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

func (h *EstoqueHandler) Listar(c *gin.Context) {
	var filter dto.EstoqueFilter
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

// SubstituirPorArmazem godoc
// @Summary Substitui todo o estoque de um armazém
// @Description Exclui os itens do armazém e cria os enviados numa única transação. Sem armazem_id (só admin) substitui o estoque inteiro.
// @Tags estoque
// @Accept json
// @Produce json
// @Param body body dto.SubstituirEstoqueRequest true "Itens"
// @Success 200 {object} dto.SubstituirEstoqueResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/estoque/armazem [put]
func (h *EstoqueHandler) SubstituirPorArmazem(c *gin.Context) {
	var req dto.SubstituirEstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SubstituirPorArmazem(c.Request.Context(), escopo(c), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) Excluir(c *gin.Context) {
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

// ExcluirPorCategoria godoc
// @Summary Exclui itens por marca e tipo
// @Description Sempre responde 200 com a quantidade excluída, inclusive zero.
// @Tags estoque
// @Produce json
// @Param marca query string false "Marca"
// @Param tipo query string false "Tipo"
// @Param armazem_id query string false "Restringe a um armazém"
// @Success 200 {object} dto.ExcluirPorCategoriaResponse
// @Security BearerAuth
// @Router /v1/estoque [delete]
func (h *EstoqueHandler) ExcluirPorCategoria(c *gin.Context) {
	var filter dto.ExcluirPorCategoriaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ExcluirPorCategoria(c.Request.Context(), escopo(c), filter)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) ListarMovimentos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarMovimentos(c.Request.Context(), escopo(c), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar godoc
// @Summary Exporta o estoque para .xlsx
// @Tags estoque
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /v1/estoque/exportar [get]
func (h *EstoqueHandler) Exportar(c *gin.Context) {
	var filter dto.EstoqueFilter
	if !bindQuery(c, &filter) {
		return
	}
	b, err := h.svc.ExportarPlanilha(c.Request.Context(), escopo(c), filter)
	if err != nil {
		responderErro(c, err)
		return
	}
	nome := fmt.Sprintf("estoque-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+nome+`"`)
	c.Data(http.StatusOK, mimeXLSX, b)
}

// Importar godoc
// @Summary Importa uma planilha .xlsx substituindo o estoque do armazém
// @Description Se alguma linha for inválida nada é gravado e a resposta é 422 com os erros por linha.
// @Tags estoque
// @Accept multipart/form-data
// @Produce json
// @Param arquivo formData file true "Planilha"
// @Param armazem_id formData string false "Armazém"
// @Success 200 {object} dto.ImportacaoResponse
// @Failure 422 {object} dto.ImportacaoResponse
// @Security BearerAuth
// @Router /v1/estoque/importar [post]
func (h *EstoqueHandler) Importar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, tamanhoMaxPlanilha)
	fh, err := c.FormFile("arquivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("arquivo .xlsx obrigatório no campo 'arquivo'"))
		return
	}

	var armazemID *uuid.UUID
	if v := c.PostForm("armazem_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("armazem_id inválido"))
			return
		}
		armazemID = &id
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("não foi possível ler o arquivo"))
		return
	}
	defer f.Close()

	resp, err := h.svc.ImportarPlanilha(c.Request.Context(), escopo(c), armazemID, f)
	if err != nil {
		responderErro(c, err)
		return
	}
	if len(resp.Erros) > 0 {
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
