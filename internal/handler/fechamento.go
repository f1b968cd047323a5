package handler

import (
	"errors"
	"net/http"

	"caixapos/internal/apierror"
	"caixapos/internal/dto"
	"caixapos/internal/service"

	"github.com/gin-gonic/gin"
)

type FechamentoHandler struct{ svc service.FechamentoService }

func NewFechamentoHandler(svc service.FechamentoService) *FechamentoHandler {
	return &FechamentoHandler{svc: svc}
}

// Obter godoc
// @Summary Calcula o fechamento de caixa do período
// @Description Recalcula saldos por forma de pagamento e o livro de lançamentos a partir dos eventos de origem
// @Tags fechamento
// @Produce json
// @Security BearerAuth
// @Param filtro query string false "hoje | semana | mes | todos | personalizado"
// @Param inicio query string false "RFC3339, usado com filtro=personalizado"
// @Param fim query string false "RFC3339, usado com filtro=personalizado"
// @Param atualizar query bool false "true ignora o cache e recalcula"
// @Success 200 {object} dto.FechamentoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/fechamento [get]
func (h *FechamentoHandler) Obter(c *gin.Context) {
	var req dto.FechamentoRequest
	if !bindQueryAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Fechamento(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPeriodoInvalido), errors.Is(err, service.ErrMovimentoInvalido):
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		default:
			// Source read errors and rounding assertions: no partial numbers,
			// the client gets an error state instead of misleading balances.
			_ = c.Error(err)
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
