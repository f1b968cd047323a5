package handler

import (
	"errors"
	"net/http"

	"caixapos/internal/apierror"
	"caixapos/internal/dto"
	"caixapos/internal/middleware"
	"caixapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type MovimentosHandler struct{ svc service.MovimentoService }

func NewMovimentosHandler(svc service.MovimentoService) *MovimentosHandler {
	return &MovimentosHandler{svc: svc}
}

// RegistrarCaixa godoc
// @Summary Registra uma sangria ou suprimento de caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimentoCaixaRequest true "Movimento manual"
// @Success 201 {object} dto.MovimentoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caixa/movimento [post]
func (h *MovimentosHandler) RegistrarCaixa(c *gin.Context) {
	var req dto.MovimentoCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarCaixa(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	logMovimento(c, "movimento de caixa registrado", req.Tipo, resp.ID)
	c.JSON(http.StatusCreated, resp)
}

// RegistrarTesouraria godoc
// @Summary Registra um movimento de tesouraria
// @Description Transferência entre formas, pagamento de conta, retirada de lucro ou retirada
// @Tags tesouraria
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimentoTesourariaRequest true "Movimento de tesouraria"
// @Success 201 {object} dto.MovimentoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/tesouraria/movimento [post]
func (h *MovimentosHandler) RegistrarTesouraria(c *gin.Context) {
	var req dto.MovimentoTesourariaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarTesouraria(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	logMovimento(c, "movimento de tesouraria registrado", req.Tipo, resp.ID)
	c.JSON(http.StatusCreated, resp)
}

// logMovimento records who registered which movement. These writes are the
// audit-relevant surface of the service, so the operator goes into the log.
func logMovimento(c *gin.Context, msg, tipo, id string) {
	evt := log.Info().Str("tipo", tipo).Str("movimento_id", id)
	if claims := middleware.GetClaims(c); claims != nil {
		evt = evt.Str("usuario", claims.Username).Str("papel", claims.Papel)
	}
	evt.Msg(msg)
}

func (h *MovimentosHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrMovimentoInvalido) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	_ = c.Error(err)
}
