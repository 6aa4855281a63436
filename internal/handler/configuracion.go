package handler

import (
	"net/http"

	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfiguracionHandler struct{ svc service.ConfiguracionService }

func NewConfiguracionHandler(svc service.ConfiguracionService) *ConfiguracionHandler {
	return &ConfiguracionHandler{svc: svc}
}

// Obtener GET /v1/configuracion
func (h *ConfiguracionHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualizar recargo y datos del negocio
// @Description Cambiar el recargo no toca los precios existentes; use /v1/productos/recalcular-precios.
// @Tags configuracion
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.ActualizarConfiguracionRequest true "Configuración"
// @Success 200 {object} dto.Respuesta{data=dto.ConfiguracionResponse}
// @Failure 400 {object} apierror.APIError
// @Router /v1/configuracion [put]
func (h *ConfiguracionHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarConfiguracionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
