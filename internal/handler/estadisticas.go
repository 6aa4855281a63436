package handler

import (
	"net/http"

	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/model"
	"github.com/tomasvarela21/ChapulinaApp/internal/middleware"
	"github.com/tomasvarela21/ChapulinaApp/internal/service"

	"github.com/gin-gonic/gin"
)

type EstadisticasHandler struct{ svc service.EstadisticasService }

func NewEstadisticasHandler(svc service.EstadisticasService) *EstadisticasHandler {
	return &EstadisticasHandler{svc: svc}
}

// Resumen godoc
// @Summary Total vendido, órdenes y ticket promedio
// @Tags estadisticas
// @Security BearerAuth
// @Produce json
// @Param desde query string false "YYYY-MM-DD"
// @Param hasta query string false "YYYY-MM-DD (inclusive)"
// @Success 200 {object} dto.Respuesta{data=dto.EstadisticasResponse}
// @Router /v1/estadisticas [get]
func (h *EstadisticasHandler) Resumen(c *gin.Context) {
	var filter dto.EstadisticasFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Mensual GET /v1/estadisticas/mensual
func (h *EstadisticasHandler) Mensual(c *gin.Context) {
	resp, err := h.svc.ResumenMensual(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Vendedores GET /v1/estadisticas/vendedores
func (h *EstadisticasHandler) Vendedores(c *gin.Context) {
	resp, err := h.svc.Vendedores(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Vendedor GET /v1/estadisticas/vendedores/:id
// A vendedor may only read their own numbers.
func (h *EstadisticasHandler) Vendedor(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	if claims := middleware.GetClaims(c); claims != nil && claims.Rol != model.RolAdmin {
		if propio := claims.UsuarioID(); propio == nil || *propio != id {
			responderError(c, errSoloPropias)
			return
		}
	}
	resp, err := h.svc.Vendedor(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Mias GET /v1/estadisticas/mias
func (h *EstadisticasHandler) Mias(c *gin.Context) {
	id, valido := usuarioActual(c)
	if !valido {
		return
	}
	resp, err := h.svc.Vendedor(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
