package handler

import (
	"net/http"

	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// StockBajo godoc
// @Summary Productos con stock bajo
// @Description Productos activos con algún talle en o por debajo del umbral, ordenados por la menor cantidad.
// @Tags inventario
// @Security BearerAuth
// @Produce json
// @Param umbral query int false "Umbral (default 2)"
// @Success 200 {object} dto.Respuesta{data=[]dto.StockBajoResponse}
// @Router /v1/inventario/stock-bajo [get]
func (h *InventarioHandler) StockBajo(c *gin.Context) {
	var filter dto.StockBajoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.StockBajo(c.Request.Context(), filter.Umbral)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// ListarMovimientos godoc
// @Summary Movimientos de stock
// @Tags inventario
// @Security BearerAuth
// @Produce json
// @Param producto_id query string false "Producto ID"
// @Param tipo query string false "venta | reserva | cancelacion | eliminacion | ajuste_manual"
// @Param page query int false "Página"
// @Param limit query int false "Resultados por página"
// @Success 200 {object} dto.Respuesta{data=dto.MovimientoListResponse}
// @Router /v1/inventario/movimientos [get]
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
