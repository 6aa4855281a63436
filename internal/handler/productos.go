package handler

import (
	"net/http"
	"strconv"

	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/middleware"
	"github.com/tomasvarela21/ChapulinaApp/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Crear godoc
// @Summary Crear producto
// @Description El precio de lista se calcula con el recargo configurado, o con recargo_pct si se envía.
// @Tags productos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CrearProductoRequest true "Producto"
// @Success 201 {object} dto.Respuesta{data=dto.ProductoResponse}
// @Failure 400 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

// Listar godoc
// @Summary Listar productos
// @Tags productos
// @Security BearerAuth
// @Produce json
// @Param categoria query string false "Categoría exacta"
// @Param search query string false "Texto en nombre o detalle"
// @Param sort query string false "nombre | precio | cantidad"
// @Param activo query string false "false = inactivos, all = todos"
// @Success 200 {object} dto.Respuesta{data=[]dto.ProductoResponse}
// @Router /v1/productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.GetClaims(c).UsuarioID(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ProductosHandler) Desactivar(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductosHandler) Reactivar(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	if err := h.svc.Reactivar(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecalcularPrecios godoc
// @Summary Recalcular precios de lista
// @Description Reescribe el precio de lista de todos los productos con el recargo dado. No modifica la configuración.
// @Tags productos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.RecalcularPreciosRequest true "Recargo"
// @Success 200 {object} dto.Respuesta{data=dto.RecalcularPreciosResponse}
// @Failure 400 {object} apierror.APIError
// @Router /v1/productos/recalcular-precios [post]
func (h *ProductosHandler) RecalcularPrecios(c *gin.Context) {
	var req dto.RecalcularPreciosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecalcularPreciosLista(c.Request.Context(), *req.RecargoPct)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// HistorialPrecios godoc
// @Summary Historial de precios de un producto
// @Tags productos
// @Security BearerAuth
// @Produce json
// @Param id path string true "Producto ID (UUID)"
// @Param page query int false "Página (default 1)"
// @Param limit query int false "Resultados por página (default 50, max 200)"
// @Success 200 {object} dto.Respuesta{data=dto.HistorialPrecioListResponse}
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id}/historial-precios [get]
func (h *ProductosHandler) HistorialPrecios(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.svc.HistorialPrecios(c.Request.Context(), id, page, limit)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
