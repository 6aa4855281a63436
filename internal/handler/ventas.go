package handler

import (
	"fmt"
	"net/http"

	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/middleware"
	"github.com/tomasvarela21/ChapulinaApp/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler {
	return &VentasHandler{svc: svc}
}

// Crear godoc
// @Summary Registrar venta o reserva
// @Description estado=vendida descuenta stock y cobra; estado=reservada descuenta stock y requiere cliente y teléfono.
// @Tags ventas
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CrearVentaRequest true "Venta"
// @Success 201 {object} dto.Respuesta{data=dto.VentaResponse}
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError "Stock insuficiente"
// @Router /v1/ventas [post]
func (h *VentasHandler) Crear(c *gin.Context) {
	var req dto.CrearVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	vendedor := middleware.GetClaims(c).UsuarioID()

	resp, err := h.svc.Crear(c.Request.Context(), vendedor, req)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

// Listar godoc
// @Summary Listar ventas y reservas
// @Tags ventas
// @Security BearerAuth
// @Produce json
// @Param estado query string false "vendida | reservada | retirada | cancelada | all"
// @Param desde query string false "YYYY-MM-DD"
// @Param hasta query string false "YYYY-MM-DD (inclusive)"
// @Success 200 {object} dto.Respuesta{data=[]dto.VentaResponse}
// @Router /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
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

func (h *VentasHandler) ObtenerPorID(c *gin.Context) {
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

// Completar godoc
// @Summary Retirar una reserva
// @Description Recalcula el monto con los precios actuales: tarjeta cobra precio de lista, el resto contado.
// @Tags ventas
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Venta ID"
// @Param body body dto.CompletarReservaRequest true "Método de pago"
// @Success 200 {object} dto.Respuesta{data=dto.VentaResponse}
// @Failure 400 {object} apierror.APIError
// @Router /v1/ventas/{id}/completar [post]
func (h *VentasHandler) Completar(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	var req dto.CompletarReservaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Completar(c.Request.Context(), id, req.MetodoPago)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Cancelar godoc
// @Summary Cancelar una reserva
// @Tags ventas
// @Security BearerAuth
// @Produce json
// @Param id path string true "Venta ID"
// @Success 200 {object} dto.Respuesta{data=dto.VentaResponse}
// @Failure 400 {object} apierror.APIError
// @Router /v1/ventas/{id}/cancelar [post]
func (h *VentasHandler) Cancelar(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	resp, err := h.svc.Cancelar(c.Request.Context(), middleware.GetClaims(c).UsuarioID(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *VentasHandler) Actualizar(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	var req dto.ActualizarVentaRequest
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

func (h *VentasHandler) Eliminar(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetClaims(c).UsuarioID(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Comprobante godoc
// @Summary Comprobante PDF de la venta o reserva
// @Tags ventas
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Venta ID"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/ventas/{id}/comprobante [get]
func (h *VentasHandler) Comprobante(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	pdf, err := h.svc.Comprobante(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="comprobante-%s.pdf"`, id.String()[:8]))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
