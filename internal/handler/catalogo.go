package handler

import (
	"net/http"

	"github.com/tomasvarela21/ChapulinaApp/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler serves the public catalog. No authentication and no
// cost prices.
type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// Listar godoc
// @Summary Catálogo público (sin autenticación)
// @Description Productos activos con stock, con precio contado y de lista.
// @Tags catalogo
// @Produce json
// @Success 200 {object} dto.Respuesta{data=[]dto.CatalogoItem}
// @Router /v1/catalogo [get]
func (h *CatalogoHandler) Listar(c *gin.Context) {
	items, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=60")
	ok(c, http.StatusOK, items)
}
