package handler

import (
	"net/http"

	"github.com/tomasvarela21/ChapulinaApp/internal/apierror"
	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/middleware"
	"github.com/tomasvarela21/ChapulinaApp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.Respuesta{data=dto.LoginResponse}
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Refresh godoc
// @Summary Renovar tokens con un refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.Respuesta{data=dto.LoginResponse}
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// usuarioActual returns the id of the authenticated user, writing a 401 when
// the token carries no usable id.
func usuarioActual(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.UsuarioID() == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token mal formado"))
		return uuid.Nil, false
	}
	return *claims.UsuarioID(), true
}

// Me godoc
// @Summary Usuario autenticado
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.Respuesta{data=dto.UsuarioResponse}
// @Router /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	id, valido := usuarioActual(c)
	if !valido {
		return
	}
	resp, err := h.svc.Me(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// CambiarPassword godoc
// @Summary Cambiar la contraseña propia
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Param body body dto.CambiarPasswordRequest true "Contraseñas"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/auth/password [put]
func (h *AuthHandler) CambiarPassword(c *gin.Context) {
	id, valido := usuarioActual(c)
	if !valido {
		return
	}
	var req dto.CambiarPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarPassword(c.Request.Context(), id, req); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Usuarios Handler ─────────────────────────────────────────────────────────

type UsuariosHandler struct{ svc service.AuthService }

func NewUsuariosHandler(svc service.AuthService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearUsuario(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

// Listar returns active users; ?todos=true includes deactivated ones.
func (h *UsuariosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), c.Query("todos") == "true")
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarUsuario(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *UsuariosHandler) Desactivar(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	if err := h.svc.DesactivarUsuario(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UsuariosHandler) Reactivar(c *gin.Context) {
	id, valido := parseID(c)
	if !valido {
		return
	}
	if err := h.svc.ReactivarUsuario(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
