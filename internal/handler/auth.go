package handler

import (
	"net/http"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/apierror"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/dto"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/middleware"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Registrar godoc
// @Summary      Registrar una cuenta
// @Description  Crea una cuenta con rol cliente.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.RegistroRequest true "Datos de la cuenta"
// @Success      201  {object} dto.UsuarioResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/auth/registro [post]
func (h *AuthHandler) Registrar(c *gin.Context) {
	var req dto.RegistroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credenciales"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary      Renovar tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.RefreshRequest true "Refresh token"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HacersePropietario godoc
// @Summary      Convertirse en propietario
// @Description  Cambia el rol del usuario autenticado a propietario e inicia el período de prueba de la suscripción.
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.UsuarioResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/usuarios/hacerse-propietario [post]
func (h *AuthHandler) HacersePropietario(c *gin.Context) {
	resp, err := h.svc.HacersePropietario(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarUsuarios godoc
// @Summary      Listar usuarios (admin)
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Param        incluir_inactivos query bool false "Incluir cuentas desactivadas"
// @Success      200  {array} dto.UsuarioResponse
// @Router       /v1/usuarios [get]
func (h *AuthHandler) ListarUsuarios(c *gin.Context) {
	incluir := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), incluir)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarRol godoc
// @Summary      Cambiar rol de un usuario (admin)
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del usuario"
// @Param        body body dto.CambiarRolRequest true "Nuevo rol"
// @Success      200  {object} dto.UsuarioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/usuarios/{id}/rol [patch]
func (h *AuthHandler) CambiarRol(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarRolRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarRol(c.Request.Context(), id, model.Rol(req.Rol))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DesactivarUsuario godoc
// @Summary      Desactivar usuario (admin)
// @Tags         usuarios
// @Security     BearerAuth
// @Param        id path string true "UUID del usuario"
// @Success      204
// @Router       /v1/usuarios/{id} [delete]
func (h *AuthHandler) DesactivarUsuario(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.DesactivarUsuario(c.Request.Context(), id); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReactivarUsuario godoc
// @Summary      Reactivar usuario (admin)
// @Tags         usuarios
// @Security     BearerAuth
// @Param        id path string true "UUID del usuario"
// @Success      204
// @Router       /v1/usuarios/{id}/reactivar [patch]
func (h *AuthHandler) ReactivarUsuario(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.ReactivarUsuario(c.Request.Context(), id); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
