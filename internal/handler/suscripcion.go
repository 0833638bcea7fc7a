package handler

import (
	"net/http"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/apierror"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/dto"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/middleware"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SuscripcionHandler struct{ svc service.SuscripcionService }

func NewSuscripcionHandler(svc service.SuscripcionService) *SuscripcionHandler {
	return &SuscripcionHandler{svc: svc}
}

// ObtenerEstado godoc
// @Summary      Estado de la suscripción del propietario
// @Description  Recalcula el estado (trial/active/overdue/suspended) y refresca la caché si cambió.
// @Tags         suscripcion
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.EstadoSuscripcionResponse
// @Router       /v1/suscripcion/estado [get]
func (h *SuscripcionHandler) ObtenerEstado(c *gin.Context) {
	resp, err := h.svc.ObtenerEstado(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarPago godoc
// @Summary      Declarar un pago de suscripción
// @Description  El pago entra en estado pendiente hasta que un administrador lo revise.
// @Tags         suscripcion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarPagoRequest true "Datos del pago"
// @Success      201  {object} dto.PagoResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/suscripcion/pagos [post]
func (h *SuscripcionHandler) RegistrarPago(c *gin.Context) {
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarPago(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarPagos godoc
// @Summary      Pagos del propietario autenticado
// @Tags         suscripcion
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.PagoResponse
// @Router       /v1/suscripcion/pagos [get]
func (h *SuscripcionHandler) ListarPagos(c *gin.Context) {
	resp, err := h.svc.ListarPagos(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPendientes godoc
// @Summary      Pagos pendientes de revisión (admin)
// @Tags         suscripcion
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.PagoResponse
// @Router       /v1/suscripcion/pagos/pendientes [get]
func (h *SuscripcionHandler) ListarPendientes(c *gin.Context) {
	resp, err := h.svc.ListarPendientes(c.Request.Context())
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RevisarPago godoc
// @Summary      Aprobar o rechazar un pago (admin)
// @Description  La aprobación extiende la fecha pagada-hasta un mes calendario.
// @Tags         suscripcion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del pago"
// @Param        body body dto.RevisarPagoRequest true "Decisión"
// @Success      200  {object} dto.PagoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/suscripcion/pagos/{id}/revision [patch]
func (h *SuscripcionHandler) RevisarPago(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RevisarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RevisarPago(c.Request.Context(), id, middleware.GetUserID(c), req)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
