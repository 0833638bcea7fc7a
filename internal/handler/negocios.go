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

type NegociosHandler struct{ svc service.NegocioService }

func NewNegociosHandler(svc service.NegocioService) *NegociosHandler {
	return &NegociosHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar el negocio del propietario
// @Tags         negocios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearNegocioRequest true "Datos del negocio"
// @Success      201  {object} dto.NegocioResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/negocios [post]
func (h *NegociosHandler) Crear(c *gin.Context) {
	var req dto.CrearNegocioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar negocios activos
// @Description  Con latitud/longitud del cliente incluye distancia, disponibilidad y costo de envío.
// @Tags         negocios
// @Produce      json
// @Param        nombre   query string  false "Búsqueda por nombre"
// @Param        latitud  query number  false "Latitud del cliente"
// @Param        longitud query number  false "Longitud del cliente"
// @Param        page     query int     false "Página (default 1)"
// @Param        limit    query int     false "Registros por página (default 50)"
// @Success      200  {object} dto.NegocioListResponse
// @Router       /v1/negocios [get]
func (h *NegociosHandler) Listar(c *gin.Context) {
	var filter dto.NegocioFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary      Detalle de un negocio
// @Tags         negocios
// @Produce      json
// @Param        id       path  string true  "UUID del negocio"
// @Param        latitud  query number false "Latitud del cliente"
// @Param        longitud query number false "Longitud del cliente"
// @Success      200  {object} dto.NegocioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/negocios/{id} [get]
func (h *NegociosHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var filter dto.NegocioFilter
	_ = c.ShouldBindQuery(&filter)
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id, filter)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPropio godoc
// @Summary      Negocio del propietario autenticado
// @Tags         negocios
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.NegocioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/negocios/mio [get]
func (h *NegociosHandler) ObtenerPropio(c *gin.Context) {
	resp, err := h.svc.ObtenerPropio(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar el negocio del propietario
// @Tags         negocios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ActualizarNegocioRequest true "Campos a modificar"
// @Success      200  {object} dto.NegocioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/negocios/mio [put]
func (h *NegociosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarNegocioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfigurarHorarios godoc
// @Summary      Reemplazar los horarios de atención
// @Tags         negocios
// @Accept       json
// @Security     BearerAuth
// @Param        body body dto.ConfigurarHorariosRequest true "Horarios completos"
// @Success      204
// @Failure      422  {object} apierror.APIError
// @Router       /v1/negocios/mio/horarios [put]
func (h *NegociosHandler) ConfigurarHorarios(c *gin.Context) {
	var req dto.ConfigurarHorariosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ConfigurarHorarios(c.Request.Context(), middleware.GetUserID(c), req); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfigurarRangos godoc
// @Summary      Reemplazar los rangos de envío
// @Description  Valida la tabla completa: debe comenzar en 0 km, sin huecos ni superposiciones; solo el último rango puede ser abierto.
// @Tags         negocios
// @Accept       json
// @Security     BearerAuth
// @Param        body body dto.ConfigurarRangosRequest true "Rangos completos"
// @Success      204
// @Failure      422  {object} apierror.APIError
// @Router       /v1/negocios/mio/rangos-envio [put]
func (h *NegociosHandler) ConfigurarRangos(c *gin.Context) {
	var req dto.ConfigurarRangosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ConfigurarRangos(c.Request.Context(), middleware.GetUserID(c), req); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Desactivar godoc
// @Summary      Desactivar el negocio del propietario
// @Tags         negocios
// @Security     BearerAuth
// @Success      204
// @Router       /v1/negocios/mio [delete]
func (h *NegociosHandler) Desactivar(c *gin.Context) {
	if err := h.svc.Desactivar(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
