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

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// actorFromClaims builds the acting user for permission checks from the JWT.
func actorFromClaims(c *gin.Context) *model.Usuario {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)
	return &model.Usuario{ID: id, Rol: model.Rol(claims.Rol)}
}

// Crear godoc
// @Summary      Crear un pedido
// @Description  Crea un pedido ACID: valida stock, calcula costo de envío por distancia y descuenta stock.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearPedidoRequest true "Detalle del pedido"
// @Success      201  {object} dto.PedidoResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/pedidos [post]
func (h *PedidosHandler) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
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

// CambiarEstado godoc
// @Summary      Cambiar el estado de un pedido
// @Description  Aplica una transición del ciclo de vida. CANCELADA exige motivo de al menos 10 caracteres.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del pedido"
// @Param        body body dto.CambiarEstadoRequest true "Nuevo estado"
// @Success      200  {object} dto.PedidoResponse
// @Failure      403  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/pedidos/{id}/estado [patch]
func (h *PedidosHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, actorFromClaims(c), req)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar un pedido
// @Description  Solo en REGISTRADA o PENDIENTE_PAGO, por el cliente o un administrador. Restaura el stock de cada línea.
// @Tags         pedidos
// @Security     BearerAuth
// @Param        id path string true "UUID del pedido"
// @Success      204
// @Failure      403  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/pedidos/{id} [delete]
func (h *PedidosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id, actorFromClaims(c)); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ObtenerPorID godoc
// @Summary      Detalle de un pedido
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del pedido"
// @Success      200  {object} dto.PedidoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/pedidos/{id} [get]
func (h *PedidosHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id, actorFromClaims(c))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar pedidos
// @Description  El alcance depende del rol: cliente ve los propios, propietario los de su negocio, administrador todos.
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "Filtrar por estado"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200  {object} dto.PedidoListResponse
// @Router       /v1/pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), actorFromClaims(c), filter)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
