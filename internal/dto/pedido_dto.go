package dto

import "github.com/shopspring/decimal"

// ─── Requests ───────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid4"`
	Cantidad   int    `json:"cantidad" validate:"required,gt=0"`
}

type CrearPedidoRequest struct {
	NegocioID string              `json:"negocio_id" validate:"required,uuid4"`
	Items     []ItemPedidoRequest `json:"items" validate:"required,min=1,dive"`
	EsEnvio   bool                `json:"es_envio"`
	// Direccion and coordinates are required when EsEnvio is true —
	// enforced by the service, not by tags, to return a typed error.
	DireccionEntrega *string  `json:"direccion_entrega"`
	Latitud          *float64 `json:"latitud"`
	Longitud         *float64 `json:"longitud"`
	Nota             *string  `json:"nota"`
}

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required"`
	// Motivo is mandatory (>= 10 chars trimmed) when Estado is CANCELADA.
	Motivo *string `json:"motivo"`
}

type PedidoFilter struct {
	NegocioID string `form:"negocio_id"`
	ClienteID string `form:"cliente_id"`
	Estado    string `form:"estado"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

// ─── Responses ──────────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type EventoPedidoResponse struct {
	Tipo      string `json:"tipo"`
	ActorID   string `json:"actor_id"`
	Nota      string `json:"nota"`
	CreatedAt string `json:"created_at"`
}

type PedidoResponse struct {
	ID                string                 `json:"id"`
	NegocioID         string                 `json:"negocio_id"`
	ClienteID         string                 `json:"cliente_id"`
	Estado            string                 `json:"estado"`
	Total             decimal.Decimal        `json:"total"`
	CostoEnvio        decimal.Decimal        `json:"costo_envio"`
	EsEnvio           bool                   `json:"es_envio"`
	DireccionEntrega  *string                `json:"direccion_entrega,omitempty"`
	Nota              *string                `json:"nota,omitempty"`
	MotivoCancelacion *string                `json:"motivo_cancelacion,omitempty"`
	Items             []ItemPedidoResponse   `json:"items"`
	Eventos           []EventoPedidoResponse `json:"eventos,omitempty"`
	CreatedAt         string                 `json:"created_at"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
