package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre" validate:"required,min=2"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio" validate:"required,min=0"`
	Stock       int             `json:"stock" validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"`
	Descripcion *string          `json:"descripcion"`
	Precio      *decimal.Decimal `json:"precio"`
}

type AjustarStockRequest struct {
	// Delta may be negative; the service rejects adjustments that would
	// leave stock below zero.
	Delta  int    `json:"delta" validate:"required"`
	Motivo string `json:"motivo"`
}

type ProductoFilter struct {
	NegocioID string `form:"negocio_id"`
	Nombre    string `form:"nombre"`
	Activo    string `form:"activo"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

type ProductoResponse struct {
	ID          string          `json:"id"`
	NegocioID   string          `json:"negocio_id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion,omitempty"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	Activo      bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
