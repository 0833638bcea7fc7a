package dto

import "github.com/shopspring/decimal"

type HorarioRequest struct {
	Dia      int    `json:"dia" validate:"min=0,max=6"`
	Apertura string `json:"apertura" validate:"required,len=5"`
	Cierre   string `json:"cierre" validate:"required,len=5"`
}

type RangoEnvioRequest struct {
	DesdeKm float64         `json:"desde_km" validate:"min=0"`
	HastaKm *float64        `json:"hasta_km"`
	Costo   decimal.Decimal `json:"costo"`
}

type CrearNegocioRequest struct {
	Nombre            string          `json:"nombre" validate:"required,min=2"`
	Descripcion       *string         `json:"descripcion"`
	Direccion         string          `json:"direccion" validate:"required"`
	Latitud           float64         `json:"latitud" validate:"min=-90,max=90"`
	Longitud          float64         `json:"longitud" validate:"min=-180,max=180"`
	CostoEnvioDefault decimal.Decimal `json:"costo_envio_default" validate:"min=0"`
}

type ActualizarNegocioRequest struct {
	Nombre            *string          `json:"nombre"`
	Descripcion       *string          `json:"descripcion"`
	Direccion         *string          `json:"direccion"`
	Latitud           *float64         `json:"latitud"`
	Longitud          *float64         `json:"longitud"`
	CostoEnvioDefault *decimal.Decimal `json:"costo_envio_default"`
}

// ConfigurarRangosRequest replaces the full delivery price table. The set is
// validated as a whole before any row is written.
type ConfigurarRangosRequest struct {
	Rangos []RangoEnvioRequest `json:"rangos" validate:"dive"`
}

type ConfigurarHorariosRequest struct {
	Horarios []HorarioRequest `json:"horarios" validate:"dive"`
}

type NegocioFilter struct {
	Nombre string `form:"nombre"`
	// Lat/Lng of the browsing customer; when present, responses include
	// distance and a shipping quote.
	Latitud  *float64 `form:"latitud"`
	Longitud *float64 `form:"longitud"`
	Page     int      `form:"page"`
	Limit    int      `form:"limit"`
}

type RangoEnvioResponse struct {
	DesdeKm float64         `json:"desde_km"`
	HastaKm *float64        `json:"hasta_km"`
	Costo   decimal.Decimal `json:"costo"`
}

type HorarioResponse struct {
	Dia      int    `json:"dia"`
	Apertura string `json:"apertura"`
	Cierre   string `json:"cierre"`
}

type NegocioResponse struct {
	ID                string               `json:"id"`
	PropietarioID     string               `json:"propietario_id"`
	Nombre            string               `json:"nombre"`
	Descripcion       *string              `json:"descripcion,omitempty"`
	Direccion         string               `json:"direccion"`
	Latitud           float64              `json:"latitud"`
	Longitud          float64              `json:"longitud"`
	CostoEnvioDefault decimal.Decimal      `json:"costo_envio_default"`
	AbiertoAhora      bool                 `json:"abierto_ahora"`
	Horarios          []HorarioResponse    `json:"horarios,omitempty"`
	RangosEnvio       []RangoEnvioResponse `json:"rangos_envio,omitempty"`
	// Set only when the caller supplied coordinates.
	DistanciaKm     *float64         `json:"distancia_km,omitempty"`
	CostoEnvio      *decimal.Decimal `json:"costo_envio,omitempty"`
	EnvioDisponible *bool            `json:"envio_disponible,omitempty"`
}

type NegocioListResponse struct {
	Data  []NegocioResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
