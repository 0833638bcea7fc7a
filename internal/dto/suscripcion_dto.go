package dto

import "github.com/shopspring/decimal"

type RegistrarPagoRequest struct {
	Monto      decimal.Decimal `json:"monto" validate:"required,gt=0"`
	PeriodoMes string          `json:"periodo_mes" validate:"required,len=7"`
	Notas      *string         `json:"notas"`
}

type RevisarPagoRequest struct {
	// Aprobar true approves the payment, false rejects it.
	Aprobar bool    `json:"aprobar"`
	Notas   *string `json:"notas"`
}

type PagoResponse struct {
	ID         string          `json:"id"`
	UsuarioID  string          `json:"usuario_id"`
	Monto      decimal.Decimal `json:"monto"`
	PeriodoMes string          `json:"periodo_mes"`
	Estado     string          `json:"estado"`
	RevisadoAt *string         `json:"revisado_at,omitempty"`
	RevisorID  *string         `json:"revisor_id,omitempty"`
	Notas      *string         `json:"notas,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

type EstadoSuscripcionResponse struct {
	Estado               string  `json:"estado"`
	EnTrial              bool    `json:"en_trial"`
	DiasRestantesTrial   int     `json:"dias_restantes_trial"`
	AccesoPropietario    bool    `json:"acceso_propietario"`
	ProximoVencimiento   *string `json:"proximo_vencimiento,omitempty"`
	PagadaHasta          *string `json:"pagada_hasta,omitempty"`
	DiasVencida          int     `json:"dias_vencida,omitempty"`
}
