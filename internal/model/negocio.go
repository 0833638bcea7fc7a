package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Negocio is a business listing owned by a propietario. Location is stored as
// a plain lat/lng pair; delivery pricing hangs off RangosEnvio.
type Negocio struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PropietarioID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Nombre        string    `gorm:"index;not null"`
	Descripcion   *string
	Direccion     string  `gorm:"not null"`
	Latitud       float64 `gorm:"not null"`
	Longitud      float64 `gorm:"not null"`
	// CostoEnvioDefault applies when no delivery ranges are configured.
	CostoEnvioDefault decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Activo            bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Propietario *Usuario          `gorm:"foreignKey:PropietarioID"`
	Horarios    []HorarioAtencion `gorm:"foreignKey:NegocioID"`
	RangosEnvio []RangoEnvio      `gorm:"foreignKey:NegocioID"`
}

// HorarioAtencion is one opening window. Dia follows time.Weekday
// (0 = domingo). Apertura/Cierre are "HH:MM"; a Cierre earlier than Apertura
// means the window spills past midnight.
type HorarioAtencion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NegocioID uuid.UUID `gorm:"type:uuid;not null;index"`
	Dia       int       `gorm:"not null"`
	Apertura  string    `gorm:"type:varchar(5);not null"`
	Cierre    string    `gorm:"type:varchar(5);not null"`
}

// RangoEnvio is one distance band of the delivery price table.
// HastaKm nil marks the open-ended last band.
type RangoEnvio struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NegocioID uuid.UUID `gorm:"type:uuid;not null;index"`
	DesdeKm   float64   `gorm:"not null"`
	HastaKm   *float64
	Costo     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Posicion  int             `gorm:"not null"`
}
