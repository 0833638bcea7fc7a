package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoPago: "pendiente" | "aprobado" | "rechazado"
type EstadoPago string

const (
	PagoPendiente EstadoPago = "pendiente"
	PagoAprobado  EstadoPago = "aprobado"
	PagoRechazado EstadoPago = "rechazado"
)

// Pago is a subscription payment declared by an owner and reviewed by an
// administrator. PeriodoMes identifies the billed month as "YYYY-MM".
type Pago struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PeriodoMes string          `gorm:"type:varchar(7);not null;index"`
	Estado     EstadoPago      `gorm:"type:varchar(20);not null;default:'pendiente'"`
	RevisadoAt *time.Time
	RevisorID  *uuid.UUID `gorm:"type:uuid;index"`
	Notas      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}
