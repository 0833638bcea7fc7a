package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog item of a business. Stock must never go negative:
// order creation decrements it inside a transaction guarded by a
// stock >= quantity condition, and order deletion restores it.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NegocioID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Negocio *Negocio `gorm:"foreignKey:NegocioID"`
}
