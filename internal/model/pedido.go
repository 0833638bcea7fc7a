package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoPedido is the order state machine. Happy path is linear:
// REGISTRADA → PENDIENTE_PAGO → PAGADA → PREPARANDO → ENVIADA → ENTREGADA,
// with CANCELADA reachable from any non-terminal state.
type EstadoPedido string

const (
	PedidoRegistrada    EstadoPedido = "REGISTRADA"
	PedidoPendientePago EstadoPedido = "PENDIENTE_PAGO"
	PedidoPagada        EstadoPedido = "PAGADA"
	PedidoPreparando    EstadoPedido = "PREPARANDO"
	PedidoEnviada       EstadoPedido = "ENVIADA"
	PedidoEntregada     EstadoPedido = "ENTREGADA"
	PedidoCancelada     EstadoPedido = "CANCELADA"
)

// EsValido reports whether e is one of the seven enumerated states.
func (e EstadoPedido) EsValido() bool {
	switch e {
	case PedidoRegistrada, PedidoPendientePago, PedidoPagada,
		PedidoPreparando, PedidoEnviada, PedidoEntregada, PedidoCancelada:
		return true
	}
	return false
}

// EsTerminal reports whether no further transition is permitted.
func (e EstadoPedido) EsTerminal() bool {
	return e == PedidoEntregada || e == PedidoCancelada
}

// TipoEvento: "CREADA" | "CAMBIO_ESTADO" | "CANCELACION"
type TipoEvento string

const (
	EventoCreada       TipoEvento = "CREADA"
	EventoCambioEstado TipoEvento = "CAMBIO_ESTADO"
	EventoCancelacion  TipoEvento = "CANCELACION"
)

// Pedido is an order placed by a customer against a business.
// Total always covers the item lines plus CostoEnvio.
type Pedido struct {
	ID                uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NegocioID         uuid.UUID    `gorm:"type:uuid;not null;index"`
	ClienteID         uuid.UUID    `gorm:"type:uuid;not null;index"`
	Estado            EstadoPedido `gorm:"type:varchar(20);not null;default:'REGISTRADA';index"`
	Total             decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostoEnvio        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	EsEnvio           bool            `gorm:"not null;default:false"`
	DireccionEntrega  *string
	Nota              *string
	MotivoCancelacion *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Negocio *Negocio       `gorm:"foreignKey:NegocioID"`
	Cliente *Usuario       `gorm:"foreignKey:ClienteID"`
	Items   []PedidoItem   `gorm:"foreignKey:PedidoID"`
	Eventos []PedidoEvento `gorm:"foreignKey:PedidoID"`
}

// PedidoItem is one order line. Insertion order is line order.
// NombreProducto is denormalized at creation time so the line survives later
// catalog edits.
type PedidoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	NombreProducto string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time
}

// PedidoEvento is the append-only audit trail of an order. Events are never
// mutated or deleted except when the whole order is deleted.
type PedidoEvento struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Tipo      TipoEvento `gorm:"type:varchar(20);not null"`
	ActorID   uuid.UUID  `gorm:"type:uuid;not null"`
	Nota      string     `gorm:"not null"`
	CreatedAt time.Time
}
