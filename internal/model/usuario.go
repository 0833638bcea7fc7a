package model

import (
	"time"

	"github.com/google/uuid"
)

// Rol is the closed set of user roles. Permission checks compare against
// these constants — never against raw strings from the request.
type Rol string

const (
	RolCliente       Rol = "cliente"
	RolPropietario   Rol = "propietario"
	RolAdministrador Rol = "administrador"
)

// EstadoSuscripcion is the owner subscription status. It is derived from
// timestamps and payments on every query; the column is only a cache.
type EstadoSuscripcion string

const (
	SuscripcionTrial      EstadoSuscripcion = "trial"
	SuscripcionActiva     EstadoSuscripcion = "active"
	SuscripcionVencida    EstadoSuscripcion = "overdue"
	SuscripcionSuspendida EstadoSuscripcion = "suspended"
)

// Usuario stores accounts for customers, business owners and administrators.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          Rol       `gorm:"type:varchar(20);not null;default:'cliente'"`
	// SeHizoPropietario marks the start of the subscription trial.
	// Nil means the account creation date is used instead.
	SeHizoPropietario *time.Time
	// EstadoSuscripcion is a cache of the last computed status.
	EstadoSuscripcion      EstadoSuscripcion `gorm:"type:varchar(20);not null;default:'trial'"`
	SuscripcionPagadaHasta *time.Time
	Activo                 bool `gorm:"not null;default:true"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// InicioSuscripcion returns the trial reference date: the moment the user
// became an owner, falling back to account creation.
func (u *Usuario) InicioSuscripcion() time.Time {
	if u.SeHizoPropietario != nil {
		return *u.SeHizoPropietario
	}
	return u.CreatedAt
}
