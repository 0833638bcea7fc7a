package repository

import (
	"context"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/dto"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	// FindByID preloads items (line order) and eventos (chronological).
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)

	// Used inside transactions — callers must pass the tx instance.
	CreateTx(tx *gorm.DB, p *model.Pedido) error
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoPedido, motivo *string) error
	AppendEventoTx(tx *gorm.DB, e *model.PedidoEvento) error
	// DeleteTx removes eventos, items and the pedido itself.
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Eventos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Pedido{})
	if filter.NegocioID != "" {
		q = q.Where("negocio_id = ?", filter.NegocioID)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&pedidos).Error
	return pedidos, total, err
}

func (r *pedidoRepo) CreateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Create(p).Error
}

func (r *pedidoRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoPedido, motivo *string) error {
	updates := map[string]interface{}{"estado": estado}
	if motivo != nil {
		updates["motivo_cancelacion"] = *motivo
	}
	return tx.Model(&model.Pedido{}).Where("id = ?", id).Updates(updates).Error
}

func (r *pedidoRepo) AppendEventoTx(tx *gorm.DB, e *model.PedidoEvento) error {
	return tx.Create(e).Error
}

func (r *pedidoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("pedido_id = ?", id).Delete(&model.PedidoEvento{}).Error; err != nil {
		return err
	}
	if err := tx.Where("pedido_id = ?", id).Delete(&model.PedidoItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Pedido{}, id).Error
}

func (r *pedidoRepo) DB() *gorm.DB { return r.db }
