package repository

import (
	"context"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PagoRepository interface {
	Create(ctx context.Context, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	// FindUltimoAprobado returns the most recently reviewed approved payment
	// of a user, or gorm.ErrRecordNotFound.
	FindUltimoAprobado(ctx context.Context, usuarioID uuid.UUID) (*model.Pago, error)
	FindPorPeriodo(ctx context.Context, usuarioID uuid.UUID, periodoMes string) (*model.Pago, error)
	ListPorUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.Pago, error)
	ListPendientes(ctx context.Context) ([]model.Pago, error)
	Update(ctx context.Context, p *model.Pago) error
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) Create(ctx context.Context, p *model.Pago) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *pagoRepo) FindUltimoAprobado(ctx context.Context, usuarioID uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND estado = ?", usuarioID, model.PagoAprobado).
		Order("revisado_at DESC").First(&p).Error
	return &p, err
}

func (r *pagoRepo) FindPorPeriodo(ctx context.Context, usuarioID uuid.UUID, periodoMes string) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND periodo_mes = ? AND estado <> ?", usuarioID, periodoMes, model.PagoRechazado).
		First(&p).Error
	return &p, err
}

func (r *pagoRepo) ListPorUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID).
		Order("created_at DESC").Find(&pagos).Error
	return pagos, err
}

func (r *pagoRepo) ListPendientes(ctx context.Context) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).Where("estado = ?", model.PagoPendiente).
		Preload("Usuario").Order("created_at ASC").Find(&pagos).Error
	return pagos, err
}

func (r *pagoRepo) Update(ctx context.Context, p *model.Pago) error {
	return r.db.WithContext(ctx).Save(p).Error
}
