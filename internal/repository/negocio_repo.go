package repository

import (
	"context"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/dto"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NegocioRepository interface {
	Create(ctx context.Context, n *model.Negocio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Negocio, error)
	FindByPropietarioID(ctx context.Context, propietarioID uuid.UUID) (*model.Negocio, error)
	List(ctx context.Context, filter dto.NegocioFilter) ([]model.Negocio, int64, error)
	Update(ctx context.Context, n *model.Negocio) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// ReplaceHorarios and ReplaceRangos swap the full child set atomically.
	ReplaceHorarios(ctx context.Context, negocioID uuid.UUID, horarios []model.HorarioAtencion) error
	ReplaceRangos(ctx context.Context, negocioID uuid.UUID, rangos []model.RangoEnvio) error
}

type negocioRepo struct{ db *gorm.DB }

func NewNegocioRepository(db *gorm.DB) NegocioRepository { return &negocioRepo{db: db} }

func (r *negocioRepo) Create(ctx context.Context, n *model.Negocio) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *negocioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Negocio, error) {
	var n model.Negocio
	err := r.db.WithContext(ctx).
		Preload("Horarios").
		Preload("RangosEnvio", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		First(&n, id).Error
	return &n, err
}

func (r *negocioRepo) FindByPropietarioID(ctx context.Context, propietarioID uuid.UUID) (*model.Negocio, error) {
	var n model.Negocio
	err := r.db.WithContext(ctx).
		Preload("Horarios").
		Preload("RangosEnvio", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Where("propietario_id = ?", propietarioID).First(&n).Error
	return &n, err
}

func (r *negocioRepo) List(ctx context.Context, filter dto.NegocioFilter) ([]model.Negocio, int64, error) {
	var negocios []model.Negocio
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Negocio{}).Where("activo = true")
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Horarios").
		Preload("RangosEnvio", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&negocios).Error
	return negocios, total, err
}

func (r *negocioRepo) Update(ctx context.Context, n *model.Negocio) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *negocioRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Negocio{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *negocioRepo) ReplaceHorarios(ctx context.Context, negocioID uuid.UUID, horarios []model.HorarioAtencion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("negocio_id = ?", negocioID).Delete(&model.HorarioAtencion{}).Error; err != nil {
			return err
		}
		if len(horarios) == 0 {
			return nil
		}
		return tx.Create(&horarios).Error
	})
}

func (r *negocioRepo) ReplaceRangos(ctx context.Context, negocioID uuid.UUID, rangos []model.RangoEnvio) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("negocio_id = ?", negocioID).Delete(&model.RangoEnvio{}).Error; err != nil {
			return err
		}
		if len(rangos) == 0 {
			return nil
		}
		return tx.Create(&rangos).Error
	})
}
