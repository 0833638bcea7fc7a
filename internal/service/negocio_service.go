package service

import (
	"context"
	"strings"
	"time"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/apierror"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/dto"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/repository"

	"github.com/google/uuid"
)

type NegocioService interface {
	Crear(ctx context.Context, propietarioID uuid.UUID, req dto.CrearNegocioRequest) (*dto.NegocioResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID, filter dto.NegocioFilter) (*dto.NegocioResponse, error)
	ObtenerPropio(ctx context.Context, propietarioID uuid.UUID) (*dto.NegocioResponse, error)
	Listar(ctx context.Context, filter dto.NegocioFilter) (*dto.NegocioListResponse, error)
	Actualizar(ctx context.Context, propietarioID uuid.UUID, req dto.ActualizarNegocioRequest) (*dto.NegocioResponse, error)
	ConfigurarHorarios(ctx context.Context, propietarioID uuid.UUID, req dto.ConfigurarHorariosRequest) error
	ConfigurarRangos(ctx context.Context, propietarioID uuid.UUID, req dto.ConfigurarRangosRequest) error
	Desactivar(ctx context.Context, propietarioID uuid.UUID) error
}

type negocioService struct {
	repo repository.NegocioRepository
	now  func() time.Time
}

func NewNegocioService(repo repository.NegocioRepository) NegocioService {
	return &negocioService{repo: repo, now: time.Now}
}

func (s *negocioService) Crear(ctx context.Context, propietarioID uuid.UUID, req dto.CrearNegocioRequest) (*dto.NegocioResponse, error) {
	// One business per owner.
	if existente, err := s.repo.FindByPropietarioID(ctx, propietarioID); err == nil && existente != nil {
		return nil, apierror.InvalidState("el propietario ya tiene un negocio registrado")
	}

	negocio := &model.Negocio{
		PropietarioID:     propietarioID,
		Nombre:            strings.TrimSpace(req.Nombre),
		Descripcion:       req.Descripcion,
		Direccion:         req.Direccion,
		Latitud:           req.Latitud,
		Longitud:          req.Longitud,
		CostoEnvioDefault: req.CostoEnvioDefault,
		Activo:            true,
	}
	if err := s.repo.Create(ctx, negocio); err != nil {
		return nil, err
	}
	return s.negocioToResponse(negocio, dto.NegocioFilter{}), nil
}

func (s *negocioService) ObtenerPorID(ctx context.Context, id uuid.UUID, filter dto.NegocioFilter) (*dto.NegocioResponse, error) {
	negocio, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("negocio no encontrado")
	}
	return s.negocioToResponse(negocio, filter), nil
}

func (s *negocioService) ObtenerPropio(ctx context.Context, propietarioID uuid.UUID) (*dto.NegocioResponse, error) {
	negocio, err := s.repo.FindByPropietarioID(ctx, propietarioID)
	if err != nil {
		return nil, apierror.NotFound("el propietario no tiene un negocio registrado")
	}
	return s.negocioToResponse(negocio, dto.NegocioFilter{}), nil
}

func (s *negocioService) Listar(ctx context.Context, filter dto.NegocioFilter) (*dto.NegocioListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	negocios, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NegocioResponse, 0, len(negocios))
	for i := range negocios {
		items = append(items, *s.negocioToResponse(&negocios[i], filter))
	}
	return &dto.NegocioListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *negocioService) Actualizar(ctx context.Context, propietarioID uuid.UUID, req dto.ActualizarNegocioRequest) (*dto.NegocioResponse, error) {
	negocio, err := s.repo.FindByPropietarioID(ctx, propietarioID)
	if err != nil {
		return nil, apierror.NotFound("el propietario no tiene un negocio registrado")
	}
	if req.Nombre != nil {
		negocio.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Descripcion != nil {
		negocio.Descripcion = req.Descripcion
	}
	if req.Direccion != nil {
		negocio.Direccion = *req.Direccion
	}
	if req.Latitud != nil {
		negocio.Latitud = *req.Latitud
	}
	if req.Longitud != nil {
		negocio.Longitud = *req.Longitud
	}
	if req.CostoEnvioDefault != nil {
		negocio.CostoEnvioDefault = *req.CostoEnvioDefault
	}
	if err := s.repo.Update(ctx, negocio); err != nil {
		return nil, err
	}
	return s.negocioToResponse(negocio, dto.NegocioFilter{}), nil
}

func (s *negocioService) ConfigurarHorarios(ctx context.Context, propietarioID uuid.UUID, req dto.ConfigurarHorariosRequest) error {
	negocio, err := s.repo.FindByPropietarioID(ctx, propietarioID)
	if err != nil {
		return apierror.NotFound("el propietario no tiene un negocio registrado")
	}
	horarios := make([]model.HorarioAtencion, 0, len(req.Horarios))
	for _, h := range req.Horarios {
		if minutoDelDia(h.Apertura) < 0 || minutoDelDia(h.Cierre) < 0 {
			return apierror.Validation("los horarios deben tener formato HH:MM")
		}
		horarios = append(horarios, model.HorarioAtencion{
			NegocioID: negocio.ID,
			Dia:       h.Dia,
			Apertura:  h.Apertura,
			Cierre:    h.Cierre,
		})
	}
	return s.repo.ReplaceHorarios(ctx, negocio.ID, horarios)
}

// ConfigurarRangos validates the whole delivery price table before replacing
// it: a single invalid band rejects the entire set. The table is persisted
// sorted by DesdeKm so cost lookups walk it in band order.
func (s *negocioService) ConfigurarRangos(ctx context.Context, propietarioID uuid.UUID, req dto.ConfigurarRangosRequest) error {
	negocio, err := s.repo.FindByPropietarioID(ctx, propietarioID)
	if err != nil {
		return apierror.NotFound("el propietario no tiene un negocio registrado")
	}

	rangos := make([]model.RangoEnvio, 0, len(req.Rangos))
	for _, r := range req.Rangos {
		rangos = append(rangos, model.RangoEnvio{
			NegocioID: negocio.ID,
			DesdeKm:   r.DesdeKm,
			HastaKm:   r.HastaKm,
			Costo:     r.Costo,
		})
	}
	if errores := ValidarRangos(rangos); len(errores) > 0 {
		return apierror.Configuration("rangos de envío inválidos: " + strings.Join(errores, "; "))
	}
	rangos = OrdenarRangos(rangos)
	for i := range rangos {
		rangos[i].Posicion = i
	}
	return s.repo.ReplaceRangos(ctx, negocio.ID, rangos)
}

func (s *negocioService) Desactivar(ctx context.Context, propietarioID uuid.UUID) error {
	negocio, err := s.repo.FindByPropietarioID(ctx, propietarioID)
	if err != nil {
		return apierror.NotFound("el propietario no tiene un negocio registrado")
	}
	return s.repo.SoftDelete(ctx, negocio.ID)
}

func (s *negocioService) negocioToResponse(n *model.Negocio, filter dto.NegocioFilter) *dto.NegocioResponse {
	horarios := make([]dto.HorarioResponse, 0, len(n.Horarios))
	for _, h := range n.Horarios {
		horarios = append(horarios, dto.HorarioResponse{Dia: h.Dia, Apertura: h.Apertura, Cierre: h.Cierre})
	}
	rangos := make([]dto.RangoEnvioResponse, 0, len(n.RangosEnvio))
	for _, r := range n.RangosEnvio {
		rangos = append(rangos, dto.RangoEnvioResponse{DesdeKm: r.DesdeKm, HastaKm: r.HastaKm, Costo: r.Costo})
	}

	resp := &dto.NegocioResponse{
		ID:                n.ID.String(),
		PropietarioID:     n.PropietarioID.String(),
		Nombre:            n.Nombre,
		Descripcion:       n.Descripcion,
		Direccion:         n.Direccion,
		Latitud:           n.Latitud,
		Longitud:          n.Longitud,
		CostoEnvioDefault: n.CostoEnvioDefault,
		AbiertoAhora:      EstaAbierto(n.Horarios, s.now()),
		Horarios:          horarios,
		RangosEnvio:       rangos,
	}

	// Distance and shipping quote when the browsing customer sent coordinates.
	if filter.Latitud != nil && filter.Longitud != nil {
		dist := DistanciaKm(n.Latitud, n.Longitud, *filter.Latitud, *filter.Longitud)
		resp.DistanciaKm = &dist
		costo, disponible := CostoEnvio(dist, n.RangosEnvio, n.CostoEnvioDefault)
		resp.EnvioDisponible = &disponible
		if disponible {
			resp.CostoEnvio = &costo
		}
	}
	return resp
}
