package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/apierror"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/dto"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/repository"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiasGracia is the overdue grace period: up to this many days past due the
// owner keeps access (OVERDUE); beyond it the account is SUSPENDED.
const DiasGracia = 7

const msPorDia = 24 * 60 * 60 * 1000

// EstadoComputado is the result of deriving a subscription status at a point
// in time. The persisted column is only a cache of Estado.
type EstadoComputado struct {
	Estado             model.EstadoSuscripcion
	EnTrial            bool
	DiasRestantesTrial int
	AccesoPropietario  bool
	ProximoVencimiento *time.Time
	DiasVencida        int
}

// diasRedondeados is calendar-day ceiling division over the millisecond
// difference. A fraction of a day counts as a full day.
func diasRedondeados(d time.Duration) int {
	ms := d.Milliseconds()
	if ms <= 0 {
		return 0
	}
	dias := ms / msPorDia
	if ms%msPorDia != 0 {
		dias++
	}
	return int(dias)
}

// ComputarEstadoSuscripcion derives the subscription status of an owner.
//
//  1. The trial runs for one calendar month from the moment the user became
//     an owner (exclusive upper bound: now == trialEnd is no longer trial).
//  2. After the trial, an approved payment with a paid-until date in the
//     future means ACTIVE.
//  3. Past the paid-until date (or with no approved payment, measuring from
//     trial end) the account is OVERDUE for up to DiasGracia days — access is
//     still granted — and SUSPENDED afterwards.
//
// Month arithmetic uses time.Time.AddDate(0, 1, 0); end-of-month dates
// normalize forward (Jan 31 + 1 month lands in early March), which is pinned
// by an explicit test.
func ComputarEstadoSuscripcion(u *model.Usuario, ultimoPagoAprobado *model.Pago, now time.Time) EstadoComputado {
	finTrial := u.InicioSuscripcion().AddDate(0, 1, 0)

	if now.Before(finTrial) {
		venc := finTrial
		return EstadoComputado{
			Estado:             model.SuscripcionTrial,
			EnTrial:            true,
			DiasRestantesTrial: diasRedondeados(finTrial.Sub(now)),
			AccesoPropietario:  true,
			ProximoVencimiento: &venc,
		}
	}

	conPago := ultimoPagoAprobado != nil && u.SuscripcionPagadaHasta != nil
	if conPago && !now.After(*u.SuscripcionPagadaHasta) {
		venc := u.SuscripcionPagadaHasta.AddDate(0, 1, 0)
		return EstadoComputado{
			Estado:             model.SuscripcionActiva,
			AccesoPropietario:  true,
			ProximoVencimiento: &venc,
		}
	}

	referencia := finTrial
	if conPago {
		referencia = *u.SuscripcionPagadaHasta
	}
	diasVencida := diasRedondeados(now.Sub(referencia))

	venc := referencia
	if conPago {
		venc = referencia.AddDate(0, 1, 0)
	}
	estado := model.SuscripcionVencida
	acceso := true
	if diasVencida > DiasGracia {
		estado = model.SuscripcionSuspendida
		acceso = false
	}
	return EstadoComputado{
		Estado:             estado,
		AccesoPropietario:  acceso,
		ProximoVencimiento: &venc,
		DiasVencida:        diasVencida,
	}
}

// ─────────────────────────────────────────────────────────────────────────────

type SuscripcionService interface {
	ObtenerEstado(ctx context.Context, usuarioID uuid.UUID) (*dto.EstadoSuscripcionResponse, error)
	// TieneAcceso reports whether the owner may use owner features right now.
	TieneAcceso(ctx context.Context, usuarioID uuid.UUID) (bool, error)
	RegistrarPago(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error)
	RevisarPago(ctx context.Context, pagoID uuid.UUID, revisorID uuid.UUID, req dto.RevisarPagoRequest) (*dto.PagoResponse, error)
	ListarPagos(ctx context.Context, usuarioID uuid.UUID) ([]dto.PagoResponse, error)
	ListarPendientes(ctx context.Context) ([]dto.PagoResponse, error)
}

type suscripcionService struct {
	usuarioRepo repository.UsuarioRepository
	pagoRepo    repository.PagoRepository
	dispatcher  *worker.Dispatcher
	now         func() time.Time
}

func NewSuscripcionService(
	usuarioRepo repository.UsuarioRepository,
	pagoRepo repository.PagoRepository,
	dispatcher *worker.Dispatcher,
) SuscripcionService {
	return &suscripcionService{
		usuarioRepo: usuarioRepo,
		pagoRepo:    pagoRepo,
		dispatcher:  dispatcher,
		now:         time.Now,
	}
}

// ObtenerEstado recomputes the status and lazily refreshes the cached column
// when it changed. No background job does this proactively.
func (s *suscripcionService) ObtenerEstado(ctx context.Context, usuarioID uuid.UUID) (*dto.EstadoSuscripcionResponse, error) {
	usuario, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, apierror.NotFound("usuario no encontrado")
	}

	computado := s.computar(ctx, usuario)
	if computado.Estado != usuario.EstadoSuscripcion {
		if err := s.usuarioRepo.UpdateSuscripcion(ctx, usuario.ID, computado.Estado, usuario.SuscripcionPagadaHasta); err != nil {
			return nil, err
		}
	}

	resp := &dto.EstadoSuscripcionResponse{
		Estado:             string(computado.Estado),
		EnTrial:            computado.EnTrial,
		DiasRestantesTrial: computado.DiasRestantesTrial,
		AccesoPropietario:  computado.AccesoPropietario,
		DiasVencida:        computado.DiasVencida,
	}
	if computado.ProximoVencimiento != nil {
		v := computado.ProximoVencimiento.Format("2006-01-02")
		resp.ProximoVencimiento = &v
	}
	if usuario.SuscripcionPagadaHasta != nil {
		h := usuario.SuscripcionPagadaHasta.Format("2006-01-02")
		resp.PagadaHasta = &h
	}
	return resp, nil
}

func (s *suscripcionService) TieneAcceso(ctx context.Context, usuarioID uuid.UUID) (bool, error) {
	usuario, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if err != nil {
		return false, apierror.NotFound("usuario no encontrado")
	}
	return s.computar(ctx, usuario).AccesoPropietario, nil
}

func (s *suscripcionService) computar(ctx context.Context, usuario *model.Usuario) EstadoComputado {
	var ultimoPago *model.Pago
	if p, err := s.pagoRepo.FindUltimoAprobado(ctx, usuario.ID); err == nil {
		ultimoPago = p
	}
	return ComputarEstadoSuscripcion(usuario, ultimoPago, s.now())
}

// RegistrarPago records an owner's declared payment for a billing month.
// It enters in "pendiente" until an administrator reviews it.
func (s *suscripcionService) RegistrarPago(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	usuario, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, apierror.NotFound("usuario no encontrado")
	}
	if usuario.Rol != model.RolPropietario && usuario.Rol != model.RolAdministrador {
		return nil, apierror.Forbidden("solo un propietario puede registrar pagos de suscripción")
	}
	periodo := strings.TrimSpace(req.PeriodoMes)
	if _, err := time.Parse("2006-01", periodo); err != nil {
		return nil, apierror.Validation("periodo_mes debe tener formato YYYY-MM")
	}
	if existente, err := s.pagoRepo.FindPorPeriodo(ctx, usuarioID, periodo); err == nil && existente != nil {
		return nil, apierror.Validation(fmt.Sprintf("ya existe un pago para el período %s", periodo))
	}

	pago := &model.Pago{
		UsuarioID:  usuarioID,
		Monto:      req.Monto,
		PeriodoMes: periodo,
		Estado:     model.PagoPendiente,
		Notas:      req.Notas,
	}
	if err := s.pagoRepo.Create(ctx, pago); err != nil {
		return nil, err
	}
	return pagoToResponse(pago), nil
}

// RevisarPago approves or rejects a pending payment. Approval stamps the
// review time and extends the paid-until date by one calendar month from
// whichever is later: now or the previous paid-until date.
func (s *suscripcionService) RevisarPago(ctx context.Context, pagoID uuid.UUID, revisorID uuid.UUID, req dto.RevisarPagoRequest) (*dto.PagoResponse, error) {
	pago, err := s.pagoRepo.FindByID(ctx, pagoID)
	if err != nil {
		return nil, apierror.NotFound("pago no encontrado")
	}
	if pago.Estado != model.PagoPendiente {
		return nil, apierror.InvalidState("el pago ya fue revisado")
	}

	ahora := s.now()
	pago.RevisadoAt = &ahora
	pago.RevisorID = &revisorID
	if req.Notas != nil {
		pago.Notas = req.Notas
	}

	if !req.Aprobar {
		pago.Estado = model.PagoRechazado
		if err := s.pagoRepo.Update(ctx, pago); err != nil {
			return nil, err
		}
		s.notificarPago(ctx, pago)
		return pagoToResponse(pago), nil
	}

	pago.Estado = model.PagoAprobado
	if err := s.pagoRepo.Update(ctx, pago); err != nil {
		return nil, err
	}

	usuario, err := s.usuarioRepo.FindByID(ctx, pago.UsuarioID)
	if err != nil {
		return nil, apierror.NotFound("usuario del pago no encontrado")
	}
	base := ahora
	if usuario.SuscripcionPagadaHasta != nil && usuario.SuscripcionPagadaHasta.After(ahora) {
		base = *usuario.SuscripcionPagadaHasta
	}
	pagadaHasta := base.AddDate(0, 1, 0)
	if err := s.usuarioRepo.UpdateSuscripcion(ctx, usuario.ID, model.SuscripcionActiva, &pagadaHasta); err != nil {
		return nil, err
	}

	s.notificarPago(ctx, pago)
	return pagoToResponse(pago), nil
}

func (s *suscripcionService) ListarPagos(ctx context.Context, usuarioID uuid.UUID) ([]dto.PagoResponse, error) {
	pagos, err := s.pagoRepo.ListPorUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	return pagosToResponse(pagos), nil
}

func (s *suscripcionService) ListarPendientes(ctx context.Context) ([]dto.PagoResponse, error) {
	pagos, err := s.pagoRepo.ListPendientes(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return pagosToResponse(pagos), nil
}

func (s *suscripcionService) notificarPago(ctx context.Context, pago *model.Pago) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueNotificacion(ctx, map[string]interface{}{
		"tipo":    "pago_revisado",
		"pago_id": pago.ID.String(),
		"estado":  string(pago.Estado),
	})
}

func pagosToResponse(pagos []model.Pago) []dto.PagoResponse {
	out := make([]dto.PagoResponse, 0, len(pagos))
	for i := range pagos {
		out = append(out, *pagoToResponse(&pagos[i]))
	}
	return out
}

func pagoToResponse(p *model.Pago) *dto.PagoResponse {
	resp := &dto.PagoResponse{
		ID:         p.ID.String(),
		UsuarioID:  p.UsuarioID.String(),
		Monto:      p.Monto,
		PeriodoMes: p.PeriodoMes,
		Estado:     string(p.Estado),
		Notas:      p.Notas,
		CreatedAt:  p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.RevisadoAt != nil {
		r := p.RevisadoAt.Format("2006-01-02T15:04:05Z")
		resp.RevisadoAt = &r
	}
	if p.RevisorID != nil {
		rid := p.RevisorID.String()
		resp.RevisorID = &rid
	}
	return resp
}
