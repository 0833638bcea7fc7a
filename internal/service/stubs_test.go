package service

import (
	"context"
	"time"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/dto"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repository implementations. Services run their transaction
// closures with a nil tx, so the Tx methods here mutate the maps directly.

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) AjustarStock(_ context.Context, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if delta < 0 && p.Stock < -delta {
		return repository.ErrStockInsuficiente
	}
	p.Stock += delta
	return nil
}

func (r *stubProductoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	p, ok := r.productos[id]
	if !ok || p.Stock < cantidad {
		return repository.ErrStockInsuficiente
	}
	p.Stock -= cantidad
	return nil
}

func (r *stubProductoRepo) RestaurarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	if p, ok := r.productos[id]; ok {
		p.Stock += cantidad
	}
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPedidoRepo) List(_ context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if filter.NegocioID != "" && p.NegocioID.String() != filter.NegocioID {
			continue
		}
		if filter.ClienteID != "" && p.ClienteID.String() != filter.ClienteID {
			continue
		}
		if filter.Estado != "" && filter.Estado != "all" && string(p.Estado) != filter.Estado {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) CreateTx(_ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PedidoID = p.ID
	}
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado model.EstadoPedido, motivo *string) error {
	p, ok := r.pedidos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Estado = estado
	if motivo != nil {
		p.MotivoCancelacion = motivo
	}
	return nil
}

func (r *stubPedidoRepo) AppendEventoTx(_ *gorm.DB, e *model.PedidoEvento) error {
	p, ok := r.pedidos[e.PedidoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	p.Eventos = append(p.Eventos, *e)
	return nil
}

func (r *stubPedidoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.pedidos, id)
	return nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

type stubNegocioRepo struct {
	negocios map[uuid.UUID]*model.Negocio
}

func newStubNegocioRepo() *stubNegocioRepo {
	return &stubNegocioRepo{negocios: make(map[uuid.UUID]*model.Negocio)}
}

func (r *stubNegocioRepo) Create(_ context.Context, n *model.Negocio) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.negocios[n.ID] = n
	return nil
}

func (r *stubNegocioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Negocio, error) {
	n, ok := r.negocios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (r *stubNegocioRepo) FindByPropietarioID(_ context.Context, propietarioID uuid.UUID) (*model.Negocio, error) {
	for _, n := range r.negocios {
		if n.PropietarioID == propietarioID {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubNegocioRepo) List(_ context.Context, _ dto.NegocioFilter) ([]model.Negocio, int64, error) {
	var out []model.Negocio
	for _, n := range r.negocios {
		if n.Activo {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubNegocioRepo) Update(_ context.Context, n *model.Negocio) error {
	r.negocios[n.ID] = n
	return nil
}

func (r *stubNegocioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if n, ok := r.negocios[id]; ok {
		n.Activo = false
	}
	return nil
}

func (r *stubNegocioRepo) ReplaceHorarios(_ context.Context, negocioID uuid.UUID, horarios []model.HorarioAtencion) error {
	if n, ok := r.negocios[negocioID]; ok {
		n.Horarios = horarios
	}
	return nil
}

func (r *stubNegocioRepo) ReplaceRangos(_ context.Context, negocioID uuid.UUID, rangos []model.RangoEnvio) error {
	if n, ok := r.negocios[negocioID]; ok {
		n.RangosEnvio = rangos
	}
	return nil
}

var _ repository.NegocioRepository = (*stubNegocioRepo)(nil)

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
	// updates counts UpdateSuscripcion calls (cache refresh assertions).
	updates int
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo || incluirInactivos {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) UpdateSuscripcion(_ context.Context, id uuid.UUID, estado model.EstadoSuscripcion, pagadaHasta *time.Time) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.EstadoSuscripcion = estado
	u.SuscripcionPagadaHasta = pagadaHasta
	r.updates++
	return nil
}

func (r *stubUsuarioRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = false
	}
	return nil
}

func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = true
	}
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

type stubPagoRepo struct {
	pagos map[uuid.UUID]*model.Pago
}

func newStubPagoRepo() *stubPagoRepo {
	return &stubPagoRepo{pagos: make(map[uuid.UUID]*model.Pago)}
}

func (r *stubPagoRepo) Create(_ context.Context, p *model.Pago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos[p.ID] = p
	return nil
}

func (r *stubPagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pago, error) {
	p, ok := r.pagos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPagoRepo) FindUltimoAprobado(_ context.Context, usuarioID uuid.UUID) (*model.Pago, error) {
	var ultimo *model.Pago
	for _, p := range r.pagos {
		if p.UsuarioID != usuarioID || p.Estado != model.PagoAprobado {
			continue
		}
		if ultimo == nil || (p.RevisadoAt != nil && ultimo.RevisadoAt != nil && p.RevisadoAt.After(*ultimo.RevisadoAt)) {
			ultimo = p
		}
	}
	if ultimo == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return ultimo, nil
}

func (r *stubPagoRepo) FindPorPeriodo(_ context.Context, usuarioID uuid.UUID, periodoMes string) (*model.Pago, error) {
	for _, p := range r.pagos {
		if p.UsuarioID == usuarioID && p.PeriodoMes == periodoMes && p.Estado != model.PagoRechazado {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPagoRepo) ListPorUsuario(_ context.Context, usuarioID uuid.UUID) ([]model.Pago, error) {
	var out []model.Pago
	for _, p := range r.pagos {
		if p.UsuarioID == usuarioID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPagoRepo) ListPendientes(_ context.Context) ([]model.Pago, error) {
	var out []model.Pago
	for _, p := range r.pagos {
		if p.Estado == model.PagoPendiente {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPagoRepo) Update(_ context.Context, p *model.Pago) error {
	r.pagos[p.ID] = p
	return nil
}

var _ repository.PagoRepository = (*stubPagoRepo)(nil)

// ── Seed helpers ─────────────────────────────────────────────────────────────

func seedProducto(r *stubProductoRepo, negocioID uuid.UUID, nombre string, precio float64, stock int) *model.Producto {
	p := &model.Producto{
		ID:        uuid.New(),
		NegocioID: negocioID,
		Nombre:    nombre,
		Precio:    decimal.NewFromFloat(precio),
		Stock:     stock,
		Activo:    true,
	}
	r.productos[p.ID] = p
	return p
}

func seedNegocio(r *stubNegocioRepo, propietarioID uuid.UUID, lat, lng float64) *model.Negocio {
	n := &model.Negocio{
		ID:            uuid.New(),
		PropietarioID: propietarioID,
		Nombre:        "Almacén Don Julio",
		Direccion:     "Av. Siempreviva 742",
		Latitud:       lat,
		Longitud:      lng,
		Activo:        true,
	}
	r.negocios[n.ID] = n
	return n
}
