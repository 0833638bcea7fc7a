package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/apierror"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/dto"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/repository"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PedidoService interface {
	Crear(ctx context.Context, clienteID uuid.UUID, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	CambiarEstado(ctx context.Context, pedidoID uuid.UUID, actor *model.Usuario, req dto.CambiarEstadoRequest) (*dto.PedidoResponse, error)
	Eliminar(ctx context.Context, pedidoID uuid.UUID, actor *model.Usuario) error
	ObtenerPorID(ctx context.Context, pedidoID uuid.UUID, actor *model.Usuario) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, actor *model.Usuario, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
}

type pedidoService struct {
	repo         repository.PedidoRepository
	productoRepo repository.ProductoRepository
	negocioRepo  repository.NegocioRepository
	dispatcher   *worker.Dispatcher
}

func NewPedidoService(
	repo repository.PedidoRepository,
	productoRepo repository.ProductoRepository,
	negocioRepo repository.NegocioRepository,
	dispatcher *worker.Dispatcher,
) PedidoService {
	return &pedidoService{
		repo:         repo,
		productoRepo: productoRepo,
		negocioRepo:  negocioRepo,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Order creation is a single ACID transaction:
//   1. Resolve products, check stock and ownership (pre-flight, outside TX)
//   2. Resolve shipping cost from the business's distance bands
//   3. BEGIN TX: create pedido + items + evento CREADA, decrement stock
//   4. COMMIT
//   5. (async) enqueue notification job — best effort
//
// The in-TX stock decrement is guarded by stock >= cantidad, so a concurrent
// sale of the last units aborts the whole transaction instead of overselling.

func (s *pedidoService) Crear(ctx context.Context, clienteID uuid.UUID, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	negocioID, err := uuid.Parse(req.NegocioID)
	if err != nil {
		return nil, apierror.Validation("negocio_id inválido")
	}
	negocio, err := s.negocioRepo.FindByID(ctx, negocioID)
	if err != nil {
		return nil, apierror.NotFound("negocio no encontrado")
	}

	if req.EsEnvio && (req.DireccionEntrega == nil || strings.TrimSpace(*req.DireccionEntrega) == "") {
		return nil, apierror.Validation("se requiere una dirección de entrega para pedidos con envío")
	}

	// Resolve products and validate stock before touching the DB.
	type lineaResuelta struct {
		productoID uuid.UUID
		nombre     string
		precio     decimal.Decimal
		cantidad   int
	}
	var resueltas []lineaResuelta
	subtotal := decimal.Zero

	for _, item := range req.Items {
		if item.Cantidad <= 0 {
			return nil, apierror.Validation(fmt.Sprintf("la cantidad debe ser mayor a 0 (recibido %d)", item.Cantidad))
		}
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, apierror.Validation("producto_id inválido")
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.NotFound(fmt.Sprintf("producto %s no encontrado", item.ProductoID))
		}
		if p.NegocioID != negocio.ID {
			return nil, apierror.Validation(fmt.Sprintf("el producto %s no pertenece al negocio", p.Nombre))
		}
		if !p.Activo {
			return nil, apierror.Validation(fmt.Sprintf("el producto %s no está disponible", p.Nombre))
		}
		if p.Stock < item.Cantidad {
			return nil, apierror.InsufficientStock(fmt.Sprintf(
				"stock insuficiente para %s: disponible %d, solicitado %d",
				p.Nombre, p.Stock, item.Cantidad))
		}
		subtotal = subtotal.Add(p.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad))))
		resueltas = append(resueltas, lineaResuelta{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     p.Precio,
			cantidad:   item.Cantidad,
		})
	}

	costoEnvio := decimal.Zero
	if req.EsEnvio {
		if req.Latitud != nil && req.Longitud != nil {
			dist := DistanciaKm(negocio.Latitud, negocio.Longitud, *req.Latitud, *req.Longitud)
			costo, disponible := CostoEnvio(dist, negocio.RangosEnvio, negocio.CostoEnvioDefault)
			if !disponible {
				return nil, apierror.Validation(fmt.Sprintf("el negocio no realiza envíos a %.2f km", dist))
			}
			costoEnvio = costo
		} else {
			costoEnvio = negocio.CostoEnvioDefault
		}
	}

	pedido := model.Pedido{
		NegocioID:        negocio.ID,
		ClienteID:        clienteID,
		Estado:           model.PedidoRegistrada,
		Total:            subtotal.Add(costoEnvio),
		CostoEnvio:       costoEnvio,
		EsEnvio:          req.EsEnvio,
		DireccionEntrega: req.DireccionEntrega,
		Nota:             req.Nota,
	}
	for _, l := range resueltas {
		pedido.Items = append(pedido.Items, model.PedidoItem{
			ProductoID:     l.productoID,
			NombreProducto: l.nombre,
			Cantidad:       l.cantidad,
			PrecioUnitario: l.precio,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &pedido); err != nil {
			return err
		}
		if err := s.repo.AppendEventoTx(tx, &model.PedidoEvento{
			PedidoID: pedido.ID,
			Tipo:     model.EventoCreada,
			ActorID:  clienteID,
			Nota:     fmt.Sprintf("Pedido creado con %d producto(s)", len(pedido.Items)),
		}); err != nil {
			return err
		}
		for _, l := range resueltas {
			if err := s.productoRepo.DescontarStockTx(tx, l.productoID, l.cantidad); err != nil {
				if err == repository.ErrStockInsuficiente {
					return apierror.InsufficientStock(fmt.Sprintf(
						"stock insuficiente para %s: solicitado %d", l.nombre, l.cantidad))
				}
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notificar(ctx, "pedido_creado", &pedido)
	return pedidoToResponse(&pedido), nil
}

// ── CambiarEstado ─────────────────────────────────────────────────────────────
// Permission policy, evaluated in order:
//   1. Terminal states (ENTREGADA, CANCELADA) reject everything.
//   2. The order's customer (who is neither owner nor admin) may only cancel,
//      and only from REGISTRADA or PENDIENTE_PAGO.
//   3. Anyone who is not owner, admin or customer is rejected.
//   4. Owner and admin may move the order to any of the seven states.
// Cancellation requires a trimmed reason of at least 10 characters, validated
// before any write. Cancelling does NOT restore stock — only deletion does.

func (s *pedidoService) CambiarEstado(ctx context.Context, pedidoID uuid.UUID, actor *model.Usuario, req dto.CambiarEstadoRequest) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, pedidoID)
	if err != nil {
		return nil, apierror.NotFound("pedido no encontrado")
	}

	nuevoEstado := model.EstadoPedido(req.Estado)
	if !nuevoEstado.EsValido() {
		return nil, apierror.Validation(fmt.Sprintf("estado desconocido: %s", req.Estado))
	}

	if pedido.Estado.EsTerminal() {
		return nil, apierror.InvalidState("el pedido está en un estado final y no puede modificarse")
	}

	esAdmin := actor.Rol == model.RolAdministrador
	esPropietario := false
	if negocio, err := s.negocioRepo.FindByID(ctx, pedido.NegocioID); err == nil {
		esPropietario = negocio.PropietarioID == actor.ID
	}
	esCliente := pedido.ClienteID == actor.ID

	switch {
	case esPropietario || esAdmin:
		// Any target state is allowed.
	case esCliente:
		if nuevoEstado != model.PedidoCancelada {
			return nil, apierror.Forbidden("el cliente solo puede cancelar su pedido")
		}
		if pedido.Estado != model.PedidoRegistrada && pedido.Estado != model.PedidoPendientePago {
			return nil, apierror.InvalidState(fmt.Sprintf(
				"el pedido ya no puede cancelarse en estado %s", pedido.Estado))
		}
	default:
		return nil, apierror.Forbidden("no tiene permisos sobre este pedido")
	}

	var motivo *string
	if nuevoEstado == model.PedidoCancelada {
		if req.Motivo == nil {
			return nil, apierror.Validation("se requiere un motivo de cancelación")
		}
		m := strings.TrimSpace(*req.Motivo)
		if len([]rune(m)) < 10 {
			return nil, apierror.Validation("el motivo de cancelación debe tener al menos 10 caracteres")
		}
		motivo = &m
	}

	anterior := pedido.Estado
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateEstadoTx(tx, pedido.ID, nuevoEstado, motivo); err != nil {
			return err
		}
		evento := &model.PedidoEvento{
			PedidoID: pedido.ID,
			Tipo:     model.EventoCambioEstado,
			ActorID:  actor.ID,
			Nota:     fmt.Sprintf("Estado %s → %s", anterior, nuevoEstado),
		}
		if nuevoEstado == model.PedidoCancelada {
			evento.Tipo = model.EventoCancelacion
			evento.Nota = fmt.Sprintf("Cancelado desde %s: %s", anterior, *motivo)
		}
		return s.repo.AppendEventoTx(tx, evento)
	})
	if txErr != nil {
		return nil, txErr
	}

	pedido.Estado = nuevoEstado
	pedido.MotivoCancelacion = motivo
	s.notificar(ctx, "pedido_estado", pedido)
	return pedidoToResponse(pedido), nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────
// Deletion is only possible before payment (REGISTRADA / PENDIENTE_PAGO) and
// only by an administrator or the order's customer. It restores the stock of
// every line and removes eventos, items and the pedido in one transaction.

func (s *pedidoService) Eliminar(ctx context.Context, pedidoID uuid.UUID, actor *model.Usuario) error {
	pedido, err := s.repo.FindByID(ctx, pedidoID)
	if err != nil {
		return apierror.NotFound("pedido no encontrado")
	}

	if pedido.Estado != model.PedidoRegistrada && pedido.Estado != model.PedidoPendientePago {
		return apierror.InvalidState(fmt.Sprintf(
			"un pedido en estado %s no puede eliminarse", pedido.Estado))
	}
	if actor.Rol != model.RolAdministrador && pedido.ClienteID != actor.ID {
		return apierror.Forbidden("no tiene permisos para eliminar este pedido")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range pedido.Items {
			if err := s.productoRepo.RestaurarStockTx(tx, item.ProductoID, item.Cantidad); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, pedido.ID)
	})
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *pedidoService) ObtenerPorID(ctx context.Context, pedidoID uuid.UUID, actor *model.Usuario) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, pedidoID)
	if err != nil {
		return nil, apierror.NotFound("pedido no encontrado")
	}
	if !s.puedeVer(ctx, pedido, actor) {
		return nil, apierror.Forbidden("no tiene permisos sobre este pedido")
	}
	return pedidoToResponse(pedido), nil
}

// Listar scopes results by role: customers see their own orders, owners their
// business's, administrators everything.
func (s *pedidoService) Listar(ctx context.Context, actor *model.Usuario, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	switch actor.Rol {
	case model.RolAdministrador:
		// unrestricted
	case model.RolPropietario:
		negocio, err := s.negocioRepo.FindByPropietarioID(ctx, actor.ID)
		if err != nil {
			return nil, apierror.NotFound("el propietario no tiene un negocio registrado")
		}
		filter.NegocioID = negocio.ID.String()
	default:
		filter.ClienteID = actor.ID.String()
	}

	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		items = append(items, *pedidoToResponse(&pedidos[i]))
	}
	return &dto.PedidoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *pedidoService) puedeVer(ctx context.Context, pedido *model.Pedido, actor *model.Usuario) bool {
	if actor.Rol == model.RolAdministrador || pedido.ClienteID == actor.ID {
		return true
	}
	if negocio, err := s.negocioRepo.FindByID(ctx, pedido.NegocioID); err == nil {
		return negocio.PropietarioID == actor.ID
	}
	return false
}

// notificar enqueues a notification job. Best effort: a queue failure never
// fails the request.
func (s *pedidoService) notificar(ctx context.Context, tipo string, pedido *model.Pedido) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueNotificacion(ctx, map[string]interface{}{
		"tipo":      tipo,
		"pedido_id": pedido.ID.String(),
		"estado":    string(pedido.Estado),
	})
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	items := make([]dto.ItemPedidoResponse, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, dto.ItemPedidoResponse{
			ProductoID:     item.ProductoID.String(),
			Producto:       item.NombreProducto,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad))),
		})
	}
	eventos := make([]dto.EventoPedidoResponse, 0, len(p.Eventos))
	for _, e := range p.Eventos {
		eventos = append(eventos, dto.EventoPedidoResponse{
			Tipo:      string(e.Tipo),
			ActorID:   e.ActorID.String(),
			Nota:      e.Nota,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.PedidoResponse{
		ID:                p.ID.String(),
		NegocioID:         p.NegocioID.String(),
		ClienteID:         p.ClienteID.String(),
		Estado:            string(p.Estado),
		Total:             p.Total,
		CostoEnvio:        p.CostoEnvio,
		EsEnvio:           p.EsEnvio,
		DireccionEntrega:  p.DireccionEntrega,
		Nota:              p.Nota,
		MotivoCancelacion: p.MotivoCancelacion,
		Items:             items,
		Eventos:           eventos,
		CreatedAt:         p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
