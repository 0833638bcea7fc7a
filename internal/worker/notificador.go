package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/infra"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notificador resolves notification payloads into outbound emails.
type Notificador struct {
	mailer      *infra.Mailer
	usuarioRepo repository.UsuarioRepository
	pedidoRepo  repository.PedidoRepository
	negocioRepo repository.NegocioRepository
	pagoRepo    repository.PagoRepository
}

func NewNotificador(
	mailer *infra.Mailer,
	usuarioRepo repository.UsuarioRepository,
	pedidoRepo repository.PedidoRepository,
	negocioRepo repository.NegocioRepository,
	pagoRepo repository.PagoRepository,
) *Notificador {
	return &Notificador{
		mailer:      mailer,
		usuarioRepo: usuarioRepo,
		pedidoRepo:  pedidoRepo,
		negocioRepo: negocioRepo,
		pagoRepo:    pagoRepo,
	}
}

type notificacionPayload struct {
	Tipo     string `json:"tipo"`
	PedidoID string `json:"pedido_id"`
	PagoID   string `json:"pago_id"`
	Estado   string `json:"estado"`
}

func (n *Notificador) Handle(ctx context.Context, raw json.RawMessage) error {
	var p notificacionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	switch p.Tipo {
	case "pedido_creado", "pedido_estado":
		return n.notificarPedido(ctx, p)
	case "pago_revisado":
		return n.notificarPago(ctx, p)
	default:
		log.Warn().Str("tipo", p.Tipo).Msg("unknown notification type")
		return nil
	}
}

func (n *Notificador) notificarPedido(ctx context.Context, p notificacionPayload) error {
	id, err := uuid.Parse(p.PedidoID)
	if err != nil {
		return err
	}
	pedido, err := n.pedidoRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	asunto := fmt.Sprintf("Pedido %s — %s", shortID(pedido.ID), pedido.Estado)
	cuerpo := fmt.Sprintf("El pedido %s se encuentra en estado %s.", shortID(pedido.ID), pedido.Estado)

	// Customer.
	if cliente, err := n.usuarioRepo.FindByID(ctx, pedido.ClienteID); err == nil {
		n.enviar(cliente.Email, asunto, cuerpo)
	}
	// Business owner — only on creation, owners drive the rest of the flow.
	if p.Tipo == "pedido_creado" {
		if negocio, err := n.negocioRepo.FindByID(ctx, pedido.NegocioID); err == nil {
			if prop, err := n.usuarioRepo.FindByID(ctx, negocio.PropietarioID); err == nil {
				n.enviar(prop.Email, asunto, "Recibiste un nuevo pedido.")
			}
		}
	}
	return nil
}

func (n *Notificador) notificarPago(ctx context.Context, p notificacionPayload) error {
	id, err := uuid.Parse(p.PagoID)
	if err != nil {
		return err
	}
	pago, err := n.pagoRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	usuario, err := n.usuarioRepo.FindByID(ctx, pago.UsuarioID)
	if err != nil {
		return err
	}
	n.enviar(usuario.Email,
		fmt.Sprintf("Pago de suscripción %s", pago.Estado),
		fmt.Sprintf("Tu pago del período %s fue %s.", pago.PeriodoMes, pago.Estado))
	return nil
}

// enviar is best-effort: a delivery error is logged and swallowed.
func (n *Notificador) enviar(to, asunto, cuerpo string) {
	if n.mailer == nil || to == "" {
		return
	}
	if err := n.mailer.Send(to, asunto, cuerpo); err != nil {
		log.Error().Str("to", to).Err(err).Msg("email delivery failed")
	}
}

func shortID(id uuid.UUID) string {
	s := id.String()
	return s[:8]
}
