package service

import (
	"context"
	"testing"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/apierror"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/dto"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pedidoFixture struct {
	svc          PedidoService
	pedidoRepo   *stubPedidoRepo
	productoRepo *stubProductoRepo
	negocioRepo  *stubNegocioRepo

	negocio     *model.Negocio
	producto    *model.Producto
	cliente     *model.Usuario
	propietario *model.Usuario
	admin       *model.Usuario
}

func buildPedidoFixture() *pedidoFixture {
	pedidoRepo := newStubPedidoRepo()
	productoRepo := newStubProductoRepo()
	negocioRepo := newStubNegocioRepo()

	propietario := &model.Usuario{ID: uuid.New(), Rol: model.RolPropietario}
	cliente := &model.Usuario{ID: uuid.New(), Rol: model.RolCliente}
	admin := &model.Usuario{ID: uuid.New(), Rol: model.RolAdministrador}

	negocio := seedNegocio(negocioRepo, propietario.ID, -34.60, -58.38)
	producto := seedProducto(productoRepo, negocio.ID, "Pan casero", 100, 10)

	return &pedidoFixture{
		svc:          NewPedidoService(pedidoRepo, productoRepo, negocioRepo, nil),
		pedidoRepo:   pedidoRepo,
		productoRepo: productoRepo,
		negocioRepo:  negocioRepo,
		negocio:      negocio,
		producto:     producto,
		cliente:      cliente,
		propietario:  propietario,
		admin:        admin,
	}
}

func (f *pedidoFixture) crearPedido(t *testing.T, cantidad int) *dto.PedidoResponse {
	t.Helper()
	resp, err := f.svc.Crear(context.Background(), f.cliente.ID, dto.CrearPedidoRequest{
		NegocioID: f.negocio.ID.String(),
		Items:     []dto.ItemPedidoRequest{{ProductoID: f.producto.ID.String(), Cantidad: cantidad}},
	})
	require.NoError(t, err)
	return resp
}

// ── Crear ────────────────────────────────────────────────────────────────────

func TestCrearPedido_DescuentaStockYRegistraEvento(t *testing.T) {
	f := buildPedidoFixture()

	resp := f.crearPedido(t, 3)

	assert.Equal(t, string(model.PedidoRegistrada), resp.Estado)
	assert.Equal(t, "300", resp.Total.String())
	assert.Equal(t, 7, f.producto.Stock)
	require.Len(t, resp.Eventos, 1)
	assert.Equal(t, string(model.EventoCreada), resp.Eventos[0].Tipo)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Pan casero", resp.Items[0].Producto)
}

func TestCrearPedido_StockInsuficiente(t *testing.T) {
	f := buildPedidoFixture()

	_, err := f.svc.Crear(context.Background(), f.cliente.ID, dto.CrearPedidoRequest{
		NegocioID: f.negocio.ID.String(),
		Items:     []dto.ItemPedidoRequest{{ProductoID: f.producto.ID.String(), Cantidad: 11}},
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
	assert.ErrorContains(t, err, "disponible 10, solicitado 11")
	// A rejected order must not touch stock.
	assert.Equal(t, 10, f.producto.Stock)
	assert.Empty(t, f.pedidoRepo.pedidos)
}

func TestCrearPedido_CantidadNoPositiva(t *testing.T) {
	for _, cantidad := range []int{0, -3} {
		f := buildPedidoFixture()

		_, err := f.svc.Crear(context.Background(), f.cliente.ID, dto.CrearPedidoRequest{
			NegocioID: f.negocio.ID.String(),
			Items:     []dto.ItemPedidoRequest{{ProductoID: f.producto.ID.String(), Cantidad: cantidad}},
		})

		require.Error(t, err)
		assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
		assert.ErrorContains(t, err, "mayor a 0")
		// A rejected order must not touch stock.
		assert.Equal(t, 10, f.producto.Stock)
		assert.Empty(t, f.pedidoRepo.pedidos)
	}
}

func TestCrearPedido_ProductoDeOtroNegocio(t *testing.T) {
	f := buildPedidoFixture()
	otro := seedNegocio(f.negocioRepo, uuid.New(), -34.61, -58.39)
	ajeno := seedProducto(f.productoRepo, otro.ID, "Leche", 50, 5)

	_, err := f.svc.Crear(context.Background(), f.cliente.ID, dto.CrearPedidoRequest{
		NegocioID: f.negocio.ID.String(),
		Items:     []dto.ItemPedidoRequest{{ProductoID: ajeno.ID.String(), Cantidad: 1}},
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCrearPedido_EnvioSinDireccion(t *testing.T) {
	f := buildPedidoFixture()

	_, err := f.svc.Crear(context.Background(), f.cliente.ID, dto.CrearPedidoRequest{
		NegocioID: f.negocio.ID.String(),
		Items:     []dto.ItemPedidoRequest{{ProductoID: f.producto.ID.String(), Cantidad: 1}},
		EsEnvio:   true,
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCrearPedido_CostoEnvioPorRango(t *testing.T) {
	f := buildPedidoFixture()
	cinco := 5.0
	f.negocio.RangosEnvio = []model.RangoEnvio{
		{DesdeKm: 0, HastaKm: &cinco, Costo: decimal.NewFromInt(100)},
	}
	dir := "Calle Falsa 123"
	lat, lng := f.negocio.Latitud, f.negocio.Longitud // distancia 0 km

	resp, err := f.svc.Crear(context.Background(), f.cliente.ID, dto.CrearPedidoRequest{
		NegocioID:        f.negocio.ID.String(),
		Items:            []dto.ItemPedidoRequest{{ProductoID: f.producto.ID.String(), Cantidad: 2}},
		EsEnvio:          true,
		DireccionEntrega: &dir,
		Latitud:          &lat,
		Longitud:         &lng,
	})

	require.NoError(t, err)
	assert.Equal(t, "100", resp.CostoEnvio.String())
	assert.Equal(t, "300", resp.Total.String()) // 2 × 100 + envío 100
}

func TestCrearPedido_FueraDeCobertura(t *testing.T) {
	f := buildPedidoFixture()
	cinco := 5.0
	f.negocio.RangosEnvio = []model.RangoEnvio{
		{DesdeKm: 0, HastaKm: &cinco, Costo: decimal.NewFromInt(100)},
	}
	dir := "Calle Falsa 123"
	lat, lng := f.negocio.Latitud+0.1, f.negocio.Longitud // ~11 km

	_, err := f.svc.Crear(context.Background(), f.cliente.ID, dto.CrearPedidoRequest{
		NegocioID:        f.negocio.ID.String(),
		Items:            []dto.ItemPedidoRequest{{ProductoID: f.producto.ID.String(), Cantidad: 1}},
		EsEnvio:          true,
		DireccionEntrega: &dir,
		Latitud:          &lat,
		Longitud:         &lng,
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.ErrorContains(t, err, "no realiza envíos")
}

// ── CambiarEstado ────────────────────────────────────────────────────────────

func TestCambiarEstado_TerminalRechazaATodos(t *testing.T) {
	f := buildPedidoFixture()
	resp := f.crearPedido(t, 1)
	pedidoID := uuid.MustParse(resp.ID)
	f.pedidoRepo.pedidos[pedidoID].Estado = model.PedidoEntregada

	for _, actor := range []*model.Usuario{f.admin, f.propietario, f.cliente} {
		_, err := f.svc.CambiarEstado(context.Background(), pedidoID, actor, dto.CambiarEstadoRequest{
			Estado: string(model.PedidoPreparando),
		})
		require.Error(t, err)
		assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err))
	}
}

func TestCambiarEstado_ClienteCancelaDesdeRegistrada(t *testing.T) {
	f := buildPedidoFixture()
	resp := f.crearPedido(t, 3)
	pedidoID := uuid.MustParse(resp.ID)
	motivo := "Me equivoqué de producto"

	out, err := f.svc.CambiarEstado(context.Background(), pedidoID, f.cliente, dto.CambiarEstadoRequest{
		Estado: string(model.PedidoCancelada),
		Motivo: &motivo,
	})

	require.NoError(t, err)
	assert.Equal(t, string(model.PedidoCancelada), out.Estado)
	require.NotNil(t, out.MotivoCancelacion)
	assert.Equal(t, motivo, *out.MotivoCancelacion)

	eventos := f.pedidoRepo.pedidos[pedidoID].Eventos
	require.Len(t, eventos, 2)
	assert.Equal(t, model.EventoCancelacion, eventos[1].Tipo)
	assert.Contains(t, eventos[1].Nota, "Cancelado desde REGISTRADA")

	// Cancelling does not restore stock; only deletion does.
	assert.Equal(t, 7, f.producto.Stock)
}

func TestCambiarEstado_ClienteNoPuedeAvanzar(t *testing.T) {
	f := buildPedidoFixture()
	resp := f.crearPedido(t, 1)

	_, err := f.svc.CambiarEstado(context.Background(), uuid.MustParse(resp.ID), f.cliente, dto.CambiarEstadoRequest{
		Estado: string(model.PedidoPagada),
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindForbidden, apierror.KindOf(err))
}

func TestCambiarEstado_ClienteCancelaTarde(t *testing.T) {
	f := buildPedidoFixture()
	resp := f.crearPedido(t, 1)
	pedidoID := uuid.MustParse(resp.ID)
	f.pedidoRepo.pedidos[pedidoID].Estado = model.PedidoPagada
	motivo := "Ya no quiero este pedido"

	_, err := f.svc.CambiarEstado(context.Background(), pedidoID, f.cliente, dto.CambiarEstadoRequest{
		Estado: string(model.PedidoCancelada),
		Motivo: &motivo,
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err))
}

func TestCambiarEstado_ExtranoRechazado(t *testing.T) {
	f := buildPedidoFixture()
	resp := f.crearPedido(t, 1)
	extrano := &model.Usuario{ID: uuid.New(), Rol: model.RolCliente}

	_, err := f.svc.CambiarEstado(context.Background(), uuid.MustParse(resp.ID), extrano, dto.CambiarEstadoRequest{
		Estado: string(model.PedidoPendientePago),
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindForbidden, apierror.KindOf(err))
}

func TestCambiarEstado_MotivoCorto(t *testing.T) {
	f := buildPedidoFixture()
	resp := f.crearPedido(t, 1)
	pedidoID := uuid.MustParse(resp.ID)
	motivo := "  corto   " // 5 caracteres después del trim

	_, err := f.svc.CambiarEstado(context.Background(), pedidoID, f.cliente, dto.CambiarEstadoRequest{
		Estado: string(model.PedidoCancelada),
		Motivo: &motivo,
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	// Validation happens before any write.
	assert.Equal(t, model.PedidoRegistrada, f.pedidoRepo.pedidos[pedidoID].Estado)
	assert.Len(t, f.pedidoRepo.pedidos[pedidoID].Eventos, 1)
}

func TestCambiarEstado_PropietarioSaltaEstados(t *testing.T) {
	f := buildPedidoFixture()
	resp := f.crearPedido(t, 1)
	pedidoID := uuid.MustParse(resp.ID)

	out, err := f.svc.CambiarEstado(context.Background(), pedidoID, f.propietario, dto.CambiarEstadoRequest{
		Estado: string(model.PedidoEnviada),
	})

	require.NoError(t, err)
	assert.Equal(t, string(model.PedidoEnviada), out.Estado)
	eventos := f.pedidoRepo.pedidos[pedidoID].Eventos
	require.Len(t, eventos, 2)
	assert.Equal(t, model.EventoCambioEstado, eventos[1].Tipo)
	assert.Contains(t, eventos[1].Nota, "REGISTRADA → ENVIADA")
}

func TestCambiarEstado_AdminCancelaConMotivo(t *testing.T) {
	f := buildPedidoFixture()
	resp := f.crearPedido(t, 1)
	pedidoID := uuid.MustParse(resp.ID)
	f.pedidoRepo.pedidos[pedidoID].Estado = model.PedidoPreparando
	motivo := "El negocio no puede cumplir con el pedido"

	out, err := f.svc.CambiarEstado(context.Background(), pedidoID, f.admin, dto.CambiarEstadoRequest{
		Estado: string(model.PedidoCancelada),
		Motivo: &motivo,
	})

	require.NoError(t, err)
	assert.Equal(t, string(model.PedidoCancelada), out.Estado)
}

func TestCambiarEstado_EstadoDesconocido(t *testing.T) {
	f := buildPedidoFixture()
	resp := f.crearPedido(t, 1)

	_, err := f.svc.CambiarEstado(context.Background(), uuid.MustParse(resp.ID), f.admin, dto.CambiarEstadoRequest{
		Estado: "DESPACHADA",
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

// ── Eliminar ─────────────────────────────────────────────────────────────────

func TestEliminar_RestauraStock(t *testing.T) {
	f := buildPedidoFixture()
	resp := f.crearPedido(t, 3)
	require.Equal(t, 7, f.producto.Stock)
	pedidoID := uuid.MustParse(resp.ID)

	err := f.svc.Eliminar(context.Background(), pedidoID, f.cliente)

	require.NoError(t, err)
	assert.Equal(t, 10, f.producto.Stock)
	assert.NotContains(t, f.pedidoRepo.pedidos, pedidoID)
}

func TestEliminar_DespuesDePagoRechazado(t *testing.T) {
	f := buildPedidoFixture()
	resp := f.crearPedido(t, 2)
	pedidoID := uuid.MustParse(resp.ID)
	f.pedidoRepo.pedidos[pedidoID].Estado = model.PedidoPagada

	err := f.svc.Eliminar(context.Background(), pedidoID, f.admin)

	require.Error(t, err)
	assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err))
	assert.Equal(t, 8, f.producto.Stock)
}

func TestEliminar_PropietarioNoElimina(t *testing.T) {
	f := buildPedidoFixture()
	resp := f.crearPedido(t, 1)

	err := f.svc.Eliminar(context.Background(), uuid.MustParse(resp.ID), f.propietario)

	require.Error(t, err)
	assert.Equal(t, apierror.KindForbidden, apierror.KindOf(err))
}

// ── Listar ───────────────────────────────────────────────────────────────────

func TestListar_ClienteSoloVeLosSuyos(t *testing.T) {
	f := buildPedidoFixture()
	f.crearPedido(t, 1)

	otro := &model.Usuario{ID: uuid.New(), Rol: model.RolCliente}
	_, err := f.svc.Crear(context.Background(), otro.ID, dto.CrearPedidoRequest{
		NegocioID: f.negocio.ID.String(),
		Items:     []dto.ItemPedidoRequest{{ProductoID: f.producto.ID.String(), Cantidad: 1}},
	})
	require.NoError(t, err)

	lista, err := f.svc.Listar(context.Background(), f.cliente, dto.PedidoFilter{})
	require.NoError(t, err)
	require.Len(t, lista.Data, 1)
	assert.Equal(t, f.cliente.ID.String(), lista.Data[0].ClienteID)

	todos, err := f.svc.Listar(context.Background(), f.admin, dto.PedidoFilter{})
	require.NoError(t, err)
	assert.Len(t, todos.Data, 2)
}

func TestListar_PropietarioVeSuNegocio(t *testing.T) {
	f := buildPedidoFixture()
	f.crearPedido(t, 1)

	lista, err := f.svc.Listar(context.Background(), f.propietario, dto.PedidoFilter{})
	require.NoError(t, err)
	require.Len(t, lista.Data, 1)
	assert.Equal(t, f.negocio.ID.String(), lista.Data[0].NegocioID)
}
