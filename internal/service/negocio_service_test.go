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

func TestCrearNegocio_UnoPorPropietario(t *testing.T) {
	repo := newStubNegocioRepo()
	svc := NewNegocioService(repo)
	propietarioID := uuid.New()

	_, err := svc.Crear(context.Background(), propietarioID, dto.CrearNegocioRequest{
		Nombre:    "Verdulería La Esquina",
		Direccion: "Mitre 450",
		Latitud:   -34.60,
		Longitud:  -58.38,
	})
	require.NoError(t, err)

	_, err = svc.Crear(context.Background(), propietarioID, dto.CrearNegocioRequest{
		Nombre:    "Otro negocio",
		Direccion: "Mitre 452",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInvalidState, apierror.KindOf(err))
}

func TestConfigurarRangos_TablaInvalidaRechazaTodo(t *testing.T) {
	repo := newStubNegocioRepo()
	svc := NewNegocioService(repo)
	propietarioID := uuid.New()
	negocio := seedNegocio(repo, propietarioID, -34.60, -58.38)
	cinco := 5.0

	err := svc.ConfigurarRangos(context.Background(), propietarioID, dto.ConfigurarRangosRequest{
		Rangos: []dto.RangoEnvioRequest{
			{DesdeKm: 1, HastaKm: &cinco, Costo: decimal.NewFromInt(100)}, // no comienza en 0
		},
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindConfiguration, apierror.KindOf(err))
	assert.Empty(t, negocio.RangosEnvio)
}

func TestConfigurarRangos_ReemplazaLaTabla(t *testing.T) {
	repo := newStubNegocioRepo()
	svc := NewNegocioService(repo)
	propietarioID := uuid.New()
	negocio := seedNegocio(repo, propietarioID, -34.60, -58.38)
	negocio.RangosEnvio = []model.RangoEnvio{{DesdeKm: 0, Costo: decimal.NewFromInt(50)}}
	cinco := 5.0

	err := svc.ConfigurarRangos(context.Background(), propietarioID, dto.ConfigurarRangosRequest{
		Rangos: []dto.RangoEnvioRequest{
			{DesdeKm: 0, HastaKm: &cinco, Costo: decimal.NewFromInt(100)},
			{DesdeKm: 5, Costo: decimal.NewFromInt(200)},
		},
	})

	require.NoError(t, err)
	require.Len(t, negocio.RangosEnvio, 2)
	assert.Equal(t, 0, negocio.RangosEnvio[0].Posicion)
	assert.Equal(t, 1, negocio.RangosEnvio[1].Posicion)
}

func TestConfigurarRangos_AceptaTablaDesordenadaYPersisteOrdenada(t *testing.T) {
	repo := newStubNegocioRepo()
	svc := NewNegocioService(repo)
	propietarioID := uuid.New()
	negocio := seedNegocio(repo, propietarioID, -34.60, -58.38)
	cinco, diez := 5.0, 10.0

	err := svc.ConfigurarRangos(context.Background(), propietarioID, dto.ConfigurarRangosRequest{
		Rangos: []dto.RangoEnvioRequest{
			{DesdeKm: 5, HastaKm: &diez, Costo: decimal.NewFromInt(200)},
			{DesdeKm: 0, HastaKm: &cinco, Costo: decimal.NewFromInt(100)},
		},
	})

	require.NoError(t, err)
	require.Len(t, negocio.RangosEnvio, 2)
	assert.Equal(t, 0.0, negocio.RangosEnvio[0].DesdeKm)
	assert.Equal(t, 0, negocio.RangosEnvio[0].Posicion)
	assert.Equal(t, 5.0, negocio.RangosEnvio[1].DesdeKm)
	assert.Equal(t, 1, negocio.RangosEnvio[1].Posicion)

	costo, ok := CostoEnvio(2, negocio.RangosEnvio, decimal.Zero)
	require.True(t, ok)
	assert.Equal(t, "100", costo.String())
}

func TestConfigurarHorarios_FormatoInvalido(t *testing.T) {
	repo := newStubNegocioRepo()
	svc := NewNegocioService(repo)
	propietarioID := uuid.New()
	seedNegocio(repo, propietarioID, -34.60, -58.38)

	err := svc.ConfigurarHorarios(context.Background(), propietarioID, dto.ConfigurarHorariosRequest{
		Horarios: []dto.HorarioRequest{{Dia: 1, Apertura: "9am", Cierre: "13:00"}},
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestListarNegocios_IncluyeCotizacionDeEnvio(t *testing.T) {
	repo := newStubNegocioRepo()
	svc := NewNegocioService(repo)
	negocio := seedNegocio(repo, uuid.New(), -34.60, -58.38)
	cinco := 5.0
	negocio.RangosEnvio = []model.RangoEnvio{
		{DesdeKm: 0, HastaKm: &cinco, Costo: decimal.NewFromInt(100)},
	}
	lat, lng := negocio.Latitud, negocio.Longitud

	lista, err := svc.Listar(context.Background(), dto.NegocioFilter{Latitud: &lat, Longitud: &lng})

	require.NoError(t, err)
	require.Len(t, lista.Data, 1)
	n := lista.Data[0]
	require.NotNil(t, n.DistanciaKm)
	assert.Equal(t, 0.0, *n.DistanciaKm)
	require.NotNil(t, n.CostoEnvio)
	assert.Equal(t, "100", n.CostoEnvio.String())
}
