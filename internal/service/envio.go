package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"

	"github.com/shopspring/decimal"
)

// radioTierraKm is the Earth radius used by the Haversine formula.
const radioTierraKm = 6371.0

// DistanciaKm computes the great-circle distance between two coordinates,
// rounded to 2 decimal places.
func DistanciaKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return math.Round(radioTierraKm*c*100) / 100
}

// CostoEnvio maps a delivery distance to a cost using the business's ordered
// distance bands. With no bands configured, porDefecto applies to any
// distance. When no band matches the distance, delivery is not available and
// ok is false.
func CostoEnvio(distanciaKm float64, rangos []model.RangoEnvio, porDefecto decimal.Decimal) (decimal.Decimal, bool) {
	if len(rangos) == 0 {
		return porDefecto, true
	}
	for _, r := range rangos {
		if distanciaKm >= r.DesdeKm && (r.HastaKm == nil || distanciaKm < *r.HastaKm) {
			return r.Costo, true
		}
	}
	return decimal.Zero, false
}

// OrdenarRangos returns a copy of the table sorted by DesdeKm ascending. The
// sort is stable, so an open-ended band that shares its DesdeKm with another
// keeps its relative position.
func OrdenarRangos(rangos []model.RangoEnvio) []model.RangoEnvio {
	ordenados := make([]model.RangoEnvio, len(rangos))
	copy(ordenados, rangos)
	sort.SliceStable(ordenados, func(i, j int) bool {
		return ordenados[i].DesdeKm < ordenados[j].DesdeKm
	})
	return ordenados
}

// ValidarRangos checks the delivery price table as a whole, viewed by DesdeKm
// ascending regardless of input order: bands must start at 0, leave no gaps,
// not overlap or invert, carry no negative cost, and at most the last band may
// be open-ended. The result is advisory; CostoEnvio operates on whatever it is
// given, so callers must persist the table in the same sorted order.
func ValidarRangos(rangos []model.RangoEnvio) []string {
	if len(rangos) == 0 {
		return nil
	}
	rangos = OrdenarRangos(rangos)

	var errores []string
	if rangos[0].DesdeKm != 0 {
		errores = append(errores, fmt.Sprintf("el primer rango debe comenzar en 0 km (comienza en %g)", rangos[0].DesdeKm))
	}
	for i, r := range rangos {
		ultimo := i == len(rangos)-1
		if r.HastaKm == nil && !ultimo {
			errores = append(errores, fmt.Sprintf("solo el último rango puede ser abierto (rango %d)", i+1))
			continue
		}
		if r.HastaKm != nil && r.DesdeKm >= *r.HastaKm {
			errores = append(errores, fmt.Sprintf("rango invertido: %g km >= %g km", r.DesdeKm, *r.HastaKm))
		}
		if !ultimo && r.HastaKm != nil && *r.HastaKm != rangos[i+1].DesdeKm {
			errores = append(errores, fmt.Sprintf("hueco o solapamiento entre %g km y %g km", *r.HastaKm, rangos[i+1].DesdeKm))
		}
		if r.Costo.IsNegative() {
			errores = append(errores, fmt.Sprintf("costo negativo en el rango que comienza en %g km", r.DesdeKm))
		}
	}
	return errores
}
