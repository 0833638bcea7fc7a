package service

import (
	"time"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"
)

// minutoDelDia parses "HH:MM" into minutes since midnight. Malformed values
// return -1 and the window is skipped.
func minutoDelDia(hhmm string) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// EstaAbierto reports whether any opening window covers now. The closing
// minute is exclusive. A window whose Cierre is earlier than its Apertura
// spills past midnight into the following day.
func EstaAbierto(horarios []model.HorarioAtencion, now time.Time) bool {
	dia := int(now.Weekday())
	minuto := now.Hour()*60 + now.Minute()

	for _, h := range horarios {
		apertura := minutoDelDia(h.Apertura)
		cierre := minutoDelDia(h.Cierre)
		if apertura < 0 || cierre < 0 {
			continue
		}
		if cierre > apertura {
			if h.Dia == dia && minuto >= apertura && minuto < cierre {
				return true
			}
			continue
		}
		// Overnight window: [apertura, 24h) on h.Dia plus [0, cierre) on the next day.
		if h.Dia == dia && minuto >= apertura {
			return true
		}
		if (h.Dia+1)%7 == dia && minuto < cierre {
			return true
		}
	}
	return false
}
