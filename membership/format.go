package membership

import (
	"strconv"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/es"
)

const (
	PlaceholderNotAvailable = "No disponible"
	PlaceholderInvalidDate  = "Fecha inválida"
)

var spanish locales.Translator = es.New()

// FormatDisplayDate renders a long Spanish date ("16 de noviembre de 2025").
// ok=false yields the not-available placeholder; zero or out-of-range dates
// yield the invalid-date placeholder.
func FormatDisplayDate(t time.Time, ok bool) string {
	if !ok {
		return PlaceholderNotAvailable
	}
	if t.IsZero() || t.Year() < 1 || t.Year() > 9999 {
		return PlaceholderInvalidDate
	}
	return spanish.FmtDateLong(t)
}

// FormatDaysRemaining renders the detail-screen countdown.
func FormatDaysRemaining(days int) string {
	switch {
	case days < 0:
		if days == -1 {
			return "venció hace 1 día"
		}
		return "venció hace " + strconv.Itoa(-days) + " días"
	case days == 0:
		return "vence hoy"
	case days == 1:
		return "vence en 1 día"
	default:
		return "vence en " + strconv.Itoa(days) + " días"
	}
}

