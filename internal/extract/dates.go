package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// Date patterns ordered by context strength. Each entry keeps the original
// day/month/year capture positions; yearFirst flags YYYY/MM/DD layouts.
var fechaRules = []struct {
	re       *regexp.Regexp
	priority int
}{
	// Fecha de emisión (con y sin acento, año de 4 o 2 dígitos)
	{regexp.MustCompile(`(?i)fecha\s*(?:de\s*)?emisi[oó]n[\s:]+(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`), 5},
	{regexp.MustCompile(`(?i)fecha\s*(?:de\s*)?emisi[oó]n[\s:]+(\d{1,2})[/\-](\d{1,2})[/\-](\d{2})\b`), 5},

	// Solo "fecha"
	{regexp.MustCompile(`(?i)fecha[\s:]+(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`), 4},
	{regexp.MustCompile(`(?i)fecha[\s:]+(\d{1,2})[/\-](\d{1,2})[/\-](\d{2})\b`), 4},

	// Fechas cerca de palabras relacionadas
	{regexp.MustCompile(`(?i)(?:vencimiento|vto|vigencia|hasta)[\s:]+(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`), 3},
	{regexp.MustCompile(`(?i)(?:desde|inicio|apertura)[\s:]+(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`), 3},

	// Cualquier fecha DD/MM/YYYY o variantes
	{regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`), 2},
	{regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{2})\b`), 1},
	{regexp.MustCompile(`(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})`), 1},
}

// ExtractFecha returns the document's issue date as ISO YYYY-MM-DD, or ""
// when no calendar-valid date is found. Candidates whose year falls within
// [currentYear-5, currentYear+2] win over older/futuristic ones.
func ExtractFecha(text string) string {
	return extractFechaAt(text, time.Now())
}

func extractFechaAt(text string, now time.Time) string {
	type fechaCand struct {
		iso      string
		year     int
		priority int
	}
	var fechas []fechaCand

	for _, fr := range fechaRules {
		for _, m := range fr.re.FindAllStringSubmatch(text, -1) {
			day, month, year, ok := resolveDayMonthYear(m[1], m[2], m[3])
			if !ok {
				continue
			}
			if !validCalendarDate(day, month, year) {
				continue
			}
			fechas = append(fechas, fechaCand{
				iso:      fmt.Sprintf("%04d-%02d-%02d", year, month, day),
				year:     year,
				priority: fr.priority,
			})
		}
	}

	if len(fechas) == 0 {
		return ""
	}

	sort.SliceStable(fechas, func(i, j int) bool { return fechas[i].priority > fechas[j].priority })

	// Preferir fechas dentro del rango razonable: 5 años atrás, 2 adelante
	currentYear := now.Year()
	for _, f := range fechas {
		if f.year >= currentYear-5 && f.year <= currentYear+2 {
			return f.iso
		}
	}
	return fechas[0].iso
}

// resolveDayMonthYear decides field positions by which capture carries 4
// digits (DD/MM/YYYY vs YYYY/MM/DD) and expands 2-digit years.
func resolveDayMonthYear(g1, g2, g3 string) (day, month, year int, ok bool) {
	a, _ := strconv.Atoi(g1)
	b, _ := strconv.Atoi(g2)
	c, _ := strconv.Atoi(g3)

	switch {
	case len(g3) == 4:
		day, month, year = a, b, c
	case len(g1) == 4:
		year, month, day = a, b, c
	default:
		day, month, year = a, b, c
		if year < 50 {
			year += 2000
		} else if year < 100 {
			year += 1900
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2099 {
		return 0, 0, 0, false
	}
	return day, month, year, true
}

// isoFromGroups formats already-validated capture groups as YYYY-MM-DD.
func isoFromGroups(g1, g2, g3 string) string {
	day, month, year, ok := resolveDayMonthYear(g1, g2, g3)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// validCalendarDate rejects dates like 31/02 via a time.Date round trip.
func validCalendarDate(day, month, year int) bool {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}
