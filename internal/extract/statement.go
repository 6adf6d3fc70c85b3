package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/facturaIA/comprobante-engine/internal/models"
)

// Spanish month names and bank abbreviations as they appear in statements.
var mesesES = map[string]int{
	"enero": 1, "ene": 1,
	"febrero": 2, "feb": 2,
	"marzo": 3, "mar": 3,
	"abril": 4, "abr": 4,
	"mayo": 5, "may": 5,
	"junio": 6, "jun": 6,
	"julio": 7, "jul": 7,
	"agosto": 8, "ago": 8,
	"septiembre": 9, "setiembre": 9, "sep": 9, "set": 9,
	"octubre": 10, "oct": 10,
	"noviembre": 11, "nov": 11,
	"diciembre": 12, "dic": 12,
}

func mesFromName(name string) (int, bool) {
	m, ok := mesesES[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

var (
	rePeriodoCierre = regexp.MustCompile(`(?i)CIERRE\s*(?:ACTUAL|DEL?\s*PER[IÍ]ODO)?[\s:]*(\d{1,2})[\s/\-]*(?:de\s*)?([A-Za-zÁÉÍÓÚáéíóú]+)[\s/\-]*(?:de\s*)?(\d{2,4})`)
	rePeriodoNum    = regexp.MustCompile(`(?i)CIERRE\s*(?:ACTUAL|DEL?\s*PER[IÍ]ODO)?[\s:]*(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})`)
	reTarjeta       = regexp.MustCompile(`(?i)(?:tarjeta|cuenta)\s*(?:n[°º]|nro\.?|terminada\s*en)?[\s:]*(?:[X*]{4}[\s\-]*){0,3}(\d{4})\b`)
	reVencimiento   = regexp.MustCompile(`(?i)VENCIMIENTO\s*(?:ACTUAL)?[\s:]*(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})`)
	reCierreFecha   = regexp.MustCompile(`(?i)CIERRE\s*(?:ACTUAL)?[\s:]*(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})`)
	reTitularLine   = regexp.MustCompile(`^[A-ZÁÉÍÓÚÑ]{2,}(?:\s+[A-ZÁÉÍÓÚÑ]{2,}){1,4}$`)
	reCuotas        = regexp.MustCompile(`C\.(\d{2})\/(\d{2})`)

	// ICBC: "25 Agosto 01 304145 * DESCRIPCION DEL COMERCIO    1.234,56"
	// (año de dos dígitos, mes, día)
	reRowICBC = regexp.MustCompile(`(?m)^\s*(\d{2})\s+([A-Za-z]+)\.?\s+(\d{1,2})\s+(\d{6})\s*[*KQ]?\s+(.+?)\s{2,}(-?[\d.,]+)\s*$`)

	// BBVA: "15-Ene-24 DESCRIPCION C.02/06 123456 1.234,56"
	reRowBBVA = regexp.MustCompile(`(?m)^\s*(\d{1,2})-([A-Za-z]{3})-(\d{2})\s+(.+?)\s+(C\.\d{2}\/\d{2})?\s*(\d{6})?\s+(-?[\d.,]+)\s*$`)
)

// ExtractResumenTarjeta parses a credit-card statement: header metadata plus
// the consumption rows in ICBC or BBVA layout. All amounts are ARS.
func ExtractResumenTarjeta(text string) *models.ResumenTarjeta {
	resumen := &models.ResumenTarjeta{
		Metadata: extractResumenMetadata(text),
	}
	resumen.Transacciones = extractRowsICBC(text)
	if len(resumen.Transacciones) == 0 {
		resumen.Transacciones = extractRowsBBVA(text)
	}
	return resumen
}

func extractResumenMetadata(text string) models.ResumenMetadata {
	var md models.ResumenMetadata

	// Período YYYYMM a partir de la fecha de cierre
	if m := rePeriodoCierre.FindStringSubmatch(text); m != nil {
		if mes, ok := mesFromName(m[2]); ok {
			if year := expandYear(m[3]); year > 0 {
				md.Periodo = fmt.Sprintf("%04d%02d", year, mes)
				if day, err := strconv.Atoi(m[1]); err == nil && validCalendarDate(day, mes, year) {
					md.FechaCierre = fmt.Sprintf("%04d-%02d-%02d", year, mes, day)
				}
			}
		}
	}
	if md.Periodo == "" {
		if m := rePeriodoNum.FindStringSubmatch(text); m != nil {
			if iso := isoFromGroups(m[1], m[2], m[3]); iso != "" {
				md.Periodo = strings.ReplaceAll(iso[:7], "-", "")
				md.FechaCierre = iso
			}
		}
	}
	if md.FechaCierre == "" {
		if m := reCierreFecha.FindStringSubmatch(text); m != nil {
			md.FechaCierre = isoFromGroups(m[1], m[2], m[3])
		}
	}
	if m := reVencimiento.FindStringSubmatch(text); m != nil {
		md.FechaVencimiento = isoFromGroups(m[1], m[2], m[3])
	}
	if m := reTarjeta.FindStringSubmatch(text); m != nil {
		md.NumeroTarjeta = m[1]
	}
	md.TitularNombre = extractTitular(text)
	return md
}

// extractTitular scans the first 20 lines for an all-caps name line.
func extractTitular(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 20 {
		lines = lines[:20]
	}
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if reTitularLine.MatchString(l) && !strings.Contains(l, "RESUMEN") && !strings.Contains(l, "TARJETA") {
			return l
		}
	}
	return ""
}

func extractRowsICBC(text string) []models.ResumenTransaccion {
	var rows []models.ResumenTransaccion
	for _, m := range reRowICBC.FindAllStringSubmatch(text, -1) {
		mes, ok := mesFromName(m[2])
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[3])
		year := expandYear(m[1])
		if !validCalendarDate(day, mes, year) {
			continue
		}
		importe, okImp := ParseAmount(m[6])
		if !okImp {
			continue
		}
		if strings.HasPrefix(m[6], "-") {
			importe = importe.Neg()
		}
		desc := strings.TrimSpace(m[5])
		rows = append(rows, models.ResumenTransaccion{
			Fecha:       fmt.Sprintf("%04d-%02d-%02d", year, mes, day),
			Descripcion: desc,
			NumeroCupon: m[4],
			Importe:     importe,
			Cuotas:      reCuotas.FindString(desc),
			Moneda:      "ARS",
		})
	}
	return rows
}

func extractRowsBBVA(text string) []models.ResumenTransaccion {
	var rows []models.ResumenTransaccion
	for _, m := range reRowBBVA.FindAllStringSubmatch(text, -1) {
		mes, ok := mesFromName(m[2])
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		year := expandYear(m[3])
		if !validCalendarDate(day, mes, year) {
			continue
		}
		importe, okImp := ParseAmount(m[7])
		if !okImp {
			continue
		}
		if strings.HasPrefix(m[7], "-") {
			importe = importe.Neg()
		}
		rows = append(rows, models.ResumenTransaccion{
			Fecha:       fmt.Sprintf("%04d-%02d-%02d", year, mes, day),
			Descripcion: strings.TrimSpace(m[4]),
			NumeroCupon: m[6],
			Importe:     importe,
			Cuotas:      m[5],
			Moneda:      "ARS",
		})
	}
	return rows
}

// expandYear applies the 2-digit pivot rule (<50 → 2000s, else 1900s).
func expandYear(s string) int {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	switch {
	case y >= 1900 && y <= 2099:
		return y
	case y < 50:
		return y + 2000
	case y < 100:
		return y + 1900
	}
	return 0
}

// IsResumenTarjeta reports whether the text looks like a card statement
// rather than an invoice.
func IsResumenTarjeta(text string) bool {
	return regexp.MustCompile(`(?i)resumen\s*de\s*(?:cuenta|tarjeta)|tarjeta\s*de\s*cr[eé]dito|cierre\s*actual|pago\s*m[ií]nimo`).MatchString(text)
}
