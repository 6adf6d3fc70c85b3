package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/facturaIA/comprobante-engine/internal/models"
	"github.com/shopspring/decimal"
)

// Row layouts for itemized invoices. Numbered layouts win; the first layout
// that yields any valid row stops the scan (mixing layouts produces
// duplicated rows).
var lineItemLayouts = []struct {
	re       *regexp.Regexp
	numbered bool
}{
	// N  Descripción  Cantidad  [Unidad]  Precio  Subtotal
	{regexp.MustCompile(`(?m)^\s*(\d{1,3})\s+(.{3,60}?)\s+([\d.,]+)\s+(?:(un|u|kg|lt|m|hs|hn)\.?\s+)?\$?\s*([\d.,]+)\s+\$?\s*([\d.,]+)\s*$`), true},
	{regexp.MustCompile(`(?m)^\s*(\d{1,3})\s+(.{3,60}?)\s{2,}([\d.,]+)\s{2,}\$?\s*([\d.,]+)\s{2,}\$?\s*([\d.,]+)\s*$`), true},
	// Descripción  Cantidad  Precio  Subtotal (sin columna de número)
	{regexp.MustCompile(`(?m)^\s*([A-Za-zÁÉÍÓÚÑáéíóúñ].{3,60}?)\s{2,}([\d.,]+)\s{2,}\$?\s*([\d.,]+)\s{2,}\$?\s*([\d.,]+)\s*$`), false},
}

// ExtractLineItems parses the itemized rows of an invoice body. Rows with an
// empty description, non-positive quantity or non-positive subtotal are
// discarded.
func ExtractLineItems(text string) []models.LineItem {
	for _, layout := range lineItemLayouts {
		items := parseLineItemLayout(text, layout.re, layout.numbered)
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

func parseLineItemLayout(text string, re *regexp.Regexp, numbered bool) []models.LineItem {
	var items []models.LineItem
	auto := 0
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		var item models.LineItem
		fields := m[1:]
		if numbered {
			n, err := strconv.Atoi(fields[0])
			if err != nil {
				continue
			}
			item.Numero = n
			fields = fields[1:]
		} else {
			auto++
			item.Numero = auto
		}

		item.Descripcion = strings.TrimSpace(fields[0])
		fields = fields[1:]

		cantidad, okC := ParseAmount(fields[0])
		fields = fields[1:]

		// Optional unit column in the wide numbered layout
		if len(fields) == 3 {
			item.Unidad = strings.TrimSpace(fields[0])
			fields = fields[1:]
		}

		precio, okP := ParseAmount(fields[0])
		subtotal, okS := ParseAmount(fields[1])

		if item.Descripcion == "" || !okC || !cantidad.IsPositive() || !okS || !subtotal.IsPositive() {
			continue
		}
		item.Cantidad = cantidad
		if okP {
			item.PrecioUnitario = precio
		}
		item.Subtotal = subtotal
		item.TotalLinea = subtotal
		items = append(items, item)
	}
	return items
}

// ---------------------------------------------------------------------------
// Detalle de impuestos
// ---------------------------------------------------------------------------

var taxDetailFamilies = []struct {
	re       *regexp.Regexp
	tipo     string
	alicuota string // fixed rate implied by the label, "" when variable
}{
	{regexp.MustCompile(`(?i)IVA\s*21\s*%?[\s:]*\$?\s*([\d.,]+)`), models.ImpuestoIVA, "21"},
	{regexp.MustCompile(`(?i)IVA\s*10[.,]5\s*%?[\s:]*\$?\s*([\d.,]+)`), models.ImpuestoIVA, "10.5"},
	{regexp.MustCompile(`(?i)IVA\s*27\s*%?[\s:]*\$?\s*([\d.,]+)`), models.ImpuestoIVA, "27"},
	{regexp.MustCompile(`(?i)IVA\s*2[.,]5\s*%?[\s:]*\$?\s*([\d.,]+)`), models.ImpuestoIVA, "2.5"},
	// The trailing group rejects rate captures ("IVA 21%" must not yield 21)
	{regexp.MustCompile(`(?i)IVA[\s:]*\$?\s*([\d.,]+)(%?)`), models.ImpuestoIVA, ""},
	{regexp.MustCompile(`(?i)(?:percepci[oó]n|perc\.?)\s*(?:IIBB|iibb|ingresos\s*brutos)[\s:]*\$?\s*([\d.,]+)`), models.ImpuestoPercepcion, ""},
	{regexp.MustCompile(`(?i)(?:percepci[oó]n|perc\.?)\s*IVA[\s:]*\$?\s*([\d.,]+)`), models.ImpuestoPercepcion, ""},
	{regexp.MustCompile(`(?i)(?:retenci[oó]n|ret\.?)\s*(?:ganancias|gcias\.?)[\s:]*\$?\s*([\d.,]+)`), models.ImpuestoRetencion, ""},
	{regexp.MustCompile(`(?i)(?:retenci[oó]n|ret\.?)\s*IVA[\s:]*\$?\s*([\d.,]+)`), models.ImpuestoRetencion, ""},
	{regexp.MustCompile(`(?i)impuestos?\s*internos?[\s:]*\$?\s*([\d.,]+)`), models.ImpuestoInterno, ""},
}

// ExtractTaxDetails collects the individual tax lines of the document,
// deduplicated by (tipo, descripción, importe).
func ExtractTaxDetails(text string) []models.TaxDetail {
	var details []models.TaxDetail
	seen := make(map[string]struct{})
	for _, fam := range taxDetailFamilies {
		for _, m := range fam.re.FindAllStringSubmatch(text, -1) {
			if len(m) > 2 && m[len(m)-1] == "%" {
				continue
			}
			importe, ok := ParseAmount(m[1])
			if !ok || !importe.IsPositive() {
				continue
			}
			desc := strings.TrimSpace(strings.TrimSuffix(m[0], m[1]))
			desc = strings.TrimRight(desc, ":$ \t")
			key := fam.tipo + "|" + desc + "|" + importe.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			detail := models.TaxDetail{
				Tipo:        fam.tipo,
				Descripcion: desc,
				Importe:     importe,
			}
			if fam.alicuota != "" {
				rate, _ := decimal.NewFromString(fam.alicuota)
				detail.Alicuota = &rate
			}
			details = append(details, detail)
		}
	}
	return details
}

// ---------------------------------------------------------------------------
// Datos del emisor
// ---------------------------------------------------------------------------

var (
	reDomicilio        = regexp.MustCompile(`(?i)(?:domicilio|direcci[oó]n)[\s:]+(.{5,80}?)\s*(?:\n|$)`)
	reCondicionIVA     = regexp.MustCompile(`(?i)(?:IVA|condici[oó]n\s*(?:frente\s*al\s*)?IVA)[\s:]*(?:\s*)?(RESPONSABLE\s*INSCRIPTO|MONOTRIBUTO|MONOTRIBUTISTA|EXENTO|CONSUMIDOR\s*FINAL)`)
	reIngresosBrutos   = regexp.MustCompile(`(?i)(?:ingresos\s*brutos|ing\.?\s*brutos|IIBB)[\s:]*([\w\s.\-]{2,30}?)\s*(?:\n|$)`)
	reInicioActividad  = regexp.MustCompile(`(?i)inicio\s*(?:de\s*)?actividades[\s:]*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`)
	reInicioParts      = regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})`)
	reTelefonoEmisor   = regexp.MustCompile(`(?i)(?:tel[eé]fono|tel\.?)[\s:]*([\d\s()\-]{6,20})`)
)

// ExtractDatosEmisor collects the issuer-box data (address, VAT condition,
// gross income registration, activity start date). Returns nil when nothing
// is found.
func ExtractDatosEmisor(text string) *models.DatosEmisor {
	de := &models.DatosEmisor{}
	found := false

	if m := reDomicilio.FindStringSubmatch(text); m != nil {
		de.Domicilio = strings.TrimSpace(m[1])
		found = true
	}
	if m := reCondicionIVA.FindStringSubmatch(text); m != nil {
		de.CondicionIVA = normalizeSpaces(strings.ToUpper(m[1]))
		found = true
	}
	if m := reIngresosBrutos.FindStringSubmatch(text); m != nil {
		de.IngresosBrutos = strings.TrimSpace(m[1])
		found = true
	}
	if m := reInicioActividad.FindStringSubmatch(text); m != nil {
		if g := reInicioParts.FindStringSubmatch(m[1]); g != nil {
			de.InicioActividades = isoFromGroups(g[1], g[2], g[3])
		}
		found = true
	}
	if m := reTelefonoEmisor.FindStringSubmatch(text); m != nil {
		de.Telefono = strings.TrimSpace(m[1])
		found = true
	}

	if !found {
		return nil
	}
	return de
}

var spacesRe = regexp.MustCompile(`\s+`)

func normalizeSpaces(s string) string {
	return spacesRe.ReplaceAllString(strings.TrimSpace(s), " ")
}
