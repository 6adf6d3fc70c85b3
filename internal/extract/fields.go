package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// CUIT
// ---------------------------------------------------------------------------

var cuitRules = []rule{
	// CUIT cerca de "Ingresos Brutos" / "Inicio de Actividades": casi siempre
	// es el del emisor (zona superior izquierda)
	{regexp.MustCompile(`(?is)(?:ingresos\s*brutos|inicio\s*de\s*actividades).{0,200}?(?:cuit[:\s]*)?(\d{2}[-.]?\d{8}[-.]?\d)`), 9},
	{regexp.MustCompile(`(?is)(\d{2}[-.]?\d{8}[-.]?\d).{0,200}?(?:ingresos\s*brutos|inicio\s*de\s*actividades)`), 8},

	// Etiquetado explícitamente como CUIT
	{regexp.MustCompile(`(?im)^\s*(?:cuit|c\.u\.i\.t\.?)[\s:]*(\d{2}[-.]?\d{8}[-.]?\d)`), 7},

	// En la zona superior del documento (datos del emisor)
	{regexp.MustCompile(`(?s)\A.{0,500}?(\d{2}[-.]?\d{8}[-.]?\d)`), 6},

	// Genéricos
	{regexp.MustCompile(`(\d{2})-(\d{8})-(\d)`), 4},
	{regexp.MustCompile(`(\d{11})`), 3},
}

// ExtractCUIT returns the issuer's CUIT in canonical NN-NNNNNNNN-N form, or
// "" when no 11-digit identifier is found.
func ExtractCUIT(text string) string {
	cands := collect(text, cuitRules, func(m []string) string {
		var digits string
		if len(m) > 3 && m[3] != "" {
			digits = m[1] + m[2] + m[3]
		} else {
			digits = stripCUITSeparators(m[1])
		}
		return FormatCUIT(digits)
	})
	return best(cands)
}

// FormatCUIT canonicalizes 11 contiguous digits (separators allowed) into
// NN-NNNNNNNN-N. Returns "" for anything that is not 11 digits.
func FormatCUIT(s string) string {
	digits := stripCUITSeparators(s)
	if len(digits) != 11 {
		return ""
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return digits[:2] + "-" + digits[2:10] + "-" + digits[10:]
}

func stripCUITSeparators(s string) string {
	return strings.NewReplacer("-", "", ".", "", " ", "").Replace(s)
}

// ---------------------------------------------------------------------------
// Número de comprobante y punto de venta
// ---------------------------------------------------------------------------

var comprobanteRules = []rule{
	// Formato estándar argentino exacto: 00000-00000000
	{regexp.MustCompile(`(\d{5}-\d{8})`), 10},

	// Contextuales con formato exacto
	{regexp.MustCompile(`(?i)(?:factura|comprobante|n[úu]mero|comp|nro)[\s:]+n?[°º]?\s*(\d{5}-\d{8})`), 9},
	{regexp.MustCompile(`(?i)(?:punto\s*de\s*venta|pto\s*vta)[\s:]+\d{1,5}[\s\-]+(?:comp|comprobante)[\s:]+n?[°º]?\s*(\d{5}-\d{8})`), 9},

	// Variante con punto de venta de 4 dígitos
	{regexp.MustCompile(`(\d{4}-\d{8})`), 7},
	{regexp.MustCompile(`(?i)(?:factura|comprobante|n[úu]mero|comp|nro)[\s:]+n?[°º]?\s*(\d{4}-\d{8})`), 6},

	// Con espacios o sin guión
	{regexp.MustCompile(`(\d{5}\s+\d{8})`), 5},
	{regexp.MustCompile(`(\d{4}\s+\d{8})`), 4},
	{regexp.MustCompile(`(?i)(?:factura|comprobante|n[úu]mero|comp|nro)[\s:.]+n?(?:ro)?[°º.]?\s*(\d{13})\b`), 4},
	{regexp.MustCompile(`(?i)(?:factura|comprobante|n[úu]mero|comp|nro)[\s:.]+n?(?:ro)?[°º.]?\s*(\d{12})\b`), 3},

	// Solo 8 dígitos: requiere punto de venta por separado
	{regexp.MustCompile(`(?i)(?:factura|comprobante|n[úu]mero|comp|nro)[\s:]+n?[°º]?\s*(\d{8})\b`), 5},

	// Genéricos
	{regexp.MustCompile(`(?i)n[°º]\s*(\d{4,5}-\d{8})`), 2},
	{regexp.MustCompile(`(?i)(?:factura|comprobante|n[úu]mero)[\s:]+n?[°º]?\s*(\d{8,})`), 1},
}

var (
	reNumSpaced = regexp.MustCompile(`^\d{4,5}\s+\d{8}$`)
	reNum58     = regexp.MustCompile(`^\d{5}-\d{8}$`)
	reNum48     = regexp.MustCompile(`^\d{4}-\d{8}$`)
	reNum1213   = regexp.MustCompile(`^\d{12,13}$`)
	reNum8      = regexp.MustCompile(`^\d{8}$`)
)

// ExtractNumeroComprobante returns the document number in canonical
// NNNNN-NNNNNNNN form. Bare 8-digit sequences only survive when a plausible
// punto de venta can be located elsewhere in the text.
func ExtractNumeroComprobante(text string) string {
	cands := collect(text, comprobanteRules, func(m []string) string {
		numero := m[1]
		if reNumSpaced.MatchString(numero) {
			numero = regexp.MustCompile(`\s+`).ReplaceAllString(numero, "-")
		}

		switch {
		case reNum58.MatchString(numero) || reNum48.MatchString(numero):
			return numero
		case reNum1213.MatchString(numero):
			split := len(numero) - 8
			return numero[:split] + "-" + numero[split:]
		case reNum8.MatchString(numero):
			return CompleteNumeroComprobante(numero, text)
		}
		return ""
	})
	return best(cands)
}

// CompleteNumeroComprobante upgrades a bare 8-digit document number with the
// punto de venta found in the surrounding text, zero-padded to 5 digits.
// Returns "" when no punto de venta can be located.
func CompleteNumeroComprobante(numero, text string) string {
	pv, ok := extractPuntoDeVenta(text)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%05d-%s", pv, numero)
}

var puntoVentaRules = []rule{
	{regexp.MustCompile(`(?i)(?:punto\s*de\s*venta|pto\s*vta|pto\s*de\s*venta)[\s:]+(\d{1,5})`), 10},
	{regexp.MustCompile(`(?i)(?:sucursal|suc)[\s:]+(\d{1,5})`), 9},
	{regexp.MustCompile(`(?i)(?:punto|pto)[\s:]+(\d{1,5})`), 8},
	{regexp.MustCompile(`(?i)(\d{4,5})-\d{8}`), 8},
	{regexp.MustCompile(`(?i)(?:pv|p\.v\.)[\s:]*(\d{1,5})`), 7},
	{regexp.MustCompile(`(?i)(\d{1,5})[\s\-]+(?:comprobante|factura|n[úu]mero)`), 6},
	{regexp.MustCompile(`(?i)(?:comprobante|factura)[\s:]+(\d{1,5})[\s\-]+\d{8}`), 5},
	{regexp.MustCompile(`(?i)(?:n[°º]|num|número)[\s:]*(\d{1,5})[\s\-]+\d{8}`), 4},
	{regexp.MustCompile(`(\d{1,5})\s*-\s*\d{8}`), 3},
	{regexp.MustCompile(`(?i)(\d{1,5})\s+(?:factura|comprobante|ticket|nota)`), 2},
}

// extractPuntoDeVenta is the nested prioritized lookup for the 1-5 digit
// branch code.
func extractPuntoDeVenta(text string) (int, bool) {
	cands := collect(text, puntoVentaRules, func(m []string) string {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 || n > 99999 {
			return ""
		}
		return strconv.Itoa(n)
	})
	v := best(cands)
	if v == "" {
		return 0, false
	}
	n, _ := strconv.Atoi(v)
	return n, true
}

// ---------------------------------------------------------------------------
// CAE
// ---------------------------------------------------------------------------

var caeRules = []rule{
	{regexp.MustCompile(`(?i)CAE\s*N?[°º]?\s*:?\s*(\d{14})`), 5},
	{regexp.MustCompile(`(?i)(?:código|codigo)?\s*(?:de\s*)?(?:autorización|autorizacion)\s*(?:electrónico|electronico)?\s*:?\s*(\d{14})`), 4},
	{regexp.MustCompile(`(?i)CAE\s*:?\s*(\d{14})\s*(?:venc|vto|vencimiento)`), 4},
	{regexp.MustCompile(`(?i)(\d{14})\s*(?:venc|vto|vencimiento)`), 3},
	{regexp.MustCompile(`(?i)(?:fecha|fch)?\s*CAE\s*:?\s*(\d{14})`), 3},
	{regexp.MustCompile(`(?m)^\s*CAE\s*(\d{14})`), 3},
	{regexp.MustCompile(`(?is)CAE.{0,50}?(\d{14})`), 2},
	{regexp.MustCompile(`(?is)(\d{14}).{0,50}?CAE`), 2},
	{regexp.MustCompile(`\b(\d{14})\b`), 1},
}

// ExtractCAE returns the 14-digit electronic authorization code, or "".
// Degenerate sequences (all zeros, all same digit) are rejected.
func ExtractCAE(text string) string {
	cands := collect(text, caeRules, func(m []string) string {
		cae := m[1]
		if len(cae) != 14 || allSameDigit(cae) {
			return ""
		}
		return cae
	})
	return best(cands)
}

func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Razón social
// ---------------------------------------------------------------------------

// The leading name class is deliberately case-sensitive: issuer names open
// with a capital, and a case-insensitive class would let table contents and
// labels anchor a match. Keyword groups carry their own (?i:).
var razonSocialRules = []rule{
	// Nombre que aparece antes del bloque de datos fiscales: layout típico
	// del emisor
	{regexp.MustCompile(`(?s)([A-ZÁÉÍÓÚÑ][A-Za-záéíóúñ &.,'-]{8,80})\s*\n.{0,200}?(?i:inicio\s*actividades|ing\.?\s*brutos|cuit)`), 10},

	// Nombre junto a palabras fiscales del emisor (misma línea o la
	// siguiente; el bloque fiscal nunca está separado por líneas en blanco)
	{regexp.MustCompile(`([A-ZÁÉÍÓÚÑ][A-Za-záéíóúñ &.,'-]{8,80})[\s\n]*(?i:ingresos\s*brutos|inicio\s*de\s*actividades|cuit|c\.u\.i\.t\.?)`), 8},
	{regexp.MustCompile(`(?i:ingresos\s*brutos|inicio\s*de\s*actividades|cuit)[^\n]{0,60}\n?([A-ZÁÉÍÓÚÑ][A-Za-záéíóúñ &.,'-]{8,80})[\s\n]`), 7},

	// Sufijos societarios en la parte superior
	{regexp.MustCompile(`(?m)^([A-ZÁÉÍÓÚÑ][A-Za-záéíóúñ &.,'-]{12,80})(?:\s*S\.A\.?|\s*S\.R\.L\.?|\s*S\.A\.S\.?|\s*LTDA\.?)`), 5},

	// Nombre cerca del domicilio comercial
	{regexp.MustCompile(`([A-ZÁÉÍÓÚÑ][A-Za-záéíóúñ &.,'-]{8,80})\s*(?i:domicilio|dirección|comercial|fiscal)`), 4},

	// Líneas largas con inicial mayúscula (zona superior)
	{regexp.MustCompile(`(?m)^([A-ZÁÉÍÓÚÑ][A-Za-záéíóúñ &.,'-]{20,80})\s*$`), 3},
}

var razonSocialReject = regexp.MustCompile(`(?i)^(Responsable\s*Monotributo|(?:IVA\s+)?RESPONSABLE(?:\s+INSCRIPTO)?|FACTURA(?:\s+[A-Z])?|NOTA\s+DE\s+(?:CR[EÉ]DITO|D[EÉ]BITO)|TICKET(?:\s+FISCAL)?|UnitarioCantidad|Abono\s*Sistema|CONTADO|INSCRIPTO|Descripci[oó]n|Articulo|Total|Cantidad|Unitario|Sistema)$`)

// ExtractRazonSocial looks for the issuer's display name in the emitter zone
// of the document, filtering out strings that look like client records or
// table headers.
func ExtractRazonSocial(text string) string {
	cands := collect(text, razonSocialRules, func(m []string) string {
		rs := cleanRazonSocial(m[1])
		if len([]rune(rs)) < 5 || looksLikeClientRecord(rs, m[0]) {
			return ""
		}
		return rs
	})
	return best(cands)
}

var razonSocialRunes = regexp.MustCompile(`[^\p{L}\p{N} &.,'-]`)

func cleanRazonSocial(s string) string {
	return strings.TrimSpace(razonSocialRunes.ReplaceAllString(s, ""))
}

// looksLikeClientRecord applies the negative filters: client rows start with
// 6-digit account codes and carry "RESPONSABLE INSCRIPTO" style labels. The
// issuer box also states a fiscal condition, so the condition alone is not
// enough to reject; it must come with an account code.
func looksLikeClientRecord(rs, context string) bool {
	if regexp.MustCompile(`^\d{6}\s+`).MatchString(context) {
		return true
	}
	if regexp.MustCompile(`^\d{6}$`).MatchString(rs) {
		return true
	}
	if regexp.MustCompile(`(?i)RESPONSABLE\s*INSCRIPTO`).MatchString(context) &&
		regexp.MustCompile(`\b\d{6}\b`).MatchString(context) {
		return true
	}
	firstLine := strings.SplitN(rs, "\n", 2)[0]
	return razonSocialReject.MatchString(strings.TrimSpace(firstLine))
}

// ---------------------------------------------------------------------------
// Montos de cabecera: neto gravado, exento, impuestos, importe total
// ---------------------------------------------------------------------------

// Qualified amount rules capture an optional negative qualifier; matches
// carrying one are dropped (RE2 has no lookaround).
var netoGravadoRules = []struct {
	re        *regexp.Regexp
	priority  int
	qualifier int // capture index of the disqualifying group, 0 = none
}{
	{regexp.MustCompile(`(?i)(?:neto\s*gravado|subtotal\s*gravado|base\s*imponible)[\s:]*\$?\s*([\d.,]+)`), 8, 0},
	{regexp.MustCompile(`(?im)^\s*subtotal(\s*(?:exento|no\s*gravado))?[\s:]*\$?\s*([\d.,]+)`), 7, 1},
	{regexp.MustCompile(`(?i)subtotal(\s*(?:exento|no\s*gravado))?[\s:]*\$?\s*([\d.,]+)`), 6, 1},
	{regexp.MustCompile(`(?i)((?:no\s+|exento\s+)?)gravado[\s:]*\$?\s*([\d.,]+)`), 4, 1},
	{regexp.MustCompile(`(?im)^\s*neto(\s*(?:exento|no\s*gravado))?[\s:]*\$?\s*([\d.,]+)`), 3, 1},
}

// ExtractNetoGravado returns the taxable base, or false when absent.
func ExtractNetoGravado(text string) (decimal.Decimal, bool) {
	var cands []candidate
	for _, r := range netoGravadoRules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			if r.qualifier > 0 && strings.TrimSpace(m[r.qualifier]) != "" {
				continue
			}
			amountIdx := len(m) - 1
			if amt, ok := ParseAmount(m[amountIdx]); ok && amt.IsPositive() {
				cands = append(cands, candidate{value: amt.String(), priority: r.priority, source: m[0]})
			}
		}
	}
	return decimalFromBest(cands)
}

var exentoRules = []struct {
	re        *regexp.Regexp
	priority  int
	qualifier int
}{
	{regexp.MustCompile(`(?i)(?:importe\s*exento|total\s*exento|subtotal\s*exento)[\s:]*\$?\s*([\d.,]+)`), 8, 0},
	{regexp.MustCompile(`(?i)(?:exento|no\s*gravado)[\s:]*\$?\s*([\d.,]+)`), 7, 0},
	{regexp.MustCompile(`(?im)^\s*exento(\s*gravado)?[\s:]*\$?\s*([\d.,]+)`), 6, 1},
	{regexp.MustCompile(`(?im)^\s*no\s*gravado[\s:]*\$?\s*([\d.,]+)`), 5, 0},
	{regexp.MustCompile(`(?i)0%[\s:]*\$?\s*([\d.,]+)`), 4, 0},
}

// ExtractExento returns the explicitly stated exempt amount, or false. When
// the document shows no exempt line the reconciliation step derives it from
// the accounting identity instead.
func ExtractExento(text string) (decimal.Decimal, bool) {
	var cands []candidate
	for _, r := range exentoRules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			if r.qualifier > 0 && strings.TrimSpace(m[r.qualifier]) != "" {
				continue
			}
			amountIdx := len(m) - 1
			if amt, ok := ParseAmount(m[amountIdx]); ok && amt.IsPositive() {
				cands = append(cands, candidate{value: amt.String(), priority: r.priority, source: m[0]})
			}
		}
	}
	return decimalFromBest(cands)
}

var impuestosRules = []rule{
	// The trailing group rejects rate captures ("IVA 21%" must not add 21)
	{regexp.MustCompile(`(?i)IVA[\s:]*\$?\s*([\d.,]+)(%?)`), 8},
	{regexp.MustCompile(`21%[\s:]*\$?\s*([\d.,]+)`), 7},
	{regexp.MustCompile(`(?i)(?:impuestos?\s*internos?)[\s:]*\$?\s*([\d.,]+)`), 7},
	{regexp.MustCompile(`10\.5%[\s:]*\$?\s*([\d.,]+)`), 6},
	{regexp.MustCompile(`(?i)(?:impuesto|impuestos)[\s:]*\$?\s*([\d.,]+)`), 6},
	{regexp.MustCompile(`27%[\s:]*\$?\s*([\d.,]+)`), 5},
	{regexp.MustCompile(`(?m)^\s*(?i:impuesto)[\s:]*\$?\s*([\d.,]+)`), 5},
	{regexp.MustCompile(`(?i)(?:ret\.?\s*iva|retenci[oó]n.*iva)[\s:]*\$?\s*([\d.,]+)`), 4},
	{regexp.MustCompile(`(?i)(?:perc\.?\s*iva|percepci[oó]n.*iva)[\s:]*\$?\s*([\d.,]+)`), 4},
	{regexp.MustCompile(`(?i)(?:al[ií]cuota)[\s:]*\d+\.?\d*%[\s:]*\$?\s*([\d.,]+)`), 4},
	{regexp.MustCompile(`(?i)(?:ret\.?\s*ganancias|retenci[oó]n.*ganancias)[\s:]*\$?\s*([\d.,]+)`), 3},
}

// ExtractImpuestos sums every distinct tax amount in the text. Unlike the
// other header fields this is NOT a single-candidate pick: IVA by rate,
// internal taxes, withholdings and perceptions are additive readings, so all
// distinct matched amounts contribute to the total.
func ExtractImpuestos(text string) (decimal.Decimal, bool) {
	seen := make(map[string]struct{})
	total := decimal.Zero
	for _, r := range impuestosRules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			if m[len(m)-1] == "%" {
				continue
			}
			amt, ok := ParseAmount(m[1])
			if !ok || !amt.IsPositive() {
				continue
			}
			key := amt.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			total = total.Add(amt)
		}
	}
	if !total.IsPositive() {
		return decimal.Zero, false
	}
	return total, true
}

var taxPresenceRe = regexp.MustCompile(`(?i)IVA|impuesto|21%|10\.5%|27%|2\.5%|tributo|al[íi]cuota|impuestos?\s*internos?|ret.*ganancias|ret.*iva|perc.*iva|perc.*iibb`)

// HasTaxInformation reports whether the text mentions any VAT/tax line at
// all; non-itemized documents (B/C, tickets) typically do not.
func HasTaxInformation(text string) bool {
	return taxPresenceRe.MatchString(text)
}

var importeRules = []rule{
	{regexp.MustCompile(`(?i)(?:total|importe|monto|suma|valor)[\s:]+\$?\s*([\d.,]+)`), 3},
	{regexp.MustCompile(`\$\s*([\d.,]+)`), 2},
	{regexp.MustCompile(`(?m)(?:^|\s)([\d.,]{4,})\s*(?:$|\s)`), 1},
}

// ExtractImporte returns the document total. Candidates tie-break first by
// priority, then by magnitude (totals are the largest figure on the page).
func ExtractImporte(text string) (decimal.Decimal, bool) {
	type importeCand struct {
		value    decimal.Decimal
		priority int
	}
	var importes []importeCand
	for _, r := range importeRules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			if v, ok := ParseArgentineNumber(m[1]); ok {
				importes = append(importes, importeCand{value: v, priority: r.priority})
			}
		}
	}
	if len(importes) == 0 {
		return decimal.Zero, false
	}
	sort.SliceStable(importes, func(i, j int) bool {
		if importes[i].priority != importes[j].priority {
			return importes[i].priority > importes[j].priority
		}
		return importes[i].value.GreaterThan(importes[j].value)
	})
	return importes[0].value, true
}

func decimalFromBest(cands []candidate) (decimal.Decimal, bool) {
	v := best(cands)
	if v == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ---------------------------------------------------------------------------
// Cupón
// ---------------------------------------------------------------------------

var cuponRules = []rule{
	{regexp.MustCompile(`(?i)(?:cupón|cupon|ticket)[\s:#]*(\w+)`), 5},
	{regexp.MustCompile(`(?i)(?:nro|número|numero)[\s:]*(?:cupón|cupon|ticket)[\s:#]*(\w+)`), 4},
	{regexp.MustCompile(`CUP[\s:#]*(\w+)`), 3},
}

// ExtractCupon returns the card-payment coupon reference (minimum 3 chars).
func ExtractCupon(text string) string {
	cands := collect(text, cuponRules, func(m []string) string {
		c := strings.TrimSpace(m[1])
		if len(c) < 3 {
			return ""
		}
		return c
	})
	return best(cands)
}

// ---------------------------------------------------------------------------
// Tipo de comprobante
// ---------------------------------------------------------------------------

var tipoComprobanteRules = []struct {
	re       *regexp.Regexp
	priority int
	tipo     string
}{
	// Tipo con letra en línea propia (recuadro del centro superior)
	{regexp.MustCompile(`(?m)^\s*(?:FACTURA|Factura)\s*([A-C])\s*$`), 10, "FACTURA"},
	{regexp.MustCompile(`(?m)^\s*(?:NOTA\s*DE\s*CR[EÉ]DITO|Nota\s*de\s*Cr[eé]dito)\s*([A-C])\s*$`), 10, "NOTA DE CREDITO"},
	{regexp.MustCompile(`(?m)^\s*(?:NOTA\s*DE\s*D[EÉ]BITO|Nota\s*de\s*D[eé]bito)\s*([A-C])\s*$`), 10, "NOTA DE DEBITO"},

	// Entre bordes dibujados
	{regexp.MustCompile(`(?i)[|\-=+*#]\s*FACTURA\s*([A-C])\s*[|\-=+*#]`), 9, "FACTURA"},
	{regexp.MustCompile(`(?i)[|\-=+*#]\s*(?:NOTA\s*DE\s*)?CR[EÉ]DITO\s*([A-C])\s*[|\-=+*#]`), 9, "NOTA DE CREDITO"},
	{regexp.MustCompile(`(?i)[|\-=+*#]\s*(?:NOTA\s*DE\s*)?D[EÉ]BITO\s*([A-C])\s*[|\-=+*#]`), 9, "NOTA DE DEBITO"},

	// Parte superior del documento
	{regexp.MustCompile(`(?is)\A.{0,200}?\bFACTURA\s*([A-C])\b`), 8, "FACTURA"},

	// Genéricos con letra
	{regexp.MustCompile(`\b(?:FACTURA|Factura)\s*([A-C])\b`), 7, "FACTURA"},
	{regexp.MustCompile(`\b(?:NOTA\s*DE\s*CR[EÉ]DITO|Nota\s*de\s*Cr[eé]dito)\s*([A-C])\b`), 7, "NOTA DE CREDITO"},
	{regexp.MustCompile(`\b(?:NOTA\s*DE\s*D[EÉ]BITO|Nota\s*de\s*D[eé]bito)\s*([A-C])\b`), 7, "NOTA DE DEBITO"},

	// Tipo sin letra
	{regexp.MustCompile(`\b(?:FACTURA|Factura)\b`), 5, "FACTURA"},
	{regexp.MustCompile(`\b(?:NOTA\s*DE\s*CR[EÉ]DITO|Nota\s*de\s*Cr[eé]dito)\b`), 5, "NOTA DE CREDITO"},
}

// ExtractTipoComprobante returns the document type label, e.g. "FACTURA A",
// "NOTA DE CREDITO B", or "FACTURA" when the letter is missing.
func ExtractTipoComprobante(text string) string {
	var cands []candidate
	for _, r := range tipoComprobanteRules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			tipo := r.tipo
			for i := 1; i < len(m); i++ {
				if len(m[i]) == 1 && m[i][0] >= 'A' && m[i][0] <= 'C' {
					tipo = r.tipo + " " + m[i]
					break
				}
			}
			cands = append(cands, candidate{value: tipo, priority: r.priority, source: m[0]})
		}
	}
	return best(cands)
}
