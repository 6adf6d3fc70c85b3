package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturaIA/comprobante-engine/internal/models"
)

var (
	jsonObjectRe    = regexp.MustCompile(`(?s)\{.*\}`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// CleanResponse strips markdown fences and surrounding prose from a model
// response, leaving the JSON object. Models wrap answers in ```json blocks
// or prepend explanations despite instructions.
func CleanResponse(response string) string {
	cleaned := strings.TrimSpace(response)
	backticks := string([]byte{96, 96, 96})
	cleaned = strings.ReplaceAll(cleaned, backticks+"json", "")
	cleaned = strings.ReplaceAll(cleaned, backticks, "")
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) {
		return cleaned
	}

	// Segundo intento: aislar el objeto JSON dentro de texto circundante
	if m := jsonObjectRe.FindString(cleaned); m != "" {
		return m
	}
	return cleaned
}

// ParseComprobante converts the model's JSON answer into a Comprobante.
// Numeric fields tolerate numbers, strings and strings with thousands
// separators; unknown keys are ignored.
func ParseComprobante(response, rawText string) (*models.Comprobante, error) {
	cleaned := CleanResponse(response)

	var raw struct {
		Fecha             string      `json:"fecha"`
		CUIT              string      `json:"cuit"`
		NumeroComprobante string      `json:"numeroComprobante"`
		CAE               string      `json:"cae"`
		TipoComprobante   string      `json:"tipoComprobante"`
		RazonSocial       string      `json:"razonSocial"`
		Importe           interface{} `json:"importe"`
		Total             interface{} `json:"total"` // alternative field name
		NetoGravado       interface{} `json:"netoGravado"`
		Exento            interface{} `json:"exento"`
		Impuestos         interface{} `json:"impuestos"`
		Descuento         interface{} `json:"descuento"`
		TipoAjuste        string      `json:"tipoAjuste"`
		Moneda            string      `json:"moneda"`
		Cupon             string      `json:"cupon"`
		LineItems         []struct {
			Numero         interface{} `json:"numero"`
			Descripcion    string      `json:"descripcion"`
			Cantidad       interface{} `json:"cantidad"`
			Unidad         string      `json:"unidad"`
			PrecioUnitario interface{} `json:"precioUnitario"`
			Subtotal       interface{} `json:"subtotal"`
			AlicuotaIVA    interface{} `json:"alicuotaIva"`
			ImporteIVA     interface{} `json:"importeIva"`
			TotalLinea     interface{} `json:"totalLinea"`
		} `json:"lineItems"`
		ImpuestosDetalle []struct {
			Tipo          string      `json:"tipo"`
			Descripcion   string      `json:"descripcion"`
			Alicuota      interface{} `json:"alicuota"`
			BaseImponible interface{} `json:"baseImponible"`
			Importe       interface{} `json:"importe"`
		} `json:"impuestosDetalle"`
		DatosEmisor *struct {
			RazonSocial       string `json:"razonSocial"`
			CUIT              string `json:"cuit"`
			Domicilio         string `json:"domicilio"`
			Localidad         string `json:"localidad"`
			CondicionIVA      string `json:"condicionIva"`
			IngresosBrutos    string `json:"ingresosBrutos"`
			InicioActividades string `json:"inicioActividades"`
			Telefono          string `json:"telefono"`
			Email             string `json:"email"`
		} `json:"datosEmisor"`
	}

	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		// Algunos modelos dejan comas colgantes antes de } o ]; una segunda
		// pasada las elimina antes de rendirse
		retry := trailingCommaRe.ReplaceAllString(cleaned, "$1")
		if retryErr := json.Unmarshal([]byte(retry), &raw); retryErr != nil {
			return nil, fmt.Errorf("JSON parse error: %w - Response: %s", err, cleaned)
		}
	}

	c := &models.Comprobante{
		Fecha:             normalizeISODate(raw.Fecha),
		CUIT:              raw.CUIT,
		NumeroComprobante: raw.NumeroComprobante,
		CAE:               raw.CAE,
		TipoComprobante:   raw.TipoComprobante,
		RazonSocial:       raw.RazonSocial,
		TipoAjuste:        raw.TipoAjuste,
		Moneda:            raw.Moneda,
		Cupon:             raw.Cupon,
		RawText:           rawText,
		ProcessedAt:       time.Now(),
	}
	if c.Moneda == "" {
		c.Moneda = "ARS"
	}

	c.Importe = parseDecimal(raw.Importe)
	if c.Importe.IsZero() {
		c.Importe = parseDecimal(raw.Total)
	}
	c.NetoGravado = parseDecimal(raw.NetoGravado)
	c.Exento = parseDecimal(raw.Exento)
	c.Impuestos = parseDecimal(raw.Impuestos)
	c.Descuento = parseDecimal(raw.Descuento)

	for i, item := range raw.LineItems {
		li := models.LineItem{
			Numero:         int(parseDecimal(item.Numero).IntPart()),
			Descripcion:    item.Descripcion,
			Unidad:         item.Unidad,
			Cantidad:       parseDecimal(item.Cantidad),
			PrecioUnitario: parseDecimal(item.PrecioUnitario),
			Subtotal:       parseDecimal(item.Subtotal),
			TotalLinea:     parseDecimal(item.TotalLinea),
		}
		if li.Numero == 0 {
			li.Numero = i + 1
		}
		if li.TotalLinea.IsZero() {
			li.TotalLinea = li.Subtotal
		}
		if d := parseDecimal(item.AlicuotaIVA); !d.IsZero() {
			li.AlicuotaIVA = &d
		}
		if d := parseDecimal(item.ImporteIVA); !d.IsZero() {
			li.ImporteIVA = &d
		}
		c.LineItems = append(c.LineItems, li)
	}

	for _, td := range raw.ImpuestosDetalle {
		detail := models.TaxDetail{
			Tipo:        td.Tipo,
			Descripcion: td.Descripcion,
			Importe:     parseDecimal(td.Importe),
		}
		if d := parseDecimal(td.Alicuota); !d.IsZero() {
			detail.Alicuota = &d
		}
		if d := parseDecimal(td.BaseImponible); !d.IsZero() {
			detail.BaseImponible = &d
		}
		c.ImpuestosDetalle = append(c.ImpuestosDetalle, detail)
	}

	if raw.DatosEmisor != nil {
		c.DatosEmisor = &models.DatosEmisor{
			RazonSocial:       raw.DatosEmisor.RazonSocial,
			CUIT:              raw.DatosEmisor.CUIT,
			Domicilio:         raw.DatosEmisor.Domicilio,
			Localidad:         raw.DatosEmisor.Localidad,
			CondicionIVA:      raw.DatosEmisor.CondicionIVA,
			IngresosBrutos:    raw.DatosEmisor.IngresosBrutos,
			InicioActividades: raw.DatosEmisor.InicioActividades,
			Telefono:          raw.DatosEmisor.Telefono,
			Email:             raw.DatosEmisor.Email,
		}
	}

	return c, nil
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// normalizeISODate accepts the date formats models actually return and
// canonicalizes to YYYY-MM-DD. Unparseable input passes through empty.
func normalizeISODate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if isoDateRe.MatchString(s) {
		return s[:10]
	}
	for _, format := range []string{"02/01/2006", "02-01-2006", "2006/01/02"} {
		if t, err := time.Parse(format, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// parseDecimal handles flexible number parsing from interface{}.
// Supports: numbers, strings, strings with commas (e.g., "3,965.34")
func parseDecimal(v interface{}) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}

	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case string:
		if val == "" {
			return decimal.Zero
		}
		cleaned := strings.ReplaceAll(val, ",", "")
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero
		}
		return d
	case json.Number:
		if val == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(string(val))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
