package extract

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/facturaIA/comprobante-engine/internal/models"
)

// Extract runs the pattern-based extraction pipeline over plain text and
// returns the structured record. It never fails: missing fields are left
// zero-valued and reflected in the confidence score.
func Extract(text string) *models.Comprobante {
	c := &models.Comprobante{
		Fecha:             ExtractFecha(text),
		CUIT:              ExtractCUIT(text),
		NumeroComprobante: ExtractNumeroComprobante(text),
		CAE:               ExtractCAE(text),
		TipoComprobante:   ExtractTipoComprobante(text),
		RazonSocial:       ExtractRazonSocial(text),
		Moneda:            "ARS",
		Cupon:             ExtractCupon(text),
		LineItems:         ExtractLineItems(text),
		ImpuestosDetalle:  ExtractTaxDetails(text),
		DatosEmisor:       ExtractDatosEmisor(text),
		RawText:           text,
		ProcessedAt:       time.Now(),
	}

	if importe, ok := ExtractImporte(text); ok {
		c.Importe = importe
	}
	if gravado, ok := ExtractNetoGravado(text); ok {
		c.NetoGravado = gravado
	}
	if exento, ok := ExtractExento(text); ok {
		c.Exento = exento
	}
	if impuestos, ok := ExtractImpuestos(text); ok {
		c.Impuestos = impuestos
	}

	// OCR suele duplicar la misma cifra en las columnas gravado y exento;
	// cuando coinciden el exento es el espurio
	if c.NetoGravado.IsPositive() && c.NetoGravado.Equal(c.Exento) {
		logrus.WithField("monto", c.NetoGravado.String()).
			Debug("gravado y exento idénticos, descartando exento")
		c.Exento = decimal.Zero
	}

	c.Confidence = calculateConfidence(c)
	return c
}

// Score recomputes the confidence of a record. Used on AI-produced records
// so both engines report comparable scores.
func Score(c *models.Comprobante) float64 {
	return calculateConfidence(c)
}

// calculateConfidence scores extraction completeness:
// - Core fiscal fields (fecha, cuit, importe): 0.15 each
// - Identity fields (número, tipo, razón social): 0.10 each
// - Supporting fields (CAE, gravado, impuestos, detalle): 0.05 each
// Capped at 1.0.
func calculateConfidence(c *models.Comprobante) float64 {
	score := 0.0

	if c.Fecha != "" {
		score += 0.15
	}
	if c.CUIT != "" {
		score += 0.15
	}
	if c.Importe.IsPositive() {
		score += 0.15
	}

	if c.NumeroComprobante != "" {
		score += 0.10
	}
	if c.TipoComprobante != "" {
		score += 0.10
	}
	if c.RazonSocial != "" {
		score += 0.10
	}

	if c.CAE != "" {
		score += 0.05
	}
	if c.NetoGravado.IsPositive() {
		score += 0.05
	}
	if c.Impuestos.IsPositive() {
		score += 0.05
	}
	if len(c.LineItems) > 0 || len(c.ImpuestosDetalle) > 0 {
		score += 0.05
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
