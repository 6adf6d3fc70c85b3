package reconcile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/facturaIA/comprobante-engine/internal/models"
)

// tolerance for the accounting identity check: 1% of the total.
var tolerancePct = decimal.NewFromFloat(0.01)

// Result reports what the reconciliation pass changed.
type Result struct {
	Corrected    bool
	Advertencias []string
}

// Validate enforces the Argentine invoice identity
//
//	importe = netoGravado + impuestos + exento
//
// on an extracted record, in place. The pass is idempotent: running it twice
// yields the same record. Rules, in order:
//
//  1. Non-itemized types (FACTURA B/C, TICKET) carry taxes inside the total:
//     impuestos and exento are forced to zero and gravado to the total.
//  2. When the total is known, exento is recomputed as
//     max(0, importe - gravado - impuestos) whenever the stated exento
//     disagrees, equals the total, or equals gravado.
//  3. A mismatch beyond 1% of the total is a warning, never an error: the
//     caller decides what to do with low-trust records.
func Validate(c *models.Comprobante, tipoDocumento string) Result {
	var res Result

	if c == nil {
		return res
	}

	if isNonItemized(tipoDocumento, c.TipoComprobante) {
		if c.Importe.IsPositive() {
			if !c.Impuestos.IsZero() || !c.Exento.IsZero() || !c.NetoGravado.Equal(c.Importe) {
				res.Corrected = true
			}
			c.Impuestos = decimal.Zero
			c.Exento = decimal.Zero
			c.NetoGravado = c.Importe
		}
		return res
	}

	if !c.Importe.IsPositive() {
		return res
	}

	exentoCalculado := c.Importe.Sub(c.NetoGravado).Sub(c.Impuestos)
	if exentoCalculado.IsNegative() {
		exentoCalculado = decimal.Zero
	}

	// Sobreescribir el exento declarado cuando contradice la identidad, o
	// cuando es claramente espurio (igual al total, o duplicado del gravado)
	sospechoso := c.Exento.Equal(c.Importe) ||
		(c.NetoGravado.Equal(c.Exento) && c.Exento.IsPositive())
	if !c.Exento.Equal(exentoCalculado) || sospechoso {
		if !c.Exento.Equal(exentoCalculado) {
			logrus.WithFields(logrus.Fields{
				"exento_declarado": c.Exento.String(),
				"exento_calculado": exentoCalculado.String(),
			}).Debug("corrigiendo exento por identidad contable")
			res.Corrected = true
		}
		c.Exento = exentoCalculado
	}

	suma := c.NetoGravado.Add(c.Impuestos).Add(c.Exento)
	diff := c.Importe.Sub(suma).Abs()
	if diff.GreaterThan(c.Importe.Mul(tolerancePct)) {
		res.Advertencias = append(res.Advertencias, fmt.Sprintf(
			"la suma de componentes (%s) difiere del total (%s) en más del 1%%",
			suma.StringFixed(2), c.Importe.StringFixed(2)))
	}
	return res
}

// isNonItemized reports whether the document type embeds taxes in the total
// (consumer-facing documents have no discriminated VAT).
func isNonItemized(tipoDocumento, tipoComprobante string) bool {
	switch tipoDocumento {
	case models.TipoFacturaB, models.TipoFacturaC, models.TipoTicket:
		return true
	}
	tc := strings.ToUpper(tipoComprobante)
	return strings.HasSuffix(tc, " B") || strings.HasSuffix(tc, " C") || strings.Contains(tc, "TICKET")
}
