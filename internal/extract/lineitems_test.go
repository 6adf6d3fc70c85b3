package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaIA/comprobante-engine/internal/models"
)

func TestExtractLineItemsNumerado(t *testing.T) {
	text := `Detalle de la operación
1  Servicio de consultoría  2  un. 1.500,00  3.000,00
2  Licencia anual  1  un. 2.000,00  2.000,00
Subtotal: 5.000,00`

	items := ExtractLineItems(text)
	require.Len(t, items, 2)

	assert.Equal(t, 1, items[0].Numero)
	assert.Equal(t, "Servicio de consultoría", items[0].Descripcion)
	assert.Equal(t, "un", items[0].Unidad)
	assert.True(t, items[0].Cantidad.Equal(mustDecimal(t, "2")))
	assert.True(t, items[0].PrecioUnitario.Equal(mustDecimal(t, "1500")))
	assert.True(t, items[0].Subtotal.Equal(mustDecimal(t, "3000")))
	assert.True(t, items[0].TotalLinea.Equal(mustDecimal(t, "3000")))

	assert.Equal(t, 2, items[1].Numero)
	assert.True(t, items[1].Subtotal.Equal(mustDecimal(t, "2000")))
}

func TestExtractLineItemsSinNumero(t *testing.T) {
	text := `Servicio mensual    1    5.000,00    5.000,00
Soporte extendido   2    1.000,00    2.000,00`

	items := ExtractLineItems(text)
	require.Len(t, items, 2)

	// Numeración automática cuando la fila no trae columna de número
	assert.Equal(t, 1, items[0].Numero)
	assert.Equal(t, 2, items[1].Numero)
	assert.Equal(t, "Servicio mensual", items[0].Descripcion)
	assert.True(t, items[0].Cantidad.Equal(mustDecimal(t, "1")))
	assert.True(t, items[1].Subtotal.Equal(mustDecimal(t, "2000")))
}

func TestExtractLineItemsDescartaFilasInvalidas(t *testing.T) {
	text := `1  Item sin cantidad  0  un. 100,00  0,00
2  Item válido  1  un. 100,00  100,00`

	items := ExtractLineItems(text)
	require.Len(t, items, 1)
	assert.Equal(t, "Item válido", items[0].Descripcion)
}

func TestExtractLineItemsSinFilas(t *testing.T) {
	assert.Nil(t, ExtractLineItems("FACTURA A\nTOTAL: 1.000,00"))
}

func TestExtractTaxDetails(t *testing.T) {
	text := `IVA 21%: $ 2.100,00
IVA 10,5%: $ 525,00
Percepción IIBB: $ 350,50
Impuestos Internos: $ 120,00`

	details := ExtractTaxDetails(text)
	require.Len(t, details, 4)

	byDesc := make(map[string]models.TaxDetail, len(details))
	for _, d := range details {
		byDesc[d.Descripcion] = d
	}

	iva21, ok := byDesc["IVA 21%"]
	require.True(t, ok)
	assert.Equal(t, models.ImpuestoIVA, iva21.Tipo)
	require.NotNil(t, iva21.Alicuota)
	assert.True(t, iva21.Alicuota.Equal(mustDecimal(t, "21")))
	assert.True(t, iva21.Importe.Equal(mustDecimal(t, "2100")))

	iva105, ok := byDesc["IVA 10,5%"]
	require.True(t, ok)
	require.NotNil(t, iva105.Alicuota)
	assert.True(t, iva105.Alicuota.Equal(mustDecimal(t, "10.5")))

	perc, ok := byDesc["Percepción IIBB"]
	require.True(t, ok)
	assert.Equal(t, models.ImpuestoPercepcion, perc.Tipo)
	assert.Nil(t, perc.Alicuota)
	assert.True(t, perc.Importe.Equal(mustDecimal(t, "350.50")))

	internos, ok := byDesc["Impuestos Internos"]
	require.True(t, ok)
	assert.Equal(t, models.ImpuestoInterno, internos.Tipo)
}

func TestExtractTaxDetailsNoTomaLaTasaComoImporte(t *testing.T) {
	// "IVA 21%" sin monto no debe producir un detalle de $21
	details := ExtractTaxDetails("Operación alcanzada por IVA 21%")
	assert.Empty(t, details)
}

func TestExtractTaxDetailsDeduplica(t *testing.T) {
	// Mismo tipo, misma descripción normalizada y mismo monto: una sola entrada
	text := "IVA 21%: 2.100,00\nIVA 21% 2.100,00"
	details := ExtractTaxDetails(text)
	require.Len(t, details, 1)
	assert.True(t, details[0].Importe.Equal(mustDecimal(t, "2100")))
}

func TestExtractDatosEmisor(t *testing.T) {
	text := `ACME S.A.
Domicilio: Av. Corrientes 1234, CABA
IVA RESPONSABLE INSCRIPTO
Ingresos Brutos: 901-123456-7
Inicio de Actividades: 01/03/2010
Teléfono: (011) 4321-5678`

	de := ExtractDatosEmisor(text)
	require.NotNil(t, de)
	assert.Equal(t, "Av. Corrientes 1234, CABA", de.Domicilio)
	assert.Equal(t, "RESPONSABLE INSCRIPTO", de.CondicionIVA)
	assert.Equal(t, "901-123456-7", de.IngresosBrutos)
	assert.Equal(t, "2010-03-01", de.InicioActividades)
	assert.Equal(t, "(011) 4321-5678", de.Telefono)
}

func TestExtractDatosEmisorVacio(t *testing.T) {
	assert.Nil(t, ExtractDatosEmisor("texto sin datos del emisor"))
}
