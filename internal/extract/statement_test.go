package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resumenICBC = `RESUMEN DE CUENTA
TARJETA DE CREDITO VISA
PEREZ JUAN CARLOS
Tarjeta terminada en 4532
CIERRE ACTUAL: 15/03/2024
VENCIMIENTO ACTUAL: 25/03/2024

24 Ene 15 123456 * SUPERMERCADO EJEMPLO    1.234,56
24 Ene 16 654321  PAGO RECIBIDO    -1.000,00`

const resumenBBVA = `RESUMEN DE TARJETA DE CREDITO
GOMEZ MARIA LAURA
Cuenta Nro: 7788
CIERRE: 10/02/2024

15-Ene-24 SUPERMERCADO DIA C.02/06 123456 1.234,56
20-Ene-24 FARMACIA CENTRAL  654321  500,00`

func TestExtractResumenTarjetaICBC(t *testing.T) {
	resumen := ExtractResumenTarjeta(resumenICBC)
	require.NotNil(t, resumen)

	md := resumen.Metadata
	assert.Equal(t, "202403", md.Periodo)
	assert.Equal(t, "2024-03-15", md.FechaCierre)
	assert.Equal(t, "2024-03-25", md.FechaVencimiento)
	assert.Equal(t, "4532", md.NumeroTarjeta)
	assert.Equal(t, "PEREZ JUAN CARLOS", md.TitularNombre)

	require.Len(t, resumen.Transacciones, 2)

	tx := resumen.Transacciones[0]
	assert.Equal(t, "2024-01-15", tx.Fecha)
	assert.Equal(t, "SUPERMERCADO EJEMPLO", tx.Descripcion)
	assert.Equal(t, "123456", tx.NumeroCupon)
	assert.True(t, tx.Importe.Equal(mustDecimal(t, "1234.56")))
	assert.Equal(t, "ARS", tx.Moneda)
	assert.Empty(t, tx.Cuotas)

	// Los pagos vienen con signo negativo y lo conservan
	pago := resumen.Transacciones[1]
	assert.Equal(t, "PAGO RECIBIDO", pago.Descripcion)
	assert.True(t, pago.Importe.Equal(mustDecimal(t, "-1000")))
}

func TestExtractResumenTarjetaBBVA(t *testing.T) {
	resumen := ExtractResumenTarjeta(resumenBBVA)
	require.NotNil(t, resumen)

	md := resumen.Metadata
	assert.Equal(t, "202402", md.Periodo)
	assert.Equal(t, "2024-02-10", md.FechaCierre)
	assert.Equal(t, "7788", md.NumeroTarjeta)
	assert.Equal(t, "GOMEZ MARIA LAURA", md.TitularNombre)

	require.Len(t, resumen.Transacciones, 2)

	tx := resumen.Transacciones[0]
	assert.Equal(t, "2024-01-15", tx.Fecha)
	assert.Equal(t, "SUPERMERCADO DIA", tx.Descripcion)
	assert.Equal(t, "C.02/06", tx.Cuotas)
	assert.Equal(t, "123456", tx.NumeroCupon)
	assert.True(t, tx.Importe.Equal(mustDecimal(t, "1234.56")))

	tx2 := resumen.Transacciones[1]
	assert.Equal(t, "FARMACIA CENTRAL", tx2.Descripcion)
	assert.Empty(t, tx2.Cuotas)
	assert.True(t, tx2.Importe.Equal(mustDecimal(t, "500")))
}

func TestExtractResumenTarjetaICBCOrdenAnioMesDia(t *testing.T) {
	// Las filas ICBC empiezan con el año de dos dígitos, no con el día
	resumen := ExtractResumenTarjeta("25 Agosto 01 304145 *  VEA SM 983    225.664,28")
	require.Len(t, resumen.Transacciones, 1)

	tx := resumen.Transacciones[0]
	assert.Equal(t, "2025-08-01", tx.Fecha)
	assert.Equal(t, "VEA SM 983", tx.Descripcion)
	assert.Equal(t, "304145", tx.NumeroCupon)
	assert.True(t, tx.Importe.Equal(mustDecimal(t, "225664.28")))
}

func TestExtractResumenMetadataCierreConMes(t *testing.T) {
	md := extractResumenMetadata("CIERRE DEL PERIODO: 15 de Marzo de 2024")
	assert.Equal(t, "202403", md.Periodo)
	assert.Equal(t, "2024-03-15", md.FechaCierre)
}

func TestExtractResumenSinFilas(t *testing.T) {
	resumen := ExtractResumenTarjeta("CIERRE: 10/02/2024\nsin consumos en el período")
	require.NotNil(t, resumen)
	assert.Equal(t, "202402", resumen.Metadata.Periodo)
	assert.Empty(t, resumen.Transacciones)
}

func TestExpandYear(t *testing.T) {
	assert.Equal(t, 2024, expandYear("24"))
	assert.Equal(t, 1998, expandYear("98"))
	assert.Equal(t, 2024, expandYear("2024"))
	assert.Equal(t, 2003, expandYear("3"))
	assert.Equal(t, 0, expandYear("abc"))
	assert.Equal(t, 0, expandYear("2150"))
}

func TestIsResumenTarjeta(t *testing.T) {
	assert.True(t, IsResumenTarjeta("RESUMEN DE CUENTA\nPAGO MINIMO: 5.000,00"))
	assert.True(t, IsResumenTarjeta("Tarjeta de Crédito Visa"))
	assert.False(t, IsResumenTarjeta("FACTURA A\nCUIT: 30-11222333-9"))
}
