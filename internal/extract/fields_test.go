package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCUIT(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"etiqueta CUIT con guiones",
			"CUIT: 30-71234567-8",
			"30-71234567-8",
		},
		{
			"once digitos sin separadores",
			"CUIT: 30712345678",
			"30-71234567-8",
		},
		{
			"emisor junto a ingresos brutos gana sobre el cliente",
			"ACME S.A.\nIngresos Brutos: 901-123456-7 CUIT 30-71234567-8\n" +
				strings.Repeat("relleno\n", 80) +
				"Cliente: PEREZ JUAN CUIT 20-12345678-3",
			"30-71234567-8",
		},
		{
			"sin CUIT",
			"documento sin identificadores",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCUIT(tt.text))
		})
	}
}

func TestFormatCUIT(t *testing.T) {
	assert.Equal(t, "30-71234567-8", FormatCUIT("30712345678"))
	assert.Equal(t, "30-71234567-8", FormatCUIT("30-71234567-8"))
	assert.Equal(t, "", FormatCUIT("123"))
	assert.Equal(t, "", FormatCUIT("3071234567X"))
}

func TestExtractNumeroComprobante(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"formato estandar",
			"Comprobante Nro: 00001-00012345",
			"00001-00012345",
		},
		{
			"con espacios",
			"Factura 00003 00000042",
			"00003-00000042",
		},
		{
			"trece digitos se parte en 5+8",
			"Factura Nro 0000100012345",
			"00001-00012345",
		},
		{
			"doce digitos se parte en 4+8",
			"Comprobante: 000100012345",
			"0001-00012345",
		},
		{
			"ocho digitos con punto de venta en el texto",
			"Punto de Venta: 3\nFactura Nro: 00012345",
			"00003-00012345",
		},
		{
			"ocho digitos sin punto de venta se descarta",
			"Factura Nro: 00012345",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractNumeroComprobante(tt.text))
		})
	}
}

func TestExtractPuntoDeVenta(t *testing.T) {
	pv, ok := extractPuntoDeVenta("Punto de Venta: 00004")
	require.True(t, ok)
	assert.Equal(t, 4, pv)

	pv, ok = extractPuntoDeVenta("Sucursal: 12")
	require.True(t, ok)
	assert.Equal(t, 12, pv)

	_, ok = extractPuntoDeVenta("sin referencias")
	assert.False(t, ok)
}

func TestExtractCAE(t *testing.T) {
	assert.Equal(t, "74123456789012", ExtractCAE("CAE N°: 74123456789012"))
	assert.Equal(t, "74123456789012", ExtractCAE("74123456789012 Vto: 10/04/2024"))

	// Secuencias degeneradas se rechazan
	assert.Equal(t, "", ExtractCAE("CAE: 00000000000000"))
	assert.Equal(t, "", ExtractCAE("CAE: 77777777777777"))
}

func TestExtractRazonSocialEmisorConCondicionIVA(t *testing.T) {
	// La condición fiscal del propio emisor no es una fila de cliente: el
	// nombre de cabecera gana y las descripciones de ítems no lo suplantan
	text := "DISTRIBUIDORA NORTE S.A.\n" +
		"IVA RESPONSABLE INSCRIPTO\n" +
		"CUIT: 30-71234567-8\n\n" +
		"1  Caja de tornillos  2  un. 1.000,00  2.000,00"
	assert.Equal(t, "DISTRIBUIDORA NORTE S.A.", ExtractRazonSocial(text))
}

func TestExtractRazonSocialDescartaEtiquetas(t *testing.T) {
	assert.Equal(t, "", ExtractRazonSocial("FACTURA A\nIVA RESPONSABLE INSCRIPTO"))
}

func TestExtractTipoComprobante(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"linea propia", "ACME S.A.\nFACTURA A\nCUIT 30-71234567-8", "FACTURA A"},
		{"entre bordes", "| FACTURA B |", "FACTURA B"},
		{"generica con letra", "le enviamos la Factura C adjunta", "FACTURA C"},
		{"nota de credito", "NOTA DE CREDITO B\nOriginal", "NOTA DE CREDITO B"},
		{"sin letra", "FACTURA\nOriginal", "FACTURA"},
		{"sin tipo", "remito interno", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTipoComprobante(tt.text))
		})
	}
}

func TestExtractImpuestosSumaDistintos(t *testing.T) {
	text := `IVA: $ 2.100,00
Retención Ganancias: $ 350,50
Impuestos Internos: $ 120,00`

	total, ok := ExtractImpuestos(text)
	require.True(t, ok)
	assert.True(t, total.Equal(mustDecimal(t, "2570.50")), "got %s", total)
}

func TestExtractImpuestosDeduplicaPorValor(t *testing.T) {
	// El mismo monto matcheado por dos patrones cuenta una sola vez
	text := "IVA: 2.100,00\nAlícuota: 21% 2.100,00"
	total, ok := ExtractImpuestos(text)
	require.True(t, ok)
	assert.True(t, total.Equal(mustDecimal(t, "2100")), "got %s", total)
}

func TestExtractNetoGravado(t *testing.T) {
	got, ok := ExtractNetoGravado("Neto Gravado: $ 10.000,00")
	require.True(t, ok)
	assert.True(t, got.Equal(mustDecimal(t, "10000")))

	// El calificador negativo invalida el match
	_, ok = ExtractNetoGravado("Subtotal Exento: 500,00")
	assert.False(t, ok)

	_, ok = ExtractNetoGravado("No Gravado: 500,00")
	assert.False(t, ok)
}

func TestExtractExento(t *testing.T) {
	got, ok := ExtractExento("Importe Exento: 1.500,00")
	require.True(t, ok)
	assert.True(t, got.Equal(mustDecimal(t, "1500")))

	got, ok = ExtractExento("No Gravado: 300,00")
	require.True(t, ok)
	assert.True(t, got.Equal(mustDecimal(t, "300")))
}

func TestExtractImporte(t *testing.T) {
	// El contexto "total" gana, y entre iguales gana el monto mayor
	text := "Subtotal 100,00\nTOTAL: $ 12.100,00\n$ 500,00"
	got, ok := ExtractImporte(text)
	require.True(t, ok)
	assert.True(t, got.Equal(mustDecimal(t, "12100")), "got %s", got)

	_, ok = ExtractImporte("sin montos")
	assert.False(t, ok)
}

func TestExtractCupon(t *testing.T) {
	assert.Equal(t, "987654", ExtractCupon("Cupón: 987654"))
	// Menos de 3 caracteres se descarta
	assert.Equal(t, "", ExtractCupon("Cupón: 12"))
}
