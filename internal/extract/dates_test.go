package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func TestExtractFechaPrioridades(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"fecha de emision gana sobre vencimiento",
			"Vencimiento: 30/07/2024\nFecha de Emisión: 15/03/2024",
			"2024-03-15",
		},
		{
			"fecha simple",
			"Fecha: 01/02/2024",
			"2024-02-01",
		},
		{
			"fecha con guiones",
			"Fecha: 01-02-2024",
			"2024-02-01",
		},
		{
			"cualquier fecha cuando no hay contexto",
			"texto 25/12/2023 mas texto",
			"2023-12-25",
		},
		{
			"anio de dos digitos menor a 50",
			"Fecha: 15/03/24",
			"2024-03-15",
		},
		{
			"anio de dos digitos mayor a 50",
			"Fecha: 15/03/99",
			"1999-03-15",
		},
		{
			"formato ISO invertido",
			"2024/03/15",
			"2024-03-15",
		},
		{
			"sin fecha",
			"texto sin nada parecido",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractFechaAt(tt.text, fixedNow))
		})
	}
}

func TestExtractFechaRechazaInvalidas(t *testing.T) {
	// 31 de febrero no existe; debe caer a la siguiente candidata
	text := "Fecha: 31/02/2024\nVencimiento: 10/03/2024"
	assert.Equal(t, "2024-03-10", extractFechaAt(text, fixedNow))

	// Mes 13 imposible
	assert.Equal(t, "", extractFechaAt("Fecha: 10/13/2024", fixedNow))
}

func TestExtractFechaVentanaReciente(t *testing.T) {
	// Una fecha muy vieja con prioridad alta pierde contra una reciente de
	// prioridad menor
	text := "Fecha de Emisión: 01/01/2001\nvencimiento: 01/05/2024"
	assert.Equal(t, "2024-05-01", extractFechaAt(text, fixedNow))

	// Si todas las fechas son viejas, gana la de mayor prioridad igualmente
	text = "Fecha de Emisión: 01/01/2001\nvencimiento: 01/05/2002"
	assert.Equal(t, "2001-01-01", extractFechaAt(text, fixedNow))
}

func TestExtractFechaNoRecortaAnioDeCuatroDigitos(t *testing.T) {
	// Los patrones de año corto no deben leer "20" dentro de "2001" y
	// fabricar un candidato 2020
	assert.Equal(t, "2001-01-01", extractFechaAt("Fecha de Emisión: 01/01/2001", fixedNow))
}

func TestResolveDayMonthYear(t *testing.T) {
	day, month, year, ok := resolveDayMonthYear("15", "03", "2024")
	assert.True(t, ok)
	assert.Equal(t, []int{15, 3, 2024}, []int{day, month, year})

	day, month, year, ok = resolveDayMonthYear("2024", "03", "15")
	assert.True(t, ok)
	assert.Equal(t, []int{15, 3, 2024}, []int{day, month, year})

	_, _, _, ok = resolveDayMonthYear("45", "03", "2024")
	assert.False(t, ok)
}
