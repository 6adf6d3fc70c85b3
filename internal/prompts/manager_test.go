package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSinBaseUsaSeed(t *testing.T) {
	m := NewManager()

	p, err := m.Get(context.Background(), ClaveClasificador, "", "gemini")
	require.NoError(t, err)
	assert.Equal(t, ClaveClasificador, p.Clave)
	assert.True(t, p.Activo)
	assert.NotEmpty(t, p.Contenido)
	assert.Contains(t, p.Contenido, DocumentTextPlaceholder)
}

func TestGetClaveDesconocida(t *testing.T) {
	m := NewManager()
	_, err := m.Get(context.Background(), "NO_EXISTE", "", "")
	require.Error(t, err)
}

func TestGetCachea(t *testing.T) {
	m := NewManager()

	p1, err := m.Get(context.Background(), ClaveExtraccionUniversal, "tenant-1", "gemini")
	require.NoError(t, err)
	p2, err := m.Get(context.Background(), ClaveExtraccionUniversal, "tenant-1", "gemini")
	require.NoError(t, err)
	assert.Same(t, p1, p2)
}

func TestRenderReemplazaPlaceholder(t *testing.T) {
	p := &Prompt{Contenido: "Extraé los campos de:\n" + DocumentTextPlaceholder}
	out := p.Render("FACTURA A ...")
	assert.Equal(t, "Extraé los campos de:\nFACTURA A ...", out)
}

func TestRenderSinPlaceholderAdjunta(t *testing.T) {
	p := &Prompt{Contenido: "Extraé los campos."}
	out := p.Render("cuerpo")
	assert.True(t, strings.HasPrefix(out, "Extraé los campos."))
	assert.Contains(t, out, "cuerpo")
}

func TestSeedsCompletos(t *testing.T) {
	claves := []string{
		ClaveClasificador,
		ClaveExtraccionUniversal,
		ClaveExtraccionFacturaA,
		ClaveExtraccionFacturaB,
		ClaveExtraccionFacturaC,
		ClaveDespachoAduana,
		ClaveComprobanteImportacion,
		ClaveResumenTarjeta,
	}
	for _, clave := range claves {
		seed, ok := seedPrompts[clave]
		require.True(t, ok, clave)
		assert.Contains(t, seed, DocumentTextPlaceholder, clave)
	}
}

func TestRegistrarResultadoSinBaseNoHaceNada(t *testing.T) {
	m := NewManager()
	// sin pool configurado es un no-op, no debe entrar en pánico
	m.RegistrarResultado(42, true)
}

func TestInvalidate(t *testing.T) {
	m := NewManager()

	_, err := m.Get(context.Background(), ClaveExtraccionUniversal, "tenant-1", "gemini")
	require.NoError(t, err)
	_, err = m.Get(context.Background(), ClaveExtraccionUniversal, "", "gemini")
	require.NoError(t, err)

	m.invalidate(ClaveExtraccionUniversal, "tenant-1")

	assert.Zero(t, m.cache.ItemCount())
}
