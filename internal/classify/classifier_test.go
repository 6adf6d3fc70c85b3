package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaIA/comprobante-engine/internal/models"
	"github.com/facturaIA/comprobante-engine/internal/prompts"
)

type fakeProvider struct {
	name     string
	response string
	err      error
	calls    int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.response, f.err
}

func TestClassifyLey27743EsAbsoluta(t *testing.T) {
	// La leyenda de transparencia fiscal gana sin consultar al proveedor
	provider := &fakeProvider{name: "gemini", response: `{"tipoDocumento": "FACTURA_A", "confianza": 0.9}`}
	c := New(provider, prompts.NewManager())

	cl := c.Classify(context.Background(), "Régimen de Transparencia Fiscal al Consumidor Ley 27.743", "")
	require.NotNil(t, cl)
	assert.Equal(t, models.TipoFacturaB, cl.TipoDocumento)
	assert.Equal(t, 0.99, cl.Confianza)
	assert.Equal(t, "regex", cl.Motor)
	assert.Zero(t, provider.calls)
}

func TestClassifyConIA(t *testing.T) {
	provider := &fakeProvider{
		name:     "gemini",
		response: `{"tipoDocumento": "FACTURA_C", "confianza": 0.92, "subtipos": ["servicios"]}`,
	}
	c := New(provider, prompts.NewManager())

	cl := c.Classify(context.Background(), "Factura de servicios varios", "tenant-1")
	require.NotNil(t, cl)
	assert.Equal(t, models.TipoFacturaC, cl.TipoDocumento)
	assert.Equal(t, 0.92, cl.Confianza)
	assert.Equal(t, []string{"servicios"}, cl.Subtipos)
	assert.Equal(t, "gemini", cl.Motor)
	assert.Equal(t, 1, provider.calls)
}

func TestClassifyFallbackCuandoIAFalla(t *testing.T) {
	provider := &fakeProvider{name: "gemini", err: errors.New("503 service unavailable")}
	c := New(provider, prompts.NewManager())

	cl := c.Classify(context.Background(), "FACTURA A\nCUIT: 30-11222333-9", "")
	require.NotNil(t, cl)
	assert.Equal(t, models.TipoFacturaA, cl.TipoDocumento)
	assert.Equal(t, 0.8, cl.Confianza)
	assert.Equal(t, "regex", cl.Motor)
}

func TestClassifyFallbackConRespuestaInvalida(t *testing.T) {
	provider := &fakeProvider{name: "gemini", response: "no es json"}
	c := New(provider, prompts.NewManager())

	cl := c.Classify(context.Background(), "NOTA DE CRÉDITO electrónica", "")
	require.NotNil(t, cl)
	assert.Equal(t, models.TipoNotaCredito, cl.TipoDocumento)
	assert.Equal(t, "regex", cl.Motor)
}

func TestClassifySinProveedor(t *testing.T) {
	c := New(nil, prompts.NewManager())
	cl := c.Classify(context.Background(), "TICKET\nCONSUMIDOR FINAL", "")
	require.NotNil(t, cl)
	assert.Equal(t, models.TipoTicket, cl.TipoDocumento)
}

func TestDefaultClassification(t *testing.T) {
	cases := []struct {
		text      string
		tipo      string
		confianza float64
	}{
		{"FACTURA B original", models.TipoFacturaB, 0.8},
		{"Comprobante TIPO C", models.TipoFacturaC, 0.8},
		{"DESPACHO DE IMPORTACION\nADUANA BUENOS AIRES", models.TipoDespacho, 0.7},
		{"NOTA DE CREDITO A", models.TipoNotaCredito, 0.7},
		{"NOTA DE DEBITO por intereses", models.TipoNotaDebito, 0.7},
		{"TICKET 0001", models.TipoTicket, 0.7},
		{"documento sin señales claras", models.TipoFacturaA, 0.5},
	}
	for _, tc := range cases {
		cl := DefaultClassification(tc.text)
		assert.Equal(t, tc.tipo, cl.TipoDocumento, tc.text)
		assert.Equal(t, tc.confianza, cl.Confianza, tc.text)
		assert.Equal(t, "regex", cl.Motor, tc.text)
	}
}
