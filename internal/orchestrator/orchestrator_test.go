package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaIA/comprobante-engine/internal/ai"
	"github.com/facturaIA/comprobante-engine/internal/models"
	"github.com/facturaIA/comprobante-engine/internal/prompts"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// fakeProvider answers from a response queue; with err set every call fails.
type fakeProvider struct {
	name      string
	responses []string
	err       error
	calls     int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	idx := p.calls
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return p.responses[idx], nil
}

func TestExtractDataSinProveedoresUsaPatrones(t *testing.T) {
	o := New(nil, prompts.NewManager(), 0)

	res, err := o.ExtractData(context.Background(), &models.ProcessRequest{
		Text: "FACTURA A\nCUIT: 30-71234567-8\nTOTAL: $ 1.210,00",
	})
	require.NoError(t, err)

	assert.Equal(t, MetodoPatrones, res.Metodo)
	assert.True(t, res.Success)
	require.NotNil(t, res.Clasificacion)
	assert.Equal(t, models.TipoFacturaA, res.Clasificacion.TipoDocumento)
	assert.Equal(t, "30-71234567-8", res.Datos.CUIT)
	assert.True(t, res.Datos.Importe.Equal(decimalFromString(t, "1210")))
	assert.False(t, res.Insuficiente)
}

func TestExtractDataForceAISinProveedores(t *testing.T) {
	o := New(nil, prompts.NewManager(), 0)
	_, err := o.ExtractData(context.Background(), &models.ProcessRequest{Text: "x", ForceAI: true})
	require.Error(t, err)
}

func TestExtractDataSimple(t *testing.T) {
	provider := &fakeProvider{
		name:      "gemini",
		responses: []string{`{"fecha": "2024-03-15", "cuit": "30-71234567-8", "importe": 1210}`},
	}
	o := New([]ai.Provider{provider}, prompts.NewManager(), 0)

	res, err := o.ExtractData(context.Background(), &models.ProcessRequest{Text: "texto del documento"})
	require.NoError(t, err)

	assert.Equal(t, MetodoSimple, res.Metodo)
	assert.True(t, res.Success)
	assert.Equal(t, prompts.ClaveExtraccionUniversal, res.PromptUtilizado)
	assert.Equal(t, "2024-03-15", res.Datos.Fecha)
	assert.False(t, res.Insuficiente)
	assert.InDelta(t, 0.45, res.Datos.Confidence, 0.001)
	assert.Equal(t, 1, provider.calls)
}

func TestExtractDataCaeAlSiguienteProveedor(t *testing.T) {
	caido := &fakeProvider{name: "gemini", err: errors.New("401 unauthorized")}
	sano := &fakeProvider{name: "openai", responses: []string{`{"cuit": "30-71234567-8"}`}}
	o := New([]ai.Provider{caido, sano}, prompts.NewManager(), 0)

	res, err := o.ExtractData(context.Background(), &models.ProcessRequest{Text: "texto"})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "30-71234567-8", res.Datos.CUIT)
	assert.Equal(t, 1, caido.calls)
	assert.Equal(t, 1, sano.calls)
}

func TestExtractDataReintentaTransitorioYCaeAlSiguiente(t *testing.T) {
	// Un proveedor con fallas transitorias agota sus reintentos antes de
	// ceder el turno; el resultado es el del proveedor sano
	caido := &fakeProvider{name: "gemini", err: ai.Transient(errors.New("503 service unavailable"))}
	sano := &fakeProvider{name: "openai", responses: []string{`{"fecha": "2024-03-15", "cuit": "30-71234567-8"}`}}
	o := New([]ai.Provider{caido, sano}, prompts.NewManager(), 1)

	res, err := o.ExtractData(context.Background(), &models.ProcessRequest{Text: "texto"})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "2024-03-15", res.Datos.Fecha)
	assert.Equal(t, "30-71234567-8", res.Datos.CUIT)
	assert.Equal(t, 2, caido.calls, "un intento inicial más un reintento")
	assert.Equal(t, 1, sano.calls)
}

func TestExtractDataTodosFallanUsaPatrones(t *testing.T) {
	p1 := &fakeProvider{name: "gemini", err: errors.New("401 unauthorized")}
	p2 := &fakeProvider{name: "openai", err: errors.New("400 bad request")}
	o := New([]ai.Provider{p1, p2}, prompts.NewManager(), 0)

	res, err := o.ExtractData(context.Background(), &models.ProcessRequest{
		Text: "FACTURA A\nTOTAL: $ 500,00",
	})
	require.NoError(t, err)

	assert.Equal(t, MetodoPatrones, res.Metodo)
	assert.True(t, res.Success)
	assert.True(t, res.Datos.Importe.Equal(decimalFromString(t, "500")))
}

func TestExtractDataPipeline(t *testing.T) {
	provider := &fakeProvider{
		name: "gemini",
		responses: []string{
			`{"tipoDocumento": "FACTURA_B", "confianza": 0.9}`,
			`{"fecha": "2024-03-15", "importe": 500, "impuestos": 84}`,
		},
	}
	o := New([]ai.Provider{provider}, prompts.NewManager(), 0)

	res, err := o.ExtractData(context.Background(), &models.ProcessRequest{
		Text:        "texto del documento",
		UsePipeline: true,
	})
	require.NoError(t, err)

	assert.Equal(t, MetodoPipeline, res.Metodo)
	require.NotNil(t, res.Clasificacion)
	assert.Equal(t, models.TipoFacturaB, res.Clasificacion.TipoDocumento)
	assert.Equal(t, prompts.ClaveExtraccionFacturaB, res.PromptUtilizado)
	assert.Equal(t, 2, provider.calls)

	// FACTURA_B no discrimina impuestos: van a cero y el gravado al total
	assert.True(t, res.Datos.Impuestos.IsZero())
	assert.True(t, res.Datos.NetoGravado.Equal(decimalFromString(t, "500")))
}

func TestFinishCompletaNumeroComprobante(t *testing.T) {
	provider := &fakeProvider{
		name:      "gemini",
		responses: []string{`{"numeroComprobante": "00012345", "fecha": "2024-03-15"}`},
	}
	o := New([]ai.Provider{provider}, prompts.NewManager(), 0)

	res, err := o.ExtractData(context.Background(), &models.ProcessRequest{
		Text: "Punto de Venta: 0003\nFactura electrónica",
	})
	require.NoError(t, err)
	assert.Equal(t, "00003-00012345", res.Datos.NumeroComprobante)
}

func TestExtractDataInsuficiente(t *testing.T) {
	provider := &fakeProvider{name: "gemini", responses: []string{`{}`}}
	o := New([]ai.Provider{provider}, prompts.NewManager(), 0)

	res, err := o.ExtractData(context.Background(), &models.ProcessRequest{Text: "ilegible"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Insuficiente)
}

func TestPromptKeyForType(t *testing.T) {
	cases := map[string]string{
		models.TipoFacturaA:       prompts.ClaveExtraccionFacturaA,
		models.TipoNotaCredito:    prompts.ClaveExtraccionFacturaA,
		models.TipoNotaDebito:     prompts.ClaveExtraccionFacturaA,
		models.TipoFacturaB:       prompts.ClaveExtraccionFacturaB,
		models.TipoFacturaC:       prompts.ClaveExtraccionFacturaC,
		models.TipoTicket:         prompts.ClaveExtraccionFacturaC,
		models.TipoDespacho:       prompts.ClaveDespachoAduana,
		"COMPROBANTE_IMPORTACION": prompts.ClaveComprobanteImportacion,
		models.TipoOtro:           prompts.ClaveExtraccionUniversal,
	}
	for tipo, want := range cases {
		assert.Equal(t, want, promptKeyForType(tipo), tipo)
	}
}
