package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/facturaIA/comprobante-engine/internal/ai"
	"github.com/facturaIA/comprobante-engine/internal/classify"
	"github.com/facturaIA/comprobante-engine/internal/extract"
	"github.com/facturaIA/comprobante-engine/internal/models"
	"github.com/facturaIA/comprobante-engine/internal/prompts"
	"github.com/facturaIA/comprobante-engine/internal/reconcile"
	"github.com/facturaIA/comprobante-engine/internal/textprep"
)

// Extraction methods reported in results.
const (
	MetodoPipeline = "PIPELINE"
	MetodoSimple   = "SIMPLE"
	MetodoPatrones = "PATRONES"
)

// Orchestrator coordinates classification, prompt resolution, the provider
// chain and post-processing for a document.
type Orchestrator struct {
	providers  []ai.Provider
	limiters   map[string]*rate.Limiter
	prompts    *prompts.Manager
	classifier *classify.Classifier
	maxRetries int
}

// New builds an Orchestrator over an ordered provider chain. The order is
// the fallback order: the first provider that answers wins.
func New(providers []ai.Provider, pm *prompts.Manager, maxRetries int) *Orchestrator {
	limiters := make(map[string]*rate.Limiter, len(providers))
	for _, p := range providers {
		// 1 req/s con ráfagas cortas; suficiente para no tropezar con
		// los límites de los planes gratuitos
		limiters[p.Name()] = rate.NewLimiter(rate.Every(time.Second), 3)
	}
	var primary ai.Provider
	if len(providers) > 0 {
		primary = providers[0]
	}
	return &Orchestrator{
		providers:  providers,
		limiters:   limiters,
		prompts:    pm,
		classifier: classify.New(primary, pm),
		maxRetries: maxRetries,
	}
}

// ExtractData processes a document. With UsePipeline the two-step strategy
// (classify, then type-specific prompt) runs first and silently falls back
// to the simple strategy; without providers the pattern engine answers.
func (o *Orchestrator) ExtractData(ctx context.Context, req *models.ProcessRequest) (*models.ExtractionResult, error) {
	req.Text = textprep.Normalize(req.Text)

	if len(o.providers) == 0 && req.ForceAI {
		return nil, fmt.Errorf("no hay proveedores de IA configurados")
	}

	if len(o.providers) == 0 || (!req.ForceAI && req.Text == "") {
		return o.extractWithPatterns(req), nil
	}

	if req.UsePipeline {
		res, err := o.extractPipeline(ctx, req)
		if err == nil {
			return res, nil
		}
		logrus.WithError(err).Warn("pipeline falló, usando estrategia simple")
	}

	res, err := o.extractSimple(ctx, req)
	if err != nil {
		logrus.WithError(err).Warn("extracción por IA falló, usando patrones")
		return o.extractWithPatterns(req), nil
	}
	return res, nil
}

// extractPipeline classifies first and extracts with the type-specific
// prompt.
func (o *Orchestrator) extractPipeline(ctx context.Context, req *models.ProcessRequest) (*models.ExtractionResult, error) {
	clasificacion := o.classifier.Classify(ctx, req.Text, req.TenantID)
	logrus.WithFields(logrus.Fields{
		"tipo":      clasificacion.TipoDocumento,
		"confianza": clasificacion.Confianza,
		"motor":     clasificacion.Motor,
	}).Info("documento clasificado")

	clave := promptKeyForType(clasificacion.TipoDocumento)
	res, err := o.extractWithPrompt(ctx, req, clave)
	if err != nil {
		return nil, err
	}
	res.Metodo = MetodoPipeline
	res.Clasificacion = clasificacion
	o.finish(res, clasificacion.TipoDocumento)
	return res, nil
}

// extractSimple uses the universal prompt without prior classification.
func (o *Orchestrator) extractSimple(ctx context.Context, req *models.ProcessRequest) (*models.ExtractionResult, error) {
	res, err := o.extractWithPrompt(ctx, req, prompts.ClaveExtraccionUniversal)
	if err != nil {
		return nil, err
	}
	res.Metodo = MetodoSimple
	o.finish(res, "")
	return res, nil
}

// extractWithPrompt resolves the prompt, walks the provider chain and
// parses the winning response.
func (o *Orchestrator) extractWithPrompt(ctx context.Context, req *models.ProcessRequest, clave string) (*models.ExtractionResult, error) {
	var lastErr error
	for _, provider := range o.providers {
		p, err := o.prompts.Get(ctx, clave, req.TenantID, provider.Name())
		if err != nil {
			return nil, err
		}

		if limiter := o.limiters[provider.Name()]; limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		response, err := ai.GenerateWithRetry(ctx, provider, p.Render(req.Text), o.maxRetries)
		if err != nil {
			logrus.WithError(err).WithField("provider", provider.Name()).
				Warn("proveedor falló, probando el siguiente")
			o.prompts.RegistrarResultado(p.ID, false)
			lastErr = err
			continue
		}

		datos, err := ai.ParseComprobante(response, req.Text)
		if err != nil {
			logrus.WithError(err).WithField("provider", provider.Name()).
				Warn("respuesta inválida, probando el siguiente proveedor")
			o.prompts.RegistrarResultado(p.ID, false)
			lastErr = err
			continue
		}

		o.prompts.RegistrarResultado(p.ID, true)
		return &models.ExtractionResult{
			Datos:           datos,
			PromptUtilizado: clave,
			Success:         true,
		}, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no hay proveedores de IA configurados")
	}
	return nil, lastErr
}

// extractWithPatterns is the offline fallback over the regex engine.
func (o *Orchestrator) extractWithPatterns(req *models.ProcessRequest) *models.ExtractionResult {
	res := &models.ExtractionResult{
		Metodo:        MetodoPatrones,
		Clasificacion: classify.DefaultClassification(req.Text),
		Datos:         extract.Extract(req.Text),
		Success:       true,
	}
	o.finish(res, res.Clasificacion.TipoDocumento)
	return res
}

// finish runs the shared post-processing: punto de venta completion,
// reconciliation and the sufficiency check.
func (o *Orchestrator) finish(res *models.ExtractionResult, tipoDocumento string) {
	c := res.Datos
	if c == nil {
		return
	}

	// Los modelos devuelven a veces el número de comprobante sin el punto
	// de venta; completarlo desde el texto original
	if len(c.NumeroComprobante) == 8 && isAllDigits(c.NumeroComprobante) {
		if completo := extract.CompleteNumeroComprobante(c.NumeroComprobante, c.RawText); completo != "" {
			c.NumeroComprobante = completo
		}
	}

	r := reconcile.Validate(c, tipoDocumento)
	res.Advertencias = append(res.Advertencias, r.Advertencias...)

	if c.Confidence == 0 {
		c.Confidence = extract.Score(c)
	}
	res.Insuficiente = c.Fecha == "" && !c.Importe.IsPositive() && c.CUIT == ""
}

// ExtractResumen parses a credit-card statement with the pattern engine.
func (o *Orchestrator) ExtractResumen(text string) *models.ResumenTarjeta {
	return extract.ExtractResumenTarjeta(text)
}

// promptKeyForType maps a classification verdict to its extraction prompt.
func promptKeyForType(tipo string) string {
	switch tipo {
	case models.TipoFacturaA, models.TipoNotaCredito, models.TipoNotaDebito:
		return prompts.ClaveExtraccionFacturaA
	case models.TipoFacturaB:
		return prompts.ClaveExtraccionFacturaB
	case models.TipoFacturaC, models.TipoTicket:
		return prompts.ClaveExtraccionFacturaC
	case models.TipoDespacho:
		return prompts.ClaveDespachoAduana
	case "COMPROBANTE_IMPORTACION":
		return prompts.ClaveComprobanteImportacion
	default:
		return prompts.ClaveExtraccionUniversal
	}
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
