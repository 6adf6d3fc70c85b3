package classify

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/facturaIA/comprobante-engine/internal/ai"
	"github.com/facturaIA/comprobante-engine/internal/models"
	"github.com/facturaIA/comprobante-engine/internal/prompts"
)

// Classifier decides the document type, first with an AI provider and
// falling back to local rules. It never returns an error: classification
// always produces a verdict, possibly a low-confidence default.
type Classifier struct {
	provider ai.Provider
	prompts  *prompts.Manager
}

// New creates a Classifier. provider may be nil; local rules are then the
// only engine.
func New(provider ai.Provider, pm *prompts.Manager) *Classifier {
	return &Classifier{provider: provider, prompts: pm}
}

// Classify returns the document type verdict for the given text.
func (c *Classifier) Classify(ctx context.Context, text, tenantID string) *models.Clasificacion {
	// Regla absoluta: la leyenda de la ley de transparencia fiscal solo
	// aparece en facturas B
	if reLey27743.MatchString(text) {
		return &models.Clasificacion{
			TipoDocumento: models.TipoFacturaB,
			Confianza:     0.99,
			Motor:         "regex",
		}
	}

	if c.provider != nil {
		if cl := c.classifyWithAI(ctx, text, tenantID); cl != nil {
			return cl
		}
	}
	return DefaultClassification(text)
}

func (c *Classifier) classifyWithAI(ctx context.Context, text, tenantID string) *models.Clasificacion {
	p, err := c.prompts.Get(ctx, prompts.ClaveClasificador, tenantID, c.provider.Name())
	if err != nil {
		logrus.WithError(err).Warn("no se pudo resolver el prompt del clasificador")
		return nil
	}

	response, err := c.provider.Generate(ctx, p.Render(text))
	if err != nil {
		logrus.WithError(err).WithField("provider", c.provider.Name()).
			Warn("clasificación por IA falló, usando reglas locales")
		return nil
	}

	var raw struct {
		TipoDocumento string   `json:"tipoDocumento"`
		Confianza     float64  `json:"confianza"`
		Subtipos      []string `json:"subtipos"`
	}
	if err := json.Unmarshal([]byte(ai.CleanResponse(response)), &raw); err != nil {
		logrus.WithError(err).Warn("respuesta del clasificador no es JSON válido")
		return nil
	}
	if raw.TipoDocumento == "" {
		return nil
	}
	return &models.Clasificacion{
		TipoDocumento: raw.TipoDocumento,
		Confianza:     raw.Confianza,
		Subtipos:      raw.Subtipos,
		Motor:         c.provider.Name(),
	}
}

var (
	reLey27743      = regexp.MustCompile(`(?i)LEY\s*27[.\s]?743`)
	reFacturaLetra  = regexp.MustCompile(`(?i)\bFACTURA\s*([A-C])\b|\bTIPO\s*([A-C])\b`)
	reDespacho      = regexp.MustCompile(`(?i)DESPACHO`)
	reAduana        = regexp.MustCompile(`(?i)ADUANA`)
	reTicket        = regexp.MustCompile(`(?i)\bTICKET\b|CONSUMIDOR\s*FINAL`)
	reNotaCredito   = regexp.MustCompile(`(?i)NOTA\s*DE\s*CR[EÉ]DITO`)
	reNotaDebito    = regexp.MustCompile(`(?i)NOTA\s*DE\s*D[EÉ]BITO`)
)

// DefaultClassification applies the local rule table. Always returns a
// verdict; when nothing matches the default is FACTURA_A at low confidence.
func DefaultClassification(text string) *models.Clasificacion {
	cl := &models.Clasificacion{Motor: "regex"}

	switch {
	case reLey27743.MatchString(text):
		cl.TipoDocumento = models.TipoFacturaB
		cl.Confianza = 0.99
	case reFacturaLetra.MatchString(text):
		m := reFacturaLetra.FindStringSubmatch(text)
		letra := m[1]
		if letra == "" {
			letra = m[2]
		}
		cl.TipoDocumento = "FACTURA_" + strings.ToUpper(letra)
		cl.Confianza = 0.8
	case reDespacho.MatchString(text) && reAduana.MatchString(text):
		cl.TipoDocumento = models.TipoDespacho
		cl.Confianza = 0.7
	case reNotaCredito.MatchString(text):
		cl.TipoDocumento = models.TipoNotaCredito
		cl.Confianza = 0.7
	case reNotaDebito.MatchString(text):
		cl.TipoDocumento = models.TipoNotaDebito
		cl.Confianza = 0.7
	case reTicket.MatchString(text):
		cl.TipoDocumento = models.TipoTicket
		cl.Confianza = 0.7
	default:
		cl.TipoDocumento = models.TipoFacturaA
		cl.Confianza = 0.5
	}
	return cl
}
