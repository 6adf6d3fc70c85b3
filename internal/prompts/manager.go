package prompts

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/facturaIA/comprobante-engine/internal/db"
)

// Prompt claves known to the engine.
const (
	ClaveClasificador            = "CLASIFICADOR"
	ClaveExtraccionUniversal     = "EXTRACCION_UNIVERSAL"
	ClaveExtraccionFacturaA      = "EXTRACCION_FACTURA_A"
	ClaveExtraccionFacturaB      = "EXTRACCION_FACTURA_B"
	ClaveExtraccionFacturaC      = "EXTRACCION_FACTURA_C"
	ClaveDespachoAduana          = "EXTRACCION_DESPACHO_ADUANA"
	ClaveComprobanteImportacion  = "EXTRACCION_COMPROBANTE_IMPORTACION"
	ClaveResumenTarjeta          = "EXTRACCION_RESUMEN_TARJETA"
)

// DocumentTextPlaceholder is substituted with the document body when a
// prompt is rendered.
const DocumentTextPlaceholder = "{{DOCUMENT_TEXT}}"

// Prompt is one versioned template, scoped to a tenant or global.
type Prompt struct {
	ID         int64
	Clave      string
	TenantID   string // "" = global
	Motor      string // provider name, "" = any
	Contenido  string
	Version    int
	Activo     bool
	UsageCount int64
	LastUsedAt *time.Time
	UpdatedAt  time.Time
}

// Manager resolves prompt templates with a tenant → global fallback chain
// and a short TTL cache in front of the database. With no database it serves
// the built-in seed prompts.
type Manager struct {
	cache *gocache.Cache
}

// NewManager creates a Manager. TTL comes from PROMPT_CACHE_TTL (seconds),
// defaulting to 5 minutes.
func NewManager() *Manager {
	ttl := 5 * time.Minute
	if v := os.Getenv("PROMPT_CACHE_TTL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}
	return &Manager{cache: gocache.New(ttl, 2*ttl)}
}

func cacheKey(clave, tenantID, motor string) string {
	if tenantID == "" {
		tenantID = "global"
	}
	if motor == "" {
		motor = "any"
	}
	return clave + ":" + tenantID + ":" + motor
}

// Get resolves the active prompt for (clave, tenant, motor). Resolution
// order: tenant+motor, tenant+any, global+motor, global+any; within each
// scope the highest version wins. Falls back to the seed catalog when the
// database is unavailable or has no row.
func (m *Manager) Get(ctx context.Context, clave, tenantID, motor string) (*Prompt, error) {
	key := cacheKey(clave, tenantID, motor)
	if cached, found := m.cache.Get(key); found {
		return cached.(*Prompt), nil
	}

	p, err := m.lookup(ctx, clave, tenantID, motor)
	if err != nil {
		logrus.WithError(err).WithField("clave", clave).
			Warn("fallo la búsqueda de prompt en base, usando seed")
		p = nil
	}
	if p == nil {
		seed, ok := seedPrompts[clave]
		if !ok {
			return nil, errors.Errorf("prompt %q no encontrado", clave)
		}
		p = &Prompt{Clave: clave, Contenido: seed, Version: 0, Activo: true}
	}

	m.cache.SetDefault(key, p)
	return p, nil
}

func (m *Manager) lookup(ctx context.Context, clave, tenantID, motor string) (*Prompt, error) {
	if db.Pool == nil {
		return nil, nil
	}

	type scope struct{ tenant, motor string }
	scopes := []scope{}
	if tenantID != "" {
		if motor != "" {
			scopes = append(scopes, scope{tenantID, motor})
		}
		scopes = append(scopes, scope{tenantID, ""})
	}
	if motor != "" {
		scopes = append(scopes, scope{"", motor})
	}
	scopes = append(scopes, scope{"", ""})

	for _, s := range scopes {
		p, err := queryPrompt(ctx, clave, s.tenant, s.motor)
		if err != nil {
			return nil, errors.Wrap(err, "query prompt")
		}
		if p != nil {
			return p, nil
		}
	}
	return nil, nil
}

func queryPrompt(ctx context.Context, clave, tenantID, motor string) (*Prompt, error) {
	query := `
		SELECT id, clave, COALESCE(tenant_id, ''), COALESCE(motor, ''),
		       contenido, version, activo, usage_count, last_used_at, updated_at
		FROM prompts
		WHERE clave = $1
		  AND COALESCE(tenant_id, '') = $2
		  AND COALESCE(motor, '') = $3
		  AND activo = true
		ORDER BY version DESC
		LIMIT 1
	`
	var p Prompt
	err := db.Pool.QueryRow(ctx, query, clave, tenantID, motor).Scan(
		&p.ID, &p.Clave, &p.TenantID, &p.Motor,
		&p.Contenido, &p.Version, &p.Activo, &p.UsageCount, &p.LastUsedAt, &p.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Render substitutes the document text into the prompt body.
func (p *Prompt) Render(documentText string) string {
	if strings.Contains(p.Contenido, DocumentTextPlaceholder) {
		return strings.ReplaceAll(p.Contenido, DocumentTextPlaceholder, documentText)
	}
	return fmt.Sprintf("%s\n\nTexto del documento:\n%s", p.Contenido, documentText)
}

// Upsert saves a new version of a prompt (version = previous + 1) and
// invalidates every cache entry for its clave/tenant.
func (m *Manager) Upsert(ctx context.Context, p *Prompt) error {
	if db.Pool == nil {
		return errors.New("base de datos no configurada")
	}

	query := `
		INSERT INTO prompts (clave, tenant_id, motor, contenido, version, activo, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4,
		        COALESCE((SELECT MAX(version) FROM prompts
		                  WHERE clave = $1 AND COALESCE(tenant_id, '') = $2), 0) + 1,
		        true, NOW())
		RETURNING id, version
	`
	err := db.Pool.QueryRow(ctx, query, p.Clave, p.TenantID, p.Motor, p.Contenido).
		Scan(&p.ID, &p.Version)
	if err != nil {
		return errors.Wrap(err, "upsert prompt")
	}

	m.invalidate(p.Clave, p.TenantID)
	return nil
}

// invalidate drops every cached variant of (clave, tenant) plus the global
// fallbacks that may now resolve differently.
func (m *Manager) invalidate(clave, tenantID string) {
	prefix := clave + ":"
	for key := range m.cache.Items() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		if tenantID == "" || strings.HasPrefix(rest, tenantID+":") || strings.HasPrefix(rest, "global:") {
			m.cache.Delete(key)
		}
	}
}

// RegistrarResultado updates usage metrics for a prompt after an extraction
// attempt. Fire and forget: metric failures never affect the caller.
func (m *Manager) RegistrarResultado(promptID int64, exito bool) {
	if db.Pool == nil || promptID == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		query := `
			UPDATE prompts
			SET usage_count = usage_count + 1,
			    success_count = success_count + CASE WHEN $2 THEN 1 ELSE 0 END,
			    last_used_at = NOW()
			WHERE id = $1
		`
		if _, err := db.Pool.Exec(ctx, query, promptID, exito); err != nil {
			logrus.WithError(err).WithField("prompt_id", promptID).
				Debug("no se pudieron registrar métricas de uso del prompt")
		}
	}()
}
