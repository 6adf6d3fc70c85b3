package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/facturaIA/comprobante-engine/internal/models"
)

// ComprobanteRecord is the persisted form of an extraction result.
type ComprobanteRecord struct {
	ID                uuid.UUID       `json:"id"`
	Fecha             *time.Time      `json:"fecha"`
	CUIT              string          `json:"cuit"`
	NumeroComprobante string          `json:"numero_comprobante"`
	CAE               string          `json:"cae"`
	TipoComprobante   string          `json:"tipo_comprobante"`
	RazonSocial       string          `json:"razon_social"`
	Importe           decimal.Decimal `json:"importe"`
	NetoGravado       decimal.Decimal `json:"neto_gravado"`
	Exento            decimal.Decimal `json:"exento"`
	Impuestos         decimal.Decimal `json:"impuestos"`
	Moneda            string          `json:"moneda"`
	Metodo            string          `json:"metodo"`
	Confidence        float64         `json:"confidence"`
	RawText           string          `json:"raw_text"`
	DatosJSON         string          `json:"datos_json"`
	ArchivoURL        string          `json:"archivo_url"`
	UsuarioID         uuid.UUID       `json:"usuario_id"`
	CreatedAt         time.Time       `json:"created_at"`
}

// SaveComprobante persists an extraction result into the tenant's schema.
func SaveComprobante(ctx context.Context, tenantAlias string, res *models.ExtractionResult, archivoURL string, usuarioID uuid.UUID) (*ComprobanteRecord, error) {
	if Pool == nil {
		return nil, errors.New("base de datos no configurada")
	}
	c := res.Datos
	if c == nil {
		return nil, errors.New("resultado sin datos")
	}

	datosJSON, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "marshal datos")
	}

	var fecha *time.Time
	if c.Fecha != "" {
		if t, err := time.Parse("2006-01-02", c.Fecha); err == nil {
			fecha = &t
		}
	}

	rec := &ComprobanteRecord{
		Fecha:             fecha,
		CUIT:              c.CUIT,
		NumeroComprobante: c.NumeroComprobante,
		CAE:               c.CAE,
		TipoComprobante:   c.TipoComprobante,
		RazonSocial:       c.RazonSocial,
		Importe:           c.Importe,
		NetoGravado:       c.NetoGravado,
		Exento:            c.Exento,
		Impuestos:         c.Impuestos,
		Moneda:            c.Moneda,
		Metodo:            res.Metodo,
		Confidence:        c.Confidence,
		RawText:           c.RawText,
		DatosJSON:         string(datosJSON),
		ArchivoURL:        archivoURL,
		UsuarioID:         usuarioID,
	}

	schema := GetSchemaForTenant(tenantAlias)
	query := fmt.Sprintf(`
		INSERT INTO %s.comprobantes (
			fecha, cuit, numero_comprobante, cae, tipo_comprobante, razon_social,
			importe, neto_gravado, exento, impuestos, moneda,
			metodo, confidence, raw_text, datos_json, archivo_url, usuario_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at
	`, schema)

	err = Pool.QueryRow(ctx, query,
		rec.Fecha, rec.CUIT, rec.NumeroComprobante, rec.CAE, rec.TipoComprobante, rec.RazonSocial,
		rec.Importe, rec.NetoGravado, rec.Exento, rec.Impuestos, rec.Moneda,
		rec.Metodo, rec.Confidence, rec.RawText, rec.DatosJSON, rec.ArchivoURL, rec.UsuarioID,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "insert comprobante")
	}
	return rec, nil
}

// GetComprobantes lists recent extractions for a tenant, newest first.
func GetComprobantes(ctx context.Context, tenantAlias string, limit int) ([]ComprobanteRecord, error) {
	if Pool == nil {
		return nil, errors.New("base de datos no configurada")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	schema := GetSchemaForTenant(tenantAlias)
	query := fmt.Sprintf(`
		SELECT id, fecha, COALESCE(cuit, ''), COALESCE(numero_comprobante, ''),
		       COALESCE(cae, ''), COALESCE(tipo_comprobante, ''), COALESCE(razon_social, ''),
		       COALESCE(importe, 0), COALESCE(neto_gravado, 0), COALESCE(exento, 0),
		       COALESCE(impuestos, 0), COALESCE(moneda, 'ARS'),
		       COALESCE(metodo, ''), COALESCE(confidence, 0), COALESCE(archivo_url, ''), created_at
		FROM %s.comprobantes
		ORDER BY created_at DESC
		LIMIT $1
	`, schema)

	rows, err := Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query comprobantes")
	}
	defer rows.Close()

	var out []ComprobanteRecord
	for rows.Next() {
		var rec ComprobanteRecord
		if err := rows.Scan(
			&rec.ID, &rec.Fecha, &rec.CUIT, &rec.NumeroComprobante,
			&rec.CAE, &rec.TipoComprobante, &rec.RazonSocial,
			&rec.Importe, &rec.NetoGravado, &rec.Exento,
			&rec.Impuestos, &rec.Moneda,
			&rec.Metodo, &rec.Confidence, &rec.ArchivoURL, &rec.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan comprobante")
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetComprobante fetches a single record by id.
func GetComprobante(ctx context.Context, tenantAlias string, id uuid.UUID) (*ComprobanteRecord, error) {
	if Pool == nil {
		return nil, errors.New("base de datos no configurada")
	}

	schema := GetSchemaForTenant(tenantAlias)
	query := fmt.Sprintf(`
		SELECT id, fecha, COALESCE(cuit, ''), COALESCE(numero_comprobante, ''),
		       COALESCE(cae, ''), COALESCE(tipo_comprobante, ''), COALESCE(razon_social, ''),
		       COALESCE(importe, 0), COALESCE(neto_gravado, 0), COALESCE(exento, 0),
		       COALESCE(impuestos, 0), COALESCE(moneda, 'ARS'),
		       COALESCE(metodo, ''), COALESCE(confidence, 0), COALESCE(raw_text, ''),
		       COALESCE(datos_json, ''), COALESCE(archivo_url, ''), created_at
		FROM %s.comprobantes
		WHERE id = $1
	`, schema)

	var rec ComprobanteRecord
	err := Pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Fecha, &rec.CUIT, &rec.NumeroComprobante,
		&rec.CAE, &rec.TipoComprobante, &rec.RazonSocial,
		&rec.Importe, &rec.NetoGravado, &rec.Exento,
		&rec.Impuestos, &rec.Moneda,
		&rec.Metodo, &rec.Confidence, &rec.RawText,
		&rec.DatosJSON, &rec.ArchivoURL, &rec.CreatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "get comprobante")
	}
	return &rec, nil
}
