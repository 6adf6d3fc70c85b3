package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento reconocidos por el motor de extracción.
const (
	TipoFacturaA     = "FACTURA_A"
	TipoFacturaB     = "FACTURA_B"
	TipoFacturaC     = "FACTURA_C"
	TipoNotaCredito  = "NOTA_CREDITO"
	TipoNotaDebito   = "NOTA_DEBITO"
	TipoTicket       = "TICKET"
	TipoDespacho     = "DESPACHO_ADUANA"
	TipoOtro         = "OTRO"
)

// Comprobante is the structured record produced by the extraction engine
// for an Argentine fiscal document (AFIP fields)
type Comprobante struct {
	// Identificación fiscal
	Fecha             string `json:"fecha,omitempty"`             // ISO YYYY-MM-DD
	CUIT              string `json:"cuit,omitempty"`              // NN-NNNNNNNN-N
	NumeroComprobante string `json:"numeroComprobante,omitempty"` // NNNNN-NNNNNNNN
	CAE               string `json:"cae,omitempty"`               // 14 dígitos
	TipoComprobante   string `json:"tipoComprobante,omitempty"`   // FACTURA A/B/C, NOTA DE CREDITO A, etc.
	RazonSocial       string `json:"razonSocial,omitempty"`       // Razón social del emisor

	// Montos
	Importe     decimal.Decimal `json:"importe,omitempty"`     // Total del comprobante
	NetoGravado decimal.Decimal `json:"netoGravado,omitempty"` // Base imponible
	Exento      decimal.Decimal `json:"exento,omitempty"`      // Importe exento / no gravado
	Impuestos   decimal.Decimal `json:"impuestos,omitempty"`   // Suma de todos los impuestos
	Descuento   decimal.Decimal `json:"descuento,omitempty"`   // Descuento o recargo
	TipoAjuste  string          `json:"tipoAjuste,omitempty"`  // "descuento" o "recargo"
	Moneda      string          `json:"moneda,omitempty"`      // Default: ARS

	// Pago con tarjeta
	Cupon string `json:"cupon,omitempty"`

	// Detalle
	LineItems        []LineItem  `json:"lineItems,omitempty"`
	ImpuestosDetalle []TaxDetail `json:"impuestosDetalle,omitempty"`

	// Datos del emisor (zona superior del documento)
	DatosEmisor *DatosEmisor `json:"datosEmisor,omitempty"`

	// Metadata
	RawText     string    `json:"rawText,omitempty"`
	Confidence  float64   `json:"confidence"`
	ProcessedAt time.Time `json:"processedAt"`
}

// LineItem is a product/service row from the invoice body
type LineItem struct {
	Numero         int              `json:"numero"`                   // 1-based
	Descripcion    string           `json:"descripcion"`
	Cantidad       decimal.Decimal  `json:"cantidad"`
	Unidad         string           `json:"unidad,omitempty"`         // un, kg, m, lt, hs
	PrecioUnitario decimal.Decimal  `json:"precioUnitario"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	AlicuotaIVA    *decimal.Decimal `json:"alicuotaIva,omitempty"`    // nil when unknown
	ImporteIVA     *decimal.Decimal `json:"importeIva,omitempty"`
	TotalLinea     decimal.Decimal  `json:"totalLinea"`
}

// Tax detail kinds.
const (
	ImpuestoIVA        = "IVA"
	ImpuestoPercepcion = "PERCEPCION"
	ImpuestoRetencion  = "RETENCION"
	ImpuestoInterno    = "IMPUESTO_INTERNO"
)

// TaxDetail is one itemized tax row (IVA por alícuota, percepción, retención,
// impuesto interno)
type TaxDetail struct {
	Tipo          string           `json:"tipo"`
	Descripcion   string           `json:"descripcion"`
	Alicuota      *decimal.Decimal `json:"alicuota,omitempty"`
	BaseImponible *decimal.Decimal `json:"baseImponible,omitempty"`
	Importe       decimal.Decimal  `json:"importe"`
}

// DatosEmisor holds the issuer-box data found in the document header
type DatosEmisor struct {
	RazonSocial       string `json:"razonSocial,omitempty"`
	CUIT              string `json:"cuit,omitempty"`
	Domicilio         string `json:"domicilio,omitempty"`
	Localidad         string `json:"localidad,omitempty"`
	CondicionIVA      string `json:"condicionIva,omitempty"`      // RESPONSABLE INSCRIPTO, MONOTRIBUTO, etc.
	IngresosBrutos    string `json:"ingresosBrutos,omitempty"`    // número o "exento"
	InicioActividades string `json:"inicioActividades,omitempty"` // ISO YYYY-MM-DD
	Telefono          string `json:"telefono,omitempty"`
	Email             string `json:"email,omitempty"`
}

// Clasificacion is the classifier's verdict for a document
type Clasificacion struct {
	TipoDocumento string   `json:"tipoDocumento"`
	Confianza     float64  `json:"confianza"`
	Subtipos      []string `json:"subtipos,omitempty"`
	Motor         string   `json:"motor,omitempty"` // provider name or "regex"
}

// ResumenTarjeta is the parsed credit-card statement
type ResumenTarjeta struct {
	Metadata      ResumenMetadata       `json:"metadata"`
	Transacciones []ResumenTransaccion  `json:"transacciones"`
}

// ResumenMetadata describes the statement header
type ResumenMetadata struct {
	Periodo          string `json:"periodo,omitempty"`       // YYYYMM
	NumeroTarjeta    string `json:"numeroTarjeta,omitempty"` // últimos 4 dígitos
	TitularNombre    string `json:"titularNombre,omitempty"`
	FechaCierre      string `json:"fechaCierre,omitempty"`      // ISO
	FechaVencimiento string `json:"fechaVencimiento,omitempty"` // ISO
}

// ResumenTransaccion is one consumption row from the statement
type ResumenTransaccion struct {
	Fecha       string          `json:"fecha"` // ISO
	Descripcion string          `json:"descripcion"`
	NumeroCupon string          `json:"numeroCupon,omitempty"`
	Importe     decimal.Decimal `json:"importe"`
	Cuotas      string          `json:"cuotas,omitempty"` // e.g. "C.05/06"
	Moneda      string          `json:"moneda"`
}

// ExtractionResult wraps the engine output with processing metadata
type ExtractionResult struct {
	Metodo          string         `json:"metodo"` // PIPELINE, SIMPLE, PATRONES
	Clasificacion   *Clasificacion `json:"clasificacion,omitempty"`
	Datos           *Comprobante   `json:"datos"`
	PromptUtilizado string         `json:"promptUtilizado,omitempty"`
	// Insuficiente marks records where none of fecha/importe/cuit were
	// recovered; the caller decides whether that is fatal.
	Insuficiente bool     `json:"insuficiente,omitempty"`
	Advertencias []string `json:"advertencias,omitempty"`
	Success      bool     `json:"success"`
}

// ProcessRequest is the API input for document processing
type ProcessRequest struct {
	Text     string `json:"text"`
	TenantID string `json:"tenantId,omitempty"`
	// UsePipeline enables the two-step classify+extract strategy when the
	// tenant's plan allows it.
	UsePipeline bool `json:"usePipeline"`
	ForceAI     bool `json:"forceAI"`
}

// ProcessResponse is the API output for document processing
type ProcessResponse struct {
	Success       bool              `json:"success"`
	Resultado     *ExtractionResult `json:"resultado,omitempty"`
	Error         string            `json:"error,omitempty"`
	TotalDuration float64           `json:"totalDuration"`
}

// Config represents the service configuration
type Config struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	AI AIConfig `yaml:"ai"`

	Cache CacheConfig `yaml:"cache"`
}

// AIConfig represents AI provider configuration
type AIConfig struct {
	Gemini    GeminiConfig    `yaml:"gemini"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Ollama    OllamaConfig    `yaml:"ollama"`

	// MaxRetries per provider call on transient errors
	MaxRetries int `yaml:"max_retries"`
}

// GeminiConfig for Google Gemini (primary provider)
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-1.5-flash"
}

// AnthropicConfig for Anthropic Claude (secondary)
type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"` // Default: "claude-3-haiku-20240307"
}

// OpenAIConfig for OpenAI (tertiary)
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"` // Default: "gpt-4o-mini"
}

// OllamaConfig for local Ollama (last resort, non-critical paths)
type OllamaConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"` // Default: "http://localhost:11434"
	Model   string `yaml:"model"`    // e.g. "llama3.2"
}

// CacheConfig controls the prompt template cache
type CacheConfig struct {
	PromptTTLSeconds int `yaml:"prompt_ttl_seconds"` // Default: 300
}
