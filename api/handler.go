package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/facturaIA/comprobante-engine/internal/auth"
	"github.com/facturaIA/comprobante-engine/internal/db"
	"github.com/facturaIA/comprobante-engine/internal/extract"
	"github.com/facturaIA/comprobante-engine/internal/models"
	"github.com/facturaIA/comprobante-engine/internal/orchestrator"
	"github.com/facturaIA/comprobante-engine/internal/prompts"
	"github.com/facturaIA/comprobante-engine/internal/storage"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
	Version       = "1.0.0"
)

// Handler handles HTTP requests for document processing
type Handler struct {
	config  *models.Config
	orch    *orchestrator.Orchestrator
	prompts *prompts.Manager
}

// NewHandler creates a new API handler
func NewHandler(config *models.Config, orch *orchestrator.Orchestrator, pm *prompts.Manager) *Handler {
	return &Handler{
		config:  config,
		orch:    orch,
		prompts: pm,
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Public endpoints
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.HandleFunc("/api/login", auth.LoginHandler).Methods("POST")

	// Protected endpoints
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(auth.Middleware)

	protected.HandleFunc("/process-document", h.ProcessDocument).Methods("POST")
	protected.HandleFunc("/process-resumen", h.ProcessResumen).Methods("POST")
	protected.HandleFunc("/documents/upload", h.UploadDocument).Methods("POST")

	protected.HandleFunc("/comprobantes", h.GetComprobantes).Methods("GET")
	protected.HandleFunc("/comprobante/{id}", h.GetComprobante).Methods("GET")

	// Prompt administration
	protected.HandleFunc("/prompts/{clave}", h.GetPrompt).Methods("GET")
	protected.HandleFunc("/prompts/{clave}", h.UpsertPrompt).Methods("PUT")

	return router
}

// ProcessDocument runs the extraction engine over plain document text.
func (h *Handler) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	start := time.Now()

	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.TenantID == "" {
		req.TenantID = claims.TenantAlias
	}

	res, err := h.orch.ExtractData(r.Context(), &req)
	if err != nil {
		logrus.WithError(err).Error("extracción falló")
		json.NewEncoder(w).Encode(models.ProcessResponse{
			Success:       false,
			Error:         err.Error(),
			TotalDuration: time.Since(start).Seconds(),
		})
		return
	}

	// Persistir en background; el resultado vuelve igual si la base falla
	if db.Pool != nil {
		go func(res *models.ExtractionResult, tenant, userID string) {
			ctx, cancel := newBackgroundContext()
			defer cancel()
			uid, _ := uuid.Parse(userID)
			if _, err := db.SaveComprobante(ctx, tenant, res, "", uid); err != nil {
				logrus.WithError(err).Warn("no se pudo persistir el comprobante")
			}
		}(res, claims.TenantAlias, claims.UserID)
	}

	json.NewEncoder(w).Encode(models.ProcessResponse{
		Success:       true,
		Resultado:     res,
		TotalDuration: time.Since(start).Seconds(),
	})
}

// ProcessResumen parses a credit-card statement.
func (h *Handler) ProcessResumen(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if !extract.IsResumenTarjeta(req.Text) {
		writeError(w, http.StatusUnprocessableEntity, "el texto no parece un resumen de tarjeta")
		return
	}

	resumen := h.orch.ExtractResumen(req.Text)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"resumen": resumen,
	})
}

// UploadDocument stores the original file and processes its text form.
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	start := time.Now()

	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	text := r.FormValue("text")
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required (extracted document body)")
		return
	}

	var archivoURL string
	if storage.Client != nil {
		contentType := header.Header.Get("Content-Type")
		filename := fmt.Sprintf("%s%s", uuid.New().String(), storage.GetFileExtension(contentType))
		archivoURL, err = storage.UploadDocumento(r.Context(), claims.TenantAlias, filename, file, header.Size, contentType)
		if err != nil {
			logrus.WithError(err).Warn("no se pudo subir el archivo original")
		}
	}

	res, err := h.orch.ExtractData(r.Context(), &models.ProcessRequest{
		Text:        text,
		TenantID:    claims.TenantAlias,
		UsePipeline: r.FormValue("pipeline") == "true",
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if db.Pool != nil {
		ctx, cancel := newBackgroundContext()
		defer cancel()
		uid, _ := uuid.Parse(claims.UserID)
		if rec, err := db.SaveComprobante(ctx, claims.TenantAlias, res, archivoURL, uid); err == nil {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success":       true,
				"id":            rec.ID,
				"resultado":     res,
				"archivoUrl":    archivoURL,
				"totalDuration": time.Since(start).Seconds(),
			})
			return
		} else {
			logrus.WithError(err).Warn("no se pudo persistir el comprobante")
		}
	}

	json.NewEncoder(w).Encode(models.ProcessResponse{
		Success:       true,
		Resultado:     res,
		TotalDuration: time.Since(start).Seconds(),
	})
}

// GetComprobantes lists the tenant's recent extractions.
func (h *Handler) GetComprobantes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	recs, err := db.GetComprobantes(r.Context(), claims.TenantAlias, 100)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"comprobantes": recs,
	})
}

// GetComprobante returns one stored extraction, with a presigned URL for
// the original file when storage is configured.
func (h *Handler) GetComprobante(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	rec, err := db.GetComprobante(r.Context(), claims.TenantAlias, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "comprobante no encontrado")
		return
	}

	var presigned string
	if storage.Client != nil && rec.ArchivoURL != "" {
		presigned, _ = storage.GetPresignedURL(r.Context(), rec.ArchivoURL)
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":     true,
		"comprobante": rec,
		"archivoUrl":  presigned,
	})
}

// GetPrompt returns the active prompt for a clave (tenant scope first).
func (h *Handler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	clave := mux.Vars(r)["clave"]
	p, err := h.prompts.Get(r.Context(), clave, claims.TenantAlias, r.URL.Query().Get("motor"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"prompt": map[string]interface{}{
			"clave":     p.Clave,
			"tenantId":  p.TenantID,
			"motor":     p.Motor,
			"contenido": p.Contenido,
			"version":   p.Version,
		},
	})
}

// UpsertPrompt saves a new version of a tenant-scoped prompt.
func (h *Handler) UpsertPrompt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if claims.Rol != "admin" {
		writeError(w, http.StatusForbidden, "solo administradores pueden editar prompts")
		return
	}

	var body struct {
		Contenido string `json:"contenido"`
		Motor     string `json:"motor"`
		Global    bool   `json:"global"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Contenido == "" {
		writeError(w, http.StatusBadRequest, "contenido is required")
		return
	}

	p := &prompts.Prompt{
		Clave:     mux.Vars(r)["clave"],
		TenantID:  claims.TenantAlias,
		Motor:     body.Motor,
		Contenido: body.Contenido,
	}
	if body.Global {
		p.TenantID = ""
	}

	if err := h.prompts.Upsert(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"version": p.Version,
	})
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	Timestamp string        `json:"timestamp"`
	Uptime    string        `json:"uptime"`
	Memory    MemoryStats   `json:"memory"`
	Database  ServiceStatus `json:"database"`
	Storage   ServiceStatus `json:"storage"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

// ServiceStatus represents the status of a service dependency
type ServiceStatus struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

var startTime = time.Now()

// Health endpoint - enhanced for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		Database: h.checkDatabase(r),
		Storage:  h.checkStorage(),
	}

	json.NewEncoder(w).Encode(response)
}

func (h *Handler) checkDatabase(r *http.Request) ServiceStatus {
	if db.Pool == nil {
		return ServiceStatus{Available: false, Error: "not configured"}
	}
	if err := db.Pool.Ping(r.Context()); err != nil {
		return ServiceStatus{Available: false, Error: err.Error()}
	}
	return ServiceStatus{Available: true}
}

func (h *Handler) checkStorage() ServiceStatus {
	if storage.Client == nil {
		return ServiceStatus{Available: false, Error: "not configured"}
	}
	return ServiceStatus{Available: true}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}

func newBackgroundContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
