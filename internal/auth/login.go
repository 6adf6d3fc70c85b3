package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/facturaIA/comprobante-engine/internal/db"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	TenantAlias string `json:"tenant_alias"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	Token        string `json:"token"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Nombre       string `json:"nombre"`
	Rol          string `json:"rol"`
	TenantAlias  string `json:"tenant_alias"`
	TenantNombre string `json:"tenant_nombre"`
}

// LoginHandler handles user authentication
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if db.Pool == nil {
		http.Error(w, `{"error":"authentication service unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if req.TenantAlias == "" || req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"tenant_alias, email and password are required"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	query := `SELECT u.id, u.email, u.nombre, u.rol, u.password_hash, t.alias, t.nombre
	          FROM public.usuarios u
	          JOIN public.tenants t ON t.id = u.tenant_id
	          WHERE t.alias = $1 AND u.email = $2 AND u.activo = true`

	var userID, email, nombre, rol, passwordHash, tenantAlias, tenantNombre string
	err := db.Pool.QueryRow(ctx, query, req.TenantAlias, req.Email).Scan(
		&userID, &email, &nombre, &rol, &passwordHash, &tenantAlias, &tenantNombre,
	)
	if err != nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	token, err := GenerateToken(userID, email, tenantAlias, tenantNombre, rol)
	if err != nil {
		http.Error(w, `{"error":"failed to generate token"}`, http.StatusInternalServerError)
		return
	}

	// Update last login in background
	go func() {
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		db.Pool.Exec(ctx2, "UPDATE public.usuarios SET ultimo_login = NOW() WHERE id = $1::uuid", userID)
	}()

	json.NewEncoder(w).Encode(LoginResponse{
		Token:        token,
		UserID:       userID,
		Email:        email,
		Nombre:       nombre,
		Rol:          rol,
		TenantAlias:  tenantAlias,
		TenantNombre: tenantNombre,
	})
}
