// Package auth implements the shared-password gate. A correct password
// buys a short-lived bearer token; an empty configured password
// disables the gate entirely, mirroring the original dashboard.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gcouto/patrimonio/internal/http/api"
)

type Handler struct {
	password string
	secret   []byte
	ttl      time.Duration
}

// NewHandler builds the gate. When secret is empty the password itself
// signs the tokens, which keeps single-binary deployments to one knob.
func NewHandler(password, secret string, ttl time.Duration) *Handler {
	if secret == "" {
		secret = password
	}

	return &Handler{
		password: strings.TrimSpace(password),
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
}

// Enabled reports whether a password is configured.
func (h *Handler) Enabled() bool {
	return h.password != ""
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if !h.Enabled() {
		api.WriteJSON(w, http.StatusOK, loginResponse{})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	given := strings.TrimSpace(req.Password)
	if subtle.ConstantTimeCompare([]byte(given), []byte(h.password)) != 1 {
		http.Error(w, "invalid password", http.StatusUnauthorized)
		return
	}

	expires := time.Now().Add(h.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "dashboard",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	signed, err := token.SignedString(h.secret)
	if err != nil {
		http.Error(w, "signing token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	api.WriteJSON(w, http.StatusOK, loginResponse{Token: signed, ExpiresAt: expires})
}

// Middleware rejects requests without a valid bearer token. With the
// gate disabled it passes everything through.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}

			return h.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
