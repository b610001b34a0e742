package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/example/ec-shop-core/internal/auth"
)

type AuthHandlers struct {
	service *auth.Service
	logger  logrus.FieldLogger
}

func NewAuthHandlers(service *auth.Service, logger logrus.FieldLogger) *AuthHandlers {
	return &AuthHandlers{service: service, logger: logger}
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Register(r.Context(), bodyInput(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	h.setAuthCookie(w, r, result)
	respondJSON(w, http.StatusCreated, result)
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Login(r.Context(), bodyInput(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	h.setAuthCookie(w, r, result)
	respondJSON(w, http.StatusOK, result)
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandlers) setAuthCookie(w http.ResponseWriter, r *http.Request, result *auth.AuthResult) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    result.AccessToken,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}
