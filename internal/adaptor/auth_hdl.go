package adaptor

import (
	"net/http"
	"net/url"

	"puremilk/internal/dto/request"
	"puremilk/internal/dto/response"
	"puremilk/internal/usecase"
	"puremilk/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest

	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	req.Email = utils.NormalizeEmail(req.Email)
	if !validateRequest(w, req) {
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "register")
		return
	}

	utils.ResponseSuccess(w, "Registration successful", resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	req.Email = utils.NormalizeEmail(req.Email)
	if !validateRequest(w, req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), principal); err != nil {
		writeError(w, h.log, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.Me(r.Context(), principal)
	if err != nil {
		writeError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved", profile)
}

// CheckAdmin handles GET /api/auth/check-admin
func (h *AuthHandler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	exists, err := h.service.AdminExists(r.Context())
	if err != nil {
		writeError(w, h.log, err, "check admin")
		return
	}

	utils.ResponseSuccess(w, "Admin status retrieved", response.AdminExistsResponse{AdminExists: exists})
}

// DebugEmail handles GET /api/auth/debug-email/{email}
func (h *AuthHandler) DebugEmail(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil || email == "" {
		utils.ResponseBadRequest(w, "Invalid email", nil)
		return
	}

	status, err := h.service.EmailStatus(r.Context(), email)
	if err != nil {
		writeError(w, h.log, err, "debug email")
		return
	}

	utils.ResponseSuccess(w, "Email status retrieved", response.EmailStatusToResponse(status))
}
