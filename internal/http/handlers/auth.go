package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"ecodeli/internal/domain"
	"ecodeli/internal/locale"
	"ecodeli/internal/logx"
	"ecodeli/internal/rpc"
	"ecodeli/internal/service/auth"
	"ecodeli/internal/session"
)

// AuthHandler serves /api/auth/*.
type AuthHandler struct {
	uc       authUsecase
	validate *validator.Validate
	log      logx.Logger
}

// NewAuthHandler wires the auth service into HTTP handlers.
func NewAuthHandler(svc *auth.Service, logger logx.Logger) *AuthHandler {
	return newAuthHandler(svc, logger)
}

func newAuthHandler(uc authUsecase, logger logx.Logger) *AuthHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &AuthHandler{uc: uc, validate: rpc.NewValidator(), log: logger}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(h.log, h.validate, w, r, &req) {
		return
	}

	res, err := h.uc.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     domain.Role(req.Role),
		Locale:   locale.FromContext(r.Context()),
	})
	if err != nil {
		writeFailure(h.log, w, r, err)
		return
	}
	writeJSON(h.log, w, r, http.StatusCreated, authResponse{User: toUserDTO(res.User), Tokens: toTokensDTO(res.Tokens)})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(h.log, h.validate, w, r, &req) {
		return
	}

	res, err := h.uc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeFailure(h.log, w, r, err)
		return
	}
	writeJSON(h.log, w, r, http.StatusOK, authResponse{User: toUserDTO(res.User), Tokens: toTokensDTO(res.Tokens)})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(h.log, h.validate, w, r, &req) {
		return
	}

	res, err := h.uc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeFailure(h.log, w, r, err)
		return
	}
	writeJSON(h.log, w, r, http.StatusOK, authResponse{User: toUserDTO(res.User), Tokens: toTokensDTO(res.Tokens)})
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		writeError(h.log, w, r, http.StatusUnauthorized, "session required")
		return
	}

	u, err := h.uc.Me(r.Context(), s.UserID)
	if err != nil {
		writeFailure(h.log, w, r, err)
		return
	}
	writeJSON(h.log, w, r, http.StatusOK, sessionResponse{User: toUserDTO(u), ExpiresAt: s.ExpiresAt})
}
