package handlers

import (
	"net/http"

	"ecodeli/internal/domain"
	"ecodeli/internal/logx"
	"ecodeli/internal/service/merchant"
	"ecodeli/internal/session"
)

// MerchantHandler serves GET /api/merchant.
type MerchantHandler struct {
	uc  merchantUsecase
	log logx.Logger
}

// NewMerchantHandler wires the merchant service into HTTP handlers.
func NewMerchantHandler(svc *merchant.Service, logger logx.Logger) *MerchantHandler {
	return newMerchantHandler(svc, logger)
}

func newMerchantHandler(uc merchantUsecase, logger logx.Logger) *MerchantHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &MerchantHandler{uc: uc, log: logger}
}

// Overview returns the merchant profile with cart drop counts.
func (h *MerchantHandler) Overview(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		writeError(h.log, w, r, http.StatusUnauthorized, "session required")
		return
	}
	if !s.HasRole(domain.RoleMerchant) {
		writeError(h.log, w, r, http.StatusForbidden, "merchant role required")
		return
	}

	o, err := h.uc.Overview(r.Context(), s.UserID)
	if err != nil {
		writeFailure(h.log, w, r, err)
		return
	}
	writeJSON(h.log, w, r, http.StatusOK, o)
}
