package handlers

import (
	"net/http"

	"ecodeli/internal/locale"
	"ecodeli/internal/logx"
)

// SiteInfo is the public configuration exposed to the front end.
type SiteInfo struct {
	SiteURL          string `json:"site_url"`
	APIURL           string `json:"api_url"`
	PaymentPublicKey string `json:"payment_public_key"`
}

type siteResponse struct {
	SiteInfo
	Locale  string   `json:"locale"`
	Locales []string `json:"locales"`
}

// SiteHandler serves the locale entry points.
type SiteHandler struct {
	info    SiteInfo
	locales locale.Set
	log     logx.Logger
}

// NewSiteHandler creates a SiteHandler.
func NewSiteHandler(info SiteInfo, locales locale.Set, logger logx.Logger) *SiteHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &SiteHandler{info: info, locales: locales, log: logger}
}

// Root redirects GET / to the best locale for Accept-Language.
func (h *SiteHandler) Root(w http.ResponseWriter, r *http.Request) {
	l := h.locales.Negotiate(r.Header.Get("Accept-Language"))
	w.Header().Add("Vary", "Accept-Language")
	http.Redirect(w, r, "/"+l+"/", http.StatusFound)
}

// Site returns site metadata for the locale in the path.
func (h *SiteHandler) Site(w http.ResponseWriter, r *http.Request) {
	l := locale.FromContext(r.Context())
	if l == "" {
		l = h.locales.Default()
	}
	writeJSON(h.log, w, r, http.StatusOK, siteResponse{SiteInfo: h.info, Locale: l, Locales: h.locales.All()})
}
