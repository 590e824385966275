package handlers

import (
	"net/http"

	"ecodeli/internal/logx"
	"ecodeli/internal/rpc"
)

// Route documents one REST endpoint.
type Route struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Access      string `json:"access"`
	Description string `json:"description"`
}

// RESTRoutes lists the REST surface. Every /api route is also served under /{locale}/api.
var RESTRoutes = []Route{
	{Method: http.MethodPost, Path: "/api/auth/register", Access: "public", Description: "Create an account and open a session"},
	{Method: http.MethodPost, Path: "/api/auth/login", Access: "public", Description: "Open a session"},
	{Method: http.MethodPost, Path: "/api/auth/refresh", Access: "public", Description: "Exchange a refresh token for a new pair"},
	{Method: http.MethodGet, Path: "/api/auth/session", Access: "session", Description: "Current session user"},
	{Method: http.MethodGet, Path: "/api/merchant", Access: "role:merchant", Description: "Merchant profile and cart drop counts"},
	{Method: http.MethodGet, Path: "/api/docs", Access: "public", Description: "This catalog"},
	{Method: http.MethodPost, Path: "/api/rpc/{name}", Access: "per procedure", Description: "Call a procedure"},
}

type docsResponse struct {
	REST       []Route    `json:"rest"`
	Procedures []rpc.Info `json:"procedures"`
}

// DocsHandler serves GET /api/docs.
type DocsHandler struct {
	catalog func() []rpc.Info
	log     logx.Logger
}

// NewDocsHandler builds the catalog from the procedure router.
func NewDocsHandler(procs *rpc.Router, logger logx.Logger) *DocsHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &DocsHandler{catalog: procs.Catalog, log: logger}
}

// Docs lists REST routes and procedures.
func (h *DocsHandler) Docs(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.log, w, r, http.StatusOK, docsResponse{REST: RESTRoutes, Procedures: h.catalog()})
}
