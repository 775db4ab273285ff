package handlers

import (
	"net/http"

	"github.com/Rakhulsr/catalog-api/app/helpers"
)

type HealthHandler struct {
	resp *helpers.Responder
}

func NewHealthHandler(resp *helpers.Responder) *HealthHandler {
	return &HealthHandler{resp: resp}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.resp.OK(w, map[string]string{"status": "ok"}, "Server is running")
}

func (h *HealthHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.resp.JSON(w, http.StatusNotFound, helpers.Envelope{Error: "Route not found"})
}

func (h *HealthHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.resp.JSON(w, http.StatusMethodNotAllowed, helpers.Envelope{Error: "Method not allowed"})
}
