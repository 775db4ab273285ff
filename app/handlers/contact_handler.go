package handlers

import (
	"net/http"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/services"
)

type ContactHandler struct {
	contact *services.ContactService
	resp    *helpers.Responder
}

func NewContactHandler(contact *services.ContactService, resp *helpers.Responder) *ContactHandler {
	return &ContactHandler{contact: contact, resp: resp}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) error {
	var req services.ContactRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		return err
	}
	if _, err := h.contact.Submit(r.Context(), req); err != nil {
		return err
	}
	h.resp.JSON(w, http.StatusCreated, helpers.Envelope{Message: "Message sent successfully"})
	return nil
}
