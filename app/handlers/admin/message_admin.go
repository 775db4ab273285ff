package admin

import (
	"net/http"

	"github.com/Rakhulsr/catalog-api/app/helpers"
)

const MsgInvalidMessageID = "Invalid message ID"

func (h *AdminHandler) ListMessages(w http.ResponseWriter, r *http.Request) error {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	messages, err := h.contact.List(r.Context(), unreadOnly)
	if err != nil {
		return err
	}
	h.resp.OK(w, messages, "")
	return nil
}

func (h *AdminHandler) MarkMessageRead(w http.ResponseWriter, r *http.Request) error {
	id, err := helpers.ParseID(r, "id", MsgInvalidMessageID)
	if err != nil {
		return err
	}
	msg, err := h.contact.MarkRead(r.Context(), id)
	if err != nil {
		return err
	}
	h.resp.OK(w, msg, "Message marked as read")
	return nil
}

func (h *AdminHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) error {
	id, err := helpers.ParseID(r, "id", MsgInvalidMessageID)
	if err != nil {
		return err
	}
	if err := h.contact.Delete(r.Context(), id); err != nil {
		return err
	}
	h.resp.Message(w, "Message deleted")
	return nil
}
