package admin

import (
	"net/http"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/services"
)

const MsgInvalidCategoryID = "Invalid category ID"

// ListCategories counts every product, hidden ones included.
func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) error {
	categories, err := h.catalog.ListCategories(r.Context(), true)
	if err != nil {
		return err
	}
	h.resp.OK(w, categories, "")
	return nil
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) error {
	var req services.CategoryRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		return err
	}
	category, err := h.categories.Create(r.Context(), req)
	if err != nil {
		return err
	}
	h.resp.Created(w, category, "Category created")
	return nil
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := helpers.ParseID(r, "id", MsgInvalidCategoryID)
	if err != nil {
		return err
	}
	var req services.CategoryRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		return err
	}
	category, err := h.categories.Update(r.Context(), id, req)
	if err != nil {
		return err
	}
	h.resp.OK(w, category, "Category updated")
	return nil
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := helpers.ParseID(r, "id", MsgInvalidCategoryID)
	if err != nil {
		return err
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		return err
	}
	h.resp.Message(w, "Category deleted")
	return nil
}
