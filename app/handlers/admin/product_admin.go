package admin

import (
	"net/http"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/services"
)

const MsgInvalidProductID = "Invalid product ID"

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.catalog.ListAllProducts(r.Context())
	if err != nil {
		return err
	}
	h.resp.OK(w, products, "")
	return nil
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var req services.CreateProductRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		return err
	}
	product, err := h.products.Create(r.Context(), req)
	if err != nil {
		return err
	}
	h.log.Info().Uint("product_id", product.ID).Uint("actor", h.actor(r)).Msg("product created")
	h.resp.Created(w, product, "Product created")
	return nil
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := helpers.ParseID(r, "id", MsgInvalidProductID)
	if err != nil {
		return err
	}
	var req services.UpdateProductRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		return err
	}
	product, err := h.products.Update(r.Context(), id, req)
	if err != nil {
		return err
	}
	h.resp.OK(w, product, "Product updated")
	return nil
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := helpers.ParseID(r, "id", MsgInvalidProductID)
	if err != nil {
		return err
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		return err
	}
	h.log.Info().Uint("product_id", id).Uint("actor", h.actor(r)).Msg("product deleted")
	h.resp.Message(w, "Product deleted")
	return nil
}

func (h *AdminHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) error {
	id, err := helpers.ParseID(r, "id", MsgInvalidProductID)
	if err != nil {
		return err
	}
	product, err := h.products.ToggleVisibility(r.Context(), id)
	if err != nil {
		return err
	}
	msg := "Product hidden"
	if product.Visible {
		msg = "Product shown"
	}
	h.resp.OK(w, product, msg)
	return nil
}

func (h *AdminHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) error {
	id, err := helpers.ParseID(r, "id", MsgInvalidProductID)
	if err != nil {
		return err
	}
	product, err := h.products.ToggleFeatured(r.Context(), id)
	if err != nil {
		return err
	}
	msg := "Product unfeatured"
	if product.Featured {
		msg = "Product featured"
	}
	h.resp.OK(w, product, msg)
	return nil
}
