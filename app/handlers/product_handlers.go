package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const MsgInvalidProductID = "Invalid product ID"

type ProductHandler struct {
	catalog   *services.CatalogQueryService
	resp      *helpers.Responder
	validator *validator.Validate
}

func NewProductHandler(catalog *services.CatalogQueryService, resp *helpers.Responder, validate *validator.Validate) *ProductHandler {
	return &ProductHandler{catalog: catalog, resp: resp, validator: validate}
}

func intParam(raw string, fallback int, label string, errs *[]string) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, label+" must be an integer")
		return fallback
	}
	return n
}

func (h *ProductHandler) parseListQuery(r *http.Request) (services.ProductListQuery, error) {
	values := r.URL.Query()
	var errs []string
	q := services.ProductListQuery{
		Search:   strings.TrimSpace(values.Get("search")),
		Category: strings.TrimSpace(values.Get("category")),
		Page:     intParam(values.Get("page"), 1, "Page", &errs),
		Limit:    intParam(values.Get("limit"), services.DefaultPageLimit, "Limit", &errs),
	}
	if len(errs) > 0 {
		return q, helpers.NewValidationError(errs...)
	}
	if err := helpers.ValidateStruct(h.validator, &q); err != nil {
		return q, err
	}
	return q, nil
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) error {
	q, err := h.parseListQuery(r)
	if err != nil {
		return err
	}

	page, err := h.catalog.ListProducts(r.Context(), q)
	if err != nil {
		return err
	}

	h.resp.JSON(w, http.StatusOK, helpers.Paginated{
		Data:       page.Products,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
	return nil
}

func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) error {
	products, err := h.catalog.GetFeatured(r.Context())
	if err != nil {
		return err
	}
	h.resp.OK(w, products, "")
	return nil
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) error {
	id, err := helpers.ParseID(r, "id", MsgInvalidProductID)
	if err != nil {
		return err
	}
	product, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		return err
	}
	h.resp.OK(w, product, "")
	return nil
}

func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) error {
	product, err := h.catalog.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		return err
	}
	h.resp.OK(w, product, "")
	return nil
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) error {
	categories, err := h.catalog.ListCategories(r.Context(), false)
	if err != nil {
		return err
	}
	h.resp.OK(w, categories, "")
	return nil
}
