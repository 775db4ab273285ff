package admin

import (
	"net/http"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/services"
	"github.com/rs/zerolog"
)

type AdminHandler struct {
	resp       *helpers.Responder
	catalog    *services.CatalogQueryService
	products   *services.ProductService
	categories *services.CategoryService
	contact    *services.ContactService
	dashboard  *services.DashboardService
	log        zerolog.Logger
}

func NewAdminHandler(
	resp *helpers.Responder,
	catalog *services.CatalogQueryService,
	products *services.ProductService,
	categories *services.CategoryService,
	contact *services.ContactService,
	dashboard *services.DashboardService,
	log zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		resp:       resp,
		catalog:    catalog,
		products:   products,
		categories: categories,
		contact:    contact,
		dashboard:  dashboard,
		log:        log,
	}
}

func (h *AdminHandler) actor(r *http.Request) uint {
	id, _ := helpers.IdentityFromContext(r.Context())
	return id.UserID
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		return err
	}
	h.resp.OK(w, stats, "")
	return nil
}
