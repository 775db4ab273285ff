package routes

import (
	"net/http"
	"strings"

	"github.com/Rakhulsr/catalog-api/app/configs"
	"github.com/Rakhulsr/catalog-api/app/handlers"
	"github.com/Rakhulsr/catalog-api/app/handlers/admin"
	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/middlewares"
	"github.com/Rakhulsr/catalog-api/app/repositories"
	"github.com/Rakhulsr/catalog-api/app/services"
	"github.com/Rakhulsr/catalog-api/app/utils/renderer"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Options struct {
	Env        configs.ENV
	Log        zerolog.Logger
	Storage    services.ImageStorage
	Files      http.Handler
	Notifier   services.ContactNotifier
	Dispatcher *services.Dispatcher
}

func NewRouter(db *gorm.DB, opts Options) http.Handler {
	env := opts.Env
	log := opts.Log
	prefix := "/" + strings.Trim(env.APIPrefix, "/")

	validate := helpers.NewValidator()
	resp := helpers.NewResponder(renderer.New(!env.IsProduction()), configs.NamedLogger(log, "http"))

	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	imageRepo := repositories.NewProductImageRepository(db)
	messageRepo := repositories.NewContactMessageRepository(db)
	userRepo := repositories.NewAdminUserRepository(db)

	tokens := services.NewTokenService(services.TokenConfig{
		AccessSecret:  env.JWTSecret,
		RefreshSecret: env.JWTRefreshSecret,
	})
	catalog := services.NewCatalogQueryService(productRepo, categoryRepo)
	productSvc := services.NewProductService(productRepo, categoryRepo, opts.Storage, opts.Dispatcher, validate)
	categorySvc := services.NewCategoryService(categoryRepo, productRepo, validate)
	imageSvc := services.NewImageService(productRepo, imageRepo, opts.Storage, opts.Dispatcher, validate, configs.NamedLogger(log, "images"))
	contactSvc := services.NewContactService(messageRepo, opts.Notifier, opts.Dispatcher, validate)
	dashboardSvc := services.NewDashboardService(productRepo, messageRepo)

	health := handlers.NewHealthHandler(resp)
	productHandler := handlers.NewProductHandler(catalog, resp, validate)
	contactHandler := handlers.NewContactHandler(contactSvc, resp)
	authHandler := handlers.NewAuthHandler(
		services.NewCredentialVerifier(userRepo), tokens, userRepo, resp, validate,
		handlers.CookieSettings{Secure: env.CookieSecure, RefreshPath: prefix + "/auth"},
		configs.NamedLogger(log, "auth"),
	)
	uploadHandler := handlers.NewUploadHandler(imageSvc, resp, configs.NamedLogger(log, "upload"))
	adminHandler := admin.NewAdminHandler(resp, catalog, productSvc, categorySvc, contactSvc, dashboardSvc, configs.NamedLogger(log, "admin"))

	loginLimit := middlewares.LoginRateLimit()
	contactLimit := middlewares.ContactRateLimit()
	limitLogin := middlewares.RateLimit(loginLimit, middlewares.NewLimiter(env.RateLimitStyle, loginLimit), resp)
	limitContact := middlewares.RateLimit(contactLimit, middlewares.NewLimiter(env.RateLimitStyle, contactLimit), resp)
	requireAuth := middlewares.RequireAuth(tokens, resp, configs.NamedLogger(log, "session"))

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(health.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(health.MethodNotAllowed)

	router.Use(middleware.RequestID)
	if env.TrustProxy {
		router.Use(middleware.RealIP)
	}
	router.Use(middlewares.RequestLogger(configs.NamedLogger(log, "access")))
	router.Use(middlewares.Timeout(env.RequestTimeout))

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	if opts.Files != nil {
		router.PathPrefix("/" + strings.Trim(env.UploadURLPrefix, "/") + "/").Handler(opts.Files).Methods(http.MethodGet, http.MethodHead)
	}

	api := router.PathPrefix(prefix).Subrouter()
	api.HandleFunc("/health", health.Health).Methods(http.MethodGet)

	api.HandleFunc("/products", resp.Wrap(productHandler.List)).Methods(http.MethodGet)
	api.HandleFunc("/products/featured", resp.Wrap(productHandler.Featured)).Methods(http.MethodGet)
	api.HandleFunc("/products/slug/{slug}", resp.Wrap(productHandler.GetBySlug)).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", resp.Wrap(productHandler.GetByID)).Methods(http.MethodGet)
	api.HandleFunc("/categories", resp.Wrap(productHandler.Categories)).Methods(http.MethodGet)
	api.Handle("/contact", limitContact(resp.Wrap(contactHandler.Submit))).Methods(http.MethodPost)

	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/login", limitLogin(resp.Wrap(authHandler.Login))).Methods(http.MethodPost)
	auth.HandleFunc("/logout", resp.Wrap(authHandler.Logout)).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", resp.Wrap(authHandler.Refresh)).Methods(http.MethodPost)

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(requireAuth)
	adminRouter.HandleFunc("/dashboard", resp.Wrap(adminHandler.Dashboard)).Methods(http.MethodGet)
	adminRouter.HandleFunc("/products", resp.Wrap(adminHandler.ListProducts)).Methods(http.MethodGet)
	adminRouter.HandleFunc("/products", resp.Wrap(adminHandler.CreateProduct)).Methods(http.MethodPost)
	adminRouter.HandleFunc("/products/{id}", resp.Wrap(adminHandler.UpdateProduct)).Methods(http.MethodPut)
	adminRouter.HandleFunc("/products/{id}", resp.Wrap(adminHandler.DeleteProduct)).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/products/{id}/visibility", resp.Wrap(adminHandler.ToggleVisibility)).Methods(http.MethodPatch)
	adminRouter.HandleFunc("/products/{id}/featured", resp.Wrap(adminHandler.ToggleFeatured)).Methods(http.MethodPatch)
	adminRouter.HandleFunc("/categories", resp.Wrap(adminHandler.ListCategories)).Methods(http.MethodGet)
	adminRouter.HandleFunc("/categories", resp.Wrap(adminHandler.CreateCategory)).Methods(http.MethodPost)
	adminRouter.HandleFunc("/categories/{id}", resp.Wrap(adminHandler.UpdateCategory)).Methods(http.MethodPut)
	adminRouter.HandleFunc("/categories/{id}", resp.Wrap(adminHandler.DeleteCategory)).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/messages", resp.Wrap(adminHandler.ListMessages)).Methods(http.MethodGet)
	adminRouter.HandleFunc("/messages/{id}/read", resp.Wrap(adminHandler.MarkMessageRead)).Methods(http.MethodPatch)
	adminRouter.HandleFunc("/messages/{id}", resp.Wrap(adminHandler.DeleteMessage)).Methods(http.MethodDelete)

	upload := api.PathPrefix("/upload").Subrouter()
	upload.Use(requireAuth)
	upload.HandleFunc("", resp.Wrap(uploadHandler.Upload)).Methods(http.MethodPost)
	upload.HandleFunc("", resp.Wrap(uploadHandler.Delete)).Methods(http.MethodDelete)
	upload.HandleFunc("/reorder", resp.Wrap(uploadHandler.Reorder)).Methods(http.MethodPatch)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   []string{env.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	secureHeaders := middlewares.SecurityHeaders()

	return middlewares.Recoverer(resp, configs.NamedLogger(log, "panic"))(corsHandler(secureHeaders(router)))
}
