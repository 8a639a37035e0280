package handler

import (
	"net/http"

	appmw "go-store-builder/internal/middleware"
	"go-store-builder/internal/metrics"
	"go-store-builder/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers groups every route handler the router mounts.
type Handlers struct {
	Pages    *PageHandler
	Stores   *StoreHandler
	Catalog  *CatalogHandler
	Commerce *CommerceHandler
	Media    *MediaHandler
	Events   *EventsHandler
	Auth     *AuthHandler
	Seo      *SeoHandler
}

// NewRouter creates and configures a new chi router.
func NewRouter(h Handlers, sm session.Manager, authzMiddleware func(http.Handler) http.Handler, errMW func(appmw.AppHandler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		appmw.WriteData(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(sm.LoadAndSave)
		r.Use(authzMiddleware)

		// Authentication routes
		r.Get("/auth/login", h.Auth.handleLogin)
		r.Get("/auth/callback", h.Auth.handleCallback)
		r.Get("/auth/logout", h.Auth.handleLogout)

		// Storefront routes, open to anonymous visitors.
		r.Route("/storefront/{store}", func(r chi.Router) {
			r.Method(http.MethodGet, "/pages/{slug}", errMW(h.Pages.publicPage))
			r.Method(http.MethodPost, "/orders", errMW(h.Commerce.checkout))
			r.Method(http.MethodGet, "/robots.txt", errMW(h.Seo.robotsHandler))
			r.Method(http.MethodGet, "/sitemap.xml", errMW(h.Seo.sitemapHandler))
		})

		// Admin API
		r.Route("/api", func(r chi.Router) {
			r.Method(http.MethodPost, "/pages", errMW(h.Pages.createPages))
			r.Method(http.MethodGet, "/pages/{id}", errMW(h.Pages.getPage))
			r.Method(http.MethodPatch, "/pages/{id}", errMW(h.Pages.updatePage))
			r.Method(http.MethodDelete, "/pages/{id}", errMW(h.Pages.deletePage))
			r.Method(http.MethodGet, "/components/{id}", errMW(h.Pages.getComponent))
			r.Method(http.MethodPatch, "/components/{id}", errMW(h.Pages.updateComponent))

			r.Method(http.MethodGet, "/stores", errMW(h.Stores.list))
			r.Method(http.MethodPost, "/stores", errMW(h.Stores.create))
			r.Route("/stores/{store}", func(r chi.Router) {
				r.Method(http.MethodGet, "/", errMW(h.Stores.get))
				r.Method(http.MethodDelete, "/", errMW(h.Stores.delete))
				r.Method(http.MethodGet, "/summary", errMW(h.Stores.summary))
				r.Method(http.MethodGet, "/pages", errMW(h.Pages.listStorePages))

				r.Method(http.MethodGet, "/categories", errMW(h.Catalog.listCategories))
				r.Method(http.MethodPost, "/categories", errMW(h.Catalog.createCategory))
				r.Method(http.MethodGet, "/products", errMW(h.Catalog.listProducts))
				r.Method(http.MethodPost, "/products", errMW(h.Catalog.createProduct))

				r.Method(http.MethodGet, "/discounts", errMW(h.Commerce.listDiscounts))
				r.Method(http.MethodPost, "/discounts", errMW(h.Commerce.createDiscount))
				r.Method(http.MethodGet, "/customers", errMW(h.Commerce.listCustomers))
				r.Method(http.MethodGet, "/orders", errMW(h.Commerce.listOrders))

				r.Method(http.MethodGet, "/payment-gateway", errMW(h.Stores.getGateway))
				r.Method(http.MethodPut, "/payment-gateway", errMW(h.Stores.saveGateway))
				r.Method(http.MethodGet, "/website", errMW(h.Stores.getWebsite))
				r.Method(http.MethodPut, "/website", errMW(h.Stores.replaceWebsite))

				r.Method(http.MethodGet, "/media", errMW(h.Media.list))
				r.Method(http.MethodPost, "/media", errMW(h.Media.upload))

				r.Method(http.MethodGet, "/events", errMW(h.Events.subscribe))
			})

			r.Method(http.MethodPut, "/categories/{id}", errMW(h.Catalog.renameCategory))
			r.Method(http.MethodDelete, "/categories/{id}", errMW(h.Catalog.deleteCategory))
			r.Method(http.MethodGet, "/products/{id}", errMW(h.Catalog.getProduct))
			r.Method(http.MethodPut, "/products/{id}", errMW(h.Catalog.updateProduct))
			r.Method(http.MethodDelete, "/products/{id}", errMW(h.Catalog.deleteProduct))
			r.Method(http.MethodDelete, "/discounts/{id}", errMW(h.Commerce.deleteDiscount))
			r.Method(http.MethodGet, "/orders/{id}", errMW(h.Commerce.getOrder))
			r.Method(http.MethodPatch, "/orders/{id}", errMW(h.Commerce.updateOrderStatus))
			r.Method(http.MethodDelete, "/media/{id}", errMW(h.Media.delete))
		})
	})

	return r
}
