package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-store-builder/internal/auth"
	"go-store-builder/internal/config"
	"go-store-builder/internal/data"
	"go-store-builder/internal/docstore"
	"go-store-builder/internal/handler"
	"go-store-builder/internal/logger"
	"go-store-builder/internal/media"
	"go-store-builder/internal/middleware"
	"go-store-builder/internal/notify"
	"go-store-builder/internal/service"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

// eventBuffer is the number of pending notifications kept per subscriber.
const eventBuffer = 32

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, os.Stdout)

	// --- Database Initialization and Migration ---
	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(db, cfg.DB.Driver); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	// --- Session Management Setup ---
	sessionManager := newSessionManager(db, cfg)

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	ctx := context.Background()
	authenticator, err := auth.NewAuthenticator(ctx, &cfg.OIDC)
	if err != nil {
		log.Fatal(err, "Failed to initialize authenticator")
	}
	enforcer, err := auth.NewEnforcer(db)
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)
	log.Info("Auth components initialized and policies seeded.")

	// --- Optional Backends ---
	var websites *docstore.WebsiteStore
	if cfg.Mongo.URI != "" {
		client, err := docstore.Connect(ctx, cfg.Mongo)
		if err != nil {
			log.Fatal(err, "Failed to connect to the document store")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		websites = docstore.NewWebsiteStore(client.Database(cfg.Mongo.Database).Collection(docstore.CollectionName))
		log.Info("Document store connected.")
	} else {
		log.Warn("Mongo URI not set; website configuration is disabled.")
	}

	var uploader media.Uploader
	cld, err := media.NewCloudinary(cfg.Cloudinary)
	switch {
	case errors.Is(err, media.ErrDisabled):
		log.Warn("Cloudinary URL not set; media uploads are disabled.")
	case err != nil:
		log.Fatal(err, "Failed to initialize media uploads")
	default:
		uploader = cld
	}

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	hub := notify.NewHub(log, eventBuffer)

	storeRepository := data.NewSQLStoreRepository(db)
	productRepository := data.NewSQLProductRepository(db)
	discountRepository := data.NewSQLDiscountRepository(db)

	var websiteRemover service.WebsiteRemover
	var websiteRepository service.WebsiteRepository
	if websites != nil {
		websiteRemover = websites
		websiteRepository = websites
	}

	storeService := service.NewStoreService(storeRepository, data.NewSQLPaymentRepository(db), websiteRemover, log)
	pageService := service.NewPageService(
		data.NewSQLPageRepository(db),
		data.NewSQLComponentRepository(db),
		storeRepository,
		hub,
		log,
		cfg.Security.ComponentOwnershipCheck,
	)
	catalogService := service.NewCatalogService(data.NewCategoryRepository(db), productRepository, storeRepository, log)
	discountService := service.NewDiscountService(discountRepository, storeRepository, log)
	orderService := service.NewOrderService(data.NewSQLOrderRepository(db), productRepository, discountRepository, storeRepository, hub, log)
	mediaService := service.NewMediaService(data.NewSQLMediaRepository(db), uploader, storeRepository, log)
	websiteService := service.NewWebsiteService(websiteRepository, storeRepository)

	handlers := handler.Handlers{
		Pages:    handler.NewPageHandler(pageService, storeService, log),
		Stores:   handler.NewStoreHandler(storeService, websiteService),
		Catalog:  handler.NewCatalogHandler(catalogService, storeService),
		Commerce: handler.NewCommerceHandler(discountService, orderService, storeService),
		Media:    handler.NewMediaHandler(mediaService, storeService),
		Events:   handler.NewEventsHandler(hub, storeService, log),
		Auth:     handler.NewAuthHandler(authenticator, sessionManager, enforcer, data.NewSQLUserRepository(db), log),
		Seo:      handler.NewSeoHandler(pageService, storeService, cfg.App.BaseURL),
	}

	authzMiddleware := middleware.Authorizer(enforcer, sessionManager, log)
	errorMiddleware := middleware.Error(log, cfg.App.IsDev())

	// --- Router Setup ---
	// The router is the central hub that directs incoming requests to the correct handlers.
	router := handler.NewRouter(handlers, sessionManager, authzMiddleware, errorMiddleware)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}

// newSessionManager stores sessions in the application database.
func newSessionManager(db *sqlx.DB, cfg *config.Config) *scs.SessionManager {
	sessionManager := scs.New()
	if cfg.DB.Driver == data.DriverMySQL {
		sessionManager.Store = mysqlstore.New(db.DB)
	} else {
		sessionManager.Store = sqlite3store.New(db.DB)
	}
	sessionManager.Lifetime = time.Duration(cfg.Session.Lifetime) * time.Hour
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Server.TLS.Enabled
	return sessionManager
}
