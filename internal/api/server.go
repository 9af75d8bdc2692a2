// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/flipperzap/internal/logging"
	"github.com/flipperzap/internal/models"
	"github.com/flipperzap/internal/service"
	"github.com/flipperzap/internal/types"
)

// defaultUserID stands in until real authentication lands
const defaultUserID = "demo-user"

// Service interfaces for dependency injection and testing

// ScanServiceInterface defines the scan operations the API depends on
type ScanServiceInterface interface {
	StartScan(ctx context.Context, userID, imageURL string, initial types.ScanStatus) (*models.Scan, error)
	GetScan(ctx context.Context, scanID string) (*models.Scan, error)
	ListScans(ctx context.Context, userID string) []*models.Scan
}

// ListingServiceInterface defines the listing operations the API depends on
type ListingServiceInterface interface {
	Create(ctx context.Context, userID string, input service.CreateListingInput) (*models.Listing, error)
	Get(ctx context.Context, listingID string) (*models.Listing, error)
	ListByUser(ctx context.Context, userID string) []*models.Listing
	ListByScan(ctx context.Context, scanID string) []*models.Listing
}

// ConnectionServiceInterface defines the marketplace connection operations
type ConnectionServiceInterface interface {
	Connect(ctx context.Context, userID string, input service.ConnectInput) (*models.MarketplaceConnection, error)
	Status(ctx context.Context, userID string) []service.ConnectionStatus
}

// PricingServiceInterface defines the pricing operations the API depends on
type PricingServiceInterface interface {
	History(itemName string) []service.PricePoint
	Estimate(itemName string, condition int) service.Estimate
}

// UploadStore stores uploaded images and serves them back
type UploadStore interface {
	Save(file multipart.File, header *multipart.FileHeader) (string, error)
	Dir() string
}

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	config     *ServerConfig
	logger     *logging.Logger

	scanService       ScanServiceInterface
	listingService    ListingServiceInterface
	connectionService ConnectionServiceInterface
	pricingService    PricingServiceInterface

	uploads   UploadStore
	wsHandler http.Handler

	readyMu     sync.RWMutex
	readyChecks map[string]func(ctx context.Context) error
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    int
	RateLimitBurst  int
	AIMode          string
	MarketplaceMode string
	Environment     string
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	logger *logging.Logger,
	scanService ScanServiceInterface,
	listingService ListingServiceInterface,
	connectionService ConnectionServiceInterface,
	pricingService PricingServiceInterface,
	uploads UploadStore,
	wsHandler http.Handler,
) *Server {
	s := &Server{
		router:            mux.NewRouter(),
		config:            config,
		logger:            logger,
		scanService:       scanService,
		listingService:    listingService,
		connectionService: connectionService,
		pricingService:    pricingService,
		uploads:           uploads,
		wsHandler:         wsHandler,
		readyChecks:       make(map[string]func(ctx context.Context) error),
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RateLimitRPS, s.config.RateLimitBurst)

	// Middleware order matters
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/healthz", s.handleLiveness).Methods("GET")
	s.router.HandleFunc("/readyz", s.handleReadiness).Methods("GET")

	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Scan endpoints
	api.HandleFunc("/scans/analyze", s.handleAnalyzeScan).Methods("POST")
	api.HandleFunc("/scans", s.handleListScans).Methods("GET")
	api.HandleFunc("/scans/{id}", s.handleGetScan).Methods("GET")

	// Generalized item analysis alias
	api.HandleFunc("/analysis/analyze-item", s.handleAnalyzeItem).Methods("POST")

	// Pricing endpoints
	api.HandleFunc("/pricing/history/{item_name}", s.handlePricingHistory).Methods("GET")
	api.HandleFunc("/pricing/estimate", s.handlePricingEstimate).Methods("GET")

	// Listing endpoints
	api.HandleFunc("/listings", s.handleCreateListing).Methods("POST")
	api.HandleFunc("/listings", s.handleListListings).Methods("GET")
	api.HandleFunc("/listings/scan/{scanId}", s.handleListingsByScan).Methods("GET")

	// Marketplace connection endpoints
	api.HandleFunc("/marketplace/connections", s.handleMarketplaceConnections).Methods("GET")
	api.HandleFunc("/marketplace/connect", s.handleMarketplaceConnect).Methods("POST")

	// Realtime notifications
	if s.wsHandler != nil {
		s.router.Handle("/ws", s.wsHandler)
	}

	// Serve uploaded images
	if s.uploads != nil {
		s.router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploads.Dir()))))
	}
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"service":     "flipperzap",
		"version":     "1.0.0",
		"environment": s.config.Environment,
		"mock_mode": map[string]bool{
			"ai_vision":   s.config.AIMode == "mock",
			"marketplace": s.config.MarketplaceMode == "mock",
		},
		"providers": map[string]string{
			"analysis":    s.config.AIMode,
			"marketplace": s.config.MarketplaceMode,
		},
	})
}

// handleLiveness answers as long as the process serves requests
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddReadyCheck registers a named dependency probe for /readyz
func (s *Server) AddReadyCheck(name string, check func(ctx context.Context) error) {
	s.readyMu.Lock()
	defer s.readyMu.Unlock()
	s.readyChecks[name] = check
}

// handleReadiness runs every registered probe and reports per-dependency
// status. Any failing probe turns the response into a 503.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	s.readyMu.RLock()
	checks := make(map[string]func(ctx context.Context) error, len(s.readyChecks))
	for name, check := range s.readyChecks {
		checks[name] = check
	}
	s.readyMu.RUnlock()

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	statuses := make(map[string]string, len(checks))
	ready := true
	for name, check := range checks {
		if err := check(ctx); err != nil {
			statuses[name] = err.Error()
			ready = false
		} else {
			statuses[name] = "ok"
		}
	}

	code := http.StatusOK
	state := "ready"
	if !ready {
		code = http.StatusServiceUnavailable
		state = "not ready"
	}

	respondJSON(w, code, map[string]interface{}{
		"status":       state,
		"dependencies": statuses,
	})
}

// userIDFrom resolves the acting user from the request headers
func userIDFrom(r *http.Request) string {
	if id := r.Header.Get("X-User-Id"); id != "" {
		return id
	}
	return defaultUserID
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
