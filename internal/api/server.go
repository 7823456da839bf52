package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"travelia/internal/config"
	"travelia/internal/export"
	"travelia/internal/metrics"
	"travelia/internal/service"

	"github.com/rs/zerolog"
)

// Server exposes the booking API plus the static frontends.
type Server struct {
	cfg     config.ServerConfig
	orders  *service.OrderService
	users   *service.UserService
	catalog *service.CatalogService
	export  *export.ExcelExporter
	auth    *HTTPAuth
	server  *http.Server
	logger  *zerolog.Logger
}

func NewServer(cfg config.ServerConfig, apiCfg config.APIConfig, orders *service.OrderService, users *service.UserService, catalog *service.CatalogService, exporter *export.ExcelExporter, logger *zerolog.Logger) *Server {
	srv := &Server{
		cfg:     cfg,
		orders:  orders,
		users:   users,
		catalog: catalog,
		export:  exporter,
		auth:    NewHTTPAuth(apiCfg),
		logger:  logger,
	}

	mux := http.NewServeMux()

	// Orders
	mux.HandleFunc("/api/pemesanan", srv.handlePlaceOrder)
	mux.HandleFunc("/api/upload-bukti/", srv.handleUploadProof)
	mux.HandleFunc("/api/update_transaksi_status", srv.handleUpdateTransactionStatus)
	mux.HandleFunc("/api/transaksi/latest", srv.handleLatestTransaction)
	mux.HandleFunc("/api/transaksi", srv.handleListTransactions)
	mux.HandleFunc("/api/bookings", srv.handleListBookings)
	mux.HandleFunc("/api/hapus_transaksi/", srv.handleDeleteTransaction)
	mux.HandleFunc("/api/delete_booking", srv.handleDeleteBooking)
	mux.HandleFunc("/api/export/bookings", srv.handleExportBookings)

	// Accounts
	mux.HandleFunc("/api/register", srv.handleRegister)
	mux.HandleFunc("/api/login", srv.handleLogin)
	mux.HandleFunc("/api/admin-login", srv.handleAdminLogin)
	mux.HandleFunc("/api/admin_register", srv.handleAdminRegister)
	mux.HandleFunc("/api/profile", srv.handleProfile)
	mux.HandleFunc("/api/update-profile", srv.handleUpdateProfile)
	mux.HandleFunc("/api/users", srv.handleListUsers)
	mux.HandleFunc("/api/delete_user", srv.handleDeleteUser)

	// Catalog
	mux.HandleFunc("/api/destinasi", srv.handleDestinations)
	mux.HandleFunc("/api/destinasi/", srv.handleDeleteDestination)
	mux.HandleFunc("/api/destinasi-upload", srv.handleDestinationUpload)
	mux.HandleFunc("/api/trips", srv.handleTrips)
	mux.HandleFunc("/api/trips/", srv.handleTripByID)
	mux.HandleFunc("/api/trips-upload/", srv.handleTripUpload)
	mux.HandleFunc("/api/itinerary", srv.handleItineraries)
	mux.HandleFunc("/api/itinerary-upload", srv.handleItineraryUpload)
	mux.HandleFunc("/api/itinerary/", srv.handleItineraryByID)
	mux.HandleFunc("/api/paket", srv.handlePackages)

	// Static frontends
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	if cfg.PublicDir != "" {
		mux.Handle("/public/", http.StripPrefix("/public/", http.FileServer(http.Dir(cfg.PublicDir))))
	}
	if cfg.AdminPanelDir != "" {
		mux.Handle("/adminpanel/", http.StripPrefix("/adminpanel/", http.FileServer(http.Dir(cfg.AdminPanelDir))))
	}

	handler := srv.loggingMiddleware(srv.corsMiddleware(srv.auth.Wrap(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

// Handler returns the root handler, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.cfg.CORSOrigins) > 0 {
			origin = s.cfg.CORSOrigins[0]
			for _, o := range s.cfg.CORSOrigins {
				if o == r.Header.Get("Origin") {
					origin = o
					break
				}
			}
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Api-Key, X-Api-Extra")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"message": message})
}
