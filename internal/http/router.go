package http

import (
	"net/http"

	"crm-backend/internal/handlers"
	"crm-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	customerHandler *handlers.CustomerHandler,
	productHandler *handlers.ProductHandler,
	depositHandler *handlers.DepositHandler,
	retentionHandler *handlers.RetentionHandler,
	alertHandler *handlers.AlertHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.PanicRecovery)
	r.Use(middleware.MetricsMiddleware)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Staff accounts (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.RequireAdmin)
	usersAPI.HandleFunc("", userHandler.ListUsers).Methods("GET")
	usersAPI.HandleFunc("", userHandler.CreateUser).Methods("POST")
	usersAPI.HandleFunc("/{id}", userHandler.GetUser).Methods("GET")
	usersAPI.HandleFunc("/{id}", userHandler.UpdateUser).Methods("PUT")
	usersAPI.HandleFunc("/{id}", userHandler.DeleteUser).Methods("DELETE")
	usersAPI.HandleFunc("/{id}/toggle-active", userHandler.ToggleActiveStatus).Methods("PATCH")

	// Protected API routes - Customers
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(authMiddleware.Authenticate)
	customersAPI.HandleFunc("", customerHandler.ListCustomers).Methods("GET")
	customersAPI.HandleFunc("", customerHandler.CreateCustomer).Methods("POST")
	customersAPI.HandleFunc("/{id}", customerHandler.GetCustomer).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.UpdateCustomer).Methods("PUT")
	customersAPI.HandleFunc("/{id}", customerHandler.DeleteCustomer).Methods("DELETE")

	// Protected API routes - Products
	productsAPI := r.PathPrefix("/api/products").Subrouter()
	productsAPI.Use(authMiddleware.Authenticate)
	productsAPI.HandleFunc("", productHandler.ListProducts).Methods("GET")
	productsAPI.HandleFunc("", productHandler.CreateProduct).Methods("POST")
	productsAPI.HandleFunc("/{id}", productHandler.GetProduct).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.UpdateProduct).Methods("PUT")
	productsAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(productHandler.DeleteProduct)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Deposit ledger
	depositsAPI := r.PathPrefix("/api/deposits").Subrouter()
	depositsAPI.Use(authMiddleware.Authenticate)
	depositsAPI.HandleFunc("", depositHandler.ListDeposits).Methods("GET")
	depositsAPI.HandleFunc("", depositHandler.CreateDeposit).Methods("POST")
	depositsAPI.HandleFunc("/trash", depositHandler.ListTrash).Methods("GET")
	depositsAPI.HandleFunc("/{id}", depositHandler.UpdateDeposit).Methods("PUT")
	depositsAPI.HandleFunc("/{id}", depositHandler.DeleteDeposit).Methods("DELETE")
	depositsAPI.HandleFunc("/{id}/restore", depositHandler.RestoreDeposit).Methods("POST")
	depositsAPI.HandleFunc("/{id}/purge", authMiddleware.RequireAdmin(http.HandlerFunc(depositHandler.PurgeDeposit)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Retention analytics
	retentionAPI := r.PathPrefix("/api/retention").Subrouter()
	retentionAPI.Use(authMiddleware.Authenticate)
	retentionAPI.HandleFunc("/overview", retentionHandler.Overview).Methods("GET")
	retentionAPI.HandleFunc("/customers", retentionHandler.Customers).Methods("GET")
	retentionAPI.HandleFunc("/trend", retentionHandler.Trend).Methods("GET")
	retentionAPI.HandleFunc("/by-product", retentionHandler.ByProduct).Methods("GET")
	retentionAPI.HandleFunc("/by-staff", authMiddleware.RequireAdmin(http.HandlerFunc(retentionHandler.ByStaff)).ServeHTTP).Methods("GET")

	// Protected API routes - Risk alerts and daily briefing
	alertsAPI := r.PathPrefix("/api/alerts").Subrouter()
	alertsAPI.Use(authMiddleware.Authenticate)
	alertsAPI.HandleFunc("", alertHandler.ListAlerts).Methods("GET")
	alertsAPI.HandleFunc("/dismiss", alertHandler.DismissAlert).Methods("POST")
	alertsAPI.HandleFunc("/daily-briefing", alertHandler.DailyBriefing).Methods("GET")
	alertsAPI.HandleFunc("/daily-briefing/dismiss", alertHandler.DismissBriefing).Methods("POST")
	alertsAPI.HandleFunc("/digest/run", authMiddleware.RequireAdmin(http.HandlerFunc(alertHandler.TriggerDigest)).ServeHTTP).Methods("POST")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
