package router

import (
	"net/http"

	"kasirkita/internal/auth"
	"kasirkita/internal/handler"
	"kasirkita/internal/metrics"
	"kasirkita/internal/middleware"
	"kasirkita/internal/model"

	"github.com/rs/zerolog"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Order    *handler.OrderHandler
	Report   *handler.ReportHandler
}

// New creates the HTTP router with all routes and middleware configured.
// uploadsDir, when non-empty, is served under /uploads/products/ for
// locally stored product images.
func New(
	h Handlers,
	tokens *auth.TokenManager,
	m *metrics.Metrics,
	uploadsDir string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.Authenticate(tokens, logger)
	staffOnly := middleware.RequireRole(logger, model.RoleAdmin, model.RoleStaff)
	adminOnly := middleware.RequireRole(logger, model.RoleAdmin)
	customerOnly := middleware.RequireRole(logger, model.RoleCustomer)

	// protected wires authentication plus an optional role check in
	// front of a single route.
	protected := func(fn http.HandlerFunc, roles ...func(http.Handler) http.Handler) http.Handler {
		var next http.Handler = fn
		for i := len(roles) - 1; i >= 0; i-- {
			next = roles[i](next)
		}
		return authed(next)
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.Handle("GET /metrics", m.Handler())

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.Handle("POST /api/auth/register/staff", protected(h.Auth.RegisterStaff, adminOnly))
	mux.Handle("GET /api/auth/me", protected(h.Auth.Me))

	// Catalog
	mux.HandleFunc("GET /api/products", h.Product.GetAll)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)
	mux.Handle("POST /api/products", protected(h.Product.Create, staffOnly))
	mux.Handle("PUT /api/products/{id}", protected(h.Product.Update, staffOnly))
	mux.Handle("DELETE /api/products/{id}", protected(h.Product.Delete, staffOnly))

	mux.HandleFunc("GET /api/categories", h.Category.GetAll)
	mux.HandleFunc("GET /api/categories/{id}", h.Category.GetByID)
	mux.Handle("POST /api/categories", protected(h.Category.Create, staffOnly))

	// Orders
	mux.Handle("POST /api/orders", protected(h.Order.Create, customerOnly))
	mux.Handle("GET /api/orders/all", protected(h.Order.GetAll, staffOnly))
	mux.Handle("GET /api/orders/customer/{customerId}", protected(h.Order.GetCustomerOrders, customerOnly))
	mux.Handle("PATCH /api/orders/{orderId}/status", protected(h.Order.UpdateStatus, staffOnly))

	// Reports
	mux.Handle("GET /api/reports/summary", protected(h.Report.Summary, staffOnly))

	// Locally stored product images
	if uploadsDir != "" {
		fs := http.FileServer(http.Dir(uploadsDir))
		mux.Handle("GET /uploads/products/", http.StripPrefix("/uploads/products/", fs))
	}

	// Apply middleware in order: Recovery -> Logging -> Metrics -> CORS
	var root http.Handler = mux
	root = middleware.CORS(root)
	root = middleware.Metrics(m)(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
