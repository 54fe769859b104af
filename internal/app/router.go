package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stockbook/stockbook/internal/clients"
	"github.com/stockbook/stockbook/internal/controller"
	"github.com/stockbook/stockbook/internal/home"
	"github.com/stockbook/stockbook/internal/manufacturing"
	"github.com/stockbook/stockbook/internal/parts"
	"github.com/stockbook/stockbook/internal/products"
	"github.com/stockbook/stockbook/internal/purchasing"
	"github.com/stockbook/stockbook/internal/reports"
	"github.com/stockbook/stockbook/internal/reps"
	"github.com/stockbook/stockbook/internal/sales"
	"github.com/stockbook/stockbook/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	PartsHandler         *parts.Handler
	ProductsHandler      *products.Handler
	PurchasingHandler    *purchasing.Handler
	ManufacturingHandler *manufacturing.Handler
	SalesHandler         *sales.Handler
	ClientsHandler       *clients.Handler
	RepsHandler          *reps.Handler
	HomeHandler          *home.Handler
	ReportsHandler       *reports.Handler
	ControllerHandler    *controller.Handler
	JobHandler           *jobs.Handler
}

// NewRouter constructs the chi router with the stockbook defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(params.Config) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		params.PartsHandler.MountRoutes(api)
		params.ProductsHandler.MountRoutes(api)
		params.PurchasingHandler.MountRoutes(api)
		params.ManufacturingHandler.MountRoutes(api)
		params.SalesHandler.MountRoutes(api)
		params.ClientsHandler.MountRoutes(api)
		params.RepsHandler.MountRoutes(api)
		params.HomeHandler.MountRoutes(api)
		params.ReportsHandler.MountRoutes(api)
	})

	params.ControllerHandler.MountRoutes(r)

	if params.JobHandler != nil {
		r.Route("/jobs", func(jr chi.Router) {
			params.JobHandler.MountRoutes(jr)
		})
	}

	return r
}
