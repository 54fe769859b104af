package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockbook/stockbook/internal/platform/httpx"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/sales.xlsx", h.sales)
	r.Get("/reports/inventory.xlsx", h.inventory)
}

func (h *Handler) sales(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="sales.xlsx"`)
	if err := h.service.WriteSales(r.Context(), w); err != nil {
		h.logger.Error("export sales report", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func (h *Handler) inventory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.xlsx"`)
	if err := h.service.WriteInventory(r.Context(), w); err != nil {
		h.logger.Error("export inventory report", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
