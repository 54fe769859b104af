package controller

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockbook/stockbook/internal/platform/httpx"
)

// Handler bridges HTTP to the controller loop: GET returns the current
// state snapshot, POST queues an intent.
type Handler struct {
	logger     *slog.Logger
	controller *Controller
}

func NewHandler(logger *slog.Logger, controller *Controller) *Handler {
	return &Handler{logger: logger, controller: controller}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ui/state", h.state)
	r.Post("/ui/intents", h.intent)
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.controller.Snapshot())
}

type intentEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (h *Handler) intent(w http.ResponseWriter, r *http.Request) {
	var env intentEnvelope
	if err := httpx.DecodeJSON(r, &env); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	intent, err := decodeIntent(env)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Intent", err.Error())
		return
	}
	h.controller.Dispatch(intent)
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func decodeIntent(env intentEnvelope) (Intent, error) {
	var intent Intent
	switch env.Type {
	case "navigate":
		intent = &Navigate{}
	case "open_form":
		intent = &OpenForm{}
	case "close_form":
		intent = &CloseForm{}
	case "set_filter":
		intent = &SetFilter{}
	case "pick_part":
		intent = &PickPart{}
	case "pick_product":
		intent = &PickProduct{}
	case "submit_purchase":
		intent = &SubmitPurchase{}
	case "submit_product":
		intent = &SubmitProduct{}
	case "submit_run":
		intent = &SubmitRun{}
	case "submit_sale":
		intent = &SubmitSale{}
	case "save_part":
		intent = &SavePart{}
	case "save_client":
		intent = &SaveClient{}
	case "save_rep":
		intent = &SaveRep{}
	case "fulfill_sale":
		intent = &FulfillSale{}
	case "remove":
		intent = &Remove{}
	case "refresh":
		intent = &Refresh{}
	case "copy_client_info":
		intent = &CopyClientInfo{}
	default:
		return nil, fmt.Errorf("unknown intent type %q", env.Type)
	}
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, intent); err != nil {
			return nil, err
		}
	}
	return deref(intent), nil
}

func deref(intent Intent) Intent {
	switch v := intent.(type) {
	case *Navigate:
		return *v
	case *OpenForm:
		return *v
	case *CloseForm:
		return *v
	case *SetFilter:
		return *v
	case *PickPart:
		return *v
	case *PickProduct:
		return *v
	case *SubmitPurchase:
		return *v
	case *SubmitProduct:
		return *v
	case *SubmitRun:
		return *v
	case *SubmitSale:
		return *v
	case *SavePart:
		return *v
	case *SaveClient:
		return *v
	case *SaveRep:
		return *v
	case *FulfillSale:
		return *v
	case *Remove:
		return *v
	case *Refresh:
		return *v
	case *CopyClientInfo:
		return *v
	}
	return intent
}
