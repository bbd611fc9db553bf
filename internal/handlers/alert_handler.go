package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"crm-backend/internal/cache"
	"crm-backend/internal/middleware"
	"crm-backend/internal/models"
	"crm-backend/internal/services"
	"crm-backend/pkg/utils"
)

const alertsCacheTTL = 2 * time.Minute

type AlertHandler struct {
	Service   *services.AlertService
	Scheduler *services.Scheduler
}

func NewAlertHandler(s *services.AlertService, scheduler *services.Scheduler) *AlertHandler {
	return &AlertHandler{Service: s, Scheduler: scheduler}
}

// ListAlerts handles GET /api/alerts
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	productID, _ := strconv.Atoi(r.URL.Query().Get("product_id"))

	ctx := r.Context()
	key := fmt.Sprintf("%slist:%d", cache.AlertsKeyPrefix, productID)
	if data, ok := cache.GetCached(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Write(data)
		return
	}

	list, err := h.Service.Alerts(ctx, productID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list.Alerts == nil {
		list.Alerts = []*models.RiskAlert{}
	}

	data, _ := json.Marshal(list)
	cache.SetCached(ctx, key, data, alertsCacheTTL)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(data)
}

// DismissAlert handles POST /api/alerts/dismiss
func (h *AlertHandler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	var req models.DismissAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	dismissal, err := h.Service.Dismiss(r.Context(), req.CustomerID, req.ProductID, userID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	cache.InvalidateDismissalCaches(r.Context())
	utils.JSON(w, http.StatusOK, dismissal)
}

// DailyBriefing handles GET /api/alerts/daily-briefing
func (h *AlertHandler) DailyBriefing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	briefing, err := h.Service.Briefing(r.Context(), userID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, briefing)
}

// DismissBriefing handles POST /api/alerts/daily-briefing/dismiss
func (h *AlertHandler) DismissBriefing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.Service.DismissBriefing(r.Context(), userID); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

// TriggerDigest handles POST /api/alerts/digest/run (admin only, enforced in
// router). Runs the same job the daily scheduler runs.
func (h *AlertHandler) TriggerDigest(w http.ResponseWriter, r *http.Request) {
	if err := h.Scheduler.RunOnce(r.Context()); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "dispatched"})
}
