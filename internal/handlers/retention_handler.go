package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"crm-backend/internal/cache"
	"crm-backend/internal/services"
	"crm-backend/pkg/utils"
)

const retentionCacheTTL = 5 * time.Minute

type RetentionHandler struct {
	Service *services.RetentionService
}

func NewRetentionHandler(s *services.RetentionService) *RetentionHandler {
	return &RetentionHandler{Service: s}
}

// respondCached writes a cached payload when present, otherwise computes,
// caches and writes it
func respondCached(w http.ResponseWriter, r *http.Request, key string, compute func() (interface{}, error)) {
	ctx := r.Context()
	if data, ok := cache.GetCached(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, _ := json.Marshal(result)
	cache.SetCached(ctx, key, data, retentionCacheTTL)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(data)
}

// Overview handles GET /api/retention/overview
func (h *RetentionHandler) Overview(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	productID, _ := strconv.Atoi(r.URL.Query().Get("product_id"))

	key := fmt.Sprintf("%soverview:%s:%s:%d", cache.RetentionKeyPrefix,
		r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"), productID)
	respondCached(w, r, key, func() (interface{}, error) {
		return h.Service.Overview(r.Context(), start, end, productID)
	})
}

// Customers handles GET /api/retention/customers
func (h *RetentionHandler) Customers(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	productID, _ := strconv.Atoi(q.Get("product_id"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	filterType := q.Get("filter_type")
	sortBy := q.Get("sort_by")

	key := fmt.Sprintf("%scustomers:%s:%s:%d:%s:%s:%d", cache.RetentionKeyPrefix,
		q.Get("start_date"), q.Get("end_date"), productID, filterType, sortBy, limit)
	respondCached(w, r, key, func() (interface{}, error) {
		return h.Service.Customers(r.Context(), start, end, productID, filterType, sortBy, limit)
	})
}

// Trend handles GET /api/retention/trend
func (h *RetentionHandler) Trend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, _ := strconv.Atoi(q.Get("days"))
	productID, _ := strconv.Atoi(q.Get("product_id"))

	key := fmt.Sprintf("%strend:%d:%d", cache.RetentionKeyPrefix, days, productID)
	respondCached(w, r, key, func() (interface{}, error) {
		return h.Service.Trend(r.Context(), days, productID)
	})
}

// ByProduct handles GET /api/retention/by-product
func (h *RetentionHandler) ByProduct(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("%sby-product:%s:%s", cache.RetentionKeyPrefix,
		r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	respondCached(w, r, key, func() (interface{}, error) {
		return h.Service.ByProduct(r.Context(), start, end)
	})
}

// ByStaff handles GET /api/retention/by-staff (admin only, enforced in router)
func (h *RetentionHandler) ByStaff(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("%sby-staff:%s:%s", cache.RetentionKeyPrefix,
		r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	respondCached(w, r, key, func() (interface{}, error) {
		return h.Service.ByStaff(r.Context(), start, end)
	})
}
