package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"crm-backend/internal/middleware"
	"crm-backend/internal/models"
	"crm-backend/internal/services"
	"crm-backend/internal/timeutil"
	"crm-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type DepositHandler struct {
	Service *services.DepositService
}

func NewDepositHandler(s *services.DepositService) *DepositHandler {
	return &DepositHandler{Service: s}
}

// parseWindow reads optional start_date/end_date query params. End before
// start is rejected, never silently swapped.
func parseWindow(r *http.Request) (start, end *time.Time, err error) {
	if v := r.URL.Query().Get("start_date"); v != "" {
		t, perr := timeutil.ParseDate(v)
		if perr != nil {
			return nil, nil, perr
		}
		start = &t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, perr := timeutil.ParseDate(v)
		if perr != nil {
			return nil, nil, perr
		}
		end = &t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, errEndBeforeStart
	}
	return start, end, nil
}

type windowError string

func (e windowError) Error() string { return string(e) }

const errEndBeforeStart = windowError("end_date is before start_date")

// ListDeposits handles GET /api/deposits
func (h *DepositHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	q := models.DepositListQuery{Start: start, End: end}
	q.ProductID, _ = strconv.Atoi(r.URL.Query().Get("product_id"))
	q.StaffID, _ = strconv.Atoi(r.URL.Query().Get("staff_id"))
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	deposits, err := h.Service.List(r.Context(), q)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if deposits == nil {
		deposits = []*models.DepositRecord{}
	}
	utils.JSON(w, http.StatusOK, deposits)
}

// CreateDeposit handles POST /api/deposits
func (h *DepositHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	staffID, _ := middleware.GetUserIDFromContext(r.Context())
	deposit, err := h.Service.Create(r.Context(), &req, staffID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, deposit)
}

// UpdateDeposit handles PUT /api/deposits/{id}
func (h *DepositHandler) UpdateDeposit(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	deposit, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, deposit)
}

// DeleteDeposit handles DELETE /api/deposits/{id} (soft delete)
func (h *DepositHandler) DeleteDeposit(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListTrash handles GET /api/deposits/trash
func (h *DepositHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.Service.ListTrash(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if deposits == nil {
		deposits = []*models.DepositRecord{}
	}
	utils.JSON(w, http.StatusOK, deposits)
}

// RestoreDeposit handles POST /api/deposits/{id}/restore
func (h *DepositHandler) RestoreDeposit(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	deposit, err := h.Service.Restore(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, deposit)
}

// PurgeDeposit handles DELETE /api/deposits/{id}/purge
func (h *DepositHandler) PurgeDeposit(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.Purge(r.Context(), id); err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "purged"})
}
