package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"goride/internal/data/entity"
	"goride/internal/dto/request"
	"goride/internal/usecase"
	"goride/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// ListPendingDrivers handles GET /api/admin/drivers?page=1&per_page=10
func (h *UserHandler) ListPendingDrivers(w http.ResponseWriter, r *http.Request) {
	page := utils.ParseInt(r.URL.Query().Get("page"), 1)
	perPage := utils.ParseInt(r.URL.Query().Get("per_page"), 10)

	drivers, err := h.service.ListPendingDrivers(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		h.log.Error("Failed to list pending drivers", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "Pending drivers", drivers)
}

// UpdateDriverStatus handles PATCH /api/admin/drivers/{id}/status
func (h *UserHandler) UpdateDriverStatus(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid driver ID", nil)
		return
	}

	var req request.UpdateDriverStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	err = h.service.UpdateDriverStatus(r.Context(), id, entity.DriverStatus(req.Status))
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			utils.ResponseNotFound(w, "Driver not found")
			return
		}
		h.log.Error("Failed to update driver status", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "Driver status updated", nil)
}
