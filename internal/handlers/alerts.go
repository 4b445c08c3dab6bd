package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/go-energy/internal/httpx"
	"github.com/diewo77/go-energy/internal/models"
	"github.com/diewo77/go-energy/internal/policy"
)

// AlertHandler exposes the alerts resource, owner-scoped.
type AlertHandler struct {
	DB *gorm.DB
}

func NewAlertHandler(db *gorm.DB) *AlertHandler {
	return &AlertHandler{DB: db}
}

type alertRequest struct {
	CategoryID *uint    `json:"category_id"`
	Limit      *float64 `json:"limit"`
	Status     *string  `json:"status"`
	Message    *string  `json:"message"`
}

func validAlertStatus(status string) bool {
	switch strings.ToLower(status) {
	case models.AlertStatusActive, models.AlertStatusInactive:
		return true
	}
	return false
}

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	var alerts []models.Alert
	err := h.DB.Where("user_id = ?", callerID(r)).
		Preload("Category").
		Order("id DESC").
		Find(&alerts).Error
	if err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	httpx.JSON(w, http.StatusOK, alerts)
}

func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.CategoryID == nil || req.Limit == nil {
		httpx.Detail(w, http.StatusBadRequest, "category_id and limit are required.")
		return
	}
	var count int64
	h.DB.Model(&models.Category{}).Where("id = ?", *req.CategoryID).Count(&count)
	if count == 0 {
		httpx.Detail(w, http.StatusBadRequest, "Unknown category.")
		return
	}
	alert := models.Alert{
		UserID:     callerID(r),
		CategoryID: *req.CategoryID,
		Limit:      *req.Limit,
		Status:     models.AlertStatusActive,
	}
	if req.Status != nil {
		if !validAlertStatus(*req.Status) {
			httpx.Detail(w, http.StatusBadRequest, "status must be active or inactive.")
			return
		}
		alert.Status = *req.Status
	}
	if req.Message != nil {
		alert.Message = *req.Message
	}
	if err := h.DB.Create(&alert).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	h.DB.Preload("Category").First(&alert, alert.ID)
	httpx.JSON(w, http.StatusCreated, alert)
}

func (h *AlertHandler) load(w http.ResponseWriter, r *http.Request) (*models.Alert, bool) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return nil, false
	}
	var alert models.Alert
	if err := h.DB.Preload("Category").First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Detail(w, http.StatusNotFound, "Alert not found.")
		} else {
			httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		}
		return nil, false
	}
	if !policy.OwnedBy(callerID(r), &alert) {
		httpx.Detail(w, http.StatusForbidden, "You do not have access to this alert.")
		return nil, false
	}
	return &alert, true
}

func (h *AlertHandler) Detail(w http.ResponseWriter, r *http.Request) {
	alert, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, alert)
}

func (h *AlertHandler) Update(w http.ResponseWriter, r *http.Request) {
	alert, ok := h.load(w, r)
	if !ok {
		return
	}
	var req alertRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.CategoryID != nil {
		var count int64
		h.DB.Model(&models.Category{}).Where("id = ?", *req.CategoryID).Count(&count)
		if count == 0 {
			httpx.Detail(w, http.StatusBadRequest, "Unknown category.")
			return
		}
		alert.CategoryID = *req.CategoryID
		alert.Category = nil
	}
	if req.Limit != nil {
		alert.Limit = *req.Limit
	}
	if req.Status != nil {
		if !validAlertStatus(*req.Status) {
			httpx.Detail(w, http.StatusBadRequest, "status must be active or inactive.")
			return
		}
		alert.Status = *req.Status
	}
	if req.Message != nil {
		alert.Message = *req.Message
	}
	if err := h.DB.Save(alert).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	h.DB.Preload("Category").First(alert, alert.ID)
	httpx.JSON(w, http.StatusOK, alert)
}

// Delete removes an alert along with the notification it produced, if any.
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	alert, ok := h.load(w, r)
	if !ok {
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("alert_id = ?", alert.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(alert).Error
	})
	if err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
