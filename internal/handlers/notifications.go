package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/go-energy/internal/httpx"
	"github.com/diewo77/go-energy/internal/models"
	"github.com/diewo77/go-energy/internal/policy"
)

// NotificationHandler exposes the notifications resource, owner-scoped.
// There is no create endpoint: notifications exist only as a side effect of
// the alert evaluation rule.
type NotificationHandler struct {
	DB *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{DB: db}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	var notifications []models.Notification
	err := h.DB.Where("user_id = ?", callerID(r)).
		Preload("Alert").
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	httpx.JSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) load(w http.ResponseWriter, r *http.Request) (*models.Notification, bool) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return nil, false
	}
	var notification models.Notification
	if err := h.DB.Preload("Alert").First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Detail(w, http.StatusNotFound, "Notification not found.")
		} else {
			httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		}
		return nil, false
	}
	if !policy.OwnedBy(callerID(r), &notification) {
		httpx.Detail(w, http.StatusForbidden, "You do not have access to this notification.")
		return nil, false
	}
	return &notification, true
}

func (h *NotificationHandler) Detail(w http.ResponseWriter, r *http.Request) {
	notification, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, notification)
}

// Update lets the owner mark a notification read or unread.
func (h *NotificationHandler) Update(w http.ResponseWriter, r *http.Request) {
	notification, ok := h.load(w, r)
	if !ok {
		return
	}
	var req struct {
		Read *bool `json:"read"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.Read != nil {
		if err := h.DB.Model(notification).Update("read", *req.Read).Error; err != nil {
			httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
			return
		}
		notification.Read = *req.Read
	}
	httpx.JSON(w, http.StatusOK, notification)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	notification, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.DB.Delete(notification).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
