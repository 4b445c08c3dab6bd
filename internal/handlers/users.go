package handlers

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/go-energy/internal/auth"
	"github.com/diewo77/go-energy/internal/httpx"
	"github.com/diewo77/go-energy/internal/models"
	"github.com/diewo77/go-energy/internal/validation"
)

// UserHandler exposes the users resource. The collection is scoped to the
// caller: each tenant sees and manages only their own row.
type UserHandler struct {
	DB       *gorm.DB
	Sessions *auth.Store
}

func NewUserHandler(db *gorm.DB, sessions *auth.Store) *UserHandler {
	return &UserHandler{DB: db, Sessions: sessions}
}

type userUpdateRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsActive *bool   `json:"is_active"`
	Role     *string `json:"role"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Where("id = ?", callerID(r)).Find(&users).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) load(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return nil, false
	}
	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Detail(w, http.StatusNotFound, "User not found.")
		} else {
			httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		}
		return nil, false
	}
	if user.ID != callerID(r) {
		httpx.Detail(w, http.StatusForbidden, "You do not have access to this user.")
		return nil, false
	}
	return &user, true
}

func (h *UserHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}
	var req userUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			httpx.Detail(w, http.StatusBadRequest, "Email must not be empty.")
			return
		}
		var count int64
		h.DB.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count)
		if count > 0 {
			httpx.Detail(w, http.StatusConflict, "Email already registered.")
			return
		}
		user.Email = email
	}
	if req.Password != nil {
		v := validation.Violations{}
		validation.Password("password", *req.Password, v)
		if !v.Empty() {
			httpx.Detail(w, http.StatusBadRequest, v.Detail())
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
			return
		}
		user.Password = string(hash)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if err := h.DB.Save(user).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

// Delete removes the caller's account. Owned consumptions, alerts and
// notifications go with it, as do all open sessions.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Alert{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Consommation{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if err := h.Sessions.DestroyAllForUser(r.Context(), user.ID); err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	auth.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
