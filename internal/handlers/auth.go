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

type AuthHandler struct {
	DB       *gorm.DB
	Sessions *auth.Store
}

func NewAuthHandler(db *gorm.DB, sessions *auth.Store) *AuthHandler {
	return &AuthHandler{DB: db, Sessions: sessions}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CSRF handles GET /csrf/: issues the anti-forgery token for cookie-based
// clients.
func (h *AuthHandler) CSRF(w http.ResponseWriter, r *http.Request) {
	token := auth.NewCSRFToken()
	auth.SetCSRFCookie(w, token)
	httpx.JSON(w, http.StatusOK, map[string]string{"csrfToken": token})
}

// Register handles POST /register/: creates an inactive account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Required("password", req.Password, v)
	if req.Password != "" {
		validation.Password("password", req.Password, v)
	}
	if !v.Empty() {
		httpx.Detail(w, http.StatusBadRequest, v.Detail())
		return
	}

	var count int64
	h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httpx.Detail(w, http.StatusConflict, "Email already registered.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	user := models.User{
		Email:    email,
		Password: string(hash),
		IsActive: false,
		Role:     "user",
	}
	if err := h.DB.Create(&user).Error; err != nil {
		httpx.Detail(w, http.StatusConflict, "Email already registered.")
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"id":        user.ID,
		"email":     user.Email,
		"is_active": user.IsActive,
		"message":   "Registration successful. Please verify your email.",
	})
}

// Activate handles POST /activate/: flips an account to active (simulated
// email verification). Requires a session, but activates the email from the
// payload, not necessarily the session owner. Idempotent.
func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		httpx.Detail(w, http.StatusBadRequest, "Email is required.")
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Detail(w, http.StatusNotFound, "User not found.")
			return
		}
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	if !user.IsActive {
		if err := h.DB.Model(&user).Update("is_active", true).Error; err != nil {
			httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
			return
		}
		user.IsActive = true
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":        user.ID,
		"email":     user.Email,
		"is_active": user.IsActive,
	})
}

// Login handles POST /login/: verifies credentials, opens a session and
// returns its token. Inactive accounts are refused before the password is
// checked.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		httpx.Detail(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		httpx.Detail(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}
	if !user.IsActive {
		httpx.Detail(w, http.StatusForbidden, "Account not activated.")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		httpx.Detail(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token, err := h.Sessions.Create(r.Context(), user.ID)
	if err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	auth.SetSessionCookie(w, token, h.Sessions.TTL())

	httpx.JSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout handles POST /logout/: destroys the session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := auth.TokenFromRequest(r)
	if err := h.Sessions.Destroy(r.Context(), token); err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	auth.ClearSessionCookie(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}
