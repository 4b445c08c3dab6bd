package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/go-energy/internal/auth"
	"github.com/diewo77/go-energy/internal/db"
	"github.com/diewo77/go-energy/internal/models"
)

func setupApp(t *testing.T) (*App, *gorm.DB) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(conn); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewApp(conn, auth.NewStore(conn, time.Hour)), conn
}

// do sends a request through the full middleware chain using bearer auth.
func do(t *testing.T, app *App, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func seedActiveUser(t *testing.T, conn *gorm.DB, email, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{Email: email, Password: string(hash), IsActive: true, Role: "user"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return user
}

func login(t *testing.T, app *App, email, password string) string {
	t.Helper()
	w := do(t, app, http.MethodPost, "/api/v1/login/", "",
		`{"email":"`+email+`","password":"`+password+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200 got %d: %s", email, w.Code, w.Body.String())
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return payload.Token
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	app, _ := setupApp(t)
	targets := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/consommations/"},
		{http.MethodPost, "/api/v1/alerts/"},
		{http.MethodGet, "/api/v1/users/"},
		{http.MethodGet, "/api/v1/notifications/"},
		{http.MethodPost, "/api/v1/generate-consumptions/"},
		{http.MethodPost, "/api/v1/logout/"},
	}
	for _, tc := range targets {
		w := do(t, app, tc.method, tc.path, "", `{}`)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestWrongMethodIsRejected(t *testing.T) {
	app, _ := setupApp(t)
	w := do(t, app, http.MethodGet, "/api/v1/register/", "", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", w.Code)
	}
}

func TestEndToEndConsumptionAndAlertFlow(t *testing.T) {
	app, conn := setupApp(t)
	seedActiveUser(t, conn, "admin@test", "AdminPass1")
	adminToken := login(t, app, "admin@test", "AdminPass1")

	// Register a new account; it cannot log in until activated.
	w := do(t, app, http.MethodPost, "/api/v1/register/", "",
		`{"email":"alice@test","password":"LongEnough1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201 got %d: %s", w.Code, w.Body.String())
	}
	w = do(t, app, http.MethodPost, "/api/v1/login/", "",
		`{"email":"alice@test","password":"LongEnough1"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("login before activation: expected 403 got %d", w.Code)
	}

	// Activation requires a session; the admin activates alice's email.
	w = do(t, app, http.MethodPost, "/api/v1/activate/", adminToken, `{"email":"alice@test"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("activate: expected 200 got %d: %s", w.Code, w.Body.String())
	}
	aliceToken := login(t, app, "alice@test", "LongEnough1")

	// Categories are seeded; find the electricity one.
	w = do(t, app, http.MethodGet, "/api/v1/categories/", aliceToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("categories: expected 200 got %d", w.Code)
	}
	var categories []models.Category
	if err := json.Unmarshal(w.Body.Bytes(), &categories); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	var electricity models.Category
	for _, c := range categories {
		if c.Name == "Electricité" {
			electricity = c
		}
	}
	if electricity.ID == 0 {
		t.Fatal("seeded electricity category not found")
	}

	// Alice sets an alert at 100.
	w = do(t, app, http.MethodPost, "/api/v1/alerts/", aliceToken,
		`{"category_id":`+itoa(electricity.ID)+`,"limit":100,"message":"too much"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("alert: expected 201 got %d: %s", w.Code, w.Body.String())
	}

	// A qualifying consumption trips the alert and computes total_price.
	w = do(t, app, http.MethodPost, "/api/v1/consommations/", aliceToken,
		`{"category_id":`+itoa(electricity.ID)+`,"value":150,"unit_price":0.18,"date_consommation":"2026-01-05"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("consommation: expected 201 got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID         uint    `json:"id"`
		UserID     uint    `json:"user_id"`
		TotalPrice float64 `json:"total_price"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode consommation: %v", err)
	}
	if created.TotalPrice != 27.0 {
		t.Fatalf("expected total_price 27.0 got %v", created.TotalPrice)
	}

	w = do(t, app, http.MethodGet, "/api/v1/notifications/", aliceToken, "")
	var notifications []models.Notification
	if err := json.Unmarshal(w.Body.Bytes(), &notifications); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification got %d", len(notifications))
	}

	// A second qualifying consumption must not duplicate the notification.
	w = do(t, app, http.MethodPost, "/api/v1/consommations/", aliceToken,
		`{"category_id":`+itoa(electricity.ID)+`,"value":200,"unit_price":0.18,"date_consommation":"2026-01-07"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("second consommation: expected 201 got %d", w.Code)
	}
	w = do(t, app, http.MethodGet, "/api/v1/notifications/", aliceToken, "")
	notifications = nil
	if err := json.Unmarshal(w.Body.Bytes(), &notifications); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notification duplicated: got %d", len(notifications))
	}

	// Inclusive date filtering.
	w = do(t, app, http.MethodGet, "/api/v1/consommations/?date_from=2026-01-05&date_to=2026-01-05", aliceToken, "")
	var listed []models.Consommation
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].Value != 150 {
		t.Fatalf("date filter: expected the 2026-01-05 record, got %d records", len(listed))
	}
	w = do(t, app, http.MethodGet, "/api/v1/consommations/?date_from=2026-01-06", aliceToken, "")
	listed = nil
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].Value != 200 {
		t.Fatalf("date_from filter: expected the 2026-01-07 record, got %d records", len(listed))
	}

	// Tenant isolation: the admin sees none of alice's records.
	w = do(t, app, http.MethodGet, "/api/v1/consommations/", adminToken, "")
	listed = nil
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("tenant leak: admin sees %d records", len(listed))
	}

	// Foreign detail access is forbidden.
	w = do(t, app, http.MethodGet, "/api/v1/consommations/"+itoa(created.ID)+"/", adminToken, "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign detail: expected 403 got %d", w.Code)
	}
}

func TestGenerateConsumptionsEndpoint(t *testing.T) {
	app, conn := setupApp(t)
	user := seedActiveUser(t, conn, "gen@test", "GenPass123")
	token := login(t, app, "gen@test", "GenPass123")

	w := do(t, app, http.MethodPost, "/api/v1/generate-consumptions/", token,
		`{"count":10,"user_id":`+itoa(user.ID)+`,"start_date":"01/01/2026"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		Created int `json:"created"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Three seeded categories × 10 days.
	if payload.Created != 30 {
		t.Fatalf("expected 30 created got %d", payload.Created)
	}

	// Bulk generation bypasses alert evaluation entirely.
	var notifications int64
	conn.Model(&models.Notification{}).Count(&notifications)
	if notifications != 0 {
		t.Fatalf("generator must not produce notifications, got %d", notifications)
	}

	w = do(t, app, http.MethodPost, "/api/v1/generate-consumptions/", token,
		`{"count":5,"user_id":9999,"start_date":"01/01/2026"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404 got %d", w.Code)
	}

	w = do(t, app, http.MethodPost, "/api/v1/generate-consumptions/", token,
		`{"count":0,"user_id":`+itoa(user.ID)+`,"start_date":"01/01/2026"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero count: expected 400 got %d", w.Code)
	}
}

func TestCookieSessionsRequireCSRF(t *testing.T) {
	app, conn := setupApp(t)
	seedActiveUser(t, conn, "cookie@test", "CookiePass1")

	w := do(t, app, http.MethodPost, "/api/v1/login/", "",
		`{"email":"cookie@test","password":"CookiePass1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200 got %d", w.Code)
	}
	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("login did not set the session cookie")
	}

	// Cookie-authenticated mutation without the CSRF header is refused.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/logout/", strings.NewReader(""))
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}

	// Fetch a CSRF token and echo it back.
	w = do(t, app, http.MethodGet, "/api/v1/csrf/", "", "")
	var csrfCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CSRFCookieName {
			csrfCookie = c
		}
	}
	if csrfCookie == nil {
		t.Fatal("csrf endpoint did not set the cookie")
	}
	req = httptest.NewRequest(http.MethodPost, "/api/v1/logout/", strings.NewReader(""))
	req.AddCookie(sessionCookie)
	req.AddCookie(csrfCookie)
	req.Header.Set(auth.CSRFHeaderName, csrfCookie.Value)
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
