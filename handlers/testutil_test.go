package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"food-marketplace-api/config"
	"food-marketplace-api/handlers"
	"food-marketplace-api/mailer"
	"food-marketplace-api/models"
	"food-marketplace-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// stubMailer records outbound mail instead of dialing SMTP.
type stubMailer struct {
	sent []stubMessage
	fail bool
}

type stubMessage struct {
	To      []string
	Subject string
	Body    string
}

func (m *stubMailer) Send(to []string, subject, body string, _ ...mailer.Attachment) error {
	if m.fail {
		return fmt.Errorf("smtp unavailable")
	}
	m.sent = append(m.sent, stubMessage{To: to, Subject: subject, Body: body})
	return nil
}

// newTestServer wires a fresh in-memory database, stub mailer, and router.
func newTestServer(t *testing.T) (*gin.Engine, *stubMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.C = &config.Config{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
		ResetSecret: "test-reset-secret",
		ResetExpiry: 15 * time.Minute,
		SMTP:        config.SMTPConfig{ApplicationsTo: "applications@test.local"},
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	config.DB = db

	mail := &stubMailer{}
	handlers.Mail = mail
	handlers.Reports = nil

	r := gin.New()
	routes.SetupRoutes(r)
	return r, mail
}

func seedUser(t *testing.T, role models.UserRole, username string, restaurantID *uint) *models.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		RestaurantID: restaurantID,
	}
	if err := config.DB.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return &u
}

// do performs a JSON request and decodes the response body.
func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, out
}

// extractToken pulls the JWT out of a reset email body. The token sits in
// its own paragraph between blank lines.
func extractToken(t *testing.T, body string) string {
	t.Helper()
	for _, part := range strings.Split(body, "\n\n") {
		if strings.Count(part, ".") == 2 && !strings.Contains(part, " ") {
			return strings.TrimSpace(part)
		}
	}
	t.Fatalf("no token found in email body %q", body)
	return ""
}

// login authenticates a seeded user and returns the bearer token.
func login(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	code, resp := do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": "password",
	})
	if code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %v", username, code, resp)
	}
	token, _ := resp["access_token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in %v", username, resp)
	}
	return token
}
