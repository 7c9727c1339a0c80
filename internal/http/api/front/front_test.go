package front

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/config"
	"github.com/chzeraa/painel-bemaxx/internal/db"
	"github.com/chzeraa/painel-bemaxx/internal/directory"
	"github.com/chzeraa/painel-bemaxx/internal/enrollment"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	cfg := &config.Config{}
	cfg.JWT.Secret = "front-test-secret"
	cfg.JWT.ExpiryHours = 1

	engine := gin.New()
	RegisterFrontRoutes(engine, conn, cfg)
	return engine, conn
}

func seedSeller(t *testing.T, conn *gorm.DB, email string) {
	t.Helper()
	if _, errCreate := directory.NewService(conn).Create(context.Background(), directory.CreateParams{
		Name:     "Seller",
		Email:    email,
		Password: "secret123",
	}); errCreate != nil {
		t.Fatalf("seed seller: %v", errCreate)
	}
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, errMarshal := json.Marshal(body)
		if errMarshal != nil {
			t.Fatalf("marshal body: %v", errMarshal)
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
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	parsed := map[string]any{}
	if rec.Body.Len() > 0 {
		if errDecode := json.Unmarshal(rec.Body.Bytes(), &parsed); errDecode != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), errDecode)
		}
	}
	return rec, parsed
}

func login(t *testing.T, engine *gin.Engine, email, password string) string {
	t.Helper()
	rec, body := doJSON(t, engine, http.MethodPost, "/v0/front/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login: empty token")
	}
	return token
}

func TestLoginStatusMapping(t *testing.T) {
	engine, conn := newTestRouter(t)
	seedSeller(t, conn, "seller@example.com")

	rec, _ := doJSON(t, engine, http.MethodPost, "/v0/front/login", "", gin.H{
		"email": "seller@example.com", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: want 401, got %d", rec.Code)
	}

	rec, _ = doJSON(t, engine, http.MethodPost, "/v0/front/login", "", gin.H{
		"email": "seller@example.com",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password: want 400, got %d", rec.Code)
	}

	login(t, engine, "seller@example.com", "secret123")
}

func TestBlockedAccountRejectedOnEveryRequest(t *testing.T) {
	engine, conn := newTestRouter(t)
	seedSeller(t, conn, "seller@example.com")

	token := login(t, engine, "seller@example.com", "secret123")

	rec, _ := doJSON(t, engine, http.MethodGet, "/v0/front/profile", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile before block: want 200, got %d", rec.Code)
	}

	// Block after the token was issued; the next request must fail.
	if errBlock := conn.Table("users").Where("email = ?", "seller@example.com").
		Update("blocked", true).Error; errBlock != nil {
		t.Fatalf("block account: %v", errBlock)
	}
	rec, _ = doJSON(t, engine, http.MethodGet, "/v0/front/profile", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("profile after block: want 403, got %d", rec.Code)
	}

	rec, _ = doJSON(t, engine, http.MethodPost, "/v0/front/login", "", gin.H{
		"email": "seller@example.com", "password": "secret123",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("login while blocked: want 403, got %d", rec.Code)
	}
}

func TestProfileRequiresToken(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec, _ := doJSON(t, engine, http.MethodGet, "/v0/front/profile", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: want 401, got %d", rec.Code)
	}

	rec, _ = doJSON(t, engine, http.MethodGet, "/v0/front/profile", "garbage", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: want 401, got %d", rec.Code)
	}
}

func TestDrawAndSaleFlow(t *testing.T) {
	engine, conn := newTestRouter(t)
	seedSeller(t, conn, "seller@example.com")
	token := login(t, engine, "seller@example.com", "secret123")

	enroll := enrollment.NewService(conn)
	if _, errCreate := enroll.Create(context.Background(), "000200"); errCreate != nil {
		t.Fatalf("seed code: %v", errCreate)
	}

	rec, body := doJSON(t, engine, http.MethodPost, "/v0/front/matriculas/draw", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("draw: want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	number, _ := body["number"].(string)
	if number != "aec000200" {
		t.Fatalf("draw: want aec000200, got %q", number)
	}

	rec, body = doJSON(t, engine, http.MethodPost, "/v0/front/matriculas/sale", token, gin.H{
		"number":         number,
		"customer_name":  "Cliente",
		"customer_email": "cliente@example.com",
		"price":          120.0,
		"payment_method": "pix",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("sale: want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	user, _ := body["user"].(map[string]any)
	if user["total_sales"].(float64) != 1 {
		t.Fatalf("sale: want updated totals in response, got %v", body["user"])
	}

	// Second sale of the same code is a conflict.
	rec, _ = doJSON(t, engine, http.MethodPost, "/v0/front/matriculas/sale", token, gin.H{
		"number": number, "price": 120.0,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("resale: want 409, got %d", rec.Code)
	}

	// The pool is exhausted now.
	rec, _ = doJSON(t, engine, http.MethodPost, "/v0/front/matriculas/draw", token, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("draw on empty pool: want 409, got %d", rec.Code)
	}

	rec, body = doJSON(t, engine, http.MethodGet, "/v0/front/matriculas", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: want 200, got %d", rec.Code)
	}
	if body["total"].(float64) != 1 {
		t.Fatalf("list: want 1 owned code, got %v", body["total"])
	}

	rec, body = doJSON(t, engine, http.MethodGet, "/v0/front/dashboard/stats", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: want 200, got %d", rec.Code)
	}
	if body["sales_count"].(float64) != 1 {
		t.Fatalf("stats: want 1 sale, got %v", body["sales_count"])
	}
}

func TestSaleValidationStatuses(t *testing.T) {
	engine, conn := newTestRouter(t)
	seedSeller(t, conn, "seller@example.com")
	token := login(t, engine, "seller@example.com", "secret123")

	if _, errCreate := enrollment.NewService(conn).Create(context.Background(), "000201"); errCreate != nil {
		t.Fatalf("seed code: %v", errCreate)
	}

	rec, _ := doJSON(t, engine, http.MethodPost, "/v0/front/matriculas/sale", token, gin.H{
		"number": "aec000201", "price": 0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero price: want 400, got %d", rec.Code)
	}

	rec, _ = doJSON(t, engine, http.MethodPost, "/v0/front/matriculas/sale", token, gin.H{
		"number": "aec000201", "price": 10, "payment_method": "cheque",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad method: want 400, got %d", rec.Code)
	}

	rec, _ = doJSON(t, engine, http.MethodPost, "/v0/front/matriculas/sale", token, gin.H{
		"number": "aec999999", "price": 10,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown code: want 404, got %d", rec.Code)
	}
}

func TestChangePassword(t *testing.T) {
	engine, conn := newTestRouter(t)
	seedSeller(t, conn, "seller@example.com")
	token := login(t, engine, "seller@example.com", "secret123")

	rec, _ := doJSON(t, engine, http.MethodPut, "/v0/front/profile/password", token, gin.H{
		"current_password": "wrong", "new_password": "changed456",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("wrong current password: want 400, got %d", rec.Code)
	}

	rec, _ = doJSON(t, engine, http.MethodPut, "/v0/front/profile/password", token, gin.H{
		"current_password": "secret123", "new_password": "changed456",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("change password: want 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	login(t, engine, "seller@example.com", "changed456")
}
