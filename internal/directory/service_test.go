package directory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/db"
	"github.com/chzeraa/painel-bemaxx/internal/enrollment"
	"github.com/chzeraa/painel-bemaxx/internal/models"
)

// newTestConn opens a throwaway database with the same pragma set the
// server runs with, foreign_keys enforcement included.
func newTestConn(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "directory.db") +
		"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(newTestConn(t))
}

func TestCreateAndAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, errCreate := svc.Create(ctx, CreateParams{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "secret123",
	})
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	if created.Role != models.RoleSeller {
		t.Fatalf("want default role %s, got %s", models.RoleSeller, created.Role)
	}
	if created.Password == "secret123" {
		t.Fatal("password stored in plain text")
	}
	if created.PaymentStatus == nil || *created.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("want default payment status pending, got %v", created.PaymentStatus)
	}

	user, errAuth := svc.Authenticate(ctx, "ana@example.com", "secret123")
	if errAuth != nil {
		t.Fatalf("authenticate: %v", errAuth)
	}
	if user.ID != created.ID {
		t.Fatalf("want user %d, got %d", created.ID, user.ID)
	}

	if _, errWrong := svc.Authenticate(ctx, "ana@example.com", "wrong"); !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", errWrong)
	}
	if _, errUnknown := svc.Authenticate(ctx, "nobody@example.com", "secret123"); !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials for unknown email, got %v", errUnknown)
	}
}

func TestAuthenticateBlockedBeforeInactive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, errCreate := svc.Create(ctx, CreateParams{
		Name:     "Bia",
		Email:    "bia@example.com",
		Password: "secret123",
	})
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}

	blocked := true
	inactive := false
	if _, errUpdate := svc.Update(ctx, created.ID, Patch{Blocked: &blocked, Active: &inactive}); errUpdate != nil {
		t.Fatalf("update: %v", errUpdate)
	}

	// Both flags set; the blocked check wins.
	if _, errAuth := svc.Authenticate(ctx, "bia@example.com", "secret123"); !errors.Is(errAuth, ErrBlocked) {
		t.Fatalf("want ErrBlocked, got %v", errAuth)
	}

	unblocked := false
	if _, errUpdate := svc.Update(ctx, created.ID, Patch{Blocked: &unblocked}); errUpdate != nil {
		t.Fatalf("update: %v", errUpdate)
	}
	if _, errAuth := svc.Authenticate(ctx, "bia@example.com", "secret123"); !errors.Is(errAuth, ErrInactive) {
		t.Fatalf("want ErrInactive, got %v", errAuth)
	}

	// Wrong password outranks account state.
	if _, errAuth := svc.Authenticate(ctx, "bia@example.com", "wrong"); !errors.Is(errAuth, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", errAuth)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateParams{Email: "x@example.com", Password: "p"}); !errors.Is(err, ErrMissingField) {
		t.Fatalf("want ErrMissingField, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateParams{Name: "X", Email: "not-an-email", Password: "p"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateParams{Name: "X", Email: "x@example.com", Password: "p", Role: "root"}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("want ErrInvalidRole, got %v", err)
	}
	fee := -1.0
	if _, err := svc.Create(ctx, CreateParams{Name: "X", Email: "x@example.com", Password: "p", AccessFee: &fee}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}

	if _, err := svc.Create(ctx, CreateParams{Name: "X", Email: "x@example.com", Password: "p"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateParams{Name: "Y", Email: "x@example.com", Password: "p"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
}

func TestUpdateKeepsPasswordWhenEmpty(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, errCreate := svc.Create(ctx, CreateParams{Name: "Caio", Email: "caio@example.com", Password: "secret123"})
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}

	name := "Caio Silva"
	empty := ""
	if _, errUpdate := svc.Update(ctx, created.ID, Patch{Name: &name, Password: &empty}); errUpdate != nil {
		t.Fatalf("update: %v", errUpdate)
	}

	user, errAuth := svc.Authenticate(ctx, "caio@example.com", "secret123")
	if errAuth != nil {
		t.Fatalf("authenticate after update: %v", errAuth)
	}
	if user.Name != "Caio Silva" {
		t.Fatalf("want updated name, got %s", user.Name)
	}
}

func TestUpdateValidatesPaymentStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, errCreate := svc.Create(ctx, CreateParams{Name: "Davi", Email: "davi@example.com", Password: "secret123"})
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}

	bad := "unpaid"
	if _, errUpdate := svc.Update(ctx, created.ID, Patch{PaymentStatus: &bad}); !errors.Is(errUpdate, ErrInvalidStatus) {
		t.Fatalf("want ErrInvalidStatus, got %v", errUpdate)
	}
	good := models.PaymentStatusCurrent
	user, errUpdate := svc.Update(ctx, created.ID, Patch{PaymentStatus: &good})
	if errUpdate != nil {
		t.Fatalf("update: %v", errUpdate)
	}
	if user.PaymentStatus == nil || *user.PaymentStatus != models.PaymentStatusCurrent {
		t.Fatalf("want payment status current, got %v", user.PaymentStatus)
	}
}

func TestDeleteAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, errCreate := svc.Create(ctx, CreateParams{Name: "Eva", Email: "eva@example.com", Password: "secret123"})
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	if errDelete := svc.Delete(ctx, created.ID); errDelete != nil {
		t.Fatalf("delete: %v", errDelete)
	}
	if _, errGet := svc.Get(ctx, created.ID); !errors.Is(errGet, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", errGet)
	}
	if errDelete := svc.Delete(ctx, created.ID); !errors.Is(errDelete, ErrNotFound) {
		t.Fatalf("want ErrNotFound on second delete, got %v", errDelete)
	}
}

func TestDeleteSellerKeepsSoldCodes(t *testing.T) {
	conn := newTestConn(t)
	svc := NewService(conn)
	pool := enrollment.NewService(conn)
	ctx := context.Background()

	seller, errCreate := svc.Create(ctx, CreateParams{Name: "Gil", Email: "gil@example.com", Password: "secret123"})
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	code, errCode := pool.Create(ctx, "001234")
	if errCode != nil {
		t.Fatalf("create code: %v", errCode)
	}
	if _, errSale := pool.RecordSale(ctx, enrollment.SaleInput{
		Number:        code.Number,
		OwnerID:       seller.ID,
		CustomerName:  "Cliente",
		CustomerEmail: "cliente@example.com",
		Price:         150,
		PaymentMethod: models.MethodPix,
	}); errSale != nil {
		t.Fatalf("record sale: %v", errSale)
	}

	if errDelete := svc.Delete(ctx, seller.ID); errDelete != nil {
		t.Fatalf("delete seller with sales: %v", errDelete)
	}
	if _, errGet := svc.Get(ctx, seller.ID); !errors.Is(errGet, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", errGet)
	}

	// The sold code stays attributed to the removed account.
	var sold models.Matricula
	if errFind := conn.Where("number = ?", code.Number).First(&sold).Error; errFind != nil {
		t.Fatalf("reload sold code: %v", errFind)
	}
	if sold.Status != models.MatriculaUsed {
		t.Fatalf("want status used, got %s", sold.Status)
	}
	if sold.OwnerUserID == nil || *sold.OwnerUserID != seller.ID {
		t.Fatalf("want owner %d kept on sold code, got %v", seller.ID, sold.OwnerUserID)
	}
}

func TestListFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, params := range []CreateParams{
		{Name: "Alice Souza", Email: "alice@example.com", Password: "p", Role: models.RoleAdmin},
		{Name: "Bruno Lima", Email: "bruno@example.com", Password: "p"},
		{Name: "Alicia Costa", Email: "alicia@example.com", Password: "p"},
	} {
		if _, errCreate := svc.Create(ctx, params); errCreate != nil {
			t.Fatalf("create %s: %v", params.Email, errCreate)
		}
	}

	byName, errName := svc.List(ctx, Filter{Name: "alic"})
	if errName != nil {
		t.Fatalf("list by name: %v", errName)
	}
	if len(byName) != 2 {
		t.Fatalf("want 2 accounts matching name, got %d", len(byName))
	}

	admins, errRole := svc.List(ctx, Filter{Role: models.RoleAdmin})
	if errRole != nil {
		t.Fatalf("list by role: %v", errRole)
	}
	if len(admins) != 1 || admins[0].Email != "alice@example.com" {
		t.Fatalf("unexpected admin listing: %+v", admins)
	}
}
