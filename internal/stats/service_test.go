package stats

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/db"
	"github.com/chzeraa/painel-bemaxx/internal/enrollment"
	"github.com/chzeraa/painel-bemaxx/internal/models"
	"github.com/chzeraa/painel-bemaxx/internal/security"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func seedSeller(t *testing.T, conn *gorm.DB, email string) *models.User {
	t.Helper()
	hash, errHash := security.HashPassword("secret123")
	if errHash != nil {
		t.Fatalf("hash: %v", errHash)
	}
	now := time.Now().UTC()
	user := models.User{
		Name:      "Seller",
		Email:     email,
		Password:  hash,
		Role:      models.RoleSeller,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		t.Fatalf("seed seller: %v", errCreate)
	}
	return &user
}

func sellCodes(t *testing.T, conn *gorm.DB, owner *models.User, prices map[string]float64) {
	t.Helper()
	ctx := context.Background()
	enroll := enrollment.NewService(conn)
	for suffix, price := range prices {
		if _, errCreate := enroll.Create(ctx, suffix); errCreate != nil {
			t.Fatalf("create %s: %v", suffix, errCreate)
		}
		if price <= 0 {
			continue
		}
		if _, errSale := enroll.RecordSale(ctx, enrollment.SaleInput{
			Number:  enrollment.NormalizeNumber(suffix),
			OwnerID: owner.ID,
			Price:   price,
		}); errSale != nil {
			t.Fatalf("sell %s: %v", suffix, errSale)
		}
	}
}

func TestOverviewConversionRate(t *testing.T) {
	conn := newTestDB(t)
	seller := seedSeller(t, conn, "seller@example.com")

	// 3 sold out of 7 total.
	sellCodes(t, conn, seller, map[string]float64{
		"000100": 50, "000101": 100, "000102": 150,
		"000103": 0, "000104": 0, "000105": 0, "000106": 0,
	})

	overview, errOverview := NewService(conn).Overview(context.Background())
	if errOverview != nil {
		t.Fatalf("overview: %v", errOverview)
	}
	if overview.UsedCount != 3 || overview.AvailableCount != 4 {
		t.Fatalf("want 3 used / 4 available, got %d / %d", overview.UsedCount, overview.AvailableCount)
	}
	if math.Abs(overview.ConversionRate-3.0/7.0*100) > 1e-9 {
		t.Fatalf("want conversion 3/7, got %f", overview.ConversionRate)
	}
	if overview.TotalRevenue != 300 {
		t.Fatalf("want revenue 300, got %f", overview.TotalRevenue)
	}
	if overview.AverageTicket != 100 {
		t.Fatalf("want average ticket 100, got %f", overview.AverageTicket)
	}
	if overview.SellerCount != 1 {
		t.Fatalf("want 1 seller, got %d", overview.SellerCount)
	}
}

func TestOverviewEmptyPoolGuards(t *testing.T) {
	conn := newTestDB(t)

	overview, errOverview := NewService(conn).Overview(context.Background())
	if errOverview != nil {
		t.Fatalf("overview: %v", errOverview)
	}
	if overview.ConversionRate != 0 {
		t.Fatalf("want conversion 0 with nothing sold, got %f", overview.ConversionRate)
	}
	if overview.AverageTicket != 0 {
		t.Fatalf("want average ticket 0 with nothing sold, got %f", overview.AverageTicket)
	}
}

func TestOverviewIgnoresVoidedCodes(t *testing.T) {
	conn := newTestDB(t)
	seller := seedSeller(t, conn, "seller@example.com")
	enroll := enrollment.NewService(conn)
	ctx := context.Background()

	sellCodes(t, conn, seller, map[string]float64{"000110": 100, "000111": 0})
	if _, errVoid := enroll.Void(ctx, "aec000111"); errVoid != nil {
		t.Fatalf("void: %v", errVoid)
	}

	overview, errOverview := NewService(conn).Overview(ctx)
	if errOverview != nil {
		t.Fatalf("overview: %v", errOverview)
	}
	if overview.UsedCount != 1 || overview.AvailableCount != 0 {
		t.Fatalf("voided code counted: %d used / %d available", overview.UsedCount, overview.AvailableCount)
	}
	if overview.ConversionRate != 100 {
		t.Fatalf("want conversion 100, got %f", overview.ConversionRate)
	}
}

func TestForUser(t *testing.T) {
	conn := newTestDB(t)
	seller := seedSeller(t, conn, "seller@example.com")
	other := seedSeller(t, conn, "other@example.com")

	sellCodes(t, conn, seller, map[string]float64{"000120": 60, "000121": 40})
	sellCodes(t, conn, other, map[string]float64{"000122": 999})

	summary, errStats := NewService(conn).ForUser(context.Background(), seller.ID)
	if errStats != nil {
		t.Fatalf("for user: %v", errStats)
	}
	if summary.SalesCount != 2 {
		t.Fatalf("want 2 sales, got %d", summary.SalesCount)
	}
	if summary.AmountCollected != 100 {
		t.Fatalf("want amount 100, got %f", summary.AmountCollected)
	}
	if summary.ActiveCount != 2 {
		t.Fatalf("want 2 active, got %d", summary.ActiveCount)
	}
	if summary.AvgActiveDays != float64(models.DefaultActiveDays) {
		t.Fatalf("want avg %d days, got %f", models.DefaultActiveDays, summary.AvgActiveDays)
	}
}

func TestCheckConsistency(t *testing.T) {
	conn := newTestDB(t)
	seller := seedSeller(t, conn, "seller@example.com")
	ctx := context.Background()

	sellCodes(t, conn, seller, map[string]float64{"000130": 75})

	svc := NewService(conn)
	drifts, errCheck := svc.CheckConsistency(ctx)
	if errCheck != nil {
		t.Fatalf("consistency: %v", errCheck)
	}
	if len(drifts) != 0 {
		t.Fatalf("want no drift after transactional sale, got %+v", drifts)
	}

	// Corrupt the stored counter and the check must flag it.
	if errUpdate := conn.Model(&models.User{}).Where("id = ?", seller.ID).
		Update("total_sales", 9).Error; errUpdate != nil {
		t.Fatalf("corrupt totals: %v", errUpdate)
	}
	drifts, errCheck = svc.CheckConsistency(ctx)
	if errCheck != nil {
		t.Fatalf("consistency: %v", errCheck)
	}
	if len(drifts) != 1 {
		t.Fatalf("want 1 drift, got %d", len(drifts))
	}
	if drifts[0].StoredSales != 9 || drifts[0].ActualSales != 1 {
		t.Fatalf("unexpected drift: %+v", drifts[0])
	}
}
