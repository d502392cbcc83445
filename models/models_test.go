package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" TEXT PRIMARY KEY, "email" TEXT NOT NULL UNIQUE, "password" TEXT NOT NULL,
			"name" TEXT, "role" TEXT DEFAULT 'staff',
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "customers" (
			"id" TEXT PRIMARY KEY, "name" TEXT NOT NULL, "phone" TEXT NOT NULL UNIQUE,
			"email" TEXT, "birthday" DATETIME, "points" INTEGER DEFAULT 0, "badge" TEXT DEFAULT 'bronze',
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "categories" (
			"id" TEXT PRIMARY KEY, "name" TEXT NOT NULL, "icon" TEXT, "description" TEXT,
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "products" (
			"id" TEXT PRIMARY KEY, "name" TEXT NOT NULL, "description" TEXT,
			"price" REAL NOT NULL, "category_id" TEXT NOT NULL, "is_active" INTEGER DEFAULT 1,
			"on_promotion" INTEGER DEFAULT 0, "promo_price" REAL, "prep_time_minutes" INTEGER DEFAULT 15,
			"is_vegetarian" INTEGER DEFAULT 0, "is_vegan" INTEGER DEFAULT 0, "is_gluten_free" INTEGER DEFAULT 0,
			"image_url" TEXT, "created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "weekly_schedules" (
			"id" TEXT PRIMARY KEY, "day_of_week" INTEGER NOT NULL UNIQUE,
			"is_open" INTEGER DEFAULT 1, "slot_interval_minutes" INTEGER DEFAULT 15,
			"slot_capacity" INTEGER DEFAULT 10, "created_at" DATETIME, "updated_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "schedule_shifts" (
			"id" TEXT PRIMARY KEY, "schedule_id" TEXT NOT NULL, "position" INTEGER NOT NULL,
			"open_time" TEXT NOT NULL, "close_time" TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS "holidays" (
			"id" TEXT PRIMARY KEY, "date" TEXT NOT NULL UNIQUE, "description" TEXT, "created_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "orders" (
			"id" TEXT PRIMARY KEY, "order_number" TEXT NOT NULL UNIQUE,
			"customer_name" TEXT NOT NULL, "customer_phone" TEXT, "customer_id" TEXT,
			"date" DATETIME NOT NULL, "time" TEXT NOT NULL,
			"type" TEXT DEFAULT 'takeaway', "status" TEXT DEFAULT 'confirmed',
			"total" REAL NOT NULL, "delivery_address" TEXT, "notes" TEXT,
			"points_awarded" INTEGER DEFAULT 0, "preparing_at" DATETIME,
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "order_items" (
			"id" TEXT PRIMARY KEY, "order_id" TEXT NOT NULL, "name" TEXT NOT NULL,
			"quantity" INTEGER NOT NULL, "unit_price" REAL NOT NULL, "notes" TEXT,
			"created_at" DATETIME, "updated_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "loyalty_programs" (
			"id" TEXT PRIMARY KEY, "singleton" INTEGER DEFAULT 1,
			"points_divisor" INTEGER DEFAULT 10, "registration_bonus" INTEGER DEFAULT 10,
			"birthday_bonus" INTEGER DEFAULT 20, "silver_threshold" INTEGER DEFAULT 100,
			"gold_threshold" INTEGER DEFAULT 250, "v_ip_threshold" INTEGER DEFAULT 500,
			"created_at" DATETIME, "updated_at" DATETIME
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_loyalty_programs_singleton ON "loyalty_programs"("singleton")`,
		`CREATE TABLE IF NOT EXISTS "loyalty_histories" (
			"id" TEXT PRIMARY KEY, "customer_id" TEXT NOT NULL, "points" INTEGER NOT NULL,
			"type" TEXT NOT NULL, "description" TEXT, "order_id" TEXT, "created_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "campaigns" (
			"id" TEXT PRIMARY KEY, "title" TEXT NOT NULL, "description" TEXT, "image" TEXT,
			"bonus_points" INTEGER DEFAULT 0, "is_active" INTEGER DEFAULT 1,
			"start_date" DATETIME, "end_date" DATETIME,
			"created_at" DATETIME, "updated_at" DATETIME, "deleted_at" DATETIME
		)`,
	}

	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			t.Fatal(err)
		}
	}
	return db
}

// ==================== BeforeCreate Hook Tests ====================

func TestUserBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	user := User{Email: "staff@test.com", Password: "hash"}
	db.Create(&user)
	if user.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

func TestCustomerBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	cust := Customer{Name: "Mario Rossi", Phone: "+39 333 1234567"}
	db.Create(&cust)
	if cust.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

func TestOrderBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	order := Order{CustomerName: "Mario", Date: time.Now(), Time: "13:00", Total: 25}
	db.Create(&order)
	if order.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
	if order.OrderNumber == "" {
		t.Error("OrderNumber should have been generated")
	}
}

func TestWeeklyScheduleBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	entry := WeeklySchedule{DayOfWeek: 0, IsOpen: true, SlotIntervalMinutes: 15, SlotCapacity: 10}
	db.Create(&entry)
	if entry.ID == uuid.Nil {
		t.Error("UUID should have been generated")
	}
}

// ==================== State Machine Tests ====================

func TestIsValidTransitionConfirmed(t *testing.T) {
	if !IsValidTransition(OrderStatusConfirmed, OrderStatusPreparing) {
		t.Error("confirmed -> preparing should be allowed")
	}
	if !IsValidTransition(OrderStatusConfirmed, OrderStatusCancelled) {
		t.Error("confirmed -> cancelled should be allowed")
	}
	if IsValidTransition(OrderStatusConfirmed, OrderStatusCompleted) {
		t.Error("confirmed -> completed should not be allowed")
	}
}

func TestIsValidTransitionPreparing(t *testing.T) {
	if !IsValidTransition(OrderStatusPreparing, OrderStatusCompleted) {
		t.Error("preparing -> completed should be allowed")
	}
	if !IsValidTransition(OrderStatusPreparing, OrderStatusCancelled) {
		t.Error("preparing -> cancelled should be allowed")
	}
	if IsValidTransition(OrderStatusPreparing, OrderStatusConfirmed) {
		t.Error("preparing -> confirmed should not be allowed")
	}
}

func TestTerminalStatesHaveNoTransitions(t *testing.T) {
	for _, terminal := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled} {
		for _, target := range []OrderStatus{OrderStatusConfirmed, OrderStatusPreparing, OrderStatusCompleted, OrderStatusCancelled} {
			if IsValidTransition(terminal, target) {
				t.Errorf("%s -> %s should not be allowed", terminal, target)
			}
		}
	}
}

func TestIsValidTransitionUnknownStatus(t *testing.T) {
	if IsValidTransition(OrderStatus("shipped"), OrderStatusCompleted) {
		t.Error("unknown status should have no transitions")
	}
}

// ==================== Order Method Tests ====================

func TestItemsTotal(t *testing.T) {
	order := Order{Items: []OrderItem{
		{Name: "Margherita", Quantity: 2, UnitPrice: 8.50},
		{Name: "Tiramisu", Quantity: 1, UnitPrice: 5.00},
	}}
	if got := order.ItemsTotal(); got != 22.00 {
		t.Errorf("expected 22.00, got %f", got)
	}
}

func TestItemsTotalEmpty(t *testing.T) {
	order := Order{}
	if got := order.ItemsTotal(); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestValidOrderType(t *testing.T) {
	for _, typ := range []OrderType{OrderTypeTakeaway, OrderTypeDelivery, OrderTypeTable} {
		if !ValidOrderType(typ) {
			t.Errorf("%s should be valid", typ)
		}
	}
	if ValidOrderType(OrderType("drive-through")) {
		t.Error("unknown type should be invalid")
	}
}

func TestValidOrderStatus(t *testing.T) {
	if !ValidOrderStatus(OrderStatusConfirmed) {
		t.Error("confirmed should be valid")
	}
	if ValidOrderStatus(OrderStatus("shipped")) {
		t.Error("unknown status should be invalid")
	}
}

// ==================== Schedule Tests ====================

func TestDefaultWeeklyScheduleWeekday(t *testing.T) {
	entry := DefaultWeeklySchedule(0) // Monday
	if !entry.IsOpen {
		t.Error("Monday should default to open")
	}
	if len(entry.Shifts) != 2 {
		t.Fatalf("expected 2 default shifts, got %d", len(entry.Shifts))
	}
	if entry.Shifts[0].OpenTime != "12:00" || entry.Shifts[0].CloseTime != "15:00" {
		t.Errorf("unexpected lunch shift: %+v", entry.Shifts[0])
	}
	if entry.Shifts[1].OpenTime != "19:00" || entry.Shifts[1].CloseTime != "23:00" {
		t.Errorf("unexpected dinner shift: %+v", entry.Shifts[1])
	}
}

func TestDefaultWeeklyScheduleWeekend(t *testing.T) {
	for _, day := range []int{5, 6} { // Saturday, Sunday
		entry := DefaultWeeklySchedule(day)
		if entry.IsOpen {
			t.Errorf("day %d should default to closed", day)
		}
		if len(entry.Shifts) != 0 {
			t.Errorf("closed day should have no shifts, got %d", len(entry.Shifts))
		}
	}
}

// ==================== Loyalty Tests ====================

func TestGetLoyaltyProgramCreatesDefaults(t *testing.T) {
	db := setupTestDB(t)
	program, err := GetLoyaltyProgram(db)
	if err != nil {
		t.Fatal(err)
	}
	if program.PointsDivisor != 10 {
		t.Errorf("expected default divisor 10, got %d", program.PointsDivisor)
	}

	// A second call must return the same row, not create another.
	again, err := GetLoyaltyProgram(db)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != program.ID {
		t.Error("expected the same singleton row on repeated calls")
	}
	var count int64
	db.Model(&LoyaltyProgram{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 program row, got %d", count)
	}
}

func TestBadgeFor(t *testing.T) {
	program := DefaultLoyaltyProgram()
	cases := []struct {
		points int
		want   Badge
	}{
		{0, BadgeBronze},
		{99, BadgeBronze},
		{100, BadgeSilver},
		{249, BadgeSilver},
		{250, BadgeGold},
		{499, BadgeGold},
		{500, BadgeVIP},
		{10000, BadgeVIP},
	}
	for _, tc := range cases {
		if got := program.BadgeFor(tc.points); got != tc.want {
			t.Errorf("BadgeFor(%d) = %s, want %s", tc.points, got, tc.want)
		}
	}
}

func TestPointsForTotal(t *testing.T) {
	program := DefaultLoyaltyProgram()
	if got := program.PointsForTotal(42.50); got != 4 {
		t.Errorf("expected 4 points for 42.50, got %d", got)
	}
	if got := program.PointsForTotal(9.99); got != 0 {
		t.Errorf("expected 0 points for 9.99, got %d", got)
	}
}

func TestPointsForTotalZeroDivisor(t *testing.T) {
	program := LoyaltyProgram{PointsDivisor: 0}
	if got := program.PointsForTotal(100); got != 10 {
		t.Errorf("expected fallback divisor 10, got %d points", got)
	}
}

// ==================== Product Method Tests ====================

func TestCurrentPriceList(t *testing.T) {
	p := Product{Price: 10.0}
	if p.CurrentPrice() != 10.0 {
		t.Errorf("expected 10.0, got %f", p.CurrentPrice())
	}
}

func TestCurrentPricePromo(t *testing.T) {
	promo := 7.5
	p := Product{Price: 10.0, OnPromotion: true, PromoPrice: &promo}
	if p.CurrentPrice() != 7.5 {
		t.Errorf("expected 7.5, got %f", p.CurrentPrice())
	}
}

func TestCurrentPricePromoFlagWithoutPrice(t *testing.T) {
	p := Product{Price: 10.0, OnPromotion: true}
	if p.CurrentPrice() != 10.0 {
		t.Errorf("expected list price when promo price missing, got %f", p.CurrentPrice())
	}
}
