package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/folio-api/internal/domain/entity"
	domainRepo "github.com/sangkips/folio-api/internal/domain/repository"
	"github.com/sangkips/folio-api/internal/infrastructure/database"
	"github.com/sangkips/folio-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.NewSQLiteDB(dsn, false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestLedgerRepository_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	ledger := &entity.Ledger{
		OwnerID:   owner,
		BillNo:    "FOL-ROUNDTRP",
		GuestName: "A. Guest",
		RoomSlots: []entity.RoomCharge{{
			Items:      []string{"Coffee"},
			Prices:     []decimal.Decimal{decimal.NewFromInt(100)},
			Quantities: []decimal.Decimal{decimal.NewFromInt(2)},
			TaxRates:   []decimal.NullDecimal{{}},
			CGSTRates:  []decimal.NullDecimal{decimal.NewNullDecimal(decimal.NewFromInt(9))},
			SGSTRates:  []decimal.NullDecimal{decimal.NewNullDecimal(decimal.NewFromInt(9))},
		}, {}},
		TotalAmount: decimal.NewFromInt(236),
		DueAmount:   decimal.NewFromInt(236),
		ComputedDue: decimal.NewFromInt(236),
		Remarks:     []string{"late checkout"},
	}
	if err := repo.Create(ctx, ledger); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if ledger.ID == uuid.Nil {
		t.Fatal("Create() did not assign an id")
	}

	got, err := repo.GetByID(ctx, ledger.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByID() returned nil")
	}
	if len(got.RoomSlots) != 2 {
		t.Fatalf("room slots = %d, want 2", len(got.RoomSlots))
	}
	slot := got.RoomSlots[0]
	if slot.Items[0] != "Coffee" || !slot.Prices[0].Equal(decimal.NewFromInt(100)) {
		t.Errorf("slot 0 = %+v", slot)
	}
	if slot.TaxRates[0].Valid {
		t.Error("absent combined rate came back present")
	}
	if !slot.CGSTRates[0].Valid || !slot.CGSTRates[0].Decimal.Equal(decimal.NewFromInt(9)) {
		t.Errorf("cgst rate = %+v, want 9", slot.CGSTRates[0])
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(236)) {
		t.Errorf("total = %s, want 236", got.TotalAmount)
	}
	if len(got.Remarks) != 1 || got.Remarks[0] != "late checkout" {
		t.Errorf("remarks = %v", got.Remarks)
	}

	got.Cancelled = true
	got.DueAmount = decimal.Zero
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	again, _ := repo.GetByID(ctx, ledger.ID)
	if !again.Cancelled || !again.DueAmount.IsZero() {
		t.Errorf("after update cancelled=%v due=%s", again.Cancelled, again.DueAmount)
	}

	if err := repo.Delete(ctx, ledger.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	gone, err := repo.GetByID(ctx, ledger.ID)
	if err != nil || gone != nil {
		t.Errorf("GetByID() after delete = %v, %v; want nil, nil", gone, err)
	}
}

func TestLedgerRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	seed := []entity.Ledger{
		{OwnerID: owner, BillNo: "FOL-00000001", GuestName: "Asha", DueAmount: decimal.NewFromInt(136)},
		{OwnerID: owner, BillNo: "FOL-00000002", GuestName: "Bala", BillPaid: true},
		{OwnerID: owner, BillNo: "FOL-00000003", GuestName: "Chitra", Cancelled: true},
		{OwnerID: other, BillNo: "FOL-00000004", GuestName: "Asha", DueAmount: decimal.NewFromInt(50)},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	yes := true
	tests := []struct {
		name   string
		owner  uuid.UUID
		params domainRepo.LedgerFilterParams
		want   int64
	}{
		{name: "all for owner", owner: owner, want: 3},
		{name: "other owner isolated", owner: other, want: 1},
		{name: "nil owner matches nothing", owner: uuid.Nil, want: 0},
		{name: "search by guest", owner: owner, params: domainRepo.LedgerFilterParams{Search: "asha"}, want: 1},
		{name: "search by bill no", owner: owner, params: domainRepo.LedgerFilterParams{Search: "00000002"}, want: 1},
		{name: "only due", owner: owner, params: domainRepo.LedgerFilterParams{OnlyDue: true}, want: 1},
		{name: "bill paid", owner: owner, params: domainRepo.LedgerFilterParams{BillPaid: &yes}, want: 1},
		{name: "cancelled", owner: owner, params: domainRepo.LedgerFilterParams{Cancelled: &yes}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.params
			params.Pagination = pagination.DefaultPagination()
			items, total, err := repo.List(ctx, tt.owner, &params)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if total != tt.want || int64(len(items)) != tt.want {
				t.Errorf("List() total=%d items=%d, want %d", total, len(items), tt.want)
			}
		})
	}

	t.Run("pagination", func(t *testing.T) {
		params := domainRepo.LedgerFilterParams{
			Pagination: &pagination.PaginationParams{Page: 2, PerPage: 2},
			SortBy:     "bill_no",
			SortOrder:  "asc",
		}
		items, total, err := repo.List(ctx, owner, &params)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 3 || len(items) != 1 {
			t.Fatalf("List() total=%d items=%d, want 3 and 1", total, len(items))
		}
		if items[0].BillNo != "FOL-00000003" {
			t.Errorf("page 2 first = %s, want FOL-00000003", items[0].BillNo)
		}
	})
}

func TestAccountRepository_EmailIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := &entity.Account{Name: "Seaside Inn", Email: "Desk@Seaside.test", Password: "x", RegisteredState: "Kerala"}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByEmail(ctx, "DESK@seaside.test")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got == nil || got.ID != account.ID {
		t.Fatalf("GetByEmail() = %+v, want account %s", got, account.ID)
	}

	missing, err := repo.GetByEmail(ctx, "nobody@seaside.test")
	if err != nil || missing != nil {
		t.Errorf("GetByEmail() unknown = %v, %v; want nil, nil", missing, err)
	}
}

func TestIdempotencyRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	live := &entity.IdempotencyKey{Key: "k1", OwnerID: owner, Endpoint: "POST /x", ResponseCode: 201, ExpiresAt: time.Now().Add(time.Hour)}
	stale := &entity.IdempotencyKey{Key: "k2", OwnerID: owner, Endpoint: "POST /x", ResponseCode: 201, ExpiresAt: time.Now().Add(-time.Hour)}
	for _, k := range []*entity.IdempotencyKey{live, stale} {
		if err := repo.Create(ctx, k); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := repo.GetByKey(ctx, "k1", owner)
	if err != nil || got == nil {
		t.Fatalf("GetByKey() = %v, %v", got, err)
	}
	if got.ResponseCode != 201 {
		t.Errorf("ResponseCode = %d, want 201", got.ResponseCode)
	}

	if other, _ := repo.GetByKey(ctx, "k1", uuid.New()); other != nil {
		t.Error("key leaked across owners")
	}

	n, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteExpired() = %d, want 1", n)
	}

	if err := repo.Delete(ctx, live.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gone, _ := repo.GetByKey(ctx, "k1", owner); gone != nil {
		t.Error("GetByKey() after Delete returned the key")
	}
	reused := &entity.IdempotencyKey{Key: "k1", OwnerID: owner, Endpoint: "POST /x", ResponseCode: 201, ExpiresAt: time.Now().Add(time.Hour)}
	if err := repo.Create(ctx, reused); err != nil {
		t.Errorf("Create() after Delete error = %v", err)
	}
}
