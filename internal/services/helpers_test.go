package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/lens-console/internal/db"
	"github.com/diewo77/lens-console/internal/models"
	"github.com/diewo77/lens-console/internal/store"
)

var testNow = time.Date(2024, time.March, 15, 17, 30, 0, 0, time.UTC)

func testClock() Clock { return FixedClock(testNow) }

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(false))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(conn, nil)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type orderOpt func(*models.Order)

func order(number, bin string, date models.Date, opts ...orderOpt) models.Order {
	o := models.Order{
		ID:              "id-" + number,
		CreatedAt:       date.Add(9 * time.Hour),
		Date:            date,
		CustomerSurname: "Rossi",
		Seller:          "Anna",
		LensType:        models.LensSingleVision,
		OrderRank:       models.RankFirst,
		BinReference:    bin,
		OrderNumber:     number,
		Amount:          dec("100"),
		Treatments:      datatypes.JSONSlice[models.Treatment]{},
		Status:          models.StatusToOrder,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func withSurname(s string) orderOpt            { return func(o *models.Order) { o.CustomerSurname = s } }
func withSeller(s string) orderOpt             { return func(o *models.Order) { o.Seller = s } }
func withStatus(s models.OrderStatus) orderOpt { return func(o *models.Order) { o.Status = s } }
func withAmount(a string) orderOpt             { return func(o *models.Order) { o.Amount = dec(a) } }
func withLens(l models.LensType) orderOpt      { return func(o *models.Order) { o.LensType = l } }
func withRank(r models.OrderRank) orderOpt     { return func(o *models.Order) { o.OrderRank = r } }
func withCreated(t time.Time) orderOpt         { return func(o *models.Order) { o.CreatedAt = t } }
func withTreatments(ts ...models.Treatment) orderOpt {
	return func(o *models.Order) { o.Treatments = ts }
}

// fakeOrderStore records writes without a database.
type fakeOrderStore struct {
	created  []*models.Order
	statuses map[string]models.OrderStatus
	deleted  []string
	sellers  []models.Seller
	err      error
}

func newFakeOrderStore(sellers ...string) *fakeOrderStore {
	f := &fakeOrderStore{statuses: map[string]models.OrderStatus{}}
	for _, s := range sellers {
		f.sellers = append(f.sellers, models.Seller{ID: "s-" + s, Name: s})
	}
	return f
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, _ string, o *models.Order) error {
	if f.err != nil {
		return f.err
	}
	o.ID = fmt.Sprintf("new-%d", len(f.created)+1)
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrderStore) UpdateOrderStatus(_ context.Context, _, id string, status models.OrderStatus) error {
	if f.err != nil {
		return f.err
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeOrderStore) DeleteOrder(_ context.Context, _, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeOrderStore) ListSellers(context.Context, string) ([]models.Seller, error) {
	return f.sellers, nil
}
