package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
)

func validInput() CreateOrderInput {
	amount := dec("150.456")
	return CreateOrderInput{
		CustomerSurname: "  Bianchi ",
		Seller:          "anna",
		LensType:        models.LensMultifocal,
		OrderRank:       models.RankSecond,
		BinReference:    "042",
		OrderNumber:     "12345",
		Amount:          &amount,
		Treatments:      []models.Treatment{models.TreatmentSOS, models.TreatmentTransition, models.TreatmentSOS},
		Status:          models.StatusToOrder,
	}
}

func TestCreateOrder(t *testing.T) {
	st := newFakeOrderStore("Anna")
	svc := NewOrderService(st, nil, nil, testClock())

	o, err := svc.Create(context.Background(), "owner", nil, validInput())
	require.NoError(t, err)
	require.Len(t, st.created, 1)

	assert.Equal(t, "new-1", o.ID)
	assert.Equal(t, models.DateOf(2024, time.March, 15), o.Date)
	assert.Equal(t, "Bianchi", o.CustomerSurname)
	assert.Equal(t, "Anna", o.Seller, "seller name is taken from the seller list")
	assert.Equal(t, "150.46", o.Amount.StringFixed(2))
	assert.Equal(t, []models.Treatment{models.TreatmentTransition, models.TreatmentSOS}, []models.Treatment(o.Treatments))
}

func TestCreateOrderValidation(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore("Anna"), nil, nil, testClock())

	cases := map[string]struct {
		mutate func(*CreateOrderInput)
		field  string
		code   string
	}{
		"missing surname":   {func(in *CreateOrderInput) { in.CustomerSurname = "   " }, "customerSurname", "required"},
		"short bin":         {func(in *CreateOrderInput) { in.BinReference = "42" }, "binReference", "must_be_3_digits"},
		"letters in bin":    {func(in *CreateOrderInput) { in.BinReference = "4a2" }, "binReference", "must_be_3_digits"},
		"long order number": {func(in *CreateOrderInput) { in.OrderNumber = "123456" }, "orderNumber", "must_be_5_digits"},
		"missing amount":    {func(in *CreateOrderInput) { in.Amount = nil }, "amount", "required"},
		"negative amount": {func(in *CreateOrderInput) {
			neg := decimal.NewFromInt(-1)
			in.Amount = &neg
		}, "amount", "must_not_be_negative"},
		"bad lens type":  {func(in *CreateOrderInput) { in.LensType = "BIFOCAL" }, "lensType", "invalid_value"},
		"bad treatment":  {func(in *CreateOrderInput) { in.Treatments = []models.Treatment{"GOLD"} }, "treatments", "invalid_value"},
		"missing status": {func(in *CreateOrderInput) { in.Status = "" }, "status", "required"},
		"unknown seller": {func(in *CreateOrderInput) { in.Seller = "Marco" }, "seller", "unknown_seller"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), "owner", nil, in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.code, ve.Fields[tc.field], "fields: %v", ve.Fields)
		})
	}
}

func TestCreateOrderZeroAmountAllowed(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore("Anna"), nil, nil, testClock())
	in := validInput()
	zero := decimal.Zero
	in.Amount = &zero
	o, err := svc.Create(context.Background(), "owner", nil, in)
	require.NoError(t, err)
	assert.True(t, o.Amount.IsZero())
}

func TestCreateOrderDuplicateNumber(t *testing.T) {
	st := newFakeOrderStore("Anna")
	svc := NewOrderService(st, nil, nil, testClock())
	snapshot := []models.Order{order("12345", "001", models.DateOf(2023, time.January, 2))}

	_, err := svc.Create(context.Background(), "owner", snapshot, validInput())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, st.created)
}

func TestCreateOrderStoreFailure(t *testing.T) {
	st := newFakeOrderStore("Anna")
	st.err = &domain.StoreError{Op: "create order", Err: errors.New("disk full")}
	svc := NewOrderService(st, nil, nil, testClock())

	_, err := svc.Create(context.Background(), "owner", nil, validInput())
	assert.ErrorIs(t, err, domain.ErrStore)
}

func TestQuickDeliver(t *testing.T) {
	day := models.DateOf(2024, time.March, 1)
	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	snapshot := []models.Order{
		order("10001", "042", day, withCreated(base)),
		order("10002", "042", day, withCreated(base.Add(time.Hour))),
		order("10003", "042", day, withCreated(base.Add(2*time.Hour)), withStatus(models.StatusDelivered)),
		order("10004", "043", day, withCreated(base.Add(3*time.Hour))),
	}

	t.Run("newest undelivered in bin", func(t *testing.T) {
		st := newFakeOrderStore()
		svc := NewOrderService(st, nil, nil, testClock())
		got, err := svc.QuickDeliver(context.Background(), "owner", snapshot, "042c")
		require.NoError(t, err)
		assert.Equal(t, "10002", got.OrderNumber)
		assert.Equal(t, models.StatusDelivered, got.Status)
		assert.Equal(t, models.StatusDelivered, st.statuses["id-10002"])
		assert.Equal(t, models.StatusToOrder, snapshot[1].Status, "snapshot is not mutated")
	})

	t.Run("upper case suffix", func(t *testing.T) {
		svc := NewOrderService(newFakeOrderStore(), nil, nil, testClock())
		got, err := svc.QuickDeliver(context.Background(), "owner", snapshot, " 043C ")
		require.NoError(t, err)
		assert.Equal(t, "10004", got.OrderNumber)
	})

	t.Run("not a code", func(t *testing.T) {
		st := newFakeOrderStore()
		svc := NewOrderService(st, nil, nil, testClock())
		for _, code := range []string{"42c", "0423c", "042", "abcc", ""} {
			_, err := svc.QuickDeliver(context.Background(), "owner", snapshot, code)
			assert.ErrorIs(t, err, ErrNotQuickDeliverCode, code)
		}
		assert.Empty(t, st.statuses)
	})

	t.Run("no undelivered order", func(t *testing.T) {
		svc := NewOrderService(newFakeOrderStore(), nil, nil, testClock())
		_, err := svc.QuickDeliver(context.Background(), "owner", snapshot, "999c")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("same creation time breaks on order number", func(t *testing.T) {
		tied := []models.Order{
			order("20001", "050", day, withCreated(base)),
			order("20009", "050", day, withCreated(base)),
			order("20005", "050", day, withCreated(base)),
		}
		svc := NewOrderService(newFakeOrderStore(), nil, nil, testClock())
		got, err := svc.QuickDeliver(context.Background(), "owner", tied, "050c")
		require.NoError(t, err)
		assert.Equal(t, "20009", got.OrderNumber)
	})
}

func TestSetStatus(t *testing.T) {
	st := newFakeOrderStore()
	svc := NewOrderService(st, nil, nil, testClock())

	require.NoError(t, svc.SetStatus(context.Background(), "owner", "id-1", models.StatusReady))
	assert.Equal(t, models.StatusReady, st.statuses["id-1"])

	// Delivered orders may go back.
	require.NoError(t, svc.SetStatus(context.Background(), "owner", "id-1", models.StatusToOrder))
	assert.Equal(t, models.StatusToOrder, st.statuses["id-1"])

	err := svc.SetStatus(context.Background(), "owner", "id-1", "LOST")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteOrder(t *testing.T) {
	snapshot := []models.Order{order("12345", "001", models.DateOf(2024, time.January, 5))}

	t.Run("bad number", func(t *testing.T) {
		svc := NewOrderService(newFakeOrderStore(), nil, nil, testClock())
		_, err := svc.Delete(context.Background(), "owner", snapshot, "1234", true)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown number", func(t *testing.T) {
		svc := NewOrderService(newFakeOrderStore(), nil, nil, testClock())
		_, err := svc.Delete(context.Background(), "owner", snapshot, "54321", true)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("asks for confirmation", func(t *testing.T) {
		st := newFakeOrderStore()
		svc := NewOrderService(st, nil, nil, testClock())
		found, err := svc.Delete(context.Background(), "owner", snapshot, "12345", false)
		assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
		require.NotNil(t, found)
		assert.Equal(t, "id-12345", found.ID)
		assert.Empty(t, st.deleted)
	})

	t.Run("confirmed", func(t *testing.T) {
		st := newFakeOrderStore()
		svc := NewOrderService(st, nil, nil, testClock())
		_, err := svc.Delete(context.Background(), "owner", snapshot, "12345", true)
		require.NoError(t, err)
		assert.Equal(t, []string{"id-12345"}, st.deleted)
	})
}
