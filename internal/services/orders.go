package services

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/metrics"
	"github.com/diewo77/lens-console/internal/models"
	"github.com/diewo77/lens-console/validation"
)

var (
	binPattern         = regexp.MustCompile(`^\d{3}$`)
	orderNumberPattern = regexp.MustCompile(`^\d{5}$`)
	quickDeliverCode   = regexp.MustCompile(`(?i)^(\d{3})c$`)
)

// ErrNotQuickDeliverCode is returned for input that is not shaped like a
// quick-deliver code. Callers ignore it while the operator keeps typing.
var ErrNotQuickDeliverCode = errors.New("not_a_quick_deliver_code")

// OrderStore is the persistence the order workflow writes through.
type OrderStore interface {
	CreateOrder(ctx context.Context, owner string, o *models.Order) error
	UpdateOrderStatus(ctx context.Context, owner, id string, status models.OrderStatus) error
	DeleteOrder(ctx context.Context, owner, id string) error
	ListSellers(ctx context.Context, owner string) ([]models.Seller, error)
}

// CreateOrderInput is the payload of a new order.
type CreateOrderInput struct {
	CustomerSurname string             `json:"customerSurname" validate:"required"`
	Seller          string             `json:"seller" validate:"required"`
	LensType        models.LensType    `json:"lensType" validate:"required"`
	OrderRank       models.OrderRank   `json:"orderRank" validate:"required"`
	BinReference    string             `json:"binReference" validate:"required"`
	OrderNumber     string             `json:"orderNumber" validate:"required"`
	Amount          *decimal.Decimal   `json:"amount" validate:"required"`
	Treatments      []models.Treatment `json:"treatments"`
	Status          models.OrderStatus `json:"status" validate:"required"`
}

// OrderService drives the order lifecycle. Reads come from the snapshot the
// caller passes in; writes go to the store.
type OrderService struct {
	store   OrderStore
	metrics metrics.OrderMetrics
	log     *zap.Logger
	clock   Clock
}

func NewOrderService(st OrderStore, m metrics.OrderMetrics, log *zap.Logger, clock Clock) *OrderService {
	if m == nil {
		m = metrics.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{store: st, metrics: m, log: log, clock: clock}
}

func (in *CreateOrderInput) normalize() {
	in.CustomerSurname = strings.TrimSpace(in.CustomerSurname)
	in.Seller = strings.TrimSpace(in.Seller)
	in.BinReference = strings.TrimSpace(in.BinReference)
	in.OrderNumber = strings.TrimSpace(in.OrderNumber)
}

func (in *CreateOrderInput) validate() error {
	v := validation.Violations{}
	if err := validation.Struct(in, nil, v); err != nil {
		return err
	}
	validation.Pattern("binReference", in.BinReference, binPattern, "must_be_3_digits", v)
	validation.Pattern("orderNumber", in.OrderNumber, orderNumberPattern, "must_be_5_digits", v)
	if in.LensType != "" {
		validation.OneOf("lensType", in.LensType.Valid(), v)
	}
	if in.OrderRank != "" {
		validation.OneOf("orderRank", in.OrderRank.Valid(), v)
	}
	if in.Status != "" {
		validation.OneOf("status", in.Status.Valid(), v)
	}
	if in.Amount != nil {
		validation.NonNegativeDecimal("amount", *in.Amount, v)
	}
	for _, t := range in.Treatments {
		validation.OneOf("treatments", t.Valid(), v)
	}
	if !v.Empty() {
		return domain.NewValidationError(v)
	}
	return nil
}

// canonicalTreatments removes duplicates and orders the set like AllTreatments.
func canonicalTreatments(in []models.Treatment) datatypes.JSONSlice[models.Treatment] {
	out := datatypes.JSONSlice[models.Treatment]{}
	for _, t := range models.AllTreatments {
		for _, got := range in {
			if got == t {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Create validates in, checks the order number against snapshot and
// persists the order dated today.
func (s *OrderService) Create(ctx context.Context, owner string, snapshot []models.Order, in CreateOrderInput) (*models.Order, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	sellers, err := s.store.ListSellers(ctx, owner)
	if err != nil {
		return nil, err
	}
	sellerName, ok := findSeller(sellers, in.Seller)
	if !ok {
		return nil, domain.FieldError("seller", "unknown_seller")
	}

	for i := range snapshot {
		if snapshot[i].OrderNumber == in.OrderNumber {
			return nil, &domain.DuplicateError{Entity: "order", Field: "orderNumber", Value: in.OrderNumber}
		}
	}

	o := &models.Order{
		Date:            s.clock.Today(),
		CustomerSurname: in.CustomerSurname,
		Seller:          sellerName,
		LensType:        in.LensType,
		OrderRank:       in.OrderRank,
		BinReference:    in.BinReference,
		OrderNumber:     in.OrderNumber,
		Amount:          in.Amount.Round(2),
		Treatments:      canonicalTreatments(in.Treatments),
		Status:          in.Status,
	}
	if err := s.store.CreateOrder(ctx, owner, o); err != nil {
		return nil, err
	}
	s.metrics.IncOrderCreated(string(o.LensType))
	s.log.Info("order created",
		zap.String("owner", owner), zap.String("order_number", o.OrderNumber), zap.String("bin", o.BinReference))
	return o, nil
}

func findSeller(sellers []models.Seller, name string) (string, bool) {
	key := models.SellerNameKey(name)
	for _, s := range sellers {
		if models.SellerNameKey(s.Name) == key {
			return s.Name, true
		}
	}
	return "", false
}

// QuickDeliver marks delivered the most recently created undelivered order
// sitting in the bin named by code ("042c").
func (s *OrderService) QuickDeliver(ctx context.Context, owner string, snapshot []models.Order, code string) (*models.Order, error) {
	m := quickDeliverCode.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return nil, ErrNotQuickDeliverCode
	}
	bin := m[1]

	var match *models.Order
	for i := range snapshot {
		o := &snapshot[i]
		if o.BinReference != bin || o.IsDelivered() {
			continue
		}
		if match == nil || newerThan(o, match) {
			match = o
		}
	}
	if match == nil {
		s.metrics.IncQuickDeliver("not_found")
		return nil, &domain.NotFoundError{Entity: "undelivered order in bin", Key: bin}
	}

	if err := s.store.UpdateOrderStatus(ctx, owner, match.ID, models.StatusDelivered); err != nil {
		return nil, err
	}
	delivered := *match
	delivered.Status = models.StatusDelivered
	s.metrics.IncQuickDeliver("delivered")
	s.metrics.IncStatusChange(string(models.StatusDelivered))
	s.log.Info("order delivered",
		zap.String("owner", owner), zap.String("order_number", delivered.OrderNumber), zap.String("bin", bin))
	return &delivered, nil
}

// newerThan orders by creation time, then by order number.
func newerThan(a, b *models.Order) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.OrderNumber > b.OrderNumber
}

// SetStatus overwrites the status of order id. Any transition is allowed.
func (s *OrderService) SetStatus(ctx context.Context, owner, id string, status models.OrderStatus) error {
	if !status.Valid() {
		return domain.FieldError("status", "invalid_value")
	}
	if err := s.store.UpdateOrderStatus(ctx, owner, id, status); err != nil {
		return err
	}
	s.metrics.IncStatusChange(string(status))
	s.log.Info("order status changed", zap.String("owner", owner), zap.String("id", id), zap.String("status", string(status)))
	return nil
}

// Delete removes the order carrying number. Without confirmation it only
// returns the order found together with ErrConfirmationRequired.
func (s *OrderService) Delete(ctx context.Context, owner string, snapshot []models.Order, number string, confirmed bool) (*models.Order, error) {
	number = strings.TrimSpace(number)
	if !orderNumberPattern.MatchString(number) {
		return nil, domain.FieldError("orderNumber", "must_be_5_digits")
	}
	var found *models.Order
	for i := range snapshot {
		if snapshot[i].OrderNumber == number {
			o := snapshot[i]
			found = &o
			break
		}
	}
	if found == nil {
		return nil, &domain.NotFoundError{Entity: "order", Key: number}
	}
	if !confirmed {
		return found, domain.ErrConfirmationRequired
	}
	if err := s.store.DeleteOrder(ctx, owner, found.ID); err != nil {
		return nil, err
	}
	s.log.Info("order deleted", zap.String("owner", owner), zap.String("order_number", number))
	return found, nil
}

// SortNewestFirst orders by date, then creation time, then order number,
// all descending.
func SortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := &orders[i], &orders[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return newerThan(a, b)
	})
}
