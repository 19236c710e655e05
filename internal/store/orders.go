package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
)

// ListOrders returns every order of owner, newest day first.
func (s *Store) ListOrders(ctx context.Context, owner string) ([]models.Order, error) {
	var orders []models.Order
	err := s.owned(ctx, owner).
		Order("date DESC").Order("created_at DESC").Order("order_number DESC").
		Find(&orders).Error
	if err != nil {
		return nil, s.fail("list orders", err, nil, nil)
	}
	return orders, nil
}

// CreateOrder assigns an id and persists o. A colliding order number is
// reported as DuplicateError.
func (s *Store) CreateOrder(ctx context.Context, owner string, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.OwnerID = owner
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return s.fail("create order", err,
			&domain.DuplicateError{Entity: "order", Field: "orderNumber", Value: o.OrderNumber}, nil)
	}
	s.notify(owner, CollectionOrders)
	return nil
}

// UpdateOrderStatus overwrites the status of order id.
func (s *Store) UpdateOrderStatus(ctx context.Context, owner, id string, status models.OrderStatus) error {
	res := s.owned(ctx, owner).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return s.fail("update order status", res.Error, nil, nil)
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Entity: "order", Key: id}
	}
	s.notify(owner, CollectionOrders)
	return nil
}

// DeleteOrder removes order id.
func (s *Store) DeleteOrder(ctx context.Context, owner, id string) error {
	res := s.owned(ctx, owner).Where("id = ?", id).Delete(&models.Order{})
	if res.Error != nil {
		return s.fail("delete order", res.Error, nil, nil)
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Entity: "order", Key: id}
	}
	s.notify(owner, CollectionOrders)
	return nil
}
