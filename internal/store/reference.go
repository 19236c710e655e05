package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
)

// ListSellers returns the sellers of owner sorted by name.
func (s *Store) ListSellers(ctx context.Context, owner string) ([]models.Seller, error) {
	var sellers []models.Seller
	if err := s.owned(ctx, owner).Order("name_key ASC").Find(&sellers).Error; err != nil {
		return nil, s.fail("list sellers", err, nil, nil)
	}
	return sellers, nil
}

// CreateSeller persists seller; names are unique case-insensitively.
func (s *Store) CreateSeller(ctx context.Context, owner string, seller *models.Seller) error {
	if seller.ID == "" {
		seller.ID = uuid.NewString()
	}
	seller.OwnerID = owner
	if err := s.db.WithContext(ctx).Create(seller).Error; err != nil {
		return s.fail("create seller", err,
			&domain.DuplicateError{Entity: "seller", Field: "name", Value: seller.Name}, nil)
	}
	s.notify(owner, CollectionSellers)
	return nil
}

// DeleteSeller removes seller id. Orders keep their copy of the name.
func (s *Store) DeleteSeller(ctx context.Context, owner, id string) error {
	res := s.owned(ctx, owner).Where("id = ?", id).Delete(&models.Seller{})
	if res.Error != nil {
		return s.fail("delete seller", res.Error, nil, nil)
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Entity: "seller", Key: id}
	}
	s.notify(owner, CollectionSellers)
	return nil
}

// ListContacts returns the notification contacts of owner in insertion order.
func (s *Store) ListContacts(ctx context.Context, owner string) ([]models.NotificationContact, error) {
	var contacts []models.NotificationContact
	if err := s.owned(ctx, owner).Order("created_at ASC").Order("id ASC").Find(&contacts).Error; err != nil {
		return nil, s.fail("list contacts", err, nil, nil)
	}
	return contacts, nil
}

func (s *Store) CreateContact(ctx context.Context, owner string, c *models.NotificationContact) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.OwnerID = owner
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return s.fail("create contact", err, nil, nil)
	}
	s.notify(owner, CollectionContacts)
	return nil
}

func (s *Store) DeleteContact(ctx context.Context, owner, id string) error {
	res := s.owned(ctx, owner).Where("id = ?", id).Delete(&models.NotificationContact{})
	if res.Error != nil {
		return s.fail("delete contact", res.Error, nil, nil)
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Entity: "contact", Key: id}
	}
	s.notify(owner, CollectionContacts)
	return nil
}
