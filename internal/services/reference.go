package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
	"github.com/diewo77/lens-console/validation"
)

// ReferenceStore persists sellers and notification contacts.
type ReferenceStore interface {
	ListSellers(ctx context.Context, owner string) ([]models.Seller, error)
	CreateSeller(ctx context.Context, owner string, s *models.Seller) error
	DeleteSeller(ctx context.Context, owner, id string) error
	ListContacts(ctx context.Context, owner string) ([]models.NotificationContact, error)
	CreateContact(ctx context.Context, owner string, c *models.NotificationContact) error
	DeleteContact(ctx context.Context, owner, id string) error
}

// ReferenceService manages the seller and contact lists.
type ReferenceService struct {
	store ReferenceStore
	log   *zap.Logger
}

func NewReferenceService(st ReferenceStore, log *zap.Logger) *ReferenceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReferenceService{store: st, log: log}
}

func (s *ReferenceService) Sellers(ctx context.Context, owner string) ([]models.Seller, error) {
	return s.store.ListSellers(ctx, owner)
}

// AddSeller stores a new seller. Names are unique ignoring case and
// surrounding blanks.
func (s *ReferenceService) AddSeller(ctx context.Context, owner, name string) (*models.Seller, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.FieldError("name", "required")
	}
	existing, err := s.store.ListSellers(ctx, owner)
	if err != nil {
		return nil, err
	}
	if _, dup := findSeller(existing, name); dup {
		return nil, &domain.DuplicateError{Entity: "seller", Field: "name", Value: name}
	}
	seller := &models.Seller{Name: name}
	if err := s.store.CreateSeller(ctx, owner, seller); err != nil {
		return nil, err
	}
	s.log.Info("seller added", zap.String("owner", owner), zap.String("name", name))
	return seller, nil
}

// DeleteSeller removes a seller; orders keep the name they were sold under.
func (s *ReferenceService) DeleteSeller(ctx context.Context, owner, id string) error {
	return s.store.DeleteSeller(ctx, owner, id)
}

func (s *ReferenceService) Contacts(ctx context.Context, owner string) ([]models.NotificationContact, error) {
	return s.store.ListContacts(ctx, owner)
}

// AddContact stores a closing-report recipient.
func (s *ReferenceService) AddContact(ctx context.Context, owner, name, email string) (*models.NotificationContact, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	v := validation.Violations{}
	validation.Required("contactName", name, v)
	validation.Required("email", email, v)
	validation.Email("email", email, v)
	if !v.Empty() {
		return nil, domain.NewValidationError(v)
	}
	c := &models.NotificationContact{ContactName: name, Email: email}
	if err := s.store.CreateContact(ctx, owner, c); err != nil {
		return nil, err
	}
	s.log.Info("contact added", zap.String("owner", owner), zap.String("email", email))
	return c, nil
}

func (s *ReferenceService) DeleteContact(ctx context.Context, owner, id string) error {
	return s.store.DeleteContact(ctx, owner, id)
}
