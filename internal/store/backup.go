package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
)

// Record is one document of a collection: its id plus every field.
type Record map[string]any

const restoreBatchSize = 200

// Collections returns the known collections followed by any extra
// collection stored for owner, sorted by name.
func (s *Store) Collections(ctx context.Context, owner string) ([]string, error) {
	var extra []string
	err := s.owned(ctx, owner).Model(&models.Document{}).
		Distinct("collection").Order("collection ASC").Pluck("collection", &extra).Error
	if err != nil {
		return nil, s.fail("list collections", err, nil, nil)
	}
	out := append([]string{}, KnownCollections...)
	for _, c := range extra {
		if !isKnown(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func isKnown(collection string) bool {
	for _, c := range KnownCollections {
		if c == collection {
			return true
		}
	}
	return false
}

// GetAll returns every record of collection for owner.
func (s *Store) GetAll(ctx context.Context, owner, collection string) ([]Record, error) {
	q := s.owned(ctx, owner)
	var (
		out []Record
		err error
	)
	switch collection {
	case CollectionOrders:
		var rows []models.Order
		if err = q.Order("date DESC").Order("created_at DESC").Find(&rows).Error; err == nil {
			out, err = toRecords(rows, nil)
		}
	case CollectionSellers:
		var rows []models.Seller
		if err = q.Order("name_key ASC").Find(&rows).Error; err == nil {
			out, err = toRecords(rows, nil)
		}
	case CollectionContacts:
		var rows []models.NotificationContact
		if err = q.Order("created_at ASC").Find(&rows).Error; err == nil {
			out, err = toRecords(rows, nil)
		}
	case CollectionMonthlyMetrics:
		var rows []models.MonthlyMetrics
		if err = q.Order("period ASC").Find(&rows).Error; err == nil {
			out, err = toRecords(rows, func(m models.MonthlyMetrics) string { return m.Period })
		}
	default:
		var docs []models.Document
		if err = q.Where("collection = ?", collection).Order("id ASC").Find(&docs).Error; err == nil {
			out = make([]Record, 0, len(docs))
			for _, d := range docs {
				r := Record(d.Data)
				if _, ok := r["id"]; !ok {
					r["id"] = d.ID
				}
				out = append(out, r)
			}
		}
	}
	if err != nil {
		return nil, s.fail("get all "+collection, err, nil, nil)
	}
	return out, nil
}

func toRecords[T any](rows []T, idOf func(T) string) ([]Record, error) {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		b, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		var r Record
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		if idOf != nil {
			r["id"] = idOf(row)
		}
		out = append(out, r)
	}
	return out, nil
}

// ReplaceAll deletes every owner record of each collection present in data
// and inserts the given records keeping their ids. Both phases share one
// transaction, so a failure leaves the previous data in place.
func (s *Store) ReplaceAll(ctx context.Context, owner string, data map[string][]Record) error {
	names := make([]string, 0, len(data))
	for c := range data {
		names = append(names, c)
	}
	sort.Strings(names)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range names {
			if err := deleteCollection(tx, owner, c); err != nil {
				return fmt.Errorf("delete %s: %w", c, err)
			}
		}
		for _, c := range names {
			if err := insertCollection(tx, owner, c, data[c]); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return &domain.DuplicateError{Entity: c + " record", Field: "key"}
				}
				return fmt.Errorf("insert %s: %w", c, err)
			}
		}
		return nil
	})
	if err != nil {
		return s.fail("replace all", err, nil, nil)
	}
	s.notify(owner, names...)
	return nil
}

func deleteCollection(tx *gorm.DB, owner, collection string) error {
	q := tx.Where("owner_id = ?", owner)
	switch collection {
	case CollectionOrders:
		return q.Delete(&models.Order{}).Error
	case CollectionSellers:
		return q.Delete(&models.Seller{}).Error
	case CollectionContacts:
		return q.Delete(&models.NotificationContact{}).Error
	case CollectionMonthlyMetrics:
		return q.Delete(&models.MonthlyMetrics{}).Error
	default:
		return q.Where("collection = ?", collection).Delete(&models.Document{}).Error
	}
}

func insertCollection(tx *gorm.DB, owner, collection string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	switch collection {
	case CollectionOrders:
		rows, err := fromRecords(collection, records, func(o *models.Order, id string) {
			o.ID, o.OwnerID = id, owner
		})
		if err != nil {
			return err
		}
		return tx.CreateInBatches(rows, restoreBatchSize).Error
	case CollectionSellers:
		rows, err := fromRecords(collection, records, func(s *models.Seller, id string) {
			s.ID, s.OwnerID = id, owner
		})
		if err != nil {
			return err
		}
		return tx.CreateInBatches(rows, restoreBatchSize).Error
	case CollectionContacts:
		rows, err := fromRecords(collection, records, func(c *models.NotificationContact, id string) {
			c.ID, c.OwnerID = id, owner
		})
		if err != nil {
			return err
		}
		return tx.CreateInBatches(rows, restoreBatchSize).Error
	case CollectionMonthlyMetrics:
		rows, err := fromRecords(collection, records, func(m *models.MonthlyMetrics, id string) {
			if m.Period == "" {
				m.Period = id
			}
			m.OwnerID = owner
		})
		if err != nil {
			return err
		}
		return tx.CreateInBatches(rows, restoreBatchSize).Error
	default:
		docs := make([]models.Document, 0, len(records))
		for _, r := range records {
			docs = append(docs, models.Document{
				OwnerID:    owner,
				Collection: collection,
				ID:         recordID(r),
				Data:       map[string]any(r),
			})
		}
		return tx.CreateInBatches(docs, restoreBatchSize).Error
	}
}

func fromRecords[T any](collection string, records []Record, assign func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, r := range records {
		var row T
		b, err := json.Marshal(r)
		if err == nil {
			err = json.Unmarshal(b, &row)
		}
		if err != nil {
			return nil, domain.FieldError(fmt.Sprintf("%s[%d]", collection, i), "invalid_format")
		}
		assign(&row, recordID(r))
		out = append(out, row)
	}
	return out, nil
}

// recordID returns the record id as text, minting one when absent.
func recordID(r Record) string {
	switch v := r["id"].(type) {
	case string:
		if v != "" {
			return v
		}
	case nil:
	default:
		return fmt.Sprint(v)
	}
	id := uuid.NewString()
	r["id"] = id
	return id
}
