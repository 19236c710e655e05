package store

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
)

// GetMonthlyMetrics loads the record of period.
func (s *Store) GetMonthlyMetrics(ctx context.Context, owner, period string) (*models.MonthlyMetrics, error) {
	var mm models.MonthlyMetrics
	err := s.owned(ctx, owner).Where("period = ?", period).First(&mm).Error
	if err != nil {
		return nil, s.fail("get monthly metrics", err, nil,
			&domain.NotFoundError{Entity: "monthly metrics", Key: period})
	}
	return &mm, nil
}

// PutMonthlyMetrics replaces the record of mm.Period wholesale.
func (s *Store) PutMonthlyMetrics(ctx context.Context, owner string, mm *models.MonthlyMetrics) error {
	mm.OwnerID = owner
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "period"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at", "date_headers", "metrics"}),
	}).Create(mm).Error
	if err != nil {
		return s.fail("put monthly metrics", err, nil, nil)
	}
	s.notify(owner, CollectionMonthlyMetrics)
	return nil
}

// ListMonthlyPeriods returns the periods with stored metrics, newest first.
func (s *Store) ListMonthlyPeriods(ctx context.Context, owner string) ([]string, error) {
	var periods []string
	err := s.owned(ctx, owner).Model(&models.MonthlyMetrics{}).
		Order("period DESC").Pluck("period", &periods).Error
	if err != nil {
		return nil, s.fail("list monthly periods", err, nil, nil)
	}
	return periods, nil
}
