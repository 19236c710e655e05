package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/metrics"
	"github.com/diewo77/lens-console/internal/models"
)

const (
	metricsMarker     = "saldato tgt"
	metricsNameColumn = 3
	metricsFirstDay   = 4
	metricsRowSpan    = 16
)

// BuildMonthlyMetrics reshapes a sheet grid into the metrics of period.
// The block starts at the first row whose fourth cell reads "Saldato TGT"
// and spans at most 16 rows; each row contributes one value per day.
func BuildMonthlyMetrics(grid [][]string, period string) (*models.MonthlyMetrics, error) {
	year, month, err := models.ParsePeriod(period)
	if err != nil {
		return nil, domain.FieldError("period", "invalid_format")
	}
	days := models.DaysInMonth(year, month)

	start := -1
	for i, row := range grid {
		if strings.ToLower(strings.TrimSpace(cell(row, metricsNameColumn))) == metricsMarker {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, &domain.ImportError{Reason: "marker row not found"}
	}

	headers := make(datatypes.JSONSlice[string], days)
	for d := 1; d <= days; d++ {
		headers[d-1] = models.DateOf(year, month, d).String()
	}

	out := datatypes.JSONSlice[models.Metric]{}
	for i := start; i < len(grid) && i < start+metricsRowSpan; i++ {
		row := grid[i]
		name := strings.TrimSpace(cell(row, metricsNameColumn))
		if name == "" || strings.EqualFold(name, "area") {
			continue
		}
		values := make([]string, days)
		for d := 0; d < days; d++ {
			values[d] = strings.TrimSpace(cell(row, metricsFirstDay+d))
		}
		out = append(out, models.Metric{Name: name, Values: values})
	}

	return &models.MonthlyMetrics{Period: period, DateHeaders: headers, Metrics: out}, nil
}

// cell returns row[i] or "" past the end of a ragged row.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// SheetParser turns spreadsheet bytes into a grid of the first sheet.
type SheetParser interface {
	Parse(content []byte) ([][]string, error)
}

// MetricsStore persists monthly metrics.
type MetricsStore interface {
	GetMonthlyMetrics(ctx context.Context, owner, period string) (*models.MonthlyMetrics, error)
	PutMonthlyMetrics(ctx context.Context, owner string, mm *models.MonthlyMetrics) error
	ListMonthlyPeriods(ctx context.Context, owner string) ([]string, error)
}

// MonthlyMetricsService imports and serves the monthly metrics tables.
type MonthlyMetricsService struct {
	store   MetricsStore
	parser  SheetParser
	metrics metrics.OrderMetrics
	log     *zap.Logger
}

func NewMonthlyMetricsService(st MetricsStore, p SheetParser, m metrics.OrderMetrics, log *zap.Logger) *MonthlyMetricsService {
	if m == nil {
		m = metrics.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MonthlyMetricsService{store: st, parser: p, metrics: m, log: log}
}

// Import parses content and replaces the stored record of period. Nothing
// is written when parsing or reshaping fails.
func (s *MonthlyMetricsService) Import(ctx context.Context, owner, period string, content []byte) (*models.MonthlyMetrics, error) {
	if _, _, err := models.ParsePeriod(period); err != nil {
		return nil, domain.FieldError("period", "invalid_format")
	}
	if s.parser == nil {
		return nil, &domain.DependencyError{Dependency: "spreadsheet parser"}
	}
	grid, err := s.parser.Parse(content)
	if err != nil {
		s.metrics.IncMetricsImport("unreadable")
		return nil, &domain.ImportError{Reason: "unreadable spreadsheet: " + err.Error()}
	}
	mm, err := BuildMonthlyMetrics(grid, period)
	if err != nil {
		s.metrics.IncMetricsImport("rejected")
		return nil, err
	}
	if err := s.store.PutMonthlyMetrics(ctx, owner, mm); err != nil {
		return nil, err
	}
	s.metrics.IncMetricsImport("ok")
	s.log.Info("monthly metrics imported",
		zap.String("owner", owner), zap.String("period", period), zap.Int("metrics", len(mm.Metrics)))
	return mm, nil
}

// Get returns the stored metrics of period.
func (s *MonthlyMetricsService) Get(ctx context.Context, owner, period string) (*models.MonthlyMetrics, error) {
	if _, _, err := models.ParsePeriod(period); err != nil {
		return nil, domain.FieldError("period", "invalid_format")
	}
	return s.store.GetMonthlyMetrics(ctx, owner, period)
}

// Periods lists the imported periods, newest first.
func (s *MonthlyMetricsService) Periods(ctx context.Context, owner string) ([]string, error) {
	return s.store.ListMonthlyPeriods(ctx, owner)
}
