package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/lens-console/internal/domain"
)

// metricsGrid builds a sheet with two heading rows, then the block
// starting at the marker, then trailing rows that must be ignored.
func metricsGrid() [][]string {
	row := func(name string, values ...string) []string {
		return append([]string{"", "", "", name}, values...)
	}
	grid := [][]string{
		{"Negozio", "", "", "Titolo"},
		{},
		row("Saldato TGT", "100", "", "120"),
		row("Area"),
		row(""),
		row("  Scontrini  ", " 5 ", "6"),
	}
	for i := 0; i < 12; i++ {
		grid = append(grid, row(fmt.Sprintf("Riga %d", i), "1"))
	}
	// Past the 16-row block.
	grid = append(grid, row("Fuori blocco", "9"))
	return grid
}

func TestBuildMonthlyMetrics(t *testing.T) {
	mm, err := BuildMonthlyMetrics(metricsGrid(), "2024-02")
	require.NoError(t, err)

	assert.Equal(t, "2024-02", mm.Period)
	require.Len(t, mm.DateHeaders, 29)
	assert.Equal(t, "01/02/2024", mm.DateHeaders[0])
	assert.Equal(t, "29/02/2024", mm.DateHeaders[28])

	require.Len(t, mm.Metrics, 14, "marker, Scontrini and 12 rows; Area and blank rows skipped")
	assert.Equal(t, "Saldato TGT", mm.Metrics[0].Name)
	assert.Equal(t, []string{"100", "", "120"}, mm.Metrics[0].Values[:3])
	assert.Equal(t, "", mm.Metrics[0].Values[28])
	assert.Equal(t, "Scontrini", mm.Metrics[1].Name)
	assert.Equal(t, "5", mm.Metrics[1].Values[0])
	assert.Equal(t, "Riga 11", mm.Metrics[13].Name)
	for _, m := range mm.Metrics {
		assert.Len(t, m.Values, 29)
		assert.NotEqual(t, "Fuori blocco", m.Name)
	}
}

func TestBuildMonthlyMetricsNonLeapFebruary(t *testing.T) {
	mm, err := BuildMonthlyMetrics(metricsGrid(), "2023-02")
	require.NoError(t, err)
	assert.Len(t, mm.DateHeaders, 28)
	assert.Len(t, mm.Metrics[0].Values, 28)
}

func TestBuildMonthlyMetricsErrors(t *testing.T) {
	_, err := BuildMonthlyMetrics([][]string{{"a", "b", "c", "Totale"}}, "2024-02")
	assert.ErrorIs(t, err, domain.ErrImport)

	_, err = BuildMonthlyMetrics(metricsGrid(), "2024-13")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

type fakeParser struct {
	grid [][]string
	err  error
}

func (f fakeParser) Parse([]byte) ([][]string, error) { return f.grid, f.err }

func TestMonthlyMetricsImport(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	svc := NewMonthlyMetricsService(st, fakeParser{grid: metricsGrid()}, nil, nil)
	_, err := svc.Import(ctx, "owner", "2024-02", []byte("xlsx"))
	require.NoError(t, err)

	got, err := svc.Get(ctx, "owner", "2024-02")
	require.NoError(t, err)
	assert.Len(t, got.Metrics, 14)

	// A failing import leaves the stored record untouched.
	bad := NewMonthlyMetricsService(st, fakeParser{grid: [][]string{{"nothing"}}}, nil, nil)
	_, err = bad.Import(ctx, "owner", "2024-02", []byte("xlsx"))
	assert.ErrorIs(t, err, domain.ErrImport)

	unreadable := NewMonthlyMetricsService(st, fakeParser{err: errors.New("zip: not a valid zip file")}, nil, nil)
	_, err = unreadable.Import(ctx, "owner", "2024-02", []byte("junk"))
	assert.ErrorIs(t, err, domain.ErrImport)

	got, err = svc.Get(ctx, "owner", "2024-02")
	require.NoError(t, err)
	assert.Len(t, got.Metrics, 14)

	periods, err := svc.Periods(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02"}, periods)

	_, err = svc.Get(ctx, "owner", "2024-03")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Get(ctx, "owner", "03-2024")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMonthlyMetricsImportWithoutParser(t *testing.T) {
	svc := NewMonthlyMetricsService(nil, nil, nil, nil)
	_, err := svc.Import(context.Background(), "owner", "2024-02", nil)
	assert.ErrorIs(t, err, domain.ErrDependencyUnavailable)
}
