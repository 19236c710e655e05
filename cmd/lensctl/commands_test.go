package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/lens-console/internal/db"
	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/models"
	"github.com/diewo77/lens-console/internal/services"
	"github.com/diewo77/lens-console/internal/spreadsheet"
	"github.com/diewo77/lens-console/internal/store"
)

func newTestCLI(t *testing.T) (*cli, *bytes.Buffer) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(false))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(conn))

	st := store.New(conn, nil)
	_, err = services.NewReferenceService(st, nil).AddSeller(context.Background(), "shop", "Anna")
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &cli{
		store:  st,
		parser: spreadsheet.NewParser(),
		clock:  services.FixedClock(time.Date(2024, time.March, 15, 18, 0, 0, 0, time.UTC)),
		out:    out,
	}, out
}

func seedOrder(t *testing.T, c *cli, surname, number string, date models.Date) {
	t.Helper()
	clock := services.FixedClock(time.Date(date.Year(), date.Month(), date.Day(), 10, 0, 0, 0, time.UTC))
	amount := decimal.RequireFromString("150.50")
	_, err := services.NewOrderService(c.store, nil, nil, clock).Create(context.Background(), "shop", nil, services.CreateOrderInput{
		CustomerSurname: surname,
		Seller:          "Anna",
		LensType:        models.LensMultifocal,
		OrderRank:       models.RankFirst,
		BinReference:    "042",
		OrderNumber:     number,
		Amount:          &amount,
		Status:          models.StatusToOrder,
	})
	require.NoError(t, err)
}

func TestRunUnknownCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	assert.ErrorIs(t, c.run(context.Background(), "frobnicate", nil), errUnknownCommand)
}

func TestCommandsRequireOwner(t *testing.T) {
	c, _ := newTestCLI(t)
	for _, cmd := range []string{"stats", "orders", "export", "restore", "import-metrics"} {
		t.Run(cmd, func(t *testing.T) {
			err := c.run(context.Background(), cmd, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "-owner")
		})
	}
}

func TestStatsCommand(t *testing.T) {
	c, out := newTestCLI(t)
	seedOrder(t, c, "Rossi", "12345", models.DateOf(2024, time.March, 15))
	seedOrder(t, c, "Bianchi", "12346", models.DateOf(2024, time.March, 2))

	require.NoError(t, c.run(context.Background(), "stats", []string{"-owner", "shop"}))

	s := out.String()
	assert.Contains(t, s, "15/03/2024 (Marzo 2024)")
	assert.Contains(t, s, "150.50")
	assert.Contains(t, s, "301.00")
	assert.Contains(t, s, "Multifocale")
	assert.Contains(t, s, "seller Anna")
}

func TestOrdersCommandFilters(t *testing.T) {
	c, out := newTestCLI(t)
	seedOrder(t, c, "Rossi", "12345", models.DateOf(2024, time.March, 15))
	seedOrder(t, c, "Bianchi", "12346", models.DateOf(2024, time.March, 2))

	require.NoError(t, c.run(context.Background(), "orders", []string{"-owner", "shop", "-surname", "ross"}))
	assert.Contains(t, out.String(), "Rossi")
	assert.NotContains(t, out.String(), "Bianchi")

	out.Reset()
	require.NoError(t, c.run(context.Background(), "orders", []string{"-owner", "shop"}))
	assert.Contains(t, out.String(), "Rossi")
	assert.Contains(t, out.String(), "Bianchi")
}

func TestExportAndRestoreCommands(t *testing.T) {
	c, out := newTestCLI(t)
	ctx := context.Background()
	seedOrder(t, c, "Rossi", "12345", models.DateOf(2024, time.March, 15))

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, c.run(ctx, "export", []string{"-owner", "shop", "-out", path}))
	assert.Contains(t, out.String(), path)

	seedOrder(t, c, "Bianchi", "12346", models.DateOf(2024, time.March, 2))

	out.Reset()
	err := c.run(ctx, "restore", []string{"-owner", "shop", "-in", path})
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.Contains(t, out.String(), "orders")

	require.NoError(t, c.run(ctx, "restore", []string{"-owner", "shop", "-in", path, "-yes"}))
	assert.Contains(t, out.String(), "restore completed")

	orders, err := c.store.ListOrders(ctx, "shop")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "12345", orders[0].OrderNumber)
}

func TestImportMetricsCommand(t *testing.T) {
	c, out := newTestCLI(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "D1", "Saldato TGT"))
	require.NoError(t, f.SetCellValue(sheet, "E1", "10"))
	path := filepath.Join(t.TempDir(), "metrics.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	require.NoError(t, c.run(context.Background(), "import-metrics",
		[]string{"-owner", "shop", "-period", "2024-02", "-file", path}))
	assert.Contains(t, out.String(), "imported 1 metrics for 2024-02 (29 days)")

	mm, err := c.store.GetMonthlyMetrics(context.Background(), "shop", "2024-02")
	require.NoError(t, err)
	assert.Equal(t, "10", mm.Metrics[0].Values[0])
}
