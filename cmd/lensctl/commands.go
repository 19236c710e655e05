package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/diewo77/lens-console/i18n"
	"github.com/diewo77/lens-console/internal/models"
	"github.com/diewo77/lens-console/internal/services"
	"github.com/diewo77/lens-console/internal/spreadsheet"
	"github.com/diewo77/lens-console/internal/store"
)

var errUnknownCommand = errors.New("unknown command")

type cli struct {
	store  *store.Store
	parser *spreadsheet.Parser
	clock  services.Clock
	log    *zap.Logger
	out    io.Writer
}

func (c *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "stats":
		return c.stats(ctx, args)
	case "orders":
		return c.orders(ctx, args)
	case "export":
		return c.export(ctx, args)
	case "restore":
		return c.restore(ctx, args)
	case "import-metrics":
		return c.importMetrics(ctx, args)
	default:
		return fmt.Errorf("%w %q", errUnknownCommand, cmd)
	}
}

func newFlags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	owner := fs.String("owner", "", "owner id (required)")
	return fs, owner
}

func requireOwner(owner string) error {
	if owner == "" {
		return errors.New("-owner is required")
	}
	return nil
}

func (c *cli) table(headers []string, rows [][]string) error {
	t := tablewriter.NewWriter(c.out)
	h := make([]any, len(headers))
	for i, v := range headers {
		h[i] = v
	}
	t.Header(h...)
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

func (c *cli) stats(ctx context.Context, args []string) error {
	fs, owner := newFlags("stats")
	lang := fs.String("lang", i18n.DefaultLang, "label language")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireOwner(*owner); err != nil {
		return err
	}
	orders, err := c.store.ListOrders(ctx, *owner)
	if err != nil {
		return err
	}
	today := c.clock.Today()
	st := services.ComputeStatistics(orders, today, *lang)

	fmt.Fprintf(c.out, "%s (%s %d)\n", today, st.MonthName, today.Year())
	rows := [][]string{
		{"orders", strconv.Itoa(st.Today.Orders), strconv.Itoa(st.Month.Orders)},
		{"revenue", st.Today.TotalRevenue.StringFixed(2), st.Month.TotalRevenue.StringFixed(2)},
		{"first", strconv.Itoa(st.Today.FirstOrders), strconv.Itoa(st.Month.FirstOrders)},
		{"second", strconv.Itoa(st.Today.SecondOrders), strconv.Itoa(st.Month.SecondOrders)},
	}
	for _, lt := range models.AllLensTypes {
		rows = append(rows, []string{
			i18n.T(*lang, "lens."+string(lt)),
			strconv.Itoa(st.Today.LensTypes[lt]),
			strconv.Itoa(st.Month.LensTypes[lt]),
		})
	}
	sellers := make([]string, 0, len(st.Month.RevenueBySeller))
	for s := range st.Month.RevenueBySeller {
		sellers = append(sellers, s)
	}
	sort.Strings(sellers)
	for _, s := range sellers {
		rows = append(rows, []string{
			"seller " + s,
			st.Today.RevenueBySeller[s].StringFixed(2),
			st.Month.RevenueBySeller[s].StringFixed(2),
		})
	}
	return c.table([]string{"", "today", "month"}, rows)
}

func (c *cli) orders(ctx context.Context, args []string) error {
	fs, owner := newFlags("orders")
	surname := fs.String("surname", "", "filter by surname (substring)")
	bin := fs.String("bin", "", "filter by bin reference (substring)")
	lang := fs.String("lang", i18n.DefaultLang, "label language")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireOwner(*owner); err != nil {
		return err
	}
	orders, err := c.store.ListOrders(ctx, *owner)
	if err != nil {
		return err
	}
	if *surname != "" || *bin != "" {
		q := services.SearchQuery{Surname: *surname, Bin: *bin, Since: services.DefaultSince(c.clock.Today())}
		if orders, err = services.DetailSearch(orders, q); err != nil {
			return err
		}
	} else {
		services.SortNewestFirst(orders)
	}
	t := services.BuildReportTable(orders, *lang)
	return c.table(t.Headers, t.Rows)
}

func (c *cli) export(ctx context.Context, args []string) error {
	fs, owner := newFlags("export")
	out := fs.String("out", "", "output file (default: dated name in the current directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireOwner(*owner); err != nil {
		return err
	}
	svc := services.NewBackupService(c.store, nil, c.log, c.clock)
	b, err := svc.Export(ctx, *owner)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = svc.FileName()
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "backup written to %s\n", path)
	return nil
}

func (c *cli) restore(ctx context.Context, args []string) error {
	fs, owner := newFlags("restore")
	in := fs.String("in", "", "backup file (required)")
	yes := fs.Bool("yes", false, "confirm the replacement of every collection in the file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireOwner(*owner); err != nil {
		return err
	}
	raw, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	b, err := services.ParseBackup(raw)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name, strconv.Itoa(len(b[name]))}
	}
	if err := c.table([]string{"collection", "records"}, rows); err != nil {
		return err
	}

	svc := services.NewBackupService(c.store, nil, c.log, c.clock)
	if err := svc.Restore(ctx, *owner, b, *yes); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "restore completed")
	return nil
}

func (c *cli) importMetrics(ctx context.Context, args []string) error {
	fs, owner := newFlags("import-metrics")
	period := fs.String("period", "", "month as YYYY-MM (required)")
	file := fs.String("file", "", "xlsx file (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireOwner(*owner); err != nil {
		return err
	}
	content, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	svc := services.NewMonthlyMetricsService(c.store, c.parser, nil, c.log)
	mm, err := svc.Import(ctx, *owner, *period, content)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "imported %d metrics for %s (%d days)\n", len(mm.Metrics), mm.Period, len(mm.DateHeaders))
	return nil
}
