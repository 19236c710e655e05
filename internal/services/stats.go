package services

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/diewo77/lens-console/i18n"
	"github.com/diewo77/lens-console/internal/models"
)

// WindowStats aggregates the orders of one time window.
type WindowStats struct {
	Orders          int                        `json:"orders"`
	TotalRevenue    decimal.Decimal            `json:"totalRevenue"`
	RevenueBySeller map[string]decimal.Decimal `json:"revenueBySeller"`
	FirstOrders     int                        `json:"firstOrders"`
	SecondOrders    int                        `json:"secondOrders"`
	LensTypes       map[models.LensType]int    `json:"lensTypes"`
}

// Statistics holds the today and current-month windows.
type Statistics struct {
	Date      models.Date `json:"date"`
	Today     WindowStats `json:"today"`
	Month     WindowStats `json:"month"`
	MonthName string      `json:"monthName"`
}

func newWindow() WindowStats {
	w := WindowStats{
		TotalRevenue:    decimal.Zero,
		RevenueBySeller: map[string]decimal.Decimal{},
		LensTypes:       map[models.LensType]int{},
	}
	for _, lt := range models.AllLensTypes {
		w.LensTypes[lt] = 0
	}
	return w
}

func (w *WindowStats) add(o *models.Order) {
	w.Orders++
	w.TotalRevenue = w.TotalRevenue.Add(o.Amount)
	w.RevenueBySeller[o.Seller] = w.RevenueBySeller[o.Seller].Add(o.Amount)
	if o.OrderRank == models.RankFirst {
		w.FirstOrders++
	} else {
		w.SecondOrders++
	}
	w.LensTypes[o.LensType]++
}

// ComputeStatistics aggregates orders dated today and in today's month.
// The month name is given in lang.
func ComputeStatistics(orders []models.Order, today models.Date, lang string) Statistics {
	st := Statistics{
		Date:      today,
		Today:     newWindow(),
		Month:     newWindow(),
		MonthName: i18n.T(lang, "month."+strconv.Itoa(int(today.Month()))),
	}
	for i := range orders {
		o := &orders[i]
		if !o.Date.SameMonth(today) {
			continue
		}
		st.Month.add(o)
		if o.Date.Equal(today) {
			st.Today.add(o)
		}
	}
	return st
}
