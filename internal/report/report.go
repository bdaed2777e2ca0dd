// Package report derives financial aggregates from the transaction and
// expense logs. It holds no state and performs no mutation; empty inputs
// produce an all-zero report.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/adibratta/my-pos/internal/domain"
)

// ErrInvalidPeriod is returned for period values not shaped like "2006-01".
var ErrInvalidPeriod = errors.New("invalid report period")

// Monthly aggregates one calendar month. Records are bucketed by calendar
// date prefix in the timezone each record was stored with, matching how the
// dates were shown when recorded. Profit comes from the point-in-time value
// on each transaction, never from current product cost.
func Monthly(period string, txs []domain.Transaction, expenses []domain.Expense) (domain.MonthlyReport, error) {
	month, err := time.Parse("2006-01", period)
	if err != nil {
		return domain.MonthlyReport{}, ErrInvalidPeriod
	}

	rpt := domain.MonthlyReport{Period: period}

	daysInMonth := month.AddDate(0, 1, -1).Day()
	revenueByDay := make(map[string]int64, daysInMonth)
	soldByName := make(map[string]int)

	for _, tx := range txs {
		day := tx.Date.Format("2006-01-02")
		if day[:len(period)] != period {
			continue
		}
		rpt.Revenue += tx.Total
		rpt.GrossProfit += tx.Profit
		rpt.Transactions++
		revenueByDay[day] += tx.Total
		for _, item := range tx.Items {
			soldByName[item.Name] += item.Quantity
		}
	}

	for _, e := range expenses {
		if e.Date.Format("2006-01") != period {
			continue
		}
		rpt.ExpenseTotal += e.Amount
	}
	rpt.NetProfit = rpt.GrossProfit - rpt.ExpenseTotal

	rpt.Daily = make([]domain.DailyRevenue, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		key := fmt.Sprintf("%s-%02d", period, d)
		rpt.Daily[d-1] = domain.DailyRevenue{Day: d, Revenue: revenueByDay[key]}
	}

	best, bestQty := "", 0
	for name, qty := range soldByName {
		if qty > bestQty || (qty == bestQty && best != "" && name < best) {
			best, bestQty = name, qty
		}
	}
	rpt.BestSeller = best

	return rpt, nil
}

// Summaries trims transactions in the period down to the compact form the
// AI advisor consumes.
func Summaries(period string, txs []domain.Transaction) []domain.TransactionSummary {
	result := make([]domain.TransactionSummary, 0, len(txs))
	for _, tx := range txs {
		day := tx.Date.Format("2006-01-02")
		if len(day) < len(period) || day[:len(period)] != period {
			continue
		}
		names := ""
		for i, item := range tx.Items {
			if i > 0 {
				names += ", "
			}
			names += item.Name
		}
		result = append(result, domain.TransactionSummary{
			Date:  day,
			Total: tx.Total,
			Items: names,
		})
	}
	return result
}
