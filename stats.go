package main

import (
	"net/http"

	"spendtrack/models"

	"github.com/gin-gonic/gin"
)

// Statistics is a derived snapshot over a set of expenses; it is computed
// on demand and never persisted.
type Statistics struct {
	TotalAmount        float64            `json:"totalAmount"`
	TotalExpenses      int64              `json:"totalExpenses"`
	ExpensesByCategory map[string]float64 `json:"expensesByCategory"`
	ExpensesByMonth    map[string]float64 `json:"expensesByMonth"`
	AverageExpense     float64            `json:"averageExpense"`
}

// ComputeStatistics aggregates total, count, average and the per-category /
// per-month sums. Category labels are grouped as-is (case sensitive,
// untrimmed); months key on the expense date's "YYYY-MM".
func ComputeStatistics(expenses []models.Expense) Statistics {
	stats := Statistics{
		ExpensesByCategory: map[string]float64{},
		ExpensesByMonth:    map[string]float64{},
	}
	if len(expenses) == 0 {
		return stats
	}
	for _, e := range expenses {
		stats.TotalAmount += e.Amount
		stats.ExpensesByCategory[e.Category] += e.Amount
		stats.ExpensesByMonth[e.Date.Format("2006-01")] += e.Amount
	}
	stats.TotalExpenses = int64(len(expenses))
	stats.AverageExpense = stats.TotalAmount / float64(stats.TotalExpenses)
	return stats
}

func statisticsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, ErrNotAuthenticated)
		return
	}
	expenses, err := expenseStore.ByOwner(user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ComputeStatistics(expenses))
}

func statisticsByDateRangeHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, ErrNotAuthenticated)
		return
	}
	start, end, err := parseDateRange(c)
	if err != nil {
		fail(c, err)
		return
	}
	expenses, err := expenseStore.ByDateRange(user.ID, start, end)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ComputeStatistics(expenses))
}
