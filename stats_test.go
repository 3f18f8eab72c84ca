package main

import (
	"testing"
	"time"

	"spendtrack/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil)
	assert.Zero(t, stats.TotalAmount)
	assert.Zero(t, stats.TotalExpenses)
	assert.Zero(t, stats.AverageExpense)
	assert.Empty(t, stats.ExpensesByCategory)
	assert.Empty(t, stats.ExpensesByMonth)
	// maps must be present (serialized as {}), not nil
	assert.NotNil(t, stats.ExpensesByCategory)
	assert.NotNil(t, stats.ExpensesByMonth)
}

func TestComputeStatisticsGrouping(t *testing.T) {
	expenses := []models.Expense{
		{Amount: 10, Category: "Food", Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{Amount: 20, Category: "Food", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	stats := ComputeStatistics(expenses)
	assert.Equal(t, 30.0, stats.TotalAmount)
	assert.Equal(t, int64(2), stats.TotalExpenses)
	assert.Equal(t, 15.0, stats.AverageExpense)
	assert.Equal(t, map[string]float64{"Food": 30}, stats.ExpensesByCategory)
	assert.Equal(t, map[string]float64{"2024-01": 10, "2024-02": 20}, stats.ExpensesByMonth)
}

func TestComputeStatisticsLabelsNotNormalized(t *testing.T) {
	expenses := []models.Expense{
		{Amount: 5, Category: "food", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Amount: 7, Category: "Food", Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{Amount: 1, Category: " Food", Date: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)},
	}
	stats := ComputeStatistics(expenses)
	assert.Len(t, stats.ExpensesByCategory, 3)
	assert.Equal(t, 7.0, stats.ExpensesByCategory["Food"])
}
