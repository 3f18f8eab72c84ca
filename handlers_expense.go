package main

import (
	"fmt"
	"net/http"
	"time"

	"spendtrack/models"

	"github.com/gin-gonic/gin"
)

type expenseRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Amount      *float64   `json:"amount" binding:"required"`
	Category    string     `json:"category" binding:"required"`
	Date        *time.Time `json:"date"`
}

func (r expenseRequest) validate() error {
	if *r.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	return nil
}

func createExpenseHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, ErrNotAuthenticated)
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		fail(c, err)
		return
	}
	e := models.Expense{
		Title:       req.Title,
		Description: req.Description,
		Amount:      *req.Amount,
		Category:    req.Category,
		UserID:      user.ID,
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
	if err := expenseStore.Create(&e); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func getExpenseHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, ErrNotAuthenticated)
		return
	}
	e, err := expenseStore.ByID(c.Param("id"), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func listExpensesHandler(c *gin.Context) {
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
	c.JSON(http.StatusOK, expenses)
}

func updateExpenseHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, ErrNotAuthenticated)
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		fail(c, err)
		return
	}
	// existence and ownership are checked before any mutation
	e, err := expenseStore.ByID(c.Param("id"), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	e.Title = req.Title
	e.Description = req.Description
	e.Amount = *req.Amount
	e.Category = req.Category
	if req.Date != nil {
		e.Date = *req.Date
	}
	if err := expenseStore.Save(e); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func deleteExpenseHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, ErrNotAuthenticated)
		return
	}
	if err := expenseStore.Delete(c.Param("id"), user.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

func listExpensesByCategoryHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, ErrNotAuthenticated)
		return
	}
	expenses, err := expenseStore.ByCategory(user.ID, c.Param("category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func listExpensesByDateRangeHandler(c *gin.Context) {
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
	c.JSON(http.StatusOK, expenses)
}
