package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

func setupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/auth/register", registerHandler)
	api.POST("/auth/login", loginHandler)
	api.GET("/auth/oauth2/google", oauth2GoogleRedirectHandler)
	api.GET("/auth/oauth2/callback", oauth2CallbackHandler)
	api.GET("/auth/oauth2/success", oauth2SuccessHandler)
	api.GET("/auth/oauth2/error", oauth2ErrorHandler)

	authGroup := api.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/auth/me", meHandler)

	authGroup.POST("/categories", createCategoryHandler)
	authGroup.GET("/categories", listCategoriesHandler)
	authGroup.GET("/categories/:id", getCategoryHandler)
	authGroup.PUT("/categories/:id", updateCategoryHandler)
	authGroup.DELETE("/categories/:id", deleteCategoryHandler)
	authGroup.POST("/categories/initialize", initializeCategoriesHandler)

	authGroup.POST("/expenses", createExpenseHandler)
	authGroup.GET("/expenses", listExpensesHandler)
	authGroup.GET("/expenses/:id", getExpenseHandler)
	authGroup.PUT("/expenses/:id", updateExpenseHandler)
	authGroup.DELETE("/expenses/:id", deleteExpenseHandler)
	authGroup.GET("/expenses/category/:category", listExpensesByCategoryHandler)
	authGroup.GET("/expenses/date-range", listExpensesByDateRangeHandler)

	authGroup.GET("/statistics", statisticsHandler)
	authGroup.GET("/statistics/date-range", statisticsByDateRangeHandler)

	authGroup.GET("/export/json", exportJSONHandler)
	authGroup.GET("/export/json/date-range", exportJSONByDateRangeHandler)
	authGroup.GET("/export/csv", exportCSVHandler)
	authGroup.GET("/export/csv/date-range", exportCSVByDateRangeHandler)
	authGroup.GET("/export/xlsx", exportXLSXHandler)
	authGroup.GET("/export/xlsx/date-range", exportXLSXByDateRangeHandler)
}

// fail writes the error with the status derived from the sentinel taxonomy.
func fail(c *gin.Context, err error) {
	c.JSON(httpStatus(err), gin.H{"error": err.Error()})
}

// parseDateRange reads the startDate/endDate query params (RFC3339, with a
// zone-less fallback for clients sending plain ISO local datetimes).
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	start, err := parseDateTime(c.Query("startDate"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid startDate", ErrValidation)
	}
	end, err := parseDateTime(c.Query("endDate"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid endDate", ErrValidation)
	}
	return start, end, nil
}

func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
