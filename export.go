package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spendtrack/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	exportTimeLayout = "2006-01-02 15:04:05"
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []string{"ID", "Title", "Description", "Amount", "Category", "Date", "User ID", "Created At", "Updated At"}

// exportJSON renders the expense list as indented JSON in the public
// response shape (RFC3339 timestamps).
func exportJSON(expenses []models.Expense) (string, error) {
	if expenses == nil {
		expenses = []models.Expense{}
	}
	out, err := json.MarshalIndent(expenses, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal expenses: %w", err)
	}
	return string(out), nil
}

// exportCSV renders the fixed header plus one row per expense in input
// order. encoding/csv applies the standard quoting rules (fields containing
// commas, quotes or newlines are wrapped, embedded quotes doubled).
func exportCSV(expenses []models.Expense) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(exportHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		if err := w.Write(exportRow(e)); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}

// exportXLSX renders the same column set on a single "Expenses" sheet.
func exportXLSX(expenses []models.Expense) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Expenses"
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}
	for i, e := range expenses {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			e.ID, e.Title, e.Description, e.Amount, e.Category,
			formatExportTime(e.Date), e.UserID,
			formatExportTime(e.CreatedAt), formatExportTime(e.UpdatedAt),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write xlsx row: %w", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func exportRow(e models.Expense) []string {
	return []string{
		e.ID,
		e.Title,
		e.Description,
		strconv.FormatFloat(e.Amount, 'f', -1, 64),
		e.Category,
		formatExportTime(e.Date),
		e.UserID,
		formatExportTime(e.CreatedAt),
		formatExportTime(e.UpdatedAt),
	}
}

func formatExportTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(exportTimeLayout)
}

// --- handlers ---

func exportJSONHandler(c *gin.Context) {
	exportAllHandler(c, "json", "application/json", func(ex []models.Expense) ([]byte, error) {
		s, err := exportJSON(ex)
		return []byte(s), err
	})
}

func exportJSONByDateRangeHandler(c *gin.Context) {
	exportRangeHandler(c, "json", "application/json", func(ex []models.Expense) ([]byte, error) {
		s, err := exportJSON(ex)
		return []byte(s), err
	})
}

func exportCSVHandler(c *gin.Context) {
	exportAllHandler(c, "csv", "text/csv", func(ex []models.Expense) ([]byte, error) {
		s, err := exportCSV(ex)
		return []byte(s), err
	})
}

func exportCSVByDateRangeHandler(c *gin.Context) {
	exportRangeHandler(c, "csv", "text/csv", func(ex []models.Expense) ([]byte, error) {
		s, err := exportCSV(ex)
		return []byte(s), err
	})
}

func exportXLSXHandler(c *gin.Context) {
	exportAllHandler(c, "xlsx", xlsxContentType, exportXLSX)
}

func exportXLSXByDateRangeHandler(c *gin.Context) {
	exportRangeHandler(c, "xlsx", xlsxContentType, exportXLSX)
}

func exportAllHandler(c *gin.Context, ext, contentType string, render func([]models.Expense) ([]byte, error)) {
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
	body, err := render(expenses)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=expenses."+ext)
	c.Data(http.StatusOK, contentType, body)
}

func exportRangeHandler(c *gin.Context, ext, contentType string, render func([]models.Expense) ([]byte, error)) {
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
	body, err := render(expenses)
	if err != nil {
		fail(c, err)
		return
	}
	filename := fmt.Sprintf("expenses_%s_to_%s.%s", start.Format("2006-01-02"), end.Format("2006-01-02"), ext)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, body)
}
