package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	setupTestDB(t)
	initOAuth2()
	r := gin.New()
	setupRoutes(r)
	return r
}

func registerAndLogin(t *testing.T, r *gin.Engine, username, email string) (token, userID string) {
	t.Helper()
	resp := performRequest(r, http.MethodPost, "/api/auth/register",
		jsonBody(t, gin.H{"username": username, "email": email, "password": "secret1"}), "")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = performRequest(r, http.MethodPost, "/api/auth/login",
		jsonBody(t, gin.H{"usernameOrEmail": username, "password": "secret1"}), "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var loginResp map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loginResp))
	token, _ = loginResp["token"].(string)
	userID, _ = loginResp["id"].(string)
	require.NotEmpty(t, token)
	require.Equal(t, "Bearer", loginResp["type"])
	return token, userID
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	token, userID := registerAndLogin(t, r, "user1", "user1@example.com")

	// duplicate registration conflicts
	resp := performRequest(r, http.MethodPost, "/api/auth/register",
		jsonBody(t, gin.H{"username": "user1", "email": "other@example.com", "password": "secret1"}), "")
	require.Equal(t, http.StatusConflict, resp.Code)

	// wrong password
	resp = performRequest(r, http.MethodPost, "/api/auth/login",
		jsonBody(t, gin.H{"usernameOrEmail": "user1", "password": "nope"}), "")
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	// current user, password never serialized
	resp = performRequest(r, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.NotContains(t, resp.Body.String(), "password")
	assert.Contains(t, resp.Body.String(), `"email":"user1@example.com"`)

	// seeded categories are visible
	resp = performRequest(r, http.MethodGet, "/api/categories", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	var cats []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &cats))
	assert.Len(t, cats, 10)

	// non-positive amounts are rejected before persistence
	resp = performRequest(r, http.MethodPost, "/api/expenses",
		jsonBody(t, gin.H{"title": "Bad", "amount": -1, "category": "Food & Dining"}), token)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	// create without a date defaults to now
	resp = performRequest(r, http.MethodPost, "/api/expenses",
		jsonBody(t, gin.H{"title": "Lunch, downtown", "amount": 12.5, "category": "Food & Dining"}), token)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	expenseID, _ := created["id"].(string)
	require.NotEmpty(t, expenseID)
	dateStr, _ := created["date"].(string)
	date, err := time.Parse(time.RFC3339, dateStr)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), date, 2*time.Second)

	resp = performRequest(r, http.MethodPost, "/api/expenses",
		jsonBody(t, gin.H{"title": "Train", "amount": 7.5, "category": "Transportation",
			"date": "2024-02-01T09:00:00Z"}), token)
	require.Equal(t, http.StatusCreated, resp.Code)

	// listing is scoped to the caller
	resp = performRequest(r, http.MethodGet, "/api/expenses", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &mine))
	assert.Len(t, mine, 2)
	for _, e := range mine {
		assert.Equal(t, userID, e["userId"])
	}

	// a second user cannot read, update or delete user1's expense
	otherToken, _ := registerAndLogin(t, r, "user2", "user2@example.com")
	resp = performRequest(r, http.MethodGet, "/api/expenses/"+expenseID, nil, otherToken)
	require.Equal(t, http.StatusForbidden, resp.Code)
	resp = performRequest(r, http.MethodPut, "/api/expenses/"+expenseID,
		jsonBody(t, gin.H{"title": "Hijack", "amount": 1, "category": "Other"}), otherToken)
	require.Equal(t, http.StatusForbidden, resp.Code)
	resp = performRequest(r, http.MethodDelete, "/api/expenses/"+expenseID, nil, otherToken)
	require.Equal(t, http.StatusForbidden, resp.Code)

	// category and date-range filters stay caller-scoped
	resp = performRequest(r, http.MethodGet, "/api/expenses/category/Transportation", nil, otherToken)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "[]", resp.Body.String())
	resp = performRequest(r, http.MethodGet,
		"/api/expenses/date-range?startDate=2024-02-01T00:00:00Z&endDate=2024-02-28T23:59:59Z", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	var ranged []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &ranged))
	assert.Len(t, ranged, 1)

	// statistics over the caller's expenses
	resp = performRequest(r, http.MethodGet, "/api/statistics", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	var stats Statistics
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &stats))
	assert.Equal(t, 20.0, stats.TotalAmount)
	assert.Equal(t, int64(2), stats.TotalExpenses)
	assert.Equal(t, 10.0, stats.AverageExpense)
	assert.Equal(t, 7.5, stats.ExpensesByCategory["Transportation"])

	// empty set yields zeroed statistics, never an error
	resp = performRequest(r, http.MethodGet, "/api/statistics", nil, otherToken)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"totalAmount":0,"totalExpenses":0,"expensesByCategory":{},"expensesByMonth":{},"averageExpense":0}`,
		resp.Body.String())

	// exports carry attachment headers and CSV quoting
	resp = performRequest(r, http.MethodGet, "/api/export/csv", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "attachment; filename=expenses.csv", resp.Header().Get("Content-Disposition"))
	assert.Contains(t, resp.Body.String(), "ID,Title,Description,Amount,Category,Date,User ID,Created At,Updated At")
	assert.Contains(t, resp.Body.String(), `"Lunch, downtown"`)

	resp = performRequest(r, http.MethodGet,
		"/api/export/json/date-range?startDate=2024-02-01T00:00:00Z&endDate=2024-02-28T23:59:59Z", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "attachment; filename=expenses_2024-02-01_to_2024-02-28.json", resp.Header().Get("Content-Disposition"))
	assert.Contains(t, resp.Body.String(), `"title": "Train"`)

	resp = performRequest(r, http.MethodGet, "/api/export/xlsx", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "attachment; filename=expenses.xlsx", resp.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, resp.Body.Bytes())

	// protected endpoints reject missing tokens
	resp = performRequest(r, http.MethodGet, "/api/expenses", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCategoryCRUDOverHTTP(t *testing.T) {
	r := setupTestServer(t)
	token, _ := registerAndLogin(t, r, "admin1", "admin1@example.com")

	resp := performRequest(r, http.MethodPost, "/api/categories",
		jsonBody(t, gin.H{"name": "Pets", "description": "Vet, food", "color": "#AABBCC", "icon": "🐈"}), token)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var cat map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &cat))
	id, _ := cat["id"].(string)
	require.NotEmpty(t, id)

	resp = performRequest(r, http.MethodPut, "/api/categories/"+id,
		jsonBody(t, gin.H{"name": "Pets & Vet"}), token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = performRequest(r, http.MethodGet, "/api/categories/"+id, nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"name":"Pets & Vet"`)

	resp = performRequest(r, http.MethodDelete, "/api/categories/"+id, nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = performRequest(r, http.MethodGet, "/api/categories/"+id, nil, token)
	require.Equal(t, http.StatusNotFound, resp.Code)

	// initialize is a no-op on a seeded store
	resp = performRequest(r, http.MethodPost, "/api/categories/initialize", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = performRequest(r, http.MethodGet, "/api/categories", nil, token)
	var cats []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &cats))
	assert.Len(t, cats, 10)
}
