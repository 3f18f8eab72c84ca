package main

import (
	"errors"
	"fmt"
	"time"

	"spendtrack/models"

	"gorm.io/gorm"
)

// Store types wrap the shared gorm handle. Every query that touches a
// user-owned record takes the caller's user id explicitly.

type UserStore struct {
	db *gorm.DB
}

func (s UserStore) Create(u *models.User) error {
	if err := s.db.Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s UserStore) ByID(id string) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s UserStore) ByUsername(username string) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s UserStore) ByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s UserStore) ExistsByUsername(username string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

func (s UserStore) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

func (s UserStore) Save(u *models.User) error {
	if err := s.db.Save(u).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s UserStore) Delete(id string) error {
	res := s.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

type CategoryStore struct {
	db *gorm.DB
}

func (s CategoryStore) Create(cat *models.Category) error {
	if err := s.db.Create(cat).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s CategoryStore) ByID(id string) (*models.Category, error) {
	var cat models.Category
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &cat, nil
}

func (s CategoryStore) All() ([]models.Category, error) {
	cats := []models.Category{}
	if err := s.db.Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s CategoryStore) Update(id string, cat *models.Category) error {
	if _, err := s.ByID(id); err != nil {
		return err
	}
	cat.ID = id
	if err := s.db.Save(cat).Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (s CategoryStore) Delete(id string) error {
	res := s.db.Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return nil
}

// InitializeDefaults seeds the fixed category set when the table is empty.
// A non-empty table is left untouched, so repeated calls never duplicate.
func (s CategoryStore) InitializeDefaults() error {
	var count int64
	if err := s.db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, cat := range defaultCategories() {
		if err := s.db.Create(&cat).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", cat.Name, err)
		}
	}
	return nil
}

func defaultCategories() []models.Category {
	return []models.Category{
		{Name: "Food & Dining", Description: "Meals, restaurants, groceries", Color: "#FF6B6B", Icon: "🍽️"},
		{Name: "Transportation", Description: "Gas, public transport, taxi", Color: "#4ECDC4", Icon: "🚗"},
		{Name: "Shopping", Description: "Clothes, electronics, general shopping", Color: "#45B7D1", Icon: "🛒"},
		{Name: "Entertainment", Description: "Movies, games, sports", Color: "#96CEB4", Icon: "🎬"},
		{Name: "Bills & Utilities", Description: "Electricity, water, internet, phone", Color: "#FECA57", Icon: "💡"},
		{Name: "Healthcare", Description: "Medical, pharmacy, insurance", Color: "#FF9FF3", Icon: "🏥"},
		{Name: "Education", Description: "Books, courses, school fees", Color: "#A8E6CF", Icon: "📚"},
		{Name: "Travel", Description: "Vacation, hotels, flights", Color: "#FFD93D", Icon: "✈️"},
		{Name: "Personal Care", Description: "Haircut, cosmetics, gym", Color: "#6C5CE7", Icon: "💄"},
		{Name: "Other", Description: "Miscellaneous expenses", Color: "#95A5A6", Icon: "📝"},
	}
}

type ExpenseStore struct {
	db *gorm.DB
}

func (s ExpenseStore) Create(e *models.Expense) error {
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	if err := s.db.Create(e).Error; err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

// ByID loads an expense and enforces that it belongs to userID.
func (s ExpenseStore) ByID(id, userID string) (*models.Expense, error) {
	var e models.Expense
	if err := s.db.First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("expense %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	if e.UserID != userID {
		return nil, fmt.Errorf("expense %s: %w", id, ErrAccessDenied)
	}
	return &e, nil
}

func (s ExpenseStore) ByOwner(userID string) ([]models.Expense, error) {
	out := []models.Expense{}
	if err := s.db.Where("user_id = ?", userID).Order("date desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

// ByCategory matches the raw label exactly, scoped to the owner.
func (s ExpenseStore) ByCategory(userID, category string) ([]models.Expense, error) {
	out := []models.Expense{}
	if err := s.db.Where("user_id = ? AND category = ?", userID, category).
		Order("date desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list expenses by category: %w", err)
	}
	return out, nil
}

// ByDateRange returns the owner's expenses with start <= date <= end,
// newest first.
func (s ExpenseStore) ByDateRange(userID string, start, end time.Time) ([]models.Expense, error) {
	out := []models.Expense{}
	if err := s.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list expenses by date range: %w", err)
	}
	return out, nil
}

func (s ExpenseStore) Save(e *models.Expense) error {
	if err := s.db.Save(e).Error; err != nil {
		return fmt.Errorf("save expense: %w", err)
	}
	return nil
}

// Delete enforces the same ownership check as reads and updates.
func (s ExpenseStore) Delete(id, userID string) error {
	e, err := s.ByID(id, userID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(e).Error; err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

type OAuth2UserStore struct {
	db *gorm.DB
}

// Upsert writes the federated-identity record, replacing any previous one
// for the same "<userID>_<provider>" key.
func (s OAuth2UserStore) Upsert(rec *models.OAuth2User) error {
	if err := s.db.Save(rec).Error; err != nil {
		return fmt.Errorf("save oauth2 user: %w", err)
	}
	return nil
}

func (s OAuth2UserStore) ByID(id string) (*models.OAuth2User, error) {
	var rec models.OAuth2User
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("oauth2 user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find oauth2 user: %w", err)
	}
	return &rec, nil
}
