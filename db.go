package main

import (
	"log"
	"os"
	"strings"

	"spendtrack/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	db           *gorm.DB
	userStore    UserStore
	catStore     CategoryStore
	expenseStore ExpenseStore
	oauth2Store  OAuth2UserStore
)

func initDB() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	setupDB(gdb)
}

// setupDB wires the global stores around an open gorm handle, migrates the
// schema and seeds default categories. Tests call it with an in-memory
// sqlite handle instead of Postgres.
func setupDB(gdb *gorm.DB) {
	db = gdb
	userStore = UserStore{db: db}
	catStore = CategoryStore{db: db}
	expenseStore = ExpenseStore{db: db}
	oauth2Store = OAuth2UserStore{db: db}

	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.Category{}); err != nil {
			log.Printf("migration warning (categories): %v", err)
		}
		if err := db.AutoMigrate(&models.Expense{}); err != nil {
			log.Printf("migration warning (expenses): %v", err)
		}
		if err := db.AutoMigrate(&models.OAuth2User{}); err != nil {
			log.Printf("migration warning (oauth2_users): %v", err)
		}
	}

	// One-time bootstrap; a non-empty table makes this a no-op.
	if err := catStore.InitializeDefaults(); err != nil {
		log.Printf("seeding warning (categories): %v", err)
	}
}
