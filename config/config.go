package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"tiffin-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "tiffin_super_secret_2024"))

// TokenValidity is how long an issued token stays valid
const TokenValidity = 7 * 24 * time.Hour

// Admin lockout policy: LockoutThreshold consecutive failed logins lock the
// account for LockoutWindow
var (
	LockoutThreshold = getEnvInt("ADMIN_LOCKOUT_THRESHOLD", 5)
	LockoutWindow    = time.Duration(getEnvInt("ADMIN_LOCKOUT_MINUTES", 120)) * time.Minute
)

// LoadEnv pulls in a .env file if one exists, then re-resolves settings so
// values from the file take effect
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
	JWTSecret = []byte(getEnv("JWT_SECRET", "tiffin_super_secret_2024"))
	LockoutThreshold = getEnvInt("ADMIN_LOCKOUT_THRESHOLD", 5)
	LockoutWindow = time.Duration(getEnvInt("ADMIN_LOCKOUT_MINUTES", 120)) * time.Minute
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func InitDB() {
	var err error
	DB, err = gorm.Open(sqlite.Open(getEnv("DB_PATH", "tiffin.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("Database connected and migrated successfully")
}

// Migrate auto-migrates all models. Split out so tests can run against an
// in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Admin{},
		&models.MenuItem{},
		&models.SubscriptionPlan{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	)
}
