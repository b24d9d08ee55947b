package config

import (
	"context"
	"time"

	"food-marketplace-api/models"
	"food-marketplace-api/pkg/logger"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the shared database handle, set by InitDB.
var DB *gorm.DB

// C is the process-wide configuration, set by Load.
var C *Config

type Config struct {
	Port      string `env:"PORT, default=8080"`
	GinMode   string `env:"GIN_MODE, default=debug"`
	DBPath    string `env:"DB_PATH, default=food_marketplace.db"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	JWTSecret   string        `env:"JWT_SECRET, default=food_marketplace_super_secret"`
	TokenExpiry time.Duration `env:"TOKEN_EXPIRY, default=24h"`

	ResetSecret string        `env:"RESET_TOKEN_SECRET, default=food_marketplace_reset_secret"`
	ResetExpiry time.Duration `env:"RESET_TOKEN_EXPIRY, default=15m"`

	SMTP    SMTPConfig
	Reports ReportConfig
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=no-reply@foodmarketplace.local"`
	// Inbox receiving partner and deliverer application forms.
	ApplicationsTo string `env:"APPLICATIONS_INBOX, default=applications@foodmarketplace.local"`
}

type ReportConfig struct {
	// Cron spec for the monthly report run (standard 5-field format).
	Schedule string `env:"REPORT_SCHEDULE, default=0 6 1 * *"`
}

// Load reads configuration from the environment (after loading .env if
// present) and stores it in C.
func Load() *Config {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		lg := logger.Get()
		lg.Fatal().Err(err).Msg("failed to load configuration")
	}
	C = &cfg
	return C
}

// JWTKey returns the login-token signing key.
func JWTKey() []byte { return []byte(C.JWTSecret) }

// ResetKey returns the password-reset-token signing key.
func ResetKey() []byte { return []byte(C.ResetSecret) }

// InitDB opens the database and migrates all models.
func InitDB(path string) {
	lg := logger.Get()
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := Migrate(DB); err != nil {
		lg.Fatal().Err(err).Msg("failed to migrate database")
	}

	lg.Info().Str("path", path).Msg("database connected and migrated")
}

// Migrate runs AutoMigrate for every model. Exposed so tests can build
// throwaway in-memory databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ActiveSession{},
		&models.PasswordResetUse{},
		&models.Restaurant{},
		&models.RestaurantType{},
		&models.FoodType{},
		&models.FoodItem{},
		&models.Menu{},
		&models.MenuFoodItem{},
		&models.Order{},
		&models.OrderFoodItem{},
		&models.Notification{},
		&models.Rating{},
	)
}
