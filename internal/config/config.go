package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Environment string
	LogLevel    string
	HTTPAddr    string

	StorageDriver string
	DBDSN         string
	DataDir       string
	AutoMigrate   bool

	TelegramToken        string
	TelegramStaffChatIDs []int64

	CORSOrigins         []string
	SubmitRatePerMinute int
	SubmitRateBurst     int
	ReportTimezone      string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	cfg := &Config{
		Environment:    getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		StorageDriver:  getEnv("STORAGE_DRIVER", StorageFile),
		DBDSN:          os.Getenv("DB_DSN"),
		DataDir:        getEnv("DATA_DIR", "data"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		CORSOrigins:    splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		ReportTimezone: getEnv("REPORT_TIMEZONE", "UTC"),
	}

	// PORT задаёт только порт, как на хостингах
	if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	var err error
	if cfg.AutoMigrate, err = getBool("AUTO_MIGRATE", true); err != nil {
		return nil, err
	}
	if cfg.SubmitRatePerMinute, err = getInt("SUBMIT_RATE_PER_MINUTE", 30); err != nil {
		return nil, err
	}
	if cfg.SubmitRateBurst, err = getInt("SUBMIT_RATE_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.TelegramStaffChatIDs, err = parseChatIDs(os.Getenv("TELEGRAM_STAFF_CHAT_IDS")); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log.Printf("Config loaded (storage=%s, env=%s)\n", cfg.StorageDriver, cfg.Environment)

	return cfg, nil
}

// Validate проверяет обязательные поля и их сочетания
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Environment, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.HTTPAddr, validation.Required),
		validation.Field(&c.StorageDriver, validation.Required,
			validation.In(StorageFile, StoragePostgres, StorageMemory)),
		validation.Field(&c.DBDSN, validation.When(c.StorageDriver == StoragePostgres,
			validation.Required.Error("DB_DSN is required for postgres storage"))),
		validation.Field(&c.DataDir, validation.When(c.StorageDriver == StorageFile, validation.Required)),
		validation.Field(&c.TelegramStaffChatIDs, validation.When(c.TelegramToken != "",
			validation.Required.Error("TELEGRAM_STAFF_CHAT_IDS is required when TELEGRAM_TOKEN is set"))),
		validation.Field(&c.SubmitRatePerMinute, validation.Min(0)),
		validation.Field(&c.SubmitRateBurst, validation.Min(1)),
	)
}

// TelegramEnabled включён ли бот для сотрудников
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseChatIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(s) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_STAFF_CHAT_IDS: invalid chat id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
