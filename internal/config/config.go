package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSlotCatalog - получасовая сетка рабочего дня с перерывом на обед
var DefaultSlotCatalog = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00",
}

var ErrDBDSNRequired = errors.New("DB_DSN is required but not set")

type Config struct {
	Environment   string `mapstructure:"ENV"`
	DBDSN         string `mapstructure:"DB_DSN"`
	HTTPAddr      string `mapstructure:"HTTP_ADDR"`
	MigrationsDir string `mapstructure:"MIGRATIONS_DIR"`

	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	BarberChatID  int64  `mapstructure:"BARBER_CHAT_ID"`

	ShopName  string `mapstructure:"SHOP_NAME"`
	ShopPhone string `mapstructure:"SHOP_PHONE"`

	StaffEmail        string `mapstructure:"STAFF_EMAIL"`
	StaffPasswordHash string `mapstructure:"STAFF_PASSWORD_HASH"`
	SessionHashKey    string `mapstructure:"SESSION_HASH_KEY"`
	SessionBlockKey   string `mapstructure:"SESSION_BLOCK_KEY"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	SlotCatalog          []string      `mapstructure:"SLOT_CATALOG"`
	HoldTTL              time.Duration `mapstructure:"HOLD_TTL"`
	CacheCleanupInterval time.Duration `mapstructure:"CACHE_CLEANUP_INTERVAL"`
	AutoCleanupInterval  time.Duration `mapstructure:"AUTO_CLEANUP_INTERVAL"`
	RateLimitPerMin      int           `mapstructure:"RATE_LIMIT_PER_MIN"`
	Timezone             string        `mapstructure:"TIMEZONE"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("TELEGRAM_TOKEN", "")
	v.SetDefault("BARBER_CHAT_ID", 0)
	v.SetDefault("SHOP_NAME", "Barbearia do Gansinho")
	v.SetDefault("SHOP_PHONE", "")
	v.SetDefault("STAFF_EMAIL", "")
	v.SetDefault("STAFF_PASSWORD_HASH", "")
	v.SetDefault("SESSION_HASH_KEY", "")
	v.SetDefault("SESSION_BLOCK_KEY", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SLOT_CATALOG", strings.Join(DefaultSlotCatalog, ","))
	v.SetDefault("HOLD_TTL", "120s")
	v.SetDefault("CACHE_CLEANUP_INTERVAL", "1m")
	v.SetDefault("AUTO_CLEANUP_INTERVAL", "0")
	v.SetDefault("RATE_LIMIT_PER_MIN", 60)
	v.SetDefault("TIMEZONE", "America/Sao_Paulo")
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded (env=%s, slots=%d)\n", cfg.Environment, len(cfg.SlotCatalog))

	return &cfg, nil
}

func (c *Config) validate() error {
	catalog, err := ParseCatalog(c.SlotCatalog)
	if err != nil {
		return err
	}
	c.SlotCatalog = catalog

	if c.HoldTTL <= 0 {
		return fmt.Errorf("HOLD_TTL must be positive, got %s", c.HoldTTL)
	}
	if c.CacheCleanupInterval <= 0 {
		return fmt.Errorf("CACHE_CLEANUP_INTERVAL must be positive, got %s", c.CacheCleanupInterval)
	}
	if c.AutoCleanupInterval < 0 {
		return fmt.Errorf("AUTO_CLEANUP_INTERVAL must not be negative, got %s", c.AutoCleanupInterval)
	}
	if c.RateLimitPerMin <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must be positive, got %d", c.RateLimitPerMin)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// ParseCatalog нормализует сетку слотов: формат HH:MM, без повторов
func ParseCatalog(raw []string) ([]string, error) {
	var catalog []string
	seen := make(map[string]struct{})

	for _, item := range raw {
		for _, slot := range strings.Split(item, ",") {
			slot = strings.TrimSpace(slot)
			if slot == "" {
				continue
			}
			if err := model.ValidateTimeSlot(slot); err != nil {
				return nil, fmt.Errorf("SLOT_CATALOG: %w", err)
			}
			if _, dup := seen[slot]; dup {
				return nil, fmt.Errorf("SLOT_CATALOG: duplicate time slot %s", slot)
			}
			seen[slot] = struct{}{}
			catalog = append(catalog, slot)
		}
	}

	if len(catalog) == 0 {
		return nil, errors.New("SLOT_CATALOG is empty")
	}
	return catalog, nil
}

// RequireDB проверяет, что задано подключение к базе
func (c *Config) RequireDB() error {
	if c.DBDSN == "" {
		return ErrDBDSNRequired
	}
	return nil
}

// Location возвращает часовой пояс барбершопа
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// TelegramEnabled сообщает, настроен ли бот
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.BarberChatID != 0
}
