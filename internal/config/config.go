package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultRunAddress      = "localhost:8080"
	defaultJWTSecret       = "default-secret-change-in-production"
	defaultTokenExpiration = 24 * time.Hour
	defaultCatalogTables   = "menu_items,products,items"
	defaultLogLevel        = "info"
	defaultEnvironment     = "production"
	defaultAuthRateLimit   = 10
)

// Config содержит конфигурацию приложения.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	JWTSecret       string
	TokenExpiration time.Duration
	// CatalogTables - таблицы каталога цен в порядке приоритета.
	CatalogTables []string
	// CatalogURL - адрес внешнего сервиса цен; опрашивается раньше таблиц.
	CatalogURL string
	LogLevel   string
	// LogFile - файл журнала с ротацией; пусто - вывод в stdout.
	LogFile     string
	Environment string
	// AuthRateLimit - допустимое число запросов в секунду к /api/user/* с одного адреса.
	AuthRateLimit float64
}

// Load загружает конфигурацию из флагов командной строки и переменных окружения.
// Приоритет: переменные окружения > флаги > значения по умолчанию.
// Если рядом лежит .env, его значения попадают в окружение, не перетирая уже заданные.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	var catalogTables string

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "адрес и порт запуска сервиса")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "строка подключения к PostgreSQL")
	flag.DurationVar(&cfg.TokenExpiration, "t", defaultTokenExpiration, "время жизни токена")
	flag.StringVar(&catalogTables, "c", defaultCatalogTables, "таблицы каталога цен через запятую")
	flag.StringVar(&cfg.CatalogURL, "u", "", "адрес внешнего сервиса цен")
	flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "уровень логирования")
	flag.Parse()

	if envRunAddr := os.Getenv("RUN_ADDRESS"); envRunAddr != "" {
		cfg.RunAddress = envRunAddr
	}
	if envDBURI := os.Getenv("DATABASE_URI"); envDBURI != "" {
		cfg.DatabaseURI = envDBURI
	}
	if envExp := os.Getenv("TOKEN_EXPIRATION"); envExp != "" {
		// Некорректное значение игнорируем
		if d, err := time.ParseDuration(envExp); err == nil && d > 0 {
			cfg.TokenExpiration = d
		}
	}
	if envTables := os.Getenv("CATALOG_TABLES"); envTables != "" {
		catalogTables = envTables
	}
	if envCatalogURL := os.Getenv("CATALOG_URL"); envCatalogURL != "" {
		cfg.CatalogURL = envCatalogURL
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		cfg.LogLevel = envLevel
	}
	cfg.LogFile = os.Getenv("LOG_FILE")

	cfg.AuthRateLimit = defaultAuthRateLimit
	if envLimit := os.Getenv("AUTH_RATE_LIMIT"); envLimit != "" {
		if v, err := strconv.ParseFloat(envLimit, 64); err == nil && v > 0 {
			cfg.AuthRateLimit = v
		}
	}

	// JWT секрет
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
	}

	cfg.Environment = os.Getenv("APP_ENV")
	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}

	if cfg.TokenExpiration <= 0 {
		cfg.TokenExpiration = defaultTokenExpiration
	}
	cfg.CatalogTables = splitList(catalogTables)

	return cfg
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
