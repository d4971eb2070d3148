package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Extraction ExtractionConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	// MaxLifetime recycles pooled connections; zero keeps them forever.
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`

	// MigrationsPath is the golang-migrate source URL.
	MigrationsPath string `mapstructure:"migrations_path"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds object storage settings. Endpoint and PublicBaseURL are set
// for S3-compatible providers.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExtractionConfig holds invoice intake settings.
type ExtractionConfig struct {
	KnownIssuerRUT        string `mapstructure:"known_issuer_rut"`
	MaxFileSizeMB         int64  `mapstructure:"max_file_size_mb"`
	RepairWithPdfcpu      bool   `mapstructure:"repair_with_pdfcpu"`
	DefaultIssueDateToday bool   `mapstructure:"default_issue_date_today"`
}

// MaxFileSizeBytes returns the upload limit in bytes.
func (e *ExtractionConfig) MaxFileSizeBytes() int64 {
	return e.MaxFileSizeMB << 20
}

// Load reads configuration from environment variables with the BACKOFFICE_
// prefix. A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BACKOFFICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "backoffice")
	v.SetDefault("db.password", "backoffice_secret")
	v.SetDefault("db.name", "backoffice_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.max_lifetime", "30m")
	v.SetDefault("db.migrations_path", "file://db/migrations")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "invoices")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.public_base_url", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extraction defaults
	v.SetDefault("extraction.known_issuer_rut", "")
	v.SetDefault("extraction.max_file_size_mb", 10)
	v.SetDefault("extraction.repair_with_pdfcpu", true)
	v.SetDefault("extraction.default_issue_date_today", false)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                         "BACKOFFICE_SERVER_PORT",
		"server.read_timeout":                 "BACKOFFICE_SERVER_READ_TIMEOUT",
		"server.write_timeout":                "BACKOFFICE_SERVER_WRITE_TIMEOUT",
		"server.environment":                  "BACKOFFICE_SERVER_ENVIRONMENT",
		"db.host":                             "BACKOFFICE_DB_HOST",
		"db.port":                             "BACKOFFICE_DB_PORT",
		"db.user":                             "BACKOFFICE_DB_USER",
		"db.password":                         "BACKOFFICE_DB_PASSWORD",
		"db.name":                             "BACKOFFICE_DB_NAME",
		"db.sslmode":                          "BACKOFFICE_DB_SSLMODE",
		"db.max_open":                         "BACKOFFICE_DB_MAX_OPEN",
		"db.max_idle":                         "BACKOFFICE_DB_MAX_IDLE",
		"db.max_lifetime":                     "BACKOFFICE_DB_MAX_LIFETIME",
		"db.migrations_path":                  "BACKOFFICE_DB_MIGRATIONS_PATH",
		"s3.region":                           "BACKOFFICE_S3_REGION",
		"s3.bucket":                           "BACKOFFICE_S3_BUCKET",
		"s3.endpoint":                         "BACKOFFICE_S3_ENDPOINT",
		"s3.access_key":                       "BACKOFFICE_S3_ACCESS_KEY",
		"s3.secret_key":                       "BACKOFFICE_S3_SECRET_KEY",
		"s3.public_base_url":                  "BACKOFFICE_S3_PUBLIC_BASE_URL",
		"s3.presign_expiry":                   "BACKOFFICE_S3_PRESIGN_EXPIRY",
		"log.level":                           "BACKOFFICE_LOG_LEVEL",
		"log.format":                          "BACKOFFICE_LOG_FORMAT",
		"cors.allowed_origins":                "BACKOFFICE_CORS_ALLOWED_ORIGINS",
		"extraction.known_issuer_rut":         "BACKOFFICE_EXTRACTION_KNOWN_ISSUER_RUT",
		"extraction.max_file_size_mb":         "BACKOFFICE_EXTRACTION_MAX_FILE_SIZE_MB",
		"extraction.repair_with_pdfcpu":       "BACKOFFICE_EXTRACTION_REPAIR_WITH_PDFCPU",
		"extraction.default_issue_date_today": "BACKOFFICE_EXTRACTION_DEFAULT_ISSUE_DATE_TODAY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BACKOFFICE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BACKOFFICE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		MaxLifetime:    v.GetDuration("db.max_lifetime"),
		MigrationsPath: v.GetString("db.migrations_path"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PublicBaseURL: strings.TrimRight(v.GetString("s3.public_base_url"), "/"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Extraction = ExtractionConfig{
		KnownIssuerRUT:        strings.TrimSpace(v.GetString("extraction.known_issuer_rut")),
		MaxFileSizeMB:         v.GetInt64("extraction.max_file_size_mb"),
		RepairWithPdfcpu:      v.GetBool("extraction.repair_with_pdfcpu"),
		DefaultIssueDateToday: v.GetBool("extraction.default_issue_date_today"),
	}

	if cfg.Extraction.MaxFileSizeMB <= 0 {
		return nil, fmt.Errorf("extraction.max_file_size_mb must be positive, got %d", cfg.Extraction.MaxFileSizeMB)
	}

	return cfg, nil
}
