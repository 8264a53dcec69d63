package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig  `validate:"required"`
	DB         DBConfig      `validate:"required"`
	JWT        JWTConfig     `validate:"required"`
	Storage    StorageConfig `validate:"required"`
	S3         S3Config
	Log        LogConfig `validate:"required"`
	CORS       CORSConfig
	Redis      RedisConfig
	Processing ProcessingConfig `validate:"required"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment" validate:"oneof=development staging production test"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"gt=0"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the settings used to verify bearer tokens issued by the
// account service.
type JWTConfig struct {
	Secret string `mapstructure:"secret" validate:"required"`
	Issuer string `mapstructure:"issuer"`
}

// StorageConfig selects where raw uploads are kept.
type StorageConfig struct {
	Provider      string `mapstructure:"provider" validate:"oneof=local s3"`
	LocalDir      string `mapstructure:"local_dir"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb" validate:"gt=0"`
}

// MaxFileSizeBytes returns the upload size limit in bytes.
func (s *StorageConfig) MaxFileSizeBytes() int64 {
	return s.MaxFileSizeMB * 1024 * 1024
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// RedisConfig holds the optional lock backend. An empty Addr selects the
// in-process locker.
type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	LockTTL   time.Duration `mapstructure:"lock_ttl"`
	LockWait  time.Duration `mapstructure:"lock_wait"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// ProcessingConfig tunes the ingestion pipeline.
type ProcessingConfig struct {
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
	BulkMaxFiles    int           `mapstructure:"bulk_max_files" validate:"gt=0"`
	BulkConcurrency int           `mapstructure:"bulk_concurrency" validate:"gt=0"`
}

// Load reads configuration from a .env file (if present) and environment
// variables with the TAXDECL_ prefix.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TAXDECL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "taxdecl")
	v.SetDefault("db.password", "taxdecl_secret")
	v.SetDefault("db.name", "taxdecl_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "")

	// Storage defaults
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("storage.max_file_size_mb", 10)

	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "taxdecl-uploads")
	v.SetDefault("s3.endpoint", "")

	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Redis defaults (empty addr = in-process locks)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", "90s")
	v.SetDefault("redis.lock_wait", "60s")
	v.SetDefault("redis.key_prefix", "taxdecl:owner-lock:")

	// Processing defaults
	v.SetDefault("processing.timeout", "60s")
	v.SetDefault("processing.bulk_max_files", 20)
	v.SetDefault("processing.bulk_concurrency", 1)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "TAXDECL_SERVER_PORT",
		"server.read_timeout":         "TAXDECL_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "TAXDECL_SERVER_WRITE_TIMEOUT",
		"server.environment":          "TAXDECL_SERVER_ENVIRONMENT",
		"db.host":                     "TAXDECL_DB_HOST",
		"db.port":                     "TAXDECL_DB_PORT",
		"db.user":                     "TAXDECL_DB_USER",
		"db.password":                 "TAXDECL_DB_PASSWORD",
		"db.name":                     "TAXDECL_DB_NAME",
		"db.sslmode":                  "TAXDECL_DB_SSLMODE",
		"db.max_open":                 "TAXDECL_DB_MAX_OPEN",
		"db.max_idle":                 "TAXDECL_DB_MAX_IDLE",
		"jwt.secret":                  "TAXDECL_JWT_SECRET",
		"jwt.issuer":                  "TAXDECL_JWT_ISSUER",
		"storage.provider":            "TAXDECL_STORAGE_PROVIDER",
		"storage.local_dir":           "TAXDECL_STORAGE_LOCAL_DIR",
		"storage.max_file_size_mb":    "TAXDECL_STORAGE_MAX_FILE_SIZE_MB",
		"s3.region":                   "TAXDECL_S3_REGION",
		"s3.bucket":                   "TAXDECL_S3_BUCKET",
		"s3.endpoint":                 "TAXDECL_S3_ENDPOINT",
		"s3.access_key":               "TAXDECL_S3_ACCESS_KEY",
		"s3.secret_key":               "TAXDECL_S3_SECRET_KEY",
		"log.level":                   "TAXDECL_LOG_LEVEL",
		"log.format":                  "TAXDECL_LOG_FORMAT",
		"cors.allowed_origins":        "TAXDECL_CORS_ALLOWED_ORIGINS",
		"redis.addr":                  "TAXDECL_REDIS_ADDR",
		"redis.password":              "TAXDECL_REDIS_PASSWORD",
		"redis.db":                    "TAXDECL_REDIS_DB",
		"redis.lock_ttl":              "TAXDECL_REDIS_LOCK_TTL",
		"redis.lock_wait":             "TAXDECL_REDIS_LOCK_WAIT",
		"redis.key_prefix":            "TAXDECL_REDIS_KEY_PREFIX",
		"processing.timeout":          "TAXDECL_PROCESSING_TIMEOUT",
		"processing.bulk_max_files":   "TAXDECL_PROCESSING_BULK_MAX_FILES",
		"processing.bulk_concurrency": "TAXDECL_PROCESSING_BULK_CONCURRENCY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Render set a PORT env var. Use it if TAXDECL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TAXDECL_SERVER_PORT") == "" {
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
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.Storage = StorageConfig{
		Provider:      strings.ToLower(v.GetString("storage.provider")),
		LocalDir:      v.GetString("storage.local_dir"),
		MaxFileSizeMB: v.GetInt64("storage.max_file_size_mb"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  strings.ToLower(v.GetString("log.level")),
		Format: strings.ToLower(v.GetString("log.format")),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Redis = RedisConfig{
		Addr:      v.GetString("redis.addr"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		LockTTL:   v.GetDuration("redis.lock_ttl"),
		LockWait:  v.GetDuration("redis.lock_wait"),
		KeyPrefix: v.GetString("redis.key_prefix"),
	}
	cfg.Processing = ProcessingConfig{
		Timeout:         v.GetDuration("processing.timeout"),
		BulkMaxFiles:    v.GetInt("processing.bulk_max_files"),
		BulkConcurrency: v.GetInt("processing.bulk_concurrency"),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Storage.Provider == "s3" && cfg.S3.Bucket == "" {
		return fmt.Errorf("invalid configuration: s3 storage requires a bucket")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
