package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"docverify/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	NER        NERConfig
	Cache      CacheConfig
	Merge      MergeConfig
	Relation   RelationConfig
	Validation ValidationConfig
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
	// ConnMaxLifetime recycles pooled connections; zero keeps them forever.
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the service token settings.
type JWTConfig struct {
	Secret   string `mapstructure:"secret"`
	Issuer   string `mapstructure:"issuer"`
	Disabled bool   `mapstructure:"disabled"`
}

// S3Config holds the source text archive settings. An empty bucket disables archiving.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// NERConfig holds the entity recognizer client settings. An empty URL runs rule-only.
type NERConfig struct {
	URL         string `mapstructure:"url"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	MaxRetries  int    `mapstructure:"max_retries"`
}

// Enabled reports whether a recognizer endpoint is configured.
func (n *NERConfig) Enabled() bool {
	return n.URL != ""
}

// CacheConfig holds the in-memory facts cache settings.
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// MergeConfig holds the entity merge settings.
type MergeConfig struct {
	SpanStrategy         domain.SpanStrategy `mapstructure:"span_strategy"`
	DefaultNERConfidence float64             `mapstructure:"default_ner_confidence"`
}

// RelationConfig holds the relation linker settings.
type RelationConfig struct {
	ContextRadius     int `mapstructure:"context_radius"`
	RequirementWindow int `mapstructure:"requirement_window"`
}

// ValidationConfig holds answer validation settings.
type ValidationConfig struct {
	WeakRelationDistance      int     `mapstructure:"weak_relation_distance"`
	MinObligationSubjectRunes int     `mapstructure:"min_obligation_subject_runes"`
	AddedObligationFloor      int     `mapstructure:"added_obligation_floor"`
	AddedObligationRatio      float64 `mapstructure:"added_obligation_ratio"`
	Concurrency               int     `mapstructure:"concurrency"`
	MaxBatchSize              int     `mapstructure:"max_batch_size"`
}

const envPrefix = "DOCVERIFY"

// Load reads configuration from environment variables with the DOCVERIFY_ prefix.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from a YAML file, then lets environment variables override it.
// An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file %s: %w", path, err)
			}
		}
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docverify")
	v.SetDefault("db.password", "docverify_secret")
	v.SetDefault("db.name", "docverify_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.connect_timeout", "10s")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "docverify")
	v.SetDefault("jwt.disabled", false)

	// S3 defaults
	v.SetDefault("s3.region", "ap-northeast-2")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "source-text")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// NER defaults
	v.SetDefault("ner.url", "")
	v.SetDefault("ner.api_key", "")
	v.SetDefault("ner.timeout_secs", 30)
	v.SetDefault("ner.max_retries", 2)

	// Cache defaults
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.cleanup_interval", "15m")

	// Merge defaults
	v.SetDefault("merge.span_strategy", string(domain.SpanStrategyValueSearch))
	v.SetDefault("merge.default_ner_confidence", 0.75)

	// Relation defaults
	v.SetDefault("relation.context_radius", 20)
	v.SetDefault("relation.requirement_window", 30)

	// Validation defaults
	v.SetDefault("validation.weak_relation_distance", 200)
	v.SetDefault("validation.min_obligation_subject_runes", 10)
	v.SetDefault("validation.added_obligation_floor", 3)
	v.SetDefault("validation.added_obligation_ratio", 1.5)
	v.SetDefault("validation.concurrency", 4)
	v.SetDefault("validation.max_batch_size", 50)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                             "DOCVERIFY_SERVER_PORT",
		"server.read_timeout":                     "DOCVERIFY_SERVER_READ_TIMEOUT",
		"server.write_timeout":                    "DOCVERIFY_SERVER_WRITE_TIMEOUT",
		"server.environment":                      "DOCVERIFY_SERVER_ENVIRONMENT",
		"db.host":                                 "DOCVERIFY_DB_HOST",
		"db.port":                                 "DOCVERIFY_DB_PORT",
		"db.user":                                 "DOCVERIFY_DB_USER",
		"db.password":                             "DOCVERIFY_DB_PASSWORD",
		"db.name":                                 "DOCVERIFY_DB_NAME",
		"db.sslmode":                              "DOCVERIFY_DB_SSLMODE",
		"db.max_open":                             "DOCVERIFY_DB_MAX_OPEN",
		"db.max_idle":                             "DOCVERIFY_DB_MAX_IDLE",
		"db.conn_max_lifetime":                    "DOCVERIFY_DB_CONN_MAX_LIFETIME",
		"db.connect_timeout":                      "DOCVERIFY_DB_CONNECT_TIMEOUT",
		"jwt.secret":                              "DOCVERIFY_JWT_SECRET",
		"jwt.issuer":                              "DOCVERIFY_JWT_ISSUER",
		"jwt.disabled":                            "DOCVERIFY_JWT_DISABLED",
		"s3.region":                               "DOCVERIFY_S3_REGION",
		"s3.bucket":                               "DOCVERIFY_S3_BUCKET",
		"s3.endpoint":                             "DOCVERIFY_S3_ENDPOINT",
		"s3.access_key":                           "DOCVERIFY_S3_ACCESS_KEY",
		"s3.secret_key":                           "DOCVERIFY_S3_SECRET_KEY",
		"s3.prefix":                               "DOCVERIFY_S3_PREFIX",
		"log.level":                               "DOCVERIFY_LOG_LEVEL",
		"log.format":                              "DOCVERIFY_LOG_FORMAT",
		"cors.allowed_origins":                    "DOCVERIFY_CORS_ALLOWED_ORIGINS",
		"ner.url":                                 "DOCVERIFY_NER_URL",
		"ner.api_key":                             "DOCVERIFY_NER_API_KEY",
		"ner.timeout_secs":                        "DOCVERIFY_NER_TIMEOUT_SECS",
		"ner.max_retries":                         "DOCVERIFY_NER_MAX_RETRIES",
		"cache.ttl":                               "DOCVERIFY_CACHE_TTL",
		"cache.cleanup_interval":                  "DOCVERIFY_CACHE_CLEANUP_INTERVAL",
		"merge.span_strategy":                     "DOCVERIFY_MERGE_SPAN_STRATEGY",
		"merge.default_ner_confidence":            "DOCVERIFY_MERGE_DEFAULT_NER_CONFIDENCE",
		"relation.context_radius":                 "DOCVERIFY_RELATION_CONTEXT_RADIUS",
		"relation.requirement_window":             "DOCVERIFY_RELATION_REQUIREMENT_WINDOW",
		"validation.weak_relation_distance":       "DOCVERIFY_VALIDATION_WEAK_RELATION_DISTANCE",
		"validation.min_obligation_subject_runes": "DOCVERIFY_VALIDATION_MIN_OBLIGATION_SUBJECT_RUNES",
		"validation.added_obligation_floor":       "DOCVERIFY_VALIDATION_ADDED_OBLIGATION_FLOOR",
		"validation.added_obligation_ratio":       "DOCVERIFY_VALIDATION_ADDED_OBLIGATION_RATIO",
		"validation.concurrency":                  "DOCVERIFY_VALIDATION_CONCURRENCY",
		"validation.max_batch_size":               "DOCVERIFY_VALIDATION_MAX_BATCH_SIZE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Platforms that set PORT win unless DOCVERIFY_SERVER_PORT is explicit.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCVERIFY_SERVER_PORT") == "" {
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

		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		ConnectTimeout:  v.GetDuration("db.connect_timeout"),
	}
	cfg.JWT = JWTConfig{
		Secret:   v.GetString("jwt.secret"),
		Issuer:   v.GetString("jwt.issuer"),
		Disabled: v.GetBool("jwt.disabled"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		Prefix:    v.GetString("s3.prefix"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	var corsOrigins []string
	for _, o := range v.GetStringSlice("cors.allowed_origins") {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				corsOrigins = append(corsOrigins, part)
			}
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.NER = NERConfig{
		URL:         v.GetString("ner.url"),
		APIKey:      v.GetString("ner.api_key"),
		TimeoutSecs: v.GetInt("ner.timeout_secs"),
		MaxRetries:  v.GetInt("ner.max_retries"),
	}
	cfg.Cache = CacheConfig{
		TTL:             v.GetDuration("cache.ttl"),
		CleanupInterval: v.GetDuration("cache.cleanup_interval"),
	}
	cfg.Merge = MergeConfig{
		SpanStrategy:         domain.SpanStrategy(v.GetString("merge.span_strategy")),
		DefaultNERConfidence: v.GetFloat64("merge.default_ner_confidence"),
	}
	cfg.Relation = RelationConfig{
		ContextRadius:     v.GetInt("relation.context_radius"),
		RequirementWindow: v.GetInt("relation.requirement_window"),
	}
	cfg.Validation = ValidationConfig{
		WeakRelationDistance:      v.GetInt("validation.weak_relation_distance"),
		MinObligationSubjectRunes: v.GetInt("validation.min_obligation_subject_runes"),
		AddedObligationFloor:      v.GetInt("validation.added_obligation_floor"),
		AddedObligationRatio:      v.GetFloat64("validation.added_obligation_ratio"),
		Concurrency:               v.GetInt("validation.concurrency"),
		MaxBatchSize:              v.GetInt("validation.max_batch_size"),
	}

	if !domain.ValidSpanStrategies[cfg.Merge.SpanStrategy] {
		return nil, fmt.Errorf("invalid merge.span_strategy %q", cfg.Merge.SpanStrategy)
	}
	return cfg, nil
}
