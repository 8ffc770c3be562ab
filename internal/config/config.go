package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/storefront/internal/constants"
)

type Application struct {
	Env        string `mapstructure:"env"         json:"env"`
	Host       string `mapstructure:"host"        json:"host"`
	LogPath    string `mapstructure:"log_path"    json:"log_path"`
	PublicURL  string `mapstructure:"public_url"  json:"public_url"`
	ConfigName string `mapstructure:"config_name" json:"config_name"`
	Port       int    `mapstructure:"port"        json:"port"`
}

type Mongo struct {
	URI  string `mapstructure:"uri"  json:"-"`
	Name string `mapstructure:"name" json:"name"`
}

type Postgres struct {
	Name           string `mapstructure:"name"            json:"name"`
	Host           string `mapstructure:"host"            json:"host"`
	MigrationPath  string `mapstructure:"migration_path"  json:"migration_path"`
	Password       string `mapstructure:"password"        json:"-"`
	Username       string `mapstructure:"username"        json:"username"`
	MaxConnections int32  `mapstructure:"max_connections" json:"max_connections"`
	MinConnections int32  `mapstructure:"min_connections" json:"min_connections"`
	Port           uint16 `mapstructure:"port"            json:"port"`
}

type Database struct {
	Driver   string   `mapstructure:"driver"   json:"driver"`
	Mongo    Mongo    `mapstructure:"mongo"    json:"mongo"`
	Postgres Postgres `mapstructure:"postgres" json:"postgres"`
}

type Cache struct {
	Host     string        `mapstructure:"host"     json:"host"`
	Password string        `mapstructure:"password" json:"-"`
	Database int           `mapstructure:"database" json:"database"`
	TTL      time.Duration `mapstructure:"ttl"      json:"ttl"`
	Port     uint16        `mapstructure:"port"     json:"port"`
	Enabled  bool          `mapstructure:"enabled"  json:"enabled"`
}

type Otel struct {
	Host    string `mapstructure:"host"    json:"host"`
	Port    int    `mapstructure:"port"    json:"port"`
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
}

type Session struct {
	CookieName string        `mapstructure:"cookie_name" json:"cookie_name"`
	SigningKey string        `mapstructure:"signing_key" json:"-"`
	MaxAge     time.Duration `mapstructure:"max_age"     json:"max_age"`
	Secure     bool          `mapstructure:"secure"      json:"secure"`
}

type Cart struct {
	TTL time.Duration `mapstructure:"ttl" json:"ttl"`
}

type S3 struct {
	Endpoint  string `mapstructure:"endpoint"   json:"endpoint"`
	Region    string `mapstructure:"region"     json:"region"`
	Bucket    string `mapstructure:"bucket"     json:"bucket"`
	AccessKey string `mapstructure:"access_key" json:"-"`
	SecretKey string `mapstructure:"secret_key" json:"-"`
	PublicURL string `mapstructure:"public_url" json:"public_url"`
	PathStyle bool   `mapstructure:"path_style" json:"path_style"`
}

type Storage struct {
	Driver   string `mapstructure:"driver"    json:"driver"`
	LocalDir string `mapstructure:"local_dir" json:"local_dir"`
	S3       S3     `mapstructure:"s3"        json:"s3"`
}

type Cors struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"   json:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials" json:"allow_credentials"`
}

type RateLimit struct {
	Requests int           `mapstructure:"requests" json:"requests"`
	Window   time.Duration `mapstructure:"window"   json:"window"`
	Enabled  bool          `mapstructure:"enabled"  json:"enabled"`
}

type Config struct {
	Application Application `mapstructure:"application" json:"application"`
	Database    Database    `mapstructure:"db"          json:"db"`
	Cache       Cache       `mapstructure:"cache"       json:"cache"`
	Otel        Otel        `mapstructure:"otel"        json:"otel"`
	Session     Session     `mapstructure:"session"     json:"session"`
	Cart        Cart        `mapstructure:"cart"        json:"cart"`
	Storage     Storage     `mapstructure:"storage"     json:"storage"`
	Cors        Cors        `mapstructure:"cors"        json:"cors"`
	RateLimit   RateLimit   `mapstructure:"rate_limit"  json:"rate_limit"`
}

var (
	once   sync.Once
	config *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "development")
	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 5000)
	v.SetDefault("application.log_path", "./logs/storefront.log")
	v.SetDefault("application.public_url", "")

	v.SetDefault("db.driver", "mongo")
	v.SetDefault("db.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("db.mongo.name", "storefront")
	v.SetDefault("db.postgres.host", "localhost")
	v.SetDefault("db.postgres.port", 5432)
	v.SetDefault("db.postgres.username", "postgres")
	v.SetDefault("db.postgres.password", "postgres")
	v.SetDefault("db.postgres.name", "storefront")
	v.SetDefault("db.postgres.migration_path", "file://internal/repository/postgres/migrations")
	v.SetDefault("db.postgres.max_connections", 10)
	v.SetDefault("db.postgres.min_connections", 2)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.database", 0)
	v.SetDefault("cache.ttl", 10*time.Minute)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)

	v.SetDefault("session.cookie_name", "sessionId")
	v.SetDefault("session.max_age", 30*24*time.Hour)
	v.SetDefault("session.secure", false)
	v.SetDefault("session.signing_key", "")

	v.SetDefault("cart.ttl", 12*time.Hour)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "./public/uploads")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.path_style", true)

	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("cors.allow_credentials", true)

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", time.Minute)
}

// Load reads ./env/<filename>.yaml, a .env file and the environment into a
// fresh Config. A missing yaml file is not an error.
func Load(c context.Context, filename string) (*Config, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "config Load").
		Str("filename", filename).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "loading dotenv").Logger()
	logger.Trace().Msg("loading dotenv")
	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(filename)
	v.AddConfigPath("./env")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	logger = logger.With().Str(constants.KEY_PROCESS, "reading config").Logger()
	logger.Info().Msg("reading config")
	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed reading config with error=%w", err)
		}
		logger.Warn().Msg("config file not found using defaults and environment")
	}
	logger.Info().Msg("read config")

	logger = logger.With().Str(constants.KEY_PROCESS, "unmarshaling config").Logger()
	logger.Info().Msg("unmarshaling config")
	cfg := Config{}
	if err = v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed unmarshaling config with error=%w", err)
	}
	cfg.Application.ConfigName = filename
	logger.Info().Msg("unmarshaled config")

	return &cfg, nil
}

// Get loads the process config once, exiting on failure.
func Get(c context.Context, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(constants.KEY_TAG, "config Get").
			Logger()

		cfg, err := Load(c, filename)
		if err != nil {
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = cfg
		logger.Info().Any(constants.KEY_CONFIG, cfg).Msg("initialized config")
	})
	return config
}
