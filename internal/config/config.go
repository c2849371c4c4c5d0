package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/bagstore/internal/log"
)

type Application struct {
	Env       string `mapstructure:"env"        json:"env"`
	Host      string `mapstructure:"host"       json:"host"`
	SecretKey string `mapstructure:"secret_key" json:"-"`
	Port      int    `mapstructure:"port"       json:"port"`
}

type Database struct {
	Name           string `mapstructure:"name"            json:"name"`
	Host           string `mapstructure:"host"            json:"host"`
	MigrationPath  string `mapstructure:"migration_path"  json:"migration_path"`
	Password       string `mapstructure:"password"        json:"-"`
	TimeZone       string `mapstructure:"timezone"        json:"timezone"`
	Username       string `mapstructure:"username"        json:"username"`
	MaxConnections int    `mapstructure:"max_connections" json:"max_connections"`
	MinConnections int    `mapstructure:"min_connections" json:"min_connections"`
	Port           uint16 `mapstructure:"port"            json:"port"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Pricing struct {
	TaxRate  string `mapstructure:"tax_rate" json:"tax_rate"`
	Currency string `mapstructure:"currency" json:"currency"`
}

type Gateway struct {
	BaseURL   string        `mapstructure:"base_url"   json:"base_url"`
	TokenFile string        `mapstructure:"token_file" json:"token_file"`
	Timeout   time.Duration `mapstructure:"timeout"    json:"timeout"`
}

type Storage struct {
	UploadDir    string `mapstructure:"upload_dir"     json:"upload_dir"`
	PublicPrefix string `mapstructure:"public_prefix"  json:"public_prefix"`
	MaxUploadMB  int64  `mapstructure:"max_upload_mb"  json:"max_upload_mb"`
}

type Listing struct {
	Debounce     time.Duration `mapstructure:"debounce"      json:"debounce"`
	DefaultLimit int           `mapstructure:"default_limit" json:"default_limit"`
}

type Auth struct {
	OtpTTL      time.Duration `mapstructure:"otp_ttl"      json:"otp_ttl"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"    json:"token_ttl"`
	MaxAttempts int           `mapstructure:"max_attempts" json:"max_attempts"`
}

type Cart struct {
	TTL              time.Duration `mapstructure:"ttl"                json:"ttl"`
	ShippingCacheTTL time.Duration `mapstructure:"shipping_cache_ttl" json:"shipping_cache_ttl"`
}

type Config struct {
	Database    `mapstructure:"db"          json:"db"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Application `mapstructure:"application" json:"application"`
	Otel        `mapstructure:"otel"        json:"otel"`
	Pricing     `mapstructure:"pricing"     json:"pricing"`
	Gateway     `mapstructure:"gateway"     json:"gateway"`
	Storage     `mapstructure:"storage"     json:"storage"`
	Listing     `mapstructure:"listing"     json:"listing"`
	Auth        `mapstructure:"auth"        json:"auth"`
	Cart        `mapstructure:"cart"        json:"cart"`
}

var (
	once   sync.Once
	config *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "development")
	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 8080)
	v.SetDefault("db.migration_path", "file://migrations")
	v.SetDefault("db.max_connections", 10)
	v.SetDefault("db.min_connections", 2)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)
	v.SetDefault("pricing.tax_rate", "0.05")
	v.SetDefault("pricing.currency", "USD")
	v.SetDefault("gateway.base_url", "http://shop-service:8080")
	v.SetDefault("gateway.timeout", 15*time.Second)
	v.SetDefault("storage.upload_dir", "./uploads")
	v.SetDefault("storage.public_prefix", "/uploads")
	v.SetDefault("storage.max_upload_mb", 20)
	v.SetDefault("listing.debounce", 500*time.Millisecond)
	v.SetDefault("listing.default_limit", 10)
	v.SetDefault("auth.otp_ttl", 5*time.Minute)
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.max_attempts", 5)
	v.SetDefault("cart.ttl", 30*24*time.Hour)
	v.SetDefault("cart.shipping_cache_ttl", time.Hour)
}

// Load reads ./env/<filename>.yaml on top of the defaults. Every key can be
// overridden from the environment, e.g. PRICING_TAX_RATE.
func Load(c context.Context, filename string) (Config, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "config Load").
		Str("filename", filename).
		Logger()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(filename)
	v.AddConfigPath("./env")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
	logger.Info().Msg("reading config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error when reading config with error=%w", err)
		}
		logger.Warn().Err(err).Msg("config file not found using defaults and environment")
	}
	logger.Info().Msg("read config")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
	logger.Info().Msg("unmarshaling config")
	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config with error=%w", err)
	}
	logger.Info().Msg("unmarshaled config")

	return cfg, nil
}

func InitConfig(c context.Context, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		cfg, err := Load(c, filename)
		if err != nil {
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger.Info().Any(log.KeyConfig, cfg).Msg("initialized config")
	})
	return config
}
