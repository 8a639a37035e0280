package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	OIDC       OIDCConfig       `mapstructure:"oidc"`
	Log        LogConfig        `mapstructure:"log"`
	Session    SessionConfig    `mapstructure:"session"`
	Security   SecurityConfig   `mapstructure:"security"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
}

// AppConfig holds application-wide settings.
type AppConfig struct {
	Env     string `mapstructure:"env"`      // "development" or "production"
	BaseURL string `mapstructure:"base_url"` // public URL used in sitemaps
}

// IsDev reports whether diagnostic detail may be exposed to clients.
func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "development")
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port string    `mapstructure:"port"`
	TLS  TLSConfig `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// DBConfig holds database-specific configuration.
type DBConfig struct {
	Driver string `mapstructure:"driver"` // "mysql" or "sqlite"
	DSN    string `mapstructure:"dsn"`
}

// OIDCConfig holds OIDC client configuration.
type OIDCConfig struct {
	IssuerURL    string `mapstructure:"issuer_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	Lifetime int `mapstructure:"lifetime"` // hours
}

// SecurityConfig holds switches for access-control decisions that differ
// from the legacy behaviour of the dashboard.
type SecurityConfig struct {
	// ComponentOwnershipCheck makes the direct component endpoints verify
	// that the caller owns the store the component belongs to.
	ComponentOwnershipCheck bool `mapstructure:"component_ownership_check"`
}

// MongoConfig holds the document store connection. An empty URI disables
// the website configuration endpoints.
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// CloudinaryConfig holds the media upload settings. An empty URL disables uploads.
type CloudinaryConfig struct {
	URL    string `mapstructure:"url"`
	Folder string `mapstructure:"folder"`
}

// LoadConfig reads configuration from an optional .env file, a config file
// and environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	v.SetDefault("app.env", "production")
	v.SetDefault("app.base_url", "http://localhost:8080")
	v.SetDefault("server.port", "8080")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "store.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("session.lifetime", 24)
	v.SetDefault("security.component_ownership_check", true)
	v.SetDefault("mongo.database", "store_builder")
	v.SetDefault("cloudinary.folder", "stores")

	// Set up viper to read from config file
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/go-store-builder/")
	v.AddConfigPath("$HOME/.go-store-builder")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	v.SetEnvPrefix("STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.DB.Driver = strings.ToLower(cfg.DB.Driver)
	return &cfg, nil
}
