package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the locator service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port of the HTTP server serving feeds, health and metrics.
// - Database: Configuration settings for the PostgreSQL database.
// - Redis: Feed cache settings, an empty address disables caching.
// - Geocoder: Provider used to resolve search addresses.
// - Locator: Limits and widget settings applied to every view.
type Config struct {
	Env             string         // Env is the current environment: local, development, production.
	Port            int            // Port is the HTTP server port.
	ReadTimeout     time.Duration  // ReadTimeout of the HTTP server.
	WriteTimeout    time.Duration  // WriteTimeout of the HTTP server.
	ShutdownTimeout time.Duration  // ShutdownTimeout bounds graceful shutdown.
	Database        PostgresConfig // Database holds the postgres database configuration.
	Redis           RedisConfig    // Redis holds the feed cache configuration.
	Geocoder        GeocoderConfig // Geocoder selects the search address provider.
	Locator         LocatorConfig  // Locator holds limits and widget settings.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// RedisConfig configures the feed cache.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration // TTL of cached feeds.
	OriginTTL time.Duration // OriginTTL of cached search addresses.
}

// GeocoderConfig configures search address resolution.
type GeocoderConfig struct {
	Provider      string // google, nominatim or none
	APIKey        string
	RateLimit     int
	BaseURL       string
	Region        string // Region is a country code biasing address matches.
	AddressPrefix string // Address prefix for more accurate geocoding (indicating country, city, etc.)
}

// LocatorConfig holds settings shared by every locator view.
type LocatorConfig struct {
	MapsAPIKey       string  // MapsAPIKey is handed to the map widget.
	BasePath         string  // BasePath prefixes feed links.
	FullListLimit    int     // FullListLimit caps full-list feeds, 0 means unlimited.
	AutoGeocodeLimit int     // AutoGeocodeLimit caps auto-geocode feeds, 0 means unlimited.
	DefaultRadius    float64 // DefaultRadius bounds full-list searches around an origin.
}

var defaults = map[string]any{
	"env":                   "production",
	"port":                  8080,
	"read_timeout":          "5s",
	"write_timeout":         "10s",
	"shutdown_timeout":      "10s",
	"postgres.port":         "5432",
	"redis.db":              0,
	"redis.ttl":             "1m",
	"redis.origin_ttl":      "24h",
	"geocoder.provider":     "nominatim",
	"geocoder.rate_limit":   10,
	"base_path":             "/locators",
	"limits.full_list":      1000,
	"limits.auto_geocode":   26,
	"search.default_radius": 0,
}

// legacyEnv keeps the database variables shared with the other services.
var legacyEnv = map[string]string{
	"postgres.host":     "DB_HOST",
	"postgres.port":     "DB_PORT",
	"postgres.user":     "DB_USERNAME",
	"postgres.password": "DB_PASSWORD",
	"postgres.name":     "DB_NAME",
}

// MustLoad reads the configuration from the environment, an optional .env file
// and an optional YAML file named by LOCATOR_CONFIG_FILE. It panics on invalid values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LOCATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range legacyEnv {
		_ = v.BindEnv(key, "LOCATOR_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	if file, ok := os.LookupEnv("LOCATOR_CONFIG_FILE"); ok && file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	return &Config{
		Env:             v.GetString("env"),
		Port:            mustInt(v, "port", "failed to parse port for http server from configuration"),
		ReadTimeout:     mustDuration(v, "read_timeout", "failed to parse read timeout from configuration"),
		WriteTimeout:    mustDuration(v, "write_timeout", "failed to parse write timeout from configuration"),
		ShutdownTimeout: mustDuration(v, "shutdown_timeout", "failed to parse shutdown timeout from configuration"),
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.name"),
		},
		Redis: RedisConfig{
			Addr:      v.GetString("redis.addr"),
			Password:  v.GetString("redis.password"),
			DB:        mustInt(v, "redis.db", "failed to parse redis db from configuration, must be an integer"),
			TTL:       mustDuration(v, "redis.ttl", "failed to parse redis ttl from configuration"),
			OriginTTL: mustDuration(v, "redis.origin_ttl", "failed to parse redis origin ttl from configuration"),
		},
		Geocoder: GeocoderConfig{
			Provider:      v.GetString("geocoder.provider"),
			APIKey:        v.GetString("geocoder.api_key"),
			RateLimit:     mustInt(v, "geocoder.rate_limit", "failed to parse geocoder rate limit from configuration"),
			BaseURL:       v.GetString("geocoder.base_url"),
			Region:        v.GetString("geocoder.region"),
			AddressPrefix: v.GetString("geocoder.address_prefix"),
		},
		Locator: LocatorConfig{
			MapsAPIKey:       v.GetString("maps.api_key"),
			BasePath:         v.GetString("base_path"),
			FullListLimit:    mustLimit(v, "limits.full_list"),
			AutoGeocodeLimit: mustLimit(v, "limits.auto_geocode"),
			DefaultRadius:    mustRadius(v),
		},
	}
}

func mustInt(v *viper.Viper, key, msg string) int {
	value, err := cast.ToIntE(v.Get(key))
	if err != nil {
		panic(msg)
	}

	return value
}

func mustDuration(v *viper.Viper, key, msg string) time.Duration {
	value, err := cast.ToDurationE(v.Get(key))
	if err != nil {
		panic(msg)
	}

	return value
}

func mustLimit(v *viper.Viper, key string) int {
	value := mustInt(v, key, "failed to parse locator limits from configuration, must be an integer")
	if value < 0 {
		panic("failed to parse locator limits from configuration, must not be negative")
	}

	return value
}

func mustRadius(v *viper.Viper) float64 {
	value, err := cast.ToFloat64E(v.Get("search.default_radius"))
	if err != nil || value < 0 {
		panic("failed to parse default search radius from configuration")
	}

	return value
}
