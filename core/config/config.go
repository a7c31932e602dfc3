package config

import (
	"reflect"
	"strings"

	"chapter-sync/core/database"
	"chapter-sync/core/logger"
	"chapter-sync/core/reconcile"
	"chapter-sync/core/server"
	"chapter-sync/core/storage"
	"chapter-sync/feature/downloads"
	"chapter-sync/feature/mangadex"
	"chapter-sync/feature/merged"
	"chapter-sync/feature/update"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations owned by the packages that use them.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage of downloaded chapters.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the library database.
	Database database.Config `mapstructure:"database"`
	// Reconcile holds configuration for chapter reconciliation.
	Reconcile reconcile.Config `mapstructure:"reconcile"`
	// Update holds configuration for library update campaigns.
	Update update.Config `mapstructure:"update"`
	// MangaDex holds configuration for the primary chapter source.
	MangaDex mangadex.Config `mapstructure:"mangadex"`
	// Merged holds configuration for the merged chapter source.
	Merged merged.Config `mapstructure:"merged"`
	// Downloads holds configuration for the download directory layout.
	Downloads downloads.Config `mapstructure:"downloads"`
}

// LoadConfig loads configuration from environment variables and the .env file in path.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Missing .env is expected in production
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues registers every mapstructure key with its `default` tag value so
// AutomaticEnv can resolve it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Empty defaults are set too, the key must exist for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
