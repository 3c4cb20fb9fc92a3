package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"kf2-manager/core/database"
	"kf2-manager/core/logger"
	"kf2-manager/core/server"
	"kf2-manager/core/storage"
	"kf2-manager/feature/approved"
	"kf2-manager/feature/kf2"
	"kf2-manager/feature/supervisor"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// KF2 holds the dedicated server install and launch settings.
	KF2 kf2.Config `mapstructure:"kf2"`
	// Steam holds the SteamCMD install and launch settings.
	Steam kf2.SteamConfig `mapstructure:"steam"`
	// Supervisor holds the restart hour and timing.
	Supervisor supervisor.Config `mapstructure:"supervisor"`
	// Approved selects the source of the approved workshop items.
	Approved approved.Config `mapstructure:"approved"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the history database.
	Database database.Config `mapstructure:"database"`
	// Server holds configuration for the status HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from the .env file, an optional
// config.yaml and environment variables, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Map environment variables to nested keys (e.g. KF2_INSTALL_DIR -> kf2.install_dir)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the settings the supervisor and file commands depend on.
func (c *Config) Validate() error {
	var errs []error
	if c.KF2.InstallDir == "" {
		errs = append(errs, errors.New("kf2.install_dir is required"))
	}
	if c.Supervisor.RestartHour < 0 || c.Supervisor.RestartHour > 23 {
		errs = append(errs, fmt.Errorf("supervisor.restart_hour must be 0-23, got %d", c.Supervisor.RestartHour))
	}
	if c.Supervisor.PollInterval <= 0 {
		errs = append(errs, errors.New("supervisor.poll_interval must be positive"))
	}
	if c.Supervisor.Warmup < 0 {
		errs = append(errs, errors.New("supervisor.warmup must not be negative"))
	}
	if c.Approved.Column < 1 {
		errs = append(errs, fmt.Errorf("approved.column must be 1 or greater, got %d", c.Approved.Column))
	}
	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
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

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
