package config

import (
	"reflect"
	"strings"

	"quiz-manager/core/api"
	"quiz-manager/core/database"
	"quiz-manager/core/logger"
	"quiz-manager/core/server"
	"quiz-manager/core/storage"
	"quiz-manager/core/tokens"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// API holds configuration for the quiz backend REST API.
	API api.Config `mapstructure:"api"`
	// Tokens selects where the backend session is kept.
	Tokens tokens.Config `mapstructure:"tokens"`
	// Redis holds the connection used by the redis token store.
	Redis tokens.RedisConfig `mapstructure:"redis"`
	// Storage holds configuration for baseline backups (S3, MinIO).
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the attempt history database.
	Database database.Config `mapstructure:"database"`
	// Matching holds configuration for matching sessions.
	Matching MatchingConfig `mapstructure:"matching"`
	// Editor holds configuration for item editing and reconciliation.
	Editor EditorConfig `mapstructure:"editor"`
}

// MatchingConfig holds configuration for matching sessions.
type MatchingConfig struct {
	// MaxSessions caps the number of live sessions; the oldest is evicted.
	MaxSessions int `mapstructure:"max_sessions" default:"1000"`
	// SessionTTLMinutes expires idle sessions.
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes" default:"60"`
	// RecordAttempts stores every validation in the database when one is connected.
	RecordAttempts bool `mapstructure:"record_attempts" default:"true"`
	// Shuffle randomizes the order of unmatched items.
	Shuffle bool `mapstructure:"shuffle" default:"false"`
}

// EditorConfig holds configuration for item editing.
type EditorConfig struct {
	// Delimiter splits edited text: comma, newline or auto.
	Delimiter string `mapstructure:"delimiter" default:"auto"`
	// Concurrency bounds parallel create/delete requests per save.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// LoadConcurrency bounds parallel item fetches per quiz load.
	LoadConcurrency int `mapstructure:"load_concurrency" default:"4"`
	// BackupPrefix is the object key prefix for baseline backups.
	BackupPrefix string `mapstructure:"backup_prefix" default:"baselines"`
	// Backups enables baseline backups before destructive saves.
	Backups bool `mapstructure:"backups" default:"true"`
	// BackupRetention keeps this many backups per variant; 0 keeps all.
	BackupRetention int `mapstructure:"backup_retention" default:"20"`
	// MaxEditors caps the per-quiz editors kept by the server.
	MaxEditors int `mapstructure:"max_editors" default:"256"`
	// EditorIdleMinutes drops editors that saw no request for this long.
	EditorIdleMinutes int `mapstructure:"editor_idle_minutes" default:"30"`
}

// LoadConfig loads configuration from environment variables and .env file.
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

	// Map environment variables to nested keys (e.g. API_BASE_URL -> api.base_url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
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

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
