package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
		Timezone           string   `mapstructure:"timezone"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Alerts struct {
		DismissCooldownDays int `mapstructure:"dismiss_cooldown_days"`
		TrendMaxDays        int `mapstructure:"trend_max_days"`
		CustomerListLimit   int `mapstructure:"customer_list_limit"`
	} `mapstructure:"alerts"`

	Notify struct {
		Enabled    bool     `mapstructure:"enabled"`
		Provider   string   `mapstructure:"provider"` // "aisensy" or "webhook"
		APIKey     string   `mapstructure:"api_key"`
		WebhookURL string   `mapstructure:"webhook_url"`
		Template   string   `mapstructure:"template"`
		Recipients []string `mapstructure:"recipients"` // staff phone numbers
		SendHour   int      `mapstructure:"send_hour"`  // local hour for the daily digest
	} `mapstructure:"notify"`

	Monitoring struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"monitoring"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timezone", "Asia/Jakarta")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "crm-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "crm_db")
	v.SetDefault("alerts.dismiss_cooldown_days", 7)
	v.SetDefault("alerts.trend_max_days", 90)
	v.SetDefault("alerts.customer_list_limit", 50)
	v.SetDefault("notify.send_hour", 9)
	v.SetDefault("monitoring.port", 9091)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// Override JWT secret from environment if not set
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		if cfg.JWT.Secret == "" {
			log.Fatal("JWT_SECRET not found in environment or config file")
		}
	}

	// Override notify credentials from environment
	if key := os.Getenv("NOTIFY_API_KEY"); key != "" {
		cfg.Notify.APIKey = key
	}
	if url := os.Getenv("NOTIFY_WEBHOOK_URL"); url != "" {
		cfg.Notify.WebhookURL = url
	}

	return &cfg
}
