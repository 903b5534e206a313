package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	ModeComingSoon  = "comingSoon"
	ModeMaintenance = "maintenance"
	ModeLive        = "live"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	AppEnv                        string        `mapstructure:"APP_ENV"`
	AppMode                       string        `mapstructure:"APP_MODE"`
	DatabaseURL                   string        `mapstructure:"DATABASE_URL"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	AdminUsername                 string        `mapstructure:"ADMIN_USERNAME"`
	AdminPassword                 string        `mapstructure:"ADMIN_PASSWORD"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	CSRFKey                       string        `mapstructure:"CSRF_KEY"`
	TrustedOrigins                []string      `mapstructure:"TRUSTED_ORIGINS"`
	ResendAPIKey                  string        `mapstructure:"RESEND_API_KEY"`
	EmailFrom                     string        `mapstructure:"EMAIL_FROM"`
	RulesPDFPath                  string        `mapstructure:"RULES_PDF_PATH"`
	LogoPath                      string        `mapstructure:"LOGO_PATH"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	InvitationTTL                 time.Duration `mapstructure:"INVITATION_TTL"`
	InvitationSweepSchedule       string        `mapstructure:"INVITATION_SWEEP_SCHEDULE"`
	LogLevel                      string        `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", EnvDevelopment)
	viper.SetDefault("APP_MODE", ModeComingSoon)
	viper.SetDefault("DATABASE_PATH", "studio.db")
	viper.SetDefault("EMAIL_FROM", "Magnetic Pole Studio <registro@magneticpolestudio.com>")
	viper.SetDefault("RULES_PDF_PATH", "public/normativa-magnetic.pdf")
	viper.SetDefault("LOGO_PATH", "public/logo.png")
	viper.SetDefault("TRUSTED_ORIGINS", []string{"localhost:8080", "127.0.0.1:8080"})
	viper.SetDefault("INVITATION_TTL", 7*24*time.Hour)
	viper.SetDefault("INVITATION_SWEEP_SCHEDULE", "*/15 * * * *")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.BindEnv("DATABASE_URL")
	viper.BindEnv("ADMIN_USERNAME")
	viper.BindEnv("ADMIN_PASSWORD")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("CSRF_KEY")
	viper.BindEnv("RESEND_API_KEY")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return &config
}

// Validate checks enum values and the database requirement. The database may
// be omitted only for a production deployment in coming-soon mode.
func (c *Config) Validate() error {
	switch c.AppEnv {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return fmt.Errorf("APP_ENV must be one of development, test, production; got %q", c.AppEnv)
	}

	switch c.AppMode {
	case ModeComingSoon, ModeMaintenance, ModeLive:
	default:
		return fmt.Errorf("APP_MODE must be one of comingSoon, maintenance, live; got %q", c.AppMode)
	}

	if c.DatabaseURL == "" && c.DatabasePath == "" && !c.DatabaseOptional() {
		return errors.New("DATABASE_URL or DATABASE_PATH is required")
	}

	return nil
}

func (c *Config) DatabaseOptional() bool {
	return c.AppEnv == EnvProduction && c.AppMode == ModeComingSoon
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}
