package config

import (
	"strings"

	"github.com/spf13/viper"
)

const defaultFrontendOrigins = "https://share-bloom.vercel.app,http://localhost:5173"

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	JWTSecret           string // optional; enables Authorization: Bearer identities
	DatabaseURL         string
	RedisURL            string
	FrontendOrigins     []string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	AutoMigrate         bool
	LogLevel            string
	SeedAdminEmail      string
	SeedAdminPassword   string
	SeedAdminName       string
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load loads config from env and an optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("FRONTEND_ORIGINS", defaultFrontendOrigins)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_ADMIN_NAME", "Platform Admin")

	return &Config{
		Env:                 v.GetString("APP_ENV"),
		Port:                v.GetString("PORT"),
		SessionSecret:       v.GetString("SESSION_SECRET"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		RedisURL:            v.GetString("REDIS_URL"),
		FrontendOrigins:     splitList(v.GetString("FRONTEND_ORIGINS")),
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         v.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   v.GetBool("ALLOW_CROSS_SITE_DEV"),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		AutoMigrate:         v.GetBool("DB_AUTO_MIGRATE"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		SeedAdminEmail:      v.GetString("SEED_ADMIN_EMAIL"),
		SeedAdminPassword:   v.GetString("SEED_ADMIN_PASSWORD"),
		SeedAdminName:       v.GetString("SEED_ADMIN_NAME"),
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
