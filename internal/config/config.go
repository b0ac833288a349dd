// Package config loads the runtime configuration from the environment and
// an optional .env file.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

var ErrJWTSecretMissing = errors.New("JWT_SECRET must be set")

// Config is the typed runtime configuration. It is loaded once in main and
// passed down explicitly.
type Config struct {
	Port             string
	DBPath           string
	JWTSecret        string
	LogFormat        string
	GinMode          string
	CORSAllowOrigins []string
}

// Load reads the configuration. Environment variables override the .env
// file; a missing .env file is fine.
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("db.path", "DB_PATH")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("log.format", "LOG_FORMAT")
	_ = v.BindEnv("gin.mode", "GIN_MODE")
	_ = v.BindEnv("cors.allow_origins", "CORS_ALLOW_ORIGINS")

	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "data/billfold.db")
	v.SetDefault("gin.mode", "release")

	config := Config{
		Port:             v.GetString("port"),
		DBPath:           v.GetString("db.path"),
		JWTSecret:        v.GetString("jwt.secret"),
		LogFormat:        v.GetString("log.format"),
		GinMode:          v.GetString("gin.mode"),
		CORSAllowOrigins: strings.Fields(v.GetString("cors.allow_origins")),
	}

	if config.JWTSecret == "" {
		return Config{}, ErrJWTSecretMissing
	}

	return config, nil
}
