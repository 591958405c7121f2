package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// insecureDevSecret matches the development fallback in the embedded config.
const insecureDevSecret = "senhajwt"

type JWTConfig struct {
	SecretKey  string        `mapstructure:"secretKey"`
	Issuer     string        `mapstructure:"issuer"`
	Audience   string        `mapstructure:"audience"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type UploadConfig struct {
	Dir     string `mapstructure:"dir"`
	BaseURL string `mapstructure:"baseURL"`
}

type Config struct {
	Mode         string `mapstructure:"mode"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Upload UploadConfig `mapstructure:"upload"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// The secret always comes from the environment when set; the value in the
	// config file is a development-only fallback.
	if err := v.BindEnv("jwt.secretKey", "JWT_SECRET_KEY"); err != nil {
		return Config{}, fmt.Errorf("failed to bind JWT secret env var: %w", err)
	}

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	if err = config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate rejects configurations that must never reach a real deployment,
// most importantly running in production mode without an explicit JWT secret.
func (c Config) Validate() error {
	if c.JWT.Expiration <= 0 {
		return errors.New("jwt.expiration must be a positive duration")
	}
	if c.Mode == "production" && (c.JWT.SecretKey == "" || c.JWT.SecretKey == insecureDevSecret) {
		return errors.New("JWT_SECRET_KEY must be set to a non-default value in production mode")
	}
	if c.JWT.SecretKey == "" {
		return errors.New("jwt.secretKey cannot be empty")
	}
	return nil
}
