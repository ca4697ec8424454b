/**
 * @description
 * This file handles the configuration management for the checkout-service.
 * It uses the 'viper' library to load configuration from environment
 * variables, providing a centralized and consistent way to manage settings.
 *
 * DATABASE_URL, REDIS_URL and RABBITMQ_URL are optional: each missing
 * dependency degrades a single capability (fallback plan catalog,
 * sessions held in process memory only, no event fan-out) without blocking
 * checkout.
 */
package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	ServerPort           string `mapstructure:"SERVER_PORT"`
	DatabaseURL          string `mapstructure:"DATABASE_URL"`
	RedisURL             string `mapstructure:"REDIS_URL"`
	RabbitMQURL          string `mapstructure:"RABBITMQ_URL"`
	PaymentGatewayURL    string `mapstructure:"PAYMENT_GATEWAY_URL"`
	PaymentGatewayAPIKey string `mapstructure:"PAYMENT_GATEWAY_API_KEY"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("SERVER_PORT", "8086")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("PAYMENT_GATEWAY_URL")
	_ = viper.BindEnv("PAYMENT_GATEWAY_API_KEY")

	if err = viper.Unmarshal(&config); err != nil {
		return config, err
	}
	if config.PaymentGatewayURL == "" {
		return config, errors.New("PAYMENT_GATEWAY_URL is required")
	}
	return config, nil
}
