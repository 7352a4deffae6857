package config

import (
	"log"
	"os"
	"strconv"
)

const (
	DefaultPort                  = "8080"
	DefaultAccessTokenExpiryMin  = 15
	DefaultRefreshTokenExpiryMin = 10080
	DefaultResetTokenExpiryMin   = 15
	DefaultVerifyTokenExpiryMin  = 1440
	DefaultBcryptCost            = 10
	DefaultAuditBufferSize       = 256
)

type Config struct {
	Env                string
	Port               string
	DBURL              string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessExpiryMin    int
	RefreshExpiryMin   int
	ResetExpiryMin     int
	VerifyExpiryMin    int
	BcryptCost         int
	AuditBufferSize    int
	FrontendURL        string
	SMTPHost           string
	SMTPPort           string
	SMTPUser           string
	SMTPPassword       string
	EmailFrom          string
	LogLevel           string
}

func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", DefaultPort),
		DBURL:              mustGetEnv("DB_URL"),
		AccessTokenSecret:  mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:    getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		RefreshExpiryMin:   getEnvAsInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiryMin),
		ResetExpiryMin:     getEnvAsInt("RESET_TOKEN_EXPIRY", DefaultResetTokenExpiryMin),
		VerifyExpiryMin:    getEnvAsInt("VERIFY_TOKEN_EXPIRY", DefaultVerifyTokenExpiryMin),
		BcryptCost:         getEnvAsInt("BCRYPT_COST", DefaultBcryptCost),
		AuditBufferSize:    getEnvAsInt("AUDIT_BUFFER_SIZE", DefaultAuditBufferSize),
		FrontendURL:        getEnv("FRONTEND_URL", ""),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		EmailFrom:          getEnv("EMAIL_FROM", "no-reply@localhost"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
