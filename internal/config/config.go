package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode      string
	Port         string
	Database     DatabaseConfig
	JWT          JWTConfig
	Cookie       CookieConfig
	Underwriting UnderwritingConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// Underwriting policy names
const (
	PolicyTiered = "tiered" // five-tier policy with affordability/insufficiency overrides
	PolicyLegacy = "legacy" // historical three-tier salary bands
)

// UnderwritingConfig holds the decision policy selection and the global
// validation constants. All thresholds are configurable so a policy change
// never touches control flow.
type UnderwritingConfig struct {
	Policy             string  // PolicyTiered or PolicyLegacy
	MaxLoanAmount      float64 // inclusive upper bound on requested amount
	MaxTermMonths      int     // inclusive upper bound on requested term
	MaxBaseSalary      float64 // inclusive upper bound on registered salary
	AutoApproveSalary  float64 // salary at or above which any request is approved
	ReviewSalary       float64 // salary band floor for manual analysis
	AffordabilityRatio float64 // approved outright when amount <= salary * ratio
	ProrationDivisor   float64 // fixed divisor converting amount to a monthly obligation
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	underwriting, err := loadUnderwritingConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:      appMode,
		Port:         getEnv("PORT", "3000"),
		Database:     loadDatabaseConfig(appMode),
		JWT:          loadJWTConfig(appMode),
		Cookie:       loadCookieConfig(appMode),
		Underwriting: underwriting,
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, POLICY: %s]", appMode, underwriting.Policy)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "lendcore"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadUnderwritingConfig loads the decision policy and its thresholds.
// An unknown policy name fails loading instead of silently defaulting.
func loadUnderwritingConfig() (UnderwritingConfig, error) {
	policy := strings.TrimSpace(getEnv("UNDERWRITING_POLICY", PolicyTiered))
	if policy != PolicyTiered && policy != PolicyLegacy {
		return UnderwritingConfig{}, fmt.Errorf("invalid UNDERWRITING_POLICY: '%s' (must be '%s' or '%s')", policy, PolicyTiered, PolicyLegacy)
	}

	return UnderwritingConfig{
		Policy:             policy,
		MaxLoanAmount:      getEnvFloat("MAX_LOAN_AMOUNT", 10_000_000),
		MaxTermMonths:      getEnvInt("MAX_LOAN_TERM_MONTHS", 60),
		MaxBaseSalary:      getEnvFloat("MAX_BASE_SALARY", 15_000_000),
		AutoApproveSalary:  getEnvFloat("AUTO_APPROVE_SALARY", 8_000_000),
		ReviewSalary:       getEnvFloat("REVIEW_SALARY", 4_000_000),
		AffordabilityRatio: getEnvFloat("AFFORDABILITY_RATIO", 0.4),
		ProrationDivisor:   getEnvFloat("PRORATION_DIVISOR", 12),
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://app.lendcore.io"
	}
	return origins
}
