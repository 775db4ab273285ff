package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ENV struct {
	AppEnv         string
	Port           string
	APIPrefix      string
	FrontendURL    string
	TrustProxy     bool
	RequestTimeout time.Duration
	LogLevel       string

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBPath     string

	JWTSecret        string
	JWTRefreshSecret string
	CookieSecure     bool

	UploadDir       string
	UploadURLPrefix string
	ImageMaxWidth   int

	EmailHost      string
	EmailPort      string
	EmailUsername  string
	EmailPassword  string
	EmailFrom      string
	MailgunDomain  string
	MailgunAPIKey  string
	ContactEmail   string
	SentryDSN      string
	RateLimitStyle string

	SeedAdminUsername string
	SeedAdminPassword string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	appEnv := getEnv("APP_ENV", "development")

	return ENV{
		AppEnv:         appEnv,
		Port:           getEnv("APP_PORT", ":3001"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		TrustProxy:     getBool("TRUST_PROXY", false),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 15*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "catalog"),
		DBPort:     os.Getenv("DB_PORT"),
		DBPath:     getEnv("DB_PATH", "catalog.db"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		CookieSecure:     getBool("COOKIE_SECURE", appEnv == "production"),

		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		UploadURLPrefix: getEnv("UPLOAD_URL_PREFIX", "/uploads"),
		ImageMaxWidth:   getInt("IMAGE_MAX_WIDTH", 1200),

		EmailHost:      os.Getenv("SMTP_HOST"),
		EmailPort:      getEnv("SMTP_PORT", "587"),
		EmailUsername:  os.Getenv("SMTP_USER"),
		EmailPassword:  os.Getenv("SMTP_PASS"),
		EmailFrom:      getEnv("MAIL_FROM", "noreply@localhost"),
		MailgunDomain:  os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey:  os.Getenv("MAILGUN_API_KEY"),
		ContactEmail:   os.Getenv("CONTACT_EMAIL"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		RateLimitStyle: getEnv("RATE_LIMIT_STRATEGY", "window"),

		SeedAdminUsername: getEnv("SEED_ADMIN_USERNAME", "admin"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "ChangeMe123!"),
	}

}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

// Validate checks the settings the server cannot start without.
func (e ENV) Validate() error {
	if len(e.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be set and at least 32 characters (run `generate-keys`)")
	}
	if len(e.JWTRefreshSecret) < 32 {
		return fmt.Errorf("JWT_REFRESH_SECRET must be set and at least 32 characters (run `generate-keys`)")
	}
	if e.JWTSecret == e.JWTRefreshSecret {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if e.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	switch e.RateLimitStyle {
	case "window", "bucket":
	default:
		return fmt.Errorf("unknown RATE_LIMIT_STRATEGY %q", e.RateLimitStyle)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
