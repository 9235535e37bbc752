package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	SessionHashKey  string
	SessionBlockKey string
	SessionMaxAge   time.Duration
	SecureCookies   bool

	JWTSecret       string
	SuperAdminEmail string

	FirebaseProjectID       string
	FirebaseCredentialsJSON string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	UploadDir     string
	PublicBaseURL string

	// Daily copies of UploadDir; empty disables them.
	BackupDir       string
	BackupRetention time.Duration

	AMQPURL       string
	CheckoutQueue string

	AllowedOrigins []string
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	maxAge, err := time.ParseDuration(getEnv("SESSION_MAX_AGE", "168h"))
	if err != nil {
		return Config{}, fmt.Errorf("SESSION_MAX_AGE: %w", err)
	}

	retention, err := time.ParseDuration(getEnv("BACKUP_RETENTION", "96h"))
	if err != nil {
		return Config{}, fmt.Errorf("BACKUP_RETENTION: %w", err)
	}

	cfg := Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnv("PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),

		SessionHashKey:  os.Getenv("SESSION_SECRET"),
		SessionBlockKey: os.Getenv("SESSION_ENCRYPTION_KEY"),
		SessionMaxAge:   maxAge,

		JWTSecret:       os.Getenv("JWT_SECRET"),
		SuperAdminEmail: os.Getenv("SUPER_ADMIN_EMAIL"),

		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "thevervefashion"),

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		BackupDir:       os.Getenv("BACKUP_DIR"),
		BackupRetention: retention,

		AMQPURL:       os.Getenv("AMQP_URL"),
		CheckoutQueue: getEnv("CHECKOUT_QUEUE", "checkout_requests"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}
	cfg.SecureCookies = getBool("COOKIE_SECURE", !cfg.IsDev())

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsDev() bool { return c.Env == "dev" }

func (c Config) Validate() error {
	var errs []error
	if c.SessionHashKey == "" {
		errs = append(errs, errors.New("SESSION_SECRET must be set"))
	}
	switch len(c.SessionBlockKey) {
	case 16, 24, 32:
	default:
		errs = append(errs, fmt.Errorf("SESSION_ENCRYPTION_KEY must be 16, 24 or 32 bytes, got %d", len(c.SessionBlockKey)))
	}
	if c.JWTSecret == "" && !c.IsDev() {
		errs = append(errs, errors.New("JWT_SECRET must be set outside dev"))
	}
	if c.SessionMaxAge <= 0 {
		errs = append(errs, errors.New("SESSION_MAX_AGE must be positive"))
	}
	return errors.Join(errs...)
}

// DSN returns DATABASE_URL or a key/value DSN built from the DB_* variables.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	sslmode := "require"
	if c.IsDev() {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, sslmode,
	)
}

func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func (c Config) FirebaseEnabled() bool {
	return c.FirebaseProjectID != "" && c.FirebaseCredentialsJSON != ""
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getBool(k string, d bool) bool {
	v, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return d
	}
	return v
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
