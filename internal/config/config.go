package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	// S3PublicBaseURL prefixes avatar keys in stored URLs; empty stores s3:// URIs.
	S3PublicBaseURL string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	Verification Verification
	// RegisterCooldown is the minimum gap between two registrations from one client IP.
	RegisterCooldown time.Duration
	// SweepInterval is how often expired codes and cooldown records are evicted.
	SweepInterval time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// Verification tunes email code issuance.
type Verification struct {
	CodeTTL      time.Duration
	SendCooldown time.Duration
	CodeLength   int
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users       string
	UserUniques string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "8080"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:       getEnv("DYNAMO_TABLE_USERS", "users"),
			UserUniques: getEnv("DYNAMO_TABLE_USER_UNIQUES", "user_uniques"),
		},
		S3BucketName:      getEnv("S3_BUCKET_NAME", "smart-campus-avatars"),
		S3PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),
		SMTPHost:          getEnv("SMTP_HOST", "localhost"),
		SMTPPort:          getEnv("SMTP_PORT", "1025"),
		SMTPFrom:          getEnv("SMTP_FROM", "noreply@smartcampus.local"),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		Verification: Verification{
			CodeTTL:      getEnvDuration("VERIFY_CODE_TTL", 10*time.Minute),
			SendCooldown: getEnvDuration("VERIFY_SEND_COOLDOWN", 60*time.Second),
			CodeLength:   getEnvInt("VERIFY_CODE_LENGTH", 6),
		},
		RegisterCooldown: getEnvDuration("REGISTER_COOLDOWN", 30*time.Second),
		SweepInterval:    getEnvDuration("SWEEP_INTERVAL", 30*time.Second),
		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
	}
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "10m") or bare seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
