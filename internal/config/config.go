package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	JWTSecret         string
	SessionTTL        time.Duration
	AllowOrigins      []string
	FrontendBaseURL   string
	CookieDomain      string
	CookieSecure      bool
	LogstashTCPAddr   string
	MinIOEndpoint     string
	MinIOAccessKey    string
	MinIOSecretKey    string
	MinIOUseSSL       bool
	MinIOBucketAvatar string
	MinIOPublicURL    string
	AvatarMaxBytes    int64
	FFMPEGPath        string
	SMTPHost          string
	SMTPPort          string
	SMTPUsername      string
	SMTPPassword      string
	SMTPFrom          string
	PasswordResetTTL  time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	return Config{
		Port:              getenv("PORT", "8080"),
		DatabaseURL:       must("DATABASE_URL"),
		JWTSecret:         must("JWT_SECRET"),
		SessionTTL:        duration("SESSION_TTL", 24*time.Hour),
		AllowOrigins:      splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		FrontendBaseURL:   getenv("FRONTEND_BASE_URL", "http://localhost:3000"),
		CookieDomain:      getenv("COOKIE_DOMAIN", ""),
		CookieSecure:      getenv("COOKIE_SECURE", "false") == "true",
		LogstashTCPAddr:   getenv("LOGSTASH_TCP_ADDR", ""),
		MinIOEndpoint:     getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:    getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:    getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:       getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketAvatar: getenv("MINIO_BUCKET_AVATAR", "account-avatars"),
		MinIOPublicURL:    getenv("MINIO_PUBLIC_URL", ""),
		AvatarMaxBytes:    bytesize("AVATAR_MAX_BYTES", 5*1024*1024),
		FFMPEGPath:        getenv("FFMPEG_PATH", ""),
		SMTPHost:          getenv("SMTP_HOST", ""),
		SMTPPort:          getenv("SMTP_PORT", "587"),
		SMTPUsername:      getenv("SMTP_USERNAME", ""),
		SMTPPassword:      getenv("SMTP_PASSWORD", ""),
		SMTPFrom:          getenv("SMTP_FROM", ""),
		PasswordResetTTL:  duration("PASSWORD_RESET_TTL", 30*time.Minute),
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func duration(k string, d time.Duration) time.Duration {
	raw := getenv(k, "")
	if raw == "" {
		return d
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", k, raw, d)
		return d
	}
	return v
}

func bytesize(k string, d int64) int64 {
	raw := getenv(k, "")
	if raw == "" {
		return d
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s=%q, using %d", k, raw, d)
		return d
	}
	return v
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
