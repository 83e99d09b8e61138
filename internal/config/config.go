// Package config は環境変数からのアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Auth
	TokenSecret string

	// Identity directory（未設定の場合、有効性チェックはポリシーに従う:
	// 割り当て検証ではfail closed、通知経路ではassume active）
	DirectoryBaseURL  string
	DirectoryAPIToken string

	// Groups
	AdminGroup  string
	MemberGroup string

	// Signup
	AllowedDomains []string

	// Notifications
	SenderEmail string
	AdminEmail  string

	// SMTP（未設定の場合はログ出力のみのセンダーにフォールバック）
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	// Rate Limit（req/min/caller）
	RateLimitGeneral    int
	RateLimitTaskCreate int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば先に読み込む（無ければ無視）。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.TokenSecret = os.Getenv("AUTH_TOKEN_SECRET")
	if cfg.TokenSecret == "" {
		missing = append(missing, "AUTH_TOKEN_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.DirectoryBaseURL = getEnvString("DIRECTORY_BASE_URL", "")
	cfg.DirectoryAPIToken = getEnvString("DIRECTORY_API_TOKEN", "")
	cfg.AdminGroup = getEnvString("ADMIN_GROUP_NAME", "Admin")
	cfg.MemberGroup = getEnvString("MEMBER_GROUP_NAME", "Member")
	cfg.AllowedDomains = splitAndTrim(getEnvString("ALLOWED_DOMAINS", "example.com"))
	cfg.SenderEmail = getEnvString("SENDER_EMAIL", "noreply@example.com")
	cfg.AdminEmail = getEnvString("ADMIN_EMAIL", "admin@example.com")
	cfg.SMTPHost = getEnvString("SMTP_HOST", "")
	cfg.SMTPPort = getEnvInt("SMTP_PORT", 587)
	cfg.SMTPUser = getEnvString("SMTP_USER", "")
	cfg.SMTPPassword = getEnvString("SMTP_PASSWORD", "")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitTaskCreate = getEnvInt("RATE_LIMIT_TASK_CREATE", 30)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func splitAndTrim(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
