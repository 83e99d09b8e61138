package config

import (
	"reflect"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/taskdeck?sslmode=disable")
	t.Setenv("AUTH_TOKEN_SECRET", "test-secret")
}

// 必須環境変数が欠けている場合にエラーとなることを検証
func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH_TOKEN_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing required variables")
	}
}

// デフォルト値が適用されることを検証
func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AdminGroup != "Admin" {
		t.Errorf("AdminGroup = %q, want Admin", cfg.AdminGroup)
	}
	if cfg.MemberGroup != "Member" {
		t.Errorf("MemberGroup = %q, want Member", cfg.MemberGroup)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want 120", cfg.RateLimitGeneral)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want 587", cfg.SMTPPort)
	}
	if len(cfg.AllowedDomains) == 0 {
		t.Error("AllowedDomains should have a default")
	}
}

// カンマ区切りのドメイン一覧が分解されることを検証
func TestLoad_AllowedDomains(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_DOMAINS", "x.com, y.org ,z.net")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"x.com", "y.org", "z.net"}
	if !reflect.DeepEqual(cfg.AllowedDomains, want) {
		t.Errorf("AllowedDomains = %v, want %v", cfg.AllowedDomains, want)
	}
}

// 不正な数値は黙ってデフォルトに落ちることを検証
func TestLoad_InvalidIntFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_GENERAL", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want default 120", cfg.RateLimitGeneral)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_GROUP_NAME", "Supervisors")
	t.Setenv("ADMIN_EMAIL", "ops@x.com")
	t.Setenv("DIRECTORY_BASE_URL", "https://idp.internal")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AdminGroup != "Supervisors" {
		t.Errorf("AdminGroup = %q", cfg.AdminGroup)
	}
	if cfg.AdminEmail != "ops@x.com" {
		t.Errorf("AdminEmail = %q", cfg.AdminEmail)
	}
	if cfg.DirectoryBaseURL != "https://idp.internal" {
		t.Errorf("DirectoryBaseURL = %q", cfg.DirectoryBaseURL)
	}
}
