package authz

import (
	"context"
	"log/slog"

	"github.com/hitoshi/taskdeck/internal/directory"
)

// statusUnknown はIDプロバイダ上の不定ステータス。有効とは見なさない。
const statusUnknown = "UNKNOWN"

// Checker はIDプロバイダに対するアカウント有効性の照会を提供する。
// providerがnilの場合は未設定として扱う。
type Checker struct {
	provider directory.Provider
}

// NewChecker はCheckerを生成する。
func NewChecker(provider directory.Provider) *Checker {
	return &Checker{provider: provider}
}

// IsActive はアカウントが有効（enabledかつステータスが不定でない）かを返す。
// プロバイダ未設定・照会失敗時はfalseを返す（fail closed）。
// 割り当て検証で使用する。
func (c *Checker) IsActive(ctx context.Context, email string) bool {
	if c.provider == nil {
		return false
	}
	account, err := c.provider.GetAccount(ctx, email)
	if err != nil {
		slog.Error("account status lookup failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return false
	}
	if account == nil {
		return false
	}
	return account.Enabled && account.Status != statusUnknown
}

// IsActiveAssumed はIsActiveと同じ判定を行うが、プロバイダ未設定・照会失敗時は
// trueを返す（assume active）。正当な通知を黙って落とさないため、
// 通知経路でのみ使用する。割り当て検証のfail closedとの非対称は意図的なもの。
func (c *Checker) IsActiveAssumed(ctx context.Context, email string) bool {
	if c.provider == nil {
		return true
	}
	account, err := c.provider.GetAccount(ctx, email)
	if err != nil {
		slog.Error("account status lookup failed, assuming active",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return true
	}
	if account == nil {
		return false
	}
	return account.Enabled && account.Status != statusUnknown
}
