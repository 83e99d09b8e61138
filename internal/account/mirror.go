package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/taskdeck/internal/directory"
	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// Mirror はアカウント確認時にユーザープロファイルをローカルに複製し、
// 既定のメンバーグループへ追加する。
type Mirror struct {
	profiles    repository.ProfileRepository
	provider    directory.Provider
	memberGroup string

	now func() time.Time
}

// NewMirror はMirrorを生成する。providerはnilでもよく、
// その場合グループ追加はスキップされる。
func NewMirror(profiles repository.ProfileRepository, provider directory.Provider, memberGroup string) *Mirror {
	return &Mirror{
		profiles:    profiles,
		provider:    provider,
		memberGroup: memberGroup,
		now:         time.Now,
	}
}

// Confirm はアカウント確認済みユーザーのプロファイルを作成する。
// 既にプロファイルが存在する場合は何もしない（冪等）。
// グループ追加の失敗はプロファイル作成を妨げず、ログに記録するのみとする。
func (m *Mirror) Confirm(ctx context.Context, userID, email, name string) error {
	existing, err := m.profiles.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up profile %s: %w", userID, err)
	}
	if existing != nil {
		slog.Info("profile already mirrored, skipping",
			slog.String("user_id", userID),
		)
		return nil
	}

	now := m.now().UTC().Format(time.RFC3339)
	profile := &model.UserProfile{
		UserID:    userID,
		Email:     email,
		Name:      name,
		Role:      m.memberGroup,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.profiles.Create(ctx, profile); err != nil {
		return fmt.Errorf("failed to create profile %s: %w", userID, err)
	}

	if m.provider != nil {
		if err := m.provider.AddToGroup(ctx, userID, m.memberGroup); err != nil {
			slog.Error("failed to add account to default group",
				slog.String("user_id", userID),
				slog.String("group", m.memberGroup),
				slog.String("error", err.Error()),
			)
		}
	}

	slog.Info("user profile mirrored",
		slog.String("user_id", userID),
		slog.String("email", email),
	)
	return nil
}
