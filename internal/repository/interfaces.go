// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/taskdeck/internal/model"
)

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// List は全タスクを取得する。
	List(ctx context.Context) ([]*model.Task, error)

	// ListByAssignee は指定メールアドレスが担当者に含まれるタスクを取得する。
	// 担当者が単数形・複数形いずれで保存されていても一致する。
	ListByAssignee(ctx context.Context, email string) ([]*model.Task, error)

	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// Create はタスクを作成する。
	Create(ctx context.Context, task *model.Task) error

	// UpdateFields は指定されたフィールドのみの部分更新を永続化する。
	// 既存レコードの読み取りや全体上書きは行わない。
	// 受理するキー: status, priority, assignedTo, updatedAt
	UpdateFields(ctx context.Context, id string, fields map[string]any) error

	// Delete は指定IDのタスクを削除し、行が削除されたかどうかを返す。
	Delete(ctx context.Context, id string) (bool, error)
}

// AuditRepository は監査証跡の永続化インターフェース。追記専用。
type AuditRepository interface {
	// Append は監査レコードを1件追記する。
	Append(ctx context.Context, record *model.AuditRecord) error
}

// ProfileRepository はIDプロバイダからミラーされた
// ユーザープロファイルの永続化インターフェース。
type ProfileRepository interface {
	// FindByID は指定サブジェクトIDのプロファイルを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, userID string) (*model.UserProfile, error)

	// FindByEmail はメールアドレスでプロファイルを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.UserProfile, error)

	// Create はプロファイルを作成する。
	Create(ctx context.Context, profile *model.UserProfile) error
}
