package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskdeck/internal/model"
)

// PostgresAuditRepo はPostgreSQLを使用した監査証跡リポジトリ。
// task_auditテーブルへの追記のみを行う。
type PostgresAuditRepo struct {
	db *sql.DB
}

// NewPostgresAuditRepo はPostgresAuditRepoを生成する。
func NewPostgresAuditRepo(db *sql.DB) *PostgresAuditRepo {
	return &PostgresAuditRepo{db: db}
}

// Append は監査レコードを1件追記する。
func (r *PostgresAuditRepo) Append(ctx context.Context, record *model.AuditRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO task_audit (id, task_id, action, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.TaskID, record.Action, []byte(record.Payload), record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AuditRepository = (*PostgresAuditRepo)(nil)
