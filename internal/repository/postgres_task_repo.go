package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sort"

	"github.com/lib/pq"

	"github.com/hitoshi/taskdeck/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

const taskColumns = `id, title, description, status, priority, assigned_to, due_date, created_at, updated_at`

// assigneesValue はassigned_toカラム用の配列値を返す。
// 未割り当てのタスクはnilスライスになるため、NOT NULL制約を満たすよう
// 空配列に正規化する（nilのままだとSQL NULLとしてエンコードされる）。
func assigneesValue(a model.Assignees) driver.Valuer {
	s := []string(a)
	if s == nil {
		s = []string{}
	}
	return pq.Array(s)
}

// List は全タスクを取得する。
func (r *PostgresTaskRepo) List(ctx context.Context) ([]*model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListByAssignee は指定メールアドレスが担当者に含まれるタスクを取得する。
func (r *PostgresTaskRepo) ListByAssignee(ctx context.Context, email string) ([]*model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE $1 = ANY(assigned_to) ORDER BY created_at DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by assignee: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	return task, nil
}

// Create はタスクを作成する。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, status, priority, assigned_to, due_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		assigneesValue(task.AssignedTo), task.DueDate, task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// taskFieldColumns は部分更新で受理するフィールドとカラムの対応。
var taskFieldColumns = map[string]string{
	"status":     "status",
	"priority":   "priority",
	"assignedTo": "assigned_to",
	"updatedAt":  "updated_at",
}

// UpdateFields は指定されたフィールドのみの部分更新を永続化する。
// SET句は渡されたフィールドからのみ構築され、他のカラムには触れない。
func (r *PostgresTaskRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}

	// SQLを決定的にするためキー順に組み立てる
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := `UPDATE tasks SET `
	args := make([]any, 0, len(fields)+1)
	for i, key := range keys {
		col, ok := taskFieldColumns[key]
		if !ok {
			return fmt.Errorf("unknown task field: %s", key)
		}
		if i > 0 {
			query += ", "
		}
		value := fields[key]
		if a, ok := value.(model.Assignees); ok {
			value = assigneesValue(a)
		}
		args = append(args, value)
		query += fmt.Sprintf("%s = $%d", col, len(args))
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// Delete は指定IDのタスクを削除し、行が削除されたかどうかを返す。
func (r *PostgresTaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	task := &model.Task{}
	var assignees pq.StringArray
	var dueDate, updatedAt sql.NullString

	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&assignees, &dueDate, &task.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.AssignedTo = model.Assignees(assignees)
	task.DueDate = dueDate.String
	task.UpdatedAt = updatedAt.String
	return task, nil
}

func scanTasks(rows *sql.Rows) ([]*model.Task, error) {
	var tasks []*model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
