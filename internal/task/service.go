// Package task はタスク管理のビジネスロジックを提供する。
package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskdeck/internal/authz"
	"github.com/hitoshi/taskdeck/internal/metrics"
	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// ActivityChecker は割り当て対象アカウントの有効性を照会する。
type ActivityChecker interface {
	IsActive(ctx context.Context, email string) bool
}

// Service はタスクのCRUD・検索・監査を提供する。
type Service struct {
	tasks      repository.TaskRepository
	audits     repository.AuditRepository
	checker    ActivityChecker
	metrics    metrics.MetricsCollector
	adminGroup string

	// テストで差し替えるための生成フック
	now   func() time.Time
	newID func() string
}

// NewService はServiceを生成する。
func NewService(
	tasks repository.TaskRepository,
	audits repository.AuditRepository,
	checker ActivityChecker,
	collector metrics.MetricsCollector,
	adminGroup string,
) *Service {
	return &Service{
		tasks:      tasks,
		audits:     audits,
		checker:    checker,
		metrics:    collector,
		adminGroup: adminGroup,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// CreateInput はタスク作成の入力。
type CreateInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    string          `json:"priority"`
	Assignees   model.Assignees `json:"assignedTo"`
	DueDate     string          `json:"dueDate"`
}

// UpdateInput はタスク更新の入力。nilのフィールドは変更しない。
type UpdateInput struct {
	Status    *string          `json:"status"`
	Priority  *string          `json:"priority"`
	Assignees *model.Assignees `json:"assignedTo"`
}

// List は呼び出し元に見えるタスク一覧を返す。
// 管理者は全件、メンバーは自分が担当者のタスクのみ。
func (s *Service) List(ctx context.Context, claims model.Claims) ([]*model.Task, error) {
	if authz.IsAdmin(claims, s.adminGroup) {
		tasks, err := s.tasks.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		return tasks, nil
	}

	tasks, err := s.tasks.ListByAssignee(ctx, claims.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for %s: %w", claims.Email, err)
	}
	return tasks, nil
}

// Search は呼び出し元に見えるタスクのうち、タイトルまたは説明に
// クエリを含むものを返す。大文字小文字は区別しない。
func (s *Service) Search(ctx context.Context, claims model.Claims, query string) ([]*model.Task, error) {
	tasks, err := s.List(ctx, claims)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tasks, nil
	}

	matched := make([]*model.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// Create はタスクを作成する。管理者のみ実行できる。
func (s *Service) Create(ctx context.Context, claims model.Claims, input CreateInput) (*model.Task, error) {
	if !authz.IsAdmin(claims, s.adminGroup) {
		return nil, model.NewForbiddenError("Only admins can create tasks")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, model.NewValidationError("Title is required")
	}

	priority := model.TaskPriority(input.Priority)
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, model.NewValidationError(fmt.Sprintf("Invalid priority: %s", input.Priority))
	}

	assignees := input.Assignees.Normalize()
	for _, email := range assignees {
		if !s.checker.IsActive(ctx, email) {
			return nil, model.NewValidationError(
				fmt.Sprintf("Assignee %s is inactive or does not exist", email))
		}
	}

	now := s.now().UTC().Format(time.RFC3339)
	task := &model.Task{
		ID:          s.newID(),
		Title:       title,
		Description: input.Description,
		Status:      model.StatusOpen,
		Priority:    priority,
		AssignedTo:  assignees,
		DueDate:     input.DueDate,
		CreatedAt:   now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.appendAudit(ctx, task.ID, model.AuditCreate, map[string]any{
		"createdBy": claims.Email,
		"task":      task,
	})

	return task, nil
}

// Update はタスクを部分更新する。担当者または管理者のみ実行でき、
// 優先度と担当者の変更は管理者に限られる。
func (s *Service) Update(ctx context.Context, claims model.Claims, id string, input UpdateInput) error {
	existing, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load task %s: %w", id, err)
	}
	if existing == nil {
		return model.NewNotFoundError("Task not found")
	}

	if !authz.CanModify(claims, existing.AssignedTo, s.adminGroup) {
		return model.NewForbiddenError("")
	}
	isAdmin := authz.IsAdmin(claims, s.adminGroup)

	fields := make(map[string]any)
	changes := make(map[string]map[string]any)

	if input.Status != nil {
		status := model.TaskStatus(*input.Status)
		if !status.Valid() {
			return model.NewValidationError(fmt.Sprintf("Invalid status: %s", *input.Status))
		}
		fields["status"] = status
		changes["status"] = map[string]any{"old": existing.Status, "new": status}
	}

	if input.Priority != nil {
		if !isAdmin {
			return model.NewForbiddenError("Only admins can change task priority")
		}
		priority := model.TaskPriority(*input.Priority)
		if !priority.Valid() {
			return model.NewValidationError(fmt.Sprintf("Invalid priority: %s", *input.Priority))
		}
		fields["priority"] = priority
		changes["priority"] = map[string]any{"old": existing.Priority, "new": priority}
	}

	if input.Assignees != nil {
		if !isAdmin {
			return model.NewForbiddenError("Only admins can reassign tasks")
		}
		assignees := input.Assignees.Normalize()
		for _, email := range assignees {
			if !s.checker.IsActive(ctx, email) {
				return model.NewValidationError(
					fmt.Sprintf("Assignee %s is inactive or does not exist", email))
			}
		}
		fields["assignedTo"] = assignees
		changes["assignedTo"] = map[string]any{"old": existing.AssignedTo, "new": assignees}
	}

	if len(fields) == 0 {
		return model.NewValidationError("No valid fields to update")
	}

	fields["updatedAt"] = s.now().UTC().Format(time.RFC3339)

	if err := s.tasks.UpdateFields(ctx, id, fields); err != nil {
		return fmt.Errorf("failed to update task %s: %w", id, err)
	}

	s.appendAudit(ctx, id, model.AuditUpdate, map[string]any{
		"updatedBy": claims.Email,
		"changes":   changes,
	})

	return nil
}

// Delete はタスクを削除する。管理者のみ実行できる。
func (s *Service) Delete(ctx context.Context, claims model.Claims, id string) error {
	if !authz.IsAdmin(claims, s.adminGroup) {
		return model.NewForbiddenError("Only admins can delete tasks")
	}

	deleted, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	if !deleted {
		return model.NewNotFoundError("Task not found")
	}

	s.appendAudit(ctx, id, model.AuditDelete, map[string]any{
		"deletedBy": claims.Email,
	})

	return nil
}

// appendAudit は監査レコードをベストエフォートで追記する。
// 監査の失敗は主処理を妨げず、ログとメトリクスに記録するのみとする。
func (s *Service) appendAudit(ctx context.Context, taskID string, action model.AuditAction, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal audit payload",
			slog.String("task_id", taskID),
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
		s.metrics.RecordAuditWriteFailure(string(action))
		return
	}

	record := &model.AuditRecord{
		ID:        s.newID(),
		TaskID:    taskID,
		Action:    action,
		Payload:   data,
		CreatedAt: s.now().UTC(),
	}

	if err := s.audits.Append(ctx, record); err != nil {
		slog.Error("failed to append audit record",
			slog.String("task_id", taskID),
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
		s.metrics.RecordAuditWriteFailure(string(action))
	}
}
