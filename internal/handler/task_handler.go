package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/task"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	// List は呼び出し元に見えるタスク一覧を返す。
	List(ctx context.Context, claims model.Claims) ([]*model.Task, error)
	// Search はタイトル・説明にクエリを含むタスクを返す。
	Search(ctx context.Context, claims model.Claims, query string) ([]*model.Task, error)
	// Create はタスクを作成する。
	Create(ctx context.Context, claims model.Claims, input task.CreateInput) (*model.Task, error)
	// Update はタスクを部分更新する。
	Update(ctx context.Context, claims model.Claims, id string, input task.UpdateInput) error
	// Delete はタスクを削除する。
	Delete(ctx context.Context, claims model.Claims, id string) error
}

// TaskHandler はタスク管理のHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// ListTasks はタスク一覧・検索を処理する。
// GET /tasks?q=<query>
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")

	var (
		tasks []*model.Task
		err   error
	)
	if query != "" {
		tasks, err = h.service.Search(r.Context(), claims, query)
	} else {
		tasks, err = h.service.List(r.Context(), claims)
	}
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	// 空一覧は空のJSON配列で返す
	if tasks == nil {
		tasks = []*model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask はタスク作成を処理する。
// POST /tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var input task.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handleServiceError(w, r, model.NewValidationError("Invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), claims, input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateTask はタスクの部分更新を処理する。
// PUT /tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var input task.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handleServiceError(w, r, model.NewValidationError("Invalid request body"))
		return
	}

	if err := h.service.Update(r.Context(), claims, id, input); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Task updated successfully",
		"taskId":  id,
	})
}

// DeleteTask はタスク削除を処理する。
// DELETE /tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), claims, id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Task deleted successfully",
	})
}
