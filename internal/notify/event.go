// Package notify はタスク変更イベントの購読とメール通知を提供する。
package notify

import (
	"encoding/json"
	"fmt"

	"github.com/hitoshi/taskdeck/internal/model"
)

// イベント種別。トリガー側のlower(TG_OP)に対応する。
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ChangeEvent はタスク1件の変更を表す。
// OldはINSERTでnil、NewはDELETEでnilになる。
type ChangeEvent struct {
	Action string
	Old    *model.Task
	New    *model.Task
}

// taskRow はトリガーが発行するrow_to_json形式の行を受けるための中間表現。
// キーはテーブルのカラム名に一致する。
type taskRow struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	AssignedTo  []string `json:"assigned_to"`
	DueDate     *string  `json:"due_date"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   *string  `json:"updated_at"`
}

func (r *taskRow) toTask() *model.Task {
	if r == nil {
		return nil
	}
	task := &model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      model.TaskStatus(r.Status),
		Priority:    model.TaskPriority(r.Priority),
		AssignedTo:  model.Assignees(r.AssignedTo),
		CreatedAt:   r.CreatedAt,
	}
	if r.DueDate != nil {
		task.DueDate = *r.DueDate
	}
	if r.UpdatedAt != nil {
		task.UpdatedAt = *r.UpdatedAt
	}
	return task
}

// DecodeEvent は通知ペイロード（{action, old, new}のJSON）を復号する。
func DecodeEvent(payload []byte) (*ChangeEvent, error) {
	var envelope struct {
		Action string   `json:"action"`
		Old    *taskRow `json:"old"`
		New    *taskRow `json:"new"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode task event: %w", err)
	}

	switch envelope.Action {
	case ActionInsert, ActionUpdate, ActionDelete:
	default:
		return nil, fmt.Errorf("unknown task event action: %q", envelope.Action)
	}

	return &ChangeEvent{
		Action: envelope.Action,
		Old:    envelope.Old.toTask(),
		New:    envelope.New.toTask(),
	}, nil
}
