package notify

import (
	"context"
	"log/slog"

	"github.com/hitoshi/taskdeck/internal/mail"
	"github.com/hitoshi/taskdeck/internal/metrics"
)

// 通知種別のメトリクスラベル
const (
	kindNewTask      = "new_task"
	kindStatusUpdate = "status_update"
)

// AssumedChecker は通知経路用のアカウント有効性照会。
// 照会に失敗した場合は有効と見なす実装が渡されることを想定する。
type AssumedChecker interface {
	IsActiveAssumed(ctx context.Context, email string) bool
}

// Notifier はタスク変更イベントをメール通知に変換する。
type Notifier struct {
	sender     mail.Sender
	checker    AssumedChecker
	metrics    metrics.MetricsCollector
	adminEmail string
}

// NewNotifier はNotifierを生成する。
func NewNotifier(sender mail.Sender, checker AssumedChecker, collector metrics.MetricsCollector, adminEmail string) *Notifier {
	return &Notifier{
		sender:     sender,
		checker:    checker,
		metrics:    collector,
		adminEmail: adminEmail,
	}
}

// HandleEvent はイベント1件を処理する。
// 宛先ごとの送信失敗は他の宛先の送信を妨げない。
func (n *Notifier) HandleEvent(ctx context.Context, event *ChangeEvent) {
	switch event.Action {
	case ActionInsert:
		n.handleInsert(ctx, event)
	case ActionUpdate:
		n.handleUpdate(ctx, event)
	case ActionDelete:
		// 削除は通知しない
	}
}

// handleInsert は新規タスクの担当者へ割り当て通知を送る。
func (n *Notifier) handleInsert(ctx context.Context, event *ChangeEvent) {
	task := event.New
	if task == nil {
		return
	}

	subject, body := mail.NewTaskMessage(task.Title, task.Description)
	for _, email := range task.AssignedTo {
		if !n.checker.IsActiveAssumed(ctx, email) {
			slog.Info("skipping notification to inactive assignee",
				slog.String("task_id", task.ID),
				slog.String("email", email),
			)
			continue
		}
		n.send(ctx, kindNewTask, task.ID, email, subject, body)
	}
}

// handleUpdate はステータスが変化した場合に担当者と管理者へ通知を送る。
// ステータス以外の変更は通知しない。
func (n *Notifier) handleUpdate(ctx context.Context, event *ChangeEvent) {
	oldTask, newTask := event.Old, event.New
	if oldTask == nil || newTask == nil || oldTask.Status == newTask.Status {
		return
	}

	subject, body := mail.StatusUpdateMessage(
		newTask.Title, string(oldTask.Status), string(newTask.Status))

	adminMailed := false
	for _, email := range newTask.AssignedTo {
		if !n.checker.IsActiveAssumed(ctx, email) {
			slog.Info("skipping notification to inactive assignee",
				slog.String("task_id", newTask.ID),
				slog.String("email", email),
			)
			continue
		}
		n.send(ctx, kindStatusUpdate, newTask.ID, email, subject, body)
		if email == n.adminEmail {
			adminMailed = true
		}
	}

	// 管理者は担当かどうかに関わらず通知対象。担当者として送信済みの場合のみ省く。
	if n.adminEmail != "" && !adminMailed && n.checker.IsActiveAssumed(ctx, n.adminEmail) {
		n.send(ctx, kindStatusUpdate, newTask.ID, n.adminEmail, subject, body)
	}
}

func (n *Notifier) send(ctx context.Context, kind, taskID, to, subject, body string) {
	if err := n.sender.Send(ctx, to, subject, body); err != nil {
		slog.Error("failed to send notification",
			slog.String("task_id", taskID),
			slog.String("to", to),
			slog.String("kind", kind),
			slog.String("error", err.Error()),
		)
		n.metrics.RecordNotificationFailure(kind)
		return
	}
	n.metrics.RecordNotificationSent(kind)
}
