package model

import (
	"encoding/json"
	"time"
)

// AuditAction は監査レコードの操作種別を表す。
type AuditAction string

const (
	// AuditCreate はタスク作成の監査操作。
	AuditCreate AuditAction = "CREATE"
	// AuditUpdate はタスク更新の監査操作。
	AuditUpdate AuditAction = "UPDATE"
	// AuditDelete はタスク削除の監査操作。
	AuditDelete AuditAction = "DELETE"
)

// AuditRecord はタスク変更の監査証跡1件を表す。
// 追記専用であり、更新・削除されることはない。
// 書き込みはベストエフォートで、失敗しても主操作をロールバックしない。
type AuditRecord struct {
	ID        string          `json:"auditId"`
	TaskID    string          `json:"taskId"`
	Action    AuditAction     `json:"action"`
	Payload   json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"timestamp"`
}
