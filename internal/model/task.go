package model

import "encoding/json"

// TaskStatus はタスクの状態を表す。
type TaskStatus string

const (
	// StatusOpen は未着手のタスク状態。
	StatusOpen TaskStatus = "OPEN"
	// StatusInProgress は作業中のタスク状態。
	StatusInProgress TaskStatus = "IN_PROGRESS"
	// StatusClosed は完了したタスク状態。
	StatusClosed TaskStatus = "CLOSED"
)

// Valid は定義済みのタスク状態かどうかを返す。
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// TaskPriority はタスクの優先度を表す。
type TaskPriority string

const (
	// PriorityLow は低優先度。
	PriorityLow TaskPriority = "LOW"
	// PriorityMedium は中優先度。省略時のデフォルト。
	PriorityMedium TaskPriority = "MEDIUM"
	// PriorityHigh は高優先度。
	PriorityHigh TaskPriority = "HIGH"
)

// Valid は定義済みの優先度かどうかを返す。
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Unassigned は担当者なしを表すワイヤ上のセンチネル値。
const Unassigned = "UNASSIGNED"

// Assignees はタスク担当者のメールアドレス集合を表す。
// 内部では常に順序付き集合として扱い、ワイヤ形式との変換は
// JSONの境界でのみ行う:
//
//	空        ⇄ "UNASSIGNED"
//	要素数1   ⇄ 単一の文字列
//	要素数2以上 ⇄ 文字列の配列
//
// 空のリストがワイヤに現れることはない。
type Assignees []string

// MarshalJSON はワイヤ形式（センチネル/単数/複数）へ畳み込む。
func (a Assignees) MarshalJSON() ([]byte, error) {
	switch len(a) {
	case 0:
		return json.Marshal(Unassigned)
	case 1:
		return json.Marshal(a[0])
	default:
		return json.Marshal([]string(a))
	}
}

// UnmarshalJSON は文字列と配列の両方のワイヤ形式を受理する。
func (a *Assignees) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == Unassigned || single == "" {
			*a = nil
			return nil
		}
		*a = Assignees{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*a = Assignees(list)
	return nil
}

// Normalize は順序を保ったまま重複と空要素、センチネル値を取り除く。
func (a Assignees) Normalize() Assignees {
	if len(a) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a))
	var out Assignees
	for _, email := range a {
		if email == "" || email == Unassigned {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}

// Contains は指定メールアドレスが担当者に含まれるかを返す。
func (a Assignees) Contains(email string) bool {
	for _, e := range a {
		if e == email {
			return true
		}
	}
	return false
}

// Task は1件のタスクを表す。
// タイムスタンプは既存クライアントとのワイヤ互換のためRFC3339文字列で保持する。
type Task struct {
	ID          string       `json:"taskId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssignedTo  Assignees    `json:"assignedTo"`
	DueDate     string       `json:"dueDate,omitempty"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt,omitempty"`
}
