package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hitoshi/taskdeck/internal/model"
)

// PostgresTaskRepoはTaskRepositoryインターフェースを満たすことを検証
func TestPostgresTaskRepo_ImplementsInterface(t *testing.T) {
	var _ TaskRepository = (*PostgresTaskRepo)(nil)
}

// PostgresAuditRepoはAuditRepositoryインターフェースを満たすことを検証
func TestPostgresAuditRepo_ImplementsInterface(t *testing.T) {
	var _ AuditRepository = (*PostgresAuditRepo)(nil)
}

// PostgresProfileRepoはProfileRepositoryインターフェースを満たすことを検証
func TestPostgresProfileRepo_ImplementsInterface(t *testing.T) {
	var _ ProfileRepository = (*PostgresProfileRepo)(nil)
}

func TestNewPostgresTaskRepo_Initializes(t *testing.T) {
	repo := NewPostgresTaskRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// ユニットテスト: UpdateFieldsは空のフィールド集合を拒否する
// （DB接続なしでロジックのみ検証）
func TestPostgresTaskRepo_UpdateFields_RejectsEmpty(t *testing.T) {
	repo := NewPostgresTaskRepo(nil)
	if err := repo.UpdateFields(context.Background(), "task-1", map[string]any{}); err == nil {
		t.Error("expected error for empty field set")
	}
}

// ユニットテスト: UpdateFieldsは未知のフィールド名を拒否する
func TestPostgresTaskRepo_UpdateFields_RejectsUnknownField(t *testing.T) {
	repo := NewPostgresTaskRepo(nil)
	err := repo.UpdateFields(context.Background(), "task-1", map[string]any{"title": "x"})
	if err == nil {
		t.Error("expected error for unknown field")
	}
}

// ユニットテスト: 未割り当てタスクのassigned_toは空配列としてエンコードされる。
// カラムはNOT NULLのため、nilスライスがSQL NULLになってはならない。
func TestAssigneesValue_UnassignedEncodesAsEmptyArray(t *testing.T) {
	v, err := assigneesValue(model.Assignees(nil).Normalize()).Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v == nil {
		t.Fatal("unassigned task should encode assigned_to as an empty array, not SQL NULL")
	}
	if fmt.Sprintf("%v", v) != "{}" {
		t.Errorf("encoded value = %v, want {}", v)
	}
}

func TestAssigneesValue_EncodesMembers(t *testing.T) {
	v, err := assigneesValue(model.Assignees{"alice@x.com", "bob@x.com"}).Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	encoded := fmt.Sprintf("%v", v)
	if !strings.Contains(encoded, "alice@x.com") || !strings.Contains(encoded, "bob@x.com") {
		t.Errorf("encoded value = %q, want both members", encoded)
	}
}
