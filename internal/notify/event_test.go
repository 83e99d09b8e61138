package notify

import (
	"testing"

	"github.com/hitoshi/taskdeck/internal/model"
)

func TestDecodeEvent_Insert(t *testing.T) {
	payload := `{
		"action": "insert",
		"old": null,
		"new": {
			"id": "t1",
			"title": "Deploy",
			"description": "Roll out v2",
			"status": "OPEN",
			"priority": "HIGH",
			"assigned_to": ["alice@x.com", "bob@x.com"],
			"due_date": null,
			"created_at": "2025-06-01T12:00:00Z",
			"updated_at": null
		}
	}`

	event, err := DecodeEvent([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}

	if event.Action != ActionInsert {
		t.Errorf("action = %q", event.Action)
	}
	if event.Old != nil {
		t.Errorf("old = %+v, want nil", event.Old)
	}
	if event.New == nil {
		t.Fatal("new = nil")
	}
	if event.New.ID != "t1" || event.New.Status != model.StatusOpen {
		t.Errorf("new = %+v", event.New)
	}
	if len(event.New.AssignedTo) != 2 {
		t.Errorf("assignees = %v", event.New.AssignedTo)
	}
	if event.New.DueDate != "" || event.New.UpdatedAt != "" {
		t.Errorf("null columns should map to empty strings: %+v", event.New)
	}
}

func TestDecodeEvent_Update(t *testing.T) {
	payload := `{
		"action": "update",
		"old": {"id": "t1", "title": "Deploy", "status": "OPEN", "priority": "LOW", "assigned_to": [], "created_at": "2025-06-01T12:00:00Z"},
		"new": {"id": "t1", "title": "Deploy", "status": "CLOSED", "priority": "LOW", "assigned_to": ["alice@x.com"], "created_at": "2025-06-01T12:00:00Z", "updated_at": "2025-06-02T09:00:00Z"}
	}`

	event, err := DecodeEvent([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}

	if event.Old == nil || event.New == nil {
		t.Fatalf("old/new = %+v / %+v", event.Old, event.New)
	}
	if event.Old.Status != model.StatusOpen || event.New.Status != model.StatusClosed {
		t.Errorf("status transition = %s -> %s", event.Old.Status, event.New.Status)
	}
	if event.New.UpdatedAt != "2025-06-02T09:00:00Z" {
		t.Errorf("updatedAt = %q", event.New.UpdatedAt)
	}
}

func TestDecodeEvent_Delete(t *testing.T) {
	payload := `{
		"action": "delete",
		"old": {"id": "t1", "title": "Deploy", "status": "OPEN", "priority": "LOW", "assigned_to": [], "created_at": "2025-06-01T12:00:00Z"},
		"new": null
	}`

	event, err := DecodeEvent([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if event.Action != ActionDelete || event.New != nil || event.Old == nil {
		t.Errorf("event = %+v", event)
	}
}

func TestDecodeEvent_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "malformed json", payload: `{`},
		{name: "unknown action", payload: `{"action": "truncate"}`},
		{name: "empty action", payload: `{"old": null, "new": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeEvent([]byte(tt.payload)); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}
