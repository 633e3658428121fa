package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDueDate_DateOnly(t *testing.T) {
	var d DueDate
	if err := json.Unmarshal([]byte(`"2025-01-10"`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := d.Ptr()
	if got == nil {
		t.Fatalf("expected a time, got nil")
	}
	want := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected start of day UTC %v, got %v", want, got)
	}
}

func TestDueDate_RFC3339(t *testing.T) {
	var d DueDate
	if err := json.Unmarshal([]byte(`"2025-01-10T15:04:05Z"`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := d.Ptr()
	if got == nil || got.Hour() != 15 {
		t.Fatalf("expected datetime preserved, got %v", got)
	}
}

func TestDueDate_NullAndEmpty(t *testing.T) {
	for _, raw := range []string{`null`, `""`, `"   "`} {
		var d DueDate
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			t.Fatalf("%s: unexpected error: %v", raw, err)
		}
		if d.Ptr() != nil {
			t.Fatalf("%s: expected nil time", raw)
		}
	}
}

func TestDueDate_Invalid(t *testing.T) {
	for _, raw := range []string{`"10/01/2025"`, `"yesterday"`, `42`} {
		var d DueDate
		if err := json.Unmarshal([]byte(raw), &d); err == nil {
			t.Fatalf("%s: expected error", raw)
		}
	}
}

func TestSubtasks_NeverNil(t *testing.T) {
	if got := Subtasks(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
	got := Subtasks([]SubtaskPayload{{ID: "a", Title: "one", Completed: true}})
	if len(got) != 1 || got[0].ID != "a" || !got[0].Completed {
		t.Fatalf("conversion lost data: %v", got)
	}
}
