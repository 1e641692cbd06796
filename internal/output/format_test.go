package output_test

import (
	"bytes"
	"testing"
	"time"

	"taskhub/internal/output"
	"taskhub/internal/service"
)

func TestStatusMark(t *testing.T) {
	tests := map[service.Status]string{
		service.StatusDone:       "[x]",
		service.StatusInProgress: "[~]",
		service.StatusTodo:       "[ ]",
		"ARCHIVED":               "[?]",
	}
	for status, want := range tests {
		if got := output.StatusMark(status); got != want {
			t.Errorf("StatusMark(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestFormatTask_NormalizesTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Buy milk", "   3  [ ] LOW    Buy milk\n"},
		{"", "   3  [ ] LOW    (untitled)\n"},
		{"  \t", "   3  [ ] LOW    (untitled)\n"},
		{"two\nlines", "   3  [ ] LOW    two lines\n"},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		output.FormatTask(&buf, "3", service.Task{Title: tc.title, Status: service.StatusTodo, Priority: service.PriorityLow})
		if buf.String() != tc.want {
			t.Errorf("title %q: expected %q, got %q", tc.title, tc.want, buf.String())
		}
	}
}

func TestFormatWorkspace(t *testing.T) {
	var buf bytes.Buffer
	output.FormatWorkspace(&buf, 'c', service.Workspace{Name: "Ops", Role: "MEMBER"})
	output.FormatWorkspace(&buf, 'd', service.Workspace{Name: ""})

	expected := "c) Ops [member]\nd) (untitled)\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatDetail_DueDateAndDescription(t *testing.T) {
	due := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	d := service.TaskDetail{
		Task: service.Task{
			ID: "t9", Title: "Plan", Description: "  quarterly  ",
			Status: service.StatusDone, Priority: service.PriorityMedium, DueDate: &due,
		},
	}

	var buf bytes.Buffer
	output.FormatDetail(&buf, d)

	expected := "Plan\n" +
		"status    [x] DONE\n" +
		"priority  MEDIUM\n" +
		"due       2024-03-01\n" +
		"id        t9\n" +
		"\n" +
		"quarterly\n" +
		"------------\nChecklist (0/0)\n------------\n" +
		"------------\nAttachments\n------------\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatActivity_PhrasesAndZeroTime(t *testing.T) {
	logs := []service.ActivityLog{
		{Action: "CHECK_ITEM_UNDONE", UserName: "Ana", CreatedAt: time.Date(2024, 5, 2, 8, 15, 0, 0, time.UTC)},
		{Action: "RENAMED", UserName: "User"},
	}

	var buf bytes.Buffer
	output.FormatActivity(&buf, logs)

	expected := "------------\nActivity\n------------\n" +
		"  2024-05-02 08:15  Ana unchecked an item\n" +
		"  -  User updated the task\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatMember(t *testing.T) {
	var buf bytes.Buffer
	output.FormatMember(&buf, 12, service.Member{Name: "Ana", Email: "ana@example.com", Role: "OWNER"})

	if buf.String() != "  12  Ana <ana@example.com> owner\n" {
		t.Errorf("unexpected %q", buf.String())
	}
}
