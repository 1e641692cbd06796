// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskhub/internal/aggregate"
	"taskhub/internal/detail"
	"taskhub/internal/service"
)

const (
	// Separator is the separator line between sections.
	Separator = "------------"

	dateLayout  = "2006-01-02"
	stampLayout = "2006-01-02 15:04"
)

// StatusMark renders a task status as a checkbox.
func StatusMark(s service.Status) string {
	switch s {
	case service.StatusDone:
		return "[x]"
	case service.StatusInProgress:
		return "[~]"
	case service.StatusTodo:
		return "[ ]"
	default:
		return "[?]"
	}
}

// FormatTask formats a task line.
// Format: "{REF:>4}  {MARK} {PRIORITY:<6} {TITLE}\n"
func FormatTask(w io.Writer, ref string, task service.Task) {
	fmt.Fprintf(w, "%4s  %s %-6s %s\n", ref, StatusMark(task.Status), task.Priority, normalizeTitle(task.Title))
}

// FormatTaskWithLetter formats a task line addressed as <letter><n>.
func FormatTaskWithLetter(w io.Writer, letter rune, num int, task service.Task) {
	FormatTask(w, fmt.Sprintf("%c%d", letter, num), task)
}

// FormatHeader formats a section header.
func FormatHeader(w io.Writer, title string) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintln(w, normalizeTitle(title))
	fmt.Fprintln(w, Separator)
}

// FormatWorkspaceHeader formats a workspace section header.
func FormatWorkspaceHeader(w io.Writer, letter rune, ws service.Workspace) {
	FormatHeader(w, fmt.Sprintf("%c) %s", letter, normalizeTitle(ws.Name)))
}

// FormatWorkspace formats a workspace line for the workspaces command.
func FormatWorkspace(w io.Writer, letter rune, ws service.Workspace) {
	line := fmt.Sprintf("%c) %s", letter, normalizeTitle(ws.Name))
	if ws.Role != "" {
		line += " [" + strings.ToLower(ws.Role) + "]"
	}
	fmt.Fprintln(w, line)
}

// FormatDashboard formats the home summary: greeting, counters, the
// priority list and the recent feed.
func FormatDashboard(w io.Writer, d aggregate.Dashboard) {
	name := d.Profile.Name
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	fmt.Fprintf(w, "Hello, %s\n", name)
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "workspaces  %d\n", d.Stats.TotalWorkspaces)
	fmt.Fprintf(w, "tasks       %d\n", d.Stats.TotalTasks)
	fmt.Fprintf(w, "pending     %d\n", d.Stats.PendingTasks)
	fmt.Fprintf(w, "completed   %d\n", d.Stats.CompletedTasks)
	fmt.Fprintf(w, "progress    %d%%\n", d.Stats.Productivity)

	FormatHeader(w, "Priorities")
	if len(d.Priorities) == 0 {
		fmt.Fprintln(w, "  nothing urgent")
	}
	for _, t := range d.Priorities {
		fmt.Fprintf(w, "  %s %-6s %s (%s)\n", StatusMark(t.Status), t.Priority,
			normalizeTitle(t.Title), aggregate.WorkspaceName(d.Workspaces, t.WorkspaceID))
	}

	FormatHeader(w, "Recent")
	if len(d.Recent) == 0 {
		fmt.Fprintln(w, "  no tasks yet")
	}
	for _, t := range d.Recent {
		fmt.Fprintf(w, "  %s %s  %s (%s)\n", StatusMark(t.Status), formatTime(t.CreatedAt, dateLayout),
			normalizeTitle(t.Title), aggregate.WorkspaceName(d.Workspaces, t.WorkspaceID))
	}
}

// FormatDetail formats an open task with its checklist and attachments.
func FormatDetail(w io.Writer, d service.TaskDetail) {
	fmt.Fprintln(w, normalizeTitle(d.Title))
	fmt.Fprintf(w, "status    %s %s\n", StatusMark(d.Status), d.Status)
	fmt.Fprintf(w, "priority  %s\n", d.Priority)
	if d.DueDate != nil {
		fmt.Fprintf(w, "due       %s\n", formatTime(*d.DueDate, dateLayout))
	}
	fmt.Fprintf(w, "id        %s\n", d.ID)
	if desc := strings.TrimSpace(d.Description); desc != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, desc)
	}

	FormatHeader(w, fmt.Sprintf("Checklist (%d/%d)", completed(d.Checklists), len(d.Checklists)))
	for i, item := range d.Checklists {
		FormatChecklistItem(w, i+1, item)
	}

	FormatHeader(w, "Attachments")
	for i, a := range d.Attachments {
		fmt.Fprintf(w, "%4d  %s\n", i+1, normalizeTitle(a.FileName))
	}
}

// FormatChecklistItem formats one checklist line.
func FormatChecklistItem(w io.Writer, num int, item service.ChecklistItem) {
	mark := "[ ]"
	if item.IsCompleted {
		mark = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, mark, normalizeTitle(item.Title))
}

// FormatActivity formats an activity log, newest first as the server sends it.
func FormatActivity(w io.Writer, logs []service.ActivityLog) {
	FormatHeader(w, "Activity")
	for _, l := range logs {
		fmt.Fprintf(w, "  %s  %s %s\n", formatTime(l.CreatedAt, stampLayout), l.UserName, detail.Phrase(l.Action))
	}
}

// FormatMember formats a member line.
func FormatMember(w io.Writer, num int, m service.Member) {
	fmt.Fprintf(w, "%4d  %s <%s> %s\n", num, m.Name, m.Email, strings.ToLower(m.Role))
}

func completed(items []service.ChecklistItem) int {
	n := 0
	for _, item := range items {
		if item.IsCompleted {
			n++
		}
	}
	return n
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(layout)
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
