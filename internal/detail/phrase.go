package detail

// Activity actions the server records.
const (
	ActionCheckDone        = "CHECK_ITEM_DONE"
	ActionCheckUndone      = "CHECK_ITEM_UNDONE"
	ActionCheckAdd         = "CHECK_ITEM_ADD"
	ActionAttachmentUpload = "ATTACHMENT_UPLOAD"
	ActionAttachmentRemove = "ATTACHMENT_REMOVE"
)

// Phrase describes an activity action in words, e.g. "Ana uploaded a file".
func Phrase(action string) string {
	switch action {
	case ActionCheckDone:
		return "completed a checklist item"
	case ActionCheckUndone:
		return "unchecked an item"
	case ActionAttachmentUpload:
		return "uploaded a file"
	case ActionAttachmentRemove:
		return "removed a file"
	case ActionCheckAdd:
		return "added an item"
	default:
		return "updated the task"
	}
}
