package entities

// MailKey is the message key used for change notifications.
const MailKey = "changes"

// Notification is the payload handed to the renderer to build a mail body.
type Notification struct {
	SubjectID    string `json:"subject_id"`
	SubjectLabel string `json:"subject_label"`
	RecordType   string `json:"record_type"`
	RecordID     string `json:"record_id"`
	Diff         Diff   `json:"diff"`
	// Summary is an optional free-text overview of the change.
	Summary string `json:"summary,omitempty"`
}

// MailMessage is a single message handed to the mail transport.
type MailMessage struct {
	Module   string `json:"module"`
	Key      string `json:"key"`
	To       string `json:"to"`
	LangCode string `json:"langcode"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}
