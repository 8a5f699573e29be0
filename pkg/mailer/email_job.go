package mailer

// EmailJob is the JSON payload put on the notification queue.
// Text is the fallback body; HTML is optional.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// PasswordChangedJob builds the notice sent after a successful password change.
func PasswordChangedJob(to, fullName, changedAt string) EmailJob {
	name := fullName
	if name == "" {
		name = to
	}
	return EmailJob{
		To:      to,
		Subject: "Your password was changed",
		Text: "Hi " + name + ",\n\n" +
			"The password for your account was changed at " + changedAt + ".\n" +
			"If this wasn't you, please contact support immediately.",
	}
}
