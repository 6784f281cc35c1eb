package mailer

import (
	"errors"
	"strings"

	"github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

var (
	// ErrEmptyJob is returned for jobs with neither a template nor a subject and body.
	ErrEmptyJob = errors.New("email job has no template or subject")

	ErrNoRecipient = errors.New("email job has no recipient")
)

// EmailJob is the queued message consumed by the email worker. Account
// emails set Template; ad-hoc messages set Subject with Text or HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
}

// Validate rejects jobs the worker could never deliver.
func (j EmailJob) Validate() error {
	if strings.TrimSpace(j.To) == "" {
		return ErrNoRecipient
	}
	if j.Template == "" && (j.Subject == "" || (j.Text == "" && j.HTML == "")) {
		return ErrEmptyJob
	}
	return nil
}

// Render resolves the subject and bodies to send for job.
func Render(job EmailJob) (subject, text, html string, err error) {
	if err := job.Validate(); err != nil {
		return "", "", "", err
	}
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}

	data := make(map[string]any, len(job.Data)+1)
	for k, v := range job.Data {
		data[k] = v
	}
	if _, ok := data["Email"]; !ok {
		data["Email"] = job.To
	}
	return templates.Render(job.Template, data)
}
