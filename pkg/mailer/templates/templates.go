package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

const (
	Welcome      = "welcome"
	Cancellation = "cancellation"
)

// ErrUnknownTemplate is returned by Render for names outside Welcome and Cancellation.
var ErrUnknownTemplate = errors.New("unknown email template")

// EmailData is the data every account email is rendered with.
type EmailData struct {
	Name    string
	Email   string
	AppName string
}

// ToMap flattens d into the shape carried by a queued job.
func ToMap(d EmailData) map[string]any {
	return map[string]any{"Name": d.Name, "Email": d.Email, "AppName": d.AppName}
}

// set is one email: subject and text bodies use text/template, html is escaped.
type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var sets = map[string]set{
	Welcome:      mustLoad(Welcome),
	Cancellation: mustLoad(Cancellation),
}

// orDefault supports {{ .AppName | default "the app" }}.
func orDefault(fallback string, value any) any {
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return fallback
	}
	return value
}

func mustLoad(name string) set {
	funcs := map[string]any{"default": orDefault}
	return set{
		subject: texttpl.Must(texttpl.New(name + ".subject.tmpl").Funcs(funcs).ParseFS(FS, name+".subject.tmpl")),
		text:    texttpl.Must(texttpl.New(name + ".text.tmpl").Funcs(funcs).ParseFS(FS, name+".text.tmpl")),
		html:    htmpl.Must(htmpl.New(name + ".html.tmpl").Funcs(funcs).ParseFS(FS, name+".html.tmpl")),
	}
}

// Render executes the subject, text and html templates registered under name.
func Render(name string, data any) (subject, text, html string, err error) {
	s, ok := sets[name]
	if !ok {
		return "", "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	var buf bytes.Buffer
	if err = s.subject.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s subject: %w", name, err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err = s.text.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s text: %w", name, err)
	}
	text = buf.String()

	buf.Reset()
	if err = s.html.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s html: %w", name, err)
	}
	return subject, text, buf.String(), nil
}
