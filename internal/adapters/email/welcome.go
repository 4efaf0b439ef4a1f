package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

const (
	welcomeSubject = "Welcome to Curso"
	welcomeTag     = "welcome"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<p>Hi {{.Name}},</p>
<p>Your account is ready. Sign in to see the courses you have been given access to:</p>
<p><a href="{{.LoginURL}}">{{.LoginURL}}</a></p>
<p>If a module shows as locked, ask your instructor to enable it for you.</p>`))

// Welcome builds the sign-up confirmation message.
// PRE: to is a valid address; siteURL has no trailing slash
// POST: HTML body is escaped; an empty name falls back to "there"
func Welcome(to, name, siteURL string) (SendRequest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "there"
	}
	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, struct {
		Name     string
		LoginURL string
	}{Name: name, LoginURL: strings.TrimRight(siteURL, "/") + "/login"})
	if err != nil {
		return SendRequest{}, fmt.Errorf("render welcome email: %w", err)
	}
	return SendRequest{
		To:      []string{to},
		Subject: welcomeSubject,
		HTML:    buf.String(),
		Tag:     welcomeTag,
	}, nil
}
