package resend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/Emes13/habittrax/internal/remind"
	"github.com/Emes13/habittrax/pkg/habit"
	"github.com/resend/resend-go/v2"
)

type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type ResendNotifier struct {
	From  string
	Email string

	emails emailSender
}

func New(apiKey, from, email string) (*ResendNotifier, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key is required")
	}
	if email == "" {
		return nil, errors.New("notify email is required")
	}
	client := resend.NewClient(apiKey)
	return &ResendNotifier{From: from, Email: email, emails: client.Emails}, nil
}

var emailTemplate = template.Must(template.New("email").Parse(`
<p>Still to do today ({{.Date}}):</p>
<ul>
{{range .Due}}
  <li>{{.Name}} ({{.Slot}}, {{.Status}})</li>
{{end}}
</ul>
`))

func render(date habit.Date, due []remind.Due) (string, error) {
	data := struct {
		Date string
		Due  []remind.Due
	}{
		Date: date.String(),
		Due:  due,
	}
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *ResendNotifier) Notify(ctx context.Context, date habit.Date, due []remind.Due) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	html, err := render(date, due)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    r.From,
		To:      []string{r.Email},
		Subject: fmt.Sprintf("%d habit reminder(s) for %s", len(due), date),
		Html:    html,
	}

	_, err = r.emails.Send(params)
	return err
}

var _ remind.Notifier = (*ResendNotifier)(nil)
