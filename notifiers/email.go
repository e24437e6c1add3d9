package notifiers

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"net/smtp"
	"text/template"

	"github.com/kova98/threadbrief/models"
)

//go:embed templates/digest.html
var emailTemplates embed.FS

var digestTemplates = template.Must(template.New("emails").ParseFS(emailTemplates, "templates/*.html"))

type Mailer struct {
	smtpHost string
	smtpPort string
	from     string
	password string
}

func NewMailer(smtpHost, smtpPort, from, password string) *Mailer {
	return &Mailer{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		from:     from,
		password: password,
	}
}

// DigestEmail renders the finished digest for a subreddit into an email.
func (h *Mailer) DigestEmail(email, subreddit, date string, posts []models.RenderPost) (models.Email, error) {
	var buf bytes.Buffer
	tmplData := struct {
		Subreddit string
		Date      string
		Posts     []models.RenderPost
	}{
		Subreddit: subreddit,
		Date:      date,
		Posts:     posts,
	}
	if err := digestTemplates.ExecuteTemplate(&buf, "digest.html", tmplData); err != nil {
		return models.Email{}, fmt.Errorf("render digest template: %w", err)
	}

	return models.Email{
		To:      email,
		Subject: fmt.Sprintf("threadbrief: top posts from r/%s", subreddit),
		Body:    buf.String(),
	}, nil
}

func (h *Mailer) Send(mail models.Email) error {
	message := fmt.Sprintf(`From: threadbrief <%s>
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, h.from, mail.To, mail.Subject, mail.Body)

	auth := smtp.PlainAuth("", h.from, h.password, h.smtpHost)
	addr := fmt.Sprintf("%s:%s", h.smtpHost, h.smtpPort)
	err := smtp.SendMail(addr, auth, h.from, []string{mail.To}, []byte(message))
	if err != nil {
		slog.Error("Failed to send email", "error", err)
		return err
	}

	slog.Info("email sent", "recipient", mail.To, "subject", mail.Subject)
	return nil
}
