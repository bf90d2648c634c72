package services

import (
	"bytes"
	"coworking_app_go/config"
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	if len(email.To) == 0 {
		return ValidationError("email has no recipients")
	}

	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return UpstreamError(nil, "RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}
	if params.Html == "" && params.Text == "" {
		return ValidationError("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return UpstreamError(err, "failed to send email via Resend")
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode, not sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	log.Printf("%s\n", separator)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// SendEmailAsync sends an email in a goroutine so handlers do not block on Resend
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

var reportEmailTemplate = template.Must(template.New("report_email").Parse(`<html><body>
<h2>{{.Title}}</h2>
<p><strong>Escopo:</strong> {{.Scope}}</p>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}<hr>
<p style="color:#666;font-size:12px">Relatório gerado automaticamente pelo sistema de coworking.</p>
</body></html>`))

type reportEmailData struct {
	Title      string
	Scope      string
	Paragraphs []template.HTML
}

// BuildReportEmail wraps generated report text in an email.
// Model output is untrusted: each paragraph is sanitized before it reaches the HTML body.
func BuildReportEmail(to, title, scope, content string) (*Email, error) {
	policy := bluemonday.UGCPolicy()
	data := reportEmailData{Title: title, Scope: scope}
	for _, block := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		safe := policy.Sanitize(strings.ReplaceAll(block, "\n", "<br>"))
		data.Paragraphs = append(data.Paragraphs, template.HTML(safe))
	}

	var buf bytes.Buffer
	if err := reportEmailTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render report email: %w", err)
	}

	return &Email{
		To:       []string{to},
		Subject:  title,
		HTMLBody: buf.String(),
		TextBody: content,
	}, nil
}
