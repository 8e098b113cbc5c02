package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridNotifier struct {
	apiKey string
	from   string
	to     string
}

func NewSendGridNotifier(apiKey, from, to string) *SendGridNotifier {
	return &SendGridNotifier{apiKey: apiKey, from: from, to: to}
}

func (n *SendGridNotifier) Notify(ctx context.Context, summary ImportSummary) error {
	subject := fmt.Sprintf("Archery results import %s complete", summary.SessionID)
	plainTextContent := summary.Text()
	htmlContent := fmt.Sprintf(`
        <html>
        <body>
            <h2>Import complete</h2>
            <p>%s</p>
        </body>
        </html>
    `, strings.ReplaceAll(html.EscapeString(plainTextContent), "\n", "<br>"))

	from := mail.NewEmail("Archery Results", n.from)
	toEmail := mail.NewEmail("", n.to)
	message := mail.NewSingleEmail(from, subject, toEmail, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(n.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: %d - %s", response.StatusCode, response.Body)
	}

	return nil
}
