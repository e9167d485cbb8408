package mail

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/rbaliester/flowdesk/internal/infra/http/middleware"
	"github.com/rbaliester/flowdesk/internal/usecase"
)

var ackTemplate = template.Must(template.New("acknowledgment").Parse(`Hello {{.SenderName}},

Thank you for reaching out. We have received your inquiry and registered it
under reference {{.InquiryID}}.

To help us route your request to the right specialist, please fill in the
attached registration form and reply to this email. A sales representative
will get back to you shortly.

Kind regards,
The FlowDesk Sales Team
`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendAcknowledgment emails the sender a receipt for their inquiry with the
// registration form attached as JSON.
func (s *EmailSender) SendAcknowledgment(to, senderName, inquiryID string, form []byte) error {
	var body bytes.Buffer
	data := AcknowledgmentData{SenderName: senderName, InquiryID: inquiryID}
	if err := ackTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("render acknowledgment template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("We received your inquiry (%s)", inquiryID))
	m.SetBody("text/plain", body.String())
	m.Attach(
		usecase.RegistrationFormFilename(inquiryID),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(form)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/json"}}),
	)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		middleware.RecordAcknowledgmentFailure()
		return fmt.Errorf("send acknowledgment via SMTP: %w", err)
	}
	return nil
}
