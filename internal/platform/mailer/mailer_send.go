package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type Mailer struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	Enabled bool
}

func NewMailer(apiKey, fromName, fromEmail string) *Mailer {
	m := &Mailer{
		Enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
	if m.Enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

func (m *Mailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	if !m.Enabled {
		return "", errors.New("mailer disabled (missing MAILERSEND_API_KEY or SMTP_FROM)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	// MailerSend uses X-Message-Id
	return res.Header.Get("X-Message-Id"), nil
}

func (m *Mailer) SendBookingConfirmed(toEmail, guestName, roomTitle, transactionID string) error {
	subject := "Booking Successful!"
	text := fmt.Sprintf("You've successfully booked %s through StayWell. Transaction Id: %s", roomTitle, transactionID)
	html := fmt.Sprintf(`<p>You've successfully booked <b>%s</b> through StayWell.</p><p>Transaction Id: %s</p>`, roomTitle, transactionID)
	_, err := m.Send(toEmail, guestName, subject, text, html)
	return err
}

func (m *Mailer) SendRoomBooked(toEmail, guestName, roomTitle string) error {
	subject := "Your room got booked!"
	text := fmt.Sprintf("Get ready to welcome %s to %s.", guestName, roomTitle)
	html := fmt.Sprintf(`<p>Get ready to welcome <b>%s</b> to %s.</p>`, guestName, roomTitle)
	_, err := m.Send(toEmail, "", subject, text, html)
	return err
}
