package mailer

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPMailer struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

func NewSMTPMailer(host string, port int, from, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		Host: strings.TrimSpace(host),
		Port: port,
		From: strings.TrimSpace(from),
		User: strings.TrimSpace(user),
		Pass: strings.TrimSpace(pass),
	}
}

func (s *SMTPMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return "", fmt.Errorf("empty recipient email")
	}

	var buf bytes.Buffer
	boundary := "mixed-boundary"
	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	// text part
	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", text)

	// html part
	if html != "" {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
		fmt.Fprintf(&buf, "%s\r\n\r\n", html)
	}

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	// Mailpit on 1025: no auth
	if s.User == "" {
		return "", smtp.SendMail(addr, nil, s.From, []string{toEmail}, buf.Bytes())
	}

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	return "", smtp.SendMail(addr, auth, s.From, []string{toEmail}, buf.Bytes())
}

func (s *SMTPMailer) SendBookingConfirmed(toEmail, guestName, roomTitle, transactionID string) error {
	subject := "Booking Successful!"
	text := fmt.Sprintf("You've successfully booked %s through StayWell. Transaction Id: %s", roomTitle, transactionID)
	html := fmt.Sprintf(`<p>You've successfully booked <b>%s</b> through StayWell.</p><p>Transaction Id: %s</p>`, roomTitle, transactionID)

	_, err := s.Send(toEmail, guestName, subject, text, html)
	return err
}

func (s *SMTPMailer) SendRoomBooked(toEmail, guestName, roomTitle string) error {
	subject := "Your room got booked!"
	text := fmt.Sprintf("Get ready to welcome %s to %s.", guestName, roomTitle)
	html := fmt.Sprintf(`<p>Get ready to welcome <b>%s</b> to %s.</p>`, guestName, roomTitle)

	_, err := s.Send(toEmail, "", subject, text, html)
	return err
}
