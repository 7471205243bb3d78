package mailer

import (
	"github.com/staywell/staywell-server/pkg/logger"
)

// DevMailer prints mail to the log instead of sending it.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("[DEV MAIL]",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"text", text,
	)
	return "dev", nil
}

func (d *DevMailer) SendBookingConfirmed(toEmail, guestName, roomTitle, transactionID string) error {
	_, err := d.Send(toEmail, guestName, "Booking Successful!",
		"You've successfully booked "+roomTitle+". Transaction Id: "+transactionID, "")
	return err
}

func (d *DevMailer) SendRoomBooked(toEmail, guestName, roomTitle string) error {
	_, err := d.Send(toEmail, "", "Your room got booked!",
		"Get ready to welcome "+guestName+" to "+roomTitle+".", "")
	return err
}
