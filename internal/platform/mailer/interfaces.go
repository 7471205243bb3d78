package mailer

// Service delivers transactional email. Delivery is best-effort everywhere
// it is used; failures are logged, never surfaced to the API caller.
type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendBookingConfirmed(toEmail, guestName, roomTitle, transactionID string) error
	SendRoomBooked(toEmail, guestName, roomTitle string) error
}
