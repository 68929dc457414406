// Package mailer sends transactional emails over SMTP. Bodies are kept to
// plain structural HTML; failures are for the caller to log, never to
// propagate into a payment result.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"hallbook/internal/models"
)

type Config struct {
	Host     string
	Port     string
	From     string
	Password string
	FromName string
}

type Mailer struct {
	cfg Config
}

func New(cfg Config) *Mailer {
	if cfg.FromName == "" {
		cfg.FromName = "HallBook"
	}
	return &Mailer{cfg: cfg}
}

// Configured reports whether SMTP credentials are present. When false, every
// send returns an error and callers skip email delivery.
func (m *Mailer) Configured() bool {
	return m.cfg.From != "" && m.cfg.Password != "" && m.cfg.Host != "" && m.cfg.Port != ""
}

func (m *Mailer) send(to []string, subject, body string) error {
	if !m.Configured() {
		return fmt.Errorf("email configuration not set")
	}

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From),
		"To":           strings.Join(to, ","),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	var msg strings.Builder
	for key, value := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", key, value)
	}
	msg.WriteString("\r\n" + body)

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	return smtp.SendMail(addr, auth, m.cfg.From, to, []byte(msg.String()))
}

func bookingDetailsHTML(booking *models.Booking, hall *models.Hall) string {
	return fmt.Sprintf(`
		<ul>
			<li>Hall: %s</li>
			<li>Date: %s</li>
			<li>Time: %s - %s</li>
			<li>Duration: %.1f hours</li>
			<li>Amount: Rs. %.2f</li>
			<li>Booking ID: %d</li>
		</ul>`,
		hall.Name,
		booking.BookingDate.Format("Monday, 2 January 2006"),
		booking.StartTime, booking.EndTime,
		booking.TotalHours,
		booking.TotalAmount,
		booking.ID,
	)
}

// SendOwnerBookingEmail notifies the hall owner about a paid booking
func (m *Mailer) SendOwnerBookingEmail(owner, customer *models.User, booking *models.Booking, hall *models.Hall) error {
	phone := "Not provided"
	if customer.Phone != nil {
		phone = *customer.Phone
	}

	body := fmt.Sprintf(`
		<h2>New Booking Confirmed</h2>
		<p>Dear %s,</p>
		<p>A customer has booked your hall and completed the payment.</p>
		%s
		<p>Customer: %s (%s, %s)</p>
		<p>Please contact the customer to confirm the booking details.</p>`,
		owner.Name,
		bookingDetailsHTML(booking, hall),
		customer.Name, customer.Email, phone,
	)

	subject := fmt.Sprintf("New Booking Confirmed - %s", hall.Name)
	return m.send([]string{owner.Email}, subject, body)
}

// SendCustomerConfirmationEmail confirms a paid booking to the customer
func (m *Mailer) SendCustomerConfirmationEmail(customer *models.User, booking *models.Booking, hall *models.Hall) error {
	body := fmt.Sprintf(`
		<h2>Booking Confirmed</h2>
		<p>Dear %s,</p>
		<p>Your payment was received and your booking is confirmed.</p>
		%s
		<p>Thank you for booking with us.</p>`,
		customer.Name,
		bookingDetailsHTML(booking, hall),
	)

	subject := fmt.Sprintf("Booking Confirmed - %s", hall.Name)
	return m.send([]string{customer.Email}, subject, body)
}

// SendRefundEmail confirms a processed refund to the customer
func (m *Mailer) SendRefundEmail(customer *models.User, booking *models.Booking, hall *models.Hall) error {
	body := fmt.Sprintf(`
		<h2>Refund Processed</h2>
		<p>Dear %s,</p>
		<p>Your booking has been cancelled and a refund of Rs. %.2f is on its way.</p>
		%s`,
		customer.Name,
		booking.TotalAmount,
		bookingDetailsHTML(booking, hall),
	)

	subject := fmt.Sprintf("Refund Processed - %s", hall.Name)
	return m.send([]string{customer.Email}, subject, body)
}
