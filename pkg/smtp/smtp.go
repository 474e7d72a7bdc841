package smtp

import (
	"fmt"
	smtpPkg "net/smtp"
	"os"
	"time"
)

type ItfSmtp interface {
	SendLateArrivalNotice(toEmail string, employeeID string, at time.Time) error
}

type smtp struct {
	auth smtpPkg.Auth
	mail string
	host string
	addr string
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	auth := smtpPkg.PlainAuth("", mail, password, host)

	return &smtp{
		auth: auth,
		mail: mail,
		host: host,
		addr: fmt.Sprintf("%s:%s", host, port),
	}
}

func (s *smtp) SendLateArrivalNotice(toEmail string, employeeID string, at time.Time) error {
	to := []string{toEmail}

	message := []byte(fmt.Sprintf(
		"To: %s\r\nSubject: Late check-in: %s\r\n\r\nEmployee %s checked in late at %s.",
		toEmail, employeeID, employeeID, at.Format("02 Jan 2006 15:04")))

	if err := smtpPkg.SendMail(s.addr, s.auth, s.mail, to, message); err != nil {
		return err
	}

	return nil
}
