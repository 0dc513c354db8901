package smtp

import (
	"fmt"
	smtpPkg "net/smtp"
	"os"
)

type ItfSmtp interface {
	SendHandoffAlert(clientPhone, clientName, lastMessage string) error
}

type smtp struct {
	auth       smtpPkg.Auth
	mail       string
	staffInbox string
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")
	staffInbox := os.Getenv("STAFF_ALERT_EMAIL")
	auth := smtpPkg.PlainAuth("", mail, password, "smtp.gmail.com")

	return &smtp{auth: auth, mail: mail, staffInbox: staffInbox}
}

// SendHandoffAlert tells the salon staff that the bot stepped aside for a
// client it cannot serve. Best effort, the caller only logs failures.
func (s *smtp) SendHandoffAlert(clientPhone, clientName, lastMessage string) error {
	if s.staffInbox == "" {
		return fmt.Errorf("STAFF_ALERT_EMAIL not configured")
	}

	to := []string{s.staffInbox}
	name := clientName
	if name == "" {
		name = "cliente sin nombre"
	}

	message := []byte(fmt.Sprintf(
		"To: %s\r\nSubject: Cliente esperando atencion personal\r\n\r\n%s (%s) pidio un servicio que el bot no agenda.\r\nUltimo mensaje: %q\r\nEl bot dejo de responderle hasta que alguien tome la conversacion.",
		s.staffInbox, name, clientPhone, lastMessage))

	if err := smtpPkg.SendMail("smtp.gmail.com:587", s.auth, s.mail, to, message); err != nil {
		return err
	}

	return nil
}
