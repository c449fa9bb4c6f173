package email

import (
	"fmt"
	"strings"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/CijeTheCreator/consultify/internal/prescription"
)

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Sender delivers prescription notifications over SMTP. One dialer, one
// message per call; the worker owns retry behavior.
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSender(cfg SMTPConfig) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   cfg.From,
	}
}

// SendPrescription emails the patient their prescription details.
func (s *Sender) SendPrescription(to, patientName, doctorName string, p *prescription.Prescription) error {
	if to == "" {
		return fmt.Errorf("no recipient address for prescription %s", p.ID)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Your prescription from Dr. %s", doctorName))
	m.SetBody("text/plain", renderBody(patientName, doctorName, p))

	return s.dialer.DialAndSend(m)
}

func renderBody(patientName, doctorName string, p *prescription.Prescription) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", patientName)
	fmt.Fprintf(&b, "Dr. %s has sent you a prescription:\n\n", doctorName)
	for i, med := range p.Medications {
		fmt.Fprintf(&b, "  %d. %s - %s, %s\n", i+1, med.DrugName, med.Amount, med.Frequency)
	}
	fmt.Fprintf(&b, "\nIssued: %s\n", p.CreatedAt.Format(time.RFC1123))
	b.WriteString("\nThis prescription is also available in your consultation chat.\n")
	return b.String()
}
