package mailer

import (
	"fmt"
	"io"

	"github.com/ikitchen/ikitchen-backend/config"
	"github.com/ikitchen/ikitchen-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Mailer delivers the daily report to the configured recipients as a CSV
// attachment.
type Mailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Configured reports whether delivery is possible. Mail is optional: an
// unconfigured mailer is skipped, not an error.
func (m *Mailer) Configured() bool {
	return m.cfg.Host != "" && m.cfg.From != "" && len(m.cfg.Recipients) > 0
}

// SendReport emails the rendered report with the given attachment filename.
func (m *Mailer) SendReport(date, rendered, filename string, lahoreTotal, santoriniTotal string) error {
	if !m.Configured() {
		return fmt.Errorf("mailer is not configured")
	}

	subject := fmt.Sprintf("Daily sales report : %s", date)
	body := fmt.Sprintf(`Please find the daily sales report attached.

Report Summary:
- Date: %s
- Total Sales: %s (Lahore), %s (Santorini)

Best regards,
IKitchen Sales Report System`, date, lahoreTotal, santoriniTotal)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.Recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write([]byte(rendered))
		return err
	}))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if m.cfg.Port == 465 {
		dialer.SSL = true
	}

	if err := dialer.DialAndSend(msg); err != nil {
		logger.Error("Failed to send report email", err, map[string]interface{}{
			"recipients": len(m.cfg.Recipients),
		})
		return err
	}

	logger.Info("Report email sent", map[string]interface{}{
		"date":       date,
		"recipients": len(m.cfg.Recipients),
	})
	return nil
}
