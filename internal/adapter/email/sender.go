package email

import (
	"context"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/Temutjin2k/cab-billing-system/config"
	"github.com/Temutjin2k/cab-billing-system/pkg/logger"
)

// Sender delivers invoice PDFs over SMTP.
type Sender struct {
	dialer *gomail.Dialer
	from   string

	log logger.Logger
}

func NewSender(cfg config.SMTPConfig, log logger.Logger) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

// SendInvoice emails the rendered PDF as an attachment.
func (s *Sender) SendInvoice(ctx context.Context, to, subject string, pdf []byte, filename string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", "Please find your ride invoice attached.")
	m.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("email sender: %w", err)
	}

	s.log.Debug(ctx, "invoice email delivered", "to", to, "attachment", filename)
	return nil
}
