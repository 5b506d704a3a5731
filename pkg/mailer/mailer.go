package mailer

import (
	"fmt"

	"goride/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer delivers one-time reset codes out-of-band. Injected into the auth
// service so tests can substitute a recorder.
type Mailer interface {
	SendOTP(email, code string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func NewSMTPMailer(config utils.EmailConfig, log *zap.Logger) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(config.Host, config.Port, config.User, config.Password),
		from:   config.From,
		log:    log.With(zap.String("component", "mailer")),
	}
}

func (m *smtpMailer) SendOTP(email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "GoRide - Password Reset OTP")
	msg.SetBody("text/html", otpBody(code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("Failed to send OTP email",
			zap.Error(err),
			zap.String("email", email),
		)
		return fmt.Errorf("send OTP to %s: %w", email, err)
	}

	m.log.Info("OTP email sent", zap.String("email", email))
	return nil
}

func otpBody(code string) string {
	return fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #e0e0e0; rounded: 10px;">
        <h2 style="color: #10b981; text-align: center;">GoRide Password Reset</h2>
        <p>Hello,</p>
        <p>You requested to reset your password. Use the following OTP to proceed:</p>
        <div style="background: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px; color: #064e3b; border-radius: 8px;">
          %s
        </div>
        <p>This OTP is valid for 10 minutes. If you did not request this, please ignore this email.</p>
        <hr style="border: 0; border-top: 1px solid #e0e0e0; margin: 20px 0;">
        <p style="font-size: 12px; color: #9ca3af; text-align: center;">&copy; 2026 GoRide Platforms Inc.</p>
      </div>
    `, code)
}
