package pkg

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

// ModerationNoticeHTML 审核通知的邮件模板
func ModerationNoticeHTML(subject, body string) string {
	return fmt.Sprintf(`<p>您好，</p><p><b>%s</b></p><p>%s</p><p>此邮件由系统发送，请勿直接回复。</p>`, subject, body)
}
