package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/dm/halla-watch/internal/format"
	"github.com/dm/halla-watch/internal/model"
)

// SMTPConfig holds SMTP server settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// EmailConfig holds e-mail notification settings.
type EmailConfig struct {
	Enabled bool       `yaml:"enabled"`
	SMTP    SMTPConfig `yaml:"smtp"`
	From    string     `yaml:"from"`
	To      []string   `yaml:"to"`
	Subject string     `yaml:"subject"`
}

// Validate reports missing fields of an enabled config.
func (c EmailConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch {
	case c.SMTP.Host == "":
		return errors.New("email: smtp.host is required")
	case c.SMTP.Port <= 0:
		return errors.New("email: smtp.port must be positive")
	case c.From == "":
		return errors.New("email: from is required")
	case len(c.To) == 0:
		return errors.New("email: at least one recipient is required")
	}
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier sends a plain-text mail per alert.
type EmailNotifier struct {
	config      EmailConfig
	auth        smtp.Auth
	sendMail    sendMailFunc
	reserveLink string
}

// NewEmailNotifier creates an EmailNotifier. reserveLink is included in
// the body so the watcher can book straight away.
func NewEmailNotifier(cfg EmailConfig, reserveLink string) *EmailNotifier {
	var auth smtp.Auth
	if cfg.SMTP.Username != "" {
		auth = smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host)
	}
	if cfg.Subject == "" {
		cfg.Subject = "Hallasan reservation open"
	}
	return &EmailNotifier{
		config:      cfg,
		auth:        auth,
		sendMail:    smtp.SendMail,
		reserveLink: reserveLink,
	}
}

func (e *EmailNotifier) Notify(ctx context.Context, a model.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", e.config.SMTP.Host, e.config.SMTP.Port)
	msg := e.buildMessage(a.Course.Name+" "+a.Date.Label+" - "+e.config.Subject, e.buildBody(a))
	if err := e.sendMail(addr, e.auth, e.config.From, e.config.To, []byte(msg)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (e *EmailNotifier) buildBody(a model.Alert) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", a.Message())
	fmt.Fprintf(&sb, "Course:    %s (%s)\n", a.Course.Name, a.Course.Seq)
	fmt.Fprintf(&sb, "Date:      %s (%s)\n", a.Date.Label, a.Date.Date)
	fmt.Fprintf(&sb, "Reserved:  %s\n", format.FormatRatio(a.Availability.ReserveCnt, a.Availability.LimitCnt))
	fmt.Fprintf(&sb, "Remaining: %d\n", a.Availability.Remaining())
	fmt.Fprintf(&sb, "Occupancy: %s\n", format.FormatPercent(a.Availability.Occupancy()*100))
	fmt.Fprintf(&sb, "Checked:   %s\n", a.DetectedAt.Format("2006-01-02 15:04:05"))
	if e.reserveLink != "" {
		fmt.Fprintf(&sb, "\nBook now: %s\n", e.reserveLink)
	}
	return sb.String()
}

func (e *EmailNotifier) buildMessage(subject, body string) string {
	headers := map[string]string{
		"From":         e.config.From,
		"To":           strings.Join(e.config.To, ", "),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=UTF-8",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msg strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&msg, "%s: %s\r\n", k, headers[k])
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return msg.String()
}
