// Package reminder emails staff who still hold assets at the end-of-day
// cutoff. Failures are logged and never surfaced to end users; the job runs
// again the next day.
package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"assettrack/internal/core/civil"
	"assettrack/internal/domain/report"
	"assettrack/internal/domain/staff"
	"assettrack/pkg/logger"
)

// Sender delivers a single mail message.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPConfig holds mail transport configuration.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	config SMTPConfig
}

// NewSMTPSender creates an SMTP-backed sender.
func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{config: config}
}

// Send implements Sender.
func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.config.Host, s.config.Port, s.config.User, s.config.Password)
	return d.DialAndSend(m)
}

// Service builds and sends overdue-return reminders.
type Service struct {
	reports *report.Service
	staff   *staff.Service
	sender  Sender
	now     func() time.Time
}

// NewService creates a reminder service.
func NewService(reports *report.Service, staffSvc *staff.Service, sender Sender) *Service {
	return &Service{reports: reports, staff: staffSvc, sender: sender, now: time.Now}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run sends one reminder per staff member holding outstanding assets today.
// Individual delivery failures are logged and do not stop the run.
func (s *Service) Run(ctx context.Context) error {
	date := civil.Today(s.now())

	rep, err := s.reports.Daily(ctx, date)
	if err != nil {
		return fmt.Errorf("build daily report: %w", err)
	}
	if len(rep.Outstanding) == 0 {
		return nil
	}

	members, err := s.staff.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list staff: %w", err)
	}
	emailByCode := make(map[string]string, len(members))
	for _, st := range members {
		emailByCode[st.Code] = st.Email
	}

	byStaff := map[string][]report.OutstandingAsset{}
	for _, asset := range rep.Outstanding {
		byStaff[asset.StaffCode] = append(byStaff[asset.StaffCode], asset)
	}

	sent := 0
	for code, assets := range byStaff {
		email := emailByCode[code]
		if email == "" {
			logger.Warn(ctx, "no email for staff with outstanding assets", "staff_code", code)
			continue
		}
		if err := s.sender.Send(email, subject(date), body(date, assets)); err != nil {
			logger.Error(ctx, "reminder delivery failed", "staff_code", code, "error", err)
			continue
		}
		sent++
	}

	logger.Info(ctx, "reminders sent", "date", date, "staff", len(byStaff), "delivered", sent)
	return nil
}

func subject(date string) string {
	return fmt.Sprintf("Asset return reminder %s", date)
}

func body(date string, assets []report.OutstandingAsset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following assets checked out on %s have not been returned:\n\n", date)
	for _, a := range assets {
		fmt.Fprintf(&b, "  - asset %d/%d, room %s\n", a.AssetYear, a.AssetCode, a.Room)
	}
	b.WriteString("\nPlease check them in before the end of day.\n")
	return b.String()
}
