package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"

	"github.com/vinzencor/student-management-backend/pkg/config"
	"github.com/vinzencor/student-management-backend/pkg/logger"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// ReminderEmail carries everything needed to render one fee reminder.
type ReminderEmail struct {
	ToName       string
	ToEmail      string
	StudentName  string
	Description  string
	AmountCents  int64
	BalanceCents int64
	DueDate      time.Time
}

// SendGrid delivers fee reminders through the SendGrid v3 mail API.
type SendGrid struct {
	key  string
	from *sgmail.Email
	logg *logger.Logger
}

// NewSendGrid builds a SendGrid mailer from configuration.
func NewSendGrid(cfg config.SendgridConfig, logg *logger.Logger) (*SendGrid, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid api key required")
	}
	if cfg.DefaultFrom == "" {
		return nil, fmt.Errorf("sendgrid from email required")
	}
	return &SendGrid{
		key:  cfg.APIKey,
		from: sgmail.NewEmail(cfg.FromName, cfg.DefaultFrom),
		logg: logg,
	}, nil
}

// SendFeeReminder sends a single reminder and reports delivery failure to the
// caller so bulk sends can count successes.
func (s *SendGrid) SendFeeReminder(ctx context.Context, msg ReminderEmail) error {
	if msg.ToEmail == "" {
		return fmt.Errorf("reminder recipient email required")
	}

	req := sendgrid.GetRequest(s.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sending reminder: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sending reminder: status %d: %s", res.StatusCode, res.Body)
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "recipient", msg.ToEmail), "fee reminder sent")
	}
	return nil
}

func (s *SendGrid) prepare(msg ReminderEmail) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = fmt.Sprintf("Fee reminder for %s", msg.StudentName)
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	balance := decimal.NewFromInt(msg.BalanceCents).Shift(-2)
	due := msg.DueDate.Format("02 Jan 2006")

	text := fmt.Sprintf(
		"Dear %s,\n\nThis is a reminder that a fee payment of %s for %s (%s) is due on %s.\n\nPlease arrange payment at your earliest convenience.",
		msg.ToName, balance.StringFixed(2), msg.StudentName, msg.Description, due,
	)
	html := fmt.Sprintf(
		"<p>Dear %s,</p><p>This is a reminder that a fee payment of <strong>%s</strong> for %s (%s) is due on <strong>%s</strong>.</p><p>Please arrange payment at your earliest convenience.</p>",
		msg.ToName, balance.StringFixed(2), msg.StudentName, msg.Description, due,
	)

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", text),
		sgmail.NewContent("text/html", html),
	)
	return m
}
