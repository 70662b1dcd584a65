// Package notify e-mails admins about new scam reports through SendGrid.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/service"
	"scamwatch/pkg/logger"
)

const queueSize = 64

type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type Config struct {
	APIKey     string
	FromEmail  string
	FromName   string
	Recipients []string
}

// SendgridNotifier queues notifications and sends them from Run, so report
// submission never waits on the mail provider.
type SendgridNotifier struct {
	sender     mailSender
	from       *mail.Email
	recipients []string
	queue      chan *entity.ScamReport
}

// NewSendgridNotifier returns service.NoopNotifier when no API key or
// recipients are configured.
func NewSendgridNotifier(cfg Config) service.Notifier {
	if cfg.APIKey == "" || len(cfg.Recipients) == 0 {
		logger.Info("SendGrid not configured, admin notifications disabled")
		return service.NoopNotifier{}
	}
	return newSendgridNotifier(sendgrid.NewSendClient(cfg.APIKey), cfg)
}

func newSendgridNotifier(sender mailSender, cfg Config) *SendgridNotifier {
	return &SendgridNotifier{
		sender:     sender,
		from:       mail.NewEmail(cfg.FromName, cfg.FromEmail),
		recipients: cfg.Recipients,
		queue:      make(chan *entity.ScamReport, queueSize),
	}
}

// NotifyNewReport enqueues without blocking and fails only when the queue is full.
func (n *SendgridNotifier) NotifyNewReport(ctx context.Context, report *entity.ScamReport) error {
	select {
	case n.queue <- report:
		return nil
	default:
		return fmt.Errorf("notification queue full, dropping report %s", report.ID)
	}
}

// Run sends queued notifications until ctx is done, then drains what is left.
func (n *SendgridNotifier) Run(ctx context.Context) error {
	for {
		select {
		case report := <-n.queue:
			n.send(ctx, report)
		case <-ctx.Done():
			n.drain()
			return nil
		}
	}
}

func (n *SendgridNotifier) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for {
		select {
		case report := <-n.queue:
			n.send(ctx, report)
		default:
			return
		}
	}
}

func (n *SendgridNotifier) send(ctx context.Context, report *entity.ScamReport) {
	response, err := n.sender.SendWithContext(ctx, n.message(report))
	if err == nil && response.StatusCode >= 300 {
		err = fmt.Errorf("sendgrid returned %d: %s", response.StatusCode, response.Body)
	}
	if err != nil {
		logger.WithError(err).WithField("reportId", report.ID).Warn("admin notification failed")
		return
	}
	logger.Debug("admin notification sent for report %s", report.ID)
}

func (n *SendgridNotifier) message(report *entity.ScamReport) *mail.SGMailV3 {
	identifier := service.ExtractIdentifier(report)
	if identifier == "" {
		identifier = "(no identifier)"
	}

	message := mail.NewV3Mail()
	message.SetFrom(n.from)
	message.Subject = fmt.Sprintf("New %s scam report: %s", report.ScamType, identifier)

	p := mail.NewPersonalization()
	for _, r := range n.recipients {
		p.AddTos(mail.NewEmail(r, r))
	}
	message.AddPersonalizations(p)

	message.AddContent(mail.NewContent("text/plain", plainText(report, identifier)))
	return message
}

func plainText(report *entity.ScamReport, identifier string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new scam report was submitted and is awaiting review.\n\n")
	fmt.Fprintf(&b, "Report ID: %s\n", report.ID)
	fmt.Fprintf(&b, "Type: %s\n", report.ScamType)
	fmt.Fprintf(&b, "Identifier: %s\n", identifier)
	fmt.Fprintf(&b, "Incident date: %s\n", report.IncidentDate.Format("2006-01-02"))
	if location := strings.Join(nonEmpty(report.City, report.State, report.Country), ", "); location != "" {
		fmt.Fprintf(&b, "Location: %s\n", location)
	}
	fmt.Fprintf(&b, "Proof attached: %t\n\n", report.HasProof())
	b.WriteString(report.Description)
	b.WriteString("\n")
	return b.String()
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
