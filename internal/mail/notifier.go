package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/portfolio/internal/contact"
	"github.com/2beens/portfolio/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	gomail "github.com/wneessen/go-mail"
	"go.opentelemetry.io/otel/codes"
)

const defaultPort = 587

var _ contact.Notifier = (*SMTPNotifier)(nil)

type SMTPParams struct {
	Host     string
	Port     int
	Username string
	Password string
	// From defaults to Username.
	From string
	To   string
}

// SMTPNotifier mails the site owner about new contact messages, over STARTTLS.
type SMTPNotifier struct {
	params  SMTPParams
	timeout time.Duration
}

func NewSMTPNotifier(params SMTPParams) *SMTPNotifier {
	if params.Port == 0 {
		params.Port = defaultPort
	}
	if params.From == "" {
		params.From = params.Username
	}
	return &SMTPNotifier{
		params:  params,
		timeout: 15 * time.Second,
	}
}

func (n *SMTPNotifier) NotifyNewMessage(ctx context.Context, message contact.Message) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mail.notifyNewMessage")
	defer span.End()

	msg, err := n.newMsg(message)
	if err != nil {
		span.SetStatus(codes.Error, "build-message")
		span.RecordError(err)
		return err
	}

	client, err := gomail.NewClient(
		n.params.Host,
		gomail.WithPort(n.params.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(n.params.Username),
		gomail.WithPassword(n.params.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(n.timeout),
	)
	if err != nil {
		span.SetStatus(codes.Error, "new-client")
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		span.SetStatus(codes.Error, "send")
		span.RecordError(err)
		return fmt.Errorf("send contact notification: %w", err)
	}

	log.Debugf("contact notification for message %d sent to %s", message.ID, n.params.To)
	span.SetStatus(codes.Ok, "ok")
	return nil
}

func (n *SMTPNotifier) newMsg(message contact.Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(n.params.From); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(n.params.To); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	if err := msg.ReplyTo(message.Email); err != nil {
		return nil, fmt.Errorf("set reply-to: %w", err)
	}
	msg.Subject("New Portfolio Message from " + message.Name)
	msg.SetBodyString(gomail.TypeTextPlain, body(message))

	return msg, nil
}

func body(message contact.Message) string {
	var sb strings.Builder
	sb.WriteString("You received a new message through the portfolio contact form.\n\n")
	fmt.Fprintf(&sb, "Name: %s\n", message.Name)
	fmt.Fprintf(&sb, "Email: %s\n", message.Email)
	if !message.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "Received: %s\n", message.CreatedAt.Format(time.RFC1123))
	}
	sb.WriteString("\n")
	sb.WriteString(message.Message)
	sb.WriteString("\n")
	return sb.String()
}
