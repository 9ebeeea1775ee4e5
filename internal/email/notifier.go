// Package email sends quotation notifications over SMTP. Delivery is
// best-effort: a failed send is logged and never fails the operation
// that triggered it.
package email

import (
	"context"
	"fmt"

	domainevents "cotizador_backend/internal/events"
	"cotizador_backend/internal/quotations/domain"
	"cotizador_backend/platform/config"
	"cotizador_backend/platform/events"
	"cotizador_backend/platform/logger"

	mail "github.com/wneessen/go-mail"
)

// Notifier listens for quotation state changes and mails the customer
// when a quotation is sent to them.
type Notifier struct {
	cfg config.EmailConfig
	log *logger.Logger
}

// NewNotifier creates an email notifier.
func NewNotifier(cfg config.EmailConfig, log *logger.Logger) *Notifier {
	return &Notifier{cfg: cfg, log: log}
}

// Subscribe registers the notifier on the event bus. When email is
// disabled nothing is registered and events flow by unanswered.
func (n *Notifier) Subscribe(bus events.Bus) {
	if !n.cfg.GetEmailEnabled() {
		n.log.Info("email notifications disabled")
		return
	}
	bus.Subscribe(domainevents.QuotationStateChangedName, events.HandlerFunc(n.handleStateChanged))
}

func (n *Notifier) handleStateChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(domainevents.QuotationStateChanged)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if changed.ToState != domain.StateSent {
		return nil
	}
	if changed.ContactEmail == "" {
		n.log.Warn("quotation has no contact email", "number", changed.Number)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(n.cfg.GetEmailFromName(), n.cfg.GetEmailFromAddress()); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(changed.ContactEmail); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(fmt.Sprintf("Quotation %s is ready", changed.Number))
	msg.SetBodyString(mail.TypeTextPlain, n.renderBody(changed))

	client, err := mail.NewClient(n.cfg.GetSMTPHost(),
		mail.WithPort(n.cfg.GetSMTPPort()),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.GetSMTPUsername()),
		mail.WithPassword(n.cfg.GetSMTPPassword()),
	)
	if err != nil {
		return fmt.Errorf("failed to build smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send quotation email: %w", err)
	}

	n.log.Info("quotation email sent",
		"number", changed.Number,
		"recipient", changed.ContactEmail,
	)
	return nil
}

func (n *Notifier) renderBody(changed domainevents.QuotationStateChanged) string {
	return fmt.Sprintf(
		"Hello %s,\n\nYour quotation %s for a total of %s is ready for review.\n\nRegards,\n%s\n",
		changed.ContactName, changed.Number, changed.Total, n.cfg.GetEmailFromName(),
	)
}
