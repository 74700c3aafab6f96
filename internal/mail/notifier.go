package mail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fixmate/internal/models"

	"go.uber.org/zap"
)

type Options struct {
	From    string
	OwnerTo string
	SiteURL string
	Timeout time.Duration
}

// Notifier dispatches lead and quote emails without blocking the caller.
// Delivery failures are logged and never returned.
type Notifier struct {
	sender Sender
	opts   Options
	log    *zap.Logger
	wg     sync.WaitGroup
}

func NewNotifier(sender Sender, opts Options, log *zap.Logger) *Notifier {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Notifier{sender: sender, opts: opts, log: log}
}

// LeadReceived notifies the owner and, if the lead has an email, the customer.
func (n *Notifier) LeadReceived(lead models.Lead) {
	view := newLeadView(lead, n.opts.SiteURL)

	n.dispatch("owner_lead", lead.ID, func() (Message, error) {
		html, err := render(ownerLeadTmpl, view)
		return Message{
			From:    n.opts.From,
			To:      n.opts.OwnerTo,
			Subject: fmt.Sprintf("[FixMate] New Lead: %s - %s (%s)", lead.Type, lead.Model, lead.Issue),
			HTML:    html,
		}, err
	})

	if lead.Email == nil || *lead.Email == "" {
		return
	}
	n.dispatch("customer_confirmation", lead.ID, func() (Message, error) {
		html, err := render(customerConfirmTmpl, view)
		return Message{
			From:    n.opts.From,
			To:      *lead.Email,
			Subject: "We received your request - FixMate Mobile",
			HTML:    html,
		}, err
	})
}

// QuoteSent emails the final quote to the customer.
func (n *Notifier) QuoteSent(lead models.Lead) {
	if lead.Email == nil || *lead.Email == "" {
		return
	}
	view := newLeadView(lead, n.opts.SiteURL)

	n.dispatch("final_quote", lead.ID, func() (Message, error) {
		html, err := render(finalQuoteTmpl, view)
		return Message{
			From:    n.opts.From,
			To:      *lead.Email,
			Subject: "Your repair quote - FixMate Mobile",
			HTML:    html,
		}, err
	})
}

func (n *Notifier) dispatch(kind, leadID string, build func() (Message, error)) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				n.log.Error("email dispatch panicked",
					zap.String("kind", kind),
					zap.String("lead_id", leadID),
					zap.Any("panic", r),
				)
			}
		}()

		msg, err := build()
		if err != nil {
			n.log.Error("email render failed", zap.String("kind", kind), zap.String("lead_id", leadID), zap.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), n.opts.Timeout)
		defer cancel()

		if err := n.sender.Send(ctx, msg); err != nil {
			n.log.Error("email send failed", zap.String("kind", kind), zap.String("lead_id", leadID), zap.Error(err))
			return
		}
		n.log.Info("email sent", zap.String("kind", kind), zap.String("lead_id", leadID))
	}()
}

// Wait blocks until in-flight sends finish or ctx is done.
func (n *Notifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
