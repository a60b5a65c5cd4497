package service

import (
	"context"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"relo-assistant/internal/domain"
	"relo-assistant/internal/email"
	"relo-assistant/internal/fragment"
)

const referralSuccess = `✅ **Connection Successful!**

I've sent your information to our trusted immigration partner.

**What happens next:**

- Our team will review your details and coordinate the introduction
- You'll be contacted within 24 hours to schedule your consultation
- You'll receive expert guidance on your visa options and timeline

In the meantime, would you like help with other parts of your relocation, like housing or temporary accommodation?`

// connectPartner deriva al cliente al especialista de inmigracion. Si falta el
// email lo pide y deja el paso en referral hasta que llegue provide_contact.
func (d *Dispatcher) connectPartner(ctx context.Context, threadID string, say func(string) domain.Message) {
	plan, _ := d.store.Plan()
	if domain.StringOr(plan.UserEmail, "") == "" {
		say("Perfect! Let me connect you with our immigration specialist. I need your email address (and your name, if you'd like) to make the introduction.")
		if d.store.ServiceOf(threadID) == domain.ServiceImmigration {
			_ = d.store.SetWorkflowStep(threadID, StepReferral)
		}
		return
	}

	say("Great! I'm now connecting you with our trusted immigration partner and sending your information to their team...")
	referral := email.BuildReferral(d.referral, plan)
	if err := d.sender.SendReferral(ctx, referral); err != nil {
		d.logger.Error("referral delivery failed", zap.String("thread_id", threadID), zap.Error(err))
		say("I encountered an issue sending your information to our immigration specialist. Please try again in a moment.")
		return
	}

	say(fragment.Markdown(referralSuccess))
	d.store.UpdateRelocationPlan(domain.RelocationPlan{ImmigrationStatus: domain.Ptr("specialist_connected")})
	d.store.AppendSpecialRequirement("Immigration specialist connected")
	if d.store.ServiceOf(threadID) == domain.ServiceImmigration {
		_ = d.store.SetWorkflowStep(threadID, StepDone)
	}
}

// handleProvideContact guarda los datos de contacto y reintenta la derivacion.
func handleProvideContact(c *call) {
	raw := strings.TrimSpace(c.payload.Str("email"))
	addr, err := mail.ParseAddress(raw)
	if raw == "" || err != nil || !strings.Contains(addr.Address, ".") {
		c.reply("Please provide a valid email address so I can connect you with our immigration specialist.")
		return
	}
	update := domain.RelocationPlan{UserEmail: domain.Ptr(addr.Address)}
	if name := strings.TrimSpace(c.payload.Str("name")); name != "" {
		update.UserName = domain.Ptr(name)
	} else if addr.Name != "" {
		update.UserName = domain.Ptr(addr.Name)
	}
	c.update(update)
	c.reply("Thanks! I've saved your contact details.")
	c.d.connectPartner(c.ctx, c.threadID, c.reply)
}
